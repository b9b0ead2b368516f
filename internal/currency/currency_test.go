package currency

import (
	"strings"
	"testing"
)

func TestFormatter_Format(t *testing.T) {
	// x/text joins symbol and amount with a non-breaking space.
	tests := []struct {
		name   string
		locale string
		code   string
		amount float64
		want   string
	}{
		{"us dollars", "en-US", "USD", 3, "$\u00a03.00"},
		{"us dollars cents", "en-US", "USD", 0.15, "$\u00a00.15"},
		{"ill-formed locale falls back to en-US", "!!!", "USD", 45, "$\u00a045.00"},
		{"invalid code falls back to USD", "en-US", "???", 1, "$\u00a01.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(tt.locale, tt.code)
			if got := f.Format(tt.amount); got != tt.want {
				t.Errorf("Format(%v) = %q, want %q", tt.amount, got, tt.want)
			}
		})
	}
}

func TestFormatter_FormatEuro(t *testing.T) {
	f := New("it-IT", "EUR")
	got := f.Format(45)
	if !strings.Contains(got, "€") {
		t.Errorf("Format(45) = %q, want a euro sign in the output", got)
	}
	if !strings.Contains(got, "45") {
		t.Errorf("Format(45) = %q, want the amount in the output", got)
	}
}
