package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"45.00", 4500, false},
		{"45", 4500, false},
		{"3,509", 351, false},  // comma separator, rounds up
		{"3.504", 350, false},  // rounds down
		{".50", 50, false},
		{"0", 0, true},
		{"", 0, true},
		{"-12.00", 0, true},
		{"+12.00", 0, true},
		{"1.2.3", 0, true},
		{"12a", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDecimalToCents(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDecimalToCents(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseDecimalToCents(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestMoney_Amount(t *testing.T) {
	m := Money{Cents: 4550}
	if got := m.Amount(); got != 45.50 {
		t.Errorf("Amount() = %v, want 45.50", got)
	}
}
