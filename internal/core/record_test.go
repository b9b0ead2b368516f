package core

import (
	"errors"
	"testing"
)

func fullTank(odometer int64, gallons float64) GasRecord {
	return GasRecord{Odometer: odometer, Gallons: gallons, FullTank: true}
}

func partialFill(odometer int64, gallons float64) GasRecord {
	return GasRecord{Odometer: odometer, Gallons: gallons}
}

func TestRecalculate(t *testing.T) {
	tests := []struct {
		name    string
		records []GasRecord
		// expected mileage per record after sorting by odometer;
		// nil means no calculation.
		want []*float64
	}{
		{
			name:    "no records",
			records: nil,
			want:    nil,
		},
		{
			name:    "single full tank has nothing to measure from",
			records: []GasRecord{fullTank(1000, 10)},
			want:    []*float64{nil},
		},
		{
			name: "two full tanks",
			records: []GasRecord{
				fullTank(1000, 10),
				fullTank(1300, 10),
			},
			want: []*float64{nil, f(30)},
		},
		{
			name: "partial fill volume counts toward the next full tank",
			records: []GasRecord{
				fullTank(1000, 10),
				partialFill(1100, 5),
				fullTank(1300, 10),
			},
			want: []*float64{nil, nil, f(20)},
		},
		{
			name: "unsorted input is measured in odometer order",
			records: []GasRecord{
				fullTank(1300, 10),
				fullTank(1000, 10),
			},
			want: []*float64{nil, f(30)},
		},
		{
			name: "zero distance between full tanks yields no calculation",
			records: []GasRecord{
				fullTank(1000, 10),
				fullTank(1000, 5),
			},
			want: []*float64{nil, nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Recalculate(tt.records)
			if len(tt.records) != len(tt.want) {
				t.Fatalf("record count = %d, want %d", len(tt.records), len(tt.want))
			}
			for i, want := range tt.want {
				got := tt.records[i].Calc
				switch {
				case want == nil && got != nil:
					t.Errorf("record %d: mileage = %.2f, want none", i, got.Mileage)
				case want != nil && got == nil:
					t.Errorf("record %d: no calculation, want %.2f", i, *want)
				case want != nil && got != nil && got.Mileage != *want:
					t.Errorf("record %d: mileage = %.2f, want %.2f", i, got.Mileage, *want)
				}
			}
		})
	}
}

func f(v float64) *float64 { return &v }

func TestSortByOdometerIsStable(t *testing.T) {
	records := []GasRecord{
		{ID: 1, Odometer: 500},
		{ID: 2, Odometer: 100},
		{ID: 3, Odometer: 100},
	}

	SortByOdometer(records)

	wantIDs := []int64{2, 3, 1}
	for i, want := range wantIDs {
		if records[i].ID != want {
			t.Errorf("records[%d].ID = %d, want %d", i, records[i].ID, want)
		}
	}
}

func TestGasRecord_Validate(t *testing.T) {
	valid := GasRecord{
		Date:     NewDate(2026, 8, 15),
		Odometer: 12000,
		Gallons:  10.5,
		Cost:     Money{Cents: 4500},
		FullTank: true,
	}

	tests := []struct {
		name   string
		mutate func(*GasRecord)
		want   error
	}{
		{"valid record", func(r *GasRecord) {}, nil},
		{"zero date", func(r *GasRecord) { r.Date = Date{} }, ErrInvalidDate},
		{"zero odometer", func(r *GasRecord) { r.Odometer = 0 }, ErrInvalidOdometer},
		{"negative gallons", func(r *GasRecord) { r.Gallons = -1 }, ErrInvalidGallons},
		{"zero cost", func(r *GasRecord) { r.Cost = Money{} }, ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			if err := r.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}
