package report

import (
	"testing"

	"fuelog/internal/core"
)

func calcRecord(odometer int64, mileage float64, hidden bool) core.GasRecord {
	return core.GasRecord{
		Odometer: odometer,
		FullTank: true,
		HideCalc: hidden,
		Calc:     &core.Calculation{Mileage: mileage},
	}
}

func TestAggregate_Mileage(t *testing.T) {
	tests := []struct {
		name    string
		records []core.GasRecord
		wantAvg Metric
		wantMin Metric
		wantMax Metric
	}{
		{
			name:    "no records leaves mileage unavailable",
			records: nil,
		},
		{
			name: "records without calculations leave mileage unavailable",
			records: []core.GasRecord{
				{Odometer: 1000, FullTank: true},
				{Odometer: 1300},
			},
		},
		{
			name: "hidden calculations are excluded",
			records: []core.GasRecord{
				calcRecord(1000, 20, true),
				calcRecord(1300, 30, true),
			},
		},
		{
			name: "three visible samples",
			records: []core.GasRecord{
				calcRecord(1000, 20, false),
				calcRecord(1300, 25, false),
				calcRecord(1600, 30, false),
			},
			wantAvg: Metric{Value: 25, Valid: true},
			wantMin: Metric{Value: 20, Valid: true},
			wantMax: Metric{Value: 30, Valid: true},
		},
		{
			name: "hidden sample does not skew the rest",
			records: []core.GasRecord{
				calcRecord(1000, 20, false),
				calcRecord(1300, 99, true),
				calcRecord(1600, 30, false),
			},
			wantAvg: Metric{Value: 25, Valid: true},
			wantMin: Metric{Value: 20, Valid: true},
			wantMax: Metric{Value: 30, Valid: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := Aggregate(tt.records, core.TripSummary{})
			if stats.MileageAvg != tt.wantAvg {
				t.Errorf("MileageAvg = %+v, want %+v", stats.MileageAvg, tt.wantAvg)
			}
			if stats.MileageMin != tt.wantMin {
				t.Errorf("MileageMin = %+v, want %+v", stats.MileageMin, tt.wantMin)
			}
			if stats.MileageMax != tt.wantMax {
				t.Errorf("MileageMax = %+v, want %+v", stats.MileageMax, tt.wantMax)
			}
		})
	}
}

func TestAggregate_MinNeverExceedsMax(t *testing.T) {
	records := []core.GasRecord{
		calcRecord(1000, 31.7, false),
		calcRecord(1300, 12.4, false),
		calcRecord(1600, 28.9, false),
		calcRecord(1900, 19.2, false),
	}

	stats := Aggregate(records, core.TripSummary{})

	if !stats.MileageMin.Valid || !stats.MileageAvg.Valid || !stats.MileageMax.Valid {
		t.Fatal("expected all mileage metrics to be valid")
	}
	if stats.MileageMin.Value > stats.MileageAvg.Value {
		t.Errorf("min %v > avg %v", stats.MileageMin.Value, stats.MileageAvg.Value)
	}
	if stats.MileageAvg.Value > stats.MileageMax.Value {
		t.Errorf("avg %v > max %v", stats.MileageAvg.Value, stats.MileageMax.Value)
	}
}

func TestAggregate_Ratios(t *testing.T) {
	tests := []struct {
		name     string
		trip     core.TripSummary
		wantCPD  float64
		wantPPG  Metric
	}{
		{
			name:    "normal month",
			trip:    core.TripSummary{Distance: 300, Cost: core.Money{Cents: 4500}, Gallons: 15},
			wantCPD: 0.15,
			wantPPG: Metric{Value: 3, Valid: true},
		},
		{
			name:    "zero distance gives zero cost per distance, not unavailable",
			trip:    core.TripSummary{Distance: 0, Cost: core.Money{Cents: 4500}, Gallons: 15},
			wantCPD: 0,
			wantPPG: Metric{Value: 3, Valid: true},
		},
		{
			name:    "zero volume gives unavailable price, not zero",
			trip:    core.TripSummary{Distance: 300, Cost: core.Money{Cents: 4500}, Gallons: 0},
			wantCPD: 0.15,
			wantPPG: Metric{},
		},
		{
			name:    "negative volume gives unavailable price",
			trip:    core.TripSummary{Distance: 300, Cost: core.Money{Cents: 4500}, Gallons: -1},
			wantCPD: 0.15,
			wantPPG: Metric{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := Aggregate(nil, tt.trip)
			if stats.CostPerDistance != tt.wantCPD {
				t.Errorf("CostPerDistance = %v, want %v", stats.CostPerDistance, tt.wantCPD)
			}
			if stats.PricePerGallon != tt.wantPPG {
				t.Errorf("PricePerGallon = %+v, want %+v", stats.PricePerGallon, tt.wantPPG)
			}
		})
	}
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	records := []core.GasRecord{
		calcRecord(1600, 30, false),
		calcRecord(1000, 20, false),
	}

	Aggregate(records, core.TripSummary{})

	if records[0].Odometer != 1600 || records[1].Odometer != 1000 {
		t.Error("Aggregate reordered the caller's slice")
	}
}

func TestAggregate_OrderIndependent(t *testing.T) {
	a := []core.GasRecord{
		calcRecord(1000, 20, false),
		calcRecord(1300, 25, false),
		calcRecord(1600, 30, false),
	}
	b := []core.GasRecord{a[2], a[0], a[1]}
	trip := core.TripSummary{Distance: 300, Cost: core.Money{Cents: 4500}, Gallons: 15}

	if Aggregate(a, trip) != Aggregate(b, trip) {
		t.Error("aggregates differ across input permutations")
	}
}
