// Package report derives aggregate statistics from one month of gas
// records and renders them as an HTML table. It is pure computation:
// no I/O, no errors, a defined output for every input.
package report

import (
	"fuelog/internal/core"
)

// Metric is a single statistic that may be unavailable when there is
// nothing to derive it from. An invalid Metric renders as a dash, never
// as zero.
type Metric struct {
	Value float64
	Valid bool
}

// Stats is the fixed set of statistics derived for one month.
type Stats struct {
	MileageAvg Metric
	MileageMin Metric
	MileageMax Metric

	Distance float64
	Cost     float64
	// CostPerDistance is zero when the month covers no distance. A trip
	// with zero distance is real data, unlike a zero fuel volume, so it
	// does not use the unavailable sentinel.
	CostPerDistance float64
	Gallons         float64
	PricePerGallon  Metric
}

// Aggregate computes the month's statistics from its gas records and
// trip summary. Mileage average, minimum and maximum come from records
// that carry a calculation not marked hidden; distance, cost and fuel
// volume are taken from the summary as-is.
//
// The input slice is never modified: aggregation works on a copy that
// is stable-sorted ascending by odometer before scanning.
func Aggregate(records []core.GasRecord, trip core.TripSummary) Stats {
	working := make([]core.GasRecord, len(records))
	copy(working, records)
	core.SortByOdometer(working)

	var (
		min, max, sum float64
		count         int
	)
	for _, r := range working {
		if !r.HasCalculation() || r.HideCalc {
			continue
		}
		m := r.Calc.Mileage
		if count == 0 || m < min {
			min = m
		}
		if count == 0 || m > max {
			max = m
		}
		sum += m
		count++
	}

	stats := Stats{
		Distance: trip.Distance,
		Cost:     trip.Cost.Amount(),
		Gallons:  trip.Gallons,
	}
	if count > 0 {
		stats.MileageAvg = Metric{Value: sum / float64(count), Valid: true}
		stats.MileageMin = Metric{Value: min, Valid: true}
		stats.MileageMax = Metric{Value: max, Valid: true}
	}
	if stats.Distance > 0 {
		stats.CostPerDistance = stats.Cost / stats.Distance
	}
	if stats.Gallons > 0 {
		stats.PricePerGallon = Metric{Value: stats.Cost / stats.Gallons, Valid: true}
	}
	return stats
}
