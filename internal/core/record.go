package core

import (
	"errors"
	"sort"
	"time"
)

type (
	Date struct {
		time.Time
	}

	// Calculation is the fuel economy derived for a full-tank fill: the
	// distance covered since the previous full tank divided by the fuel
	// volume consumed over that stretch.
	Calculation struct {
		Mileage float64
	}

	// GasRecord is one logged fill-up. Gallons is a unit-agnostic volume;
	// only the display layer knows whether it means gallons or liters.
	GasRecord struct {
		ID       int64
		Date     Date
		Odometer int64
		Gallons  float64
		Cost     Money
		FullTank bool

		// HideCalc excludes the record's calculation from statistics
		// without deleting the record.
		HideCalc bool

		// Version increments on every mutation and rides along on sync
		// messages so the export worker can skip stale updates.
		Version int64

		Calc *Calculation
	}

	// TripSummary carries the precomputed totals for one reporting month.
	TripSummary struct {
		Distance float64
		Cost     Money
		Gallons  float64
	}
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidOdometer = errors.New("invalid odometer reading")
	ErrInvalidGallons  = errors.New("invalid fuel volume")
	ErrInvalidAmount   = errors.New("invalid amount")
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Year returns the year.
func (d Date) Year() int { return d.Time.Year() }

// Month returns the month as an int.
func (d Date) Month() int { return int(d.Time.Month()) }

// Day returns the day of the month.
func (d Date) Day() int { return d.Time.Day() }

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// HasCalculation reports whether a fuel economy value was derived for
// this record.
func (r GasRecord) HasCalculation() bool { return r.Calc != nil }

func (r GasRecord) Validate() error {
	if err := r.Date.Validate(); err != nil {
		return err
	}
	if r.Odometer <= 0 {
		return ErrInvalidOdometer
	}
	if r.Gallons <= 0 {
		return ErrInvalidGallons
	}
	if err := r.Cost.Validate(); err != nil {
		return err
	}
	return nil
}

// SortByOdometer stable-sorts records ascending by odometer reading.
func SortByOdometer(records []GasRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Odometer < records[j].Odometer
	})
}

// Recalculate derives the fuel economy calculations for a set of records
// in place. Records are first sorted ascending by odometer. A full-tank
// record gets a calculation only when an earlier full tank exists to
// measure from; the consumed volume is the sum of every fill after that
// full tank, this one included. Partial fills never get a calculation.
func Recalculate(records []GasRecord) {
	SortByOdometer(records)

	lastFull := -1
	consumed := 0.0
	for i := range records {
		records[i].Calc = nil
		if lastFull >= 0 {
			consumed += records[i].Gallons
		}
		if !records[i].FullTank {
			continue
		}
		if lastFull >= 0 {
			distance := float64(records[i].Odometer - records[lastFull].Odometer)
			if distance > 0 && consumed > 0 {
				records[i].Calc = &Calculation{Mileage: distance / consumed}
			}
		}
		lastFull = i
		consumed = 0
	}
}
