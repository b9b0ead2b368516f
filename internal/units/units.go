// Package units exposes display labels for the configured measurement
// system. Values in the rest of the application are plain numbers; the
// system in effect only decides what text accompanies them.
package units

// System identifies a measurement system.
type System string

const (
	Imperial System = "imperial"
	Metric   System = "metric"
)

// Units supplies the unit label strings for one measurement system.
type Units struct {
	system System
}

// New returns the Units for the given system, defaulting to imperial
// when the value is unrecognized.
func New(system System) Units {
	switch system {
	case Metric, Imperial:
		return Units{system: system}
	default:
		return Units{system: Imperial}
	}
}

func (u Units) System() System { return u.system }

// DistanceLabel is the short label for distance values.
func (u Units) DistanceLabel() string {
	if u.system == Metric {
		return "km"
	}
	return "mi"
}

// DistanceRatioLabel qualifies a per-distance amount, e.g. cost per mile.
func (u Units) DistanceRatioLabel() string {
	if u.system == Metric {
		return "per kilometer"
	}
	return "per mile"
}

// LiquidVolumeLabel is the label for fuel volume totals.
func (u Units) LiquidVolumeLabel() string {
	if u.system == Metric {
		return "liters"
	}
	return "gallons"
}

// LiquidVolumeRatioLabel qualifies a per-volume amount, e.g. price per gallon.
func (u Units) LiquidVolumeRatioLabel() string {
	if u.system == Metric {
		return "per liter"
	}
	return "per gallon"
}

// MileageLabel is the label for fuel economy values.
func (u Units) MileageLabel() string {
	if u.system == Metric {
		return "km/L"
	}
	return "mpg"
}
