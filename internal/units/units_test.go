package units

import "testing"

func TestUnits_Labels(t *testing.T) {
	tests := []struct {
		name        string
		system      System
		distance    string
		ratio       string
		volume      string
		volumeRatio string
		mileage     string
	}{
		{"imperial", Imperial, "mi", "per mile", "gallons", "per gallon", "mpg"},
		{"metric", Metric, "km", "per kilometer", "liters", "per liter", "km/L"},
		{"unknown falls back to imperial", System("nautical"), "mi", "per mile", "gallons", "per gallon", "mpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := New(tt.system)
			if got := u.DistanceLabel(); got != tt.distance {
				t.Errorf("DistanceLabel() = %q, want %q", got, tt.distance)
			}
			if got := u.DistanceRatioLabel(); got != tt.ratio {
				t.Errorf("DistanceRatioLabel() = %q, want %q", got, tt.ratio)
			}
			if got := u.LiquidVolumeLabel(); got != tt.volume {
				t.Errorf("LiquidVolumeLabel() = %q, want %q", got, tt.volume)
			}
			if got := u.LiquidVolumeRatioLabel(); got != tt.volumeRatio {
				t.Errorf("LiquidVolumeRatioLabel() = %q, want %q", got, tt.volumeRatio)
			}
			if got := u.MileageLabel(); got != tt.mileage {
				t.Errorf("MileageLabel() = %q, want %q", got, tt.mileage)
			}
		})
	}
}
