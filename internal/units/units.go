// Package units provides shared constants and conversions for speed units.
// The simulation stores speeds in km/h.
package units

// Unit constants
const (
	KPH = "kph"
	MPH = "mph"
	MPS = "mps"
)

// Conversion factors. MetersPerSecondPerKmh is the exact factor the position
// integrator applies each tick; it must stay the quotient, not a rounded
// decimal.
const (
	MetersPerSecondPerKmh = 1000.0 / 3600.0
	MilesPerHourPerMps    = 2.2369362920544
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{KPH, MPH, MPS}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "kph, mph, mps"
}

// ConvertSpeed converts a speed from km/h to the target units. Unknown units
// pass the value through unchanged.
func ConvertSpeed(speedKPH float64, targetUnits string) float64 {
	switch targetUnits {
	case KPH:
		return speedKPH
	case MPS:
		return speedKPH * MetersPerSecondPerKmh
	case MPH:
		return speedKPH * MetersPerSecondPerKmh * MilesPerHourPerMps
	default:
		return speedKPH
	}
}
