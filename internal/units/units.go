// Package units provides shared constants and validation for length units
// accepted in room-scan files.
package units

import "strings"

// Unit constants
const (
	Metres      = "m"
	Centimetres = "cm"
	Millimetres = "mm"
	Feet        = "ft"
	Inches      = "in"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{Metres, Centimetres, Millimetres, Feet, Inches}

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
	return strings.Join(ValidUnits, ", ")
}

// MetresPer returns the scale factor that converts one of the given unit
// into metres. The engine works in metres throughout.
func MetresPer(unit string) float64 {
	switch unit {
	case Centimetres:
		return 0.01
	case Millimetres:
		return 0.001
	case Feet:
		return 0.3048
	case Inches:
		return 0.0254
	case Metres, "":
		return 1
	default:
		return 1 // default to metres if unknown unit
	}
}

// ToMetres converts a length in the given unit into metres.
func ToMetres(length float64, unit string) float64 {
	return length * MetresPer(unit)
}
