package units

import (
	"math"
	"testing"
)

func TestToMetres(t *testing.T) {
	tests := []struct {
		name     string
		length   float64
		units    string
		expected float64
	}{
		{"metres unchanged", 2.5, Metres, 2.5},
		{"empty defaults to metres", 2.5, "", 2.5},
		{"centimetres", 250, Centimetres, 2.5},
		{"millimetres", 750, Millimetres, 0.75},
		{"feet", 10, Feet, 3.048},
		{"inches", 30, Inches, 0.762},
		{"unknown units default to metres", 4, "furlong", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ToMetres(tt.length, tt.units)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("ToMetres(%f, %s) = %f, want %f", tt.length, tt.units, result, tt.expected)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name     string
		unit     string
		expected bool
	}{
		{"valid m", Metres, true},
		{"valid cm", Centimetres, true},
		{"valid mm", Millimetres, true},
		{"valid ft", Feet, true},
		{"valid in", Inches, true},
		{"invalid unit", "invalid", false},
		{"empty string", "", false},
		{"case sensitive", "CM", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValid(tt.unit); got != tt.expected {
				t.Errorf("IsValid(%q) = %v, want %v", tt.unit, got, tt.expected)
			}
		})
	}
}

func TestGetValidUnitsString(t *testing.T) {
	if got := GetValidUnitsString(); got != "m, cm, mm, ft, in" {
		t.Errorf("GetValidUnitsString() = %q", got)
	}
}
