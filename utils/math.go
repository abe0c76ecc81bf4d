// Package utils contains small math helpers shared across the motion core.
package utils

import "math"

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// Clamp returns value limited to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// AlmostEqual compares two floats to within epsilon.
func AlmostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}
