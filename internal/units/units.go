// Package units provides shared length and angle conversions.
// Command-line dimensions are given in nanometers; all internal
// geometry is in Angstroms.
package units

import "math"

// AngstromsPerNm is the number of Angstroms in a nanometer.
const AngstromsPerNm = 10.0

// NmToAngstrom converts a length from nanometers to Angstroms.
func NmToAngstrom(nm float64) float64 {
	return nm * AngstromsPerNm
}

// AngstromToNm converts a length from Angstroms to nanometers.
func AngstromToNm(a float64) float64 {
	return a / AngstromsPerNm
}

// Radians converts an angle from degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts an angle from radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
