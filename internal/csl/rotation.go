package csl

import (
	"errors"
	"fmt"
	"math"

	"github.com/wwmeng/gosam/internal/geom"
)

// ErrNoCSLSolution is returned when no coincidence rotation exists for
// a requested axis/sigma combination. This is a geometric-infeasibility
// error, not a syntax error: the configuration is simply not realizable.
var ErrNoCSLSolution = errors.New("no CSL solution for requested axis and sigma")

// Rodrigues returns the rotation matrix for a rotation of theta radians
// about the given axis (normalized internally).
func Rodrigues(axis geom.Vec3, theta float64) geom.Mat3 {
	u := axis.Unit()
	c := math.Cos(theta)
	s := math.Sin(theta)
	t := 1 - c
	x, y, z := u[0], u[1], u[2]
	return geom.Mat3{
		{c + x*x*t, x*y*t - z*s, x*z*t + y*s},
		{y*x*t + z*s, c + y*y*t, y*z*t - x*s},
		{z*x*t - y*s, z*y*t + x*s, c + z*z*t},
	}
}

// CubicSigma returns the coincidence index for the cubic-system
// rotation described by the axis and the integer pair (m, n):
// sigma = m² + n²·(h²+k²+l²) with all factors of two removed.
// A result of 1 means full coincidence (no boundary) and is reported
// as 0.
func CubicSigma(axis geom.IVec3, m, n int) int {
	sigma := m*m + n*n*axis.Dot(axis)
	for sigma != 0 && sigma%2 == 0 {
		sigma /= 2
	}
	if sigma <= 1 {
		return 0
	}
	return sigma
}

// CubicTheta returns the rotation angle in radians for the cubic-system
// coincidence rotation described by the axis and (m, n).
func CubicTheta(axis geom.IVec3, m, n int) float64 {
	if m == 0 {
		return math.Pi
	}
	return 2 * math.Atan(math.Sqrt(float64(axis.Dot(axis)))*float64(n)/float64(m))
}

// ThetaSolution is a resolved coincidence rotation: the angle plus the
// exact integer parameters that generate it.
type ThetaSolution struct {
	Theta float64 // radians
	M, N  int
}

// FindTheta searches for the coincidence rotation about axis with the
// given sigma. Among all coprime (m, n) pairs producing that sigma it
// returns the one with the smallest angle; when minAngle > 0 the search
// is restricted to solutions with theta >= minAngle. The scan order
// (ascending m, then n) is fixed so results are reproducible.
// Returns ErrNoCSLSolution when no pair matches.
func FindTheta(axis geom.IVec3, sigma int, minAngle float64) (*ThetaSolution, error) {
	if sigma < 3 {
		return nil, fmt.Errorf("sigma %d about [%d %d %d]: %w", sigma, axis[0], axis[1], axis[2], ErrNoCSLSolution)
	}
	limit := int(math.Ceil(math.Sqrt(float64(4*sigma)))) + 1
	var best *ThetaSolution
	for m := 0; m <= limit; m++ {
		for n := 1; n <= limit; n++ {
			if gcdInt(m, n) != 1 {
				continue
			}
			if CubicSigma(axis, m, n) != sigma {
				continue
			}
			theta := CubicTheta(axis, m, n)
			if minAngle > 0 && theta < minAngle {
				continue
			}
			if best == nil || theta < best.Theta {
				best = &ThetaSolution{Theta: theta, M: m, N: n}
			}
		}
	}
	if best == nil {
		return nil, fmt.Errorf("sigma %d about [%d %d %d]: %w", sigma, axis[0], axis[1], axis[2], ErrNoCSLSolution)
	}
	return best, nil
}

func gcdInt(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
