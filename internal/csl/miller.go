// Package csl implements the coincidence-site-lattice algebra behind
// grain-boundary construction: cubic sigma/theta relations, rotation
// matrices, CSL primitive cells, unimodular re-orientation and the
// orthorhombic periodic-cell search.
package csl

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/wwmeng/gosam/internal/geom"
)

// ParseMiller parses a Miller-index triple. Two forms are accepted:
// a compact digit string with optional minus signs ("001", "1-10") and
// a comma-separated list ("0,1,0") for multi-digit indices.
func ParseMiller(s string) (geom.IVec3, error) {
	var v geom.IVec3
	if strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		if len(parts) != 3 {
			return v, fmt.Errorf("miller indices %q: want 3 comma-separated values, got %d", s, len(parts))
		}
		for i, p := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return v, fmt.Errorf("miller indices %q: %w", s, err)
			}
			v[i] = n
		}
	} else {
		i := 0
		for pos := 0; pos < len(s); pos++ {
			neg := false
			if s[pos] == '-' {
				neg = true
				pos++
				if pos >= len(s) {
					return v, fmt.Errorf("miller indices %q: dangling minus sign", s)
				}
			}
			c := s[pos]
			if c < '0' || c > '9' {
				return v, fmt.Errorf("miller indices %q: unexpected character %q", s, c)
			}
			if i >= 3 {
				return v, fmt.Errorf("miller indices %q: more than 3 indices", s)
			}
			n := int(c - '0')
			if neg {
				n = -n
			}
			v[i] = n
			i++
		}
		if i != 3 {
			return v, fmt.Errorf("miller indices %q: want 3 indices, got %d", s, i)
		}
	}
	if v.IsZero() {
		return v, fmt.Errorf("miller indices %q: zero vector", s)
	}
	return v, nil
}

// ScaleToIntegers returns the smallest integer vector parallel to v,
// with the same orientation. It fails when no multiplier up to 10000
// brings all components within 1e-6 of integers.
func ScaleToIntegers(v geom.Vec3) (geom.IVec3, error) {
	maxAbs := 0.0
	for _, c := range v {
		if a := math.Abs(c); a > maxAbs {
			maxAbs = a
		}
	}
	if maxAbs == 0 {
		return geom.IVec3{}, fmt.Errorf("cannot scale zero vector to integers")
	}
	for mult := 1; mult <= 10000; mult++ {
		var out geom.IVec3
		ok := true
		for i, c := range v {
			scaled := c / maxAbs * float64(mult)
			r := math.Round(scaled)
			if math.Abs(scaled-r) > 1e-6*float64(mult) {
				ok = false
				break
			}
			out[i] = int(r)
		}
		if ok {
			return out.GCD(), nil
		}
	}
	return geom.IVec3{}, fmt.Errorf("no small integer vector parallel to (%g, %g, %g)", v[0], v[1], v[2])
}
