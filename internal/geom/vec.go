// Package geom provides the small fixed-size vector and matrix algebra
// used by the lattice construction pipeline, including minimum-image
// distances in an orthorhombic periodic box.
package geom

import "math"

// Vec3 is a 3D vector in Cartesian coordinates.
type Vec3 [3]float64

// IVec3 is an integer 3-vector (Miller indices, lattice coefficients).
type IVec3 [3]int

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{v[0] + w[0], v[1] + w[1], v[2] + w[2]}
}

// Sub returns v - w.
func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{v[0] - w[0], v[1] - w[1], v[2] - w[2]}
}

// Scale returns k*v.
func (v Vec3) Scale(k float64) Vec3 {
	return Vec3{k * v[0], k * v[1], k * v[2]}
}

// Neg returns -v.
func (v Vec3) Neg() Vec3 {
	return Vec3{-v[0], -v[1], -v[2]}
}

// Dot returns the inner product of v and w.
func (v Vec3) Dot(w Vec3) float64 {
	return v[0]*w[0] + v[1]*w[1] + v[2]*w[2]
}

// Cross returns the cross product v × w.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		v[1]*w[2] - v[2]*w[1],
		v[2]*w[0] - v[0]*w[2],
		v[0]*w[1] - v[1]*w[0],
	}
}

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Norm2 returns the squared Euclidean length of v.
func (v Vec3) Norm2() float64 {
	return v.Dot(v)
}

// Unit returns v scaled to unit length. The zero vector is returned
// unchanged.
func (v Vec3) Unit() Vec3 {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Scale(1 / n)
}

// Angle returns the angle between v and w in radians.
func (v Vec3) Angle(w Vec3) float64 {
	c := v.Dot(w) / math.Sqrt(v.Norm2()*w.Norm2())
	// Clamp against rounding drift before acos.
	if c > 1 {
		c = 1
	} else if c < -1 {
		c = -1
	}
	return math.Acos(c)
}

// MinimumImage returns the shortest periodic image of the displacement v
// in an orthorhombic box with edge lengths given by box.
func (v Vec3) MinimumImage(box Vec3) Vec3 {
	var out Vec3
	for i := 0; i < 3; i++ {
		d := v[i]
		if box[i] > 0 {
			d -= box[i] * math.Round(d/box[i])
		}
		out[i] = d
	}
	return out
}

// Vec returns the integer vector as a Vec3.
func (v IVec3) Vec() Vec3 {
	return Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
}

// Add returns v + w.
func (v IVec3) Add(w IVec3) IVec3 {
	return IVec3{v[0] + w[0], v[1] + w[1], v[2] + w[2]}
}

// Sub returns v - w.
func (v IVec3) Sub(w IVec3) IVec3 {
	return IVec3{v[0] - w[0], v[1] - w[1], v[2] - w[2]}
}

// Scale returns k*v.
func (v IVec3) Scale(k int) IVec3 {
	return IVec3{k * v[0], k * v[1], k * v[2]}
}

// IsZero reports whether all components are zero.
func (v IVec3) IsZero() bool {
	return v[0] == 0 && v[1] == 0 && v[2] == 0
}

// Dot returns the integer inner product of v and w.
func (v IVec3) Dot(w IVec3) int {
	return v[0]*w[0] + v[1]*w[1] + v[2]*w[2]
}

// Cross returns the integer cross product v × w.
func (v IVec3) Cross(w IVec3) IVec3 {
	return IVec3{
		v[1]*w[2] - v[2]*w[1],
		v[2]*w[0] - v[0]*w[2],
		v[0]*w[1] - v[1]*w[0],
	}
}

// Neg returns -v.
func (v IVec3) Neg() IVec3 {
	return IVec3{-v[0], -v[1], -v[2]}
}

// Norm returns the Euclidean length of v.
func (v IVec3) Norm() float64 {
	return math.Sqrt(float64(v.Dot(v)))
}

// GCD reduces v by the greatest common divisor of its components and
// returns the reduced vector. The zero vector is returned unchanged.
func (v IVec3) GCD() IVec3 {
	g := gcd(gcd(abs(v[0]), abs(v[1])), abs(v[2]))
	if g <= 1 {
		return v
	}
	return IVec3{v[0] / g, v[1] / g, v[2] / g}
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
