package csl

import (
	"fmt"

	"github.com/wwmeng/gosam/internal/geom"
)

// MakeParallelToAxis re-expresses the cell C in a new basis such that
// the column with index col is parallel to the target direction, with
// positive orientation. Only unimodular column operations are applied:
// the result has the same integer entries property and the same
// determinant magnitude as C, so it spans the same lattice.
func MakeParallelToAxis(C geom.IMat3, col int, axis geom.IVec3) (geom.IMat3, error) {
	if col < 0 || col > 2 {
		return geom.IMat3{}, fmt.Errorf("column index %d out of range", col)
	}
	if axis.IsZero() {
		return geom.IMat3{}, fmt.Errorf("target direction is the zero vector")
	}

	// Solve C·x ∥ axis over the integers: adj(C)·axis = det(C)·C⁻¹·axis
	// is an integer solution; reduce it to a primitive vector.
	x := C.Adjugate().MulVec(axis)
	if x.IsZero() {
		return geom.IMat3{}, fmt.Errorf("direction [%d %d %d] is not representable in the cell", axis[0], axis[1], axis[2])
	}
	x = x.GCD()
	if C.MulVec(x).Dot(axis) < 0 {
		x = x.Neg()
	}

	U, err := completeUnimodular(x, col)
	if err != nil {
		return geom.IMat3{}, err
	}
	Cp := C.Mul(U)

	// Internal consistency: the chosen column must be parallel to the
	// target and the cell volume must be preserved.
	if !Cp.Col(col).Cross(axis).IsZero() || Cp.Col(col).Dot(axis) <= 0 {
		return geom.IMat3{}, fmt.Errorf("internal: column %d not aligned with [%d %d %d]", col, axis[0], axis[1], axis[2])
	}
	if d, d0 := Cp.Det(), C.Det(); d != d0 && d != -d0 {
		return geom.IMat3{}, fmt.Errorf("internal: determinant changed from %d to %d", d0, d)
	}
	return Cp, nil
}

// completeUnimodular extends the primitive integer vector x (gcd of
// components is 1) to a 3×3 integer matrix with |det| = 1 that has x as
// the column with index col.
func completeUnimodular(x geom.IVec3, col int) (geom.IMat3, error) {
	a, b, c := x[0], x[1], x[2]

	// Rows of a det=±1 matrix whose first row is x.
	var rows [3]geom.IVec3
	rows[0] = x
	if a == 0 && b == 0 {
		// c must be ±1 for a primitive vector.
		if c != 1 && c != -1 {
			return geom.IMat3{}, fmt.Errorf("vector [%d %d %d] is not primitive", a, b, c)
		}
		rows[1] = geom.IVec3{1, 0, 0}
		rows[2] = geom.IVec3{0, 1, 0}
	} else {
		g, p, q := egcd(a, b)
		d, u, v := egcd(g, c)
		if d != 1 {
			return geom.IMat3{}, fmt.Errorf("vector [%d %d %d] is not primitive", a, b, c)
		}
		rows[1] = geom.IVec3{-q, p, 0}
		rows[2] = geom.IVec3{-v * (a / g), -v * (b / g), u}
	}

	// Transpose puts x into column 0; a cyclic column shift moves it to
	// the requested index without changing |det|.
	var U geom.IMat3
	for j := 0; j < 3; j++ {
		U.SetCol((col+j)%3, rows[j])
	}
	if d := U.Det(); d != 1 && d != -1 {
		return geom.IMat3{}, fmt.Errorf("internal: completion of [%d %d %d] has determinant %d", a, b, c, d)
	}
	return U, nil
}

// egcd returns g = gcd(a, b) > 0 and p, q with p·a + q·b = g.
func egcd(a, b int) (g, p, q int) {
	oldR, r := a, b
	oldP, pp := 1, 0
	oldQ, qq := 0, 1
	for r != 0 {
		quot := oldR / r
		oldR, r = r, oldR-quot*r
		oldP, pp = pp, oldP-quot*pp
		oldQ, qq = qq, oldQ-quot*qq
	}
	if oldR < 0 {
		return -oldR, -oldP, -oldQ
	}
	return oldR, oldP, oldQ
}
