package csl

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/wwmeng/gosam/internal/geom"
)

// ErrNoOrthorhombicCell is returned when the oriented cell cannot yield
// an orthorhombic periodic repeat, which for a well-formed pipeline only
// happens when the cell is singular.
var ErrNoOrthorhombicCell = errors.New("no orthorhombic periodic cell found")

// OrthorhombicCell is the minimal axis-alignable periodic repeat cell
// found for an oriented CSL cell.
type OrthorhombicCell struct {
	// Cell columns are the three repeat vectors, expressed in lattice
	// coordinates (multiples of the lattice parameter). Each column is
	// an integer combination of the input cell's columns.
	Cell geom.IMat3

	// MinDim holds the edge lengths in lattice-parameter units.
	MinDim [3]float64

	// Rot is the right-handed orthonormal matrix whose rows are the
	// unit vectors of the three box edges. It maps lattice-frame
	// coordinates into box-aligned coordinates.
	Rot geom.Mat3
}

// FindOrthorhombicPBC finds the minimal-volume set of three mutually
// orthogonal vectors of the lattice spanned by the columns of Cp, with
// the third parallel to Cp's column 2 (the boundary-plane normal). The
// construction is exact over the integers:
//
//  1. the shortest lattice vector parallel to the normal follows from a
//     divisibility argument on the adjugate,
//  2. the rank-2 sublattice orthogonal to it is the integer kernel of a
//     single linear form, spanned by two explicit vectors,
//  3. that planar basis is Lagrange-reduced and scanned for the
//     minimal-area orthogonal pair, where each candidate's shortest
//     orthogonal partner is again exact.
//
// High-index boundary planes need in-plane vectors whose coefficients
// in Cp's columns run into the tens, so a bounded scan over raw column
// combinations is not viable; the kernel construction reaches them
// regardless of coefficient size. All comparisons are on integers and
// tie-breaks are lexicographic, so the chosen cell is deterministic.
func FindOrthorhombicPBC(Cp geom.IMat3) (*OrthorhombicCell, error) {
	det := Cp.Det()
	if det == 0 {
		return nil, fmt.Errorf("cell z || [%d %d %d]: cell is singular: %w",
			Cp[0][2], Cp[1][2], Cp[2][2], ErrNoOrthorhombicCell)
	}

	vz := shortestParallel(Cp, det)
	u1, u2 := boundaryPlaneBasis(Cp, vz)
	u1, u2 = lagrangeReduce(u1, u2)
	vx, vy := minimalOrthogonalPair(u1, u2)

	var cell geom.IMat3
	cell.SetCol(0, vx)
	cell.SetCol(1, vy)
	cell.SetCol(2, vz)
	// Keep the edge triple right-handed; flipping an edge's sign does
	// not change the box.
	if cell.Det() < 0 {
		cell.SetCol(1, vy.Neg())
	}
	return finishCell(cell)
}

// shortestParallel returns the shortest lattice vector of Cp parallel
// to its column 2, oriented along it. A multiple m·z0 of the primitive
// direction z0 is a lattice vector iff det divides every component of
// m·adj(Cp)·z0, so the minimal multiple is |det|/gcd(|det|, adj(Cp)·z0).
func shortestParallel(Cp geom.IMat3, det int) geom.IVec3 {
	z0 := Cp.Col(2).GCD()
	a := Cp.Adjugate().MulVec(z0)
	g := gcdInt(gcdInt(absInt(a[0]), absInt(a[1])), absInt(a[2]))
	m := absInt(det) / gcdInt(absInt(det), g)
	return z0.Scale(m)
}

// boundaryPlaneBasis returns two lattice vectors spanning the full
// rank-2 sublattice of Cp orthogonal to vz. Coefficient vectors c with
// (Cp·c)·vz = 0 form the integer kernel of w = Cpᵀ·vz; with w made
// primitive and p·w0 + q·w1 = g = gcd(w0, w1), the kernel is spanned by
// (w1/g, -w0/g, 0) and (p·w2, q·w2, -g). Their cross product equals w
// itself, so the pair generates the whole kernel rather than a
// finite-index sublattice.
func boundaryPlaneBasis(Cp geom.IMat3, vz geom.IVec3) (u1, u2 geom.IVec3) {
	w := geom.IVec3{Cp.Col(0).Dot(vz), Cp.Col(1).Dot(vz), Cp.Col(2).Dot(vz)}
	w = w.GCD()

	var b1, b2 geom.IVec3
	if w[0] == 0 && w[1] == 0 {
		b1 = geom.IVec3{1, 0, 0}
		b2 = geom.IVec3{0, 1, 0}
	} else {
		g, p, q := egcd(w[0], w[1])
		b1 = geom.IVec3{w[1] / g, -w[0] / g, 0}
		b2 = geom.IVec3{p * w[2], q * w[2], -g}
	}
	return Cp.MulVec(b1), Cp.MulVec(b2)
}

// lagrangeReduce runs Gauss reduction on a planar lattice basis until
// u1 is a shortest vector of the sublattice and the projection
// coefficient of u2 on u1 rounds to zero.
func lagrangeReduce(u1, u2 geom.IVec3) (geom.IVec3, geom.IVec3) {
	for {
		if u2.Dot(u2) < u1.Dot(u1) {
			u1, u2 = u2, u1
		}
		mu := roundDiv(u1.Dot(u2), u1.Dot(u1))
		if mu == 0 {
			return u1, u2
		}
		next := u2.Sub(u1.Scale(mu))
		if next.Dot(next) >= u2.Dot(u2) {
			return u1, u2
		}
		u2 = next
	}
}

// minimalOrthogonalPair returns the minimal-area pair of mutually
// orthogonal nonzero vectors in the planar lattice spanned by the
// reduced basis (u1, u2). A pair always exists, since every nonzero
// vector has an exact orthogonal partner. Candidates for the shorter
// member are scanned shortest first with lexicographic tie-breaks on
// the coefficients.
func minimalOrthogonalPair(u1, u2 geom.IVec3) (vx, vy geom.IVec3) {
	lam2 := u1.Dot(u1) // squared length of the plane's shortest vector

	vx, vy = u1, orthogonalPartner(u1, u2, u1)
	bestArea2 := vx.Dot(vx) * vy.Dot(vy)

	// Any better pair has a shorter member v with |v|⁴ ≤ area², and in
	// a reduced basis |s·u1 + t·u2|² ≥ (s² + t²)·|u1|²/2, which bounds
	// the coefficients to scan.
	bound := int(math.Sqrt(2*math.Sqrt(float64(bestArea2))/float64(lam2))) + 1

	type cand struct {
		s, t  int
		v     geom.IVec3
		norm2 int
	}
	var cands []cand
	for s := 0; s <= bound; s++ {
		for t := -bound; t <= bound; t++ {
			if s == 0 && t <= 0 {
				continue // one representative per ±v pair
			}
			v := u1.Scale(s).Add(u2.Scale(t))
			cands = append(cands, cand{s: s, t: t, v: v, norm2: v.Dot(v)})
		}
	}
	sort.Slice(cands, func(a, b int) bool {
		if cands[a].norm2 != cands[b].norm2 {
			return cands[a].norm2 < cands[b].norm2
		}
		if cands[a].s != cands[b].s {
			return cands[a].s < cands[b].s
		}
		return cands[a].t < cands[b].t
	})
	for _, c := range cands {
		if c.norm2*lam2 >= bestArea2 {
			break // the partner is at least as long as u1
		}
		p := orthogonalPartner(u1, u2, c.v)
		if area2 := c.norm2 * p.Dot(p); area2 < bestArea2 {
			vx, vy, bestArea2 = c.v, p, area2
		}
	}
	return vx, vy
}

// orthogonalPartner returns the shortest nonzero vector of the plane of
// (u1, u2) orthogonal to v. The orthogonal vectors form a rank-1 set
// with primitive generator (-β/g)·u1 + (α/g)·u2, where α = u1·v,
// β = u2·v and g = gcd(α, β).
func orthogonalPartner(u1, u2, v geom.IVec3) geom.IVec3 {
	alpha, beta := u1.Dot(v), u2.Dot(v)
	g := gcdInt(absInt(alpha), absInt(beta))
	return u1.Scale(-beta / g).Add(u2.Scale(alpha / g))
}

// finishCell derives edge lengths and the box-frame rotation, verifying
// the orthonormality invariant. A violation here is an internal error
// in the matrix construction, never tolerated silently.
func finishCell(cell geom.IMat3) (*OrthorhombicCell, error) {
	out := &OrthorhombicCell{Cell: cell}
	for i := 0; i < 3; i++ {
		edge := cell.Col(i)
		length := edge.Norm()
		out.MinDim[i] = length
		out.Rot[i] = edge.Vec().Scale(1 / length)
	}
	inv, err := out.Rot.Inverse()
	if err != nil {
		return nil, fmt.Errorf("internal: box rotation is singular: %w", err)
	}
	if d := out.Rot.Transpose().MaxAbsDiff(inv); d > 1e-9 {
		return nil, fmt.Errorf("internal: box rotation not orthonormal (transpose vs inverse differ by %g)", d)
	}
	return out, nil
}

// roundDiv returns the nearest integer to a/b for b > 0.
func roundDiv(a, b int) int {
	if a >= 0 {
		return (a + b/2) / b
	}
	return -((-a + b/2) / b)
}

func absInt(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
