package csl

import (
	"fmt"
	"math"

	"github.com/wwmeng/gosam/internal/geom"
)

// FindCSLMatrix returns the primitive cell of the coincidence site
// lattice for the rotation R at the given sigma. Columns of the result
// span the sublattice of points shared by the reference lattice Z³ and
// its rotated copy R·Z³.
//
// The construction uses the lattice identity L₁∩L₂ = (L₁* + L₂*)*:
// sigma·R must be an integer matrix, so the sum of the two reciprocal
// lattices is generated by the columns of [sigma·I | sigma·R] divided
// by sigma. A triangular basis of that sum is computed by integer
// column reduction and the CSL is its dual (inverse transpose).
//
// The coincidence property is enforced, not assumed: the result must be
// integral and satisfy |det| = sigma, otherwise an error is returned.
func FindCSLMatrix(sigma int, R geom.Mat3) (geom.IMat3, error) {
	if sigma < 1 {
		return geom.IMat3{}, fmt.Errorf("invalid sigma %d", sigma)
	}
	// S = sigma * R, required to be integral for a coincidence rotation.
	var S [3][3]int64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			x := float64(sigma) * R[i][j]
			r := math.Round(x)
			if math.Abs(x-r) > 1e-6 {
				return geom.IMat3{}, fmt.Errorf(
					"rotation is not a sigma=%d coincidence rotation: %g*sigma is not integral", sigma, R[i][j])
			}
			S[i][j] = int64(r)
		}
	}

	// Generators of sigma*(L1* + L2*): sigma*e_i and the columns of S.
	gen := make([][3]int64, 0, 6)
	for j := 0; j < 3; j++ {
		var e [3]int64
		e[j] = int64(sigma)
		gen = append(gen, e)
		gen = append(gen, [3]int64{S[0][j], S[1][j], S[2][j]})
	}
	basis, err := latticeBasis(gen)
	if err != nil {
		return geom.IMat3{}, fmt.Errorf("sigma=%d reciprocal sum lattice: %w", sigma, err)
	}

	// B = basis / sigma spans L1* + L2*; the CSL is its dual B^-T.
	var B geom.Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			B[i][j] = float64(basis[j][i]) / float64(sigma)
		}
	}
	inv, err := B.Inverse()
	if err != nil {
		return geom.IMat3{}, fmt.Errorf("sigma=%d sum lattice is singular: %w", sigma, err)
	}
	dual := inv.Transpose()

	var C geom.IMat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r := math.Round(dual[i][j])
			if math.Abs(dual[i][j]-r) > 1e-6 {
				return geom.IMat3{}, fmt.Errorf(
					"CSL matrix for sigma=%d is not integral (entry %d,%d = %g)", sigma, i, j, dual[i][j])
			}
			C[i][j] = int(r)
		}
	}
	if d := C.Det(); d != sigma && d != -sigma {
		return geom.IMat3{}, fmt.Errorf("CSL matrix determinant %d does not match sigma %d", d, sigma)
	}
	return C, nil
}

// latticeBasis reduces a set of integer generator vectors to a
// triangular basis of the lattice they span, by repeated column
// reduction (Euclid's algorithm on each coordinate row).
func latticeBasis(gen [][3]int64) ([3][3]int64, error) {
	cols := make([][3]int64, len(gen))
	copy(cols, gen)

	for r := 0; r < 3; r++ {
		for {
			// Pick the column with the smallest nonzero entry in row r.
			pivot := -1
			for j := r; j < len(cols); j++ {
				if cols[j][r] == 0 {
					continue
				}
				if pivot < 0 || abs64(cols[j][r]) < abs64(cols[pivot][r]) {
					pivot = j
				}
			}
			if pivot < 0 {
				return [3][3]int64{}, fmt.Errorf("generators do not span a full-rank lattice")
			}
			cols[r], cols[pivot] = cols[pivot], cols[r]

			done := true
			for j := r + 1; j < len(cols); j++ {
				if cols[j][r] == 0 {
					continue
				}
				q := cols[j][r] / cols[r][r]
				for i := 0; i < 3; i++ {
					cols[j][i] -= q * cols[r][i]
				}
				if cols[j][r] != 0 {
					done = false
				}
			}
			if done {
				break
			}
		}
	}
	var out [3][3]int64
	copy(out[:], cols[:3])
	return out, nil
}

func abs64(a int64) int64 {
	if a < 0 {
		return -a
	}
	return a
}
