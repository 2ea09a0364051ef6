package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Mat3 is a 3×3 matrix stored by rows. Vectors transform as column
// vectors: w = M·v.
type Mat3 [3][3]float64

// IMat3 is a 3×3 integer matrix stored by rows. Its columns are lattice
// vectors throughout the CSL code.
type IMat3 [3][3]int

// Identity returns the 3×3 identity matrix.
func Identity() Mat3 {
	return Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// MulVec returns M·v.
func (m Mat3) MulVec(v Vec3) Vec3 {
	var out Vec3
	for i := 0; i < 3; i++ {
		out[i] = m[i][0]*v[0] + m[i][1]*v[1] + m[i][2]*v[2]
	}
	return out
}

// Mul returns the matrix product M·N.
func (m Mat3) Mul(n Mat3) Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				out[i][j] += m[i][k] * n[k][j]
			}
		}
	}
	return out
}

// Transpose returns Mᵀ.
func (m Mat3) Transpose() Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[j][i]
		}
	}
	return out
}

// Col returns the j-th column of M.
func (m Mat3) Col(j int) Vec3 {
	return Vec3{m[0][j], m[1][j], m[2][j]}
}

// Row returns the i-th row of M.
func (m Mat3) Row(i int) Vec3 {
	return m[i]
}

// SetCol overwrites the j-th column of M.
func (m *Mat3) SetCol(j int, v Vec3) {
	m[0][j], m[1][j], m[2][j] = v[0], v[1], v[2]
}

// Dense converts M to a gonum dense matrix.
func (m Mat3) Dense() *mat.Dense {
	d := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			d.Set(i, j, m[i][j])
		}
	}
	return d
}

// FromDense converts a 3×3 gonum matrix back to a Mat3.
func FromDense(d mat.Matrix) Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = d.At(i, j)
		}
	}
	return out
}

// Det returns the determinant of M.
func (m Mat3) Det() float64 {
	return mat.Det(m.Dense())
}

// Inverse returns M⁻¹, or an error when M is singular.
func (m Mat3) Inverse() (Mat3, error) {
	var inv mat.Dense
	if err := inv.Inverse(m.Dense()); err != nil {
		return Mat3{}, fmt.Errorf("singular matrix: %w", err)
	}
	return FromDense(&inv), nil
}

// IsOrthonormal reports whether M·Mᵀ deviates from the identity by less
// than tol in any entry.
func (m Mat3) IsOrthonormal(tol float64) bool {
	p := m.Mul(m.Transpose())
	id := Identity()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(p[i][j]-id[i][j]) > tol {
				return false
			}
		}
	}
	return true
}

// MaxAbsDiff returns the largest absolute entry-wise difference between
// M and N.
func (m Mat3) MaxAbsDiff(n Mat3) float64 {
	var max float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if d := math.Abs(m[i][j] - n[i][j]); d > max {
				max = d
			}
		}
	}
	return max
}

// String formats the matrix row by row for diagnostics.
func (m Mat3) String() string {
	return fmt.Sprintf("[%9.5f %9.5f %9.5f]\n[%9.5f %9.5f %9.5f]\n[%9.5f %9.5f %9.5f]",
		m[0][0], m[0][1], m[0][2],
		m[1][0], m[1][1], m[1][2],
		m[2][0], m[2][1], m[2][2])
}

// Mat returns the integer matrix as a Mat3.
func (m IMat3) Mat() Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = float64(m[i][j])
		}
	}
	return out
}

// Col returns the j-th column of M.
func (m IMat3) Col(j int) IVec3 {
	return IVec3{m[0][j], m[1][j], m[2][j]}
}

// SetCol overwrites the j-th column of M.
func (m *IMat3) SetCol(j int, v IVec3) {
	m[0][j], m[1][j], m[2][j] = v[0], v[1], v[2]
}

// MulVec returns M·v over the integers.
func (m IMat3) MulVec(v IVec3) IVec3 {
	var out IVec3
	for i := 0; i < 3; i++ {
		out[i] = m[i][0]*v[0] + m[i][1]*v[1] + m[i][2]*v[2]
	}
	return out
}

// Mul returns the integer matrix product M·N.
func (m IMat3) Mul(n IMat3) IMat3 {
	var out IMat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				out[i][j] += m[i][k] * n[k][j]
			}
		}
	}
	return out
}

// Det returns the integer determinant of M.
func (m IMat3) Det() int {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// Adjugate returns the adjugate (transposed cofactor) matrix, so that
// M·adj(M) = det(M)·I over the integers.
func (m IMat3) Adjugate() IMat3 {
	var a IMat3
	a[0][0] = m[1][1]*m[2][2] - m[1][2]*m[2][1]
	a[0][1] = m[0][2]*m[2][1] - m[0][1]*m[2][2]
	a[0][2] = m[0][1]*m[1][2] - m[0][2]*m[1][1]
	a[1][0] = m[1][2]*m[2][0] - m[1][0]*m[2][2]
	a[1][1] = m[0][0]*m[2][2] - m[0][2]*m[2][0]
	a[1][2] = m[0][2]*m[1][0] - m[0][0]*m[1][2]
	a[2][0] = m[1][0]*m[2][1] - m[1][1]*m[2][0]
	a[2][1] = m[0][1]*m[2][0] - m[0][0]*m[2][1]
	a[2][2] = m[0][0]*m[1][1] - m[0][1]*m[1][0]
	return a
}
