package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMat3MulVec(t *testing.T) {
	t.Parallel()

	m := Mat3{{1, 2, 3}, {4, 5, 6}, {7, 8, 10}}
	assert.Equal(t, Vec3{14, 32, 53}, m.MulVec(Vec3{1, 2, 3}))
	assert.Equal(t, m, Identity().Mul(m))
	assert.Equal(t, m, m.Mul(Identity()))
}

func TestMat3Inverse(t *testing.T) {
	t.Parallel()

	m := Mat3{{1, 2, 3}, {4, 5, 6}, {7, 8, 10}}
	inv, err := m.Inverse()
	require.NoError(t, err)
	assert.Less(t, m.Mul(inv).MaxAbsDiff(Identity()), 1e-12)

	assert.InDelta(t, -3.0, m.Det(), 1e-9)

	_, err = Mat3{{1, 2, 3}, {2, 4, 6}, {0, 0, 1}}.Inverse()
	assert.Error(t, err)
}

func TestMat3RowsCols(t *testing.T) {
	t.Parallel()

	m := Mat3{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
	assert.Equal(t, Vec3{2, 5, 8}, m.Col(1))
	assert.Equal(t, Vec3{4, 5, 6}, m.Row(1))
	assert.Equal(t, Vec3{3, 6, 9}, m.Transpose().Row(2))

	m.SetCol(0, Vec3{-1, -2, -3})
	assert.Equal(t, Vec3{-1, -2, -3}, m.Col(0))
}

func TestMat3IsOrthonormal(t *testing.T) {
	t.Parallel()

	assert.True(t, Identity().IsOrthonormal(1e-12))
	// 90 degree rotation about z.
	rot := Mat3{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}}
	assert.True(t, rot.IsOrthonormal(1e-12))
	assert.False(t, Mat3{{2, 0, 0}, {0, 1, 0}, {0, 0, 1}}.IsOrthonormal(1e-6))
}

func TestIMat3Det(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, IMat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}.Det())
	assert.Equal(t, -3, IMat3{{1, 2, 3}, {4, 5, 6}, {7, 8, 10}}.Det())
	assert.Equal(t, 0, IMat3{{1, 2, 3}, {2, 4, 6}, {0, 0, 1}}.Det())
}

func TestIMat3Adjugate(t *testing.T) {
	t.Parallel()

	m := IMat3{{2, -3, 0}, {3, 2, 0}, {1, 0, 5}}
	d := m.Det()
	require.NotZero(t, d)

	// M * adj(M) = det(M) * I, exactly over the integers.
	p := m.Mul(m.Adjugate())
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0
			if i == j {
				want = d
			}
			assert.Equal(t, want, p[i][j], "entry %d,%d", i, j)
		}
	}
}

func TestIMat3ColumnsAndMul(t *testing.T) {
	t.Parallel()

	m := IMat3{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
	assert.Equal(t, IVec3{3, 6, 9}, m.Col(2))
	m.SetCol(2, IVec3{0, 0, 1})
	assert.Equal(t, IVec3{0, 0, 1}, m.Col(2))
	assert.Equal(t, IVec3{5, 14, 23}, m.MulVec(IVec3{1, 2, 0}))

	id := IMat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	assert.Equal(t, m, m.Mul(id))
	assert.Equal(t, Mat3{{1, 2, 0}, {4, 5, 0}, {7, 8, 1}}, m.Mat())
}
