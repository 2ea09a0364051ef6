package csl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wwmeng/gosam/internal/geom"
)

func identityCell() geom.IMat3 {
	return geom.IMat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

func requireAligned(t *testing.T, Cp geom.IMat3, col int, axis geom.IVec3) {
	t.Helper()
	c := Cp.Col(col)
	require.True(t, c.Cross(axis).IsZero(), "column %d = %v is not parallel to %v", col, c, axis)
	require.Positive(t, c.Dot(axis), "column %d points against %v", col, axis)
}

func TestMakeParallelToAxis(t *testing.T) {
	t.Parallel()

	t.Run("identity cell simple axis", func(t *testing.T) {
		t.Parallel()
		Cp, err := MakeParallelToAxis(identityCell(), 2, geom.IVec3{1, 1, 1})
		require.NoError(t, err)
		requireAligned(t, Cp, 2, geom.IVec3{1, 1, 1})
		assert.Equal(t, 1, absInt(Cp.Det()))
	})

	t.Run("negative axis components", func(t *testing.T) {
		t.Parallel()
		axis := geom.IVec3{0, -1, 3}
		Cp, err := MakeParallelToAxis(identityCell(), 2, axis)
		require.NoError(t, err)
		requireAligned(t, Cp, 2, axis)
		assert.Equal(t, 1, absInt(Cp.Det()))
	})

	t.Run("all columns", func(t *testing.T) {
		t.Parallel()
		axis := geom.IVec3{2, 1, 0}
		for col := 0; col < 3; col++ {
			Cp, err := MakeParallelToAxis(identityCell(), col, axis)
			require.NoError(t, err)
			requireAligned(t, Cp, col, axis)
			assert.Equal(t, 1, absInt(Cp.Det()))
		}
	})

	t.Run("CSL cell keeps its volume", func(t *testing.T) {
		t.Parallel()
		sol, err := FindTheta(geom.IVec3{1, 0, 0}, 5, 0)
		require.NoError(t, err)
		R := Rodrigues(geom.Vec3{1, 0, 0}, sol.Theta)
		C, err := FindCSLMatrix(5, R)
		require.NoError(t, err)

		axis := geom.IVec3{0, 1, 3}
		Cp, err := MakeParallelToAxis(C, 2, axis)
		require.NoError(t, err)
		requireAligned(t, Cp, 2, axis)
		assert.Equal(t, absInt(C.Det()), absInt(Cp.Det()))
	})

	t.Run("z axis special case", func(t *testing.T) {
		t.Parallel()
		Cp, err := MakeParallelToAxis(identityCell(), 2, geom.IVec3{0, 0, 1})
		require.NoError(t, err)
		requireAligned(t, Cp, 2, geom.IVec3{0, 0, 1})
	})

	t.Run("errors", func(t *testing.T) {
		t.Parallel()
		_, err := MakeParallelToAxis(identityCell(), 3, geom.IVec3{0, 0, 1})
		assert.Error(t, err)
		_, err = MakeParallelToAxis(identityCell(), 2, geom.IVec3{})
		assert.Error(t, err)
	})
}
