package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wwmeng/gosam/internal/geom"
	"github.com/wwmeng/gosam/internal/units"
)

func TestParseTwist(t *testing.T) {
	t.Parallel()

	o, err := Parse([]string{"001", "twist", "5", "2", "2", "8", "out.cfg"})
	require.NoError(t, err)

	assert.Equal(t, geom.IVec3{0, 0, 1}, o.Axis)
	assert.Equal(t, o.Axis, o.Plane)
	assert.Equal(t, 5, o.Sigma)
	assert.Equal(t, 3, o.M)
	assert.Equal(t, 1, o.N)
	assert.InDelta(t, 36.8699, units.Degrees(o.Theta), 1e-3)
	assert.Equal(t, [3]float64{2, 2, 8}, o.ReqDim)
	assert.True(t, o.Fit)
	assert.True(t, o.ZFit)
	assert.Equal(t, "sic", o.LatticeName)
	assert.Equal(t, "out.cfg", o.OutputFile)
}

func TestParseRotationForms(t *testing.T) {
	t.Parallel()

	t.Run("explicit theta", func(t *testing.T) {
		t.Parallel()
		o, err := Parse([]string{"001", "010", "theta=90", "1", "1", "1", "out.cfg"})
		require.NoError(t, err)
		assert.Zero(t, o.Sigma)
		assert.InDelta(t, units.Radians(90), o.Theta, 1e-12)
		assert.Equal(t, geom.IVec3{0, 1, 0}, o.Plane)
	})

	t.Run("m and n", func(t *testing.T) {
		t.Parallel()
		o, err := Parse([]string{"001", "twist", "3,1", "1", "1", "1", "out.cfg"})
		require.NoError(t, err)
		assert.Equal(t, 5, o.Sigma)
		assert.InDelta(t, 36.8699, units.Degrees(o.Theta), 1e-3)
	})

	t.Run("minimum angle prefix", func(t *testing.T) {
		t.Parallel()
		o, err := Parse([]string{"001", "twist", "u5", "1", "1", "1", "out.cfg"})
		require.NoError(t, err)
		assert.Equal(t, 5, o.Sigma)
		assert.InDelta(t, 53.1301, units.Degrees(o.Theta), 1e-3)
	})

	t.Run("full coincidence pair is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := Parse([]string{"001", "twist", "1,1", "1", "1", "1", "out.cfg"})
		assert.Error(t, err)
	})
}

func TestParseMedianPlane(t *testing.T) {
	t.Parallel()

	t.Run("rotated by half theta", func(t *testing.T) {
		t.Parallel()
		// Median (011) with sigma 5 about [100]: rotating by theta/2
		// turns the normal into (012).
		o, err := Parse([]string{"100", "m011", "5", "1", "1", "1", "out.cfg"})
		require.NoError(t, err)
		assert.Equal(t, geom.IVec3{0, 1, 2}, o.Plane)
	})

	t.Run("axis must lie in the median plane", func(t *testing.T) {
		t.Parallel()
		_, err := Parse([]string{"100", "m100", "5", "1", "1", "1", "out.cfg"})
		assert.Error(t, err)
	})
}

func TestParseDimensionExpressions(t *testing.T) {
	t.Parallel()

	o, err := Parse([]string{"001", "twist", "5", "2*sqrt(5)", "1+1", "8", "out.cfg"})
	require.NoError(t, err)
	assert.InDelta(t, 4.47213595, o.ReqDim[0], 1e-6)
	assert.InDelta(t, 2, o.ReqDim[1], 1e-12)

	_, err = Parse([]string{"001", "twist", "5", "0", "1", "1", "out.cfg"})
	assert.Error(t, err, "zero dimensions are not lengths")

	_, err = Parse([]string{"001", "twist", "5", "1-2", "1", "1", "out.cfg"})
	assert.Error(t, err, "negative dimensions are not lengths")
}

func TestParseOptions(t *testing.T) {
	t.Parallel()

	o, err := Parse([]string{
		"001", "twist", "5", "2", "2", "8",
		"nofit", "remove:0.8", "remove2:1.1", "vacuum:1.5",
		"lattice:cu", "shift:0.25,0,0.5", "edge:35,45",
		"out.cfg",
	})
	require.NoError(t, err)

	assert.False(t, o.Fit)
	assert.InDelta(t, 0.8, o.RemoveDist, 1e-12)
	assert.InDelta(t, 1.1, o.RemoveDist2, 1e-12)
	assert.InDelta(t, 15.0, o.VacuumZ, 1e-12, "vacuum is given in nm, stored in Angstroms")
	assert.Equal(t, "cu", o.LatticeName)
	require.NotNil(t, o.LatticeShift)
	assert.Equal(t, geom.Vec3{0.25, 0, 0.5}, *o.LatticeShift)
	require.NotNil(t, o.Edge)
	assert.Equal(t, [2]float64{35, 45}, *o.Edge)
}

func TestParseOptionConflicts(t *testing.T) {
	t.Parallel()

	base := []string{"001", "twist", "5", "1", "1", "1"}
	cases := map[string][]string{
		"duplicate option": {"remove:0.8", "remove:0.9"},
		"mono1 and mono2":  {"mono1", "mono2"},
		"all and allall":   {"all", "allall"},
		"mono with sweep":  {"mono1", "all"},
		"unknown option":   {"frobnicate"},
		"missing value":    {"remove"},
		"bad value":        {"remove:abc"},
		"bad shift arity":  {"shift:0.5,0.5"},
		"missing lattice":  {"lattice:"},
	}
	for name, opts := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			args := append(append([]string{}, base...), opts...)
			args = append(args, "out.cfg")
			_, err := Parse(args)
			assert.Error(t, err)
		})
	}
}

func TestParseUsage(t *testing.T) {
	t.Parallel()

	_, err := Parse([]string{"001", "twist", "5"})
	assert.ErrorIs(t, err, ErrUsage)
	_, err = Parse(nil)
	assert.ErrorIs(t, err, ErrUsage)
}

func TestParseMonocrystalModes(t *testing.T) {
	t.Parallel()

	o, err := Parse([]string{"001", "twist", "5", "1", "1", "1", "mono1", "out.cfg"})
	require.NoError(t, err)
	assert.True(t, o.Mono1)
	assert.False(t, o.Mono2)

	o, err = Parse([]string{"001", "twist", "5", "1", "1", "1", "mono2", "nozfit", "out.cfg"})
	require.NoError(t, err)
	assert.True(t, o.Mono2)
	assert.False(t, o.ZFit)
	assert.True(t, o.Fit)
}
