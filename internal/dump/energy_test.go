package dump

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// energyDump builds a dump whose GB energy is known in closed form:
// boundary area 2 x 5 = 10 A^2, one atom with 1 eV excess in the lowest
// z bin and one in the highest, two bulk atoms in between.
func energyDump(t *testing.T) string {
	t.Helper()
	header := `ITEM: TIMESTEP
0
ITEM: NUMBER OF ATOMS
4
ITEM: BOX BOUNDS pp pp pp
0 2
0 5
0 10
ITEM: ATOMS id type x y z c_eng
`
	body := fmt.Sprintf("1 1 0 0 0.01 %g\n", e0+1) +
		fmt.Sprintf("2 1 0 0 2.5 %g\n", e0) +
		fmt.Sprintf("3 1 0 0 5.0 %g\n", e0) +
		fmt.Sprintf("4 1 0 0 9.99 %g\n", e0+1)
	return writeDump(t, "energy.txt", header+body)
}

func TestGBEnergy(t *testing.T) {
	t.Parallel()

	res, err := GBEnergy(energyDump(t))
	require.NoError(t, err)

	assert.Equal(t, 4, res.NAtoms)
	assert.InDelta(t, 10.0, res.Area, 1e-12)
	require.Len(t, res.Bins, 4)

	// Each boundary atom contributes 1 eV excess over 10 A^2; the bulk
	// bins contribute nothing. With 4 occupied bins the wrap-around
	// boundary window covers the first and last bin.
	want := 2.0 / 10.0 * eVPerA2ToJPerM2
	assert.InDelta(t, want, res.GBEnergy, 1e-9)

	assert.InDelta(t, e0+0.5, res.MeanAtomEnergy, 1e-9)
	assert.Greater(t, res.StdAtomEnergy, 0.0)

	// Bins are ordered by z and hold per-bin means.
	assert.InDelta(t, e0+1, res.Bins[0].MeanEnergy, 1e-9)
	assert.InDelta(t, e0, res.Bins[1].MeanEnergy, 1e-9)
	assert.Less(t, res.Bins[0].Z, res.Bins[1].Z)
	assert.InDelta(t, 1.0/10.0*eVPerA2ToJPerM2, res.Bins[0].GBEnergy, 1e-9)
	assert.InDelta(t, 0, res.Bins[1].GBEnergy, 1e-9)
}

func TestGBEnergyErrors(t *testing.T) {
	t.Parallel()

	t.Run("degenerate area", func(t *testing.T) {
		t.Parallel()
		bad := strings.Replace(sampleDump, "0.0 10.0", "0.0 0.0", 1)
		_, err := GBEnergy(writeDump(t, "bad.txt", bad))
		assert.Error(t, err)
	})

	t.Run("truncated file", func(t *testing.T) {
		t.Parallel()
		lines := strings.Split(strings.TrimRight(sampleDump, "\n"), "\n")
		short := strings.Join(lines[:len(lines)-1], "\n") + "\n"
		_, err := GBEnergy(writeDump(t, "short.txt", short))
		assert.Error(t, err)
	})
}

func TestWriteHistogram(t *testing.T) {
	t.Parallel()

	res, err := GBEnergy(energyDump(t))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "hist.xy")
	require.NoError(t, WriteHistogram(res, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 4)
	for _, line := range lines {
		assert.Len(t, strings.Fields(line), 3, "each line is z, mean energy, gb energy")
	}
}

func TestPlotHistogram(t *testing.T) {
	t.Parallel()

	res, err := GBEnergy(energyDump(t))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "hist.png")
	require.NoError(t, PlotHistogram(res, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
