package dump

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDump = `ITEM: TIMESTEP
1000
ITEM: NUMBER OF ATOMS
3
ITEM: BOX BOUNDS pp pp pp
0.0 10.0
-2.0 18.0
0.0 40.0
ITEM: ATOMS id type x y z c_eng
2 2 5.0 8.0 20.0 -6.1
1 1 1.0 2.0 4.0 -6.0
3 1 2.5 5.0 10.0 -5.9
`

func writeDump(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeDumpGz(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dump.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())
	return path
}

func TestOpenHeader(t *testing.T) {
	t.Parallel()

	r, err := Open(writeDump(t, "dump.txt", sampleDump))
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, 3, r.NAtoms)
	assert.Equal(t, [3]float64{10, 20, 40}, r.PBC)
	assert.Equal(t, [3]float64{0, -2, 0}, r.PBCLo)
	assert.Equal(t, []string{"c_eng"}, r.ExtraCols)
}

func TestOpenGzip(t *testing.T) {
	t.Parallel()

	r, err := Open(writeDumpGz(t, sampleDump))
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, 3, r.NAtoms)

	rec, err := r.ReadAtom()
	require.NoError(t, err)
	assert.Equal(t, 2, rec.ID)
}

func TestReadAtom(t *testing.T) {
	t.Parallel()

	r, err := Open(writeDump(t, "dump.txt", sampleDump))
	require.NoError(t, err)
	defer r.Close()

	rec, err := r.ReadAtom()
	require.NoError(t, err)
	assert.Equal(t, 2, rec.ID)
	assert.Equal(t, 2, rec.Type)
	assert.Equal(t, [3]float64{5, 8, 20}, rec.Pos)
	assert.Equal(t, "-6.1", rec.Extra)
	assert.InDelta(t, -6.1, rec.Value, 1e-12)

	rec, err = r.ReadAtom()
	require.NoError(t, err)
	assert.Equal(t, 1, rec.ID)
	assert.InDelta(t, -6.0, rec.Value, 1e-12)
}

func TestOpenErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := Open(filepath.Join(t.TempDir(), "nope"))
		assert.Error(t, err)
	})

	t.Run("wrong header", func(t *testing.T) {
		t.Parallel()
		_, err := Open(writeDump(t, "bad.txt", "ITEM: SOMETHING ELSE\n"))
		assert.Error(t, err)
	})

	t.Run("bad atom count", func(t *testing.T) {
		t.Parallel()
		bad := "ITEM: TIMESTEP\n0\nITEM: NUMBER OF ATOMS\nmany\n"
		_, err := Open(writeDump(t, "bad.txt", bad))
		assert.Error(t, err)
	})
}
