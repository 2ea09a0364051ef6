// Package export writes atom configurations to disk. Two formats are
// supported: AtomEye extended CFG and plain XYZ; the format is chosen
// by the output file's extension.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wwmeng/gosam/internal/crystal"
	"github.com/wwmeng/gosam/internal/lattice"
)

// Atoms writes the model to path, picking the format from the
// extension: ".xyz" selects XYZ, anything else the AtomEye CFG format.
// The data goes to a temporary file in the target directory and is
// renamed into place only on success, so a failed run never leaves
// partial output behind.
func Atoms(path string, m *crystal.Model) error {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xyz":
		err = WriteXYZ(f, m)
	default:
		err = WriteCFG(f, m)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(f.Name(), path)
	}
	if err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteCFG writes the AtomEye extended CFG format: box matrix header,
// then per-species mass/name lines followed by fractional coordinates.
// A mass/name pair is emitted whenever the species changes from the
// previous atom, so atoms of one species should be contiguous for the
// most compact output (mixed order is still valid CFG).
func WriteCFG(w io.Writer, m *crystal.Model) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Number of particles = %d\n", len(m.Atoms))
	if m.Title != "" {
		fmt.Fprintf(bw, "# %s\n", m.Title)
	}
	fmt.Fprintf(bw, "A = 1.0 Angstrom (basic length-scale)\n")
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			v := 0.0
			if i == j {
				v = m.PBC[i]
			}
			fmt.Fprintf(bw, "H0(%d,%d) = %f A\n", i+1, j+1, v)
		}
	}
	fmt.Fprintf(bw, ".NO_VELOCITY.\n")
	fmt.Fprintf(bw, "entry_count = 3\n")

	prev := ""
	for _, a := range m.Atoms {
		if a.Name != prev {
			fmt.Fprintf(bw, "%.4f\n%s\n", lattice.AtomicMass(a.Name), a.Name)
			prev = a.Name
		}
		fmt.Fprintf(bw, "%.7f %.7f %.7f\n",
			reduced(a.Pos[0], m.PBC[0]),
			reduced(a.Pos[1], m.PBC[1]),
			reduced(a.Pos[2], m.PBC[2]))
	}
	return bw.Flush()
}

// WriteXYZ writes the simple XYZ format: atom count, comment line, then
// one "name x y z" line per atom in Angstroms.
func WriteXYZ(w io.Writer, m *crystal.Model) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", len(m.Atoms))
	fmt.Fprintf(bw, "%s\n", m.Title)
	for _, a := range m.Atoms {
		fmt.Fprintf(bw, "%-2s %.6f %.6f %.6f\n", a.Name, a.Pos[0], a.Pos[1], a.Pos[2])
	}
	return bw.Flush()
}

// reduced maps a coordinate to the box-relative [0, 1) interval.
func reduced(x, box float64) float64 {
	if box <= 0 {
		return x
	}
	f := x / box
	f -= float64(int(f))
	if f < 0 {
		f++
	}
	return f
}
