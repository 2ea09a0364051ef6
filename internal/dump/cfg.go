package dump

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/wwmeng/gosam/internal/lattice"
)

// speciesByType maps LAMMPS atom types to species names, following the
// type numbering of the SiC boundary workflows this tool serves.
var speciesByType = map[int]string{
	1: "C",
	2: "Si",
	3: "B",
	4: "Cl",
}

// rigidSurfaceType marks atoms of a rigid reference surface; when
// present, the x color origin is anchored to it so frames of one run
// color consistently.
const rigidSurfaceType = 3

// Convert rewrites a LAMMPS dump file as an AtomEye extended CFG file.
// Positions are shifted by the box lower bounds and reduced to box
// fractions; extra dump columns are carried over as auxiliary
// properties, plus a derived periodic "xcolor" column for visualizing
// lateral displacement.
func Convert(dumpPath, cfgPath string) error {
	r, err := Open(dumpPath)
	if err != nil {
		return err
	}
	defer r.Close()

	atoms := make([]AtomRecord, 0, r.NAtoms)
	for i := 0; i < r.NAtoms; i++ {
		rec, err := r.ReadAtom()
		if err != nil {
			return fmt.Errorf("%s: atom %d: %w", dumpPath, i+1, err)
		}
		atoms = append(atoms, rec)
	}
	sort.Slice(atoms, func(i, j int) bool { return atoms[i].ID < atoms[j].ID })

	f, err := os.Create(cfgPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", cfgPath, err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	fmt.Fprintf(w, "Number of particles = %d\n", r.NAtoms)
	fmt.Fprintf(w, "# converted from %s\n", filepath.Base(dumpPath))
	fmt.Fprintf(w, "A = 1.0 Angstrom (basic length-scale)\n")
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			v := 0.0
			if i == j {
				v = r.PBC[i]
			}
			fmt.Fprintf(w, "H0(%d,%d) = %f A\n", i+1, j+1, v)
		}
	}
	fmt.Fprintf(w, ".NO_VELOCITY.\n")
	fmt.Fprintf(w, "entry_count = %d\n", 4+len(r.ExtraCols))
	for n, name := range r.ExtraCols {
		fmt.Fprintf(w, "auxiliary[%d] = %s\n", n, name)
	}
	fmt.Fprintf(w, "auxiliary[%d] = xcolor [0-1]\n", len(r.ExtraCols))

	x0 := colorOrigin(atoms, r)
	prevType := -1
	for _, a := range atoms {
		if a.Type != prevType {
			name, ok := speciesByType[a.Type]
			if !ok {
				return fmt.Errorf("%s: unknown atom type %d", dumpPath, a.Type)
			}
			fmt.Fprintf(w, "%.4f\n%s\n", lattice.AtomicMass(name), name)
			prevType = a.Type
		}
		fx := (a.Pos[0] - r.PBCLo[0]) / r.PBC[0]
		fy := (a.Pos[1] - r.PBCLo[1]) / r.PBC[1]
		fz := (a.Pos[2] - r.PBCLo[2]) / r.PBC[2]
		xcol := math.Mod(2*(fx-x0), 1)
		if xcol < 0 {
			xcol++
		}
		if a.Extra != "" {
			fmt.Fprintf(w, "%.7f %.7f %.7f %s %.3f\n", fx, fy, fz, a.Extra, xcol)
		} else {
			fmt.Fprintf(w, "%.7f %.7f %.7f %.3f\n", fx, fy, fz, xcol)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", cfgPath, err)
	}
	return nil
}

// colorOrigin picks the reference x fraction for the xcolor column: the
// x of the lowest rigid-surface atom when one exists, otherwise the
// mean x of all atoms.
func colorOrigin(atoms []AtomRecord, r *Reader) float64 {
	bestZ := math.Inf(1)
	bestX := math.NaN()
	sum := 0.0
	for _, a := range atoms {
		fx := (a.Pos[0] - r.PBCLo[0]) / r.PBC[0]
		sum += fx
		if a.Type == rigidSurfaceType && a.Pos[2] < bestZ {
			bestZ = a.Pos[2]
			bestX = fx
		}
	}
	if !math.IsNaN(bestX) {
		return bestX
	}
	if len(atoms) == 0 {
		return 0
	}
	return sum / float64(len(atoms))
}
