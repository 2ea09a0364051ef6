package dump

import (
	"bufio"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/stat"
)

// Reference cohesive energy per atom (eV) for the SiC285 Tersoff
// potential; per-atom energies above this are boundary excess.
const e0 = -6.1646668

// eVPerA2ToJPerM2 converts an areal energy density from eV/Å² to J/m².
const eVPerA2ToJPerM2 = 16.021765

// Histogram parameters: the z extent is split into nbins bins, and the
// boundary energy integrates the bins within gbRelativeWidth of the
// slab around z = 0 (the boundary sits at z = 0 in relaxed dumps).
const (
	nbins           = 128
	gbRelativeWidth = 0.7
)

// HistBin is one occupied z bin of the excess-energy histogram.
type HistBin struct {
	Z          float64 // bin center, Angstroms
	MeanEnergy float64 // average per-atom energy, eV
	GBEnergy   float64 // excess over e0 per boundary area, J/m²
}

// EnergyResult is the grain-boundary energy analysis of one dump file.
type EnergyResult struct {
	File     string
	NAtoms   int
	Area     float64 // boundary area, Å²
	GBEnergy float64 // J/m²
	Bins     []HistBin

	MeanAtomEnergy float64
	StdAtomEnergy  float64
}

// GBEnergy computes the grain-boundary energy of a dump file from its
// per-atom energies (last dump column): atoms are binned by z, each
// bin's excess over the reference cohesive energy is converted to an
// areal density, and the bins around the boundary are summed.
func GBEnergy(path string) (*EnergyResult, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	area := r.PBC[0] * r.PBC[1]
	if area <= 0 {
		return nil, fmt.Errorf("%s: degenerate boundary area %g", path, area)
	}

	sums := make([]float64, nbins)
	counts := make([]int, nbins)
	energies := make([]float64, 0, r.NAtoms)
	for i := 0; i < r.NAtoms; i++ {
		rec, err := r.ReadAtom()
		if err != nil {
			return nil, fmt.Errorf("%s: atom %d: %w", path, i+1, err)
		}
		energies = append(energies, rec.Value)
		z := math.Mod(rec.Pos[2], r.PBC[2])
		if z < 0 {
			z += r.PBC[2]
		}
		bin := int(float64(nbins) * z / r.PBC[2])
		if bin >= nbins {
			bin = nbins - 1
		}
		sums[bin] += rec.Value
		counts[bin]++
	}

	res := &EnergyResult{File: path, NAtoms: r.NAtoms, Area: area}
	for n := 0; n < nbins; n++ {
		if counts[n] == 0 {
			continue
		}
		excess := sums[n] - e0*float64(counts[n])
		res.Bins = append(res.Bins, HistBin{
			Z:          (float64(n) + 0.5) / nbins * r.PBC[2],
			MeanEnergy: sums[n] / float64(counts[n]),
			GBEnergy:   excess / area * eVPerA2ToJPerM2,
		})
	}

	// The boundary is at z = 0, so its bins wrap around both ends of
	// the occupied histogram.
	qb := int(gbRelativeWidth * float64(len(res.Bins)) / 2)
	for i := 0; i < qb && i < len(res.Bins); i++ {
		res.GBEnergy += res.Bins[i].GBEnergy
		res.GBEnergy += res.Bins[len(res.Bins)-1-i].GBEnergy
	}

	res.MeanAtomEnergy = stat.Mean(energies, nil)
	res.StdAtomEnergy = stat.StdDev(energies, nil)
	return res, nil
}

// WriteHistogram writes the occupied bins as "z mean_energy gb_energy"
// lines, the historical .xy histogram layout.
func WriteHistogram(res *EnergyResult, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	for _, b := range res.Bins {
		fmt.Fprintf(w, "%g %g %g\n", b.Z, b.MeanEnergy, b.GBEnergy)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
