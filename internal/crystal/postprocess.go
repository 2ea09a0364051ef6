package crystal

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/wwmeng/gosam/internal/geom"
)

// CarveEdge removes every atom with y in the lower half of the box
// (0 < y <= pbc_y/2) and z strictly between z1 and z2. The carved notch
// can become an edge dislocation after squeezing or high-temperature
// annealing. Returns the number of atoms removed. The atom list is
// rebuilt by filtering, so no index bookkeeping is involved.
func (m *Model) CarveEdge(z1, z2 float64) int {
	halfY := m.PBC[1] / 2
	kept := make([]Atom, 0, len(m.Atoms))
	for _, a := range m.Atoms {
		if a.Pos[1] > 0 && a.Pos[1] <= halfY && a.Pos[2] > z1 && a.Pos[2] < z2 {
			continue
		}
		kept = append(kept, a)
	}
	removed := len(m.Atoms) - len(kept)
	m.Atoms = kept
	log.Printf("edge: %d atoms removed", removed)
	return removed
}

// Cutoff sweep bounds: candidate boundary cutoffs run from sweepStart
// Angstroms up to half the lattice parameter, in sweepStep increments.
// Fixed constants keep the sweep deterministic for a given lattice.
const (
	sweepStart = 0.4
	sweepStep  = 0.05
)

// SweepConfig parameterizes a boundary cutoff sweep.
type SweepConfig struct {
	// OutFile is the base output path; each artifact gets the cutoff
	// value(s) spliced in before the extension.
	OutFile string
	// LatticeA bounds the sweep at 0.5*LatticeA.
	LatticeA float64
	// SingleCutoff applies one shared cutoff to the whole boundary;
	// otherwise each grain side gets an independent cutoff.
	SingleCutoff bool
}

// SweepArtifact records one exported configuration of a cutoff sweep.
type SweepArtifact struct {
	File         string  `json:"file"`
	CutoffUpper  float64 `json:"cutoff_upper"`
	CutoffBottom float64 `json:"cutoff_bottom"`
	Atoms        int     `json:"atoms"`
}

type sweepManifest struct {
	RunID        string          `json:"run_id"`
	Title        string          `json:"title"`
	SingleCutoff bool            `json:"single_cutoff"`
	LatticeA     float64         `json:"lattice_a"`
	Artifacts    []SweepArtifact `json:"artifacts"`
}

// ExportFunc writes a model to a file; the caller chooses the format.
type ExportFunc func(path string, m *Model) error

// CutoffSweep regenerates the boundary once per candidate cutoff and
// exports each configuration, so the cutoff giving the most plausible
// boundary can be picked by inspection. With SingleCutoff one shared
// cutoff is swept; otherwise every pair of per-side cutoffs is swept,
// where a close pair is removed if it is within the larger of the two
// sides' cutoffs (the side of an atom is its z position relative to the
// boundary plane). A JSON manifest listing all artifacts is written
// next to the outputs.
func (m *Model) CutoffSweep(cfg SweepConfig, export ExportFunc) ([]SweepArtifact, error) {
	cutoffs := sweepCutoffs(cfg.LatticeA)
	if len(cutoffs) == 0 {
		return nil, fmt.Errorf("lattice parameter %g leaves no cutoffs to sweep", cfg.LatticeA)
	}
	original := m.CloneAtoms()
	var artifacts []SweepArtifact

	runOne := func(cUpper, cBottom float64) error {
		work := &Model{Title: m.Title, PBC: m.PBC}
		work.Atoms = removeClosePerSide(original, m.PBC, cUpper, cBottom)
		var path string
		if cfg.SingleCutoff {
			path = spliceSuffix(cfg.OutFile, fmt.Sprintf("_c%.2f", cUpper))
		} else {
			path = spliceSuffix(cfg.OutFile, fmt.Sprintf("_c%.2f_%.2f", cUpper, cBottom))
		}
		if err := export(path, work); err != nil {
			return fmt.Errorf("cutoff %g/%g: %w", cUpper, cBottom, err)
		}
		artifacts = append(artifacts, SweepArtifact{
			File:         path,
			CutoffUpper:  cUpper,
			CutoffBottom: cBottom,
			Atoms:        len(work.Atoms),
		})
		return nil
	}

	if cfg.SingleCutoff {
		for _, c := range cutoffs {
			if err := runOne(c, c); err != nil {
				return nil, err
			}
		}
	} else {
		for _, cu := range cutoffs {
			for _, cb := range cutoffs {
				if err := runOne(cu, cb); err != nil {
					return nil, err
				}
			}
		}
	}

	manifest := sweepManifest{
		RunID:        uuid.NewString(),
		Title:        m.Title,
		SingleCutoff: cfg.SingleCutoff,
		LatticeA:     cfg.LatticeA,
		Artifacts:    artifacts,
	}
	manifestPath := strings.TrimSuffix(cfg.OutFile, filepath.Ext(cfg.OutFile)) + ".manifest.json"
	if err := writeManifest(manifestPath, &manifest); err != nil {
		return nil, err
	}
	log.Printf("cutoff sweep: %d configurations, manifest %s", len(artifacts), manifestPath)
	return artifacts, nil
}

// removeClosePerSide is removeClose with a per-side threshold: a pair
// is close when its distance is under the larger of the two atoms'
// side cutoffs, so either side's cutoff can claim a straddling pair.
func removeClosePerSide(atoms []Atom, box geom.Vec3, cUpper, cBottom float64) []Atom {
	maxCut := cUpper
	if cBottom > maxCut {
		maxCut = cBottom
	}
	if maxCut <= 0 || len(atoms) == 0 {
		return atoms
	}
	boundary := box[2] / 2
	sideCut := func(a *Atom) float64 {
		if a.Pos[2] >= boundary {
			return cUpper
		}
		return cBottom
	}
	grid := newCellGrid(box, maxCut)
	kept := make([]Atom, 0, len(atoms))
	for i := range atoms {
		a := &atoms[i]
		tooClose := false
		grid.neighborhood(a.Pos, func(idx int) {
			if tooClose {
				return
			}
			b := &kept[idx]
			cut := sideCut(a)
			if c := sideCut(b); c > cut {
				cut = c
			}
			d := a.Pos.Sub(b.Pos).MinimumImage(box)
			if d.Norm2() < cut*cut {
				tooClose = true
			}
		})
		if tooClose {
			continue
		}
		grid.insert(len(kept), a.Pos)
		kept = append(kept, *a)
	}
	return kept
}

func sweepCutoffs(a float64) []float64 {
	var out []float64
	for c := sweepStart; c <= 0.5*a+1e-9; c += sweepStep {
		out = append(out, c)
	}
	return out
}

// spliceSuffix inserts s before the file extension of path.
func spliceSuffix(path, s string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + s + ext
}

func writeManifest(path string, m *sweepManifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode sweep manifest: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write sweep manifest: %w", err)
	}
	return nil
}
