// Package crystal builds atomistic bicrystal and monocrystal models:
// lattice enumeration under an orientation matrix, assembly of two
// grains in a shared periodic box, and geometric post-processing
// (overlap removal, edge carving, cutoff sweeps).
package crystal

import (
	"math/rand"

	"github.com/wwmeng/gosam/internal/geom"
)

// randomSeed fixes the model-owned random source. No step currently
// breaks ties randomly, but the source is seeded and owned here instead
// of a process-global seed so golden-output runs stay reproducible if
// one ever does.
const randomSeed = 12345

// Atom is one atom of the model: species name and Cartesian position in
// Angstroms.
type Atom struct {
	Name string
	Pos  geom.Vec3
}

// Model is an atom configuration in an orthorhombic periodic box.
// The box is axis-aligned; PBC holds its edge lengths in Angstroms.
type Model struct {
	Title string
	PBC   geom.Vec3
	Atoms []Atom

	rng *rand.Rand
}

// NewModel returns an empty model for the given box.
func NewModel(title string, pbc geom.Vec3) *Model {
	return &Model{
		Title: title,
		PBC:   pbc,
		rng:   rand.New(rand.NewSource(randomSeed)),
	}
}

// CloneAtoms returns an independent copy of the atom list.
func (m *Model) CloneAtoms() []Atom {
	out := make([]Atom, len(m.Atoms))
	copy(out, m.Atoms)
	return out
}
