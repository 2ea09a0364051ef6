package crystal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wwmeng/gosam/internal/geom"
)

func testModel(atoms ...Atom) *Model {
	m := NewModel("test", geom.Vec3{10, 10, 10})
	m.Atoms = atoms
	return m
}

func TestRemoveCloseNeighbours(t *testing.T) {
	t.Parallel()

	t.Run("keeps the first of a close pair", func(t *testing.T) {
		t.Parallel()
		m := testModel(
			Atom{Name: "Si", Pos: geom.Vec3{5, 5, 5}},
			Atom{Name: "C", Pos: geom.Vec3{5.3, 5, 5}},
			Atom{Name: "Si", Pos: geom.Vec3{1, 1, 1}},
		)
		removed := m.RemoveCloseNeighbours(0.5)
		assert.Equal(t, 1, removed)
		require.Len(t, m.Atoms, 2)
		assert.Equal(t, geom.Vec3{5, 5, 5}, m.Atoms[0].Pos)
		assert.Equal(t, geom.Vec3{1, 1, 1}, m.Atoms[1].Pos)
	})

	t.Run("periodic images count", func(t *testing.T) {
		t.Parallel()
		m := testModel(
			Atom{Name: "Si", Pos: geom.Vec3{0.1, 5, 5}},
			Atom{Name: "Si", Pos: geom.Vec3{9.9, 5, 5}},
		)
		removed := m.RemoveCloseNeighbours(0.5)
		assert.Equal(t, 1, removed)
		assert.Equal(t, geom.Vec3{0.1, 5, 5}, m.Atoms[0].Pos)
	})

	t.Run("no close pairs remain", func(t *testing.T) {
		t.Parallel()
		m := testModel(
			Atom{Name: "Si", Pos: geom.Vec3{1, 1, 1}},
			Atom{Name: "Si", Pos: geom.Vec3{1.2, 1, 1}},
			Atom{Name: "Si", Pos: geom.Vec3{1.4, 1, 1}},
			Atom{Name: "Si", Pos: geom.Vec3{8, 8, 8}},
		)
		m.RemoveCloseNeighbours(0.3)
		for i := range m.Atoms {
			for j := i + 1; j < len(m.Atoms); j++ {
				d := m.Atoms[i].Pos.Sub(m.Atoms[j].Pos).MinimumImage(m.PBC).Norm()
				assert.GreaterOrEqual(t, d, 0.3)
			}
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()
		m := testModel(
			Atom{Name: "Si", Pos: geom.Vec3{5, 5, 5}},
			Atom{Name: "Si", Pos: geom.Vec3{5.3, 5, 5}},
			Atom{Name: "Si", Pos: geom.Vec3{2, 2, 2}},
		)
		m.RemoveCloseNeighbours(0.5)
		assert.Zero(t, m.RemoveCloseNeighbours(0.5))
	})

	t.Run("zero cutoff is a no-op", func(t *testing.T) {
		t.Parallel()
		m := testModel(
			Atom{Name: "Si", Pos: geom.Vec3{5, 5, 5}},
			Atom{Name: "Si", Pos: geom.Vec3{5.01, 5, 5}},
		)
		assert.Zero(t, m.RemoveCloseNeighbours(0))
		assert.Len(t, m.Atoms, 2)
	})

	t.Run("cutoff larger than the box", func(t *testing.T) {
		t.Parallel()
		// The grid degenerates to a single cell per axis; wrapping must
		// not visit atoms twice.
		m := testModel(
			Atom{Name: "Si", Pos: geom.Vec3{1, 1, 1}},
			Atom{Name: "Si", Pos: geom.Vec3{9, 9, 9}},
		)
		removed := m.RemoveCloseNeighbours(12)
		assert.Equal(t, 1, removed)
	})
}

func TestRemoveSameSpeciesNeighbours(t *testing.T) {
	t.Parallel()

	t.Run("mixed pairs survive", func(t *testing.T) {
		t.Parallel()
		m := testModel(
			Atom{Name: "Si", Pos: geom.Vec3{5, 5, 5}},
			Atom{Name: "C", Pos: geom.Vec3{5.3, 5, 5}},
		)
		assert.Zero(t, m.RemoveSameSpeciesNeighbours(0.5))
		assert.Len(t, m.Atoms, 2)
	})

	t.Run("same species pairs are thinned", func(t *testing.T) {
		t.Parallel()
		m := testModel(
			Atom{Name: "Si", Pos: geom.Vec3{5, 5, 5}},
			Atom{Name: "Si", Pos: geom.Vec3{5.3, 5, 5}},
			Atom{Name: "C", Pos: geom.Vec3{2, 2, 2}},
			Atom{Name: "C", Pos: geom.Vec3{2.3, 2, 2}},
		)
		removed := m.RemoveSameSpeciesNeighbours(0.5)
		assert.Equal(t, 2, removed)
		require.Len(t, m.Atoms, 2)
		// Group of the first atom comes out first.
		assert.Equal(t, "Si", m.Atoms[0].Name)
		assert.Equal(t, "C", m.Atoms[1].Name)
	})

	t.Run("empty model", func(t *testing.T) {
		t.Parallel()
		m := testModel()
		assert.Zero(t, m.RemoveSameSpeciesNeighbours(0.5))
	})
}
