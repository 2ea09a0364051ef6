package crystal

import (
	"log"
	"math"

	"github.com/wwmeng/gosam/internal/geom"
)

// cellGrid is a spatial hash over the periodic box, with cell edges at
// least as long as the query cutoff so a 3×3×3 cell neighborhood covers
// every possible neighbor, including wrapped images.
type cellGrid struct {
	box   geom.Vec3
	n     [3]int
	size  geom.Vec3
	cells map[[3]int][]int
}

func newCellGrid(box geom.Vec3, cutoff float64) *cellGrid {
	g := &cellGrid{box: box, cells: make(map[[3]int][]int)}
	for i := 0; i < 3; i++ {
		n := int(math.Floor(box[i] / cutoff))
		if n < 1 {
			n = 1
		}
		g.n[i] = n
		g.size[i] = box[i] / float64(n)
	}
	return g
}

func (g *cellGrid) key(p geom.Vec3) [3]int {
	var k [3]int
	for i := 0; i < 3; i++ {
		c := int(math.Floor(p[i] / g.size[i]))
		c %= g.n[i]
		if c < 0 {
			c += g.n[i]
		}
		k[i] = c
	}
	return k
}

func (g *cellGrid) insert(idx int, p geom.Vec3) {
	k := g.key(p)
	g.cells[k] = append(g.cells[k], idx)
}

// neighborhood visits the indices stored in the 27 cells around p.
// Wrapped cell keys can coincide when an axis has fewer than three
// cells; duplicates are skipped so each index is visited once.
func (g *cellGrid) neighborhood(p geom.Vec3, visit func(idx int)) {
	base := g.key(p)
	var seen [27][3]int
	nSeen := 0
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				k := [3]int{
					wrap(base[0]+dx, g.n[0]),
					wrap(base[1]+dy, g.n[1]),
					wrap(base[2]+dz, g.n[2]),
				}
				dup := false
				for i := 0; i < nSeen; i++ {
					if seen[i] == k {
						dup = true
						break
					}
				}
				if dup {
					continue
				}
				seen[nSeen] = k
				nSeen++
				for _, idx := range g.cells[k] {
					visit(idx)
				}
			}
		}
	}
}

func wrap(c, n int) int {
	c %= n
	if c < 0 {
		c += n
	}
	return c
}

// removeClose removes one atom of every pair closer than dist under
// periodic wrap-around. Atoms are scanned in input order and an atom is
// dropped when it lies within dist of an earlier kept atom, so the
// first-encountered atom of a pair always survives and the result is
// deterministic for a given input.
func removeClose(atoms []Atom, box geom.Vec3, dist float64) []Atom {
	if dist <= 0 || len(atoms) == 0 {
		return atoms
	}
	grid := newCellGrid(box, dist)
	dist2 := dist * dist
	kept := make([]Atom, 0, len(atoms))
	for _, a := range atoms {
		tooClose := false
		grid.neighborhood(a.Pos, func(idx int) {
			if tooClose {
				return
			}
			d := a.Pos.Sub(kept[idx].Pos).MinimumImage(box)
			if d.Norm2() < dist2 {
				tooClose = true
			}
		})
		if tooClose {
			continue
		}
		grid.insert(len(kept), a.Pos)
		kept = append(kept, a)
	}
	return kept
}

// RemoveCloseNeighbours removes one atom of every pair closer than dist
// Angstroms, accounting for periodic images. Returns the number of
// atoms removed. Re-running on its own output removes nothing.
func (m *Model) RemoveCloseNeighbours(dist float64) int {
	before := len(m.Atoms)
	m.Atoms = removeClose(m.Atoms, m.PBC, dist)
	removed := before - len(m.Atoms)
	log.Printf("removed %d atoms closer than %g A", removed, dist)
	return removed
}

// RemoveSameSpeciesNeighbours applies close-neighbour removal
// independently within each of two species groups; pairs of different
// species are left alone. The groups are "same species as the first
// atom" and "everything else", which assumes a binary system: with
// three or more species the second group mixes species, a documented
// limitation inherited from the boundary workflows this serves.
func (m *Model) RemoveSameSpeciesNeighbours(dist float64) int {
	if len(m.Atoms) == 0 {
		return 0
	}
	first := m.Atoms[0].Name
	var groupA, groupB []Atom
	for _, a := range m.Atoms {
		if a.Name == first {
			groupA = append(groupA, a)
		} else {
			groupB = append(groupB, a)
		}
	}
	before := len(m.Atoms)
	m.Atoms = m.Atoms[:0]
	for _, group := range [][]Atom{groupA, groupB} {
		if len(group) == 0 {
			continue
		}
		log.Printf("removing %s-%s pairs closer than %g A", group[0].Name, group[0].Name, dist)
		m.Atoms = append(m.Atoms, removeClose(group, m.PBC, dist)...)
	}
	return before - len(m.Atoms)
}
