// Package lattice holds the catalog of cubic lattice definitions used
// to populate monocrystal grains. A Lattice is a value type: each grain
// works on its own copy, so a fractional shift applied to one grain
// never leaks into the other.
package lattice

import (
	"fmt"
	"math"
	"strings"

	"github.com/wwmeng/gosam/internal/geom"
)

// Site is one basis atom of the cubic cell: a species name and a
// fractional position inside the cell.
type Site struct {
	Name string
	Pos  geom.Vec3
}

// Lattice is a cubic unit-cell definition.
type Lattice struct {
	Name  string
	A     float64 // lattice parameter, Angstroms
	Sites []Site
}

// Clone returns an independent deep copy of the lattice.
func (l *Lattice) Clone() *Lattice {
	out := &Lattice{Name: l.Name, A: l.A}
	out.Sites = make([]Site, len(l.Sites))
	copy(out.Sites, l.Sites)
	return out
}

// ShiftSites offsets every site by the fractional vector d, wrapping
// back into [0, 1).
func (l *Lattice) ShiftSites(d geom.Vec3) {
	for i := range l.Sites {
		for k := 0; k < 3; k++ {
			x := l.Sites[i].Pos[k] + d[k]
			x -= math.Floor(x)
			l.Sites[i].Pos[k] = x
		}
	}
}

// CountSpecies returns the number of distinct species in the cell.
func (l *Lattice) CountSpecies() int {
	seen := map[string]bool{}
	for _, s := range l.Sites {
		seen[s.Name] = true
	}
	return len(seen)
}

// fccPositions are the four lattice points of a face-centered cubic
// cell, used as the backbone of several catalog entries.
var fccPositions = []geom.Vec3{
	{0, 0, 0},
	{0.5, 0.5, 0},
	{0.5, 0, 0.5},
	{0, 0.5, 0.5},
}

func fccSites(name string, offset geom.Vec3) []Site {
	sites := make([]Site, 0, 4)
	for _, p := range fccPositions {
		q := p.Add(offset)
		// Keep fractional positions in [0, 1) so enumeration over unit
		// cells never produces duplicate border atoms.
		for k := 0; k < 3; k++ {
			q[k] -= math.Floor(q[k])
		}
		sites = append(sites, Site{Name: name, Pos: q})
	}
	return sites
}

// GetNamedLattice returns a fresh copy of a catalog entry. Known names:
// sic, si, diamond, cu, fe, nacl.
func GetNamedLattice(name string) (*Lattice, error) {
	switch name {
	case "sic":
		// Zinc blende SiC: Si on the fcc lattice, C on the second
		// diamond sublattice.
		l := &Lattice{Name: "sic", A: 4.36}
		l.Sites = append(l.Sites, fccSites("Si", geom.Vec3{})...)
		l.Sites = append(l.Sites, fccSites("C", geom.Vec3{0.25, 0.25, 0.25})...)
		return l, nil
	case "si":
		l := &Lattice{Name: "si", A: 5.431}
		l.Sites = append(l.Sites, fccSites("Si", geom.Vec3{})...)
		l.Sites = append(l.Sites, fccSites("Si", geom.Vec3{0.25, 0.25, 0.25})...)
		return l, nil
	case "diamond":
		l := &Lattice{Name: "diamond", A: 3.567}
		l.Sites = append(l.Sites, fccSites("C", geom.Vec3{})...)
		l.Sites = append(l.Sites, fccSites("C", geom.Vec3{0.25, 0.25, 0.25})...)
		return l, nil
	case "cu":
		return &Lattice{Name: "cu", A: 3.615, Sites: fccSites("Cu", geom.Vec3{})}, nil
	case "fe":
		return &Lattice{Name: "fe", A: 2.87, Sites: []Site{
			{Name: "Fe", Pos: geom.Vec3{0, 0, 0}},
			{Name: "Fe", Pos: geom.Vec3{0.5, 0.5, 0.5}},
		}}, nil
	case "nacl":
		l := &Lattice{Name: "nacl", A: 5.64}
		l.Sites = append(l.Sites, fccSites("Na", geom.Vec3{})...)
		l.Sites = append(l.Sites, fccSites("Cl", geom.Vec3{0.5, 0, 0})...)
		return l, nil
	default:
		return nil, fmt.Errorf("unknown lattice %q (known: %s)", name, knownLattices())
	}
}

func knownLattices() string {
	return strings.Join([]string{"cu", "diamond", "fe", "nacl", "si", "sic"}, ", ")
}

// AtomicMass returns the standard atomic mass for the species used by
// the catalog, for export headers. Unknown species get a placeholder.
func AtomicMass(species string) float64 {
	switch species {
	case "C":
		return 12.011
	case "Si":
		return 28.086
	case "Cu":
		return 63.546
	case "Fe":
		return 55.845
	case "Na":
		return 22.990
	case "Cl":
		return 35.453
	case "B":
		return 10.811
	default:
		return 1.0
	}
}
