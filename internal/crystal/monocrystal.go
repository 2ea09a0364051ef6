package crystal

import (
	"fmt"
	"math"

	"github.com/wwmeng/gosam/internal/geom"
	"github.com/wwmeng/gosam/internal/lattice"
)

// Half selects which part of the box a grain fills.
type Half int

const (
	// HalfNone fills the whole box (monocrystal mode).
	HalfNone Half = iota
	// HalfUpper fills z in [dim_z/2, dim_z).
	HalfUpper
	// HalfBottom fills z in (0, dim_z/2).
	HalfBottom
)

// filterEps absorbs rounding noise when deciding whether an atom sits
// inside the half-open box interval. It is far below any interatomic
// spacing, so it only affects atoms that are periodic images of ones
// already counted at the opposite face.
const filterEps = 1e-6

// Monocrystal enumerates the atoms of one rotated grain.
type Monocrystal struct {
	Lattice *lattice.Lattice
	Dim     geom.Vec3 // full box dimensions, Angstroms
	Orient  geom.Mat3 // maps lattice-frame Cartesian coordinates into the box frame
}

// NewMonocrystal returns a grain over its own copy of the lattice.
func NewMonocrystal(lat *lattice.Lattice, dim geom.Vec3, orient geom.Mat3) *Monocrystal {
	return &Monocrystal{Lattice: lat.Clone(), Dim: dim, Orient: orient}
}

// UnitShift returns the i-th unit-cell basis vector of the grain in box
// coordinates, used for boundary-angle diagnostics.
func (m *Monocrystal) UnitShift(i int) geom.Vec3 {
	var e geom.Vec3
	e[i] = m.Lattice.A
	return m.Orient.MulVec(e)
}

// Generate enumerates every lattice atom inside the grain's region of
// the box. zMargin is split evenly between the two outer z faces,
// leaving room for vacuum. The enumeration first covers the bounding
// box of the rotated region in lattice coordinates, then filters to the
// true box; a naive axis-aligned loop would miss corners of the rotated
// region. Atom order is a fixed function of the cell scan order, so
// output is reproducible.
func (m *Monocrystal) Generate(half Half, zMargin float64) ([]Atom, error) {
	if !m.Orient.IsOrthonormal(1e-9) {
		return nil, fmt.Errorf("internal: grain orientation matrix is not orthonormal")
	}
	a := m.Lattice.A
	if a <= 0 {
		return nil, fmt.Errorf("lattice %q has non-positive parameter %g", m.Lattice.Name, a)
	}

	// Generation region in the grain's own frame: the lattice origin is
	// placed on the grain boundary plane (or the box origin for a full
	// monocrystal), and the result is shifted into place afterwards.
	var zLo, zHi, zShift float64
	switch half {
	case HalfUpper:
		zLo, zHi = 0, m.Dim[2]/2-zMargin/2
		zShift = m.Dim[2] / 2
	case HalfBottom:
		zLo, zHi = zMargin/2-m.Dim[2]/2, 0
		zShift = m.Dim[2] / 2
	default:
		zLo, zHi = zMargin/2, m.Dim[2]-zMargin/2
	}

	lo := geom.Vec3{0, 0, zLo}
	hi := geom.Vec3{m.Dim[0], m.Dim[1], zHi}
	cmin, cmax := m.cellBounds(lo, hi)

	var atoms []Atom
	for cx := cmin[0]; cx <= cmax[0]; cx++ {
		for cy := cmin[1]; cy <= cmax[1]; cy++ {
			for cz := cmin[2]; cz <= cmax[2]; cz++ {
				for _, site := range m.Lattice.Sites {
					p := geom.Vec3{
						a * (float64(cx) + site.Pos[0]),
						a * (float64(cy) + site.Pos[1]),
						a * (float64(cz) + site.Pos[2]),
					}
					q := m.Orient.MulVec(p)
					if !inHalfOpen(q[0], 0, m.Dim[0]) ||
						!inHalfOpen(q[1], 0, m.Dim[1]) ||
						!inHalfOpen(q[2], zLo, zHi) {
						continue
					}
					q[2] += zShift
					atoms = append(atoms, Atom{Name: site.Name, Pos: q})
				}
			}
		}
	}
	return atoms, nil
}

// cellBounds maps the corners of the target region back into lattice
// cell indices and pads by one cell, giving a superset of the unit
// cells that can contribute atoms.
func (m *Monocrystal) cellBounds(lo, hi geom.Vec3) (cmin, cmax [3]int) {
	inv := m.Orient.Transpose()
	a := m.Lattice.A
	first := true
	for ix := 0; ix < 2; ix++ {
		for iy := 0; iy < 2; iy++ {
			for iz := 0; iz < 2; iz++ {
				corner := geom.Vec3{
					pick(ix, lo[0], hi[0]),
					pick(iy, lo[1], hi[1]),
					pick(iz, lo[2], hi[2]),
				}
				f := inv.MulVec(corner).Scale(1 / a)
				for k := 0; k < 3; k++ {
					flo := int(math.Floor(f[k])) - 1
					fhi := int(math.Ceil(f[k])) + 1
					if first {
						cmin[k], cmax[k] = flo, fhi
					} else {
						if flo < cmin[k] {
							cmin[k] = flo
						}
						if fhi > cmax[k] {
							cmax[k] = fhi
						}
					}
				}
				first = false
			}
		}
	}
	return cmin, cmax
}

func pick(i int, lo, hi float64) float64 {
	if i == 0 {
		return lo
	}
	return hi
}

// inHalfOpen reports whether x lies in [lo, hi), with tolerance for
// rounding noise at the faces.
func inHalfOpen(x, lo, hi float64) bool {
	return x >= lo-filterEps && x < hi-filterEps
}
