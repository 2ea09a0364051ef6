package crystal

import (
	"fmt"
	"log"

	"github.com/wwmeng/gosam/internal/geom"
	"github.com/wwmeng/gosam/internal/lattice"
	"github.com/wwmeng/gosam/internal/units"
)

// Bicrystal is two independently rotated grains of the same lattice
// stacked in a shared periodic box, the boundary at z = dim_z/2.
type Bicrystal struct {
	*Model
	Upper  *Monocrystal
	Bottom *Monocrystal
}

// NewBicrystal builds a bicrystal over the given box. Each grain gets
// its own copy of the lattice; a shift applied to one can never alias
// into the other.
func NewBicrystal(lat *lattice.Lattice, dim geom.Vec3, rotUpper, rotBottom geom.Mat3, title string) *Bicrystal {
	return &Bicrystal{
		Model:  NewModel(title, dim),
		Upper:  NewMonocrystal(lat, dim, rotUpper),
		Bottom: NewMonocrystal(lat, dim, rotBottom),
	}
}

// GenerateAtoms populates the model with the upper grain's atoms
// followed by the bottom grain's. The upper-first export order is part
// of the output contract. zMargin (Angstroms) is the vacuum margin.
func (b *Bicrystal) GenerateAtoms(zMargin float64) error {
	upper, err := b.Upper.Generate(HalfUpper, zMargin)
	if err != nil {
		return fmt.Errorf("upper grain: %w", err)
	}
	bottom, err := b.Bottom.Generate(HalfBottom, zMargin)
	if err != nil {
		return fmt.Errorf("bottom grain: %w", err)
	}
	b.Atoms = append(upper, bottom...)
	log.Printf("number of atoms in bicrystal: %d", len(b.Atoms))
	b.logBoundaryAngles()
	return nil
}

// BoundaryAngles returns the angles (degrees) between the upper grain's
// first unit-cell direction and the bottom grain's three unit-cell
// directions and their negations. A diagnostic for boundary coherence;
// nothing downstream depends on it.
func (b *Bicrystal) BoundaryAngles() []float64 {
	u0 := b.Upper.UnitShift(0)
	angles := make([]float64, 0, 6)
	for i := 0; i < 3; i++ {
		angles = append(angles, units.Degrees(u0.Angle(b.Bottom.UnitShift(i))))
	}
	for i := 0; i < 3; i++ {
		angles = append(angles, units.Degrees(u0.Angle(b.Bottom.UnitShift(i).Neg())))
	}
	return angles
}

func (b *Bicrystal) logBoundaryAngles() {
	angles := b.BoundaryAngles()
	s := ""
	for i, a := range angles {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%.1f", a)
	}
	log.Printf("angles between upper and bottom: %s", s)
}
