package crystal

import (
	"log"
	"math"

	"github.com/wwmeng/gosam/internal/geom"
	"github.com/wwmeng/gosam/internal/units"
)

// FitOptions controls how requested box dimensions are reconciled with
// the minimal periodic cell.
type FitOptions struct {
	// Fit rounds x and y up to multiples of the minimal cell; ZFit
	// additionally rounds z (only meaningful when Fit is set).
	Fit  bool
	ZFit bool
	// Mono doubles the requested z dimension before fitting: a single
	// grain fills the box instead of two stacked halves.
	Mono bool
	// VacuumZ (Angstroms) is added to z after fitting; vacuum need not
	// be a periodic multiple.
	VacuumZ float64
}

// fitEps keeps the ceiling division exact for dimensions that already
// are multiples of the minimal cell, so fitting is idempotent.
const fitEps = 1e-9

// FitDimensions converts the requested dimensions (nanometers) to
// Angstroms and rounds each fitted axis up to the nearest positive
// integer multiple of that axis's minimal periodic length minDim
// (Angstroms).
func FitDimensions(reqNm [3]float64, minDim [3]float64, o FitOptions) geom.Vec3 {
	var dim geom.Vec3
	for i := 0; i < 3; i++ {
		dim[i] = units.NmToAngstrom(reqNm[i])
	}
	if o.Mono {
		dim[2] *= 2
	}

	var fitAxes []int
	if o.Fit {
		fitAxes = []int{0, 1}
		if o.ZFit {
			fitAxes = append(fitAxes, 2)
		}
	}
	for _, i := range fitAxes {
		mult := math.Ceil(dim[i]/minDim[i] - fitEps)
		if mult < 1 {
			mult = 1
		}
		dim[i] = mult * minDim[i]
	}
	if o.VacuumZ > 0 {
		dim[2] += o.VacuumZ
	}
	log.Printf("dimensions [A]: %g x %g x %g", dim[0], dim[1], dim[2])
	return dim
}
