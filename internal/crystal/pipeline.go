package crystal

import (
	"fmt"
	"log"

	"github.com/wwmeng/gosam/internal/config"
	"github.com/wwmeng/gosam/internal/csl"
	"github.com/wwmeng/gosam/internal/geom"
	"github.com/wwmeng/gosam/internal/lattice"
)

// BuildResult carries the generated model together with the
// intermediate matrices, for diagnostics and tests.
type BuildResult struct {
	Model *Model

	R        geom.Mat3 // bottom-to-upper grain rotation
	CSL      geom.IMat3
	Oriented geom.IMat3
	Cell     *csl.OrthorhombicCell

	RotUpper  geom.Mat3
	RotBottom geom.Mat3

	LatticeA float64
}

// Build runs the full construction pipeline: rotation matrix, CSL cell,
// boundary-plane orientation, orthorhombic periodic cell, dimension
// fitting, grain generation and post-processing. The cutoff sweep and
// export are left to the caller. Any failure aborts before output is
// produced.
func Build(opts *config.BuildOptions, title string) (*BuildResult, error) {
	res := &BuildResult{}

	// R maps lattice coordinates of the bottom grain into the upper.
	res.R = csl.Rodrigues(opts.Axis.Vec(), opts.Theta)
	if !res.R.IsOrthonormal(1e-9) {
		return nil, fmt.Errorf("internal: rotation matrix is not orthonormal")
	}

	if opts.Sigma != 0 {
		C, err := csl.FindCSLMatrix(opts.Sigma, res.R)
		if err != nil {
			return nil, err
		}
		res.CSL = C
		log.Printf("CSL primitive cell:\n%v", C.Mat())
	} else {
		// Explicit-angle runs have no coincidence constraint; the
		// periodic cell is searched in the plain lattice.
		res.CSL = geom.IMat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	}

	// The periodic box must be orthorhombic with the boundary plane
	// perpendicular to its z axis.
	Cp, err := csl.MakeParallelToAxis(res.CSL, 2, opts.Plane)
	if err != nil {
		return nil, err
	}
	res.Oriented = Cp
	log.Printf("CSL cell with z || [%d %d %d]:\n%v", opts.Plane[0], opts.Plane[1], opts.Plane[2], Cp.Mat())

	cell, err := csl.FindOrthorhombicPBC(Cp)
	if err != nil {
		return nil, err
	}
	res.Cell = cell
	log.Printf("minimal orthorhombic PBC cell:\n%v", cell.Cell.Mat())

	lat, err := lattice.GetNamedLattice(opts.LatticeName)
	if err != nil {
		return nil, err
	}
	if opts.LatticeShift != nil {
		lat.ShiftSites(*opts.LatticeShift)
	}
	res.LatticeA = lat.A

	var minDim [3]float64
	for i := 0; i < 3; i++ {
		minDim[i] = cell.MinDim[i] * lat.A
	}
	log.Printf("min. dim. [A]: %g %g %g", minDim[0], minDim[1], minDim[2])
	dim := FitDimensions(opts.ReqDim, minDim, FitOptions{
		Fit:     opts.Fit,
		ZFit:    opts.ZFit,
		Mono:    opts.Mono1 || opts.Mono2,
		VacuumZ: opts.VacuumZ,
	})

	// Orientation matrices in box-aligned coordinates: cell.Rot maps
	// the bottom grain's lattice frame onto the box axes; the upper
	// grain is additionally rotated by R.
	res.RotBottom = cell.Rot
	res.RotUpper = cell.Rot.Mul(res.R)

	switch {
	case opts.Mono1:
		res.Model, err = buildMonocrystal(lat, dim, res.RotUpper, title, opts.VacuumZ)
	case opts.Mono2:
		res.Model, err = buildMonocrystal(lat, dim, res.RotBottom, title, opts.VacuumZ)
	default:
		bi := NewBicrystal(lat, dim, res.RotUpper, res.RotBottom, title)
		err = bi.GenerateAtoms(opts.VacuumZ)
		res.Model = bi.Model
	}
	if err != nil {
		return nil, err
	}

	if !opts.Mono1 && !opts.Mono2 && opts.RemoveDist > 0 {
		res.Model.RemoveCloseNeighbours(opts.RemoveDist)
	}
	if opts.RemoveDist2 > 0 {
		res.Model.RemoveSameSpeciesNeighbours(opts.RemoveDist2)
	}
	if opts.Edge != nil {
		res.Model.CarveEdge(opts.Edge[0], opts.Edge[1])
	}
	return res, nil
}

func buildMonocrystal(lat *lattice.Lattice, dim geom.Vec3, orient geom.Mat3, title string, zMargin float64) (*Model, error) {
	mono := NewMonocrystal(lat, dim, orient)
	atoms, err := mono.Generate(HalfNone, zMargin)
	if err != nil {
		return nil, err
	}
	m := NewModel(title, dim)
	m.Atoms = atoms
	log.Printf("number of atoms in monocrystal: %d", len(atoms))
	return m, nil
}
