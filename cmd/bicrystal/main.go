// Command bicrystal generates atomistic bicrystal (and monocrystal)
// models: two independently rotated lattice blocks joined at a planar
// grain boundary inside an orthorhombic periodic box.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/wwmeng/gosam/internal/config"
	"github.com/wwmeng/gosam/internal/crystal"
	"github.com/wwmeng/gosam/internal/export"
)

const usage = `Usage:
   bicrystal axis plane sigma dim_x dim_y dim_z [options...] output_file

 - axis of rotation is given as three Miller indices, e.g. "001", "111",
   "1-10", or comma-separated for multi-digit indices ("0,1,0")
 - the boundary is always at plane z = dim_z / 2
 - plane can be given as:
     * Miller indices of the boundary plane in the bottom lattice
     * "twist": the plane is perpendicular to the axis
     * Miller indices prefixed with "m" (e.g. m011): median plane; the
       boundary is the median plane rotated by theta/2 about the axis
 - instead of sigma (one number) you can give:
     * u<sigma> (e.g. u5): restrict to solutions with theta >= 45 deg
     * m,n (e.g. 23,4)
     * theta=<degrees> (e.g. theta=90)
 - dim_x, dim_y, dim_z are in nm; restricted arithmetic is accepted
   (e.g. "2*sqrt(5)")
 - options:
     * nofit        - do not tune PBC dimensions to the periodic cell
     * nozfit       - do not tune the z dimension
     * mono1        - generate only the upper grain as a monocrystal
     * mono2        - generate only the bottom grain as a monocrystal
     * remove:dist  - remove one atom of every pair closer than dist [A]
     * remove2:dist - like remove, but only same-species pairs (binary
                      systems)
     * vacuum:len   - add len [nm] of vacuum in z (2D slab)
     * lattice:name - lattice to use (default sic)
     * shift:dx,dy,dz - fractional shift of the unit-cell nodes
     * edge:z1,z2   - carve atoms with y in the lower half and z1<z<z2
     * all          - export once per candidate boundary cutoff
     * allall       - like all, with independent cutoffs per side

Examples:
    bicrystal 001 twist 5 20 20 80 twist_s5.cfg
    bicrystal 100 013 5 20 20 80 tilt_s5.cfg
    bicrystal 100 m011 5 20 20 80 tilt_s5.cfg
    bicrystal 100 0,1,0 theta=90 1 1 1 tmp.cfg
`

func main() {
	log.SetFlags(0)

	opts, err := config.Parse(os.Args[1:])
	if err != nil {
		if errors.Is(err, config.ErrUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		log.Fatalf("bicrystal: %v", err)
	}

	title := strings.Join(os.Args, " ")
	res, err := crystal.Build(opts, title)
	if err != nil {
		log.Fatalf("bicrystal: %v", err)
	}

	if opts.All || opts.AllAll {
		cfg := crystal.SweepConfig{
			OutFile:      opts.OutputFile,
			LatticeA:     res.LatticeA,
			SingleCutoff: opts.All,
		}
		if _, err := res.Model.CutoffSweep(cfg, export.Atoms); err != nil {
			log.Fatalf("bicrystal: %v", err)
		}
		return
	}

	if err := export.Atoms(opts.OutputFile, res.Model); err != nil {
		log.Fatalf("bicrystal: %v", err)
	}
	log.Printf("wrote %s", opts.OutputFile)
}
