// Package config turns the positional command line of the bicrystal
// generator into a typed option structure, resolving the rotation and
// boundary plane along the way. Dimension arguments accept a restricted
// arithmetic grammar (see EvalExpr); there is deliberately no general
// expression evaluation.
package config

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/wwmeng/gosam/internal/csl"
	"github.com/wwmeng/gosam/internal/geom"
	"github.com/wwmeng/gosam/internal/units"
)

// ErrUsage signals that the argument list is too short to be a valid
// invocation; the caller prints usage text.
var ErrUsage = errors.New("not enough arguments")

// BuildOptions is the fully resolved configuration of one construction
// run.
type BuildOptions struct {
	Axis  geom.IVec3
	Plane geom.IVec3

	// Sigma is 0 when the rotation was given as an explicit angle.
	Sigma int
	Theta float64 // radians
	M, N  int

	ReqDim [3]float64 // requested dimensions, nm

	Fit    bool
	ZFit   bool
	Mono1  bool
	Mono2  bool
	All    bool
	AllAll bool

	RemoveDist  float64 // Angstroms, 0 = off
	RemoveDist2 float64 // Angstroms, 0 = off
	VacuumZ     float64 // Angstroms, 0 = off

	LatticeName  string
	LatticeShift *geom.Vec3
	Edge         *[2]float64 // z1, z2 in Angstroms

	OutputFile string
}

// Parse resolves argv (without the program name) into BuildOptions.
// Argument order is fixed: axis plane sigma dim_x dim_y dim_z
// [options...] output_file.
func Parse(args []string) (*BuildOptions, error) {
	if len(args) < 7 {
		return nil, ErrUsage
	}
	o := &BuildOptions{
		Fit:         true,
		ZFit:        true,
		LatticeName: "sic",
	}

	axis, err := csl.ParseMiller(args[0])
	if err != nil {
		return nil, fmt.Errorf("axis: %w", err)
	}
	o.Axis = axis
	log.Printf("rotation axis: [%d %d %d]", axis[0], axis[1], axis[2])

	if err := o.resolveRotation(args[2]); err != nil {
		return nil, err
	}
	if err := o.resolvePlane(args[1]); err != nil {
		return nil, err
	}

	for i := 0; i < 3; i++ {
		v, err := EvalExpr(args[3+i])
		if err != nil {
			return nil, fmt.Errorf("dim_%c: %w", 'x'+i, err)
		}
		if v <= 0 {
			return nil, fmt.Errorf("dim_%c: %g is not a positive length", 'x'+i, v)
		}
		o.ReqDim[i] = v
	}

	if err := o.parseOptions(args[6 : len(args)-1]); err != nil {
		return nil, err
	}
	o.OutputFile = args[len(args)-1]
	if o.OutputFile == "" {
		return nil, fmt.Errorf("empty output filename")
	}
	return o, nil
}

// resolveRotation handles the sigma argument: "theta=<deg>", a bare
// sigma, "u<sigma>" (minimum-angle branch), or "m,n".
func (o *BuildOptions) resolveRotation(arg string) error {
	switch {
	case strings.HasPrefix(arg, "theta="):
		deg, err := strconv.ParseFloat(arg[len("theta="):], 64)
		if err != nil {
			return fmt.Errorf("sigma argument %q: %w", arg, err)
		}
		o.Theta = units.Radians(deg)
	case strings.Contains(arg, ","):
		parts := strings.SplitN(arg, ",", 2)
		m, err1 := strconv.Atoi(parts[0])
		n, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil {
			return fmt.Errorf("sigma argument %q: want two integers m,n", arg)
		}
		sigma := csl.CubicSigma(o.Axis, m, n)
		if sigma == 0 {
			return fmt.Errorf("m=%d n=%d about [%d %d %d] gives no coincidence lattice",
				m, n, o.Axis[0], o.Axis[1], o.Axis[2])
		}
		o.Sigma, o.M, o.N = sigma, m, n
		o.Theta = csl.CubicTheta(o.Axis, m, n)
	default:
		s := arg
		minAngle := 0.0
		if strings.HasPrefix(s, "u") {
			s = s[1:]
			minAngle = units.Radians(45)
		}
		sigma, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("sigma argument %q: %w", arg, err)
		}
		sol, err := csl.FindTheta(o.Axis, sigma, minAngle)
		if err != nil {
			return err
		}
		o.Sigma, o.M, o.N = sigma, sol.M, sol.N
		o.Theta = sol.Theta
	}
	if o.Sigma != 0 {
		log.Printf("sigma = %d", o.Sigma)
	}
	log.Printf("theta = %.3f deg", units.Degrees(o.Theta))
	return nil
}

// resolvePlane handles the plane argument: "twist", Miller indices, or
// a median plane ("m" prefix) which must contain the rotation axis and
// is rotated by theta/2 to give the actual boundary normal.
func (o *BuildOptions) resolvePlane(arg string) error {
	switch {
	case arg == "twist":
		o.Plane = o.Axis
	case strings.HasPrefix(arg, "m"):
		median, err := csl.ParseMiller(arg[1:])
		if err != nil {
			return fmt.Errorf("median plane: %w", err)
		}
		if median.Dot(o.Axis) != 0 {
			return fmt.Errorf("median plane (%d %d %d): axis [%d %d %d] must be contained in the median plane",
				median[0], median[1], median[2], o.Axis[0], o.Axis[1], o.Axis[2])
		}
		half := csl.Rodrigues(o.Axis.Vec(), o.Theta/2)
		rotated := half.MulVec(median.Vec())
		plane, err := csl.ScaleToIntegers(rotated)
		if err != nil {
			return fmt.Errorf("median plane: %w", err)
		}
		o.Plane = plane
	default:
		plane, err := csl.ParseMiller(arg)
		if err != nil {
			return fmt.Errorf("plane: %w", err)
		}
		o.Plane = plane
	}
	log.Printf("boundary plane: (%d %d %d)", o.Plane[0], o.Plane[1], o.Plane[2])
	return nil
}

// parseOptions consumes the free-order option tokens. Each option may
// appear at most once; conflicting options are configuration errors.
func (o *BuildOptions) parseOptions(opts []string) error {
	seen := map[string]bool{}
	once := func(name string) error {
		if seen[name] {
			return fmt.Errorf("option %q specified more than once", name)
		}
		seen[name] = true
		return nil
	}
	for _, opt := range opts {
		name, value, hasValue := strings.Cut(opt, ":")
		if err := once(name); err != nil {
			return err
		}
		switch name {
		case "nofit":
			o.Fit = false
		case "nozfit":
			o.ZFit = false
		case "mono1":
			o.Mono1 = true
		case "mono2":
			o.Mono2 = true
		case "all":
			o.All = true
		case "allall":
			o.AllAll = true
		case "remove":
			d, err := parseOptFloat(opt, value, hasValue)
			if err != nil {
				return err
			}
			o.RemoveDist = d
		case "remove2":
			d, err := parseOptFloat(opt, value, hasValue)
			if err != nil {
				return err
			}
			o.RemoveDist2 = d
		case "vacuum":
			d, err := parseOptFloat(opt, value, hasValue)
			if err != nil {
				return err
			}
			o.VacuumZ = units.NmToAngstrom(d)
		case "lattice":
			if !hasValue || value == "" {
				return fmt.Errorf("option %q: missing lattice name", opt)
			}
			o.LatticeName = value
		case "shift":
			v, err := parseOptVec3(opt, value, hasValue)
			if err != nil {
				return err
			}
			o.LatticeShift = &v
		case "edge":
			v, err := parseOptFloatList(opt, value, hasValue, 2)
			if err != nil {
				return err
			}
			o.Edge = &[2]float64{v[0], v[1]}
		default:
			return fmt.Errorf("unknown option %q", opt)
		}
	}

	if o.Mono1 && o.Mono2 {
		return fmt.Errorf("mono1 and mono2 are mutually exclusive")
	}
	if o.All && o.AllAll {
		return fmt.Errorf("all and allall are mutually exclusive")
	}
	if (o.Mono1 || o.Mono2) && (o.All || o.AllAll) {
		return fmt.Errorf("monocrystal modes cannot be combined with cutoff sweeps")
	}
	return nil
}

func parseOptFloat(opt, value string, hasValue bool) (float64, error) {
	if !hasValue {
		return 0, fmt.Errorf("option %q: missing value", opt)
	}
	d, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("option %q: %w", opt, err)
	}
	return d, nil
}

func parseOptFloatList(opt, value string, hasValue bool, n int) ([]float64, error) {
	if !hasValue {
		return nil, fmt.Errorf("option %q: missing value", opt)
	}
	parts := strings.Split(value, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("option %q: want %d comma-separated values", opt, n)
	}
	out := make([]float64, n)
	for i, p := range parts {
		d, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("option %q: %w", opt, err)
		}
		out[i] = d
	}
	return out, nil
}

func parseOptVec3(opt, value string, hasValue bool) (geom.Vec3, error) {
	v, err := parseOptFloatList(opt, value, hasValue, 3)
	if err != nil {
		return geom.Vec3{}, err
	}
	return geom.Vec3{v[0], v[1], v[2]}, nil
}
