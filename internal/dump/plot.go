package dump

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlotHistogram renders the excess-energy-vs-z histogram to an image
// file (format chosen by extension, typically .png) for quick
// inspection of where the boundary energy concentrates.
func PlotHistogram(res *EnergyResult, path string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("GB energy vs z: %s", res.File)
	p.X.Label.Text = "z [Å]"
	p.Y.Label.Text = "excess energy [J/m²]"

	pts := make(plotter.XYs, len(res.Bins))
	for i, b := range res.Bins {
		pts[i].X = b.Z
		pts[i].Y = b.GBEnergy
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("plot %s: %w", path, err)
	}
	p.Add(line, points)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot %s: %w", path, err)
	}
	return nil
}
