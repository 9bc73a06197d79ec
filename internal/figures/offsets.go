// Public domain.

package figures

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/gqp-mc/mocha/internal/popfit"
)

// Offsets is the pooled offset distribution of one parameter with the
// two population estimates.
type Offsets struct {
	Label   string         `yaml:"param"`
	Pool    []float64      `yaml:"-"`
	NBin    int            `yaml:"-"`
	Profile popfit.Profile `yaml:"profile"`
	MAP     popfit.Eta     `yaml:"map"`
}

// OffsetsPlot draws the normalized histogram of pooled offsets, the
// Gaussian profile fit to it, and the MAP population Gaussian.
func OffsetsPlot(o Offsets) (*plot.Plot, error) {
	p := plot.New()
	p.X.Label.Text = "Δ " + o.Label
	p.Y.Label.Text = "density"
	if len(o.Pool) == 0 {
		return p, nil
	}
	h, err := plotter.NewHist(plotter.Values(o.Pool), o.NBin)
	if err != nil {
		return nil, err
	}
	h.Normalize(1)
	h.FillColor = palette(0, true)
	h.LineStyle.Width = 0
	p.Add(h)
	p.Legend.Add("pooled samples", h)

	lo, hi := floats.Min(o.Pool), floats.Max(o.Pool)
	curve := func(f func(float64) float64) plotter.XYs {
		const n = 200
		xy := make(plotter.XYs, n)
		for i := range xy {
			x := lo + (hi-lo)*float64(i)/(n-1)
			xy[i].X, xy[i].Y = x, f(x)
		}
		return xy
	}
	prof, err := plotter.NewLine(curve(o.Profile.Density))
	if err != nil {
		return nil, err
	}
	prof.Color = palette(1, false)
	prof.Width = vg.Points(1.5)
	gauss := distuv.Normal{Mu: o.MAP.Mu, Sigma: o.MAP.Sigma}
	mapLine, err := plotter.NewLine(curve(gauss.Prob))
	if err != nil {
		return nil, err
	}
	mapLine.Color = palette(2, false)
	mapLine.Width = vg.Points(1.5)
	mapLine.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
	p.Add(prof, mapLine)
	p.Legend.Add("profile fit", prof)
	p.Legend.Add("population MAP", mapLine)
	p.Legend.Top = true
	return p, nil
}

// OffsetsFigure draws a row of OffsetsPlot panels.  The sidecar holds
// both estimates.
func OffsetsFigure(name string, panels ...Offsets) (*Figure, error) {
	row := make([]*plot.Plot, len(panels))
	for i, o := range panels {
		p, err := OffsetsPlot(o)
		if err != nil {
			return nil, err
		}
		row[i] = p
	}
	return newFigure(name, [][]*plot.Plot{row}, panels), nil
}
