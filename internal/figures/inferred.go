// Public domain.

package figures

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Inferred compares true values with posterior medians.
type Inferred struct {
	Label  string
	Lim    [2]float64
	Truth  []float64
	Median []float64
	Lo, Hi []float64 // 16th and 84th percentiles
}

type errPoints struct {
	plotter.XYs
	plotter.YErrors
}

// InferredPlot draws medians against truth with 16-84 error bars and the
// one-to-one line.
func InferredPlot(in Inferred) (*plot.Plot, error) {
	n := len(in.Truth)
	if len(in.Median) != n || len(in.Lo) != n || len(in.Hi) != n {
		return nil, fmt.Errorf("figures: inferred %s lengths differ", in.Label)
	}
	p := plot.New()
	p.X.Label.Text = "true " + in.Label
	p.Y.Label.Text = "inferred " + in.Label
	limits(&p.X, in.Lim)
	limits(&p.Y, in.Lim)
	if in.Lim != [2]float64{} {
		one, err := plotter.NewLine(plotter.XYs{
			{X: in.Lim[0], Y: in.Lim[0]}, {X: in.Lim[1], Y: in.Lim[1]}})
		if err != nil {
			return nil, err
		}
		one.Color = gray
		one.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
		p.Add(one)
	}
	if n == 0 {
		return p, nil
	}
	d := errPoints{
		XYs:     make(plotter.XYs, n),
		YErrors: make(plotter.YErrors, n),
	}
	for i := range in.Truth {
		d.XYs[i].X, d.XYs[i].Y = in.Truth[i], in.Median[i]
		d.YErrors[i].Low = in.Median[i] - in.Lo[i]
		d.YErrors[i].High = in.Hi[i] - in.Median[i]
	}
	e, err := plotter.NewYErrorBars(d)
	if err != nil {
		return nil, err
	}
	e.LineStyle.Color = palette(0, false)
	pts, err := plotter.NewScatter(d)
	if err != nil {
		return nil, err
	}
	pts.GlyphStyle.Color = palette(0, false)
	pts.GlyphStyle.Radius = vg.Points(2)
	pts.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(e, pts)
	return p, nil
}

// InferredFigure draws a row of InferredPlot panels.
func InferredFigure(name string, panels ...Inferred) (*Figure, error) {
	row := make([]*plot.Plot, len(panels))
	for i, in := range panels {
		p, err := InferredPlot(in)
		if err != nil {
			return nil, err
		}
		row[i] = p
	}
	return newFigure(name, [][]*plot.Plot{row}, nil), nil
}
