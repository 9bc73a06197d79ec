// Public domain.

package figures

import (
	"errors"
	"image/color"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/gqp-mc/mocha/internal/chain"
)

// Marginal summarizes one parameter of a posterior figure.
type Marginal struct {
	Param     string    `yaml:"param"`
	Truth     *float64  `yaml:"truth,omitempty"`
	Quantiles []float64 `yaml:"quantiles"` // at chain.Quantiles
}

// PosteriorFigure draws a corner plot of the named parameters of c:
// marginal histograms of nbin bins on the diagonal, marked at the 16th,
// 50th and 84th percentiles, and every thin-th sample of each pair below
// it.  Known values in truths, by parameter name, are marked in every
// panel.  Axes span the prior range when the chain has one.  The sidecar
// holds the percentiles.
func PosteriorFigure(name string, c *chain.Chain, truths map[string]float64, nbin, thin int) (*Figure, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	n := len(c.ThetaNames)
	if n == 0 || c.NSample == 0 {
		return nil, errors.New("figures: empty posterior")
	}
	pc := c.Percentiles()
	cols := make([][]float64, n)
	lims := make([][2]float64, n)
	table := make([]Marginal, n)
	for j, param := range c.ThetaNames {
		cols[j] = c.Column(j, 1)
		if c.PriorRange != nil {
			lims[j] = c.PriorRange[j]
		} else {
			lims[j] = span(cols[j])
		}
		m := Marginal{Param: param, Quantiles: make([]float64, len(pc))}
		for q := range pc {
			m.Quantiles[q] = pc[q][j]
		}
		if v, ok := truths[param]; ok {
			m.Truth = &v
		}
		table[j] = m
	}

	panels := make([][]*plot.Plot, n)
	for j := range panels {
		panels[j] = make([]*plot.Plot, n)
		for i := range panels[j] {
			var p *plot.Plot
			var err error
			switch {
			case i == j:
				p, err = marginalPlot(cols[j], lims[j], table[j], nbin)
			case i < j:
				p, err = pairPlot(cols[i], cols[j], lims[i], lims[j],
					table[i].Truth, table[j].Truth, thin)
			default:
				p = plot.New()
				p.HideAxes()
			}
			if err != nil {
				return nil, err
			}
			if j == n-1 {
				p.X.Label.Text = c.ThetaNames[i]
			}
			if i == 0 && j > 0 {
				p.Y.Label.Text = c.ThetaNames[j]
			}
			panels[j][i] = p
		}
	}
	f := newFigure(name, panels, table)
	f.Width = vg.Length(n) * 2.5 * vg.Inch
	f.Height = f.Width
	return f, nil
}

// span is the range of the finite values of x, widened when degenerate.
func span(x []float64) [2]float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range x {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
	}
	switch {
	case lo > hi:
		return [2]float64{0, 1}
	case lo == hi:
		return [2]float64{lo - .5, hi + .5}
	}
	return [2]float64{lo, hi}
}

func finite(x []float64) plotter.Values {
	v := make(plotter.Values, 0, len(x))
	for _, s := range x {
		if !math.IsNaN(s) && !math.IsInf(s, 0) {
			v = append(v, s)
		}
	}
	return v
}

// segment is a straight line from (x0, y0) to (x1, y1).
func segment(x0, y0, x1, y1 float64, c color.Color, dashed bool) (*plotter.Line, error) {
	l, err := plotter.NewLine(plotter.XYs{{X: x0, Y: y0}, {X: x1, Y: y1}})
	if err != nil {
		return nil, err
	}
	l.Color = c
	if dashed {
		l.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	}
	return l, nil
}

func marginalPlot(x []float64, lim [2]float64, m Marginal, nbin int) (*plot.Plot, error) {
	p := plot.New()
	p.Y.Tick.Marker = plot.ConstantTicks{}
	limits(&p.X, lim)
	v := finite(x)
	if len(v) == 0 {
		return p, nil
	}
	h, err := plotter.NewHist(v, nbin)
	if err != nil {
		return nil, err
	}
	h.Normalize(1)
	h.FillColor = palette(0, true)
	h.LineStyle.Width = 0
	p.Add(h)
	var top float64
	for _, b := range h.Bins {
		top = math.Max(top, b.Weight)
	}
	// 16th, 50th, 84th
	for _, q := range m.Quantiles[1:4] {
		if math.IsNaN(q) {
			continue
		}
		l, err := segment(q, 0, q, top, gray, true)
		if err != nil {
			return nil, err
		}
		p.Add(l)
	}
	if m.Truth != nil && !math.IsNaN(*m.Truth) {
		l, err := segment(*m.Truth, 0, *m.Truth, top, palette(1, false), false)
		if err != nil {
			return nil, err
		}
		p.Add(l)
	}
	return p, nil
}

func pairPlot(x, y []float64, xlim, ylim [2]float64, tx, ty *float64, thin int) (*plot.Plot, error) {
	p := plot.New()
	limits(&p.X, xlim)
	limits(&p.Y, ylim)
	if thin < 1 {
		thin = 1
	}
	xy := make(plotter.XYs, 0, len(x)/thin+1)
	for k := 0; k < len(x); k += thin {
		if floats.HasNaN([]float64{x[k], y[k]}) {
			continue
		}
		xy = append(xy, plotter.XY{X: x[k], Y: y[k]})
	}
	if len(xy) > 0 {
		sc, err := plotter.NewScatter(xy)
		if err != nil {
			return nil, err
		}
		sc.GlyphStyle.Color = palette(0, false)
		sc.GlyphStyle.Radius = vg.Points(.5)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(sc)
	}
	if tx != nil && !math.IsNaN(*tx) {
		l, err := segment(*tx, ylim[0], *tx, ylim[1], palette(1, false), false)
		if err != nil {
			return nil, err
		}
		p.Add(l)
	}
	if ty != nil && !math.IsNaN(*ty) {
		l, err := segment(xlim[0], *ty, xlim[1], *ty, palette(1, false), false)
		if err != nil {
			return nil, err
		}
		p.Add(l)
	}
	return p, nil
}
