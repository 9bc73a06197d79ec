// Public domain.

package figures

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/gqp-mc/mocha/internal/popfit"
)

// Series is a set of binned fits, drawn as the bias mu with a band of
// ±sigma.
type Series struct {
	Label string          `yaml:"label,omitempty"`
	Fits  []popfit.BinFit `yaml:"fits"`
}

// Panel is one band plot.
type Panel struct {
	XLabel string     `yaml:"x"`
	YLabel string     `yaml:"y"`
	XLim   [2]float64 `yaml:"-"`
	YLim   [2]float64 `yaml:"-"`
	Series []Series   `yaml:"series"`
}

// BandPlot draws a panel with a dashed line at zero offset.
func BandPlot(pn Panel) (*plot.Plot, error) {
	p := plot.New()
	p.X.Label.Text = pn.XLabel
	p.Y.Label.Text = pn.YLabel
	limits(&p.X, pn.XLim)
	limits(&p.Y, pn.YLim)

	x0, x1 := pn.XLim[0], pn.XLim[1]
	if pn.XLim == [2]float64{} {
		x0, x1 = 0, 1
		first := true
		for _, s := range pn.Series {
			for _, f := range s.Fits {
				if first || f.Lo < x0 {
					x0 = f.Lo
				}
				if first || f.Hi > x1 {
					x1 = f.Hi
				}
				first = false
			}
		}
	}
	zero, err := plotter.NewLine(plotter.XYs{{X: x0, Y: 0}, {X: x1, Y: 0}})
	if err != nil {
		return nil, err
	}
	zero.Color = gray
	zero.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
	p.Add(zero)

	for i, s := range pn.Series {
		if len(s.Fits) == 0 {
			continue
		}
		mean := make(plotter.XYs, len(s.Fits))
		band := make(plotter.XYs, 2*len(s.Fits))
		for j, f := range s.Fits {
			mean[j].X, mean[j].Y = f.Mid, f.Mu
			// lower edge forward, upper edge back
			band[j].X, band[j].Y = f.Mid, f.Mu-f.Sigma
			k := len(band) - 1 - j
			band[k].X, band[k].Y = f.Mid, f.Mu+f.Sigma
		}
		poly, err := plotter.NewPolygon(band)
		if err != nil {
			return nil, err
		}
		poly.Color = palette(i, true)
		poly.LineStyle.Width = 0
		line, err := plotter.NewLine(mean)
		if err != nil {
			return nil, err
		}
		line.Color = palette(i, false)
		pts, err := plotter.NewScatter(mean)
		if err != nil {
			return nil, err
		}
		pts.GlyphStyle.Color = palette(i, false)
		pts.GlyphStyle.Radius = vg.Points(2)
		pts.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(poly, line, pts)
		if s.Label != "" {
			p.Legend.Add(s.Label, poly)
		}
	}
	p.Legend.Top = true
	return p, nil
}

// BandFigure draws a grid of band panels.  The sidecar holds the fits.
func BandFigure(name string, panels [][]Panel) (*Figure, error) {
	plots := make([][]*plot.Plot, len(panels))
	for j, row := range panels {
		plots[j] = make([]*plot.Plot, len(row))
		for i, pn := range row {
			p, err := BandPlot(pn)
			if err != nil {
				return nil, err
			}
			plots[j][i] = p
		}
	}
	return newFigure(name, plots, panels), nil
}
