// Public domain.

package figures

import (
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/gqp-mc/mocha/internal/sky"
)

// FootprintFigure draws survey positions on a Mollweide map with the GAMA
// fields and the galactic plane, and the redshift distributions of the
// surveys beside it.
func FootprintFigure(name string, surveys []*sky.Survey) (*Figure, error) {
	m, err := skyMap(surveys)
	if err != nil {
		return nil, err
	}
	z, err := dNdz(surveys)
	if err != nil {
		return nil, err
	}
	f := newFigure(name, [][]*plot.Plot{{m, z}}, nil)
	f.Width = 12 * vg.Inch
	return f, nil
}

func skyMap(surveys []*sky.Survey) (*plot.Plot, error) {
	p := plot.New()
	p.HideAxes()
	p.X.Min, p.X.Max = -2*math.Sqrt2, 2*math.Sqrt2
	p.Y.Min, p.Y.Max = -math.Sqrt2, math.Sqrt2

	// graticule: map edge and meridians every 60°, parallels every 30°
	var grid []plotter.XYs
	for lon := -180.; lon <= 180; lon += 60 {
		var l plotter.XYs
		for lat := -90.; lat <= 90; lat += 3 {
			x, y := sky.Mollweide(lon*math.Pi/180, lat*math.Pi/180)
			l = append(l, plotter.XY{X: x, Y: y})
		}
		grid = append(grid, l)
	}
	for lat := -60.; lat <= 60; lat += 30 {
		var l plotter.XYs
		for lon := -180.; lon <= 180; lon += 6 {
			x, y := sky.Mollweide(lon*math.Pi/180, lat*math.Pi/180)
			l = append(l, plotter.XY{X: x, Y: y})
		}
		grid = append(grid, l)
	}
	for _, g := range grid {
		line, err := plotter.NewLine(g)
		if err != nil {
			return nil, err
		}
		line.Color = gray
		line.Width = vg.Points(.25)
		p.Add(line)
	}

	for i, s := range surveys {
		x, y := s.Project()
		if len(x) == 0 {
			continue
		}
		xy := make(plotter.XYs, len(x))
		for j := range x {
			xy[j].X, xy[j].Y = x[j], y[j]
		}
		sc, err := plotter.NewScatter(xy)
		if err != nil {
			return nil, err
		}
		sc.GlyphStyle.Color = palette(i, false)
		sc.GlyphStyle.Radius = vg.Points(.5)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(sc)
		p.Legend.Add(s.Name, sc)
	}

	for _, f := range sky.GAMA {
		x, y := f.Outline(8)
		xy := make(plotter.XYs, len(x))
		for j := range x {
			xy[j].X, xy[j].Y = x[j], y[j]
		}
		poly, err := plotter.NewPolygon(xy)
		if err != nil {
			return nil, err
		}
		poly.Color = palette(1, true)
		poly.LineStyle.Width = vg.Points(.5)
		p.Add(poly)
	}

	xs, ys := sky.Segments(sky.GalacticPlane(360))
	for k := range xs {
		xy := make(plotter.XYs, len(xs[k]))
		for j := range xs[k] {
			xy[j].X, xy[j].Y = xs[k][j], ys[k][j]
		}
		line, err := plotter.NewLine(xy)
		if err != nil {
			return nil, err
		}
		line.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(line)
	}
	p.Legend.Top = true
	return p, nil
}

func dNdz(surveys []*sky.Survey) (*plot.Plot, error) {
	p := plot.New()
	p.X.Label.Text = "Redshift"
	p.Y.Label.Text = "dN/dz"
	p.X.Min, p.X.Max = 0, .6
	for i, s := range surveys {
		var z plotter.Values
		for _, v := range s.Z {
			if v >= 0 && v <= 1 {
				z = append(z, v)
			}
		}
		if len(z) == 0 {
			continue
		}
		h, err := plotter.NewHist(z, 100)
		if err != nil {
			return nil, err
		}
		// area equal to the count makes heights dN/dz
		h.Normalize(float64(len(z)))
		h.FillColor = palette(i, true)
		h.LineStyle.Width = 0
		p.Add(h)
		p.Legend.Add(s.Name, h)
	}
	p.Legend.Top = true
	return p, nil
}
