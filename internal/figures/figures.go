// Public domain.

// Package figures renders the mock challenge figures with gonum/plot.
// Renderers take computed values; reading and fitting happen in the
// command.
package figures

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gopkg.in/yaml.v3"
)

// Figure is a grid of panels, saved as one image.
type Figure struct {
	Name          string // file name stem
	Panels        [][]*plot.Plot
	Width, Height vg.Length
	// Table, if not nil, is written as a yaml sidecar.
	Table interface{}
}

// newFigure sizes a figure at about 4 inches per panel.
func newFigure(name string, panels [][]*plot.Plot, table interface{}) *Figure {
	return &Figure{
		Name:   name,
		Panels: panels,
		Width:  vg.Length(len(panels[0])) * 4 * vg.Inch,
		Height: vg.Length(len(panels)) * 4 * vg.Inch,
		Table:  table,
	}
}

// Save writes the figure to dir as PNG and, if pdf is true, PDF, and
// writes the sidecar.  It returns the files written.
func (f *Figure) Save(dir string, pdf bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	formats := []string{"png"}
	if pdf {
		formats = append(formats, "pdf")
	}
	var files []string
	for _, format := range formats {
		fn := filepath.Join(dir, f.Name+"."+format)
		if err := f.write(fn, format); err != nil {
			return files, fmt.Errorf("%s: %w", fn, err)
		}
		files = append(files, fn)
	}
	if f.Table != nil {
		fn := filepath.Join(dir, f.Name+".yaml")
		b, err := yaml.Marshal(f.Table)
		if err != nil {
			return files, err
		}
		if err = os.WriteFile(fn, b, 0o644); err != nil {
			return files, err
		}
		files = append(files, fn)
	}
	return files, nil
}

func (f *Figure) write(fn, format string) error {
	c, err := draw.NewFormattedCanvas(f.Width, f.Height, format)
	if err != nil {
		return err
	}
	tiles := draw.Tiles{
		Rows:      len(f.Panels),
		Cols:      len(f.Panels[0]),
		PadX:      vg.Millimeter * 6,
		PadY:      vg.Millimeter * 6,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	canvases := plot.Align(f.Panels, tiles, draw.New(c))
	for j, row := range f.Panels {
		for i, p := range row {
			if p != nil {
				p.Draw(canvases[j][i])
			}
		}
	}
	w, err := os.Create(fn)
	if err != nil {
		return err
	}
	if _, err = c.WriteTo(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// palette returns the i-th series color, with alpha for fills.
func palette(i int, fill bool) color.Color {
	c := []color.NRGBA{
		{R: 31, G: 119, B: 180, A: 255},
		{R: 255, G: 127, B: 14, A: 255},
		{R: 44, G: 160, B: 44, A: 255},
		{R: 214, G: 39, B: 40, A: 255},
	}[i%4]
	if fill {
		c.A = 128
	}
	return c
}

var gray = color.NRGBA{R: 128, G: 128, B: 128, A: 255}

// limits sets axis limits where lim is not the zero pair.
func limits(a *plot.Axis, lim [2]float64) {
	if lim != [2]float64{} {
		a.Min, a.Max = lim[0], lim[1]
	}
}
