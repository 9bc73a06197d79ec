// Public domain.

package mock

import (
	"math"
	"os"
	"path/filepath"

	"github.com/gqp-mc/mocha/internal/catalog"
	"github.com/gqp-mc/mocha/internal/sky"
)

// surveys writes a catalog for each footprint survey: a wide northern
// footprint, a narrower one, and the GAMA fields.
func (g *generator) surveys(dir string, n int) error {
	for _, s := range sky.Surveys {
		var ra, dec, z []float64
		for i := 0; i < n; i++ {
			var r, d float64
			switch s.Name {
			case "GAMA":
				f := sky.GAMA[i%len(sky.GAMA)]
				r = g.uniform(f.RAMin.Rad(), f.RAMax.Rad()) * 180 / math.Pi
				d = g.uniform(f.DecMin.Deg(), f.DecMax.Deg())
			case "SDSS":
				r, d = g.uniform(110, 260), g.uniform(-5, 70)
			default:
				r, d = g.uniform(0, 360), g.uniform(-20, 80)
			}
			ra = append(ra, r)
			dec = append(dec, d)
			z = append(z, math.Abs(g.normal(.2, .1)))
		}
		tb := catalog.New(n)
		tb.Set(s.Cols.RA, ra)
		tb.Set(s.Cols.Dec, dec)
		tb.Set(s.Cols.Z, z)
		fn := filepath.Join(dir, s.File)
		if err := os.MkdirAll(filepath.Dir(fn), 0o755); err != nil {
			return err
		}
		var err error
		if filepath.Ext(fn) == ".fits" {
			err = catalog.WriteFITS(fn, s.Name, tb)
		} else {
			err = catalog.WriteHDF5(fn, tb)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
