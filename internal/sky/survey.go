// Public domain.

package sky

import (
	"fmt"

	"github.com/gqp-mc/mocha/internal/catalog"
)

// Survey is a set of galaxy positions and redshifts.
type Survey struct {
	Name string
	Pos  []Position
	Z    []float64
}

// SurveyColumns name the catalog columns of a survey.  An empty Z means
// the survey has no redshifts.
type SurveyColumns struct {
	RA, Dec, Z string
}

// DefaultColumns are lower case ra, dec and z.
var DefaultColumns = SurveyColumns{"ra", "dec", "z"}

// ReadSurvey reads positions, in degrees, and redshifts from a catalog
// file.  Every thin-th row is kept for positions; redshifts are all
// kept.
func ReadSurvey(fn, name string, cols SurveyColumns, thin int) (*Survey, error) {
	names := []string{cols.RA, cols.Dec}
	if cols.Z != "" {
		names = append(names, cols.Z)
	}
	t, err := catalog.Read(fn, names...)
	if err != nil {
		return nil, err
	}
	return FromTable(t, name, cols, thin)
}

// FromTable builds a Survey from catalog columns.
func FromTable(t *catalog.Table, name string, cols SurveyColumns, thin int) (*Survey, error) {
	if thin < 1 {
		thin = 1
	}
	ra, err := t.Col(cols.RA)
	if err != nil {
		return nil, fmt.Errorf("survey %s: %w", name, err)
	}
	dec, err := t.Col(cols.Dec)
	if err != nil {
		return nil, fmt.Errorf("survey %s: %w", name, err)
	}
	s := &Survey{Name: name}
	for i := 0; i < t.Len; i += thin {
		s.Pos = append(s.Pos, FromDeg(ra[i], dec[i]))
	}
	if cols.Z != "" {
		if s.Z, err = t.Col(cols.Z); err != nil {
			return nil, fmt.Errorf("survey %s: %w", name, err)
		}
	}
	return s, nil
}

// Project returns map coordinates of every position.
func (s *Survey) Project() (x, y []float64) {
	x = make([]float64, len(s.Pos))
	y = make([]float64, len(s.Pos))
	for i, p := range s.Pos {
		x[i], y[i] = p.Project()
	}
	return
}

// SurveyFile locates a footprint survey catalog relative to the data
// directory.
type SurveyFile struct {
	Name string
	File string
	Cols SurveyColumns
}

// Surveys are the catalogs of the footprint figure, drawn in order.
var Surveys = []SurveyFile{
	{"DESI", "surveys/bgs.hdf5", SurveyColumns{"ra", "dec", "z_obs"}},
	{"SDSS", "surveys/sdss.fits", DefaultColumns},
	{"GAMA", "surveys/gama.fits", SurveyColumns{"RA", "DEC", "Z"}},
}
