// Public domain.

package catalog

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/gqp-mc/mocha/internal/chain"
	"github.com/gqp-mc/mocha/internal/propbin"
)

// Truth catalog columns.
const (
	LogMTotal = "logM_total"
	SFR100Myr = "sfr_100myr"
	SFR1Gyr   = "sfr_1gyr"
	ZMW       = "Z_MW"
	TAgeMW    = "t_age_MW"
	FluxG     = "flux_g_true"
	FluxR     = "flux_r_true"
	FluxZ     = "flux_z_true"
)

// TruthColumns are the simulation properties of a truth catalog.
var TruthColumns = []string{LogMTotal, SFR100Myr, SFR1Gyr, ZMW, TAgeMW}

// FluxColumns are the true g, r, z fluxes in nanomaggies.
var FluxColumns = []string{FluxG, FluxR, FluxZ}

// LittleH is the Hubble parameter of the TNG simulation.
const LittleH = .6774

// HCorrection is the offset added to TNG log masses and log star
// formation rates, which are in h-scaled units.  It is 0 for other
// simulations.
func HCorrection(sim string) float64 {
	if sim == "tng" {
		return math.Log10(1 / (LittleH * LittleH))
	}
	return 0
}

// TruthPath returns the truth catalog file name for a simulation.
func TruthPath(dir, sim string) string {
	return filepath.Join(dir, sim+".truth.hdf5")
}

// Truth holds the true properties of simulated galaxies, indexed by
// galaxy.
type Truth struct {
	Sim      string
	Table    *Table
	LogMStar []float64 // h corrected
	LogSFR   []float64 // log10 of sfr_100myr, h corrected

	// nil when the catalog lacks the column
	LogSFR1Gyr []float64 // log10 of sfr_1gyr, h corrected
	LogZMW     []float64 // log10 of Z_MW
	TAgeMW     []float64 // Gyr

	Photo []propbin.Photo
}

// NewTruth derives truth values from a catalog table.  Columns other
// than logM_total and sfr_100myr are optional; without fluxes Photo is
// nil.
func NewTruth(t *Table, sim string) (*Truth, error) {
	m, err := t.Col(LogMTotal)
	if err != nil {
		return nil, err
	}
	sfr, err := t.Col(SFR100Myr)
	if err != nil {
		return nil, err
	}
	h := HCorrection(sim)
	tr := &Truth{
		Sim:      sim,
		Table:    t,
		LogMStar: make([]float64, t.Len),
		LogSFR:   make([]float64, t.Len),
	}
	for i := range m {
		tr.LogMStar[i] = m[i] + h
		tr.LogSFR[i] = math.Log10(sfr[i]) + h
	}
	if v, err := t.Col(SFR1Gyr); err == nil {
		tr.LogSFR1Gyr = mapLog10(v, h)
	}
	if v, err := t.Col(ZMW); err == nil {
		tr.LogZMW = mapLog10(v, 0)
	}
	if v, err := t.Col(TAgeMW); err == nil {
		tr.TAgeMW = v
	}
	if t.Has(FluxG) && t.Has(FluxR) && t.Has(FluxZ) {
		g, _ := t.Col(FluxG)
		r, _ := t.Col(FluxR)
		z, _ := t.Col(FluxZ)
		tr.Photo = make([]propbin.Photo, t.Len)
		for i := range tr.Photo {
			tr.Photo[i] = propbin.Photo{G: g[i], R: r[i], Z: z[i]}
		}
	}
	return tr, nil
}

func mapLog10(v []float64, add float64) []float64 {
	l := make([]float64, len(v))
	for i, x := range v {
		l[i] = math.Log10(x) + add
	}
	return l
}

// ReadTruth reads the truth catalog of sim in dir.
func ReadTruth(dir, sim string) (*Truth, error) {
	t, err := Read(TruthPath(dir, sim))
	if err != nil {
		return nil, err
	}
	return NewTruth(t, sim)
}

// Values returns the true values of a chain parameter.  A parameter
// with no simulation counterpart gives chain.ErrNoParam; one whose
// column the catalog lacks gives ErrNoColumn.
func (tr *Truth) Values(param string) ([]float64, error) {
	var v []float64
	switch param {
	case chain.LogMStar:
		return tr.LogMStar, nil
	case chain.LogSFR:
		return tr.LogSFR, nil
	case chain.LogSFR1Gyr:
		v = tr.LogSFR1Gyr
	case chain.LogZMW:
		v = tr.LogZMW
	case chain.TAgeMW:
		v = tr.TAgeMW
	default:
		return nil, fmt.Errorf("%w: no truth for %s", chain.ErrNoParam, param)
	}
	if v == nil {
		return nil, fmt.Errorf("%w: %s truth has no values for %s",
			ErrNoColumn, tr.Sim, param)
	}
	return v, nil
}

// Property returns the values of binning property px of PList for every
// galaxy.
func (tr *Truth) Property(px int) ([]float64, error) {
	if tr.Photo == nil {
		return nil, fmt.Errorf("%w: %s truth has no fluxes", ErrNoColumn, tr.Sim)
	}
	return propbin.Values(px, tr.Photo), nil
}
