// Public domain.

// Package chain reads and writes per-galaxy posterior chain files and
// assembles offset chains (inferred minus true) for population fits.
package chain

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/gqp-mc/mocha/internal/h5"
)

// Dataset names in a chain file.
const (
	dsNames = "theta_names"
	dsChain = "mcmc_chain"
	dsPrior = "prior_range"
)

// Summary dataset names, in the order of Quantiles.
var SummaryNames = [...]string{
	"theta_2sig_minus",
	"theta_1sig_minus",
	"theta_med",
	"theta_1sig_plus",
	"theta_2sig_plus",
}

// Quantiles are the cumulative probabilities of the percentile summary.
var Quantiles = [len(SummaryNames)]float64{.025, .16, .5, .84, .975}

// ErrNoParam means a chain has no column of the requested name.
var ErrNoParam = errors.New("chain: parameter not in theta_names")

// Chain is an MCMC chain, NSample rows of NParam values stored row-major.
type Chain struct {
	ThetaNames []string
	NSample    int
	NParam     int
	Data       []float64
	// PriorRange, if not nil, holds a (lo, hi) pair for each parameter.
	PriorRange [][2]float64
	// Summary, if not nil, holds stored percentiles, indexed like
	// Quantiles then by parameter.
	Summary [][]float64
}

// Index returns the column of the named parameter, or -1.
func (c *Chain) Index(name string) int {
	for i, n := range c.ThetaNames {
		if n == name {
			return i
		}
	}
	return -1
}

// Column returns every thin-th sample of column j, starting with the
// first.  Thin values less than 1 are taken as 1.
func (c *Chain) Column(j, thin int) []float64 {
	if thin < 1 {
		thin = 1
	}
	col := make([]float64, 0, (c.NSample+thin-1)/thin)
	for i := 0; i < c.NSample; i += thin {
		col = append(col, c.Data[i*c.NParam+j])
	}
	return col
}

// Param is Column by name.
func (c *Chain) Param(name string, thin int) ([]float64, error) {
	j := c.Index(name)
	if j < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoParam, name)
	}
	return c.Column(j, thin), nil
}

// Percentiles computes the Quantiles of each parameter column.  The
// result is indexed like Summary.
func (c *Chain) Percentiles() [][]float64 {
	pc := make([][]float64, len(Quantiles))
	for q := range pc {
		pc[q] = make([]float64, c.NParam)
	}
	for j := 0; j < c.NParam; j++ {
		col := c.Column(j, 1)
		sort.Float64s(col)
		for q, p := range Quantiles {
			pc[q][j] = stat.Quantile(p, stat.LinInterp, col, nil)
		}
	}
	return pc
}

// Validate checks that the shape fields agree with the data.
func (c *Chain) Validate() error {
	switch {
	case c.NSample*c.NParam != len(c.Data):
		return fmt.Errorf("chain: %d values for %d x %d",
			len(c.Data), c.NSample, c.NParam)
	case len(c.ThetaNames) > c.NParam:
		return fmt.Errorf("chain: %d names for %d parameters",
			len(c.ThetaNames), c.NParam)
	case c.PriorRange != nil && len(c.PriorRange) != c.NParam:
		return fmt.Errorf("chain: %d prior ranges for %d parameters",
			len(c.PriorRange), c.NParam)
	}
	for _, s := range c.Summary {
		if len(s) != c.NParam {
			return fmt.Errorf("chain: summary of %d for %d parameters",
				len(s), c.NParam)
		}
	}
	return nil
}

// ReadFile reads a chain file.
func ReadFile(fn string) (*Chain, error) {
	h5.Mu.Lock()
	defer h5.Mu.Unlock()
	f, err := h5.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var c Chain
	if c.ThetaNames, err = h5.Strings(f, dsNames); err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	data, dims, err := h5.Floats(f, dsChain)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	if len(dims) != 2 {
		return nil, fmt.Errorf("%s: %s has rank %d", fn, dsChain, len(dims))
	}
	c.NSample, c.NParam, c.Data = int(dims[0]), int(dims[1]), data
	if h5.Has(f, dsPrior) {
		pr, _, err := h5.Floats(f, dsPrior)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fn, err)
		}
		c.PriorRange = make([][2]float64, len(pr)/2)
		for i := range c.PriorRange {
			c.PriorRange[i] = [2]float64{pr[2*i], pr[2*i+1]}
		}
	}
	// summaries are used only when the full set is present
	summary := make([][]float64, len(SummaryNames))
	for q, name := range SummaryNames {
		if !h5.Has(f, name) {
			summary = nil
			break
		}
		if summary[q], _, err = h5.Floats(f, name); err != nil {
			return nil, fmt.Errorf("%s: %w", fn, err)
		}
	}
	c.Summary = summary
	if err = c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return &c, nil
}

// WriteFile writes c to a new file, replacing any existing file.
func WriteFile(fn string, c *Chain) error {
	if err := c.Validate(); err != nil {
		return err
	}
	h5.Mu.Lock()
	defer h5.Mu.Unlock()
	f, err := h5.Create(fn)
	if err != nil {
		return err
	}
	defer f.Close()
	if err = h5.WriteStrings(f, dsNames, c.ThetaNames); err != nil {
		return err
	}
	err = h5.WriteFloats(f, dsChain, c.Data, uint(c.NSample), uint(c.NParam))
	if err != nil {
		return err
	}
	if c.PriorRange != nil {
		pr := make([]float64, 0, 2*len(c.PriorRange))
		for _, r := range c.PriorRange {
			pr = append(pr, r[0], r[1])
		}
		if err = h5.WriteFloats(f, dsPrior, pr, uint(len(c.PriorRange)), 2); err != nil {
			return err
		}
	}
	for q, s := range c.Summary {
		if err = h5.WriteFloats(f, SummaryNames[q], s); err != nil {
			return err
		}
	}
	return nil
}
