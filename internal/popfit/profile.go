// Public domain.

package popfit

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/maorshutman/lm"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Profile is a Gaussian profile fitted to a histogram of pooled offset
// samples.  Amp is the peak density.
type Profile struct {
	Amp float64 `yaml:"amp"`
	Eta `yaml:",inline"`
}

// Density evaluates the profile at x.
func (p Profile) Density(x float64) float64 {
	d := (x - p.Mu) / p.Sigma
	return p.Amp * math.Exp(-.5*d*d)
}

// Histogram bins pooled samples into nbin equal bins spanning their range
// and returns bin centers and densities normalized to unit area.
func Histogram(pool []float64, nbin int) (centers, density []float64, err error) {
	if nbin < 1 {
		return nil, nil, errors.New("popfit: need at least one histogram bin")
	}
	if len(pool) == 0 {
		return nil, nil, errors.New("popfit: no samples to histogram")
	}
	x := append([]float64{}, pool...)
	sort.Float64s(x)
	lo, hi := x[0], x[len(x)-1]
	if !(hi > lo) {
		return nil, nil, fmt.Errorf("popfit: degenerate sample range [%g, %g]", lo, hi)
	}
	div := make([]float64, nbin+1)
	floats.Span(div, lo, hi)
	// stat.Histogram wants the last divider strictly above the data.
	div[nbin] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, div, x, nil)
	centers = make([]float64, nbin)
	density = make([]float64, nbin)
	n := float64(len(x))
	for i, c := range counts {
		w := div[i+1] - div[i]
		centers[i] = div[i] + .5*w
		density[i] = c / (n * w)
	}
	return centers, density, nil
}

// ProfileFit pools every sample of every chain, ignoring NaN, and fits a
// Gaussian profile to the pooled histogram by Levenberg-Marquardt least
// squares.  Unlike MAP it takes no account of per-galaxy posterior
// widths, so Sigma estimates the population scatter broadened by the
// typical posterior width.
func ProfileFit(chains [][]float64, nbin int) (Profile, error) {
	var pool []float64
	for _, c := range chains {
		for _, x := range c {
			if !math.IsNaN(x) {
				pool = append(pool, x)
			}
		}
	}
	if len(pool) < 2 {
		return Profile{}, ErrNoChains
	}
	xs, ys, err := Histogram(pool, nbin)
	if err != nil {
		return Profile{}, err
	}
	mean, std := stat.MeanStdDev(pool, nil)
	f := func(dst, par []float64) {
		p := Profile{Amp: par[0], Eta: Eta{Mu: par[1], Sigma: par[2]}}
		for i, x := range xs {
			dst[i] = p.Density(x) - ys[i]
		}
	}
	nj := &lm.NumJac{Func: f}
	problem := lm.LMProblem{
		Dim:        3,
		Size:       len(xs),
		Func:       f,
		Jac:        nj.Jac,
		InitParams: []float64{floats.Max(ys), mean, std},
		Tau:        1e-6,
		Eps1:       1e-8,
		Eps2:       1e-8,
	}
	result, err := lm.LM(problem, &lm.Settings{Iterations: 1000, ObjectiveTol: 1e-16})
	if err != nil {
		return Profile{}, fmt.Errorf("popfit: profile fit: %w", err)
	}
	// the profile is symmetric in sigma
	return Profile{
		Amp: result.X[0],
		Eta: Eta{Mu: result.X[1], Sigma: math.Abs(result.X[2])},
	}, nil
}
