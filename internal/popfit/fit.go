// Public domain.

package popfit

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/optimize"

	"github.com/gqp-mc/mocha/internal/propbin"
)

// ErrNoChains is returned by MAP when there is nothing to fit.
var ErrNoChains = errors.New("popfit: no chains to fit")

// The optimizer works in (mu, s) with sigma = sigmaMin + exp(s), which
// keeps sigma above its bound without a constrained method.
func (s *Solver) sigma(x float64) float64 {
	return s.sigmaMin + math.Exp(x)
}

func (s *Solver) unsigma(sigma float64) float64 {
	return math.Log(sigma - s.sigmaMin)
}

// MAP finds the hyperparameters maximizing the population log likelihood
// of chains.  An undefined likelihood anywhere along the optimization path
// stops the fit and its *UndefinedError is returned.
func (s *Solver) MAP(chains [][]float64) (Eta, error) {
	if len(chains) == 0 {
		return Eta{}, ErrNoChains
	}
	var evalErr error
	negL := func(x []float64) float64 {
		if evalErr != nil {
			return math.Inf(1)
		}
		l, err := s.LogL(Eta{Mu: x[0], Sigma: s.sigma(x[1])}, chains)
		if err != nil {
			evalErr = err
			return math.Inf(1)
		}
		return -l
	}
	p := optimize.Problem{Func: negL}
	var method optimize.Method
	switch s.method {
	case NelderMead:
		method = &optimize.NelderMead{}
	default:
		fds := &fd.Settings{Formula: fd.Central}
		p.Grad = func(grad, x []float64) {
			fd.Gradient(grad, negL, x, fds)
		}
		method = &optimize.LBFGS{}
	}
	settings := &optimize.Settings{
		GradientThreshold: 1e-8,
		MajorIterations:   s.maxIter,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-10,
			Relative:   1e-10,
			Iterations: 25,
		},
	}
	x0 := []float64{s.start.Mu, s.unsigma(s.start.Sigma)}
	res, err := optimize.Minimize(p, x0, settings, method)
	switch {
	case evalErr != nil:
		return Eta{}, evalErr
	case res == nil:
		return Eta{}, fmt.Errorf("popfit: optimization failed: %w", err)
	case err != nil:
		// line search stalls are normal with finite difference gradients
		// near the optimum; the best location found is still valid.
		s.log.Debug("optimizer stopped early",
			zap.Error(err), zap.Stringer("status", res.Status))
	}
	eta := Eta{Mu: res.X[0], Sigma: s.sigma(res.X[1])}
	if math.IsNaN(eta.Mu) || math.IsNaN(eta.Sigma) {
		return Eta{}, fmt.Errorf("popfit: optimizer returned NaN (status %v)", res.Status)
	}
	s.log.Debug("population fit",
		zap.Int("galaxies", len(chains)),
		zap.Float64("mu", eta.Mu),
		zap.Float64("sigma", eta.Sigma),
		zap.Float64("logL", -res.F),
		zap.Int("evaluations", res.Stats.FuncEvaluations))
	return eta, nil
}

// BinFit is the MAP fit for one property bin.
type BinFit struct {
	Lo  float64 `yaml:"lo"`
	Hi  float64 `yaml:"hi"`
	Mid float64 `yaml:"mid"`
	N   int     `yaml:"n"` // galaxies in the bin
	Eta `yaml:",inline"`
}

// EtaMAP fits population hyperparameters in each bin of an external
// property.  prop[i] is the property of the galaxy whose chain is
// chains[i].  Galaxies are binned with the (lo, hi] rule of
// propbin.Edges; empty bins are skipped, so the result has at most
// edges.NBin() entries, in bin order.
func (s *Solver) EtaMAP(prop []float64, chains [][]float64, edges propbin.Edges) ([]BinFit, error) {
	if len(prop) != len(chains) {
		return nil, fmt.Errorf("popfit: %d property values for %d chains",
			len(prop), len(chains))
	}
	if err := edges.Validate(); err != nil {
		return nil, err
	}
	var fits []BinFit
	var members [][]int
	for bx, m := range edges.Select(prop) {
		if len(m) == 0 {
			continue
		}
		lo, hi := edges.Bounds(bx)
		fits = append(fits, BinFit{Lo: lo, Hi: hi, Mid: edges.Mid(bx), N: len(m)})
		members = append(members, m)
	}
	var g errgroup.Group
	g.SetLimit(s.workers)
	for fx := range fits {
		fx := fx
		g.Go(func() error {
			sub := make([][]float64, len(members[fx]))
			for i, gx := range members[fx] {
				sub[i] = chains[gx]
			}
			eta, err := s.MAP(sub)
			if err != nil {
				return fmt.Errorf("bin (%g, %g]: %w", fits[fx].Lo, fits[fx].Hi, err)
			}
			fits[fx].Eta = eta
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return fits, nil
}

// Mids returns the bin midpoints of fits.
func Mids(fits []BinFit) []float64 {
	m := make([]float64, len(fits))
	for i, f := range fits {
		m[i] = f.Mid
	}
	return m
}
