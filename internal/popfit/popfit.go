// Public domain.

// Package popfit fits a Gaussian population model to per-galaxy posterior
// chains of parameter offsets.
//
// Each galaxy contributes a chain of samples of Delta, the inferred value
// of a physical property minus its true value.  The population model says
// Delta is distributed N(mu, sigma) across galaxies.  LogL evaluates the
// marginal likelihood of (mu, sigma) by Monte Carlo averaging the
// population density over each chain, and Solver.MAP maximizes it.
// Solver.EtaMAP repeats the fit in bins of an external galaxy property.
package popfit

import (
	"errors"
	"fmt"
	"runtime"

	"go.uber.org/zap"
)

// Eta is a pair of population hyperparameters, the mean offset (bias) and
// the scatter of the population.
type Eta struct {
	Mu    float64 `yaml:"mu"`
	Sigma float64 `yaml:"sigma"`
}

// Prior is the density of the prior the chains were sampled under,
// evaluated at an offset.  LogL divides each population density term by it.
// A nil Prior is uniform.
type Prior func(x float64) float64

// Method selects the optimizer used by MAP.
type Method string

// Optimizers available to MAP.
const (
	LBFGS      Method = "lbfgs"
	NelderMead Method = "neldermead"
)

// ParseMethod validates an optimizer name.
func ParseMethod(s string) (Method, error) {
	switch m := Method(s); m {
	case LBFGS, NelderMead:
		return m, nil
	}
	return "", fmt.Errorf("popfit: unknown optimizer %q", s)
}

// Defaults for Config.
const (
	DefaultFloor    = 1e-8
	DefaultSigmaMin = 1e-4
	DefaultMaxIter  = 200
)

// DefaultStart is the starting point of the optimization.
var DefaultStart = Eta{Mu: 0, Sigma: .1}

// Config holds the parameters of a Solver.
type Config struct {
	Floor    float64 // per-galaxy likelihood floor
	SigmaMin float64 // lower bound on sigma
	Start    Eta
	Prior    Prior
	Method   Method
	MaxIter  int
	Workers  int // concurrent bin fits, 0 means GOMAXPROCS
}

// DefaultConfig returns the configuration used when nothing is
// configured.
func DefaultConfig() Config {
	return Config{
		Floor:    DefaultFloor,
		SigmaMin: DefaultSigmaMin,
		Start:    DefaultStart,
		Method:   LBFGS,
		MaxIter:  DefaultMaxIter,
	}
}

// Solver holds validated fit parameters.  A Solver is safe for concurrent
// use.
type Solver struct {
	floor, sigmaMin float64
	start           Eta
	prior           Prior
	method          Method
	maxIter         int
	workers         int
	log             *zap.Logger
}

// New creates a Solver from c.  A nil log discards diagnostics.
func New(c Config, log *zap.Logger) (*Solver, error) {
	switch {
	case !(c.Floor > 0):
		return nil, errors.New("popfit: likelihood floor must be positive")
	case !(c.SigmaMin > 0):
		return nil, errors.New("popfit: sigma bound must be positive")
	case !(c.Start.Sigma > c.SigmaMin):
		return nil, fmt.Errorf("popfit: start sigma %g not above bound %g",
			c.Start.Sigma, c.SigmaMin)
	}
	if c.Method == "" {
		c.Method = LBFGS
	}
	if _, err := ParseMethod(string(c.Method)); err != nil {
		return nil, err
	}
	if c.MaxIter <= 0 {
		c.MaxIter = DefaultMaxIter
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Solver{
		floor:    c.Floor,
		sigmaMin: c.SigmaMin,
		start:    c.Start,
		prior:    c.Prior,
		method:   c.Method,
		maxIter:  c.MaxIter,
		workers:  c.Workers,
		log:      log,
	}, nil
}

// Floor returns the per-galaxy likelihood floor.
func (s *Solver) Floor() float64 { return s.floor }
