// Public domain.

package popfit

import (
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat/distuv"
)

// GalaxyTerm is the contribution of one galaxy to an undefined log
// likelihood, kept for diagnostics.
type GalaxyTerm struct {
	Index int       // position in the chain set
	Chain []float64 // offset samples
	P     float64   // Monte Carlo average before clipping
}

// UndefinedError is returned by LogL when the log likelihood is NaN.
// Terms lists the galaxies whose contribution was NaN.
type UndefinedError struct {
	Eta   Eta
	Terms []GalaxyTerm
}

func (e *UndefinedError) Error() string {
	return fmt.Sprintf("popfit: log likelihood undefined at mu=%g sigma=%g "+
		"(%d galaxies with undefined terms)", e.Eta.Mu, e.Eta.Sigma, len(e.Terms))
}

// LogL computes the log likelihood of population hyperparameters eta given
// per-galaxy chains of offset samples.
//
// For galaxy i with K samples x_k,
//
//	p_i = 1/K sum_k N(x_k; mu, sigma) / prior(x_k)
//
// and the result is sum_i log(max(p_i, floor)).  A chain containing NaN
// contributes p_i = 0.  If the result is NaN, LogL returns an
// *UndefinedError describing each galaxy with an undefined term.
func LogL(eta Eta, chains [][]float64, prior Prior, floor float64) (float64, error) {
	gauss := distuv.Normal{Mu: eta.Mu, Sigma: eta.Sigma}
	var logL float64
	for _, c := range chains {
		logL += math.Log(clipLike(galaxyLike(gauss, c, prior), floor))
	}
	if !math.IsNaN(logL) {
		return logL, nil
	}
	// second pass, collect diagnostics
	ue := &UndefinedError{Eta: eta}
	for i, c := range chains {
		if p := galaxyLike(gauss, c, prior); math.IsNaN(clipLike(p, floor)) {
			ue.Terms = append(ue.Terms, GalaxyTerm{Index: i, Chain: c, P: p})
		}
	}
	return logL, ue
}

// galaxyLike is the Monte Carlo average of the population density over one
// chain.  An empty chain gives NaN.
func galaxyLike(gauss distuv.Normal, chain []float64, prior Prior) float64 {
	var sum float64
	for _, x := range chain {
		if math.IsNaN(x) {
			return 0
		}
		d := gauss.Prob(x)
		if prior != nil {
			d /= prior(x)
		}
		sum += d
	}
	return sum / float64(len(chain))
}

// LogL evaluates the population log likelihood with the solver's floor
// and prior.  When the result is undefined, each offending galaxy is
// logged at error level before the *UndefinedError is returned.
func (s *Solver) LogL(eta Eta, chains [][]float64) (float64, error) {
	l, err := LogL(eta, chains, s.prior, s.floor)
	if ue, ok := err.(*UndefinedError); ok {
		for _, t := range ue.Terms {
			s.log.Error("undefined galaxy likelihood",
				zap.Int("galaxy", t.Index),
				zap.Float64("mu", eta.Mu),
				zap.Float64("sigma", eta.Sigma),
				zap.Float64s("chain", t.Chain),
				zap.Float64("p", t.P))
		}
	}
	return l, err
}
