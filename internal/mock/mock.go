// Public domain.

// Package mock generates a synthetic mock challenge: a truth catalog of
// simulated galaxies and, for each of several fitting setups, per-galaxy
// chain files whose offsets from the truth follow a known population.
// Survey position catalogs for the footprint figure are also generated.
package mock

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	xrand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/gqp-mc/mocha/internal/catalog"
	"github.com/gqp-mc/mocha/internal/chain"
	"github.com/gqp-mc/mocha/internal/popfit"
)

// Family is one fitting setup: a family of chain files and the
// population its offsets are drawn from.
type Family struct {
	chain.BestFit
	Bias  map[string]popfit.Eta // by chain parameter
	Width float64               // per-galaxy posterior width
}

// Config controls generation.
type Config struct {
	Sim      string
	NGal     int
	NSample  int
	Missing  float64 // fraction of galaxies with no chain file
	Seed     uint64
	Families []Family
	// NSurvey is the number of positions per survey catalog; 0 writes
	// no surveys.
	NSurvey int
}

// DefaultFamilies returns the setups the figures compare:
// spectrophotometry and photometry with the vanilla model,
// spectrophotometry with the complex dust model, and spectra alone.
// Parameters without a Bias entry are drawn without population bias or
// scatter.
func DefaultFamilies(dir, method string) []Family {
	bf := func(obs chain.Obs, noise, model string) chain.BestFit {
		return chain.BestFit{Dir: dir, Method: method, Sim: "lgal",
			Obs: obs, Noise: noise, Model: model}
	}
	return []Family{{
		BestFit: bf(chain.SpecPhoto, "bgs0_legacy", "vanilla"),
		Bias: map[string]popfit.Eta{
			chain.LogMStar: {Mu: .05, Sigma: .1},
			chain.LogSFR:   {Mu: -.1, Sigma: .2},
			chain.LogZMW:   {Mu: .1, Sigma: .15},
			chain.TAgeMW:   {Mu: -.5, Sigma: 1},
		},
		Width: .05,
	}, {
		BestFit: bf(chain.Photo, "legacy", "vanilla"),
		Bias: map[string]popfit.Eta{
			chain.LogMStar: {Mu: .1, Sigma: .2},
			chain.LogSFR:   {Mu: -.3, Sigma: .4},
			chain.LogZMW:   {Mu: .2, Sigma: .3},
			chain.TAgeMW:   {Mu: -1, Sigma: 2},
		},
		Width: .15,
	}, {
		BestFit: bf(chain.SpecPhoto, "bgs0_legacy", "vanilla_complexdust"),
		Bias: map[string]popfit.Eta{
			chain.LogMStar: {Mu: 0, Sigma: .08},
			chain.LogSFR:   {Mu: 0, Sigma: .15},
		},
		Width: .05,
	}, {
		BestFit: bf(chain.Spec, "bgs0", "vanilla"),
		Bias: map[string]popfit.Eta{
			chain.LogMStar: {Mu: -.1, Sigma: .15},
			chain.LogSFR:   {Mu: .1, Sigma: .3},
		},
		Width: .1,
	}}
}

// DefaultConfig generates 97 lgal galaxies, as in the mini mock
// challenge.
func DefaultConfig(dir string) Config {
	return Config{
		Sim:      "lgal",
		NGal:     97,
		NSample:  2000,
		Missing:  .05,
		Seed:     3,
		Families: DefaultFamilies(dir, "ifsps"),
		NSurvey:  20000,
	}
}

type generator struct {
	src *xrand.PCGSource
	log *zap.Logger
}

func (g *generator) uniform(lo, hi float64) float64 {
	return distuv.Uniform{Min: lo, Max: hi, Src: g.src}.Rand()
}

func (g *generator) normal(mu, sigma float64) float64 {
	return distuv.Normal{Mu: mu, Sigma: sigma, Src: g.src}.Rand()
}

// Generate writes a truth catalog to dir and the chain files of each
// family.  Equal configs generate identical files.
func Generate(dir string, c Config, log *zap.Logger) (*catalog.Truth, error) {
	if c.NGal < 1 || c.NSample < 1 {
		return nil, fmt.Errorf("mock: ngal %d, nsample %d", c.NGal, c.NSample)
	}
	if log == nil {
		log = zap.NewNop()
	}
	g := &generator{src: &xrand.PCGSource{}, log: log}
	g.src.Seed(c.Seed)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	tb := g.truthTable(c.NGal, c.Sim)
	if err := catalog.WriteHDF5(catalog.TruthPath(dir, c.Sim), tb); err != nil {
		return nil, err
	}
	tr, err := catalog.NewTruth(tb, c.Sim)
	if err != nil {
		return nil, err
	}
	for _, f := range c.Families {
		f.Sim = c.Sim
		if err := g.chains(f, c, tr); err != nil {
			return nil, err
		}
	}
	if c.NSurvey > 0 {
		if err := g.surveys(dir, c.NSurvey); err != nil {
			return nil, err
		}
	}
	return tr, nil
}

// truthTable draws galaxy properties.  Values are stored the way the
// simulation stores them, so TNG masses and rates carry h scaling.
func (g *generator) truthTable(n int, sim string) *catalog.Table {
	cols := map[string][]float64{}
	for _, c := range append(append([]string{}, catalog.TruthColumns...),
		catalog.FluxColumns...) {
		cols[c] = make([]float64, n)
	}
	h := catalog.HCorrection(sim)
	flux := func(mag float64) float64 { return math.Pow(10, (22.5-mag)/2.5) }
	for i := 0; i < n; i++ {
		logM := g.uniform(9, 12)
		logSFR := g.normal(logM-10, .5)
		cols[catalog.LogMTotal][i] = logM - h
		cols[catalog.SFR100Myr][i] = math.Pow(10, logSFR-h)
		cols[catalog.SFR1Gyr][i] = math.Pow(10, g.normal(logSFR, .2)-h)
		cols[catalog.ZMW][i] = math.Pow(10, g.normal(-1.8, .2))
		cols[catalog.TAgeMW][i] = g.uniform(1, 10)
		r := g.uniform(19, 20)
		cols[catalog.FluxR][i] = flux(r)
		cols[catalog.FluxG][i] = flux(r + g.uniform(0, 2))
		cols[catalog.FluxZ][i] = flux(r - g.uniform(0, 1))
	}
	tb := catalog.New(n)
	for c, v := range cols {
		tb.Set(c, v) // lengths are n
	}
	return tb
}

// params are the chain columns written, with their prior ranges.
var params = []struct {
	name  string
	prior [2]float64
}{
	{chain.LogMStar, [2]float64{8, 13}},
	{chain.LogSFR, [2]float64{-4, 2}},
	{chain.LogSFR1Gyr, [2]float64{-4, 2}},
	{chain.LogZMW, [2]float64{-3.5, -1}},
	{chain.TAgeMW, [2]float64{0, 13.8}},
}

// chains writes a chain file per galaxy, skipping a random Missing
// fraction.
func (g *generator) chains(f Family, c Config, tr *catalog.Truth) error {
	if err := os.MkdirAll(filepath.Join(f.Dir, f.Method), 0o755); err != nil {
		return err
	}
	names := make([]string, len(params))
	prior := make([][2]float64, len(params))
	truth := make([][]float64, len(params))
	for j, p := range params {
		names[j], prior[j] = p.name, p.prior
		v, err := tr.Values(p.name)
		if err != nil {
			return err
		}
		truth[j] = v
	}
	for igal := 0; igal < c.NGal; igal++ {
		if g.uniform(0, 1) < c.Missing {
			g.log.Debug("mock galaxy without chain",
				zap.Stringer("family", f.BestFit), zap.Int("igal", igal))
			continue
		}
		ch := &chain.Chain{
			ThetaNames: names,
			NSample:    c.NSample,
			NParam:     len(params),
			Data:       make([]float64, c.NSample*len(params)),
			PriorRange: prior,
		}
		for j, p := range params {
			eta := f.Bias[p.name]
			center := truth[j][igal] + g.normal(eta.Mu, eta.Sigma)
			for k := 0; k < c.NSample; k++ {
				ch.Data[k*ch.NParam+j] = g.normal(center, f.Width)
			}
		}
		ch.Summary = ch.Percentiles()
		if err := chain.WriteFile(f.Path(igal), ch); err != nil {
			return err
		}
	}
	g.log.Info("mock chains written", zap.Stringer("family", f.BestFit))
	return nil
}
