// Public domain.

package mochaprog

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gqp-mc/mocha/internal/catalog"
	"github.com/gqp-mc/mocha/internal/chain"
	"github.com/gqp-mc/mocha/internal/figures"
	"github.com/gqp-mc/mocha/internal/mock"
	"github.com/gqp-mc/mocha/internal/popfit"
	"github.com/gqp-mc/mocha/internal/propbin"
	"github.com/gqp-mc/mocha/internal/sky"
)

// parameters fit in every figure, with axis labels.
var params = []struct {
	name, label string
}{
	{chain.LogMStar, "log M*"},
	{chain.LogSFR, "log SFR(100 Myr)"},
}

func (p *prog) etaDeltaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eta-delta",
		Short: "Population bias and scatter versus r magnitude and colors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := p.etaDelta()
			if err != nil {
				return err
			}
			return p.save(cmd, f)
		},
	}
}

func (p *prog) etaDelta() (*figures.Figure, error) {
	tr, err := catalog.ReadTruth(p.cfg.data, p.cfg.sim)
	if err != nil {
		return nil, err
	}
	s, err := p.solver()
	if err != nil {
		return nil, err
	}
	panels := make([][]figures.Panel, len(params))
	for j, pm := range params {
		truth, err := tr.Values(pm.name)
		if err != nil {
			return nil, err
		}
		set, err := p.deltas(p.request(chain.SpecPhoto, p.cfg.noise, p.cfg.model, pm.name), truth)
		if err != nil {
			return nil, err
		}
		for px, pc := range propbin.PList {
			prop, err := tr.Property(px)
			if err != nil {
				return nil, err
			}
			fits, err := s.EtaMAP(set.Pick(prop), set.Delta, propbin.DefaultEdges(px))
			if err != nil {
				return nil, err
			}
			panels[j] = append(panels[j], figures.Panel{
				XLabel: pc.Heading,
				YLabel: "Δ " + pm.label,
				XLim:   [2]float64{pc.Lo, pc.Hi},
				Series: []figures.Series{{Fits: fits}},
			})
		}
	}
	return figures.BandFigure(fmt.Sprintf("eta_delta.%s.%s.%s.noise_%s",
		p.cfg.sim, p.cfg.fitter, p.cfg.model, p.cfg.noise), panels)
}

// comparison of two chain families, binned by the true value.
type family struct {
	label        string
	obs          chain.Obs
	noise, model string
}

// truthEdges are the bins of the comparison figures, by parameter.
var truthEdges = map[string]propbin.Edges{
	chain.LogMStar: propbin.Linspace(9, 12, 7),
	chain.LogSFR:   propbin.Linspace(-3, 3, 7),
}

func (p *prog) compare(name string, a, b family) (*figures.Figure, error) {
	tr, err := catalog.ReadTruth(p.cfg.data, p.cfg.sim)
	if err != nil {
		return nil, err
	}
	s, err := p.solver()
	if err != nil {
		return nil, err
	}
	var row []figures.Panel
	for _, pm := range params {
		truth, err := tr.Values(pm.name)
		if err != nil {
			return nil, err
		}
		setA, err := p.deltas(p.request(a.obs, a.noise, a.model, pm.name), truth)
		if err != nil {
			return nil, err
		}
		setB, err := p.deltas(p.request(b.obs, b.noise, b.model, pm.name), truth)
		if err != nil {
			return nil, err
		}
		common, ia, ib := chain.Intersect(setA.IGal, setB.IGal)
		p.log.Debug("intersected", zap.String("param", pm.name),
			zap.Int("a", setA.Len()), zap.Int("b", setB.Len()),
			zap.Int("common", len(common)))
		setA, setB = setA.Subset(ia), setB.Subset(ib)
		edges := truthEdges[pm.name]
		pn := figures.Panel{
			XLabel: pm.label,
			YLabel: "Δ " + pm.label,
			XLim:   [2]float64{edges[0], edges[len(edges)-1]},
		}
		for _, fs := range []struct {
			f   family
			set *chain.DeltaSet
		}{{a, setA}, {b, setB}} {
			fits, err := s.EtaMAP(fs.set.Pick(truth), fs.set.Delta, edges)
			if err != nil {
				return nil, err
			}
			pn.Series = append(pn.Series, figures.Series{Label: fs.f.label, Fits: fits})
		}
		row = append(row, pn)
	}
	return figures.BandFigure(name, [][]figures.Panel{row})
}

func (p *prog) photoVsSpecPhotoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "photo-vs-specphoto",
		Short: "Population bias from photometry alone and with spectra",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := p.compare(
				fmt.Sprintf("photo_vs_specphoto.%s.%s.%s.noise_%s_%s",
					p.cfg.sim, p.cfg.fitter, p.cfg.model, p.cfg.photoNoise, p.cfg.noise),
				family{"Photometry only", chain.Photo, p.cfg.photoNoise, p.cfg.model},
				family{"Photometry+Spectroscopy", chain.SpecPhoto, p.cfg.noise, p.cfg.model})
			if err != nil {
				return err
			}
			return p.save(cmd, f)
		},
	}
}

func (p *prog) dustCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dust",
		Short: "Population bias with the simple and the complex dust model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := p.compare(
				fmt.Sprintf("dust_comparison.%s.%s.noise_%s",
					p.cfg.sim, p.cfg.fitter, p.cfg.noise),
				family{p.cfg.model, chain.SpecPhoto, p.cfg.noise, p.cfg.model},
				family{p.cfg.dustModel, chain.SpecPhoto, p.cfg.noise, p.cfg.dustModel})
			if err != nil {
				return err
			}
			return p.save(cmd, f)
		},
	}
}

// inferredParams are the panels of the inferred figure, with axis
// ranges.
var inferredParams = []struct {
	name, label string
	lim         [2]float64
}{
	{chain.LogMStar, "log M*", [2]float64{9, 12}},
	{chain.LogSFR, "log SFR(100 Myr)", [2]float64{-3, 2}},
	{chain.LogSFR1Gyr, "log SFR(1 Gyr)", [2]float64{-3, 2}},
	{chain.LogZMW, "log Z_MW", [2]float64{-3, -1.3}},
	{chain.TAgeMW, "t_age,MW (Gyr)", [2]float64{0, 13}},
}

// obsFlag adds the --obs flag selecting the chain family observation.
func obsFlag(cmd *cobra.Command, obs *string) {
	cmd.Flags().StringVar(obs, "obs", string(chain.SpecPhoto),
		"observation fit: spec, photo or specphoto")
}

// noiseFor returns the configured noise of chains fit to obs.
func (p *prog) noiseFor(obs chain.Obs) string {
	switch obs {
	case chain.Spec:
		return p.cfg.specNoise
	case chain.Photo:
		return p.cfg.photoNoise
	}
	return p.cfg.noise
}

func (p *prog) inferredCmd() *cobra.Command {
	var obs string
	cmd := &cobra.Command{
		Use:   "inferred",
		Short: "Inferred versus true properties",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := p.inferred(obs)
			if err != nil {
				return err
			}
			return p.save(cmd, f)
		},
	}
	obsFlag(cmd, &obs)
	return cmd
}

func (p *prog) inferred(obsName string) (*figures.Figure, error) {
	obs, err := chain.ParseObs(obsName)
	if err != nil {
		return nil, err
	}
	tr, err := catalog.ReadTruth(p.cfg.data, p.cfg.sim)
	if err != nil {
		return nil, err
	}
	var panels []figures.Inferred
	var names []string
	var truths [][]float64
	for _, pm := range inferredParams {
		truth, err := tr.Values(pm.name)
		if errors.Is(err, catalog.ErrNoColumn) {
			p.log.Warn("no truth for panel", zap.String("param", pm.name))
			continue
		}
		if err != nil {
			return nil, err
		}
		panels = append(panels, figures.Inferred{Label: pm.label, Lim: pm.lim})
		names = append(names, pm.name)
		truths = append(truths, truth)
	}
	req := p.request(obs, p.noiseFor(obs), p.cfg.model, "")
	n := p.cfg.ngal
	if n > tr.Table.Len {
		n = tr.Table.Len
	}
	for igal := 0; igal < n; igal++ {
		fn := req.Path(igal)
		if !exists(fn) {
			p.log.Warn("skipping galaxy", zap.Int("igal", igal),
				zap.String("reason", "missing "+fn))
			continue
		}
		c, err := chain.ReadFile(fn)
		if err != nil {
			return nil, err
		}
		pc := c.Summary
		if pc == nil {
			pc = c.Percentiles()
		}
		for i, name := range names {
			j := c.Index(name)
			if j < 0 {
				continue
			}
			in := &panels[i]
			in.Truth = append(in.Truth, truths[i][igal])
			in.Lo = append(in.Lo, pc[1][j])
			in.Median = append(in.Median, pc[2][j])
			in.Hi = append(in.Hi, pc[3][j])
		}
	}
	return figures.InferredFigure(fmt.Sprintf("inferred.%s.%s.%s.%s.noise_%s",
		p.cfg.sim, obs, p.cfg.fitter, p.cfg.model, req.Noise), panels...)
}

func (p *prog) posteriorCmd() *cobra.Command {
	var obs string
	var igal int
	cmd := &cobra.Command{
		Use:   "posterior",
		Short: "Corner plot of one galaxy's chain against the truth",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := p.posterior(obs, igal)
			if err != nil {
				return err
			}
			return p.save(cmd, f)
		},
	}
	obsFlag(cmd, &obs)
	cmd.Flags().IntVar(&igal, "igal", 0, "galaxy index")
	return cmd
}

func (p *prog) posterior(obsName string, igal int) (*figures.Figure, error) {
	obs, err := chain.ParseObs(obsName)
	if err != nil {
		return nil, err
	}
	tr, err := catalog.ReadTruth(p.cfg.data, p.cfg.sim)
	if err != nil {
		return nil, err
	}
	if igal < 0 || igal >= tr.Table.Len {
		return nil, fmt.Errorf("galaxy %d not in truth catalog of %d", igal, tr.Table.Len)
	}
	req := p.request(obs, p.noiseFor(obs), p.cfg.model, "")
	c, err := chain.ReadFile(req.Path(igal))
	if err != nil {
		return nil, err
	}
	truths := map[string]float64{}
	for _, name := range c.ThetaNames {
		v, err := tr.Values(name)
		switch {
		case err == nil:
			truths[name] = v[igal]
		case errors.Is(err, chain.ErrNoParam), errors.Is(err, catalog.ErrNoColumn):
			// model parameter without a simulation counterpart
		default:
			return nil, err
		}
	}
	p.log.Debug("posterior", zap.String("file", req.Path(igal)),
		zap.Int("params", len(c.ThetaNames)), zap.Int("truths", len(truths)))
	return figures.PosteriorFigure(fmt.Sprintf("posterior.%s.%s.%s.%s.noise_%s.%d",
		p.cfg.sim, obs, p.cfg.fitter, p.cfg.model, req.Noise, igal),
		c, truths, p.cfg.nbin, p.cfg.thin)
}

func (p *prog) footprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "footprint",
		Short: "Survey footprints on the sky and redshift distributions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var surveys []*sky.Survey
			for _, sf := range sky.Surveys {
				fn := filepath.Join(p.cfg.data, sf.File)
				if !exists(fn) {
					p.log.Warn("skipping survey", zap.String("file", fn))
					continue
				}
				s, err := sky.ReadSurvey(fn, sf.Name, sf.Cols, p.cfg.thin)
				if err != nil {
					return err
				}
				if len(s.Pos) > 0 {
					p.log.Debug("survey", zap.String("name", s.Name),
						zap.Int("positions", len(s.Pos)),
						zap.Stringer("first", s.Pos[0]))
				}
				surveys = append(surveys, s)
			}
			f, err := figures.FootprintFigure("bgs", surveys)
			if err != nil {
				return err
			}
			return p.save(cmd, f)
		},
	}
}

func (p *prog) offsetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "offsets",
		Short: "Pooled offsets with the profile fit and the population MAP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := p.offsets()
			if err != nil {
				return err
			}
			return p.save(cmd, f)
		},
	}
}

func (p *prog) offsets() (*figures.Figure, error) {
	tr, err := catalog.ReadTruth(p.cfg.data, p.cfg.sim)
	if err != nil {
		return nil, err
	}
	s, err := p.solver()
	if err != nil {
		return nil, err
	}
	panels := make([]figures.Offsets, len(params))
	for i, pm := range params {
		truth, err := tr.Values(pm.name)
		if err != nil {
			return nil, err
		}
		set, err := p.deltas(p.request(chain.SpecPhoto, p.cfg.noise, p.cfg.model, pm.name), truth)
		if err != nil {
			return nil, err
		}
		eta, err := s.MAP(set.Delta)
		if err != nil {
			return nil, err
		}
		prof, err := popfit.ProfileFit(set.Delta, p.cfg.nbin)
		if err != nil {
			return nil, err
		}
		var pool []float64
		for _, d := range set.Delta {
			pool = append(pool, d...)
		}
		p.log.Info("offsets", zap.String("param", pm.name),
			zap.Float64("mu", eta.Mu), zap.Float64("sigma", eta.Sigma),
			zap.Float64("profile_mu", prof.Mu), zap.Float64("profile_sigma", prof.Sigma))
		panels[i] = figures.Offsets{
			Label: pm.label, Pool: pool, NBin: p.cfg.nbin, Profile: prof, MAP: eta,
		}
	}
	return figures.OffsetsFigure(fmt.Sprintf("offsets.%s.%s.%s.noise_%s",
		p.cfg.sim, p.cfg.fitter, p.cfg.model, p.cfg.noise), panels...)
}

func (p *prog) mockCmd() *cobra.Command {
	var nsurvey int
	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Generate a synthetic challenge in the data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mc := mock.DefaultConfig(p.bestFitDir())
			mc.Sim = p.cfg.sim
			mc.NGal = p.cfg.ngal
			mc.NSample = p.cfg.nsample
			mc.Seed = p.cfg.seed
			mc.NSurvey = nsurvey
			mc.Families = p.mockFamilies()
			_, err := mock.Generate(p.cfg.data, mc, p.log)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), catalog.TruthPath(p.cfg.data, p.cfg.sim))
			return nil
		},
	}
	cmd.Flags().IntVar(&nsurvey, "nsurvey", 20000, "positions per survey catalog, 0 for none")
	return cmd
}

// mockFamilies are the default families renamed to the configured
// noise and model names, so the figure commands find them.
func (p *prog) mockFamilies() []mock.Family {
	fs := mock.DefaultFamilies(p.bestFitDir(), p.cfg.fitter)
	fs[0].Noise, fs[0].Model = p.cfg.noise, p.cfg.model
	fs[1].Noise, fs[1].Model = p.cfg.photoNoise, p.cfg.model
	fs[2].Noise, fs[2].Model = p.cfg.noise, p.cfg.dustModel
	fs[3].Noise, fs[3].Model = p.cfg.specNoise, p.cfg.model
	return fs
}
