// Public domain.

// Package mochaprog is the mocha command: it reads configuration, loads
// catalogs and chains, runs population fits and saves figures.
package mochaprog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/soniakeys/exit"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gqp-mc/mocha/internal/chain"
	"github.com/gqp-mc/mocha/internal/figures"
	"github.com/gqp-mc/mocha/internal/popfit"
)

const versionString = "mocha version 0.1 Go source."
const copyrightString = "Public domain."

// Main runs the command and terminates on error.
func Main() {
	defer exit.Handler()
	if err := newRootCmd().Execute(); err != nil {
		exit.Log(err)
	}
}

// prog is state shared by subcommands, set up before any of them run.
type prog struct {
	cfg *config
	log *zap.Logger

	// command line
	configFn, dataDir, figDir string
	verbose, noPDF            bool
}

func newRootCmd() *cobra.Command {
	p := &prog{}
	root := &cobra.Command{
		Use:   "mocha",
		Short: "Figures of the galaxy property inference mock challenge",
		Long: `Mocha draws the figures of the mock challenge, comparing galaxy
properties inferred by SED fitting with simulation truth.

Population bias and scatter of inferred minus true properties are fit
per bin of r magnitude or color by maximizing a hierarchical likelihood
over the per-galaxy MCMC chains.

The data directory holds the truth catalogs, the best-fit chain files
under bestfit/, survey catalogs under surveys/ and optionally a
mocha.config file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return p.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if p.log != nil {
				_ = p.log.Sync()
			}
		},
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&p.configFn, "config", "c", "", "config file (default <data>/mocha.config)")
	pf.StringVarP(&p.dataDir, "path", "p", "", "data directory")
	pf.StringVarP(&p.figDir, "out", "o", "", "figure directory")
	pf.BoolVarP(&p.verbose, "verbose", "v", false, "debug logging")
	pf.BoolVar(&p.noPDF, "nopdf", false, "write PNG only")

	root.AddCommand(
		p.etaDeltaCmd(),
		p.photoVsSpecPhotoCmd(),
		p.dustCmd(),
		p.inferredCmd(),
		p.posteriorCmd(),
		p.footprintCmd(),
		p.offsetsCmd(),
		p.mockCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version and copyright",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), versionString)
				fmt.Fprintln(cmd.OutOrStdout(), copyrightString)
			},
		},
	)
	return root
}

// setup builds the logger and the configuration.  Flags override the
// config file, which overrides defaults.
func (p *prog) setup(cmd *cobra.Command) error {
	zc := zap.NewProductionConfig()
	if p.verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	var err error
	if p.log, err = zc.Build(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	p.cfg = defaultConfig()
	if p.dataDir != "" {
		p.cfg.data = p.dataDir
	}
	fn := p.configFn
	if fn == "" {
		fn = filepath.Join(p.cfg.data, configFile)
	}
	if err = p.cfg.readFile(fn, p.configFn != ""); err != nil {
		return err
	}
	// the file may set data; the flag still wins
	if p.dataDir != "" {
		p.cfg.data = p.dataDir
	}
	if p.figDir != "" {
		p.cfg.figs = p.figDir
	}
	if p.noPDF {
		p.cfg.pdf = false
	}
	if !p.cfg.repeatable {
		p.cfg.seed = uint64(time.Now().UnixNano())
	}
	p.log.Debug("configured",
		zap.String("data", p.cfg.data), zap.String("figs", p.cfg.figs),
		zap.String("sim", p.cfg.sim), zap.Int("ngal", p.cfg.ngal))
	return nil
}

func (p *prog) bestFitDir() string {
	return filepath.Join(p.cfg.data, "bestfit")
}

func (p *prog) cacheDir() string {
	if !p.cfg.cache {
		return ""
	}
	return filepath.Join(p.cfg.data, "cache")
}

func (p *prog) request(obs chain.Obs, noise, model, param string) chain.Request {
	return chain.Request{
		BestFit: chain.BestFit{
			Dir:    p.bestFitDir(),
			Method: p.cfg.fitter,
			Sim:    p.cfg.sim,
			Obs:    obs,
			Noise:  noise,
			Model:  model,
		},
		Param: param,
		NGal:  p.cfg.ngal,
		Thin:  p.cfg.thin,
	}
}

func (p *prog) deltas(req chain.Request, truth []float64) (*chain.DeltaSet, error) {
	set, err := chain.Cached(p.cacheDir(), req, truth, p.log)
	if err != nil {
		return nil, err
	}
	if set.Len() == 0 {
		return nil, fmt.Errorf("no usable chains for %s", req)
	}
	return set, nil
}

func (p *prog) solver() (*popfit.Solver, error) {
	return popfit.New(p.cfg.fit, p.log)
}

func (p *prog) save(cmd *cobra.Command, f *figures.Figure) error {
	files, err := f.Save(p.cfg.figs, p.cfg.pdf)
	for _, fn := range files {
		fmt.Fprintln(cmd.OutOrStdout(), fn)
	}
	if err != nil {
		return err
	}
	p.log.Info("figure saved", zap.String("name", f.Name), zap.Int("files", len(files)))
	return nil
}

// exists reports whether fn can be stat'ed.
func exists(fn string) bool {
	_, err := os.Stat(fn)
	return err == nil
}
