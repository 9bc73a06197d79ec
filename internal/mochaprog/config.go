// Public domain.

package mochaprog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/gqp-mc/mocha/internal/chain"
	"github.com/gqp-mc/mocha/internal/popfit"
)

// configFile is looked for in the data directory when -c is not given.
const configFile = "mocha.config"

type config struct {
	pdf, cache, repeatable bool

	data, figs string
	seed       uint64

	// chain selection
	sim, fitter, model, dustModel string
	noise, photoNoise, specNoise  string
	thin, ngal, nsample           int
	nbin                          int // histogram bins of the offsets figure

	fit popfit.Config
}

func defaultConfig() *config {
	return &config{
		pdf:        true,
		cache:      true,
		repeatable: true,
		data:       ".",
		figs:       "figs",
		seed:       3,
		sim:        "lgal",
		fitter:     "ifsps",
		model:      "vanilla",
		dustModel:  "vanilla_complexdust",
		noise:      "bgs0_legacy",
		photoNoise: "legacy",
		specNoise:  "bgs0",
		thin:       chain.DefaultThin,
		ngal:       97,
		nsample:    2000,
		nbin:       40,
		fit:        popfit.DefaultConfig(),
	}
}

var rxSetting = regexp.MustCompile(`^[ \t]*(.*?)[ \t]*=[ \t]*(.+)$`)

// read reads keyword lines from r into c.  Blank lines and lines
// starting with # are ignored.
func (c *config) read(r io.Reader) error {
	for lr := bufio.NewReader(r); ; {
		l, isPre, err := lr.ReadLine()
		switch {
		case err == io.EOF:
			return nil
		case err != nil:
			return err
		case isPre:
			return errors.New("unexpected long line in config file")
		}
		ls := strings.TrimSpace(string(l))
		if ls == "" || ls[0] == '#' {
			continue
		}
		switch ls {
		case "pdf":
			c.pdf = true
			continue
		case "nopdf":
			c.pdf = false
			continue
		case "cache":
			c.cache = true
			continue
		case "nocache":
			c.cache = false
			continue
		case "repeatable":
			c.repeatable = true
			continue
		case "random":
			c.repeatable = false
			continue
		}
		ss := rxSetting.FindStringSubmatch(ls)
		if len(ss) != 3 {
			return fmt.Errorf("unrecognized line in config file: %s", ls)
		}
		if err := c.set(ss[1], ss[2]); err != nil {
			return fmt.Errorf("%w\nconfig file line: %s", err, ls)
		}
	}
}

func (c *config) set(key, val string) (err error) {
	positive := func(p *int) {
		var n int
		if n, err = strconv.Atoi(val); err == nil && n < 1 {
			err = fmt.Errorf("%s must be positive", key)
		}
		*p = n
	}
	float := func(p *float64) {
		var x float64
		if x, err = strconv.ParseFloat(val, 64); err == nil && !(x > 0) {
			err = fmt.Errorf("%s must be positive", key)
		}
		*p = x
	}
	switch key {
	case "data":
		c.data = val
	case "figs":
		c.figs = val
	case "sim":
		c.sim = val
	case "fitter":
		c.fitter = val
	case "model":
		c.model = val
	case "dustmodel":
		c.dustModel = val
	case "noise":
		c.noise = val
	case "photonoise":
		c.photoNoise = val
	case "specnoise":
		c.specNoise = val
	case "thin":
		positive(&c.thin)
	case "ngal":
		positive(&c.ngal)
	case "nsample":
		positive(&c.nsample)
	case "nbin":
		positive(&c.nbin)
	case "workers":
		positive(&c.fit.Workers)
	case "maxiter":
		positive(&c.fit.MaxIter)
	case "floor":
		float(&c.fit.Floor)
	case "sigmamin":
		float(&c.fit.SigmaMin)
	case "start":
		f := strings.Fields(strings.ReplaceAll(val, ",", " "))
		if len(f) != 2 {
			return errors.New("start takes mu and sigma")
		}
		var s popfit.Eta
		if s.Mu, err = strconv.ParseFloat(f[0], 64); err != nil {
			return err
		}
		if s.Sigma, err = strconv.ParseFloat(f[1], 64); err != nil {
			return err
		}
		c.fit.Start = s
	case "method":
		c.fit.Method, err = popfit.ParseMethod(val)
	case "seed":
		c.seed, err = strconv.ParseUint(val, 10, 64)
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return
}

// readFile reads fn if it exists.  A missing file is an error only
// if required.
func (c *config) readFile(fn string, required bool) error {
	f, err := os.Open(fn)
	if err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	defer f.Close()
	if err = c.read(f); err != nil {
		return fmt.Errorf("%s: %w", fn, err)
	}
	return nil
}
