// Public domain.

package mochaprog

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/gqp-mc/mocha/internal/popfit"
)

func TestConfigDefaults(t *testing.T) {
	c := defaultConfig()
	require.NoError(t, c.read(strings.NewReader("")))
	require.True(t, c.pdf)
	require.True(t, c.cache)
	require.True(t, c.repeatable)
	require.Equal(t, 10, c.thin)
	require.Equal(t, 97, c.ngal)
	require.Equal(t, popfit.DefaultConfig().Floor, c.fit.Floor)
}

func TestConfigRead(t *testing.T) {
	c := defaultConfig()
	err := c.read(strings.NewReader(`
# mini mock challenge, tng
nopdf
nocache
random
sim = tng
data=/data/mocha
thin=5
ngal=40
floor=1e-10
sigmamin = 0.001
start=0.1, 0.2
method=neldermead
workers=2
seed=42
noise=bgs0_legacy
photonoise=legacy
specnoise=bgs1
dustmodel=vanilla_complexdust
`))
	require.NoError(t, err)
	require.False(t, c.pdf)
	require.False(t, c.cache)
	require.False(t, c.repeatable)
	require.Equal(t, "tng", c.sim)
	require.Equal(t, "/data/mocha", c.data)
	require.Equal(t, 5, c.thin)
	require.Equal(t, 40, c.ngal)
	require.Equal(t, uint64(42), c.seed)
	require.Equal(t, "bgs1", c.specNoise)
	want := popfit.DefaultConfig()
	want.Floor = 1e-10
	want.SigmaMin = .001
	want.Start = popfit.Eta{Mu: .1, Sigma: .2}
	want.Method = popfit.NelderMead
	want.Workers = 2
	// Prior is a func; compare the rest
	want.Prior, c.fit.Prior = nil, nil
	if d := cmp.Diff(want, c.fit); d != "" {
		t.Fatal(d)
	}
}

func TestConfigErrors(t *testing.T) {
	for _, l := range []string{
		"bogus",
		"thin=0",
		"ngal=x",
		"floor=-1",
		"start=1",
		"method=bfgs",
		"color=red",
		"seed=-3",
	} {
		c := defaultConfig()
		require.Error(t, c.read(strings.NewReader(l)), l)
	}
}

func TestConfigFile(t *testing.T) {
	c := defaultConfig()
	fn := filepath.Join(t.TempDir(), configFile)
	require.NoError(t, c.readFile(fn, false))
	require.Error(t, c.readFile(fn, true))
}
