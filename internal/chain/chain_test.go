// Public domain.

package chain_test

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/gqp-mc/mocha/internal/chain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// ramp returns a chain with n samples of logmstar = base+i, logsfr = -i.
func ramp(n int, base float64) *chain.Chain {
	c := &chain.Chain{
		ThetaNames: []string{chain.LogMStar, chain.LogSFR},
		NSample:    n,
		NParam:     2,
		Data:       make([]float64, 2*n),
	}
	for i := 0; i < n; i++ {
		c.Data[2*i] = base + float64(i)
		c.Data[2*i+1] = -float64(i)
	}
	return c
}

func ExampleChain_Column() {
	c := ramp(25, 10)
	fmt.Println(c.Column(0, chain.DefaultThin))
	// Output:
	// [10 20 30]
}

func TestRoundTrip(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "c.hdf5")
	c := ramp(40, 9)
	c.PriorRange = [][2]float64{{8, 13}, {-4, 2}}
	c.Summary = c.Percentiles()
	require.NoError(t, chain.WriteFile(fn, c))
	got, err := chain.ReadFile(fn)
	require.NoError(t, err)
	if d := cmp.Diff(c, got); d != "" {
		t.Fatalf("round trip (-want +got):\n%s", d)
	}
}

func TestRoundTripNoOptional(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "c.hdf5")
	c := ramp(5, 1)
	require.NoError(t, chain.WriteFile(fn, c))
	got, err := chain.ReadFile(fn)
	require.NoError(t, err)
	require.Nil(t, got.PriorRange)
	require.Nil(t, got.Summary)
	require.Equal(t, c.Data, got.Data)
}

func TestPercentiles(t *testing.T) {
	// 0..100 in column 1 after negation
	c := ramp(101, 0)
	pc := c.Percentiles()
	want := [][]float64{
		{2.5, -97.5},
		{16, -84},
		{50, -50},
		{84, -16},
		{97.5, -2.5},
	}
	if d := cmp.Diff(want, pc, cmpopts.EquateApprox(0, 1.01)); d != "" {
		t.Fatal(d)
	}
}

func TestParam(t *testing.T) {
	c := ramp(3, 0)
	_, err := c.Param("logzmw", 1)
	require.ErrorIs(t, err, chain.ErrNoParam)
	p, err := c.Param(chain.LogSFR, 2)
	require.NoError(t, err)
	require.Equal(t, []float64{0, -2}, p)
}

func TestValidate(t *testing.T) {
	c := ramp(3, 0)
	c.Data = c.Data[1:]
	require.Error(t, c.Validate())
	c = ramp(3, 0)
	c.ThetaNames = append(c.ThetaNames, "extra")
	require.Error(t, c.Validate())
	require.Error(t, chain.WriteFile(filepath.Join(t.TempDir(), "x"), c))
}

func TestPath(t *testing.T) {
	b := chain.BestFit{
		Dir: "/d", Method: "ifsps", Sim: "lgal", Obs: chain.SpecPhoto,
		Noise: "bgs0_legacy", Model: "vanilla",
	}
	require.Equal(t,
		"/d/ifsps/lgal.specphoto.noise_bgs0_legacy.vanilla.7.hdf5",
		b.Path(7))
}

func TestParseObs(t *testing.T) {
	for _, o := range []chain.Obs{chain.Spec, chain.Photo, chain.SpecPhoto} {
		got, err := chain.ParseObs(string(o))
		require.NoError(t, err)
		require.Equal(t, o, got)
	}
	_, err := chain.ParseObs("spectrum")
	require.Error(t, err)
}

func TestIntersect(t *testing.T) {
	common, ia, ib := chain.Intersect([]int{0, 2, 3, 5, 9}, []int{1, 2, 5, 6, 9, 11})
	require.Equal(t, []int{2, 5, 9}, common)
	require.Equal(t, []int{1, 3, 4}, ia)
	require.Equal(t, []int{1, 2, 4}, ib)
	common, _, _ = chain.Intersect(nil, []int{1})
	require.Empty(t, common)
}

// writeSet writes chain files for galaxies 0..n-1 except those in skip.
func writeSet(t *testing.T, b chain.BestFit, n int, mod func(int, *chain.Chain) bool) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(b.Dir, b.Method), 0o755))
	for i := 0; i < n; i++ {
		c := ramp(20, float64(i))
		if mod != nil && !mod(i, c) {
			continue
		}
		require.NoError(t, chain.WriteFile(b.Path(i), c))
	}
}

func testRequest(t *testing.T, n int) chain.Request {
	return chain.Request{
		BestFit: chain.BestFit{
			Dir: t.TempDir(), Method: "ifsps", Sim: "lgal", Obs: chain.Spec,
			Noise: "bgs0", Model: "vanilla",
		},
		Param: chain.LogMStar,
		NGal:  n,
		Thin:  chain.DefaultThin,
	}
}

func TestAssemble(t *testing.T) {
	req := testRequest(t, 12)
	writeSet(t, req.BestFit, req.NGal, func(i int, c *chain.Chain) bool {
		switch i {
		case 3: // missing
			return false
		case 5: // no logmstar
			c.ThetaNames[0] = "logm"
		case 8:
			c.Data[2*10] = math.NaN() // a kept sample
		}
		return true
	})
	truth := make([]float64, req.NGal)
	for i := range truth {
		truth[i] = float64(i)
	}
	truth[10] = math.NaN()
	set, err := chain.Assemble(req, truth, nil)
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2, 4, 6, 7, 9, 11}, set.IGal)
	for _, d := range set.Delta {
		require.Equal(t, []float64{0, 10}, d)
	}
	require.Equal(t, []float64{4, 6}, set.Subset([]int{3, 4}).Pick(truth))
}

func TestAssembleShortTruth(t *testing.T) {
	req := testRequest(t, 3)
	_, err := chain.Assemble(req, []float64{1}, nil)
	require.Error(t, err)
}

func TestAssembleReadError(t *testing.T) {
	req := testRequest(t, 4)
	writeSet(t, req.BestFit, req.NGal, nil)
	require.NoError(t, os.WriteFile(req.Path(2), []byte("not hdf5"), 0o644))
	_, err := chain.Assemble(req, make([]float64, 4), nil)
	require.Error(t, err)
}

func TestCached(t *testing.T) {
	req := testRequest(t, 4)
	writeSet(t, req.BestFit, req.NGal, nil)
	truth := make([]float64, req.NGal)
	dir := filepath.Join(t.TempDir(), "cache")
	want, err := chain.Cached(dir, req, truth, nil)
	require.NoError(t, err)
	require.FileExists(t, req.CacheName(dir))

	// the cache is used even with the chain files gone
	require.NoError(t, os.RemoveAll(filepath.Join(req.Dir, req.Method)))
	got, err := chain.Cached(dir, req, truth, nil)
	require.NoError(t, err)
	require.Equal(t, want, got)

	// a different request does not match the stored one
	other := req
	other.Thin = 1
	_, err = chain.ReadCache(req.CacheName(dir), other)
	require.Error(t, err)
}
