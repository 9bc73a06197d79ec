// Public domain.

package catalog_test

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gqp-mc/mocha/internal/catalog"
	"github.com/gqp-mc/mocha/internal/chain"
	"github.com/gqp-mc/mocha/internal/propbin"
)

func sample(t *testing.T) *catalog.Table {
	tb := catalog.New(3)
	require.NoError(t, tb.Set(catalog.LogMTotal, []float64{10, 10.5, 11}))
	require.NoError(t, tb.Set(catalog.SFR100Myr, []float64{1, 10, .1}))
	require.NoError(t, tb.Set(catalog.FluxG, []float64{10, 10, 10}))
	require.NoError(t, tb.Set(catalog.FluxR, []float64{10, 10, 10}))
	require.NoError(t, tb.Set(catalog.FluxZ, []float64{10, 10, 10}))
	return tb
}

func TestSet(t *testing.T) {
	tb := catalog.New(2)
	require.Error(t, tb.Set("x", []float64{1}))
	_, err := tb.Col("x")
	require.ErrorIs(t, err, catalog.ErrNoColumn)
}

func TestHDF5RoundTrip(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "cat.hdf5")
	want := sample(t)
	require.NoError(t, catalog.WriteHDF5(fn, want))

	all, err := catalog.Read(fn)
	require.NoError(t, err)
	require.Equal(t, want.Names(), all.Names())

	some, err := catalog.Read(fn, catalog.SFR100Myr)
	require.NoError(t, err)
	require.Equal(t, []string{catalog.SFR100Myr}, some.Names())
	v, _ := some.Col(catalog.SFR100Myr)
	require.Equal(t, []float64{1, 10, .1}, v)

	_, err = catalog.Read(fn, "ra")
	require.ErrorIs(t, err, catalog.ErrNoColumn)
}

func TestFITSRoundTrip(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "cat.fits")
	tb := catalog.New(4)
	require.NoError(t, tb.Set("ra", []float64{0, 90, 180, 359.5}))
	require.NoError(t, tb.Set("dec", []float64{-10, 0, 10, 45}))
	require.NoError(t, catalog.WriteFITS(fn, "bgs", tb))

	got, err := catalog.Read(fn, "RA", "dec")
	require.NoError(t, err)
	require.Equal(t, 4, got.Len)
	ra, err := got.Col("RA")
	require.NoError(t, err)
	require.Equal(t, []float64{0, 90, 180, 359.5}, ra)

	_, err = catalog.Read(fn, "z")
	require.ErrorIs(t, err, catalog.ErrNoColumn)
}

func TestTruth(t *testing.T) {
	tr, err := catalog.NewTruth(sample(t), "lgal")
	require.NoError(t, err)
	require.Equal(t, []float64{10, 10.5, 11}, tr.LogMStar)
	require.InDeltaSlice(t, []float64{0, 1, -1}, tr.LogSFR, 1e-12)

	v, err := tr.Values(chain.LogSFR)
	require.NoError(t, err)
	require.Equal(t, tr.LogSFR, v)
	_, err = tr.Values("logzmw")
	require.ErrorIs(t, err, chain.ErrNoParam)

	px, ok := propbin.Lookup("g-r")
	require.True(t, ok)
	gr, err := tr.Property(px)
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{0, 0, 0}, gr, 1e-12)
}

func TestTruthOptional(t *testing.T) {
	tb := sample(t)
	require.NoError(t, tb.Set(catalog.SFR1Gyr, []float64{10, 1, 100}))
	require.NoError(t, tb.Set(catalog.ZMW, []float64{.01, .02, .001}))
	require.NoError(t, tb.Set(catalog.TAgeMW, []float64{2, 5, 9}))
	tr, err := catalog.NewTruth(tb, "tng")
	require.NoError(t, err)
	h := catalog.HCorrection("tng")

	v, err := tr.Values(chain.LogSFR1Gyr)
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{1 + h, h, 2 + h}, v, 1e-12)
	// metallicity and age are not h scaled
	v, err = tr.Values(chain.LogZMW)
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{-2, math.Log10(.02), -3}, v, 1e-12)
	v, err = tr.Values(chain.TAgeMW)
	require.NoError(t, err)
	require.Equal(t, []float64{2, 5, 9}, v)

	// absent columns
	tr, err = catalog.NewTruth(sample(t), "lgal")
	require.NoError(t, err)
	for _, param := range []string{chain.LogSFR1Gyr, chain.LogZMW, chain.TAgeMW} {
		_, err = tr.Values(param)
		require.ErrorIs(t, err, catalog.ErrNoColumn, param)
		require.NotErrorIs(t, err, chain.ErrNoParam, param)
	}
}

func TestTruthTNG(t *testing.T) {
	tr, err := catalog.NewTruth(sample(t), "tng")
	require.NoError(t, err)
	h := math.Log10(1 / (.6774 * .6774))
	require.InDelta(t, 10+h, tr.LogMStar[0], 1e-12)
	require.InDelta(t, h, tr.LogSFR[0], 1e-12)
}

func TestTruthNoFlux(t *testing.T) {
	tb := catalog.New(1)
	require.NoError(t, tb.Set(catalog.LogMTotal, []float64{10}))
	require.NoError(t, tb.Set(catalog.SFR100Myr, []float64{1}))
	tr, err := catalog.NewTruth(tb, "lgal")
	require.NoError(t, err)
	require.Nil(t, tr.Photo)
	_, err = tr.Property(0)
	require.ErrorIs(t, err, catalog.ErrNoColumn)

	_, err = catalog.NewTruth(catalog.New(1), "lgal")
	require.Error(t, err)
}

func TestReadTruth(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, catalog.WriteHDF5(catalog.TruthPath(dir, "lgal"), sample(t)))
	tr, err := catalog.ReadTruth(dir, "lgal")
	require.NoError(t, err)
	require.Len(t, tr.Photo, 3)
}
