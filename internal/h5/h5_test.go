// Public domain.

package h5_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gqp-mc/mocha/internal/h5"
)

func TestStringsRoundTrip(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "s.hdf5")
	names := []string{"logmstar", "", "logsfr.100myr", "f"}

	h5.Mu.Lock()
	defer h5.Mu.Unlock()
	f, err := h5.Create(fn)
	require.NoError(t, err)
	require.NoError(t, h5.WriteStrings(f, "theta_names", names))
	require.NoError(t, f.Close())

	f, err = h5.Open(fn)
	require.NoError(t, err)
	defer f.Close()
	got, err := h5.Strings(f, "theta_names")
	require.NoError(t, err)
	require.Equal(t, names, got)
}

func TestFloatsRoundTrip(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "f.hdf5")
	data := []float64{1, 2, 3, 4, 5, 6}

	h5.Mu.Lock()
	defer h5.Mu.Unlock()
	f, err := h5.Create(fn)
	require.NoError(t, err)
	require.NoError(t, h5.WriteFloats(f, "mcmc_chain", data, 3, 2))
	require.NoError(t, h5.WriteStrings(f, "theta_names", []string{"a", "b"}))
	require.NoError(t, f.Close())

	f, err = h5.Open(fn)
	require.NoError(t, err)
	defer f.Close()
	require.True(t, h5.Has(f, "mcmc_chain"))
	require.False(t, h5.Has(f, "prior_range"))
	got, dims, err := h5.Floats(f, "mcmc_chain")
	require.NoError(t, err)
	require.Equal(t, data, got)
	require.Equal(t, []uint{3, 2}, dims)

	// strings are not numeric
	_, _, err = h5.Floats(f, "theta_names")
	require.Error(t, err)
	_, err = h5.Strings(f, "mcmc_chain")
	require.Error(t, err)
}
