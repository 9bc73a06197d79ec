// Public domain.

package mochaprog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) []string {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute(), "mocha %s", strings.Join(args, " "))
	return strings.Fields(out.String())
}

func TestVersion(t *testing.T) {
	out := run(t, "version", "-p", t.TempDir())
	require.Equal(t, "mocha", out[0])
}

func TestFigures(t *testing.T) {
	if testing.Short() {
		t.Skip("generates a mock challenge")
	}
	data := t.TempDir()
	figs := filepath.Join(t.TempDir(), "figs")
	require.NoError(t, os.WriteFile(filepath.Join(data, configFile),
		[]byte("ngal=40\nnsample=200\nnbin=20\nworkers=2\n"), 0o644))

	out := run(t, "mock", "-p", data, "--nsurvey", "300")
	require.Len(t, out, 1)
	require.FileExists(t, out[0])

	for _, fig := range [][]string{
		{"eta-delta"}, {"photo-vs-specphoto"}, {"dust"}, {"inferred"},
		{"inferred", "--obs", "spec"}, {"inferred", "--obs", "photo"},
		{"posterior", "--igal", "3"}, {"footprint"}, {"offsets"},
	} {
		files := run(t, append(fig, "-p", data, "-o", figs, "--nopdf")...)
		require.NotEmpty(t, files, fig)
		for _, fn := range files {
			require.FileExists(t, fn)
			require.Equal(t, figs, filepath.Dir(fn))
		}
	}
	for _, obs := range []string{"spec", "photo", "specphoto"} {
		fn := filepath.Join(figs, "inferred.lgal."+obs+".ifsps.vanilla.noise_"+
			map[string]string{"spec": "bgs0", "photo": "legacy", "specphoto": "bgs0_legacy"}[obs]+".png")
		require.FileExists(t, fn)
	}
	// offset sets were cached
	cached, err := filepath.Glob(filepath.Join(data, "cache", "*.gob"))
	require.NoError(t, err)
	require.NotEmpty(t, cached)
}

func TestMissingData(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"eta-delta", "-p", t.TempDir()})
	require.Error(t, root.Execute())

	root = newRootCmd()
	root.SetArgs([]string{"version", "-c", filepath.Join(t.TempDir(), "none.config")})
	require.Error(t, root.Execute())

	root = newRootCmd()
	root.SetArgs([]string{"inferred", "--obs", "radio", "-p", t.TempDir()})
	require.Error(t, root.Execute())
}

func TestPosteriorGalaxy(t *testing.T) {
	data := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(data, configFile),
		[]byte("ngal=5\nnsample=50\n"), 0o644))
	run(t, "mock", "-p", data, "--nsurvey", "0")
	for _, igal := range []string{"-1", "5"} {
		root := newRootCmd()
		root.SetOut(&bytes.Buffer{})
		root.SetArgs([]string{"posterior", "--igal", igal, "-p", data, "-o", t.TempDir()})
		require.Error(t, root.Execute(), igal)
	}
}
