// Public domain.

package popfit_test

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/gqp-mc/mocha/internal/popfit"
	"github.com/gqp-mc/mocha/internal/propbin"
)

func newSolver(t *testing.T, m popfit.Method) *popfit.Solver {
	t.Helper()
	c := popfit.DefaultConfig()
	c.Method = m
	s, err := popfit.New(c, nil)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestMAPRecovers(t *testing.T) {
	const mu0, sigma0 = .1, .2
	chains := hierarchical(300, 200, mu0, sigma0, .02, 7)
	for _, m := range []popfit.Method{popfit.LBFGS, popfit.NelderMead} {
		eta, err := newSolver(t, m).MAP(chains)
		if err != nil {
			t.Fatal(m, err)
		}
		if math.Abs(eta.Mu-mu0) > .05 || math.Abs(eta.Sigma-sigma0) > .05 {
			t.Errorf("%s: got %+v, want mu %g sigma %g", m, eta, mu0, sigma0)
		}
	}
}

func TestMAPSigmaBound(t *testing.T) {
	// every galaxy has exactly the same offset, scatter wants to be zero.
	chains := make([][]float64, 20)
	for i := range chains {
		chains[i] = []float64{.2, .2, .2}
	}
	eta, err := newSolver(t, popfit.LBFGS).MAP(chains)
	if err != nil {
		t.Fatal(err)
	}
	if !(eta.Sigma > popfit.DefaultSigmaMin) || eta.Sigma > .02 {
		t.Fatalf("sigma %g not pushed toward its bound", eta.Sigma)
	}
	if math.Abs(eta.Mu-.2) > .01 {
		t.Fatalf("mu %g, want .2", eta.Mu)
	}
}

func TestMAPErrors(t *testing.T) {
	s := newSolver(t, popfit.LBFGS)
	if _, err := s.MAP(nil); !errors.Is(err, popfit.ErrNoChains) {
		t.Fatal("empty chain set:", err)
	}
	c := popfit.DefaultConfig()
	c.Prior = func(float64) float64 { return math.NaN() }
	s, err := popfit.New(c, nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = s.MAP([][]float64{{0, .1}})
	var ue *popfit.UndefinedError
	if !errors.As(err, &ue) {
		t.Fatalf("want *UndefinedError, got %v", err)
	}
}

func TestEtaMAPSkipsEmptyBins(t *testing.T) {
	chains := hierarchical(60, 50, 0, .1, .02, 3)
	prop := make([]float64, len(chains))
	for i := range prop {
		// nothing in (1, 2]
		if i%2 == 0 {
			prop[i] = .5
		} else {
			prop[i] = 2.5
		}
	}
	edges := propbin.Edges{0, 1, 2, 3}
	fits, err := newSolver(t, popfit.LBFGS).EtaMAP(prop, chains, edges)
	if err != nil {
		t.Fatal(err)
	}
	if len(fits) > edges.NBin() || len(fits) != 2 {
		t.Fatalf("%d fits for %d bins", len(fits), edges.NBin())
	}
	if diff := cmp.Diff([]float64{.5, 2.5}, popfit.Mids(fits)); diff != "" {
		t.Fatalf("mids (-want +got):\n%s", diff)
	}
	for _, f := range fits {
		if f.N != 30 {
			t.Errorf("bin %g has %d galaxies, want 30", f.Mid, f.N)
		}
		if !(f.Sigma > 0) {
			t.Errorf("bin %g sigma %g", f.Mid, f.Sigma)
		}
	}
}

func TestEtaMAPDeterministic(t *testing.T) {
	chains := hierarchical(80, 40, .05, .15, .03, 11)
	prop := make([]float64, len(chains))
	for i := range prop {
		prop[i] = float64(i%4) + .5
	}
	edges := propbin.Linspace(0, 4, 5)
	c := popfit.DefaultConfig()
	c.Workers = 1
	serial, _ := popfit.New(c, nil)
	c.Workers = 4
	parallel, _ := popfit.New(c, nil)
	f1, err := serial.EtaMAP(prop, chains, edges)
	if err != nil {
		t.Fatal(err)
	}
	f2, err := parallel.EtaMAP(prop, chains, edges)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(f1, f2, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Fatalf("worker count changed results (-serial +parallel):\n%s", diff)
	}
}

func TestEtaMAPLengthMismatch(t *testing.T) {
	s := newSolver(t, popfit.LBFGS)
	if _, err := s.EtaMAP([]float64{1, 2}, [][]float64{{0}}, propbin.Edges{0, 3}); err == nil {
		t.Fatal("mismatched lengths accepted")
	}
	if _, err := s.EtaMAP([]float64{1}, [][]float64{{0}}, propbin.Edges{0}); err == nil {
		t.Fatal("single edge accepted")
	}
}

func TestNewValidation(t *testing.T) {
	for name, mod := range map[string]func(*popfit.Config){
		"floor":  func(c *popfit.Config) { c.Floor = 0 },
		"bound":  func(c *popfit.Config) { c.SigmaMin = -1 },
		"start":  func(c *popfit.Config) { c.Start.Sigma = c.SigmaMin },
		"method": func(c *popfit.Config) { c.Method = "bfgs-b" },
	} {
		c := popfit.DefaultConfig()
		mod(&c)
		if _, err := popfit.New(c, nil); err == nil {
			t.Errorf("%s: invalid config accepted", name)
		}
	}
	if _, err := popfit.ParseMethod("neldermead"); err != nil {
		t.Error(err)
	}
}
