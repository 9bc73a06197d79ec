// Public domain.

package propbin_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/gqp-mc/mocha/internal/propbin"
)

func ExampleLinspace() {
	fmt.Println(propbin.Linspace(9, 12, 7))
	// Output:
	// [9 9.5 10 10.5 11 11.5 12]
}

func TestLinspaceEndpoints(t *testing.T) {
	e := propbin.Linspace(-3, 3, 7)
	if e[0] != -3 || e[len(e)-1] != 3 {
		t.Fatal("endpoints not exact:", e)
	}
	if e.NBin() != 6 {
		t.Fatal("NBin:", e.NBin())
	}
	if propbin.Linspace(0, 1, 0) != nil {
		t.Fatal("n = 0 should give nil edges")
	}
}

func TestIndexHalfOpen(t *testing.T) {
	e := propbin.Edges{0, 1, 2}
	for _, c := range []struct {
		x    float64
		want int
	}{
		{0, -1}, // lower edge excluded
		{.5, 0},
		{1, 0}, // upper edge included
		{1.0001, 1},
		{2, 1},
		{2.5, -1},
		{-1, -1},
		{math.NaN(), -1},
	} {
		if got := e.Index(c.x); got != c.want {
			t.Errorf("Index(%g) = %d, want %d", c.x, got, c.want)
		}
	}
}

func TestSelect(t *testing.T) {
	e := propbin.Edges{0, 1, 2, 3}
	got := e.Select([]float64{.5, 2.5, 1, 7, .2, 2.9})
	want := [][]int{{0, 2, 4}, nil, {1, 5}}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("Select mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	if err := (propbin.Edges{1}).Validate(); err == nil {
		t.Error("single edge accepted")
	}
	if err := (propbin.Edges{0, 1, 1}).Validate(); err == nil {
		t.Error("repeated edge accepted")
	}
	if err := propbin.Linspace(19, 20, 11).Validate(); err != nil {
		t.Error(err)
	}
}

func TestMid(t *testing.T) {
	e := propbin.Linspace(9, 12, 7)
	if m := e.Mid(0); m != 9.25 {
		t.Fatal("Mid(0) =", m)
	}
}

func TestPList(t *testing.T) {
	// 10 nanomaggies is magnitude 20
	p := propbin.Photo{G: 10 / math.Pow(10, .4), R: 10, Z: 10 * math.Pow(10, .2)}
	want := map[string]float64{"rmag": 20, "g-r": 1, "r-z": .5}
	for name, w := range want {
		px, ok := propbin.Lookup(name)
		if !ok {
			t.Fatal("missing property", name)
		}
		v := propbin.Values(px, []propbin.Photo{p})[0]
		if math.Abs(v-w) > 1e-12 {
			t.Errorf("%s = %g, want %g", name, v, w)
		}
	}
	if _, ok := propbin.Lookup("r - z color"); !ok {
		t.Error("lookup by heading failed")
	}
	if _, ok := propbin.Lookup("u-g"); ok {
		t.Error("unexpected property u-g")
	}
	if n := propbin.DefaultEdges(0).NBin(); n != propbin.DefaultBins {
		t.Error("default bins:", n)
	}
}
