// Public domain.

// Package propbin defines the property bins used to group galaxies before
// population fits, and the table of galaxy observables available for
// binning.
package propbin

import (
	"errors"
	"fmt"
	"math"
)

// Edges are the partition points of a binned property.  Bin i is the
// half-open interval (Edges[i], Edges[i+1]].
type Edges []float64

// Linspace returns n evenly spaced edges from lo to hi inclusive.
// The end points are exact.
func Linspace(lo, hi float64, n int) Edges {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return Edges{lo}
	}
	e := make(Edges, n)
	step := (hi - lo) / float64(n-1)
	for i := range e {
		e[i] = lo + float64(i)*step
	}
	e[n-1] = hi
	return e
}

// Validate checks that edges define at least one bin and increase
// strictly.
func (e Edges) Validate() error {
	if len(e) < 2 {
		return errors.New("propbin: need at least two edges")
	}
	for i := 1; i < len(e); i++ {
		if !(e[i] > e[i-1]) {
			return fmt.Errorf("propbin: edges not increasing at %d (%g, %g)",
				i, e[i-1], e[i])
		}
	}
	return nil
}

// NBin returns the number of bins.
func (e Edges) NBin() int {
	if len(e) < 2 {
		return 0
	}
	return len(e) - 1
}

// Bounds returns the interval of bin i.
func (e Edges) Bounds(i int) (lo, hi float64) {
	return e[i], e[i+1]
}

// Mid returns the midpoint of bin i.
func (e Edges) Mid(i int) float64 {
	return .5 * (e[i] + e[i+1])
}

// Index returns the bin containing x, or -1 if x falls outside all bins.
// NaN is never in a bin.
func (e Edges) Index(x float64) int {
	if len(e) < 2 || math.IsNaN(x) || x <= e[0] || x > e[len(e)-1] {
		return -1
	}
	// upper edges are inclusive
	ix := 0
	for x > e[ix+1] {
		ix++
	}
	return ix
}

// Select partitions the indexes of prop by bin.  The result has one
// slice per bin, possibly empty, each listing positions in prop in
// increasing order.
func (e Edges) Select(prop []float64) [][]int {
	members := make([][]int, e.NBin())
	for i, x := range prop {
		if ix := e.Index(x); ix >= 0 {
			members[ix] = append(members[ix], i)
		}
	}
	return members
}
