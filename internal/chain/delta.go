// Public domain.

package chain

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"runtime"
	"sync"

	"go.uber.org/zap"
)

// DefaultThin is the default sample stride for offset chains.
const DefaultThin = 10

// Request names the offset chains to assemble.
type Request struct {
	BestFit
	Param string // parameter name in theta_names
	NGal  int    // galaxies 0..NGal-1 are tried
	Thin  int
}

func (r Request) String() string {
	return fmt.Sprintf("%s %s ngal=%d thin=%d", r.BestFit, r.Param, r.NGal, r.Thin)
}

// DeltaSet holds offset chains, inferred minus true, for the galaxies
// with usable chain files.  IGal is ascending.
type DeltaSet struct {
	Param string
	IGal  []int
	Delta [][]float64
}

// Len returns the number of galaxies in the set.
func (d *DeltaSet) Len() int { return len(d.IGal) }

// Subset returns the set restricted to positions ix.
func (d *DeltaSet) Subset(ix []int) *DeltaSet {
	s := &DeltaSet{
		Param: d.Param,
		IGal:  make([]int, len(ix)),
		Delta: make([][]float64, len(ix)),
	}
	for i, x := range ix {
		s.IGal[i] = d.IGal[x]
		s.Delta[i] = d.Delta[x]
	}
	return s
}

// Pick returns values indexed by the galaxy indices of the set.
func (d *DeltaSet) Pick(values []float64) []float64 {
	p := make([]float64, len(d.IGal))
	for i, g := range d.IGal {
		p[i] = values[g]
	}
	return p
}

// galaxy result, returned on a ticket channel.
type galaxy struct {
	igal  int
	delta []float64
	skip  string // reason, if skipped
	err   error
}

type galaxySeq struct {
	igal int
	rch  chan galaxy
}

// Assemble reads the chain files of req and returns offset chains of
// req.Param relative to truth, which is indexed by galaxy.  Missing
// files, chains without the parameter and chains with NaN offsets are
// skipped and logged.  Other read errors fail the call.
//
// Files are read by a pool of workers; results are collected in galaxy
// order.
func Assemble(req Request, truth []float64, log *zap.Logger) (*DeltaSet, error) {
	if len(truth) < req.NGal {
		return nil, fmt.Errorf("chain: %d truth values for %d galaxies",
			len(truth), req.NGal)
	}
	if log == nil {
		log = zap.NewNop()
	}
	maxWorkers := runtime.GOMAXPROCS(0)
	// tickets keep results in submission order
	tickets := make(chan chan galaxy, maxWorkers*2)
	work := make(chan galaxySeq)

	// dispatcher
	go func() {
		for igal := 0; igal < req.NGal; igal++ {
			rch := make(chan galaxy, 1)
			work <- galaxySeq{igal, rch}
			tickets <- rch
		}
		close(work)
		close(tickets)
	}()

	var wg sync.WaitGroup
	for n := 0; n < maxWorkers; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for g := range work {
				g.rch <- req.load(g.igal, truth[g.igal])
			}
		}()
	}

	set := &DeltaSet{Param: req.Param}
	var err error
	for rch := range tickets {
		g := <-rch
		switch {
		case g.err != nil:
			if err == nil {
				err = g.err
			}
		case g.skip != "":
			log.Warn("skipping galaxy",
				zap.Int("igal", g.igal), zap.String("reason", g.skip))
		default:
			set.IGal = append(set.IGal, g.igal)
			set.Delta = append(set.Delta, g.delta)
		}
	}
	wg.Wait()
	if err != nil {
		return nil, err
	}
	log.Debug("assembled offsets",
		zap.Stringer("request", req), zap.Int("galaxies", set.Len()))
	return set, nil
}

func (req Request) load(igal int, truth float64) galaxy {
	fn := req.Path(igal)
	if _, err := os.Stat(fn); errors.Is(err, fs.ErrNotExist) {
		return galaxy{igal: igal, skip: "missing " + fn}
	}
	c, err := ReadFile(fn)
	if err != nil {
		return galaxy{igal: igal, err: err}
	}
	d, err := c.Param(req.Param, req.Thin)
	if err != nil {
		return galaxy{igal: igal, skip: err.Error()}
	}
	for i := range d {
		d[i] -= truth
		if math.IsNaN(d[i]) {
			return galaxy{igal: igal, skip: "NaN offset"}
		}
	}
	return galaxy{igal: igal, delta: d}
}

// Intersect returns the galaxy indices common to a and b, both
// ascending, with the position of each in a and in b.
func Intersect(a, b []int) (common, ia, ib []int) {
	for i, j := 0, 0; i < len(a) && j < len(b); {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			common = append(common, a[i])
			ia = append(ia, i)
			ib = append(ib, j)
			i++
			j++
		}
	}
	return
}
