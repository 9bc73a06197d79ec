// Public domain.

package chain

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// CacheName returns the file name for a cached set in dir.
func (r Request) CacheName(dir string) string {
	return filepath.Join(dir, fmt.Sprintf("%s.%s.%s.noise_%s.%s.%s.n%d.thin%d.gob",
		r.Method, r.Sim, r.Obs, r.Noise, r.Model, r.Param, r.NGal, r.Thin))
}

// ReadCache reads a set written by WriteCache.  The stored request must
// match req.
func ReadCache(fn string, req Request) (*DeltaSet, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec := gob.NewDecoder(f)
	var stored Request
	if err = dec.Decode(&stored); err != nil {
		return nil, err
	}
	if stored != req {
		return nil, fmt.Errorf("%s: cached for %s", fn, stored)
	}
	var set DeltaSet
	if err = dec.Decode(&set); err != nil {
		return nil, err
	}
	return &set, nil
}

// WriteCache writes req followed by set.
func WriteCache(fn string, req Request, set *DeltaSet) error {
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	enc := gob.NewEncoder(f)
	if err = enc.Encode(req); err == nil {
		err = enc.Encode(set)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// Cached returns the set from the cache in dir if present, otherwise it
// assembles the set and stores it.  An empty dir disables the cache.
// A cache that cannot be written is logged and otherwise ignored.
func Cached(dir string, req Request, truth []float64, log *zap.Logger) (*DeltaSet, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if dir == "" {
		return Assemble(req, truth, log)
	}
	fn := req.CacheName(dir)
	if set, err := ReadCache(fn, req); err == nil {
		log.Debug("cache hit", zap.String("file", fn))
		return set, nil
	}
	set, err := Assemble(req, truth, log)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Warn("cache", zap.Error(err))
	} else if err := WriteCache(fn, req, set); err != nil {
		log.Warn("cache", zap.Error(err))
	}
	return set, nil
}
