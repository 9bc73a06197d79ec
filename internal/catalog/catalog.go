// Public domain.

// Package catalog reads tables of named float64 columns from HDF5 and
// FITS files: simulation truth, photometry and survey catalogs.
package catalog

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gqp-mc/mocha/internal/h5"
)

// ErrNoColumn is returned when a requested column is not in a table.
var ErrNoColumn = errors.New("catalog: no such column")

// Table is a set of named columns of equal length.
type Table struct {
	Len  int
	cols map[string][]float64
}

// New returns an empty table of n rows.
func New(n int) *Table {
	return &Table{Len: n, cols: map[string][]float64{}}
}

// Set adds or replaces a column.
func (t *Table) Set(name string, v []float64) error {
	if len(v) != t.Len {
		return fmt.Errorf("catalog: column %s has %d rows, table %d",
			name, len(v), t.Len)
	}
	t.cols[name] = v
	return nil
}

// Col returns the named column.
func (t *Table) Col(name string) ([]float64, error) {
	if v, ok := t.cols[name]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNoColumn, name)
}

// Has reports whether the table has the named column.
func (t *Table) Has(name string) bool {
	_, ok := t.cols[name]
	return ok
}

// Names returns the column names in sorted order.
func (t *Table) Names() []string {
	n := make([]string, 0, len(t.cols))
	for c := range t.cols {
		n = append(n, c)
	}
	sort.Strings(n)
	return n
}

// Read reads the named columns, or all columns if none are named, from
// a FITS file (.fits, .fit, .fts) or otherwise an HDF5 file.
func Read(fn string, cols ...string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(fn)) {
	case ".fits", ".fit", ".fts":
		return ReadFITS(fn, cols...)
	}
	return ReadHDF5(fn, cols...)
}

// ReadHDF5 reads one dimensional datasets at the root of an HDF5 file
// as columns.
func ReadHDF5(fn string, cols ...string) (*Table, error) {
	h5.Mu.Lock()
	defer h5.Mu.Unlock()
	f, err := h5.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if len(cols) == 0 {
		n, err := f.NumObjects()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fn, err)
		}
		for i := uint(0); i < n; i++ {
			name, err := f.ObjectNameByIndex(i)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", fn, err)
			}
			cols = append(cols, name)
		}
	}
	var t *Table
	for _, c := range cols {
		if !h5.Has(f, c) {
			return nil, fmt.Errorf("%s: %w: %s", fn, ErrNoColumn, c)
		}
		v, dims, err := h5.Floats(f, c)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fn, err)
		}
		if len(dims) != 1 {
			return nil, fmt.Errorf("%s: column %s has rank %d", fn, c, len(dims))
		}
		if t == nil {
			t = New(len(v))
		}
		if err = t.Set(c, v); err != nil {
			return nil, fmt.Errorf("%s: %w", fn, err)
		}
	}
	if t == nil {
		t = New(0)
	}
	return t, nil
}

// WriteHDF5 writes each column of t as a dataset.
func WriteHDF5(fn string, t *Table) error {
	h5.Mu.Lock()
	defer h5.Mu.Unlock()
	f, err := h5.Create(fn)
	if err != nil {
		return err
	}
	defer f.Close()
	for _, c := range t.Names() {
		if err = h5.WriteFloats(f, c, t.cols[c]); err != nil {
			return err
		}
	}
	return nil
}
