// Public domain.

package catalog

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/astrogo/fitsio"
)

// ReadFITS reads columns from the first binary or ASCII table HDU of a
// FITS file.  Column names match without regard to case.  Scalar numeric
// and logical columns are converted to float64.
func ReadFITS(fn string, cols ...string) (*Table, error) {
	r, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	f, err := fitsio.Open(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	defer f.Close()
	var tbl *fitsio.Table
	for _, hdu := range f.HDUs() {
		if t, ok := hdu.(*fitsio.Table); ok {
			tbl = t
			break
		}
	}
	if tbl == nil {
		return nil, fmt.Errorf("%s: no table HDU", fn)
	}

	// map requested names to table columns
	tcols := tbl.Cols()
	want := make([]int, len(cols))
	for i, c := range cols {
		want[i] = -1
		for j := range tcols {
			if strings.EqualFold(tcols[j].Name, c) {
				want[i] = j
				break
			}
		}
		if want[i] < 0 {
			return nil, fmt.Errorf("%s: %w: %s", fn, ErrNoColumn, c)
		}
	}
	if len(cols) == 0 {
		for j := range tcols {
			cols = append(cols, tcols[j].Name)
			want = append(want, j)
		}
	}

	n := tbl.NumRows()
	vals := make([][]float64, len(cols))
	for i := range vals {
		vals[i] = make([]float64, 0, n)
	}
	// Scan takes a destination for every column
	dest := make([]interface{}, len(tcols))
	for j := range tcols {
		dest[j] = reflect.New(tcols[j].Type()).Interface()
	}
	rows, err := tbl.Read(0, n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	defer rows.Close()
	for rows.Next() {
		if err = rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%s: %w", fn, err)
		}
		for i, j := range want {
			x, ok := toFloat(reflect.ValueOf(dest[j]).Elem())
			if !ok {
				return nil, fmt.Errorf("%s: column %s is %s, not numeric",
					fn, tcols[j].Name, tcols[j].Type())
			}
			vals[i] = append(vals[i], x)
		}
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	t := New(int(n))
	for i, c := range cols {
		if err = t.Set(c, vals[i]); err != nil {
			return nil, fmt.Errorf("%s: %w", fn, err)
		}
	}
	return t, nil
}

func toFloat(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Bool:
		if v.Bool() {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// WriteFITS writes t as a binary table HDU named name, columns in
// sorted order, each a double.
func WriteFITS(fn, name string, t *Table) (err error) {
	w, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}()
	f, err := fitsio.Create(w)
	if err != nil {
		return err
	}
	defer f.Close()
	phdu, err := fitsio.NewPrimaryHDU(nil)
	if err != nil {
		return err
	}
	if err = f.Write(phdu); err != nil {
		return err
	}
	names := t.Names()
	cols := make([]fitsio.Column, len(names))
	for i, c := range names {
		cols[i] = fitsio.Column{Name: c, Format: "D"}
	}
	tbl, err := fitsio.NewTable(name, cols, fitsio.BINARY_TBL)
	if err != nil {
		return err
	}
	defer tbl.Close()
	row := make([]float64, len(names))
	ptrs := make([]interface{}, len(names))
	for i := range row {
		ptrs[i] = &row[i]
	}
	for r := 0; r < t.Len; r++ {
		for i, c := range names {
			row[i] = t.cols[c][r]
		}
		if err = tbl.Write(ptrs...); err != nil {
			return err
		}
	}
	return f.Write(tbl)
}
