// Public domain.

// Package h5 has the few HDF5 dataset operations mocha needs: whole
// datasets of doubles or strings, read and written by name at the root
// group of a file.
package h5

import (
	"fmt"
	"strings"
	"sync"

	"gonum.org/v1/hdf5"
)

// Mu serializes use of the HDF5 library, which is not generally built
// thread safe.  Hold it from Open or Create through Close.
var Mu sync.Mutex

// Open opens an HDF5 file read only.
func Open(fn string) (*hdf5.File, error) {
	return hdf5.OpenFile(fn, hdf5.F_ACC_RDONLY)
}

// Create creates or truncates an HDF5 file.
func Create(fn string) (*hdf5.File, error) {
	return hdf5.CreateFile(fn, hdf5.F_ACC_TRUNC)
}

// Has reports whether the file has a dataset (or any link) named name.
func Has(f *hdf5.File, name string) bool {
	return f.LinkExists(name)
}

// Floats reads a numeric dataset, converting to float64, and returns
// the data in row-major order with the dataset dimensions.
func Floats(f *hdf5.File, name string) (data []float64, dims []uint, err error) {
	dset, err := f.OpenDataset(name)
	if err != nil {
		return nil, nil, fmt.Errorf("dataset %s: %w", name, err)
	}
	defer dset.Close()
	space := dset.Space()
	defer space.Close()
	if dims, _, err = space.SimpleExtentDims(); err != nil {
		return nil, nil, fmt.Errorf("dataset %s: %w", name, err)
	}
	dtype, err := dset.Datatype()
	if err != nil {
		return nil, nil, fmt.Errorf("dataset %s: %w", name, err)
	}
	defer dtype.Close()
	// Read transfers in the stored type
	n := space.SimpleExtentNPoints()
	switch c, sz := dtype.Class(), dtype.Size(); {
	case c == hdf5.T_FLOAT && sz == 8:
		data = make([]float64, n)
		err = dset.Read(&data)
	case c == hdf5.T_FLOAT && sz == 4:
		v := make([]float32, n)
		if err = dset.Read(&v); err == nil {
			data = make([]float64, n)
			for i, x := range v {
				data[i] = float64(x)
			}
		}
	case c == hdf5.T_INTEGER && sz == 8:
		v := make([]int64, n)
		if err = dset.Read(&v); err == nil {
			data = make([]float64, n)
			for i, x := range v {
				data[i] = float64(x)
			}
		}
	case c == hdf5.T_INTEGER && sz == 4:
		v := make([]int32, n)
		if err = dset.Read(&v); err == nil {
			data = make([]float64, n)
			for i, x := range v {
				data[i] = float64(x)
			}
		}
	default:
		return nil, nil, fmt.Errorf("dataset %s: unsupported type class %v size %d",
			name, c, sz)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("dataset %s: %w", name, err)
	}
	return data, dims, nil
}

// Strings reads a one dimensional dataset of fixed length strings, as
// written by numpy for arrays of bytes.  Null and space padding is
// removed.
func Strings(f *hdf5.File, name string) ([]string, error) {
	dset, err := f.OpenDataset(name)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", name, err)
	}
	defer dset.Close()
	space := dset.Space()
	defer space.Close()
	dtype, err := dset.Datatype()
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", name, err)
	}
	defer dtype.Close()
	if dtype.Class() != hdf5.T_STRING {
		return nil, fmt.Errorf("dataset %s: not strings", name)
	}
	n, sz := space.SimpleExtentNPoints(), int(dtype.Size())
	buf := make([]byte, n*sz)
	if err = dset.Read(&buf); err != nil {
		return nil, fmt.Errorf("dataset %s: %w", name, err)
	}
	s := make([]string, n)
	for i := range s {
		s[i] = strings.TrimRight(string(buf[i*sz:(i+1)*sz]), "\x00 ")
	}
	return s, nil
}

// WriteFloats writes data as a dataset of doubles with the given
// dimensions.  With no dims the dataset is one dimensional.
func WriteFloats(f *hdf5.File, name string, data []float64, dims ...uint) error {
	if len(dims) == 0 {
		dims = []uint{uint(len(data))}
	}
	space, err := hdf5.CreateSimpleDataspace(dims, nil)
	if err != nil {
		return err
	}
	defer space.Close()
	dset, err := f.CreateDataset(name, hdf5.T_NATIVE_DOUBLE, space)
	if err != nil {
		return fmt.Errorf("dataset %s: %w", name, err)
	}
	defer dset.Close()
	return dset.Write(&data)
}

// WriteStrings writes s as a one dimensional dataset of null padded
// strings, all the length of the longest.
func WriteStrings(f *hdf5.File, name string, s []string) error {
	sz := 1
	for _, x := range s {
		if len(x) > sz {
			sz = len(x)
		}
	}
	buf := make([]byte, len(s)*sz)
	for i, x := range s {
		copy(buf[i*sz:], x)
	}
	dtype, err := hdf5.T_C_S1.Copy()
	if err != nil {
		return err
	}
	defer dtype.Close()
	if err = dtype.SetSize(sz); err != nil {
		return err
	}
	space, err := hdf5.CreateSimpleDataspace([]uint{uint(len(s))}, nil)
	if err != nil {
		return err
	}
	defer space.Close()
	dset, err := f.CreateDataset(name, dtype, space)
	if err != nil {
		return fmt.Errorf("dataset %s: %w", name, err)
	}
	defer dset.Close()
	return dset.Write(&buf)
}
