// SPDX-License-Identifier: MIT

package cmatrix

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// Sparse is a complex matrix that materializes only explicitly set, non-zero
// entries. The occupancy of flat offsets (i*cols + j) lives in a roaring
// bitmap so iteration is ascending (row-major) without sorting map keys.
//
// Setting an entry to exactly 0 removes it.
type Sparse struct {
	r, c int
	occ  *roaring.Bitmap
	vals map[uint32]complex128
}

// NewSparse creates an empty rows×cols sparse matrix.
func NewSparse(rows, cols int) (*Sparse, error) {
	if err := validateShape(rows, cols); err != nil {
		return nil, err
	}

	return &Sparse{r: rows, c: cols, occ: roaring.New(), vals: make(map[uint32]complex128)}, nil
}

// SparseFrom copies the non-zero entries of m into a new Sparse.
func SparseFrom(m Matrix) *Sparse {
	s := &Sparse{r: m.Rows(), c: m.Cols(), occ: roaring.New(), vals: make(map[uint32]complex128)}
	m.Each(func(i, j int, v complex128) {
		if v != 0 {
			s.put(s.offset(i, j), v)
		}
	})

	return s
}

// Rows returns the number of rows.
func (s *Sparse) Rows() int { return s.r }

// Cols returns the number of columns.
func (s *Sparse) Cols() int { return s.c }

func (s *Sparse) offset(i, j int) uint32 { return uint32(i*s.c + j) }

func (s *Sparse) put(off uint32, v complex128) {
	if v == 0 {
		s.occ.Remove(off)
		delete(s.vals, off)

		return
	}
	s.occ.Add(off)
	s.vals[off] = v
}

// At returns the entry at (i, j); unset entries read as 0.
func (s *Sparse) At(i, j int) (complex128, error) {
	if i < 0 || i >= s.r || j < 0 || j >= s.c {
		return 0, indexErrorf("Sparse.At", i, j)
	}

	return s.vals[s.offset(i, j)], nil
}

// Set assigns v at (i, j).
func (s *Sparse) Set(i, j int, v complex128) error {
	if i < 0 || i >= s.r || j < 0 || j >= s.c {
		return indexErrorf("Sparse.Set", i, j)
	}
	s.put(s.offset(i, j), v)

	return nil
}

// add accumulates v into (i, j) without bounds checks.
func (s *Sparse) add(i, j int, v complex128) {
	off := s.offset(i, j)
	s.put(off, s.vals[off]+v)
}

// Clone returns a deep copy.
func (s *Sparse) Clone() Matrix {
	vals := make(map[uint32]complex128, len(s.vals))
	for k, v := range s.vals {
		vals[k] = v
	}

	return &Sparse{r: s.r, c: s.c, occ: s.occ.Clone(), vals: vals}
}

// NNZ returns the number of materialized entries.
func (s *Sparse) NNZ() int { return int(s.occ.GetCardinality()) }

// Each visits materialized entries in ascending row-major order.
func (s *Sparse) Each(fn func(i, j int, v complex128)) {
	it := s.occ.Iterator()
	for it.HasNext() {
		off := it.Next()
		fn(int(off)/s.c, int(off)%s.c, s.vals[off])
	}
}

// ToDense returns a dense copy.
func (s *Sparse) ToDense() *Dense {
	d := &Dense{r: s.r, c: s.c, data: make([]complex128, s.r*s.c)}
	for off, v := range s.vals {
		d.data[off] = v
	}

	return d
}
