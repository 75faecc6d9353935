// SPDX-License-Identifier: MIT

// Package cmatrix - Dense storage (row-major) & safe accessors.
//
// Purpose:
//   - Cache-friendly row-major buffer with the explicit index formula i*cols + j.
//   - Public accessors return errors instead of panicking.
//
// Complexity quicksheet:
//   - NewDense: O(r*c) zero-init; At/Set: O(1); Clone: O(r*c); Induced: O(r'*c').

package cmatrix

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"
)

// maxFlat bounds r*c so that flat offsets always fit a uint32 (Sparse bitmap).
const maxFlat = math.MaxUint32

// Dense is a concrete row-major complex matrix.
//   - r,c hold dimensions.
//   - data is a flat buffer of length r*c (offset = i*c + j).
type Dense struct {
	r, c int
	data []complex128
}

var _ fmt.Stringer = (*Dense)(nil)

// NewDense creates an r×c zero matrix.
// Returns ErrInvalidDimensions when rows<=0, cols<=0 or rows*cols overflows
// the flat index space.
// Complexity: O(r*c).
func NewDense(rows, cols int) (*Dense, error) {
	if err := validateShape(rows, cols); err != nil {
		return nil, err
	}

	return &Dense{r: rows, c: cols, data: make([]complex128, rows*cols)}, nil
}

// NewIdentity returns the n×n identity.
func NewIdentity(n int) (*Dense, error) {
	I, err := NewDense(n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		I.data[i*n+i] = 1
	}

	return I, nil
}

// FromRows builds a Dense from a rectangular slice of rows.
// Returns ErrDimensionMismatch on ragged input, ErrNaNInf on non-finite values.
func FromRows(rows [][]complex128) (*Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, cmatrixErrorf(opFromRows, ErrInvalidDimensions)
	}
	m, err := NewDense(len(rows), len(rows[0]))
	if err != nil {
		return nil, cmatrixErrorf(opFromRows, err)
	}
	for i, row := range rows {
		if len(row) != m.c {
			return nil, cmatrixErrorf(opFromRows, fmt.Errorf("row %d has %d cols, want %d: %w", i, len(row), m.c, ErrDimensionMismatch))
		}
		for j, v := range row {
			if !isFinite(v) {
				return nil, cmatrixErrorf(opFromRows, fmt.Errorf("(%d,%d): %w", i, j, ErrNaNInf))
			}
			m.data[i*m.c+j] = v
		}
	}

	return m, nil
}

// FromReal builds a Dense from a rectangular slice of real rows.
func FromReal(rows [][]float64) (*Dense, error) {
	cr := make([][]complex128, len(rows))
	for i, row := range rows {
		cr[i] = make([]complex128, len(row))
		for j, v := range row {
			cr[i][j] = complex(v, 0)
		}
	}

	return FromRows(cr)
}

// MustFromRows is FromRows for fixtures; it panics on error.
func MustFromRows(rows [][]complex128) *Dense {
	m, err := FromRows(rows)
	if err != nil {
		panic(err)
	}

	return m
}

// Rows returns the number of rows.
func (m *Dense) Rows() int { return m.r }

// Cols returns the number of columns.
func (m *Dense) Cols() int { return m.c }

// At returns the element at (i, j).
func (m *Dense) At(i, j int) (complex128, error) {
	if i < 0 || i >= m.r || j < 0 || j >= m.c {
		return 0, indexErrorf("Dense.At", i, j)
	}

	return m.data[i*m.c+j], nil
}

// Set assigns v at (i, j).
func (m *Dense) Set(i, j int, v complex128) error {
	if i < 0 || i >= m.r || j < 0 || j >= m.c {
		return indexErrorf("Dense.Set", i, j)
	}
	m.data[i*m.c+j] = v

	return nil
}

// Clone returns a deep copy.
func (m *Dense) Clone() Matrix { return m.clone() }

func (m *Dense) clone() *Dense {
	buf := make([]complex128, len(m.data))
	copy(buf, m.data)

	return &Dense{r: m.r, c: m.c, data: buf}
}

// NNZ returns r*c: every entry of a Dense is materialized.
func (m *Dense) NNZ() int { return len(m.data) }

// Each visits every entry in row-major order.
func (m *Dense) Each(fn func(i, j int, v complex128)) {
	for i := 0; i < m.r; i++ {
		base := i * m.c
		for j := 0; j < m.c; j++ {
			fn(i, j, m.data[base+j])
		}
	}
}

// ToDense returns a copy of m.
func (m *Dense) ToDense() *Dense { return m.clone() }

// RawData exposes the row-major backing slice (no copy). Mutating it mutates m.
func (m *Dense) RawData() []complex128 { return m.data }

// Induced materializes the submatrix M'[a,b] = M[rowsIdx[a], colsIdx[b]].
// Indices may repeat. Returns ErrOutOfRange for any index outside the base.
// Complexity: O(len(rowsIdx)*len(colsIdx)).
func (m *Dense) Induced(rowsIdx, colsIdx []int) (*Dense, error) {
	res, err := NewDense(len(rowsIdx), len(colsIdx))
	if err != nil {
		return nil, cmatrixErrorf(opInduced, err)
	}
	cp := len(colsIdx)
	for a, ri := range rowsIdx {
		if ri < 0 || ri >= m.r {
			return nil, cmatrixErrorf(opInduced, fmt.Errorf("row index %d: %w", ri, ErrOutOfRange))
		}
		for b, cj := range colsIdx {
			if cj < 0 || cj >= m.c {
				return nil, cmatrixErrorf(opInduced, fmt.Errorf("col index %d: %w", cj, ErrOutOfRange))
			}
			res.data[a*cp+b] = m.data[ri*m.c+cj]
		}
	}

	return res, nil
}

// IsZero reports whether every entry is exactly zero.
func (m *Dense) IsZero() bool {
	for _, v := range m.data {
		if v != 0 {
			return false
		}
	}

	return true
}

// String implements fmt.Stringer for debugging.
func (m *Dense) String() string {
	var sb strings.Builder
	for i := 0; i < m.r; i++ {
		sb.WriteString("[")
		for j := 0; j < m.c; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%g", m.data[i*m.c+j])
		}
		sb.WriteString("]\n")
	}

	return sb.String()
}

func validateShape(rows, cols int) error {
	if rows <= 0 || cols <= 0 {
		return ErrInvalidDimensions
	}
	if uint64(rows)*uint64(cols) > maxFlat {
		return ErrInvalidDimensions
	}

	return nil
}

func isFinite(v complex128) bool {
	return !cmplx.IsNaN(v) && !cmplx.IsInf(v)
}
