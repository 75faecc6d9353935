// SPDX-License-Identifier: MIT

// Package lattice - integer lattice vectors used as exact map keys.
//
// Purpose:
//   - Identify hopping terms by the translation R between unit cells.
//   - Serve as the multi-index (derivative orders) of a k·p Taylor series.
//
// Design:
//   - Vector is a comparable value type (fixed backing array + length), so it
//     can be used directly as a Go map key with exact equality; no tolerance.
//   - All arithmetic returns new values; a Vector is never mutated in place.
//
// AI-Hints:
//   - Use Sort/Less when you need a deterministic iteration order over map keys.
//   - Dimensions above MaxDim are rejected with ErrTooManyDims.
package lattice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxDim is the largest spatial dimension a Vector can hold.
const MaxDim = 8

var (
	// ErrTooManyDims is returned when more than MaxDim coordinates are given.
	ErrTooManyDims = errors.New("lattice: dimension exceeds MaxDim")

	// ErrDimensionMismatch is returned when two vectors of different length meet.
	ErrDimensionMismatch = errors.New("lattice: dimension mismatch")
)

// Vector is an ordered tuple of dim integers.
// The zero value is the 0-dimensional vector.
type Vector struct {
	n uint8       // number of used coordinates (dim)
	c [MaxDim]int // coordinates; entries >= n are always zero
}

// New builds a Vector from its coordinates.
// Returns ErrTooManyDims if len(coords) > MaxDim.
func New(coords ...int) (Vector, error) {
	if len(coords) > MaxDim {
		return Vector{}, fmt.Errorf("lattice: New(%d coords): %w", len(coords), ErrTooManyDims)
	}
	var v Vector
	v.n = uint8(len(coords))
	copy(v.c[:], coords)

	return v, nil
}

// MustNew is New for literals in tests and examples; it panics on error.
func MustNew(coords ...int) Vector {
	v, err := New(coords...)
	if err != nil {
		panic(err)
	}

	return v
}

// Zero returns the dim-dimensional zero vector.
func Zero(dim int) (Vector, error) {
	if dim < 0 || dim > MaxDim {
		return Vector{}, fmt.Errorf("lattice: Zero(%d): %w", dim, ErrTooManyDims)
	}

	return Vector{n: uint8(dim)}, nil
}

// Dim returns the number of coordinates.
func (v Vector) Dim() int { return int(v.n) }

// At returns coordinate i. It panics on an out-of-range index, like a slice.
func (v Vector) At(i int) int {
	if i < 0 || i >= int(v.n) {
		panic(fmt.Sprintf("lattice: index %d out of range [0,%d)", i, v.n))
	}

	return v.c[i]
}

// Coords returns a fresh slice copy of the coordinates.
func (v Vector) Coords() []int {
	out := make([]int, v.n)
	copy(out, v.c[:v.n])

	return out
}

// Floats returns the coordinates converted to float64.
func (v Vector) Floats() []float64 {
	out := make([]float64, v.n)
	for i := 0; i < int(v.n); i++ {
		out[i] = float64(v.c[i])
	}

	return out
}

// IsZero reports whether every coordinate is 0.
func (v Vector) IsZero() bool {
	for i := 0; i < int(v.n); i++ {
		if v.c[i] != 0 {
			return false
		}
	}

	return true
}

// Neg returns -v.
func (v Vector) Neg() Vector {
	out := Vector{n: v.n}
	for i := 0; i < int(v.n); i++ {
		out.c[i] = -v.c[i]
	}

	return out
}

// Add returns v + w. Both must have the same dimension.
func (v Vector) Add(w Vector) (Vector, error) {
	if v.n != w.n {
		return Vector{}, fmt.Errorf("lattice: Add(%d,%d): %w", v.n, w.n, ErrDimensionMismatch)
	}
	out := Vector{n: v.n}
	for i := 0; i < int(v.n); i++ {
		out.c[i] = v.c[i] + w.c[i]
	}

	return out, nil
}

// Sub returns v - w. Both must have the same dimension.
func (v Vector) Sub(w Vector) (Vector, error) { return v.Add(w.Neg()) }

// Sum returns the sum of all coordinates (total order of a multi-index).
func (v Vector) Sum() int {
	s := 0
	for i := 0; i < int(v.n); i++ {
		s += v.c[i]
	}

	return s
}

// NonNegative reports whether every coordinate is >= 0.
func (v Vector) NonNegative() bool {
	for i := 0; i < int(v.n); i++ {
		if v.c[i] < 0 {
			return false
		}
	}

	return true
}

// Dot returns Σ v[i]*x[i]; x must have length Dim().
func (v Vector) Dot(x []float64) float64 {
	var s float64
	for i := 0; i < int(v.n); i++ {
		s += float64(v.c[i]) * x[i]
	}

	return s
}

// Positive reports whether the first non-zero coordinate is > 0.
// The zero vector is not positive. Exactly one of v, -v is positive for v != 0.
func (v Vector) Positive() bool {
	for i := 0; i < int(v.n); i++ {
		if v.c[i] != 0 {
			return v.c[i] > 0
		}
	}

	return false
}

// Less orders vectors by dimension, then lexicographically.
func (v Vector) Less(w Vector) bool {
	if v.n != w.n {
		return v.n < w.n
	}
	for i := 0; i < int(v.n); i++ {
		if v.c[i] != w.c[i] {
			return v.c[i] < w.c[i]
		}
	}

	return false
}

// String renders the vector as "(a, b, c)".
func (v Vector) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i := 0; i < int(v.n); i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Itoa(v.c[i]))
	}
	sb.WriteByte(')')

	return sb.String()
}
