// SPDX-License-Identifier: MIT

// Package cmatrix - complex128 matrices for tight-binding Hamiltonians.
//
// Purpose:
//   - Provide the two storage backings of a hopping matrix: Dense (row-major
//     flat slice) and Sparse (roaring occupancy bitmap + value map).
//   - Provide the algebra the symmetrization and assembly kernels need:
//     add/accumulate, scale, multiply, conjugate transpose, reindexing,
//     Kronecker product, Frobenius norm, tolerance comparison.
//   - Diagonalize Hermitian matrices (EigvalsHermitian).
//
// Determinism:
//   - Fixed i→j loop orders; Sparse iteration follows ascending flat index,
//     which is row-major order.
//
// AI-Hints:
//   - Kernels fast-path *Dense operands; pass concrete types where possible.
//   - Use Each to walk only materialized entries of a Sparse matrix.
package cmatrix

// Matrix is a rows×cols complex matrix with bounds-checked accessors.
//
// Complexity: Rows/Cols/At/Set are O(1) for both backings; Clone and ToDense
// are O(r*c) for Dense and O(nnz) / O(r*c) for Sparse.
type Matrix interface {
	// Rows returns the number of rows.
	Rows() int

	// Cols returns the number of columns.
	Cols() int

	// At returns the element at (i, j) or ErrOutOfRange.
	At(i, j int) (complex128, error)

	// Set assigns v at (i, j) or returns ErrOutOfRange.
	Set(i, j int, v complex128) error

	// Clone returns an independent deep copy with the same backing.
	Clone() Matrix

	// NNZ returns the number of materialized entries (r*c for Dense).
	NNZ() int

	// Each visits every materialized entry in row-major order.
	Each(fn func(i, j int, v complex128))

	// ToDense returns a dense copy.
	ToDense() *Dense
}

// Compile-time conformance.
var (
	_ Matrix = (*Dense)(nil)
	_ Matrix = (*Sparse)(nil)
)
