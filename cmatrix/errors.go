// SPDX-License-Identifier: MIT
// Package cmatrix: sentinel error set.
// All kernels return these sentinels (optionally wrapped with an operation
// tag via cmatrixErrorf) and tests match them with errors.Is.
// No kernel panics on user-triggered conditions.

package cmatrix

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimensions indicates that requested matrix dimensions are non-positive
	// or too large for the flat index space.
	ErrInvalidDimensions = errors.New("cmatrix: invalid dimensions")

	// ErrOutOfRange indicates that a row or column index is outside valid bounds.
	ErrOutOfRange = errors.New("cmatrix: index out of range")

	// ErrDimensionMismatch indicates incompatible shapes between operands.
	ErrDimensionMismatch = errors.New("cmatrix: dimension mismatch")

	// ErrNonSquare signals that a square matrix was required.
	ErrNonSquare = errors.New("cmatrix: matrix is not square")

	// ErrNotHermitian signals that a matrix expected to be Hermitian violated
	// M == M^H beyond the configured tolerance.
	ErrNotHermitian = errors.New("cmatrix: matrix is not hermitian within tolerance")

	// ErrEigenFailed indicates that the Jacobi eigen solver did not converge.
	ErrEigenFailed = errors.New("cmatrix: eigen decomposition failed")

	// ErrNilMatrix indicates that a nil Matrix was passed.
	ErrNilMatrix = errors.New("cmatrix: nil matrix")

	// ErrNaNInf signals a NaN or ±Inf component.
	ErrNaNInf = errors.New("cmatrix: NaN or Inf encountered")
)

// Operation tags for uniform error wrapping.
const (
	opAdd       = "Add"
	opSub       = "Sub"
	opMul       = "Mul"
	opScale     = "Scale"
	opAccum     = "Accumulate"
	opConjT     = "ConjTranspose"
	opInduced   = "Induced"
	opKron      = "Kron"
	opEigvals   = "EigvalsHermitian"
	opHermitize = "Hermitize"
	opFromRows  = "FromRows"
	opAllClose  = "AllClose"
)

// cmatrixErrorf wraps err with an operation tag, preserving it for errors.Is.
// Call only with err != nil.
func cmatrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// indexErrorf wraps ErrOutOfRange with the offending coordinates.
func indexErrorf(method string, row, col int) error {
	return fmt.Errorf("%s(%d,%d): %w", method, row, col, ErrOutOfRange)
}
