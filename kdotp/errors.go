// SPDX-License-Identifier: MIT
// Package kdotp: sentinel error set.
// Matrix-level causes are wrapped so errors.Is matches cmatrix sentinels too.

package kdotp

import (
	"errors"
	"fmt"
)

var (
	// ErrEmpty indicates a model without coefficients.
	ErrEmpty = errors.New("kdotp: no taylor coefficients")

	// ErrDimensionMismatch indicates powers of different dimension, matrices of
	// different shape, or a k-point of the wrong length.
	ErrDimensionMismatch = errors.New("kdotp: dimension mismatch")

	// ErrInvalidPower indicates a power multi-index with a negative component.
	ErrInvalidPower = errors.New("kdotp: negative power")

	// ErrNotHermitian indicates a non-Hermitian Taylor coefficient.
	ErrNotHermitian = errors.New("kdotp: coefficient is not hermitian")

	// ErrInvalidOrder indicates a negative expansion order.
	ErrInvalidOrder = errors.New("kdotp: invalid expansion order")

	// ErrNaNInf signals a non-finite scalar or k component.
	ErrNaNInf = errors.New("kdotp: NaN or Inf encountered")
)

// Operation tags.
const (
	opNew      = "New"
	opAdd      = "Add"
	opMul      = "Mul"
	opScale    = "Scale"
	opHamilton = "Hamilton"
	opEigenval = "Eigenval"
	opFromTB   = "FromTightBinding"
)

// kdotpErrorf wraps err with an operation tag. Call only with err != nil.
func kdotpErrorf(tag string, err error) error {
	return fmt.Errorf("kdotp: %s: %w", tag, err)
}
