// SPDX-License-Identifier: MIT
// Package hopping: sentinel error set.
// Errors wrap cmatrix sentinels where the root cause is a matrix condition,
// so callers can match either layer with errors.Is.

package hopping

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSize indicates a non-positive orbital count or dimension.
	ErrInvalidSize = errors.New("hopping: invalid size or dimension")

	// ErrDimensionMismatch indicates a lattice vector or matrix whose shape does
	// not match the store.
	ErrDimensionMismatch = errors.New("hopping: dimension mismatch")

	// ErrNotHermitian indicates that hop[-R] != hop[R]^H beyond tolerance.
	ErrNotHermitian = errors.New("hopping: store violates hop[-R] == hop[R]^H")

	// ErrUnknownBacking indicates an unsupported Backing value.
	ErrUnknownBacking = errors.New("hopping: unknown backing")
)

// Operation tags.
const (
	opNew       = "New"
	opSet       = "Set"
	opAddAt     = "AddAt"
	opAccum     = "Accumulate"
	opReindex   = "Reindex"
	opHermitize = "Hermitize"
	opMerge     = "Merge"
	opValidate  = "ValidateHermitian"
)

// hoppingErrorf wraps err with an operation tag. Call only with err != nil.
func hoppingErrorf(tag string, err error) error {
	return fmt.Errorf("hopping: %s: %w", tag, err)
}
