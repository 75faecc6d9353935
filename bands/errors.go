// SPDX-License-Identifier: MIT
// Package bands: sentinel error set.

package bands

import (
	"errors"
	"fmt"
)

var (
	// ErrNilFunc indicates a nil EigenFunc.
	ErrNilFunc = errors.New("bands: nil eigenvalue function")

	// ErrDimensionMismatch indicates k-points or path nodes of different length.
	ErrDimensionMismatch = errors.New("bands: dimension mismatch")

	// ErrInvalidPath indicates fewer than two nodes or a non-positive
	// segment resolution.
	ErrInvalidPath = errors.New("bands: invalid k-path")
)

// Operation tags.
const (
	opSweep = "Sweep"
	opPath  = "Path"
)

// bandsErrorf wraps err with an operation tag. Call only with err != nil.
func bandsErrorf(tag string, err error) error {
	return fmt.Errorf("bands: %s: %w", tag, err)
}
