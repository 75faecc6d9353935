// SPDX-License-Identifier: MIT
// Package symmetry: sentinel error set.

package symmetry

import (
	"errors"
	"fmt"
)

var (
	// ErrDimensionMismatch indicates rotations or representations whose shapes
	// disagree with each other or with the data they act on.
	ErrDimensionMismatch = errors.New("symmetry: dimension mismatch")

	// ErrLatticeMapping indicates that a rotation maps an integer lattice vector
	// to a non-integer image beyond tolerance.
	ErrLatticeMapping = errors.New("symmetry: rotation does not preserve the lattice")

	// ErrGroupClosure indicates that closing a generator set exceeded the
	// configured maximum group order.
	ErrGroupClosure = errors.New("symmetry: group closure exceeded maximum order")

	// ErrNoOperations indicates an empty operation list where at least one is needed.
	ErrNoOperations = errors.New("symmetry: no operations")

	// ErrNaNInf signals a non-finite rotation entry.
	ErrNaNInf = errors.New("symmetry: NaN or Inf in rotation")
)

// Operation tags.
const (
	opNew     = "New"
	opCompose = "Compose"
	opClosure = "Closure"
	opRotate  = "RotateVector"
)

func symmetryErrorf(tag string, err error) error {
	return fmt.Errorf("symmetry: %s: %w", tag, err)
}
