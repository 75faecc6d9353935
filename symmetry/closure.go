// SPDX-License-Identifier: MIT

package symmetry

import (
	"fmt"
	"math"
)

// Defaults (single source of truth).
const (
	// DefaultTolerance is the entry-wise tolerance of operation equality.
	DefaultTolerance = 1e-8

	// DefaultMaxOrder bounds the size of a generated group. Crystallographic
	// point groups have at most 48 elements, 96 with time reversal.
	DefaultMaxOrder = 512
)

const (
	panicToleranceInvalid = "symmetry: WithTolerance: tol must be finite, non-negative"
	panicMaxOrderInvalid  = "symmetry: WithMaxOrder: n must be >= 1"
)

// Option configures Closure.
type Option func(*Options)

// Options is the resolved Closure configuration.
type Options struct {
	tol      float64
	maxOrder int
}

// WithTolerance sets the equality tolerance used to detect known elements.
// Panics on negative or non-finite tol.
func WithTolerance(tol float64) Option {
	if tol < 0 || math.IsNaN(tol) || math.IsInf(tol, 0) {
		panic(panicToleranceInvalid)
	}

	return func(o *Options) { o.tol = tol }
}

// WithMaxOrder sets the group-order bound. Panics when n < 1.
func WithMaxOrder(n int) Option {
	if n < 1 {
		panic(panicMaxOrderInvalid)
	}

	return func(o *Options) { o.maxOrder = n }
}

func gatherOptions(user ...Option) Options {
	o := Options{tol: DefaultTolerance, maxOrder: DefaultMaxOrder}
	for _, set := range user {
		if set != nil {
			set(&o)
		}
	}

	return o
}

// Closure returns the group generated by gens, identity first.
//
// Implementation:
//   - Stage 1: validate that all generators share dim and size.
//   - Stage 2: worklist. known = [I], queue = [I]. Pop x; for each generator g
//     form g ∘ x; append unseen results to known and queue.
//   - Stage 3: fail with ErrGroupClosure as soon as known exceeds maxOrder.
//
// For a finite group, right-multiplying by generators reaches every element
// (the generated monoid is the group), so one pass over the queue suffices.
//
// Complexity: O(|G| · |gens| · (|G| + n^3)) for n orbitals.
func Closure(gens []Operation, opts ...Option) ([]Operation, error) {
	if len(gens) == 0 {
		return nil, symmetryErrorf(opClosure, ErrNoOperations)
	}
	o := gatherOptions(opts...)
	dim, size := gens[0].dim, gens[0].Size()
	for i, g := range gens {
		if g.dim != dim || g.Size() != size {
			return nil, symmetryErrorf(opClosure, fmt.Errorf("generator %d: dim %d size %d, want %d/%d: %w", i, g.dim, g.Size(), dim, size, ErrDimensionMismatch))
		}
	}
	id, err := Identity(dim, size)
	if err != nil {
		return nil, symmetryErrorf(opClosure, err)
	}

	known := []Operation{id}
	queue := []Operation{id}
	for len(queue) > 0 {
		x := queue[0]
		queue = queue[1:]
		for _, g := range gens {
			y, err := Compose(x, g)
			if err != nil {
				return nil, symmetryErrorf(opClosure, err)
			}
			if contains(known, y, o.tol) {
				continue
			}
			known = append(known, y)
			if len(known) > o.maxOrder {
				return nil, symmetryErrorf(opClosure, fmt.Errorf("more than %d elements: %w", o.maxOrder, ErrGroupClosure))
			}
			queue = append(queue, y)
		}
	}

	return known, nil
}

func contains(set []Operation, op Operation, tol float64) bool {
	for _, s := range set {
		if Equal(s, op, tol) {
			return true
		}
	}

	return false
}
