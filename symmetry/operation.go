// SPDX-License-Identifier: MIT

// Package symmetry - symmetry operations acting on a tight-binding model.
//
// Purpose:
//   - An Operation is a triple (rotation, representation, antiunitary flag):
//     the rotation acts on integer lattice vectors, the representation on the
//     orbital basis, and the flag marks operations that carry complex
//     conjugation (time reversal and its products).
//   - Compose follows the antiunitary composition law; Closure expands a
//     generator list into the finite group it generates.
//
// Determinism:
//   - Closure is a breadth-first worklist seeded with the identity, so the
//     order of the returned group depends only on the generator order.
//
// AI-Hints:
//   - Rotations are stored as float64 to accept input from geometric
//     detectors; RotateVector enforces integrality on use.
package symmetry

import (
	"fmt"
	"math"

	"github.com/katalvlaran/tbmodels/cmatrix"
	"github.com/katalvlaran/tbmodels/lattice"
)

// Operation is an immutable symmetry operation.
type Operation struct {
	dim  int
	rot  []float64 // dim×dim row-major
	repr *cmatrix.Dense
	cc   bool
}

// New builds an Operation from a dim×dim rotation (lattice basis), a size×size
// orbital representation and the antiunitary flag.
// Returns ErrDimensionMismatch on non-square input, ErrNaNInf on a
// non-finite rotation entry.
func New(rotation [][]float64, repr cmatrix.Matrix, hasCC bool) (Operation, error) {
	dim := len(rotation)
	if dim == 0 || dim > lattice.MaxDim {
		return Operation{}, symmetryErrorf(opNew, fmt.Errorf("rotation has %d rows: %w", dim, ErrDimensionMismatch))
	}
	rot := make([]float64, dim*dim)
	for i, row := range rotation {
		if len(row) != dim {
			return Operation{}, symmetryErrorf(opNew, fmt.Errorf("rotation row %d has %d cols, want %d: %w", i, len(row), dim, ErrDimensionMismatch))
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return Operation{}, symmetryErrorf(opNew, ErrNaNInf)
			}
			rot[i*dim+j] = v
		}
	}
	if err := cmatrix.ValidateSquare(repr); err != nil {
		return Operation{}, symmetryErrorf(opNew, fmt.Errorf("%w: %w", ErrDimensionMismatch, err))
	}

	return Operation{dim: dim, rot: rot, repr: repr.ToDense(), cc: hasCC}, nil
}

// MustNew is New for fixtures; it panics on error.
func MustNew(rotation [][]float64, repr cmatrix.Matrix, hasCC bool) Operation {
	op, err := New(rotation, repr, hasCC)
	if err != nil {
		panic(err)
	}

	return op
}

// Identity returns the identity operation for dim spatial dimensions and
// size orbitals.
func Identity(dim, size int) (Operation, error) {
	if dim <= 0 || dim > lattice.MaxDim {
		return Operation{}, symmetryErrorf(opNew, fmt.Errorf("dim=%d: %w", dim, ErrDimensionMismatch))
	}
	id, err := cmatrix.NewIdentity(size)
	if err != nil {
		return Operation{}, symmetryErrorf(opNew, err)
	}
	rot := make([]float64, dim*dim)
	for i := 0; i < dim; i++ {
		rot[i*dim+i] = 1
	}

	return Operation{dim: dim, rot: rot, repr: id}, nil
}

// Dim returns the spatial dimension.
func (o Operation) Dim() int { return o.dim }

// Size returns the orbital dimension of the representation.
func (o Operation) Size() int {
	if o.repr == nil {
		return 0
	}

	return o.repr.Rows()
}

// HasCC reports whether the operation is antiunitary.
func (o Operation) HasCC() bool { return o.cc }

// Rotation returns a copy of the rotation matrix.
func (o Operation) Rotation() [][]float64 {
	out := make([][]float64, o.dim)
	for i := range out {
		out[i] = append([]float64(nil), o.rot[i*o.dim:(i+1)*o.dim]...)
	}

	return out
}

// Repr returns a copy of the representation matrix.
func (o Operation) Repr() *cmatrix.Dense { return o.repr.ToDense() }

// Compose returns b ∘ a (a applied first):
//
//	rot  = b.rot · a.rot
//	repr = b.repr · conj(a.repr)   if b is antiunitary
//	       b.repr · a.repr         otherwise
//	cc   = a.cc XOR b.cc
func Compose(a, b Operation) (Operation, error) {
	if a.dim != b.dim || a.Size() != b.Size() {
		return Operation{}, symmetryErrorf(opCompose, fmt.Errorf("dim %d/%d size %d/%d: %w", a.dim, b.dim, a.Size(), b.Size(), ErrDimensionMismatch))
	}
	n := a.dim
	rot := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for k := 0; k < n; k++ {
			bik := b.rot[i*n+k]
			if bik == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				rot[i*n+j] += bik * a.rot[k*n+j]
			}
		}
	}
	var inner cmatrix.Matrix = a.repr
	if b.cc {
		inner = cmatrix.Conj(a.repr)
	}
	repr, err := cmatrix.Mul(b.repr, inner)
	if err != nil {
		return Operation{}, symmetryErrorf(opCompose, err)
	}

	return Operation{dim: n, rot: rot, repr: repr, cc: a.cc != b.cc}, nil
}

// Equal reports whether a and b have the same antiunitary flag and their
// rotations and representations agree entry-wise within tol.
func Equal(a, b Operation, tol float64) bool {
	if a.dim != b.dim || a.cc != b.cc || a.Size() != b.Size() {
		return false
	}
	for k, v := range a.rot {
		if math.Abs(v-b.rot[k]) > tol {
			return false
		}
	}
	ok, err := cmatrix.AllClose(a.repr, b.repr, 0, tol)

	return err == nil && ok
}

// RotateVector returns rot · R rounded to the nearest integers.
// Returns ErrLatticeMapping when any component is farther than tol from an
// integer, ErrDimensionMismatch when R has the wrong dimension.
func (o Operation) RotateVector(r lattice.Vector, tol float64) (lattice.Vector, error) {
	if r.Dim() != o.dim {
		return lattice.Vector{}, symmetryErrorf(opRotate, fmt.Errorf("R=%v, dim %d: %w", r, o.dim, ErrDimensionMismatch))
	}
	coords := make([]int, o.dim)
	for i := 0; i < o.dim; i++ {
		var x float64
		for j := 0; j < o.dim; j++ {
			x += o.rot[i*o.dim+j] * float64(r.At(j))
		}
		rounded := math.Round(x)
		if math.Abs(x-rounded) > tol {
			return lattice.Vector{}, symmetryErrorf(opRotate, fmt.Errorf("R=%v maps to component %g: %w", r, x, ErrLatticeMapping))
		}
		coords[i] = int(rounded)
	}

	return lattice.New(coords...)
}

// KImage returns the reciprocal-space point k' such that a Hamiltonian
// invariant under o satisfies H(k) = U · H(k') · U^H (with H(k') conjugated
// when o is antiunitary). k' = rot^T · k, negated for antiunitary operations.
func (o Operation) KImage(k []float64) ([]float64, error) {
	if len(k) != o.dim {
		return nil, fmt.Errorf("symmetry: KImage: len(k)=%d, dim %d: %w", len(k), o.dim, ErrDimensionMismatch)
	}
	out := make([]float64, o.dim)
	for j := 0; j < o.dim; j++ {
		var s float64
		for i := 0; i < o.dim; i++ {
			s += o.rot[i*o.dim+j] * k[i]
		}
		if o.cc {
			s = -s
		}
		out[j] = s
	}

	return out, nil
}

// String renders a compact description for logs.
func (o Operation) String() string {
	return fmt.Sprintf("Operation{dim=%d size=%d cc=%t rot=%v}", o.dim, o.Size(), o.cc, o.Rotation())
}
