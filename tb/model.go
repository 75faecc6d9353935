// SPDX-License-Identifier: MIT

// Package tb - tight-binding models.
//
// Purpose:
//   - Model aggregates the unit cell, orbital positions, occupation and a
//     hopping.Store, and assembles H(k) under two gauge conventions.
//   - Symmetrize projects a model onto the subspace invariant under a set of
//     (possibly antiunitary) symmetry operations.
//   - SliceOrbitals and the derived-model helpers (Add, Scale, Supercell, ...)
//     build new models from existing ones.
//
// Lifecycle:
//   - A Model is immutable once built. Every transformation returns a new
//     Model and leaves its input untouched, so earlier snapshots stay usable.
//   - Models are created by Builder, FromHoppings, a loader (w90, codec) or by
//     the transformations in this package.
//
// Representation:
//   - hop holds the full Hermitian representation (hop[−R] == hop[R]^H), see
//     package hopping.
//   - Positions are fractional and, unless disabled, reduced into [0, 1);
//     a position shift by an integer vector d moves each element (R, i, j) to
//     R + d_j − d_i, which leaves H(k) unchanged in convention 1.
//
// AI-Hints:
//   - Use Builder for hand-written models, FromHoppings for matrix input.
//   - Prefer a Sparse backing for large models with few non-zero hoppings.
package tb

import (
	"fmt"
	"math"

	"github.com/katalvlaran/tbmodels/cmatrix"
	"github.com/katalvlaran/tbmodels/hopping"
	"github.com/katalvlaran/tbmodels/lattice"
)

// Model is an immutable tight-binding model.
type Model struct {
	size    int
	dim     int
	uc      []float64 // dim×dim row-major, nil when absent
	pos     []float64 // size×dim row-major
	occ     int
	hasOcc  bool
	hermTol float64
	hop     *hopping.Store
}

// newModel validates geometry against store and finalizes a Model.
// store is owned by the returned Model.
func newModel(store *hopping.Store, o Options) (*Model, error) {
	size, dim := store.Size(), store.Dim()
	m := &Model{size: size, dim: dim, occ: o.occ, hasOcc: o.hasOcc, hermTol: o.hermTol}

	if o.uc != nil {
		uc, err := flatten(o.uc, dim, dim)
		if err != nil {
			return nil, tbErrorf(opNewInternal, fmt.Errorf("unit cell: %w", err))
		}
		m.uc = uc
	}
	if o.pos != nil {
		pos, err := flatten(o.pos, size, dim)
		if err != nil {
			return nil, tbErrorf(opNewInternal, fmt.Errorf("positions: %w", err))
		}
		m.pos = pos
	} else {
		m.pos = make([]float64, size*dim)
	}

	if o.reducePos {
		reduced, err := reducePositions(m.pos, store, size, dim)
		if err != nil {
			return nil, tbErrorf(opNewInternal, err)
		}
		store = reduced
	}
	if store.Backing() != o.backing {
		converted, err := store.WithBacking(o.backing)
		if err != nil {
			return nil, tbErrorf(opNewInternal, err)
		}
		store = converted
	}
	m.hop = store

	return m, nil
}

// reducePositions maps pos into [0,1) in place and returns the store with
// every element (R, i, j) moved to R + offset[j] − offset[i].
func reducePositions(pos []float64, store *hopping.Store, size, dim int) (*hopping.Store, error) {
	offsets := make([][]int, size)
	shifted := false
	for i := 0; i < size; i++ {
		offsets[i] = make([]int, dim)
		for d := 0; d < dim; d++ {
			f := math.Floor(pos[i*dim+d])
			if f != 0 {
				shifted = true
				offsets[i][d] = int(f)
				pos[i*dim+d] -= f
			}
		}
	}
	if !shifted {
		return store, nil
	}
	out, err := hopping.New(size, dim, store.Backing())
	if err != nil {
		return nil, err
	}
	shift := make([]int, dim)
	var addErr error
	store.Each(func(r lattice.Vector, mat cmatrix.Matrix) {
		mat.Each(func(i, j int, t complex128) {
			if t == 0 || addErr != nil {
				return
			}
			for d := 0; d < dim; d++ {
				shift[d] = r.At(d) + offsets[j][d] - offsets[i][d]
			}
			r2, err := lattice.New(shift...)
			if err != nil {
				addErr = err
				return
			}
			addErr = out.AddAt(r2, i, j, t)
		})
	})
	if addErr != nil {
		return nil, addErr
	}

	return out, nil
}

// flatten validates a rows×cols real matrix and returns it row-major.
func flatten(in [][]float64, rows, cols int) ([]float64, error) {
	if len(in) != rows {
		return nil, fmt.Errorf("%d rows, want %d: %w", len(in), rows, ErrDimensionMismatch)
	}
	out := make([]float64, rows*cols)
	for i, row := range in {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d entries, want %d: %w", i, len(row), cols, ErrDimensionMismatch)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("(%d,%d): %w", i, j, ErrNaNInf)
			}
			out[i*cols+j] = v
		}
	}

	return out, nil
}

func unflatten(in []float64, rows, cols int) [][]float64 {
	if in == nil {
		return nil
	}
	out := make([][]float64, rows)
	for i := range out {
		out[i] = append([]float64(nil), in[i*cols:(i+1)*cols]...)
	}

	return out
}

// Size returns the number of orbitals.
func (m *Model) Size() int { return m.size }

// Dim returns the spatial dimension.
func (m *Model) Dim() int { return m.dim }

// UnitCell returns a copy of the unit cell (row d = basis vector d), or nil.
func (m *Model) UnitCell() [][]float64 { return unflatten(m.uc, m.dim, m.dim) }

// HasUnitCell reports whether a unit cell is set.
func (m *Model) HasUnitCell() bool { return m.uc != nil }

// Positions returns a copy of the fractional orbital positions.
func (m *Model) Positions() [][]float64 { return unflatten(m.pos, m.size, m.dim) }

// Pos returns a copy of the position of orbital i.
// Panics if i is outside [0, Size()).
func (m *Model) Pos(i int) []float64 {
	if i < 0 || i >= m.size {
		panic(fmt.Sprintf("tb: orbital %d out of range [0,%d)", i, m.size))
	}

	return append([]float64(nil), m.pos[i*m.dim:(i+1)*m.dim]...)
}

// Occ returns the number of occupied states and whether it is set.
func (m *Model) Occ() (int, bool) { return m.occ, m.hasOcc }

// Backing returns the hopping storage mode.
func (m *Model) Backing() hopping.Backing { return m.hop.Backing() }

// HermitianTolerance returns the tolerance used by Eigenval.
func (m *Model) HermitianTolerance() float64 { return m.hermTol }

// Keys returns the lattice vectors of all stored hopping terms, sorted.
func (m *Model) Keys() []lattice.Vector { return m.hop.Keys() }

// Hop returns a dense copy of hop[R]; a missing key yields a zero matrix and false.
func (m *Model) Hop(r lattice.Vector) (*cmatrix.Dense, bool) {
	if mat, ok := m.hop.Get(r); ok {
		return mat.ToDense(), true
	}
	z, _ := cmatrix.NewDense(m.size, m.size)

	return z, false
}

// Hoppings returns a deep copy of the hopping store.
func (m *Model) Hoppings() *hopping.Store { return m.hop.Clone() }

// Options returns construction options reproducing m's geometry, occupation,
// backing and tolerance. Positions are already reduced, so reduction is
// disabled.
func (m *Model) Options() []Option {
	opts := []Option{
		WithPositions(m.Positions()),
		WithBacking(m.Backing()),
		WithHermitianTolerance(m.hermTol),
		WithoutPositionReduction(),
	}
	if m.uc != nil {
		opts = append(opts, WithUnitCell(m.UnitCell()))
	}
	if m.hasOcc {
		opts = append(opts, WithOcc(m.occ))
	}

	return opts
}

// withStore returns a copy of m (same geometry) holding store.
func (m *Model) withStore(store *hopping.Store) *Model {
	out := *m
	out.hop = store
	out.pos = append([]float64(nil), m.pos...)
	if m.uc != nil {
		out.uc = append([]float64(nil), m.uc...)
	}

	return &out
}

// AllClose reports whether m and other have the same size, dim, occupation
// and backing-independent content: positions, unit cell and hoppings equal
// within atol (missing hopping keys read as zero).
func (m *Model) AllClose(other *Model, atol float64) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.size != other.size || m.dim != other.dim || m.hasOcc != other.hasOcc || m.occ != other.occ {
		return false
	}
	if (m.uc == nil) != (other.uc == nil) || !floatsClose(m.uc, other.uc, atol) {
		return false
	}
	if !floatsClose(m.pos, other.pos, atol) {
		return false
	}

	return m.hop.AllClose(other.hop, atol)
}

// String summarizes the model for logs and the CLI.
func (m *Model) String() string {
	occ := "unset"
	if m.hasOcc {
		occ = fmt.Sprint(m.occ)
	}

	return fmt.Sprintf("tb.Model{size=%d dim=%d terms=%d backing=%s occ=%s uc=%t}",
		m.size, m.dim, m.hop.Len(), m.hop.Backing(), occ, m.uc != nil)
}

func floatsClose(a, b []float64, atol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > atol {
			return false
		}
	}

	return true
}
