// SPDX-License-Identifier: MIT

package tb

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/katalvlaran/tbmodels/cmatrix"
	"github.com/katalvlaran/tbmodels/hopping"
	"github.com/katalvlaran/tbmodels/lattice"
)

// Builder accumulates hopping terms and produces an immutable Model.
// A Builder is not safe for concurrent use.
type Builder struct {
	o   Options
	hop *hopping.Store
}

// NewBuilder starts a model with size orbitals in dim dimensions.
func NewBuilder(size, dim int, opts ...Option) (*Builder, error) {
	o := gatherOptions(opts...)
	store, err := hopping.New(size, dim, o.backing)
	if err != nil {
		return nil, tbErrorf(opBuild, fmt.Errorf("%w: %w", ErrInvalidSize, err))
	}
	// Reduce positions now, while there is nothing to shift, so that the R
	// passed to AddHop refers to the reduced positions.
	if o.pos != nil && o.reducePos {
		pos, err := flatten(o.pos, size, dim)
		if err != nil {
			return nil, tbErrorf(opBuild, fmt.Errorf("positions: %w", err))
		}
		for k, v := range pos {
			pos[k] = v - math.Floor(v)
		}
		o.pos = unflatten(pos, size, dim)
		o.reducePos = false
	}

	return &Builder{o: o, hop: store}, nil
}

// AddHop adds the hopping t from orbital i in the home cell to orbital j in
// the cell at R, together with its conjugate partner conj(t) at (−R, j, i).
//
// Notes:
//   - For R = 0 and i == j the two contributions land on the same entry, so
//     the on-site energy grows by 2·Re(t). Use AddOnSite for plain energies.
//   - R refers to the reduced positions (mapped into [0, 1) by NewBuilder).
func (b *Builder) AddHop(t complex128, i, j int, r lattice.Vector) error {
	if err := b.checkOrbitals(i, j); err != nil {
		return tbErrorf(opAddHop, err)
	}
	if r.Dim() != b.hop.Dim() {
		return tbErrorf(opAddHop, fmt.Errorf("R=%v, dim %d: %w", r, b.hop.Dim(), ErrDimensionMismatch))
	}
	if cmplx.IsNaN(t) || cmplx.IsInf(t) {
		return tbErrorf(opAddHop, ErrNaNInf)
	}
	if err := b.hop.AddAt(r, i, j, t); err != nil {
		return tbErrorf(opAddHop, err)
	}
	if err := b.hop.AddAt(r.Neg(), j, i, cmplx.Conj(t)); err != nil {
		return tbErrorf(opAddHop, err)
	}

	return nil
}

// AddOnSite adds real on-site energies to the R = 0 diagonal.
func (b *Builder) AddOnSite(energies []float64) error {
	if len(energies) != b.hop.Size() {
		return tbErrorf(opAddOnSite, fmt.Errorf("%d energies for %d orbitals: %w", len(energies), b.hop.Size(), ErrDimensionMismatch))
	}
	zero, _ := lattice.Zero(b.hop.Dim())
	for i, e := range energies {
		if err := b.hop.AddAt(zero, i, i, complex(e, 0)); err != nil {
			return tbErrorf(opAddOnSite, err)
		}
	}

	return nil
}

// Build returns a Model holding a snapshot of the current terms. The Builder
// may continue to be used afterwards.
func (b *Builder) Build() (*Model, error) {
	m, err := newModel(b.hop.Clone(), b.o)
	if err != nil {
		return nil, tbErrorf(opBuild, err)
	}

	return m, nil
}

func (b *Builder) checkOrbitals(idx ...int) error {
	for _, i := range idx {
		if i < 0 || i >= b.hop.Size() {
			return fmt.Errorf("orbital %d not in [0,%d): %w", i, b.hop.Size(), ErrOrbitalIndex)
		}
	}

	return nil
}

// FromHoppings builds a Model from explicit hopping matrices.
//
// Without WithHalfHoppings the input must be the full representation and is
// checked for hop[−R] == hop[R]^H within the Hermitian tolerance (a missing
// −R reads as zero). With WithHalfHoppings each term M at R is stored
// together with M^H at −R.
func FromHoppings(size, dim int, hop map[lattice.Vector]cmatrix.Matrix, opts ...Option) (*Model, error) {
	o := gatherOptions(opts...)
	store, err := hopping.New(size, dim, o.backing)
	if err != nil {
		return nil, tbErrorf(opFromHop, fmt.Errorf("%w: %w", ErrInvalidSize, err))
	}
	for _, r := range lattice.SortedKeys(hop) {
		mat := hop[r]
		if err = store.Accumulate(r, mat, 1); err != nil {
			return nil, tbErrorf(opFromHop, fmt.Errorf("%w: %w", ErrDimensionMismatch, err))
		}
		if !o.half {
			continue
		}
		mh, err := cmatrix.ConjTranspose(mat)
		if err != nil {
			return nil, tbErrorf(opFromHop, err)
		}
		if err = store.Accumulate(r.Neg(), mh, 1); err != nil {
			return nil, tbErrorf(opFromHop, err)
		}
	}
	if !o.half {
		if err = store.ValidateHermitian(o.hermTol); err != nil {
			return nil, tbErrorf(opFromHop, fmt.Errorf("%w: %w", ErrNotHermitian, err))
		}
	}
	m, err := newModel(store, o)
	if err != nil {
		return nil, tbErrorf(opFromHop, err)
	}

	return m, nil
}
