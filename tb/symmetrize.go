// SPDX-License-Identifier: MIT

package tb

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/tbmodels/cmatrix"
	"github.com/katalvlaran/tbmodels/hopping"
	"github.com/katalvlaran/tbmodels/lattice"
	"github.com/katalvlaran/tbmodels/symmetry"
)

// Symmetrize returns the group average of m over ops:
//
//	hop'[rot·R] = (1/|G|) Σ_g T_g(hop[R]),
//	T_g(M) = U·M·U^H            (unitary g)
//	T_g(M) = U·conj(M)·U^H      (antiunitary g)
//
// Implementation:
//   - Stage 1: validate ops against size and dim; with WithFullGroup replace
//     ops by symmetry.Closure(ops).
//   - Stage 2: transform every term under every operation. Operations run
//     concurrently (bounded by WithWorkers); each writes a private store.
//   - Stage 3: reduce the private stores in operation order, so the result
//     does not depend on scheduling. Divide by |G|.
//   - Stage 4: restore hop[−R] == hop[R]^H by pair averaging, then drop terms
//     with Frobenius norm <= the prune tolerance, then convert to m's backing.
//
// Errors:
//   - ErrDimensionMismatch (wrapping symmetry.ErrDimensionMismatch) for ops of
//     the wrong shape; symmetry.ErrLatticeMapping for a rotation with a
//     non-integer image; symmetry.ErrGroupClosure from closure.
//
// Complexity: O(|G|·|R|·size^3).
//
// AI-Hints:
//   - Applying an already closed group twice is idempotent within floating
//     tolerance; applying a non-group list gives a partial projection.
func (m *Model) Symmetrize(ops []symmetry.Operation, opts ...SymmetrizeOption) (*Model, error) {
	o := gatherSymmetrizeOptions(opts...)
	if len(ops) == 0 {
		return nil, tbErrorf(opSymmetrize, symmetry.ErrNoOperations)
	}
	for i, op := range ops {
		if op.Dim() != m.dim || op.Size() != m.size {
			return nil, tbErrorf(opSymmetrize, fmt.Errorf("operation %d: dim %d size %d, model %d/%d: %w: %w",
				i, op.Dim(), op.Size(), m.dim, m.size, ErrDimensionMismatch, symmetry.ErrDimensionMismatch))
		}
	}
	group := ops
	if o.fullGroup {
		closed, err := symmetry.Closure(ops, symmetry.WithTolerance(o.groupTol), symmetry.WithMaxOrder(o.maxOrder))
		if err != nil {
			return nil, tbErrorf(opSymmetrize, err)
		}
		group = closed
	}
	o.logger.Debug("symmetrize",
		"operations", len(ops), "group_order", len(group), "full_group", o.fullGroup, "terms", m.hop.Len())

	keys := m.hop.Keys()
	partials := make([]*hopping.Store, len(group))
	var eg errgroup.Group
	eg.SetLimit(o.workers)
	for gi := range group {
		eg.Go(func() error {
			p, err := m.transform(group[gi], keys, o.latTol)
			if err != nil {
				return fmt.Errorf("operation %d: %w", gi, err)
			}
			partials[gi] = p

			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, tbErrorf(opSymmetrize, err)
	}

	acc, err := hopping.New(m.size, m.dim, hopping.Dense)
	if err != nil {
		return nil, tbErrorf(opSymmetrize, err)
	}
	for _, p := range partials {
		if err = acc.Merge(p, 1); err != nil {
			return nil, tbErrorf(opSymmetrize, err)
		}
	}
	acc = acc.Scale(complex(1/float64(len(group)), 0))
	if acc, err = acc.Hermitize(); err != nil {
		return nil, tbErrorf(opSymmetrize, err)
	}
	pruned := acc.Prune(o.pruneTol)
	o.logger.Debug("symmetrize done", "terms_before_prune", acc.Len(), "terms", pruned.Len())
	if pruned, err = pruned.WithBacking(m.hop.Backing()); err != nil {
		return nil, tbErrorf(opSymmetrize, err)
	}

	return m.withStore(pruned), nil
}

// transform applies one operation to every term of m (keys in sorted order).
func (m *Model) transform(op symmetry.Operation, keys []lattice.Vector, latTol float64) (*hopping.Store, error) {
	out, err := hopping.New(m.size, m.dim, hopping.Dense)
	if err != nil {
		return nil, err
	}
	u := op.Repr()
	for _, r := range keys {
		mat, _ := m.hop.Get(r)
		r2, err := op.RotateVector(r, latTol)
		if err != nil {
			return nil, err
		}
		t, err := cmatrix.Sandwich(u, mat, op.HasCC())
		if err != nil {
			return nil, err
		}
		if err = out.Accumulate(r2, t, 1); err != nil {
			return nil, err
		}
	}

	return out, nil
}
