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

// Add returns a model whose hoppings are a.hop + b.hop.
// Both models must agree in size, dim, occupation, unit cell and positions
// (within DefaultCompatTolerance), otherwise the error wraps ErrIncompatible.
func Add(a, b *Model) (*Model, error) { return combine(a, b, 1) }

// Sub returns a model whose hoppings are a.hop − b.hop. See Add.
func Sub(a, b *Model) (*Model, error) { return combine(a, b, -1) }

func combine(a, b *Model, sign complex128) (*Model, error) {
	if a == nil || b == nil {
		return nil, tbErrorf(opAdd, ErrNilModel)
	}
	if err := compatible(a, b); err != nil {
		return nil, tbErrorf(opAdd, err)
	}
	store := a.hop.Clone()
	if err := store.Merge(b.hop, sign); err != nil {
		return nil, tbErrorf(opAdd, err)
	}

	return a.withStore(store), nil
}

func compatible(a, b *Model) error {
	switch {
	case a.size != b.size || a.dim != b.dim:
		return fmt.Errorf("size/dim %d/%d vs %d/%d: %w: %w", a.size, a.dim, b.size, b.dim, ErrIncompatible, ErrDimensionMismatch)
	case a.hasOcc != b.hasOcc || a.occ != b.occ:
		return fmt.Errorf("occupation differs: %w", ErrIncompatible)
	case (a.uc == nil) != (b.uc == nil) || !floatsClose(a.uc, b.uc, DefaultCompatTolerance):
		return fmt.Errorf("unit cell differs: %w", ErrIncompatible)
	case !floatsClose(a.pos, b.pos, DefaultCompatTolerance):
		return fmt.Errorf("positions differ: %w", ErrIncompatible)
	}

	return nil
}

// Scale returns a model with every hopping multiplied by the real factor x.
func (m *Model) Scale(x float64) (*Model, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil, tbErrorf(opScale, ErrNaNInf)
	}

	return m.withStore(m.hop.Scale(complex(x, 0))), nil
}

// RemoveSmallHop returns a model in which every hopping entry with
// |t| < cutoff is set to zero; terms left empty are dropped.
func (m *Model) RemoveSmallHop(cutoff float64) *Model {
	return m.withStore(m.hop.MapEntries(func(_ lattice.Vector, _, _ int, t complex128) complex128 {
		if cmplx.Abs(t) < cutoff {
			return 0
		}

		return t
	}))
}

// RemoveLongRangeHop returns a model without the hoppings whose Cartesian
// length |uc^T·(R + pos[j] − pos[i])| exceeds cutoff; terms left empty are
// dropped. Requires a unit cell (ErrNoUnitCell otherwise).
func (m *Model) RemoveLongRangeHop(cutoff float64) (*Model, error) {
	if m.uc == nil {
		return nil, tbErrorf(opLongRange, ErrNoUnitCell)
	}
	frac := make([]float64, m.dim)

	return m.withStore(m.hop.MapEntries(func(r lattice.Vector, i, j int, t complex128) complex128 {
		for d := 0; d < m.dim; d++ {
			frac[d] = float64(r.At(d)) + m.pos[j*m.dim+d] - m.pos[i*m.dim+d]
		}
		if m.cartesianNorm(frac) > cutoff {
			return 0
		}

		return t
	})), nil
}

// cartesianNorm returns |uc^T·f| for fractional f.
func (m *Model) cartesianNorm(f []float64) float64 {
	var s float64
	for c := 0; c < m.dim; c++ {
		var x float64
		for d := 0; d < m.dim; d++ {
			x += f[d] * m.uc[d*m.dim+c]
		}
		s += x * x
	}

	return math.Sqrt(s)
}

// SetBacking returns a copy of m stored with backing b.
func (m *Model) SetBacking(b hopping.Backing) (*Model, error) {
	store, err := m.hop.WithBacking(b)
	if err != nil {
		return nil, tbErrorf(opSetBacking, err)
	}

	return m.withStore(store), nil
}

// Supercell returns the model on a cell enlarged sizes[d] times along each
// lattice direction.
//
// Implementation:
//   - Orbital (c, i), with c the cell offset inside the supercell, gets index
//     cellIndex(c)·size + i and position (pos[i] + c)/sizes.
//   - A hopping (R, i, j) from cell c reaches cell c + R = sizes·R' + c', which
//     becomes the supercell hopping (R', (c,i), (c',j)).
//   - Unit-cell rows are scaled by sizes; occupation by Π sizes.
//
// The eigenvalues at supercell point K are those of m at (K + n)/sizes for
// every n in the supercell.
//
// Complexity: O(Π sizes · nnz).
func (m *Model) Supercell(sizes []int) (*Model, error) {
	if len(sizes) != m.dim {
		return nil, tbErrorf(opSupercell, fmt.Errorf("%d sizes for dim %d: %w", len(sizes), m.dim, ErrDimensionMismatch))
	}
	for _, s := range sizes {
		if s < 1 {
			return nil, tbErrorf(opSupercell, fmt.Errorf("size %d: %w", s, ErrInvalidSize))
		}
	}
	cells := lattice.Product(sizes)
	cellIndex := make(map[lattice.Vector]int, len(cells))
	for ci, c := range cells {
		cellIndex[c] = ci
	}
	newSize := m.size * len(cells)
	store, err := hopping.New(newSize, m.dim, m.hop.Backing())
	if err != nil {
		return nil, tbErrorf(opSupercell, err)
	}
	outer := make([]int, m.dim)
	inner := make([]int, m.dim)
	var addErr error
	m.hop.Each(func(r lattice.Vector, mat cmatrix.Matrix) {
		mat.Each(func(i, j int, t complex128) {
			if t == 0 || addErr != nil {
				return
			}
			for ci, c := range cells {
				for d := 0; d < m.dim; d++ {
					target := c.At(d) + r.At(d)
					outer[d] = floorDiv(target, sizes[d])
					inner[d] = target - outer[d]*sizes[d]
				}
				rOut := lattice.MustNew(outer...)
				cj := cellIndex[lattice.MustNew(inner...)]
				if addErr = store.AddAt(rOut, ci*m.size+i, cj*m.size+j, t); addErr != nil {
					return
				}
			}
		})
	})
	if addErr != nil {
		return nil, tbErrorf(opSupercell, addErr)
	}

	pos := make([][]float64, newSize)
	for ci, c := range cells {
		for i := 0; i < m.size; i++ {
			p := make([]float64, m.dim)
			for d := 0; d < m.dim; d++ {
				p[d] = (m.pos[i*m.dim+d] + float64(c.At(d))) / float64(sizes[d])
			}
			pos[ci*m.size+i] = p
		}
	}
	o := Options{pos: pos, backing: m.hop.Backing(), hermTol: m.hermTol, hasOcc: m.hasOcc, occ: m.occ * len(cells)}
	if m.uc != nil {
		uc := m.UnitCell()
		for d := range uc {
			for c := range uc[d] {
				uc[d][c] *= float64(sizes[d])
			}
		}
		o.uc = uc
	}
	out, err := newModel(store, o)
	if err != nil {
		return nil, tbErrorf(opSupercell, err)
	}

	return out, nil
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}

	return q
}

// JoinModels returns the direct sum of the orbital spaces of models: the
// hopping matrices are block diagonal and positions are concatenated.
// All models must share dim and unit cell. The occupation is the sum of the
// occupations when every model has one, and unset otherwise. The backing of
// the first model is used.
func JoinModels(models ...*Model) (*Model, error) {
	if len(models) == 0 {
		return nil, tbErrorf(opJoin, ErrEmptyModel)
	}
	first := models[0]
	total, occ, hasOcc := 0, 0, true
	for i, m := range models {
		if m == nil {
			return nil, tbErrorf(opJoin, fmt.Errorf("model %d: %w", i, ErrNilModel))
		}
		if m.dim != first.dim {
			return nil, tbErrorf(opJoin, fmt.Errorf("model %d has dim %d, want %d: %w", i, m.dim, first.dim, ErrDimensionMismatch))
		}
		if (m.uc == nil) != (first.uc == nil) || !floatsClose(m.uc, first.uc, DefaultCompatTolerance) {
			return nil, tbErrorf(opJoin, fmt.Errorf("model %d: unit cell differs: %w", i, ErrIncompatible))
		}
		total += m.size
		occ += m.occ
		hasOcc = hasOcc && m.hasOcc
	}
	store, err := hopping.New(total, first.dim, first.hop.Backing())
	if err != nil {
		return nil, tbErrorf(opJoin, err)
	}
	pos := make([][]float64, 0, total)
	offset := 0
	for _, m := range models {
		var addErr error
		m.hop.Each(func(r lattice.Vector, mat cmatrix.Matrix) {
			mat.Each(func(i, j int, t complex128) {
				if t != 0 && addErr == nil {
					addErr = store.AddAt(r, offset+i, offset+j, t)
				}
			})
		})
		if addErr != nil {
			return nil, tbErrorf(opJoin, addErr)
		}
		pos = append(pos, m.Positions()...)
		offset += m.size
	}
	o := Options{pos: pos, uc: first.UnitCell(), backing: first.hop.Backing(), hermTol: first.hermTol}
	if hasOcc {
		o.occ, o.hasOcc = occ, true
	}
	out, err := newModel(store, o)
	if err != nil {
		return nil, tbErrorf(opJoin, err)
	}

	return out, nil
}
