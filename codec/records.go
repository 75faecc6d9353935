// SPDX-License-Identifier: MIT

package codec

import (
	"fmt"

	"github.com/katalvlaran/tbmodels/cmatrix"
	"github.com/katalvlaran/tbmodels/hopping"
	"github.com/katalvlaran/tbmodels/kdotp"
	"github.com/katalvlaran/tbmodels/lattice"
	"github.com/katalvlaran/tbmodels/symmetry"
	"github.com/katalvlaran/tbmodels/tb"
)

// Entry is one non-zero matrix element.
type Entry struct {
	I  int     `json:"i" yaml:"i"`
	J  int     `json:"j" yaml:"j"`
	Re float64 `json:"re" yaml:"re"`
	Im float64 `json:"im" yaml:"im"`
}

// HopRecord is hop[R] as a list of non-zero entries.
type HopRecord struct {
	R       []int   `json:"r" yaml:"r,flow"`
	Entries []Entry `json:"entries" yaml:"entries"`
}

// ModelRecord mirrors tb.Model. Positions are stored as held by the model
// (already reduced when reduction was enabled).
type ModelRecord struct {
	Size               int         `json:"size" yaml:"size"`
	Dim                int         `json:"dim" yaml:"dim"`
	Occ                *int        `json:"occ,omitempty" yaml:"occ,omitempty"`
	UnitCell           [][]float64 `json:"uc,omitempty" yaml:"uc,omitempty,flow"`
	Positions          [][]float64 `json:"pos" yaml:"pos,flow"`
	Backing            string      `json:"backing" yaml:"backing"`
	HermitianTolerance float64     `json:"hermitian_tolerance" yaml:"hermitian_tolerance"`
	Hoppings           []HopRecord `json:"hop" yaml:"hop"`
}

// CoefficientRecord is one Taylor coefficient of a k·p model.
type CoefficientRecord struct {
	Power   []int   `json:"power" yaml:"power,flow"`
	Entries []Entry `json:"entries" yaml:"entries"`
}

// KdotpRecord mirrors kdotp.Model.
type KdotpRecord struct {
	Dim          int                 `json:"dim" yaml:"dim"`
	Size         int                 `json:"size" yaml:"size"`
	Coefficients []CoefficientRecord `json:"coefficients" yaml:"coefficients"`
}

// OperationRecord mirrors symmetry.Operation. Repr is size×size with
// [re, im] pairs.
type OperationRecord struct {
	Rotation [][]float64    `json:"rotation" yaml:"rotation,flow"`
	Repr     [][][2]float64 `json:"repr" yaml:"repr,flow"`
	HasCC    bool           `json:"has_cc" yaml:"has_cc"`
}

// GroupRecord is a list of operations plus the full-group flag passed to
// tb.WithFullGroup.
type GroupRecord struct {
	FullGroup  bool               `json:"full_group" yaml:"full_group"`
	Operations []*OperationRecord `json:"symmetries" yaml:"symmetries"`
}

func entries(m cmatrix.Matrix) []Entry {
	out := []Entry{}
	m.Each(func(i, j int, v complex128) {
		if v != 0 {
			out = append(out, Entry{I: i, J: j, Re: real(v), Im: imag(v)})
		}
	})

	return out
}

func fromEntries(rows int, es []Entry) (*cmatrix.Dense, error) {
	m, err := cmatrix.NewDense(rows, rows)
	if err != nil {
		return nil, err
	}
	for _, e := range es {
		if err = m.Set(e.I, e.J, complex(e.Re, e.Im)); err != nil {
			return nil, fmt.Errorf("entry (%d,%d): %w: %w", e.I, e.J, ErrCorrupt, err)
		}
	}

	return m, nil
}

// NewModelRecord converts m into its record.
func NewModelRecord(m *tb.Model) *ModelRecord {
	r := &ModelRecord{
		Size:               m.Size(),
		Dim:                m.Dim(),
		UnitCell:           m.UnitCell(),
		Positions:          m.Positions(),
		Backing:            m.Backing().String(),
		HermitianTolerance: m.HermitianTolerance(),
		Hoppings:           []HopRecord{},
	}
	if occ, ok := m.Occ(); ok {
		r.Occ = &occ
	}
	for _, key := range m.Keys() {
		mat, _ := m.Hop(key)
		r.Hoppings = append(r.Hoppings, HopRecord{R: key.Coords(), Entries: entries(mat)})
	}

	return r
}

// Model rebuilds the tb.Model; the Hermitian invariant is re-checked.
func (r *ModelRecord) Model() (*tb.Model, error) {
	backing, err := hopping.ParseBacking(r.Backing)
	if err != nil {
		return nil, codecErrorf(opModel, fmt.Errorf("%w: %w", ErrCorrupt, err))
	}
	hop := make(map[lattice.Vector]cmatrix.Matrix, len(r.Hoppings))
	for _, h := range r.Hoppings {
		key, err := lattice.New(h.R...)
		if err != nil {
			return nil, codecErrorf(opModel, fmt.Errorf("R=%v: %w: %w", h.R, ErrCorrupt, err))
		}
		if _, dup := hop[key]; dup {
			return nil, codecErrorf(opModel, fmt.Errorf("duplicate R=%v: %w", h.R, ErrCorrupt))
		}
		mat, err := fromEntries(r.Size, h.Entries)
		if err != nil {
			return nil, codecErrorf(opModel, err)
		}
		hop[key] = mat
	}
	opts := []tb.Option{
		tb.WithBacking(backing),
		tb.WithPositions(r.Positions),
		tb.WithoutPositionReduction(),
	}
	if r.HermitianTolerance > 0 {
		opts = append(opts, tb.WithHermitianTolerance(r.HermitianTolerance))
	}
	if r.UnitCell != nil {
		opts = append(opts, tb.WithUnitCell(r.UnitCell))
	}
	if r.Occ != nil {
		if *r.Occ < 0 {
			return nil, codecErrorf(opModel, fmt.Errorf("occ %d: %w", *r.Occ, ErrCorrupt))
		}
		opts = append(opts, tb.WithOcc(*r.Occ))
	}
	m, err := tb.FromHoppings(r.Size, r.Dim, hop, opts...)
	if err != nil {
		return nil, codecErrorf(opModel, err)
	}

	return m, nil
}

// NewKdotpRecord converts m into its record.
func NewKdotpRecord(m *kdotp.Model) *KdotpRecord {
	r := &KdotpRecord{Dim: m.Dim(), Size: m.Size(), Coefficients: []CoefficientRecord{}}
	for _, p := range m.Powers() {
		c, _ := m.Coefficient(p)
		r.Coefficients = append(r.Coefficients, CoefficientRecord{Power: p.Coords(), Entries: entries(c)})
	}

	return r
}

// Kdotp rebuilds the kdotp.Model. Products of Hermitian models need not be
// Hermitian, so coefficients are not re-checked.
func (r *KdotpRecord) Kdotp() (*kdotp.Model, error) {
	coeffs := make(map[lattice.Vector]cmatrix.Matrix, len(r.Coefficients))
	for _, c := range r.Coefficients {
		if len(c.Power) != r.Dim {
			return nil, codecErrorf(opKdotp, fmt.Errorf("power %v, dim %d: %w", c.Power, r.Dim, ErrCorrupt))
		}
		key, err := lattice.New(c.Power...)
		if err != nil {
			return nil, codecErrorf(opKdotp, fmt.Errorf("%w: %w", ErrCorrupt, err))
		}
		mat, err := fromEntries(r.Size, c.Entries)
		if err != nil {
			return nil, codecErrorf(opKdotp, err)
		}
		coeffs[key] = mat
	}
	m, err := kdotp.New(coeffs, kdotp.WithoutHermitianCheck())
	if err != nil {
		return nil, codecErrorf(opKdotp, err)
	}

	return m, nil
}

// NewOperationRecord converts op into its record.
func NewOperationRecord(op symmetry.Operation) *OperationRecord {
	u := op.Repr()
	n := u.Rows()
	repr := make([][][2]float64, n)
	for i := range repr {
		repr[i] = make([][2]float64, n)
		for j := range repr[i] {
			v, _ := u.At(i, j)
			repr[i][j] = [2]float64{real(v), imag(v)}
		}
	}

	return &OperationRecord{Rotation: op.Rotation(), Repr: repr, HasCC: op.HasCC()}
}

// Operation rebuilds the symmetry.Operation.
func (r *OperationRecord) Operation() (symmetry.Operation, error) {
	rows := make([][]complex128, len(r.Repr))
	for i, row := range r.Repr {
		rows[i] = make([]complex128, len(row))
		for j, v := range row {
			rows[i][j] = complex(v[0], v[1])
		}
	}
	u, err := cmatrix.FromRows(rows)
	if err != nil {
		return symmetry.Operation{}, codecErrorf(opSymmetry, fmt.Errorf("%w: %w", ErrCorrupt, err))
	}
	op, err := symmetry.New(r.Rotation, u, r.HasCC)
	if err != nil {
		return symmetry.Operation{}, codecErrorf(opSymmetry, err)
	}

	return op, nil
}

// NewGroupRecord converts ops into a group record.
func NewGroupRecord(ops []symmetry.Operation, fullGroup bool) *GroupRecord {
	g := &GroupRecord{FullGroup: fullGroup, Operations: make([]*OperationRecord, len(ops))}
	for i, op := range ops {
		g.Operations[i] = NewOperationRecord(op)
	}

	return g
}

// Ops rebuilds the operations of g.
func (g *GroupRecord) Ops() ([]symmetry.Operation, error) {
	if g == nil {
		return nil, codecErrorf(opSymmetry, fmt.Errorf("null group: %w", ErrCorrupt))
	}
	out := make([]symmetry.Operation, len(g.Operations))
	for i, r := range g.Operations {
		if r == nil {
			return nil, codecErrorf(opSymmetry, fmt.Errorf("operation %d is null: %w", i, ErrCorrupt))
		}
		op, err := r.Operation()
		if err != nil {
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
		out[i] = op
	}

	return out, nil
}
