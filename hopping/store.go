// SPDX-License-Identifier: MIT

// Package hopping - the Hopping Store: lattice vector R → size×size matrix.
//
// Purpose:
//   - Hold the hopping amplitudes of a tight-binding model, keyed by the
//     translation R between the home cell and the target cell.
//   - Keep every term in one of two backings (Dense or Sparse) chosen once
//     per store; the backing never changes observable values.
//
// Representation:
//   - The store is the FULL Hermitian representation: both R and −R are
//     present and hop[−R] == hop[R]^H, so H(k) = Σ_R hop[R]·e^{2πi k·R}
//     without an extra "+ h.c." step. A missing key reads as a zero matrix.
//
// Determinism:
//   - Keys() and Each() walk terms in lattice.Less order; every reduction that
//     sums floating-point values goes through that order.
//
// AI-Hints:
//   - Matrices returned by Get/Each are owned by the store; treat them as
//     read-only and Clone before mutating.
package hopping

import (
	"fmt"
	"math/cmplx"

	"github.com/katalvlaran/tbmodels/cmatrix"
	"github.com/katalvlaran/tbmodels/lattice"
)

// Backing selects the storage of the hopping matrices.
type Backing uint8

const (
	// Dense stores every entry of every matrix.
	Dense Backing = iota

	// Sparse stores only non-zero entries (roaring occupancy bitmap).
	Sparse
)

// String returns "dense" or "sparse".
func (b Backing) String() string {
	switch b {
	case Dense:
		return "dense"
	case Sparse:
		return "sparse"
	default:
		return fmt.Sprintf("backing(%d)", uint8(b))
	}
}

// ParseBacking converts "dense"/"sparse" to a Backing.
func ParseBacking(s string) (Backing, error) {
	switch s {
	case "dense", "":
		return Dense, nil
	case "sparse":
		return Sparse, nil
	default:
		return Dense, fmt.Errorf("%q: %w", s, ErrUnknownBacking)
	}
}

// Store maps lattice vectors to size×size complex matrices.
type Store struct {
	size    int
	dim     int
	backing Backing
	terms   map[lattice.Vector]cmatrix.Matrix
}

// New returns an empty store for size orbitals in dim dimensions.
func New(size, dim int, backing Backing) (*Store, error) {
	if size <= 0 || dim <= 0 || dim > lattice.MaxDim {
		return nil, hoppingErrorf(opNew, fmt.Errorf("size=%d dim=%d: %w", size, dim, ErrInvalidSize))
	}
	if backing != Dense && backing != Sparse {
		return nil, hoppingErrorf(opNew, ErrUnknownBacking)
	}

	return &Store{size: size, dim: dim, backing: backing, terms: make(map[lattice.Vector]cmatrix.Matrix)}, nil
}

// Size returns the number of orbitals.
func (s *Store) Size() int { return s.size }

// Dim returns the spatial dimension of the keys.
func (s *Store) Dim() int { return s.dim }

// Backing returns the storage mode.
func (s *Store) Backing() Backing { return s.backing }

// Len returns the number of stored terms.
func (s *Store) Len() int { return len(s.terms) }

// Keys returns the stored lattice vectors in ascending order.
func (s *Store) Keys() []lattice.Vector { return lattice.SortedKeys(s.terms) }

// Get returns the matrix stored at R. The matrix is owned by the store.
func (s *Store) Get(r lattice.Vector) (cmatrix.Matrix, bool) {
	m, ok := s.terms[r]

	return m, ok
}

// Each visits every term in ascending key order.
func (s *Store) Each(fn func(r lattice.Vector, m cmatrix.Matrix)) {
	for _, r := range s.Keys() {
		fn(r, s.terms[r])
	}
}

// Set stores a copy of m at R, converted to the store's backing.
func (s *Store) Set(r lattice.Vector, m cmatrix.Matrix) error {
	if err := s.checkKey(r); err != nil {
		return hoppingErrorf(opSet, err)
	}
	if err := s.checkMatrix(m); err != nil {
		return hoppingErrorf(opSet, err)
	}
	s.terms[r] = s.convert(m)

	return nil
}

// Delete removes the term at R.
func (s *Store) Delete(r lattice.Vector) { delete(s.terms, r) }

// AddAt adds v to hop[R][i,j], creating the term if needed.
func (s *Store) AddAt(r lattice.Vector, i, j int, v complex128) error {
	if err := s.checkKey(r); err != nil {
		return hoppingErrorf(opAddAt, err)
	}
	if i < 0 || i >= s.size || j < 0 || j >= s.size {
		return hoppingErrorf(opAddAt, fmt.Errorf("(%d,%d): %w", i, j, cmatrix.ErrOutOfRange))
	}
	m := s.term(r)
	cur, err := m.At(i, j)
	if err != nil {
		return hoppingErrorf(opAddAt, err)
	}
	if err = m.Set(i, j, cur+v); err != nil {
		return hoppingErrorf(opAddAt, err)
	}

	return nil
}

// Accumulate performs hop[R] += alpha*m, creating the term if needed.
func (s *Store) Accumulate(r lattice.Vector, m cmatrix.Matrix, alpha complex128) error {
	if err := s.checkKey(r); err != nil {
		return hoppingErrorf(opAccum, err)
	}
	if err := s.checkMatrix(m); err != nil {
		return hoppingErrorf(opAccum, err)
	}
	if err := cmatrix.Accumulate(s.term(r), m, alpha); err != nil {
		return hoppingErrorf(opAccum, err)
	}

	return nil
}

// Merge performs s += alpha*other term by term.
func (s *Store) Merge(other *Store, alpha complex128) error {
	if other.size != s.size || other.dim != s.dim {
		return hoppingErrorf(opMerge, fmt.Errorf("%d/%d vs %d/%d: %w", s.size, s.dim, other.size, other.dim, ErrDimensionMismatch))
	}
	for _, r := range other.Keys() {
		if err := s.Accumulate(r, other.terms[r], alpha); err != nil {
			return hoppingErrorf(opMerge, err)
		}
	}

	return nil
}

// Clone returns a deep copy with the same backing.
func (s *Store) Clone() *Store {
	out := &Store{size: s.size, dim: s.dim, backing: s.backing, terms: make(map[lattice.Vector]cmatrix.Matrix, len(s.terms))}
	for r, m := range s.terms {
		out.terms[r] = m.Clone()
	}

	return out
}

// WithBacking returns a deep copy stored in the given backing.
func (s *Store) WithBacking(b Backing) (*Store, error) {
	out, err := New(s.size, s.dim, b)
	if err != nil {
		return nil, err
	}
	for r, m := range s.terms {
		out.terms[r] = out.convert(m)
	}

	return out, nil
}

// Scale returns a copy with every matrix multiplied by alpha.
func (s *Store) Scale(alpha complex128) *Store {
	out := s.emptyLike()
	for r, m := range s.terms {
		d, _ := cmatrix.Scale(m, alpha) // m is never nil
		out.terms[r] = out.convert(d)
	}

	return out
}

// MapEntries returns a copy where every stored entry t at (R,i,j) is replaced
// by fn(R,i,j,t). Terms left without non-zero entries are dropped.
func (s *Store) MapEntries(fn func(r lattice.Vector, i, j int, t complex128) complex128) *Store {
	out := s.emptyLike()
	for _, r := range s.Keys() {
		m := s.newMatrix()
		var nz bool
		s.terms[r].Each(func(i, j int, t complex128) {
			if v := fn(r, i, j, t); v != 0 {
				_ = m.Set(i, j, v) // indices come from a same-shape matrix
				nz = true
			}
		})
		if nz {
			out.terms[r] = m
		}
	}

	return out
}

// Prune returns a copy without the terms whose Frobenius norm is <= tol.
func (s *Store) Prune(tol float64) *Store {
	out := s.emptyLike()
	for r, m := range s.terms {
		if cmatrix.FrobeniusNorm(m) > tol {
			out.terms[r] = m.Clone()
		}
	}

	return out
}

// Hermitize returns a copy in which every pair (R, −R) is replaced by
// A = (hop[R] + hop[−R]^H)/2 and A^H. hop[0] becomes its Hermitian part.
// Missing partners read as zero.
func (s *Store) Hermitize() (*Store, error) {
	out := s.emptyLike()
	for _, r := range s.Keys() {
		if r.IsZero() {
			h, err := cmatrix.HermitianPart(s.terms[r])
			if err != nil {
				return nil, hoppingErrorf(opHermitize, err)
			}
			out.terms[r] = out.convert(h)

			continue
		}
		partner, hasPartner := s.terms[r.Neg()]
		if hasPartner && !r.Positive() {
			continue // visited from the positive side
		}
		a := s.terms[r].ToDense()
		if hasPartner {
			ph, err := cmatrix.ConjTranspose(partner)
			if err != nil {
				return nil, hoppingErrorf(opHermitize, err)
			}
			if err = cmatrix.Accumulate(a, ph, 1); err != nil {
				return nil, hoppingErrorf(opHermitize, err)
			}
		}
		a, _ = cmatrix.Scale(a, 0.5)
		ah, _ := cmatrix.ConjTranspose(a)
		out.terms[r] = out.convert(a)
		out.terms[r.Neg()] = out.convert(ah)
	}

	return out, nil
}

// ValidateHermitian checks hop[−R] == hop[R]^H within tol for every key.
func (s *Store) ValidateHermitian(tol float64) error {
	for _, r := range s.Keys() {
		m := s.terms[r]
		partner, ok := s.terms[r.Neg()]
		var worst float64
		m.Each(func(i, j int, v complex128) {
			var p complex128
			if ok {
				p, _ = partner.At(j, i)
			}
			if d := cmplx.Abs(v - cmplx.Conj(p)); d > worst {
				worst = d
			}
		})
		if worst > tol {
			return hoppingErrorf(opValidate, fmt.Errorf("R=%v deviates by %.3g: %w", r, worst, ErrNotHermitian))
		}
	}

	return nil
}

// Reindex returns a copy with every matrix reindexed on both axes:
// M'[a,b] = M[idx[a], idx[b]]. Indices may repeat.
func (s *Store) Reindex(idx []int) (*Store, error) {
	if len(idx) == 0 {
		return nil, hoppingErrorf(opReindex, ErrInvalidSize)
	}
	out, err := New(len(idx), s.dim, s.backing)
	if err != nil {
		return nil, hoppingErrorf(opReindex, err)
	}
	for r, m := range s.terms {
		d, err := m.ToDense().Induced(idx, idx)
		if err != nil {
			return nil, hoppingErrorf(opReindex, err)
		}
		out.terms[r] = out.convert(d)
	}

	return out, nil
}

// AllClose reports whether both stores hold the same keys (missing keys read
// as zero) with entries equal within atol.
func (s *Store) AllClose(other *Store, atol float64) bool {
	if s.size != other.size || s.dim != other.dim {
		return false
	}
	keys := make(map[lattice.Vector]struct{}, len(s.terms)+len(other.terms))
	for r := range s.terms {
		keys[r] = struct{}{}
	}
	for r := range other.terms {
		keys[r] = struct{}{}
	}
	for r := range keys {
		a, aok := s.terms[r]
		b, bok := other.terms[r]
		switch {
		case aok && bok:
			ok, err := cmatrix.AllClose(a, b, 0, atol)
			if err != nil || !ok {
				return false
			}
		case aok:
			if cmatrix.MaxAbs(a) > atol {
				return false
			}
		default:
			if cmatrix.MaxAbs(b) > atol {
				return false
			}
		}
	}

	return true
}

func (s *Store) emptyLike() *Store {
	return &Store{size: s.size, dim: s.dim, backing: s.backing, terms: make(map[lattice.Vector]cmatrix.Matrix)}
}

// term returns the mutable matrix at R, creating a zero one if absent.
func (s *Store) term(r lattice.Vector) cmatrix.Matrix {
	if m, ok := s.terms[r]; ok {
		return m
	}
	m := s.newMatrix()
	s.terms[r] = m

	return m
}

func (s *Store) newMatrix() cmatrix.Matrix {
	if s.backing == Sparse {
		m, _ := cmatrix.NewSparse(s.size, s.size) // size validated in New
		return m
	}
	m, _ := cmatrix.NewDense(s.size, s.size)

	return m
}

// convert copies m into the store's backing.
func (s *Store) convert(m cmatrix.Matrix) cmatrix.Matrix {
	if s.backing == Sparse {
		return cmatrix.SparseFrom(m)
	}

	return m.ToDense()
}

func (s *Store) checkKey(r lattice.Vector) error {
	if r.Dim() != s.dim {
		return fmt.Errorf("key %v has dim %d, want %d: %w", r, r.Dim(), s.dim, ErrDimensionMismatch)
	}

	return nil
}

func (s *Store) checkMatrix(m cmatrix.Matrix) error {
	if m == nil {
		return cmatrix.ErrNilMatrix
	}
	if m.Rows() != s.size || m.Cols() != s.size {
		return fmt.Errorf("matrix %dx%d, want %dx%d: %w", m.Rows(), m.Cols(), s.size, s.size, ErrDimensionMismatch)
	}

	return nil
}
