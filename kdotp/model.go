// SPDX-License-Identifier: MIT

// Package kdotp - k·p models as matrix-valued formal power series.
//
// Purpose:
//   - A Model maps power multi-indices m (one non-negative exponent per
//     reciprocal direction) to Taylor coefficient matrices:
//     H(k) = Σ_m Π_d k_d^{m_d} · C[m].
//   - Add, Scale and Mul (Cauchy product) are pure functions returning new
//     models; FromTightBinding expands a tb.Model around a point k0.
//
// Representation:
//   - Multi-indices reuse lattice.Vector as a comparable key; coefficients
//     are dense since k·p models are small.
//
// AI-Hints:
//   - New rejects non-Hermitian coefficients. The products built by Mul are
//     not Hermitian in general and are not re-checked; Eigenval validates H(k).
package kdotp

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/katalvlaran/tbmodels/cmatrix"
	"github.com/katalvlaran/tbmodels/lattice"
)

// DefaultTolerance bounds max |C_ij − conj(C_ji)| for coefficients passed to
// New and for H(k) in Eigenval.
const DefaultTolerance = 1e-8

const panicTolInvalid = "kdotp: tolerance must be finite, non-negative"

// Option configures New.
type Option func(*Options)

// Options is the resolved configuration of New.
type Options struct {
	tol       float64
	checkHerm bool
}

// WithTolerance overrides DefaultTolerance.
func WithTolerance(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol < 0 {
		panic(panicTolInvalid)
	}

	return func(o *Options) { o.tol = tol }
}

// WithoutHermitianCheck accepts non-Hermitian coefficients.
func WithoutHermitianCheck() Option {
	return func(o *Options) { o.checkHerm = false }
}

func gatherOptions(user ...Option) Options {
	o := Options{tol: DefaultTolerance, checkHerm: true}
	for _, set := range user {
		if set != nil {
			set(&o)
		}
	}

	return o
}

// Model is an immutable k·p model.
type Model struct {
	dim   int
	size  int
	tol   float64
	coeff map[lattice.Vector]*cmatrix.Dense
}

// New builds a Model from Taylor coefficients keyed by power multi-index.
//
// Errors: ErrEmpty for no coefficients; ErrDimensionMismatch when powers or
// matrices disagree in shape; ErrInvalidPower for a negative exponent;
// ErrNotHermitian (wrapping cmatrix.ErrNotHermitian) unless
// WithoutHermitianCheck is given.
func New(coeffs map[lattice.Vector]cmatrix.Matrix, opts ...Option) (*Model, error) {
	o := gatherOptions(opts...)
	if len(coeffs) == 0 {
		return nil, kdotpErrorf(opNew, ErrEmpty)
	}
	keys := lattice.SortedKeys(coeffs)
	m := &Model{dim: keys[0].Dim(), size: -1, tol: o.tol, coeff: make(map[lattice.Vector]*cmatrix.Dense, len(coeffs))}
	for _, p := range keys {
		c := coeffs[p]
		if p.Dim() != m.dim {
			return nil, kdotpErrorf(opNew, fmt.Errorf("power %v, want dim %d: %w", p, m.dim, ErrDimensionMismatch))
		}
		if !p.NonNegative() {
			return nil, kdotpErrorf(opNew, fmt.Errorf("power %v: %w", p, ErrInvalidPower))
		}
		if c == nil {
			return nil, kdotpErrorf(opNew, fmt.Errorf("power %v: %w", p, cmatrix.ErrNilMatrix))
		}
		if err := cmatrix.ValidateSquare(c); err != nil {
			return nil, kdotpErrorf(opNew, fmt.Errorf("power %v: %w: %w", p, ErrDimensionMismatch, err))
		}
		if m.size < 0 {
			m.size = c.Rows()
		}
		if c.Rows() != m.size {
			return nil, kdotpErrorf(opNew, fmt.Errorf("power %v: %d×%d, want %d×%d: %w", p, c.Rows(), c.Cols(), m.size, m.size, ErrDimensionMismatch))
		}
		if o.checkHerm {
			if err := cmatrix.ValidateHermitian(c, o.tol); err != nil {
				return nil, kdotpErrorf(opNew, fmt.Errorf("power %v: %w: %w", p, ErrNotHermitian, err))
			}
		}
		m.coeff[p] = c.ToDense()
	}

	return m, nil
}

// Dim returns the number of reciprocal directions.
func (m *Model) Dim() int { return m.dim }

// Size returns the matrix dimension.
func (m *Model) Size() int { return m.size }

// Len returns the number of stored coefficients.
func (m *Model) Len() int { return len(m.coeff) }

// Powers returns the stored multi-indices in lattice.Less order.
func (m *Model) Powers() []lattice.Vector { return lattice.SortedKeys(m.coeff) }

// Coefficient returns a copy of C[p].
func (m *Model) Coefficient(p lattice.Vector) (*cmatrix.Dense, bool) {
	c, ok := m.coeff[p]
	if !ok {
		return nil, false
	}

	return c.ToDense(), true
}

// Hamilton evaluates H(k) = Σ_m Π_d k_d^{m_d} · C[m].
func (m *Model) Hamilton(k []float64) (*cmatrix.Dense, error) {
	if len(k) != m.dim {
		return nil, kdotpErrorf(opHamilton, fmt.Errorf("len(k)=%d, dim %d: %w", len(k), m.dim, ErrDimensionMismatch))
	}
	for _, v := range k {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, kdotpErrorf(opHamilton, ErrNaNInf)
		}
	}
	h, err := cmatrix.NewDense(m.size, m.size)
	if err != nil {
		return nil, kdotpErrorf(opHamilton, err)
	}
	for _, p := range m.Powers() {
		w := 1.0
		for d := 0; d < m.dim; d++ {
			w *= math.Pow(k[d], float64(p.At(d)))
		}
		if err = cmatrix.Accumulate(h, m.coeff[p], complex(w, 0)); err != nil {
			return nil, kdotpErrorf(opHamilton, err)
		}
	}

	return h, nil
}

// Eigenval returns the ascending eigenvalues of H(k).
func (m *Model) Eigenval(k []float64) ([]float64, error) {
	h, err := m.Hamilton(k)
	if err != nil {
		return nil, kdotpErrorf(opEigenval, err)
	}
	ev, err := cmatrix.EigvalsHermitian(h, m.tol)
	if err != nil {
		return nil, kdotpErrorf(opEigenval, err)
	}

	return ev, nil
}

// Add returns a + b over the union of their powers.
func Add(a, b *Model) (*Model, error) {
	if err := sameShape(a, b); err != nil {
		return nil, kdotpErrorf(opAdd, err)
	}
	out := a.empty()
	for _, src := range []*Model{a, b} {
		for p, c := range src.coeff {
			if err := out.accumulate(p, c, 1); err != nil {
				return nil, kdotpErrorf(opAdd, err)
			}
		}
	}

	return out, nil
}

// Scale returns x·m.
func (m *Model) Scale(x complex128) (*Model, error) {
	if cmplx.IsNaN(x) || cmplx.IsInf(x) {
		return nil, kdotpErrorf(opScale, ErrNaNInf)
	}
	out := m.empty()
	for p, c := range m.coeff {
		s, err := cmatrix.Scale(c, x)
		if err != nil {
			return nil, kdotpErrorf(opScale, err)
		}
		out.coeff[p] = s
	}

	return out, nil
}

// Mul returns the Cauchy product a·b: C[m] = Σ_{p+q=m} A[p]·B[q].
//
// Complexity: O(|A|·|B|·size^3).
func Mul(a, b *Model) (*Model, error) {
	if err := sameShape(a, b); err != nil {
		return nil, kdotpErrorf(opMul, err)
	}
	out := a.empty()
	for _, p := range a.Powers() {
		for _, q := range b.Powers() {
			prod, err := cmatrix.Mul(a.coeff[p], b.coeff[q])
			if err != nil {
				return nil, kdotpErrorf(opMul, err)
			}
			pq, err := p.Add(q)
			if err != nil {
				return nil, kdotpErrorf(opMul, err)
			}
			if err = out.accumulate(pq, prod, 1); err != nil {
				return nil, kdotpErrorf(opMul, err)
			}
		}
	}

	return out, nil
}

// AllClose reports whether both models have the same shape and coefficients
// equal within atol (a power missing on one side reads as zero).
func (m *Model) AllClose(other *Model, atol float64) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.dim != other.dim || m.size != other.size {
		return false
	}
	zero, _ := cmatrix.NewDense(m.size, m.size)
	check := func(p lattice.Vector) bool {
		a, ok := m.coeff[p]
		if !ok {
			a = zero
		}
		b, ok := other.coeff[p]
		if !ok {
			b = zero
		}
		eq, err := cmatrix.AllClose(a, b, 0, atol)

		return err == nil && eq
	}
	for p := range m.coeff {
		if !check(p) {
			return false
		}
	}
	for p := range other.coeff {
		if !check(p) {
			return false
		}
	}

	return true
}

// String summarizes the model.
func (m *Model) String() string {
	return fmt.Sprintf("kdotp.Model{dim=%d size=%d terms=%d}", m.dim, m.size, len(m.coeff))
}

func sameShape(a, b *Model) error {
	if a == nil || b == nil {
		return ErrEmpty
	}
	if a.dim != b.dim || a.size != b.size {
		return fmt.Errorf("dim/size %d/%d vs %d/%d: %w", a.dim, a.size, b.dim, b.size, ErrDimensionMismatch)
	}

	return nil
}

func (m *Model) empty() *Model {
	return &Model{dim: m.dim, size: m.size, tol: m.tol, coeff: make(map[lattice.Vector]*cmatrix.Dense)}
}

func (m *Model) accumulate(p lattice.Vector, c cmatrix.Matrix, alpha complex128) error {
	dst, ok := m.coeff[p]
	if !ok {
		var err error
		if dst, err = cmatrix.NewDense(m.size, m.size); err != nil {
			return err
		}
		m.coeff[p] = dst
	}

	return cmatrix.Accumulate(dst, c, alpha)
}
