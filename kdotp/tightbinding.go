// SPDX-License-Identifier: MIT

package kdotp

import (
	"fmt"
	"math"

	"github.com/katalvlaran/tbmodels/cmatrix"
	"github.com/katalvlaran/tbmodels/lattice"
	"github.com/katalvlaran/tbmodels/tb"
)

// FromTightBinding expands the convention-0 Hamiltonian of model around k0
// up to total order `order`:
//
//	C[m] = (1/m!) · ∂^m H(k0) = (1/m!) · Σ_R hop[R] · Π_d (2πi R_d)^{m_d} · e^{2πi k0·R}
//
// with m! = Π_d m_d!. The resulting model is evaluated at the offset
// q = k − k0, so Hamilton(q) ≈ model.Hamilton(k0 + q, tb.Convention0).
// Coefficients that vanish identically are omitted; the zero-order term is
// always present.
//
// Complexity: O(|orders|·|R|·size^2).
func FromTightBinding(model *tb.Model, k0 []float64, order int) (*Model, error) {
	if model == nil {
		return nil, kdotpErrorf(opFromTB, tb.ErrNilModel)
	}
	if order < 0 {
		return nil, kdotpErrorf(opFromTB, fmt.Errorf("order %d: %w", order, ErrInvalidOrder))
	}
	dim, size := model.Dim(), model.Size()
	if len(k0) != dim {
		return nil, kdotpErrorf(opFromTB, fmt.Errorf("len(k0)=%d, dim %d: %w", len(k0), dim, ErrDimensionMismatch))
	}
	for _, v := range k0 {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, kdotpErrorf(opFromTB, ErrNaNInf)
		}
	}

	type term struct {
		r     lattice.Vector
		mat   *cmatrix.Dense
		phase complex128
	}
	keys := model.Keys()
	terms := make([]term, 0, len(keys))
	for _, r := range keys {
		mat, _ := model.Hop(r)
		s, c := math.Sincos(2 * math.Pi * r.Dot(k0))
		terms = append(terms, term{r: r, mat: mat, phase: complex(c, s)})
	}

	out := &Model{dim: dim, size: size, tol: model.HermitianTolerance(), coeff: make(map[lattice.Vector]*cmatrix.Dense)}
	for _, m := range lattice.Orders(dim, order) {
		c, err := cmatrix.NewDense(size, size)
		if err != nil {
			return nil, kdotpErrorf(opFromTB, err)
		}
		fact := 1.0
		for d := 0; d < dim; d++ {
			fact *= factorial(m.At(d))
		}
		for _, t := range terms {
			w := t.phase / complex(fact, 0)
			for d := 0; d < dim; d++ {
				w *= derivative(t.r.At(d), m.At(d))
			}
			if w == 0 {
				continue
			}
			if err = cmatrix.Accumulate(c, t.mat, w); err != nil {
				return nil, kdotpErrorf(opFromTB, err)
			}
		}
		if m.IsZero() || !c.IsZero() {
			out.coeff[m] = c
		}
	}

	return out, nil
}

// derivative returns (2πi·r)^n with the power of i applied exactly.
func derivative(r, n int) complex128 {
	x := math.Pow(2*math.Pi*float64(r), float64(n))
	switch n % 4 {
	case 1:
		return complex(0, x)
	case 2:
		return complex(-x, 0)
	case 3:
		return complex(0, -x)
	default:
		return complex(x, 0)
	}
}

func factorial(n int) float64 {
	f := 1.0
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}

	return f
}
