// SPDX-License-Identifier: MIT

package tb

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/katalvlaran/tbmodels/cmatrix"
	"github.com/katalvlaran/tbmodels/lattice"
)

// Convention selects how orbital positions enter the Fourier transform.
type Convention uint8

const (
	// Convention0 (Hamiltonian gauge): H(k) = Σ_R hop[R]·e^{2πi k·R}.
	Convention0 Convention = iota

	// Convention1 (orbital gauge):
	// H(k)[i,j] = Σ_R hop[R][i,j]·e^{2πi k·(R + pos[j] − pos[i])}.
	Convention1
)

// String returns "0" or "1".
func (c Convention) String() string { return fmt.Sprintf("%d", uint8(c)) }

// ParseConvention converts 0/1 to a Convention.
func ParseConvention(c int) (Convention, error) {
	switch c {
	case 0:
		return Convention0, nil
	case 1:
		return Convention1, nil
	default:
		return 0, fmt.Errorf("tb: convention %d: %w", c, ErrInvalidConvention)
	}
}

// Hamilton assembles the size×size Hamiltonian at the reduced k-point k.
//
// Implementation:
//   - Stage 1: validate len(k) == dim and finite components.
//   - Stage 2: H0 = Σ_R e^{2πi k·R}·hop[R], summed in sorted key order;
//     only materialized entries of a sparse term are touched.
//   - Stage 3 (Convention1): H[i,j] = e^{−2πi k·pos[i]}·H0[i,j]·e^{2πi k·pos[j]},
//     i.e. H1 = D^H·H0·D with D = diag(e^{2πi k·pos}).
//
// Complexity: O(|R|·nnz) + O(size^2) for the gauge phases.
func (m *Model) Hamilton(k []float64, conv Convention) (*cmatrix.Dense, error) {
	if err := m.checkK(k); err != nil {
		return nil, tbErrorf(opHamilton, err)
	}
	if conv != Convention0 && conv != Convention1 {
		return nil, tbErrorf(opHamilton, ErrInvalidConvention)
	}
	h, err := cmatrix.NewDense(m.size, m.size)
	if err != nil {
		return nil, tbErrorf(opHamilton, err)
	}
	var accErr error
	m.hop.Each(func(r lattice.Vector, mat cmatrix.Matrix) {
		if accErr != nil {
			return
		}
		accErr = cmatrix.Accumulate(h, mat, phase(r.Dot(k)))
	})
	if accErr != nil {
		return nil, tbErrorf(opHamilton, accErr)
	}
	if conv == Convention1 {
		d := m.gaugePhases(k)
		raw := h.RawData()
		for i := 0; i < m.size; i++ {
			for j := 0; j < m.size; j++ {
				raw[i*m.size+j] *= cmplx.Conj(d[i]) * d[j]
			}
		}
	}

	return h, nil
}

// Eigenval returns the eigenvalues of Hamilton(k, conv) in ascending order.
// A Hamiltonian that is not Hermitian within the model tolerance yields an
// error wrapping cmatrix.ErrNotHermitian.
func (m *Model) Eigenval(k []float64, conv Convention) ([]float64, error) {
	h, err := m.Hamilton(k, conv)
	if err != nil {
		return nil, tbErrorf(opEigenval, err)
	}
	ev, err := cmatrix.EigvalsHermitian(h, m.hermTol)
	if err != nil {
		return nil, tbErrorf(opEigenval, err)
	}

	return ev, nil
}

// GaugeMatrix returns D(k) = diag(e^{2πi k·pos[j]}), which relates the two
// conventions by H1(k) = D(k)^H · H0(k) · D(k).
func (m *Model) GaugeMatrix(k []float64) (*cmatrix.Dense, error) {
	if err := m.checkK(k); err != nil {
		return nil, tbErrorf(opHamilton, err)
	}
	d, err := cmatrix.NewDense(m.size, m.size)
	if err != nil {
		return nil, tbErrorf(opHamilton, err)
	}
	for i, p := range m.gaugePhases(k) {
		_ = d.Set(i, i, p)
	}

	return d, nil
}

func (m *Model) gaugePhases(k []float64) []complex128 {
	out := make([]complex128, m.size)
	for i := 0; i < m.size; i++ {
		var x float64
		for d := 0; d < m.dim; d++ {
			x += k[d] * m.pos[i*m.dim+d]
		}
		out[i] = phase(x)
	}

	return out
}

func (m *Model) checkK(k []float64) error {
	if len(k) != m.dim {
		return fmt.Errorf("len(k)=%d, dim %d: %w", len(k), m.dim, ErrDimensionMismatch)
	}
	for _, v := range k {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrNaNInf
		}
	}

	return nil
}

// phase returns e^{2πi x}.
func phase(x float64) complex128 {
	s, c := math.Sincos(2 * math.Pi * x)

	return complex(c, s)
}
