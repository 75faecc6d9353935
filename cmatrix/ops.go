// SPDX-License-Identifier: MIT
// Package cmatrix - universal operations on any Matrix implementation.
// All functions validate shapes up front and return fresh results; operands
// are never mutated (except the explicit destination of Accumulate).

package cmatrix

import (
	"fmt"
	"math"
	"math/cmplx"
)

// ValidateSameShape returns ErrNilMatrix / ErrDimensionMismatch unless a and b
// are non-nil with identical shapes.
func ValidateSameShape(a, b Matrix) error {
	if a == nil || b == nil {
		return ErrNilMatrix
	}
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return fmt.Errorf("%dx%d vs %dx%d: %w", a.Rows(), a.Cols(), b.Rows(), b.Cols(), ErrDimensionMismatch)
	}

	return nil
}

// ValidateSquare returns ErrNilMatrix / ErrNonSquare unless m is square.
func ValidateSquare(m Matrix) error {
	if m == nil {
		return ErrNilMatrix
	}
	if m.Rows() != m.Cols() {
		return fmt.Errorf("%dx%d: %w", m.Rows(), m.Cols(), ErrNonSquare)
	}

	return nil
}

// Add returns a + b as a new Dense.
// Complexity: O(r*c).
func Add(a, b Matrix) (*Dense, error) { return addSub(a, b, 1, opAdd) }

// Sub returns a − b as a new Dense.
func Sub(a, b Matrix) (*Dense, error) { return addSub(a, b, -1, opSub) }

func addSub(a, b Matrix, sign complex128, tag string) (*Dense, error) {
	if err := ValidateSameShape(a, b); err != nil {
		return nil, cmatrixErrorf(tag, err)
	}
	out := a.ToDense()
	if err := Accumulate(out, b, sign); err != nil {
		return nil, cmatrixErrorf(tag, err)
	}

	return out, nil
}

// Accumulate performs dst += alpha*src in place. Only materialized entries of
// src are visited, so a Sparse src costs O(nnz).
func Accumulate(dst, src Matrix, alpha complex128) error {
	if err := ValidateSameShape(dst, src); err != nil {
		return cmatrixErrorf(opAccum, err)
	}
	switch d := dst.(type) {
	case *Dense:
		if s, ok := src.(*Dense); ok {
			for k, v := range s.data {
				d.data[k] += alpha * v
			}

			return nil
		}
		src.Each(func(i, j int, v complex128) { d.data[i*d.c+j] += alpha * v })
	case *Sparse:
		src.Each(func(i, j int, v complex128) {
			if v != 0 {
				d.add(i, j, alpha*v)
			}
		})
	default:
		var err error
		src.Each(func(i, j int, v complex128) {
			if err != nil {
				return
			}
			var cur complex128
			if cur, err = dst.At(i, j); err == nil {
				err = dst.Set(i, j, cur+alpha*v)
			}
		})
		if err != nil {
			return cmatrixErrorf(opAccum, err)
		}
	}

	return nil
}

// Scale returns alpha*m as a new Dense.
func Scale(m Matrix, alpha complex128) (*Dense, error) {
	if m == nil {
		return nil, cmatrixErrorf(opScale, ErrNilMatrix)
	}
	out := m.ToDense()
	for k := range out.data {
		out.data[k] *= alpha
	}

	return out, nil
}

// Mul returns the matrix product a × b.
// Implementation:
//   - Stage 1: validate a.Cols == b.Rows.
//   - Stage 2: i→k→j loop over dense copies; zero a[i,k] rows are skipped,
//     which keeps products with sparse-like operands cheap.
//
// Complexity: O(r*n*c).
func Mul(a, b Matrix) (*Dense, error) {
	if a == nil || b == nil {
		return nil, cmatrixErrorf(opMul, ErrNilMatrix)
	}
	if a.Cols() != b.Rows() {
		return nil, cmatrixErrorf(opMul, fmt.Errorf("%dx%d × %dx%d: %w", a.Rows(), a.Cols(), b.Rows(), b.Cols(), ErrDimensionMismatch))
	}
	ad, bd := asDense(a), asDense(b)
	out, err := NewDense(ad.r, bd.c)
	if err != nil {
		return nil, cmatrixErrorf(opMul, err)
	}
	n, c := ad.c, bd.c
	for i := 0; i < ad.r; i++ {
		for k := 0; k < n; k++ {
			aik := ad.data[i*n+k]
			if aik == 0 {
				continue
			}
			brow := bd.data[k*c : (k+1)*c]
			orow := out.data[i*c : (i+1)*c]
			for j, bkj := range brow {
				orow[j] += aik * bkj
			}
		}
	}

	return out, nil
}

// ConjTranspose returns m^H.
func ConjTranspose(m Matrix) (*Dense, error) {
	if m == nil {
		return nil, cmatrixErrorf(opConjT, ErrNilMatrix)
	}
	out := &Dense{r: m.Cols(), c: m.Rows(), data: make([]complex128, m.Rows()*m.Cols())}
	m.Each(func(i, j int, v complex128) { out.data[j*out.c+i] = cmplx.Conj(v) })

	return out, nil
}

// Conj returns the element-wise complex conjugate of m.
func Conj(m Matrix) *Dense {
	out := m.ToDense()
	for k, v := range out.data {
		out.data[k] = cmplx.Conj(v)
	}

	return out
}

// Transpose returns m^T.
func Transpose(m Matrix) *Dense {
	out := &Dense{r: m.Cols(), c: m.Rows(), data: make([]complex128, m.Rows()*m.Cols())}
	m.Each(func(i, j int, v complex128) { out.data[j*out.c+i] = v })

	return out
}

// Sandwich returns U · X · U^H where X = conj(M) when conjugate is true and
// X = M otherwise. This is the action of a (anti)unitary operator on M.
// Complexity: O(n^3).
func Sandwich(u, m Matrix, conjugate bool) (*Dense, error) {
	x := m
	if conjugate {
		x = Conj(m)
	}
	ux, err := Mul(u, x)
	if err != nil {
		return nil, err
	}
	uh, err := ConjTranspose(u)
	if err != nil {
		return nil, err
	}

	return Mul(ux, uh)
}

// Kron returns the Kronecker product a ⊗ b.
func Kron(a, b Matrix) (*Dense, error) {
	if a == nil || b == nil {
		return nil, cmatrixErrorf(opKron, ErrNilMatrix)
	}
	out, err := NewDense(a.Rows()*b.Rows(), a.Cols()*b.Cols())
	if err != nil {
		return nil, cmatrixErrorf(opKron, err)
	}
	br, bc := b.Rows(), b.Cols()
	a.Each(func(i, j int, av complex128) {
		if av == 0 {
			return
		}
		b.Each(func(k, l int, bv complex128) {
			out.data[(i*br+k)*out.c+j*bc+l] = av * bv
		})
	})

	return out, nil
}

// FrobeniusNorm returns sqrt(Σ |m_ij|^2) over materialized entries.
func FrobeniusNorm(m Matrix) float64 {
	var s float64
	m.Each(func(_, _ int, v complex128) {
		re, im := real(v), imag(v)
		s += re*re + im*im
	})

	return math.Sqrt(s)
}

// MaxAbs returns max |m_ij|.
func MaxAbs(m Matrix) float64 {
	var mx float64
	m.Each(func(_, _ int, v complex128) {
		if a := cmplx.Abs(v); a > mx {
			mx = a
		}
	})

	return mx
}

// AllClose reports whether |a_ij − b_ij| <= atol + rtol*|b_ij| for every entry.
// Shapes must match.
func AllClose(a, b Matrix, rtol, atol float64) (bool, error) {
	if err := ValidateSameShape(a, b); err != nil {
		return false, cmatrixErrorf(opAllClose, err)
	}
	ad, bd := asDense(a), asDense(b)
	rtol, atol = math.Abs(rtol), math.Abs(atol)
	for k, av := range ad.data {
		bv := bd.data[k]
		if cmplx.Abs(av-bv) > atol+rtol*cmplx.Abs(bv) {
			return false, nil
		}
	}

	return true, nil
}

// ValidateHermitian returns ErrNotHermitian when max |m_ij − conj(m_ji)| > tol.
func ValidateHermitian(m Matrix, tol float64) error {
	if err := ValidateSquare(m); err != nil {
		return err
	}
	d := asDense(m)
	n := d.r
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			diff := d.data[i*n+j] - cmplx.Conj(d.data[j*n+i])
			if cmplx.Abs(diff) > tol {
				return fmt.Errorf("(%d,%d) deviates by %.3g: %w", i, j, cmplx.Abs(diff), ErrNotHermitian)
			}
		}
	}

	return nil
}

// HermitianPart returns (m + m^H)/2.
func HermitianPart(m Matrix) (*Dense, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, cmatrixErrorf(opHermitize, err)
	}
	d := m.ToDense()
	n := d.r
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := (d.data[i*n+j] + cmplx.Conj(d.data[j*n+i])) / 2
			d.data[i*n+j] = v
			d.data[j*n+i] = cmplx.Conj(v)
		}
	}

	return d, nil
}

// asDense returns m itself when it is a *Dense, otherwise a dense copy.
func asDense(m Matrix) *Dense {
	if d, ok := m.(*Dense); ok {
		return d
	}

	return m.ToDense()
}
