// SPDX-License-Identifier: MIT

package cmatrix

import (
	"fmt"
	"math"
	"sort"
)

// Numeric policy for the Hermitian eigen solver.
const (
	// DefaultHermitianTolerance bounds max |H_ij − conj(H_ji)| accepted by EigvalsHermitian.
	DefaultHermitianTolerance = 1e-8

	// DefaultJacobiTolerance is the relative off-diagonal threshold for convergence.
	DefaultJacobiTolerance = 1e-14

	// DefaultMaxSweeps caps the number of cyclic Jacobi sweeps.
	DefaultMaxSweeps = 100
)

// EigvalsHermitian returns the eigenvalues of a Hermitian matrix in ascending order.
//
// Implementation:
//   - Stage 1: validate square and Hermitian within tol (ErrNotHermitian otherwise);
//     the check is reported, never silently corrected.
//   - Stage 2: embed H = A + iB (after taking its exact Hermitian part) into the
//     real symmetric 2n×2n matrix S = [[A, −B], [B, A]]. Every eigenvalue of H
//     appears exactly twice in the spectrum of S.
//   - Stage 3: cyclic Jacobi sweeps on S; sort; keep every second value.
//
// Complexity: O(sweeps · n^3) time, O(n^2) space.
//
// AI-Hints:
//   - The doubling trick keeps the solver on real arithmetic only; the pairing
//     is exact in exact arithmetic, so picking even indices after sorting is safe.
func EigvalsHermitian(m Matrix, tol float64) ([]float64, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, cmatrixErrorf(opEigvals, err)
	}
	if err := ValidateHermitian(m, tol); err != nil {
		return nil, cmatrixErrorf(opEigvals, err)
	}
	h, err := HermitianPart(m)
	if err != nil {
		return nil, cmatrixErrorf(opEigvals, err)
	}
	n := h.r
	n2 := 2 * n
	s := make([]float64, n2*n2)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := h.data[i*n+j]
			a, b := real(v), imag(v)
			s[i*n2+j] = a       // top-left A
			s[(i+n)*n2+j+n] = a // bottom-right A
			s[i*n2+j+n] = -b    // top-right −B
			s[(i+n)*n2+j] = b   // bottom-left B
		}
	}
	eigs, err := jacobiSymmetric(s, n2, DefaultJacobiTolerance, DefaultMaxSweeps)
	if err != nil {
		return nil, cmatrixErrorf(opEigvals, err)
	}
	sort.Float64s(eigs)
	out := make([]float64, n)
	for i := range out {
		out[i] = eigs[2*i]
	}

	return out, nil
}

// jacobiSymmetric diagonalizes the real symmetric n×n matrix stored row-major
// in a (a is overwritten) and returns its diagonal after convergence.
//
// Each rotation zeroes a[p,q] using
//
//	θ = (a_qq − a_pp)/(2 a_pq),  t = sign(θ)/(|θ| + √(θ²+1)),  c = 1/√(t²+1),  s = t·c.
//
// Convergence: off-diagonal Frobenius norm <= tol · max(1, ‖a‖_F).
func jacobiSymmetric(a []float64, n int, tol float64, maxSweeps int) ([]float64, error) {
	var total float64
	for _, v := range a {
		total += v * v
	}
	threshold := tol * math.Max(1, math.Sqrt(total))

	var (
		p, q, i        int
		app, aqq, apq  float64
		aip, aiq       float64
		theta, t, c, s float64
		converged      bool
	)
	for sweep := 0; sweep < maxSweeps; sweep++ {
		if offDiagonalNorm(a, n) <= threshold {
			converged = true
			break
		}
		for p = 0; p < n-1; p++ {
			for q = p + 1; q < n; q++ {
				apq = a[p*n+q]
				if apq == 0 {
					continue
				}
				app = a[p*n+p]
				aqq = a[q*n+q]
				theta = (aqq - app) / (2 * apq)
				t = math.Copysign(1.0/(math.Abs(theta)+math.Hypot(theta, 1)), theta)
				c = 1.0 / math.Sqrt(t*t+1)
				s = t * c
				for i = 0; i < n; i++ {
					if i == p || i == q {
						continue
					}
					aip = a[i*n+p]
					aiq = a[i*n+q]
					a[i*n+p] = c*aip - s*aiq
					a[p*n+i] = a[i*n+p]
					a[i*n+q] = s*aip + c*aiq
					a[q*n+i] = a[i*n+q]
				}
				a[p*n+p] = c*c*app - 2*c*s*apq + s*s*aqq
				a[q*n+q] = s*s*app + 2*c*s*apq + c*c*aqq
				a[p*n+q], a[q*n+p] = 0, 0
			}
		}
	}
	if !converged && offDiagonalNorm(a, n) > threshold {
		return nil, fmt.Errorf("no convergence after %d sweeps: %w", maxSweeps, ErrEigenFailed)
	}
	eigs := make([]float64, n)
	for i = 0; i < n; i++ {
		eigs[i] = a[i*n+i]
	}

	return eigs, nil
}

func offDiagonalNorm(a []float64, n int) float64 {
	var off float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			off += 2 * a[i*n+j] * a[i*n+j]
		}
	}

	return math.Sqrt(off)
}
