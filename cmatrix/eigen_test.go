package cmatrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/tbmodels/cmatrix"
	"github.com/stretchr/testify/require"
)

// TestEigvalsHermitianPauli checks the spectra of σ_y and a diagonal matrix.
func TestEigvalsHermitianPauli(t *testing.T) {
	sy := cmatrix.MustFromRows([][]complex128{{0, -1i}, {1i, 0}})
	ev, err := cmatrix.EigvalsHermitian(sy, cmatrix.DefaultHermitianTolerance)
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{-1, 1}, ev, 1e-12)

	diag := cmatrix.MustFromRows([][]complex128{{3, 0, 0}, {0, -2, 0}, {0, 0, 0.5}})
	ev, err = cmatrix.EigvalsHermitian(diag, cmatrix.DefaultHermitianTolerance)
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{-2, 0.5, 3}, ev, 1e-12)
}

// TestEigvalsHermitianTraceAndNorm uses invariants: Σλ = tr H and Σλ² = ‖H‖_F².
func TestEigvalsHermitianTraceAndNorm(t *testing.T) {
	h := cmatrix.MustFromRows([][]complex128{
		{1, 0.3 + 0.2i, -0.1i, 0},
		{0.3 - 0.2i, -0.5, 0.7, 0.1 + 0.1i},
		{0.1i, 0.7, 2, 0.4i},
		{0, 0.1 - 0.1i, -0.4i, 0.25},
	})
	ev, err := cmatrix.EigvalsHermitian(h, cmatrix.DefaultHermitianTolerance)
	require.NoError(t, err)
	require.Len(t, ev, 4)

	var tr, sq float64
	for i, v := range ev {
		tr += v
		sq += v * v
		if i > 0 {
			require.LessOrEqual(t, ev[i-1], v)
		}
	}
	require.InDelta(t, 1-0.5+2+0.25, tr, 1e-10)
	nf := cmatrix.FrobeniusNorm(h)
	require.InDelta(t, nf*nf, sq, 1e-10)
}

// TestEigvalsHermitianRejects covers non-square and non-Hermitian input.
func TestEigvalsHermitianRejects(t *testing.T) {
	_, err := cmatrix.EigvalsHermitian(cmatrix.MustFromRows([][]complex128{{1, 2}}), 1e-8)
	require.ErrorIs(t, err, cmatrix.ErrNonSquare)

	_, err = cmatrix.EigvalsHermitian(cmatrix.MustFromRows([][]complex128{{0, 1}, {0, 0}}), 1e-8)
	require.ErrorIs(t, err, cmatrix.ErrNotHermitian)
}

// TestEigvalsHermitianTwoBand compares with the closed form ±|d|.
func TestEigvalsHermitianTwoBand(t *testing.T) {
	dx, dy, dz := 0.3, -0.4, 1.2
	h := cmatrix.MustFromRows([][]complex128{
		{complex(dz, 0), complex(dx, -dy)},
		{complex(dx, dy), complex(-dz, 0)},
	})
	ev, err := cmatrix.EigvalsHermitian(h, 1e-8)
	require.NoError(t, err)
	d := math.Sqrt(dx*dx + dy*dy + dz*dz)
	require.InDeltaSlice(t, []float64{-d, d}, ev, 1e-12)
}
