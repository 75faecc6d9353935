// Package cmatrix_test contains unit tests for the Dense and Sparse backings.
package cmatrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/tbmodels/cmatrix"
	"github.com/stretchr/testify/require"
)

// TestNewDenseInvalidDimensions ensures that NewDense rejects non-positive dimensions.
func TestNewDenseInvalidDimensions(t *testing.T) {
	_, err := cmatrix.NewDense(0, 5)
	require.ErrorIs(t, err, cmatrix.ErrInvalidDimensions)

	_, err = cmatrix.NewDense(5, -1)
	require.ErrorIs(t, err, cmatrix.ErrInvalidDimensions)

	_, err = cmatrix.NewSparse(0, 0)
	require.ErrorIs(t, err, cmatrix.ErrInvalidDimensions)
}

// TestAtSetOutOfRange checks bounds errors on both backings.
func TestAtSetOutOfRange(t *testing.T) {
	d, err := cmatrix.NewDense(2, 2)
	require.NoError(t, err)
	s, err := cmatrix.NewSparse(2, 2)
	require.NoError(t, err)

	for _, m := range []cmatrix.Matrix{d, s} {
		_, err = m.At(-1, 0)
		require.ErrorIs(t, err, cmatrix.ErrOutOfRange)
		_, err = m.At(0, 2)
		require.ErrorIs(t, err, cmatrix.ErrOutOfRange)
		require.ErrorIs(t, m.Set(2, 0, 1), cmatrix.ErrOutOfRange)
	}
}

// TestFromRows covers ragged input, NaN rejection and a clean build.
func TestFromRows(t *testing.T) {
	_, err := cmatrix.FromRows([][]complex128{{1, 2}, {3}})
	require.ErrorIs(t, err, cmatrix.ErrDimensionMismatch)

	_, err = cmatrix.FromRows([][]complex128{{complex(math.NaN(), 0)}})
	require.ErrorIs(t, err, cmatrix.ErrNaNInf)

	_, err = cmatrix.FromRows(nil)
	require.ErrorIs(t, err, cmatrix.ErrInvalidDimensions)

	m, err := cmatrix.FromRows([][]complex128{{1, 2i}, {3, 4}})
	require.NoError(t, err)
	v, err := m.At(0, 1)
	require.NoError(t, err)
	require.Equal(t, 2i, v)
	require.Equal(t, 4, m.NNZ())
}

// TestCloneIndependence ensures Clone() does not share storage.
func TestCloneIndependence(t *testing.T) {
	d := cmatrix.MustFromRows([][]complex128{{1, 0}, {0, 2}})
	s := cmatrix.SparseFrom(d)

	for _, m := range []cmatrix.Matrix{d, s} {
		c := m.Clone()
		require.NoError(t, c.Set(0, 0, 7))
		orig, err := m.At(0, 0)
		require.NoError(t, err)
		require.Equal(t, complex128(1), orig)
	}
}

// TestSparseZeroRemoves verifies that storing 0 drops the entry.
func TestSparseZeroRemoves(t *testing.T) {
	s, err := cmatrix.NewSparse(3, 3)
	require.NoError(t, err)
	require.NoError(t, s.Set(1, 2, 1+1i))
	require.NoError(t, s.Set(0, 0, 2))
	require.Equal(t, 2, s.NNZ())

	require.NoError(t, s.Set(1, 2, 0))
	require.Equal(t, 1, s.NNZ())

	var visited [][2]int
	s.Each(func(i, j int, _ complex128) { visited = append(visited, [2]int{i, j}) })
	require.Equal(t, [][2]int{{0, 0}}, visited)
}

// TestSparseEachOrder verifies row-major visiting order.
func TestSparseEachOrder(t *testing.T) {
	s, err := cmatrix.NewSparse(3, 3)
	require.NoError(t, err)
	require.NoError(t, s.Set(2, 0, 1))
	require.NoError(t, s.Set(0, 2, 1))
	require.NoError(t, s.Set(1, 1, 1))

	var visited [][2]int
	s.Each(func(i, j int, _ complex128) { visited = append(visited, [2]int{i, j}) })
	require.Equal(t, [][2]int{{0, 2}, {1, 1}, {2, 0}}, visited)
}

// TestInduced checks row/column selection with repeats.
func TestInduced(t *testing.T) {
	m := cmatrix.MustFromRows([][]complex128{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})
	sub, err := m.Induced([]int{2, 0}, []int{1, 1})
	require.NoError(t, err)
	require.Equal(t, []complex128{8, 8, 2, 2}, sub.RawData())

	_, err = m.Induced([]int{3}, []int{0})
	require.ErrorIs(t, err, cmatrix.ErrOutOfRange)
}

// TestSparseToDense checks conversion keeps values.
func TestSparseToDense(t *testing.T) {
	d := cmatrix.MustFromRows([][]complex128{{0, 1i}, {-1i, 0}})
	s := cmatrix.SparseFrom(d)
	require.Equal(t, 2, s.NNZ())
	require.Equal(t, d.RawData(), s.ToDense().RawData())
	require.InDelta(t, cmatrix.FrobeniusNorm(d), cmatrix.FrobeniusNorm(s), 1e-15)
}
