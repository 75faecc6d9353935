package w90_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/katalvlaran/tbmodels/lattice"
	"github.com/katalvlaran/tbmodels/tb"
	"github.com/katalvlaran/tbmodels/w90"
	"github.com/stretchr/testify/require"
)

// threeBlocks: R=0 with degeneracy 2, R=±x with degeneracy 1.
const threeBlocks = `test file
2
3
    2    1    1
    0    0    0    1    1    2.0    0.0
    0    0    0    2    1    0.0    0.0
    0    0    0    1    2    0.0    0.0
    0    0    0    2    2   -2.0    0.0

    1    0    0    1    1    0.0    0.0
    1    0    0    2    1    0.0    0.0
    1    0    0    1    2    0.5    0.25
    1    0    0    2    2    0.0    0.0
   -1    0    0    1    1    0.0    0.0
   -1    0    0    2    1    0.5   -0.25
   -1    0    0    1    2    0.0    0.0
   -1    0    0    2    2    0.0    0.0
`

// TestReadHR checks degeneracy weighting and entry placement.
func TestReadHR(t *testing.T) {
	m, err := w90.ReadHR(strings.NewReader(threeBlocks))
	require.NoError(t, err)
	require.Equal(t, 2, m.Size())
	require.Equal(t, 3, m.Dim())
	require.Len(t, m.Keys(), 3)

	zero, ok := m.Hop(lattice.MustNew(0, 0, 0))
	require.True(t, ok)
	v, _ := zero.At(0, 0)
	require.Equal(t, complex128(1), v)
	v, _ = zero.At(1, 1)
	require.Equal(t, complex128(-1), v)

	plus, ok := m.Hop(lattice.MustNew(1, 0, 0))
	require.True(t, ok)
	v, _ = plus.At(0, 1)
	require.Equal(t, 0.5+0.25i, v)
}

// TestReadHRCutoff drops entries at or below the cutoff.
func TestReadHRCutoff(t *testing.T) {
	m, err := w90.ReadHR(strings.NewReader(threeBlocks), w90.WithCutoff(0.6))
	require.NoError(t, err)
	require.Equal(t, []lattice.Vector{lattice.MustNew(0, 0, 0)}, m.Keys())
}

// TestReadHRErrors covers orbital order, counts and malformed numbers.
func TestReadHRErrors(t *testing.T) {
	swapped := strings.Replace(threeBlocks, "0    0    0    2    1    0.0", "0    0    0    1    1    0.0", 1)
	_, err := w90.ReadHR(strings.NewReader(swapped))
	require.ErrorIs(t, err, w90.ErrParse)
	require.Contains(t, err.Error(), "line 6")

	lines := strings.Split(strings.TrimRight(threeBlocks, "\n"), "\n")
	short := strings.Join(lines[:len(lines)-1], "\n")
	_, err = w90.ReadHR(strings.NewReader(short))
	require.ErrorIs(t, err, w90.ErrParse)

	badDeg := strings.Replace(threeBlocks, "    2    1    1", "    2    1", 1)
	_, err = w90.ReadHR(strings.NewReader(badDeg))
	require.ErrorIs(t, err, w90.ErrParse)

	_, err = w90.ReadHR(strings.NewReader("header\nx\n"))
	require.ErrorIs(t, err, w90.ErrParse)
	_, err = w90.ReadHR(strings.NewReader(""))
	require.ErrorIs(t, err, w90.ErrParse)

	// dropping one partner breaks hop[−R] = hop[R]^H
	lopsided := strings.Replace(threeBlocks, "2    1    0.5   -0.25", "2    1    0.0    0.0", 1)
	_, err = w90.ReadHR(strings.NewReader(lopsided))
	require.ErrorIs(t, err, tb.ErrNotHermitian)
}

// TestWriteReadRoundTrip: values with at most 6 decimals survive the text format.
func TestWriteReadRoundTrip(t *testing.T) {
	opts := []tb.Option{tb.WithPositions([][]float64{{0, 0, 0}, {0.5, 0.5, 0}}), tb.WithOcc(1)}
	b, err := tb.NewBuilder(2, 3, opts...)
	require.NoError(t, err)
	require.NoError(t, b.AddOnSite([]float64{1.5, -0.25}))
	require.NoError(t, b.AddHop(0.125-0.5i, 0, 1, lattice.MustNew(0, -1, 0)))
	require.NoError(t, b.AddHop(0.2, 0, 0, lattice.MustNew(1, 0, 0)))
	require.NoError(t, b.AddHop(-0.2, 1, 1, lattice.MustNew(0, 1, 0)))
	m, err := b.Build()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, w90.WriteHR(&buf, m))
	require.True(t, strings.HasPrefix(buf.String(), w90.Header+"\n"))

	back, err := w90.ReadHR(&buf, w90.WithModelOptions(opts...))
	require.NoError(t, err)
	require.True(t, back.AllClose(m, 1e-6))
	for _, k := range [][]float64{{0.1, 0.2, 0.3}, {0.5, -0.25, 0}} {
		want, err := m.Eigenval(k, tb.Convention1)
		require.NoError(t, err)
		got, err := back.Eigenval(k, tb.Convention1)
		require.NoError(t, err)
		require.InDeltaSlice(t, want, got, 1e-6)
	}
}

// TestWriteHRErrors: only non-empty 3D models fit the format.
func TestWriteHRErrors(t *testing.T) {
	var buf bytes.Buffer
	require.ErrorIs(t, w90.WriteHR(&buf, nil), tb.ErrNilModel)

	b, err := tb.NewBuilder(1, 1)
	require.NoError(t, err)
	require.NoError(t, b.AddHop(1, 0, 0, lattice.MustNew(1)))
	chain, err := b.Build()
	require.NoError(t, err)
	require.ErrorIs(t, w90.WriteHR(&buf, chain), w90.ErrDimensionMismatch)

	b, err = tb.NewBuilder(1, 3)
	require.NoError(t, err)
	empty, err := b.Build()
	require.NoError(t, err)
	require.ErrorIs(t, w90.WriteHR(&buf, empty), w90.ErrEmptyModel)
}
