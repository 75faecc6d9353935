// Package bands_test contains unit tests for k-point sweeps and k-paths.
package bands_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/katalvlaran/tbmodels/bands"
	"github.com/katalvlaran/tbmodels/lattice"
	"github.com/katalvlaran/tbmodels/tb"
	"github.com/stretchr/testify/require"
)

func chain(t *testing.T) *tb.Model {
	t.Helper()
	b, err := tb.NewBuilder(1, 1)
	require.NoError(t, err)
	require.NoError(t, b.AddHop(1, 0, 0, lattice.MustNew(1)))
	m, err := b.Build()
	require.NoError(t, err)

	return m
}

// TestSweepOrder: parallel results match the serial evaluation, in order.
func TestSweepOrder(t *testing.T) {
	m := chain(t)
	ks, err := bands.Path([][]float64{{0}, {0.5}}, 40)
	require.NoError(t, err)

	got, err := bands.Sweep(context.Background(), bands.TightBinding(m, tb.Convention1), ks, bands.WithWorkers(4))
	require.NoError(t, err)
	require.Len(t, got, len(ks))
	for i, k := range ks {
		require.InDelta(t, 2*math.Cos(2*math.Pi*k[0]), got[i][0], 1e-12)
	}
}

// TestSweepError: a failing k-point aborts the sweep and is reported.
func TestSweepError(t *testing.T) {
	boom := errors.New("boom")
	fn := func(k []float64) ([]float64, error) {
		if k[0] == 3 {
			return nil, boom
		}
		return []float64{k[0]}, nil
	}
	ks := [][]float64{{0}, {1}, {2}, {3}, {4}}
	_, err := bands.Sweep(context.Background(), fn, ks, bands.WithWorkers(2))
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "k-point 3")

	// a model error surfaces through the adapter
	_, err = bands.Sweep(context.Background(), bands.TightBinding(chain(t), tb.Convention0), [][]float64{{0, 0}})
	require.ErrorIs(t, err, tb.ErrDimensionMismatch)
}

// TestSweepDeadline: slow evaluations are cut off by WithTimeout.
func TestSweepDeadline(t *testing.T) {
	slow := func(k []float64) ([]float64, error) {
		time.Sleep(50 * time.Millisecond)
		return k, nil
	}
	ks := make([][]float64, 64)
	for i := range ks {
		ks[i] = []float64{float64(i)}
	}
	_, err := bands.Sweep(context.Background(), slow, ks, bands.WithWorkers(1), bands.WithTimeout(20*time.Millisecond))
	require.ErrorIs(t, err, context.DeadlineExceeded)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = bands.Sweep(ctx, slow, ks)
	require.ErrorIs(t, err, context.Canceled)
}

// TestSweepValidation covers nil functions and ragged k-points.
func TestSweepValidation(t *testing.T) {
	_, err := bands.Sweep(context.Background(), nil, [][]float64{{0}})
	require.ErrorIs(t, err, bands.ErrNilFunc)
	id := func(k []float64) ([]float64, error) { return k, nil }
	_, err = bands.Sweep(context.Background(), id, [][]float64{{0}, {0, 1}})
	require.ErrorIs(t, err, bands.ErrDimensionMismatch)
	out, err := bands.Sweep(context.Background(), id, nil)
	require.NoError(t, err)
	require.Empty(t, out)
	require.Panics(t, func() { bands.WithWorkers(0) })
}

// TestPath checks segment sampling and validation.
func TestPath(t *testing.T) {
	ks, err := bands.Path([][]float64{{0, 0}, {0.5, 0}, {0.5, 0.5}}, 2)
	require.NoError(t, err)
	require.Equal(t, [][]float64{{0, 0}, {0.25, 0}, {0.5, 0}, {0.5, 0.25}, {0.5, 0.5}}, ks)

	_, err = bands.Path([][]float64{{0}}, 3)
	require.ErrorIs(t, err, bands.ErrInvalidPath)
	_, err = bands.Path([][]float64{{0}, {1}}, 0)
	require.ErrorIs(t, err, bands.ErrInvalidPath)
	_, err = bands.Path([][]float64{{0}, {1, 2}}, 1)
	require.ErrorIs(t, err, bands.ErrDimensionMismatch)
}
