package tb_test

import (
	"sort"
	"testing"

	"github.com/katalvlaran/tbmodels/cmatrix"
	"github.com/katalvlaran/tbmodels/lattice"
	"github.com/katalvlaran/tbmodels/tb"
	"github.com/stretchr/testify/require"
)

// Hopping strengths and k-points of the shared two-orbital fixture.
var (
	t1Values = []float64{-0.1, 0.2, 0.3}
	t2Values = []float64{-0.2, 0.5}
	kpoints  = [][]float64{
		{0.1, 0.2, 0.7},
		{-0.3, 0.5, 0.2},
		{0, 0, 0},
		{0.1, -0.9, -0.7},
	}
)

// fixture builds the 2-orbital 3D model: on-site (1, −1), t1 nearest
// neighbours with phases 1, −i, i, −1 and ±t2 second neighbours.
func fixture(tb_ testing.TB, t1, t2 float64, opts ...tb.Option) *tb.Model {
	tb_.Helper()
	base := []tb.Option{
		tb.WithPositions([][]float64{{0, 0, 0}, {0.5, 0.5, 0}}),
		tb.WithOcc(1),
	}
	b, err := tb.NewBuilder(2, 3, append(base, opts...)...)
	require.NoError(tb_, err)
	require.NoError(tb_, b.AddOnSite([]float64{1, -1}))

	phases := []complex128{1, -1i, 1i, -1}
	rs := []lattice.Vector{
		lattice.MustNew(0, 0, 0),
		lattice.MustNew(0, -1, 0),
		lattice.MustNew(-1, 0, 0),
		lattice.MustNew(-1, -1, 0),
	}
	for n, ph := range phases {
		require.NoError(tb_, b.AddHop(complex(t1, 0)*ph, 0, 1, rs[n]))
	}
	for _, r := range []lattice.Vector{lattice.MustNew(0, 1, 0), lattice.MustNew(1, 0, 0)} {
		require.NoError(tb_, b.AddHop(complex(t2, 0), 0, 0, r))
		require.NoError(tb_, b.AddHop(complex(-t2, 0), 1, 1, r))
	}
	m, err := b.Build()
	require.NoError(tb_, err)

	return m
}

// forEachFixture runs fn for every (t1, t2) combination.
func forEachFixture(t *testing.T, fn func(t *testing.T, m *tb.Model)) {
	for _, t1 := range t1Values {
		for _, t2 := range t2Values {
			m := fixture(t, t1, t2)
			fn(t, m)
		}
	}
}

func requireMatrixClose(t *testing.T, want, got cmatrix.Matrix, atol float64) {
	t.Helper()
	ok, err := cmatrix.AllClose(got, want, 0, atol)
	require.NoError(t, err)
	require.Truef(t, ok, "want\n%v\ngot\n%v", want.ToDense(), got.ToDense())
}

func mustHamilton(t *testing.T, m *tb.Model, k []float64, c tb.Convention) *cmatrix.Dense {
	t.Helper()
	h, err := m.Hamilton(k, c)
	require.NoError(t, err)

	return h
}

func sortedCopy(v []float64) []float64 {
	out := append([]float64(nil), v...)
	sort.Float64s(out)

	return out
}
