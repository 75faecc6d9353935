// Package symmetry_test contains unit tests for operations and group closure.
package symmetry_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/tbmodels/cmatrix"
	"github.com/katalvlaran/tbmodels/lattice"
	"github.com/katalvlaran/tbmodels/symmetry"
	"github.com/stretchr/testify/require"
)

var (
	pauliX = cmatrix.MustFromRows([][]complex128{{0, 1}, {1, 0}})
	pauliY = cmatrix.MustFromRows([][]complex128{{0, -1i}, {1i, 0}})
	pauliZ = cmatrix.MustFromRows([][]complex128{{1, 0}, {0, -1}})
	id3    = [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	c4z    = [][]float64{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}}
	inv3   = [][]float64{{-1, 0, 0}, {0, -1, 0}, {0, 0, -1}}
)

func mustIdentity(t *testing.T, dim, size int) symmetry.Operation {
	t.Helper()
	op, err := symmetry.Identity(dim, size)
	require.NoError(t, err)

	return op
}

// TestNewValidation rejects ragged rotations and non-square representations.
func TestNewValidation(t *testing.T) {
	_, err := symmetry.New([][]float64{{1, 0}, {0}}, pauliX, false)
	require.ErrorIs(t, err, symmetry.ErrDimensionMismatch)

	_, err = symmetry.New(id3, cmatrix.MustFromRows([][]complex128{{1, 0}}), false)
	require.ErrorIs(t, err, symmetry.ErrDimensionMismatch)

	_, err = symmetry.New([][]float64{{math.NaN()}}, pauliX, false)
	require.ErrorIs(t, err, symmetry.ErrNaNInf)

	_, err = symmetry.New(nil, pauliX, false)
	require.ErrorIs(t, err, symmetry.ErrDimensionMismatch)
}

// TestComposeIdentity checks that the identity is neutral on both sides.
func TestComposeIdentity(t *testing.T) {
	e := mustIdentity(t, 3, 2)
	g := symmetry.MustNew(c4z, pauliY, true)

	left, err := symmetry.Compose(e, g)
	require.NoError(t, err)
	require.True(t, symmetry.Equal(left, g, 1e-12))

	right, err := symmetry.Compose(g, e)
	require.NoError(t, err)
	require.True(t, symmetry.Equal(right, g, 1e-12))
}

// TestComposeAntiunitary checks the conjugation and XOR rules.
func TestComposeAntiunitary(t *testing.T) {
	// Time reversal for spin-1/2: T = iσ_y K, T² = -1.
	iy, err := cmatrix.Scale(pauliY, 1i)
	require.NoError(t, err)
	tr := symmetry.MustNew(id3, iy, true)

	t2, err := symmetry.Compose(tr, tr)
	require.NoError(t, err)
	require.False(t, t2.HasCC())
	minusOne, err := cmatrix.Scale(mustIdentity(t, 3, 2).Repr(), -1)
	require.NoError(t, err)
	ok, err := cmatrix.AllClose(t2.Repr(), minusOne, 0, 1e-12)
	require.NoError(t, err)
	require.True(t, ok)

	// b unitary: no conjugation of a.
	u := symmetry.MustNew(id3, cmatrix.MustFromRows([][]complex128{{1i, 0}, {0, 1}}), false)
	c, err := symmetry.Compose(u, u)
	require.NoError(t, err)
	require.Equal(t, []complex128{-1, 0, 0, 1}, c.Repr().RawData())

	// b antiunitary: a.repr is conjugated.
	k := symmetry.MustNew(id3, mustIdentity(t, 3, 2).Repr(), true)
	c, err = symmetry.Compose(u, k)
	require.NoError(t, err)
	require.True(t, c.HasCC())
	require.Equal(t, []complex128{-1i, 0, 0, 1}, c.Repr().RawData())

	_, err = symmetry.Compose(u, mustIdentity(t, 2, 2))
	require.ErrorIs(t, err, symmetry.ErrDimensionMismatch)
}

// TestRotateVector covers integer images and the lattice-mapping failure.
func TestRotateVector(t *testing.T) {
	g := symmetry.MustNew(c4z, pauliZ, false)
	img, err := g.RotateVector(lattice.MustNew(1, 0, 2), 1e-6)
	require.NoError(t, err)
	require.Equal(t, lattice.MustNew(0, 1, 2), img)

	bad := symmetry.MustNew([][]float64{{0.5, 0, 0}, {0, 1, 0}, {0, 0, 1}}, pauliZ, false)
	_, err = bad.RotateVector(lattice.MustNew(1, 0, 0), 1e-6)
	require.ErrorIs(t, err, symmetry.ErrLatticeMapping)

	_, err = g.RotateVector(lattice.MustNew(1, 0), 1e-6)
	require.ErrorIs(t, err, symmetry.ErrDimensionMismatch)
}

// TestKImage checks rot^T·k and the sign flip of antiunitary operations.
func TestKImage(t *testing.T) {
	g := symmetry.MustNew(c4z, pauliZ, false)
	k, err := g.KImage([]float64{0.1, 0.2, 0.3})
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{0.2, -0.1, 0.3}, k, 1e-15)

	tr := symmetry.MustNew(id3, pauliZ, true)
	k, err = tr.KImage([]float64{0.1, 0.2, 0.3})
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{-0.1, -0.2, -0.3}, k, 1e-15)
}

// TestClosureIdentity: the identity alone generates a group of order 1.
func TestClosureIdentity(t *testing.T) {
	g, err := symmetry.Closure([]symmetry.Operation{mustIdentity(t, 3, 2)})
	require.NoError(t, err)
	require.Len(t, g, 1)
}

// TestClosureCyclic: a generator of order n generates exactly n elements.
func TestClosureCyclic(t *testing.T) {
	cases := []struct {
		name string
		op   symmetry.Operation
		want int
	}{
		{"inversion", symmetry.MustNew(inv3, pauliZ, false), 2},
		{"c4 with scalar repr", symmetry.MustNew(c4z, mustIdentity(t, 3, 2).Repr(), false), 4},
		{"c4 with phase repr", symmetry.MustNew(c4z, cmatrix.MustFromRows([][]complex128{{1i, 0}, {0, 1}}), false), 4},
		// spinful time reversal has order 4 in the representation (T² = -1).
		{"time reversal", symmetry.MustNew(id3, func() *cmatrix.Dense { m, _ := cmatrix.Scale(pauliY, 1i); return m }(), true), 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := symmetry.Closure([]symmetry.Operation{tc.op})
			require.NoError(t, err)
			require.Len(t, g, tc.want)
			require.True(t, symmetry.Equal(g[0], mustIdentity(t, 3, 2), 0))
		})
	}
}

// TestClosureTwoGenerators checks C4 × inversion = C4h (order 8).
func TestClosureTwoGenerators(t *testing.T) {
	e := mustIdentity(t, 3, 2).Repr()
	g, err := symmetry.Closure([]symmetry.Operation{
		symmetry.MustNew(c4z, e, false),
		symmetry.MustNew(inv3, e, false),
	})
	require.NoError(t, err)
	require.Len(t, g, 8)

	// closed under composition
	for _, a := range g {
		for _, b := range g {
			c, err := symmetry.Compose(a, b)
			require.NoError(t, err)
			found := false
			for _, x := range g {
				if symmetry.Equal(x, c, symmetry.DefaultTolerance) {
					found = true
					break
				}
			}
			require.True(t, found)
		}
	}
}

// TestClosureFailures covers the order bound and generator mismatches.
func TestClosureFailures(t *testing.T) {
	// irrational rotation angle never closes
	th := 1.0
	rot := [][]float64{{math.Cos(th), -math.Sin(th), 0}, {math.Sin(th), math.Cos(th), 0}, {0, 0, 1}}
	_, err := symmetry.Closure([]symmetry.Operation{symmetry.MustNew(rot, pauliZ, false)}, symmetry.WithMaxOrder(64))
	require.ErrorIs(t, err, symmetry.ErrGroupClosure)

	_, err = symmetry.Closure(nil)
	require.ErrorIs(t, err, symmetry.ErrNoOperations)

	_, err = symmetry.Closure([]symmetry.Operation{mustIdentity(t, 3, 2), mustIdentity(t, 2, 2)})
	require.ErrorIs(t, err, symmetry.ErrDimensionMismatch)

	require.Panics(t, func() { symmetry.WithMaxOrder(0) })
	require.Panics(t, func() { symmetry.WithTolerance(-1) })
}
