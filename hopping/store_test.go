// Package hopping_test contains unit tests for the Hopping Store.
package hopping_test

import (
	"testing"

	"github.com/katalvlaran/tbmodels/cmatrix"
	"github.com/katalvlaran/tbmodels/hopping"
	"github.com/katalvlaran/tbmodels/lattice"
	"github.com/stretchr/testify/require"
)

var backings = []hopping.Backing{hopping.Dense, hopping.Sparse}

func mustStore(t *testing.T, size, dim int, b hopping.Backing) *hopping.Store {
	t.Helper()
	s, err := hopping.New(size, dim, b)
	require.NoError(t, err)

	return s
}

func at(t *testing.T, s *hopping.Store, r lattice.Vector, i, j int) complex128 {
	t.Helper()
	m, ok := s.Get(r)
	if !ok {
		return 0
	}
	v, err := m.At(i, j)
	require.NoError(t, err)

	return v
}

// TestNewValidation rejects bad sizes and backings.
func TestNewValidation(t *testing.T) {
	_, err := hopping.New(0, 3, hopping.Dense)
	require.ErrorIs(t, err, hopping.ErrInvalidSize)
	_, err = hopping.New(2, 0, hopping.Dense)
	require.ErrorIs(t, err, hopping.ErrInvalidSize)
	_, err = hopping.New(2, 3, hopping.Backing(9))
	require.ErrorIs(t, err, hopping.ErrUnknownBacking)
}

// TestParseBacking round-trips the textual form.
func TestParseBacking(t *testing.T) {
	for _, b := range backings {
		got, err := hopping.ParseBacking(b.String())
		require.NoError(t, err)
		require.Equal(t, b, got)
	}
	_, err := hopping.ParseBacking("csr")
	require.ErrorIs(t, err, hopping.ErrUnknownBacking)
}

// TestAddAtAndKeys covers term creation, key validation and ordering.
func TestAddAtAndKeys(t *testing.T) {
	for _, b := range backings {
		s := mustStore(t, 2, 2, b)
		require.NoError(t, s.AddAt(lattice.MustNew(1, 0), 0, 1, 0.5))
		require.NoError(t, s.AddAt(lattice.MustNew(-1, 0), 1, 0, 0.5))
		require.NoError(t, s.AddAt(lattice.MustNew(1, 0), 0, 1, 0.25i))
		require.Equal(t, 2, s.Len())
		require.Equal(t, []lattice.Vector{lattice.MustNew(-1, 0), lattice.MustNew(1, 0)}, s.Keys())
		require.Equal(t, 0.5+0.25i, at(t, s, lattice.MustNew(1, 0), 0, 1))

		err := s.AddAt(lattice.MustNew(1, 0, 0), 0, 0, 1)
		require.ErrorIs(t, err, hopping.ErrDimensionMismatch)
		err = s.AddAt(lattice.MustNew(0, 0), 2, 0, 1)
		require.ErrorIs(t, err, cmatrix.ErrOutOfRange)
	}
}

// TestSetConvertsBacking verifies Set copies into the store backing.
func TestSetConvertsBacking(t *testing.T) {
	s := mustStore(t, 2, 1, hopping.Sparse)
	d := cmatrix.MustFromRows([][]complex128{{1, 0}, {0, 0}})
	require.NoError(t, s.Set(lattice.MustNew(0), d))

	m, ok := s.Get(lattice.MustNew(0))
	require.True(t, ok)
	require.IsType(t, &cmatrix.Sparse{}, m)
	require.Equal(t, 1, m.NNZ())

	// mutation of the source does not leak into the store
	require.NoError(t, d.Set(0, 0, 5))
	require.Equal(t, complex128(1), at(t, s, lattice.MustNew(0), 0, 0))

	err := s.Set(lattice.MustNew(0), cmatrix.MustFromRows([][]complex128{{1}}))
	require.ErrorIs(t, err, hopping.ErrDimensionMismatch)
}

// TestHermitize averages (R, -R) pairs and fills missing partners.
func TestHermitize(t *testing.T) {
	for _, b := range backings {
		s := mustStore(t, 2, 1, b)
		r, mr := lattice.MustNew(1), lattice.MustNew(-1)
		require.NoError(t, s.AddAt(r, 0, 1, 1))
		require.NoError(t, s.AddAt(mr, 1, 0, 0.5)) // partner disagrees
		require.NoError(t, s.AddAt(lattice.MustNew(2), 0, 0, 1i))
		require.NoError(t, s.AddAt(lattice.MustNew(0), 0, 1, 2))

		require.ErrorIs(t, s.ValidateHermitian(1e-12), hopping.ErrNotHermitian)

		h, err := s.Hermitize()
		require.NoError(t, err)
		require.NoError(t, h.ValidateHermitian(1e-12))
		require.Equal(t, 0.75+0i, at(t, h, r, 0, 1))
		require.Equal(t, 0.75+0i, at(t, h, mr, 1, 0))
		// lone term is halved and mirrored
		require.Equal(t, 0.5i, at(t, h, lattice.MustNew(2), 0, 0))
		require.Equal(t, -0.5i, at(t, h, lattice.MustNew(-2), 0, 0))
		// zero term becomes its Hermitian part
		require.Equal(t, complex128(1), at(t, h, lattice.MustNew(0), 0, 1))
		require.Equal(t, complex128(1), at(t, h, lattice.MustNew(0), 1, 0))

		// the input is untouched
		require.Equal(t, 0.5+0i, at(t, s, mr, 1, 0))
	}
}

// TestPruneScaleMerge covers the derived-store helpers.
func TestPruneScaleMerge(t *testing.T) {
	s := mustStore(t, 1, 1, hopping.Dense)
	require.NoError(t, s.AddAt(lattice.MustNew(0), 0, 0, 1))
	require.NoError(t, s.AddAt(lattice.MustNew(1), 0, 0, 1e-14))

	p := s.Prune(1e-12)
	require.Equal(t, 1, p.Len())
	require.Equal(t, 2, s.Len())

	sc := s.Scale(-2)
	require.Equal(t, complex128(-2), at(t, sc, lattice.MustNew(0), 0, 0))

	require.NoError(t, sc.Merge(s, 2))
	require.True(t, sc.AllClose(mustStore(t, 1, 1, hopping.Sparse), 1e-12))

	other := mustStore(t, 2, 1, hopping.Dense)
	require.ErrorIs(t, s.Merge(other, 1), hopping.ErrDimensionMismatch)
}

// TestReindex checks M'[a,b] = M[idx[a], idx[b]] including repeats.
func TestReindex(t *testing.T) {
	for _, b := range backings {
		s := mustStore(t, 2, 1, b)
		require.NoError(t, s.Set(lattice.MustNew(0), cmatrix.MustFromRows([][]complex128{{1, 2}, {3, 4}})))

		perm, err := s.Reindex([]int{1, 0})
		require.NoError(t, err)
		require.Equal(t, complex128(4), at(t, perm, lattice.MustNew(0), 0, 0))
		require.Equal(t, complex128(3), at(t, perm, lattice.MustNew(0), 0, 1))
		require.Equal(t, b, perm.Backing())

		dup, err := s.Reindex([]int{0, 0, 1})
		require.NoError(t, err)
		require.Equal(t, 3, dup.Size())
		require.Equal(t, complex128(1), at(t, dup, lattice.MustNew(0), 1, 0))

		_, err = s.Reindex([]int{2})
		require.ErrorIs(t, err, cmatrix.ErrOutOfRange)
	}
}

// TestWithBackingAndMapEntries checks backing conversion and entry mapping.
func TestWithBackingAndMapEntries(t *testing.T) {
	s := mustStore(t, 2, 1, hopping.Dense)
	require.NoError(t, s.AddAt(lattice.MustNew(0), 0, 0, 1))
	require.NoError(t, s.AddAt(lattice.MustNew(1), 0, 1, 0.01))

	sp, err := s.WithBacking(hopping.Sparse)
	require.NoError(t, err)
	require.Equal(t, hopping.Sparse, sp.Backing())
	require.True(t, sp.AllClose(s, 0))

	small := s.MapEntries(func(_ lattice.Vector, _, _ int, v complex128) complex128 {
		if real(v) < 0.1 {
			return 0
		}
		return v
	})
	require.Equal(t, 1, small.Len())
	_, ok := small.Get(lattice.MustNew(1))
	require.False(t, ok)
}
