// SPDX-License-Identifier: MIT

package tb

import (
	"fmt"

	"github.com/katalvlaran/tbmodels/cmatrix"
)

// SliceOrbitals returns a model over the orbitals listed in idx:
// pos'[a] = pos[idx[a]] and hop'[R][a,b] = hop[R][idx[a], idx[b]].
//
// idx need not be a permutation: repeats duplicate an orbital (e.g. to add a
// spin channel) and omissions drop orbitals. Every entry must lie in
// [0, size), otherwise the error wraps ErrOrbitalIndex.
// Occupation and unit cell are carried over unchanged.
//
// Complexity: O(|R|·len(idx)^2).
func (m *Model) SliceOrbitals(idx []int) (*Model, error) {
	if len(idx) == 0 {
		return nil, tbErrorf(opSlice, fmt.Errorf("empty index map: %w", ErrOrbitalIndex))
	}
	for a, i := range idx {
		if i < 0 || i >= m.size {
			return nil, tbErrorf(opSlice, fmt.Errorf("index_map[%d]=%d not in [0,%d): %w: %w", a, i, m.size, ErrOrbitalIndex, cmatrix.ErrOutOfRange))
		}
	}
	store, err := m.hop.Reindex(idx)
	if err != nil {
		return nil, tbErrorf(opSlice, err)
	}
	out := m.withStore(store)
	out.size = len(idx)
	out.pos = make([]float64, len(idx)*m.dim)
	for a, i := range idx {
		copy(out.pos[a*m.dim:(a+1)*m.dim], m.pos[i*m.dim:(i+1)*m.dim])
	}

	return out, nil
}
