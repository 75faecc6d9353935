// SPDX-License-Identifier: MIT

package lattice

import "sort"

// Sort sorts vs in place by Less and returns it.
// Map iteration order is random in Go; every kernel that walks a keyed store
// goes through Sort (or SortedKeys) to keep floating-point sums reproducible.
func Sort(vs []Vector) []Vector {
	sort.Slice(vs, func(a, b int) bool { return vs[a].Less(vs[b]) })

	return vs
}

// SortedKeys returns the keys of m in ascending Less order.
func SortedKeys[T any](m map[Vector]T) []Vector {
	keys := make([]Vector, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	return Sort(keys)
}

// Product enumerates every vector v with 0 <= v[d] < bounds[d], in
// lexicographic order (last coordinate fastest).
// Returns nil when any bound is <= 0.
func Product(bounds []int) []Vector {
	if len(bounds) > MaxDim {
		return nil
	}
	total := 1
	for _, b := range bounds {
		if b <= 0 {
			return nil
		}
		total *= b
	}
	out := make([]Vector, 0, total)
	cur := make([]int, len(bounds))
	for n := 0; n < total; n++ {
		out = append(out, MustNew(cur...))
		// odometer increment
		for d := len(bounds) - 1; d >= 0; d-- {
			cur[d]++
			if cur[d] < bounds[d] {
				break
			}
			cur[d] = 0
		}
	}

	return out
}

// Orders enumerates every non-negative multi-index of dimension dim whose
// total order is <= maxOrder, sorted by Less.
func Orders(dim, maxOrder int) []Vector {
	if dim < 0 || dim > MaxDim || maxOrder < 0 {
		return nil
	}
	bounds := make([]int, dim)
	for d := range bounds {
		bounds[d] = maxOrder + 1
	}
	var out []Vector
	for _, v := range Product(bounds) {
		if v.Sum() <= maxOrder {
			out = append(out, v)
		}
	}

	return out
}
