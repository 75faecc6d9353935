// SPDX-License-Identifier: MIT

package bands

import "fmt"

// Path returns n evenly spaced points per segment between consecutive nodes,
// followed by the last node: len = n·(len(nodes)−1) + 1.
func Path(nodes [][]float64, n int) ([][]float64, error) {
	if len(nodes) < 2 || n < 1 {
		return nil, bandsErrorf(opPath, fmt.Errorf("%d nodes, %d points per segment: %w", len(nodes), n, ErrInvalidPath))
	}
	dim := len(nodes[0])
	for i, node := range nodes {
		if len(node) != dim {
			return nil, bandsErrorf(opPath, fmt.Errorf("node %d has %d components, want %d: %w", i, len(node), dim, ErrDimensionMismatch))
		}
	}
	out := make([][]float64, 0, n*(len(nodes)-1)+1)
	for s := 0; s+1 < len(nodes); s++ {
		a, b := nodes[s], nodes[s+1]
		for j := 0; j < n; j++ {
			t := float64(j) / float64(n)
			k := make([]float64, dim)
			for d := range k {
				k[d] = a[d] + t*(b[d]-a[d])
			}
			out = append(out, k)
		}
	}
	out = append(out, append([]float64(nil), nodes[len(nodes)-1]...))

	return out, nil
}
