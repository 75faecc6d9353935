package tb_test

import (
	"fmt"

	"github.com/katalvlaran/tbmodels/cmatrix"
	"github.com/katalvlaran/tbmodels/lattice"
	"github.com/katalvlaran/tbmodels/symmetry"
	"github.com/katalvlaran/tbmodels/tb"
)

// ExampleBuilder builds a 1D chain with hopping 1, whose band is 2·cos(2πk).
func ExampleBuilder() {
	b, err := tb.NewBuilder(1, 1, tb.WithOcc(1))
	if err != nil {
		fmt.Println(err)
		return
	}
	if err = b.AddHop(1, 0, 0, lattice.MustNew(1)); err != nil {
		fmt.Println(err)
		return
	}
	m, err := b.Build()
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, k := range []float64{0, 0.25, 0.5} {
		ev, _ := m.Eigenval([]float64{k}, tb.Convention0)
		fmt.Printf("k=%.2f E=%.3f\n", k, ev[0])
	}
	// Output:
	// k=0.00 E=2.000
	// k=0.25 E=0.000
	// k=0.50 E=-2.000
}

// ExampleModel_Symmetrize removes the imaginary part of a hopping with
// spinless time reversal.
func ExampleModel_Symmetrize() {
	b, _ := tb.NewBuilder(1, 1)
	_ = b.AddHop(1+1i, 0, 0, lattice.MustNew(1))
	m, _ := b.Build()

	tr := symmetry.MustNew([][]float64{{1}}, cmatrix.MustFromRows([][]complex128{{1}}), true)
	out, err := m.Symmetrize([]symmetry.Operation{tr}, tb.WithFullGroup())
	if err != nil {
		fmt.Println(err)
		return
	}
	h, _ := out.Hop(lattice.MustNew(1))
	v, _ := h.At(0, 0)
	fmt.Printf("%.1f\n", v)
	// Output:
	// (1.0+0.0i)
}
