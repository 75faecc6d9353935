package tb_test

import (
	"testing"

	"github.com/katalvlaran/tbmodels/symmetry"
	"github.com/katalvlaran/tbmodels/tb"
)

// benchmarkHamilton assembles H(k) for a supercell of the fixture with the
// given backing options.
func benchmarkHamilton(b *testing.B, cells int, conv tb.Convention, opts ...tb.Option) {
	m, err := fixture(b, 0.2, 0.5, opts...).Supercell([]int{cells, cells, 1})
	if err != nil {
		b.Fatalf("Supercell failed: %v", err)
	}
	k := []float64{0.1, 0.2, 0.3}

	b.ResetTimer() // ignore setup time
	for i := 0; i < b.N; i++ {
		if _, err := m.Hamilton(k, conv); err != nil {
			b.Fatalf("Hamilton failed: %v", err)
		}
	}
}

// BenchmarkHamilton_Dense4 benchmarks a 32-orbital dense model.
func BenchmarkHamilton_Dense4(b *testing.B) { benchmarkHamilton(b, 4, tb.Convention1) }

// BenchmarkHamilton_Sparse4 benchmarks the same model on sparse storage.
func BenchmarkHamilton_Sparse4(b *testing.B) {
	benchmarkHamilton(b, 4, tb.Convention1, tb.WithSparse())
}

// BenchmarkHamilton_Sparse8 benchmarks a 128-orbital sparse model.
func BenchmarkHamilton_Sparse8(b *testing.B) {
	benchmarkHamilton(b, 8, tb.Convention0, tb.WithSparse())
}

// BenchmarkEigenval_Dense2 benchmarks the Hermitian eigensolver on 8 orbitals.
func BenchmarkEigenval_Dense2(b *testing.B) {
	m, err := fixture(b, 0.2, 0.5).Supercell([]int{2, 2, 1})
	if err != nil {
		b.Fatalf("Supercell failed: %v", err)
	}
	k := []float64{0.1, 0.2, 0.3}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := m.Eigenval(k, tb.Convention1); err != nil {
			b.Fatalf("Eigenval failed: %v", err)
		}
	}
}

// BenchmarkSymmetrize_C4T benchmarks the 8-element group generated by C4 and T.
func BenchmarkSymmetrize_C4T(b *testing.B) {
	m := fixture(b, 0.2, 0.5)
	group, err := symmetry.Closure([]symmetry.Operation{rotationC4(), timeReversal()})
	if err != nil {
		b.Fatalf("Closure failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := m.Symmetrize(group); err != nil {
			b.Fatalf("Symmetrize failed: %v", err)
		}
	}
}
