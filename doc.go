// Package tbmodels is a toolkit for tight-binding models: build them,
// evaluate their Bloch Hamiltonians, project them onto a symmetry group and
// expand them into k·p models.
//
// 🚀 What is inside?
//
//	• Models: hopping matrices keyed by lattice vectors, dense or sparse
//	• Hamiltonians: H(k) in the periodic (0) and position-phase (1) conventions
//	• Symmetrization: group closure, antiunitary operations, parallel averaging
//	• Orbital reindexing: reorder, select or repeat orbitals
//	• k·p models: polynomial Hamiltonians and their algebra
//	• I/O: versioned archives (JSON/YAML, zstd/lz4) and Wannier90 hr files
//
// Packages:
//
//	lattice/   - integer lattice vectors, also used as k·p powers
//	cmatrix/   - complex matrices (dense, sparse), Hermitian eigenvalues
//	hopping/   - the R → matrix store behind every model
//	symmetry/  - symmetry operations, composition and group closure
//	tb/        - Model, Builder, Hamilton, Symmetrize, SliceOrbitals, derived models
//	kdotp/     - k·p models and the expansion of a tb.Model around k0
//	bands/     - concurrent eigenvalue sweeps and k-paths
//	codec/     - archive documents, framing and YAML input files
//	w90/       - Wannier90 *_hr.dat reader and writer
//	store/     - archive persistence on disk or in MinIO/S3 buckets
//
// Quick example, a one-orbital chain:
//
//	b, _ := tb.NewBuilder(1, 1)
//	_ = b.AddHop(-1, 0, 0, lattice.MustNew(1))
//	m, _ := b.Build()
//	ev, _ := m.Eigenval([]float64{0.25}, tb.Convention0) // [0]
//
// The tbmodels command (cmd/tbmodels) exposes the same operations on files.
//
//	go install github.com/katalvlaran/tbmodels/cmd/tbmodels@latest
package tbmodels
