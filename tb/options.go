// SPDX-License-Identifier: MIT

// Package tb: functional configuration for model construction and for the
// symmetrization engine. Defaults below are the single source of truth;
// WithX constructors panic only on nonsensical values (programmer error).

package tb

import (
	"log/slog"
	"math"
	"runtime"

	"github.com/katalvlaran/tbmodels/hopping"
	"github.com/katalvlaran/tbmodels/symmetry"
)

// Numeric policy.
const (
	// DefaultHermitianTolerance bounds max |H_ij − conj(H_ji)| accepted by
	// Eigenval and by FromHoppings input validation.
	DefaultHermitianTolerance = 1e-8

	// DefaultLatticeTolerance bounds the distance of a rotated lattice vector
	// from the nearest integer vector.
	DefaultLatticeTolerance = 1e-6

	// DefaultPruneTolerance is the Frobenius norm at or below which a
	// symmetrized term is dropped.
	DefaultPruneTolerance = 1e-12

	// DefaultCompatTolerance is the tolerance on positions and unit cells when
	// combining models.
	DefaultCompatTolerance = 1e-6

	// DefaultPositionTolerance bounds the distance, in reduced coordinates of
	// the folded cell, between positions of orbitals FoldModel treats as equal.
	DefaultPositionTolerance = 1e-3
)

// Construction defaults.
const (
	// DefaultBacking is the storage mode of new models.
	DefaultBacking = hopping.Dense

	// DefaultReducePositions maps positions into [0, 1).
	DefaultReducePositions = true
)

const (
	panicTolInvalid     = "tb: tolerance must be finite, non-negative"
	panicOccInvalid     = "tb: WithOcc: occ must be >= 0"
	panicWorkersInvalid = "tb: WithWorkers: n must be >= 1"
)

// ---------- Model construction options ----------

// Option configures NewBuilder and FromHoppings.
type Option func(*Options)

// Options is the resolved construction configuration.
type Options struct {
	uc        [][]float64
	pos       [][]float64
	occ       int
	hasOcc    bool
	backing   hopping.Backing
	reducePos bool
	half      bool
	hermTol   float64
}

// WithUnitCell sets the unit cell; row d is the d-th basis vector.
func WithUnitCell(uc [][]float64) Option {
	return func(o *Options) { o.uc = uc }
}

// WithPositions sets the fractional orbital positions (size rows of dim values).
// Without it every orbital sits at the origin.
func WithPositions(pos [][]float64) Option {
	return func(o *Options) { o.pos = pos }
}

// WithOcc sets the number of occupied states. Panics on a negative count.
func WithOcc(occ int) Option {
	if occ < 0 {
		panic(panicOccInvalid)
	}

	return func(o *Options) { o.occ, o.hasOcc = occ, true }
}

// WithBacking selects dense or sparse hopping matrices.
func WithBacking(b hopping.Backing) Option {
	return func(o *Options) { o.backing = b }
}

// WithSparse is WithBacking(hopping.Sparse).
func WithSparse() Option { return WithBacking(hopping.Sparse) }

// WithoutPositionReduction keeps positions outside [0, 1) as given.
func WithoutPositionReduction() Option {
	return func(o *Options) { o.reducePos = false }
}

// WithHalfHoppings marks FromHoppings input as the reduced representation:
// each term M at R also contributes M^H at −R (so the R=0 term becomes M + M^H).
func WithHalfHoppings() Option {
	return func(o *Options) { o.half = true }
}

// WithHermitianTolerance overrides DefaultHermitianTolerance.
func WithHermitianTolerance(tol float64) Option {
	mustTol(tol)

	return func(o *Options) { o.hermTol = tol }
}

func gatherOptions(user ...Option) Options {
	o := Options{
		backing:   DefaultBacking,
		reducePos: DefaultReducePositions,
		hermTol:   DefaultHermitianTolerance,
	}
	for _, set := range user {
		if set != nil {
			set(&o)
		}
	}

	return o
}

// ---------- Folding options ----------

// FoldOption configures Model.FoldModel.
type FoldOption func(*FoldOptions)

// FoldOptions is the resolved folding configuration.
type FoldOptions struct {
	targets []int
	posTol  float64
}

// WithTargetOrbitals picks the orbitals that make up the folded cell, in
// order. Without it the orbitals inside the folded cell at the offset are used.
func WithTargetOrbitals(idx ...int) FoldOption {
	idx = append([]int(nil), idx...)

	return func(o *FoldOptions) { o.targets = idx }
}

// WithPositionTolerance overrides DefaultPositionTolerance.
func WithPositionTolerance(tol float64) FoldOption {
	mustTol(tol)

	return func(o *FoldOptions) { o.posTol = tol }
}

func gatherFoldOptions(user ...FoldOption) FoldOptions {
	o := FoldOptions{posTol: DefaultPositionTolerance}
	for _, set := range user {
		if set != nil {
			set(&o)
		}
	}

	return o
}

// ---------- Symmetrization options ----------

// SymmetrizeOption configures Model.Symmetrize.
type SymmetrizeOption func(*SymmetrizeOptions)

// SymmetrizeOptions is the resolved symmetrization configuration.
type SymmetrizeOptions struct {
	fullGroup bool
	latTol    float64
	pruneTol  float64
	groupTol  float64
	maxOrder  int
	workers   int
	logger    *slog.Logger
}

// WithFullGroup expands the operations to the group they generate before averaging.
func WithFullGroup() SymmetrizeOption {
	return func(o *SymmetrizeOptions) { o.fullGroup = true }
}

// WithLatticeTolerance overrides DefaultLatticeTolerance.
func WithLatticeTolerance(tol float64) SymmetrizeOption {
	mustTol(tol)

	return func(o *SymmetrizeOptions) { o.latTol = tol }
}

// WithPruneTolerance overrides DefaultPruneTolerance.
func WithPruneTolerance(tol float64) SymmetrizeOption {
	mustTol(tol)

	return func(o *SymmetrizeOptions) { o.pruneTol = tol }
}

// WithGroupTolerance overrides symmetry.DefaultTolerance for group closure.
func WithGroupTolerance(tol float64) SymmetrizeOption {
	mustTol(tol)

	return func(o *SymmetrizeOptions) { o.groupTol = tol }
}

// WithMaxGroupOrder overrides symmetry.DefaultMaxOrder for group closure.
func WithMaxGroupOrder(n int) SymmetrizeOption {
	if n < 1 {
		panic("tb: WithMaxGroupOrder: n must be >= 1")
	}

	return func(o *SymmetrizeOptions) { o.maxOrder = n }
}

// WithWorkers bounds the number of operations transformed concurrently.
func WithWorkers(n int) SymmetrizeOption {
	if n < 1 {
		panic(panicWorkersInvalid)
	}

	return func(o *SymmetrizeOptions) { o.workers = n }
}

// WithLogger attaches a logger for debug records. Nil keeps the engine silent.
func WithLogger(l *slog.Logger) SymmetrizeOption {
	return func(o *SymmetrizeOptions) { o.logger = l }
}

func gatherSymmetrizeOptions(user ...SymmetrizeOption) SymmetrizeOptions {
	o := SymmetrizeOptions{
		latTol:   DefaultLatticeTolerance,
		pruneTol: DefaultPruneTolerance,
		groupTol: symmetry.DefaultTolerance,
		maxOrder: symmetry.DefaultMaxOrder,
		workers:  runtime.GOMAXPROCS(0),
	}
	for _, set := range user {
		if set != nil {
			set(&o)
		}
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	return o
}

func mustTol(tol float64) {
	if tol < 0 || math.IsNaN(tol) || math.IsInf(tol, 0) {
		panic(panicTolInvalid)
	}
}
