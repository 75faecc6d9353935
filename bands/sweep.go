// SPDX-License-Identifier: MIT

// Package bands - band-structure evaluation over many k-points.
//
// Purpose:
//   - Sweep evaluates an eigenvalue function on a list of k-points with a
//     bounded worker pool and an optional deadline. Models are immutable, so
//     workers share them read-only.
//   - Path builds a piecewise-linear k-path through high-symmetry nodes.
//
// Determinism:
//   - Results are returned in input order regardless of scheduling.
//   - The first failing k-point cancels the remaining work and its error is
//     returned.
package bands

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/tbmodels/kdotp"
	"github.com/katalvlaran/tbmodels/tb"
)

// EigenFunc returns the eigenvalues at one k-point.
type EigenFunc func(k []float64) ([]float64, error)

// TightBinding adapts m.Eigenval under convention conv.
func TightBinding(m *tb.Model, conv tb.Convention) EigenFunc {
	return func(k []float64) ([]float64, error) { return m.Eigenval(k, conv) }
}

// KdotP adapts m.Eigenval.
func KdotP(m *kdotp.Model) EigenFunc {
	return m.Eigenval
}

const panicWorkersInvalid = "bands: WithWorkers: n must be >= 1"

// Option configures Sweep.
type Option func(*Options)

// Options is the resolved Sweep configuration.
type Options struct {
	workers int
	timeout time.Duration
	logger  *slog.Logger
}

// WithWorkers bounds the number of concurrent evaluations (default GOMAXPROCS).
func WithWorkers(n int) Option {
	if n < 1 {
		panic(panicWorkersInvalid)
	}

	return func(o *Options) { o.workers = n }
}

// WithTimeout cancels the sweep after d; zero means no deadline.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) { o.timeout = d }
}

// WithLogger sets the logger for sweep records (default: discard).
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.logger = l }
}

func gatherOptions(user ...Option) Options {
	o := Options{workers: runtime.GOMAXPROCS(0)}
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

// Sweep evaluates fn at every k-point and returns the eigenvalue lists in
// input order.
//
// Errors: ErrNilFunc; ErrDimensionMismatch when the k-points differ in
// length; the context error on cancellation or deadline; otherwise the first
// error returned by fn, annotated with the k-point index.
//
// Complexity: O(len(kpoints) · cost(fn) / workers).
func Sweep(ctx context.Context, fn EigenFunc, kpoints [][]float64, opts ...Option) ([][]float64, error) {
	if fn == nil {
		return nil, bandsErrorf(opSweep, ErrNilFunc)
	}
	for i, k := range kpoints {
		if len(k) != len(kpoints[0]) {
			return nil, bandsErrorf(opSweep, fmt.Errorf("k-point %d has %d components, want %d: %w", i, len(k), len(kpoints[0]), ErrDimensionMismatch))
		}
	}
	o := gatherOptions(opts...)
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	start := time.Now()
	out := make([][]float64, len(kpoints))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i := range kpoints {
		if err := gctx.Err(); err != nil {
			g.Go(func() error { return err })
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ev, err := fn(kpoints[i])
			if err != nil {
				return fmt.Errorf("k-point %d: %w", i, err)
			}
			out[i] = ev

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, bandsErrorf(opSweep, err)
	}
	o.logger.Debug("band sweep", "kpoints", len(kpoints), "workers", o.workers, "elapsed", time.Since(start))

	return out, nil
}
