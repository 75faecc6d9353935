// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/tbmodels/codec"
	"github.com/katalvlaran/tbmodels/internal/config"
	"github.com/katalvlaran/tbmodels/internal/logging"
	"github.com/katalvlaran/tbmodels/kdotp"
	"github.com/katalvlaran/tbmodels/store"
	"github.com/katalvlaran/tbmodels/tb"
)

// storeScheme marks a model reference that lives in the archive store.
const storeScheme = "store:"

var (
	errNoOutput    = errors.New("missing output (-o)")
	errNegativeOcc = errors.New("--occ must be >= 0")
)

// app carries the resolved configuration shared by all subcommands.
type app struct {
	cfg    *config.Config
	log    *slog.Logger
	archives store.Store
}

// globalFlags mirror the environment settings they override.
type globalFlags struct {
	logLevel    string
	logFormat   string
	store       string
	storeRoot   string
	workers     int
	timeout     time.Duration
	format      string
	compression string
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var gf globalFlags
	root := &cobra.Command{
		Use:           "tbmodels",
		Short:         "Tight-binding model toolkit",
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `tbmodels reads Wannier90 hr files, symmetrizes tight-binding models,
evaluates band energies and derives k·p models.

Settings come from TBMODELS_* environment variables; flags override them.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd, &gf)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&gf.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&gf.logFormat, "log-format", "", "log format (text, json)")
	pf.StringVar(&gf.store, "store", "", "archive store backend (local, minio)")
	pf.StringVar(&gf.storeRoot, "store-root", "", "local store directory")
	pf.IntVar(&gf.workers, "workers", 0, "parallel workers (0: GOMAXPROCS)")
	pf.DurationVar(&gf.timeout, "timeout", 0, "deadline for long computations (0: none)")
	pf.StringVar(&gf.format, "format", "", "archive encoding (json, yaml)")
	pf.StringVar(&gf.compression, "compression", "", "archive compression (none, lz4, zstd)")

	root.AddCommand(
		newInfoCmd(a),
		newParseCmd(a),
		newWriteHRCmd(a),
		newEigenvalsCmd(a),
		newSymmetrizeCmd(a),
		newSliceCmd(a),
		newKdotpCmd(a),
		newStoreCmd(a),
	)

	return root
}

// setup loads the environment, applies changed flags and builds the logger.
func (a *app) setup(cmd *cobra.Command, gf *globalFlags) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	override := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	override("log-level", func() { cfg.LogLevel = gf.logLevel })
	override("log-format", func() { cfg.LogFormat = gf.logFormat })
	override("store", func() { cfg.Store = gf.store })
	override("store-root", func() { cfg.StoreRoot = gf.storeRoot })
	override("workers", func() { cfg.Workers = gf.workers })
	override("timeout", func() { cfg.Timeout = gf.timeout })
	override("format", func() { cfg.Format = gf.format })
	override("compression", func() { cfg.Compression = gf.compression })
	if err = cfg.Validate(); err != nil {
		return err
	}
	if a.log, err = logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}
	a.cfg = cfg

	return nil
}

// openStore connects the configured backend once per invocation.
func (a *app) openStore(ctx context.Context) (store.Store, error) {
	if a.archives == nil {
		s, err := a.cfg.OpenStore(ctx)
		if err != nil {
			return nil, err
		}
		a.archives = s
	}

	return a.archives, nil
}

// readModel loads a model from a file path or a store reference.
func (a *app) readModel(ctx context.Context, ref string) (*tb.Model, error) {
	if name, ok := strings.CutPrefix(ref, storeScheme); ok {
		s, err := a.openStore(ctx)
		if err != nil {
			return nil, err
		}

		return store.LoadModel(ctx, s, name)
	}
	data, err := os.ReadFile(ref)
	if err != nil {
		return nil, err
	}
	m, err := codec.DecodeModel(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ref, err)
	}

	return m, nil
}

// writeModel stores m at a file path or a store reference.
func (a *app) writeModel(ctx context.Context, ref string, m *tb.Model) error {
	if ref == "" {
		return errNoOutput
	}
	if name, ok := strings.CutPrefix(ref, storeScheme); ok {
		s, err := a.openStore(ctx)
		if err != nil {
			return err
		}

		return store.SaveModel(ctx, s, name, m, a.cfg.CodecOptions()...)
	}
	data, err := codec.EncodeModel(m, a.cfg.CodecOptions()...)
	if err != nil {
		return err
	}

	return os.WriteFile(ref, data, 0o644)
}

// writeKdotp stores a K·p model at a file path or a store reference.
func (a *app) writeKdotp(ctx context.Context, ref string, m *kdotp.Model) error {
	if ref == "" {
		return errNoOutput
	}
	if name, ok := strings.CutPrefix(ref, storeScheme); ok {
		s, err := a.openStore(ctx)
		if err != nil {
			return err
		}

		return store.SaveKdotp(ctx, s, name, m, a.cfg.CodecOptions()...)
	}
	data, err := codec.EncodeKdotp(m, a.cfg.CodecOptions()...)
	if err != nil {
		return err
	}

	return os.WriteFile(ref, data, 0o644)
}

// symmetrizeOptions returns the symmetrization options implied by the config.
func (a *app) symmetrizeOptions() []tb.SymmetrizeOption {
	opts := []tb.SymmetrizeOption{tb.WithLogger(a.log)}
	if a.cfg.Workers > 0 {
		opts = append(opts, tb.WithWorkers(a.cfg.Workers))
	}

	return opts
}
