// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/tbmodels/bands"
	"github.com/katalvlaran/tbmodels/codec"
	"github.com/katalvlaran/tbmodels/kdotp"
	"github.com/katalvlaran/tbmodels/tb"
	"github.com/katalvlaran/tbmodels/w90"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <model>",
		Short: "Print a summary of a model archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.readModel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, m)
			if occ, ok := m.Occ(); ok {
				fmt.Fprintf(out, "occupation: %d\n", occ)
			}
			if m.HasUnitCell() {
				fmt.Fprintf(out, "unit cell: %v\n", m.UnitCell())
			}
			for i, p := range m.Positions() {
				fmt.Fprintf(out, "orbital %d: %v\n", i, p)
			}
			fmt.Fprintf(out, "lattice vectors: %v\n", m.Keys())

			return nil
		},
	}
}

func newParseCmd(a *app) *cobra.Command {
	var (
		output string
		cutoff float64
		occ    int
		sparse bool
	)
	cmd := &cobra.Command{
		Use:   "parse <hr.dat>",
		Short: "Convert a Wannier90 hr file into a model archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if occ < 0 {
				return fmt.Errorf("%w, got %d", errNegativeOcc, occ)
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			var mopts []tb.Option
			if cmd.Flags().Changed("occ") {
				mopts = append(mopts, tb.WithOcc(occ))
			}
			if sparse {
				mopts = append(mopts, tb.WithSparse())
			}
			m, err := w90.ReadHR(f, w90.WithCutoff(cutoff), w90.WithModelOptions(mopts...))
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			a.log.Info("parsed hr file", "path", args[0], "size", m.Size(), "terms", len(m.Keys()))

			return a.writeModel(cmd.Context(), output, m)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output archive (path or store:<name>)")
	cmd.Flags().Float64Var(&cutoff, "cutoff", 0, "drop hoppings with |t| <= cutoff")
	cmd.Flags().IntVar(&occ, "occ", 0, "number of occupied states")
	cmd.Flags().BoolVar(&sparse, "sparse", false, "store hopping matrices sparsely")

	return cmd
}

func newWriteHRCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "write-hr <model>",
		Short: "Export a three-dimensional model in Wannier90 hr format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.readModel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if output == "" {
				return w90.WriteHR(cmd.OutOrStdout(), m)
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err = w90.WriteHR(f, m); err != nil {
				_ = f.Close()
				return err
			}

			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}

// bandsOutput is the YAML document written by eigenvals.
type bandsOutput struct {
	Kpoints     [][]float64 `yaml:"kpoints"`
	Eigenvalues [][]float64 `yaml:"eigenvalues"`
}

func newEigenvalsCmd(a *app) *cobra.Command {
	var (
		kpointsFile string
		convention  int
		output      string
	)
	cmd := &cobra.Command{
		Use:   "eigenvals <model>",
		Short: "Compute band energies at the k-points of a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conv, err := tb.ParseConvention(convention)
			if err != nil {
				return err
			}
			m, err := a.readModel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(kpointsFile)
			if err != nil {
				return err
			}
			ks, err := codec.ParseKpoints(data)
			if err != nil {
				return fmt.Errorf("%s: %w", kpointsFile, err)
			}
			opts := []bands.Option{bands.WithTimeout(a.cfg.Timeout), bands.WithLogger(a.log)}
			if a.cfg.Workers > 0 {
				opts = append(opts, bands.WithWorkers(a.cfg.Workers))
			}
			ev, err := bands.Sweep(cmd.Context(), bands.TightBinding(m, conv), ks, opts...)
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(bandsOutput{Kpoints: ks, Eigenvalues: ev})
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}

			return os.WriteFile(output, out, 0o644)
		},
	}
	cmd.Flags().StringVarP(&kpointsFile, "kpoints", "k", "", "YAML k-point file (points or path)")
	cmd.Flags().IntVar(&convention, "convention", 1, "Hamiltonian convention (0 or 1)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output YAML file (default stdout)")
	_ = cmd.MarkFlagRequired("kpoints")

	return cmd
}

func newSymmetrizeCmd(a *app) *cobra.Command {
	var (
		symFile string
		output  string
	)
	cmd := &cobra.Command{
		Use:   "symmetrize <model>",
		Short: "Symmetrize a model with the groups of a symmetry file",
		Long: `Apply every group of the symmetry file in order. A group marked
full_group is used as given; otherwise it is closed under composition first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.readModel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(symFile)
			if err != nil {
				return err
			}
			groups, err := codec.ParseSymmetries(data)
			if err != nil {
				return fmt.Errorf("%s: %w", symFile, err)
			}
			start := time.Now()
			for i, g := range groups {
				ops, err := g.Ops()
				if err != nil {
					return fmt.Errorf("group %d: %w", i, err)
				}
				opts := a.symmetrizeOptions()
				if g.FullGroup {
					opts = append(opts, tb.WithFullGroup())
				}
				if m, err = m.Symmetrize(ops, opts...); err != nil {
					return fmt.Errorf("group %d: %w", i, err)
				}
			}
			a.log.Info("symmetrized", "groups", len(groups), "terms", len(m.Keys()), "elapsed", time.Since(start))

			return a.writeModel(cmd.Context(), output, m)
		},
	}
	cmd.Flags().StringVarP(&symFile, "symmetries", "s", "", "symmetry file (YAML or archive)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output archive (path or store:<name>)")
	_ = cmd.MarkFlagRequired("symmetries")

	return cmd
}

func newSliceCmd(a *app) *cobra.Command {
	var (
		orbitals []int
		output   string
	)
	cmd := &cobra.Command{
		Use:   "slice <model>",
		Short: "Reorder, select or repeat orbitals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.readModel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out, err := m.SliceOrbitals(orbitals)
			if err != nil {
				return err
			}

			return a.writeModel(cmd.Context(), output, out)
		},
	}
	cmd.Flags().IntSliceVar(&orbitals, "orbitals", nil, "new orbital order as old indices, e.g. 1,0,2")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output archive (path or store:<name>)")
	_ = cmd.MarkFlagRequired("orbitals")

	return cmd
}

func newKdotpCmd(a *app) *cobra.Command {
	var (
		k0     []float64
		order  int
		output string
	)
	cmd := &cobra.Command{
		Use:   "kdotp <model>",
		Short: "Expand a model into a k·p model around k0",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.readModel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(k0) == 0 {
				k0 = make([]float64, m.Dim())
			}
			kp, err := kdotp.FromTightBinding(m, k0, order)
			if err != nil {
				return err
			}
			a.log.Info("k·p expansion", "order", order, "terms", kp.Len())

			return a.writeKdotp(cmd.Context(), output, kp)
		},
	}
	cmd.Flags().Float64SliceVar(&k0, "k0", nil, "expansion point in reduced coordinates (default Γ)")
	cmd.Flags().IntVar(&order, "order", 2, "maximum total power of k")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output archive (path or store:<name>)")

	return cmd
}

func newStoreCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Inspect the archive store",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list [prefix]",
			Short: "List stored archives",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := a.openStore(cmd.Context())
				if err != nil {
					return err
				}
				var prefix string
				if len(args) == 1 {
					prefix = args[0]
				}
				names, err := s.List(cmd.Context(), prefix)
				if err != nil {
					return err
				}
				for _, n := range names {
					fmt.Fprintln(cmd.OutOrStdout(), n)
				}

				return nil
			},
		},
		&cobra.Command{
			Use:   "rm <name>...",
			Short: "Delete stored archives",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := a.openStore(cmd.Context())
				if err != nil {
					return err
				}
				for _, n := range args {
					if err = s.Delete(cmd.Context(), n); err != nil {
						return err
					}
				}

				return nil
			},
		},
	)

	return cmd
}
