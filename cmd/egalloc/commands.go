package main

import (
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/fairdiv/egalitarian"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	logLevel   string
	logFormat  string
	trace      string
	metricsOut string
}

// searchFlags override the settings block of each instance file.
type searchFlags struct {
	jobs            int
	branching       string
	noDedup         bool
	noBound         bool
	exact           bool
	heuristicMargin float64
	timeout         time.Duration
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "egalloc",
		Short: "Max-min fair allocation of indivisible items",
		Long: `egalloc finds allocations of indivisible items that maximise the
value received by the worst-off player, using an exact branch-and-bound
search with optional heuristic modes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&g.logFormat, "log-format", "text", "log format (text, json)")
	pf.StringVar(&g.trace, "trace", "none", "span exporter (stdout, none)")
	pf.StringVar(&g.metricsOut, "metrics-out", "", "write Prometheus metrics to this file on exit")

	root.AddCommand(newSolveCmd(g), newCompareCmd(g))

	return root
}

func newSolveCmd(g *globalFlags) *cobra.Command {
	sf := &searchFlags{}
	cmd := &cobra.Command{
		Use:   "solve FILE...",
		Short: "Solve each instance and print YAML reports",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, g, func(s *session) error {
				overrides, err := sf.options(cmd)
				if err != nil {
					return err
				}
				return runSolve(cmd.Context(), s, args, sf.jobs, overrides)
			})
		},
	}
	sf.register(cmd, true)

	return cmd
}

func newCompareCmd(g *globalFlags) *cobra.Command {
	sf := &searchFlags{}
	cmd := &cobra.Command{
		Use:   "compare FILE...",
		Short: "Compare the exact search with the heuristic modes",
		Long: `compare solves every instance three times: exact, weakest-first
branching and the heuristic bound. It reports each mode's minimum value and
whether the mode fell below the optimum.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, g, func(s *session) error {
				return runCompare(cmd.Context(), s, args, sf)
			})
		},
	}
	sf.register(cmd, false)

	return cmd
}

func (sf *searchFlags) register(cmd *cobra.Command, overrides bool) {
	f := cmd.Flags()
	f.IntVarP(&sf.jobs, "jobs", "j", runtime.GOMAXPROCS(0), "instances solved in parallel")
	f.Float64Var(&sf.heuristicMargin, "heuristic-margin", egalitarian.DefaultHeuristicMargin,
		"enable the heuristic bound with this margin in [0,1)")
	f.DurationVar(&sf.timeout, "timeout", 0, "per-search time limit (0 = none)")
	if overrides {
		f.StringVar(&sf.branching, "branching", "full", "branching mode (full, weakest-first)")
		f.BoolVar(&sf.noDedup, "no-dedup", false, "disable duplicate-state pruning")
		f.BoolVar(&sf.noBound, "no-bound", false, "disable the optimistic bound")
		f.BoolVar(&sf.exact, "exact", false, "force full branching without the heuristic bound, whatever the file says")
		cmd.MarkFlagsMutuallyExclusive("exact", "branching")
		cmd.MarkFlagsMutuallyExclusive("exact", "heuristic-margin")
	}
}

// options returns only the overrides the user set explicitly, so unset
// flags leave the file settings in force.
func (sf *searchFlags) options(cmd *cobra.Command) ([]egalitarian.Option, error) {
	var opts []egalitarian.Option
	f := cmd.Flags()
	if f.Changed("branching") {
		mode, err := egalitarian.ParseBranchingMode(sf.branching)
		if err != nil {
			return nil, err
		}
		opts = append(opts, egalitarian.WithBranching(mode))
	}
	if sf.exact {
		opts = append(opts, egalitarian.WithBranching(egalitarian.BranchFull), exactOnly)
	}
	if sf.noDedup {
		opts = append(opts, egalitarian.WithDuplicatePruning(false))
	}
	if sf.noBound {
		opts = append(opts, egalitarian.WithBoundPruning(false))
	}
	if f.Changed("heuristic-margin") {
		if err := checkMargin(sf.heuristicMargin); err != nil {
			return nil, err
		}
		opts = append(opts, egalitarian.WithHeuristicBound(sf.heuristicMargin))
	}
	if sf.timeout > 0 {
		opts = append(opts, egalitarian.WithTimeLimit(sf.timeout))
	}

	return opts, nil
}

func checkMargin(m float64) error {
	if math.IsNaN(m) || m < 0 || m >= 1 {
		return fmt.Errorf("%w: --heuristic-margin %v outside [0,1)", egalitarian.ErrBadOption, m)
	}

	return nil
}
