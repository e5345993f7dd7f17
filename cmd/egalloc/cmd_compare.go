package main

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/fairdiv/egalitarian"
	"github.com/katalvlaran/fairdiv/instance"
)

// modeResult is one search mode's outcome in a comparison.
type modeResult struct {
	Mode         string `yaml:"mode"`
	MinValue     any    `yaml:"min_value,omitempty"`
	BelowOptimum bool   `yaml:"below_optimum"`
	Nodes        int64  `yaml:"nodes"`
	Elapsed      string `yaml:"elapsed"`
	Error        string `yaml:"error,omitempty"`
}

// comparison lists every mode for one instance, exact first.
type comparison struct {
	Name    string       `yaml:"name"`
	Optimum any          `yaml:"optimum,omitempty"`
	Modes   []modeResult `yaml:"modes"`
}

type compareMode struct {
	name string
	opts []egalitarian.Option
}

// exactOnly clears any heuristic bound set by the file.
func exactOnly(o *egalitarian.Options) { o.Heuristic = false }

func compareModes(margin float64) []compareMode {
	return []compareMode{
		{"exact", []egalitarian.Option{egalitarian.WithBranching(egalitarian.BranchFull), exactOnly}},
		{"weakest-first", []egalitarian.Option{egalitarian.WithBranching(egalitarian.BranchWeakestFirst), exactOnly}},
		{"heuristic-bound", []egalitarian.Option{egalitarian.WithBranching(egalitarian.BranchFull), egalitarian.WithHeuristicBound(margin)}},
	}
}

func runCompare(ctx context.Context, s *session, paths []string, sf *searchFlags) error {
	if err := checkMargin(sf.heuristicMargin); err != nil {
		return err
	}
	modes := compareModes(sf.heuristicMargin)
	out := make([]comparison, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	if sf.jobs > 0 {
		g.SetLimit(sf.jobs)
	}
	for i, path := range paths {
		g.Go(func() error {
			f, err := instance.Load(path)
			if err != nil {
				return err
			}
			out[i] = compareOne(gctx, s, f, modes, sf.timeout)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	enc := yaml.NewEncoder(s.out)
	enc.SetIndent(2)
	for _, c := range out {
		if err := enc.Encode(c); err != nil {
			return fmt.Errorf("encode %s: %w", c.Name, err)
		}
	}

	return enc.Close()
}

func compareOne(ctx context.Context, s *session, f *instance.File, modes []compareMode, timeout time.Duration) comparison {
	c := comparison{Name: f.Name, Modes: make([]modeResult, 0, len(modes))}
	var optimum float64
	exact := false

	for _, m := range modes {
		opts := append(append([]egalitarian.Option{}, m.opts...), s.searchOptions(f.Name)...)
		if timeout > 0 {
			opts = append(opts, egalitarian.WithTimeLimit(timeout))
		}
		mr := modeResult{Mode: m.name}
		r, err := instance.Solve(ctx, f, opts...)
		if r != nil {
			mr.Nodes = r.Stats.Nodes
			mr.Elapsed = r.Stats.Elapsed
		}
		if err != nil {
			mr.Error = err.Error()
			c.Modes = append(c.Modes, mr)
			continue
		}

		mr.MinValue = r.MinValue
		v := asFloat(r.MinValue)
		if m.name == "exact" {
			c.Optimum, optimum, exact = r.MinValue, v, true
		} else if exact && v < optimum {
			mr.BelowOptimum = true
			s.logger.Info("heuristic below optimum",
				"instance", f.Name, "mode", m.name, "min_value", r.MinValue, "optimum", c.Optimum)
		}
		c.Modes = append(c.Modes, mr)
	}

	return c
}

func asFloat(v any) float64 {
	switch x := v.(type) {
	case int64:
		return float64(x)
	case float64:
		return x
	default:
		return 0
	}
}
