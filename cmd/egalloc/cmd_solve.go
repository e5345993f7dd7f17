package main

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/fairdiv/egalitarian"
	"github.com/katalvlaran/fairdiv/instance"
)

const tracerName = "github.com/katalvlaran/fairdiv/cmd/egalloc"

// runSolve loads and solves every path with at most jobs searches in
// flight. Reports are written in argument order. A search failure is
// recorded in its report and counted; a file that cannot be loaded stops
// the batch.
func runSolve(ctx context.Context, s *session, paths []string, jobs int, overrides []egalitarian.Option) error {
	reports := make([]*instance.Report, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, path := range paths {
		g.Go(func() error {
			f, err := instance.Load(path)
			if err != nil {
				return err
			}
			r, err := solveOne(gctx, s, f, overrides)
			if r == nil {
				return err
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := instance.Encode(s.out, reports...); err != nil {
		return err
	}

	failed := 0
	for _, r := range reports {
		if r.Error != "" {
			failed++
		}
	}
	s.logger.Info("egalloc finished", "instances", len(reports), "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d instances failed", failed, len(reports))
	}

	return nil
}

// solveOne runs a single search inside its own span.
func solveOne(ctx context.Context, s *session, f *instance.File, overrides []egalitarian.Option) (*instance.Report, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "egalloc.solve",
		trace.WithAttributes(attribute.String("egalloc.instance", f.Name)))
	defer span.End()

	opts := append(append([]egalitarian.Option{}, overrides...), s.searchOptions(f.Name)...)
	start := time.Now()
	r, err := instance.Solve(ctx, f, opts...)
	if err != nil {
		span.RecordError(err)
		s.logger.Warn("instance failed", "instance", f.Name, "error", err)
		return r, err
	}
	s.logger.Info("instance solved",
		"instance", f.Name,
		"kind", r.Kind,
		"min_value", r.MinValue,
		"nodes", r.Stats.Nodes,
		"elapsed", time.Since(start),
	)

	return r, nil
}
