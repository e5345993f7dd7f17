package egalitarian

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "github.com/katalvlaran/fairdiv/egalitarian"

// Search outcome labels for searchTotal.
const (
	resultOK      = "ok"
	resultAborted = "aborted"
	resultInvalid = "invalid"
	resultFailed  = "failed"
)

var (
	// searchTotal counts Search calls by outcome.
	searchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fairdiv_search_total",
		Help: "Egalitarian allocation searches by result",
	}, []string{"result"})

	// searchPrunes counts pruned states by rule.
	searchPrunes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fairdiv_search_prunes_total",
		Help: "Search states pruned, by rule (duplicate, bound, heuristic)",
	}, []string{"rule"})

	// searchNodes counts search states entered.
	searchNodes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fairdiv_search_nodes_total",
		Help: "Search states entered across all searches",
	})

	// searchDuration tracks wall-clock search time.
	searchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fairdiv_search_duration_seconds",
		Help:    "Egalitarian allocation search duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10), // 0.1ms to ~26s
	})
)

// observation brackets one Search call with a span, log records and metrics.
type observation struct {
	ctx    context.Context
	span   trace.Span
	logger *slog.Logger
	start  time.Time
}

func startObservation(ctx context.Context, o *Options, players, items int) *observation {
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ob := &observation{ctx: ctx, span: noop.Span{}, logger: logger, start: time.Now()}
	if o.Tracing {
		ob.ctx, ob.span = otel.Tracer(tracerName).Start(ctx, "egalitarian.search",
			trace.WithAttributes(
				attribute.Int("egalitarian.players", players),
				attribute.Int("egalitarian.items", items),
				attribute.String("egalitarian.branching", o.Branching.String()),
				attribute.Bool("egalitarian.rule_a", o.DuplicatePruning),
				attribute.Bool("egalitarian.rule_b", o.BoundPruning),
				attribute.Bool("egalitarian.heuristic", o.Heuristic),
			),
			trace.WithSpanKind(trace.SpanKindInternal),
		)
	}

	logger.DebugContext(ob.ctx, "egalitarian search started",
		slog.Int("players", players),
		slog.Int("items", items),
		slog.String("branching", o.Branching.String()),
		slog.Bool("duplicate_pruning", o.DuplicatePruning),
		slog.Bool("bound_pruning", o.BoundPruning),
		slog.Bool("heuristic", o.Heuristic),
	)

	return ob
}

// finish records the outcome. minValue is only meaningful when err is nil.
func (ob *observation) finish(st Stats, minValue float64, err error) {
	elapsed := time.Since(ob.start)
	result := outcome(err)

	searchTotal.WithLabelValues(result).Inc()
	searchDuration.Observe(elapsed.Seconds())
	searchNodes.Add(float64(st.Nodes))
	searchPrunes.WithLabelValues("duplicate").Add(float64(st.DuplicatePrunes))
	searchPrunes.WithLabelValues("bound").Add(float64(st.BoundPrunes))
	searchPrunes.WithLabelValues("heuristic").Add(float64(st.HeuristicPrunes))

	ob.span.SetAttributes(
		attribute.String("egalitarian.result", result),
		attribute.Int64("egalitarian.nodes", st.Nodes),
		attribute.Int64("egalitarian.leaves", st.Leaves),
		attribute.Int64("egalitarian.prunes.duplicate", st.DuplicatePrunes),
		attribute.Int64("egalitarian.prunes.bound", st.BoundPrunes),
		attribute.Int64("egalitarian.prunes.heuristic", st.HeuristicPrunes),
		attribute.Int("egalitarian.seen_states", st.SeenStates),
	)
	if err != nil {
		ob.span.RecordError(err)
		ob.span.SetStatus(codes.Error, err.Error())
	} else {
		ob.span.SetAttributes(attribute.Float64("egalitarian.min_value", minValue))
		ob.span.SetStatus(codes.Ok, "")
	}
	ob.span.End()

	attrs := []any{
		slog.String("result", result),
		slog.Int64("nodes", st.Nodes),
		slog.Int64("leaves", st.Leaves),
		slog.Int64("duplicate_prunes", st.DuplicatePrunes),
		slog.Int64("bound_prunes", st.BoundPrunes),
		slog.Int64("heuristic_prunes", st.HeuristicPrunes),
		slog.Duration("elapsed", elapsed),
	}
	switch {
	case err == nil:
		ob.logger.DebugContext(ob.ctx, "egalitarian search completed",
			append(attrs, slog.Float64("min_value", minValue))...)
	case result == resultAborted:
		ob.logger.InfoContext(ob.ctx, "egalitarian search aborted", append(attrs, slog.String("error", err.Error()))...)
	default:
		ob.logger.DebugContext(ob.ctx, "egalitarian search rejected", append(attrs, slog.String("error", err.Error()))...)
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return resultOK
	case errors.Is(err, ErrSearchAborted):
		return resultAborted
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrBadOption):
		return resultInvalid
	default:
		return resultFailed
	}
}
