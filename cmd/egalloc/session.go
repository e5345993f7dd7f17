package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/katalvlaran/fairdiv/egalitarian"
)

// session holds the per-invocation logger and telemetry.
type session struct {
	runID   string
	logger  *slog.Logger
	out     io.Writer
	tracing bool

	metricsOut string
	shutdown   func(context.Context) error
}

// withSession sets up logging and tracing, runs fn and always tears the
// telemetry down again, flushing spans and metrics.
func withSession(cmd *cobra.Command, g *globalFlags, fn func(*session) error) (err error) {
	s, err := newSession(cmd, g)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, s.close(context.WithoutCancel(cmd.Context())))
	}()

	s.logger.Info("egalloc started", "command", cmd.Name())

	return fn(s)
}

func newSession(cmd *cobra.Command, g *globalFlags) (*session, error) {
	logger, err := newLogger(cmd.ErrOrStderr(), g.logLevel, g.logFormat)
	if err != nil {
		return nil, err
	}

	s := &session{
		runID:      uuid.NewString()[:8],
		out:        cmd.OutOrStdout(),
		metricsOut: g.metricsOut,
		shutdown:   func(context.Context) error { return nil },
	}
	s.logger = logger.With("run_id", s.runID)

	switch strings.ToLower(g.trace) {
	case "", "none":
	case "stdout":
		exp, err := stdouttrace.New(stdouttrace.WithWriter(cmd.ErrOrStderr()), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("trace exporter: %w", err)
		}
		tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
		prev := otel.GetTracerProvider()
		otel.SetTracerProvider(tp)
		s.tracing = true
		s.shutdown = func(ctx context.Context) error {
			defer otel.SetTracerProvider(prev)
			return tp.Shutdown(ctx)
		}
	default:
		return nil, fmt.Errorf("unknown --trace %q (want stdout or none)", g.trace)
	}

	return s, nil
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("--log-level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown --log-format %q (want text or json)", format)
	}
}

// searchOptions are appended to every search run in this session.
func (s *session) searchOptions(instance string) []egalitarian.Option {
	return []egalitarian.Option{
		egalitarian.WithLogger(s.logger.With("instance", instance)),
		egalitarian.WithTracing(s.tracing),
	}
}

func (s *session) close(ctx context.Context) error {
	err := s.shutdown(ctx)
	if s.metricsOut != "" {
		err = errors.Join(err, dumpMetrics(s.metricsOut, prometheus.DefaultGatherer))
	}

	return err
}

// dumpMetrics writes every family of g in the Prometheus text format.
func dumpMetrics(path string, g prometheus.Gatherer) error {
	mfs, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("metrics file: %w", err)
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(f, mf); err != nil {
			f.Close()
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	return f.Close()
}

