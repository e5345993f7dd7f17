package egalitarian

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestObserve_MetricsByOutcome(t *testing.T) {
	ctx := context.Background()
	ok0 := testutil.ToFloat64(searchTotal.WithLabelValues(resultOK))
	bad0 := testutil.ToFloat64(searchTotal.WithLabelValues(resultInvalid))
	abort0 := testutil.ToFloat64(searchTotal.WithLabelValues(resultAborted))
	nodes0 := testutil.ToFloat64(searchNodes)

	res, err := Search(ctx, Valuations[int64]{{4, 5, 6, 7, 8}, {8, 7, 6, 5, 4}})
	require.NoError(t, err)
	_, err = Search(ctx, Valuations[int64]{{1}, {1, 2}})
	require.Error(t, err)
	_, err = Search(ctx, Valuations[int64]{{1}, {2}}, WithDeadline(time.Now().Add(-time.Second)))
	require.Error(t, err)

	assert.Equal(t, ok0+1, testutil.ToFloat64(searchTotal.WithLabelValues(resultOK)))
	assert.Equal(t, bad0+1, testutil.ToFloat64(searchTotal.WithLabelValues(resultInvalid)))
	assert.Equal(t, abort0+1, testutil.ToFloat64(searchTotal.WithLabelValues(resultAborted)))
	assert.GreaterOrEqual(t, testutil.ToFloat64(searchNodes)-nodes0, float64(res.Stats.Nodes))
}

func TestObserve_SpanRecorded(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	_, err := Search(context.Background(), Valuations[int64]{{10, 1}, {1, 10}}, WithTracing(true))
	require.NoError(t, err)
	_, err = Search(context.Background(), Valuations[int64]{}, WithTracing(true))
	require.Error(t, err)
	_, err = Search(context.Background(), Valuations[int64]{{1}, {2}})
	require.NoError(t, err)

	spans := rec.Ended()
	require.Len(t, spans, 2, "tracing disabled on the third call")
	assert.Equal(t, "egalitarian.search", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)

	var minValue float64
	for _, kv := range spans[0].Attributes() {
		if kv.Key == "egalitarian.min_value" {
			minValue = kv.Value.AsFloat64()
		}
	}
	assert.Equal(t, 10.0, minValue)
}

func TestObserve_LogsThroughInjectedLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := Search(context.Background(), Valuations[int64]{{1, 2}, {2, 1}}, WithLogger(logger))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"msg":"egalitarian search started"`)
	assert.Contains(t, out, `"msg":"egalitarian search completed"`)
	assert.Contains(t, out, `"min_value":2`)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, resultOK, outcome(nil))
	assert.Equal(t, resultInvalid, outcome(ErrBadOption))
	assert.Equal(t, resultAborted, outcome(ErrSearchAborted))
	assert.Equal(t, resultFailed, outcome(context.Canceled))
}
