package metrics_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"hypervoice/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestLogMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()

	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "calls_total",
	}, []string{"err_code"})
	hist := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "call_seconds",
		Buckets: metrics.RequestSecondsBuckets,
	})
	reg.MustRegister(counter, hist)

	counter.WithLabelValues("401").Add(2)
	hist.Observe(0.3)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	metrics.LogMetrics(context.Background(), reg, logger)

	out := buf.String()
	require.Contains(t, out, "msg=calls_total err_code=401 value=2")
	require.Contains(t, out, "msg=call_seconds count=1 sum=0.3")
}

func TestLogMetricsCanceled(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "calls_total"})
	reg.MustRegister(counter)
	counter.Inc()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	metrics.LogMetrics(ctx, reg, logger)

	require.NotContains(t, buf.String(), "calls_total")
	require.Contains(t, buf.String(), "Context canceled")
}
