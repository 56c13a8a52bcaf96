package metrics

import (
	"context"
	"log/slog"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	io_prometheus_client "github.com/prometheus/client_model/go"
)

// RequestSecondsBuckets covers remote synthesis calls, which routinely take seconds.
var RequestSecondsBuckets = []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 15, 30, 60}

// LogMetrics gathers reg and writes every sample to logger at debug level.
func LogMetrics(ctx context.Context, reg prometheus.Gatherer, logger *slog.Logger) {
	families, err := reg.Gather()
	if err != nil {
		logger.Error("Error gathering metrics", "err", err)
		return
	}

	for _, m := range families {
		for _, metric := range m.GetMetric() {
			select {
			case <-ctx.Done():
				logger.Debug("Context canceled, stopping metric processing")
				return
			default:
			}

			attrs := labelAttrs(metric.GetLabel())

			switch m.GetType() {
			case io_prometheus_client.MetricType_COUNTER:
				logger.Debug(m.GetName(), append(attrs, "value", metric.GetCounter().GetValue())...)
			case io_prometheus_client.MetricType_GAUGE:
				logger.Debug(m.GetName(), append(attrs, "value", metric.GetGauge().GetValue())...)
			case io_prometheus_client.MetricType_HISTOGRAM, io_prometheus_client.MetricType_GAUGE_HISTOGRAM:
				hist := metric.GetHistogram()
				logger.Debug(m.GetName(), append(attrs,
					"count", hist.GetSampleCount(),
					"sum", hist.GetSampleSum(),
				)...)
			default:
				logger.Error("Unsupported metric type", "err", m.GetType().String())
			}
		}
	}
}

func labelAttrs(labels []*io_prometheus_client.LabelPair) []any {
	sorted := append([]*io_prometheus_client.LabelPair(nil), labels...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].GetName() < sorted[j].GetName()
	})

	attrs := make([]any, 0, len(sorted)*2+4)
	for _, label := range sorted {
		attrs = append(attrs, label.GetName(), label.GetValue())
	}

	return attrs
}
