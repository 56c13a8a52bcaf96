package hypervoice

import "github.com/prometheus/client_golang/prometheus"

func ErrorsCounter(endpoint, code string) prometheus.Counter {
	return metrics.Errors.WithLabelValues(endpoint, code)
}
