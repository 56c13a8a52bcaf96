package hypervoice

import (
	"errors"
	"strconv"

	appmetrics "hypervoice/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	QueryTime *prometheus.HistogramVec
	Errors    *prometheus.CounterVec
}

var metrics = &Metrics{
	QueryTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hypervoice",
		Name:      "request_seconds",
		Buckets:   appmetrics.RequestSecondsBuckets,
	}, []string{"endpoint"}),
	Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hypervoice",
		Name:      "errors_total",
	}, []string{"endpoint", "err_code"}),
}

func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(metrics.QueryTime)
	reg.MustRegister(metrics.Errors)
}

func errCode(err error) string {
	var statusErr *StatusError
	var malformedErr *MalformedResponseError

	switch {
	case errors.As(err, &statusErr):
		return strconv.Itoa(statusErr.StatusCode)
	case errors.As(err, &malformedErr):
		return "malformed"
	default:
		return "transport"
	}
}
