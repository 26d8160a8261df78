package config

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks configuration loads and validation failures.
//
// Metrics:
//   - url_summarizer_config_load_timestamp: Unix time of the last successful load
//   - url_summarizer_config_validation_errors_total: failures by section
type Metrics struct {
	LoadTimestamp         prometheus.Gauge
	ValidationErrorsTotal *prometheus.CounterVec
}

// configMetrics is registered once with the default registry.
var configMetrics = NewMetrics(prometheus.DefaultRegisterer)

// NewMetrics registers the configuration metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LoadTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "url_summarizer_config_load_timestamp",
			Help: "Unix timestamp of the last successful configuration load",
		}),
		ValidationErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "url_summarizer_config_validation_errors_total",
			Help: "Total number of configuration validation errors",
		}, []string{"field"}),
	}
}

// RecordLoadTimestamp stamps a successful load.
func (m *Metrics) RecordLoadTimestamp() {
	m.LoadTimestamp.SetToCurrentTime()
}

// RecordValidationError counts one failure for field.
func (m *Metrics) RecordValidationError(field string) {
	m.ValidationErrorsTotal.WithLabelValues(field).Inc()
}
