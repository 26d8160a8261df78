package summarizer

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SummaryMetricsRecorder records summary-level metrics. Tests swap in a fake.
type SummaryMetricsRecorder interface {
	// RecordLength records the length of a generated summary in characters.
	RecordLength(length int)

	// RecordLimitExceeded counts summaries longer than the requested maxLength.
	RecordLimitExceeded()

	// RecordDuration records the time taken by a generation call.
	RecordDuration(provider string, duration time.Duration)

	// RecordError counts a failed generation call.
	RecordError(provider string)
}

// PrometheusSummaryMetrics implements SummaryMetricsRecorder with Prometheus.
type PrometheusSummaryMetrics struct {
	lengthHistogram   prometheus.Histogram
	exceededCounter   prometheus.Counter
	durationHistogram *prometheus.HistogramVec
	errorCounter      *prometheus.CounterVec
}

var (
	prometheusMetricsInstance *PrometheusSummaryMetrics
	prometheusMetricsOnce     sync.Once
)

// getOrCreate registers c, or returns the collector already registered under
// the same descriptor.
func getOrCreate[C prometheus.Collector](c C) C {
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

// NewPrometheusSummaryMetrics returns the process-wide recorder. Registration
// happens once so tests can call it freely.
func NewPrometheusSummaryMetrics() *PrometheusSummaryMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusSummaryMetrics{
			lengthHistogram: getOrCreate(prometheus.NewHistogram(prometheus.HistogramOpts{
				Name:    "url_summary_length_characters",
				Help:    "Distribution of summary lengths in characters (Unicode runes)",
				Buckets: []float64{100, 300, 500, 700, 1000, 1500, 2000, 3000},
			})),
			exceededCounter: getOrCreate(prometheus.NewCounter(prometheus.CounterOpts{
				Name: "url_summary_limit_exceeded_total",
				Help: "Total number of summaries longer than the requested maxLength",
			})),
			durationHistogram: getOrCreate(prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "url_summary_generation_duration_seconds",
				Help:    "Time taken by the generation call",
				Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
			}, []string{"provider"})),
			errorCounter: getOrCreate(prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "url_summary_generation_errors_total",
				Help: "Total number of failed generation calls",
			}, []string{"provider"})),
		}
	})
	return prometheusMetricsInstance
}

// RecordLength implements SummaryMetricsRecorder.
func (p *PrometheusSummaryMetrics) RecordLength(length int) {
	p.lengthHistogram.Observe(float64(length))
}

// RecordLimitExceeded implements SummaryMetricsRecorder.
func (p *PrometheusSummaryMetrics) RecordLimitExceeded() {
	p.exceededCounter.Inc()
}

// RecordDuration implements SummaryMetricsRecorder.
func (p *PrometheusSummaryMetrics) RecordDuration(provider string, duration time.Duration) {
	p.durationHistogram.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordError implements SummaryMetricsRecorder.
func (p *PrometheusSummaryMetrics) RecordError(provider string) {
	p.errorCounter.WithLabelValues(provider).Inc()
}
