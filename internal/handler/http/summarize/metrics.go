package summarize

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess        = "success"
	outcomeValidation     = "validation_error"
	outcomeFetchError     = "fetch_error"
	outcomeSummarizeError = "summarize_error"
	outcomeInternalError  = "internal_error"
)

var summarizeRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "url_summarize_requests_total",
		Help: "Summarize requests by outcome",
	},
	[]string{"outcome"},
)

func recordOutcome(outcome string) {
	summarizeRequestsTotal.WithLabelValues(outcome).Inc()
}
