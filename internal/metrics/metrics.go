// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dealdesk_analyses_total",
			Help: "Total number of requirement analyses by input source",
		},
		[]string{"source"},
	)

	LLMCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dealdesk_llm_calls_total",
			Help: "Total number of LLM calls by purpose and outcome",
		},
		[]string{"purpose", "outcome"},
	)

	LLMCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dealdesk_llm_call_duration_seconds",
			Help:    "Duration of LLM calls in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
		},
		[]string{"purpose"},
	)

	QuoteStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "dealdesk_quote_stage_duration_seconds",
			Help: "Duration of each quote pipeline stage in seconds",
		},
		[]string{"stage"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "dealdesk_http_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"method", "route", "status"},
	)

	DealsStored = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dealdesk_deals_stored",
			Help: "Number of deals held in the in-memory deal store",
		},
	)
)
