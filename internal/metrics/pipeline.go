package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline Prometheus metrics.
var (
	PipelineRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "solvex",
			Name:      "pipeline_requests_total",
			Help:      "Total number of solve pipeline runs",
		},
		[]string{"pipeline", "status"}, // pipeline: image/text, status: ok/extraction_failed
	)

	StageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "solvex",
			Name:      "pipeline_stage_duration_seconds",
			Help:      "Duration of individual pipeline stages in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"stage"},
	)

	ExternalRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "solvex",
			Name:      "external_requests_total",
			Help:      "Total calls to external collaborators",
		},
		[]string{"service", "status"}, // service: searchapi/serpapi/translate/youtube/vision/fetch
	)

	SearchCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "solvex",
			Name:      "search_cache_total",
			Help:      "Search result cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	OCRCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "solvex",
			Name:      "ocr_cache_total",
			Help:      "OCR extraction cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	FanoutBranchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "solvex",
			Name:      "fanout_branch_total",
			Help:      "Fan-out branch outcomes",
		},
		[]string{"branch", "outcome"}, // outcome: ok/timeout/panic
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers Prometheus pipeline metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(PipelineRequestsTotal)
	prometheus.MustRegister(StageDuration)
	prometheus.MustRegister(ExternalRequestsTotal)
	prometheus.MustRegister(SearchCacheTotal)
	prometheus.MustRegister(OCRCacheTotal)
	prometheus.MustRegister(FanoutBranchTotal)
	pipelineMetricsRegistered = true
}
