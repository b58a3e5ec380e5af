// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PipelineRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_runs_total",
			Help: "Total number of pipeline runs by terminal state",
		},
		[]string{"status"},
	)

	StageFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_stage_failures_total",
			Help: "Total number of stage failures by stage and error code",
		},
		[]string{"stage", "error_code"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "pipeline_stage_duration_seconds",
			Help: "Duration of pipeline stages in seconds",
		},
		[]string{"stage"},
	)

	PostsFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pipeline_posts_fetched_total",
			Help: "Total number of posts drained from the scraping provider",
		},
	)

	InsightsExtracted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pipeline_insights_extracted_total",
			Help: "Total number of insights accepted from the LLM",
		},
	)

	LLMTokens = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_llm_tokens_total",
			Help: "Total LLM tokens consumed by direction",
		},
		[]string{"direction"},
	)

	DashboardRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_requests_total",
			Help: "Total dashboard page loads by load state",
		},
		[]string{"state"},
	)
)
