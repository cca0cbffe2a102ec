package metrics

import (
	"sakuracore/sources/tracing"

	"github.com/prometheus/client_golang/prometheus"
)

type MetricsService struct {
	log *tracing.Logger
}

var (
	toolRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sakuracore_tool_runs_total",
			Help: "Total number of tool executions",
		},
		[]string{"tool", "status"},
	)

	jobsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sakuracore_jobs_processed_total",
			Help: "Total number of queued jobs processed",
		},
		[]string{"status"},
	)

	tokenUsage = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sakuracore_token_usage_total",
			Help: "Total number of tokens used",
		},
		[]string{"provider"},
	)

	creditUsage = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sakuracore_credit_usage_total",
			Help: "Total number of credits spent",
		},
		[]string{"tool"},
	)

	webhookEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sakuracore_webhook_events_total",
			Help: "Total number of billing webhook events applied",
		},
		[]string{"type"},
	)

	sanitizerScrubs = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sakuracore_sanitizer_scrubs_total",
			Help: "Total number of responses that had provider traces removed",
		},
	)

	aiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sakuracore_ai_request_duration_seconds",
			Help:    "Duration of AI provider requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	jobDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sakuracore_job_duration_seconds",
			Help:    "Total duration of job processing",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"tool"},
	)

	statsTotalUsers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sakuracore_stats_total_users",
			Help: "Total number of users",
		},
	)

	statsDailyActiveUsers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sakuracore_stats_daily_active_users",
			Help: "Users with usage records in the last day",
		},
	)

	statsMonthlyActiveUsers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sakuracore_stats_monthly_active_users",
			Help: "Users with usage records in the last month",
		},
	)

	statsTotalTokens = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sakuracore_stats_monthly_tokens",
			Help: "Tokens recorded in usage over the last month",
		},
	)

	statsTotalCost = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sakuracore_stats_monthly_cost",
			Help: "Cost recorded in usage over the last month",
		},
	)
)

func NewMetricsService(log *tracing.Logger) *MetricsService {
	prometheus.MustRegister(
		toolRuns,
		jobsProcessed,
		tokenUsage,
		creditUsage,
		webhookEvents,
		sanitizerScrubs,
		aiRequestDuration,
		jobDuration,
		statsTotalUsers,
		statsDailyActiveUsers,
		statsMonthlyActiveUsers,
		statsTotalTokens,
		statsTotalCost,
	)

	log.I("Metrics service initialized")
	return &MetricsService{log: log}
}

func (x *MetricsService) CountToolRun(tool, status string) {
	toolRuns.WithLabelValues(tool, status).Inc()
}

func (x *MetricsService) CountJob(status string) {
	jobsProcessed.WithLabelValues(status).Inc()
}

func (x *MetricsService) CountTokens(provider string, tokens int) {
	tokenUsage.WithLabelValues(provider).Add(float64(tokens))
}

func (x *MetricsService) CountCredits(tool string, credits int) {
	creditUsage.WithLabelValues(tool).Add(float64(credits))
}

func (x *MetricsService) CountWebhookEvent(eventType string) {
	webhookEvents.WithLabelValues(eventType).Inc()
}

func (x *MetricsService) CountSanitizerScrub() {
	sanitizerScrubs.Inc()
}

func (x *MetricsService) ObserveAiRequest(provider string, seconds float64) {
	aiRequestDuration.WithLabelValues(provider).Observe(seconds)
}

func (x *MetricsService) ObserveJobDuration(tool string, seconds float64) {
	jobDuration.WithLabelValues(tool).Observe(seconds)
}

func (x *MetricsService) SetTotalUsers(count int64) {
	statsTotalUsers.Set(float64(count))
}

func (x *MetricsService) SetDailyActiveUsers(count int64) {
	statsDailyActiveUsers.Set(float64(count))
}

func (x *MetricsService) SetMonthlyActiveUsers(count int64) {
	statsMonthlyActiveUsers.Set(float64(count))
}

func (x *MetricsService) SetMonthlyTokens(tokens int64) {
	statsTotalTokens.Set(float64(tokens))
}

func (x *MetricsService) SetMonthlyCost(cost float64) {
	statsTotalCost.Set(cost)
}
