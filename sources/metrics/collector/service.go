package collector

import (
	"context"
	"time"

	"sakuracore/sources/metrics"
	"sakuracore/sources/repository"
	"sakuracore/sources/tracing"
)

// Collector feeds the stats gauges from usage aggregates on a slow loop.
type Collector struct {
	users   *repository.UsersRepository
	usage   *repository.UsageRepository
	metrics *metrics.MetricsService
	log     *tracing.Logger
}

func NewCollector(users *repository.UsersRepository, usage *repository.UsageRepository, metrics *metrics.MetricsService, log *tracing.Logger) *Collector {
	return &Collector{users: users, usage: usage, metrics: metrics, log: log.With(tracing.Scope, "collector")}
}

func (x *Collector) Run(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	x.collect()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			x.collect()
		}
	}
}

func (x *Collector) collect() {
	tracing.ReportExecution(x.log, x.gather, func(l *tracing.Logger) {
		l.D("Stats collected")
	})
}

func (x *Collector) gather() {
	now := time.Now()
	dayAgo := now.AddDate(0, 0, -1)
	monthAgo := now.AddDate(0, -1, 0)

	if count, err := x.users.GetTotalUsersCount(x.log); err == nil {
		x.metrics.SetTotalUsers(count)
	}

	if count, err := x.usage.ActiveUsersCount(x.log, dayAgo); err == nil {
		x.metrics.SetDailyActiveUsers(count)
	}

	if count, err := x.usage.ActiveUsersCount(x.log, monthAgo); err == nil {
		x.metrics.SetMonthlyActiveUsers(count)
	}

	if tokens, err := x.usage.TotalTokensSince(x.log, monthAgo); err == nil {
		x.metrics.SetMonthlyTokens(tokens)
	}

	if cost, err := x.usage.TotalCostSince(x.log, monthAgo); err == nil {
		value, _ := cost.Float64()
		x.metrics.SetMonthlyCost(value)
	}
}
