package main

import (
	"context"

	"sakuracore/sources/artificial"
	"sakuracore/sources/billing"
	"sakuracore/sources/configuration"
	"sakuracore/sources/dispatcher"
	"sakuracore/sources/external"
	"sakuracore/sources/features"
	"sakuracore/sources/metrics"
	"sakuracore/sources/metrics/collector"
	"sakuracore/sources/network"
	"sakuracore/sources/persistence"
	"sakuracore/sources/platform"
	"sakuracore/sources/repository"
	"sakuracore/sources/throttler"
	"sakuracore/sources/tooling"
	"sakuracore/sources/tracing"

	"go.uber.org/fx"
)

var (
	version   = "0.0.0"
	buildTime = "1970-01-01"
)

func main() {
	platform.SetAppManifest(version, buildTime)

	fx.New(
		tracing.Module,
		configuration.Module,
		network.Module,
		persistence.Module,
		repository.Module,
		features.Module,
		metrics.Module,
		collector.Module,
		throttler.Module,
		artificial.Module,
		tooling.Module,
		billing.Module,
		dispatcher.Module,
		external.Module,

		fx.Invoke(func(lc fx.Lifecycle, log *tracing.Logger) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					log.I("Sakura core started successfully", "version", version, "build_time", buildTime)
					return nil
				},
				OnStop: func(ctx context.Context) error {
					log.I("Sakura core stopped", "version", version, "build_time", buildTime)
					return nil
				},
			})
		}),
	).Run()
}
