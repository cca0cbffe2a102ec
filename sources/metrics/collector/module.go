package collector

import (
	"context"

	"go.uber.org/fx"
)

var Module = fx.Module("collector",
	fx.Provide(NewCollector),

	fx.Invoke(func(collector *Collector, lc fx.Lifecycle) {
		collectorCtx, cancel := context.WithCancel(context.Background())

		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				go collector.Run(collectorCtx)
				return nil
			},
			OnStop: func(ctx context.Context) error {
				cancel()
				return nil
			},
		})
	}),
)
