package dispatcher

import (
	"context"

	"sakuracore/sources/configuration"
	"sakuracore/sources/tracing"

	"go.uber.org/fx"
)

var Module = fx.Module("dispatcher",
	fx.Provide(
		NewRedisStore,
		NewMemoryStore,
		NewDispatcher,
	),

	fx.Invoke(func(dispatcher *Dispatcher, memory *MemoryStore, config *configuration.Config, lc fx.Lifecycle, log *tracing.Logger) {
		workerCtx, cancel := context.WithCancel(context.Background())

		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				concurrency := config.Queue.Concurrency
				if concurrency <= 0 {
					concurrency = 5
				}

				for worker := 0; worker < concurrency; worker++ {
					go dispatcher.Run(workerCtx, worker)
				}

				go memory.Sweep(workerCtx)

				log.I("Dispatcher workers started", "concurrency", concurrency)
				return nil
			},
			OnStop: func(ctx context.Context) error {
				cancel()
				log.I("Dispatcher workers stopping")
				return nil
			},
		})
	}),
)
