package external

import (
	"context"

	"go.uber.org/fx"
)

var Module = fx.Module("external",
	fx.Provide(NewOutsiders),

	fx.Invoke(func(outsiders *Outsiders, lc fx.Lifecycle) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				go outsiders.startup()
				go outsiders.systemMetrics()
				go outsiders.applicationMetrics()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				_ = outsiders.ss.Shutdown(ctx)
				_ = outsiders.sms.Shutdown(ctx)
				_ = outsiders.as.Shutdown(ctx)
				return nil
			},
		})
	}),
)
