package features

import (
	"context"

	"go.uber.org/fx"
)

var Module = fx.Module("features",
	fx.Provide(NewFeatureManager),

	fx.Invoke(func(manager *FeatureManager, lc fx.Lifecycle) {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return manager.OnStop(ctx)
			},
		})
	}),
)
