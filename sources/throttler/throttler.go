package throttler

import (
	"context"
	"fmt"
	"time"

	"sakuracore/sources/configuration"
	"sakuracore/sources/platform"
	"sakuracore/sources/tracing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type Throttler struct {
	client *redis.Client
	config *configuration.Config
	log    *tracing.Logger
	ctx    context.Context
}

func NewThrottler(client *redis.Client, config *configuration.Config, log *tracing.Logger) *Throttler {
	ctx := context.Background()
	return &Throttler{client: client, config: config, log: log, ctx: ctx}
}

// IsAllowed opens the per-user cooldown window. Redis trouble fails open.
func (x *Throttler) IsAllowed(userID uuid.UUID) bool {
	return x.allowed(fmt.Sprintf("throttle:%s", userID), x.config.Throttler.Limit)
}

// IsAllowedHeavy is the wider window for queued tools.
func (x *Throttler) IsAllowedHeavy(userID uuid.UUID) bool {
	return x.allowed(fmt.Sprintf("throttle:heavy:%s", userID), x.config.Throttler.HeavyLimit)
}

func (x *Throttler) allowed(key string, window time.Duration) bool {
	ctx, cancel := platform.ContextTimeout(x.ctx)
	defer cancel()

	success, err := tracing.ReportExecutionForRE(x.log, func() (bool, error) {
		return x.client.SetNX(ctx, key, time.Now().Unix(), window).Result()
	}, func(l *tracing.Logger) {
		l.D("Throttle window checked", "key", key)
	})

	if err != nil {
		x.log.E("Error setting throttle key", tracing.InnerError, err)
		return true
	}

	return success
}
