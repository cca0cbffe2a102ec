package repository

import (
	"context"
	"errors"
	"time"

	"sakuracore/sources/persistence/entities"
	"sakuracore/sources/platform"
	"sakuracore/sources/tracing"

	"gorm.io/gorm"
)

type WebhooksRepository struct {
	db *gorm.DB
}

func NewWebhooksRepository(db *gorm.DB) *WebhooksRepository {
	return &WebhooksRepository{db: db}
}

func (x *WebhooksRepository) Seen(logger *tracing.Logger, eventID string) (bool, error) {
	defer tracing.ProfilePoint(logger, "Webhooks seen completed", "repository.webhooks.seen", tracing.EventId, eventID)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	var event entities.WebhookEvent
	err := x.db.WithContext(ctx).Where("event_id = ?", eventID).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		logger.E("Failed to check webhook event", tracing.InnerError, err)
		return false, err
	}

	return event.Processed, nil
}

// Record claims the event id. A unique index on event_id makes the claim
// exclusive under concurrent deliveries.
func (x *WebhooksRepository) Record(logger *tracing.Logger, event *entities.WebhookEvent) error {
	defer tracing.ProfilePoint(logger, "Webhooks record completed", "repository.webhooks.record", tracing.EventId, event.EventID)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	err := x.db.WithContext(ctx).Create(event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.W("Webhook event already recorded", tracing.EventId, event.EventID)
			return ErrWebhookAlreadySeen
		}
		logger.E("Failed to record webhook event", tracing.InnerError, err)
		return err
	}

	return nil
}

func (x *WebhooksRepository) MarkProcessed(logger *tracing.Logger, eventID string) error {
	defer tracing.ProfilePoint(logger, "Webhooks mark processed completed", "repository.webhooks.mark.processed", tracing.EventId, eventID)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	now := time.Now()
	err := x.db.WithContext(ctx).
		Model(&entities.WebhookEvent{}).
		Where("event_id = ?", eventID).
		Updates(map[string]interface{}{
			"processed":    true,
			"processed_at": &now,
		}).Error

	if err != nil {
		logger.E("Failed to mark webhook event processed", tracing.InnerError, err)
		return err
	}

	logger.I("Webhook event processed", tracing.EventId, eventID)
	return nil
}
