package billing

import (
	"errors"

	"sakuracore/sources/metrics"
	"sakuracore/sources/persistence/entities"
	"sakuracore/sources/platform"
	"sakuracore/sources/repository"
	"sakuracore/sources/tracing"

	"github.com/google/uuid"
)

const (
	EventSubscriptionActivated = "subscription.activated"
	EventSubscriptionRenewed   = "subscription.renewed"
	EventSubscriptionUpdated   = "subscription.updated"
	EventSubscriptionCancelled = "subscription.cancelled"
	EventPaymentFailed         = "payment.failed"
)

type Event struct {
	ID         string
	Type       string
	CustomerID string
	Plan       string
	Payload    string
}

type webhookUsers interface {
	GetByStripeCustomer(log *tracing.Logger, customerID string) (*entities.User, error)
	ApplyPlanChange(log *tracing.Logger, id uuid.UUID, plan platform.Plan, credits int64, status string) error
	SetSubscriptionStatus(log *tracing.Logger, id uuid.UUID, status string) error
}

type webhookStore interface {
	Seen(log *tracing.Logger, eventID string) (bool, error)
	Record(log *tracing.Logger, event *entities.WebhookEvent) error
	MarkProcessed(log *tracing.Logger, eventID string) error
}

// WebhookProcessor applies billing events exactly once. Webhook deliveries
// retry aggressively, so every path through here must be idempotent.
type WebhookProcessor struct {
	users    webhookUsers
	webhooks webhookStore
	plans    *Plans
	metrics  *metrics.MetricsService
}

func NewWebhookProcessor(users *repository.UsersRepository, webhooks *repository.WebhooksRepository, plans *Plans, metrics *metrics.MetricsService) *WebhookProcessor {
	return &WebhookProcessor{users: users, webhooks: webhooks, plans: plans, metrics: metrics}
}

func (x *WebhookProcessor) Process(log *tracing.Logger, event *Event) error {
	log = log.With(tracing.EventId, event.ID, tracing.EventType, event.Type)
	defer tracing.ProfilePoint(log, "Webhook event processed", "billing.webhook.process")()

	seen, err := x.webhooks.Seen(log, event.ID)
	if err != nil {
		return err
	}
	if seen {
		log.I("Duplicate webhook delivery ignored")
		return nil
	}

	record := &entities.WebhookEvent{EventID: event.ID, Type: event.Type}
	if event.Payload != "" {
		record.Payload = platform.StringPtr(event.Payload)
	}

	if err := x.webhooks.Record(log, record); err != nil {
		if errors.Is(err, repository.ErrWebhookAlreadySeen) {
			log.I("Concurrent webhook delivery lost the claim, ignoring")
			return nil
		}
		return err
	}

	if err := x.apply(log, event); err != nil {
		return err
	}

	if err := x.webhooks.MarkProcessed(log, event.ID); err != nil {
		return err
	}

	x.metrics.CountWebhookEvent(event.Type)
	return nil
}

func (x *WebhookProcessor) apply(log *tracing.Logger, event *Event) error {
	user, err := x.users.GetByStripeCustomer(log, event.CustomerID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			log.W("Webhook for unknown customer", "customer_id", event.CustomerID)
			return nil
		}
		return err
	}

	switch event.Type {
	case EventSubscriptionActivated, EventSubscriptionRenewed, EventSubscriptionUpdated:
		plan := platform.ParsePlan(event.Plan)
		limits := x.plans.Limits(plan)
		return x.users.ApplyPlanChange(log, user.ID, plan, limits.Credits, "active")

	case EventSubscriptionCancelled:
		limits := x.plans.Limits(platform.PlanFree)
		return x.users.ApplyPlanChange(log, user.ID, platform.PlanFree, limits.Credits, "canceled")

	case EventPaymentFailed:
		return x.users.SetSubscriptionStatus(log, user.ID, "past_due")

	default:
		log.W("Unhandled webhook event type")
		return nil
	}
}
