package billing

import (
	"errors"
	"testing"

	"sakuracore/sources/metrics"
	"sakuracore/sources/persistence/entities"
	"sakuracore/sources/platform"
	"sakuracore/sources/repository"
	"sakuracore/sources/tracing"

	"github.com/google/uuid"
)

var testMetrics = metrics.NewMetricsService(testLog)

type planChange struct {
	plan    platform.Plan
	credits int64
	status  string
}

type stubWebhookUsers struct {
	user        *entities.User
	getErr      error
	planChanges []planChange
	statuses    []string
}

func (s *stubWebhookUsers) GetByStripeCustomer(log *tracing.Logger, customerID string) (*entities.User, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.user, nil
}

func (s *stubWebhookUsers) ApplyPlanChange(log *tracing.Logger, id uuid.UUID, plan platform.Plan, credits int64, status string) error {
	s.planChanges = append(s.planChanges, planChange{plan: plan, credits: credits, status: status})
	return nil
}

func (s *stubWebhookUsers) SetSubscriptionStatus(log *tracing.Logger, id uuid.UUID, status string) error {
	s.statuses = append(s.statuses, status)
	return nil
}

type stubWebhookStore struct {
	seen      bool
	recordErr error
	recorded  []string
	processed []string
}

func (s *stubWebhookStore) Seen(log *tracing.Logger, eventID string) (bool, error) {
	return s.seen, nil
}

func (s *stubWebhookStore) Record(log *tracing.Logger, event *entities.WebhookEvent) error {
	if s.recordErr != nil {
		return s.recordErr
	}
	s.recorded = append(s.recorded, event.EventID)
	return nil
}

func (s *stubWebhookStore) MarkProcessed(log *tracing.Logger, eventID string) error {
	s.processed = append(s.processed, eventID)
	return nil
}

func newTestProcessor(users *stubWebhookUsers, store *stubWebhookStore) *WebhookProcessor {
	return &WebhookProcessor{users: users, webhooks: store, plans: testPlans(), metrics: testMetrics}
}

func TestProcessActivation(t *testing.T) {
	users := &stubWebhookUsers{user: &entities.User{ID: uuid.New()}}
	store := &stubWebhookStore{}
	processor := newTestProcessor(users, store)

	event := &Event{ID: "evt_1", Type: EventSubscriptionActivated, CustomerID: "cus_1", Plan: "pro"}
	if err := processor.Process(testLog, event); err != nil {
		t.Fatalf("Process() error = %v, expected nil", err)
	}

	if len(users.planChanges) != 1 {
		t.Fatalf("plan changes = %d, expected 1", len(users.planChanges))
	}
	change := users.planChanges[0]
	if change.plan != platform.PlanPro || change.credits != 50 || change.status != "active" {
		t.Errorf("plan change = %+v, expected pro/50/active", change)
	}
	if len(store.processed) != 1 || store.processed[0] != "evt_1" {
		t.Errorf("processed = %v, expected [evt_1]", store.processed)
	}
}

func TestProcessCancellation(t *testing.T) {
	users := &stubWebhookUsers{user: &entities.User{ID: uuid.New()}}
	store := &stubWebhookStore{}
	processor := newTestProcessor(users, store)

	event := &Event{ID: "evt_2", Type: EventSubscriptionCancelled, CustomerID: "cus_1"}
	if err := processor.Process(testLog, event); err != nil {
		t.Fatalf("Process() error = %v, expected nil", err)
	}

	change := users.planChanges[0]
	if change.plan != platform.PlanFree || change.credits != 2 || change.status != "canceled" {
		t.Errorf("plan change = %+v, expected free/2/canceled", change)
	}
}

func TestProcessPaymentFailed(t *testing.T) {
	users := &stubWebhookUsers{user: &entities.User{ID: uuid.New()}}
	store := &stubWebhookStore{}
	processor := newTestProcessor(users, store)

	event := &Event{ID: "evt_3", Type: EventPaymentFailed, CustomerID: "cus_1"}
	if err := processor.Process(testLog, event); err != nil {
		t.Fatalf("Process() error = %v, expected nil", err)
	}

	if len(users.statuses) != 1 || users.statuses[0] != "past_due" {
		t.Errorf("statuses = %v, expected [past_due]", users.statuses)
	}
	if len(users.planChanges) != 0 {
		t.Errorf("plan changes = %v, expected none", users.planChanges)
	}
}

func TestProcessDuplicateDelivery(t *testing.T) {
	users := &stubWebhookUsers{user: &entities.User{ID: uuid.New()}}
	store := &stubWebhookStore{seen: true}
	processor := newTestProcessor(users, store)

	event := &Event{ID: "evt_4", Type: EventSubscriptionActivated, CustomerID: "cus_1", Plan: "pro"}
	if err := processor.Process(testLog, event); err != nil {
		t.Fatalf("Process() error = %v, expected nil", err)
	}

	if len(users.planChanges) != 0 || len(store.recorded) != 0 {
		t.Error("duplicate delivery must not apply or record anything")
	}
}

func TestProcessLostClaim(t *testing.T) {
	users := &stubWebhookUsers{user: &entities.User{ID: uuid.New()}}
	store := &stubWebhookStore{recordErr: repository.ErrWebhookAlreadySeen}
	processor := newTestProcessor(users, store)

	event := &Event{ID: "evt_5", Type: EventSubscriptionActivated, CustomerID: "cus_1", Plan: "pro"}
	if err := processor.Process(testLog, event); err != nil {
		t.Fatalf("Process() error = %v, expected nil when the claim is lost", err)
	}

	if len(users.planChanges) != 0 {
		t.Error("lost claim must not apply the event")
	}
}

func TestProcessUnknownCustomer(t *testing.T) {
	users := &stubWebhookUsers{getErr: repository.ErrUserNotFound}
	store := &stubWebhookStore{}
	processor := newTestProcessor(users, store)

	event := &Event{ID: "evt_6", Type: EventSubscriptionRenewed, CustomerID: "cus_missing", Plan: "starter"}
	if err := processor.Process(testLog, event); err != nil {
		t.Fatalf("Process() error = %v, expected nil for unknown customer", err)
	}

	if len(store.processed) != 1 {
		t.Errorf("processed = %v, expected the event still marked processed", store.processed)
	}
}

func TestProcessStoreFailurePropagates(t *testing.T) {
	storeErr := errors.New("db down")
	users := &stubWebhookUsers{user: &entities.User{ID: uuid.New()}}
	store := &stubWebhookStore{recordErr: storeErr}
	processor := newTestProcessor(users, store)

	event := &Event{ID: "evt_7", Type: EventSubscriptionActivated, CustomerID: "cus_1", Plan: "pro"}
	if err := processor.Process(testLog, event); !errors.Is(err, storeErr) {
		t.Errorf("Process() error = %v, expected store failure", err)
	}
}
