package dispatcher

import (
	"errors"
	"testing"
	"time"

	"sakuracore/sources/billing"
	"sakuracore/sources/configuration"
	"sakuracore/sources/metrics"
	"sakuracore/sources/persistence/entities"
	"sakuracore/sources/platform"
	"sakuracore/sources/repository"
	"sakuracore/sources/tooling"
	"sakuracore/sources/tracing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	testLog     = tracing.NewConsoleLogger()
	testMetrics = metrics.NewMetricsService(testLog)
)

type stubRouter struct {
	result  *tooling.ToolResult
	err     error
	lastReq *tooling.ToolRequest
}

func (s *stubRouter) Route(log *tracing.Logger, req *tooling.ToolRequest) (*tooling.ToolResult, error) {
	s.lastReq = req
	return s.result, s.err
}

type stubLimiter struct {
	allow      bool
	allowHeavy bool
}

func (s *stubLimiter) IsAllowed(userID uuid.UUID) bool      { return s.allow }
func (s *stubLimiter) IsAllowedHeavy(userID uuid.UUID) bool { return s.allowHeavy }

type stubFlags struct {
	queue bool
}

func (s *stubFlags) IsEnabledDefault(featureName string, defaultValue bool) bool {
	return s.queue
}

type stubUsers struct {
	user      *entities.User
	getErr    error
	deducted  []int64
	deductErr error
	tokens    []int64
}

func (s *stubUsers) GetByID(log *tracing.Logger, id uuid.UUID) (*entities.User, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.user, nil
}

func (s *stubUsers) DeductCredits(log *tracing.Logger, id uuid.UUID, amount int64) error {
	if s.deductErr != nil {
		return s.deductErr
	}
	s.deducted = append(s.deducted, amount)
	return nil
}

func (s *stubUsers) AddTokensUsed(log *tracing.Logger, id uuid.UUID, tokens int64) error {
	s.tokens = append(s.tokens, tokens)
	return nil
}

type stubUsage struct {
	records []*entities.Usage
	top     []repository.ToolCount
}

func (s *stubUsage) Save(log *tracing.Logger, usage *entities.Usage) error {
	s.records = append(s.records, usage)
	return nil
}

func (s *stubUsage) TopToolsByUser(log *tracing.Logger, userID uuid.UUID, since time.Time, limit int) ([]repository.ToolCount, error) {
	return s.top, nil
}

type stubProjects struct {
	created []*entities.Project
	project *entities.Project
	getErr  error
	updates []string
}

func (s *stubProjects) Create(log *tracing.Logger, project *entities.Project) error {
	s.created = append(s.created, project)
	return nil
}

func (s *stubProjects) GetByIDForUser(log *tracing.Logger, id, userID uuid.UUID) (*entities.Project, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.project, nil
}

func (s *stubProjects) UpdateOutput(log *tracing.Logger, id uuid.UUID, output string, tokensUsed int) error {
	s.updates = append(s.updates, output)
	return nil
}

func (s *stubProjects) ListByUser(log *tracing.Logger, userID uuid.UUID, limit int) ([]*entities.Project, error) {
	if s.project == nil {
		return nil, nil
	}
	return []*entities.Project{s.project}, nil
}

type stubErrors struct {
	entries []*entities.ErrorLog
}

func (s *stubErrors) Save(log *tracing.Logger, entry *entities.ErrorLog) error {
	s.entries = append(s.entries, entry)
	return nil
}

type testHarness struct {
	dispatcher *Dispatcher
	router     *stubRouter
	users      *stubUsers
	usage      *stubUsage
	projects   *stubProjects
	errs       *stubErrors
	memory     *MemoryStore
}

func testConfig() *configuration.Config {
	return &configuration.Config{
		Billing: configuration.BillingConfig{
			FreeTokens: 1000000, StarterTokens: 1000000, ProTokens: 1000000, TeamTokens: 1000000,
			FreeCredits: 10, StarterCredits: 50, ProCredits: 200, TeamCredits: 1000,
			TokenPrice: "0.001", CreditPrice: "0.01",
		},
		Queue: configuration.QueueConfig{Concurrency: 1, Retention: time.Minute, SweepInterval: time.Minute},
	}
}

func newTestHarness(router *stubRouter) *testHarness {
	config := testConfig()
	plans := billing.NewPlans(config)

	h := &testHarness{
		router:   router,
		users:    &stubUsers{},
		usage:    &stubUsage{},
		projects: &stubProjects{},
		errs:     &stubErrors{},
		memory:   NewMemoryStore(config, testLog),
	}

	h.dispatcher = &Dispatcher{
		memory:    h.memory,
		router:    router,
		catalog:   tooling.NewCatalog(),
		gate:      billing.NewGate(plans),
		plans:     plans,
		throttler: &stubLimiter{allow: true, allowHeavy: true},
		users:     h.users,
		usage:     h.usage,
		projects:  h.projects,
		errs:      h.errs,
		features:  &stubFlags{queue: false},
		metrics:   testMetrics,
		config:    config,
		log:       testLog,
	}
	h.dispatcher.redis = h.memory

	return h
}

func paidUser() *entities.User {
	return &entities.User{ID: uuid.New(), Plan: "pro", Credits: 100, IsActive: platform.BoolPtr(true), TokensResetAt: time.Now()}
}

func freeUser() *entities.User {
	return &entities.User{ID: uuid.New(), Plan: "free", Credits: 10, IsActive: platform.BoolPtr(true), TokensResetAt: time.Now()}
}

func TestRunLightJobRefusesHeavyTool(t *testing.T) {
	h := newTestHarness(&stubRouter{})

	_, err := h.dispatcher.RunLightJob(testLog, paidUser(), &tooling.ToolRequest{Tool: "story-writer", Input: "once upon a time"})
	if !errors.Is(err, ErrHeavyTool) {
		t.Errorf("RunLightJob() error = %v, expected ErrHeavyTool", err)
	}
}

func TestRunLightJobUnknownTool(t *testing.T) {
	h := newTestHarness(&stubRouter{})

	_, err := h.dispatcher.RunLightJob(testLog, paidUser(), &tooling.ToolRequest{Tool: "time-machine", Input: "1985"})
	if !errors.Is(err, tooling.ErrUnknownTool) {
		t.Errorf("RunLightJob() error = %v, expected ErrUnknownTool", err)
	}
}

func TestRunLightJobThrottled(t *testing.T) {
	h := newTestHarness(&stubRouter{})
	h.dispatcher.throttler = &stubLimiter{allow: false}

	_, err := h.dispatcher.RunLightJob(testLog, paidUser(), &tooling.ToolRequest{Tool: "summarizer", Input: "text"})
	if !errors.Is(err, ErrTooManyRequests) {
		t.Errorf("RunLightJob() error = %v, expected ErrTooManyRequests", err)
	}
}

func TestRunLightJobProToolNeedsPaidPlan(t *testing.T) {
	h := newTestHarness(&stubRouter{})

	_, err := h.dispatcher.RunLightJob(testLog, freeUser(), &tooling.ToolRequest{Tool: "pitch-deck", Input: "my startup"})

	var limitErr *billing.LimitError
	if !errors.As(err, &limitErr) || limitErr.Code != billing.CodePlanUpgradeRequired {
		t.Errorf("RunLightJob() error = %v, expected plan upgrade LimitError", err)
	}
}

func TestExecuteSuccessSettlesBooks(t *testing.T) {
	router := &stubRouter{result: &tooling.ToolResult{
		Output: "done", OutputType: platform.OutputText, Tokens: 120, Provider: "azure", Model: "m1", DurationMs: 40,
	}}
	h := newTestHarness(router)
	user := paidUser()

	result, err := h.dispatcher.RunLightJob(testLog, user, &tooling.ToolRequest{Tool: "summarizer", Input: "long text"})
	if err != nil {
		t.Fatalf("RunLightJob() error = %v, expected nil", err)
	}
	if result.Output != "done" {
		t.Errorf("Output = %q, expected done", result.Output)
	}

	if len(h.usage.records) != 1 {
		t.Fatalf("usage records = %d, expected exactly 1", len(h.usage.records))
	}
	record := h.usage.records[0]
	if !record.Success || record.Tokens != 120 || record.Tool != "summarizer" {
		t.Errorf("usage record = %+v, expected successful summarizer run", record)
	}
	if record.Category != tooling.CategoryWriting {
		t.Errorf("usage category = %q, expected %q", record.Category, tooling.CategoryWriting)
	}
	if !record.Cost.Equal(decimal.RequireFromString("0.12")) {
		t.Errorf("usage cost = %s, expected 0.12", record.Cost)
	}

	if len(h.users.tokens) != 1 || h.users.tokens[0] != 120 {
		t.Errorf("tokens added = %v, expected [120]", h.users.tokens)
	}
	if len(h.users.deducted) != 0 {
		t.Errorf("credits deducted = %v, expected none for a text tool", h.users.deducted)
	}

	if len(h.projects.created) != 1 {
		t.Fatalf("projects created = %d, expected 1 for a paid plan", len(h.projects.created))
	}
	if h.projects.created[0].Output != "done" {
		t.Errorf("project output = %q, expected done", h.projects.created[0].Output)
	}
}

func TestExecuteFreePlanSkipsProject(t *testing.T) {
	router := &stubRouter{result: &tooling.ToolResult{Output: "done", OutputType: platform.OutputText, Tokens: 5}}
	h := newTestHarness(router)

	if _, err := h.dispatcher.RunLightJob(testLog, freeUser(), &tooling.ToolRequest{Tool: "summarizer", Input: "text"}); err != nil {
		t.Fatalf("RunLightJob() error = %v, expected nil", err)
	}

	if len(h.projects.created) != 0 {
		t.Errorf("projects created = %d, expected none on the free plan", len(h.projects.created))
	}
	if len(h.usage.records) != 1 {
		t.Errorf("usage records = %d, expected 1", len(h.usage.records))
	}
}

func TestExecuteDeductsMediaCredits(t *testing.T) {
	router := &stubRouter{result: &tooling.ToolResult{Output: "data:image/png;base64,x", OutputType: platform.OutputImage, Credits: 1}}
	h := newTestHarness(router)

	if _, err := h.dispatcher.RunLightJob(testLog, paidUser(), &tooling.ToolRequest{Tool: "resume-builder", Input: "cv"}); err != nil {
		t.Fatalf("RunLightJob() error = %v, expected nil", err)
	}

	if len(h.users.deducted) != 1 || h.users.deducted[0] != 1 {
		t.Errorf("credits deducted = %v, expected [1]", h.users.deducted)
	}
}

func TestExecuteFailureKeepsAccounting(t *testing.T) {
	routeErr := &tooling.RouteError{Tool: "summarizer", DurationMs: 33, Err: errors.New("engine down")}
	h := newTestHarness(&stubRouter{err: routeErr})
	user := paidUser()

	_, err := h.dispatcher.RunLightJob(testLog, user, &tooling.ToolRequest{Tool: "summarizer", Input: "text"})
	if !errors.Is(err, routeErr) {
		t.Fatalf("RunLightJob() error = %v, expected the original route error", err)
	}

	if len(h.usage.records) != 1 {
		t.Fatalf("usage records = %d, expected exactly 1 on failure too", len(h.usage.records))
	}
	record := h.usage.records[0]
	if record.Success || record.DurationMs != 33 {
		t.Errorf("usage record = %+v, expected failed run with route duration", record)
	}

	if len(h.errs.entries) != 1 {
		t.Fatalf("error logs = %d, expected 1", len(h.errs.entries))
	}
	if h.errs.entries[0].Stack == nil || *h.errs.entries[0].Stack == "" {
		t.Error("error log entry has no stack trace")
	}
	if h.usage.records[0].Category != tooling.CategoryWriting {
		t.Errorf("usage category = %q, expected %q on failure too", h.usage.records[0].Category, tooling.CategoryWriting)
	}
	if len(h.users.deducted) != 0 || len(h.users.tokens) != 0 {
		t.Error("failed run must not deduct credits or add tokens")
	}
	if len(h.projects.created) != 0 {
		t.Error("failed run must not persist a project")
	}
}

func TestSubmitHeavyJob(t *testing.T) {
	h := newTestHarness(&stubRouter{})
	user := paidUser()

	id, err := h.dispatcher.SubmitHeavyJob(testLog, user, &tooling.ToolRequest{Tool: "story-writer", Input: "a saga"})
	if err != nil {
		t.Fatalf("SubmitHeavyJob() error = %v, expected nil", err)
	}
	if id == uuid.Nil {
		t.Fatal("SubmitHeavyJob() returned nil job id")
	}

	status, err := h.dispatcher.GetJobStatus(testLog, id)
	if err != nil {
		t.Fatalf("GetJobStatus() error = %v, expected nil", err)
	}
	if status.State != platform.JobWaiting {
		t.Errorf("State = %q, expected waiting", status.State)
	}
}

func TestSubmitHeavyJobThrottled(t *testing.T) {
	h := newTestHarness(&stubRouter{})
	h.dispatcher.throttler = &stubLimiter{allow: true, allowHeavy: false}

	_, err := h.dispatcher.SubmitHeavyJob(testLog, paidUser(), &tooling.ToolRequest{Tool: "story-writer", Input: "a saga"})
	if !errors.Is(err, ErrTooManyRequests) {
		t.Errorf("SubmitHeavyJob() error = %v, expected ErrTooManyRequests", err)
	}
}

func TestGetJobStatusUnknown(t *testing.T) {
	h := newTestHarness(&stubRouter{})

	status, err := h.dispatcher.GetJobStatus(testLog, uuid.New())
	if err != nil {
		t.Fatalf("GetJobStatus() error = %v, expected nil", err)
	}
	if status.State != platform.JobNotFound {
		t.Errorf("State = %q, expected not_found", status.State)
	}
}

func TestRunImprove(t *testing.T) {
	router := &stubRouter{result: &tooling.ToolResult{Output: "improved", OutputType: platform.OutputText, Tokens: 10}}
	h := newTestHarness(router)
	user := paidUser()

	h.projects.project = &entities.Project{
		ID: uuid.New(), UserID: user.ID, Tool: "summarizer", Input: "original request", Output: "first draft",
	}

	result, err := h.dispatcher.RunImprove(testLog, user, h.projects.project.ID, "make it shorter")
	if err != nil {
		t.Fatalf("RunImprove() error = %v, expected nil", err)
	}
	if result.Output != "improved" {
		t.Errorf("Output = %q, expected improved", result.Output)
	}

	if router.lastReq.Tool != "summarizer" {
		t.Errorf("rerouted tool = %q, expected the project's tool", router.lastReq.Tool)
	}
	if len(h.projects.updates) != 1 || h.projects.updates[0] != "improved" {
		t.Errorf("project updates = %v, expected the improved output persisted", h.projects.updates)
	}
}

func TestRunImproveUnknownProject(t *testing.T) {
	h := newTestHarness(&stubRouter{})
	h.projects.getErr = repository.ErrProjectNotFound

	_, err := h.dispatcher.RunImprove(testLog, paidUser(), uuid.New(), "shorter")
	if !errors.Is(err, repository.ErrProjectNotFound) {
		t.Errorf("RunImprove() error = %v, expected ErrProjectNotFound", err)
	}
}

func TestProcessJobCompletes(t *testing.T) {
	router := &stubRouter{result: &tooling.ToolResult{Output: "a saga", OutputType: platform.OutputText, Tokens: 9, DurationMs: 12}}
	h := newTestHarness(router)
	user := paidUser()
	h.users.user = user

	job := &Job{ID: uuid.New(), UserID: user.ID, Tool: "story-writer", Input: "write", CreatedAt: time.Now()}

	h.dispatcher.processJob(testLog, job, h.memory)

	status, err := h.memory.GetStatus(testLog, job.ID)
	if err != nil {
		t.Fatalf("GetStatus() error = %v, expected nil", err)
	}
	if status.State != platform.JobCompleted || status.Output != "a saga" {
		t.Errorf("status = %+v, expected completed with output", status)
	}
}

func TestProcessJobFailure(t *testing.T) {
	routeErr := &tooling.RouteError{Tool: "story-writer", DurationMs: 5, Err: errors.New("engine down")}
	h := newTestHarness(&stubRouter{err: routeErr})
	user := paidUser()
	h.users.user = user

	job := &Job{ID: uuid.New(), UserID: user.ID, Tool: "story-writer", Input: "write", CreatedAt: time.Now()}

	h.dispatcher.processJob(testLog, job, h.memory)

	status, _ := h.memory.GetStatus(testLog, job.ID)
	if status.State != platform.JobFailed || status.Error == "" {
		t.Errorf("status = %+v, expected failed with error message", status)
	}
}
