package dispatcher

import (
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"sakuracore/sources/billing"
	"sakuracore/sources/configuration"
	"sakuracore/sources/features"
	"sakuracore/sources/metrics"
	"sakuracore/sources/persistence/entities"
	"sakuracore/sources/platform"
	"sakuracore/sources/repository"
	"sakuracore/sources/texting/tokenizer"
	"sakuracore/sources/throttler"
	"sakuracore/sources/tooling"
	"sakuracore/sources/tracing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrTooManyRequests = errors.New("too many requests")
	ErrHeavyTool       = errors.New("tool must be submitted as a job")
)

type toolRouter interface {
	Route(log *tracing.Logger, req *tooling.ToolRequest) (*tooling.ToolResult, error)
}

type rateLimiter interface {
	IsAllowed(userID uuid.UUID) bool
	IsAllowedHeavy(userID uuid.UUID) bool
}

type flagSource interface {
	IsEnabledDefault(featureName string, defaultValue bool) bool
}

type usersStore interface {
	GetByID(log *tracing.Logger, id uuid.UUID) (*entities.User, error)
	DeductCredits(log *tracing.Logger, id uuid.UUID, amount int64) error
	AddTokensUsed(log *tracing.Logger, id uuid.UUID, tokens int64) error
}

type usageStore interface {
	Save(log *tracing.Logger, usage *entities.Usage) error
	TopToolsByUser(log *tracing.Logger, userID uuid.UUID, since time.Time, limit int) ([]repository.ToolCount, error)
}

type projectsStore interface {
	Create(log *tracing.Logger, project *entities.Project) error
	GetByIDForUser(log *tracing.Logger, id, userID uuid.UUID) (*entities.Project, error)
	UpdateOutput(log *tracing.Logger, id uuid.UUID, output string, tokensUsed int) error
	ListByUser(log *tracing.Logger, userID uuid.UUID, limit int) ([]*entities.Project, error)
}

type errorsStore interface {
	Save(log *tracing.Logger, entry *entities.ErrorLog) error
}

type Dispatcher struct {
	redis     JobStore
	memory    *MemoryStore
	router    toolRouter
	catalog   *tooling.Catalog
	gate      *billing.Gate
	plans     *billing.Plans
	throttler rateLimiter
	users     usersStore
	usage     usageStore
	projects  projectsStore
	errs      errorsStore
	features  flagSource
	metrics   *metrics.MetricsService
	config    *configuration.Config
	log       *tracing.Logger
}

func NewDispatcher(
	redis *RedisStore,
	memory *MemoryStore,
	router *tooling.Router,
	catalog *tooling.Catalog,
	gate *billing.Gate,
	plans *billing.Plans,
	throttler *throttler.Throttler,
	users *repository.UsersRepository,
	usage *repository.UsageRepository,
	projects *repository.ProjectsRepository,
	errs *repository.ErrorsRepository,
	features *features.FeatureManager,
	metrics *metrics.MetricsService,
	config *configuration.Config,
	log *tracing.Logger,
) *Dispatcher {
	return &Dispatcher{
		redis:     redis,
		memory:    memory,
		router:    router,
		catalog:   catalog,
		gate:      gate,
		plans:     plans,
		throttler: throttler,
		users:     users,
		usage:     usage,
		projects:  projects,
		errs:      errs,
		features:  features,
		metrics:   metrics,
		config:    config,
		log:       log.With(tracing.Scope, "dispatcher"),
	}
}

func (x *Dispatcher) activeStore() JobStore {
	if x.features.IsEnabledDefault(features.FeatureQueueProcessing, true) {
		return x.redis
	}
	return x.memory
}

// RunLightJob executes a tool synchronously. Heavy tools are refused here
// and must go through SubmitHeavyJob.
func (x *Dispatcher) RunLightJob(log *tracing.Logger, user *entities.User, req *tooling.ToolRequest) (*tooling.ToolResult, error) {
	tool, ok := x.catalog.Get(req.Tool)
	if !ok {
		return nil, tooling.ErrUnknownTool
	}

	if tool.Heavy {
		return nil, ErrHeavyTool
	}

	if !x.throttler.IsAllowed(user.ID) {
		return nil, ErrTooManyRequests
	}

	if err := x.admit(log, user, tool, req); err != nil {
		return nil, err
	}

	return x.execute(log, user, tool, req)
}

// SubmitHeavyJob runs the admission checks up front, then queues the work.
func (x *Dispatcher) SubmitHeavyJob(log *tracing.Logger, user *entities.User, req *tooling.ToolRequest) (uuid.UUID, error) {
	tool, ok := x.catalog.Get(req.Tool)
	if !ok {
		return uuid.Nil, tooling.ErrUnknownTool
	}

	if !x.throttler.IsAllowedHeavy(user.ID) {
		return uuid.Nil, ErrTooManyRequests
	}

	if err := x.admit(log, user, tool, req); err != nil {
		return uuid.Nil, err
	}

	job := &Job{
		ID:          uuid.New(),
		UserID:      user.ID,
		Tool:        req.Tool,
		Input:       req.Input,
		SearchQuery: req.SearchQuery,
		AudioPath:   req.AudioPath,
		CreatedAt:   time.Now(),
	}

	store := x.activeStore()
	if err := store.Enqueue(log, job); err != nil {
		if store == x.redis {
			log.W("Redis enqueue failed, falling back to in-memory queue", tracing.JobId, job.ID, tracing.InnerError, err)
			if err := x.memory.Enqueue(log, job); err != nil {
				return uuid.Nil, err
			}
		} else {
			return uuid.Nil, err
		}
	}

	log.I("Job queued", tracing.JobId, job.ID, tracing.ToolName, job.Tool)
	return job.ID, nil
}

func (x *Dispatcher) GetJobStatus(log *tracing.Logger, id uuid.UUID) (*JobStatus, error) {
	status, err := x.activeStore().GetStatus(log, id)
	if err != nil {
		return nil, err
	}

	if status.State == platform.JobNotFound {
		return x.memory.GetStatus(log, id)
	}

	return status, nil
}

// RunImprove reworks a stored project's output according to instructions,
// through the project's original tool.
func (x *Dispatcher) RunImprove(log *tracing.Logger, user *entities.User, projectID uuid.UUID, instructions string) (*tooling.ToolResult, error) {
	project, err := x.projects.GetByIDForUser(log, projectID, user.ID)
	if err != nil {
		return nil, err
	}

	input := fmt.Sprintf(
		"Improve the following output according to these instructions.\n\nInstructions: %s\n\nOriginal request: %s\n\nCurrent output:\n%s",
		instructions, project.Input, project.Output,
	)

	result, err := x.RunLightJob(log, user, &tooling.ToolRequest{Tool: project.Tool, Input: input})
	if err != nil {
		return nil, err
	}

	if uerr := x.projects.UpdateOutput(log, project.ID, result.Output, result.Tokens); uerr != nil {
		log.E("Failed to persist improved output", tracing.ProjectId, project.ID, tracing.InnerError, uerr)
	}

	return result, nil
}

// ListProjects returns the user's recent saved work, newest first.
func (x *Dispatcher) ListProjects(log *tracing.Logger, user *entities.User, limit int) ([]*entities.Project, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return x.projects.ListByUser(log, user.ID, limit)
}

func (x *Dispatcher) admit(log *tracing.Logger, user *entities.User, tool tooling.Tool, req *tooling.ToolRequest) error {
	if err := x.gate.CheckPlan(user, tool); err != nil {
		return err
	}

	if err := x.gate.CheckCredits(user, creditNeed(tool)); err != nil {
		return err
	}

	estimate := int64(tokenizer.Tokens(log, req.Input))
	return x.gate.CheckTokens(user, estimate)
}

// costOf prices a run for the usage ledger. Prices come from config so
// the ledger can be recalibrated without a deploy.
func (x *Dispatcher) costOf(tokens, credits int) decimal.Decimal {
	tokenPrice, err := decimal.NewFromString(x.config.Billing.TokenPrice)
	if err != nil {
		tokenPrice = decimal.Zero
	}

	creditPrice, err := decimal.NewFromString(x.config.Billing.CreditPrice)
	if err != nil {
		creditPrice = decimal.Zero
	}

	return tokenPrice.Mul(decimal.NewFromInt(int64(tokens))).
		Add(creditPrice.Mul(decimal.NewFromInt(int64(credits))))
}

func creditNeed(tool tooling.Tool) int64 {
	switch tool.Category {
	case tooling.CategoryImage, tooling.CategoryAudio:
		return 1
	default:
		return 0
	}
}

// execute runs the tool and settles the books. Exactly one usage record
// per run, success or not. Credit and token deductions only on success.
// Failure bookkeeping is best-effort and never masks the original error.
func (x *Dispatcher) execute(log *tracing.Logger, user *entities.User, tool tooling.Tool, req *tooling.ToolRequest) (*tooling.ToolResult, error) {
	result, routeErr := x.router.Route(log, req)

	record := &entities.Usage{
		UserID:   user.ID,
		Tool:     tool.Name,
		Category: tool.Category,
		Success:  routeErr == nil,
	}

	if routeErr == nil {
		record.Tokens = result.Tokens
		record.Credits = result.Credits
		record.Cost = x.costOf(result.Tokens, result.Credits)
		record.DurationMs = result.DurationMs
		if result.Provider != "" {
			record.Provider = platform.StringPtr(result.Provider)
		}
		if result.Model != "" {
			record.Model = platform.StringPtr(result.Model)
		}
	} else {
		var re *tooling.RouteError
		if errors.As(routeErr, &re) {
			record.DurationMs = re.DurationMs
		}
	}

	if err := x.usage.Save(log, record); err != nil {
		log.E("Failed to save usage record", tracing.InnerError, err)
	}

	if routeErr != nil {
		entry := &entities.ErrorLog{
			UserID:  &user.ID,
			Tool:    platform.StringPtr(tool.Name),
			Message: routeErr.Error(),
			Stack:   platform.StringPtr(string(debug.Stack())),
		}
		if err := x.errs.Save(log, entry); err != nil {
			log.E("Failed to save error log", tracing.InnerError, err)
		}
		return nil, routeErr
	}

	if result.Credits > 0 {
		if err := x.users.DeductCredits(log, user.ID, int64(result.Credits)); err != nil {
			log.E("Failed to deduct credits", tracing.InnerError, err)
		}
	}

	if result.Tokens > 0 {
		if err := x.users.AddTokensUsed(log, user.ID, int64(result.Tokens)); err != nil {
			log.E("Failed to add tokens used", tracing.InnerError, err)
		}
	}

	if platform.ParsePlan(user.Plan) != platform.PlanFree {
		project := &entities.Project{
			UserID:     user.ID,
			Tool:       tool.Name,
			Input:      req.Input,
			Output:     result.Output,
			OutputType: string(result.OutputType),
			TokensUsed: result.Tokens,
		}
		if err := x.projects.Create(log, project); err != nil {
			log.E("Failed to persist project", tracing.InnerError, err)
		}
	}

	return result, nil
}
