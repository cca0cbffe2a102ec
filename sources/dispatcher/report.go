package dispatcher

import (
	"time"

	"sakuracore/sources/persistence/entities"
	"sakuracore/sources/platform"
	"sakuracore/sources/repository"
	"sakuracore/sources/tracing"
)

type UsageReport struct {
	Plan        platform.Plan          `json:"plan"`
	TokensUsed  int64                  `json:"tokens_used"`
	TokenLimit  int64                  `json:"token_limit"`
	TokensPct   float64                `json:"tokens_pct"`
	Credits     int64                  `json:"credits"`
	CreditLimit int64                  `json:"credit_limit"`
	CreditsPct  float64                `json:"credits_pct"`
	TopTools    []repository.ToolCount `json:"top_tools"`
}

// Report summarizes the user's consumption against their plan.
func (x *Dispatcher) Report(log *tracing.Logger, user *entities.User) (*UsageReport, error) {
	plan := platform.ParsePlan(user.Plan)
	limits := x.plans.Limits(plan)

	monthAgo := time.Now().AddDate(0, -1, 0)
	topTools, err := x.usage.TopToolsByUser(log, user.ID, monthAgo, 5)
	if err != nil {
		return nil, err
	}

	report := &UsageReport{
		Plan:        plan,
		TokensUsed:  user.MonthlyTokensUsed,
		TokenLimit:  limits.Tokens,
		Credits:     user.Credits,
		CreditLimit: limits.Credits,
		TopTools:    topTools,
	}

	if limits.Tokens > 0 {
		report.TokensPct = float64(user.MonthlyTokensUsed) / float64(limits.Tokens) * 100
	}
	if limits.Credits > 0 {
		report.CreditsPct = float64(limits.Credits-user.Credits) / float64(limits.Credits) * 100
	}

	return report, nil
}
