package billing

import (
	"fmt"

	"sakuracore/sources/persistence/entities"
	"sakuracore/sources/platform"
	"sakuracore/sources/tooling"
)

const (
	CodeTokenLimitExceeded  = "TOKEN_LIMIT_EXCEEDED"
	CodeInsufficientCredits = "INSUFFICIENT_CREDITS"
	CodePlanUpgradeRequired = "PLAN_UPGRADE_REQUIRED"
)

type LimitError struct {
	Code    string
	Message string
	Plan    platform.Plan
	Upgrade platform.Plan
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Gate answers whether a user may run a tool right now. It only reads
// state; deductions happen after the work, inside the dispatcher.
type Gate struct {
	plans *Plans
}

func NewGate(plans *Plans) *Gate {
	return &Gate{plans: plans}
}

func (x *Gate) CheckTokens(user *entities.User, estimate int64) error {
	plan := platform.ParsePlan(user.Plan)
	limits := x.plans.Limits(plan)

	if user.MonthlyTokensUsed+estimate > limits.Tokens {
		return &LimitError{
			Code:    CodeTokenLimitExceeded,
			Message: "monthly token limit reached",
			Plan:    plan,
			Upgrade: x.plans.NextPlan(plan),
		}
	}

	return nil
}

func (x *Gate) CheckCredits(user *entities.User, needed int64) error {
	if needed == 0 {
		return nil
	}

	plan := platform.ParsePlan(user.Plan)
	if user.Credits < needed {
		return &LimitError{
			Code:    CodeInsufficientCredits,
			Message: "not enough credits for this tool",
			Plan:    plan,
			Upgrade: x.plans.NextPlan(plan),
		}
	}

	return nil
}

func (x *Gate) CheckPlan(user *entities.User, tool tooling.Tool) error {
	plan := platform.ParsePlan(user.Plan)

	if tool.Pro && plan == platform.PlanFree {
		return &LimitError{
			Code:    CodePlanUpgradeRequired,
			Message: "this tool requires a paid plan",
			Plan:    plan,
			Upgrade: platform.PlanStarter,
		}
	}

	return nil
}
