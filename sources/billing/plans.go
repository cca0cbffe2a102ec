package billing

import (
	"sakuracore/sources/configuration"
	"sakuracore/sources/platform"
)

type PlanLimits struct {
	Tokens  int64
	Credits int64
}

type Plans struct {
	limits map[platform.Plan]PlanLimits
}

func NewPlans(config *configuration.Config) *Plans {
	return &Plans{
		limits: map[platform.Plan]PlanLimits{
			platform.PlanFree:    {Tokens: config.Billing.FreeTokens, Credits: config.Billing.FreeCredits},
			platform.PlanStarter: {Tokens: config.Billing.StarterTokens, Credits: config.Billing.StarterCredits},
			platform.PlanPro:     {Tokens: config.Billing.ProTokens, Credits: config.Billing.ProCredits},
			platform.PlanTeam:    {Tokens: config.Billing.TeamTokens, Credits: config.Billing.TeamCredits},
		},
	}
}

func (x *Plans) Limits(plan platform.Plan) PlanLimits {
	if limits, ok := x.limits[plan]; ok {
		return limits
	}
	return x.limits[platform.PlanFree]
}

// NextPlan names the cheapest upgrade out of a limit, used in error hints.
func (x *Plans) NextPlan(plan platform.Plan) platform.Plan {
	switch plan {
	case platform.PlanFree:
		return platform.PlanStarter
	case platform.PlanStarter:
		return platform.PlanPro
	default:
		return platform.PlanTeam
	}
}
