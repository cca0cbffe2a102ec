package platform

type Plan string

const (
	PlanFree    Plan = "free"
	PlanStarter Plan = "starter"
	PlanPro     Plan = "pro"
	PlanTeam    Plan = "team"
)

func ParsePlan(value string) Plan {
	switch Plan(value) {
	case PlanStarter, PlanPro, PlanTeam:
		return Plan(value)
	default:
		return PlanFree
	}
}

type OutputType string

const (
	OutputText  OutputType = "text"
	OutputImage OutputType = "image"
	OutputAudio OutputType = "audio"
)

type JobState string

const (
	JobWaiting   JobState = "waiting"
	JobActive    JobState = "active"
	JobCompleted JobState = "completed"
	JobFailed    JobState = "failed"
	JobNotFound  JobState = "not_found"
)

const (
	RightAdmin   = "admin"
	RightSupport = "support"
)
