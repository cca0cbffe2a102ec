package dispatcher

import (
	"context"
	"time"

	"sakuracore/sources/platform"
	"sakuracore/sources/tracing"

	"github.com/google/uuid"
)

type Job struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Tool        string    `json:"tool"`
	Input       string    `json:"input"`
	SearchQuery string    `json:"search_query,omitempty"`
	AudioPath   string    `json:"audio_path,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type JobStatus struct {
	State      platform.JobState   `json:"state"`
	Output     string              `json:"output,omitempty"`
	OutputType platform.OutputType `json:"output_type,omitempty"`
	Tokens     int                 `json:"tokens,omitempty"`
	Credits    int                 `json:"credits,omitempty"`
	DurationMs int64               `json:"duration_ms,omitempty"`
	Error      string              `json:"error,omitempty"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// JobStore is the queue plus the per-job status board. Two
// implementations exist: Redis for normal operation and an in-process
// store that keeps the service alive without it.
type JobStore interface {
	Enqueue(log *tracing.Logger, job *Job) error
	Dequeue(ctx context.Context, log *tracing.Logger) (*Job, error)
	SetStatus(log *tracing.Logger, id uuid.UUID, status *JobStatus) error
	GetStatus(log *tracing.Logger, id uuid.UUID) (*JobStatus, error)
	Waiting(log *tracing.Logger) int64
}
