package dispatcher

import (
	"context"
	"time"

	"sakuracore/sources/platform"
	"sakuracore/sources/tooling"
	"sakuracore/sources/tracing"
)

// Run is one worker loop. The dispatcher starts Queue.Concurrency of
// these; each polls the active store and drains the in-memory fallback
// when the primary runs dry.
func (x *Dispatcher) Run(ctx context.Context, worker int) {
	log := x.log.With("worker", worker)
	log.I("Job worker started")

	for {
		select {
		case <-ctx.Done():
			log.I("Job worker stopped")
			return
		default:
		}

		store := x.activeStore()

		job, err := store.Dequeue(ctx, log)
		if err != nil {
			if ctx.Err() != nil {
				log.I("Job worker stopped")
				return
			}
			log.E("Failed to dequeue job", tracing.InnerError, err)
			time.Sleep(time.Second)
			continue
		}

		if job == nil && store == x.redis && x.memory.Waiting(log) > 0 {
			job, _ = x.memory.Dequeue(ctx, log)
			if job != nil {
				store = x.memory
			}
		}

		if job == nil {
			continue
		}

		x.processJob(log, job, store)
	}
}

func (x *Dispatcher) processJob(log *tracing.Logger, job *Job, store JobStore) {
	log = log.With(tracing.JobId, job.ID, tracing.ToolName, job.Tool)
	start := time.Now()

	if err := store.SetStatus(log, job.ID, &JobStatus{State: platform.JobActive, UpdatedAt: time.Now()}); err != nil {
		log.E("Failed to mark job active", tracing.InnerError, err)
	}

	user, err := x.users.GetByID(log, job.UserID)
	if err != nil {
		log.E("Failed to load job owner", tracing.InnerError, err)
		x.finish(log, job, store, &JobStatus{State: platform.JobFailed, Error: err.Error()}, start)
		return
	}

	tool, ok := x.catalog.Get(job.Tool)
	if !ok {
		x.finish(log, job, store, &JobStatus{State: platform.JobFailed, Error: tooling.ErrUnknownTool.Error()}, start)
		return
	}

	result, err := x.execute(log, user, tool, &tooling.ToolRequest{
		Tool:        job.Tool,
		Input:       job.Input,
		SearchQuery: job.SearchQuery,
		AudioPath:   job.AudioPath,
	})

	if err != nil {
		x.finish(log, job, store, &JobStatus{State: platform.JobFailed, Error: err.Error()}, start)
		return
	}

	x.finish(log, job, store, &JobStatus{
		State:      platform.JobCompleted,
		Output:     result.Output,
		OutputType: result.OutputType,
		Tokens:     result.Tokens,
		Credits:    result.Credits,
		DurationMs: result.DurationMs,
	}, start)
}

func (x *Dispatcher) finish(log *tracing.Logger, job *Job, store JobStore, status *JobStatus, start time.Time) {
	status.UpdatedAt = time.Now()

	if err := store.SetStatus(log, job.ID, status); err != nil {
		log.E("Failed to store final job status", tracing.InnerError, err)
	}

	x.metrics.CountJob(string(status.State))
	x.metrics.ObserveJobDuration(job.Tool, time.Since(start).Seconds())

	log.I("Job finished", tracing.JobState, status.State, "duration_ms", status.DurationMs)
}

type QueueMetrics struct {
	Waiting int64  `json:"waiting"`
	Backend string `json:"backend"`
}

func (x *Dispatcher) QueueMetrics(log *tracing.Logger) QueueMetrics {
	store := x.activeStore()

	backend := "redis"
	if store == JobStore(x.memory) {
		backend = "memory"
	}

	return QueueMetrics{Waiting: store.Waiting(log), Backend: backend}
}
