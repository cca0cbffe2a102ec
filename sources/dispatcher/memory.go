package dispatcher

import (
	"context"
	"errors"
	"sync"
	"time"

	"sakuracore/sources/configuration"
	"sakuracore/sources/platform"
	"sakuracore/sources/tracing"

	"github.com/google/uuid"
)

var ErrQueueFull = errors.New("job queue is full")

type memoryEntry struct {
	status    *JobStatus
	updatedAt time.Time
}

// MemoryStore keeps the dispatcher usable when Redis queueing is disabled
// or unreachable. Jobs and statuses live in process memory and die with it.
type MemoryStore struct {
	queue    chan *Job
	mu       sync.Mutex
	statuses map[uuid.UUID]*memoryEntry
	config   *configuration.Config
	log      *tracing.Logger
}

func NewMemoryStore(config *configuration.Config, log *tracing.Logger) *MemoryStore {
	return &MemoryStore{
		queue:    make(chan *Job, 1024),
		statuses: make(map[uuid.UUID]*memoryEntry),
		config:   config,
		log:      log,
	}
}

func (x *MemoryStore) Enqueue(log *tracing.Logger, job *Job) error {
	select {
	case x.queue <- job:
	default:
		log.E("In-memory queue is full", tracing.JobId, job.ID)
		return ErrQueueFull
	}

	return x.SetStatus(log, job.ID, &JobStatus{State: platform.JobWaiting, UpdatedAt: time.Now()})
}

func (x *MemoryStore) Dequeue(ctx context.Context, log *tracing.Logger) (*Job, error) {
	select {
	case job := <-x.queue:
		return job, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(5 * time.Second):
		return nil, nil
	}
}

func (x *MemoryStore) SetStatus(log *tracing.Logger, id uuid.UUID, status *JobStatus) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.statuses[id] = &memoryEntry{status: status, updatedAt: time.Now()}
	return nil
}

func (x *MemoryStore) GetStatus(log *tracing.Logger, id uuid.UUID) (*JobStatus, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	entry, ok := x.statuses[id]
	if !ok {
		return &JobStatus{State: platform.JobNotFound}, nil
	}

	return entry.status, nil
}

func (x *MemoryStore) Waiting(log *tracing.Logger) int64 {
	return int64(len(x.queue))
}

// Sweep drops finished statuses past retention. Runs until ctx cancels.
func (x *MemoryStore) Sweep(ctx context.Context) {
	ticker := time.NewTicker(x.config.Queue.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			x.sweepOnce()
		}
	}
}

func (x *MemoryStore) sweepOnce() {
	x.mu.Lock()
	defer x.mu.Unlock()

	cutoff := time.Now().Add(-x.config.Queue.Retention)
	removed := 0
	for id, entry := range x.statuses {
		if entry.updatedAt.Before(cutoff) {
			delete(x.statuses, id)
			removed++
		}
	}

	if removed > 0 {
		x.log.D("Swept expired job statuses", "removed", removed)
	}
}
