package dispatcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sakuracore/sources/configuration"
	"sakuracore/sources/platform"
	"sakuracore/sources/tracing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const jobsKey = "sakura:jobs"

type RedisStore struct {
	client *redis.Client
	config *configuration.Config
}

func NewRedisStore(client *redis.Client, config *configuration.Config) *RedisStore {
	return &RedisStore{client: client, config: config}
}

func statusKey(id uuid.UUID) string {
	return fmt.Sprintf("sakura:job:%s", id)
}

func (x *RedisStore) Enqueue(log *tracing.Logger, job *Job) error {
	ctx, cancel := platform.ContextTimeout(context.Background())
	defer cancel()

	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}

	if err := x.client.LPush(ctx, jobsKey, payload).Err(); err != nil {
		log.E("Failed to enqueue job", tracing.JobId, job.ID, tracing.InnerError, err)
		return err
	}

	return x.SetStatus(log, job.ID, &JobStatus{State: platform.JobWaiting, UpdatedAt: time.Now()})
}

// Dequeue blocks briefly and returns (nil, nil) when the queue is empty,
// letting the worker loop re-check shutdown and feature flags.
func (x *RedisStore) Dequeue(ctx context.Context, log *tracing.Logger) (*Job, error) {
	result, err := x.client.BRPop(ctx, 5*time.Second, jobsKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	if len(result) < 2 {
		return nil, nil
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		log.E("Failed to decode queued job, dropping it", tracing.InnerError, err)
		return nil, nil
	}

	return &job, nil
}

func (x *RedisStore) SetStatus(log *tracing.Logger, id uuid.UUID, status *JobStatus) error {
	ctx, cancel := platform.ContextTimeout(context.Background())
	defer cancel()

	payload, err := json.Marshal(status)
	if err != nil {
		return err
	}

	if err := x.client.Set(ctx, statusKey(id), payload, x.config.Queue.Retention).Err(); err != nil {
		log.E("Failed to store job status", tracing.JobId, id, tracing.InnerError, err)
		return err
	}

	return nil
}

func (x *RedisStore) GetStatus(log *tracing.Logger, id uuid.UUID) (*JobStatus, error) {
	ctx, cancel := platform.ContextTimeout(context.Background())
	defer cancel()

	payload, err := x.client.Get(ctx, statusKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &JobStatus{State: platform.JobNotFound}, nil
		}
		log.E("Failed to read job status", tracing.JobId, id, tracing.InnerError, err)
		return nil, err
	}

	var status JobStatus
	if err := json.Unmarshal([]byte(payload), &status); err != nil {
		return nil, err
	}

	return &status, nil
}

func (x *RedisStore) Waiting(log *tracing.Logger) int64 {
	ctx, cancel := platform.ContextTimeout(context.Background())
	defer cancel()

	count, err := x.client.LLen(ctx, jobsKey).Result()
	if err != nil {
		log.E("Failed to read queue length", tracing.InnerError, err)
		return 0
	}

	return count
}
