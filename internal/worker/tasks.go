package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/audiofx/api/internal/model"
)

// TaskTypeProcess is the asynq task type for effect-processing jobs.
const TaskTypeProcess = "fx:process"

// QueueProcess is the queue effect jobs run on.
const QueueProcess = "fx"

// NewProcessTask wraps a job payload in an asynq task.
func NewProcessTask(payload *model.ProcessJobPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return asynq.NewTask(TaskTypeProcess, data), nil
}

// AsynqEnqueuer hands payloads to asynq. It satisfies service.Enqueuer.
type AsynqEnqueuer struct {
	client *asynq.Client
}

func NewAsynqEnqueuer(client *asynq.Client) *AsynqEnqueuer {
	return &AsynqEnqueuer{client: client}
}

func (e *AsynqEnqueuer) Enqueue(ctx context.Context, payload *model.ProcessJobPayload) error {
	task, err := NewProcessTask(payload)
	if err != nil {
		return err
	}
	_, err = e.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueProcess),
		asynq.MaxRetry(3),
		asynq.Retention(24*time.Hour),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}
	return nil
}
