package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/audiofx/api/internal/model"
	"github.com/audiofx/api/internal/store"
	"github.com/audiofx/api/pkg/effects"
)

// ErrFileNotFound is returned when a submission references an unknown
// or expired file handle.
var ErrFileNotFound = errors.New("file not found")

// Enqueuer hands a job payload to the background worker. The asynq
// client satisfies this in production; tests run the payload inline.
type Enqueuer interface {
	Enqueue(ctx context.Context, payload *model.ProcessJobPayload) error
}

// ProcessService validates submissions and queues processing jobs.
type ProcessService struct {
	jobs     store.JobStore
	files    store.FileStore
	enqueuer Enqueuer
}

func NewProcessService(jobs store.JobStore, files store.FileStore, enqueuer Enqueuer) *ProcessService {
	return &ProcessService{jobs: jobs, files: files, enqueuer: enqueuer}
}

// Submit records a queued job for the uploaded file and enqueues it.
// userID is empty for anonymous submissions; those produce no history.
func (s *ProcessService) Submit(ctx context.Context, userID, fileID string, params *effects.Parameters) (string, error) {
	sourceKey, err := s.files.GetFile(ctx, fileID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrFileNotFound
		}
		return "", fmt.Errorf("failed to resolve file handle: %w", err)
	}

	job := &model.Job{
		ID:        uuid.NewString(),
		UserID:    userID,
		FileID:    fileID,
		SourceKey: sourceKey,
		Params:    *params,
		Status:    model.JobStatusQueued,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.jobs.SaveJob(ctx, job); err != nil {
		return "", fmt.Errorf("failed to save job: %w", err)
	}

	payload := &model.ProcessJobPayload{
		JobID:     job.ID,
		UserID:    userID,
		FileID:    fileID,
		SourceKey: sourceKey,
		Params:    *params,
	}
	if err := s.enqueuer.Enqueue(ctx, payload); err != nil {
		reason := "failed to enqueue job"
		job.Status = model.JobStatusFailed
		job.Error = &reason
		if serr := s.jobs.SaveJob(ctx, job); serr != nil {
			log.Printf("[Process] failed to mark job %s failed: %v", job.ID, serr)
		}
		return "", fmt.Errorf("failed to enqueue job: %w", err)
	}

	log.Printf("[Process] queued job %s for file %s (%s)", job.ID, fileID, params.EffectType)
	return job.ID, nil
}

// GetJob returns the job record for a task ID.
func (s *ProcessService) GetJob(ctx context.Context, taskID string) (*model.Job, error) {
	return s.jobs.GetJob(ctx, taskID)
}
