package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/audiofx/api/internal/client"
	"github.com/audiofx/api/internal/model"
	"github.com/audiofx/api/internal/repo"
	"github.com/audiofx/api/internal/storage"
	"github.com/audiofx/api/internal/store"
	"github.com/audiofx/api/internal/websocket"
)

// FXWorker runs effect-processing jobs: it hands the original to the
// DSP service (or falls back to a mock pass-through when none is
// configured), records the result, and writes the user's history row.
type FXWorker struct {
	jobs         store.JobStore
	downloads    store.DownloadStore
	storage      storage.Storage
	fxClient     *client.FXClient
	history      repo.HistoryRepo
	hub          *websocket.Hub
	processedDir string
}

func NewFXWorker(jobs store.JobStore, downloads store.DownloadStore, st storage.Storage, fxClient *client.FXClient, history repo.HistoryRepo, hub *websocket.Hub, processedDir string) *FXWorker {
	return &FXWorker{
		jobs:         jobs,
		downloads:    downloads,
		storage:      st,
		fxClient:     fxClient,
		history:      history,
		hub:          hub,
		processedDir: processedDir,
	}
}

// ProcessTask is the asynq handler for TaskTypeProcess.
func (w *FXWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload model.ProcessJobPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %w", err)
	}
	return w.ProcessJob(ctx, &payload)
}

// ProcessJob runs one job to a terminal state. Exported so tests can
// run jobs inline without a queue.
func (w *FXWorker) ProcessJob(ctx context.Context, payload *model.ProcessJobPayload) error {
	jobID := payload.JobID
	log.Printf("[FXWorker] starting job %s (%s)", jobID, payload.Params.EffectType)

	job, err := w.jobs.GetJob(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to load job %s: %w", jobID, err)
	}

	now := time.Now().UTC()
	job.Status = model.JobStatusRunning
	job.StartedAt = &now
	w.updateProgress(ctx, job, 10, "Preparing audio...")

	processedFilename := processedFilename(payload.FileID, string(payload.Params.EffectType))
	outputKey := path.Join(w.processedDir, processedFilename)

	w.updateProgress(ctx, job, 30, "Applying effects...")

	if w.fxClient != nil && w.fxClient.IsConfigured() {
		err = w.renderRemote(ctx, payload, outputKey)
	} else {
		err = w.renderMock(ctx, payload, outputKey)
	}
	if err != nil {
		w.failJob(ctx, job, fmt.Sprintf("Processing failed: %v", err))
		return err
	}

	w.updateProgress(ctx, job, 90, "Saving result...")

	job.Status = model.JobStatusSucceeded
	job.Progress = 100
	job.CurrentStep = ""
	job.OutputKey = outputKey
	job.ProcessedFilename = processedFilename
	done := time.Now().UTC()
	job.CompletedAt = &done
	if err := w.jobs.SaveJob(ctx, job); err != nil {
		w.failJob(ctx, job, "Failed to save result")
		return err
	}

	// History and the direct-download record are best-effort: a write
	// failure must not fail the job.
	if payload.UserID != "" {
		art := store.Artifact{StorageKey: outputKey, Filename: processedFilename}
		if err := w.downloads.PutUserArtifact(ctx, payload.UserID, processedFilename, art); err != nil {
			log.Printf("[FXWorker] failed to record download for job %s: %v", jobID, err)
		}

		entry := &model.HistoryEntry{
			ID:                uuid.NewString(),
			UserID:            payload.UserID,
			OriginalFilename:  payload.FileID,
			ProcessedFilename: processedFilename,
			EffectType:        string(payload.Params.EffectType),
			ProcessedAt:       done,
		}
		if err := w.history.AddEntry(ctx, entry); err != nil {
			log.Printf("[FXWorker] failed to record history for job %s: %v", jobID, err)
		}
	}

	w.hub.BroadcastComplete(jobID, processedFilename)
	log.Printf("[FXWorker] job %s completed (%s)", jobID, processedFilename)
	return nil
}

// renderRemote delegates the DSP work to the effects service, which
// reads and writes shared storage.
func (w *FXWorker) renderRemote(ctx context.Context, payload *model.ProcessJobPayload, outputKey string) error {
	params := payload.Params
	req := &client.RenderRequest{
		InputKey:   payload.SourceKey,
		OutputKey:  outputKey,
		EffectType: params.EffectType,
		Params:     params.Values(),
		Volume:     params.Volume,
	}
	if _, err := w.fxClient.Render(ctx, req); err != nil {
		return err
	}
	return nil
}

// renderMock copies the original bytes to the output key so the rest of
// the pipeline works in development without a DSP service.
func (w *FXWorker) renderMock(ctx context.Context, payload *model.ProcessJobPayload, outputKey string) error {
	log.Printf("[FXWorker] effects service not configured, passing audio through for job %s", payload.JobID)

	src, err := w.storage.Open(ctx, payload.SourceKey)
	if err != nil {
		return fmt.Errorf("failed to open original: %w", err)
	}
	defer src.Close()

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := w.storage.Save(ctx, outputKey, src, "audio/mpeg"); err != nil {
		return fmt.Errorf("failed to save processed file: %w", err)
	}
	return nil
}

func (w *FXWorker) updateProgress(ctx context.Context, job *model.Job, progress int, step string) {
	job.Progress = progress
	job.CurrentStep = step
	if err := w.jobs.SaveJob(ctx, job); err != nil {
		log.Printf("[FXWorker] failed to update progress for job %s: %v", job.ID, err)
	}
	w.hub.BroadcastProgress(job.ID, progress, job.Status, step)
}

func (w *FXWorker) failJob(ctx context.Context, job *model.Job, errMsg string) {
	job.Status = model.JobStatusFailed
	job.Error = &errMsg
	done := time.Now().UTC()
	job.CompletedAt = &done
	if err := w.jobs.SaveJob(ctx, job); err != nil {
		log.Printf("[FXWorker] failed to mark job %s as failed: %v", job.ID, err)
	}
	w.hub.BroadcastError(job.ID, errMsg)
}

// processedFilename derives the output name from the file handle and
// effect, always as mp3.
func processedFilename(fileID, effect string) string {
	base := strings.TrimSuffix(fileID, path.Ext(fileID))
	return fmt.Sprintf("%s_%s.mp3", base, effect)
}
