package handler

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/audiofx/api/internal/model"
	"github.com/audiofx/api/internal/service"
	"github.com/audiofx/api/internal/store"
	"github.com/audiofx/api/pkg/response"
)

// Wire status values. Internal queued/running states both map to
// "pending"; the split is not part of the contract.
const (
	wireStatusPending = "pending"
	wireStatusSuccess = "success"
	wireStatusFailed  = "failed"
)

type StatusHandler struct {
	process *service.ProcessService
	tokens  *service.TokenService
}

func NewStatusHandler(process *service.ProcessService, tokens *service.TokenService) *StatusHandler {
	return &StatusHandler{process: process, tokens: tokens}
}

// Status handles GET /api/status/:taskId. On success it mints a fresh
// download token; each poll of a finished job gets its own token.
func (h *StatusHandler) Status(c *fiber.Ctx) error {
	taskID := c.Params("taskId")
	if taskID == "" {
		return response.ValidationError(c, "Task ID is required")
	}

	job, err := h.process.GetJob(c.Context(), taskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.NotFound(c, "Task not found")
		}
		return response.ServiceError(c, "Failed to load task")
	}

	switch job.Status {
	case model.JobStatusSucceeded:
		token, err := h.tokens.Issue(c.Context(), store.Artifact{
			StorageKey: job.OutputKey,
			Filename:   job.ProcessedFilename,
		})
		if err != nil {
			log.Printf("[Status] failed to issue token for job %s: %v", job.ID, err)
			return response.ServiceError(c, "Failed to issue download token")
		}
		return response.OK(c, model.StatusResponse{
			Status:   wireStatusSuccess,
			Token:    token,
			Filename: job.ProcessedFilename,
		})

	case model.JobStatusFailed:
		reason := "Processing failed"
		if job.Error != nil {
			reason = *job.Error
		}
		return response.OK(c, model.StatusResponse{
			Status: wireStatusFailed,
			Error:  reason,
		})

	default:
		return response.OK(c, model.StatusResponse{Status: wireStatusPending})
	}
}
