package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/audiofx/api/internal/middleware"
	"github.com/audiofx/api/internal/model"
	"github.com/audiofx/api/internal/service"
	"github.com/audiofx/api/pkg/effects"
	"github.com/audiofx/api/pkg/response"
)

type ProcessHandler struct {
	service   *service.ProcessService
	validator *validator.Validate
}

func NewProcessHandler(svc *service.ProcessService, v *validator.Validate) *ProcessHandler {
	return &ProcessHandler{service: svc, validator: v}
}

// Process handles POST /api/process?file_id=. The body carries the
// effect payload; parameters that do not apply to the chosen effect are
// rejected rather than ignored.
func (h *ProcessHandler) Process(c *fiber.Ctx) error {
	fileID := c.Query("file_id")
	if fileID == "" {
		return response.ValidationError(c, "file_id is required")
	}

	var params effects.Parameters
	if err := c.BodyParser(&params); err != nil {
		return response.ValidationError(c, "Invalid request body")
	}
	if err := h.validator.Struct(&params); err != nil {
		return response.ValidationError(c, "effect_type is required")
	}
	if err := params.Validate(); err != nil {
		return response.ValidationError(c, err.Error())
	}

	taskID, err := h.service.Submit(c.Context(), middleware.GetUserID(c), fileID, &params)
	if err != nil {
		if errors.Is(err, service.ErrFileNotFound) {
			return response.NotFound(c, "File not found")
		}
		return response.ServiceError(c, "Failed to queue processing job")
	}

	return response.OK(c, model.ProcessResponse{TaskID: taskID})
}
