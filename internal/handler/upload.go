package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/audiofx/api/internal/model"
	"github.com/audiofx/api/internal/service"
	"github.com/audiofx/api/pkg/response"
)

type UploadHandler struct {
	service *service.UploadService
}

func NewUploadHandler(svc *service.UploadService) *UploadHandler {
	return &UploadHandler{service: svc}
}

// Upload handles POST /api/files/. It accepts one multipart audio file
// and returns an opaque handle for later processing.
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return response.ValidationError(c, "File is required")
	}

	src, err := file.Open()
	if err != nil {
		return response.ServiceError(c, "Failed to read upload")
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	fileID, err := h.service.Upload(c.Context(), file.Filename, contentType, file.Size, src)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAudio):
			return response.ValidationError(c, "File must be an audio file")
		case errors.Is(err, service.ErrTooLarge):
			return response.ValidationError(c, "File size exceeds 50MB limit")
		default:
			return response.ServiceError(c, "Failed to store upload")
		}
	}

	return response.OK(c, model.UploadResponse{
		Message: "File uploaded successfully",
		FileID:  fileID,
	})
}
