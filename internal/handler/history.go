package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/audiofx/api/internal/middleware"
	"github.com/audiofx/api/internal/model"
	"github.com/audiofx/api/internal/service"
	"github.com/audiofx/api/pkg/response"
)

type HistoryHandler struct {
	service *service.HistoryService
}

func NewHistoryHandler(svc *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{service: svc}
}

// History handles GET /api/history, newest entries first.
func (h *HistoryHandler) History(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	entries, err := h.service.List(c.Context(), userID)
	if err != nil {
		return response.ServiceError(c, "Failed to load history")
	}
	if entries == nil {
		entries = []model.HistoryEntry{}
	}

	return response.OK(c, model.HistoryResponse{History: entries})
}

// DownloadLink handles GET /api/history-download-link?filename=. It
// re-issues a temporary token for a past result owned by the caller.
func (h *HistoryHandler) DownloadLink(c *fiber.Ctx) error {
	filename := c.Query("filename")
	if filename == "" {
		return response.ValidationError(c, "filename is required")
	}

	token, err := h.service.DownloadLink(c.Context(), middleware.GetUserID(c), filename)
	if err != nil {
		if errors.Is(err, service.ErrHistoryNotFound) {
			return response.NotFound(c, "File not found")
		}
		return response.ServiceError(c, "Failed to issue download link")
	}

	return response.OK(c, model.DownloadLinkResponse{Token: token})
}
