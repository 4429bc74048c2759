package handler

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/audiofx/api/internal/middleware"
	"github.com/audiofx/api/internal/service"
	"github.com/audiofx/api/internal/storage"
	"github.com/audiofx/api/internal/store"
	"github.com/audiofx/api/pkg/response"
)

type DownloadHandler struct {
	tokens    *service.TokenService
	downloads store.DownloadStore
	storage   storage.Storage
}

func NewDownloadHandler(tokens *service.TokenService, downloads store.DownloadStore, st storage.Storage) *DownloadHandler {
	return &DownloadHandler{tokens: tokens, downloads: downloads, storage: st}
}

// TempDownload handles GET /api/temp-download/:token. The "t" query
// parameter is a client-side cache buster and is ignored here.
func (h *DownloadHandler) TempDownload(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return response.ValidationError(c, "Token is required")
	}

	art, err := h.tokens.Redeem(c.Context(), token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.NotFound(c, "Download link expired or invalid")
		}
		return response.ServiceError(c, "Failed to resolve download")
	}

	return h.stream(c, art)
}

// Download handles GET /api/download/:fileId, an authenticated direct
// download of the caller's own processed file by its filename.
func (h *DownloadHandler) Download(c *fiber.Ctx) error {
	fileID := c.Params("fileId")
	if fileID == "" {
		return response.ValidationError(c, "File ID is required")
	}

	art, err := h.downloads.GetUserArtifact(c.Context(), middleware.GetUserID(c), fileID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.NotFound(c, "File not found or expired")
		}
		return response.ServiceError(c, "Failed to resolve download")
	}

	return h.stream(c, art)
}

func (h *DownloadHandler) stream(c *fiber.Ctx, art store.Artifact) error {
	body, err := h.storage.Open(c.Context(), art.StorageKey)
	if err != nil {
		return response.NotFound(c, "File no longer available")
	}

	c.Set(fiber.HeaderContentType, "audio/mpeg")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, art.Filename))
	return c.SendStream(body)
}
