package service

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/audiofx/api/internal/model"
	"github.com/audiofx/api/internal/repo"
	"github.com/audiofx/api/internal/store"
)

// ErrHistoryNotFound is returned when a download link is requested for
// a filename the user never produced.
var ErrHistoryNotFound = errors.New("history entry not found")

// HistoryService reads a user's processing record and mints download
// tokens for past results.
type HistoryService struct {
	history      repo.HistoryRepo
	tokens       *TokenService
	processedDir string
}

func NewHistoryService(history repo.HistoryRepo, tokens *TokenService, processedDir string) *HistoryService {
	return &HistoryService{history: history, tokens: tokens, processedDir: processedDir}
}

// List returns the user's history, newest first.
func (s *HistoryService) List(ctx context.Context, userID string) ([]model.HistoryEntry, error) {
	entries, err := s.history.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return entries, nil
}

// DownloadLink issues a temporary download token for a past result.
// The filename is only honored when it belongs to the requesting user.
func (s *HistoryService) DownloadLink(ctx context.Context, userID, processedFilename string) (string, error) {
	entry, err := s.history.FindByUserAndFilename(ctx, userID, processedFilename)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrHistoryNotFound
		}
		return "", fmt.Errorf("failed to look up history entry: %w", err)
	}

	return s.tokens.Issue(ctx, store.Artifact{
		StorageKey: path.Join(s.processedDir, entry.ProcessedFilename),
		Filename:   entry.ProcessedFilename,
	})
}
