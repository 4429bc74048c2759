package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/audiofx/api/internal/storage"
	"github.com/audiofx/api/internal/store"
)

// MaxUploadBytes is the upload size cap. Files at or above the limit
// are rejected.
const MaxUploadBytes = 50 << 20

var (
	// ErrNotAudio is returned for uploads whose content type is not audio/*.
	ErrNotAudio = errors.New("file must be an audio file")
	// ErrTooLarge is returned for uploads at or above MaxUploadBytes.
	ErrTooLarge = errors.New("file too large")
)

// UploadService accepts audio uploads, stores the bytes, and hands out
// short-lived file handles for later processing.
type UploadService struct {
	storage     storage.Storage
	files       store.FileStore
	originalDir string
}

func NewUploadService(st storage.Storage, files store.FileStore, originalDir string) *UploadService {
	return &UploadService{storage: st, files: files, originalDir: originalDir}
}

// Upload validates and stores one file, returning its handle. The
// handle embeds the sanitized original name so later artifacts keep a
// recognizable filename.
func (s *UploadService) Upload(ctx context.Context, filename, contentType string, size int64, body io.Reader) (string, error) {
	if !strings.HasPrefix(contentType, "audio/") {
		return "", ErrNotAudio
	}
	if size >= MaxUploadBytes {
		return "", ErrTooLarge
	}

	fileID := makeFileID(filename)
	key := path.Join(s.originalDir, fileID)

	if err := s.storage.Save(ctx, key, body, contentType); err != nil {
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	if err := s.files.PutFile(ctx, fileID, key); err != nil {
		// The stored object is unreachable without its handle.
		if derr := s.storage.Delete(ctx, key); derr != nil {
			log.Printf("[Upload] cleanup of %s failed: %v", key, derr)
		}
		return "", fmt.Errorf("failed to register upload: %w", err)
	}

	log.Printf("[Upload] stored %s as %s (%d bytes)", filename, fileID, size)
	return fileID, nil
}

// makeFileID builds `<basename>_<short-id><ext>` from the client
// filename, keeping only characters safe for storage keys.
func makeFileID(filename string) string {
	base := filepath.Base(filename)
	ext := filepath.Ext(base)
	name := sanitizeName(strings.TrimSuffix(base, ext))
	if name == "" {
		name = "upload"
	}
	short := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s_%s%s", name, short, strings.ToLower(ext))
}

func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "._")
}
