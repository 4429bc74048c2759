// Package store holds the short-lived server-side records: job state,
// uploaded file handles, and download tokens. Redis backs production;
// an in-memory implementation backs development and tests.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/audiofx/api/internal/model"
)

// ErrNotFound is returned when a record is missing or expired.
var ErrNotFound = errors.New("not found")

// Record lifetimes. File handles and download tokens expire after an
// hour; job records stick around long enough for late status checks.
const (
	FileHandleTTL = 1 * time.Hour
	TokenTTL      = 1 * time.Hour
	DownloadTTL   = 1 * time.Hour
	JobTTL        = 24 * time.Hour
)

// JobStore persists job records keyed by task ID.
type JobStore interface {
	SaveJob(ctx context.Context, job *model.Job) error
	GetJob(ctx context.Context, id string) (*model.Job, error)
}

// FileStore maps uploaded file handles to storage keys. Entries expire;
// a submission against an expired handle fails cleanly.
type FileStore interface {
	PutFile(ctx context.Context, fileID, storageKey string) error
	GetFile(ctx context.Context, fileID string) (string, error)
}

// Artifact is what a download token redeems to.
type Artifact struct {
	StorageKey string `json:"storageKey"`
	Filename   string `json:"filename"`
}

// TokenStore maps single-purpose download tokens to artifacts. Tokens
// are time-limited and server-expired.
type TokenStore interface {
	PutToken(ctx context.Context, token string, art Artifact) error
	GetToken(ctx context.Context, token string) (Artifact, error)
}

// DownloadStore maps a user's processed filenames to their artifacts,
// backing the authenticated direct-download endpoint. Entries expire
// like tokens do.
type DownloadStore interface {
	PutUserArtifact(ctx context.Context, userID, filename string, art Artifact) error
	GetUserArtifact(ctx context.Context, userID, filename string) (Artifact, error)
}
