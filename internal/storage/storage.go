// Package storage abstracts where audio artifacts live. The default
// backend is the local filesystem; R2 object storage is available for
// deployments that need it.
package storage

import (
	"context"
	"io"
)

// Storage persists and retrieves audio artifacts by key. Keys are
// relative paths such as "original/track_ab12.mp3".
type Storage interface {
	Save(ctx context.Context, key string, body io.Reader, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
