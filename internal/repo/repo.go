// Package repo provides durable persistence for users and processing
// history. PostgreSQL via pgx backs production; an in-memory
// implementation backs development and tests.
package repo

import (
	"context"
	"errors"

	"github.com/audiofx/api/internal/model"
)

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when the username is already taken.
	ErrDuplicate = errors.New("already exists")
	// ErrDuplicateEmail is returned when the email is already registered
	// under another account.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepo stores registered accounts.
type UserRepo interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

// HistoryRepo stores completed processing records per user.
type HistoryRepo interface {
	AddEntry(ctx context.Context, entry *model.HistoryEntry) error
	ListByUser(ctx context.Context, userID string) ([]model.HistoryEntry, error)
	FindByUserAndFilename(ctx context.Context, userID, processedFilename string) (*model.HistoryEntry, error)
}
