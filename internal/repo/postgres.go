package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/audiofx/api/internal/model"
)

// Postgres implements UserRepo and HistoryRepo on a pgx pool.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Migrate creates the schema if it does not exist yet.
func (p *Postgres) Migrate(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS history (
			id                 TEXT PRIMARY KEY,
			user_id            TEXT NOT NULL REFERENCES users(id),
			original_filename  TEXT NOT NULL,
			processed_filename TEXT NOT NULL,
			effect_type        TEXT NOT NULL,
			processed_at       TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS history_user_idx ON history(user_id, processed_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

func (p *Postgres) CreateUser(ctx context.Context, user *model.User) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO users (id, username, email, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if pgErr.ConstraintName == "users_email_key" {
				return ErrDuplicateEmail
			}
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (p *Postgres) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := p.pool.QueryRow(ctx,
		`SELECT id, username, email, password_hash, created_at FROM users WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &u, nil
}

func (p *Postgres) AddEntry(ctx context.Context, entry *model.HistoryEntry) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO history (id, user_id, original_filename, processed_filename, effect_type, processed_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID, entry.UserID, entry.OriginalFilename, entry.ProcessedFilename, entry.EffectType, entry.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}
	return nil
}

func (p *Postgres) ListByUser(ctx context.Context, userID string) ([]model.HistoryEntry, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, user_id, original_filename, processed_filename, effect_type, processed_at
		 FROM history WHERE user_id = $1 ORDER BY processed_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []model.HistoryEntry
	for rows.Next() {
		var e model.HistoryEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.OriginalFilename, &e.ProcessedFilename, &e.EffectType, &e.ProcessedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (p *Postgres) FindByUserAndFilename(ctx context.Context, userID, processedFilename string) (*model.HistoryEntry, error) {
	var e model.HistoryEntry
	err := p.pool.QueryRow(ctx,
		`SELECT id, user_id, original_filename, processed_filename, effect_type, processed_at
		 FROM history WHERE user_id = $1 AND processed_filename = $2`,
		userID, processedFilename,
	).Scan(&e.ID, &e.UserID, &e.OriginalFilename, &e.ProcessedFilename, &e.EffectType, &e.ProcessedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query history entry: %w", err)
	}
	return &e, nil
}
