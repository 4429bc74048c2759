package model

import "time"

// User is a registered account. The password is stored as a bcrypt hash.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// HistoryEntry is one completed processing job in a user's record. The
// server owns the record; clients get a read-only view.
type HistoryEntry struct {
	ID                string    `json:"-"`
	UserID            string    `json:"-"`
	OriginalFilename  string    `json:"original_filename"`
	ProcessedFilename string    `json:"processed_filename"`
	EffectType        string    `json:"effect_type"`
	ProcessedAt       time.Time `json:"processed_at"`
}
