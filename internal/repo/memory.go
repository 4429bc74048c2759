package repo

import (
	"context"
	"sort"
	"sync"

	"github.com/audiofx/api/internal/model"
)

// Memory is an in-process implementation of the repo interfaces, used
// when Postgres is not configured and by the test suite.
type Memory struct {
	mu      sync.RWMutex
	users   map[string]model.User // keyed by username
	history map[string][]model.HistoryEntry
}

func NewMemory() *Memory {
	return &Memory{
		users:   make(map[string]model.User),
		history: make(map[string][]model.HistoryEntry),
	}
}

func (m *Memory) CreateUser(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Username]; ok {
		return ErrDuplicate
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return ErrDuplicateEmail
		}
	}
	m.users[user.Username] = *user
	return nil
}

func (m *Memory) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[username]
	if !ok {
		return nil, ErrNotFound
	}
	out := u
	return &out, nil
}

func (m *Memory) AddEntry(ctx context.Context, entry *model.HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history[entry.UserID] = append(m.history[entry.UserID], *entry)
	return nil
}

func (m *Memory) ListByUser(ctx context.Context, userID string) ([]model.HistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := make([]model.HistoryEntry, len(m.history[userID]))
	copy(entries, m.history[userID])
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ProcessedAt.After(entries[j].ProcessedAt)
	})
	return entries, nil
}

func (m *Memory) FindByUserAndFilename(ctx context.Context, userID, processedFilename string) (*model.HistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.history[userID] {
		if e.ProcessedFilename == processedFilename {
			out := e
			return &out, nil
		}
	}
	return nil, ErrNotFound
}
