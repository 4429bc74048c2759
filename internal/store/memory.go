package store

import (
	"context"
	"sync"
	"time"

	"github.com/audiofx/api/internal/model"
)

// Memory is an in-process implementation of the store interfaces, used
// when Redis is not configured and by the test suite.
type Memory struct {
	mu        sync.RWMutex
	jobs      map[string]model.Job
	files     map[string]expiringString
	tokens    map[string]expiringArtifact
	downloads map[string]expiringArtifact
}

type expiringString struct {
	value   string
	expires time.Time
}

type expiringArtifact struct {
	value   Artifact
	expires time.Time
}

func NewMemory() *Memory {
	return &Memory{
		jobs:      make(map[string]model.Job),
		files:     make(map[string]expiringString),
		tokens:    make(map[string]expiringArtifact),
		downloads: make(map[string]expiringArtifact),
	}
}

func (m *Memory) SaveJob(ctx context.Context, job *model.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[job.ID] = *job
	return nil
}

func (m *Memory) GetJob(ctx context.Context, id string) (*model.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := job
	return &out, nil
}

func (m *Memory) PutFile(ctx context.Context, fileID, storageKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[fileID] = expiringString{value: storageKey, expires: time.Now().Add(FileHandleTTL)}
	return nil
}

func (m *Memory) GetFile(ctx context.Context, fileID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.files[fileID]
	if !ok || time.Now().After(e.expires) {
		return "", ErrNotFound
	}
	return e.value, nil
}

func (m *Memory) PutToken(ctx context.Context, token string, art Artifact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token] = expiringArtifact{value: art, expires: time.Now().Add(TokenTTL)}
	return nil
}

func (m *Memory) GetToken(ctx context.Context, token string) (Artifact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.tokens[token]
	if !ok || time.Now().After(e.expires) {
		return Artifact{}, ErrNotFound
	}
	return e.value, nil
}

func (m *Memory) PutUserArtifact(ctx context.Context, userID, filename string, art Artifact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.downloads[userID+":"+filename] = expiringArtifact{value: art, expires: time.Now().Add(DownloadTTL)}
	return nil
}

func (m *Memory) GetUserArtifact(ctx context.Context, userID, filename string) (Artifact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.downloads[userID+":"+filename]
	if !ok || time.Now().After(e.expires) {
		return Artifact{}, ErrNotFound
	}
	return e.value, nil
}
