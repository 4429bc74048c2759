package store

import (
	"context"
	"errors"
	"testing"

	"github.com/audiofx/api/internal/model"
)

func TestMemoryJobRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	job := &model.Job{ID: "task-1", Status: model.JobStatusQueued}
	if err := m.SaveJob(ctx, job); err != nil {
		t.Fatalf("SaveJob failed: %v", err)
	}

	got, err := m.GetJob(ctx, "task-1")
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if got.Status != model.JobStatusQueued {
		t.Errorf("status = %s", got.Status)
	}

	// Returned job is a copy; mutating it must not affect the store.
	got.Status = model.JobStatusFailed
	again, _ := m.GetJob(ctx, "task-1")
	if again.Status != model.JobStatusQueued {
		t.Error("store leaked a mutable reference")
	}
}

func TestMemoryMissingRecords(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if _, err := m.GetJob(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetJob: expected ErrNotFound, got %v", err)
	}
	if _, err := m.GetFile(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetFile: expected ErrNotFound, got %v", err)
	}
	if _, err := m.GetToken(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetToken: expected ErrNotFound, got %v", err)
	}
}

func TestMemoryFileAndTokenRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.PutFile(ctx, "song_ab.mp3", "original/song_ab.mp3"); err != nil {
		t.Fatalf("PutFile failed: %v", err)
	}
	key, err := m.GetFile(ctx, "song_ab.mp3")
	if err != nil || key != "original/song_ab.mp3" {
		t.Errorf("GetFile = %q, %v", key, err)
	}

	art := Artifact{StorageKey: "processed/song_ab_speedup.mp3", Filename: "song_ab_speedup.mp3"}
	if err := m.PutToken(ctx, "tok", art); err != nil {
		t.Fatalf("PutToken failed: %v", err)
	}
	got, err := m.GetToken(ctx, "tok")
	if err != nil || got != art {
		t.Errorf("GetToken = %+v, %v", got, err)
	}
}
