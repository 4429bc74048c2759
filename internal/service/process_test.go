package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/audiofx/api/internal/model"
	"github.com/audiofx/api/internal/storage"
	"github.com/audiofx/api/internal/store"
	"github.com/audiofx/api/pkg/effects"
)

// recordingEnqueuer captures payloads instead of queueing them.
type recordingEnqueuer struct {
	payloads []*model.ProcessJobPayload
	fail     bool
}

func (e *recordingEnqueuer) Enqueue(ctx context.Context, payload *model.ProcessJobPayload) error {
	if e.fail {
		return errors.New("queue down")
	}
	e.payloads = append(e.payloads, payload)
	return nil
}

func TestSubmitUnknownFile(t *testing.T) {
	stores := store.NewMemory()
	svc := NewProcessService(stores, stores, &recordingEnqueuer{})

	params, _ := effects.Build(effects.KindSpeedUp, nil)
	_, err := svc.Submit(context.Background(), "", "nope.mp3", params)
	if !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}

func TestSubmitQueuesJob(t *testing.T) {
	stores := store.NewMemory()
	enq := &recordingEnqueuer{}
	svc := NewProcessService(stores, stores, enq)
	ctx := context.Background()

	if err := stores.PutFile(ctx, "song_ab.mp3", "original/song_ab.mp3"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	params, _ := effects.Build(effects.KindNightcore, effects.Values{
		effects.ParamSpeed: 1.3,
		effects.ParamPitch: 1.0,
	})
	taskID, err := svc.Submit(ctx, "user-1", "song_ab.mp3", params)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if taskID == "" {
		t.Fatal("expected a task ID")
	}

	job, err := stores.GetJob(ctx, taskID)
	if err != nil {
		t.Fatalf("job not saved: %v", err)
	}
	if job.Status != model.JobStatusQueued {
		t.Errorf("status = %s, want queued", job.Status)
	}
	if job.SourceKey != "original/song_ab.mp3" {
		t.Errorf("source key = %q", job.SourceKey)
	}
	if job.UserID != "user-1" {
		t.Errorf("user = %q", job.UserID)
	}

	if len(enq.payloads) != 1 {
		t.Fatalf("expected 1 enqueued payload, got %d", len(enq.payloads))
	}
	if enq.payloads[0].JobID != taskID {
		t.Errorf("payload job ID = %q, want %q", enq.payloads[0].JobID, taskID)
	}
}

func TestSubmitEnqueueFailureMarksJobFailed(t *testing.T) {
	stores := store.NewMemory()
	svc := NewProcessService(stores, stores, &recordingEnqueuer{fail: true})
	ctx := context.Background()

	stores.PutFile(ctx, "song.mp3", "original/song.mp3")
	params, _ := effects.Build(effects.KindSpeedUp, nil)

	_, err := svc.Submit(ctx, "", "song.mp3", params)
	if err == nil {
		t.Fatal("expected enqueue error")
	}
}

func TestUploadServiceValidation(t *testing.T) {
	st, err := storage.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("storage: %v", err)
	}
	stores := store.NewMemory()
	svc := NewUploadService(st, stores, "original")
	ctx := context.Background()

	if _, err := svc.Upload(ctx, "doc.pdf", "application/pdf", 10, strings.NewReader("x")); !errors.Is(err, ErrNotAudio) {
		t.Errorf("expected ErrNotAudio, got %v", err)
	}
	if _, err := svc.Upload(ctx, "big.mp3", "audio/mpeg", MaxUploadBytes, strings.NewReader("x")); !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
}

func TestUploadServiceStoresAndRegisters(t *testing.T) {
	st, err := storage.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("storage: %v", err)
	}
	stores := store.NewMemory()
	svc := NewUploadService(st, stores, "original")
	ctx := context.Background()

	fileID, err := svc.Upload(ctx, "My Song (final).mp3", "audio/mpeg", 16, strings.NewReader("fake audio bytes"))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if !strings.HasSuffix(fileID, ".mp3") {
		t.Errorf("file ID should keep the extension: %q", fileID)
	}
	if strings.ContainsAny(fileID, "() ") {
		t.Errorf("file ID should be sanitized: %q", fileID)
	}

	key, err := stores.GetFile(ctx, fileID)
	if err != nil {
		t.Fatalf("handle not registered: %v", err)
	}
	body, err := st.Open(ctx, key)
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	body.Close()
}
