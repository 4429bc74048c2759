package fxclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/audiofx/api/pkg/effects"
)

func TestSubmitSendsOnlyApplicableParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/process" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("file_id"); got != "track_a1b2.mp3" {
			t.Errorf("file_id = %q", got)
		}

		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("bad body: %v", err)
		}
		if body["effect_type"] != "speedup" {
			t.Errorf("effect_type = %v", body["effect_type"])
		}
		if body["speed"] != 2.0 {
			t.Errorf("speed = %v", body["speed"])
		}
		for _, field := range []string{"reverb_amount", "pitch", "bass_gain", "flanger_mix"} {
			if _, present := body[field]; present {
				t.Errorf("payload must not carry %q for speedup", field)
			}
		}

		w.Write([]byte(`{"task_id": "job-1"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	job, err := c.Submit(context.Background(), "track_a1b2.mp3", effects.KindSpeedUp, effects.Values{
		effects.ParamSpeed:        2.0,
		effects.ParamReverbAmount: 80, // stale knob value, must be stripped
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if job != "job-1" {
		t.Errorf("job = %q", job)
	}
}

func TestSubmitWithoutFileHandle(t *testing.T) {
	c := New("http://127.0.0.1:0")

	_, err := c.Submit(context.Background(), "", effects.KindSpeedUp, nil)

	var pe *PreconditionError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *PreconditionError, got %T: %v", err, err)
	}
}

func TestSubmitRejectsOutOfRangeValues(t *testing.T) {
	c := New("http://127.0.0.1:0")

	_, err := c.Submit(context.Background(), "f.mp3", effects.KindSpeedUp, effects.Values{
		effects.ParamSpeed: 9.0,
	})

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
}

func TestSubmitMissingTaskID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Submit(context.Background(), "f.mp3", effects.KindSpeedUp, nil)

	var se *SubmissionError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SubmissionError, got %T: %v", err, err)
	}
}
