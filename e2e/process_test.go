package e2e

import (
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestFullProcessingFlow(t *testing.T) {
	app := setupApp(t)

	fileID := uploadFile(t, app, "", "song.mp3", "audio/mpeg", "fake audio bytes")

	resp, err := doRequest(app, http.MethodPost, "/api/process?file_id="+fileID,
		`{"effect_type": "speedup", "speed": 2.0, "volume": 0.8}`, nil)
	if err != nil {
		t.Fatalf("process request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusOK)
	taskID, _ := parseJSON(t, resp)["task_id"].(string)
	if taskID == "" {
		t.Fatal("expected task_id")
	}

	// Jobs run inline in tests, so the first poll is already terminal.
	resp, err = doRequest(app, http.MethodGet, "/api/status/"+taskID, "", nil)
	if err != nil {
		t.Fatalf("status request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusOK)
	status := parseJSON(t, resp)
	if status["status"] != "success" {
		t.Fatalf("status = %v (error: %v)", status["status"], status["error"])
	}
	token, _ := status["token"].(string)
	filename, _ := status["filename"].(string)
	if token == "" {
		t.Fatal("success status carries no token")
	}
	if !strings.HasSuffix(filename, "_speedup.mp3") {
		t.Errorf("filename = %q, want *_speedup.mp3", filename)
	}

	// The token redeems to the processed artifact; the cache-bust query
	// parameter is ignored.
	resp, err = doRequest(app, http.MethodGet, "/api/temp-download/"+token+"?t=1756339200000", "", nil)
	if err != nil {
		t.Fatalf("download request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusOK)
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, filename) {
		t.Errorf("Content-Disposition = %q, want filename %q", cd, filename)
	}
	if body := readBody(t, resp); body != "fake audio bytes" {
		t.Errorf("downloaded body = %q", body)
	}
}

func TestStatusMintsFreshTokenPerPoll(t *testing.T) {
	app := setupApp(t)

	fileID := uploadFile(t, app, "", "song.mp3", "audio/mpeg", "fake audio bytes")
	resp, _ := doRequest(app, http.MethodPost, "/api/process?file_id="+fileID,
		`{"effect_type": "speedup", "speed": 1.5, "volume": 0.8}`, nil)
	taskID, _ := parseJSON(t, resp)["task_id"].(string)

	resp1, _ := doRequest(app, http.MethodGet, "/api/status/"+taskID, "", nil)
	resp2, _ := doRequest(app, http.MethodGet, "/api/status/"+taskID, "", nil)
	tok1, _ := parseJSON(t, resp1)["token"].(string)
	tok2, _ := parseJSON(t, resp2)["token"].(string)

	if tok1 == "" || tok2 == "" {
		t.Fatal("expected tokens on both polls")
	}
	if tok1 == tok2 {
		t.Error("each poll of a finished job should mint a fresh token")
	}

	// Both tokens stay redeemable.
	for _, tok := range []string{tok1, tok2} {
		resp, err := doRequest(app, http.MethodGet, "/api/temp-download/"+tok, "", nil)
		if err != nil {
			t.Fatalf("download failed: %v", err)
		}
		assertStatus(t, resp, http.StatusOK)
		readBody(t, resp)
	}
}

func TestProcessUnknownFile(t *testing.T) {
	app := setupApp(t)

	resp, err := doRequest(app, http.MethodPost, "/api/process?file_id=ghost.mp3",
		`{"effect_type": "speedup", "speed": 2.0, "volume": 0.8}`, nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusNotFound)
	assertDetail(t, parseJSON(t, resp), "File not found")
}

func TestProcessRejectsInapplicableParams(t *testing.T) {
	app := setupApp(t)

	fileID := uploadFile(t, app, "", "song.mp3", "audio/mpeg", "fake audio bytes")

	// reverb_amount does not apply to speedup
	resp, err := doRequest(app, http.MethodPost, "/api/process?file_id="+fileID,
		`{"effect_type": "speedup", "speed": 2.0, "reverb_amount": 40, "volume": 0.8}`, nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusBadRequest)

	result := parseJSON(t, resp)
	detail, _ := result["detail"].(string)
	if !strings.Contains(detail, "reverb_amount") {
		t.Errorf("detail should name the offending field: %q", detail)
	}
}

func TestProcessRejectsOutOfRange(t *testing.T) {
	app := setupApp(t)

	fileID := uploadFile(t, app, "", "song.mp3", "audio/mpeg", "fake audio bytes")

	resp, err := doRequest(app, http.MethodPost, "/api/process?file_id="+fileID,
		`{"effect_type": "nightcore", "speed": 5.0, "pitch": 1.0, "volume": 0.8}`, nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusBadRequest)
}

func TestProcessRequiresFileID(t *testing.T) {
	app := setupApp(t)

	resp, err := doRequest(app, http.MethodPost, "/api/process",
		`{"effect_type": "speedup", "speed": 2.0, "volume": 0.8}`, nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusBadRequest)
}

func TestStatusUnknownTask(t *testing.T) {
	app := setupApp(t)

	resp, err := doRequest(app, http.MethodGet, "/api/status/"+uuid.NewString(), "", nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusNotFound)
	assertDetail(t, parseJSON(t, resp), "Task not found")
}

func TestTempDownloadUnknownToken(t *testing.T) {
	app := setupApp(t)

	resp, err := doRequest(app, http.MethodGet, "/api/temp-download/"+uuid.NewString(), "", nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusNotFound)
	assertDetail(t, parseJSON(t, resp), "Download link expired or invalid")
}

func TestUploadRejectsNonAudio(t *testing.T) {
	app := setupApp(t)

	var reqBody strings.Builder
	reqBody.WriteString("--bound\r\n")
	reqBody.WriteString("Content-Disposition: form-data; name=\"file\"; filename=\"doc.pdf\"\r\n")
	reqBody.WriteString("Content-Type: application/pdf\r\n\r\n")
	reqBody.WriteString("not audio\r\n")
	reqBody.WriteString("--bound--\r\n")

	req, _ := http.NewRequest(http.MethodPost, "/api/files", strings.NewReader(reqBody.String()))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=bound")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusBadRequest)
	assertDetail(t, parseJSON(t, resp), "File must be an audio file")
}
