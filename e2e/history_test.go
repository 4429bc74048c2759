package e2e

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
)

// runJob uploads and processes one file as the given user, returning
// the processed filename from the status response.
func runJob(t *testing.T, app *fiber.App, token, filename, effectBody string) string {
	t.Helper()

	fileID := uploadFile(t, app, token, filename, "audio/mpeg", "fake audio bytes")

	headers := map[string]string{}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	resp, err := doRequest(app, http.MethodPost, "/api/process?file_id="+fileID, effectBody, headers)
	if err != nil {
		t.Fatalf("process request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusOK)
	taskID, _ := parseJSON(t, resp)["task_id"].(string)

	resp, err = doRequest(app, http.MethodGet, "/api/status/"+taskID, "", nil)
	if err != nil {
		t.Fatalf("status request failed: %v", err)
	}
	status := parseJSON(t, resp)
	if status["status"] != "success" {
		t.Fatalf("job did not succeed: %v", status)
	}
	processed, _ := status["filename"].(string)
	return processed
}

func TestHistoryRecordsAuthenticatedJobs(t *testing.T) {
	app := setupApp(t)
	token := registerUser(t, app, "ada")

	first := runJob(t, app, token, "first.mp3", `{"effect_type": "speedup", "speed": 2.0, "volume": 0.8}`)
	second := runJob(t, app, token, "second.mp3", `{"effect_type": "slowed", "speed": 0.8, "reverb_amount": 40, "volume": 0.8}`)

	resp, err := doRequest(app, http.MethodGet, "/api/history", "", map[string]string{
		"Authorization": "Bearer " + token,
	})
	if err != nil {
		t.Fatalf("history request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusOK)

	result := parseJSON(t, resp)
	entries, ok := result["history"].([]interface{})
	if !ok {
		t.Fatalf("missing history array: %v", result)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	// Newest first
	newest := entries[0].(map[string]interface{})
	oldest := entries[1].(map[string]interface{})
	if newest["processed_filename"] != second {
		t.Errorf("newest = %v, want %q", newest["processed_filename"], second)
	}
	if oldest["processed_filename"] != first {
		t.Errorf("oldest = %v, want %q", oldest["processed_filename"], first)
	}
	if newest["effect_type"] != "slowed" {
		t.Errorf("effect_type = %v", newest["effect_type"])
	}
}

func TestHistoryIsolatedPerUser(t *testing.T) {
	app := setupApp(t)
	adaToken := registerUser(t, app, "ada")
	bobToken := registerUser(t, app, "bob")

	runJob(t, app, adaToken, "ada.mp3", `{"effect_type": "speedup", "speed": 2.0, "volume": 0.8}`)

	resp, err := doRequest(app, http.MethodGet, "/api/history", "", map[string]string{
		"Authorization": "Bearer " + bobToken,
	})
	if err != nil {
		t.Fatalf("history request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusOK)

	entries, _ := parseJSON(t, resp)["history"].([]interface{})
	if len(entries) != 0 {
		t.Errorf("bob should see no entries, got %d", len(entries))
	}
}

func TestHistoryRequiresAuth(t *testing.T) {
	app := setupApp(t)

	resp, err := doRequest(app, http.MethodGet, "/api/history", "", nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusUnauthorized)
}

func TestAnonymousJobsLeaveNoHistory(t *testing.T) {
	app := setupApp(t)
	token := registerUser(t, app, "ada")

	// Anonymous job
	runJob(t, app, "", "anon.mp3", `{"effect_type": "speedup", "speed": 2.0, "volume": 0.8}`)

	resp, _ := doRequest(app, http.MethodGet, "/api/history", "", map[string]string{
		"Authorization": "Bearer " + token,
	})
	entries, _ := parseJSON(t, resp)["history"].([]interface{})
	if len(entries) != 0 {
		t.Errorf("anonymous jobs must not appear in anyone's history, got %d", len(entries))
	}
}

func TestHistoryDownloadLink(t *testing.T) {
	app := setupApp(t)
	token := registerUser(t, app, "ada")

	processed := runJob(t, app, token, "song.mp3", `{"effect_type": "speedup", "speed": 2.0, "volume": 0.8}`)

	resp, err := doRequest(app, http.MethodGet, "/api/history-download-link?filename="+processed, "", map[string]string{
		"Authorization": "Bearer " + token,
	})
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusOK)

	dlToken, _ := parseJSON(t, resp)["token"].(string)
	if dlToken == "" {
		t.Fatal("expected a token")
	}

	resp, err = doRequest(app, http.MethodGet, "/api/temp-download/"+dlToken, "", nil)
	if err != nil {
		t.Fatalf("download failed: %v", err)
	}
	assertStatus(t, resp, http.StatusOK)
	if body := readBody(t, resp); body != "fake audio bytes" {
		t.Errorf("downloaded body = %q", body)
	}
}

func TestDirectDownload(t *testing.T) {
	app := setupApp(t)
	token := registerUser(t, app, "ada")

	processed := runJob(t, app, token, "song.mp3", `{"effect_type": "speedup", "speed": 2.0, "volume": 0.8}`)

	resp, err := doRequest(app, http.MethodGet, "/api/download/"+processed, "", map[string]string{
		"Authorization": "Bearer " + token,
	})
	if err != nil {
		t.Fatalf("download failed: %v", err)
	}
	assertStatus(t, resp, http.StatusOK)
	if body := readBody(t, resp); body != "fake audio bytes" {
		t.Errorf("downloaded body = %q", body)
	}
}

func TestDirectDownloadRequiresAuth(t *testing.T) {
	app := setupApp(t)
	token := registerUser(t, app, "ada")

	processed := runJob(t, app, token, "song.mp3", `{"effect_type": "speedup", "speed": 2.0, "volume": 0.8}`)

	resp, err := doRequest(app, http.MethodGet, "/api/download/"+processed, "", nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusUnauthorized)
}

func TestDirectDownloadOtherUsersFile(t *testing.T) {
	app := setupApp(t)
	adaToken := registerUser(t, app, "ada")
	bobToken := registerUser(t, app, "bob")

	processed := runJob(t, app, adaToken, "secret.mp3", `{"effect_type": "speedup", "speed": 2.0, "volume": 0.8}`)

	resp, err := doRequest(app, http.MethodGet, "/api/download/"+processed, "", map[string]string{
		"Authorization": "Bearer " + bobToken,
	})
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusNotFound)
	assertDetail(t, parseJSON(t, resp), "File not found or expired")
}

func TestHistoryDownloadLinkUnknownFilename(t *testing.T) {
	app := setupApp(t)
	token := registerUser(t, app, "ada")

	resp, err := doRequest(app, http.MethodGet, "/api/history-download-link?filename=never-made.mp3", "", map[string]string{
		"Authorization": "Bearer " + token,
	})
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusNotFound)
	assertDetail(t, parseJSON(t, resp), "File not found")
}

func TestHistoryDownloadLinkOtherUsersFile(t *testing.T) {
	app := setupApp(t)
	adaToken := registerUser(t, app, "ada")
	bobToken := registerUser(t, app, "bob")

	processed := runJob(t, app, adaToken, "secret.mp3", `{"effect_type": "speedup", "speed": 2.0, "volume": 0.8}`)

	// Bob cannot mint a link for Ada's artifact.
	resp, err := doRequest(app, http.MethodGet, "/api/history-download-link?filename="+processed, "", map[string]string{
		"Authorization": "Bearer " + bobToken,
	})
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusNotFound)
}
