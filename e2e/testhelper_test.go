package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/audiofx/api/internal/config"
	"github.com/audiofx/api/internal/handler"
	"github.com/audiofx/api/internal/middleware"
	"github.com/audiofx/api/internal/model"
	"github.com/audiofx/api/internal/repo"
	"github.com/audiofx/api/internal/service"
	"github.com/audiofx/api/internal/storage"
	"github.com/audiofx/api/internal/store"
	"github.com/audiofx/api/internal/worker"
	ws "github.com/audiofx/api/internal/websocket"
)

const testJWTSecret = "test-secret-for-e2e"

// syncEnqueuer runs each job to completion before the submit request
// returns, so tests see terminal states without sleeping.
type syncEnqueuer struct {
	worker *worker.FXWorker
}

func (e *syncEnqueuer) Enqueue(ctx context.Context, payload *model.ProcessJobPayload) error {
	return e.worker.ProcessJob(ctx, payload)
}

// setupApp wires the app like main.go but entirely in-process: memory
// stores and repos, temp-dir storage, no effects service (pass-through
// mode), jobs run inline.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	stores := store.NewMemory()
	repos := repo.NewMemory()

	st, err := storage.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}

	validate := validator.New()

	hub := ws.NewHub()
	go hub.Run()

	fxWorker := worker.NewFXWorker(stores, stores, st, nil, repos, hub, "processed")
	enqueuer := &syncEnqueuer{worker: fxWorker}

	uploadService := service.NewUploadService(st, stores, "original")
	processService := service.NewProcessService(stores, stores, enqueuer)
	tokenService := service.NewTokenService(stores)
	historyService := service.NewHistoryService(repos, tokenService, "processed")
	authService := service.NewAuthService(repos, config.JWTConfig{Secret: testJWTSecret, Expiration: 1})

	uploadHandler := handler.NewUploadHandler(uploadService)
	processHandler := handler.NewProcessHandler(processService, validate)
	statusHandler := handler.NewStatusHandler(processService, tokenService)
	downloadHandler := handler.NewDownloadHandler(tokenService, stores, st)
	historyHandler := handler.NewHistoryHandler(historyService)
	authHandler := handler.NewAuthHandler(authService, validate)

	authMiddleware := middleware.NewAuthMiddleware(testJWTSecret)

	app := fiber.New(fiber.Config{
		BodyLimit: 50 * 1024 * 1024,
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)
	api.Post("/files", authMiddleware.Optional(), uploadHandler.Upload)
	api.Post("/process", authMiddleware.Optional(), processHandler.Process)
	api.Get("/status/:taskId", statusHandler.Status)
	api.Get("/temp-download/:token", downloadHandler.TempDownload)
	api.Get("/history", authMiddleware.Authenticate(), historyHandler.History)
	api.Get("/history-download-link", authMiddleware.Authenticate(), historyHandler.DownloadLink)
	api.Get("/download/:fileId", authMiddleware.Authenticate(), downloadHandler.Download)

	return app
}

// doRequest performs an HTTP request against the test app.
func doRequest(app *fiber.App, method, path, body string, headers map[string]string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, path, bodyReader)
	if err != nil {
		return nil, err
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return app.Test(req, -1)
}

// registerUser creates an account and returns its bearer token.
func registerUser(t *testing.T, app *fiber.App, username string) string {
	t.Helper()
	body := fmt.Sprintf(`{"username": %q, "email": "%s@example.com", "password": "hunter2!!"}`, username, username)
	resp, err := doRequest(app, http.MethodPost, "/api/register", body, nil)
	if err != nil {
		t.Fatalf("register request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusOK)
	result := parseJSON(t, resp)
	token, _ := result["access_token"].(string)
	if token == "" {
		t.Fatal("register returned no access_token")
	}
	return token
}

// uploadFile posts a multipart audio file and returns the file handle.
func uploadFile(t *testing.T, app *fiber.App, token, filename, contentType, content string) string {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("failed to build multipart: %v", err)
	}
	part.Write([]byte(content))
	mw.Close()

	req, err := http.NewRequest(http.MethodPost, "/api/files", &buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("upload request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusOK)

	result := parseJSON(t, resp)
	fileID, _ := result["file_id"].(string)
	if fileID == "" {
		t.Fatal("upload returned no file_id")
	}
	return fileID
}

// readBody reads and returns the response body as a string.
func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return string(b)
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	body := readBody(t, resp)
	var result map[string]interface{}
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, body)
	}
	return result
}

// assertStatus checks the HTTP status code.
func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

// assertDetail checks the error body's detail field.
func assertDetail(t *testing.T, result map[string]interface{}, want string) {
	t.Helper()
	if result["detail"] != want {
		t.Errorf("detail = %v, want %q", result["detail"], want)
	}
}
