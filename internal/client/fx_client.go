package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/audiofx/api/internal/config"
	"github.com/audiofx/api/pkg/effects"
)

// FXProcessor defines the interface for the effects rendering service.
type FXProcessor interface {
	Render(ctx context.Context, req *RenderRequest) (*RenderResponse, error)
	HealthCheck(ctx context.Context) error
}

// FXClient implements FXProcessor against the DSP microservice. The
// service reads the original from shared storage and writes the
// processed artifact back under the given output key.
type FXClient struct {
	httpClient *http.Client
	baseURL    string
}

// RenderRequest represents a single render call.
type RenderRequest struct {
	InputKey   string                    `json:"input_key"`
	OutputKey  string                    `json:"output_key"`
	EffectType effects.Kind              `json:"effect_type"`
	Params     map[effects.Param]float64 `json:"params"`
	Volume     float64                   `json:"volume"`
}

// RenderResponse represents the result of a render call.
type RenderResponse struct {
	OutputKey string  `json:"output_key"`
	Duration  float64 `json:"duration"`
	Size      int64   `json:"size"`
}

// NewFXClient creates a new effects rendering client.
func NewFXClient(cfg *config.FXConfig) *FXClient {
	return &FXClient{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		baseURL: cfg.ServiceURL,
	}
}

// Render sends the job to the effects service and waits for completion.
func (c *FXClient) Render(ctx context.Context, req *RenderRequest) (*RenderResponse, error) {
	var result RenderResponse
	if err := c.post(ctx, "/render", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// HealthCheck checks if the effects service is available.
func (c *FXClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("effects service unhealthy: status %d", resp.StatusCode)
	}

	return nil
}

func (c *FXClient) post(ctx context.Context, endpoint string, body interface{}, result interface{}) error {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("effects service error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

// IsConfigured returns true if the client has a service URL.
func (c *FXClient) IsConfigured() bool {
	return c.baseURL != ""
}
