package fxclient

import (
	"context"
	"net/url"

	"github.com/audiofx/api/pkg/effects"
)

// JobHandle references one processing job from submission to its
// terminal outcome.
type JobHandle string

type submitResponse struct {
	TaskID string `json:"task_id"`
}

// Submit builds a catalog-shaped payload from the raw control values and
// submits a processing job against an uploaded file. Only the parameters
// applicable to kind travel on the wire, plus volume. An empty file
// handle fails with a *PreconditionError and no request is sent; bad
// parameter values fail the same way with a *ValidationError.
//
// Each call starts an independent job: submitting again while an earlier
// job is still pending neither cancels nor serializes it.
func (c *Client) Submit(ctx context.Context, file FileHandle, kind effects.Kind, values effects.Values) (JobHandle, error) {
	if file == "" {
		return "", &PreconditionError{Reason: "no file uploaded"}
	}

	params, err := effects.Build(kind, values)
	if err != nil {
		return "", &ValidationError{Reason: err.Error()}
	}

	endpoint := "/api/process?file_id=" + url.QueryEscape(string(file))

	var resp submitResponse
	if err := c.postJSON(ctx, endpoint, params, &resp); err != nil {
		return "", &SubmissionError{Err: err}
	}
	if resp.TaskID == "" {
		return "", &SubmissionError{Err: errNoTaskID}
	}

	return JobHandle(resp.TaskID), nil
}
