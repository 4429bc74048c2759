package fxclient

import (
	"context"
	"fmt"
	"time"
)

// Status is the observable state of a job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSucceeded Status = "success"
	StatusFailed    Status = "failed"
)

// DownloadToken is a short-lived credential for fetching one processed
// artifact. The server expires it after about an hour; never persist it
// beyond immediate use.
type DownloadToken string

// Outcome is the tagged result of a status query. Only a succeeded
// outcome carries a token.
type Outcome struct {
	Status   Status
	Token    DownloadToken
	Filename string
	Reason   string
}

// Terminal reports whether the outcome ends the job's lifecycle.
func (o Outcome) Terminal() bool {
	return o.Status == StatusSucceeded || o.Status == StatusFailed
}

type statusResponse struct {
	Status   string `json:"status"`
	Token    string `json:"token,omitempty"`
	Filename string `json:"filename,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Status issues a single status query against a job handle. A transport
// failure returns a failed outcome together with a *PollError.
func (c *Client) Status(ctx context.Context, job JobHandle) (Outcome, error) {
	var resp statusResponse
	if err := c.getJSON(ctx, "/api/status/"+string(job), &resp); err != nil {
		return Outcome{Status: StatusFailed, Reason: err.Error()}, &PollError{Err: err}
	}

	switch resp.Status {
	case "pending":
		return Outcome{Status: StatusPending}, nil
	case "success":
		return Outcome{
			Status:   StatusSucceeded,
			Token:    DownloadToken(resp.Token),
			Filename: resp.Filename,
		}, nil
	default:
		reason := resp.Error
		if reason == "" {
			reason = resp.Status
		}
		return Outcome{Status: StatusFailed, Reason: reason}, nil
	}
}

// Await drives a job to its terminal outcome: while the server reports
// pending it re-queries at a fixed interval, and any other response ends
// the loop. Exactly one terminal outcome is returned per call.
//
// onProgress, when non-nil, receives a monotonically non-decreasing
// indicator derived from elapsed polls; it is pinned to 100 only on
// success. The loop is bounded by the client's poll deadline and fails
// with ErrPollTimeout when it runs out, so an abandoned job cannot keep
// a caller polling forever. Cancel ctx to detach early.
func (c *Client) Await(ctx context.Context, job JobHandle, onProgress func(int)) (Outcome, error) {
	var deadline time.Time
	if c.pollMaxWait > 0 {
		deadline = time.Now().Add(c.pollMaxWait)
	}

	progress := 0
	report := func(p int) {
		if onProgress == nil {
			return
		}
		if p > progress {
			progress = p
		}
		onProgress(progress)
	}

	for attempt := 1; ; attempt++ {
		outcome, err := c.Status(ctx, job)
		if err != nil {
			return outcome, err
		}

		switch outcome.Status {
		case StatusSucceeded:
			report(100)
			return outcome, nil
		case StatusFailed:
			return outcome, nil
		}

		// Still pending: advance the indicator but never let it
		// reach 100 before a terminal response.
		if attempt < 99 {
			report(attempt)
		} else {
			report(99)
		}

		if !deadline.IsZero() && !time.Now().Before(deadline) {
			reason := fmt.Sprintf("job %s still pending after %v", job, c.pollMaxWait)
			return Outcome{Status: StatusFailed, Reason: reason}, fmt.Errorf("%w: %s", ErrPollTimeout, reason)
		}

		select {
		case <-ctx.Done():
			return Outcome{Status: StatusFailed, Reason: ctx.Err().Error()}, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}
