package fxclient

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions callers branch on.
var (
	// ErrPollTimeout marks a poll loop that hit its deadline before the
	// job reached a terminal state.
	ErrPollTimeout = errors.New("poll deadline exceeded")

	// ErrInvalidCredentials is reported by the server on a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserExists is reported by the server on a duplicate registration.
	ErrUserExists = errors.New("user already exists")

	errNoTaskID = errors.New("server returned no task_id")
)

// ValidationError rejects bad input before any network call is made.
// The user can always recover by correcting the input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// PreconditionError rejects an operation whose prerequisites are not met,
// such as submitting a job without an uploaded file. No request is sent.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return "precondition failed: " + e.Reason
}

// UploadError reports a transport or server failure during upload. No
// partial file handle is produced.
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string { return "upload failed: " + e.Err.Error() }
func (e *UploadError) Unwrap() error { return e.Err }

// SubmissionError reports a transport or server failure during job
// submission. No job handle is produced.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string { return "submission failed: " + e.Err.Error() }
func (e *SubmissionError) Unwrap() error { return e.Err }

// PollError reports a transport failure while querying job status. The
// poll loop treats it as a terminal failure, never as a retryable state.
type PollError struct {
	Err error
}

func (e *PollError) Error() string { return "status poll failed: " + e.Err.Error() }
func (e *PollError) Unwrap() error { return e.Err }

// AuthError reports a missing or rejected credential on an authenticated
// endpoint. Recoverable by re-authenticating.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string { return "authentication failed: " + e.Err.Error() }
func (e *AuthError) Unwrap() error { return e.Err }

// NotFoundError reports a lookup the server could not resolve, such as a
// history filename with no stored artifact behind it.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.Resource)
}
