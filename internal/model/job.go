package model

import (
	"time"

	"github.com/audiofx/api/pkg/effects"
)

// JobStatus is the internal lifecycle state of a processing job.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusSucceeded JobStatus = "succeeded"
	JobStatusFailed    JobStatus = "failed"
)

// Terminal reports whether the status ends the job lifecycle.
func (s JobStatus) Terminal() bool {
	return s == JobStatusSucceeded || s == JobStatusFailed
}

// Job is one effect-processing request tracked from submission to a
// terminal state. OutputKey and ProcessedFilename are set only on
// success; Error only on failure.
type Job struct {
	ID                string             `json:"id"`
	UserID            string             `json:"userId,omitempty"`
	FileID            string             `json:"fileId"`
	SourceKey         string             `json:"sourceKey"`
	Params            effects.Parameters `json:"params"`
	Status            JobStatus          `json:"status"`
	Progress          int                `json:"progress"`
	CurrentStep       string             `json:"currentStep,omitempty"`
	Error             *string            `json:"error,omitempty"`
	OutputKey         string             `json:"outputKey,omitempty"`
	ProcessedFilename string             `json:"processedFilename,omitempty"`
	CreatedAt         time.Time          `json:"createdAt"`
	StartedAt         *time.Time         `json:"startedAt,omitempty"`
	CompletedAt       *time.Time         `json:"completedAt,omitempty"`
}

// ProcessJobPayload is the task payload handed to the worker.
type ProcessJobPayload struct {
	JobID     string             `json:"jobId"`
	UserID    string             `json:"userId,omitempty"`
	FileID    string             `json:"fileId"`
	SourceKey string             `json:"sourceKey"`
	Params    effects.Parameters `json:"params"`
}
