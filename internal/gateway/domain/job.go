package domain

import (
	"errors"
	"time"
)

// Job status constants
const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

var (
	// ErrJobNotFound is returned when a job id is unknown to the store
	ErrJobNotFound = errors.New("job not found")
)

// Terminal reports whether a status admits no further transitions.
func Terminal(status string) bool {
	return status == StatusCompleted || status == StatusFailed
}

// Job is one end-to-end request's mutable progress/result record.
// Caption holds the text that re-prompts the video generator; Text holds the
// independently generated context text served on the stream endpoint.
type Job struct {
	ID        string
	Status    string
	Completed bool
	Prompt    string
	Caption   string
	Text      string
	TextDone  bool
	Video     string
	Error     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GenerationRequest carries the parameters for one video-generation call.
// It is passed by value and never persisted beyond the call.
type GenerationRequest struct {
	Prompt     string
	NegPrompt  string
	Resolution string
	Seed       int
	InferSteps int
	CfgScale   int
}
