package handler

import (
	"log/slog"
	"time"

	"github.com/sgheritage/video-gateway/internal/gateway/orchestrator"
	"github.com/sgheritage/video-gateway/internal/gateway/store"
)

const (
	defaultPollInterval = 500 * time.Millisecond
	defaultMaxDuration  = 10 * time.Minute
)

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger       *slog.Logger
	Store        *store.Store
	Orchestrator *orchestrator.Orchestrator
	VideoGen     orchestrator.VideoGenerator

	// Text-stream polling knobs; zero values pick the defaults above.
	StreamPollInterval time.Duration
	StreamMaxDuration  time.Duration
}

// PromptHandler handles prompt-related HTTP requests
type PromptHandler struct {
	logger       *slog.Logger
	store        *store.Store
	orchestrator *orchestrator.Orchestrator
	videoGen     orchestrator.VideoGenerator
	pollInterval time.Duration
	maxDuration  time.Duration
}

// NewPromptHandler creates a new PromptHandler instance
func NewPromptHandler(deps *Dependencies) *PromptHandler {
	pollInterval := deps.StreamPollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	maxDuration := deps.StreamMaxDuration
	if maxDuration <= 0 {
		maxDuration = defaultMaxDuration
	}

	return &PromptHandler{
		logger:       deps.Logger,
		store:        deps.Store,
		orchestrator: deps.Orchestrator,
		videoGen:     deps.VideoGen,
		pollInterval: pollInterval,
		maxDuration:  maxDuration,
	}
}
