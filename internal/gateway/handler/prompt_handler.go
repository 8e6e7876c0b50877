package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sgheritage/video-gateway/internal/gateway/domain"
)

const (
	defaultResolution = "1280*720"
	defaultSeed       = -1
	defaultInferSteps = 10
	defaultCfgScale   = 5
)

// PromptRequest carries the generation parameters accepted by the start and
// single-shot endpoints. Absent fields keep the documented defaults.
type PromptRequest struct {
	Prompt     string `json:"prompt" binding:"required"`
	NegPrompt  string `json:"neg_prompt"`
	Resolution string `json:"resolution"`
	Seed       int    `json:"seed"`
	InferSteps int    `json:"infer_steps"`
	CfgScale   int    `json:"cfg_scale"`
}

func bindPromptRequest(c *gin.Context) (PromptRequest, bool) {
	req := PromptRequest{
		Resolution: defaultResolution,
		Seed:       defaultSeed,
		InferSteps: defaultInferSteps,
		CfgScale:   defaultCfgScale,
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return PromptRequest{}, false
	}
	return req, true
}

func (r PromptRequest) generation() domain.GenerationRequest {
	return domain.GenerationRequest{
		Prompt:     r.Prompt,
		NegPrompt:  r.NegPrompt,
		Resolution: r.Resolution,
		Seed:       r.Seed,
		InferSteps: r.InferSteps,
		CfgScale:   r.CfgScale,
	}
}

// Ping handles GET /, the liveness probe.
func (h *PromptHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ping": "pong"})
}

// Start handles POST /prompt/start. It enqueues the job and returns at once;
// all generation work runs on the orchestrator's background goroutine.
func (h *PromptHandler) Start(c *gin.Context) {
	req, ok := bindPromptRequest(c)
	if !ok {
		return
	}

	job := h.orchestrator.Start(req.generation())

	h.logger.Info("Job enqueued",
		slog.String("job_id", job.ID),
		slog.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusCreated, gin.H{
		"job_id": job.ID,
		"status": job.Status,
		"type":   "video",
	})
}

// Status handles GET /prompt/status/:job_id.
func (h *PromptHandler) Status(c *gin.Context) {
	jobID := c.Param("job_id")

	job, ok := h.store.Get(jobID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}

	resp := gin.H{
		"job_id":    job.ID,
		"status":    job.Status,
		"completed": job.Completed,
	}
	if job.Video != "" {
		resp["video"] = job.Video
	}
	if job.Error != "" {
		resp["error"] = job.Error
	}
	c.JSON(http.StatusOK, resp)
}

// Generate handles POST /prompt: a synchronous single-shot render that calls
// the video service inline, without allocating a job record.
func (h *PromptHandler) Generate(c *gin.Context) {
	req, ok := bindPromptRequest(c)
	if !ok {
		return
	}

	video, err := h.videoGen.Generate(c.Request.Context(), req.generation())
	if err != nil {
		h.logger.Error("Synchronous render failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, video)
}
