package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"

	"github.com/sgheritage/video-gateway/internal/gateway/domain"
)

// TextStream handles GET /prompt/text/:job_id: a polling SSE stream of the
// job's context text. Each event carries {"text": ...} with the increment
// since the last poll; the stream terminates with {"done": true} or
// {"error": ...}. Disconnecting stops the stream only — the job keeps running
// and its record keeps being written.
func (h *PromptHandler) TextStream(c *gin.Context) {
	jobID := c.Param("job_id")

	if _, ok := h.store.Get(jobID); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache, no-transform")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(h.pollInterval)
	defer ticker.Stop()
	deadline := time.NewTimer(h.maxDuration)
	defer deadline.Stop()

	clientGone := c.Request.Context().Done()
	sent := 0

	for {
		job, ok := h.store.Get(jobID)
		if !ok {
			// Records are never deleted, so this should not happen.
			h.writeEvent(c, streamEvent{errText: "job not found"})
			return
		}

		if len(job.Text) > sent {
			h.writeEvent(c, streamEvent{text: job.Text[sent:]})
			sent = len(job.Text)
		}

		if job.Status == domain.StatusFailed {
			h.writeEvent(c, streamEvent{errText: job.Error})
			return
		}
		if job.Status == domain.StatusCompleted && job.TextDone {
			h.writeEvent(c, streamEvent{done: true})
			return
		}

		select {
		case <-clientGone:
			return
		case <-deadline.C:
			h.writeEvent(c, streamEvent{errText: "stream duration limit reached"})
			return
		case <-ticker.C:
		}
	}
}

type streamEvent struct {
	text    string
	done    bool
	errText string
}

func (h *PromptHandler) writeEvent(c *gin.Context, ev streamEvent) {
	var payload any
	switch {
	case ev.errText != "":
		payload = gin.H{"error": ev.errText}
	case ev.done:
		payload = gin.H{"done": true}
	default:
		payload = gin.H{"text": ev.text}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := sse.Encode(c.Writer, sse.Event{Data: string(data)}); err != nil {
		return
	}
	c.Writer.Flush()
}
