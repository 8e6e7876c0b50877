package videogen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sgheritage/video-gateway/internal/gateway/domain"
)

// Video is the remote service's answer: a reference to the rendered clip and
// optional subtitle data.
type Video struct {
	Video     string  `json:"video"`
	Subtitles *string `json:"subtitles"`
}

// Config holds the remote endpoint settings and the demo-mode switch.
type Config struct {
	Endpoint  string
	Token     string
	DemoMode  bool
	DemoDelay time.Duration
}

// Client calls the remote text-to-video service, or serves clips from the
// bundled demo library when demo mode is on.
type Client struct {
	http   *http.Client
	logger *slog.Logger
	cfg    Config
	demo   *demoLibrary
}

// New creates a video-generation client.
func New(cfg Config, logger *slog.Logger) *Client {
	return &Client{
		http:   &http.Client{},
		logger: logger,
		cfg:    cfg,
		demo:   newDemoLibrary(),
	}
}

type predictRequest struct {
	Data []any `json:"data"`
}

type predictResponse struct {
	Data []Video `json:"data"`
}

// Generate renders one clip for req and returns its reference. In demo mode
// no remote call is made; the clip comes from the demo library instead.
func (c *Client) Generate(ctx context.Context, req domain.GenerationRequest) (Video, error) {
	if c.cfg.DemoMode {
		return c.demo.match(ctx, req.Prompt, c.cfg.DemoDelay)
	}

	body, err := json.Marshal(predictRequest{Data: []any{
		req.Prompt,
		req.NegPrompt,
		req.Resolution,
		req.Seed,
		req.InferSteps,
		req.CfgScale,
	}})
	if err != nil {
		return Video{}, fmt.Errorf("failed to encode render request: %w", err)
	}

	url := strings.TrimRight(c.cfg.Endpoint, "/") + "/run/generate_fn"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Video{}, fmt.Errorf("failed to build render request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.Token != "" {
		httpReq.Header.Set("Authorization", c.cfg.Token)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Video{}, fmt.Errorf("render request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Video{}, fmt.Errorf("render rejected: status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Video{}, fmt.Errorf("failed to decode render response: %w", err)
	}
	if len(out.Data) == 0 || out.Data[0].Video == "" {
		return Video{}, fmt.Errorf("render response carried no video reference")
	}

	c.logger.Info("Video rendered",
		slog.String("video", out.Data[0].Video),
		slog.Duration("took", time.Since(start)),
	)
	return out.Data[0], nil
}
