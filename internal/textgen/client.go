package textgen

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

// Result is the outcome of one streaming generation call. Text always holds
// everything collected in order. StreamErr is set when the stream broke after
// it was opened; in that case Text ends with a single error-description chunk
// and the caller decides whether that counts as a failure.
type Result struct {
	Text      string
	StreamErr error
}

// Config identifies one remote text-generation application.
type Config struct {
	BaseURL string
	APIKey  string
	AppID   string
}

// Client wraps the streaming completion API of one application. Two instances
// exist in the gateway: one for caption text, one for context text.
type Client struct {
	// No client timeout: a hung remote hangs the stage and its pool slot.
	http   *http.Client
	logger *slog.Logger
	cfg    Config
}

// New creates a client for the given application.
func New(cfg Config, logger *slog.Logger) *Client {
	return &Client{
		http:   &http.Client{},
		logger: logger,
		cfg:    cfg,
	}
}

type completionRequest struct {
	Input      completionInput  `json:"input"`
	Parameters completionParams `json:"parameters"`
}

type completionInput struct {
	Prompt string `json:"prompt"`
}

type completionParams struct {
	IncrementalOutput bool `json:"incremental_output"`
}

type completionChunk struct {
	Output struct {
		Text string `json:"text"`
	} `json:"output"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Generate opens a streaming completion session for prompt and collects every
// chunk until the stream ends. A failure to open the session at all is
// returned as an error; any failure after that is folded into the Result as
// described on the type. Generate never panics past its own boundary.
func (c *Client) Generate(ctx context.Context, prompt string) (Result, error) {
	body, err := json.Marshal(completionRequest{
		Input:      completionInput{Prompt: prompt},
		Parameters: completionParams{IncrementalOutput: true},
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to encode completion request: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/apps/%s/completion", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.AppID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("failed to build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("X-DashScope-SSE", "enable")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open completion stream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("completion stream rejected: status %d", resp.StatusCode)
	}

	var sb strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" {
			continue
		}

		var chunk completionChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			c.logger.Warn("Skipping undecodable stream chunk",
				slog.String("app_id", c.cfg.AppID),
				slog.String("error", err.Error()),
			)
			continue
		}

		if chunk.Code != "" {
			streamErr := fmt.Errorf("upstream error %s: %s", chunk.Code, chunk.Message)
			sb.WriteString(errorChunk(streamErr))
			return Result{Text: sb.String(), StreamErr: streamErr}, nil
		}

		sb.WriteString(chunk.Output.Text)
	}

	if err := scanner.Err(); err != nil {
		streamErr := fmt.Errorf("completion stream interrupted: %w", err)
		sb.WriteString(errorChunk(streamErr))
		return Result{Text: sb.String(), StreamErr: streamErr}, nil
	}

	return Result{Text: sb.String()}, nil
}

// errorChunk renders a stream failure as one final text chunk, keeping the
// collected output intact for callers that treat it as data.
func errorChunk(err error) string {
	return fmt.Sprintf("[generation error: %s]", err.Error())
}
