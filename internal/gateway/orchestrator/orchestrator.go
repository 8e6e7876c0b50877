package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sgheritage/video-gateway/internal/gateway/domain"
	"github.com/sgheritage/video-gateway/internal/gateway/pool"
	"github.com/sgheritage/video-gateway/internal/gateway/store"
	"github.com/sgheritage/video-gateway/internal/telemetry"
	"github.com/sgheritage/video-gateway/internal/textgen"
	"github.com/sgheritage/video-gateway/internal/videogen"
)

// TextGenerator is the streaming text collaborator's contract.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (textgen.Result, error)
}

// VideoGenerator renders one clip for a generation request.
type VideoGenerator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (videogen.Video, error)
}

// Config holds orchestrator dependencies.
type Config struct {
	Logger     *slog.Logger
	Store      *store.Store
	Pool       *pool.Pool
	CaptionGen TextGenerator
	ContextGen TextGenerator
	VideoGen   VideoGenerator
}

// Orchestrator drives each job through its stages: caption text first, then
// video generation (re-prompted with the caption) concurrently with context
// text generation. Every stage result is written into the store as it lands,
// so the HTTP surface can observe progress at any point.
type Orchestrator struct {
	logger     *slog.Logger
	store      *store.Store
	pool       *pool.Pool
	captionGen TextGenerator
	contextGen TextGenerator
	videoGen   VideoGenerator
	wg         sync.WaitGroup
}

// New creates an orchestrator.
func New(cfg *Config) *Orchestrator {
	return &Orchestrator{
		logger:     cfg.Logger,
		store:      cfg.Store,
		pool:       cfg.Pool,
		captionGen: cfg.CaptionGen,
		contextGen: cfg.ContextGen,
		videoGen:   cfg.VideoGen,
	}
}

// Start allocates the job record and launches the workflow on a tracked
// background goroutine. It never blocks on generation work. The returned
// snapshot is the job in its initial queued state.
func (o *Orchestrator) Start(req domain.GenerationRequest) domain.Job {
	job := o.store.Create(req.Prompt)
	telemetry.JobsStarted.Inc()

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.run(job.ID, req)
	}()

	return job
}

// Wait blocks until every launched workflow has finished.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

func (o *Orchestrator) run(jobID string, req domain.GenerationRequest) {
	// Jobs outlive any observing HTTP request and are never canceled, so the
	// whole workflow runs against the background context.
	ctx := context.Background()
	logger := o.logger.With(slog.String("job_id", jobID))

	o.store.Update(jobID, func(j *domain.Job) {
		j.Status = domain.StatusProcessing
	})

	captionStart := time.Now()
	var caption textgen.Result
	err := o.pool.Do(ctx, "caption", func(ctx context.Context) error {
		var genErr error
		caption, genErr = o.captionGen.Generate(ctx, req.Prompt)
		return genErr
	})
	telemetry.StageDuration.WithLabelValues("caption").Observe(time.Since(captionStart).Seconds())
	if err != nil {
		o.fail(jobID, fmt.Errorf("caption generation failed: %w", err))
		return
	}
	if caption.StreamErr != nil {
		// The collected text already carries the error chunk; it stays data
		// and the job proceeds, matching the collaborator's contract.
		logger.Warn("Caption stream ended with embedded error",
			slog.String("error", caption.StreamErr.Error()),
		)
	}

	o.store.Update(jobID, func(j *domain.Job) {
		j.Caption = caption.Text
	})

	// Video and context run concurrently from here. Video gates the terminal
	// status; the context result is recorded afterwards no matter how video
	// ended, because the two outputs are independent deliverables.
	videoReq := req
	videoReq.Prompt = caption.Text

	type contextOutcome struct {
		res textgen.Result
		err error
	}
	contextCh := make(chan contextOutcome, 1)
	go func() {
		var out contextOutcome
		out.err = o.pool.Do(ctx, "context", func(ctx context.Context) error {
			var genErr error
			out.res, genErr = o.contextGen.Generate(ctx, req.Prompt)
			return genErr
		})
		contextCh <- out
	}()

	videoStart := time.Now()
	var video videogen.Video
	err = o.pool.Do(ctx, "video", func(ctx context.Context) error {
		var genErr error
		video, genErr = o.videoGen.Generate(ctx, videoReq)
		return genErr
	})
	telemetry.StageDuration.WithLabelValues("video").Observe(time.Since(videoStart).Seconds())
	if err != nil {
		o.fail(jobID, fmt.Errorf("video generation failed: %w", err))
	} else {
		o.store.Update(jobID, func(j *domain.Job) {
			j.Status = domain.StatusCompleted
			j.Completed = true
			j.Video = video.Video
		})
		telemetry.JobsCompleted.Inc()
		logger.Info("Job completed", slog.String("video", video.Video))
	}

	out := <-contextCh
	if out.err != nil {
		// A context failure alone never flips an already-terminal job.
		logger.Warn("Context generation failed", slog.String("error", out.err.Error()))
		o.store.Update(jobID, func(j *domain.Job) {
			j.TextDone = true
		})
		return
	}
	if out.res.StreamErr != nil {
		logger.Warn("Context stream ended with embedded error",
			slog.String("error", out.res.StreamErr.Error()),
		)
	}
	o.store.Update(jobID, func(j *domain.Job) {
		j.Text = out.res.Text
		j.TextDone = true
	})
}

func (o *Orchestrator) fail(jobID string, err error) {
	telemetry.JobsFailed.Inc()
	o.logger.Error("Job failed",
		slog.String("job_id", jobID),
		slog.String("error", err.Error()),
	)
	o.store.Update(jobID, func(j *domain.Job) {
		j.Status = domain.StatusFailed
		j.Completed = true
		j.Error = err.Error()
	})
}
