package pool

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sgheritage/video-gateway/internal/telemetry"
)

type task struct {
	ctx   context.Context
	label string
	fn    func(context.Context) error
	done  chan error
}

// Pool runs blocking external-service calls on a fixed number of goroutines.
// The size is a global cap across all jobs: once every slot is busy, later
// stages queue behind earlier ones. Tasks carry no timeout, so a hung remote
// call occupies its slot until it returns.
type Pool struct {
	logger *slog.Logger
	tasks  chan task
	size   int
	wg     sync.WaitGroup
}

// New creates a pool with the given number of slots.
func New(size int, logger *slog.Logger) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{
		logger: logger,
		tasks:  make(chan task),
		size:   size,
	}
}

// Start spawns the worker goroutines. They run until ctx is canceled.
func (p *Pool) Start(ctx context.Context) {
	p.logger.Info("Starting worker pool", slog.Int("size", p.size))
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.workerLoop(ctx, i)
	}
}

func (p *Pool) workerLoop(ctx context.Context, workerNum int) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case t := <-p.tasks:
			telemetry.PoolInFlight.Inc()
			p.logger.Debug("Pool task started",
				slog.Int("worker_num", workerNum),
				slog.String("label", t.label),
			)
			err := t.fn(t.ctx)
			telemetry.PoolInFlight.Dec()
			t.done <- err
		}
	}
}

// Do runs fn on a pool slot and blocks the caller until it has finished,
// returning whatever fn returned. While waiting for a free slot, Do gives up
// when ctx is done and returns the context error instead.
func (p *Pool) Do(ctx context.Context, label string, fn func(context.Context) error) error {
	t := task{
		ctx:   ctx,
		label: label,
		fn:    fn,
		done:  make(chan error, 1),
	}

	select {
	case p.tasks <- t:
	case <-ctx.Done():
		return ctx.Err()
	}

	return <-t.done
}

// Wait blocks until every worker goroutine has exited. Call after canceling
// the context passed to Start.
func (p *Pool) Wait() {
	p.wg.Wait()
}
