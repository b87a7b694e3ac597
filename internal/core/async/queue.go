// Package async runs analysis pipelines on a small worker pool, decoupled
// from the request/response cycle. The upload handler commits the pending row
// first and only then enqueues, so a client polling right after upload always
// sees "pending" rather than a missing record.
package async

import (
	"context"
	"errors"
	"sync"
	"time"

	"log/slog"

	"github.com/ajibade-k/budgetwise/internal/core"
)

// ErrQueueClosed is returned by Enqueue after Shutdown has begun. Callers own
// the pending row and its file and must fail them; no worker will.
var ErrQueueClosed = errors.New("processor queue is shut down")

type ProcessorQueue struct {
	proc    *core.Processor
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch   chan core.AnalysisJob
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*ProcessorQueue)

func WithWorkers(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}
func WithQueueSize(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.ch = make(chan core.AnalysisJob, n)
		}
	}
}
func WithProcessTimeout(d time.Duration) Option {
	return func(q *ProcessorQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewProcessorQueue(proc *core.Processor, logger *slog.Logger, opts ...Option) *ProcessorQueue {
	q := &ProcessorQueue{
		proc:    proc,
		logger:  logger,
		workers: 4,
		timeout: 5 * time.Minute,
		ch:      make(chan core.AnalysisJob, 256),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *ProcessorQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Info("worker started", "worker_id", workerID)

				for job := range q.ch {
					ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
					err := q.proc.Run(ctx, job)
					cancel()

					if err != nil {
						q.logger.Error("processing failed", "worker_id", workerID, "analysis_id", job.AnalysisID, "error", err)
					} else {
						q.logger.Info("processed analysis successfully", "worker_id", workerID, "analysis_id", job.AnalysisID)
					}
				}

				q.logger.Info("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *ProcessorQueue) Enqueue(_ context.Context, job core.AnalysisJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "analysis_id", job.AnalysisID)
		return ErrQueueClosed
	}
	select {
	case q.ch <- job:
		q.logger.Info("queued analysis for processing", "analysis_id", job.AnalysisID)
	default:
		q.logger.Warn("queue full, applying backpressure", "analysis_id", job.AnalysisID)
		q.ch <- job
	}
	return nil
}

func (q *ProcessorQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}
