// Package tasks runs named background jobs on an in-process worker pool.
//
// Delivery is at least once: a handler that returns an error is retried with a
// linear back-off until MaxAttempts is reached, then the job is logged and dropped.
// Errors wrapping domain.ErrInvalidInput or domain.ErrNotFound are not retried.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"conferencecentral/internal/domain"
	"conferencecentral/internal/metrics"
)

var (
	// ErrUnknownTask is returned by Enqueue for a name with no registered handler.
	ErrUnknownTask = errors.New("unknown task")
	// ErrQueueFull is returned by Enqueue when the buffer has no room.
	ErrQueueFull = errors.New("task queue full")
)

// Config sizes the queue.
type Config struct {
	Workers     int
	MaxAttempts int
	QueueSize   int
	// Backoff is multiplied by the attempt number between retries.
	Backoff time.Duration
}

type job struct {
	id      string
	name    string
	params  map[string]string
	handler domain.TaskHandler
}

// Queue implements domain.TaskDispatcher.
type Queue struct {
	cfg     Config
	jobs    chan job
	metrics *metrics.Metrics
	logger  *slog.Logger

	mu       sync.RWMutex
	handlers map[string]domain.TaskHandler
}

var _ domain.TaskDispatcher = (*Queue)(nil)

// New creates a queue. Non-positive config values fall back to 1 worker, 1 attempt and an unbuffered queue.
func New(cfg Config, m *metrics.Metrics, logger *slog.Logger) *Queue {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.QueueSize < 0 {
		cfg.QueueSize = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{
		cfg:      cfg,
		jobs:     make(chan job, cfg.QueueSize),
		metrics:  m,
		logger:   logger,
		handlers: make(map[string]domain.TaskHandler),
	}
}

// Handle registers h for name, replacing any earlier handler.
func (q *Queue) Handle(name string, h domain.TaskHandler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers[name] = h
}

// Enqueue buffers a job and returns without waiting for it to run.
func (q *Queue) Enqueue(ctx context.Context, name string, params map[string]string) error {
	q.mu.RLock()
	h, ok := q.handlers[name]
	q.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTask, name)
	}
	j := job{id: uuid.NewString(), name: name, params: maps.Clone(params), handler: h}
	select {
	case q.jobs <- j:
		q.logger.DebugContext(ctx, "task enqueued", "task", name, "task_id", j.id)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		q.metrics.IncTask(name, metrics.ResultDropped)
		return fmt.Errorf("%w: %s", ErrQueueFull, name)
	}
}

// Run starts the workers and blocks until ctx is cancelled. Jobs still buffered at that point are not run.
func (q *Queue) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for range q.cfg.Workers {
		g.Go(func() error {
			q.work(ctx)
			return nil
		})
	}
	err := g.Wait()
	if n := len(q.jobs); n > 0 {
		q.logger.Warn("task queue stopped with pending jobs", "pending", n)
	}
	return err
}

func (q *Queue) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-q.jobs:
			q.process(ctx, j)
		}
	}
}

func (q *Queue) process(ctx context.Context, j job) {
	log := q.logger.With("task", j.name, "task_id", j.id)
	for attempt := 1; attempt <= q.cfg.MaxAttempts; attempt++ {
		err := q.runOnce(ctx, j)
		if err == nil {
			q.metrics.IncTask(j.name, metrics.ResultSuccess)
			log.DebugContext(ctx, "task done", "attempt", attempt)
			return
		}
		if permanent(err) {
			q.metrics.IncTask(j.name, metrics.ResultDropped)
			log.WarnContext(ctx, "task dropped", "attempt", attempt, "err", err)
			return
		}
		log.WarnContext(ctx, "task attempt failed", "attempt", attempt, "err", err)
		if attempt == q.cfg.MaxAttempts {
			break
		}
		q.metrics.IncTask(j.name, metrics.ResultRetry)
		select {
		case <-ctx.Done():
			log.WarnContext(ctx, "task abandoned on shutdown", "attempt", attempt)
			return
		case <-time.After(q.cfg.Backoff * time.Duration(attempt)):
		}
	}
	q.metrics.IncTask(j.name, metrics.ResultDropped)
	log.ErrorContext(ctx, "task dropped after max attempts", "attempts", q.cfg.MaxAttempts)
}

// runOnce calls the handler, turning a panic into an error.
func (q *Queue) runOnce(ctx context.Context, j job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return j.handler(ctx, j.params)
}

func permanent(err error) bool {
	return errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrNotFound)
}
