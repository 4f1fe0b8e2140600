// Package worker contains the consumer side of the notification queue:
// a pool of goroutines draining status-change events and dispatching
// them to registered handlers.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"taskboard/internal/queue"
)

// EventHandler processes one task status event. Handlers must be safe
// for concurrent use; the pool calls them from multiple goroutines.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event queue.StatusEvent) error
}

// RunnerConfig holds configuration for the event runner.
type RunnerConfig struct {
	// WorkerCount determines how many concurrent workers drain the queue.
	WorkerCount int

	// PollInterval bounds each blocking receive on the queue.
	PollInterval time.Duration
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount:  2,
		PollInterval: 5 * time.Second,
	}
}

// Runner manages the worker pool consuming status events.
type Runner struct {
	receiver queue.Receiver
	config   RunnerConfig
	logger   *slog.Logger

	mu       sync.RWMutex
	handlers []EventHandler

	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewRunner creates a new Runner over the given receiver.
// If logger is nil, a default logger will be used.
func NewRunner(receiver queue.Receiver, config RunnerConfig, logger *slog.Logger) *Runner {
	if receiver == nil {
		panic("receiver cannot be nil")
	}

	if config.WorkerCount < 1 {
		config.WorkerCount = DefaultRunnerConfig().WorkerCount
	}
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultRunnerConfig().PollInterval
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{
		receiver: receiver,
		config:   config,
		logger:   logger.With(slog.String("component", "event_runner")),
	}
}

// RegisterHandler adds a new event handler to receive events.
func (r *Runner) RegisterHandler(handler EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = append(r.handlers, handler)
	r.logger.Debug("registered event handler", "handler_count", len(r.handlers))
}

// Start launches the worker pool. Workers run until Stop is called or
// the parent context is canceled.
func (r *Runner) Start(ctx context.Context) {
	ctx, r.cancelFunc = context.WithCancel(ctx)

	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(ctx, i)
	}

	r.logger.Info("event runner started", "workers", r.config.WorkerCount)
}

// Stop signals all workers to finish and waits for them to drain.
func (r *Runner) Stop() {
	if r.cancelFunc != nil {
		r.cancelFunc()
	}
	r.wg.Wait()
	r.logger.Info("event runner stopped")
}

// worker drains the status-update topic until the context ends.
func (r *Runner) worker(ctx context.Context, id int) {
	defer r.wg.Done()

	log := r.logger.With(slog.Int("worker", id))
	log.Debug("worker started")

	for {
		select {
		case <-ctx.Done():
			log.Debug("worker stopping")
			return
		default:
		}

		payload, err := r.receiver.Receive(ctx, queue.TopicTaskStatusUpdate, r.config.PollInterval)
		if err != nil {
			if errors.Is(err, queue.ErrEmpty) || errors.Is(err, context.Canceled) {
				continue
			}
			log.Error("failed to receive event", "error", err)
			// Back off briefly so a dead backend does not spin the worker.
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		r.dispatch(ctx, log, payload)
	}
}

// dispatch decodes one message and hands it to every registered handler.
// A failing handler is logged and does not stop delivery to the others.
func (r *Runner) dispatch(ctx context.Context, log *slog.Logger, payload []byte) {
	var event queue.StatusEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		log.Error("discarding undecodable event", "error", err)
		return
	}

	r.mu.RLock()
	handlers := make([]EventHandler, len(r.handlers))
	copy(handlers, r.handlers)
	r.mu.RUnlock()

	if len(handlers) == 0 {
		log.Warn("no handlers registered for event",
			"task_id", event.TaskID,
			"status", event.Status)
		return
	}

	for i, handler := range handlers {
		if err := handler.HandleEvent(ctx, event); err != nil {
			log.Error("handler failed to process event",
				"error", err,
				"handler_index", i,
				"task_id", event.TaskID,
				"status", event.Status)
		}
	}
}
