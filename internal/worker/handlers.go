package worker

import (
	"context"
	"log/slog"

	"taskboard/internal/queue"
)

// StatusLogHandler records every status change to the structured log.
// It serves as the default consumer when no external integration is
// configured.
type StatusLogHandler struct {
	logger *slog.Logger
}

// NewStatusLogHandler creates a handler that logs status transitions.
func NewStatusLogHandler(logger *slog.Logger) *StatusLogHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusLogHandler{
		logger: logger.With(slog.String("component", "status_log_handler")),
	}
}

// HandleEvent implements EventHandler.
func (h *StatusLogHandler) HandleEvent(_ context.Context, event queue.StatusEvent) error {
	h.logger.Info("task status changed",
		"task_id", event.TaskID,
		"status", event.Status)
	return nil
}
