package api

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"taskboard/internal/api/shared"
	"taskboard/internal/queue"
)

// healthCheckTimeout bounds each dependency probe.
const healthCheckTimeout = 2 * time.Second

// HealthResponse reports the service's dependency health.
type HealthResponse struct {
	Status   string          `json:"status"`
	Database ComponentHealth `json:"database"`
	Queue    *QueueHealth    `json:"queue,omitempty"`
}

// ComponentHealth is the probe result for one dependency.
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

// QueueHealth extends ComponentHealth with the waiting job count.
type QueueHealth struct {
	ComponentHealth
	PendingJobs int64 `json:"pending_jobs"`
}

// HealthHandler reports liveness of the database and, when configured,
// the notification queue.
type HealthHandler struct {
	db       *sql.DB
	receiver queue.Receiver
}

// NewHealthHandler creates a HealthHandler. The receiver may be nil when
// the queue is disabled; the response then omits the queue section.
func NewHealthHandler(db *sql.DB, receiver queue.Receiver) *HealthHandler {
	return &HealthHandler{db: db, receiver: receiver}
}

// Check handles GET /health requests. Returns 200 when every configured
// dependency responds, 503 otherwise.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	resp := HealthResponse{Status: "ok"}

	if err := h.db.PingContext(ctx); err != nil {
		resp.Status = "degraded"
		resp.Database = ComponentHealth{Healthy: false, Error: err.Error()}
	} else {
		resp.Database = ComponentHealth{Healthy: true}
	}

	if h.receiver != nil {
		qh := &QueueHealth{ComponentHealth: ComponentHealth{Healthy: true}}
		count, err := h.receiver.JobCount(ctx, queue.TopicTaskStatusUpdate)
		if err != nil {
			resp.Status = "degraded"
			qh.Healthy = false
			qh.Error = err.Error()
		} else {
			qh.PendingJobs = count
		}
		resp.Queue = qh
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	shared.RespondWithJSON(w, r, status, resp)
}
