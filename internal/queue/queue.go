// Package queue provides the asynchronous notification channel for task
// status changes. The primary store and the queue are independent failure
// domains: callers treat every error from this package as non-fatal to
// the mutation that triggered it.
package queue

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"taskboard/internal/domain"
)

// TopicTaskStatusUpdate is the topic carrying task status change events.
const TopicTaskStatusUpdate = "task-status-update"

// Queue errors. Both mark the enqueue attempt as terminally failed;
// neither may roll back an already-committed store mutation.
var (
	// ErrUnavailable is returned when the queue backend cannot be reached
	// after the adapter's own retries are exhausted.
	ErrUnavailable = errors.New("queue unavailable")

	// ErrRejected is returned when the payload cannot be accepted,
	// e.g. it fails to serialize. Retrying would not help.
	ErrRejected = errors.New("queue rejected payload")

	// ErrEmpty is returned by a receive when no message arrived within
	// the poll window.
	ErrEmpty = errors.New("queue empty")
)

// StatusEvent is the payload published on every task status transition.
type StatusEvent struct {
	TaskID uuid.UUID         `json:"taskId"`
	Status domain.TaskStatus `json:"status"`
}

// Publisher is the capability the mutation engine holds on the queue.
// A nil Publisher is the representable "queue absent" state; callers
// check it once at their single publish site.
type Publisher interface {
	// Publish enqueues the payload on the topic, applying the adapter's
	// retry policy. Fails with ErrUnavailable or ErrRejected.
	Publish(ctx context.Context, topic string, payload any) error
}

// Receiver is the consumer-side capability used by the worker pool.
type Receiver interface {
	// Receive blocks up to the poll window for the next message on the
	// topic. Returns ErrEmpty when the window elapses without one.
	Receive(ctx context.Context, topic string, timeout time.Duration) ([]byte, error)

	// JobCount reports the number of messages waiting on the topic,
	// used by the health probe.
	JobCount(ctx context.Context, topic string) (int64, error)
}
