package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/domain"
	"taskboard/internal/queue"
)

// chanReceiver feeds queued payloads to the runner from a channel.
type chanReceiver struct {
	messages chan []byte
}

func newChanReceiver() *chanReceiver {
	return &chanReceiver{messages: make(chan []byte, 16)}
}

func (r *chanReceiver) Receive(ctx context.Context, _ string, wait time.Duration) ([]byte, error) {
	select {
	case msg := <-r.messages:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(wait):
		return nil, queue.ErrEmpty
	}
}

func (r *chanReceiver) JobCount(_ context.Context, _ string) (int64, error) {
	return int64(len(r.messages)), nil
}

// recordingHandler collects every event it receives.
type recordingHandler struct {
	mu     sync.Mutex
	events []queue.StatusEvent
	err    error
	seen   chan struct{}
}

func newRecordingHandler(err error) *recordingHandler {
	return &recordingHandler{err: err, seen: make(chan struct{}, 16)}
}

func (h *recordingHandler) HandleEvent(_ context.Context, event queue.StatusEvent) error {
	h.mu.Lock()
	h.events = append(h.events, event)
	h.mu.Unlock()
	h.seen <- struct{}{}
	return h.err
}

func (h *recordingHandler) recorded() []queue.StatusEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]queue.StatusEvent, len(h.events))
	copy(out, h.events)
	return out
}

func waitForEvent(t *testing.T, h *recordingHandler) {
	t.Helper()
	select {
	case <-h.seen:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for handler to receive event")
	}
}

func encodeEvent(t *testing.T, event queue.StatusEvent) []byte {
	t.Helper()
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	return payload
}

func TestRunnerDispatchesToAllHandlers(t *testing.T) {
	receiver := newChanReceiver()
	runner := NewRunner(receiver, RunnerConfig{WorkerCount: 1, PollInterval: 50 * time.Millisecond}, nil)

	first := newRecordingHandler(nil)
	second := newRecordingHandler(nil)
	runner.RegisterHandler(first)
	runner.RegisterHandler(second)

	runner.Start(context.Background())
	defer runner.Stop()

	event := queue.StatusEvent{TaskID: uuid.New(), Status: domain.TaskStatusCompleted}
	receiver.messages <- encodeEvent(t, event)

	waitForEvent(t, first)
	waitForEvent(t, second)

	assert.Equal(t, []queue.StatusEvent{event}, first.recorded())
	assert.Equal(t, []queue.StatusEvent{event}, second.recorded())
}

func TestRunnerContinuesAfterHandlerError(t *testing.T) {
	receiver := newChanReceiver()
	runner := NewRunner(receiver, RunnerConfig{WorkerCount: 1, PollInterval: 50 * time.Millisecond}, nil)

	failing := newRecordingHandler(errors.New("handler exploded"))
	healthy := newRecordingHandler(nil)
	runner.RegisterHandler(failing)
	runner.RegisterHandler(healthy)

	runner.Start(context.Background())
	defer runner.Stop()

	event := queue.StatusEvent{TaskID: uuid.New(), Status: domain.TaskStatusInProgress}
	receiver.messages <- encodeEvent(t, event)

	waitForEvent(t, failing)
	waitForEvent(t, healthy)

	assert.Equal(t, []queue.StatusEvent{event}, healthy.recorded())
}

func TestRunnerDiscardsUndecodablePayload(t *testing.T) {
	receiver := newChanReceiver()
	runner := NewRunner(receiver, RunnerConfig{WorkerCount: 1, PollInterval: 50 * time.Millisecond}, nil)

	handler := newRecordingHandler(nil)
	runner.RegisterHandler(handler)

	runner.Start(context.Background())
	defer runner.Stop()

	receiver.messages <- []byte("{not json")

	event := queue.StatusEvent{TaskID: uuid.New(), Status: domain.TaskStatusPending}
	receiver.messages <- encodeEvent(t, event)

	waitForEvent(t, handler)
	assert.Equal(t, []queue.StatusEvent{event}, handler.recorded())
}

func TestRunnerStopDrainsWorkers(t *testing.T) {
	receiver := newChanReceiver()
	runner := NewRunner(receiver, RunnerConfig{WorkerCount: 3, PollInterval: 20 * time.Millisecond}, nil)
	runner.RegisterHandler(newRecordingHandler(nil))

	runner.Start(context.Background())

	done := make(chan struct{})
	go func() {
		runner.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return in time")
	}
}

func TestNewRunnerAppliesDefaults(t *testing.T) {
	runner := NewRunner(newChanReceiver(), RunnerConfig{}, nil)
	assert.Equal(t, DefaultRunnerConfig().WorkerCount, runner.config.WorkerCount)
	assert.Equal(t, DefaultRunnerConfig().PollInterval, runner.config.PollInterval)
}

func TestNewRunnerPanicsOnNilReceiver(t *testing.T) {
	assert.Panics(t, func() {
		NewRunner(nil, DefaultRunnerConfig(), nil)
	})
}
