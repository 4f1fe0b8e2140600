package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/google/uuid"

	"taskboard/internal/domain"
	"taskboard/internal/store"
)

// mockTaskRepository implements TaskRepository with overridable behavior
// per test. Unset functions fail loudly so tests only exercise the calls
// they expect.
type mockTaskRepository struct {
	db *sql.DB

	createFn             func(ctx context.Context, task *domain.Task) error
	getByIDFn            func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	getByIDForUpdateFn   func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	updateFn             func(ctx context.Context, task *domain.Task) error
	deleteFn             func(ctx context.Context, id uuid.UUID) error
	listFn               func(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error)
	countFn              func(ctx context.Context, filter store.TaskFilter) (int64, error)
	bulkUpdateStatusFn   func(ctx context.Context, ids []uuid.UUID, status domain.TaskStatus) (int64, error)
	bulkUpdatePriorityFn func(ctx context.Context, ids []uuid.UUID, priority domain.TaskPriority) (int64, error)
	bulkDeleteFn         func(ctx context.Context, ids []uuid.UUID) (int64, error)
	getStatsFn           func(ctx context.Context) (*store.TaskStats, error)

	withTxCalls int
}

var errUnexpectedCall = errors.New("unexpected repository call")

func (m *mockTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	if m.createFn == nil {
		return errUnexpectedCall
	}
	return m.createFn(ctx, task)
}

func (m *mockTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.getByIDFn == nil {
		return nil, errUnexpectedCall
	}
	return m.getByIDFn(ctx, id)
}

func (m *mockTaskRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.getByIDForUpdateFn == nil {
		return nil, errUnexpectedCall
	}
	return m.getByIDForUpdateFn(ctx, id)
}

func (m *mockTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	if m.updateFn == nil {
		return errUnexpectedCall
	}
	return m.updateFn(ctx, task)
}

func (m *mockTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn == nil {
		return errUnexpectedCall
	}
	return m.deleteFn(ctx, id)
}

func (m *mockTaskRepository) List(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	if m.listFn == nil {
		return nil, errUnexpectedCall
	}
	return m.listFn(ctx, filter)
}

func (m *mockTaskRepository) Count(ctx context.Context, filter store.TaskFilter) (int64, error) {
	if m.countFn == nil {
		return 0, errUnexpectedCall
	}
	return m.countFn(ctx, filter)
}

func (m *mockTaskRepository) BulkUpdateStatus(
	ctx context.Context,
	ids []uuid.UUID,
	status domain.TaskStatus,
) (int64, error) {
	if m.bulkUpdateStatusFn == nil {
		return 0, errUnexpectedCall
	}
	return m.bulkUpdateStatusFn(ctx, ids, status)
}

func (m *mockTaskRepository) BulkUpdatePriority(
	ctx context.Context,
	ids []uuid.UUID,
	priority domain.TaskPriority,
) (int64, error) {
	if m.bulkUpdatePriorityFn == nil {
		return 0, errUnexpectedCall
	}
	return m.bulkUpdatePriorityFn(ctx, ids, priority)
}

func (m *mockTaskRepository) BulkDelete(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if m.bulkDeleteFn == nil {
		return 0, errUnexpectedCall
	}
	return m.bulkDeleteFn(ctx, ids)
}

func (m *mockTaskRepository) GetStats(ctx context.Context) (*store.TaskStats, error) {
	if m.getStatsFn == nil {
		return nil, errUnexpectedCall
	}
	return m.getStatsFn(ctx)
}

func (m *mockTaskRepository) WithTx(tx *sql.Tx) TaskRepository {
	m.withTxCalls++
	return m
}

func (m *mockTaskRepository) DB() *sql.DB {
	return m.db
}

// sharedTaskRow is one task row contended by multiple writers. Its
// mutex stands in for the row-level lock the database holds between
// SELECT ... FOR UPDATE and the end of the transaction.
type sharedTaskRow struct {
	mu   sync.Mutex
	task domain.Task
}

// lockingTaskRepository serves the shared row to a single service
// instance, the way one connection sees one database. GetByIDForUpdate
// takes the row lock and Update releases it after writing, so a second
// writer blocks until the first one's write lands.
type lockingTaskRepository struct {
	*mockTaskRepository
	row *sharedTaskRow
}

func (r *lockingTaskRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	r.row.mu.Lock()
	task := r.row.task
	return &task, nil
}

func (r *lockingTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	r.row.task = *task
	r.row.mu.Unlock()
	return nil
}

func (r *lockingTaskRepository) WithTx(tx *sql.Tx) TaskRepository {
	return r
}

// publishedEvent records one Publish call on the mock publisher.
type publishedEvent struct {
	topic   string
	payload any
}

// mockPublisher implements queue.Publisher, recording every publish.
type mockPublisher struct {
	events []publishedEvent
	err    error
}

func (p *mockPublisher) Publish(ctx context.Context, topic string, payload any) error {
	p.events = append(p.events, publishedEvent{topic: topic, payload: payload})
	return p.err
}
