package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"taskboard/internal/domain"
	"taskboard/internal/store"
)

// TaskRepository defines the repository interface for the service layer.
// It mirrors store.TaskStore and additionally exposes the underlying
// database handle so the service can own transaction boundaries.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error)
	Count(ctx context.Context, filter store.TaskFilter) (int64, error)
	BulkUpdateStatus(ctx context.Context, ids []uuid.UUID, status domain.TaskStatus) (int64, error)
	BulkUpdatePriority(ctx context.Context, ids []uuid.UUID, priority domain.TaskPriority) (int64, error)
	BulkDelete(ctx context.Context, ids []uuid.UUID) (int64, error)
	GetStats(ctx context.Context) (*store.TaskStats, error)

	// WithTx returns a new repository instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskRepository

	// DB returns the underlying database connection.
	DB() *sql.DB
}

// taskRepositoryAdapter adapts a store.TaskStore to the TaskRepository
// interface, carrying the database handle for transaction management.
type taskRepositoryAdapter struct {
	store.TaskStore
	db *sql.DB
}

// NewTaskRepository wraps a TaskStore and its database handle as a
// TaskRepository for the service layer.
func NewTaskRepository(taskStore store.TaskStore, db *sql.DB) TaskRepository {
	return &taskRepositoryAdapter{
		TaskStore: taskStore,
		db:        db,
	}
}

// WithTx returns a repository bound to the given transaction. The
// database handle is retained so nested transactional composition
// remains possible, though the service never nests transactions.
func (a *taskRepositoryAdapter) WithTx(tx *sql.Tx) TaskRepository {
	return &taskRepositoryAdapter{
		TaskStore: a.TaskStore.WithTx(tx),
		db:        a.db,
	}
}

// DB returns the underlying database connection.
func (a *taskRepositoryAdapter) DB() *sql.DB {
	return a.db
}
