package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"taskboard/internal/domain"
)

// SortDirection controls the ordering of list results.
type SortDirection string

// Possible sort directions
const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Pagination bounds applied by TaskFilter.Normalize.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// TaskFilter describes the predicate, sort and page window for a task
// listing. All supplied predicates are combined conjunctively and every
// one of them translates to the store's query language; implementations
// must never filter or sort in memory.
type TaskFilter struct {
	Status    *domain.TaskStatus
	Priority  *domain.TaskPriority
	UserID    *uuid.UUID
	DueBefore *time.Time
	DueAfter  *time.Time

	// Search is a case-insensitive substring match spanning
	// the title and description columns.
	Search string

	SortBy  string
	SortDir SortDirection

	// Page is 1-indexed.
	Page  int
	Limit int
}

// Normalize clamps the page window and defaults the sort direction.
// It returns a copy so callers can reuse the original filter.
func (f TaskFilter) Normalize() TaskFilter {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.SortDir != SortAsc && f.SortDir != SortDesc {
		f.SortDir = SortDesc
	}
	return f
}

// Offset returns the row offset for the filter's page window.
func (f TaskFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// TaskPage is the listing result envelope: one page of items plus the
// total matching count and navigation metadata.
type TaskPage struct {
	Items      []*domain.Task `json:"items"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
	HasNext    bool           `json:"has_next"`
	HasPrev    bool           `json:"has_prev"`
}

// NewTaskPage assembles a TaskPage from one page of items and the
// independent total count.
func NewTaskPage(items []*domain.Task, total int64, page, limit int) *TaskPage {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &TaskPage{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1 && total > 0,
	}
}

// TaskStats is the aggregate snapshot computed by a single grouped
// aggregation query, never by per-category queries or row iteration.
type TaskStats struct {
	Total          int64 `json:"total"`
	Pending        int64 `json:"pending"`
	InProgress     int64 `json:"in_progress"`
	Completed      int64 `json:"completed"`
	LowPriority    int64 `json:"low_priority"`
	MediumPriority int64 `json:"medium_priority"`
	HighPriority   int64 `json:"high_priority"`
	Overdue        int64 `json:"overdue"`

	// CompletionRate is round(completed/total*100), 0 when total is 0.
	CompletionRate int `json:"completion_rate"`
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task.
	// It handles domain validation internally.
	// Returns validation errors from the domain Task if data is invalid.
	// Returns ErrInvalidEntity if the owning user does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID, including the owning
	// user association. Returns ErrTaskNotFound if the task does not exist.
	// NOTE: This method does NOT provide any row locking, so it should not
	// be used when you plan to update the row and need concurrency protection.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// GetByIDForUpdate retrieves a task with a row-level lock using
	// SELECT FOR UPDATE. This should be used within a transaction when you
	// plan to update the row and need protection from concurrent modifications.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Update re-persists the full task row.
	// It handles domain validation internally.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task by its ID. This operation is permanent.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns one bounded page of tasks matching the filter.
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)

	// Count returns the total number of tasks matching the filter's
	// predicates, independent of its page window.
	Count(ctx context.Context, filter TaskFilter) (int64, error)

	// BulkUpdateStatus sets the status on every task in ids with a single
	// statement and returns the number of rows affected.
	BulkUpdateStatus(ctx context.Context, ids []uuid.UUID, status domain.TaskStatus) (int64, error)

	// BulkUpdatePriority sets the priority on every task in ids with a
	// single statement and returns the number of rows affected.
	BulkUpdatePriority(ctx context.Context, ids []uuid.UUID, priority domain.TaskPriority) (int64, error)

	// BulkDelete removes every task in ids with a single statement and
	// returns the number of rows affected.
	BulkDelete(ctx context.Context, ids []uuid.UUID) (int64, error)

	// GetStats computes the aggregate task statistics in one query.
	GetStats(ctx context.Context) (*TaskStats, error)

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) TaskStore
}
