package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"taskboard/internal/domain"
	"taskboard/internal/platform/logger"
	"taskboard/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx returns a new store instance bound to the provided transaction.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.TaskStore.Create
// It saves a new task to the database, handling domain validation.
// Returns store.ErrUserNotFound if the owning user doesn't exist (foreign key violation).
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (id, user_id, title, description, status, priority, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.UserID,
		task.Title,
		nullString(task.Description),
		task.Status,
		task.Priority,
		nullTime(task.DueDate),
		task.CreatedAt,
		task.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()),
			slog.String("user_id", task.UserID.String()))
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: %v", store.ErrUserNotFound, err)
		}
		return MapError(err)
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", task.UserID.String()),
		slog.String("status", string(task.Status)))
	return nil
}

// GetByID implements store.TaskStore.GetByID
// It retrieves a task by its unique ID including the owning-user association.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT t.id, t.user_id, t.title, t.description, t.status, t.priority,
		       t.due_date, t.created_at, t.updated_at,
		       u.id, u.email, u.name, u.created_at, u.updated_at
		FROM tasks t
		JOIN users u ON u.id = t.user_id
		WHERE t.id = $1
	`

	var task domain.Task
	var user domain.User
	var description sql.NullString
	var userName sql.NullString
	var dueDate sql.NullTime

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&description,
		&task.Status,
		&task.Priority,
		&dueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
		&user.ID,
		&user.Email,
		&userName,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}

	task.Description = description.String
	task.DueDate = timePtr(dueDate)
	user.Name = userName.String
	task.User = &user

	return &task, nil
}

// GetByIDForUpdate implements store.TaskStore.GetByIDForUpdate
// It retrieves a task with a row-level lock using SELECT FOR UPDATE, blocking
// other writers on the same row until the owning transaction ends.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, title, description, status, priority, due_date, created_at, updated_at
		FROM tasks
		WHERE id = $1
		FOR UPDATE
	`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found for update", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task for update",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}

	return task, nil
}

// Update implements store.TaskStore.Update
// It re-persists the full task row, handling domain validation.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	task.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, priority = $4, due_date = $5, updated_at = $6
		WHERE id = $7
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		task.Title,
		nullString(task.Description),
		task.Status,
		task.Priority,
		nullTime(task.DueDate),
		task.UpdatedAt,
		task.ID,
	)

	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "task"); err != nil {
		return err
	}

	log.Debug("task updated successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("status", string(task.Status)))
	return nil
}

// Delete implements store.TaskStore.Delete
// It permanently removes a task by its ID.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "task"); err != nil {
		return err
	}

	log.Info("task deleted", slog.String("task_id", id.String()))
	return nil
}

// List implements store.TaskStore.List
// It returns one bounded page of tasks matching the filter. Filtering,
// sorting and paging all happen in the query; nothing is done in memory.
func (s *PostgresTaskStore) List(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args := buildTaskListQuery(filter.Normalize())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows", slog.String("error", err.Error()))
		return nil, err
	}

	return tasks, nil
}

// Count implements store.TaskStore.Count
// It runs a count query over the same predicate as List, independent of
// the page window.
func (s *PostgresTaskStore) Count(ctx context.Context, filter store.TaskFilter) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args := buildTaskCountQuery(filter.Normalize())

	var total int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		log.Error("failed to count tasks", slog.String("error", err.Error()))
		return 0, MapError(err)
	}

	return total, nil
}

// BulkUpdateStatus implements store.TaskStore.BulkUpdateStatus
// It sets the status on every listed task in a single statement.
func (s *PostgresTaskStore) BulkUpdateStatus(
	ctx context.Context,
	ids []uuid.UUID,
	status domain.TaskStatus,
) (int64, error) {
	query := `
		UPDATE tasks
		SET status = $1, updated_at = $2
		WHERE id = ANY($3::uuid[])
	`
	return s.bulkExec(ctx, "bulk update status", query, status, time.Now().UTC(), uuidStrings(ids))
}

// BulkUpdatePriority implements store.TaskStore.BulkUpdatePriority
// It sets the priority on every listed task in a single statement.
func (s *PostgresTaskStore) BulkUpdatePriority(
	ctx context.Context,
	ids []uuid.UUID,
	priority domain.TaskPriority,
) (int64, error) {
	query := `
		UPDATE tasks
		SET priority = $1, updated_at = $2
		WHERE id = ANY($3::uuid[])
	`
	return s.bulkExec(ctx, "bulk update priority", query, priority, time.Now().UTC(), uuidStrings(ids))
}

// BulkDelete implements store.TaskStore.BulkDelete
// It removes every listed task in a single statement.
func (s *PostgresTaskStore) BulkDelete(ctx context.Context, ids []uuid.UUID) (int64, error) {
	query := `DELETE FROM tasks WHERE id = ANY($1::uuid[])`
	return s.bulkExec(ctx, "bulk delete", query, uuidStrings(ids))
}

// bulkExec runs a single set-oriented mutation and reports affected rows.
func (s *PostgresTaskStore) bulkExec(
	ctx context.Context,
	operation string,
	query string,
	args ...any,
) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("bulk task operation failed",
			slog.String("operation", operation),
			slog.String("error", err.Error()))
		return 0, MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("operation", operation),
			slog.String("error", err.Error()))
		return 0, err
	}

	log.Debug("bulk task operation applied",
		slog.String("operation", operation),
		slog.Int64("affected", affected))
	return affected, nil
}

// GetStats implements store.TaskStore.GetStats
// It computes the aggregate snapshot with one grouped/conditional
// aggregation query instead of per-category queries.
func (s *PostgresTaskStore) GetStats(ctx context.Context) (*store.TaskStats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending,
			COUNT(*) FILTER (WHERE status = 'in_progress') AS in_progress,
			COUNT(*) FILTER (WHERE status = 'completed') AS completed,
			COUNT(*) FILTER (WHERE priority = 'low') AS low_priority,
			COUNT(*) FILTER (WHERE priority = 'medium') AS medium_priority,
			COUNT(*) FILTER (WHERE priority = 'high') AS high_priority,
			COUNT(*) FILTER (WHERE due_date < NOW() AND status <> 'completed') AS overdue
		FROM tasks
	`

	var stats store.TaskStats
	err := s.db.QueryRowContext(ctx, query).Scan(
		&stats.Total,
		&stats.Pending,
		&stats.InProgress,
		&stats.Completed,
		&stats.LowPriority,
		&stats.MediumPriority,
		&stats.HighPriority,
		&stats.Overdue,
	)
	if err != nil {
		log.Error("failed to compute task stats", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	if stats.Total > 0 {
		stats.CompletionRate = int(math.Round(float64(stats.Completed) / float64(stats.Total) * 100))
	}

	return &stats, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask reads one task row without the user association.
func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var description sql.NullString
	var dueDate sql.NullTime

	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&description,
		&task.Status,
		&task.Priority,
		&dueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Description = description.String
	task.DueDate = timePtr(dueDate)
	return &task, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	value := t.Time
	return &value
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
