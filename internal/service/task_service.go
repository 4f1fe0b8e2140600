package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"taskboard/internal/domain"
	"taskboard/internal/queue"
	"taskboard/internal/store"
)

// CreateTaskInput carries the fields for a new task. The transport layer
// guarantees shape; the service re-validates business rules through the
// domain entity.
type CreateTaskInput struct {
	UserID      uuid.UUID
	Title       string
	Description string
	Status      domain.TaskStatus
	Priority    domain.TaskPriority
	DueDate     *time.Time
}

// UpdateTaskInput is a partial patch over an existing task. Nil fields
// are left unchanged; the owning user is never modified by a patch.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
	Priority    *domain.TaskPriority
	DueDate     *time.Time
}

// BatchAction identifies a batch mutation.
type BatchAction string

// Supported batch actions
const (
	BatchActionComplete       BatchAction = "complete"
	BatchActionDelete         BatchAction = "delete"
	BatchActionUpdateStatus   BatchAction = "update_status"
	BatchActionUpdatePriority BatchAction = "update_priority"
)

// BatchInput describes one logical mutation over a set of task IDs.
type BatchInput struct {
	IDs         []uuid.UUID
	Action      BatchAction
	NewStatus   *domain.TaskStatus
	NewPriority *domain.TaskPriority
}

// BatchResult reports the outcome of a batch mutation.
type BatchResult struct {
	Action    BatchAction `json:"action"`
	Requested int         `json:"requested"`
	Affected  int64       `json:"affected"`
}

// TaskService provides the transactional task mutation and eventing
// operations. Every multi-step mutation runs inside one atomic
// transaction; event propagation is best-effort and never compromises
// a committed mutation.
type TaskService interface {
	// Create persists a new task and attempts a best-effort status event.
	Create(ctx context.Context, input CreateTaskInput) (*domain.Task, error)

	// List returns one bounded page of tasks with the total matching count.
	List(ctx context.Context, filter store.TaskFilter) (*store.TaskPage, error)

	// Get retrieves a task by ID including its owning user.
	Get(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Update applies a partial patch under an exclusive row lock.
	// If the patch changes the task's status, a status event is attempted
	// after commit.
	Update(ctx context.Context, id uuid.UUID, patch UpdateTaskInput) (*domain.Task, error)

	// Remove deletes a task under an exclusive row lock.
	Remove(ctx context.Context, id uuid.UUID) error

	// UpdateStatus sets the task's status through an unlocked
	// read-modify-write. Unlike Update, no pessimistic lock is taken:
	// two concurrent callers can race and the later write wins. This
	// narrower guarantee is intentional for the high-frequency
	// status-toggle path.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TaskStatus) (*domain.Task, error)

	// BatchProcess applies one action across many tasks atomically:
	// either every requested task is affected or none are.
	BatchProcess(ctx context.Context, input BatchInput) (*BatchResult, error)

	// Stats computes the aggregate task statistics.
	Stats(ctx context.Context) (*store.TaskStats, error)
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	taskRepo  TaskRepository
	publisher queue.Publisher
	logger    *slog.Logger
}

// NewTaskService creates a new TaskService.
// The publisher is an optional collaborator: passing nil disables event
// propagation while every mutation operation keeps working.
// It returns an error if the repository is nil.
func NewTaskService(
	taskRepo TaskRepository,
	publisher queue.Publisher,
	logger *slog.Logger,
) (TaskService, error) {
	if taskRepo == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "taskRepo cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		taskRepo:  taskRepo,
		publisher: publisher,
		logger:    logger.With("component", "task_service"),
	}, nil
}

// Create persists a new task inside a transaction, then attempts a
// best-effort status event for the initial status.
func (s *taskServiceImpl) Create(ctx context.Context, input CreateTaskInput) (*domain.Task, error) {
	task, err := domain.NewTask(
		input.UserID,
		input.Title,
		input.Description,
		input.Status,
		input.Priority,
		input.DueDate,
	)
	if err != nil {
		s.logger.Warn("invalid task input",
			"error", err,
			"user_id", input.UserID)
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	err = store.RunInTransaction(ctx, s.taskRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txRepo := s.taskRepo.WithTx(tx)

		if err := txRepo.Create(ctx, task); err != nil {
			s.logger.Error("failed to create task in transaction",
				"error", err,
				"task_id", task.ID,
				"user_id", input.UserID)
			return NewTaskServiceError("create_task", "failed to save task", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("task created",
		"task_id", task.ID,
		"user_id", task.UserID,
		"status", task.Status)

	// The mutation is committed; event delivery must not undo it.
	s.emitStatusEvent(ctx, task.ID, task.Status)

	return task, nil
}

// List delegates the predicate, sort and page window to the store's
// query builder and pairs the page with an independent count query.
func (s *taskServiceImpl) List(ctx context.Context, filter store.TaskFilter) (*store.TaskPage, error) {
	filter = filter.Normalize()

	items, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, NewTaskServiceError("list_tasks", "failed to list tasks", err)
	}

	total, err := s.taskRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewTaskServiceError("list_tasks", "failed to count tasks", err)
	}

	return store.NewTaskPage(items, total, filter.Page, filter.Limit), nil
}

// Get retrieves a task by ID including its owning user.
func (s *taskServiceImpl) Get(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, NewTaskServiceError("get_task", "failed to retrieve task", err)
	}
	return task, nil
}

// Update reads the row under an exclusive lock, applies the patch over
// it, and re-persists the full row before committing. A status change
// triggers a best-effort event with the post-patch status.
func (s *taskServiceImpl) Update(
	ctx context.Context,
	id uuid.UUID,
	patch UpdateTaskInput,
) (*domain.Task, error) {
	var updated *domain.Task
	var statusChanged bool

	err := store.RunInTransaction(ctx, s.taskRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txRepo := s.taskRepo.WithTx(tx)

		task, err := txRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return NewTaskServiceError("update_task", "failed to lock task", err)
		}

		prevStatus := task.Status
		if err := applyPatch(task, patch); err != nil {
			return err
		}

		if err := txRepo.Update(ctx, task); err != nil {
			return NewTaskServiceError("update_task", "failed to persist task", err)
		}

		updated = task
		statusChanged = task.Status != prevStatus
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("task updated",
		"task_id", updated.ID,
		"status", updated.Status,
		"status_changed", statusChanged)

	if statusChanged {
		s.emitStatusEvent(ctx, updated.ID, updated.Status)
	}

	return updated, nil
}

// Remove deletes the task after reading it under an exclusive lock so a
// concurrent update on the same row serializes against the delete.
func (s *taskServiceImpl) Remove(ctx context.Context, id uuid.UUID) error {
	err := store.RunInTransaction(ctx, s.taskRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txRepo := s.taskRepo.WithTx(tx)

		if _, err := txRepo.GetByIDForUpdate(ctx, id); err != nil {
			return NewTaskServiceError("remove_task", "failed to lock task", err)
		}

		if err := txRepo.Delete(ctx, id); err != nil {
			return NewTaskServiceError("remove_task", "failed to delete task", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("task removed", "task_id", id)
	return nil
}

// UpdateStatus is the convenience status-toggle path. It deliberately
// skips the pessimistic lock, so a concurrent writer on the same task
// can be lost; callers needing linearized updates use Update.
func (s *taskServiceImpl) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.TaskStatus,
) (*domain.Task, error) {
	if !domain.IsValidTaskStatus(status) {
		return nil, fmt.Errorf("%w: %v", ErrValidation, domain.ErrInvalidTaskStatus)
	}

	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, NewTaskServiceError("update_status", "failed to retrieve task", err)
	}

	if err := task.UpdateStatus(status); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, NewTaskServiceError("update_status", "failed to persist task", err)
	}

	s.logger.Info("task status updated",
		"task_id", task.ID,
		"status", task.Status)

	s.emitStatusEvent(ctx, task.ID, task.Status)

	return task, nil
}

// BatchProcess validates the action and its companion parameter before
// opening the transaction, then applies one bulk statement inside it.
// Any failure rolls the whole batch back.
func (s *taskServiceImpl) BatchProcess(ctx context.Context, input BatchInput) (*BatchResult, error) {
	if len(input.IDs) == 0 {
		return nil, fmt.Errorf("%w: batch requires at least one task id", ErrValidation)
	}

	switch input.Action {
	case BatchActionComplete, BatchActionDelete:
	case BatchActionUpdateStatus:
		if input.NewStatus == nil {
			return nil, fmt.Errorf("%w: action %q requires newStatus", ErrValidation, input.Action)
		}
		if !domain.IsValidTaskStatus(*input.NewStatus) {
			return nil, fmt.Errorf("%w: %v", ErrValidation, domain.ErrInvalidTaskStatus)
		}
	case BatchActionUpdatePriority:
		if input.NewPriority == nil {
			return nil, fmt.Errorf("%w: action %q requires newPriority", ErrValidation, input.Action)
		}
		if !domain.IsValidTaskPriority(*input.NewPriority) {
			return nil, fmt.Errorf("%w: %v", ErrValidation, domain.ErrInvalidTaskPriority)
		}
	default:
		return nil, fmt.Errorf("%w: unknown batch action %q", ErrValidation, input.Action)
	}

	var affected int64

	err := store.RunInTransaction(ctx, s.taskRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txRepo := s.taskRepo.WithTx(tx)

		var err error
		switch input.Action {
		case BatchActionComplete:
			affected, err = txRepo.BulkUpdateStatus(ctx, input.IDs, domain.TaskStatusCompleted)
		case BatchActionDelete:
			affected, err = txRepo.BulkDelete(ctx, input.IDs)
		case BatchActionUpdateStatus:
			affected, err = txRepo.BulkUpdateStatus(ctx, input.IDs, *input.NewStatus)
		case BatchActionUpdatePriority:
			affected, err = txRepo.BulkUpdatePriority(ctx, input.IDs, *input.NewPriority)
		}
		if err != nil {
			return NewTaskServiceError("batch_process", "bulk operation failed", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("batch processed",
		"action", input.Action,
		"requested", len(input.IDs),
		"affected", affected)

	return &BatchResult{
		Action:    input.Action,
		Requested: len(input.IDs),
		Affected:  affected,
	}, nil
}

// Stats computes the aggregate task statistics in one store query.
func (s *taskServiceImpl) Stats(ctx context.Context) (*store.TaskStats, error) {
	stats, err := s.taskRepo.GetStats(ctx)
	if err != nil {
		return nil, NewTaskServiceError("get_stats", "failed to compute stats", err)
	}
	return stats, nil
}

// emitStatusEvent is the single publish site. A nil publisher is the
// checked "queue absent" state; any delivery failure is logged and
// swallowed so it never reaches the caller of a committed mutation.
func (s *taskServiceImpl) emitStatusEvent(ctx context.Context, taskID uuid.UUID, status domain.TaskStatus) {
	if s.publisher == nil {
		s.logger.Debug("queue disabled, skipping status event",
			"task_id", taskID,
			"status", status)
		return
	}

	event := queue.StatusEvent{TaskID: taskID, Status: status}
	if err := s.publisher.Publish(ctx, queue.TopicTaskStatusUpdate, event); err != nil {
		s.logger.Error("failed to enqueue status event",
			"error", err,
			"task_id", taskID,
			"status", status)
		return
	}

	s.logger.Debug("status event enqueued",
		"task_id", taskID,
		"status", status)
}

// applyPatch lays the non-nil patch fields over the task. The owning
// user reference is never touched.
func applyPatch(task *domain.Task, patch UpdateTaskInput) error {
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Status != nil {
		if !domain.IsValidTaskStatus(*patch.Status) {
			return fmt.Errorf("%w: %v", ErrValidation, domain.ErrInvalidTaskStatus)
		}
		task.Status = *patch.Status
	}
	if patch.Priority != nil {
		if !domain.IsValidTaskPriority(*patch.Priority) {
			return fmt.Errorf("%w: %v", ErrValidation, domain.ErrInvalidTaskPriority)
		}
		task.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		task.DueDate = patch.DueDate
	}

	if task.Title == "" {
		return fmt.Errorf("%w: %v", ErrValidation, domain.ErrEmptyTaskTitle)
	}

	return nil
}
