package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"taskboard/internal/domain"
	"taskboard/internal/store"
)

func TestBuildTaskPredicate(t *testing.T) {
	t.Run("empty filter has no predicate", func(t *testing.T) {
		where, args := buildTaskPredicate(store.TaskFilter{})
		assert.Empty(t, where)
		assert.Empty(t, args)
	})

	t.Run("single status predicate", func(t *testing.T) {
		status := domain.TaskStatusPending
		where, args := buildTaskPredicate(store.TaskFilter{Status: &status})

		assert.Equal(t, " WHERE status = $1", where)
		assert.Equal(t, []any{"pending"}, args)
	})

	t.Run("all predicates are conjunctive and ordered", func(t *testing.T) {
		status := domain.TaskStatusInProgress
		priority := domain.TaskPriorityHigh
		userID := uuid.New()
		dueBefore := time.Now().UTC()

		where, args := buildTaskPredicate(store.TaskFilter{
			Status:    &status,
			Priority:  &priority,
			UserID:    &userID,
			DueBefore: &dueBefore,
			Search:    "report",
		})

		assert.Equal(t,
			" WHERE status = $1 AND priority = $2 AND user_id = $3 AND due_date <= $4"+
				" AND (title ILIKE $5 OR description ILIKE $5)",
			where)
		assert.Len(t, args, 5)
		assert.Equal(t, "%report%", args[4])
	})

	t.Run("search spans title and description with one argument", func(t *testing.T) {
		where, args := buildTaskPredicate(store.TaskFilter{Search: "plan"})

		assert.Equal(t, " WHERE (title ILIKE $1 OR description ILIKE $1)", where)
		assert.Equal(t, []any{"%plan%"}, args)
	})
}

func TestBuildTaskListQuery(t *testing.T) {
	t.Run("defaults to created_at descending with page window", func(t *testing.T) {
		query, args := buildTaskListQuery(store.TaskFilter{}.Normalize())

		assert.Contains(t, query, "ORDER BY created_at DESC")
		assert.Contains(t, query, "LIMIT $1 OFFSET $2")
		assert.Equal(t, []any{store.DefaultLimit, 0}, args)
	})

	t.Run("whitelists sort column", func(t *testing.T) {
		query, _ := buildTaskListQuery(store.TaskFilter{
			SortBy:  "due_date; DROP TABLE tasks",
			SortDir: store.SortAsc,
		}.Normalize())

		assert.Contains(t, query, "ORDER BY created_at ASC")
		assert.NotContains(t, query, "DROP TABLE")
	})

	t.Run("sorts by requested column and direction", func(t *testing.T) {
		query, _ := buildTaskListQuery(store.TaskFilter{
			SortBy:  "priority",
			SortDir: store.SortAsc,
		}.Normalize())

		assert.Contains(t, query, "ORDER BY priority ASC")
	})

	t.Run("page window offsets after predicate args", func(t *testing.T) {
		status := domain.TaskStatusCompleted
		query, args := buildTaskListQuery(store.TaskFilter{
			Status: &status,
			Page:   3,
			Limit:  20,
		}.Normalize())

		assert.Contains(t, query, "WHERE status = $1")
		assert.Contains(t, query, "LIMIT $2 OFFSET $3")
		assert.Equal(t, []any{"completed", 20, 40}, args)
	})
}

func TestBuildTaskCountQuery(t *testing.T) {
	status := domain.TaskStatusPending
	query, args := buildTaskCountQuery(store.TaskFilter{Status: &status, Page: 7, Limit: 3}.Normalize())

	assert.Equal(t, "SELECT COUNT(*) FROM tasks WHERE status = $1", query)
	assert.Equal(t, []any{"pending"}, args)
	assert.NotContains(t, query, "LIMIT", "count query must ignore the page window")
}
