package postgres

import (
	"fmt"
	"strings"

	"taskboard/internal/store"
)

// taskSortColumns whitelists the columns a listing may sort by. Anything
// outside this set falls back to created_at so caller input never reaches
// the ORDER BY clause verbatim.
var taskSortColumns = map[string]string{
	"title":      "title",
	"status":     "status",
	"priority":   "priority",
	"due_date":   "due_date",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// buildTaskPredicate translates the filter's predicates into a conjunctive
// WHERE clause with positional arguments. The same predicate feeds both the
// page query and the independent count query so they always agree.
func buildTaskPredicate(filter store.TaskFilter) (string, []any) {
	var conds []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != nil {
		conds = append(conds, "status = "+arg(string(*filter.Status)))
	}
	if filter.Priority != nil {
		conds = append(conds, "priority = "+arg(string(*filter.Priority)))
	}
	if filter.UserID != nil {
		conds = append(conds, "user_id = "+arg(*filter.UserID))
	}
	if filter.DueBefore != nil {
		conds = append(conds, "due_date <= "+arg(*filter.DueBefore))
	}
	if filter.DueAfter != nil {
		conds = append(conds, "due_date >= "+arg(*filter.DueAfter))
	}
	if filter.Search != "" {
		pattern := arg("%" + filter.Search + "%")
		conds = append(conds, fmt.Sprintf("(title ILIKE %s OR description ILIKE %s)", pattern, pattern))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// buildTaskListQuery produces the bounded page query for the filter.
// The filter must already be normalized.
func buildTaskListQuery(filter store.TaskFilter) (string, []any) {
	where, args := buildTaskPredicate(filter)

	column, ok := taskSortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if filter.SortDir == store.SortAsc {
		direction = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, title, description, status, priority, due_date, created_at, updated_at
		FROM tasks%s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, where, column, direction, len(args)+1, len(args)+2)

	args = append(args, filter.Limit, filter.Offset())
	return query, args
}

// buildTaskCountQuery produces the count query over the same predicate.
func buildTaskCountQuery(filter store.TaskFilter) (string, []any) {
	where, args := buildTaskPredicate(filter)
	return "SELECT COUNT(*) FROM tasks" + where, args
}
