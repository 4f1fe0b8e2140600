package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"taskboard/internal/domain"
)

func TestTaskFilterNormalize(t *testing.T) {
	tests := []struct {
		name     string
		filter   TaskFilter
		expected TaskFilter
	}{
		{
			name:     "zero filter gets defaults",
			filter:   TaskFilter{},
			expected: TaskFilter{Page: DefaultPage, Limit: DefaultLimit, SortDir: SortDesc},
		},
		{
			name:     "negative page clamped",
			filter:   TaskFilter{Page: -3, Limit: 20},
			expected: TaskFilter{Page: DefaultPage, Limit: 20, SortDir: SortDesc},
		},
		{
			name:     "limit above maximum clamped",
			filter:   TaskFilter{Page: 2, Limit: 500},
			expected: TaskFilter{Page: 2, Limit: MaxLimit, SortDir: SortDesc},
		},
		{
			name:     "explicit ascending preserved",
			filter:   TaskFilter{Page: 1, Limit: 10, SortDir: SortAsc},
			expected: TaskFilter{Page: 1, Limit: 10, SortDir: SortAsc},
		},
		{
			name:     "unknown direction replaced",
			filter:   TaskFilter{Page: 1, Limit: 10, SortDir: SortDirection("sideways")},
			expected: TaskFilter{Page: 1, Limit: 10, SortDir: SortDesc},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.filter.Normalize())
		})
	}
}

func TestTaskFilterOffset(t *testing.T) {
	assert.Equal(t, 0, TaskFilter{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 10, TaskFilter{Page: 2, Limit: 10}.Offset())
	assert.Equal(t, 50, TaskFilter{Page: 6, Limit: 10}.Offset())
}

func TestNewTaskPage(t *testing.T) {
	tests := []struct {
		name       string
		total      int64
		page       int
		limit      int
		totalPages int
		hasNext    bool
		hasPrev    bool
	}{
		{name: "empty result", total: 0, page: 1, limit: 10, totalPages: 0, hasNext: false, hasPrev: false},
		{name: "single partial page", total: 7, page: 1, limit: 10, totalPages: 1, hasNext: false, hasPrev: false},
		{name: "exact page boundary", total: 20, page: 1, limit: 10, totalPages: 2, hasNext: true, hasPrev: false},
		{name: "middle page", total: 25, page: 2, limit: 10, totalPages: 3, hasNext: true, hasPrev: true},
		{name: "last page", total: 25, page: 3, limit: 10, totalPages: 3, hasNext: false, hasPrev: true},
		{name: "page beyond range", total: 5, page: 4, limit: 10, totalPages: 1, hasNext: false, hasPrev: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := NewTaskPage([]*domain.Task{}, tt.total, tt.page, tt.limit)
			assert.Equal(t, tt.total, page.Total)
			assert.Equal(t, tt.totalPages, page.TotalPages)
			assert.Equal(t, tt.hasNext, page.HasNext, "HasNext")
			assert.Equal(t, tt.hasPrev, page.HasPrev, "HasPrev")
		})
	}
}
