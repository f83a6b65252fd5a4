package repository

import (
	"fmt"

	"github.com/tuanvumaihuynh/warehouse/internal/model"
)

// orderByClause builds an ORDER BY clause from a page request. Only columns
// listed in columns may be used; the id column is appended as a tie breaker so
// paging is stable.
func orderByClause(req model.PageRequest, columns map[string]string, idColumn string) (string, error) {
	column, ok := columns[req.SortBy]
	if !ok {
		return "", fmt.Errorf("unsupported sort field: %q", req.SortBy)
	}

	direction := "ASC"
	if req.Direction == model.SortDirectionDesc {
		direction = "DESC"
	}

	return fmt.Sprintf("ORDER BY %s %s, %s %s", column, direction, idColumn, direction), nil
}
