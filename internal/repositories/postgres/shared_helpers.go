package postgres

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/achievers-club/mentoring-service/internal/repositories"
)

// handleDBError maps gorm errors onto the repository sentinels and adds the
// failed operation
func handleDBError(err error, operation string) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", operation, repositories.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", operation, repositories.ErrDuplicate)
	}
	return fmt.Errorf("%s failed: %w", operation, err)
}

// applyPaginationAndSort orders by a whitelisted column. Unknown keys fall
// back to defaultColumn.
func applyPaginationAndSort(query *gorm.DB, allowed map[string]string, defaultColumn, sortBy, sortOrder string, limit, offset int) *gorm.DB {
	column, ok := allowed[sortBy]
	if !ok {
		column = defaultColumn
	}

	direction := "ASC"
	if strings.EqualFold(sortOrder, "desc") {
		direction = "DESC"
	}
	query = query.Order(column + " " + direction)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	return query
}

// searchPattern builds an ILIKE pattern, escaping the wildcard characters
// of the user's input
func searchPattern(q string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(strings.TrimSpace(q)) + "%"
}

const fullNameSelect = "id, TRIM(first_name || ' ' || last_name) AS full_name"
