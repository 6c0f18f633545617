package persistence

import (
	"errors"
	"strings"

	"github.com/retaildash/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// likePattern lower-cases a search term and wraps it for a LIKE match.
// LOWER(col) LIKE is used instead of ILIKE so the same query runs on SQLite.
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}

// searchAny matches the pattern against any of the given columns
func searchAny(query *gorm.DB, search string, columns ...string) *gorm.DB {
	if strings.TrimSpace(search) == "" || len(columns) == 0 {
		return query
	}
	pattern := likePattern(search)
	clauses := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		clauses[i] = "LOWER(" + col + ") LIKE ?"
		args[i] = pattern
	}
	return query.Where(strings.Join(clauses, " OR "), args...)
}

// paginate applies ordering, offset and limit from a normalized filter
func paginate(query *gorm.DB, filter shared.Filter, allowed map[string]bool) *gorm.DB {
	filter = filter.Normalize()
	return query.
		Order(orderClause(filter.OrderBy, filter.OrderDir, allowed)).
		Offset(filter.Offset()).
		Limit(filter.PageSize)
}

// translateError maps constraint violations reported by the driver to domain errors.
// It relies on gorm.Config.TranslateError being enabled.
func translateError(err error, entity string) error {
	switch {
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return shared.NewDomainErrorf("IN_USE", "The %s is still referenced by other records", entity)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.NewDomainErrorf("ALREADY_EXISTS", "The %s already exists", entity)
	default:
		return err
	}
}
