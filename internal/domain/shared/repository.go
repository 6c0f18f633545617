package shared

import "context"

// Filter represents query filter options
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]any
}

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]any),
	}
}

// Normalize fills in zero values with defaults and clamps the page size
func (f Filter) Normalize() Filter {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 20
	}
	if f.PageSize > 100 {
		f.PageSize = 100
	}
	if f.OrderBy == "" {
		f.OrderBy = "created_at"
	}
	if f.OrderDir != "asc" {
		f.OrderDir = "desc"
	}
	if f.Filters == nil {
		f.Filters = make(map[string]any)
	}
	return f
}

// Offset returns the number of rows to skip for the current page
func (f Filter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(total) / pageSize
		if int(total)%pageSize > 0 {
			totalPages++
		}
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// Transactor runs a function inside a single storage transaction.
// Repositories called with the context passed to fn take part in the
// transaction; returning an error from fn rolls every write back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	// WithinSavepoint runs fn so that its failure undoes only fn's writes.
	// Inside a transaction this is a savepoint, and the transaction stays
	// usable after fn fails; outside one it behaves like WithinTransaction.
	WithinSavepoint(ctx context.Context, fn func(ctx context.Context) error) error
}

// PurgeReport counts the rows removed from each table by a purge
type PurgeReport map[string]int64

// Total returns the number of rows removed across all tables
func (p PurgeReport) Total() int64 {
	var n int64
	for _, v := range p {
		n += v
	}
	return n
}

// Purger removes every business record from the store
type Purger interface {
	PurgeAll(ctx context.Context) (PurgeReport, error)
}
