// internal/core/ports/gateway.go
package ports

import (
	"context"

	"github.com/ammerola/stockcart-be/internal/core/domain"
)

// RecordGateway is the uniform interface to the external table store:
// filtered reads, inserts, and filter-matched updates/deletes over named
// collections. Filters are exact-match equality predicates, AND-combined;
// an empty filter set matches the whole collection. The gateway performs
// no retries and no partial-failure reconciliation; store errors propagate
// wrapped. Implemented by the database adapter.
type RecordGateway interface {
	// Find returns all matching records ordered by primary key, so that
	// identical filters yield identical sequences absent intervening writes.
	Find(ctx context.Context, collection string, filters domain.Filters) ([]domain.Record, error)

	// Insert creates a record and returns it with store-assigned fields
	// (serial ids, created_at defaults) populated. A uniqueness violation
	// is reported as domain.ErrConflict.
	Insert(ctx context.Context, collection string, fields map[string]any) (domain.Record, error)

	// UpdateWhere sets fields on every matching record and returns the
	// updated rows.
	UpdateWhere(ctx context.Context, collection string, filters domain.Filters, fields map[string]any) ([]domain.Record, error)

	// DeleteWhere removes every matching record and reports how many rows
	// were deleted.
	DeleteWhere(ctx context.Context, collection string, filters domain.Filters) (int64, error)

	// IncrementWhere atomically adds delta to a numeric field of every
	// matching record and returns the updated rows. This is the
	// conditional-write primitive that keeps concurrent merges on the same
	// logical row from racing.
	IncrementWhere(ctx context.Context, collection string, filters domain.Filters, field string, delta int64) ([]domain.Record, error)
}
