// internal/adapters/db/gateway.go
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sort"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ammerola/stockcart-be/internal/core/domain"
	"github.com/ammerola/stockcart-be/internal/core/ports"
)

// Querier is the subset of pgxpool used by the gateway; pgxmock satisfies
// it in tests.
type Querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// RecordGateway is the uniform store interface over named collections.
// Every operation is a single round trip with no retry and no
// partial-failure reconciliation.
type RecordGateway struct {
	db     Querier
	logger *slog.Logger
}

// Statically assert that *RecordGateway implements the port.
var _ ports.RecordGateway = (*RecordGateway)(nil)

// NewRecordGateway creates a gateway over the given store handle.
func NewRecordGateway(db Querier, logger *slog.Logger) *RecordGateway {
	return &RecordGateway{
		db:     db,
		logger: logger.With(slog.String("component", "record_gateway")),
	}
}

var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// primary key per collection, used for deterministic Find ordering.
var collectionKeys = map[string]string{
	domain.CollectionUsers:        "user_id",
	domain.CollectionCredentials:  "auth_id",
	domain.CollectionProducts:     "product_id",
	domain.CollectionTransactions: "transaction_id",
}

func orderKey(collection string) string {
	if k, ok := collectionKeys[collection]; ok {
		return k
	}
	return "id"
}

func validIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("%w: invalid identifier %q", domain.ErrValidation, name)
	}
	return nil
}

func validIdentifiers(names ...string) error {
	for _, n := range names {
		if err := validIdentifier(n); err != nil {
			return err
		}
	}
	return nil
}

func filterKeys(filters domain.Filters) []string {
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Find returns all records matching the exact-match filters, ordered by
// the collection's key so identical filters yield identical sequences.
func (g *RecordGateway) Find(ctx context.Context, collection string, filters domain.Filters) ([]domain.Record, error) {
	if err := validIdentifiers(append(filterKeys(filters), collection)...); err != nil {
		return nil, err
	}

	builder := sq.Select("*").
		From(collection).
		OrderBy(orderKey(collection)).
		PlaceholderFormat(sq.Dollar)
	if len(filters) > 0 {
		builder = builder.Where(sq.Eq(filters))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find query: %w", err)
	}

	rows, err := g.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find on %s failed: %w", collection, err)
	}
	return rowsToRecords(rows)
}

// Insert creates one record and returns it with store-assigned fields
// populated. Uniqueness violations map to domain.ErrConflict.
func (g *RecordGateway) Insert(ctx context.Context, collection string, fields map[string]any) (domain.Record, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no fields to insert", domain.ErrValidation)
	}
	keys := filterKeys(fields)
	if err := validIdentifiers(append(keys, collection)...); err != nil {
		return nil, err
	}

	values := make([]any, 0, len(keys))
	for _, k := range keys {
		values = append(values, fields[k])
	}

	query, args, err := sq.Insert(collection).
		Columns(keys...).
		Values(values...).
		Suffix("RETURNING *").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	rows, err := g.db.Query(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("insert on %s: %w", collection, domain.ErrConflict)
		}
		return nil, fmt.Errorf("insert on %s failed: %w", collection, err)
	}

	records, err := rowsToRecords(rows)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("insert on %s: %w", collection, domain.ErrConflict)
		}
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("insert on %s returned no record", collection)
	}

	g.logger.DebugContext(ctx, "record inserted", slog.String("collection", collection))
	return records[0], nil
}

// UpdateWhere sets fields on every matching record and returns the
// updated rows.
func (g *RecordGateway) UpdateWhere(ctx context.Context, collection string, filters domain.Filters, fields map[string]any) ([]domain.Record, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", domain.ErrValidation)
	}
	if err := validIdentifiers(append(append(filterKeys(filters), filterKeys(fields)...), collection)...); err != nil {
		return nil, err
	}

	builder := sq.Update(collection).PlaceholderFormat(sq.Dollar)
	for _, k := range filterKeys(fields) {
		builder = builder.Set(k, fields[k])
	}
	if len(filters) > 0 {
		builder = builder.Where(sq.Eq(filters))
	}

	query, args, err := builder.Suffix("RETURNING *").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update query: %w", err)
	}

	rows, err := g.db.Query(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("update on %s: %w", collection, domain.ErrConflict)
		}
		return nil, fmt.Errorf("update on %s failed: %w", collection, err)
	}
	return rowsToRecords(rows)
}

// DeleteWhere removes every matching record and reports the row count.
func (g *RecordGateway) DeleteWhere(ctx context.Context, collection string, filters domain.Filters) (int64, error) {
	if err := validIdentifiers(append(filterKeys(filters), collection)...); err != nil {
		return 0, err
	}

	builder := sq.Delete(collection).PlaceholderFormat(sq.Dollar)
	if len(filters) > 0 {
		builder = builder.Where(sq.Eq(filters))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete query: %w", err)
	}

	tag, err := g.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete on %s failed: %w", collection, err)
	}

	g.logger.DebugContext(ctx, "records deleted",
		slog.String("collection", collection),
		slog.Int64("rows", tag.RowsAffected()))
	return tag.RowsAffected(), nil
}

// IncrementWhere atomically adds delta to a numeric field of every
// matching record and returns the updated rows. Matching and adding
// happen in one statement, so two concurrent increments on the same row
// cannot lose an update.
func (g *RecordGateway) IncrementWhere(ctx context.Context, collection string, filters domain.Filters, field string, delta int64) ([]domain.Record, error) {
	if err := validIdentifiers(append(filterKeys(filters), collection, field)...); err != nil {
		return nil, err
	}

	builder := sq.Update(collection).
		Set(field, sq.Expr(field+" + ?", delta)).
		PlaceholderFormat(sq.Dollar)
	if len(filters) > 0 {
		builder = builder.Where(sq.Eq(filters))
	}

	query, args, err := builder.Suffix("RETURNING *").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build increment query: %w", err)
	}

	rows, err := g.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("increment on %s failed: %w", collection, err)
	}
	return rowsToRecords(rows)
}

// rowsToRecords drains rows into column-keyed records.
func rowsToRecords(rows pgx.Rows) ([]domain.Record, error) {
	defer rows.Close()

	fields := rows.FieldDescriptions()
	records := make([]domain.Record, 0)

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row values: %w", err)
		}
		record := make(domain.Record, len(fields))
		for i, fd := range fields {
			record[string(fd.Name)] = values[i]
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}
	return records, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
