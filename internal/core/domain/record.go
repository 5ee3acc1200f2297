// internal/core/domain/record.go
package domain

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Record is a single row of a store collection, keyed by column name.
// The record gateway returns these; typed entities are built from them
// with the accessors below.
type Record map[string]any

// Filters is a set of exact-match equality predicates, AND-combined.
type Filters map[string]any

// String returns the named field as a string, or "" when absent or null.
func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

// Bytes returns the named field as raw bytes, or nil when absent.
func (r Record) Bytes(key string) []byte {
	switch v := r[key].(type) {
	case []byte:
		return v
	case string:
		return []byte(v)
	default:
		return nil
	}
}

// Int64 returns the named field as an int64, or 0 when absent or null.
func (r Record) Int64(key string) int64 {
	switch v := r[key].(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

// Decimal returns the named field as a decimal, or zero when absent.
// Numeric columns come back from pgx as pgtype.Numeric.
func (r Record) Decimal(key string) decimal.Decimal {
	switch v := r[key].(type) {
	case decimal.Decimal:
		return v
	case pgtype.Numeric:
		if !v.Valid || v.Int == nil {
			return decimal.Zero
		}
		return decimal.NewFromBigInt(v.Int, v.Exp)
	case float64:
		return decimal.NewFromFloat(v)
	case int64:
		return decimal.NewFromInt(v)
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}

// Time returns the named field as a time.Time, or the zero time.
func (r Record) Time(key string) time.Time {
	if t, ok := r[key].(time.Time); ok {
		return t
	}
	return time.Time{}
}

// Strings returns the named field as a string slice. Array columns come
// back from pgx either as []string or as []any of strings.
func (r Record) Strings(key string) []string {
	switch v := r[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
