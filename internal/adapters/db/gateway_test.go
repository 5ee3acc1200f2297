// internal/adapters/db/gateway_test.go
package db_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/stockcart-be/internal/adapters/db"
	"github.com/ammerola/stockcart-be/internal/core/domain"
	"github.com/ammerola/stockcart-be/test/helpers"
)

func setupGateway(t *testing.T) (*db.RecordGateway, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return db.NewRecordGateway(mock, helpers.TestLogger()), mock
}

func TestRecordGateway_Find(t *testing.T) {
	gateway, mock := setupGateway(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM carts WHERE owner_user_id = $1 ORDER BY id")).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "owner_user_id", "cart_name"}).
			AddRow("cart-1", "user-1", "Groceries").
			AddRow("cart-2", "user-1", "Hardware"))

	records, err := gateway.Find(context.Background(), domain.CollectionCarts,
		domain.Filters{"owner_user_id": "user-1"})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "cart-1", records[0].String("id"))
	assert.Equal(t, "Groceries", records[0].String("cart_name"))
	assert.Equal(t, "cart-2", records[1].String("id"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordGateway_Find_CollectionKeyOrdering(t *testing.T) {
	gateway, mock := setupGateway(t)

	// Collections without a plain id column order by their own key.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM products ORDER BY product_id")).
		WillReturnRows(pgxmock.NewRows([]string{"product_id", "name"}))

	_, err := gateway.Find(context.Background(), domain.CollectionProducts, nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordGateway_Find_RejectsBadIdentifiers(t *testing.T) {
	gateway, mock := setupGateway(t)

	_, err := gateway.Find(context.Background(), "carts; DROP TABLE carts", nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = gateway.Find(context.Background(), domain.CollectionCarts,
		domain.Filters{"owner_user_id = '' OR 1=1 --": "x"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	// Nothing reached the store.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordGateway_Insert(t *testing.T) {
	gateway, mock := setupGateway(t)

	// Columns are emitted in sorted key order.
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO cart_items (cart_id,product_id,quantity) VALUES ($1,$2,$3) RETURNING *")).
		WithArgs("cart-1", "prod-1", 1).
		WillReturnRows(pgxmock.NewRows([]string{"id", "cart_id", "product_id", "quantity"}).
			AddRow(int64(7), "cart-1", "prod-1", int64(1)))

	record, err := gateway.Insert(context.Background(), domain.CollectionCartItems, map[string]any{
		"cart_id":    "cart-1",
		"product_id": "prod-1",
		"quantity":   1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), record.Int64("id"))
	assert.Equal(t, int64(1), record.Int64("quantity"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordGateway_Insert_UniqueViolationIsConflict(t *testing.T) {
	gateway, mock := setupGateway(t)

	mock.ExpectQuery("INSERT INTO cart_items").
		WithArgs("cart-1", "prod-1", 1).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "cart_items_cart_product_key"})

	_, err := gateway.Insert(context.Background(), domain.CollectionCartItems, map[string]any{
		"cart_id":    "cart-1",
		"product_id": "prod-1",
		"quantity":   1,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordGateway_Insert_NoFields(t *testing.T) {
	gateway, _ := setupGateway(t)

	_, err := gateway.Insert(context.Background(), domain.CollectionCarts, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRecordGateway_UpdateWhere(t *testing.T) {
	gateway, mock := setupGateway(t)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE cart_items SET quantity = $1 WHERE id = $2 RETURNING *")).
		WithArgs(int64(5), int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "quantity"}).
			AddRow(int64(7), int64(5)))

	records, err := gateway.UpdateWhere(context.Background(), domain.CollectionCartItems,
		domain.Filters{"id": int64(7)},
		map[string]any{"quantity": int64(5)})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(5), records[0].Int64("quantity"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordGateway_UpdateWhere_NoMatchReturnsEmpty(t *testing.T) {
	gateway, mock := setupGateway(t)

	mock.ExpectQuery("UPDATE cart_items SET").
		WithArgs(int64(5), int64(404)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "quantity"}))

	records, err := gateway.UpdateWhere(context.Background(), domain.CollectionCartItems,
		domain.Filters{"id": int64(404)},
		map[string]any{"quantity": int64(5)})
	require.NoError(t, err)
	assert.Empty(t, records)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordGateway_DeleteWhere(t *testing.T) {
	gateway, mock := setupGateway(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart_items WHERE cart_id = $1")).
		WithArgs("cart-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	deleted, err := gateway.DeleteWhere(context.Background(), domain.CollectionCartItems,
		domain.Filters{"cart_id": "cart-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordGateway_IncrementWhere(t *testing.T) {
	gateway, mock := setupGateway(t)

	// Filter keys are sorted, so cart_id binds before product_id.
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE cart_items SET quantity = quantity + $1 WHERE cart_id = $2 AND product_id = $3 RETURNING *")).
		WithArgs(int64(1), "cart-1", "prod-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "cart_id", "product_id", "quantity"}).
			AddRow(int64(7), "cart-1", "prod-1", int64(4)))

	records, err := gateway.IncrementWhere(context.Background(), domain.CollectionCartItems,
		domain.Filters{"cart_id": "cart-1", "product_id": "prod-1"}, "quantity", 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(4), records[0].Int64("quantity"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordGateway_StoreErrorsWrap(t *testing.T) {
	gateway, mock := setupGateway(t)

	storeErr := errors.New("connection reset")
	mock.ExpectQuery("SELECT \\* FROM carts").
		WillReturnError(storeErr)

	_, err := gateway.Find(context.Background(), domain.CollectionCarts, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)

	assert.NoError(t, mock.ExpectationsWereMet())
}
