// internal/handlers/transactions_handler_test.go
package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/stockcart-be/internal/core/domain"
	"github.com/ammerola/stockcart-be/internal/handlers"
	"github.com/ammerola/stockcart-be/test/helpers"
)

func setupTransactionHandler(t *testing.T) (*handlers.TransactionHandler, *helpers.FakeGateway) {
	t.Helper()
	gateway := helpers.NewFakeGateway()
	return handlers.NewTransactionHandler(gateway, helpers.TestLogger()), gateway
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("authenticated caller is recorded as buyer", func(t *testing.T) {
		handler, gateway := setupTransactionHandler(t)

		req := asUser(httptest.NewRequest(http.MethodPost, "/api/transactions/",
			strings.NewReader(`{"productIds":["prod-1","prod-2"],"total":"19.98","inventoryId":"inv-1"}`)), "user-1")
		rec := httptest.NewRecorder()
		handler.CreateTransaction(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		body := decodeBody(t, rec)
		assert.NotEmpty(t, body["transactionId"])
		assert.Equal(t, "user-1", body["userId"])

		rows := gateway.Rows(domain.CollectionTransactions)
		require.Len(t, rows, 1)
		assert.Equal(t, []string{"prod-1", "prod-2"}, rows[0].Strings("product_ids"))
		assert.Equal(t, "19.98", rows[0].Decimal("total").StringFixed(2))
	})

	t.Run("anonymous purchase has no buyer", func(t *testing.T) {
		handler, gateway := setupTransactionHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/api/transactions/",
			strings.NewReader(`{"productIds":["prod-1"],"total":"5.00"}`))
		rec := httptest.NewRecorder()
		handler.CreateTransaction(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		rows := gateway.Rows(domain.CollectionTransactions)
		require.Len(t, rows, 1)
		_, hasUser := rows[0]["user_id"]
		assert.False(t, hasUser)
	})

	t.Run("invalid productIds", func(t *testing.T) {
		handler, _ := setupTransactionHandler(t)

		for _, body := range []string{
			`{}`,
			`{"productIds":[],"total":"5.00"}`,
			`{"productIds":["prod-1",""],"total":"5.00"}`,
		} {
			req := httptest.NewRequest(http.MethodPost, "/api/transactions/", strings.NewReader(body))
			rec := httptest.NewRecorder()
			handler.CreateTransaction(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
			assert.Equal(t, "Missing or invalid productIds", decodeBody(t, rec)["error"])
		}
	})

	t.Run("total must be positive", func(t *testing.T) {
		handler, _ := setupTransactionHandler(t)

		for _, body := range []string{
			`{"productIds":["prod-1"]}`,
			`{"productIds":["prod-1"],"total":"0"}`,
			`{"productIds":["prod-1"],"total":"-1.50"}`,
		} {
			req := httptest.NewRequest(http.MethodPost, "/api/transactions/", strings.NewReader(body))
			rec := httptest.NewRecorder()
			handler.CreateTransaction(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
			assert.Equal(t, "Total must be greater than 0", decodeBody(t, rec)["error"])
		}
	})
}

func TestTransactionHandler_ListTransactions(t *testing.T) {
	handler, gateway := setupTransactionHandler(t)
	gateway.Seed(domain.CollectionTransactions, domain.Record{
		"transaction_id": "tx-1", "product_ids": []string{"prod-1"},
		"total": decimal.NewFromFloat(5), "user_id": "user-1",
	})
	gateway.Seed(domain.CollectionTransactions, domain.Record{
		"transaction_id": "tx-2", "product_ids": []string{"prod-2"},
		"total": decimal.NewFromFloat(7), "user_id": "user-2",
	})

	t.Run("authenticated caller sees only their own", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ListTransactions(rec,
			asUser(httptest.NewRequest(http.MethodGet, "/api/transactions/", nil), "user-1"))

		require.Equal(t, http.StatusOK, rec.Code)
		transactions := decodeBody(t, rec)["transactions"].([]any)
		require.Len(t, transactions, 1)
		assert.Equal(t, "tx-1", transactions[0].(map[string]any)["transactionId"])
	})

	t.Run("anonymous caller sees the full feed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ListTransactions(rec, httptest.NewRequest(http.MethodGet, "/api/transactions/", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decodeBody(t, rec)["transactions"].([]any), 2)
	})
}

func TestTransactionHandler_GetTransaction(t *testing.T) {
	handler, gateway := setupTransactionHandler(t)
	gateway.Seed(domain.CollectionTransactions, domain.Record{
		"transaction_id": "tx-1", "product_ids": []string{"prod-1"},
		"total": decimal.NewFromFloat(5),
	})

	t.Run("found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/transactions/tx-1", nil)
		req.SetPathValue("id", "tx-1")
		rec := httptest.NewRecorder()
		handler.GetTransaction(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "tx-1", decodeBody(t, rec)["transactionId"])
	})

	t.Run("not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/transactions/nope", nil)
		req.SetPathValue("id", "nope")
		rec := httptest.NewRecorder()
		handler.GetTransaction(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Transaction not found", decodeBody(t, rec)["error"])
	})
}
