// internal/handlers/cart_handler_test.go
package handlers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/stockcart-be/internal/core/domain"
	"github.com/ammerola/stockcart-be/internal/core/services"
	"github.com/ammerola/stockcart-be/internal/handlers"
	"github.com/ammerola/stockcart-be/internal/handlers/middleware"
	"github.com/ammerola/stockcart-be/test/helpers"
)

type cartFixture struct {
	handler *handlers.CartHandler
	gateway *helpers.FakeGateway
}

// setupCartHandler wires the handler to real services over the fake
// gateway, so guard and state-machine behavior is exercised end to end.
func setupCartHandler(t *testing.T) *cartFixture {
	t.Helper()

	gateway := helpers.NewFakeGateway()
	logger := helpers.TestLogger()
	guard := services.NewOwnershipGuard(gateway, services.GuardPolicy{CollaboratorsShareInventory: true}, logger)
	cart := services.NewCartItemService(gateway, logger)

	return &cartFixture{
		handler: handlers.NewCartHandler(cart, guard, gateway, logger),
		gateway: gateway,
	}
}

func asUser(req *http.Request, userID string) *http.Request {
	ctx := middleware.WithIdentity(req.Context(), &domain.Identity{ID: userID})
	return req.WithContext(ctx)
}

func TestCartHandler_ListCarts(t *testing.T) {
	t.Run("anonymous is unauthorized", func(t *testing.T) {
		f := setupCartHandler(t)
		rec := httptest.NewRecorder()
		f.handler.ListCarts(rec, httptest.NewRequest(http.MethodGet, "/api/cart", nil))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Unauthorized", decodeBody(t, rec)["error"])
	})

	t.Run("returns only the caller's carts", func(t *testing.T) {
		f := setupCartHandler(t)
		f.gateway.Seed(domain.CollectionCarts, helpers.CreateTestCart("cart-1", "user-1"))
		f.gateway.Seed(domain.CollectionCarts, helpers.CreateTestCart("cart-2", "user-2"))

		rec := httptest.NewRecorder()
		f.handler.ListCarts(rec, asUser(httptest.NewRequest(http.MethodGet, "/api/cart", nil), "user-1"))

		require.Equal(t, http.StatusOK, rec.Code)
		carts := decodeBody(t, rec)["carts"].([]any)
		require.Len(t, carts, 1)
		assert.Equal(t, "cart-1", carts[0].(map[string]any)["id"])
	})
}

func TestCartHandler_CreateCart(t *testing.T) {
	f := setupCartHandler(t)

	req := asUser(httptest.NewRequest(http.MethodPost, "/api/cart",
		strings.NewReader(`{"cartName":"Groceries"}`)), "user-1")
	rec := httptest.NewRecorder()
	f.handler.CreateCart(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	rows := f.gateway.Rows(domain.CollectionCarts)
	require.Len(t, rows, 1)
	assert.Equal(t, "user-1", rows[0].String("owner_user_id"))
	assert.Equal(t, "Groceries", rows[0].String("cart_name"))
}

func TestCartHandler_AddItem(t *testing.T) {
	f := setupCartHandler(t)
	f.gateway.Seed(domain.CollectionCarts, helpers.CreateTestCart("cart-1", "user-1"))

	addItem := func(userID string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/cart/cart-1/items",
			strings.NewReader(`{"productId":"prod-1"}`))
		req.SetPathValue("id", "cart-1")
		if userID != "" {
			req = asUser(req, userID)
		}
		rec := httptest.NewRecorder()
		f.handler.AddItem(rec, req)
		return rec
	}

	t.Run("first add creates", func(t *testing.T) {
		rec := addItem("user-1")
		require.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("second add merges", func(t *testing.T) {
		rec := addItem("user-1")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Quantity updated", decodeBody(t, rec)["message"])

		rows := f.gateway.Rows(domain.CollectionCartItems)
		require.Len(t, rows, 1)
		assert.Equal(t, int64(2), rows[0].Int64("quantity"))
	})

	t.Run("non-owner is unauthorized and cart unchanged", func(t *testing.T) {
		rec := addItem("user-2")
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		rows := f.gateway.Rows(domain.CollectionCartItems)
		require.Len(t, rows, 1)
		assert.Equal(t, int64(2), rows[0].Int64("quantity"))
	})

	t.Run("anonymous is unauthorized", func(t *testing.T) {
		rec := addItem("")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing productId", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/cart/cart-1/items",
			strings.NewReader(`{}`))
		req.SetPathValue("id", "cart-1")
		rec := httptest.NewRecorder()
		f.handler.AddItem(rec, asUser(req, "user-1"))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Missing productId", decodeBody(t, rec)["error"])
	})

	t.Run("missing cart is not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/cart/cart-missing/items",
			strings.NewReader(`{"productId":"prod-1"}`))
		req.SetPathValue("id", "cart-missing")
		rec := httptest.NewRecorder()
		f.handler.AddItem(rec, asUser(req, "user-1"))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCartHandler_ListItems(t *testing.T) {
	f := setupCartHandler(t)
	f.gateway.Seed(domain.CollectionCarts, helpers.CreateTestCart("cart-1", "user-1"))
	f.gateway.Seed(domain.CollectionProducts, helpers.CreateTestProduct("prod-1", "inv-1"))
	f.gateway.Seed(domain.CollectionCartItems, domain.Record{
		"cart_id": "cart-1", "product_id": "prod-1", "quantity": int64(3),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/cart/cart-1/items", nil)
	req.SetPathValue("id", "cart-1")
	rec := httptest.NewRecorder()
	f.handler.ListItems(rec, asUser(req, "user-1"))

	require.Equal(t, http.StatusOK, rec.Code)
	items := decodeBody(t, rec)["items"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, float64(3), item["quantity"])
	require.NotNil(t, item["product"])
	assert.Equal(t, "prod-1", item["product"].(map[string]any)["productId"])
}

func TestCartHandler_UpdateItem(t *testing.T) {
	setup := func(t *testing.T) (*cartFixture, int64) {
		f := setupCartHandler(t)
		f.gateway.Seed(domain.CollectionCarts, helpers.CreateTestCart("cart-1", "user-1"))
		f.gateway.Seed(domain.CollectionCartItems, domain.Record{
			"cart_id": "cart-1", "product_id": "prod-1", "quantity": int64(3),
		})
		return f, f.gateway.Rows(domain.CollectionCartItems)[0].Int64("id")
	}

	patch := func(f *cartFixture, itemID int64, body, userID string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPatch,
			fmt.Sprintf("/api/cart/items/%d", itemID), strings.NewReader(body))
		req.SetPathValue("id", fmt.Sprint(itemID))
		rec := httptest.NewRecorder()
		f.handler.UpdateItem(rec, asUser(req, userID))
		return rec
	}

	t.Run("sets quantity", func(t *testing.T) {
		f, itemID := setup(t)
		rec := patch(f, itemID, `{"quantity":7}`, "user-1")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(7), f.gateway.Rows(domain.CollectionCartItems)[0].Int64("quantity"))
	})

	t.Run("quantity zero removes the row", func(t *testing.T) {
		f, itemID := setup(t)
		rec := patch(f, itemID, `{"quantity":0}`, "user-1")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Item removed", decodeBody(t, rec)["message"])
		assert.Empty(t, f.gateway.Rows(domain.CollectionCartItems))
	})

	t.Run("missing quantity", func(t *testing.T) {
		f, itemID := setup(t)
		rec := patch(f, itemID, `{}`, "user-1")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Missing quantity", decodeBody(t, rec)["error"])
	})

	t.Run("non-owner is unauthorized", func(t *testing.T) {
		f, itemID := setup(t)
		rec := patch(f, itemID, `{"quantity":7}`, "user-2")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, int64(3), f.gateway.Rows(domain.CollectionCartItems)[0].Int64("quantity"))
	})

	t.Run("missing item is not found", func(t *testing.T) {
		f, _ := setup(t)
		rec := patch(f, 9999, `{"quantity":7}`, "user-1")
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Item not found", decodeBody(t, rec)["error"])
	})
}

func TestCartHandler_DeleteItem(t *testing.T) {
	f := setupCartHandler(t)
	f.gateway.Seed(domain.CollectionCarts, helpers.CreateTestCart("cart-1", "user-1"))
	f.gateway.Seed(domain.CollectionCartItems, domain.Record{
		"cart_id": "cart-1", "product_id": "prod-1", "quantity": int64(5),
	})
	itemID := f.gateway.Rows(domain.CollectionCartItems)[0].Int64("id")

	// Delete removes the row even at quantity > 1.
	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/cart/items/%d", itemID), nil)
	req.SetPathValue("id", fmt.Sprint(itemID))
	rec := httptest.NewRecorder()
	f.handler.DeleteItem(rec, asUser(req, "user-1"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, f.gateway.Rows(domain.CollectionCartItems))
}

func TestCartHandler_DeleteCart(t *testing.T) {
	f := setupCartHandler(t)
	f.gateway.Seed(domain.CollectionCarts, helpers.CreateTestCart("cart-1", "user-1"))
	f.gateway.Seed(domain.CollectionCartItems, domain.Record{
		"cart_id": "cart-1", "product_id": "prod-1", "quantity": int64(2),
	})
	f.gateway.Seed(domain.CollectionCartItems, domain.Record{
		"cart_id": "cart-1", "product_id": "prod-2", "quantity": int64(1),
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/cart/cart-1", nil)
	req.SetPathValue("id", "cart-1")
	rec := httptest.NewRecorder()
	f.handler.DeleteCart(rec, asUser(req, "user-1"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["success"])
	assert.Empty(t, f.gateway.Rows(domain.CollectionCartItems))
	assert.Empty(t, f.gateway.Rows(domain.CollectionCarts))

	// The cart is gone; a second delete reports not found.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/cart/cart-1", nil)
	req.SetPathValue("id", "cart-1")
	f.handler.DeleteCart(rec, asUser(req, "user-1"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
