// internal/handlers/cart.go
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ammerola/stockcart-be/internal/core/domain"
	"github.com/ammerola/stockcart-be/internal/core/ports"
	"github.com/ammerola/stockcart-be/internal/handlers/middleware"
)

// CartHandler handles cart and cart-item HTTP requests. Every mutation
// re-checks ownership through the guard before touching the store.
type CartHandler struct {
	cart    ports.CartService
	guard   ports.OwnershipGuard
	gateway ports.RecordGateway
	logger  *slog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(cart ports.CartService, guard ports.OwnershipGuard, gateway ports.RecordGateway, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		cart:    cart,
		guard:   guard,
		gateway: gateway,
		logger:  logger.With(slog.String("handler", "cart")),
	}
}

// ListCarts handles GET /api/cart. Returns the caller's carts only.
func (h *CartHandler) ListCarts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity := middleware.IdentityFrom(ctx)
	if identity == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	records, err := h.gateway.Find(ctx, domain.CollectionCarts, domain.Filters{"owner_user_id": identity.ID})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list carts",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	carts := make([]domain.Cart, 0, len(records))
	for _, rec := range records {
		carts = append(carts, domain.CartFromRecord(rec))
	}
	respondJSON(w, http.StatusOK, map[string]any{"carts": carts})
}

type createCartRequest struct {
	CartName string `json:"cartName"`
}

// CreateCart handles POST /api/cart.
func (h *CartHandler) CreateCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity := middleware.IdentityFrom(ctx)
	if identity == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req createCartRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	record, err := h.gateway.Insert(ctx, domain.CollectionCarts, map[string]any{
		"owner_user_id": identity.ID,
		"cart_name":     req.CartName,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create cart",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusCreated, domain.CartFromRecord(record))
}

// DeleteCart handles DELETE /api/cart/{id}. Items go first, then the
// cart; the store has no cascade.
func (h *CartHandler) DeleteCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cartID := r.PathValue("id")

	identity := middleware.IdentityFrom(ctx)
	if err := h.guard.AuthorizeCart(ctx, identity, cartID); err != nil {
		h.logger.WarnContext(ctx, "cart delete denied",
			slog.String("cart_id", cartID),
			slog.String("error", err.Error()))
		respondDomainError(w, err, "Cart not found")
		return
	}

	if err := h.cart.DeleteCart(ctx, cartID); err != nil {
		h.logger.ErrorContext(ctx, "failed to delete cart",
			slog.String("cart_id", cartID),
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

// ListItems handles GET /api/cart/{id}/items.
func (h *CartHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cartID := r.PathValue("id")

	identity := middleware.IdentityFrom(ctx)
	if err := h.guard.AuthorizeCart(ctx, identity, cartID); err != nil {
		respondDomainError(w, err, "Cart not found")
		return
	}

	items, err := h.cart.ListItems(ctx, cartID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list cart items",
			slog.String("cart_id", cartID),
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"items": items})
}

type addItemRequest struct {
	ProductID string `json:"productId"`
}

// AddItem handles POST /api/cart/{id}/items. Adding a product already in
// the cart merges by incrementing quantity.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cartID := r.PathValue("id")

	identity := middleware.IdentityFrom(ctx)
	if err := h.guard.AuthorizeCart(ctx, identity, cartID); err != nil {
		respondDomainError(w, err, "Cart not found")
		return
	}

	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil || req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "Missing productId")
		return
	}

	item, created, err := h.cart.AddItem(ctx, cartID, req.ProductID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to add cart item",
			slog.String("cart_id", cartID),
			slog.String("product_id", req.ProductID),
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if created {
		respondJSON(w, http.StatusCreated, item)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Quantity updated",
		"item":    item,
	})
}

type updateItemRequest struct {
	Quantity *int64 `json:"quantity"`
}

// UpdateItem handles PATCH /api/cart/items/{id}. A quantity <= 0
// removes the item.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	itemID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusNotFound, "Item not found")
		return
	}

	identity := middleware.IdentityFrom(ctx)
	if _, err := h.guard.AuthorizeCartItem(ctx, identity, itemID); err != nil {
		respondDomainError(w, err, "Item not found")
		return
	}

	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil || req.Quantity == nil {
		respondError(w, http.StatusBadRequest, "Missing quantity")
		return
	}

	removed, err := h.cart.SetQuantity(ctx, itemID, *req.Quantity)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to update cart item",
			slog.Int64("item_id", itemID),
			slog.String("error", err.Error()))
		respondDomainError(w, err, "Item not found")
		return
	}

	if removed {
		respondJSON(w, http.StatusOK, map[string]any{"message": "Item removed"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"message": "Quantity updated"})
}

// DeleteItem handles DELETE /api/cart/items/{id}. Removes the row
// unconditionally regardless of quantity.
func (h *CartHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	itemID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusNotFound, "Item not found")
		return
	}

	identity := middleware.IdentityFrom(ctx)
	if _, err := h.guard.AuthorizeCartItem(ctx, identity, itemID); err != nil {
		respondDomainError(w, err, "Item not found")
		return
	}

	if err := h.cart.RemoveItem(ctx, itemID); err != nil {
		h.logger.ErrorContext(ctx, "failed to delete cart item",
			slog.Int64("item_id", itemID),
			slog.String("error", err.Error()))
		respondDomainError(w, err, "Item not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"message": "Item removed"})
}
