// internal/core/services/cart.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ammerola/stockcart-be/internal/core/domain"
	"github.com/ammerola/stockcart-be/internal/core/ports"
)

// CartItemService implements the cart-item quantity state machine. An
// item is absent or present with quantity >= 1; a transition to <= 0
// deletes the row. At most one row exists per (cart, product): adds go
// increment-first, and the store's uniqueness constraint catches the
// insert race, which is resolved by retrying the increment once.
type CartItemService struct {
	gateway ports.RecordGateway
	logger  *slog.Logger
}

// Statically assert that *CartItemService implements the port.
var _ ports.CartService = (*CartItemService)(nil)

// NewCartItemService creates the cart service.
func NewCartItemService(gateway ports.RecordGateway, logger *slog.Logger) *CartItemService {
	return &CartItemService{
		gateway: gateway,
		logger:  logger.With(slog.String("service", "cart")),
	}
}

// AddItem merges the product into the cart.
func (s *CartItemService) AddItem(ctx context.Context, cartID, productID string) (domain.CartItem, bool, error) {
	match := domain.Filters{"cart_id": cartID, "product_id": productID}

	updated, err := s.gateway.IncrementWhere(ctx, domain.CollectionCartItems, match, "quantity", 1)
	if err != nil {
		return domain.CartItem{}, false, fmt.Errorf("failed to increment cart item: %w", err)
	}
	if len(updated) > 0 {
		return domain.CartItemFromRecord(updated[0]), false, nil
	}

	inserted, err := s.gateway.Insert(ctx, domain.CollectionCartItems, map[string]any{
		"cart_id":    cartID,
		"product_id": productID,
		"quantity":   1,
	})
	if err == nil {
		s.logger.InfoContext(ctx, "cart item created",
			slog.String("cart_id", cartID),
			slog.String("product_id", productID))
		return domain.CartItemFromRecord(inserted), true, nil
	}
	if !errors.Is(err, domain.ErrConflict) {
		return domain.CartItem{}, false, fmt.Errorf("failed to insert cart item: %w", err)
	}

	// Lost the insert race to a concurrent add of the same product; the
	// row exists now, so the increment must land.
	updated, err = s.gateway.IncrementWhere(ctx, domain.CollectionCartItems, match, "quantity", 1)
	if err != nil {
		return domain.CartItem{}, false, fmt.Errorf("failed to increment cart item after conflict: %w", err)
	}
	if len(updated) == 0 {
		return domain.CartItem{}, false, fmt.Errorf("cart item vanished between conflict and retry: %w", domain.ErrNotFound)
	}
	return domain.CartItemFromRecord(updated[0]), false, nil
}

// SetQuantity sets the item's quantity; a target <= 0 deletes the row.
func (s *CartItemService) SetQuantity(ctx context.Context, itemID, quantity int64) (bool, error) {
	if quantity <= 0 {
		if err := s.RemoveItem(ctx, itemID); err != nil {
			return false, err
		}
		return true, nil
	}

	updated, err := s.gateway.UpdateWhere(ctx, domain.CollectionCartItems,
		domain.Filters{"id": itemID},
		map[string]any{"quantity": quantity})
	if err != nil {
		return false, fmt.Errorf("failed to update quantity: %w", err)
	}
	if len(updated) == 0 {
		return false, fmt.Errorf("cart item %d: %w", itemID, domain.ErrNotFound)
	}
	return false, nil
}

// DecrementItem lowers the quantity by one; sugar for
// SetQuantity(current-1).
func (s *CartItemService) DecrementItem(ctx context.Context, itemID int64) (bool, error) {
	records, err := s.gateway.Find(ctx, domain.CollectionCartItems, domain.Filters{"id": itemID})
	if err != nil {
		return false, fmt.Errorf("failed to look up cart item: %w", err)
	}
	if len(records) == 0 {
		return false, fmt.Errorf("cart item %d: %w", itemID, domain.ErrNotFound)
	}
	return s.SetQuantity(ctx, itemID, records[0].Int64("quantity")-1)
}

// RemoveItem deletes the row unconditionally.
func (s *CartItemService) RemoveItem(ctx context.Context, itemID int64) error {
	deleted, err := s.gateway.DeleteWhere(ctx, domain.CollectionCartItems, domain.Filters{"id": itemID})
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	if deleted == 0 {
		return fmt.Errorf("cart item %d: %w", itemID, domain.ErrNotFound)
	}
	return nil
}

// ListItems returns the cart's items with their product embedded.
func (s *CartItemService) ListItems(ctx context.Context, cartID string) ([]ports.CartItemView, error) {
	records, err := s.gateway.Find(ctx, domain.CollectionCartItems, domain.Filters{"cart_id": cartID})
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}

	views := make([]ports.CartItemView, 0, len(records))
	for _, rec := range records {
		view := ports.CartItemView{
			ID:       rec.Int64("id"),
			Quantity: rec.Int64("quantity"),
		}

		products, err := s.gateway.Find(ctx, domain.CollectionProducts,
			domain.Filters{"product_id": rec.String("product_id")})
		if err != nil {
			return nil, fmt.Errorf("failed to load product for cart item: %w", err)
		}
		if len(products) > 0 {
			product := domain.ProductFromRecord(products[0])
			view.Product = &product
		}

		views = append(views, view)
	}
	return views, nil
}

// DeleteCart removes the cart's items first and then the cart itself;
// the store enforces no cascade. A failure between the two deletes
// leaves an empty cart behind, never orphaned items.
func (s *CartItemService) DeleteCart(ctx context.Context, cartID string) error {
	if _, err := s.gateway.DeleteWhere(ctx, domain.CollectionCartItems, domain.Filters{"cart_id": cartID}); err != nil {
		return fmt.Errorf("failed to delete cart items: %w", err)
	}
	if _, err := s.gateway.DeleteWhere(ctx, domain.CollectionCarts, domain.Filters{"id": cartID}); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}

	s.logger.InfoContext(ctx, "cart deleted", slog.String("cart_id", cartID))
	return nil
}
