// internal/core/ports/cart.go
package ports

import (
	"context"

	"github.com/ammerola/stockcart-be/internal/core/domain"
)

// CartService owns the cart-item quantity state machine. An item is
// either absent or present with quantity >= 1; every operation preserves
// that floor.
type CartService interface {
	// AddItem merges the product into the cart: an absent item becomes
	// present(1), a present item has its quantity incremented atomically.
	// It never creates a second row for the same (cart, product) pair.
	// created reports whether a new row was inserted.
	AddItem(ctx context.Context, cartID, productID string) (item domain.CartItem, created bool, err error)

	// SetQuantity sets the item's quantity. A target <= 0 deletes the row
	// instead of persisting a non-positive value; removed reports that.
	SetQuantity(ctx context.Context, itemID, quantity int64) (removed bool, err error)

	// DecrementItem lowers the quantity by one; it is sugar for
	// SetQuantity(current-1) and deletes the row from quantity 1.
	DecrementItem(ctx context.Context, itemID int64) (removed bool, err error)

	// RemoveItem deletes the row unconditionally.
	RemoveItem(ctx context.Context, itemID int64) error

	// ListItems returns the cart's items with their product embedded.
	ListItems(ctx context.Context, cartID string) ([]CartItemView, error)

	// DeleteCart removes the cart's items first and then the cart itself;
	// the store enforces no cascade here.
	DeleteCart(ctx context.Context, cartID string) error
}

// CartItemView is a cart item joined with its product for listing.
type CartItemView struct {
	ID       int64           `json:"id"`
	Quantity int64           `json:"quantity"`
	Product  *domain.Product `json:"product"`
}
