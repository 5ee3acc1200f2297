// internal/core/ports/guard.go
package ports

import (
	"context"

	"github.com/ammerola/stockcart-be/internal/core/domain"
)

// OwnershipGuard answers "may caller X act on resource Y". A missing
// resource yields domain.ErrNotFound; an owner mismatch yields
// domain.ErrForbidden. Decisions are never cached: every call re-reads
// the owning record from the store.
type OwnershipGuard interface {
	// AuthorizeCart checks that the cart exists and belongs to the caller.
	AuthorizeCart(ctx context.Context, identity *domain.Identity, cartID string) error

	// AuthorizeCartItem checks ownership of the cart the item belongs to,
	// resolving transitively through the item's cartId. It returns the
	// item record on success so callers avoid a second lookup.
	AuthorizeCartItem(ctx context.Context, identity *domain.Identity, itemID int64) (domain.Record, error)

	// AuthorizeInventory checks that the inventory exists and that the
	// caller owns it or, when the collaborator policy is enabled, holds a
	// collaborator link to it.
	AuthorizeInventory(ctx context.Context, identity *domain.Identity, inventoryID string) error
}
