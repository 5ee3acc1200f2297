// internal/core/services/guard_test.go
package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/stockcart-be/internal/core/domain"
	"github.com/ammerola/stockcart-be/internal/core/services"
	"github.com/ammerola/stockcart-be/test/helpers"
)

func setupGuard(t *testing.T, policy services.GuardPolicy) (*services.OwnershipGuardService, *helpers.FakeGateway) {
	t.Helper()
	gateway := helpers.NewFakeGateway()
	return services.NewOwnershipGuard(gateway, policy, helpers.TestLogger()), gateway
}

func identity(id string) *domain.Identity {
	return &domain.Identity{ID: id, Email: id + "@example.com"}
}

func TestGuard_AuthorizeCart(t *testing.T) {
	tests := []struct {
		name     string
		identity *domain.Identity
		cartID   string
		wantErr  error
	}{
		{name: "owner is allowed", identity: identity("user-1"), cartID: "cart-1", wantErr: nil},
		{name: "nil identity is unauthorized", identity: nil, cartID: "cart-1", wantErr: domain.ErrUnauthorized},
		{name: "missing cart is not found", identity: identity("user-1"), cartID: "cart-missing", wantErr: domain.ErrNotFound},
		{name: "non-owner is forbidden", identity: identity("user-2"), cartID: "cart-1", wantErr: domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guard, gateway := setupGuard(t, services.GuardPolicy{})
			gateway.Seed(domain.CollectionCarts, helpers.CreateTestCart("cart-1", "user-1"))

			err := guard.AuthorizeCart(context.Background(), tt.identity, tt.cartID)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestGuard_AuthorizeCartItem(t *testing.T) {
	guard, gateway := setupGuard(t, services.GuardPolicy{})
	gateway.Seed(domain.CollectionCarts, helpers.CreateTestCart("cart-1", "user-1"))
	gateway.Seed(domain.CollectionCartItems, domain.Record{
		"cart_id":    "cart-1",
		"product_id": "prod-1",
		"quantity":   int64(2),
	})
	ctx := context.Background()

	itemID := gateway.Rows(domain.CollectionCartItems)[0].Int64("id")

	item, err := guard.AuthorizeCartItem(ctx, identity("user-1"), itemID)
	require.NoError(t, err)
	assert.Equal(t, "cart-1", item.String("cart_id"))
	assert.Equal(t, int64(2), item.Int64("quantity"))

	_, err = guard.AuthorizeCartItem(ctx, identity("user-2"), itemID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = guard.AuthorizeCartItem(ctx, identity("user-1"), 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = guard.AuthorizeCartItem(ctx, nil, itemID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestGuard_AuthorizeInventory_Owner(t *testing.T) {
	guard, gateway := setupGuard(t, services.GuardPolicy{})
	gateway.Seed(domain.CollectionInventories, domain.Record{
		"id":            "inv-1",
		"owner_user_id": "user-1",
		"name":          "Warehouse",
	})

	assert.NoError(t, guard.AuthorizeInventory(context.Background(), identity("user-1"), "inv-1"))
	assert.ErrorIs(t, guard.AuthorizeInventory(context.Background(), identity("user-2"), "inv-1"), domain.ErrForbidden)
	assert.ErrorIs(t, guard.AuthorizeInventory(context.Background(), identity("user-1"), "inv-missing"), domain.ErrNotFound)
}

func TestGuard_AuthorizeInventory_CollaboratorPolicy(t *testing.T) {
	seed := func(gateway *helpers.FakeGateway) {
		gateway.Seed(domain.CollectionInventories, domain.Record{
			"id":            "inv-1",
			"owner_user_id": "user-1",
			"name":          "Warehouse",
		})
		gateway.Seed(domain.CollectionCollaborators, domain.Record{
			"id":                   "collab-1",
			"inventory_id":         "inv-1",
			"collaborator_user_id": "user-2",
		})
	}

	t.Run("collaborator allowed when policy grants access", func(t *testing.T) {
		guard, gateway := setupGuard(t, services.GuardPolicy{CollaboratorsShareInventory: true})
		seed(gateway)

		assert.NoError(t, guard.AuthorizeInventory(context.Background(), identity("user-2"), "inv-1"))
	})

	t.Run("collaborator forbidden when policy denies access", func(t *testing.T) {
		guard, gateway := setupGuard(t, services.GuardPolicy{CollaboratorsShareInventory: false})
		seed(gateway)

		err := guard.AuthorizeInventory(context.Background(), identity("user-2"), "inv-1")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("stranger forbidden either way", func(t *testing.T) {
		guard, gateway := setupGuard(t, services.GuardPolicy{CollaboratorsShareInventory: true})
		seed(gateway)

		err := guard.AuthorizeInventory(context.Background(), identity("user-3"), "inv-1")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestGuard_DecisionsAreNotCached(t *testing.T) {
	guard, gateway := setupGuard(t, services.GuardPolicy{})
	gateway.Seed(domain.CollectionCarts, helpers.CreateTestCart("cart-1", "user-1"))
	ctx := context.Background()

	require.NoError(t, guard.AuthorizeCart(ctx, identity("user-1"), "cart-1"))

	// Ownership change takes effect on the very next call.
	_, err := gateway.UpdateWhere(ctx, domain.CollectionCarts,
		domain.Filters{"id": "cart-1"},
		map[string]any{"owner_user_id": "user-2"})
	require.NoError(t, err)

	assert.ErrorIs(t, guard.AuthorizeCart(ctx, identity("user-1"), "cart-1"), domain.ErrForbidden)
}
