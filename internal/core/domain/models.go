// internal/core/domain/models.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Collection names in the external table store.
const (
	CollectionUsers         = "users"
	CollectionCredentials   = "auth_credentials"
	CollectionCarts         = "carts"
	CollectionCartItems     = "cart_items"
	CollectionProducts      = "products"
	CollectionInventories   = "inventories"
	CollectionCollaborators = "inventory_collaborators"
	CollectionInventoryLogs = "inventory_logs"
	CollectionTransactions  = "transactions"
)

// Identity is the verified caller resolved from a bearer credential.
// It is reconstructed per request and never cached.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Session is an issued access credential.
type Session struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// User is the application-level user record. UserID is chosen by the
// client at registration and immutable; AuthID maps 1:1 to an Identity.
type User struct {
	UserID    string    `json:"userId"`
	AuthID    string    `json:"authId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Cart is owned exclusively by OwnerUserID.
type Cart struct {
	ID          string `json:"id"`
	OwnerUserID string `json:"ownerUserId"`
	CartName    string `json:"cartName"`
}

// CartItem links a cart to a product. Quantity is always >= 1; a
// transition to <= 0 deletes the row instead of persisting it.
type CartItem struct {
	ID        int64  `json:"id"`
	CartID    string `json:"cartId"`
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`
}

// Product is catalog data, referenced from cart items by ProductID.
type Product struct {
	ProductID   string          `json:"productId"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Stock       int64           `json:"stock"`
	InventoryID string          `json:"inventoryId,omitempty"`
	Price       decimal.Decimal `json:"price"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Inventory is owned by its creator; collaborators may be granted access
// through collaborator links.
type Inventory struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	OwnerUserID string `json:"ownerUserId"`
}

// Collaborator grants a second identity access to an inventory.
type Collaborator struct {
	InventoryID        string    `json:"inventoryId"`
	CollaboratorUserID string    `json:"collaboratorUserId"`
	AddedAt            time.Time `json:"added_at"`
}

// InventoryLog is an append-only audit entry.
type InventoryLog struct {
	ID          int64     `json:"id"`
	InventoryID string    `json:"inventoryId"`
	Action      string    `json:"action"`
	Timestamp   time.Time `json:"timestamp"`
}

// Transaction is immutable once created.
type Transaction struct {
	TransactionID string          `json:"transactionId"`
	ProductIDs    []string        `json:"productIds"`
	Total         decimal.Decimal `json:"total"`
	UserID        string          `json:"userId,omitempty"`
	InventoryID   string          `json:"inventoryId,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Record converters. Column names are snake_case in the store; the JSON
// surface keeps the camelCase keys of the public API.

func UserFromRecord(r Record) User {
	return User{
		UserID:    r.String("user_id"),
		AuthID:    r.String("auth_id"),
		Email:     r.String("email"),
		Name:      r.String("name"),
		CreatedAt: r.Time("created_at"),
	}
}

func CartFromRecord(r Record) Cart {
	return Cart{
		ID:          r.String("id"),
		OwnerUserID: r.String("owner_user_id"),
		CartName:    r.String("cart_name"),
	}
}

func CartItemFromRecord(r Record) CartItem {
	return CartItem{
		ID:        r.Int64("id"),
		CartID:    r.String("cart_id"),
		ProductID: r.String("product_id"),
		Quantity:  r.Int64("quantity"),
	}
}

func ProductFromRecord(r Record) Product {
	return Product{
		ProductID:   r.String("product_id"),
		Name:        r.String("name"),
		Description: r.String("description"),
		Stock:       r.Int64("stock"),
		InventoryID: r.String("inventory_id"),
		Price:       r.Decimal("price"),
		CreatedAt:   r.Time("created_at"),
	}
}

func InventoryFromRecord(r Record) Inventory {
	return Inventory{
		ID:          r.String("id"),
		Name:        r.String("name"),
		OwnerUserID: r.String("owner_user_id"),
	}
}

func CollaboratorFromRecord(r Record) Collaborator {
	return Collaborator{
		InventoryID:        r.String("inventory_id"),
		CollaboratorUserID: r.String("collaborator_user_id"),
		AddedAt:            r.Time("added_at"),
	}
}

func InventoryLogFromRecord(r Record) InventoryLog {
	return InventoryLog{
		ID:          r.Int64("id"),
		InventoryID: r.String("inventory_id"),
		Action:      r.String("action"),
		Timestamp:   r.Time("created_at"),
	}
}

func TransactionFromRecord(r Record) Transaction {
	return Transaction{
		TransactionID: r.String("transaction_id"),
		ProductIDs:    r.Strings("product_ids"),
		Total:         r.Decimal("total"),
		UserID:        r.String("user_id"),
		InventoryID:   r.String("inventory_id"),
		CreatedAt:     r.Time("created_at"),
	}
}
