// internal/handlers/products.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ammerola/stockcart-be/internal/core/domain"
	"github.com/ammerola/stockcart-be/internal/core/ports"
	"github.com/ammerola/stockcart-be/internal/workers"
)

// ProductHandler handles product catalog HTTP requests. Product ids are
// generated client-side here, matching the public API's contract.
type ProductHandler struct {
	gateway  ports.RecordGateway
	enqueuer workers.Enqueuer
	logger   *slog.Logger
}

// NewProductHandler creates a new product handler. The enqueuer may be
// nil when no worker is deployed; audit tasks are then skipped.
func NewProductHandler(gateway ports.RecordGateway, enqueuer workers.Enqueuer, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		gateway:  gateway,
		enqueuer: enqueuer,
		logger:   logger.With(slog.String("handler", "products")),
	}
}

func (h *ProductHandler) audit(r *http.Request, inventoryID, action string) {
	if h.enqueuer == nil || inventoryID == "" {
		return
	}
	task, err := workers.NewAuditTask(inventoryID, action)
	if err == nil {
		_, err = h.enqueuer.EnqueueContext(r.Context(), task)
	}
	if err != nil {
		h.logger.WarnContext(r.Context(), "failed to enqueue audit task",
			slog.String("inventory_id", inventoryID),
			slog.String("action", action),
			slog.String("error", err.Error()))
	}
}

type createProductRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Stock       int64            `json:"stock"`
	InventoryID string           `json:"inventoryId"`
	Price       *decimal.Decimal `json:"price"`
}

// CreateProduct handles POST /api/products/.
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createProductRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Missing product details")
		return
	}
	if req.Name == "" || req.Price == nil {
		respondError(w, http.StatusBadRequest, "Missing product details")
		return
	}

	record, err := h.gateway.Insert(ctx, domain.CollectionProducts, map[string]any{
		"product_id":   uuid.NewString(),
		"name":         req.Name,
		"description":  req.Description,
		"stock":        req.Stock,
		"inventory_id": req.InventoryID,
		"price":        *req.Price,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create product",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.audit(r, req.InventoryID, "product_created")
	respondJSON(w, http.StatusCreated, domain.ProductFromRecord(record))
}

// GetProduct handles GET /api/products/{id}.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	productID := r.PathValue("id")

	records, err := h.gateway.Find(ctx, domain.CollectionProducts, domain.Filters{"product_id": productID})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to look up product",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if len(records) == 0 {
		respondError(w, http.StatusNotFound, "Product not found")
		return
	}

	respondJSON(w, http.StatusOK, domain.ProductFromRecord(records[0]))
}

type updateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Stock       *int64           `json:"stock"`
	InventoryID *string          `json:"inventoryId"`
	Price       *decimal.Decimal `json:"price"`
}

// UpdateProduct handles PUT /api/products/{id}. Only the fields present
// in the body change; productId is immutable.
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	productID := r.PathValue("id")

	var req updateProductRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fields := make(map[string]any)
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Stock != nil {
		fields["stock"] = *req.Stock
	}
	if req.InventoryID != nil {
		fields["inventory_id"] = *req.InventoryID
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if len(fields) == 0 {
		respondError(w, http.StatusBadRequest, "No valid fields provided")
		return
	}

	records, err := h.gateway.UpdateWhere(ctx, domain.CollectionProducts,
		domain.Filters{"product_id": productID}, fields)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to update product",
			slog.String("product_id", productID),
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if len(records) == 0 {
		respondError(w, http.StatusNotFound, "Product not found")
		return
	}

	product := domain.ProductFromRecord(records[0])
	h.audit(r, product.InventoryID, "product_updated")
	respondJSON(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /api/products/{id}.
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	productID := r.PathValue("id")

	// Read before delete so the audit task knows the inventory.
	records, err := h.gateway.Find(ctx, domain.CollectionProducts, domain.Filters{"product_id": productID})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to look up product",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if len(records) == 0 {
		respondError(w, http.StatusNotFound, "Product not found")
		return
	}

	if _, err := h.gateway.DeleteWhere(ctx, domain.CollectionProducts, domain.Filters{"product_id": productID}); err != nil {
		h.logger.ErrorContext(ctx, "failed to delete product",
			slog.String("product_id", productID),
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.audit(r, records[0].String("inventory_id"), "product_deleted")
	respondJSON(w, http.StatusOK, map[string]any{"message": "Product deleted"})
}

// ListByInventory handles GET /api/products/inventory/{inventoryId}.
func (h *ProductHandler) ListByInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	inventoryID := r.PathValue("inventoryId")

	records, err := h.gateway.Find(ctx, domain.CollectionProducts, domain.Filters{"inventory_id": inventoryID})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list products",
			slog.String("inventory_id", inventoryID),
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	products := make([]domain.Product, 0, len(records))
	for _, rec := range records {
		products = append(products, domain.ProductFromRecord(rec))
	}
	respondJSON(w, http.StatusOK, map[string]any{"products": products})
}
