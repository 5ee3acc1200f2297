// internal/handlers/inventory.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ammerola/stockcart-be/internal/core/domain"
	"github.com/ammerola/stockcart-be/internal/core/ports"
	"github.com/ammerola/stockcart-be/internal/handlers/middleware"
	"github.com/ammerola/stockcart-be/internal/workers"
)

// InventoryHandler handles inventory HTTP requests.
type InventoryHandler struct {
	gateway  ports.RecordGateway
	guard    ports.OwnershipGuard
	enqueuer workers.Enqueuer
	logger   *slog.Logger
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(gateway ports.RecordGateway, guard ports.OwnershipGuard, enqueuer workers.Enqueuer, logger *slog.Logger) *InventoryHandler {
	return &InventoryHandler{
		gateway:  gateway,
		guard:    guard,
		enqueuer: enqueuer,
		logger:   logger.With(slog.String("handler", "inventory")),
	}
}

func (h *InventoryHandler) audit(r *http.Request, inventoryID, action string) {
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

// ListInventories handles GET /api/inventory/. Returns the caller's own
// inventories.
func (h *InventoryHandler) ListInventories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity := middleware.IdentityFrom(ctx)
	if identity == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	records, err := h.gateway.Find(ctx, domain.CollectionInventories, domain.Filters{"owner_user_id": identity.ID})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list inventories",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	inventories := make([]domain.Inventory, 0, len(records))
	for _, rec := range records {
		inventories = append(inventories, domain.InventoryFromRecord(rec))
	}
	respondJSON(w, http.StatusOK, map[string]any{"inventories": inventories})
}

type createInventoryRequest struct {
	Name string `json:"name"`
}

// CreateInventory handles POST /api/inventory/.
func (h *InventoryHandler) CreateInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity := middleware.IdentityFrom(ctx)
	if identity == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req createInventoryRequest
	if err := decodeJSON(r, &req); err != nil || req.Name == "" {
		respondError(w, http.StatusBadRequest, "Missing inventory name")
		return
	}

	record, err := h.gateway.Insert(ctx, domain.CollectionInventories, map[string]any{
		"name":          req.Name,
		"owner_user_id": identity.ID,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create inventory",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	inventory := domain.InventoryFromRecord(record)
	h.audit(r, inventory.ID, "inventory_created")
	respondJSON(w, http.StatusCreated, inventory)
}

// GetInventory handles GET /api/inventory/{id}. Honors collaborator
// links per the guard's policy.
func (h *InventoryHandler) GetInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	inventoryID := r.PathValue("id")

	identity := middleware.IdentityFrom(ctx)
	if err := h.guard.AuthorizeInventory(ctx, identity, inventoryID); err != nil {
		respondDomainError(w, err, "Inventory not found")
		return
	}

	records, err := h.gateway.Find(ctx, domain.CollectionInventories, domain.Filters{"id": inventoryID})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to look up inventory",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if len(records) == 0 {
		respondError(w, http.StatusNotFound, "Inventory not found")
		return
	}

	respondJSON(w, http.StatusOK, domain.InventoryFromRecord(records[0]))
}

// DeleteInventory handles DELETE /api/inventory/{id}. Owner only; the
// collaborator policy never grants deletion.
func (h *InventoryHandler) DeleteInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	inventoryID := r.PathValue("id")

	identity := middleware.IdentityFrom(ctx)
	if identity == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	records, err := h.gateway.Find(ctx, domain.CollectionInventories, domain.Filters{"id": inventoryID})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to look up inventory",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if len(records) == 0 {
		respondError(w, http.StatusNotFound, "Inventory not found")
		return
	}
	if records[0].String("owner_user_id") != identity.ID {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if _, err := h.gateway.DeleteWhere(ctx, domain.CollectionInventories, domain.Filters{"id": inventoryID}); err != nil {
		h.logger.ErrorContext(ctx, "failed to delete inventory",
			slog.String("inventory_id", inventoryID),
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.audit(r, inventoryID, "inventory_deleted")
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}
