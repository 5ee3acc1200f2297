// internal/handlers/collaborators.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ammerola/stockcart-be/internal/core/domain"
	"github.com/ammerola/stockcart-be/internal/core/ports"
)

// CollaboratorHandler handles collaborator-link HTTP requests. Links
// grant inventory access when the guard policy enables sharing.
type CollaboratorHandler struct {
	gateway ports.RecordGateway
	logger  *slog.Logger
}

// NewCollaboratorHandler creates a new collaborator handler.
func NewCollaboratorHandler(gateway ports.RecordGateway, logger *slog.Logger) *CollaboratorHandler {
	return &CollaboratorHandler{
		gateway: gateway,
		logger:  logger.With(slog.String("handler", "collaborators")),
	}
}

type collaboratorRequest struct {
	InventoryID        string `json:"inventoryId"`
	CollaboratorUserID string `json:"collaboratorUserId"`
}

// AddCollaborator handles POST /api/collaborator/.
func (h *CollaboratorHandler) AddCollaborator(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req collaboratorRequest
	if err := decodeJSON(r, &req); err != nil || req.InventoryID == "" || req.CollaboratorUserID == "" {
		respondError(w, http.StatusBadRequest, "Missing inventoryId or collaboratorUserId")
		return
	}

	record, err := h.gateway.Insert(ctx, domain.CollectionCollaborators, map[string]any{
		"inventory_id":         req.InventoryID,
		"collaborator_user_id": req.CollaboratorUserID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// Adding the same collaborator twice is a no-op.
			respondJSON(w, http.StatusOK, map[string]any{"message": "Collaborator already added"})
			return
		}
		h.logger.ErrorContext(ctx, "failed to add collaborator",
			slog.String("inventory_id", req.InventoryID),
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusCreated, domain.CollaboratorFromRecord(record))
}

// RemoveCollaborator handles DELETE /api/collaborator/.
func (h *CollaboratorHandler) RemoveCollaborator(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req collaboratorRequest
	if err := decodeJSON(r, &req); err != nil || req.InventoryID == "" || req.CollaboratorUserID == "" {
		respondError(w, http.StatusBadRequest, "Missing inventoryId or collaboratorUserId")
		return
	}

	deleted, err := h.gateway.DeleteWhere(ctx, domain.CollectionCollaborators, domain.Filters{
		"inventory_id":         req.InventoryID,
		"collaborator_user_id": req.CollaboratorUserID,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to remove collaborator",
			slog.String("inventory_id", req.InventoryID),
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if deleted == 0 {
		respondError(w, http.StatusNotFound, "Collaborator not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"message": "Collaborator removed"})
}

// ListCollaborators handles GET /api/collaborator/{inventoryId}.
func (h *CollaboratorHandler) ListCollaborators(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	inventoryID := r.PathValue("inventoryId")

	records, err := h.gateway.Find(ctx, domain.CollectionCollaborators, domain.Filters{"inventory_id": inventoryID})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list collaborators",
			slog.String("inventory_id", inventoryID),
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	collaborators := make([]domain.Collaborator, 0, len(records))
	for _, rec := range records {
		collaborators = append(collaborators, domain.CollaboratorFromRecord(rec))
	}
	respondJSON(w, http.StatusOK, map[string]any{"collaborators": collaborators})
}
