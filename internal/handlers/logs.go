// internal/handlers/logs.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ammerola/stockcart-be/internal/core/domain"
	"github.com/ammerola/stockcart-be/internal/core/ports"
)

// LogHandler handles inventory audit-log HTTP requests. Entries are
// append-only; there is no update operation, only append and clear.
type LogHandler struct {
	gateway ports.RecordGateway
	logger  *slog.Logger
}

// NewLogHandler creates a new log handler.
func NewLogHandler(gateway ports.RecordGateway, logger *slog.Logger) *LogHandler {
	return &LogHandler{
		gateway: gateway,
		logger:  logger.With(slog.String("handler", "logs")),
	}
}

// ListLogs handles GET /api/logs/{inventoryId}.
func (h *LogHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	inventoryID := r.PathValue("inventoryId")

	records, err := h.gateway.Find(ctx, domain.CollectionInventoryLogs, domain.Filters{"inventory_id": inventoryID})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list logs",
			slog.String("inventory_id", inventoryID),
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	logs := make([]domain.InventoryLog, 0, len(records))
	for _, rec := range records {
		logs = append(logs, domain.InventoryLogFromRecord(rec))
	}
	respondJSON(w, http.StatusOK, map[string]any{"logs": logs})
}

type appendLogRequest struct {
	Action string `json:"action"`
}

// AppendLog handles POST /api/logs/{inventoryId}.
func (h *LogHandler) AppendLog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	inventoryID := r.PathValue("inventoryId")

	var req appendLogRequest
	if err := decodeJSON(r, &req); err != nil || req.Action == "" {
		respondError(w, http.StatusBadRequest, "Missing action")
		return
	}

	record, err := h.gateway.Insert(ctx, domain.CollectionInventoryLogs, map[string]any{
		"inventory_id": inventoryID,
		"action":       req.Action,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to append log",
			slog.String("inventory_id", inventoryID),
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusCreated, domain.InventoryLogFromRecord(record))
}

// ClearLogs handles DELETE /api/logs/{inventoryId}.
func (h *LogHandler) ClearLogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	inventoryID := r.PathValue("inventoryId")

	deleted, err := h.gateway.DeleteWhere(ctx, domain.CollectionInventoryLogs, domain.Filters{"inventory_id": inventoryID})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to clear logs",
			slog.String("inventory_id", inventoryID),
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"deleted": deleted})
}
