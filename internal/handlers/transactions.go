// internal/handlers/transactions.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ammerola/stockcart-be/internal/core/domain"
	"github.com/ammerola/stockcart-be/internal/core/ports"
	"github.com/ammerola/stockcart-be/internal/handlers/middleware"
)

// TransactionHandler handles transaction HTTP requests. Transactions
// are immutable once created; there is no update or delete.
type TransactionHandler struct {
	gateway ports.RecordGateway
	logger  *slog.Logger
}

// NewTransactionHandler creates a new transaction handler.
func NewTransactionHandler(gateway ports.RecordGateway, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{
		gateway: gateway,
		logger:  logger.With(slog.String("handler", "transactions")),
	}
}

// ListTransactions handles GET /api/transactions/. The bearer token is
// optional: an authenticated caller sees their own transactions, an
// anonymous caller sees the full feed.
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filters := domain.Filters{}
	if identity := middleware.IdentityFrom(ctx); identity != nil {
		filters["user_id"] = identity.ID
	}

	records, err := h.gateway.Find(ctx, domain.CollectionTransactions, filters)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list transactions",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	transactions := make([]domain.Transaction, 0, len(records))
	for _, rec := range records {
		transactions = append(transactions, domain.TransactionFromRecord(rec))
	}
	respondJSON(w, http.StatusOK, map[string]any{"transactions": transactions})
}

type createTransactionRequest struct {
	ProductIDs  []string         `json:"productIds"`
	Total       *decimal.Decimal `json:"total"`
	InventoryID string           `json:"inventoryId"`
}

// CreateTransaction handles POST /api/transactions/.
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Missing or invalid productIds")
		return
	}
	if len(req.ProductIDs) == 0 {
		respondError(w, http.StatusBadRequest, "Missing or invalid productIds")
		return
	}
	for _, id := range req.ProductIDs {
		if id == "" {
			respondError(w, http.StatusBadRequest, "Missing or invalid productIds")
			return
		}
	}
	if req.Total == nil || !req.Total.IsPositive() {
		respondError(w, http.StatusBadRequest, "Total must be greater than 0")
		return
	}

	fields := map[string]any{
		"transaction_id": uuid.NewString(),
		"product_ids":    req.ProductIDs,
		"total":          *req.Total,
	}
	if req.InventoryID != "" {
		fields["inventory_id"] = req.InventoryID
	}
	if identity := middleware.IdentityFrom(ctx); identity != nil {
		fields["user_id"] = identity.ID
	}

	record, err := h.gateway.Insert(ctx, domain.CollectionTransactions, fields)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create transaction",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusCreated, domain.TransactionFromRecord(record))
}

// GetTransaction handles GET /api/transactions/{id}.
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	transactionID := r.PathValue("id")

	records, err := h.gateway.Find(ctx, domain.CollectionTransactions, domain.Filters{"transaction_id": transactionID})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to look up transaction",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if len(records) == 0 {
		respondError(w, http.StatusNotFound, "Transaction not found")
		return
	}

	respondJSON(w, http.StatusOK, domain.TransactionFromRecord(records[0]))
}
