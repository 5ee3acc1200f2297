// internal/workers/audit_processor.go

// Package workers contains asynq task definitions and processors.
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/ammerola/stockcart-be/internal/core/domain"
	"github.com/ammerola/stockcart-be/internal/core/ports"
)

// TypeAuditRecord is the task type for audit-log appends.
const TypeAuditRecord = "audit:record"

// Enqueuer is the subset of asynq.Client the handlers use to queue
// tasks.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AuditPayload describes one audit-log append.
type AuditPayload struct {
	InventoryID string `json:"inventory_id"`
	Action      string `json:"action"`
}

// NewAuditTask builds an audit:record task for the given inventory.
func NewAuditTask(inventoryID, action string) (*asynq.Task, error) {
	payload, err := json.Marshal(AuditPayload{InventoryID: inventoryID, Action: action})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal audit payload: %w", err)
	}
	return asynq.NewTask(TypeAuditRecord, payload), nil
}

// AuditProcessor appends inventory log rows for audit tasks. The log is
// append-only; the processor never updates or deletes entries.
type AuditProcessor struct {
	gateway ports.RecordGateway
	logger  *slog.Logger
}

// NewAuditProcessor creates a new audit processor.
func NewAuditProcessor(gateway ports.RecordGateway, logger *slog.Logger) *AuditProcessor {
	return &AuditProcessor{
		gateway: gateway,
		logger:  logger.With(slog.String("processor", "audit")),
	}
}

// ProcessAuditRecord handles one audit:record task.
func (p *AuditProcessor) ProcessAuditRecord(ctx context.Context, t *asynq.Task) error {
	var payload AuditPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		// Malformed payloads can never succeed; don't retry.
		return fmt.Errorf("failed to unmarshal audit payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.InventoryID == "" || payload.Action == "" {
		return fmt.Errorf("audit payload missing fields: %w", asynq.SkipRetry)
	}

	_, err := p.gateway.Insert(ctx, domain.CollectionInventoryLogs, map[string]any{
		"inventory_id": payload.InventoryID,
		"action":       payload.Action,
	})
	if err != nil {
		return fmt.Errorf("failed to append audit log: %w", err)
	}

	p.logger.InfoContext(ctx, "audit log appended",
		slog.String("inventory_id", payload.InventoryID),
		slog.String("action", payload.Action))
	return nil
}
