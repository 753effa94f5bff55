package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/maison-erp/maison-erp/internal/ledger"
)

// OverdueScanJob reports installment plans whose due date has passed so
// the shop can chase the client.
type OverdueScanJob struct {
	Ledger *ledger.Service
	Logger *slog.Logger
}

// NewOverdueScanJob wires dependencies for the scan handler.
func NewOverdueScanJob(ledgerSvc *ledger.Service, logger *slog.Logger) *OverdueScanJob {
	return &OverdueScanJob{Ledger: ledgerSvc, Logger: logger}
}

// Handle processes overdue installment scan tasks.
func (j *OverdueScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Ledger == nil {
		return errors.New("overdue scan: handler not configured")
	}
	var payload OverdueScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	logger := j.logger()
	plans, err := j.Ledger.OverdueInstallments(ctx)
	if err != nil {
		logger.Error("list overdue installments", slog.Any("error", err))
		return err
	}
	for _, plan := range plans {
		logger.Warn("installment overdue",
			slog.Int64("plan_id", plan.ID),
			slog.Int64("item_id", plan.ItemID),
			slog.Int64("client_id", plan.ClientID),
			slog.Float64("outstanding", plan.Amount-plan.PaidAmount),
			slog.Time("due_date", plan.DueDate))
	}
	logger.Info("completed overdue scan", slog.Int("overdue", len(plans)))
	return nil
}

func (j *OverdueScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskOverdueScan))
	}
	return slog.Default().With(slog.String("job", TaskOverdueScan))
}
