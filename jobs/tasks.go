package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReportWarmup pre-computes the report caches after hours.
	TaskReportWarmup = "reports:warmup"
	// TaskOverdueScan flags installment plans past their due date.
	TaskOverdueScan = "installments:overdue_scan"
)

// ReportWarmupPayload scopes a warmup run.
type ReportWarmupPayload struct {
	// TrailingDays sets the KPI window; zero means 30.
	TrailingDays int `json:"trailingDays"`
}

// NewReportWarmupTask constructs a report warmup task.
func NewReportWarmupTask(payload ReportWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportWarmup, data), nil
}

// OverdueScanPayload is reserved for future scoping of the scan.
type OverdueScanPayload struct{}

// NewOverdueScanTask constructs an overdue installment scan task.
func NewOverdueScanTask() (*asynq.Task, error) {
	data, err := json.Marshal(OverdueScanPayload{})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOverdueScan, data), nil
}
