package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/maison-erp/maison-erp/internal/analytics"
	"github.com/maison-erp/maison-erp/internal/dashboard"
	"github.com/maison-erp/maison-erp/internal/health"
)

// ReportWarmupJob pre-populates the report caches so the first morning
// dashboard request does not pay the snapshot cost.
type ReportWarmupJob struct {
	Analytics *analytics.Service
	Dashboard *dashboard.Service
	Health    *health.Service
	Logger    *slog.Logger
	clock     func() time.Time
}

// NewReportWarmupJob wires dependencies for the warmup handler.
func NewReportWarmupJob(analyticsSvc *analytics.Service, dashboardSvc *dashboard.Service, healthSvc *health.Service, logger *slog.Logger) *ReportWarmupJob {
	return &ReportWarmupJob{
		Analytics: analyticsSvc,
		Dashboard: dashboardSvc,
		Health:    healthSvc,
		Logger:    logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes report warmup tasks.
func (j *ReportWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("report warmup: handler not configured")
	}
	var payload ReportWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.TrailingDays <= 0 {
		payload.TrailingDays = 30
	}

	logger := j.logger().With(slog.Int("trailing_days", payload.TrailingDays))
	logger.Info("starting report warmup")

	warmCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	now := j.now()
	trailing := analytics.Filter{From: now.AddDate(0, 0, -payload.TrailingDays), To: now}

	if j.Analytics != nil {
		if _, err := j.Analytics.KPI(warmCtx, trailing); err != nil {
			logger.Error("warm kpi", slog.Any("error", err))
			return err
		}
		if _, err := j.Analytics.TimeSeries(warmCtx, analytics.MetricRevenue, analytics.GranularityDay, trailing); err != nil {
			logger.Error("warm timeseries", slog.Any("error", err))
			return err
		}
		if _, err := j.Analytics.InventoryHealth(warmCtx, analytics.Filter{}); err != nil {
			logger.Error("warm inventory health", slog.Any("error", err))
			return err
		}
	}
	if j.Dashboard != nil {
		if _, err := j.Dashboard.Summary(warmCtx); err != nil {
			logger.Error("warm dashboard", slog.Any("error", err))
			return err
		}
	}
	if j.Health != nil {
		if _, err := j.Health.Score(warmCtx); err != nil {
			logger.Error("warm health score", slog.Any("error", err))
			return err
		}
	}

	logger.Info("completed report warmup", slog.Duration("duration", time.Since(now)))
	return nil
}

func (j *ReportWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskReportWarmup))
	}
	return slog.Default().With(slog.String("job", TaskReportWarmup))
}

func (j *ReportWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
