package analyticshttp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/maison-erp/maison-erp/internal/analytics"
	"github.com/maison-erp/maison-erp/internal/dashboard"
	"github.com/maison-erp/maison-erp/internal/health"
	"github.com/maison-erp/maison-erp/internal/ledger"
	"github.com/maison-erp/maison-erp/internal/platform/httpx"
)

// ReportService exposes the report computations required by the handler.
type ReportService interface {
	KPI(ctx context.Context, f analytics.Filter) (analytics.KPIReport, error)
	TimeSeries(ctx context.Context, metric analytics.Metric, granularity analytics.Granularity, f analytics.Filter) ([]analytics.TimeSeriesPoint, error)
	Groups(ctx context.Context, groupBy analytics.GroupBy, metrics []analytics.GroupMetric, f analytics.Filter) ([]analytics.GroupRow, error)
	ItemProfitability(ctx context.Context, f analytics.Filter, limit, offset int) (analytics.ItemProfitabilityPage, error)
	InventoryHealth(ctx context.Context, f analytics.Filter) (analytics.InventoryHealthReport, error)
	PaymentMethods(ctx context.Context, f analytics.Filter) ([]analytics.MethodBreakdown, error)
}

// HealthService scores the business.
type HealthService interface {
	Score(ctx context.Context) (health.Score, error)
}

// DashboardService summarises the current ledger.
type DashboardService interface {
	Summary(ctx context.Context) (dashboard.Summary, error)
}

// Handler serves the read-side reporting endpoints.
type Handler struct {
	logger    *slog.Logger
	reports   ReportService
	health    HealthService
	dashboard DashboardService
	now       func() time.Time
}

// NewHandler constructs the analytics handler.
func NewHandler(logger *slog.Logger, reports ReportService, healthSvc HealthService, dashboardSvc DashboardService) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		reports:   reports,
		health:    healthSvc,
		dashboard: dashboardSvc,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.dashboard.Summary(r.Context())
	if err != nil {
		h.respondReportError(w, "dashboard summary", err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) handleHealthScore(w http.ResponseWriter, r *http.Request) {
	score, err := h.health.Score(r.Context())
	if err != nil {
		h.respondReportError(w, "health score", err)
		return
	}
	httpx.JSON(w, http.StatusOK, score)
}

func (h *Handler) handleKPI(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.respondReportError(w, "kpi", err)
		return
	}
	report, err := h.reports.KPI(r.Context(), filter)
	if err != nil {
		h.respondReportError(w, "kpi", err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) handleTimeSeries(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.respondReportError(w, "timeseries", err)
		return
	}
	metric := analytics.Metric(queryDefault(r, "metric", string(analytics.MetricRevenue)))
	granularity := analytics.Granularity(queryDefault(r, "granularity", string(analytics.GranularityDay)))

	points, err := h.reports.TimeSeries(r.Context(), metric, granularity, filter)
	if err != nil {
		h.respondReportError(w, "timeseries", err)
		return
	}
	httpx.JSON(w, http.StatusOK, points)
}

func (h *Handler) handleGroups(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.respondReportError(w, "groups", err)
		return
	}
	groupBy := analytics.GroupBy(queryDefault(r, "by", string(analytics.GroupByBrand)))

	var metrics []analytics.GroupMetric
	if raw := strings.TrimSpace(r.URL.Query().Get("metrics")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			metrics = append(metrics, analytics.GroupMetric(strings.TrimSpace(part)))
		}
	}

	rows, err := h.reports.Groups(r.Context(), groupBy, metrics, filter)
	if err != nil {
		h.respondReportError(w, "groups", err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

func (h *Handler) handleItemProfitability(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.respondReportError(w, "profitability", err)
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		h.respondReportError(w, "profitability", err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		h.respondReportError(w, "profitability", err)
		return
	}

	page, err := h.reports.ItemProfitability(r.Context(), filter, limit, offset)
	if err != nil {
		h.respondReportError(w, "profitability", err)
		return
	}
	httpx.JSON(w, http.StatusOK, page)
}

func (h *Handler) handleInventoryHealth(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.respondReportError(w, "inventory health", err)
		return
	}
	report, err := h.reports.InventoryHealth(r.Context(), filter)
	if err != nil {
		h.respondReportError(w, "inventory health", err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) handlePaymentMethods(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.respondReportError(w, "payment methods", err)
		return
	}
	rows, err := h.reports.PaymentMethods(r.Context(), filter)
	if err != nil {
		h.respondReportError(w, "payment methods", err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

// overviewResponse composes the landing view: current ledger summary, the
// financial health score, and the trailing 30-day KPI block.
type overviewResponse struct {
	Dashboard dashboard.Summary   `json:"dashboard"`
	Health    health.Score        `json:"health"`
	KPI       analytics.KPIReport `json:"kpi"`
}

func (h *Handler) handleOverview(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	trailing := analytics.Filter{From: now.AddDate(0, 0, -30), To: now}

	var resp overviewResponse
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		summary, err := h.dashboard.Summary(ctx)
		if err != nil {
			return err
		}
		resp.Dashboard = summary
		return nil
	})
	g.Go(func() error {
		score, err := h.health.Score(ctx)
		if err != nil {
			return err
		}
		resp.Health = score
		return nil
	})
	g.Go(func() error {
		report, err := h.reports.KPI(ctx, trailing)
		if err != nil {
			return err
		}
		resp.KPI = report
		return nil
	})
	if err := g.Wait(); err != nil {
		h.respondReportError(w, "overview", err)
		return
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) respondReportError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, analytics.ErrInvalidRange), errors.Is(err, analytics.ErrInvalidFilter):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

// parseFilter reads the shared report query parameters. Empty parameters
// leave their side of the filter open.
func parseFilter(r *http.Request) (analytics.Filter, error) {
	q := r.URL.Query()
	var f analytics.Filter
	var err error

	if raw := strings.TrimSpace(q.Get("from")); raw != "" {
		if f.From, err = analytics.ParseDay(raw); err != nil {
			return analytics.Filter{}, err
		}
	}
	if raw := strings.TrimSpace(q.Get("to")); raw != "" {
		if f.To, err = analytics.ParseDay(raw); err != nil {
			return analytics.Filter{}, err
		}
	}
	if f.VendorIDs, err = analytics.ParseIDList(q.Get("vendors")); err != nil {
		return analytics.Filter{}, err
	}
	if f.ClientIDs, err = analytics.ParseIDList(q.Get("clients")); err != nil {
		return analytics.Filter{}, err
	}
	if f.BrandIDs, err = analytics.ParseIDList(q.Get("brands")); err != nil {
		return analytics.Filter{}, err
	}
	if f.CategoryIDs, err = analytics.ParseIDList(q.Get("categories")); err != nil {
		return analytics.Filter{}, err
	}
	if raw := strings.TrimSpace(q.Get("statuses")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			f.Statuses = append(f.Statuses, ledger.Status(strings.TrimSpace(part)))
		}
	}
	if err := f.Validate(); err != nil {
		return analytics.Filter{}, err
	}
	return f, nil
}

func queryDefault(r *http.Request, name, fallback string) string {
	if value := strings.TrimSpace(r.URL.Query().Get(name)); value != "" {
		return value
	}
	return fallback
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, analytics.ErrInvalidFilter
	}
	return value, nil
}
