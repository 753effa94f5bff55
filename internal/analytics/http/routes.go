package analyticshttp

import "github.com/go-chi/chi/v5"

// MountRoutes registers the reporting endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	r.Get("/dashboard", h.handleDashboard)
	r.Get("/health-score", h.handleHealthScore)
	r.Route("/reports", func(r chi.Router) {
		r.Get("/overview", h.handleOverview)
		r.Get("/kpi", h.handleKPI)
		r.Get("/timeseries", h.handleTimeSeries)
		r.Get("/groups", h.handleGroups)
		r.Get("/profitability", h.handleItemProfitability)
		r.Get("/inventory", h.handleInventoryHealth)
		r.Get("/methods", h.handlePaymentMethods)
	})
}
