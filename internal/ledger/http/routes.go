package ledgerhttp

import "github.com/go-chi/chi/v5"

// MountRoutes registers the ledger write endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	r.Post("/items/{itemID}/payments", h.handleRecordPayment)
	r.Patch("/payments/{paymentID}", h.handleUpdatePayment)
	r.Delete("/payments/{paymentID}", h.handleDeletePayment)
	r.Post("/items/{itemID}/payout", h.handleCreatePayout)
	r.Get("/items/{itemID}/payout-quote", h.handlePayoutQuote)
	r.Get("/installments/overdue", h.handleOverdueInstallments)
}
