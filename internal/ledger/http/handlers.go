package ledgerhttp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/maison-erp/maison-erp/internal/ledger"
	"github.com/maison-erp/maison-erp/internal/platform/httpx"
)

// Service exposes the ledger operations required by the handler.
type Service interface {
	RecordPayment(ctx context.Context, input ledger.PaymentInput) (ledger.Payment, ledger.Status, error)
	UpdatePayment(ctx context.Context, paymentID int64, amount float64) (ledger.Status, error)
	DeletePayment(ctx context.Context, paymentID int64) (ledger.Status, error)
	CreatePayout(ctx context.Context, input ledger.PayoutInput) (ledger.Payout, error)
	PayoutQuote(ctx context.Context, itemID int64) (ledger.Quote, error)
	OverdueInstallments(ctx context.Context) ([]ledger.InstallmentPlan, error)
}

// Handler wires HTTP endpoints for the ledger write path.
type Handler struct {
	logger    *slog.Logger
	service   Service
	validator *validator.Validate
}

// NewHandler constructs a ledger handler.
func NewHandler(logger *slog.Logger, service Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
	}
}

type recordPaymentRequest struct {
	ClientID int64   `json:"clientId" validate:"required,gt=0"`
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Method   string  `json:"method" validate:"omitempty,max=32"`
	PaidAt   string  `json:"paidAt" validate:"omitempty,datetime=2006-01-02"`
}

type updatePaymentRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

type createPayoutRequest struct {
	Notes string `json:"notes" validate:"omitempty,max=500"`
}

type paymentResponse struct {
	ID       int64   `json:"id"`
	ItemID   int64   `json:"itemId"`
	ClientID int64   `json:"clientId"`
	Amount   float64 `json:"amount"`
	Method   string  `json:"method,omitempty"`
	PaidAt   string  `json:"paidAt"`
	Status   string  `json:"itemStatus"`
}

type statusResponse struct {
	Status string `json:"itemStatus"`
}

type payoutResponse struct {
	ID        int64   `json:"id"`
	ItemID    int64   `json:"itemId"`
	VendorID  int64   `json:"vendorId"`
	Amount    float64 `json:"amount"`
	Reference string  `json:"reference"`
	Notes     string  `json:"notes,omitempty"`
	PaidAt    string  `json:"paidAt"`
}

type quoteResponse struct {
	ItemID    int64   `json:"itemId"`
	Status    string  `json:"itemStatus"`
	Collected float64 `json:"collected"`
	Amount    float64 `json:"amount"`
}

type installmentResponse struct {
	ID         int64   `json:"id"`
	ItemID     int64   `json:"itemId"`
	ClientID   int64   `json:"clientId"`
	Amount     float64 `json:"amount"`
	DueDate    string  `json:"dueDate"`
	PaidAmount float64 `json:"paidAmount"`
	Status     string  `json:"status"`
}

func (h *Handler) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemID")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid item id")
		return
	}

	var req recordPaymentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	var paidAt time.Time
	if req.PaidAt != "" {
		paidAt, _ = time.ParseInLocation("2006-01-02", req.PaidAt, time.UTC)
	}

	payment, status, err := h.service.RecordPayment(r.Context(), ledger.PaymentInput{
		ItemID:   itemID,
		ClientID: req.ClientID,
		Amount:   req.Amount,
		Method:   req.Method,
		PaidAt:   paidAt,
	})
	if err != nil {
		h.respondLedgerError(w, "record payment", err)
		return
	}

	httpx.JSON(w, http.StatusCreated, paymentResponse{
		ID:       payment.ID,
		ItemID:   payment.ItemID,
		ClientID: payment.ClientID,
		Amount:   payment.Amount,
		Method:   payment.Method,
		PaidAt:   payment.PaidAt.UTC().Format(time.RFC3339),
		Status:   string(status),
	})
}

func (h *Handler) handleUpdatePayment(w http.ResponseWriter, r *http.Request) {
	paymentID, err := pathID(r, "paymentID")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid payment id")
		return
	}

	var req updatePaymentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	status, err := h.service.UpdatePayment(r.Context(), paymentID, req.Amount)
	if err != nil {
		h.respondLedgerError(w, "update payment", err)
		return
	}
	httpx.JSON(w, http.StatusOK, statusResponse{Status: string(status)})
}

func (h *Handler) handleDeletePayment(w http.ResponseWriter, r *http.Request) {
	paymentID, err := pathID(r, "paymentID")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid payment id")
		return
	}

	status, err := h.service.DeletePayment(r.Context(), paymentID)
	if err != nil {
		h.respondLedgerError(w, "delete payment", err)
		return
	}
	httpx.JSON(w, http.StatusOK, statusResponse{Status: string(status)})
}

func (h *Handler) handleCreatePayout(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemID")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid item id")
		return
	}

	var req createPayoutRequest
	if r.ContentLength > 0 {
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
			return
		}
		if err := h.validator.Struct(req); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return
		}
	}

	payout, err := h.service.CreatePayout(r.Context(), ledger.PayoutInput{ItemID: itemID, Notes: req.Notes})
	if err != nil {
		h.respondLedgerError(w, "create payout", err)
		return
	}

	httpx.JSON(w, http.StatusCreated, payoutResponse{
		ID:        payout.ID,
		ItemID:    payout.ItemID,
		VendorID:  payout.VendorID,
		Amount:    payout.Amount,
		Reference: payout.Reference,
		Notes:     payout.Notes,
		PaidAt:    payout.PaidAt.UTC().Format(time.RFC3339),
	})
}

func (h *Handler) handlePayoutQuote(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemID")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid item id")
		return
	}

	quote, err := h.service.PayoutQuote(r.Context(), itemID)
	if err != nil {
		h.respondLedgerError(w, "payout quote", err)
		return
	}
	httpx.JSON(w, http.StatusOK, quoteResponse{
		ItemID:    quote.ItemID,
		Status:    string(quote.Status),
		Collected: quote.Collected,
		Amount:    quote.Amount,
	})
}

func (h *Handler) handleOverdueInstallments(w http.ResponseWriter, r *http.Request) {
	plans, err := h.service.OverdueInstallments(r.Context())
	if err != nil {
		h.respondLedgerError(w, "list overdue installments", err)
		return
	}
	out := make([]installmentResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, installmentResponse{
			ID:         p.ID,
			ItemID:     p.ItemID,
			ClientID:   p.ClientID,
			Amount:     p.Amount,
			DueDate:    p.DueDate.UTC().Format("2006-01-02"),
			PaidAmount: p.PaidAmount,
			Status:     string(p.Status),
		})
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) respondLedgerError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ledger.ErrItemNotFound), errors.Is(err, ledger.ErrPaymentNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ledger.ErrInvalidAmount):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ledger.ErrItemNotSold):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, ledger.ErrPayoutExists):
		httpx.Problem(w, http.StatusConflict, "Duplicate", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
