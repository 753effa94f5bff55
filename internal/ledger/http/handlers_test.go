package ledgerhttp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/maison-erp/maison-erp/internal/ledger"
)

type stubLedgerService struct {
	payment     ledger.Payment
	status      ledger.Status
	payout      ledger.Payout
	quote       ledger.Quote
	plans       []ledger.InstallmentPlan
	err         error
	lastPayment ledger.PaymentInput
}

func (s *stubLedgerService) RecordPayment(ctx context.Context, input ledger.PaymentInput) (ledger.Payment, ledger.Status, error) {
	s.lastPayment = input
	return s.payment, s.status, s.err
}

func (s *stubLedgerService) UpdatePayment(ctx context.Context, paymentID int64, amount float64) (ledger.Status, error) {
	return s.status, s.err
}

func (s *stubLedgerService) DeletePayment(ctx context.Context, paymentID int64) (ledger.Status, error) {
	return s.status, s.err
}

func (s *stubLedgerService) CreatePayout(ctx context.Context, input ledger.PayoutInput) (ledger.Payout, error) {
	return s.payout, s.err
}

func (s *stubLedgerService) PayoutQuote(ctx context.Context, itemID int64) (ledger.Quote, error) {
	return s.quote, s.err
}

func (s *stubLedgerService) OverdueInstallments(ctx context.Context) ([]ledger.InstallmentPlan, error) {
	return s.plans, s.err
}

func newLedgerRouter(service *stubLedgerService) http.Handler {
	r := chi.NewRouter()
	NewHandler(nil, service).MountRoutes(r)
	return r
}

func TestRecordPaymentCreated(t *testing.T) {
	service := &stubLedgerService{
		payment: ledger.Payment{ID: 7, ItemID: 3, ClientID: 11, Amount: 250, PaidAt: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
		status:  ledger.StatusReserved,
	}
	router := newLedgerRouter(service)

	body := `{"clientId":11,"amount":250,"method":"card","paidAt":"2024-03-10"}`
	req := httptest.NewRequest(http.MethodPost, "/items/3/payments", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	require.Equal(t, int64(3), service.lastPayment.ItemID)
	require.Equal(t, "card", service.lastPayment.Method)

	var resp paymentResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, int64(7), resp.ID)
	require.Equal(t, string(ledger.StatusReserved), resp.Status)
}

func TestRecordPaymentRejectsNonPositiveAmount(t *testing.T) {
	router := newLedgerRouter(&stubLedgerService{})

	for _, body := range []string{`{"clientId":1,"amount":0}`, `{"clientId":1,"amount":-5}`} {
		req := httptest.NewRequest(http.MethodPost, "/items/1/payments", strings.NewReader(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		require.Equal(t, http.StatusBadRequest, rr.Code)
	}
}

func TestRecordPaymentInvalidItemID(t *testing.T) {
	router := newLedgerRouter(&stubLedgerService{})

	req := httptest.NewRequest(http.MethodPost, "/items/abc/payments", strings.NewReader(`{"clientId":1,"amount":10}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreatePayoutConflicts(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not sold", ledger.ErrItemNotSold, http.StatusConflict},
		{"already paid out", ledger.ErrPayoutExists, http.StatusConflict},
		{"missing item", ledger.ErrItemNotFound, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newLedgerRouter(&stubLedgerService{err: tc.err})
			req := httptest.NewRequest(http.MethodPost, "/items/4/payout", nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			require.Equal(t, tc.want, rr.Code)
		})
	}
}

func TestCreatePayoutReturnsReference(t *testing.T) {
	service := &stubLedgerService{
		payout: ledger.Payout{ID: 2, ItemID: 4, VendorID: 9, Amount: 588, Reference: "ref-1", PaidAt: time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)},
	}
	router := newLedgerRouter(service)

	req := httptest.NewRequest(http.MethodPost, "/items/4/payout", strings.NewReader(`{"notes":"monthly run"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	var resp payoutResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "ref-1", resp.Reference)
	require.Equal(t, 588.0, resp.Amount)
}

func TestPayoutQuote(t *testing.T) {
	service := &stubLedgerService{
		quote: ledger.Quote{ItemID: 4, Status: ledger.StatusSold, Collected: 800, Amount: 588},
	}
	router := newLedgerRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/items/4/payout-quote", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp quoteResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, 588.0, resp.Amount)
	require.Equal(t, string(ledger.StatusSold), resp.Status)
}

func TestOverdueInstallments(t *testing.T) {
	service := &stubLedgerService{
		plans: []ledger.InstallmentPlan{
			{ID: 1, ItemID: 2, ClientID: 3, Amount: 120, DueDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), Status: ledger.InstallmentPending},
		},
	}
	router := newLedgerRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/installments/overdue", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp []installmentResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	require.Equal(t, "2024-02-01", resp[0].DueDate)
}
