package analytics

import (
	"context"
	"time"

	"github.com/maison-erp/maison-erp/internal/ledger"
)

// Snapshot is the single ledger read every report transforms. The reader
// restricts Items by the filter's item-level dimensions and returns the
// full payment/expense/payout/installment history of the matched items;
// date windows and the client allow-list are applied by the pure report
// transforms. Expenses with ItemID 0 are general business expenses.
type Snapshot struct {
	Items        []ledger.Item
	Payments     []ledger.Payment
	Payouts      []ledger.Payout
	Expenses     []ledger.Expense
	Installments []ledger.InstallmentPlan

	Vendors    map[int64]string
	Clients    map[int64]string
	Brands     map[int64]string
	Categories map[int64]string
}

// SnapshotReader loads a ledger snapshot scoped by a filter. An empty
// filter returns the whole ledger.
type SnapshotReader interface {
	Snapshot(ctx context.Context, f Filter) (Snapshot, error)
}

// ItemByID indexes the snapshot's items.
func (s Snapshot) ItemByID() map[int64]ledger.Item {
	index := make(map[int64]ledger.Item, len(s.Items))
	for _, item := range s.Items {
		index[item.ID] = item
	}
	return index
}

// PaidOut reports which items already have a payout.
func (s Snapshot) PaidOut() map[int64]bool {
	paid := make(map[int64]bool, len(s.Payouts))
	for _, payout := range s.Payouts {
		paid[payout.ItemID] = true
	}
	return paid
}

// CollectedByItem sums every payment per item, ignoring date windows.
func (s Snapshot) CollectedByItem() map[int64]float64 {
	collected := make(map[int64]float64)
	for _, payment := range s.Payments {
		collected[payment.ItemID] += payment.Amount
	}
	return collected
}

// firstPaymentByItem resolves the earliest matching payment per item.
func firstPaymentByItem(payments []ledger.Payment, f Filter) map[int64]time.Time {
	first := make(map[int64]time.Time)
	for _, payment := range payments {
		if !f.MatchPayment(payment) {
			continue
		}
		if existing, ok := first[payment.ItemID]; !ok || payment.PaidAt.Before(existing) {
			first[payment.ItemID] = payment.PaidAt
		}
	}
	return first
}
