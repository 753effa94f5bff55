package analytics

import (
	"context"
	"time"

	"github.com/maison-erp/maison-erp/internal/ledger"
)

type staticReader struct {
	snap Snapshot
}

func (r staticReader) Snapshot(ctx context.Context, f Filter) (Snapshot, error) {
	// Mimic the repository contract: items are dimension-filtered, the
	// related records are returned in full.
	filtered := Snapshot{
		Payouts:      r.snap.Payouts,
		Expenses:     r.snap.Expenses,
		Installments: r.snap.Installments,
		Vendors:      r.snap.Vendors,
		Clients:      r.snap.Clients,
		Brands:       r.snap.Brands,
		Categories:   r.snap.Categories,
	}
	keep := make(map[int64]bool)
	for _, item := range r.snap.Items {
		if f.MatchItem(item) {
			filtered.Items = append(filtered.Items, item)
			keep[item.ID] = true
		}
	}
	for _, payment := range r.snap.Payments {
		if keep[payment.ItemID] {
			filtered.Payments = append(filtered.Payments, payment)
		}
	}
	return filtered, nil
}

func day(value string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

// boutiqueSnapshot is the shared fixture: two vendors consigning five
// items, three clients, payments across February and March 2024.
func boutiqueSnapshot() Snapshot {
	return Snapshot{
		Items: []ledger.Item{
			{ID: 1, VendorID: 1, BrandID: 1, CategoryID: 1, Cost: ledger.Range{Min: 400, Max: 500}, Price: ledger.Range{Min: 900, Max: 1000}, Status: ledger.StatusSold, AcquisitionDate: day("2024-01-01")},
			{ID: 2, VendorID: 1, BrandID: 2, CategoryID: 2, Cost: ledger.Range{Min: 200}, Price: ledger.Range{Min: 500, Max: 600}, Status: ledger.StatusReserved, AcquisitionDate: day("2024-02-01")},
			{ID: 3, VendorID: 2, CategoryID: 1, Cost: ledger.Range{Max: 300}, Price: ledger.Range{Max: 700}, Status: ledger.StatusSold, AcquisitionDate: day("2024-03-01")},
			{ID: 4, VendorID: 2, BrandID: 1, CategoryID: 1, Cost: ledger.Range{Min: 100, Max: 150}, Price: ledger.Range{Min: 200, Max: 250}, Status: ledger.StatusInStore, AcquisitionDate: day("2023-06-01")},
			{ID: 5, VendorID: 1, Cost: ledger.Range{Min: 80, Max: 90}, Status: ledger.StatusInStore},
		},
		Payments: []ledger.Payment{
			{ID: 1, ItemID: 1, ClientID: 1, Amount: 600, Method: "card", PaidAt: day("2024-03-05")},
			{ID: 2, ItemID: 1, ClientID: 2, Amount: 400, Method: "cash", PaidAt: day("2024-03-20")},
			{ID: 3, ItemID: 2, ClientID: 1, Amount: 300, Method: "card", PaidAt: day("2024-03-10")},
			{ID: 4, ItemID: 3, ClientID: 3, Amount: 700, Method: "transfer", PaidAt: day("2024-02-15")},
		},
		Payouts: []ledger.Payout{
			{ID: 1, ItemID: 3, VendorID: 2, Amount: 300, PaidAt: day("2024-02-20")},
		},
		Expenses: []ledger.Expense{
			{ID: 1, ItemID: 1, Type: "cleaning", Amount: 50, IncurredAt: day("2024-03-15")},
			{ID: 2, ItemID: 1, Type: "repair", Amount: 30, IncurredAt: day("2024-02-10")},
			{ID: 3, ItemID: 3, Type: "shipping", Amount: 20, IncurredAt: day("2024-03-12")},
			{ID: 4, Type: "rent", Amount: 100, IncurredAt: day("2024-03-01")},
		},
		Installments: []ledger.InstallmentPlan{
			{ID: 1, ItemID: 2, ClientID: 1, Amount: 300, DueDate: day("2024-04-01"), Status: ledger.InstallmentPending},
		},
		Vendors:    map[int64]string{1: "Aurelie", 2: "Benoit"},
		Clients:    map[int64]string{1: "Chloe", 2: "Dmitri", 3: "Esther"},
		Brands:     map[int64]string{1: "Lanvin", 2: "Rivoli"},
		Categories: map[int64]string{1: "Bags", 2: "Watches"},
	}
}

func marchFilter() Filter {
	return Filter{From: day("2024-03-01"), To: day("2024-03-31")}
}

func fullFilter() Filter {
	return Filter{From: day("2024-02-01"), To: day("2024-03-31")}
}
