// Package dashboard composes the at-a-glance financial snapshot. It keeps
// no state and no cache: every call recomputes from current ledger state.
package dashboard

import (
	"context"
	"math"

	"github.com/maison-erp/maison-erp/internal/analytics"
	"github.com/maison-erp/maison-erp/internal/ledger"
)

// Summary is the point-in-time view combining revenue, inventory and
// payout positions.
type Summary struct {
	TotalRevenue     float64      `json:"totalRevenue"`
	ActiveItems      int          `json:"activeItems"`
	PendingPayout    ledger.Range `json:"pendingPayout"`
	NetProfit        ledger.Range `json:"netProfit"`
	IncomingPayments float64      `json:"incomingPayments"`
	UpcomingPayouts  float64      `json:"upcomingPayouts"`
	InStoreCost      ledger.Range `json:"inStoreCost"`
	InStoreValue     ledger.Range `json:"inStoreValue"`
}

// Service recomputes the dashboard from a full ledger snapshot.
type Service struct {
	reader analytics.SnapshotReader
}

// NewService constructs a Service instance.
func NewService(reader analytics.SnapshotReader) *Service {
	return &Service{reader: reader}
}

// Summary reads the ledger and derives the snapshot.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	snap, err := s.reader.Snapshot(ctx, analytics.Filter{})
	if err != nil {
		return Summary{}, err
	}
	return Compute(snap), nil
}

// Compute derives the summary from a snapshot.
func Compute(snap analytics.Snapshot) Summary {
	var summary Summary

	var revenue float64
	for _, payment := range snap.Payments {
		revenue += payment.Amount
	}
	var expenses float64
	for _, expense := range snap.Expenses {
		expenses += expense.Amount
	}

	paidOut := snap.PaidOut()
	collected := snap.CollectedByItem()

	var pending, inStoreCost, inStoreValue ledger.Range
	var incoming, upcoming float64
	for _, item := range snap.Items {
		switch item.Status {
		case ledger.StatusInStore:
			summary.ActiveItems++
			inStoreCost = inStoreCost.Add(item.Cost)
			inStoreValue = inStoreValue.Add(item.Price)
		case ledger.StatusSold:
			incoming += collected[item.ID]
			if paidOut[item.ID] {
				continue
			}
			pending = pending.Add(item.Cost)
			if collected[item.ID] > 0 {
				upcoming += ledger.PayoutAmount(item.Cost, item.Price, collected[item.ID])
			}
		}
	}

	netProfit := ledger.Range{Min: revenue - expenses, Max: revenue - expenses}.Sub(pending)

	summary.TotalRevenue = round2(revenue)
	summary.PendingPayout = roundRange(pending)
	summary.NetProfit = roundRange(netProfit)
	summary.IncomingPayments = round2(incoming)
	summary.UpcomingPayouts = round2(upcoming)
	summary.InStoreCost = roundRange(inStoreCost)
	summary.InStoreValue = roundRange(inStoreValue)
	return summary
}

func roundRange(r ledger.Range) ledger.Range {
	return ledger.Range{Min: round2(r.Min), Max: round2(r.Max)}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
