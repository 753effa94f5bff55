package analytics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maison-erp/maison-erp/internal/ledger"
)

func TestItemProfitabilityRanking(t *testing.T) {
	page := ComputeItemProfitability(boutiqueSnapshot(), marchFilter(), 20, 0)

	require.Equal(t, 2, page.Total)
	require.Len(t, page.Rows, 2)

	top := page.Rows[0]
	require.Equal(t, int64(1), top.ItemID)
	require.InDelta(t, 1000, top.Revenue, 0.001)
	// Max cost plus the in-range cleaning expense.
	require.InDelta(t, 550, top.Cost, 0.001)
	require.InDelta(t, 450, top.Profit, 0.001)
	require.InDelta(t, 45, top.Margin, 0.01)
	require.Equal(t, day("2024-03-05"), top.SoldDate)
	require.Equal(t, 64, top.DaysToSell)

	second := page.Rows[1]
	require.Equal(t, int64(2), second.ItemID)
	require.InDelta(t, 300, second.Revenue, 0.001)
	require.Equal(t, 38, second.DaysToSell)
}

func TestItemProfitabilityPagesConcatenate(t *testing.T) {
	snap := boutiqueSnapshot()
	f := fullFilter()
	full := ComputeItemProfitability(snap, f, 100, 0)

	var paged []ItemProfitRow
	limit := 1
	for offset := 0; ; offset += limit {
		page := ComputeItemProfitability(snap, f, limit, offset)
		require.Equal(t, full.Total, page.Total)
		if len(page.Rows) == 0 {
			break
		}
		paged = append(paged, page.Rows...)
	}
	require.Equal(t, full.Rows, paged)

	seen := make(map[int64]bool)
	for _, row := range paged {
		require.False(t, seen[row.ItemID], "item %d duplicated across pages", row.ItemID)
		seen[row.ItemID] = true
	}
	require.Len(t, seen, full.Total)
}

func TestItemProfitabilityTieBreakIsStable(t *testing.T) {
	snap := Snapshot{
		Items: []ledger.Item{
			{ID: 1, VendorID: 1, Cost: ledger.Range{Max: 10}},
			{ID: 2, VendorID: 1, Cost: ledger.Range{Max: 10}},
			{ID: 3, VendorID: 1, Cost: ledger.Range{Max: 10}},
		},
		Payments: []ledger.Payment{
			{ID: 1, ItemID: 3, ClientID: 1, Amount: 100, PaidAt: day("2024-03-01")},
			{ID: 2, ItemID: 1, ClientID: 1, Amount: 100, PaidAt: day("2024-03-02")},
			{ID: 3, ItemID: 2, ClientID: 1, Amount: 100, PaidAt: day("2024-03-03")},
		},
	}
	page := ComputeItemProfitability(snap, Filter{}, 2, 0)
	require.Equal(t, int64(1), page.Rows[0].ItemID)
	require.Equal(t, int64(2), page.Rows[1].ItemID)

	next := ComputeItemProfitability(snap, Filter{}, 2, 2)
	require.Len(t, next.Rows, 1)
	require.Equal(t, int64(3), next.Rows[0].ItemID)
}

func TestItemProfitabilityOffsetPastEnd(t *testing.T) {
	page := ComputeItemProfitability(boutiqueSnapshot(), marchFilter(), 10, 50)
	require.Empty(t, page.Rows)
	require.Equal(t, 2, page.Total)
}
