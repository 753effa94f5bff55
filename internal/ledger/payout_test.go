package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPayoutAmountFullCollection(t *testing.T) {
	cost := Range{Min: 500, Max: 600}
	price := Range{Min: 900, Max: 1000}

	require.InDelta(t, 600, PayoutAmount(cost, price, 1000), 0.0001)
}

func TestPayoutAmountShortfall(t *testing.T) {
	cost := Range{Max: 600}
	price := Range{Max: 1000}

	// 200 short of the listed max: factor 0.98.
	require.InDelta(t, 588, PayoutAmount(cost, price, 800), 0.0001)
}

func TestAdjustmentFactorClamped(t *testing.T) {
	// A shortfall past 10000 units would go negative unclamped.
	require.Equal(t, 0.0, AdjustmentFactor(12000, 0))
	// Collecting above the listed max never pays more than max cost.
	require.Equal(t, 1.0, AdjustmentFactor(1000, 1200))
}

func TestAdjustmentFactorShortfallRate(t *testing.T) {
	// 1% of the payout per 100 units short of the listed max.
	require.InDelta(t, 0.98, AdjustmentFactor(1000, 800), 0.0001)
	require.InDelta(t, 0.99, AdjustmentFactor(1000, 900), 0.0001)
	require.InDelta(t, 1.0, AdjustmentFactor(1000, 1000), 0.0001)
}

func TestPayoutAmountMonotonicInCollected(t *testing.T) {
	cost := Range{Max: 600}
	price := Range{Max: 1000}

	prev := -1.0
	for collected := 0.0; collected <= 1200; collected += 10 {
		payout := PayoutAmount(cost, price, collected)
		require.GreaterOrEqual(t, payout, prev, "collected=%f", collected)
		prev = payout
	}
}

func TestPayoutAmountRangeFallback(t *testing.T) {
	// Missing max cost falls back to min cost.
	require.InDelta(t, 500, PayoutAmount(Range{Min: 500}, Range{Max: 1000}, 1000), 0.0001)
}

func TestPendingPayoutRange(t *testing.T) {
	items := []Item{
		{ID: 1, Status: StatusSold, Cost: Range{Min: 100, Max: 150}},
		{ID: 2, Status: StatusSold, Cost: Range{Min: 200}}, // one-sided
		{ID: 3, Status: StatusSold, Cost: Range{Max: 300}},
		{ID: 4, Status: StatusInStore, Cost: Range{Min: 999, Max: 999}},
		{ID: 5, Status: StatusSold, Cost: Range{Min: 50, Max: 60}},
	}
	paidOut := map[int64]bool{5: true}

	total := PendingPayoutRange(items, paidOut)
	require.InDelta(t, 600, total.Min, 0.0001)
	require.InDelta(t, 650, total.Max, 0.0001)
}
