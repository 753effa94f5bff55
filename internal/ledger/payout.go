package ledger

// AdjustmentRate is the share of max cost deducted per currency unit the
// actual sale fell short of the listed maximum price: 1% of the payout per
// 100 units of shortfall. The price-adjusted formula is the single source
// of truth for vendor payouts; the historical flat-percentage and
// range-snapshot variants are approximations kept only for pending-payout
// dashboard totals.
const AdjustmentRate = 0.0001

// AdjustmentFactor returns the payout scalar for an item that listed at
// maxSalesPrice and actually collected `collected`. The raw factor
// 1 - (maxSalesPrice-collected)*rate is clamped to [0, 1]: a shortfall can
// erase the payout but never turn it negative, and an overage never pays
// the vendor more than the agreed max cost.
func AdjustmentFactor(maxSalesPrice, collected float64) float64 {
	factor := 1 - (maxSalesPrice-collected)*AdjustmentRate
	if factor < 0 {
		return 0
	}
	if factor > 1 {
		return 1
	}
	return factor
}

// PayoutAmount computes the canonical vendor payout for an item: the
// adjustment factor applied to the item's maximum cost. Monotonic in the
// collected amount.
func PayoutAmount(cost, price Range, collected float64) float64 {
	return AdjustmentFactor(price.PreferMax(), collected) * cost.PreferMax()
}

// PendingPayoutRange sums the cost ranges of sold items that have not been
// paid out yet. This is the legacy range snapshot used for "pending"
// dashboard totals; per-item settlement always goes through PayoutAmount.
func PendingPayoutRange(items []Item, paidOut map[int64]bool) Range {
	var total Range
	for _, item := range items {
		if item.Status != StatusSold || paidOut[item.ID] {
			continue
		}
		total = total.Add(item.Cost)
	}
	return total
}
