package ledger

// DeriveStatus maps an item's payment total to its lifecycle status. The
// reference price prefers the upper sales bound and falls back to the lower
// one. An item with no price set is considered sold by any positive
// payment. The function is pure and idempotent; callers persist the result
// inside the same transaction as the ledger write that changed the total.
func DeriveStatus(price Range, totalPaid float64) Status {
	if totalPaid <= 0 {
		return StatusInStore
	}
	reference := price.PreferMax()
	if totalPaid < reference {
		return StatusReserved
	}
	return StatusSold
}
