package analytics

import "sort"

// MethodBreakdown summarises collections per payment method.
type MethodBreakdown struct {
	Method     string  `json:"method"`
	Amount     float64 `json:"amount"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
	Average    float64 `json:"average"`
}

// ComputePaymentMethods breaks matched payments down per method, sorted by
// amount descending.
func ComputePaymentMethods(snap Snapshot, f Filter) []MethodBreakdown {
	type acc struct {
		amount float64
		count  int
	}
	methods := make(map[string]*acc)
	var grandTotal float64

	for _, payment := range snap.Payments {
		if !f.MatchPayment(payment) {
			continue
		}
		method := payment.Method
		if method == "" {
			method = "unknown"
		}
		entry, ok := methods[method]
		if !ok {
			entry = &acc{}
			methods[method] = entry
		}
		entry.amount += payment.Amount
		entry.count++
		grandTotal += payment.Amount
	}

	rows := make([]MethodBreakdown, 0, len(methods))
	for method, entry := range methods {
		row := MethodBreakdown{
			Method: method,
			Amount: round2(entry.amount),
			Count:  entry.count,
		}
		if grandTotal > 0 {
			row.Percentage = round2(entry.amount / grandTotal * 100)
		}
		if entry.count > 0 {
			row.Average = round2(entry.amount / float64(entry.count))
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Amount != rows[j].Amount {
			return rows[i].Amount > rows[j].Amount
		}
		return rows[i].Method < rows[j].Method
	})
	return rows
}
