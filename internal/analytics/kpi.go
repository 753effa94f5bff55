package analytics

// KPIReport contains the key indicators for a date range. Every ratio is
// guarded: a zero denominator yields 0, never NaN.
type KPIReport struct {
	Revenue           float64 `json:"revenue"`
	COGS              float64 `json:"cogs"`
	GrossProfit       float64 `json:"grossProfit"`
	GrossMargin       float64 `json:"grossMargin"`
	TotalExpenses     float64 `json:"totalExpenses"`
	NetProfit         float64 `json:"netProfit"`
	NetMargin         float64 `json:"netMargin"`
	ItemsSold         int     `json:"itemsSold"`
	PaymentCount      int     `json:"paymentCount"`
	UniqueClients     int     `json:"uniqueClients"`
	AverageOrderValue float64 `json:"averageOrderValue"`
	AverageDaysToSell float64 `json:"averageDaysToSell"`
	InventoryTurnover float64 `json:"inventoryTurnover"`
}

// ComputeKPI derives the KPI report from a snapshot. COGS charges each
// paid item's preferred-max cost exactly once regardless of how many
// payments it received in the range.
func ComputeKPI(snap Snapshot, f Filter) KPIReport {
	var report KPIReport
	var revenue float64
	clients := make(map[int64]bool)
	firstPaid := firstPaymentByItem(snap.Payments, f)

	for _, payment := range snap.Payments {
		if !f.MatchPayment(payment) {
			continue
		}
		revenue += payment.Amount
		report.PaymentCount++
		clients[payment.ClientID] = true
	}

	items := snap.ItemByID()
	var cogs float64
	var totalDays float64
	var daysSamples int
	for itemID, soldAt := range firstPaid {
		item, ok := items[itemID]
		if !ok {
			continue
		}
		cogs += item.Cost.PreferMax()
		if !item.AcquisitionDate.IsZero() {
			totalDays += soldAt.Sub(item.AcquisitionDate).Hours() / 24
			daysSamples++
		}
	}

	var expenses float64
	for _, expense := range snap.Expenses {
		if _, paid := firstPaid[expense.ItemID]; !paid {
			continue
		}
		if f.InRange(expense.IncurredAt) {
			expenses += expense.Amount
		}
	}

	report.ItemsSold = len(firstPaid)
	report.UniqueClients = len(clients)
	grossProfit := revenue - cogs
	netProfit := grossProfit - expenses

	report.Revenue = round2(revenue)
	report.COGS = round2(cogs)
	report.GrossProfit = round2(grossProfit)
	report.TotalExpenses = round2(expenses)
	report.NetProfit = round2(netProfit)
	if revenue > 0 {
		report.GrossMargin = round2(grossProfit / revenue * 100)
		report.NetMargin = round2(netProfit / revenue * 100)
	}
	if report.PaymentCount > 0 {
		report.AverageOrderValue = round2(revenue / float64(report.PaymentCount))
	}
	if daysSamples > 0 {
		report.AverageDaysToSell = round2(totalDays / float64(daysSamples))
	}
	// Approximation of a turnover ratio: revenue over average cost per
	// sold item, not the textbook COGS over average inventory.
	if cogs > 0 && report.ItemsSold > 0 {
		report.InventoryTurnover = round2(revenue / (cogs / float64(report.ItemsSold)))
	}
	return report
}
