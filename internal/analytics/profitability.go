package analytics

import (
	"sort"
	"time"

	"github.com/maison-erp/maison-erp/internal/shared"
)

// ItemProfitRow ranks one item by the revenue it generated in range.
type ItemProfitRow struct {
	ItemID     int64     `json:"itemId"`
	Revenue    float64   `json:"revenue"`
	Cost       float64   `json:"cost"`
	Profit     float64   `json:"profit"`
	Margin     float64   `json:"margin"`
	SoldDate   time.Time `json:"soldDate"`
	DaysToSell int       `json:"daysToSell"`
}

// ItemProfitabilityPage is one page of the descending-by-revenue ranking
// with the total match count so callers can compute "has more".
type ItemProfitabilityPage struct {
	Rows       []ItemProfitRow   `json:"rows"`
	Total      int               `json:"total"`
	Pagination shared.Pagination `json:"pagination"`
}

// ComputeItemProfitability ranks every item that received a matching
// payment in range. Cost is the item's preferred-max cost plus its
// expenses incurred in range.
func ComputeItemProfitability(snap Snapshot, f Filter, limit, offset int) ItemProfitabilityPage {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	revenueByItem := make(map[int64]float64)
	for _, payment := range snap.Payments {
		if !f.MatchPayment(payment) {
			continue
		}
		revenueByItem[payment.ItemID] += payment.Amount
	}
	expensesByItem := make(map[int64]float64)
	for _, expense := range snap.Expenses {
		if expense.ItemID == 0 || !f.InRange(expense.IncurredAt) {
			continue
		}
		expensesByItem[expense.ItemID] += expense.Amount
	}
	firstPaid := firstPaymentByItem(snap.Payments, f)

	items := snap.ItemByID()
	rows := make([]ItemProfitRow, 0, len(revenueByItem))
	for itemID, revenue := range revenueByItem {
		item, ok := items[itemID]
		if !ok {
			continue
		}
		cost := item.Cost.PreferMax() + expensesByItem[itemID]
		profit := revenue - cost
		row := ItemProfitRow{
			ItemID:   itemID,
			Revenue:  round2(revenue),
			Cost:     round2(cost),
			Profit:   round2(profit),
			SoldDate: firstPaid[itemID],
		}
		if revenue > 0 {
			row.Margin = round2(profit / revenue * 100)
		}
		if !item.AcquisitionDate.IsZero() && !row.SoldDate.IsZero() {
			row.DaysToSell = int(row.SoldDate.Sub(item.AcquisitionDate).Hours() / 24)
		}
		rows = append(rows, row)
	}

	// Item id breaks revenue ties so pages concatenate without gaps.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Revenue != rows[j].Revenue {
			return rows[i].Revenue > rows[j].Revenue
		}
		return rows[i].ItemID < rows[j].ItemID
	})

	total := len(rows)
	if offset >= total {
		rows = nil
	} else {
		end := offset + limit
		if end > total {
			end = total
		}
		rows = rows[offset:end]
	}
	return ItemProfitabilityPage{
		Rows:       rows,
		Total:      total,
		Pagination: shared.NewPagination(offset/limit+1, limit, total),
	}
}
