package analytics

import (
	"fmt"
	"sort"

	"github.com/maison-erp/maison-erp/internal/ledger"
)

// GroupBy selects the grouping dimension.
type GroupBy string

const (
	// GroupByBrand groups by the item's brand.
	GroupByBrand GroupBy = "brand"
	// GroupByVendor groups by the item's vendor.
	GroupByVendor GroupBy = "vendor"
	// GroupByClient groups by the paying client.
	GroupByClient GroupBy = "client"
	// GroupByCategory groups by the item's category.
	GroupByCategory GroupBy = "category"
)

// GroupMetric names a metric a caller may request per group.
type GroupMetric string

const (
	// GroupMetricRevenue sums payment amounts.
	GroupMetricRevenue GroupMetric = "revenue"
	// GroupMetricProfit is revenue minus cost-once COGS of the group's items.
	GroupMetricProfit GroupMetric = "profit"
	// GroupMetricItemsSold counts distinct paid items.
	GroupMetricItemsSold GroupMetric = "items_sold"
	// GroupMetricAvgOrderValue is revenue per payment.
	GroupMetricAvgOrderValue GroupMetric = "avg_order_value"
)

// GroupRow is one group with its requested metrics; unrequested metrics
// stay zero.
type GroupRow struct {
	Key           int64   `json:"key"`
	Label         string  `json:"label"`
	Revenue       float64 `json:"revenue"`
	Profit        float64 `json:"profit"`
	ItemsSold     int     `json:"itemsSold"`
	AvgOrderValue float64 `json:"avgOrderValue"`
}

// ComputeGroups aggregates the caller-selected metrics per group. Rows are
// sorted by revenue descending, or by item count when revenue was not
// requested. A payment whose dimension is missing lands in the
// "Unknown <dimension>" group.
func ComputeGroups(snap Snapshot, f Filter, groupBy GroupBy, metrics []GroupMetric) ([]GroupRow, error) {
	switch groupBy {
	case GroupByBrand, GroupByVendor, GroupByClient, GroupByCategory:
	default:
		return nil, fmt.Errorf("%w: unknown group dimension %q", ErrInvalidFilter, groupBy)
	}
	if len(metrics) == 0 {
		metrics = []GroupMetric{GroupMetricRevenue, GroupMetricProfit, GroupMetricItemsSold, GroupMetricAvgOrderValue}
	}
	wanted := make(map[GroupMetric]bool, len(metrics))
	for _, metric := range metrics {
		switch metric {
		case GroupMetricRevenue, GroupMetricProfit, GroupMetricItemsSold, GroupMetricAvgOrderValue:
			wanted[metric] = true
		default:
			return nil, fmt.Errorf("%w: unknown metric %q", ErrInvalidFilter, metric)
		}
	}

	type accumulator struct {
		revenue  float64
		payments int
		items    map[int64]bool
	}
	groups := make(map[int64]*accumulator)
	items := snap.ItemByID()

	keyOf := func(payment ledger.Payment) int64 {
		if groupBy == GroupByClient {
			return payment.ClientID
		}
		item, ok := items[payment.ItemID]
		if !ok {
			return 0
		}
		switch groupBy {
		case GroupByBrand:
			return item.BrandID
		case GroupByVendor:
			return item.VendorID
		default:
			return item.CategoryID
		}
	}

	for _, payment := range snap.Payments {
		if !f.MatchPayment(payment) {
			continue
		}
		key := keyOf(payment)
		acc, ok := groups[key]
		if !ok {
			acc = &accumulator{items: make(map[int64]bool)}
			groups[key] = acc
		}
		acc.revenue += payment.Amount
		acc.payments++
		acc.items[payment.ItemID] = true
	}

	rows := make([]GroupRow, 0, len(groups))
	for key, acc := range groups {
		row := GroupRow{Key: key, Label: groupLabel(snap, groupBy, key)}
		if wanted[GroupMetricRevenue] {
			row.Revenue = round2(acc.revenue)
		}
		if wanted[GroupMetricItemsSold] {
			row.ItemsSold = len(acc.items)
		}
		if wanted[GroupMetricProfit] {
			var cogs float64
			for itemID := range acc.items {
				if item, ok := items[itemID]; ok {
					cogs += item.Cost.PreferMax()
				}
			}
			row.Profit = round2(acc.revenue - cogs)
		}
		if wanted[GroupMetricAvgOrderValue] && acc.payments > 0 {
			row.AvgOrderValue = round2(acc.revenue / float64(acc.payments))
		}
		rows = append(rows, row)
	}

	if wanted[GroupMetricRevenue] {
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].Revenue != rows[j].Revenue {
				return rows[i].Revenue > rows[j].Revenue
			}
			return rows[i].Key < rows[j].Key
		})
	} else {
		sort.Slice(rows, func(i, j int) bool {
			left, right := groups[rows[i].Key], groups[rows[j].Key]
			if len(left.items) != len(right.items) {
				return len(left.items) > len(right.items)
			}
			return rows[i].Key < rows[j].Key
		})
	}
	return rows, nil
}

func groupLabel(snap Snapshot, groupBy GroupBy, key int64) string {
	var names map[int64]string
	var dimension string
	switch groupBy {
	case GroupByBrand:
		names, dimension = snap.Brands, "Brand"
	case GroupByVendor:
		names, dimension = snap.Vendors, "Vendor"
	case GroupByClient:
		names, dimension = snap.Clients, "Client"
	default:
		names, dimension = snap.Categories, "Category"
	}
	if key != 0 {
		if name, ok := names[key]; ok && name != "" {
			return name
		}
	}
	return "Unknown " + dimension
}
