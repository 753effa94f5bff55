package analytics

import (
	"sort"
	"time"

	"github.com/maison-erp/maison-erp/internal/ledger"
)

// AgingBucket counts items by days since acquisition.
type AgingBucket struct {
	Bucket string `json:"bucket"`
	Count  int    `json:"count"`
}

// CategoryHealth summarises current inventory per category.
type CategoryHealth struct {
	CategoryID     int64   `json:"categoryId"`
	Label          string  `json:"label"`
	Count          int     `json:"count"`
	Value          float64 `json:"value"`
	AverageAgeDays float64 `json:"averageAgeDays"`
}

// InventoryHealthReport is the point-in-time inventory view; it never
// applies a date window.
type InventoryHealthReport struct {
	StatusCounts   map[string]int   `json:"statusCounts"`
	TotalValue     float64          `json:"totalValue"`
	AverageAgeDays float64          `json:"averageAgeDays"`
	Categories     []CategoryHealth `json:"categories"`
	Aging          []AgingBucket    `json:"aging"`
}

var agingBounds = []struct {
	label string
	max   int
}{
	{"<30", 30},
	{"30-90", 91},
	{"91-180", 181},
	{">180", 1 << 30},
}

// ComputeInventoryHealth reports status counts over all matched items and
// value, age and aging buckets over the items still in inventory.
func ComputeInventoryHealth(snap Snapshot, now time.Time) InventoryHealthReport {
	report := InventoryHealthReport{StatusCounts: make(map[string]int)}
	aging := make([]AgingBucket, len(agingBounds))
	for i, bound := range agingBounds {
		aging[i] = AgingBucket{Bucket: bound.label}
	}

	type catAcc struct {
		count int
		value float64
		days  float64
		aged  int
	}
	categories := make(map[int64]*catAcc)
	var totalValue float64
	var totalDays float64
	var agedItems int

	for _, item := range snap.Items {
		report.StatusCounts[string(item.Status)]++
		if !inInventory(item) {
			continue
		}
		value := item.Price.PreferMax()
		totalValue += value

		acc, ok := categories[item.CategoryID]
		if !ok {
			acc = &catAcc{}
			categories[item.CategoryID] = acc
		}
		acc.count++
		acc.value += value

		if item.AcquisitionDate.IsZero() {
			continue
		}
		age := now.Sub(item.AcquisitionDate).Hours() / 24
		totalDays += age
		agedItems++
		acc.days += age
		acc.aged++
		for i, bound := range agingBounds {
			if int(age) < bound.max {
				aging[i].Count++
				break
			}
		}
	}

	report.TotalValue = round2(totalValue)
	if agedItems > 0 {
		report.AverageAgeDays = round2(totalDays / float64(agedItems))
	}
	report.Aging = aging

	rows := make([]CategoryHealth, 0, len(categories))
	for categoryID, acc := range categories {
		row := CategoryHealth{
			CategoryID: categoryID,
			Label:      categoryLabel(snap, categoryID),
			Count:      acc.count,
			Value:      round2(acc.value),
		}
		if acc.aged > 0 {
			row.AverageAgeDays = round2(acc.days / float64(acc.aged))
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Value != rows[j].Value {
			return rows[i].Value > rows[j].Value
		}
		return rows[i].CategoryID < rows[j].CategoryID
	})
	report.Categories = rows
	return report
}

func inInventory(item ledger.Item) bool {
	return item.Status == ledger.StatusInStore || item.Status == ledger.StatusReserved
}

func categoryLabel(snap Snapshot, categoryID int64) string {
	if categoryID != 0 {
		if name, ok := snap.Categories[categoryID]; ok && name != "" {
			return name
		}
	}
	return "Unknown Category"
}
