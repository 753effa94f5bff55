package analytics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maison-erp/maison-erp/internal/ledger"
)

func TestComputeInventoryHealth(t *testing.T) {
	report := ComputeInventoryHealth(boutiqueSnapshot(), day("2024-04-01"))

	require.Equal(t, 2, report.StatusCounts[string(ledger.StatusSold)])
	require.Equal(t, 1, report.StatusCounts[string(ledger.StatusReserved)])
	require.Equal(t, 2, report.StatusCounts[string(ledger.StatusInStore)])

	// Items 2 (600), 4 (250) and 5 (unpriced, 0) are still in inventory.
	require.InDelta(t, 850, report.TotalValue, 0.001)

	// Item 2 is 60 days old, item 4 is 305; item 5 has no acquisition
	// date and is excluded from age statistics.
	require.InDelta(t, 182.5, report.AverageAgeDays, 0.01)
}

func TestInventoryAgingBuckets(t *testing.T) {
	report := ComputeInventoryHealth(boutiqueSnapshot(), day("2024-04-01"))

	counts := make(map[string]int)
	for _, bucket := range report.Aging {
		counts[bucket.Bucket] = bucket.Count
	}
	require.Equal(t, 0, counts["<30"])
	require.Equal(t, 1, counts["30-90"])
	require.Equal(t, 0, counts["91-180"])
	require.Equal(t, 1, counts[">180"])
}

func TestInventoryCategoryBreakdown(t *testing.T) {
	report := ComputeInventoryHealth(boutiqueSnapshot(), day("2024-04-01"))

	require.Len(t, report.Categories, 3)
	require.Equal(t, "Watches", report.Categories[0].Label)
	require.InDelta(t, 600, report.Categories[0].Value, 0.001)
	require.InDelta(t, 60, report.Categories[0].AverageAgeDays, 0.01)

	require.Equal(t, "Bags", report.Categories[1].Label)
	require.Equal(t, "Unknown Category", report.Categories[2].Label)
}

func TestInventoryAgingBoundaries(t *testing.T) {
	now := day("2024-07-01")
	snap := Snapshot{Items: []ledger.Item{
		{ID: 1, Status: ledger.StatusInStore, AcquisitionDate: now.AddDate(0, 0, -29)},
		{ID: 2, Status: ledger.StatusInStore, AcquisitionDate: now.AddDate(0, 0, -30)},
		{ID: 3, Status: ledger.StatusInStore, AcquisitionDate: now.AddDate(0, 0, -90)},
		{ID: 4, Status: ledger.StatusInStore, AcquisitionDate: now.AddDate(0, 0, -91)},
		{ID: 5, Status: ledger.StatusInStore, AcquisitionDate: now.AddDate(0, 0, -180)},
		{ID: 6, Status: ledger.StatusInStore, AcquisitionDate: now.AddDate(0, 0, -181)},
	}}
	report := ComputeInventoryHealth(snap, now)

	counts := make(map[string]int)
	for _, bucket := range report.Aging {
		counts[bucket.Bucket] = bucket.Count
	}
	require.Equal(t, 1, counts["<30"])
	require.Equal(t, 2, counts["30-90"])
	require.Equal(t, 2, counts["91-180"])
	require.Equal(t, 1, counts[">180"])
}
