package analytics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGroupRevenueSumsToKPIRevenue(t *testing.T) {
	snap := boutiqueSnapshot()
	f := fullFilter()
	kpi := ComputeKPI(snap, f)

	for _, groupBy := range []GroupBy{GroupByBrand, GroupByVendor, GroupByClient, GroupByCategory} {
		rows, err := ComputeGroups(snap, f, groupBy, []GroupMetric{GroupMetricRevenue})
		require.NoError(t, err)
		var total float64
		for _, row := range rows {
			total += row.Revenue
		}
		require.InDelta(t, kpi.Revenue, total, 0.001, "group by %s", groupBy)
	}
}

func TestGroupsByVendor(t *testing.T) {
	rows, err := ComputeGroups(boutiqueSnapshot(), marchFilter(), GroupByVendor, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Aurelie", rows[0].Label)
	require.InDelta(t, 1300, rows[0].Revenue, 0.001)
	require.Equal(t, 2, rows[0].ItemsSold)
	// Cost-once rule: 1300 - (500 + 200).
	require.InDelta(t, 600, rows[0].Profit, 0.001)
	require.InDelta(t, 433.33, rows[0].AvgOrderValue, 0.01)
}

func TestGroupsUnknownDimensionLabel(t *testing.T) {
	// Item 3 has no brand; its February payment lands in the unknown group.
	rows, err := ComputeGroups(boutiqueSnapshot(), fullFilter(), GroupByBrand, []GroupMetric{GroupMetricRevenue})
	require.NoError(t, err)
	labels := make(map[string]float64)
	for _, row := range rows {
		labels[row.Label] = row.Revenue
	}
	require.InDelta(t, 700, labels["Unknown Brand"], 0.001)
	require.InDelta(t, 1000, labels["Lanvin"], 0.001)
	require.InDelta(t, 300, labels["Rivoli"], 0.001)
}

func TestGroupsSortedByRevenueDescending(t *testing.T) {
	rows, err := ComputeGroups(boutiqueSnapshot(), fullFilter(), GroupByClient, []GroupMetric{GroupMetricRevenue})
	require.NoError(t, err)
	for i := 1; i < len(rows); i++ {
		require.GreaterOrEqual(t, rows[i-1].Revenue, rows[i].Revenue)
	}
}

func TestGroupsSortByCountWhenRevenueNotRequested(t *testing.T) {
	rows, err := ComputeGroups(boutiqueSnapshot(), fullFilter(), GroupByVendor, []GroupMetric{GroupMetricItemsSold})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "Aurelie", rows[0].Label)
	require.Equal(t, 2, rows[0].ItemsSold)
	require.Zero(t, rows[0].Revenue, "revenue was not requested")
}

func TestGroupsRejectsUnknownInputs(t *testing.T) {
	_, err := ComputeGroups(boutiqueSnapshot(), fullFilter(), "warehouse", nil)
	require.ErrorIs(t, err, ErrInvalidFilter)
	_, err = ComputeGroups(boutiqueSnapshot(), fullFilter(), GroupByBrand, []GroupMetric{"velocity"})
	require.ErrorIs(t, err, ErrInvalidFilter)
}
