package analytics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTimeSeriesRevenueMatchesKPITotal(t *testing.T) {
	snap := boutiqueSnapshot()
	f := fullFilter()
	kpi := ComputeKPI(snap, f)

	for _, granularity := range []Granularity{GranularityDay, GranularityWeek, GranularityMonth} {
		points, err := ComputeTimeSeries(snap, f, MetricRevenue, granularity)
		require.NoError(t, err)
		var total float64
		for _, point := range points {
			total += point.Value
		}
		require.InDelta(t, kpi.Revenue, total, 0.001, "granularity %s", granularity)
	}
}

func TestTimeSeriesMonthlyBuckets(t *testing.T) {
	points, err := ComputeTimeSeries(boutiqueSnapshot(), fullFilter(), MetricRevenue, GranularityMonth)
	require.NoError(t, err)
	require.Len(t, points, 2)
	require.Equal(t, "2024-02", points[0].Period)
	require.InDelta(t, 700, points[0].Value, 0.001)
	require.Equal(t, "2024-03", points[1].Period)
	require.InDelta(t, 1300, points[1].Value, 0.001)
}

func TestTimeSeriesIncludesEmptyBuckets(t *testing.T) {
	f := Filter{From: day("2024-03-01"), To: day("2024-03-07")}
	points, err := ComputeTimeSeries(boutiqueSnapshot(), f, MetricRevenue, GranularityDay)
	require.NoError(t, err)
	require.Len(t, points, 7)
	require.Equal(t, "2024-03-01", points[0].Period)
	require.Zero(t, points[0].Value)
	require.InDelta(t, 600, points[4].Value, 0.001) // 2024-03-05
}

func TestTimeSeriesProfitChargesCostPerBucket(t *testing.T) {
	snap := boutiqueSnapshot()
	points, err := ComputeTimeSeries(snap, fullFilter(), MetricProfit, GranularityMonth)
	require.NoError(t, err)

	// February: 700 revenue - 300 cost (item 3) - 0 expenses.
	require.InDelta(t, 400, points[0].Value, 0.001)
	// March: 1300 revenue - 700 cost (items 1, 2) - 50 cleaning on item 1.
	require.InDelta(t, 550, points[1].Value, 0.001)
}

func TestTimeSeriesWeekTruncationIsMonday(t *testing.T) {
	// 2024-03-05 is a Tuesday; its week starts 2024-03-04.
	f := Filter{From: day("2024-03-05"), To: day("2024-03-05")}
	points, err := ComputeTimeSeries(boutiqueSnapshot(), f, MetricPayments, GranularityWeek)
	require.NoError(t, err)
	require.Len(t, points, 1)
	require.Equal(t, "2024-03-04", points[0].Period)
	require.Equal(t, 1.0, points[0].Value)
}

func TestTimeSeriesRejectsUnknownInputs(t *testing.T) {
	_, err := ComputeTimeSeries(boutiqueSnapshot(), fullFilter(), "velocity", GranularityDay)
	require.ErrorIs(t, err, ErrInvalidFilter)
	_, err = ComputeTimeSeries(boutiqueSnapshot(), fullFilter(), MetricRevenue, "quarter")
	require.ErrorIs(t, err, ErrInvalidFilter)
}
