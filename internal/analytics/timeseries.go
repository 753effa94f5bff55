package analytics

import (
	"fmt"
	"time"
)

// Granularity selects the calendar truncation of the payment timestamp.
type Granularity string

const (
	// GranularityDay buckets by calendar day.
	GranularityDay Granularity = "day"
	// GranularityWeek buckets by ISO week starting Monday.
	GranularityWeek Granularity = "week"
	// GranularityMonth buckets by calendar month.
	GranularityMonth Granularity = "month"
)

// Metric selects the series value of a time-series point.
type Metric string

const (
	// MetricRevenue sums payment amounts per bucket.
	MetricRevenue Metric = "revenue"
	// MetricProfit subtracts cost and expenses of items paid per bucket.
	MetricProfit Metric = "profit"
	// MetricItemsSold counts distinct paid items per bucket.
	MetricItemsSold Metric = "items_sold"
	// MetricPayments counts payments per bucket.
	MetricPayments Metric = "payments"
)

// TimeSeriesPoint is one bucket of a series. Empty buckets inside the
// range are present with a zero value.
type TimeSeriesPoint struct {
	Period string  `json:"period"`
	Value  float64 `json:"value"`
}

// ComputeTimeSeries buckets the selected metric over the filter range.
// An item paid in several buckets is charged its cost in each bucket it
// appears in; the profit series is an accepted approximation, not an
// amortisation.
func ComputeTimeSeries(snap Snapshot, f Filter, metric Metric, granularity Granularity) ([]TimeSeriesPoint, error) {
	switch metric {
	case MetricRevenue, MetricProfit, MetricItemsSold, MetricPayments:
	default:
		return nil, fmt.Errorf("%w: unknown metric %q", ErrInvalidFilter, metric)
	}
	switch granularity {
	case GranularityDay, GranularityWeek, GranularityMonth:
	default:
		return nil, fmt.Errorf("%w: unknown granularity %q", ErrInvalidFilter, granularity)
	}

	type bucket struct {
		revenue  float64
		payments int
		items    map[int64]bool
		expenses float64
	}
	buckets := make(map[string]*bucket)
	get := func(key string) *bucket {
		b, ok := buckets[key]
		if !ok {
			b = &bucket{items: make(map[int64]bool)}
			buckets[key] = b
		}
		return b
	}

	for _, payment := range snap.Payments {
		if !f.MatchPayment(payment) {
			continue
		}
		b := get(bucketLabel(payment.PaidAt, granularity))
		b.revenue += payment.Amount
		b.payments++
		b.items[payment.ItemID] = true
	}

	// Expenses are charged to the bucket they were incurred in, but only
	// when their item generated revenue in that same bucket.
	for _, expense := range snap.Expenses {
		if expense.ItemID == 0 || !f.InRange(expense.IncurredAt) {
			continue
		}
		key := bucketLabel(expense.IncurredAt, granularity)
		if b, ok := buckets[key]; ok && b.items[expense.ItemID] {
			b.expenses += expense.Amount
		}
	}

	items := snap.ItemByID()
	labels := enumerateBuckets(f, snap, granularity)
	points := make([]TimeSeriesPoint, 0, len(labels))
	for _, label := range labels {
		point := TimeSeriesPoint{Period: label}
		if b, ok := buckets[label]; ok {
			switch metric {
			case MetricRevenue:
				point.Value = round2(b.revenue)
			case MetricPayments:
				point.Value = float64(b.payments)
			case MetricItemsSold:
				point.Value = float64(len(b.items))
			case MetricProfit:
				var cost float64
				for itemID := range b.items {
					if item, ok := items[itemID]; ok {
						cost += item.Cost.PreferMax()
					}
				}
				point.Value = round2(b.revenue - cost - b.expenses)
			}
		}
		points = append(points, point)
	}
	return points, nil
}

// enumerateBuckets yields every bucket label of the range in order,
// including empty ones. Open bounds fall back to the span of the matched
// payments.
func enumerateBuckets(f Filter, snap Snapshot, granularity Granularity) []string {
	from, to := f.From, f.To
	if from.IsZero() || to.IsZero() {
		var first, last time.Time
		for _, payment := range snap.Payments {
			if !f.MatchPayment(payment) {
				continue
			}
			if first.IsZero() || payment.PaidAt.Before(first) {
				first = payment.PaidAt
			}
			if last.IsZero() || payment.PaidAt.After(last) {
				last = payment.PaidAt
			}
		}
		if first.IsZero() {
			return nil
		}
		if from.IsZero() {
			from = first
		}
		if to.IsZero() {
			to = last
		}
	}

	var labels []string
	current := truncate(from, granularity)
	end := truncate(to, granularity)
	for !current.After(end) {
		labels = append(labels, formatBucket(current, granularity))
		current = step(current, granularity)
	}
	return labels
}

func truncate(t time.Time, granularity Granularity) time.Time {
	t = t.UTC()
	switch granularity {
	case GranularityWeek:
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		offset := (int(day.Weekday()) + 6) % 7 // Monday start
		return day.AddDate(0, 0, -offset)
	case GranularityMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
}

func step(t time.Time, granularity Granularity) time.Time {
	switch granularity {
	case GranularityWeek:
		return t.AddDate(0, 0, 7)
	case GranularityMonth:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

func bucketLabel(t time.Time, granularity Granularity) string {
	return formatBucket(truncate(t, granularity), granularity)
}

func formatBucket(t time.Time, granularity Granularity) string {
	if granularity == GranularityMonth {
		return t.Format("2006-01")
	}
	return t.Format("2006-01-02")
}
