package analytics

import (
	"context"
	"encoding/json"
	"strconv"
	"time"
)

// Service coordinates report computation with the snapshot read and the
// cache layer. Every report is a pure transform of one ledger snapshot;
// the cache only ever stores results keyed by the current ledger version.
type Service struct {
	reader SnapshotReader
	cache  *Cache
	now    func() time.Time
}

// NewService wires a SnapshotReader with a Cache helper. cache may be nil
// to compute through.
func NewService(reader SnapshotReader, cache *Cache) *Service {
	return &Service{
		reader: reader,
		cache:  cache,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// KPI computes the KPI report for a range and filter set.
func (s *Service) KPI(ctx context.Context, f Filter) (KPIReport, error) {
	if err := f.Validate(); err != nil {
		return KPIReport{}, err
	}
	var report KPIReport
	err := s.cached(ctx, keyReport("kpi", f), &report, func(ctx context.Context) (interface{}, error) {
		snap, err := s.reader.Snapshot(ctx, f)
		if err != nil {
			return nil, err
		}
		return ComputeKPI(snap, f), nil
	})
	return report, err
}

// TimeSeries buckets the selected metric by calendar period.
func (s *Service) TimeSeries(ctx context.Context, metric Metric, granularity Granularity, f Filter) ([]TimeSeriesPoint, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	var points []TimeSeriesPoint
	key := keyReport("timeseries", f, string(metric), string(granularity))
	err := s.cached(ctx, key, &points, func(ctx context.Context) (interface{}, error) {
		snap, err := s.reader.Snapshot(ctx, f)
		if err != nil {
			return nil, err
		}
		return ComputeTimeSeries(snap, f, metric, granularity)
	})
	return points, err
}

// Groups aggregates the requested metrics per dimension group.
func (s *Service) Groups(ctx context.Context, groupBy GroupBy, metrics []GroupMetric, f Filter) ([]GroupRow, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	extra := []string{string(groupBy)}
	for _, metric := range metrics {
		extra = append(extra, string(metric))
	}
	var rows []GroupRow
	err := s.cached(ctx, keyReport("groups", f, extra...), &rows, func(ctx context.Context) (interface{}, error) {
		snap, err := s.reader.Snapshot(ctx, f)
		if err != nil {
			return nil, err
		}
		return ComputeGroups(snap, f, groupBy, metrics)
	})
	return rows, err
}

// ItemProfitability ranks items by revenue with limit/offset pagination.
func (s *Service) ItemProfitability(ctx context.Context, f Filter, limit, offset int) (ItemProfitabilityPage, error) {
	if err := f.Validate(); err != nil {
		return ItemProfitabilityPage{}, err
	}
	key := keyReport("profitability", f, strconv.Itoa(limit), strconv.Itoa(offset))
	var page ItemProfitabilityPage
	err := s.cached(ctx, key, &page, func(ctx context.Context) (interface{}, error) {
		snap, err := s.reader.Snapshot(ctx, f)
		if err != nil {
			return nil, err
		}
		return ComputeItemProfitability(snap, f, limit, offset), nil
	})
	return page, err
}

// InventoryHealth reports the current inventory state; the filter's date
// range is ignored by design.
func (s *Service) InventoryHealth(ctx context.Context, f Filter) (InventoryHealthReport, error) {
	if err := f.Validate(); err != nil {
		return InventoryHealthReport{}, err
	}
	day := s.now().Format("2006-01-02")
	var report InventoryHealthReport
	err := s.cached(ctx, keyReport("inventory", f, day), &report, func(ctx context.Context) (interface{}, error) {
		snap, err := s.reader.Snapshot(ctx, f)
		if err != nil {
			return nil, err
		}
		return ComputeInventoryHealth(snap, s.now()), nil
	})
	return report, err
}

// PaymentMethods breaks collections down per payment method.
func (s *Service) PaymentMethods(ctx context.Context, f Filter) ([]MethodBreakdown, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	var rows []MethodBreakdown
	err := s.cached(ctx, keyReport("methods", f), &rows, func(ctx context.Context) (interface{}, error) {
		snap, err := s.reader.Snapshot(ctx, f)
		if err != nil {
			return nil, err
		}
		return ComputePaymentMethods(snap, f), nil
	})
	return rows, err
}

// Cache exposes the cache helper for write paths that bump the version.
func (s *Service) Cache() *Cache {
	return s.cache
}

func (s *Service) cached(ctx context.Context, keyParts []string, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	if s.cache == nil {
		value, err := loader(ctx)
		if err != nil {
			return err
		}
		return copyJSON(value, dest)
	}
	key, err := s.cache.BuildKey(ctx, keyParts...)
	if err != nil {
		return err
	}
	return s.cache.FetchJSON(ctx, key, dest, loader)
}

func copyJSON(value, dest interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}
