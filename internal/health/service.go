package health

import (
	"context"
	"time"

	"github.com/maison-erp/maison-erp/internal/analytics"
)

// Service computes the health score from the current ledger state.
type Service struct {
	reader analytics.SnapshotReader
	now    func() time.Time
}

// NewService constructs a Service instance.
func NewService(reader analytics.SnapshotReader) *Service {
	return &Service{
		reader: reader,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Score reads the full ledger and derives the composite health score.
func (s *Service) Score(ctx context.Context) (Score, error) {
	snap, err := s.reader.Snapshot(ctx, analytics.Filter{})
	if err != nil {
		return Score{}, err
	}
	return Compute(snap, s.now()), nil
}
