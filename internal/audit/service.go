package audit

import (
	"context"

	dErrors "blpgate/pkg/domain-errors"
)

// DefaultQueryLimit caps unbounded log views.
const DefaultQueryLimit = 50

// Service is the reporting side of the audit trail: filtered views and
// aggregate statistics for security analysis. It never writes.
type Service struct {
	store Store
}

func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "audit store is required")
	}
	return &Service{store: store}, nil
}

// List returns events newest first, applying the query's filters. A zero
// limit defaults to DefaultQueryLimit.
func (s *Service) List(ctx context.Context, q Query) ([]Event, error) {
	if q.Limit <= 0 {
		q.Limit = DefaultQueryLimit
	}
	events, err := s.store.List(ctx, q)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit events")
	}
	return events, nil
}

// Statistics returns totals, the success/failure split, and per-type counts.
func (s *Service) Statistics(ctx context.Context) (Statistics, error) {
	stats, err := s.store.Statistics(ctx)
	if err != nil {
		return Statistics{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to aggregate audit statistics")
	}
	return stats, nil
}
