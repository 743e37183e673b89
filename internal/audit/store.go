package audit

import (
	"context"

	id "blpgate/pkg/domain"
)

// Query filters the reporting side of the audit trail. Zero values mean
// "no filter"; Success is a pointer so false can be filtered explicitly.
type Query struct {
	Type      EventType
	Success   *bool
	SubjectID id.UserID
	Limit     int
}

// Statistics aggregates the trail for security analysis.
type Statistics struct {
	TotalEvents   int
	SuccessEvents int
	FailedEvents  int
	ByType        map[EventType]int
}

// Store is the append-only persistence contract. Append must be durable
// before it returns; events are never mutated or deleted.
type Store interface {
	Append(ctx context.Context, event Event) error
	List(ctx context.Context, q Query) ([]Event, error)
	Statistics(ctx context.Context) (Statistics, error)
}
