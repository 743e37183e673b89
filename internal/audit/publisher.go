package audit

import (
	"context"
	"log/slog"

	id "blpgate/pkg/domain"
	"blpgate/pkg/requestcontext"
)

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily.
type Publisher struct {
	store  Store
	logger *slog.Logger
}

type PublisherOption func(*Publisher)

func WithLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store Store, opts ...PublisherOption) *Publisher {
	p := &Publisher{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit stamps and appends one event. The append is synchronous: when Emit
// returns nil the record is durable. On store failure the event is written
// to the operational log so the decision trail is never silently lost, and
// the error is returned for the caller to count; callers must not let it
// change an access outcome.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.ID.IsNil() {
		event.ID = id.NewAuditEventID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if err := p.store.Append(ctx, event); err != nil {
		p.logger.Error("audit append failed, falling back to operational log",
			"error", err,
			"event_type", string(event.Type),
			"subject_id", event.SubjectID.String(),
			"object_id", event.ObjectID.String(),
			"details", event.Details,
			"success", event.Success,
		)
		return err
	}
	return nil
}
