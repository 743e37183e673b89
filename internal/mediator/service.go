// Package mediator executes one access-control transaction per call: load
// subject and object state, consult the policy rules, apply the storage
// mutation when permitted, and emit exactly one audit record describing the
// verdict - on every return path, before the caller observes the result.
package mediator

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"blpgate/internal/audit"
	"blpgate/internal/metrics"
	"blpgate/internal/storage"
	dErrors "blpgate/pkg/domain-errors"
)

// Service mediates access to classified objects. It holds no cross-request
// state; every request is an independent, short-lived unit of work, so
// concurrent callers need no locking here.
type Service struct {
	users   storage.UserStore
	objects storage.ObjectStore
	auditor *audit.Publisher
	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(users storage.UserStore, objects storage.ObjectStore, auditor *audit.Publisher, opts ...Option) (*Service, error) {
	if users == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "user store is required")
	}
	if objects == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "object store is required")
	}
	if auditor == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "audit publisher is required")
	}
	svc := &Service{
		users:   users,
		objects: objects,
		auditor: auditor,
		logger:  slog.Default(),
		tracer:  otel.Tracer("blpgate/mediator"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// emit writes the single audit record for the current request. An audit
// append failure is counted and logged by the publisher but never alters the
// access outcome in either direction.
func (s *Service) emit(ctx context.Context, event audit.Event) {
	if err := s.auditor.Emit(ctx, event); err != nil {
		if s.metrics != nil {
			s.metrics.IncrementAuditAppendFailures()
		}
	}
}

func (s *Service) observe(span trace.Span, action string, outcome Outcome) {
	span.SetAttributes(attribute.String("blpgate.outcome", string(outcome)))
	if s.metrics != nil {
		s.metrics.ObserveDecision(action, string(outcome))
	}
}

func (s *Service) startSpan(ctx context.Context, name, action string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(attribute.String("blpgate.action", action)))
}
