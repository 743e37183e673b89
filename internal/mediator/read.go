package mediator

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"

	"blpgate/internal/audit"
	"blpgate/internal/policy"
	id "blpgate/pkg/domain"
	dErrors "blpgate/pkg/domain-errors"
)

// ReadResult carries the object payload returned on a granted read.
type ReadResult struct {
	Name    string
	Content string
}

// RequestRead mediates a read under the Simple Security Property. A subject
// that may not view the object's existence gets the same not-found shape as
// a genuinely missing object, so denial cannot be used as an existence probe.
func (s *Service) RequestRead(ctx context.Context, subjectID id.UserID, objectID id.ObjectID) (*ReadResult, error) {
	ctx, span := s.startSpan(ctx, "mediator.RequestRead", string(policy.ActionRead))
	defer span.End()

	event := audit.Event{Type: audit.EventReadAccess, SubjectID: subjectID, ObjectID: objectID}

	subject, err := s.users.FindByID(ctx, subjectID)
	if err != nil {
		return nil, s.readHidden(ctx, span, event, "User or object not found")
	}
	object, err := s.objects.FindByID(ctx, objectID)
	if err != nil {
		return nil, s.readHidden(ctx, span, event, "User or object not found")
	}

	if !policy.CanViewExistence(subject.SecurityLevel, object.SecurityLevel) {
		detail := fmt.Sprintf("Cannot view object existence - User level: %d, Object level: %d",
			subject.SecurityLevel.Int(), object.SecurityLevel.Int())
		return nil, s.readHidden(ctx, span, event, detail)
	}

	detail := policy.DescribeDecision(subject.SecurityLevel, object.SecurityLevel, policy.ActionRead)
	event.Details = detail
	if !policy.CheckReadAccess(subject.SecurityLevel, object.SecurityLevel) {
		event.Success = false
		s.emit(ctx, event)
		s.observe(span, string(policy.ActionRead), OutcomeDeniedPolicy)
		return nil, dErrors.New(dErrors.CodeForbidden, detail)
	}

	event.Success = true
	s.emit(ctx, event)
	s.observe(span, string(policy.ActionRead), OutcomeGranted)
	return &ReadResult{Name: object.Name, Content: object.Content}, nil
}

// readHidden audits a hidden or missing object and returns the uniform
// not-found error. The audit detail keeps the real reason; the caller must
// not be able to tell "does not exist" from "exists but invisible".
func (s *Service) readHidden(ctx context.Context, span trace.Span, event audit.Event, detail string) error {
	event.Details = detail
	event.Success = false
	s.emit(ctx, event)
	s.observe(span, string(policy.ActionRead), OutcomeDeniedNotFound)
	return dErrors.New(dErrors.CodeNotFound, "object not found")
}
