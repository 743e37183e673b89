package mediator

import (
	"context"
	"fmt"

	"blpgate/internal/audit"
	"blpgate/internal/domain"
	"blpgate/internal/policy"
	id "blpgate/pkg/domain"
	dErrors "blpgate/pkg/domain-errors"
)

// RequestWrite mediates a content update under the *-Property. A storage
// fault during the mutation is audited as a storage error, not as a policy
// denial, so log consumers can tell "security worked" from "infrastructure
// broke".
func (s *Service) RequestWrite(ctx context.Context, subjectID id.UserID, objectID id.ObjectID, newContent string) error {
	ctx, span := s.startSpan(ctx, "mediator.RequestWrite", string(policy.ActionWrite))
	defer span.End()

	event := audit.Event{Type: audit.EventWriteAccess, SubjectID: subjectID, ObjectID: objectID}

	subject, err := s.users.FindByID(ctx, subjectID)
	var object *domain.Object
	if err == nil {
		object, err = s.objects.FindByID(ctx, objectID)
	}
	if err != nil {
		event.Details = "User or object not found"
		event.Success = false
		s.emit(ctx, event)
		s.observe(span, string(policy.ActionWrite), OutcomeDeniedNotFound)
		return dErrors.New(dErrors.CodeNotFound, "user or object not found")
	}

	detail := policy.DescribeDecision(subject.SecurityLevel, object.SecurityLevel, policy.ActionWrite)
	if !policy.CheckWriteAccess(subject.SecurityLevel, object.SecurityLevel) {
		event.Details = detail
		event.Success = false
		s.emit(ctx, event)
		s.observe(span, string(policy.ActionWrite), OutcomeDeniedPolicy)
		return dErrors.New(dErrors.CodeForbidden, detail)
	}

	if err := s.objects.UpdateContent(ctx, objectID, newContent); err != nil {
		event.Details = fmt.Sprintf("Database error: %v", err)
		event.Success = false
		s.emit(ctx, event)
		s.observe(span, string(policy.ActionWrite), OutcomeFailedStorage)
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update object content")
	}

	event.Details = detail
	event.Success = true
	s.emit(ctx, event)
	s.observe(span, string(policy.ActionWrite), OutcomeGranted)
	return nil
}
