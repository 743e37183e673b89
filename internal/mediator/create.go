package mediator

import (
	"context"
	"fmt"

	"blpgate/internal/audit"
	"blpgate/internal/domain"
	"blpgate/internal/policy"
	id "blpgate/pkg/domain"
	dErrors "blpgate/pkg/domain-errors"
	"blpgate/pkg/requestcontext"
)

// RequestCreate mediates object creation. A subject may create objects at or
// below its own clearance; only a super-admin may create above it. Returns
// the new object's ID on grant.
func (s *Service) RequestCreate(ctx context.Context, subjectID id.UserID, name, content string, level id.SecurityLevel) (id.ObjectID, error) {
	ctx, span := s.startSpan(ctx, "mediator.RequestCreate", string(policy.ActionCreate))
	defer span.End()

	event := audit.Event{Type: audit.EventObjectCreate, SubjectID: subjectID}

	subject, err := s.users.FindByID(ctx, subjectID)
	if err != nil {
		event.Details = "User not found"
		event.Success = false
		s.emit(ctx, event)
		s.observe(span, string(policy.ActionCreate), OutcomeDeniedNotFound)
		return id.ObjectID{}, dErrors.New(dErrors.CodeNotFound, "user not found")
	}

	if !policy.ValidateLevel(level) {
		event.Details = fmt.Sprintf("Invalid security level: %d", level.Int())
		event.Success = false
		s.emit(ctx, event)
		s.observe(span, string(policy.ActionCreate), OutcomeDeniedInvalidInput)
		return id.ObjectID{}, dErrors.Newf(dErrors.CodeInvalidInput, "invalid security level: %d", level.Int())
	}

	if !subject.IsSuperAdmin && level > subject.SecurityLevel {
		detail := fmt.Sprintf("Cannot create object at level %d (user level: %d)",
			level.Int(), subject.SecurityLevel.Int())
		event.Details = detail
		event.Success = false
		s.emit(ctx, event)
		s.observe(span, string(policy.ActionCreate), OutcomeDeniedPolicy)
		return id.ObjectID{}, dErrors.New(dErrors.CodeForbidden, detail)
	}

	object, err := domain.NewObject(id.NewObjectID(), name, content, level, subjectID, requestcontext.Now(ctx))
	if err != nil {
		event.Details = fmt.Sprintf("Invalid object: %v", err)
		event.Success = false
		s.emit(ctx, event)
		s.observe(span, string(policy.ActionCreate), OutcomeDeniedInvalidInput)
		return id.ObjectID{}, err
	}

	if err := s.objects.Insert(ctx, object); err != nil {
		event.Details = fmt.Sprintf("Database error: %v", err)
		event.Success = false
		s.emit(ctx, event)
		s.observe(span, string(policy.ActionCreate), OutcomeFailedStorage)
		return id.ObjectID{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to insert object")
	}

	event.ObjectID = object.ID
	event.Details = fmt.Sprintf("Object created with level: %d", level.Int())
	event.Success = true
	s.emit(ctx, event)
	s.observe(span, string(policy.ActionCreate), OutcomeGranted)
	return object.ID, nil
}
