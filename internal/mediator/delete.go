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

// RequestDelete mediates a hard delete. Permitted for a Top Secret
// super-admin, or for the owner whose current level still equals the
// object's level.
func (s *Service) RequestDelete(ctx context.Context, subjectID id.UserID, objectID id.ObjectID) error {
	ctx, span := s.startSpan(ctx, "mediator.RequestDelete", string(policy.ActionDelete))
	defer span.End()

	event := audit.Event{Type: audit.EventObjectDelete, SubjectID: subjectID, ObjectID: objectID}

	subject, err := s.users.FindByID(ctx, subjectID)
	var object *domain.Object
	if err == nil {
		object, err = s.objects.FindByID(ctx, objectID)
	}
	if err != nil {
		event.Details = "User or object not found"
		event.Success = false
		s.emit(ctx, event)
		s.observe(span, string(policy.ActionDelete), OutcomeDeniedNotFound)
		return dErrors.New(dErrors.CodeNotFound, "user or object not found")
	}

	isOwner := subjectID == object.OwnerID
	if !policy.CheckDeleteAccess(subject.SecurityLevel, object.SecurityLevel, isOwner, subject.IsSuperAdmin) {
		detail := fmt.Sprintf("Delete access denied - Owner: %t, Super Admin: %t", isOwner, subject.IsSuperAdmin)
		event.Details = detail
		event.Success = false
		s.emit(ctx, event)
		s.observe(span, string(policy.ActionDelete), OutcomeDeniedPolicy)
		return dErrors.New(dErrors.CodeForbidden, detail)
	}

	if err := s.objects.Delete(ctx, objectID); err != nil {
		event.Details = fmt.Sprintf("Database error: %v", err)
		event.Success = false
		s.emit(ctx, event)
		s.observe(span, string(policy.ActionDelete), OutcomeFailedStorage)
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete object")
	}

	event.Details = "Object deleted successfully"
	event.Success = true
	s.emit(ctx, event)
	s.observe(span, string(policy.ActionDelete), OutcomeGranted)
	return nil
}
