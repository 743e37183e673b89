package mediator

import (
	"context"
	"fmt"

	"blpgate/internal/audit"
	"blpgate/internal/domain"
	id "blpgate/pkg/domain"
	dErrors "blpgate/pkg/domain-errors"
)

// ListAccessible returns the objects whose existence the subject may observe:
// everything at or below its clearance, ordered by level descending then name
// ascending. An unknown subject gets an empty sequence, not an error.
func (s *Service) ListAccessible(ctx context.Context, subjectID id.UserID) ([]domain.Summary, error) {
	ctx, span := s.startSpan(ctx, "mediator.ListAccessible", "list")
	defer span.End()

	event := audit.Event{Type: audit.EventObjectList, SubjectID: subjectID}

	subject, err := s.users.FindByID(ctx, subjectID)
	if err != nil {
		event.Details = "User not found"
		event.Success = false
		s.emit(ctx, event)
		s.observe(span, "list", OutcomeDeniedNotFound)
		return []domain.Summary{}, nil
	}

	summaries, err := s.objects.ListByMaxLevel(ctx, subject.SecurityLevel)
	if err != nil {
		event.Details = fmt.Sprintf("Database error: %v", err)
		event.Success = false
		s.emit(ctx, event)
		s.observe(span, "list", OutcomeFailedStorage)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list objects")
	}

	event.Details = fmt.Sprintf("Listed %d accessible objects", len(summaries))
	event.Success = true
	s.emit(ctx, event)
	s.observe(span, "list", OutcomeGranted)
	return summaries, nil
}
