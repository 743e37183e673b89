package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"blpgate/internal/audit"
	id "blpgate/pkg/domain"
)

// AuditStore implements the audit store contract on SQLite. Events are
// append-only; nothing here mutates or deletes rows.
type AuditStore struct {
	db *sql.DB
}

func (s *AuditStore) Append(ctx context.Context, event audit.Event) error {
	query := `
		INSERT INTO audit_events (id, event_type, subject_id, object_id, timestamp, details, success, request_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		event.ID.String(),
		string(event.Type),
		nullableID(event.SubjectID.IsNil(), event.SubjectID.String()),
		nullableID(event.ObjectID.IsNil(), event.ObjectID.String()),
		event.Timestamp.UTC().Format(time.RFC3339Nano),
		event.Details,
		boolToInt(event.Success),
		event.RequestID,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (s *AuditStore) List(ctx context.Context, q audit.Query) ([]audit.Event, error) {
	query := `
		SELECT id, event_type, subject_id, object_id, timestamp, details, success, request_id
		FROM audit_events
		WHERE 1=1
	`
	var args []any
	if q.Type != "" {
		query += " AND event_type = ?"
		args = append(args, string(q.Type))
	}
	if q.Success != nil {
		query += " AND success = ?"
		args = append(args, boolToInt(*q.Success))
	}
	if !q.SubjectID.IsNil() {
		query += " AND subject_id = ?"
		args = append(args, q.SubjectID.String())
	}
	query += " ORDER BY timestamp DESC LIMIT ?"
	limit := q.Limit
	if limit <= 0 {
		limit = audit.DefaultQueryLimit
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var out []audit.Event
	for rows.Next() {
		event, serr := scanAuditEvent(rows)
		if serr != nil {
			return nil, serr
		}
		out = append(out, event)
	}
	return out, rows.Err()
}

func (s *AuditStore) Statistics(ctx context.Context) (audit.Statistics, error) {
	stats := audit.Statistics{ByType: make(map[audit.EventType]int)}

	query := `
		SELECT COUNT(*), COALESCE(SUM(success), 0)
		FROM audit_events
	`
	if err := s.db.QueryRowContext(ctx, query).Scan(&stats.TotalEvents, &stats.SuccessEvents); err != nil {
		return audit.Statistics{}, fmt.Errorf("aggregate audit events: %w", err)
	}
	stats.FailedEvents = stats.TotalEvents - stats.SuccessEvents

	rows, err := s.db.QueryContext(ctx, "SELECT event_type, COUNT(*) FROM audit_events GROUP BY event_type")
	if err != nil {
		return audit.Statistics{}, fmt.Errorf("aggregate audit events: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var eventType string
		var count int
		if err := rows.Scan(&eventType, &count); err != nil {
			return audit.Statistics{}, fmt.Errorf("aggregate audit events: %w", err)
		}
		stats.ByType[audit.EventType(eventType)] = count
	}
	return stats, rows.Err()
}

func scanAuditEvent(rows *sql.Rows) (audit.Event, error) {
	var (
		rawID, eventType, timestamp    string
		subjectID, objectID, requestID sql.NullString
		details                        string
		success                        int
	)
	if err := rows.Scan(&rawID, &eventType, &subjectID, &objectID, &timestamp, &details, &success, &requestID); err != nil {
		return audit.Event{}, fmt.Errorf("scan audit event: %w", err)
	}
	event := audit.Event{
		Type:    audit.EventType(eventType),
		Details: details,
		Success: success != 0,
	}
	if eid, err := id.ParseAuditEventID(rawID); err == nil {
		event.ID = eid
	}
	if ts, err := time.Parse(time.RFC3339Nano, timestamp); err == nil {
		event.Timestamp = ts
	}
	if subjectID.Valid {
		if sid, err := id.ParseUserID(subjectID.String); err == nil {
			event.SubjectID = sid
		}
	}
	if objectID.Valid {
		if oid, err := id.ParseObjectID(objectID.String); err == nil {
			event.ObjectID = oid
		}
	}
	if requestID.Valid {
		event.RequestID = requestID.String
	}
	return event, nil
}

func nullableID(isNil bool, s string) any {
	if isNil {
		return nil
	}
	return s
}
