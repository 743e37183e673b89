package domain

import (
	"github.com/google/uuid"

	dErrors "blpgate/pkg/domain-errors"
)

// Typed IDs keep user, object, and audit identifiers from being mixed up at
// compile time. All are UUID-backed.
type (
	UserID       uuid.UUID
	ObjectID     uuid.UUID
	AuditEventID uuid.UUID
)

// NewUserID returns a fresh random user ID.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewObjectID returns a fresh random object ID.
func NewObjectID() ObjectID { return ObjectID(uuid.New()) }

// NewAuditEventID returns a fresh random audit event ID.
func NewAuditEventID() AuditEventID { return AuditEventID(uuid.New()) }

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "malformed id")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be nil")
	}
	return u, nil
}

// ParseUserID constructs a UserID from external input.
//
// Usage: call from boundary code when parsing requests. Errors carry
// CodeInvalidInput for empty, malformed, or nil values.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return UserID(uuid.Nil), err
	}
	return UserID(u), nil
}

// ParseObjectID constructs an ObjectID from external input.
func ParseObjectID(s string) (ObjectID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return ObjectID(uuid.Nil), err
	}
	return ObjectID(u), nil
}

// ParseAuditEventID constructs an AuditEventID from external input.
func ParseAuditEventID(s string) (AuditEventID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return AuditEventID(uuid.Nil), err
	}
	return AuditEventID(u), nil
}

func (id UserID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id ObjectID) String() string { return uuid.UUID(id).String() }

func (id ObjectID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id AuditEventID) String() string { return uuid.UUID(id).String() }

func (id AuditEventID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
