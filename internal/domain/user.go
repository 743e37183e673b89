// Package domain holds the entity records shared across services. Records are
// constructed through validating constructors so level invariants hold from
// creation onward.
package domain

import (
	"strings"
	"time"

	id "blpgate/pkg/domain"
	dErrors "blpgate/pkg/domain-errors"
)

// User is a subject: an authenticated principal with a clearance.
//
// Invariants: SecurityLevel is always a defined level. ID and IsSuperAdmin are
// immutable after creation; SecurityLevel changes only through a super-admin
// action.
type User struct {
	ID            id.UserID
	Username      string
	PasswordHash  string
	SecurityLevel id.SecurityLevel
	IsSuperAdmin  bool
	IsActive      bool
	CreatedAt     time.Time
}

// NewUser validates and constructs a user record.
func NewUser(userID id.UserID, username, passwordHash string, level id.SecurityLevel, superAdmin bool, createdAt time.Time) (*User, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "user ID is required")
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "username is required")
	}
	if passwordHash == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "password hash is required")
	}
	if !level.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "invalid security level: %d", level.Int())
	}
	return &User{
		ID:            userID,
		Username:      username,
		PasswordHash:  passwordHash,
		SecurityLevel: level,
		IsSuperAdmin:  superAdmin,
		IsActive:      true,
		CreatedAt:     createdAt,
	}, nil
}
