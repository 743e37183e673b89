package domain

import (
	"strings"
	"time"

	id "blpgate/pkg/domain"
	dErrors "blpgate/pkg/domain-errors"
)

// Object is a classified resource. Classification is set at creation and
// never changed in place; reclassification is delete-and-recreate.
//
// Invariants: SecurityLevel is always a defined level. OwnerID referenced a
// valid user at creation time; owners deleted later are not reconciled.
type Object struct {
	ID            id.ObjectID
	Name          string
	Content       string
	SecurityLevel id.SecurityLevel
	OwnerID       id.UserID
	CreatedAt     time.Time
}

// NewObject validates and constructs an object record.
func NewObject(objectID id.ObjectID, name, content string, level id.SecurityLevel, ownerID id.UserID, createdAt time.Time) (*Object, error) {
	if objectID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "object ID is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "object name is required")
	}
	if !level.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "invalid security level: %d", level.Int())
	}
	if ownerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "owner ID is required")
	}
	return &Object{
		ID:            objectID,
		Name:          name,
		Content:       content,
		SecurityLevel: level,
		OwnerID:       ownerID,
		CreatedAt:     createdAt,
	}, nil
}

// Summary is the metadata view of an object used in listings: no content.
type Summary struct {
	ID            id.ObjectID
	Name          string
	SecurityLevel id.SecurityLevel
	OwnerID       id.UserID
	CreatedAt     time.Time
}

// Summary returns the listing view of the object.
func (o *Object) Summary() Summary {
	return Summary{
		ID:            o.ID,
		Name:          o.Name,
		SecurityLevel: o.SecurityLevel,
		OwnerID:       o.OwnerID,
		CreatedAt:     o.CreatedAt,
	}
}
