// Package audit defines the append-only audit trail: the event model, the
// publisher services emit through, and the reporting side that reads it back.
package audit

import (
	"time"

	id "blpgate/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose. This
// enables different retention policies and routing downstream.
type EventCategory string

const (
	// CategorySecurity covers access decisions and authentication events.
	// These feed security monitoring and forensics.
	CategorySecurity EventCategory = "security"

	// CategoryAdmin covers administrative actions on principals.
	CategoryAdmin EventCategory = "admin"

	// CategoryOperations covers routine activity useful for debugging.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
//
// SubjectID and ObjectID may be nil-valued: a failed lookup is still audited
// even though the identity never resolved.
type Event struct {
	ID        id.AuditEventID
	Type      EventType
	SubjectID id.UserID
	ObjectID  id.ObjectID
	Timestamp time.Time
	Details   string
	Success   bool
	// RequestID correlates the event with the request that produced it.
	RequestID string
}

// EventType names a mediated or administrative action.
type EventType string

const (
	// Access mediation events
	EventReadAccess   EventType = "read_access"
	EventWriteAccess  EventType = "write_access"
	EventObjectCreate EventType = "create_object"
	EventObjectDelete EventType = "delete_object"
	EventObjectList   EventType = "list_objects"

	// Authentication events
	EventUserRegister EventType = "user_register"
	EventUserLogin    EventType = "user_login"
	EventUserLogout   EventType = "user_logout"
	EventAuthLockout  EventType = "auth_lockout"

	// User administration events
	EventListUsers       EventType = "list_users"
	EventChangeUserLevel EventType = "change_user_level"
	EventActivateUser    EventType = "activate_user"
	EventDeactivateUser  EventType = "deactivate_user"
	EventViewUserInfo    EventType = "view_user_info"
	EventViewStatistics  EventType = "view_statistics"
)

// eventCategories maps each event type to its category.
var eventCategories = map[EventType]EventCategory{
	EventReadAccess:   CategorySecurity,
	EventWriteAccess:  CategorySecurity,
	EventObjectCreate: CategorySecurity,
	EventObjectDelete: CategorySecurity,
	EventUserLogin:    CategorySecurity,
	EventAuthLockout:  CategorySecurity,

	EventUserRegister:    CategoryAdmin,
	EventChangeUserLevel: CategoryAdmin,
	EventActivateUser:    CategoryAdmin,
	EventDeactivateUser:  CategoryAdmin,

	EventUserLogout:     CategoryOperations,
	EventObjectList:     CategoryOperations,
	EventListUsers:      CategoryOperations,
	EventViewUserInfo:   CategoryOperations,
	EventViewStatistics: CategoryOperations,
}

// Category returns the EventCategory for this event type. Unknown types
// default to CategoryOperations.
func (t EventType) Category() EventCategory {
	if cat, ok := eventCategories[t]; ok {
		return cat
	}
	return CategoryOperations
}
