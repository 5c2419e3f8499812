package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	EventSource  = "mentoring-service"
	EventVersion = "1.0"
)

// Event types
const (
	EventUserInvited  = "directory.user_invited"
	EventRoleAssigned = "directory.role_assigned"
	EventRoleRemoved  = "directory.role_removed"
)

// Event is the envelope of every published audit event
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

func NewEvent(eventType string, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    EventSource,
		Version:   EventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EventPublisher publishes audit events. Callers treat failures as
// non-fatal.
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

type UserInvitedEvent struct {
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	ExternalID   string `json:"external_id"`
	InvitationID string `json:"invitation_id"`
}

type RoleAssignedEvent struct {
	UserID       uint   `json:"user_id,omitempty"`
	ExternalID   string `json:"external_id"`
	RoleID       string `json:"role_id"`
	AssignmentID string `json:"assignment_id"`
}

type RoleRemovedEvent struct {
	AssignmentID string `json:"assignment_id"`
}
