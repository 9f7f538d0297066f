package events

import (
	"time"

	"github.com/spec-kit/storefront-admin/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAdminInvited       EventType = "admin_invited"
	EventAdminActivated     EventType = "admin_activated"
	EventAdminStatusChanged EventType = "admin_status_changed"
	EventSuperadminRepaired EventType = "superadmin_status_repaired"
	EventAdminLoggedIn      EventType = "admin_logged_in"
)

// Actor identifies who triggered an event. ActorID is nil for anonymous
// flows such as activation.
type Actor struct {
	ActorID *int64 `json:"actor_id,omitempty"`
	Email   string `json:"email,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	AdminID   int64       `json:"admin_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// AdminInvitedPayload payload.
type AdminInvitedPayload struct {
	Email       string             `json:"email"`
	AccessLevel domain.AccessLevel `json:"access_level"`
	ExpiresAt   time.Time          `json:"expires_at"`
}

// AdminStatusChangedPayload payload.
type AdminStatusChangedPayload struct {
	OldStatus domain.AdminStatus `json:"old_status"`
	NewStatus domain.AdminStatus `json:"new_status"`
}

// SuperadminRepairedPayload records the stale status the verifier corrected.
type SuperadminRepairedPayload struct {
	PreviousStatus domain.AdminStatus `json:"previous_status"`
}
