package reconcile

import (
	"github.com/roomboard/roomboard-core/internal/booking"
)

// CalendarEvent is a live entry from the calendar of record. Events are
// fetched fresh per request and never persisted; ResourceID is assigned by
// the fetch step (the calendar API is queried per room), not by the remote
// system itself.
type CalendarEvent struct {
	ID                  string            `json:"id"`
	Subject             string            `json:"subject"`
	Start               booking.ZonedTime `json:"start"`
	End                 booking.ZonedTime `json:"end"`
	ResourceID          string            `json:"resource_id"`
	LocationDisplayName string            `json:"location_display_name,omitempty"`
	BodyPreview         string            `json:"body_preview,omitempty"`
}

// EnrichedEvent is a CalendarEvent carrying the customer data of its
// best-matching booking, when one was found. Recomputed on every
// reconciliation pass; never a source of truth.
type EnrichedEvent struct {
	CalendarEvent

	Matched      bool                     `json:"matched"`
	BookerName   string                   `json:"booker_name,omitempty"`
	BookerEmail  string                   `json:"booker_email,omitempty"`
	BookerPhone  string                   `json:"booker_phone,omitempty"`
	Answers      []booking.QuestionAnswer `json:"answers,omitempty"`
	ServiceNotes string                   `json:"service_notes,omitempty"`
}
