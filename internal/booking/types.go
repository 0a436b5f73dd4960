package booking

import "time"

// ZonedTime pairs an absolute instant with the time zone label declared by
// the source system. The instant is always normalized (UTC internally); the
// label is preserved so calendar-day arithmetic can honour the zone the
// remote system recorded.
type ZonedTime struct {
	Time time.Time `json:"time"`
	Zone string    `json:"zone,omitempty"`
}

// Location resolves the declared zone label, falling back to UTC when the
// label is empty or unknown.
func (z ZonedTime) Location() *time.Location {
	if z.Zone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(z.Zone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// QuestionAnswer is one custom-question response captured at booking time.
// Order matters: answers are rendered in the order the booking system
// collected them.
type QuestionAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// LocationReference is the booking system's free-form pointer at a room.
// The two systems share no key, so these hints are all the matcher has:
// a display name, and optionally an address or URI that may line up with
// a room's stable id.
type LocationReference struct {
	DisplayName string `json:"display_name"`
	AddressHint string `json:"address_hint,omitempty"`
	URIHint     string `json:"uri_hint,omitempty"`
}

// IsZero reports whether the reference carries no usable information.
func (l LocationReference) IsZero() bool {
	return l.DisplayName == "" && l.AddressHint == "" && l.URIHint == ""
}

// Record is a single reservation pulled from the remote booking system.
//
// Records are written exclusively by the sync orchestrator (or the push-sync
// API) into the month-partitioned store and are read-only everywhere else.
// Invariant: Start.Time < End.Time.
type Record struct {
	ID            string            `json:"id"`
	ServiceID     string            `json:"service_id,omitempty"`
	ServiceName   string            `json:"service_name,omitempty"`
	CustomerName  string            `json:"customer_name"`
	CustomerEmail string            `json:"customer_email,omitempty"`
	CustomerPhone string            `json:"customer_phone,omitempty"`
	CustomerNotes string            `json:"customer_notes,omitempty"`
	ServiceNotes  string            `json:"service_notes,omitempty"`
	Start         ZonedTime         `json:"start"`
	End           ZonedTime         `json:"end"`
	Location      LocationReference `json:"location"`
	Answers       []QuestionAnswer  `json:"answers,omitempty"`
}

// MonthMeta is the sync bookkeeping row for one month bucket.
//
// Presence of a MonthMeta row is what distinguishes "never synced" from
// "synced, zero bookings"; the record count alone cannot.
type MonthMeta struct {
	BucketKey    string    `json:"bucket_key"`
	LastSyncedAt time.Time `json:"last_synced_at"`
	RecordCount  int       `json:"record_count"`
}
