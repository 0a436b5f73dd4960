package directory

import "time"

// Room represents a bookable resource known to the service.
//
// The ID is the stable address-like identifier the calendar of record uses
// for the resource (typically "name@domain"). It is the join point between
// the directory, the calendar fetcher, and the reconciliation engine.
type Room struct {
	ID             string    `json:"id" yaml:"id"`
	Name           string    `json:"name" yaml:"name"`
	ContactAddress string    `json:"contact_address,omitempty" yaml:"contact_address"`
	Capacity       int       `json:"capacity" yaml:"capacity"`
	ColorTag       string    `json:"color_tag,omitempty" yaml:"color_tag"`
	Hidden         bool      `json:"hidden" yaml:"hidden"`
	CreatedAt      time.Time `json:"created_at" yaml:"-"`
	UpdatedAt      time.Time `json:"updated_at" yaml:"-"`
}

// LocalPart returns the portion of the room ID before the first "@",
// or the whole ID when it carries no domain.
func (r Room) LocalPart() string {
	for i := 0; i < len(r.ID); i++ {
		if r.ID[i] == '@' {
			return r.ID[:i]
		}
	}
	return r.ID
}
