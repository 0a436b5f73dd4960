package reconcile

import (
	"strings"

	"github.com/roomboard/roomboard-core/internal/booking"
)

// locationPredicate is one heuristic for judging a booking's location
// reference equivalent to an event's assigned resource. Predicates are
// evaluated in priority order, first match wins; each is independently
// testable.
type locationPredicate struct {
	name  string
	match func(ev *CalendarEvent, loc booking.LocationReference) bool
}

// locationPredicates is the ordered heuristic cascade. The two systems
// share no stable key; the strongest available signal (an explicit URI
// hint naming the resource) is tried first, the loosest (word overlap)
// last.
var locationPredicates = []locationPredicate{
	{"uri-hint-equals-resource", func(ev *CalendarEvent, loc booking.LocationReference) bool {
		return loc.URIHint != "" && strings.EqualFold(loc.URIHint, ev.ResourceID)
	}},
	{"address-hint-equals-resource", func(ev *CalendarEvent, loc booking.LocationReference) bool {
		return loc.AddressHint != "" && strings.EqualFold(loc.AddressHint, ev.ResourceID)
	}},
	{"normalized-names-equal", func(ev *CalendarEvent, loc booking.LocationReference) bool {
		a, b := normalizeName(loc.DisplayName), normalizeName(ev.LocationDisplayName)
		return a != "" && a == b
	}},
	{"normalized-names-contain", func(ev *CalendarEvent, loc booking.LocationReference) bool {
		a, b := normalizeName(loc.DisplayName), normalizeName(ev.LocationDisplayName)
		return a != "" && b != "" && (strings.Contains(a, b) || strings.Contains(b, a))
	}},
	{"name-contains-resource-local-part", func(ev *CalendarEvent, loc booking.LocationReference) bool {
		a, b := normalizeName(loc.DisplayName), normalizeName(localPart(ev.ResourceID))
		return a != "" && b != "" && (strings.Contains(a, b) || strings.Contains(b, a))
	}},
	{"whole-word-containment", wholeWordContainment},
}

// wholeWordContainment accepts when every significant word of the booking's
// location name relates to some word of the event's location name or of the
// resource id's local part. "Relates" means substring containment in either
// direction, which absorbs pluralisation and identifier affixes.
func wholeWordContainment(ev *CalendarEvent, loc booking.LocationReference) bool {
	bookingWords := significantWords(loc.DisplayName)
	if len(bookingWords) == 0 {
		return false
	}
	targetWords := idWords(ev.LocationDisplayName)
	targetWords = append(targetWords, idWords(localPart(ev.ResourceID))...)
	if len(targetWords) == 0 {
		return false
	}

	for _, bw := range bookingWords {
		found := false
		for _, tw := range targetWords {
			if strings.Contains(tw, bw) || strings.Contains(bw, tw) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// locationMatches reports whether a booking's location reference is judged
// equivalent to the event's resource. A booking without any location
// reference can never match.
func locationMatches(ev *CalendarEvent, loc booking.LocationReference) bool {
	if loc.IsZero() {
		return false
	}
	for _, p := range locationPredicates {
		if p.match(ev, loc) {
			return true
		}
	}
	return false
}
