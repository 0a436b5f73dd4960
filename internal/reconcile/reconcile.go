package reconcile

import (
	"strings"
	"time"

	"github.com/roomboard/roomboard-core/internal/booking"
)

// maxStartDiff is the acceptance window between an event's start and a
// candidate booking's start. Candidates outside it are still accepted when
// the intervals overlap, which covers long reservations spanning several
// calendar slots.
const maxStartDiff = 30 * time.Minute

// Reconcile attaches the best-matching booking's customer data onto each
// calendar event. Pure function of its inputs: no I/O, no failure paths.
// Events with no matching booking pass through unenriched; an empty booking
// set returns the events unchanged.
//
// Matching, per event: bookings starting on the same calendar day (viewed
// in the event's declared zone) whose location reference is judged
// equivalent to the event's resource are scored by start-time distance.
// A candidate within maxStartDiff, or overlapping the event's interval, is
// accepted; the nearest start wins, ties broken by booking order.
func Reconcile(events []CalendarEvent, bookings []booking.Record) []EnrichedEvent {
	enriched := make([]EnrichedEvent, len(events))
	for i, ev := range events {
		enriched[i] = EnrichedEvent{CalendarEvent: ev}
	}
	if len(bookings) == 0 {
		return enriched
	}

	for i := range enriched {
		if match := bestMatch(&enriched[i].CalendarEvent, bookings); match != nil {
			project(&enriched[i], match)
		}
	}
	return enriched
}

// bestMatch returns the accepted candidate with the smallest start
// difference, or nil when no booking qualifies.
func bestMatch(ev *CalendarEvent, bookings []booking.Record) *booking.Record {
	dayZone := zoneOf(ev.Start.Zone)

	var best *booking.Record
	var bestDiff time.Duration
	for j := range bookings {
		b := &bookings[j]
		if !sameCalendarDay(ev.Start.Time, b.Start.Time, dayZone) {
			continue
		}
		if !locationMatches(ev, b.Location) {
			continue
		}

		diff := ev.Start.Time.Sub(b.Start.Time)
		if diff < 0 {
			diff = -diff
		}
		overlaps := ev.Start.Time.Before(b.End.Time) && ev.End.Time.After(b.Start.Time)
		if diff > maxStartDiff && !overlaps {
			continue
		}

		// Strict < keeps the earlier booking on ties (stable order).
		if best == nil || diff < bestDiff {
			best = b
			bestDiff = diff
		}
	}
	return best
}

// project copies the booking's customer data onto the event.
func project(ev *EnrichedEvent, b *booking.Record) {
	ev.Matched = true
	ev.BookerName = b.CustomerName
	ev.BookerEmail = b.CustomerEmail
	ev.BookerPhone = b.CustomerPhone

	for _, qa := range b.Answers {
		if strings.TrimSpace(qa.Answer) == "" {
			continue
		}
		ev.Answers = append(ev.Answers, qa)
	}

	ev.ServiceNotes = b.ServiceNotes
	if ev.ServiceNotes == "" {
		ev.ServiceNotes = b.CustomerNotes
	}
}
