package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/roomboard/roomboard-core/internal/reconcile"
)

// handleListEvents serves the reconciled calendar view: live events for all
// visible rooms with booking customer data merged in. Events are fetched
// fresh on every request; only the booking side comes from the local store.
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	if s.calendar == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "calendar source not configured")
		return
	}

	start, end, err := s.parseWindow(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	rooms, err := s.rooms.ListVisibleRooms(r.Context())
	if err != nil {
		s.logger.Error("listing rooms for events failed", "error", err)
		writeInternalError(w, "failed to list rooms")
		return
	}

	events := s.calendar.FetchAllRooms(r.Context(), rooms, start, end)

	// The store window is padded a day either side so bookings whose declared
	// zone shifts them across a UTC date boundary still reach the matcher.
	bookings, err := s.store.ListRange(r.Context(), start.Add(-24*time.Hour), end.Add(24*time.Hour))
	if err != nil {
		s.logger.Error("listing bookings for events failed", "error", err)
		writeInternalError(w, "failed to list bookings")
		return
	}

	enriched := reconcile.Reconcile(events, bookings)
	if enriched == nil {
		enriched = []reconcile.EnrichedEvent{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"events": enriched,
		"count":  len(enriched),
		"start":  start.Format(time.RFC3339),
		"end":    end.Format(time.RFC3339),
	})
}

// parseWindow reads the start/end query parameters. Values may be RFC 3339
// timestamps or plain dates; dates are interpreted in the service time zone.
// Defaults to the current day when both are absent.
func (s *Server) parseWindow(r *http.Request) (time.Time, time.Time, error) {
	q := r.URL.Query()
	startParam, endParam := q.Get("start"), q.Get("end")

	if startParam == "" && endParam == "" {
		now := time.Now().In(s.loc)
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
		return start, start.AddDate(0, 0, 1).Add(-time.Second), nil
	}
	if startParam == "" || endParam == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("start and end must be provided together")
	}

	start, err := s.parseTimeParam(startParam, false)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start parameter: %w", err)
	}
	end, err := s.parseTimeParam(endParam, true)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end parameter: %w", err)
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("start must be before end")
	}
	return start, end, nil
}

// parseTimeParam parses an RFC 3339 timestamp or a plain date. Plain dates
// resolve to start-of-day, or end-of-day when endOfDay is set.
func (s *Server) parseTimeParam(value string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	day, err := time.ParseInLocation("2006-01-02", value, s.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected RFC 3339 timestamp or YYYY-MM-DD date")
	}
	if endOfDay {
		return day.AddDate(0, 0, 1).Add(-time.Second), nil
	}
	return day, nil
}
