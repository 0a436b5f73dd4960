package api

import (
	"context"
	"net/http"

	"github.com/roomboard/roomboard-core/internal/sync"
)

// handleSyncStatus returns the sync bookkeeping snapshot.
func (s *Server) handleSyncStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.sync.Status(r.Context())
	if err != nil {
		s.logger.Error("loading sync status failed", "error", err)
		writeInternalError(w, "failed to load sync status")
		return
	}

	// Epoch milliseconds travel better than RFC 3339 across panel clients.
	var lastFullSync any
	if status.LastFullSync != nil {
		lastFullSync = status.LastFullSync.UnixMilli()
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total_bookings": status.TotalBookings,
		"last_full_sync": lastFullSync,
		"months":         status.Months,
	})
}

// handleSyncTrigger starts a sync pass. With ?force=true the store is
// cleared and the whole window re-fetched. The pass runs in the background
// unless ?wait=true, in which case the response carries the pass result.
// Concurrent triggers share one pass via the service's single-flight guard.
func (s *Server) handleSyncTrigger(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "true"
	wait := r.URL.Query().Get("wait") == "true"

	run := func(ctx context.Context) sync.Result {
		if force {
			return s.sync.ForceFullSync(ctx, nil)
		}
		return s.sync.SyncAllNeeded(ctx, sync.DefaultMonthsAhead, sync.DefaultMonthsBehind, nil)
	}

	if wait {
		result := run(r.Context())
		writeJSON(w, http.StatusOK, result)
		return
	}

	// Detach from the request context so the pass survives the response.
	go run(context.Background())
	writeJSON(w, http.StatusAccepted, map[string]any{
		"status": "accepted",
		"force":  force,
	})
}

// handleWSTicket issues a short-lived single-use WebSocket ticket.
func (s *Server) handleWSTicket(w http.ResponseWriter, _ *http.Request) {
	if !s.tickets.enabled() {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "websocket tickets not configured")
		return
	}

	ticket, expiry, err := s.tickets.issue()
	if err != nil {
		s.logger.Error("issuing websocket ticket failed", "error", err)
		writeInternalError(w, "failed to issue ticket")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ticket":     ticket,
		"expires_at": expiry.UTC().UnixMilli(),
	})
}
