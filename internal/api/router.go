package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Post("/auth/ws-ticket", s.handleWSTicket)

			r.Route("/rooms", func(r chi.Router) {
				r.Get("/", s.handleListRooms)
				r.Patch("/{id}", s.handlePatchRoom)
			})

			// Reconciled calendar view
			r.Get("/events", s.handleListEvents)

			r.Route("/bookings", func(r chi.Router) {
				r.Get("/", s.handleListBookings)
				r.Get("/month/{bucketKey}", s.handleMonthBookings)
				r.Post("/sync", s.handlePushSync)
				r.Post("/sync-batch", s.handlePushSyncBatch)
			})

			r.Route("/sync", func(r chi.Router) {
				r.Get("/status", s.handleSyncStatus)
				r.Post("/trigger", s.handleSyncTrigger)
			})

			// WebSocket (auth via ticket, validated in handler)
			r.Get("/ws", s.handleWebSocket)
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"version":   s.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
