// Package api implements the HTTP REST API and WebSocket server for Roomboard Core.
//
// This package provides:
//   - REST endpoints for the room directory, stored bookings, and the
//     reconciled calendar view
//   - Push-sync endpoints for companion apps that fetch booking data with
//     their own credentials
//   - Sync status and trigger endpoints
//   - WebSocket hub broadcasting sync lifecycle and bucket-change events
//   - Middleware stack (request ID, logging, recovery, CORS, body limits)
//   - TLS support for production deployments
//
// # Security
//
// A static bearer token guards all endpoints except the health check; an
// empty token means open access for trusted-LAN deployments. WebSocket
// connections use short-lived single-use tickets so the bearer token never
// appears in URLs.
//
// # Graceful Degradation
//
// The server operates without a calendar source (the events endpoint
// returns 503, everything else works) and without an MQTT broker
// (broadcasts go to WebSocket clients only).
package api
