package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roomboard/roomboard-core/internal/booking"
	"github.com/roomboard/roomboard-core/internal/directory"
	"github.com/roomboard/roomboard-core/internal/infrastructure/config"
	"github.com/roomboard/roomboard-core/internal/infrastructure/logging"
	"github.com/roomboard/roomboard-core/internal/reconcile"
	"github.com/roomboard/roomboard-core/internal/sync"
)

// testSchema mirrors the initial migration.
const testSchema = `
	CREATE TABLE rooms (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		contact_address TEXT NOT NULL DEFAULT '',
		capacity INTEGER NOT NULL DEFAULT 0,
		color_tag TEXT NOT NULL DEFAULT '',
		hidden INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
		updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
	) STRICT;
	CREATE TABLE booking_months (
		bucket_key TEXT PRIMARY KEY,
		last_synced_at TEXT NOT NULL,
		record_count INTEGER NOT NULL DEFAULT 0
	) STRICT;
	CREATE TABLE bookings (
		id TEXT PRIMARY KEY,
		bucket_key TEXT NOT NULL,
		service_id TEXT NOT NULL DEFAULT '',
		service_name TEXT NOT NULL DEFAULT '',
		customer_name TEXT NOT NULL DEFAULT '',
		customer_email TEXT NOT NULL DEFAULT '',
		customer_phone TEXT NOT NULL DEFAULT '',
		customer_notes TEXT NOT NULL DEFAULT '',
		service_notes TEXT NOT NULL DEFAULT '',
		start_time TEXT NOT NULL,
		start_zone TEXT NOT NULL DEFAULT 'UTC',
		end_time TEXT NOT NULL,
		end_zone TEXT NOT NULL DEFAULT 'UTC',
		location_name TEXT NOT NULL DEFAULT '',
		location_address_hint TEXT NOT NULL DEFAULT '',
		location_uri_hint TEXT NOT NULL DEFAULT '',
		answers TEXT NOT NULL DEFAULT '[]',
		FOREIGN KEY (bucket_key) REFERENCES booking_months(bucket_key) ON DELETE CASCADE
	) STRICT;
`

// fakeBookingFetcher serves canned records keyed by business ID.
type fakeBookingFetcher struct {
	records map[string][]booking.Record
	err     error
}

func (f *fakeBookingFetcher) FetchBookingRecords(_ context.Context, businessID string, start, end time.Time) ([]booking.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []booking.Record
	for _, rec := range f.records[businessID] {
		if !rec.Start.Time.Before(start) && !rec.Start.Time.After(end) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// fakeCalendarFetcher returns a fixed event list regardless of rooms.
type fakeCalendarFetcher struct {
	events []reconcile.CalendarEvent
}

func (f *fakeCalendarFetcher) FetchAllRooms(_ context.Context, _ []directory.Room, _, _ time.Time) []reconcile.CalendarEvent {
	return f.events
}

type serverOptions struct {
	apiToken     string
	ticketSecret string
	calendar     CalendarFetcher
}

// testServer creates a Server backed by an in-memory SQLite database.
func testServer(t *testing.T, opts serverOptions) (*Server, *sql.DB) {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("creating test schema: %v", err)
	}

	log := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")
	store := booking.NewSQLiteStore(db)
	rooms := directory.NewSQLiteRepository(db)
	svc := sync.New(store, &fakeBookingFetcher{}, []string{"biz-1"}, time.UTC, log, sync.Options{})

	srv, err := New(Deps{
		Config: config.APIConfig{
			Host:     "127.0.0.1",
			Port:     0,
			Timeouts: config.APITimeoutConfig{Read: 5, Write: 5, Idle: 5},
		},
		WS: config.WebSocketConfig{
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Security: config.SecurityConfig{
			APIToken: opts.apiToken,
			WSTicket: config.WSTicketConfig{Secret: opts.ticketSecret, TTLSeconds: 30},
		},
		Logger:   log,
		Rooms:    rooms,
		Store:    store,
		Sync:     svc,
		Calendar: opts.calendar,
		Version:  "test",
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	srv.hub = NewHub(srv.wsCfg, log)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go srv.hub.Run(ctx)

	return srv, db
}

func seedRoom(t *testing.T, srv *Server, id, name string, hidden bool) {
	t.Helper()
	room := &directory.Room{ID: id, Name: name}
	if err := srv.rooms.UpsertRoom(context.Background(), room); err != nil {
		t.Fatalf("seeding room %s: %v", id, err)
	}
	if hidden {
		if err := srv.rooms.SetHidden(context.Background(), id, true); err != nil {
			t.Fatalf("hiding room %s: %v", id, err)
		}
	}
}

func seedBucket(t *testing.T, srv *Server, bucketKey string, records []booking.Record) {
	t.Helper()
	if err := srv.store.ReplaceMonth(context.Background(), bucketKey, records, time.Now()); err != nil {
		t.Fatalf("seeding bucket %s: %v", bucketKey, err)
	}
}

func zonedUTC(value string) booking.ZonedTime {
	t, _ := time.Parse(time.RFC3339, value) //nolint:errcheck // test literals
	return booking.ZonedTime{Time: t, Zone: "UTC"}
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v; body: %s", err, w.Body.String())
	}
	return resp
}

// ─── Health and Middleware ─────────────────────────────────────────

func TestHealth(t *testing.T) {
	srv, _ := testServer(t, serverOptions{})
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d, want %d", w.Code, http.StatusOK)
	}
	resp := decodeBody(t, w)
	if resp["status"] != "ok" {
		t.Errorf("status = %v, want ok", resp["status"])
	}
	if resp["version"] != "test" {
		t.Errorf("version = %v, want test", resp["version"])
	}
}

func TestRequestID_Generated(t *testing.T) {
	srv, _ := testServer(t, serverOptions{})
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header to be set")
	}
}

func TestCORS_Preflight(t *testing.T) {
	srv, _ := testServer(t, serverOptions{})
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("ACAO = %q, want %q", got, "http://localhost:3000")
	}
}

// ─── Authentication ────────────────────────────────────────────────

func TestAuth_TokenRequired(t *testing.T) {
	srv, _ := testServer(t, serverOptions{apiToken: "secret-token"})
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("missing token status = %d, want %d", w.Code, http.StatusUnauthorized)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/rooms", nil)
	req.Header.Set("Authorization", "Bearer wrong-token")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad token status = %d, want %d", w.Code, http.StatusUnauthorized)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/rooms", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("valid token status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestAuth_OpenWhenUnset(t *testing.T) {
	srv, _ := testServer(t, serverOptions{})
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("open access status = %d, want %d", w.Code, http.StatusOK)
	}
}

// ─── Rooms ─────────────────────────────────────────────────────────

func TestListRooms_HiddenExcluded(t *testing.T) {
	srv, _ := testServer(t, serverOptions{})
	seedRoom(t, srv, "board@example.com", "Board Room", false)
	seedRoom(t, srv, "store@example.com", "Store Room", true)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := decodeBody(t, w)
	if int(resp["count"].(float64)) != 1 {
		t.Errorf("count = %v, want 1", resp["count"])
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/rooms?include_hidden=true", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp = decodeBody(t, w)
	if int(resp["count"].(float64)) != 2 {
		t.Errorf("count with hidden = %v, want 2", resp["count"])
	}
}

func TestPatchRoom_Hidden(t *testing.T) {
	srv, _ := testServer(t, serverOptions{})
	seedRoom(t, srv, "board@example.com", "Board Room", false)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/rooms/board@example.com",
		strings.NewReader(`{"hidden": true}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("patch status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}
	resp := decodeBody(t, w)
	if resp["hidden"] != true {
		t.Errorf("hidden = %v, want true", resp["hidden"])
	}
}

func TestPatchRoom_NotFound(t *testing.T) {
	srv, _ := testServer(t, serverOptions{})
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/rooms/ghost@example.com",
		strings.NewReader(`{"hidden": true}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("patch status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestPatchRoom_MissingField(t *testing.T) {
	srv, _ := testServer(t, serverOptions{})
	seedRoom(t, srv, "board@example.com", "Board Room", false)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/rooms/board@example.com",
		strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("patch status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

// ─── Events ────────────────────────────────────────────────────────

func TestListEvents_Enriched(t *testing.T) {
	calendar := &fakeCalendarFetcher{events: []reconcile.CalendarEvent{{
		ID:         "ev-1",
		Subject:    "Strategy review",
		Start:      zonedUTC("2025-06-10T10:00:00Z"),
		End:        zonedUTC("2025-06-10T11:00:00Z"),
		ResourceID: "board@example.com",
	}}}
	srv, _ := testServer(t, serverOptions{calendar: calendar})
	seedRoom(t, srv, "board@example.com", "Board Room", false)
	seedBucket(t, srv, "2025-06", []booking.Record{{
		ID:           "bk-1",
		CustomerName: "Ana Ionescu",
		Start:        zonedUTC("2025-06-10T10:00:00Z"),
		End:          zonedUTC("2025-06-10T11:00:00Z"),
		Location:     booking.LocationReference{DisplayName: "Board Room"},
	}})
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/events?start=2025-06-10T00:00:00Z&end=2025-06-10T23:59:59Z", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("events status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}
	resp := decodeBody(t, w)
	events := resp["events"].([]any)
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	ev := events[0].(map[string]any)
	if ev["matched"] != true {
		t.Errorf("matched = %v, want true", ev["matched"])
	}
	if ev["booker_name"] != "Ana Ionescu" {
		t.Errorf("booker_name = %v, want Ana Ionescu", ev["booker_name"])
	}
}

func TestListEvents_NoCalendarSource(t *testing.T) {
	srv, _ := testServer(t, serverOptions{})
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("events status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}

func TestListEvents_BadWindow(t *testing.T) {
	srv, _ := testServer(t, serverOptions{calendar: &fakeCalendarFetcher{}})
	router := srv.buildRouter()

	for _, query := range []string{
		"?start=2025-06-10",
		"?start=not-a-date&end=also-not",
		"?start=2025-06-11&end=2025-06-10",
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/events"+query, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("query %q status = %d, want %d", query, w.Code, http.StatusBadRequest)
		}
	}
}

// ─── Bookings ──────────────────────────────────────────────────────

func TestMonthBookings(t *testing.T) {
	srv, _ := testServer(t, serverOptions{})
	seedBucket(t, srv, "2025-06", []booking.Record{{
		ID:           "bk-1",
		CustomerName: "Ana Ionescu",
		Start:        zonedUTC("2025-06-10T10:00:00Z"),
		End:          zonedUTC("2025-06-10T11:00:00Z"),
	}})
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/month/2025-06", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("month status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}
	resp := decodeBody(t, w)
	if int(resp["count"].(float64)) != 1 {
		t.Errorf("count = %v, want 1", resp["count"])
	}
}

func TestMonthBookings_NotSynced(t *testing.T) {
	srv, _ := testServer(t, serverOptions{})
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/month/2025-06", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("unsynced month status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestMonthBookings_InvalidKey(t *testing.T) {
	srv, _ := testServer(t, serverOptions{})
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/month/June-2025", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid key status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestPushSync(t *testing.T) {
	srv, _ := testServer(t, serverOptions{})
	router := srv.buildRouter()

	body := `{
		"bucket_key": "2025-06",
		"bookings": [{
			"id": "bk-1",
			"customer_name": "Ana Ionescu",
			"start": {"time": "2025-06-10T10:00:00Z", "zone": "UTC"},
			"end": {"time": "2025-06-10T11:00:00Z", "zone": "UTC"}
		}]
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/sync", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("push status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}
	resp := decodeBody(t, w)
	if int(resp["stored"].(float64)) != 1 {
		t.Errorf("stored = %v, want 1", resp["stored"])
	}

	records, err := srv.store.ListMonth(context.Background(), "2025-06")
	if err != nil {
		t.Fatalf("ListMonth: %v", err)
	}
	if len(records) != 1 || records[0].ID != "bk-1" {
		t.Errorf("stored records = %+v, want one bk-1", records)
	}
}

func TestPushSyncBatch(t *testing.T) {
	srv, _ := testServer(t, serverOptions{})
	router := srv.buildRouter()

	body := `{
		"months": [
			{"bucket_key": "2025-06", "bookings": [{
				"id": "bk-1",
				"customer_name": "Ana Ionescu",
				"start": {"time": "2025-06-10T10:00:00Z", "zone": "UTC"},
				"end": {"time": "2025-06-10T11:00:00Z", "zone": "UTC"}
			}]},
			{"bucket_key": "2025-07", "bookings": []}
		]
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/sync-batch", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("batch status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}
	resp := decodeBody(t, w)
	if int(resp["months_processed"].(float64)) != 2 {
		t.Errorf("months_processed = %v, want 2", resp["months_processed"])
	}
	if int(resp["total_stored"].(float64)) != 1 {
		t.Errorf("total_stored = %v, want 1", resp["total_stored"])
	}

	// Empty month still records metadata: synced-and-empty, not never-synced.
	meta, err := srv.store.MonthMeta(context.Background(), "2025-07")
	if err != nil {
		t.Fatalf("MonthMeta: %v", err)
	}
	if meta.RecordCount != 0 {
		t.Errorf("record_count = %d, want 0", meta.RecordCount)
	}
}

func TestPushSync_InvalidBucketKey(t *testing.T) {
	srv, _ := testServer(t, serverOptions{})
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/sync",
		strings.NewReader(`{"bucket_key": "nope", "bookings": []}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid bucket status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

// ─── Sync Operations ───────────────────────────────────────────────

func TestSyncStatus_Empty(t *testing.T) {
	srv, _ := testServer(t, serverOptions{})
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sync/status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	resp := decodeBody(t, w)
	if int(resp["total_bookings"].(float64)) != 0 {
		t.Errorf("total_bookings = %v, want 0", resp["total_bookings"])
	}
	if resp["last_full_sync"] != nil {
		t.Errorf("last_full_sync = %v, want null", resp["last_full_sync"])
	}
}

func TestSyncTrigger_Wait(t *testing.T) {
	srv, _ := testServer(t, serverOptions{})
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync/trigger?wait=true", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("trigger status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}
	var result sync.Result
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if !result.Success {
		t.Errorf("result.Success = false, error: %s", result.Error)
	}
	if result.RunID == "" {
		t.Error("expected a run ID")
	}
}

func TestSyncTrigger_Async(t *testing.T) {
	srv, _ := testServer(t, serverOptions{})
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync/trigger", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Errorf("trigger status = %d, want %d", w.Code, http.StatusAccepted)
	}
}

// ─── WebSocket Tickets ─────────────────────────────────────────────

func TestWSTicket_IssueAndRedeem(t *testing.T) {
	srv, _ := testServer(t, serverOptions{ticketSecret: "ws-ticket-secret-at-least-32-chars"})
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/ws-ticket", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("ticket status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}
	resp := decodeBody(t, w)
	ticket, ok := resp["ticket"].(string)
	if !ok || ticket == "" {
		t.Fatalf("expected a ticket, got %v", resp["ticket"])
	}

	if err := srv.tickets.redeem(ticket); err != nil {
		t.Fatalf("first redeem: %v", err)
	}
	if err := srv.tickets.redeem(ticket); err == nil {
		t.Error("second redeem succeeded, want single-use rejection")
	}
}

func TestWSTicket_RejectsForgery(t *testing.T) {
	srv, _ := testServer(t, serverOptions{ticketSecret: "ws-ticket-secret-at-least-32-chars"})

	if err := srv.tickets.redeem("not-a-jwt"); err == nil {
		t.Error("redeem of garbage succeeded")
	}

	other := newTicketRegistry(config.WSTicketConfig{Secret: "a-different-secret-entirely-32-chars", TTLSeconds: 30})
	forged, _, err := other.issue()
	if err != nil {
		t.Fatalf("issuing forged ticket: %v", err)
	}
	if err := srv.tickets.redeem(forged); err == nil {
		t.Error("redeem of wrong-secret ticket succeeded")
	}
}

func TestWSTicket_Unconfigured(t *testing.T) {
	srv, _ := testServer(t, serverOptions{})
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/ws-ticket", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("ticket status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}
