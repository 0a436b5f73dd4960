package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/roomboard/roomboard-core/internal/directory"
	"github.com/roomboard/roomboard-core/internal/infrastructure/logging"
)

func testWindow() (time.Time, time.Time) {
	return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)
}

func TestFetchCalendarEvents_Pagination(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `{"value":[
				{"id":"ev-2","subject":"Reserved",
				 "start":{"dateTime":"2025-06-10T14:00:00","timeZone":"UTC"},
				 "end":{"dateTime":"2025-06-10T15:00:00","timeZone":"UTC"}}
			]}`)
			return
		}
		fmt.Fprintf(w, `{"value":[
			{"id":"ev-1","subject":"Reserved",
			 "start":{"dateTime":"2025-06-10T10:00:00","timeZone":"UTC"},
			 "end":{"dateTime":"2025-06-10T11:00:00","timeZone":"UTC"},
			 "location":{"displayName":"Board Room A"}}
		],"@odata.nextLink":"%s?page=2"}`, "http://"+r.Host+r.URL.Path)
	}))
	defer server.Close()

	client := NewCalendarClient(server.URL, 50, 5*time.Second,
		NewStaticTokenProvider("test-token"), logging.Default())

	start, end := testWindow()
	events, err := client.FetchCalendarEvents(context.Background(), "room-a@rooms.example.com", start, end)
	if err != nil {
		t.Fatalf("FetchCalendarEvents: %v", err)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("authorization header = %q", gotAuth)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events across pages, got %d", len(events))
	}
	if events[0].ID != "ev-1" || events[1].ID != "ev-2" {
		t.Errorf("event order = [%s %s]", events[0].ID, events[1].ID)
	}
	for _, ev := range events {
		if ev.ResourceID != "room-a@rooms.example.com" {
			t.Errorf("resource id not stamped: %q", ev.ResourceID)
		}
	}
	want := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	if !events[0].Start.Time.Equal(want) {
		t.Errorf("start = %v, want %v (zone-less UTC timestamp)", events[0].Start.Time, want)
	}
	if events[0].LocationDisplayName != "Board Room A" {
		t.Errorf("location = %q", events[0].LocationDisplayName)
	}
}

func TestFetchCalendarEvents_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewCalendarClient(server.URL, 50, 5*time.Second,
		NewStaticTokenProvider("test-token"), logging.Default())

	start, end := testWindow()
	_, err := client.FetchCalendarEvents(context.Background(), "room-a", start, end)
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("error = %v, want ErrRateLimited", err)
	}
}

func TestFetchCalendarEvents_NoCredentials(t *testing.T) {
	client := NewCalendarClient("http://unused", 50, time.Second,
		NewStaticTokenProvider(""), logging.Default())

	start, end := testWindow()
	_, err := client.FetchCalendarEvents(context.Background(), "room-a", start, end)
	if !errors.Is(err, ErrNoCredentials) {
		t.Errorf("error = %v, want ErrNoCredentials", err)
	}
}

func TestFetchAllRooms_PartialFailureIsolation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "room-b") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		id := "ev-a"
		if strings.Contains(r.URL.Path, "room-c") {
			id = "ev-c"
		}
		fmt.Fprintf(w, `{"value":[
			{"id":"%s","subject":"Reserved",
			 "start":{"dateTime":"2025-06-10T10:00:00","timeZone":"UTC"},
			 "end":{"dateTime":"2025-06-10T11:00:00","timeZone":"UTC"}}
		]}`, id)
	}))
	defer server.Close()

	client := NewCalendarClient(server.URL, 50, 5*time.Second,
		NewStaticTokenProvider("test-token"), logging.Default())

	rooms := []directory.Room{
		{ID: "room-a@rooms.example.com", Name: "A"},
		{ID: "room-b@rooms.example.com", Name: "B"},
		{ID: "room-c@rooms.example.com", Name: "C"},
	}
	start, end := testWindow()
	events := client.FetchAllRooms(context.Background(), rooms, start, end)

	if len(events) != 2 {
		t.Fatalf("expected 2 events from surviving rooms, got %d", len(events))
	}
	// Room order preserved in the join.
	if events[0].ID != "ev-a" || events[1].ID != "ev-c" {
		t.Errorf("events = [%s %s], want [ev-a ev-c]", events[0].ID, events[1].ID)
	}
}

func TestParseZonedTime(t *testing.T) {
	tests := []struct {
		name string
		dto  zonedTimeDTO
		want time.Time
		zone string
	}{
		{
			name: "rfc3339 with offset",
			dto:  zonedTimeDTO{DateTime: "2025-06-10T10:00:00+03:00", TimeZone: "Europe/Bucharest"},
			want: time.Date(2025, 6, 10, 7, 0, 0, 0, time.UTC),
			zone: "Europe/Bucharest",
		},
		{
			name: "zone-less timestamp with declared utc",
			dto:  zonedTimeDTO{DateTime: "2025-06-10T10:00:00", TimeZone: "UTC"},
			want: time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC),
			zone: "UTC",
		},
		{
			name: "zone-less timestamp in declared local zone",
			dto:  zonedTimeDTO{DateTime: "2025-06-10T10:00:00", TimeZone: "Europe/Bucharest"},
			want: time.Date(2025, 6, 10, 7, 0, 0, 0, time.UTC),
			zone: "Europe/Bucharest",
		},
		{
			name: "fractional seconds",
			dto:  zonedTimeDTO{DateTime: "2025-06-10T10:00:00.0000000", TimeZone: ""},
			want: time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC),
			zone: "UTC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseZonedTime(tt.dto)
			if err != nil {
				t.Fatalf("parseZonedTime: %v", err)
			}
			if !got.Time.Equal(tt.want) {
				t.Errorf("instant = %v, want %v", got.Time, tt.want)
			}
			if got.Zone != tt.zone {
				t.Errorf("zone = %q, want %q", got.Zone, tt.zone)
			}
		})
	}

	if _, err := parseZonedTime(zonedTimeDTO{DateTime: "yesterday"}); err == nil {
		t.Error("expected error for unparseable timestamp")
	}
}
