package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/roomboard/roomboard-core/internal/directory"
	"github.com/roomboard/roomboard-core/internal/infrastructure/logging"
	"github.com/roomboard/roomboard-core/internal/reconcile"
)

// CalendarClient fetches live calendar events from the calendar of record,
// one query per room resource.
type CalendarClient struct {
	baseURL  string
	pageSize int
	tokens   TokenProvider
	client   *http.Client
	logger   *logging.Logger
}

// NewCalendarClient creates a calendar fetcher.
func NewCalendarClient(baseURL string, pageSize int, timeout time.Duration, tokens TokenProvider, logger *logging.Logger) *CalendarClient {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &CalendarClient{
		baseURL:  baseURL,
		pageSize: pageSize,
		tokens:   tokens,
		client:   &http.Client{Timeout: timeout},
		logger:   logger.With("component", "calendar-client"),
	}
}

// FetchCalendarEvents retrieves the events for one resource within the
// window, following pagination to exhaustion. The resource id is stamped
// onto every event; the remote system does not include it.
func (c *CalendarClient) FetchCalendarEvents(ctx context.Context, resourceID string, start, end time.Time) ([]reconcile.CalendarEvent, error) {
	next := fmt.Sprintf("%s/resources/%s/events?start=%s&end=%s&pageSize=%d",
		c.baseURL, url.PathEscape(resourceID),
		url.QueryEscape(start.UTC().Format(time.RFC3339)),
		url.QueryEscape(end.UTC().Format(time.RFC3339)),
		c.pageSize)

	var events []reconcile.CalendarEvent
	for next != "" {
		page, err := c.fetchPage(ctx, next)
		if err != nil {
			return events, err
		}
		for i := range page.Events {
			ev, err := toEvent(&page.Events[i], resourceID)
			if err != nil {
				c.logger.Warn("skipping malformed calendar event",
					"resource_id", resourceID, "event_id", page.Events[i].ID, "error", err)
				continue
			}
			events = append(events, *ev)
		}
		next = page.NextLink
	}
	return events, nil
}

// FetchAllRooms fetches every room's events in parallel and joins the
// results in room order. A failure for one room is logged and isolated:
// that room contributes nothing, siblings are unaffected.
func (c *CalendarClient) FetchAllRooms(ctx context.Context, rooms []directory.Room, start, end time.Time) []reconcile.CalendarEvent {
	perRoom := make([][]reconcile.CalendarEvent, len(rooms))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for i := range rooms {
		i := i
		g.Go(func() error {
			events, err := c.FetchCalendarEvents(ctx, rooms[i].ID, start, end)
			if err != nil {
				c.logger.Warn("calendar fetch failed for room",
					"room_id", rooms[i].ID, "error", err)
				return nil
			}
			mu.Lock()
			perRoom[i] = events
			mu.Unlock()
			return nil
		})
	}
	g.Wait() //nolint:errcheck // workers never return errors; failures are isolated above

	var all []reconcile.CalendarEvent
	for _, events := range perRoom {
		all = append(all, events...)
	}
	return all
}

// fetchPage performs one authenticated GET and decodes a calendar page.
func (c *CalendarClient) fetchPage(ctx context.Context, pageURL string) (*calendarPageDTO, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoCredentials, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building calendar request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calendar request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w (retry-after %s)", ErrRateLimited, resp.Header.Get("Retry-After"))
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("calendar API status %d", resp.StatusCode)
	}

	var page calendarPageDTO
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decoding calendar page: %w", err)
	}
	return &page, nil
}

// toEvent converts a wire event into the domain event for a resource.
func toEvent(dto *calendarEventDTO, resourceID string) (*reconcile.CalendarEvent, error) {
	start, err := parseZonedTime(dto.Start)
	if err != nil {
		return nil, fmt.Errorf("event start: %w", err)
	}
	end, err := parseZonedTime(dto.End)
	if err != nil {
		return nil, fmt.Errorf("event end: %w", err)
	}
	return &reconcile.CalendarEvent{
		ID:                  dto.ID,
		Subject:             dto.Subject,
		Start:               start,
		End:                 end,
		ResourceID:          resourceID,
		LocationDisplayName: dto.Location.DisplayName,
		BodyPreview:         dto.BodyPreview,
	}, nil
}
