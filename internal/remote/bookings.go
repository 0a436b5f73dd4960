package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/roomboard/roomboard-core/internal/booking"
	"github.com/roomboard/roomboard-core/internal/infrastructure/logging"
)

// BookingsClient fetches reservation records from the remote booking
// system, one query per booking business.
type BookingsClient struct {
	baseURL  string
	pageSize int
	tokens   TokenProvider
	client   *http.Client
	logger   *logging.Logger
}

// NewBookingsClient creates a booking fetcher.
func NewBookingsClient(baseURL string, pageSize int, timeout time.Duration, tokens TokenProvider, logger *logging.Logger) *BookingsClient {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &BookingsClient{
		baseURL:  baseURL,
		pageSize: pageSize,
		tokens:   tokens,
		client:   &http.Client{Timeout: timeout},
		logger:   logger.With("component", "bookings-client"),
	}
}

// FetchBookingRecords retrieves every booking for one business overlapping
// the window, following continuation links to exhaustion. On a
// mid-pagination failure the pages accumulated so far are returned
// alongside the error rather than discarded.
func (c *BookingsClient) FetchBookingRecords(ctx context.Context, businessID string, start, end time.Time) ([]booking.Record, error) {
	next := fmt.Sprintf("%s/businesses/%s/appointments?start=%s&end=%s&pageSize=%d",
		c.baseURL, url.PathEscape(businessID),
		url.QueryEscape(start.UTC().Format(time.RFC3339)),
		url.QueryEscape(end.UTC().Format(time.RFC3339)),
		c.pageSize)

	var records []booking.Record
	for next != "" {
		page, err := c.fetchPage(ctx, next)
		if err != nil {
			return records, fmt.Errorf("business %s: %w", businessID, err)
		}
		for i := range page.Bookings {
			rec, err := page.Bookings[i].toRecord()
			if err != nil {
				c.logger.Warn("skipping malformed booking record",
					"business_id", businessID, "booking_id", page.Bookings[i].ID, "error", err)
				continue
			}
			records = append(records, *rec)
		}
		next = page.NextLink
	}
	return records, nil
}

// fetchPage performs one authenticated GET and decodes a booking page.
func (c *BookingsClient) fetchPage(ctx context.Context, pageURL string) (*bookingPageDTO, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoCredentials, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building bookings request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bookings request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w (retry-after %s)", ErrRateLimited, resp.Header.Get("Retry-After"))
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("bookings API status %d", resp.StatusCode)
	}

	var page bookingPageDTO
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decoding bookings page: %w", err)
	}
	return &page, nil
}
