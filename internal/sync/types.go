package sync

import (
	"context"
	"time"

	"github.com/roomboard/roomboard-core/internal/booking"
)

// BookingFetcher retrieves booking records for one business within a
// window. Implemented by the remote bookings client; faked in tests.
type BookingFetcher interface {
	FetchBookingRecords(ctx context.Context, businessID string, start, end time.Time) ([]booking.Record, error)
}

// Progress reports the position of a full sync pass. Delivered before each
// bucket sync begins.
type Progress struct {
	Current   int    `json:"current"`
	Total     int    `json:"total"`
	BucketKey string `json:"bucket_key"`
}

// Result is the outcome of a full sync pass.
type Result struct {
	RunID         string `json:"run_id"`
	Success       bool   `json:"success"`
	MonthsSynced  int    `json:"months_synced"`
	TotalBookings int    `json:"total_bookings"`
	Error         string `json:"error,omitempty"`
}

// Status is the bookkeeping snapshot served by the sync status endpoint.
type Status struct {
	TotalBookings int                 `json:"total_bookings"`
	LastFullSync  *time.Time          `json:"last_full_sync"`
	Months        []booking.MonthMeta `json:"months"`
}

// Notifier receives sync lifecycle events for fan-out to panels and UIs.
// All methods must be non-blocking; implementations hand off to their own
// delivery machinery.
type Notifier interface {
	SyncStarted(runID string, totalMonths int)
	SyncProgress(runID string, p Progress)
	SyncCompleted(runID string, r Result)
	BucketReplaced(bucketKey string, recordCount int)
}

// Metrics receives sync telemetry. Implemented by the InfluxDB writer;
// a no-op when telemetry is disabled.
type Metrics interface {
	BucketSync(bucketKey string, records int, duration time.Duration, ok bool)
	SyncPass(monthsSynced, totalRecords int, duration time.Duration)
	FetchFailure(source, target string)
}

type noopNotifier struct{}

func (noopNotifier) SyncStarted(string, int)       {}
func (noopNotifier) SyncProgress(string, Progress) {}
func (noopNotifier) SyncCompleted(string, Result)  {}
func (noopNotifier) BucketReplaced(string, int)    {}

type noopMetrics struct{}

func (noopMetrics) BucketSync(string, int, time.Duration, bool) {}
func (noopMetrics) SyncPass(int, int, time.Duration)            {}
func (noopMetrics) FetchFailure(string, string)                 {}
