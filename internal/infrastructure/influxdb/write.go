package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteBucketSync records the outcome of a single month-bucket sync.
//
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - bucketKey: The month bucket that was synced (e.g., "2025-06")
//   - records: Number of booking records stored for the bucket
//   - duration: How long the bucket sync took
//   - ok: Whether the sync succeeded
//
// Example:
//
//	client.WriteBucketSync("2025-06", 42, 830*time.Millisecond, true)
func (c *Client) WriteBucketSync(bucketKey string, records int, duration time.Duration, ok bool) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"bucket_sync",
		map[string]string{
			"bucket": bucketKey,
		},
		map[string]interface{}{
			"records":     records,
			"duration_ms": duration.Milliseconds(),
			"ok":          ok,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteSyncPass records the outcome of a full sync pass across all stale buckets.
//
// Parameters:
//   - monthsSynced: Number of buckets actually refreshed
//   - totalRecords: Total booking records stored across refreshed buckets
//   - duration: Wall-clock time of the whole pass
func (c *Client) WriteSyncPass(monthsSynced, totalRecords int, duration time.Duration) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"sync_pass",
		map[string]string{},
		map[string]interface{}{
			"months_synced": monthsSynced,
			"total_records": totalRecords,
			"duration_ms":   duration.Milliseconds(),
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteFetchFailure records a remote fetch failure for a source.
//
// Used to track flaky remote APIs (rate limits, outages) over time.
//
// Parameters:
//   - source: "calendar" or "bookings"
//   - target: The room address or business ID that failed
func (c *Client) WriteFetchFailure(source, target string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"fetch_failure",
		map[string]string{
			"source": source,
			"target": target,
		},
		map[string]interface{}{
			"count": 1,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}
