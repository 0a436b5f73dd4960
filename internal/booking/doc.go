// Package booking provides the month-partitioned booking store.
//
// Booking records pulled from the remote booking system are cached in SQLite,
// partitioned by calendar-month bucket ("YYYY-MM"). Each bucket carries sync
// metadata (last synced, record count); replacing a bucket's contents is
// atomic so a concurrent reader never observes a half-replaced month.
//
// Ownership: the sync orchestrator (and the push-sync API it backs) is the
// only writer. The reconciliation engine and the HTTP read endpoints only
// read.
//
// # Thread Safety
//
// SQLiteStore is safe for concurrent use from multiple goroutines
// (SQLite WAL mode + transaction-wrapped writes).
package booking
