// Package sync decides which month buckets of the booking store are stale,
// refetches them from the remote booking sources, and replaces each
// bucket's contents atomically.
//
// Staleness is relative to the bucket's position: the current month goes
// stale after an hour, future months after six, past months after a day.
// Full passes sync stale buckets one at a time (remote APIs are
// rate-sensitive) and are guarded so at most one runs per process;
// concurrent callers await the in-flight pass instead of racing writes.
//
// Failure policy: one booking source failing for a bucket is tolerated
// (the others' records are kept), a whole bucket failing is logged, left
// stale, and retried at the next tick, and credential failures abort the
// pass without touching stored data.
package sync
