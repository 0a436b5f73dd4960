// Package remote implements the HTTP clients for the two upstream systems:
// the calendar of record (queried live, per room) and the booking system
// (synced into the month-partitioned store).
//
// Both clients attach a bearer credential from a TokenProvider and follow
// continuation-link pagination to exhaustion. Failure isolation follows the
// sync policy: a rate-limited or failing room fetch yields an empty result
// for that room only, and a mid-pagination booking failure returns the
// partial accumulation alongside the error.
package remote
