// Package reconcile matches live calendar events against cached booking
// records and projects the booking's customer details onto the event.
//
// The calendar of record and the booking system describe the same physical
// meetings but share no common identifier, so matching is heuristic: a
// same-day pre-filter, an ordered cascade of location-equivalence
// predicates, then a tolerant start-time/overlap acceptance test with a
// nearest-start tie-break. See Reconcile for the exact contract.
//
// The engine is a pure function over its inputs. Malformed or
// partially-fielded records reduce to "cannot match", never to an error.
package reconcile
