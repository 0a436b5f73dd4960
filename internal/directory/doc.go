// Package directory manages the room directory: the bookable resources the
// service reconciles calendar events and bookings against.
//
// Rooms are declared in a YAML file (see LoadFile) and upserted into SQLite
// at startup. The stable address-like room ID is the only identifier shared
// with the remote calendar; everything else about a room (display name,
// capacity, colour tag, hidden flag) is presentation metadata.
package directory
