package directory

import "errors"

var (
	// ErrRoomNotFound is returned when a room lookup matches nothing.
	ErrRoomNotFound = errors.New("directory: room not found")

	// ErrInvalidRoom is returned when a room fails validation.
	ErrInvalidRoom = errors.New("directory: invalid room")
)
