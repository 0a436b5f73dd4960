package sync

import "errors"

var (
	// ErrAllSourcesFailed is returned when every configured booking source
	// failed for a bucket. The bucket is left untouched and stays stale; a
	// full pass skips it and aborts only when the underlying cause is a
	// credential failure.
	ErrAllSourcesFailed = errors.New("sync: all booking sources failed")

	// ErrNoBusinesses is returned when no booking business is configured.
	ErrNoBusinesses = errors.New("sync: no booking businesses configured")
)
