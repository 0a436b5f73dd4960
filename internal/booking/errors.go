package booking

import "errors"

var (
	// ErrInvalidBucketKey is returned for bucket keys not of the form "YYYY-MM".
	ErrInvalidBucketKey = errors.New("booking: invalid bucket key")

	// ErrMonthNotSynced is returned when metadata is requested for a bucket
	// that has never been synced.
	ErrMonthNotSynced = errors.New("booking: month not synced")
)
