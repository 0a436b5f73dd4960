package booking

import (
	"fmt"
	"time"
)

// bucketKeyLayout is the time layout for month bucket keys.
const bucketKeyLayout = "2006-01"

// BucketKeyFor returns the "YYYY-MM" bucket key for an instant, interpreted
// in the given location. Bucket assignment happens at write time; the key a
// record was stored under is authoritative thereafter.
func BucketKeyFor(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(bucketKeyLayout)
}

// ParseBucketKey validates a "YYYY-MM" bucket key and returns the first
// instant of that month in the given location.
func ParseBucketKey(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(bucketKeyLayout, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidBucketKey, key)
	}
	return t, nil
}

// MonthRange returns the inclusive start and end instants of a bucket's
// calendar month in the given location: first-of-month 00:00:00 through
// last-of-month 23:59:59.
func MonthRange(key string, loc *time.Location) (start, end time.Time, err error) {
	start, err = ParseBucketKey(key, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end = start.AddDate(0, 1, 0).Add(-time.Second)
	return start, end, nil
}

// AddMonths returns the bucket key offset months away from the given key.
// Month arithmetic is done on the first of the month so day-of-month
// overflow can never skip a bucket.
func AddMonths(key string, offset int, loc *time.Location) (string, error) {
	start, err := ParseBucketKey(key, loc)
	if err != nil {
		return "", err
	}
	return start.AddDate(0, offset, 0).Format(bucketKeyLayout), nil
}
