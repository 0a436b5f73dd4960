package mqtt

import "fmt"

// Topic prefixes for Roomboard Core.
//
// Wall panels subscribe to these topics so booking changes reach displays
// without polling. All topics live under a single "roomboard" root:
//
//	roomboard/bookings/{bucket}   retained per-bucket change notifications
//	roomboard/sync/...            sync lifecycle events
//	roomboard/system/status       online/offline status (retained, LWT)
const (
	// TopicPrefix is the root of all Roomboard topics.
	TopicPrefix = "roomboard"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "roomboard/system"
)

// Topics provides builders for Roomboard MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
type Topics struct{}

// BookingsBucket returns the topic for a single month bucket's change
// notification. Published retained after every bucket replacement so a
// reconnecting panel immediately sees the latest revision.
//
// Example: roomboard/bookings/2025-06
func (Topics) BookingsBucket(bucketKey string) string {
	return fmt.Sprintf("%s/bookings/%s", TopicPrefix, bucketKey)
}

// SyncStarted returns the topic announcing the start of a sync pass.
//
// Example: roomboard/sync/started
func (Topics) SyncStarted() string {
	return TopicPrefix + "/sync/started"
}

// SyncProgress returns the topic for per-bucket sync progress events.
//
// Example: roomboard/sync/progress
func (Topics) SyncProgress() string {
	return TopicPrefix + "/sync/progress"
}

// SyncCompleted returns the topic announcing the end of a sync pass.
//
// Example: roomboard/sync/completed
func (Topics) SyncCompleted() string {
	return TopicPrefix + "/sync/completed"
}

// SystemStatus returns the topic for Core online/offline status.
// Used for both the retained status message and the LWT.
//
// Example: roomboard/system/status
func (Topics) SystemStatus() string {
	return TopicPrefixSystem + "/status"
}
