package api

import (
	"encoding/json"

	"github.com/roomboard/roomboard-core/internal/infrastructure/logging"
	"github.com/roomboard/roomboard-core/internal/infrastructure/mqtt"
	"github.com/roomboard/roomboard-core/internal/sync"
)

// SyncBroadcaster fans sync lifecycle events out to WebSocket clients and,
// when a broker is configured, to MQTT. Bucket replacements are published
// retained so panels that reconnect see the latest state immediately.
//
// All methods are fire-and-forget: delivery failures are logged, never
// propagated back into the sync pass.
type SyncBroadcaster struct {
	hub    *Hub
	mqtt   *mqtt.Client // nil when no broker is configured
	topics mqtt.Topics
	logger *logging.Logger
}

// NewSyncBroadcaster creates a broadcaster over the given hub and optional
// MQTT client.
func NewSyncBroadcaster(hub *Hub, mqttClient *mqtt.Client, logger *logging.Logger) *SyncBroadcaster {
	return &SyncBroadcaster{
		hub:    hub,
		mqtt:   mqttClient,
		logger: logger.With("component", "sync_broadcaster"),
	}
}

// SyncStarted announces the beginning of a sync pass.
func (b *SyncBroadcaster) SyncStarted(runID string, totalMonths int) {
	payload := map[string]any{
		"phase":        "started",
		"run_id":       runID,
		"total_months": totalMonths,
	}
	b.hub.Broadcast(ChannelSync, payload)
	b.publish(b.topics.SyncStarted(), payload, false)
}

// SyncProgress announces per-bucket progress within a pass.
func (b *SyncBroadcaster) SyncProgress(runID string, p sync.Progress) {
	payload := map[string]any{
		"phase":      "progress",
		"run_id":     runID,
		"current":    p.Current,
		"total":      p.Total,
		"bucket_key": p.BucketKey,
	}
	b.hub.Broadcast(ChannelSync, payload)
	b.publish(b.topics.SyncProgress(), payload, false)
}

// SyncCompleted announces the outcome of a sync pass.
func (b *SyncBroadcaster) SyncCompleted(runID string, r sync.Result) {
	payload := map[string]any{
		"phase":          "completed",
		"run_id":         runID,
		"success":        r.Success,
		"months_synced":  r.MonthsSynced,
		"total_bookings": r.TotalBookings,
	}
	if r.Error != "" {
		payload["error"] = r.Error
	}
	b.hub.Broadcast(ChannelSync, payload)
	b.publish(b.topics.SyncCompleted(), payload, false)
}

// BucketReplaced announces that a month bucket's contents changed.
func (b *SyncBroadcaster) BucketReplaced(bucketKey string, recordCount int) {
	payload := map[string]any{
		"bucket_key":   bucketKey,
		"record_count": recordCount,
	}
	b.hub.Broadcast(ChannelBookings, payload)
	b.publish(b.topics.BookingsBucket(bucketKey), payload, true)
}

// publish sends a payload to the broker when one is configured.
func (b *SyncBroadcaster) publish(topic string, payload any, retained bool) {
	if b.mqtt == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		b.logger.Error("marshalling broadcast payload failed", "topic", topic, "error", err)
		return
	}

	if retained {
		err = b.mqtt.PublishRetained(topic, data)
	} else {
		err = b.mqtt.Publish(topic, data, 1, false)
	}
	if err != nil {
		b.logger.Warn("mqtt publish failed", "topic", topic, "error", err)
	}
}
