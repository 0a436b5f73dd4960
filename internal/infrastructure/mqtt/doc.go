// Package mqtt provides the MQTT client for Roomboard Core.
//
// Roomboard publishes booking-change and sync-lifecycle notifications so
// wall-panel displays refresh without polling the HTTP API. The package
// wraps paho.mqtt.golang with:
//
//   - Connection management with auto-reconnect and exponential backoff
//   - Last Will and Testament for offline detection
//   - Publish with payload validation and timeouts
//   - Consistent topic construction via Topics builders
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	topic := mqtt.Topics{}.BookingsBucket("2025-06")
//	client.PublishRetained(topic, payload)
package mqtt
