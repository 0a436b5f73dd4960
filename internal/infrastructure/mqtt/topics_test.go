package mqtt

import (
	"testing"

	"github.com/roomboard/roomboard-core/internal/infrastructure/config"
)

func TestTopicBuilders(t *testing.T) {
	topics := Topics{}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"bookings bucket", topics.BookingsBucket("2025-06"), "roomboard/bookings/2025-06"},
		{"sync started", topics.SyncStarted(), "roomboard/sync/started"},
		{"sync progress", topics.SyncProgress(), "roomboard/sync/progress"},
		{"sync completed", topics.SyncCompleted(), "roomboard/sync/completed"},
		{"system status", topics.SystemStatus(), "roomboard/system/status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestBuildClientOptions(t *testing.T) {
	cfg := config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{
			Host:     "broker.local",
			Port:     1883,
			ClientID: "roomboard-test",
		},
		Auth: config.MQTTAuthConfig{
			Username: "panel",
			Password: "secret",
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     60,
		},
	}

	opts := buildClientOptions(cfg)

	if len(opts.Servers) != 1 {
		t.Fatalf("expected 1 broker, got %d", len(opts.Servers))
	}
	if got := opts.Servers[0].String(); got != "tcp://broker.local:1883" {
		t.Errorf("broker URL = %q, want tcp://broker.local:1883", got)
	}
	if opts.ClientID != "roomboard-test" {
		t.Errorf("client ID = %q, want roomboard-test", opts.ClientID)
	}
	if opts.Username != "panel" {
		t.Errorf("username = %q, want panel", opts.Username)
	}
}

func TestBuildClientOptions_TLS(t *testing.T) {
	cfg := config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{
			Host:     "broker.local",
			Port:     8883,
			TLS:      true,
			ClientID: "roomboard-test",
		},
	}

	opts := buildClientOptions(cfg)

	if got := opts.Servers[0].Scheme; got != "ssl" {
		t.Errorf("broker scheme = %q, want ssl", got)
	}
	if opts.TLSConfig == nil {
		t.Error("expected TLS config to be set")
	}
}
