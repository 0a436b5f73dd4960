package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for Roomboard Core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	Database  DatabaseConfig  `yaml:"database"`
	Directory DirectoryConfig `yaml:"directory"`
	Calendar  CalendarConfig  `yaml:"calendar"`
	Bookings  BookingsConfig  `yaml:"bookings"`
	Sync      SyncConfig      `yaml:"sync"`
	API       APIConfig       `yaml:"api"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	InfluxDB  InfluxDBConfig  `yaml:"influxdb"`
	Logging   LoggingConfig   `yaml:"logging"`
	Security  SecurityConfig  `yaml:"security"`
}

// ServiceConfig contains deployment-specific information.
type ServiceConfig struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Timezone string `yaml:"timezone"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// DirectoryConfig points at the room directory file.
// The file lists every bookable room (id, display name, contact address).
type DirectoryConfig struct {
	Path string `yaml:"path"`
}

// CalendarConfig contains settings for the remote calendar-of-record API.
// Calendar events are fetched live per room and never persisted.
type CalendarConfig struct {
	BaseURL  string     `yaml:"base_url"`
	PageSize int        `yaml:"page_size"`
	Timeout  int        `yaml:"timeout"`
	Auth     AuthConfig `yaml:"auth"`
}

// BookingsConfig contains settings for the remote booking system API.
// Businesses is the list of booking "business" identifiers to pull from;
// each is fetched independently during a month sync.
type BookingsConfig struct {
	BaseURL    string     `yaml:"base_url"`
	Businesses []string   `yaml:"businesses"`
	PageSize   int        `yaml:"page_size"`
	Timeout    int        `yaml:"timeout"`
	Auth       AuthConfig `yaml:"auth"`
}

// AuthConfig contains credential settings for a remote API.
//
// Two modes are supported:
//   - Client credentials: TokenURL + ClientID + ClientSecret (+ Scopes)
//   - Static token: StaticToken (development and test harnesses)
type AuthConfig struct {
	TokenURL     string   `yaml:"token_url"`
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	Scopes       []string `yaml:"scopes"`
	StaticToken  string   `yaml:"static_token"`
}

// SyncConfig contains booking sync orchestration settings.
type SyncConfig struct {
	// MonthsAhead / MonthsBehind define the default sync window around the
	// current month (ahead + behind + current buckets in total).
	MonthsAhead  int `yaml:"months_ahead"`
	MonthsBehind int `yaml:"months_behind"`

	// WarmupSeconds is the delay before the first full sync after start.
	WarmupSeconds int `yaml:"warmup_seconds"`

	// Schedule is a cron spec for the recurring background sync.
	// Default: "@every 5m"
	Schedule string `yaml:"schedule"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	TLS      TLSConfig        `yaml:"tls"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// TLSConfig contains TLS certificate settings.
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// APITimeoutConfig contains HTTP timeout settings (seconds).
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// WebSocketConfig contains WebSocket server settings.
type WebSocketConfig struct {
	Path           string `yaml:"path"`
	MaxMessageSize int    `yaml:"max_message_size"`
	PingInterval   int    `yaml:"ping_interval"`
	PongTimeout    int    `yaml:"pong_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
// MQTT is optional: when disabled, bucket-change notifications are only
// delivered over WebSocket.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings (seconds).
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// InfluxDBConfig contains InfluxDB connection settings for sync telemetry.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// SecurityConfig contains security settings.
type SecurityConfig struct {
	// APIToken, when set, is required as a Bearer token on all API routes
	// except /health. Empty means open access (trusted LAN deployments).
	APIToken string `yaml:"api_token"`

	// WSTicket configures short-lived WebSocket auth tickets.
	WSTicket WSTicketConfig `yaml:"ws_ticket"`
}

// WSTicketConfig contains WebSocket ticket settings.
type WSTicketConfig struct {
	Secret     string `yaml:"secret"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: ROOMBOARD_SECTION_KEY
// For example: ROOMBOARD_DATABASE_PATH, ROOMBOARD_BOOKINGS_CLIENT_SECRET
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			ID:       "roomboard-001",
			Name:     "Roomboard",
			Timezone: "UTC",
		},
		Database: DatabaseConfig{
			Path:        "./data/roomboard.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		Directory: DirectoryConfig{
			Path: "configs/rooms.yaml",
		},
		Calendar: CalendarConfig{
			PageSize: 100,
			Timeout:  30,
		},
		Bookings: BookingsConfig{
			PageSize: 100,
			Timeout:  30,
		},
		Sync: SyncConfig{
			MonthsAhead:   12,
			MonthsBehind:  6,
			WarmupSeconds: 10,
			Schedule:      "@every 5m",
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 60,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			Path:           "/ws",
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "roomboard-core",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Security: SecurityConfig{
			WSTicket: WSTicketConfig{
				TTLSeconds: 30,
			},
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: ROOMBOARD_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Database
	if v := os.Getenv("ROOMBOARD_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// Remote API credentials (never committed to config files)
	if v := os.Getenv("ROOMBOARD_CALENDAR_CLIENT_SECRET"); v != "" {
		cfg.Calendar.Auth.ClientSecret = v
	}
	if v := os.Getenv("ROOMBOARD_BOOKINGS_CLIENT_SECRET"); v != "" {
		cfg.Bookings.Auth.ClientSecret = v
	}

	// API
	if v := os.Getenv("ROOMBOARD_API_HOST"); v != "" {
		cfg.API.Host = v
	}

	// MQTT
	if v := os.Getenv("ROOMBOARD_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("ROOMBOARD_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("ROOMBOARD_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// InfluxDB
	if v := os.Getenv("ROOMBOARD_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Security
	if v := os.Getenv("ROOMBOARD_API_TOKEN"); v != "" {
		cfg.Security.APIToken = v
	}
	if v := os.Getenv("ROOMBOARD_WS_TICKET_SECRET"); v != "" {
		cfg.Security.WSTicket.Secret = v
	}
}

// minWSTicketSecretLength is the minimum WebSocket ticket secret length.
// Shorter secrets make forged tickets feasible.
const minWSTicketSecretLength = 32

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []string

	if c.Service.ID == "" {
		errs = append(errs, "service.id is required")
	}
	if _, err := time.LoadLocation(c.Service.Timezone); err != nil {
		errs = append(errs, fmt.Sprintf("service.timezone %q is not a valid IANA zone", c.Service.Timezone))
	}

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	if c.Sync.MonthsAhead < 0 {
		errs = append(errs, "sync.months_ahead must not be negative")
	}
	if c.Sync.MonthsBehind < 0 {
		errs = append(errs, "sync.months_behind must not be negative")
	}
	if c.Sync.Schedule == "" {
		errs = append(errs, "sync.schedule is required")
	}

	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if c.MQTT.Enabled && (c.MQTT.QoS < 0 || c.MQTT.QoS > 2) {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	if c.Security.WSTicket.Secret != "" && len(c.Security.WSTicket.Secret) < minWSTicketSecretLength {
		errs = append(errs, "security.ws_ticket.secret must be at least 32 characters")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// Location returns the service's IANA timezone location.
// Validate guarantees the zone parses; on any later failure UTC is returned.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Service.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}
