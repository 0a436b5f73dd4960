// Roomboard Core - Room Booking Calendar Service
//
// This is the main entry point for the Roomboard Core application.
// Roomboard keeps wall panels and dashboards fed with a unified view of
// room calendars and booking customer data:
//   - Live calendar events fetched per room, never persisted
//   - Booking records synced into a month-partitioned local store
//   - Fuzzy reconciliation joining the two systems without a shared key
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/roomboard/roomboard-core/migrations"

	"github.com/roomboard/roomboard-core/internal/api"
	"github.com/roomboard/roomboard-core/internal/booking"
	"github.com/roomboard/roomboard-core/internal/directory"
	"github.com/roomboard/roomboard-core/internal/infrastructure/config"
	"github.com/roomboard/roomboard-core/internal/infrastructure/database"
	"github.com/roomboard/roomboard-core/internal/infrastructure/influxdb"
	"github.com/roomboard/roomboard-core/internal/infrastructure/logging"
	"github.com/roomboard/roomboard-core/internal/infrastructure/mqtt"
	"github.com/roomboard/roomboard-core/internal/remote"
	"github.com/roomboard/roomboard-core/internal/sync"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Roomboard Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Load room directory from file into the repository
	roomRepo := directory.NewSQLiteRepository(db.DB)
	loaded, err := directory.SyncFromFile(ctx, roomRepo, cfg.Directory.Path)
	if err != nil {
		return fmt.Errorf("loading room directory: %w", err)
	}
	log.Info("room directory loaded", "path", cfg.Directory.Path, "rooms", loaded)

	store := booking.NewSQLiteStore(db.DB)

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
	} else {
		log.Info("MQTT disabled, broadcasts go to WebSocket clients only")
	}

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Remote API clients
	calendarClient := remote.NewCalendarClient(
		cfg.Calendar.BaseURL,
		cfg.Calendar.PageSize,
		time.Duration(cfg.Calendar.Timeout)*time.Second,
		tokenProvider(cfg.Calendar.Auth),
		log,
	)
	bookingsClient := remote.NewBookingsClient(
		cfg.Bookings.BaseURL,
		cfg.Bookings.PageSize,
		time.Duration(cfg.Bookings.Timeout)*time.Second,
		tokenProvider(cfg.Bookings.Auth),
		log,
	)

	// WebSocket hub is shared between the API server and the sync
	// broadcaster so lifecycle events reach connected panels.
	hub := api.NewHub(cfg.WebSocket, log)
	go hub.Run(ctx)

	broadcaster := api.NewSyncBroadcaster(hub, mqttClient, log)

	opts := sync.Options{Notifier: broadcaster}
	if influxClient != nil {
		opts.Metrics = &influxMetrics{client: influxClient}
	}
	syncService := sync.New(store, bookingsClient, cfg.Bookings.Businesses, cfg.Location(), log, opts)

	// Background sync runner
	runner := sync.NewRunner(syncService, cfg.Sync.Schedule,
		time.Duration(cfg.Sync.WarmupSeconds)*time.Second, log)
	if err := runner.Start(ctx); err != nil {
		return fmt.Errorf("starting sync runner: %w", err)
	}
	defer func() {
		log.Info("stopping sync runner")
		runner.Stop()
	}()
	log.Info("sync runner started",
		"schedule", cfg.Sync.Schedule,
		"warmup_seconds", cfg.Sync.WarmupSeconds,
	)

	// API server
	server, err := api.New(api.Deps{
		Config:      cfg.API,
		WS:          cfg.WebSocket,
		Security:    cfg.Security,
		Logger:      log,
		Rooms:       roomRepo,
		Store:       store,
		Sync:        syncService,
		Calendar:    calendarClient,
		ExternalHub: hub,
		Location:    cfg.Location(),
		Version:     version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	// Verify infrastructure connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. API server
	// 2. Sync runner
	// 3. InfluxDB (if enabled)
	// 4. MQTT (if enabled)
	// 5. Database

	log.Info("Roomboard Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses ROOMBOARD_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("ROOMBOARD_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// tokenProvider builds the auth strategy for a remote API: client
// credentials when a token URL is configured, otherwise a static token.
func tokenProvider(cfg config.AuthConfig) remote.TokenProvider {
	if cfg.TokenURL != "" {
		return remote.NewClientCredentialsProvider(cfg.TokenURL, cfg.ClientID, cfg.ClientSecret, cfg.Scopes)
	}
	return remote.NewStaticTokenProvider(cfg.StaticToken)
}

// healthCheck verifies all infrastructure connections are healthy.
// MQTT and InfluxDB are skipped when disabled.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}

// influxMetrics adapts the InfluxDB client to the sync metrics interface.
type influxMetrics struct {
	client *influxdb.Client
}

func (m *influxMetrics) BucketSync(bucketKey string, records int, duration time.Duration, ok bool) {
	m.client.WriteBucketSync(bucketKey, records, duration, ok)
}

func (m *influxMetrics) SyncPass(monthsSynced, totalRecords int, duration time.Duration) {
	m.client.WriteSyncPass(monthsSynced, totalRecords, duration)
}

func (m *influxMetrics) FetchFailure(source, target string) {
	m.client.WriteFetchFailure(source, target)
}
