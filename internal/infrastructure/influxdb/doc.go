// Package influxdb provides InfluxDB connectivity for Roomboard Core.
//
// It wraps the official influxdb-client-go v2 library with Roomboard-specific
// patterns for connection management, metric writing, and health monitoring.
//
// # Purpose
//
// This package handles time-series sync telemetry:
//   - Per-bucket sync outcomes (record counts, durations)
//   - Full sync pass summaries
//   - Remote fetch failures (rate limits, outages)
//
// # Usage
//
//	cfg := config.InfluxDBConfig{
//	    URL:    "http://localhost:8086",
//	    Token:  "your-token",
//	    Org:    "roomboard",
//	    Bucket: "telemetry",
//	}
//
//	client, err := influxdb.Connect(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.WriteBucketSync("2025-06", 42, 830*time.Millisecond, true)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are logged via a callback.
// Connection and health check errors are returned directly.
package influxdb
