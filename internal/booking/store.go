package booking

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Store defines the interface for booking persistence operations.
// The store is partitioned by calendar-month bucket; every write replaces a
// whole bucket at once.
type Store interface {
	// ReplaceMonth atomically replaces the contents of one bucket: all old
	// records for the bucket are removed, the new set is inserted, and the
	// bucket metadata is updated, as a single transaction. A concurrent
	// reader sees either the fully-old or fully-new set, never a mix.
	ReplaceMonth(ctx context.Context, bucketKey string, records []Record, syncedAt time.Time) error

	// ListMonth returns all records stored under a bucket, ascending by start.
	ListMonth(ctx context.Context, bucketKey string) ([]Record, error)

	// ListRange returns records whose start falls within [start, end]
	// inclusive, ascending by start, regardless of bucket.
	ListRange(ctx context.Context, start, end time.Time) ([]Record, error)

	// MonthMeta returns the sync metadata for a bucket, or ErrMonthNotSynced
	// if the bucket has never been synced.
	MonthMeta(ctx context.Context, bucketKey string) (*MonthMeta, error)

	// ListMonthMeta returns metadata for every synced bucket, ascending by key.
	ListMonthMeta(ctx context.Context) ([]MonthMeta, error)

	// TotalCount returns the number of stored records across all buckets.
	TotalCount(ctx context.Context) (int, error)

	// ClearAll removes every record and all bucket metadata.
	ClearAll(ctx context.Context) error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed booking store.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// bookingColumns is the column list shared by every SELECT in this file.
const bookingColumns = `id, service_id, service_name, customer_name, customer_email,
	customer_phone, customer_notes, service_notes, start_time, start_zone,
	end_time, end_zone, location_name, location_address_hint, location_uri_hint, answers`

// ReplaceMonth atomically replaces a bucket's contents.
func (s *SQLiteStore) ReplaceMonth(ctx context.Context, bucketKey string, records []Record, syncedAt time.Time) error {
	if _, err := ParseBucketKey(bucketKey, time.UTC); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning bucket replace: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	// Metadata first: bookings carry a foreign key to booking_months.
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO booking_months (bucket_key, last_synced_at, record_count)
		VALUES (?, ?, ?)
		ON CONFLICT(bucket_key) DO UPDATE SET
			last_synced_at = excluded.last_synced_at,
			record_count = excluded.record_count`,
		bucketKey, syncedAt.UTC().Format(time.RFC3339), len(records),
	); err != nil {
		return fmt.Errorf("updating bucket metadata %s: %w", bucketKey, err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM bookings WHERE bucket_key = ?`, bucketKey,
	); err != nil {
		return fmt.Errorf("clearing bucket %s: %w", bucketKey, err)
	}

	// OR REPLACE handles a booking rescheduled across months: its id is
	// global, so the insert evicts the row still sitting in the old bucket
	// and the record keeps living in exactly one bucket.
	const insert = `INSERT OR REPLACE INTO bookings (id, bucket_key, service_id, service_name,
		customer_name, customer_email, customer_phone, customer_notes, service_notes,
		start_time, start_zone, end_time, end_zone,
		location_name, location_address_hint, location_uri_hint, answers)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	for _, rec := range records {
		answers, err := json.Marshal(rec.Answers)
		if err != nil {
			return fmt.Errorf("encoding answers for booking %s: %w", rec.ID, err)
		}
		if _, err := tx.ExecContext(ctx, insert,
			rec.ID, bucketKey, rec.ServiceID, rec.ServiceName,
			rec.CustomerName, rec.CustomerEmail, rec.CustomerPhone,
			rec.CustomerNotes, rec.ServiceNotes,
			rec.Start.Time.UTC().Format(time.RFC3339), rec.Start.Zone,
			rec.End.Time.UTC().Format(time.RFC3339), rec.End.Zone,
			rec.Location.DisplayName, rec.Location.AddressHint, rec.Location.URIHint,
			string(answers),
		); err != nil {
			return fmt.Errorf("inserting booking %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing bucket replace %s: %w", bucketKey, err)
	}
	return nil
}

// ListMonth returns all records stored under a bucket, ascending by start.
func (s *SQLiteStore) ListMonth(ctx context.Context, bucketKey string) ([]Record, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings WHERE bucket_key = ? ORDER BY start_time, id`
	return s.queryRecords(ctx, query, bucketKey)
}

// ListRange returns records whose start falls within [start, end] inclusive.
// Times are stored as RFC3339 UTC strings, so lexical comparison matches
// chronological order.
func (s *SQLiteStore) ListRange(ctx context.Context, start, end time.Time) ([]Record, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings WHERE start_time >= ? AND start_time <= ?
		ORDER BY start_time, id`
	return s.queryRecords(ctx, query,
		start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339))
}

// MonthMeta returns the sync metadata for a bucket.
func (s *SQLiteStore) MonthMeta(ctx context.Context, bucketKey string) (*MonthMeta, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT bucket_key, last_synced_at, record_count
		FROM booking_months WHERE bucket_key = ?`, bucketKey)

	var meta MonthMeta
	var syncedAt string
	if err := row.Scan(&meta.BucketKey, &syncedAt, &meta.RecordCount); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrMonthNotSynced
		}
		return nil, fmt.Errorf("scanning bucket metadata %s: %w", bucketKey, err)
	}
	meta.LastSyncedAt, _ = time.Parse(time.RFC3339, syncedAt) //nolint:errcheck // Format is controlled
	return &meta, nil
}

// ListMonthMeta returns metadata for every synced bucket, ascending by key.
func (s *SQLiteStore) ListMonthMeta(ctx context.Context) ([]MonthMeta, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT bucket_key, last_synced_at, record_count
		FROM booking_months ORDER BY bucket_key`)
	if err != nil {
		return nil, fmt.Errorf("querying bucket metadata: %w", err)
	}
	defer rows.Close()

	var metas []MonthMeta
	for rows.Next() {
		var meta MonthMeta
		var syncedAt string
		if err := rows.Scan(&meta.BucketKey, &syncedAt, &meta.RecordCount); err != nil {
			return nil, fmt.Errorf("scanning bucket metadata row: %w", err)
		}
		meta.LastSyncedAt, _ = time.Parse(time.RFC3339, syncedAt) //nolint:errcheck // Format is controlled
		metas = append(metas, meta)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bucket metadata rows: %w", err)
	}
	return metas, nil
}

// TotalCount returns the number of stored records across all buckets.
func (s *SQLiteStore) TotalCount(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting bookings: %w", err)
	}
	return count, nil
}

// ClearAll removes every record and all bucket metadata in one transaction.
func (s *SQLiteStore) ClearAll(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning clear: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM bookings`); err != nil {
		return fmt.Errorf("clearing bookings: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM booking_months`); err != nil {
		return fmt.Errorf("clearing bucket metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing clear: %w", err)
	}
	return nil
}

// queryRecords executes a query and scans the rows into Records.
func (s *SQLiteStore) queryRecords(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying bookings: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning booking row: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating booking rows: %w", err)
	}
	return records, nil
}

// scanRecord scans a single booking row.
func scanRecord(rows *sql.Rows) (*Record, error) {
	var rec Record
	var startTime, endTime, answers string

	if err := rows.Scan(
		&rec.ID, &rec.ServiceID, &rec.ServiceName,
		&rec.CustomerName, &rec.CustomerEmail, &rec.CustomerPhone,
		&rec.CustomerNotes, &rec.ServiceNotes,
		&startTime, &rec.Start.Zone, &endTime, &rec.End.Zone,
		&rec.Location.DisplayName, &rec.Location.AddressHint, &rec.Location.URIHint,
		&answers,
	); err != nil {
		return nil, err
	}

	var err error
	if rec.Start.Time, err = time.Parse(time.RFC3339, startTime); err != nil {
		return nil, fmt.Errorf("parsing start time %q: %w", startTime, err)
	}
	if rec.End.Time, err = time.Parse(time.RFC3339, endTime); err != nil {
		return nil, fmt.Errorf("parsing end time %q: %w", endTime, err)
	}
	if err := json.Unmarshal([]byte(answers), &rec.Answers); err != nil {
		return nil, fmt.Errorf("decoding answers: %w", err)
	}

	return &rec, nil
}
