package directory

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Validation limits for directory entries.
const (
	maxIDLength   = 200
	maxNameLength = 100
)

// ValidateRoom validates a Room before persistence.
func ValidateRoom(r *Room) error {
	id := strings.TrimSpace(r.ID)
	if id == "" {
		return fmt.Errorf("%w: id cannot be empty", ErrInvalidRoom)
	}
	if len(id) > maxIDLength {
		return fmt.Errorf("%w: id exceeds %d characters", ErrInvalidRoom, maxIDLength)
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidRoom)
	}
	if len(r.Name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidRoom, maxNameLength)
	}
	if r.Capacity < 0 {
		return fmt.Errorf("%w: capacity cannot be negative", ErrInvalidRoom)
	}
	return nil
}

// Repository defines the interface for room persistence operations.
type Repository interface {
	// UpsertRoom inserts a room or updates its directory fields by ID.
	// The hidden flag is preserved on update so an operator's choice
	// survives directory reloads.
	UpsertRoom(ctx context.Context, room *Room) error

	// ListRooms returns all rooms ordered by name.
	ListRooms(ctx context.Context) ([]Room, error)

	// ListVisibleRooms returns rooms not marked hidden, ordered by name.
	ListVisibleRooms(ctx context.Context) ([]Room, error)

	// GetRoom returns a single room by ID, or ErrRoomNotFound.
	GetRoom(ctx context.Context, id string) (*Room, error)

	// SetHidden toggles a room's hidden flag, or ErrRoomNotFound.
	SetHidden(ctx context.Context, id string, hidden bool) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed room repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// UpsertRoom inserts or updates a room record.
func (r *SQLiteRepository) UpsertRoom(ctx context.Context, room *Room) error {
	if err := ValidateRoom(room); err != nil {
		return err
	}
	const query = `INSERT INTO rooms (id, name, contact_address, capacity, color_tag, hidden)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			contact_address = excluded.contact_address,
			capacity = excluded.capacity,
			color_tag = excluded.color_tag,
			updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')`
	_, err := r.db.ExecContext(ctx, query,
		room.ID, room.Name, room.ContactAddress, room.Capacity, room.ColorTag,
		boolToInt(room.Hidden))
	if err != nil {
		return fmt.Errorf("upserting room %s: %w", room.ID, err)
	}
	return nil
}

// ListRooms returns all rooms ordered by name.
func (r *SQLiteRepository) ListRooms(ctx context.Context) ([]Room, error) {
	const query = `SELECT id, name, contact_address, capacity, color_tag, hidden,
		created_at, updated_at FROM rooms ORDER BY name, id`
	return r.queryRooms(ctx, query)
}

// ListVisibleRooms returns rooms not marked hidden, ordered by name.
func (r *SQLiteRepository) ListVisibleRooms(ctx context.Context) ([]Room, error) {
	const query = `SELECT id, name, contact_address, capacity, color_tag, hidden,
		created_at, updated_at FROM rooms WHERE hidden = 0 ORDER BY name, id`
	return r.queryRooms(ctx, query)
}

// GetRoom returns a single room by ID.
func (r *SQLiteRepository) GetRoom(ctx context.Context, id string) (*Room, error) {
	const query = `SELECT id, name, contact_address, capacity, color_tag, hidden,
		created_at, updated_at FROM rooms WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var rm Room
	var hidden int
	var createdAt, updatedAt string
	err := row.Scan(&rm.ID, &rm.Name, &rm.ContactAddress, &rm.Capacity,
		&rm.ColorTag, &hidden, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("scanning room: %w", err)
	}
	rm.Hidden = hidden != 0
	rm.CreatedAt = parseTime(createdAt)
	rm.UpdatedAt = parseTime(updatedAt)
	return &rm, nil
}

// SetHidden toggles a room's hidden flag.
func (r *SQLiteRepository) SetHidden(ctx context.Context, id string, hidden bool) error {
	const query = `UPDATE rooms SET hidden = ?,
		updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
		WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, boolToInt(hidden), id)
	if err != nil {
		return fmt.Errorf("updating room %s: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrRoomNotFound
	}
	return nil
}

// queryRooms executes a query and returns a slice of Room.
func (r *SQLiteRepository) queryRooms(ctx context.Context, query string, args ...any) ([]Room, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying rooms: %w", err)
	}
	defer rows.Close()

	var rooms []Room
	for rows.Next() {
		var rm Room
		var hidden int
		var createdAt, updatedAt string
		if err := rows.Scan(&rm.ID, &rm.Name, &rm.ContactAddress, &rm.Capacity,
			&rm.ColorTag, &hidden, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning room row: %w", err)
		}
		rm.Hidden = hidden != 0
		rm.CreatedAt = parseTime(createdAt)
		rm.UpdatedAt = parseTime(updatedAt)
		rooms = append(rooms, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating room rows: %w", err)
	}
	return rooms, nil
}

// boolToInt converts a bool to the 0/1 SQLite stores for flags.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// parseTime parses an ISO 8601 timestamp from SQLite.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		// SQLite default format without timezone.
		t, err = time.Parse("2006-01-02T15:04:05Z", s)
		if err != nil {
			return time.Time{}
		}
	}
	return t
}
