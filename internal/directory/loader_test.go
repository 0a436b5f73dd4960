package directory

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// writeRoomsFile writes a temporary rooms file and returns its path.
func writeRoomsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rooms.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write rooms file: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeRoomsFile(t, `
rooms:
  - id: room-a@rooms.example.com
    name: Board Room A
    contact_address: room-a@rooms.example.com
    capacity: 12
    color_tag: teal
  - id: room-b@rooms.example.com
    name: Huddle
    capacity: 4
`)

	rooms, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(rooms))
	}
	if rooms[0].ID != "room-a@rooms.example.com" || rooms[0].Capacity != 12 {
		t.Errorf("unexpected first room: %+v", rooms[0])
	}
	if rooms[1].ContactAddress != "" {
		t.Errorf("contact address should default empty, got %q", rooms[1].ContactAddress)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "rooms: [unclosed"},
		{"missing name", "rooms:\n  - id: room-a@rooms.example.com\n"},
		{
			"duplicate id",
			"rooms:\n" +
				"  - id: room-a@rooms.example.com\n    name: One\n" +
				"  - id: room-a@rooms.example.com\n    name: Two\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeRoomsFile(t, tt.content)
			if _, err := LoadFile(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	if _, err := LoadFile("/nonexistent/rooms.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSyncFromFile(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	path := writeRoomsFile(t, `
rooms:
  - id: room-a@rooms.example.com
    name: Board Room A
    capacity: 12
  - id: room-b@rooms.example.com
    name: Huddle
    capacity: 4
`)

	n, err := SyncFromFile(context.Background(), repo, path)
	if err != nil {
		t.Fatalf("SyncFromFile: %v", err)
	}
	if n != 2 {
		t.Errorf("synced %d rooms, want 2", n)
	}

	rooms, err := repo.ListRooms(context.Background())
	if err != nil {
		t.Fatalf("ListRooms: %v", err)
	}
	if len(rooms) != 2 {
		t.Errorf("expected 2 rooms in repository, got %d", len(rooms))
	}
}
