package directory

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// roomsFile is the on-disk shape of the room directory file.
type roomsFile struct {
	Rooms []Room `yaml:"rooms"`
}

// LoadFile reads a room directory YAML file and validates every entry.
func LoadFile(path string) ([]Room, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading room directory %s: %w", path, err)
	}

	var file roomsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing room directory %s: %w", path, err)
	}

	seen := make(map[string]bool, len(file.Rooms))
	for i := range file.Rooms {
		if err := ValidateRoom(&file.Rooms[i]); err != nil {
			return nil, fmt.Errorf("room directory %s entry %d: %w", path, i, err)
		}
		if seen[file.Rooms[i].ID] {
			return nil, fmt.Errorf("%w: duplicate room id %q in %s",
				ErrInvalidRoom, file.Rooms[i].ID, path)
		}
		seen[file.Rooms[i].ID] = true
	}
	return file.Rooms, nil
}

// SyncFromFile loads the directory file and upserts every room into the
// repository. Rooms removed from the file are kept in the database so their
// stored bookings stay reachable; hiding is the operator's tool for
// retirement.
func SyncFromFile(ctx context.Context, repo Repository, path string) (int, error) {
	rooms, err := LoadFile(path)
	if err != nil {
		return 0, err
	}
	for i := range rooms {
		if err := repo.UpsertRoom(ctx, &rooms[i]); err != nil {
			return i, err
		}
	}
	return len(rooms), nil
}
