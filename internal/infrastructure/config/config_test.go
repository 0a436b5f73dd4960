package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeConfig writes a temporary config file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	configPath := writeConfig(t, `
service:
  id: "board-01"
  name: "Head Office"
  timezone: "Europe/Bucharest"
database:
  path: "/tmp/roomboard-test.db"
bookings:
  base_url: "https://bookings.example.com/v1.0"
  businesses:
    - "office@example.com"
calendar:
  base_url: "https://calendar.example.com/v1.0"
sync:
  months_ahead: 12
  months_behind: 6
api:
  host: "0.0.0.0"
  port: 8080
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Service.ID != "board-01" {
		t.Errorf("Service.ID = %q, want %q", cfg.Service.ID, "board-01")
	}
	if cfg.Database.Path != "/tmp/roomboard-test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/tmp/roomboard-test.db")
	}
	if len(cfg.Bookings.Businesses) != 1 || cfg.Bookings.Businesses[0] != "office@example.com" {
		t.Errorf("Bookings.Businesses = %v, want [office@example.com]", cfg.Bookings.Businesses)
	}
	if cfg.Location().String() != "Europe/Bucharest" {
		t.Errorf("Location() = %q, want Europe/Bucharest", cfg.Location())
	}
}

func TestLoad_Defaults(t *testing.T) {
	configPath := writeConfig(t, `
service:
  id: "board-01"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Sync.MonthsAhead != 12 {
		t.Errorf("Sync.MonthsAhead = %d, want 12", cfg.Sync.MonthsAhead)
	}
	if cfg.Sync.MonthsBehind != 6 {
		t.Errorf("Sync.MonthsBehind = %d, want 6", cfg.Sync.MonthsBehind)
	}
	if cfg.Sync.Schedule != "@every 5m" {
		t.Errorf("Sync.Schedule = %q, want @every 5m", cfg.Sync.Schedule)
	}
	if cfg.API.Port != 8080 {
		t.Errorf("API.Port = %d, want 8080", cfg.API.Port)
	}
	if cfg.Security.WSTicket.TTLSeconds != 30 {
		t.Errorf("WSTicket.TTLSeconds = %d, want 30", cfg.Security.WSTicket.TTLSeconds)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := writeConfig(t, "invalid: [yaml: content")

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "empty service id",
			content: `
service:
  id: ""
`,
			wantErr: "service.id is required",
		},
		{
			name: "bad timezone",
			content: `
service:
  id: "board-01"
  timezone: "Mars/Olympus"
`,
			wantErr: "service.timezone",
		},
		{
			name: "negative months",
			content: `
service:
  id: "board-01"
sync:
  months_ahead: -1
`,
			wantErr: "sync.months_ahead",
		},
		{
			name: "short ws ticket secret",
			content: `
service:
  id: "board-01"
security:
  ws_ticket:
    secret: "too-short"
`,
			wantErr: "ws_ticket.secret",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := writeConfig(t, tt.content)
			_, err := Load(configPath)
			if err == nil {
				t.Fatalf("Load() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	configPath := writeConfig(t, `
service:
  id: "board-01"
database:
  path: "/tmp/file-value.db"
`)

	t.Setenv("ROOMBOARD_DATABASE_PATH", "/tmp/env-value.db")
	t.Setenv("ROOMBOARD_BOOKINGS_CLIENT_SECRET", "env-secret")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "/tmp/env-value.db" {
		t.Errorf("Database.Path = %q, want env override", cfg.Database.Path)
	}
	if cfg.Bookings.Auth.ClientSecret != "env-secret" {
		t.Errorf("Bookings.Auth.ClientSecret = %q, want env override", cfg.Bookings.Auth.ClientSecret)
	}
}
