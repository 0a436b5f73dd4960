package booking

import (
	"errors"
	"testing"
	"time"
)

func TestBucketKeyFor(t *testing.T) {
	bucharest, err := time.LoadLocation("Europe/Bucharest")
	if err != nil {
		t.Fatalf("loading location: %v", err)
	}

	tests := []struct {
		name string
		at   time.Time
		loc  *time.Location
		want string
	}{
		{
			name: "utc mid-month",
			at:   time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
			loc:  time.UTC,
			want: "2025-06",
		},
		{
			name: "nil location defaults to utc",
			at:   time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
			loc:  nil,
			want: "2025-06",
		},
		{
			name: "month boundary shifts under local zone",
			// 22:30 UTC on 30 June is already 1 July in Bucharest (UTC+3).
			at:   time.Date(2025, 6, 30, 22, 30, 0, 0, time.UTC),
			loc:  bucharest,
			want: "2025-07",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BucketKeyFor(tt.at, tt.loc); got != tt.want {
				t.Errorf("BucketKeyFor() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseBucketKey(t *testing.T) {
	got, err := ParseBucketKey("2025-06", time.UTC)
	if err != nil {
		t.Fatalf("ParseBucketKey: %v", err)
	}
	want := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseBucketKey() = %v, want %v", got, want)
	}

	for _, key := range []string{"", "2025", "2025-6", "June 2025", "2025-13"} {
		if _, err := ParseBucketKey(key, time.UTC); !errors.Is(err, ErrInvalidBucketKey) {
			t.Errorf("ParseBucketKey(%q) error = %v, want ErrInvalidBucketKey", key, err)
		}
	}
}

func TestMonthRange(t *testing.T) {
	start, end, err := MonthRange("2025-02", time.UTC)
	if err != nil {
		t.Fatalf("MonthRange: %v", err)
	}
	wantStart := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2025, 2, 28, 23, 59, 59, 0, time.UTC)
	if !start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", start, wantStart)
	}
	if !end.Equal(wantEnd) {
		t.Errorf("end = %v, want %v", end, wantEnd)
	}
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		key    string
		offset int
		want   string
	}{
		{"2025-06", 0, "2025-06"},
		{"2025-06", 1, "2025-07"},
		{"2025-06", -6, "2024-12"},
		{"2025-12", 1, "2026-01"},
		{"2025-01", -1, "2024-12"},
	}

	for _, tt := range tests {
		got, err := AddMonths(tt.key, tt.offset, time.UTC)
		if err != nil {
			t.Fatalf("AddMonths(%q, %d): %v", tt.key, tt.offset, err)
		}
		if got != tt.want {
			t.Errorf("AddMonths(%q, %d) = %q, want %q", tt.key, tt.offset, got, tt.want)
		}
	}
}
