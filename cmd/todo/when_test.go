package main

import (
	"testing"
	"time"
)

func TestParseWhen(t *testing.T) {
	loc := time.FixedZone("test", 2*3600)
	now := time.Date(2026, 3, 10, 14, 30, 0, 0, loc)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"", now.Add(time.Hour)},
		{"+45m", now.Add(45 * time.Minute)},
		{"+1h30m", now.Add(90 * time.Minute)},
		{"18:00", time.Date(2026, 3, 10, 18, 0, 0, 0, loc)},
		{"09:15", time.Date(2026, 3, 11, 9, 15, 0, 0, loc)},
		{"14:30", time.Date(2026, 3, 11, 14, 30, 0, 0, loc)},
		{"2026-04-01 08:00", time.Date(2026, 4, 1, 8, 0, 0, 0, loc)},
		{"2026-04-01T08:00", time.Date(2026, 4, 1, 8, 0, 0, 0, loc)},
		{"2026-04-01T08:00:00Z", time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := parseWhen(tt.in, now, time.Hour)
		if err != nil {
			t.Errorf("parseWhen(%q): %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("parseWhen(%q)=%v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseWhenInvalid(t *testing.T) {
	now := time.Now()
	for _, in := range []string{"tomorrow", "+", "+-5m", "+0s", "25:00", "2026-13-01 10:00"} {
		if _, err := parseWhen(in, now, time.Hour); err == nil {
			t.Errorf("parseWhen(%q) expected error", in)
		}
	}
}
