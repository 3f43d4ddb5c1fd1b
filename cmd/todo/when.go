package main

import (
	"fmt"
	"strings"
	"time"
)

var whenLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseWhen understands absolute times in local time, "+1h30m" style
// offsets from now, a bare "15:04" meaning the next such clock time, and
// an empty string meaning now plus lead.
func parseWhen(s string, now time.Time, lead time.Duration) (time.Time, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return now.Add(lead), nil
	case strings.HasPrefix(s, "+"):
		d, err := time.ParseDuration(s[1:])
		if err != nil || d <= 0 {
			return time.Time{}, fmt.Errorf("invalid offset %q", s)
		}
		return now.Add(d), nil
	}

	if t, err := time.ParseInLocation("15:04", s, now.Location()); err == nil {
		at := time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location())
		if !at.After(now) {
			at = at.AddDate(0, 0, 1)
		}
		return at, nil
	}
	for _, layout := range whenLayouts {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}
