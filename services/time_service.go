package services

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// LocalISOLayout is an ISO-8601 timestamp with milliseconds and a numeric
// offset, e.g. 2025-09-19T20:29:12.498+05:30. UTC renders as +00:00.
const LocalISOLayout = "2006-01-02T15:04:05.000-07:00"

var tzSuffix = regexp.MustCompile(`(?:[zZ]|[+-]\d{2}:?\d{2})$`)

var parseLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999-0700",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999-0700",
}

// FormatLocalISO formats t in its own location using LocalISOLayout.
func FormatLocalISO(t time.Time) string {
	return t.Format(LocalISOLayout)
}

// HasTimezone reports whether s ends with Z/z or a numeric offset.
func HasTimezone(s string) bool {
	return tzSuffix.MatchString(strings.TrimSpace(s))
}

// ParseActivityTime parses a chat-service timestamp. A value without a
// timezone marker is taken as UTC; otherwise its offset is kept.
func ParseActivityTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if !HasTimezone(s) {
		s += "Z"
	} else if strings.HasSuffix(s, "z") {
		s = s[:len(s)-1] + "Z"
	}

	var lastErr error
	for _, layout := range parseLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, lastErr)
}
