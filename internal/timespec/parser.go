// Package timespec parses the time bounds accepted by 'moot sessions'.
package timespec

import (
	"fmt"
	"time"
)

const dateOnly = "2006-01-02"

// Parse converts a time specification into a Unix millisecond timestamp.
// Three forms are accepted:
//   - a Go duration ("30m", "1h30m"), meaning that long before now
//   - an RFC3339 timestamp ("2026-08-26T13:00:00Z")
//   - a bare date ("2026-08-26"), meaning midnight UTC on that day
func Parse(spec string) (int64, error) {
	if spec == "" {
		return 0, fmt.Errorf("empty time specification")
	}

	if d, err := time.ParseDuration(spec); err == nil {
		return time.Now().Add(-d).UnixMilli(), nil
	}

	if t, err := time.Parse(time.RFC3339, spec); err == nil {
		return t.UnixMilli(), nil
	}

	if t, err := time.Parse(dateOnly, spec); err == nil {
		return t.UnixMilli(), nil
	}

	return 0, fmt.Errorf("invalid time specification: %s (use a duration like '1h30m', a date like '2026-08-26', or RFC3339)", spec)
}

// ParseRange parses the --since and --until flags into millisecond bounds.
// An empty flag leaves its bound at zero, meaning unbounded. When both are
// given, since must fall before until.
func ParseRange(since, until string) (sinceMs, untilMs int64, err error) {
	if since != "" {
		if sinceMs, err = Parse(since); err != nil {
			return 0, 0, fmt.Errorf("invalid --since: %w", err)
		}
	}

	if until != "" {
		if untilMs, err = Parse(until); err != nil {
			return 0, 0, fmt.Errorf("invalid --until: %w", err)
		}
	}

	if sinceMs > 0 && untilMs > 0 && sinceMs >= untilMs {
		return 0, 0, fmt.Errorf("--since must be before --until")
	}

	return sinceMs, untilMs, nil
}
