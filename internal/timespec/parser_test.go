package timespec

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	t.Run("duration is relative to now", func(t *testing.T) {
		before := time.Now().Add(-time.Hour).UnixMilli()
		got, err := Parse("1h")
		if err != nil {
			t.Fatalf("Parse(1h) error: %v", err)
		}
		after := time.Now().Add(-time.Hour).UnixMilli()
		if got < before || got > after {
			t.Errorf("Parse(1h) = %d, want between %d and %d", got, before, after)
		}
	})

	t.Run("rfc3339", func(t *testing.T) {
		got, err := Parse("2026-08-26T13:00:00Z")
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		want := time.Date(2026, 8, 26, 13, 0, 0, 0, time.UTC).UnixMilli()
		if got != want {
			t.Errorf("Parse = %d, want %d", got, want)
		}
	})

	t.Run("bare date means midnight UTC", func(t *testing.T) {
		got, err := Parse("2026-08-26")
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		want := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC).UnixMilli()
		if got != want {
			t.Errorf("Parse = %d, want %d", got, want)
		}
	})

	t.Run("invalid specs", func(t *testing.T) {
		for _, spec := range []string{"", "yesterday", "26/08/2026", "1 hour"} {
			if _, err := Parse(spec); err == nil {
				t.Errorf("Parse(%q) expected error, got nil", spec)
			}
		}
	})
}

func TestParseRange(t *testing.T) {
	t.Run("both empty is unbounded", func(t *testing.T) {
		since, until, err := ParseRange("", "")
		if err != nil {
			t.Fatalf("ParseRange error: %v", err)
		}
		if since != 0 || until != 0 {
			t.Errorf("ParseRange = (%d, %d), want (0, 0)", since, until)
		}
	})

	t.Run("since must precede until", func(t *testing.T) {
		_, _, err := ParseRange("2026-08-26T13:00:00Z", "2026-08-26T12:00:00Z")
		if err == nil {
			t.Error("expected error for inverted range")
		}
	})

	t.Run("valid bounds", func(t *testing.T) {
		since, until, err := ParseRange("2026-08-25", "2026-08-26")
		if err != nil {
			t.Fatalf("ParseRange error: %v", err)
		}
		if since >= until {
			t.Errorf("since %d should be before until %d", since, until)
		}
	})

	t.Run("bad since flag", func(t *testing.T) {
		if _, _, err := ParseRange("nope", ""); err == nil {
			t.Error("expected error for bad --since")
		}
	})
}
