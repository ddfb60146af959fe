package session

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dyluth/moot/pkg/council"
)

func TestFormatTable(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		var buf bytes.Buffer
		count := FormatTable(&buf, nil, "test-instance")
		assert.Zero(t, count)
		assert.Contains(t, buf.String(), "No sessions found")
	})

	t.Run("truncates long IDs and queries", func(t *testing.T) {
		sessions := []*council.StageState{
			{
				SessionID:   "550e8400-e29b-41d4-a716-446655440000",
				Query:       strings.Repeat("long query ", 10),
				StartedAtMs: time.Now().UnixMilli(),
			},
		}

		var buf bytes.Buffer
		count := FormatTable(&buf, sessions, "test-instance")
		assert.Equal(t, 1, count)

		output := buf.String()
		assert.Contains(t, output, "550e8400")
		assert.NotContains(t, output, "550e8400-e29b")
		assert.Contains(t, output, "...")
		assert.Contains(t, output, "1 session found")
	})

	t.Run("multiline query shows first line", func(t *testing.T) {
		sessions := []*council.StageState{
			{
				SessionID:   "550e8400-e29b-41d4-a716-446655440000",
				Query:       "\n\nAAPL\nignored second line",
				StartedAtMs: time.Now().UnixMilli(),
			},
		}

		var buf bytes.Buffer
		FormatTable(&buf, sessions, "test-instance")
		assert.Contains(t, buf.String(), "AAPL")
		assert.NotContains(t, buf.String(), "ignored second line")
	})
}

func TestFormatAnalystCount(t *testing.T) {
	t.Run("no reports", func(t *testing.T) {
		s := &council.StageState{}
		assert.Equal(t, "-", formatAnalystCount(s))
	})

	t.Run("all healthy", func(t *testing.T) {
		s := &council.StageState{AnalystReports: map[council.Role]council.Report{
			council.RoleMarket: {Role: council.RoleMarket, Content: "up"},
			council.RoleNews:   {Role: council.RoleNews, Content: "calm"},
		}}
		assert.Equal(t, "2", formatAnalystCount(s))
	})

	t.Run("with sentinels", func(t *testing.T) {
		s := &council.StageState{AnalystReports: map[council.Role]council.Report{
			council.RoleMarket: {Role: council.RoleMarket, Content: "up"},
			council.RoleNews:   {Role: council.RoleNews, Content: "failed", Sentinel: true, FailureKind: "timeout"},
		}}
		assert.Equal(t, "1+1!", formatAnalystCount(s))
	})
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "-", formatTimestamp(0))

	now := time.Now()
	assert.Contains(t, formatTimestamp(now.Add(-30*time.Second).UnixMilli()), "s ago")
	assert.Contains(t, formatTimestamp(now.Add(-5*time.Minute).UnixMilli()), "m ago")
	assert.Contains(t, formatTimestamp(now.Add(-3*time.Hour).UnixMilli()), "h ago")
	assert.Contains(t, formatTimestamp(now.Add(-48*time.Hour).UnixMilli()), "d ago")
}
