package session

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyluth/moot/pkg/council"
)

func setupClient(t *testing.T) *council.Client {
	t.Helper()
	mr := miniredis.RunT(t)

	client, err := council.NewClient(&redis.Options{Addr: mr.Addr()}, "test-instance")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client
}

func saveSession(t *testing.T, client *council.Client, query string, startedAtMs int64, mutate func(*council.StageState)) *council.StageState {
	t.Helper()
	state := &council.StageState{
		SessionID:   uuid.New().String(),
		Query:       query,
		StartedAtMs: startedAtMs,
	}
	if mutate != nil {
		mutate(state)
	}
	require.NoError(t, client.SaveSession(context.Background(), state))
	return state
}

func TestListSessions(t *testing.T) {
	t.Run("empty store - default format", func(t *testing.T) {
		client := setupClient(t)

		var buf bytes.Buffer
		err := ListSessions(context.Background(), client, "test-instance", OutputFormatDefault, nil, &buf)
		require.NoError(t, err)

		assert.Contains(t, buf.String(), "No sessions found for instance 'test-instance'")
	})

	t.Run("sessions sorted by start time", func(t *testing.T) {
		client := setupClient(t)
		saveSession(t, client, "TSLA", 2000, nil)
		saveSession(t, client, "AAPL", 1000, nil)

		var buf bytes.Buffer
		err := ListSessions(context.Background(), client, "test-instance", OutputFormatDefault, nil, &buf)
		require.NoError(t, err)

		output := buf.String()
		assert.Less(t, strings.Index(output, "AAPL"), strings.Index(output, "TSLA"))
		assert.Contains(t, output, "2 sessions found")
	})

	t.Run("JSONL format", func(t *testing.T) {
		client := setupClient(t)
		saved := saveSession(t, client, "AAPL", 1000, nil)

		var buf bytes.Buffer
		err := ListSessions(context.Background(), client, "test-instance", OutputFormatJSONL, nil, &buf)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 1)

		var decoded council.StageState
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &decoded))
		assert.Equal(t, saved.SessionID, decoded.SessionID)
		assert.Equal(t, "AAPL", decoded.Query)
	})

	t.Run("unknown format", func(t *testing.T) {
		client := setupClient(t)

		var buf bytes.Buffer
		err := ListSessions(context.Background(), client, "test-instance", OutputFormat("csv"), nil, &buf)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown output format")
	})
}

func TestListSessions_Filters(t *testing.T) {
	client := setupClient(t)

	saveSession(t, client, "AAPL", 1000, nil)
	saveSession(t, client, "TSLA", 2000, nil)
	done := saveSession(t, client, "AAPL deep dive", 3000, func(s *council.StageState) {
		s.FinalDecision = &council.Report{Role: council.RoleRiskManager, Content: "approved"}
	})

	t.Run("since filter", func(t *testing.T) {
		var buf bytes.Buffer
		filters := &FilterCriteria{SinceTimestampMs: 1500}
		err := ListSessions(context.Background(), client, "test-instance", OutputFormatDefault, filters, &buf)
		require.NoError(t, err)

		output := buf.String()
		assert.NotContains(t, output, "1000")
		assert.Contains(t, output, "2 sessions found")
	})

	t.Run("until filter", func(t *testing.T) {
		var buf bytes.Buffer
		filters := &FilterCriteria{UntilTimestampMs: 1500}
		err := ListSessions(context.Background(), client, "test-instance", OutputFormatDefault, filters, &buf)
		require.NoError(t, err)

		assert.Contains(t, buf.String(), "1 session found")
	})

	t.Run("query glob filter", func(t *testing.T) {
		var buf bytes.Buffer
		filters := &FilterCriteria{QueryGlob: "AAPL*"}
		err := ListSessions(context.Background(), client, "test-instance", OutputFormatDefault, filters, &buf)
		require.NoError(t, err)

		output := buf.String()
		assert.Contains(t, output, "2 sessions found")
		assert.NotContains(t, output, "TSLA")
	})

	t.Run("stage filter", func(t *testing.T) {
		var buf bytes.Buffer
		filters := &FilterCriteria{Stage: string(council.StageDone)}
		err := ListSessions(context.Background(), client, "test-instance", OutputFormatJSONL, filters, &buf)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 1)
		assert.Contains(t, lines[0], done.SessionID)
	})

	t.Run("combined filters exclude everything", func(t *testing.T) {
		var buf bytes.Buffer
		filters := &FilterCriteria{QueryGlob: "TSLA", Stage: string(council.StageDone)}
		err := ListSessions(context.Background(), client, "test-instance", OutputFormatDefault, filters, &buf)
		require.NoError(t, err)

		assert.Contains(t, buf.String(), "No sessions found")
	})
}

func TestGetSession(t *testing.T) {
	client := setupClient(t)
	saved := saveSession(t, client, "AAPL", 1000, nil)

	t.Run("existing session", func(t *testing.T) {
		var buf bytes.Buffer
		err := GetSession(context.Background(), client, saved.SessionID, &buf)
		require.NoError(t, err)

		var decoded council.StageState
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, saved.SessionID, decoded.SessionID)
	})

	t.Run("invalid ID format", func(t *testing.T) {
		var buf bytes.Buffer
		err := GetSession(context.Background(), client, "not-a-uuid", &buf)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid session ID format")
	})

	t.Run("missing session", func(t *testing.T) {
		var buf bytes.Buffer
		err := GetSession(context.Background(), client, uuid.New().String(), &buf)
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
	})
}
