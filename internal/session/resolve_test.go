package session

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSessionID(t *testing.T) {
	ctx := context.Background()
	client := setupClient(t)

	a := saveSession(t, client, "query a", 1000, nil)
	b := saveSession(t, client, "query b", 2000, nil)

	t.Run("full UUID passes through", func(t *testing.T) {
		got, err := ResolveSessionID(ctx, client, a.SessionID)
		require.NoError(t, err)
		assert.Equal(t, a.SessionID, got)
	})

	t.Run("full UUID that does not exist", func(t *testing.T) {
		_, err := ResolveSessionID(ctx, client, uuid.New().String())
		assert.True(t, IsNotFound(err), "expected NotFoundError, got %v", err)
	})

	t.Run("unique prefix resolves", func(t *testing.T) {
		got, err := ResolveSessionID(ctx, client, a.SessionID[:8])
		require.NoError(t, err)
		assert.Equal(t, a.SessionID, got)

		got, err = ResolveSessionID(ctx, client, b.SessionID[:8])
		require.NoError(t, err)
		assert.Equal(t, b.SessionID, got)
	})

	t.Run("too short", func(t *testing.T) {
		_, err := ResolveSessionID(ctx, client, "abc")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 6 characters")
	})

	t.Run("no match", func(t *testing.T) {
		_, err := ResolveSessionID(ctx, client, "zzzzzz")
		assert.True(t, IsNotFound(err), "expected NotFoundError, got %v", err)
	})
}

func TestFormatAmbiguousError(t *testing.T) {
	err := &AmbiguousError{
		ShortID: "2f19a6",
		Matches: []string{"2f19a6a1-0000", "2f19a6b2-1111"},
	}

	assert.True(t, IsAmbiguous(err))
	msg := FormatAmbiguousError(err)
	assert.Contains(t, msg, "matches 2 sessions")
	assert.Contains(t, msg, "2f19a6a1-0000")
	assert.Contains(t, msg, "longer prefix")
}
