package session

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/dyluth/moot/pkg/council"
)

// GetSession retrieves a single session by ID and writes it as pretty-printed
// JSON to the writer. Returns an error if the session ID is invalid or the
// session does not exist. Use IsNotFound() to distinguish "not found" errors
// from other failures.
func GetSession(ctx context.Context, client *council.Client, sessionID string, w io.Writer) error {
	if _, err := uuid.Parse(sessionID); err != nil {
		return fmt.Errorf("invalid session ID format: must be a valid UUID")
	}

	state, err := client.GetSession(ctx, sessionID)
	if err != nil {
		if council.IsNotFound(err) {
			return &NotFoundError{SessionID: sessionID}
		}
		return fmt.Errorf("failed to fetch session: %w", err)
	}

	if err := FormatSingleJSON(w, state); err != nil {
		return fmt.Errorf("failed to format session: %w", err)
	}

	return nil
}

// NotFoundError represents a specific "session not found" error.
// This allows callers to distinguish not-found errors from other failures.
type NotFoundError struct {
	SessionID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("session with ID '%s' not found", e.SessionID)
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	_, ok := err.(*NotFoundError)
	return ok
}
