package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/dyluth/moot/pkg/council"
)

// MinShortIDLength is the minimum required length for short ID prefixes.
// Six characters balances usability with collision avoidance.
const MinShortIDLength = 6

// ResolveSessionID resolves a short ID prefix to a full session UUID.
//
// Three cases are handled:
//  1. Input is already a full UUID (36 chars, 4 hyphens) - existence is verified
//  2. Input is too short (< 6 chars) - returns a validation error
//  3. Input is a short prefix - matched against the session index; the
//     resolution succeeds only when exactly one session matches
func ResolveSessionID(ctx context.Context, client *council.Client, shortID string) (string, error) {
	if len(shortID) == 36 && strings.Count(shortID, "-") == 4 {
		exists, err := client.SessionExists(ctx, shortID)
		if err != nil {
			return "", fmt.Errorf("failed to verify session existence: %w", err)
		}
		if !exists {
			return "", &NotFoundError{SessionID: shortID}
		}
		return shortID, nil
	}

	if len(shortID) < MinShortIDLength {
		return "", fmt.Errorf("short ID must be at least %d characters (got %d)", MinShortIDLength, len(shortID))
	}

	ids, err := client.ListSessionIDs(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to search for session: %w", err)
	}

	var matches []string
	for _, id := range ids {
		if strings.HasPrefix(id, shortID) {
			matches = append(matches, id)
		}
	}

	switch len(matches) {
	case 0:
		return "", &NotFoundError{SessionID: shortID}
	case 1:
		return matches[0], nil
	default:
		return "", &AmbiguousError{ShortID: shortID, Matches: matches}
	}
}

// AmbiguousError indicates multiple sessions matched the short ID.
type AmbiguousError struct {
	ShortID string
	Matches []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ambiguous short ID '%s' matches %d sessions", e.ShortID, len(e.Matches))
}

// IsAmbiguous returns true if the error is an AmbiguousError.
func IsAmbiguous(err error) bool {
	_, ok := err.(*AmbiguousError)
	return ok
}

// FormatAmbiguousError creates a user-facing message listing the matching
// session IDs (up to 10, then "...and N more").
func FormatAmbiguousError(err *AmbiguousError) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Error: ambiguous short ID '%s' matches %d sessions:\n", err.ShortID, len(err.Matches))

	displayCount := len(err.Matches)
	if displayCount > 10 {
		displayCount = 10
	}
	for i := 0; i < displayCount; i++ {
		fmt.Fprintf(&b, "  %s\n", err.Matches[i])
	}
	if len(err.Matches) > 10 {
		fmt.Fprintf(&b, "  ...and %d more\n", len(err.Matches)-10)
	}

	b.WriteString("\nUse a longer prefix to uniquely identify the session.")
	return b.String()
}
