// Package session implements listing, inspection and filtering of persisted
// analysis sessions for the moot CLI.
package session

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/dyluth/moot/pkg/council"
)

// OutputFormat specifies how to format the session list output.
type OutputFormat string

const (
	// OutputFormatDefault uses a table format with truncated queries
	OutputFormatDefault OutputFormat = "default"

	// OutputFormatJSONL outputs complete sessions as line-delimited JSON
	OutputFormatJSONL OutputFormat = "jsonl"
)

// FilterCriteria defines filtering options for the sessions command.
// All filters are ANDed together.
type FilterCriteria struct {
	SinceTimestampMs int64  // Unix timestamp in milliseconds, 0 = no filter
	UntilTimestampMs int64  // Unix timestamp in milliseconds, 0 = no filter
	QueryGlob        string // Glob pattern for the query text, empty = no filter
	Stage            string // Exact match on derived stage, empty = no filter
}

// matchesFilter returns true if the session matches all filter criteria.
func (fc *FilterCriteria) matchesFilter(state *council.StageState) bool {
	// Time filtering
	if fc.SinceTimestampMs > 0 && state.StartedAtMs < fc.SinceTimestampMs {
		return false
	}
	if fc.UntilTimestampMs > 0 && state.StartedAtMs > fc.UntilTimestampMs {
		return false
	}

	// Query filtering - glob pattern matching
	if fc.QueryGlob != "" {
		matched, err := filepath.Match(fc.QueryGlob, state.Query)
		if err != nil || !matched {
			return false
		}
	}

	// Stage filtering - exact match on derived stage
	if fc.Stage != "" && string(state.Stage()) != fc.Stage {
		return false
	}

	return true
}

// ListSessions retrieves all sessions for an instance and writes them to the
// provided writer. Applies filter criteria if provided. Sorts sessions by
// start time for stable output. Skips malformed sessions with a warning to
// stderr but continues processing.
func ListSessions(ctx context.Context, client *council.Client, instanceName string, format OutputFormat, filters *FilterCriteria, w io.Writer) error {
	ids, err := client.ListSessionIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	var sessions []*council.StageState
	for _, id := range ids {
		state, err := client.GetSession(ctx, id)
		if err != nil {
			// Skip malformed sessions with warning to stderr
			fmt.Fprintf(os.Stderr, "⚠️  Skipping malformed session: id=%s (error: %v)\n", id, err)
			continue
		}

		if filters != nil && !filters.matchesFilter(state) {
			continue
		}

		sessions = append(sessions, state)
	}

	// Sort by start time (oldest first) for chronological output
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartedAtMs < sessions[j].StartedAtMs
	})

	switch format {
	case OutputFormatDefault:
		FormatTable(w, sessions, instanceName)
	case OutputFormatJSONL:
		if err := FormatJSONL(w, sessions); err != nil {
			return fmt.Errorf("failed to format JSONL output: %w", err)
		}
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}

	return nil
}
