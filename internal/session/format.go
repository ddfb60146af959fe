package session

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dyluth/moot/pkg/council"
)

// FormatTable writes sessions as a formatted table to the provided writer.
// Columns: ID (truncated), STAGE, ANALYSTS, AGE, QUERY (truncated).
// Returns the number of sessions formatted.
func FormatTable(w io.Writer, sessions []*council.StageState, instanceName string) int {
	if len(sessions) == 0 {
		fmt.Fprintf(w, "No sessions found for instance '%s'\n", instanceName)
		return 0
	}

	fmt.Fprintf(w, "Sessions for instance '%s':\n\n", instanceName)

	fmt.Fprintf(w, "%-10s %-18s %-9s %-8s %s\n",
		"ID", "STAGE", "ANALYSTS", "AGE", "QUERY")
	fmt.Fprintf(w, "%-10s %-18s %-9s %-8s %s\n",
		"----------", "------------------", "---------", "--------", "----------------------------------------")

	for _, s := range sessions {
		fmt.Fprintf(w, "%-10s %-18s %-9s %-8s %s\n",
			formatID(s.SessionID),
			string(s.Stage()),
			formatAnalystCount(s),
			formatTimestamp(s.StartedAtMs),
			formatQuery(s.Query),
		)
	}

	countMsg := "session"
	if len(sessions) != 1 {
		countMsg = "sessions"
	}
	fmt.Fprintf(w, "\n%d %s found\n", len(sessions), countMsg)

	return len(sessions)
}

// FormatJSONL writes sessions as line-delimited JSON (JSONL) to the provided writer.
// Each session is written as a single JSON object on its own line.
// This format is ideal for streaming and processing with tools like jq.
func FormatJSONL(w io.Writer, sessions []*council.StageState) error {
	for _, s := range sessions {
		data, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("failed to marshal session to JSON: %w", err)
		}

		_, err = fmt.Fprintf(w, "%s\n", string(data))
		if err != nil {
			return fmt.Errorf("failed to write JSONL output: %w", err)
		}
	}

	return nil
}

// FormatSingleJSON writes a single session as pretty-printed JSON to the
// provided writer. Used to display complete session details.
func FormatSingleJSON(w io.Writer, state *council.StageState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session to JSON: %w", err)
	}

	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}

	// Add newline for clean output
	fmt.Fprintln(w)

	return nil
}

// formatID truncates a session ID to first 8 characters for compact display.
func formatID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// formatAnalystCount shows how many analyst reports are present, flagging
// sentinel entries, e.g. "6" or "5+1!".
func formatAnalystCount(s *council.StageState) string {
	if len(s.AnalystReports) == 0 {
		return "-"
	}

	sentinels := 0
	for _, report := range s.AnalystReports {
		if report.Sentinel {
			sentinels++
		}
	}

	if sentinels == 0 {
		return fmt.Sprintf("%d", len(s.AnalystReports))
	}
	return fmt.Sprintf("%d+%d!", len(s.AnalystReports)-sentinels, sentinels)
}

// formatQuery truncates the query to its first line, max 40 characters.
// Empty queries return "-".
func formatQuery(query string) string {
	if query == "" {
		return "-"
	}

	lines := strings.Split(query, "\n")
	var firstLine string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			firstLine = trimmed
			break
		}
	}

	if firstLine == "" {
		return "-"
	}

	if len(firstLine) > 40 {
		return firstLine[:37] + "..."
	}

	return firstLine
}

// formatTimestamp formats Unix timestamp in milliseconds to human-readable time.
// Shows relative time like "2m ago", "1h ago", etc.
func formatTimestamp(timestampMs int64) string {
	if timestampMs == 0 {
		return "-"
	}

	t := time.Unix(timestampMs/1000, (timestampMs%1000)*1000000)
	diff := time.Since(t)

	if diff < time.Minute {
		return fmt.Sprintf("%ds ago", int(diff.Seconds()))
	} else if diff < time.Hour {
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	} else if diff < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	}
	return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
}
