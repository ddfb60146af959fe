package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dyluth/moot/internal/config"
	"github.com/dyluth/moot/internal/printer"
	"github.com/dyluth/moot/internal/session"
	"github.com/dyluth/moot/internal/timespec"
	"github.com/dyluth/moot/pkg/council"
)

var (
	sessionsConfigPath   string
	sessionsOutputFormat string
	sessionsSince        string
	sessionsUntil        string
	sessionsQuery        string
	sessionsStage        string
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions [SESSION_ID]",
	Short: "List or inspect persisted sessions",
	Long: `List persisted analysis sessions, or inspect a single one.

List Mode (no SESSION_ID):
  Displays sessions matching filters as a table or JSONL stream.

Get Mode (with SESSION_ID):
  Displays the complete session as pretty-printed JSON.

Output Formats (list mode only):
  default - Human-readable table with ID, stage, analysts, age and query
  jsonl   - Line-delimited JSON, one session per line

Examples:
  # List all sessions
  moot sessions

  # Sessions started in the last two hours, still mid-debate
  moot sessions --since 2h --stage investment-debate

  # Pipe to jq
  moot sessions --output jsonl | jq -r 'select(.final_decision != null) | .session_id'

  # Inspect one session
  moot sessions 2f19a6a1-58d1-4e6c-9d31-0a7f6b2f0c11`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSessions,
}

func init() {
	sessionsCmd.Flags().StringVarP(&sessionsConfigPath, "config", "c", "moot.yml", "Path to configuration file")
	sessionsCmd.Flags().StringVarP(&sessionsOutputFormat, "output", "o", "default", "Output format: default or jsonl (list mode only)")
	sessionsCmd.Flags().StringVar(&sessionsSince, "since", "", "Show sessions started after this time (duration, date, or RFC3339)")
	sessionsCmd.Flags().StringVar(&sessionsUntil, "until", "", "Show sessions started before this time (duration, date, or RFC3339)")
	sessionsCmd.Flags().StringVar(&sessionsQuery, "query", "", "Filter by query text (glob pattern)")
	sessionsCmd.Flags().StringVar(&sessionsStage, "stage", "", "Filter by pipeline stage (exact match)")
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load(sessionsConfigPath)
	if err != nil {
		return printer.Error("failed to load configuration", err.Error(),
			[]string{"Run 'moot init' to create a default moot.yml"})
	}

	if cfg.Redis.URL == "" {
		return printer.Error(
			"session store not configured",
			"moot.yml has no redis.url, so no sessions are persisted.",
			[]string{"Set redis.url in moot.yml and re-run the pipeline"},
		)
	}

	store, err := connectStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	// Get mode: a session ID (or unique prefix) was given
	if len(args) > 0 {
		fullID, err := resolveSession(ctx, store, args[0])
		if err != nil {
			return err
		}
		return session.GetSession(ctx, store, fullID, os.Stdout)
	}

	var outputFormat session.OutputFormat
	switch sessionsOutputFormat {
	case "default":
		outputFormat = session.OutputFormatDefault
	case "jsonl":
		outputFormat = session.OutputFormatJSONL
	default:
		return printer.Error(
			"invalid output format",
			fmt.Sprintf("Unknown format: %s", sessionsOutputFormat),
			[]string{"Valid formats: default, jsonl"},
		)
	}

	sinceMs, untilMs, err := timespec.ParseRange(sessionsSince, sessionsUntil)
	if err != nil {
		return printer.Error(
			"invalid time filter",
			err.Error(),
			[]string{"Use a duration like '1h30m', a date like '2026-08-26', or RFC3339"},
		)
	}

	filters := &session.FilterCriteria{
		SinceTimestampMs: sinceMs,
		UntilTimestampMs: untilMs,
		QueryGlob:        sessionsQuery,
		Stage:            sessionsStage,
	}

	return session.ListSessions(ctx, store, cfg.Redis.Instance, outputFormat, filters, os.Stdout)
}

// resolveSession turns a session ID or unique prefix into a full UUID,
// printing a friendly error when it cannot.
func resolveSession(ctx context.Context, store *council.Client, id string) (string, error) {
	fullID, err := session.ResolveSessionID(ctx, store, id)
	if err == nil {
		return fullID, nil
	}

	if session.IsNotFound(err) {
		return "", printer.Error(
			fmt.Sprintf("session '%s' not found", id),
			"No persisted session matches that ID.",
			[]string{"List sessions:\n  moot sessions"},
		)
	}
	if session.IsAmbiguous(err) {
		ambigErr := err.(*session.AmbiguousError)
		fmt.Fprintln(os.Stderr, session.FormatAmbiguousError(ambigErr))
		return "", fmt.Errorf("ambiguous short ID")
	}
	return "", err
}
