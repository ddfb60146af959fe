package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dyluth/moot/internal/config"
	"github.com/dyluth/moot/internal/printer"
	"github.com/dyluth/moot/internal/watch"
)

var (
	watchSessionID  string
	watchConfigPath string
	watchTimeout    time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow a running session's progress",
	Long: `Stream stage and debate-round progress events for a session in real time.

Requires redis.url to be set in moot.yml: progress events are published
by 'moot run' as the pipeline advances.

Examples:
  # Follow a session until it completes
  moot watch --session 2f19a6a1-58d1-4e6c-9d31-0a7f6b2f0c11

  # Give up after ten minutes
  moot watch --session 2f19a6a1-... --timeout 10m`,
	RunE: runWatchCmd,
}

func init() {
	watchCmd.Flags().StringVarP(&watchSessionID, "session", "s", "", "Session ID to watch (required)")
	watchCmd.Flags().StringVarP(&watchConfigPath, "config", "c", "moot.yml", "Path to configuration file")
	watchCmd.Flags().DurationVar(&watchTimeout, "timeout", 0, "Give up after this long (0 = wait forever)")
	watchCmd.MarkFlagRequired("session")
	rootCmd.AddCommand(watchCmd)
}

func runWatchCmd(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(watchConfigPath)
	if err != nil {
		return printer.Error("failed to load configuration", err.Error(),
			[]string{"Run 'moot init' to create a default moot.yml"})
	}

	if cfg.Redis.URL == "" {
		return printer.Error(
			"session store not configured",
			"moot.yml has no redis.url, so there are no progress events to watch.",
			[]string{"Set redis.url in moot.yml and re-run the pipeline"},
		)
	}

	store, err := connectStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	return watch.Watch(ctx, store, watchSessionID, watchTimeout, os.Stdout)
}
