package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/dyluth/moot/internal/agent"
	"github.com/dyluth/moot/internal/config"
	"github.com/dyluth/moot/internal/orchestrator"
	"github.com/dyluth/moot/internal/printer"
	"github.com/dyluth/moot/pkg/council"
)

var (
	runQuery      string
	runConfigPath string
	runNoSave     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the analysis pipeline for a query",
	Long: `Run an investment query through the full analysis pipeline.

The pipeline always executes the same five stages:
  1. overview          - single company-overview agent
  2. analysts          - configured analysts, invoked concurrently
  3. investment-debate - bull vs bear, round-robin
  4. management        - research manager, then trader
  5. risk-debate       - aggressive/safe/neutral, then the risk manager's
                         final decision

If redis.url is set in moot.yml, the session is persisted after every
stage so 'moot watch' and 'moot sessions' can follow along. The session
is also saved when a stage fails, preserving partial results.

Examples:
  moot run --query "Should we open a position in ACME Corp?"
  moot run -q "Evaluate XYZ" -c configs/xyz.yml --no-save`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runQuery, "query", "q", "", "Investment query to analyze (required)")
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "moot.yml", "Path to configuration file")
	runCmd.Flags().BoolVar(&runNoSave, "no-save", false, "Skip session persistence even when Redis is configured")
	runCmd.MarkFlagRequired("query")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(runConfigPath)
	if err != nil {
		return printer.Error(
			"failed to load configuration",
			err.Error(),
			[]string{"Run 'moot init' to create a default moot.yml", "Point at an explicit file with --config"},
		)
	}

	apiKey := os.Getenv(cfg.Model.APIKeyEnv)
	if apiKey == "" {
		return printer.Error(
			"missing model API key",
			fmt.Sprintf("Environment variable %s is not set.", cfg.Model.APIKeyEnv),
			[]string{fmt.Sprintf("Export your key:\n  export %s=...", cfg.Model.APIKeyEnv)},
		)
	}

	invoker, err := agent.NewGeminiInvoker(ctx, apiKey, cfg.Model.Name, cfg.InvokeTimeout())
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}

	// Session persistence is opt-in via redis.url and can be suppressed
	// per-run with --no-save.
	var store *council.Client
	if cfg.Redis.URL != "" && !runNoSave {
		store, err = connectStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	observer := func(ev council.ProgressEvent, snapshot *council.StageState) {
		printer.Step("%s: %s\n", ev.Stage, ev.Detail)
		if store == nil {
			return
		}
		if err := store.SaveSession(ctx, snapshot); err != nil {
			printer.Warning("failed to save session snapshot: %v\n", err)
		}
		if err := store.PublishProgress(ctx, &ev); err != nil {
			printer.Warning("failed to publish progress: %v\n", err)
		}
	}

	pipeline, err := orchestrator.New(orchestrator.RunConfig{
		EnabledAnalysts:     cfg.EnabledAnalysts(),
		MaxDebateRounds:     *cfg.Debate.MaxRounds,
		MaxRiskDebateRounds: *cfg.Debate.MaxRiskRounds,
	}, invoker, observer)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	printer.Info("Running analysis with %d analysts (model: %s)\n\n", len(cfg.EnabledAnalysts()), cfg.Model.Name)

	state, runErr := pipeline.Run(ctx, runQuery)

	// Persist the final state even when the run failed, so partial
	// results stay inspectable.
	if store != nil && state != nil {
		if err := store.SaveSession(context.WithoutCancel(ctx), state); err != nil {
			printer.Warning("failed to save session: %v\n", err)
		}
	}

	if runErr != nil {
		if state == nil {
			return runErr
		}
		return printer.ErrorWithContext(
			"pipeline run failed",
			runErr.Error(),
			map[string]string{
				"Session": state.SessionID,
				"Stage":   string(state.Stage()),
			},
			[]string{fmt.Sprintf("Inspect partial results:\n  moot export --session %s", state.SessionID)},
		)
	}

	printer.Success("analysis complete (session %s)\n\n", state.SessionID)
	printer.Println("Final decision:")
	printer.Println(state.FinalDecision.Content)
	if store != nil {
		printer.Info("\nExport the full report:\n  moot export --session %s\n", state.SessionID)
	}

	return nil
}

// connectStore builds and pings the session store configured in moot.yml.
func connectStore(ctx context.Context, cfg *config.MootConfig) (*council.Client, error) {
	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis.url: %w", err)
	}

	store, err := council.NewClient(redisOpts, cfg.Redis.Instance)
	if err != nil {
		return nil, fmt.Errorf("failed to create session store: %w", err)
	}

	if err := store.Ping(ctx); err != nil {
		store.Close()
		return nil, printer.Error(
			"Redis connection failed",
			fmt.Sprintf("Could not connect to Redis at %s", cfg.Redis.URL),
			[]string{"Check that Redis is running, or run with --no-save"},
		)
	}

	return store, nil
}
