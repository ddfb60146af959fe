package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dyluth/moot/internal/config"
	"github.com/dyluth/moot/internal/export"
	"github.com/dyluth/moot/internal/printer"
)

var (
	exportSessionID  string
	exportConfigPath string
	exportFormat     string
	exportOutPath    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a session as a report document",
	Long: `Render a persisted session as a markdown report or as JSON.

Partial sessions export whatever stages completed, so a failed run can
still be turned into a document.

Examples:
  # Markdown report to stdout
  moot export --session 2f19a6a1-58d1-4e6c-9d31-0a7f6b2f0c11

  # Write JSON to a file
  moot export --session 2f19a6a1-... --format json --out acme.json`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportSessionID, "session", "s", "", "Session ID to export (required)")
	exportCmd.Flags().StringVarP(&exportConfigPath, "config", "c", "moot.yml", "Path to configuration file")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "md", "Output format: md or json")
	exportCmd.Flags().StringVar(&exportOutPath, "out", "", "Write to this file instead of stdout")
	exportCmd.MarkFlagRequired("session")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return printer.Error("invalid export format", err.Error(),
			[]string{"Valid formats: md, json"})
	}

	cfg, err := config.Load(exportConfigPath)
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

	fullID, err := resolveSession(ctx, store, exportSessionID)
	if err != nil {
		return err
	}

	state, err := store.GetSession(ctx, fullID)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	doc, err := export.Render(state, format)
	if err != nil {
		return err
	}

	if exportOutPath == "" {
		fmt.Print(doc)
		return nil
	}

	if err := os.WriteFile(exportOutPath, []byte(doc), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", exportOutPath, err)
	}
	printer.Success("exported session %s to %s\n", exportSessionID, exportOutPath)
	return nil
}
