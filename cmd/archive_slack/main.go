package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"archive_slack/internal/config"
	"archive_slack/internal/database"
	"archive_slack/internal/files"
	"archive_slack/internal/logger"
	"archive_slack/internal/service"
	"archive_slack/internal/slack"

	"github.com/joho/godotenv"
	slackapi "github.com/slack-go/slack"
	"github.com/spf13/cobra"
)

func init() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.Default()

	cmd := &cobra.Command{
		Use:   "archive_slack",
		Short: "Download Slack files older than a retention window and optionally remove them",
		Long: `archive_slack downloads every Slack file older than the given number of weeks
into one directory per channel, group or direct message conversation, writes a
JSON metadata document next to each file and, with -r, deletes the remote copy.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, cfg)
		},
	}
	cfg.BindFlags(cmd.Flags())

	return cmd
}

func run(cmd *cobra.Command, cfg *config.Config) error {
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := logger.ParseLogLevel(cfg.LogLevel)
	if err := logger.Init(cfg.LogPath, level); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	var options []slackapi.Option
	if level == logger.LevelDebug {
		options = append(options, slackapi.OptionDebug(true), slackapi.OptionLog(logger.Debug))
	}
	client := slack.NewClient(cfg.Token, options...)

	ctx := cmd.Context()
	if err := service.Initialize(ctx, client); err != nil {
		return err
	}

	// The ledger records real work only
	var ledger service.Ledger
	if cfg.LedgerPath != "" && !cfg.Simulate {
		db, err := database.New(cfg.LedgerPath)
		if err != nil {
			return fmt.Errorf("failed to initialize ledger: %w", err)
		}
		defer db.Close()
		ledger = db
		logger.Info.Printf("Recording archived files in %s", cfg.LedgerPath)
	}

	reporter := service.NewReporter(cmd.OutOrStdout(), cfg.Quiet)
	reporter.Banner(cfg.Destination, cfg.Weeks, cfg.Remove, cfg.Simulate)

	svc := service.NewFileService(client, files.NewFileStorage(cfg.Destination), ledger, reporter, service.Options{
		IncludeIMs: cfg.IncludeIMs,
		Remove:     cfg.Remove,
		Simulate:   cfg.Simulate,
	})
	_, err := svc.Run(ctx, cfg.Cutoff(time.Now()))
	return err
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
