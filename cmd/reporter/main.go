package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/wechat-daily-report/internal/config"
	"github.com/wechat-daily-report/internal/export"
	"github.com/wechat-daily-report/internal/models"
	"github.com/wechat-daily-report/internal/reporter"
	"github.com/wechat-daily-report/internal/scheduler"
)

var configFile string

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "wechat-report",
		Short:         "WeChat group chat daily report generator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&configFile, "config", ".env", "Config file path")

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newScheduleCmd())
	return cmd
}

// setup loads configuration and wires a reporter with its logger
func setup() (*models.Config, *reporter.Reporter, zerolog.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, zerolog.Nop(), err
	}

	logger := setupLogger(cfg.LogLevel, cfg.Environment)

	r, err := reporter.New(cfg, logger)
	if err != nil {
		return nil, nil, logger, err
	}
	return cfg, r, logger, nil
}

type runCmd struct {
	date string
	from string
	to   string
}

func newRunCmd() *cobra.Command {
	rc := &runCmd{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate the daily report",
		RunE:  rc.run,
	}
	cmd.Flags().StringVar(&rc.date, "date", "", "Report date (YYYY-MM-DD), default: yesterday")
	cmd.Flags().StringVar(&rc.from, "from", "", "Batch start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&rc.to, "to", "", "Batch end date (YYYY-MM-DD)")
	return cmd
}

func (rc *runCmd) run(cmd *cobra.Command, args []string) error {
	_, r, _, err := setup()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if rc.from != "" || rc.to != "" {
		if rc.from == "" || rc.to == "" {
			return fmt.Errorf("--from and --to must be used together")
		}
		result, err := r.RunRange(ctx, rc.from, rc.to)
		if err != nil {
			return err
		}
		fmt.Printf("📊 Generated %d report(s), skipped %d\n", result.Generated, result.Skipped)
		if result.Skipped > 0 {
			return fmt.Errorf("%d date(s) failed", result.Skipped)
		}
		return nil
	}

	path, err := r.Run(ctx, rc.date)
	if err != nil {
		return err
	}
	fmt.Printf("✅ Report generated: %s\n", path)
	return nil
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Test connections to the chatlog API, AI service and sinks",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, r, _, err := setup()
			if err != nil {
				return err
			}
			return r.CheckConnections(cmd.Context())
		},
	}
}

type exportCmd struct {
	group     string
	date      string
	startDate string
	endDate   string
	output    string
	limit     int
}

func newExportCmd() *cobra.Command {
	ec := &exportCmd{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a group's raw transcript to a Markdown file",
		RunE:  ec.run,
	}
	cmd.Flags().StringVarP(&ec.group, "group", "g", "", "Group chat name")
	cmd.Flags().StringVarP(&ec.date, "date", "d", "", "Date or date range (YYYY-MM-DD or YYYY-MM-DD:YYYY-MM-DD)")
	cmd.Flags().StringVar(&ec.startDate, "start-date", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&ec.endDate, "end-date", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&ec.output, "output", "o", "exports", "Output directory")
	cmd.Flags().IntVar(&ec.limit, "limit", 1000, "Page size for chat log requests")
	_ = cmd.MarkFlagRequired("group")
	return cmd
}

func (ec *exportCmd) run(cmd *cobra.Command, args []string) error {
	var startDate, endDate string
	var err error
	switch {
	case ec.date != "":
		startDate, endDate, err = export.ParseDateRange(ec.date)
		if err != nil {
			return err
		}
	case ec.startDate != "":
		if ec.endDate == "" {
			return fmt.Errorf("--end-date is required with --start-date")
		}
		startDate, endDate = ec.startDate, ec.endDate
		if err := export.ValidateDateRange(startDate, endDate); err != nil {
			return err
		}
	default:
		return fmt.Errorf("either --date or --start-date/--end-date is required")
	}

	cfg, r, logger, err := setup()
	if err != nil {
		return err
	}

	fmt.Printf("🚀 Exporting chat logs of '%s'...\n", ec.group)
	fmt.Printf("📅 Date range: %s to %s\n", startDate, endDate)
	fmt.Printf("🌐 API: %s\n", cfg.APIBaseURL)
	fmt.Printf("📁 Output: %s\n\n", ec.output)

	exporter := export.NewExporter(r.Client(), logger)
	path, err := exporter.Export(cmd.Context(), ec.group, startDate, endDate, ec.output, ec.limit)
	if err != nil {
		return err
	}
	if path == "" {
		return fmt.Errorf("no chat logs found for group '%s'", ec.group)
	}
	fmt.Printf("✅ Export completed: %s\n", path)
	return nil
}

func newScheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Run as a daemon generating the report daily at the configured time",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, r, logger, err := setup()
			if err != nil {
				return err
			}

			job := func(ctx context.Context) {
				if path, err := r.Run(ctx, ""); err != nil {
					logger.Error().Err(err).Msg("Scheduled report run failed")
				} else {
					logger.Info().Str("path", path).Msg("Scheduled report run completed")
				}
			}

			sched, err := scheduler.New(cfg.ScheduleTime, job, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Printf("⏰ Scheduler running, daily report at %s. Press Ctrl+C to stop.\n", cfg.ScheduleTime)
			sched.Start(ctx)
			return nil
		},
	}
}

// setupLogger configures and returns a zerolog logger
func setupLogger(level, environment string) zerolog.Logger {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	if environment == "development" {
		// Pretty console output for development
		return zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Caller().Logger()
	}
	// JSON output for production
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
