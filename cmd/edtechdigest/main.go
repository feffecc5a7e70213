package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"EdTechDigest/internal/app"
	"EdTechDigest/internal/config"
	"EdTechDigest/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "edtechdigest [url...]",
		Short: "Synthesize this week's EdTech articles into an emailed digest",
		Long: `edtechdigest downloads the configured article URLs, asks the model for a
~500-word narrative digest, runs quality checks and emails the result.
Digests that fail the checks are printed for manual review instead.

URLs given as arguments replace the configured article list.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Logging.Level = logLevel
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			logger := logging.New(cfg.Logging.Level)
			application := app.New(cfg, logger, cmd.OutOrStdout())

			report, err := application.Run(cmd.Context(), args)
			if err != nil {
				logger.Error("digest run failed", "state", report.State, "error", err)
				return err
			}
			logger.Info("digest run finished", "state", report.State, "message", report.Outcome.Message)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config (default $EDTECH_DIGEST_CONFIG)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	return cmd
}
