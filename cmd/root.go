package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/aptiz/internal/assessment"
	"github.com/abhisek/aptiz/internal/config"
	"github.com/abhisek/aptiz/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "aptiz",
	Short: "Aptitude assessments from the terminal",
	Long:  "Aptiz — terminal companion for an adaptive assessment service: take chapter assessments, check service health, or run a local practice server.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("base-url", "", "Assessment service URL (overrides APTIZ_BASE_URL)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Per-request timeout (overrides config)")
	rootCmd.PersistentFlags().Bool("retry", false, "Retry transient failures with backoff")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log every service call")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(mockCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads file/env configuration with the command's flags bound
// at the top of the precedence order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// newService builds the configured client stack for a command.
func newService(cmd *cobra.Command) (assessment.Service, *config.Config, *zap.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	log, err := logger.New(cfg, verbose)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("build logger: %w", err)
	}

	svc, err := assessment.NewService(cfg.Client(), log)
	if err != nil {
		return nil, nil, nil, err
	}
	return svc, cfg, log, nil
}
