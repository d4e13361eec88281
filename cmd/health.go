package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check whether the assessment service is up",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cfg, log, err := newService(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		if !svc.Health(cmd.Context()) {
			return fmt.Errorf("%s is unreachable", cfg.BaseURL)
		}
		fmt.Printf("%s: ok\n", cfg.BaseURL)
		return nil
	},
}
