package main

import (
	"github.com/spf13/cobra"

	"ferry/internal/runner"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var modeFlag string
	var logLevel string
	var development bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a transfer pass (cron) or the trigger watch loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return runner.Run(cmd.Context(), cfg, runner.Options{
				Mode:        modeFlag,
				LogLevel:    logLevel,
				Development: development,
			})
		},
	}

	cmd.Flags().StringVar(&modeFlag, "mode", "", "Override run mode: cron or trigger")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&development, "dev", false, "Enable development logging detail")
	_ = cmd.Flags().MarkHidden("dev")
	return cmd
}
