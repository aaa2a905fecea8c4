package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

// app holds state shared by every subcommand.
type app struct {
	logLevel string
	logger   *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "survbkt",
		Short:         "Survival-corrected knowledge tracing by Gibbs sampling",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(a.logLevel)); err != nil {
				return fmt.Errorf("--log-level: %w", err)
			}
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(
		newEstimateCmd(a),
		newSimulateCmd(a),
		newImportCmd(a),
		newItemsCmd(a),
	)
	return root
}
