package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	rootCmd := &cobra.Command{
		Use:           "yogava",
		Short:         "Post AI-analyzed yoga lessons to Strava",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configFlag == "" {
				return nil
			}
			return os.Setenv("CONFIG_PATH", configFlag)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path (overrides CONFIG_PATH)")

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newProcessCommand())
	return rootCmd
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func newProcessCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "process <video-url>",
		Short: "Analyze one video and post it, then exit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			runner, cleanup, err := initializeRunner()
			if err != nil {
				return fmt.Errorf("wire runner: %w", err)
			}
			defer cleanup()
			return runner.Process(ctx, args[0])
		},
	}
}

func serve(parent context.Context) error {
	ctx, stop := signalContext(parent)
	defer stop()

	app, cleanup, err := initializeApp()
	if err != nil {
		return fmt.Errorf("wire application: %w", err)
	}
	defer cleanup()
	return app.Run(ctx)
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
