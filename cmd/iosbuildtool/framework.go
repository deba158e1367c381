package main

//
// Framework builds
//

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/apex/log"
	"github.com/spf13/cobra"
	"github.com/zencoding/mediapipe/internal/pipeline"
	"github.com/zencoding/mediapipe/internal/targets"
)

// frameworkSubcommand returns the framework [cobra.Command].
func frameworkSubcommand() *cobra.Command {
	return &cobra.Command{
		Use:   "framework <TARGET>...",
		Short: "Builds and publishes the given XCFrameworks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return frameworkBuildMain(args)
		},
		Args: cobra.MinimumNArgs(1),
	}
}

// allSubcommand returns the all [cobra.Command].
func allSubcommand() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Builds and publishes every XCFramework",
		RunE: func(cmd *cobra.Command, args []string) error {
			return frameworkBuildMain(targets.Names())
		},
		Args: cobra.NoArgs,
	}
}

// frameworkBuildMain runs the per-target pipeline for each name. The
// context is canceled on SIGINT/SIGTERM so that we stop between
// stages and deferred staging cleanups still run.
func frameworkBuildMain(names []string) error {
	xcodeCheck()
	cfg, err := pipeline.ConfigFromEnv(log.Log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = pipeline.Run(ctx, cfg, &pipeline.StageRunner{}, names)
	return err
}
