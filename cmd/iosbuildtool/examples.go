package main

//
// Example-app builds
//

import (
	"os"

	"github.com/apex/log"
	"github.com/spf13/cobra"
	"github.com/zencoding/mediapipe/internal/examples"
)

// examplesSubcommand returns the examples [cobra.Command].
func examplesSubcommand() *cobra.Command {
	var (
		outputDir       string
		skipSymbolStrip bool
	)
	cmd := &cobra.Command{
		Use:   "examples",
		Short: "Builds the example-app IPAs",
		RunE: func(cmd *cobra.Command, args []string) error {
			xcodeCheck()
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			return examples.BuildAll(&examples.Config{
				RepoRoot:        cwd,
				OutputDir:       outputDir,
				SkipSymbolStrip: skipSymbolStrip,
				Logger:          log.Log,
			})
		},
		Args: cobra.NoArgs,
	}
	cmd.Flags().StringVar(&outputDir, "output-dir", "example_apps", "directory where to write the IPAs")
	cmd.Flags().BoolVar(&skipSymbolStrip, "skip-symbol-strip", false, "do not strip symbols from the app binaries")
	return cmd
}
