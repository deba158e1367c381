// Command iosbuildtool builds the MediaPipe Tasks iOS XCFrameworks
// and the example-app IPAs.
package main

//
// Main
//

import (
	"github.com/apex/log"
	"github.com/spf13/cobra"
	"github.com/zencoding/mediapipe/internal/logx"
)

func main() {
	root := &cobra.Command{
		Use:           "iosbuildtool",
		Short:         "Tool for building the iOS frameworks and example apps",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(frameworkSubcommand())
	root.AddCommand(allSubcommand())
	root.AddCommand(examplesSubcommand())

	logHandler := logx.NewHandlerWithDefaultSettings()
	logHandler.Emoji = true
	log.Log = &log.Logger{Level: log.InfoLevel, Handler: logHandler}

	defer func() {
		if r := recover(); r != nil {
			log.Fatalf("%+v", r)
		}
	}()
	if err := root.Execute(); err != nil {
		log.Fatalf("%s", err.Error())
	}
}
