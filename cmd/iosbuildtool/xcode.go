package main

//
// Checking for the Xcode toolchain.
//

import (
	"runtime"
	"strings"

	"github.com/apex/log"
	"github.com/zencoding/mediapipe/internal/must"
	"github.com/zencoding/mediapipe/internal/runtimex"
)

// xcodeCheck ensures we're on macOS with a usable xcodebuild. This is
// an environment precondition: failing it aborts the whole run.
func xcodeCheck() {
	runtimex.Assert(runtime.GOOS == "darwin", "this command requires darwin")
	firstline := string(must.FirstLineBytes(must.RunOutput(log.Log, "xcodebuild", "-version")))
	runtimex.Assert(strings.HasPrefix(firstline, "Xcode"), "unexpected xcodebuild -version output")
	log.Infof("using %s", firstline)
}
