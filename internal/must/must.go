// Package must contains functions that panic on error.
package must

import (
	"bytes"

	"github.com/zencoding/mediapipe/internal/model"
	"github.com/zencoding/mediapipe/internal/runtimex"
	"github.com/zencoding/mediapipe/internal/shellx"
)

// RunOutput is like [shellx.Output] but calls
// [runtimex.PanicOnError] on failure.
func RunOutput(logger model.Logger, command string, args ...string) []byte {
	data, err := shellx.Output(logger, command, args...)
	runtimex.PanicOnError(err, "shellx.Output failed")
	return data
}

// FirstLineBytes takes in input a sequence of bytes and
// returns in output the first line. This function will
// call [runtimex.Assert] on failure.
func FirstLineBytes(data []byte) []byte {
	first, _, good := bytes.Cut(data, []byte("\n"))
	runtimex.Assert(good, "could not find the first line")
	return first
}
