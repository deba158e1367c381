// Package targets contains the registry of the iOS frameworks we can
// build. Adding a framework is a data change in this package: the rest
// of the pipeline never branches on specific target names.
package targets

import (
	"errors"
	"fmt"
)

// Target describes a framework we can build.
type Target struct {
	// Name is the name of the framework (e.g. "MediaPipeTasksText").
	Name string

	// SourceGlobs contains the doublestar globs, relative to the
	// repository root, selecting this target's sources.
	SourceGlobs []string

	// HeaderGlobs contains the doublestar globs, relative to the
	// repository root, selecting this target's public headers.
	HeaderGlobs []string

	// Deps contains the names of the binary dependencies this
	// target needs before building (see the deps package).
	Deps []string
}

// ErrUnknownTarget indicates that a target name is not in the registry.
var ErrUnknownTarget = errors.New("targets: unknown target")

// registry is the fixed, ordered list of buildable frameworks.
var registry = []*Target{{
	Name: "MediaPipeTasksCommon",
	SourceGlobs: []string{
		"mediapipe/tasks/ios/common/**/*.{m,mm,cc}",
		"mediapipe/tasks/ios/core/**/*.{m,mm,cc}",
	},
	HeaderGlobs: []string{
		"mediapipe/tasks/ios/common/**/*.h",
		"mediapipe/tasks/ios/core/**/*.h",
	},
	Deps: []string{"TensorFlowLiteC"},
}, {
	Name: "MediaPipeTasksText",
	SourceGlobs: []string{
		"mediapipe/tasks/ios/text/**/*.{m,mm,cc}",
	},
	HeaderGlobs: []string{
		"mediapipe/tasks/ios/text/**/*.h",
	},
	Deps: []string{"TensorFlowLiteC"},
}, {
	Name: "MediaPipeTasksVision",
	SourceGlobs: []string{
		"mediapipe/tasks/ios/vision/**/*.{m,mm,cc}",
	},
	HeaderGlobs: []string{
		"mediapipe/tasks/ios/vision/**/*.h",
	},
	Deps: []string{"TensorFlowLiteC", "OpenCV"},
}, {
	Name: "MediaPipeTasksAudio",
	SourceGlobs: []string{
		"mediapipe/tasks/ios/audio/**/*.{m,mm,cc}",
	},
	HeaderGlobs: []string{
		"mediapipe/tasks/ios/audio/**/*.h",
	},
	Deps: []string{"TensorFlowLiteC"},
}, {
	Name: "MediaPipeTasksGenAI",
	SourceGlobs: []string{
		"mediapipe/tasks/ios/genai/**/*.{m,mm,cc}",
	},
	HeaderGlobs: []string{
		"mediapipe/tasks/ios/genai/**/*.h",
	},
	Deps: []string{"TensorFlowLiteC"},
}}

// All returns the fixed ordered list of buildable targets.
func All() []*Target {
	out := make([]*Target, len(registry))
	copy(out, registry)
	return out
}

// Names returns the names of all the buildable targets.
func Names() []string {
	out := []string{}
	for _, target := range registry {
		out = append(out, target.Name)
	}
	return out
}

// Lookup returns the target with the given name or [ErrUnknownTarget].
func Lookup(name string) (*Target, error) {
	for _, target := range registry {
		if target.Name == name {
			return target, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownTarget, name)
}
