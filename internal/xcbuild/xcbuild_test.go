package xcbuild_test

import (
	"errors"
	"testing"

	"github.com/zencoding/mediapipe/internal/buildtest"
	"github.com/zencoding/mediapipe/internal/model"
	"github.com/zencoding/mediapipe/internal/shellx/shellxtesting"
	"github.com/zencoding/mediapipe/internal/xcbuild"
	"golang.org/x/sys/execabs"
)

func TestArchive(t *testing.T) {

	// testspec specifies a test case for this test
	type testspec struct {
		// name is the name of the test case
		name string

		// platform is the platform slice to build
		platform xcbuild.Platform

		// expect contains the commands we expect to see
		expect []buildtest.ExecExpectations
	}

	var testcases = []testspec{{
		name:     "device slice",
		platform: xcbuild.PlatformDevice,
		expect: []buildtest.ExecExpectations{{
			Env: []string{},
			Argv: []string{
				"xcodebuild", "archive",
				"-project", "build_output/MediaPipeTasksText/MediaPipeTasksText.xcodeproj",
				"-scheme", "MediaPipeTasksText",
				"-configuration", "Release",
				"-destination", "generic/platform=iOS",
				"-archivePath", "build_output/MediaPipeTasksText/iphoneos.xcarchive",
				"SKIP_INSTALL=NO", "BUILD_LIBRARY_FOR_DISTRIBUTION=YES",
			},
		}},
	}, {
		name:     "simulator slice",
		platform: xcbuild.PlatformSimulator,
		expect: []buildtest.ExecExpectations{{
			Env: []string{},
			Argv: []string{
				"xcodebuild", "archive",
				"-project", "build_output/MediaPipeTasksText/MediaPipeTasksText.xcodeproj",
				"-scheme", "MediaPipeTasksText",
				"-configuration", "Release",
				"-destination", "generic/platform=iOS Simulator",
				"-archivePath", "build_output/MediaPipeTasksText/iphonesimulator.xcarchive",
				"SKIP_INSTALL=NO", "BUILD_LIBRARY_FOR_DISTRIBUTION=YES",
			},
		}},
	}}

	for _, testcase := range testcases {
		t.Run(testcase.name, func(t *testing.T) {
			cc := &buildtest.SimpleCommandCollector{}

			var result *xcbuild.Result
			shellxtesting.WithCustomLibrary(cc, func() {
				result = xcbuild.Archive(&xcbuild.Config{
					ProjectPath: "build_output/MediaPipeTasksText/MediaPipeTasksText.xcodeproj",
					Scheme:      "MediaPipeTasksText",
					OutputDir:   "build_output/MediaPipeTasksText",
					Logger:      model.DiscardLogger,
				}, testcase.platform)
			})

			if result.Status != xcbuild.StatusOK {
				t.Fatal("unexpected status", result.Status)
			}
			if result.Err != nil {
				t.Fatal("unexpected error", result.Err)
			}
			if err := buildtest.CheckManyCommands(cc.Commands, testcase.expect); err != nil {
				t.Fatal(err)
			}
		})
	}

	t.Run("a failing invocation yields an explicit failed result", func(t *testing.T) {
		expected := errors.New("mocked xcodebuild error")
		library := &shellxtesting.Library{
			MockCmdRun: func(c *execabs.Cmd) error {
				return expected
			},
			MockLookPath: func(file string) (string, error) {
				return file, nil
			},
		}

		var result *xcbuild.Result
		shellxtesting.WithCustomLibrary(library, func() {
			result = xcbuild.Archive(&xcbuild.Config{
				ProjectPath: "proj.xcodeproj",
				Scheme:      "MediaPipeTasksText",
				OutputDir:   "build_output",
				Logger:      model.DiscardLogger,
			}, xcbuild.PlatformDevice)
		})

		if result.Status != xcbuild.StatusFailed {
			t.Fatal("expected a failed status")
		}
		if !errors.Is(result.Err, expected) {
			t.Fatal("unexpected error", result.Err)
		}
	})
}

func TestPlatformIdentifier(t *testing.T) {
	if got := xcbuild.PlatformDevice.Identifier(); got != "ios-arm64" {
		t.Fatal("invalid device identifier", got)
	}
	if got := xcbuild.PlatformSimulator.Identifier(); got != "ios-arm64_x86_64-simulator" {
		t.Fatal("invalid simulator identifier", got)
	}
}
