// Package xcbuild invokes xcodebuild to produce one architecture
// specific archive per platform slice.
//
// A failed invocation is not an error of this package: we return an
// explicit [Result] and let the driver decide whether a failed slice is
// fatal (strict mode) or just degrades the output (best effort).
package xcbuild

import (
	"path/filepath"
	"strings"

	"github.com/zencoding/mediapipe/internal/model"
	"github.com/zencoding/mediapipe/internal/runtimex"
	"github.com/zencoding/mediapipe/internal/shellx"
)

// Platform selects the platform slice to build.
type Platform string

const (
	// PlatformDevice is the physical-device slice.
	PlatformDevice = Platform("iphoneos")

	// PlatformSimulator is the simulator slice.
	PlatformSimulator = Platform("iphonesimulator")
)

// destination maps a [Platform] to the xcodebuild destination specifier.
var destination = map[Platform]string{
	PlatformDevice:    "generic/platform=iOS",
	PlatformSimulator: "generic/platform=iOS Simulator",
}

// Identifier returns the XCFramework library identifier for the platform.
func (p Platform) Identifier() string {
	switch p {
	case PlatformSimulator:
		return "ios-arm64_x86_64-simulator"
	default:
		return "ios-arm64"
	}
}

// Status is the outcome of an xcodebuild invocation.
type Status int

const (
	// StatusOK means the invocation succeeded.
	StatusOK = Status(iota)

	// StatusFailed means the invocation failed.
	StatusFailed
)

// Result is the explicit outcome of building one slice.
type Result struct {
	// Platform is the platform we built for.
	Platform Platform

	// ArchivePath is the path of the produced .xcarchive.
	ArchivePath string

	// FrameworkPath is the path of the framework inside the archive.
	FrameworkPath string

	// Status tells the caller whether the build succeeded.
	Status Status

	// Err is the failure reason when Status is [StatusFailed].
	Err error
}

// Config contains the config for [Archive].
type Config struct {
	// ProjectPath is the MANDATORY path of the .xcodeproj.
	ProjectPath string

	// Scheme is the MANDATORY scheme to build.
	Scheme string

	// OutputDir is the MANDATORY directory for build products.
	OutputDir string

	// Logger is the OPTIONAL logger.
	Logger model.Logger
}

// Archive invokes `xcodebuild archive` for the given platform slice.
func Archive(cfg *Config, platform Platform) *Result {
	logger := model.ValidLoggerOrDefault(cfg.Logger)
	archivePath := filepath.Join(cfg.OutputDir, string(platform)+".xcarchive")

	out := &Result{
		Platform:      platform,
		ArchivePath:   archivePath,
		FrameworkPath: filepath.Join(archivePath, "Products", "Library", "Frameworks", cfg.Scheme+".framework"),
		Status:        StatusOK,
		Err:           nil,
	}

	argv, err := shellx.NewArgv("xcodebuild", "archive")
	if err != nil {
		out.Status, out.Err = StatusFailed, err
		return out
	}
	argv.Append("-project", cfg.ProjectPath)
	argv.Append("-scheme", cfg.Scheme)
	argv.Append("-configuration", "Release")
	argv.Append("-destination", destination[platform])
	argv.Append("-archivePath", archivePath)
	argv.Append("SKIP_INSTALL=NO", "BUILD_LIBRARY_FOR_DISTRIBUTION=YES")

	config := &shellx.Config{
		Logger: logger,
		Flags:  shellx.FlagShowStdoutStderr,
	}

	if err := shellx.RunEx(config, argv, &shellx.Envp{}); err != nil {
		logger.Warnf("xcbuild: %s: %s slice failed: %s", cfg.Scheme, platform, err.Error())
		out.Status, out.Err = StatusFailed, err
		return out
	}
	return out
}

// XCRun invokes `xcrun [args]` and returns its first output line or panics.
func XCRun(logger model.Logger, args ...string) string {
	data := runtimex.Try1(shellx.Output(logger, "xcrun", args...))
	out, _, _ := strings.Cut(string(data), "\n")
	return out
}
