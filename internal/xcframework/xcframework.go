// Package xcframework merges per-platform framework slices into a
// single XCFramework bundle.
//
// When a required slice is missing or xcodebuild fails, best-effort
// mode substitutes a structurally valid placeholder bundle so that
// downstream packaging and testing can proceed without the toolchain;
// strict mode turns the same condition into an error.
package xcframework

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zencoding/mediapipe/internal/fsx"
	"github.com/zencoding/mediapipe/internal/model"
	"github.com/zencoding/mediapipe/internal/shellx"
	"github.com/zencoding/mediapipe/internal/xcbuild"
	"howett.net/plist"
)

// Status is the outcome of creating an XCFramework.
type Status int

const (
	// StatusOK means we merged the real slices.
	StatusOK = Status(iota)

	// StatusDegraded means we substituted a placeholder bundle.
	StatusDegraded

	// StatusFailed means strict mode refused to degrade.
	StatusFailed
)

// Result is the explicit outcome of the merge.
type Result struct {
	// BundlePath is the path of the .xcframework directory.
	BundlePath string

	// Status tells the caller what actually happened.
	Status Status

	// Err is the failure reason when Status is [StatusFailed].
	Err error
}

// Config contains the config for [Create].
type Config struct {
	// Name is the MANDATORY framework name.
	Name string

	// OutputDir is the MANDATORY directory where to create the bundle.
	OutputDir string

	// Strict OPTIONALLY refuses the placeholder fallback.
	Strict bool

	// Logger is the OPTIONAL logger.
	Logger model.Logger
}

// Create merges the given slices into <OutputDir>/<Name>.xcframework.
func Create(cfg *Config, slices []*xcbuild.Result) *Result {
	logger := model.ValidLoggerOrDefault(cfg.Logger)
	bundlePath := filepath.Join(cfg.OutputDir, cfg.Name+".xcframework")

	// A rebuilt bundle must not inherit slices from a previous run.
	if err := os.RemoveAll(bundlePath); err != nil {
		return &Result{BundlePath: bundlePath, Status: StatusFailed, Err: err}
	}

	if reason := missingSlice(slices); reason != nil {
		return degradeOrFail(cfg, logger, bundlePath, slices, reason)
	}

	argv, err := shellx.NewArgv("xcodebuild", "-create-xcframework")
	if err != nil {
		return degradeOrFail(cfg, logger, bundlePath, slices, err)
	}
	for _, slice := range slices {
		argv.Append("-framework", slice.FrameworkPath)
	}
	argv.Append("-output", bundlePath)

	config := &shellx.Config{
		Logger: logger,
		Flags:  shellx.FlagShowStdoutStderr,
	}

	if err := shellx.RunEx(config, argv, &shellx.Envp{}); err != nil {
		return degradeOrFail(cfg, logger, bundlePath, slices, err)
	}
	return &Result{BundlePath: bundlePath, Status: StatusOK, Err: nil}
}

// missingSlice explains why we cannot merge, or returns nil.
func missingSlice(slices []*xcbuild.Result) error {
	for _, slice := range slices {
		if slice.Status != xcbuild.StatusOK {
			return fmt.Errorf("xcframework: %s slice did not build", slice.Platform)
		}
		if !fsx.DirectoryExists(slice.FrameworkPath) {
			return fmt.Errorf("xcframework: missing %s", slice.FrameworkPath)
		}
	}
	return nil
}

// degradeOrFail applies the strict-vs-best-effort policy.
func degradeOrFail(cfg *Config, logger model.Logger, bundlePath string, slices []*xcbuild.Result, reason error) *Result {
	if cfg.Strict {
		return &Result{BundlePath: bundlePath, Status: StatusFailed, Err: reason}
	}
	logger.Warnf("xcframework: %s: substituting placeholder bundle: %s", cfg.Name, reason.Error())
	if err := WritePlaceholder(bundlePath, cfg.Name, slices); err != nil {
		return &Result{BundlePath: bundlePath, Status: StatusFailed, Err: err}
	}
	return &Result{BundlePath: bundlePath, Status: StatusDegraded, Err: nil}
}

// manifest is the Info.plist at the root of an XCFramework.
type manifest struct {
	AvailableLibraries       []availableLibrary `plist:"AvailableLibraries"`
	CFBundlePackageType      string             `plist:"CFBundlePackageType"`
	XCFrameworkFormatVersion string             `plist:"XCFrameworkFormatVersion"`
}

// availableLibrary is one architecture/platform pair in the manifest.
type availableLibrary struct {
	LibraryIdentifier        string   `plist:"LibraryIdentifier"`
	LibraryPath              string   `plist:"LibraryPath"`
	SupportedArchitectures   []string `plist:"SupportedArchitectures"`
	SupportedPlatform        string   `plist:"SupportedPlatform"`
	SupportedPlatformVariant string   `plist:"SupportedPlatformVariant,omitempty"`
}

// sliceArchitectures maps a platform to the architectures we declare.
var sliceArchitectures = map[xcbuild.Platform][]string{
	xcbuild.PlatformDevice:    {"arm64"},
	xcbuild.PlatformSimulator: {"arm64", "x86_64"},
}

// WritePlaceholder synthesizes an empty but structurally valid bundle:
// one directory per slice, an empty binary stub, and a manifest whose
// shape matches what xcodebuild would have produced.
func WritePlaceholder(bundlePath, name string, slices []*xcbuild.Result) error {
	m := &manifest{
		CFBundlePackageType:      "XFWK",
		XCFrameworkFormatVersion: "1.0",
	}
	for _, slice := range slices {
		identifier := slice.Platform.Identifier()
		frameworkDir := filepath.Join(bundlePath, identifier, name+".framework")
		if err := os.MkdirAll(filepath.Join(frameworkDir, "Headers"), 0755); err != nil {
			return err
		}
		// Empty stub so the bundle shape is complete.
		if err := os.WriteFile(filepath.Join(frameworkDir, name), nil, 0644); err != nil {
			return err
		}
		lib := availableLibrary{
			LibraryIdentifier:      identifier,
			LibraryPath:            name + ".framework",
			SupportedArchitectures: sliceArchitectures[slice.Platform],
			SupportedPlatform:      "ios",
		}
		if slice.Platform == xcbuild.PlatformSimulator {
			lib.SupportedPlatformVariant = "simulator"
		}
		m.AvailableLibraries = append(m.AvailableLibraries, lib)
	}
	data, err := plist.MarshalIndent(m, plist.XMLFormat, "\t")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(bundlePath, "Info.plist"), data, 0644)
}

// ReadManifest parses the Info.plist of an existing bundle and returns
// the library identifiers it declares.
func ReadManifest(bundlePath string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(bundlePath, "Info.plist"))
	if err != nil {
		return nil, err
	}
	var m manifest
	if _, err := plist.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	out := []string{}
	for _, lib := range m.AvailableLibraries {
		out = append(out, lib.LibraryIdentifier)
	}
	return out, nil
}
