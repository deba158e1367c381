// Package examples builds the example-app IPAs.
package examples

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/zencoding/mediapipe/internal/fsx"
	"github.com/zencoding/mediapipe/internal/model"
	"github.com/zencoding/mediapipe/internal/shellx"
	"github.com/zencoding/mediapipe/internal/xcbuild"
)

// App describes an example application.
type App struct {
	// Name is the app (and scheme) name.
	Name string

	// ProjectPath is the .xcodeproj path relative to the repo root.
	ProjectPath string
}

// Apps is the fixed list of example applications.
var Apps = []*App{{
	Name:        "TextClassifier",
	ProjectPath: "examples/text_classifier/ios/TextClassifier.xcodeproj",
}, {
	Name:        "ObjectDetector",
	ProjectPath: "examples/object_detector/ios/ObjectDetector.xcodeproj",
}, {
	Name:        "AudioClassifier",
	ProjectPath: "examples/audio_classifier/ios/AudioClassifier.xcodeproj",
}}

// Config contains the config for [BuildAll].
type Config struct {
	// RepoRoot is the MANDATORY repository root.
	RepoRoot string

	// OutputDir is the MANDATORY directory for the produced IPAs.
	OutputDir string

	// SkipSymbolStrip OPTIONALLY disables stripping the binaries.
	SkipSymbolStrip bool

	// Logger is the OPTIONAL logger.
	Logger model.Logger
}

// BuildAll builds every example app, best effort: a failed app is
// logged and we move on to the next one.
func BuildAll(cfg *Config) error {
	logger := model.ValidLoggerOrDefault(cfg.Logger)
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return err
	}
	for _, app := range Apps {
		if err := buildApp(cfg, app); err != nil {
			logger.Warnf("examples: %s: %s", app.Name, err.Error())
			continue
		}
		logger.Infof("examples: built %s", app.Name)
	}
	return nil
}

// buildApp builds a single example app and packages it as an IPA.
func buildApp(cfg *Config, app *App) error {
	logger := model.ValidLoggerOrDefault(cfg.Logger)

	buildDir, err := os.MkdirTemp("", "mediapipe-example-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(buildDir)

	argv, err := shellx.NewArgv("xcodebuild", "build")
	if err != nil {
		return err
	}
	argv.Append("-project", filepath.Join(cfg.RepoRoot, app.ProjectPath))
	argv.Append("-scheme", app.Name)
	argv.Append("-configuration", "Release")
	argv.Append("-sdk", "iphoneos")
	argv.Append("-derivedDataPath", buildDir)
	argv.Append("CODE_SIGNING_ALLOWED=NO")

	config := &shellx.Config{
		Logger: logger,
		Flags:  shellx.FlagShowStdoutStderr,
	}
	if err := shellx.RunEx(config, argv, &shellx.Envp{}); err != nil {
		return err
	}

	appDir := filepath.Join(buildDir, "Build", "Products", "Release-iphoneos", app.Name+".app")
	if !fsx.DirectoryExists(appDir) {
		return fmt.Errorf("examples: missing %s", appDir)
	}
	if !cfg.SkipSymbolStrip {
		binary := filepath.Join(appDir, app.Name)
		strip := xcbuild.XCRun(logger, "--find", "strip")
		if err := shellx.Run(logger, strip, "-x", binary); err != nil {
			return err
		}
	}

	// An IPA is a zip archive with the app under Payload/.
	payload := filepath.Join(buildDir, "Payload")
	if err := copyTree(appDir, filepath.Join(payload, app.Name+".app")); err != nil {
		return err
	}
	ipa := filepath.Join(cfg.OutputDir, app.Name+".ipa")
	return zipDir(ipa, buildDir, "Payload")
}

// copyTree recursively copies src to dst.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		info, err := d.Info()
		if err != nil {
			return err
		}
		if d.IsDir() {
			return os.MkdirAll(target, info.Mode().Perm())
		}
		return shellx.CopyFile(path, target, info.Mode().Perm())
	})
}

// zipDir writes a zip archive of root/dir rooted at dir.
func zipDir(filename, root, dir string) error {
	filep, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer filep.Close()
	zw := zip.NewWriter(filep)
	err = filepath.WalkDir(filepath.Join(root, dir), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		src, err := fsx.OpenFile(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(w, src)
		return err
	})
	if err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return filep.Close()
}
