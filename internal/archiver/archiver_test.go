package archiver

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/zencoding/mediapipe/internal/fsx"
	"github.com/zencoding/mediapipe/internal/model"
)

func TestValidateDestination(t *testing.T) {

	// testspec specifies a test case for this test
	type testspec struct {
		// name is the name of the test case
		name string

		// destDir is the destination relative to the repo root
		// (or absolute when starting with "/")
		destDir string

		// expectErr indicates whether we expect a rejection
		expectErr bool
	}

	var testcases = []testspec{{
		name:      "outside the repository",
		destDir:   "/tmp/frameworks",
		expectErr: false,
	}, {
		name:      "under the designated build subtree",
		destDir:   "build_output/frameworks",
		expectErr: false,
	}, {
		name:      "at the repository root",
		destDir:   ".",
		expectErr: true,
	}, {
		name:      "elsewhere under the repository root",
		destDir:   "mediapipe/tasks",
		expectErr: true,
	}}

	for _, testcase := range testcases {
		t.Run(testcase.name, func(t *testing.T) {
			repoRoot := t.TempDir()
			destDir := testcase.destDir
			if !filepath.IsAbs(destDir) {
				destDir = filepath.Join(repoRoot, destDir)
			}
			err := ValidateDestination(destDir, repoRoot)
			if err != nil && !testcase.expectErr {
				t.Fatal("did not expect an error", err)
			}
			if testcase.expectErr && !errors.Is(err, ErrDestinationInsideRepo) {
				t.Fatal("unexpected error", err)
			}
		})
	}
}

// newBundle creates a minimal fake .xcframework on disk.
func newBundle(t *testing.T, dir string) string {
	bundle := filepath.Join(dir, "MediaPipeTasksText.xcframework")
	frameworkDir := filepath.Join(bundle, "ios-arm64", "MediaPipeTasksText.framework")
	if err := os.MkdirAll(frameworkDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(bundle, "Info.plist"), []byte("<plist/>"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(frameworkDir, "MediaPipeTasksText"), []byte("binary"), 0644); err != nil {
		t.Fatal(err)
	}
	return bundle
}

// newLicense creates a fake license file.
func newLicense(t *testing.T, dir string) string {
	license := filepath.Join(dir, "LICENSE")
	if err := os.WriteFile(license, []byte("Apache License 2.0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return license
}

func TestPublish(t *testing.T) {
	t.Run("non-archive mode copies the staged tree verbatim", func(t *testing.T) {
		workDir := t.TempDir()
		cfg := &Config{
			DestDir: filepath.Join(workDir, "dest"),
			Version: "0.0.1-dev",
			Archive: false,
			Logger:  model.DiscardLogger,
		}
		published, err := Publish(cfg, "MediaPipeTasksText", newBundle(t, workDir), newLicense(t, workDir))
		if err != nil {
			t.Fatal(err)
		}
		if published != filepath.Join(cfg.DestDir, "MediaPipeTasksText") {
			t.Fatal("invalid published path", published)
		}
		if !fsx.RegularFileExists(filepath.Join(published, "LICENSE")) {
			t.Fatal("missing staged LICENSE")
		}
		if !fsx.DirectoryExists(filepath.Join(published, "frameworks", "MediaPipeTasksText.xcframework")) {
			t.Fatal("missing staged bundle")
		}
	})

	t.Run("archive mode uses the literal name/version path", func(t *testing.T) {
		workDir := t.TempDir()
		cfg := &Config{
			DestDir: filepath.Join(workDir, "dest"),
			Version: "0.0.1-dev",
			Archive: true,
			Logger:  model.DiscardLogger,
		}
		published, err := Publish(cfg, "MediaPipeTasksText", newBundle(t, workDir), newLicense(t, workDir))
		if err != nil {
			t.Fatal(err)
		}
		expect := filepath.Join(cfg.DestDir, "MediaPipeTasksText", "0.0.1-dev",
			"MediaPipeTasksText-0.0.1-dev.tar.gz")
		if published != expect {
			t.Fatal("invalid published path", published)
		}
		if !fsx.RegularFileExists(published) {
			t.Fatal("missing tarball")
		}
	})

	t.Run("release mode is content addressed and deterministic", func(t *testing.T) {
		workDir := t.TempDir()
		bundle := newBundle(t, workDir)
		license := newLicense(t, workDir)
		cfg := &Config{
			DestDir: filepath.Join(workDir, "dest"),
			Version: "0.0.1-dev",
			Archive: true,
			Release: true,
			Logger:  model.DiscardLogger,
		}

		first, err := Publish(cfg, "MediaPipeTasksText", bundle, license)
		if err != nil {
			t.Fatal(err)
		}
		second, err := Publish(cfg, "MediaPipeTasksText", bundle, license)
		if err != nil {
			t.Fatal(err)
		}
		if first != second {
			t.Fatal("expected the same content-addressed path", first, second)
		}

		// Changing any staged file must change the package identity:
		// the hash covers the license too, not just the bundle.
		if err := os.WriteFile(license, []byte("BSD\n"), 0644); err != nil {
			t.Fatal(err)
		}
		third, err := Publish(cfg, "MediaPipeTasksText", bundle, license)
		if err != nil {
			t.Fatal(err)
		}
		if third == first {
			t.Fatal("expected a different content-addressed path")
		}
	})

	t.Run("the staging tree is removed on success", func(t *testing.T) {
		workDir := t.TempDir()
		tmpDir := t.TempDir()
		t.Setenv("TMPDIR", tmpDir)
		cfg := &Config{
			DestDir: filepath.Join(workDir, "dest"),
			Version: "0.0.1-dev",
			Archive: true,
			Logger:  model.DiscardLogger,
		}
		if _, err := Publish(cfg, "MediaPipeTasksText", newBundle(t, workDir), newLicense(t, workDir)); err != nil {
			t.Fatal(err)
		}
		entries, err := os.ReadDir(tmpDir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 0 {
			t.Fatal("expected an empty temporary directory, got", entries)
		}
	})

	t.Run("the staging tree is removed on failure", func(t *testing.T) {
		workDir := t.TempDir()
		tmpDir := t.TempDir()
		t.Setenv("TMPDIR", tmpDir)
		cfg := &Config{
			DestDir: filepath.Join(workDir, "dest"),
			Version: "0.0.1-dev",
			Logger:  model.DiscardLogger,
		}
		missingLicense := filepath.Join(workDir, "no-such-license")
		if _, err := Publish(cfg, "MediaPipeTasksText", newBundle(t, workDir), missingLicense); err == nil {
			t.Fatal("expected an error")
		}
		entries, err := os.ReadDir(tmpDir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 0 {
			t.Fatal("expected an empty temporary directory, got", entries)
		}
	})
}

func TestTreeHash(t *testing.T) {
	t.Run("is independent of directory layout differences that do not change content", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "a"), []byte("aaa"), 0644); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "b"), []byte("bbb"), 0644); err != nil {
			t.Fatal(err)
		}
		first, err := TreeHash(dir)
		if err != nil {
			t.Fatal(err)
		}

		// Same contents under different names hash identically
		// because we hash the sorted digest list, not the paths.
		other := t.TempDir()
		if err := os.WriteFile(filepath.Join(other, "z"), []byte("bbb"), 0644); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(other, "y"), []byte("aaa"), 0644); err != nil {
			t.Fatal(err)
		}
		second, err := TreeHash(other)
		if err != nil {
			t.Fatal(err)
		}
		if first != second {
			t.Fatal("expected equal tree hashes")
		}
	})

	t.Run("changes when any file changes", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "a"), []byte("aaa"), 0644); err != nil {
			t.Fatal(err)
		}
		first, err := TreeHash(dir)
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "a"), []byte("AAA"), 0644); err != nil {
			t.Fatal(err)
		}
		second, err := TreeHash(dir)
		if err != nil {
			t.Fatal(err)
		}
		if first == second {
			t.Fatal("expected different tree hashes")
		}
	})
}
