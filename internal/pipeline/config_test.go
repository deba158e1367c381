package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/zencoding/mediapipe/internal/buildtest"
	"github.com/zencoding/mediapipe/internal/model"
	"github.com/zencoding/mediapipe/internal/pipeline"
)

func TestConfigFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		for _, key := range []string{
			"DEST_DIR", "MPP_BUILD_VERSION", "ARCHIVE_FRAMEWORK",
			"IS_RELEASE_BUILD", "STRICT_BUILD", "MAX_SOURCES",
		} {
			// t.Setenv registers the restore, then we actually unset
			// because a set-but-empty variable defeats the default.
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
		cfg, err := pipeline.ConfigFromEnv(model.DiscardLogger)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Version != "0.0.1-dev" {
			t.Fatal("invalid default version", cfg.Version)
		}
		if cfg.DestDir != filepath.Join(cfg.RepoRoot, "build_output", "frameworks") {
			t.Fatal("invalid default destination", cfg.DestDir)
		}
		if cfg.CacheDir != filepath.Join(cfg.RepoRoot, "build_output", "deps") {
			t.Fatal("invalid cache dir", cfg.CacheDir)
		}
		if cfg.Archive || cfg.Release || cfg.Strict {
			t.Fatal("expected all the boolean knobs to default to false")
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("DEST_DIR", "/tmp/somewhere")
		t.Setenv("MPP_BUILD_VERSION", "0.10.14")
		t.Setenv("ARCHIVE_FRAMEWORK", "true")
		t.Setenv("IS_RELEASE_BUILD", "true")
		t.Setenv("STRICT_BUILD", "true")
		t.Setenv("MAX_SOURCES", "17")
		cfg, err := pipeline.ConfigFromEnv(model.DiscardLogger)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.DestDir != "/tmp/somewhere" {
			t.Fatal("invalid destination", cfg.DestDir)
		}
		if cfg.Version != "0.10.14" {
			t.Fatal("invalid version", cfg.Version)
		}
		if !cfg.Archive || !cfg.Release || !cfg.Strict {
			t.Fatal("expected all the boolean knobs to be true")
		}
		if cfg.MaxSources != 17 {
			t.Fatal("invalid max sources", cfg.MaxSources)
		}
	})

	t.Run("an unparsable knob is an error", func(t *testing.T) {
		t.Setenv("MAX_SOURCES", "antani")
		if _, err := pipeline.ConfigFromEnv(model.DiscardLogger); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("the all-defaults configuration passes destination validation", func(t *testing.T) {
		for _, key := range []string{
			"DEST_DIR", "MPP_BUILD_VERSION", "ARCHIVE_FRAMEWORK",
			"IS_RELEASE_BUILD", "STRICT_BUILD", "MAX_SOURCES",
		} {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
		cfg, err := pipeline.ConfigFromEnv(model.DiscardLogger)
		if err != nil {
			t.Fatal(err)
		}
		cc := &buildtest.StageCallCounter{}
		summary, err := pipeline.Run(context.Background(), cfg, cc, []string{"MediaPipeTasksText"})
		if err != nil {
			t.Fatal(err)
		}
		if len(summary.Results) != 1 {
			t.Fatal("expected a single result, got", len(summary.Results))
		}
		if summary.Results[0].Status != pipeline.StatusOK {
			t.Fatal("unexpected status", summary.Results[0].Status, summary.Results[0].Err)
		}
	})
}
