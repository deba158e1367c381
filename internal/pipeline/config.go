package pipeline

import (
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"github.com/zencoding/mediapipe/internal/model"
)

// Config is the explicit configuration passed to every stage. The
// environment is read exactly once, in [ConfigFromEnv]; stages never
// consult process-wide variables themselves.
type Config struct {
	// DestDir is the destination directory for published packages.
	DestDir string `envconfig:"DEST_DIR"`

	// Version is the build version string.
	Version string `envconfig:"MPP_BUILD_VERSION" default:"0.0.1-dev"`

	// Archive packages the staged tree as a tarball when true.
	Archive bool `envconfig:"ARCHIVE_FRAMEWORK"`

	// Release enables content-hash addressing of the package path.
	Release bool `envconfig:"IS_RELEASE_BUILD"`

	// Strict turns degraded results into hard failures.
	Strict bool `envconfig:"STRICT_BUILD"`

	// MaxSources bounds how many discovered sources get registered
	// into the generated descriptor. Zero means all.
	MaxSources int `envconfig:"MAX_SOURCES"`

	// RepoRoot is the repository root (defaults to the cwd).
	RepoRoot string `ignored:"true"`

	// CacheDir is where provisioned dependencies live.
	CacheDir string `ignored:"true"`

	// LicensePath is the license file staged into every package.
	LicensePath string `ignored:"true"`

	// Logger is the logger used by every stage.
	Logger model.Logger `ignored:"true"`
}

// ConfigFromEnv parses the documented environment variables and fills
// the derived paths with their defaults.
func ConfigFromEnv(logger model.Logger) (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg.RepoRoot = cwd
	if cfg.DestDir == "" {
		// The default must satisfy the destination validator, which
		// only accepts in-repo paths under build_output.
		cfg.DestDir = filepath.Join(cwd, "build_output", "frameworks")
	}
	cfg.CacheDir = filepath.Join(cwd, "build_output", "deps")
	cfg.LicensePath = filepath.Join(cwd, "LICENSE")
	cfg.Logger = logger
	return cfg, nil
}

// BuildOutputDir returns the per-target build output directory.
func (cfg *Config) BuildOutputDir(targetName string) string {
	return filepath.Join(cfg.RepoRoot, "build_output", targetName)
}
