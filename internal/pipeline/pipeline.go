// Package pipeline is the top-level driver: it runs the full
// provision → synthesize → build → merge → publish sequence for each
// requested target, strictly one target at a time.
//
// Step failures follow the policy of the shell scripts this tool
// replaces: environment preconditions abort the run, while per-target
// tool failures degrade the output and let later targets proceed,
// unless strict mode is enabled.
package pipeline

import (
	"context"
	"fmt"

	"github.com/zencoding/mediapipe/internal/archiver"
	"github.com/zencoding/mediapipe/internal/deps"
	"github.com/zencoding/mediapipe/internal/model"
	"github.com/zencoding/mediapipe/internal/projgen"
	"github.com/zencoding/mediapipe/internal/targets"
	"github.com/zencoding/mediapipe/internal/xcbuild"
	"github.com/zencoding/mediapipe/internal/xcframework"
)

// Status is the per-target outcome.
type Status int

const (
	// StatusOK means every stage succeeded.
	StatusOK = Status(iota)

	// StatusDegraded means we published placeholder output.
	StatusDegraded

	// StatusFailed means the target produced nothing.
	StatusFailed
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusDegraded:
		return "degraded"
	default:
		return "failed"
	}
}

// TargetResult is the outcome of one target's pipeline.
type TargetResult struct {
	// Target is the target name.
	Target string

	// Status is the outcome.
	Status Status

	// PublishedPath is where the package landed, when it did.
	PublishedPath string

	// Err explains degraded and failed outcomes.
	Err error
}

// Summary is the outcome of a whole run.
type Summary struct {
	// Results contains one entry per attempted target, in order.
	Results []*TargetResult

	// DestDir is the destination directory we published to.
	DestDir string
}

// Dependencies abstracts the stages so tests can count and fake them.
type Dependencies interface {
	// Provision ensures a binary dependency exists locally.
	Provision(cfg *Config, dep *deps.Dependency) (string, error)

	// Synthesize generates the build descriptors for a target.
	Synthesize(cfg *Config, target *targets.Target) (*projgen.Project, error)

	// BuildSlice builds one platform slice.
	BuildSlice(cfg *Config, proj *projgen.Project, target *targets.Target, platform xcbuild.Platform) *xcbuild.Result

	// Merge merges the slices into an XCFramework.
	Merge(cfg *Config, target *targets.Target, slices []*xcbuild.Result) *xcframework.Result

	// Publish stages and publishes the bundle.
	Publish(cfg *Config, target *targets.Target, bundlePath string) (string, error)
}

// StageRunner is the production [Dependencies] implementation.
type StageRunner struct{}

var _ Dependencies = &StageRunner{}

// Provision implements [Dependencies].
func (*StageRunner) Provision(cfg *Config, dep *deps.Dependency) (string, error) {
	provisioner := &deps.Provisioner{
		CacheDir: cfg.CacheDir,
		Logger:   cfg.Logger,
	}
	return provisioner.Ensure(dep)
}

// Synthesize implements [Dependencies].
func (*StageRunner) Synthesize(cfg *Config, target *targets.Target) (*projgen.Project, error) {
	return projgen.Generate(&projgen.Config{
		Target:     target,
		RepoRoot:   cfg.RepoRoot,
		OutputDir:  cfg.BuildOutputDir(target.Name),
		MaxSources: cfg.MaxSources,
		Logger:     cfg.Logger,
	})
}

// BuildSlice implements [Dependencies].
func (*StageRunner) BuildSlice(cfg *Config, proj *projgen.Project, target *targets.Target, platform xcbuild.Platform) *xcbuild.Result {
	return xcbuild.Archive(&xcbuild.Config{
		ProjectPath: proj.ProjectPath,
		Scheme:      target.Name,
		OutputDir:   cfg.BuildOutputDir(target.Name),
		Logger:      cfg.Logger,
	}, platform)
}

// Merge implements [Dependencies].
func (*StageRunner) Merge(cfg *Config, target *targets.Target, slices []*xcbuild.Result) *xcframework.Result {
	return xcframework.Create(&xcframework.Config{
		Name:      target.Name,
		OutputDir: cfg.BuildOutputDir(target.Name),
		Strict:    cfg.Strict,
		Logger:    cfg.Logger,
	}, slices)
}

// Publish implements [Dependencies].
func (*StageRunner) Publish(cfg *Config, target *targets.Target, bundlePath string) (string, error) {
	return archiver.Publish(&archiver.Config{
		DestDir: cfg.DestDir,
		Version: cfg.Version,
		Archive: cfg.Archive,
		Release: cfg.Release,
		Logger:  cfg.Logger,
	}, target.Name, bundlePath, cfg.LicensePath)
}

// Run resolves the given target names and runs the per-target pipeline
// for each of them in order. Unknown names and invalid destinations
// fail before any network or build action. A non-nil error means the
// whole run failed; individual best-effort degradations do not.
func Run(ctx context.Context, cfg *Config, stages Dependencies, names []string) (*Summary, error) {
	logger := model.ValidLoggerOrDefault(cfg.Logger)

	resolved := []*targets.Target{}
	for _, name := range names {
		target, err := targets.Lookup(name)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, target)
	}
	if err := archiver.ValidateDestination(cfg.DestDir, cfg.RepoRoot); err != nil {
		return nil, err
	}

	summary := &Summary{DestDir: cfg.DestDir}
	for _, target := range resolved {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		result := runTarget(ctx, cfg, stages, target)
		summary.Results = append(summary.Results, result)
		if cfg.Strict && result.Status != StatusOK {
			return summary, fmt.Errorf("pipeline: %s: %w", target.Name, result.Err)
		}
		if result.Status == StatusFailed && result.Err != nil {
			// Provisioning failures poison every later target too.
			if _, isFatal := result.Err.(*fatalError); isFatal {
				return summary, result.Err
			}
		}
	}

	logSummary(logger, summary)
	return summary, nil
}

// fatalError marks errors that must abort the whole run.
type fatalError struct {
	err error
}

// Error implements error.
func (fe *fatalError) Error() string {
	return fe.err.Error()
}

// Unwrap supports errors.Is and errors.As.
func (fe *fatalError) Unwrap() error {
	return fe.err
}

// runTarget runs the full pipeline for a single target.
func runTarget(ctx context.Context, cfg *Config, stages Dependencies, target *targets.Target) *TargetResult {
	logger := model.ValidLoggerOrDefault(cfg.Logger)
	logger.Infof("pipeline: building %s", target.Name)
	out := &TargetResult{Target: target.Name, Status: StatusOK}

	// 1. provision: required by every later stage, hence fatal.
	for _, depName := range target.Deps {
		dependency, err := deps.Lookup(depName)
		if err != nil {
			out.Status, out.Err = StatusFailed, &fatalError{err}
			return out
		}
		if _, err := stages.Provision(cfg, dependency); err != nil {
			out.Status, out.Err = StatusFailed, &fatalError{err}
			return out
		}
	}
	if err := ctx.Err(); err != nil {
		out.Status, out.Err = StatusFailed, &fatalError{err}
		return out
	}

	// 2. synthesize the build descriptors.
	proj, err := stages.Synthesize(cfg, target)
	if err != nil {
		logger.Warnf("pipeline: %s: cannot synthesize project: %s", target.Name, err.Error())
		out.Status, out.Err = StatusFailed, err
		return out
	}

	// 3. build one archive per platform slice (best effort).
	slices := []*xcbuild.Result{
		stages.BuildSlice(cfg, proj, target, xcbuild.PlatformDevice),
		stages.BuildSlice(cfg, proj, target, xcbuild.PlatformSimulator),
	}
	for _, slice := range slices {
		if slice.Status != xcbuild.StatusOK {
			out.Status, out.Err = StatusDegraded, slice.Err
		}
	}

	// 4. merge the slices (or substitute a placeholder).
	merged := stages.Merge(cfg, target, slices)
	switch merged.Status {
	case xcframework.StatusDegraded:
		out.Status = StatusDegraded
	case xcframework.StatusFailed:
		out.Status, out.Err = StatusFailed, merged.Err
		return out
	}

	// 5. publish to the destination.
	published, err := stages.Publish(cfg, target, merged.BundlePath)
	if err != nil {
		out.Status, out.Err = StatusFailed, err
		return out
	}
	out.PublishedPath = published
	return out
}

// logSummary prints the final per-target report.
func logSummary(logger model.Logger, summary *Summary) {
	logger.Infof("pipeline: destination: %s", summary.DestDir)
	for _, result := range summary.Results {
		if result.Err != nil && result.Status != StatusOK {
			logger.Infof("pipeline: %s: %s (%s)", result.Target, result.Status, result.Err.Error())
			continue
		}
		logger.Infof("pipeline: %s: %s", result.Target, result.Status)
	}
}
