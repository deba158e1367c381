// Package buildtest contains code for testing the build pipeline.
package buildtest

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/google/go-cmp/cmp"
	"github.com/zencoding/mediapipe/internal/deps"
	"github.com/zencoding/mediapipe/internal/pipeline"
	"github.com/zencoding/mediapipe/internal/projgen"
	"github.com/zencoding/mediapipe/internal/shellx/shellxtesting"
	"github.com/zencoding/mediapipe/internal/targets"
	"github.com/zencoding/mediapipe/internal/xcbuild"
	"github.com/zencoding/mediapipe/internal/xcframework"
	"golang.org/x/sys/execabs"
)

// SimpleCommandCollector implements [shellx.Dependencies] by
// pretending every command succeeds and collecting their [execabs.Cmd].
type SimpleCommandCollector struct {
	// Commands contains the commands we collected.
	Commands []*execabs.Cmd

	// mu provides mutual exclusion.
	mu sync.Mutex
}

// CmdOutput implements shellx.Dependencies
func (cc *SimpleCommandCollector) CmdOutput(c *execabs.Cmd) ([]byte, error) {
	defer cc.mu.Unlock()
	cc.mu.Lock()
	cc.Commands = append(cc.Commands, c)
	return []byte{}, nil
}

// CmdRun implements shellx.Dependencies
func (cc *SimpleCommandCollector) CmdRun(c *execabs.Cmd) error {
	defer cc.mu.Unlock()
	cc.mu.Lock()
	cc.Commands = append(cc.Commands, c)
	return nil
}

// LookPath implements shellx.Dependencies
func (cc *SimpleCommandCollector) LookPath(file string) (string, error) {
	return file, nil // as if it were in the PATH
}

// ExecExpectations describes what we would expect to see in
// terms of executed subcommands.
type ExecExpectations struct {
	// Env contains the environment variables we expect to see.
	Env []string

	// Argv contains the command arguments we expect to see.
	Argv []string
}

// CheckManyCommands applies [CheckSingleCommand] for each command
// and expectation pair, failing on length mismatches.
func CheckManyCommands(cmds []*execabs.Cmd, tee []ExecExpectations) error {
	if len(cmds) != len(tee) {
		return fmt.Errorf("expected %d commands but got %d", len(tee), len(cmds))
	}
	for idx := 0; idx < len(cmds); idx++ {
		if err := CheckSingleCommand(cmds[idx], tee[idx]); err != nil {
			return fmt.Errorf("command %d: %w", idx, err)
		}
	}
	return nil
}

// CheckSingleCommand checks whether a single command conforms
// with the given expectations.
func CheckSingleCommand(cmd *execabs.Cmd, tee ExecExpectations) error {
	env := shellxtesting.RemoveCommonEnvironmentVariables(cmd)
	if diff := cmp.Diff(tee.Env, env); diff != "" {
		return errors.New("environment mismatch: " + diff)
	}
	argv := shellxtesting.MustArgv(cmd)
	if len(argv) != len(tee.Argv) {
		return fmt.Errorf("expected %d arguments but got %d: %v", len(tee.Argv), len(argv), argv)
	}
	// The first argument is an absolute or relative path whose last
	// component must be the program we expected to execute.
	if filepath.Base(argv[0]) != tee.Argv[0] {
		return fmt.Errorf("expected program %s but got %s", tee.Argv[0], argv[0])
	}
	if diff := cmp.Diff(tee.Argv[1:], argv[1:]); diff != "" {
		return errors.New("arguments mismatch: " + diff)
	}
	return nil
}

// Tags to identify pipeline stage calls.
const (
	TagProvision  = "Provision"
	TagSynthesize = "Synthesize"
	TagBuildSlice = "BuildSlice"
	TagMerge      = "Merge"
	TagPublish    = "Publish"
)

// StageCallCounter implements [pipeline.Dependencies] by counting
// stage invocations and returning configurable canned results.
type StageCallCounter struct {
	// Counter counts the stage calls.
	Counter map[string]int

	// ProvisionErr is the optional error Provision returns.
	ProvisionErr error

	// SynthesizeErr is the optional error Synthesize returns.
	SynthesizeErr error

	// FailPlatforms optionally makes the given slices fail.
	FailPlatforms map[xcbuild.Platform]bool

	// MergeStatus is the status Merge returns.
	MergeStatus xcframework.Status

	// PublishErr is the optional error Publish returns.
	PublishErr error

	// mu provides mutual exclusion.
	mu sync.Mutex
}

var _ pipeline.Dependencies = &StageCallCounter{}

// increment increments the counter of the given tag.
func (cc *StageCallCounter) increment(tag string) {
	defer cc.mu.Unlock()
	cc.mu.Lock()
	if cc.Counter == nil {
		cc.Counter = make(map[string]int)
	}
	cc.Counter[tag]++
}

// Provision implements pipeline.Dependencies
func (cc *StageCallCounter) Provision(cfg *pipeline.Config, dep *deps.Dependency) (string, error) {
	cc.increment(TagProvision)
	if cc.ProvisionErr != nil {
		return "", cc.ProvisionErr
	}
	return filepath.Join(cfg.CacheDir, dep.Name), nil
}

// Synthesize implements pipeline.Dependencies
func (cc *StageCallCounter) Synthesize(cfg *pipeline.Config, target *targets.Target) (*projgen.Project, error) {
	cc.increment(TagSynthesize)
	if cc.SynthesizeErr != nil {
		return nil, cc.SynthesizeErr
	}
	return &projgen.Project{
		ProjectPath: filepath.Join(cfg.BuildOutputDir(target.Name), target.Name+".xcodeproj"),
	}, nil
}

// BuildSlice implements pipeline.Dependencies
func (cc *StageCallCounter) BuildSlice(cfg *pipeline.Config, proj *projgen.Project,
	target *targets.Target, platform xcbuild.Platform) *xcbuild.Result {
	cc.increment(TagBuildSlice)
	out := &xcbuild.Result{
		Platform:    platform,
		ArchivePath: filepath.Join(cfg.BuildOutputDir(target.Name), string(platform)+".xcarchive"),
		Status:      xcbuild.StatusOK,
	}
	if cc.FailPlatforms[platform] {
		out.Status = xcbuild.StatusFailed
		out.Err = errors.New("mocked build failure")
	}
	return out
}

// Merge implements pipeline.Dependencies
func (cc *StageCallCounter) Merge(cfg *pipeline.Config, target *targets.Target,
	slices []*xcbuild.Result) *xcframework.Result {
	cc.increment(TagMerge)
	out := &xcframework.Result{
		BundlePath: filepath.Join(cfg.BuildOutputDir(target.Name), target.Name+".xcframework"),
		Status:     cc.MergeStatus,
	}
	if out.Status == xcframework.StatusFailed {
		out.Err = errors.New("mocked merge failure")
	}
	return out
}

// Publish implements pipeline.Dependencies
func (cc *StageCallCounter) Publish(cfg *pipeline.Config, target *targets.Target, bundlePath string) (string, error) {
	cc.increment(TagPublish)
	if cc.PublishErr != nil {
		return "", cc.PublishErr
	}
	return filepath.Join(cfg.DestDir, target.Name), nil
}
