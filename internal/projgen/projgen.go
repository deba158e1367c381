// Package projgen synthesizes the Xcode build descriptors (the
// project.pbxproj and the shared .xcscheme) for a build target.
//
// Sources and headers are discovered by scanning the target's
// registered subtrees; the discovered listing is also written to an
// intermediate file so that later steps (and humans debugging a build)
// can see exactly which files were registered.
package projgen

import (
	"crypto/sha256"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/zencoding/mediapipe/internal/model"
	"github.com/zencoding/mediapipe/internal/targets"
)

// Config contains the config for generating a project.
type Config struct {
	// Target is the MANDATORY target to generate for.
	Target *targets.Target

	// RepoRoot is the MANDATORY repository root to scan.
	RepoRoot string

	// OutputDir is the MANDATORY directory where to write the
	// project (typically build_output/<target>).
	OutputDir string

	// MaxSources OPTIONALLY bounds how many discovered sources we
	// register into the descriptor. Zero means all of them.
	//
	// The shell scripts this tool replaces only registered a small
	// prefix of the discovered sources, which looks like an
	// unfinished feature rather than a deliberate policy. We default
	// to registering everything.
	MaxSources int

	// Logger is the OPTIONAL logger.
	Logger model.Logger
}

// Project describes a generated project.
type Project struct {
	// ProjectPath is the path of the .xcodeproj directory.
	ProjectPath string

	// SchemePath is the path of the generated .xcscheme file.
	SchemePath string

	// FileListPath is the path of the intermediate source listing.
	FileListPath string

	// Sources contains the registered source files.
	Sources []string

	// Headers contains the registered header files.
	Headers []string
}

// Scan discovers the target's sources and headers under the repo root.
func Scan(cfg *Config) (sources, headers []string, err error) {
	fsys := os.DirFS(cfg.RepoRoot)
	sources, err = scanGlobs(fsys, cfg.Target.SourceGlobs)
	if err != nil {
		return nil, nil, err
	}
	headers, err = scanGlobs(fsys, cfg.Target.HeaderGlobs)
	if err != nil {
		return nil, nil, err
	}
	return sources, headers, nil
}

// scanGlobs evaluates each glob and returns the sorted union.
func scanGlobs(fsys fs.FS, globs []string) ([]string, error) {
	uniq := make(map[string]bool)
	for _, pattern := range globs {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("projgen: %s: %w", pattern, err)
		}
		for _, match := range matches {
			uniq[match] = true
		}
	}
	out := make([]string, 0, len(uniq))
	for match := range uniq {
		out = append(out, match)
	}
	sort.Strings(out)
	return out, nil
}

// Generate scans the sources and writes the build descriptors.
func Generate(cfg *Config) (*Project, error) {
	logger := model.ValidLoggerOrDefault(cfg.Logger)
	sources, headers, err := Scan(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.MaxSources > 0 && len(sources) > cfg.MaxSources {
		logger.Warnf("projgen: registering only %d of %d discovered sources", cfg.MaxSources, len(sources))
		sources = sources[:cfg.MaxSources]
	}
	logger.Infof("projgen: %s: %d sources, %d headers", cfg.Target.Name, len(sources), len(headers))

	proj := &Project{
		ProjectPath:  filepath.Join(cfg.OutputDir, cfg.Target.Name+".xcodeproj"),
		SchemePath:   "",
		FileListPath: filepath.Join(cfg.OutputDir, cfg.Target.Name+".files.txt"),
		Sources:      sources,
		Headers:      headers,
	}

	if err := writeFileList(proj.FileListPath, sources, headers); err != nil {
		return nil, err
	}
	if err := writeProject(cfg, proj); err != nil {
		return nil, err
	}
	if err := writeScheme(cfg, proj); err != nil {
		return nil, err
	}
	return proj, nil
}

// writeFileList writes the intermediate listing consumed by later steps.
func writeFileList(filename string, sources, headers []string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}
	var sb strings.Builder
	for _, entry := range sources {
		fmt.Fprintf(&sb, "source %s\n", entry)
	}
	for _, entry := range headers {
		fmt.Fprintf(&sb, "header %s\n", entry)
	}
	return os.WriteFile(filename, []byte(sb.String()), 0644)
}

// fileRef is a single file registered into the descriptor.
type fileRef struct {
	// RefID is the PBXFileReference object ID.
	RefID string

	// BuildID is the PBXBuildFile object ID.
	BuildID string

	// Path is the file path relative to the repo root.
	Path string

	// Name is the base name of the file.
	Name string
}

// newFileRef derives stable object IDs from the file path so that
// regenerating the same project yields the same descriptor.
func newFileRef(path, salt string) fileRef {
	sum := sha256.Sum256([]byte(salt + path))
	hexsum := strings.ToUpper(fmt.Sprintf("%x", sum))
	return fileRef{
		RefID:   hexsum[:24],
		BuildID: hexsum[24:48],
		Path:    path,
		Name:    filepath.Base(path),
	}
}

// descriptorData is the data passed to the descriptor templates.
type descriptorData struct {
	TargetName string
	Sources    []fileRef
	Headers    []fileRef
}

// newDescriptorData converts a [Project] into template data.
func newDescriptorData(cfg *Config, proj *Project) *descriptorData {
	data := &descriptorData{TargetName: cfg.Target.Name}
	for _, path := range proj.Sources {
		data.Sources = append(data.Sources, newFileRef(path, "source"))
	}
	for _, path := range proj.Headers {
		data.Headers = append(data.Headers, newFileRef(path, "header"))
	}
	return data
}

// writeProject renders and writes the project.pbxproj descriptor.
func writeProject(cfg *Config, proj *Project) error {
	if err := os.MkdirAll(proj.ProjectPath, 0755); err != nil {
		return err
	}
	filename := filepath.Join(proj.ProjectPath, "project.pbxproj")
	return renderTemplate(filename, pbxprojTemplate, newDescriptorData(cfg, proj))
}

// writeScheme renders and writes the shared scheme descriptor.
func writeScheme(cfg *Config, proj *Project) error {
	schemesDir := filepath.Join(proj.ProjectPath, "xcshareddata", "xcschemes")
	if err := os.MkdirAll(schemesDir, 0755); err != nil {
		return err
	}
	proj.SchemePath = filepath.Join(schemesDir, cfg.Target.Name+".xcscheme")
	return renderTemplate(proj.SchemePath, xcschemeTemplate, newDescriptorData(cfg, proj))
}

// renderTemplate renders the given template text into filename.
func renderTemplate(filename, text string, data any) error {
	tmpl, err := template.New(filepath.Base(filename)).Parse(text)
	if err != nil {
		return err
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return err
	}
	return os.WriteFile(filename, []byte(sb.String()), 0644)
}
