// Package archiver stages a built bundle together with its license and
// publishes it to the destination directory, optionally compressed and
// optionally content addressed.
package archiver

import (
	"archive/tar"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/zencoding/mediapipe/internal/fsx"
	"github.com/zencoding/mediapipe/internal/model"
	"github.com/zencoding/mediapipe/internal/shellx"
)

// Config contains the config for [Publish].
type Config struct {
	// DestDir is the MANDATORY destination directory.
	DestDir string

	// Version is the MANDATORY build version string.
	Version string

	// Archive OPTIONALLY enables tarball packaging.
	Archive bool

	// Release OPTIONALLY enables content-hash addressing. It only
	// matters when Archive is also true.
	Release bool

	// Logger is the OPTIONAL logger.
	Logger model.Logger
}

// ErrDestinationInsideRepo means the destination is under the repo root
// but outside the designated build subtree.
var ErrDestinationInsideRepo = errors.New("archiver: destination inside the repository")

// buildSubdir is the only in-repo subtree we accept as a destination.
const buildSubdir = "build_output"

// ValidateDestination rejects destinations inside the repository root,
// with the exception of the designated build subtree.
func ValidateDestination(destDir, repoRoot string) error {
	absDest, err := filepath.Abs(destDir)
	if err != nil {
		return err
	}
	absRoot, err := filepath.Abs(repoRoot)
	if err != nil {
		return err
	}
	if !pathContains(absRoot, absDest) {
		return nil
	}
	if pathContains(filepath.Join(absRoot, buildSubdir), absDest) {
		return nil
	}
	return fmt.Errorf("%w: %s: use a path outside %s or under %s",
		ErrDestinationInsideRepo, destDir, repoRoot, filepath.Join(repoRoot, buildSubdir))
}

// pathContains returns whether child equals parent or lives under it.
func pathContains(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// Publish stages the bundle plus the license, then either compresses
// the staged tree into a versioned tarball (archive mode) or copies it
// verbatim under the destination. It returns the published path.
//
// The temporary staging tree is removed on every return path.
func Publish(cfg *Config, name, bundlePath, licensePath string) (string, error) {
	logger := model.ValidLoggerOrDefault(cfg.Logger)

	staging, err := os.MkdirTemp("", "mediapipe-pkg-")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(staging)

	if err := shellx.CopyFile(licensePath, filepath.Join(staging, "LICENSE"), 0644); err != nil {
		return "", fmt.Errorf("archiver: staging license: %w", err)
	}
	stagedBundle := filepath.Join(staging, "frameworks", filepath.Base(bundlePath))
	if err := copyDir(bundlePath, stagedBundle); err != nil {
		return "", fmt.Errorf("archiver: staging bundle: %w", err)
	}

	if !cfg.Archive {
		dest := filepath.Join(cfg.DestDir, name)
		if err := copyDir(staging, dest); err != nil {
			return "", err
		}
		logger.Infof("archiver: copied %s to %s", name, dest)
		return dest, nil
	}

	pkgdir := filepath.Join(cfg.DestDir, name, cfg.Version)
	if cfg.Release {
		hash, err := TreeHash(staging)
		if err != nil {
			return "", err
		}
		pkgdir = filepath.Join(pkgdir, hash)
	}
	if err := os.MkdirAll(pkgdir, 0755); err != nil {
		return "", err
	}
	tarball := filepath.Join(pkgdir, fmt.Sprintf("%s-%s.tar.gz", name, cfg.Version))
	if err := createTarball(staging, tarball); err != nil {
		return "", err
	}
	logger.Infof("archiver: wrote %s", tarball)
	return tarball, nil
}

// TreeHash computes a deterministic identity for the whole staged tree:
// sha256 of every regular file, then sha256 of the sorted digest list,
// so the result does not depend on enumeration order and any file
// change (license and metadata included) changes the identity.
func TreeHash(root string) (string, error) {
	digests := []string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		filep, err := fsx.OpenFile(path)
		if err != nil {
			return err
		}
		defer filep.Close()
		hash := sha256.New()
		if _, err := io.Copy(hash, filep); err != nil {
			return err
		}
		digests = append(digests, fmt.Sprintf("%x", hash.Sum(nil)))
		return nil
	})
	if err != nil {
		return "", err
	}
	sort.Strings(digests)
	sum := sha256.Sum256([]byte(strings.Join(digests, "\n")))
	return fmt.Sprintf("%x", sum), nil
}

// createTarball compresses the tree rooted at root into filename.
func createTarball(root, filename string) error {
	filep, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer filep.Close()
	gzw := gzip.NewWriter(filep)
	tw := tar.NewWriter(gzw)

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		src, err := fsx.OpenFile(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(tw, src)
		return err
	})
	if err != nil {
		return err
	}
	if err := tw.Close(); err != nil {
		return err
	}
	if err := gzw.Close(); err != nil {
		return err
	}
	return filep.Close()
}

// copyDir recursively copies src to dst preserving file modes.
func copyDir(src, dst string) error {
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
