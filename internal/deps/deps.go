// Package deps provisions the binary dependencies (OpenCV and
// TensorFlow Lite) required to build the frameworks.
//
// Provisioning is idempotent: when the expected directory already
// exists inside the cache we touch neither the network nor the cache.
package deps

import (
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/zencoding/mediapipe/internal/fsx"
	"github.com/zencoding/mediapipe/internal/model"
	"github.com/zencoding/mediapipe/internal/shellx"
)

// Dependency describes a versioned binary dependency.
type Dependency struct {
	// Name is the dependency name (e.g. "OpenCV").
	Name string

	// Version is the dependency version.
	Version string

	// ArchiveURL is the URL from which to fetch the archive.
	ArchiveURL string

	// SHA256 is the expected digest of the archive.
	SHA256 string
}

// ArchiveName returns the file name of the downloaded archive.
func (d *Dependency) ArchiveName() string {
	return filepath.Base(d.ArchiveURL)
}

// OpenCV is the prebuilt OpenCV iOS framework.
var OpenCV = &Dependency{
	Name:       "OpenCV",
	Version:    "4.5.3",
	ArchiveURL: "https://github.com/opencv/opencv/releases/download/4.5.3/opencv-4.5.3-ios-framework.zip",
	SHA256:     "bba9bf4bc8669b9a00070efcb0c661d4c97eef96c8e441dd10f2373ee0272a0c",
}

// TensorFlowLiteC is the prebuilt TensorFlow Lite C library.
var TensorFlowLiteC = &Dependency{
	Name:       "TensorFlowLiteC",
	Version:    "2.12.0",
	ArchiveURL: "https://storage.googleapis.com/mediapipe-assets/TensorFlowLiteC-2.12.0.tar.gz",
	SHA256:     "4aa1fd62a25a628545699ec72db6ea5725ca2412bf0bf8449895535960ddc575",
}

// Lookup maps a dependency name to its [Dependency].
func Lookup(name string) (*Dependency, error) {
	switch name {
	case OpenCV.Name:
		return OpenCV, nil
	case TensorFlowLiteC.Name:
		return TensorFlowLiteC, nil
	default:
		return nil, fmt.Errorf("deps: unknown dependency: %s", name)
	}
}

// Downloader fetches a URL and writes it to the given file.
type Downloader interface {
	Download(URL, filename string) error
}

// Provisioner ensures dependencies exist inside a local cache directory.
//
// The zero value is invalid; fill in the MANDATORY fields.
type Provisioner struct {
	// CacheDir is the MANDATORY cache directory.
	CacheDir string

	// Downloader is the OPTIONAL downloader (defaults to HTTP).
	Downloader Downloader

	// Logger is the OPTIONAL logger.
	Logger model.Logger
}

// Ensure returns the local directory containing the given dependency,
// downloading and extracting it when it's not already cached. Any
// failure here is fatal for the whole pipeline, so callers should not
// attempt to continue on error.
func (p *Provisioner) Ensure(dep *Dependency) (string, error) {
	logger := model.ValidLoggerOrDefault(p.Logger)
	dirpath := filepath.Join(p.CacheDir, fmt.Sprintf("%s-%s", dep.Name, dep.Version))
	if fsx.DirectoryExists(dirpath) {
		logger.Infof("deps: using cached %s %s", dep.Name, dep.Version)
		return dirpath, nil
	}
	if err := os.MkdirAll(p.CacheDir, 0755); err != nil {
		return "", err
	}
	archive := filepath.Join(p.CacheDir, dep.ArchiveName())
	if err := p.downloader().Download(dep.ArchiveURL, archive); err != nil {
		return "", fmt.Errorf("deps: downloading %s: %w", dep.Name, err)
	}
	if err := verifySHA256(dep.SHA256, archive); err != nil {
		return "", err
	}
	if err := extract(logger, archive, dirpath); err != nil {
		return "", fmt.Errorf("deps: extracting %s: %w", dep.Name, err)
	}
	if err := os.Remove(archive); err != nil {
		return "", err
	}
	return dirpath, nil
}

// downloader returns the configured or the default downloader.
func (p *Provisioner) downloader() Downloader {
	if p.Downloader != nil {
		return p.Downloader
	}
	return &httpDownloader{}
}

// verifySHA256 checks the digest of the given file.
func verifySHA256(expected, filename string) error {
	filep, err := fsx.OpenFile(filename)
	if err != nil {
		return err
	}
	defer filep.Close()
	hash := sha256.New()
	if _, err := io.Copy(hash, filep); err != nil {
		return err
	}
	if got := fmt.Sprintf("%x", hash.Sum(nil)); got != expected {
		return fmt.Errorf("deps: %s: sha256 mismatch: expected %s got %s", filename, expected, got)
	}
	return nil
}

// extract unpacks the archive into the given directory using the
// system tar or unzip depending on the archive suffix.
func extract(logger model.Logger, archive, dirpath string) error {
	if err := os.MkdirAll(dirpath, 0755); err != nil {
		return err
	}
	if strings.HasSuffix(archive, ".zip") {
		return shellx.Run(logger, "unzip", "-q", archive, "-d", dirpath)
	}
	return shellx.Run(logger, "tar", "-xf", archive, "-C", dirpath)
}

// httpDownloader is the default [Downloader] using net/http and
// showing download progress on the standard error.
type httpDownloader struct{}

var _ Downloader = &httpDownloader{}

// Download implements [Downloader].
func (d *httpDownloader) Download(URL, filename string) error {
	resp, err := http.Get(URL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return fmt.Errorf("deps: %s: %s", URL, resp.Status)
	}
	filep, err := os.Create(filename)
	if err != nil {
		return err
	}
	bar := progressbar.DefaultBytes(resp.ContentLength, filepath.Base(filename))
	if _, err := io.Copy(io.MultiWriter(filep, bar), resp.Body); err != nil {
		filep.Close()
		return err
	}
	return filep.Close()
}
