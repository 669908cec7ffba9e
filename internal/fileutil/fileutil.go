// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
	ErrStemEmpty              = errors.New("file stem cannot be empty")
)

// tempPrefix names every temporary document so leftovers are easy to spot.
const tempPrefix = "md2png-"

// WriteTempFile creates a temporary file with the given content and extension.
// Returns the file path and a cleanup function to remove the file.
// The cleanup function is safe to call more than once.
func WriteTempFile(content, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	tmpFile, err := os.CreateTemp("", tempPrefix+"*."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}

	path = tmpFile.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, writeErr := tmpFile.WriteString(content); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", writeErr)
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", closeErr)
	}

	return path, cleanup, nil
}

// ValidateExtension checks that the extension is safe for use in temp file names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// UniquePath returns dir/stem.ext, or the first dir/stem (N).ext that does not
// exist yet, trying N = 1, 2, 3... in order.
//
// The returned path never names an existing file at the time of the call.
func UniquePath(dir, stem, extension string) (string, error) {
	if stem == "" {
		return "", ErrStemEmpty
	}
	if err := ValidateExtension(extension); err != nil {
		return "", err
	}

	path := filepath.Join(dir, stem+"."+extension)
	for i := 1; Exists(path); i++ {
		path = filepath.Join(dir, fmt.Sprintf("%s (%d).%s", stem, i, extension))
	}
	return path, nil
}

// WriteFileAtomic writes data to a sibling temp file and renames it over path,
// so a reader never observes a truncated file at path.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating staging file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing staging file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("syncing staging file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing staging file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming staging file: %w", err)
	}

	committed = true
	return nil
}

// Exists returns true if anything (file, directory, symlink) exists at path.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// FileURL converts an absolute path to a file:// URL.
// Windows drive paths get the leading slash browsers expect (file:///C:/...).
func FileURL(absPath string) string {
	p := filepath.ToSlash(absPath)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{
		Scheme: "file",
		Path:   p,
	}
	return u.String()
}
