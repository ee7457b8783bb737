package vfs

import (
	"os"
	"path/filepath"
	"strings"

	"go.lsp.dev/uri"
)

const filePermissions = 0o600

// OS is the host-backed filesystem.
type OS struct{}

// NewOS creates a host filesystem.
func NewOS() *OS { return &OS{} }

// hostPath strips a file:// scheme so callers can pass either form.
func hostPath(path string) string {
	if strings.HasPrefix(path, "file://") {
		return uri.URI(path).Filename()
	}

	return path
}

// ReadFile reads a file from the host filesystem.
func (fs *OS) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(hostPath(path)) //#nosec G304 -- paths come from user input
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	return data, nil
}

// WriteFile writes a file to the host filesystem.
func (fs *OS) WriteFile(path string, data []byte) error {
	return os.WriteFile(hostPath(path), data, filePermissions)
}

// Exists reports whether the path exists.
func (fs *OS) Exists(path string) bool {
	_, err := os.Stat(hostPath(path))

	return err == nil
}

// Stat returns file metadata.
func (fs *OS) Stat(path string) (FileInfo, error) {
	info, err := os.Stat(hostPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return FileInfo{}, ErrNotFound
		}

		return FileInfo{}, err
	}

	return FileInfo{Size: info.Size(), ModTime: info.ModTime(), IsDir: info.IsDir()}, nil
}

// ReadDirectory lists the entries of a directory.
func (fs *OS) ReadDirectory(path string) ([]string, error) {
	entries, err := os.ReadDir(hostPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	names := make([]string, len(entries))
	for i, entry := range entries {
		names[i] = entry.Name()
	}

	return names, nil
}

// Resolve joins rel onto base and cleans the result.
func (fs *OS) Resolve(base, rel string) string {
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}

	return filepath.Clean(filepath.Join(hostPath(base), rel))
}

// Dirname returns the directory of path.
func (fs *OS) Dirname(path string) string { return filepath.Dir(hostPath(path)) }

// Basename returns the final element of path.
func (fs *OS) Basename(path string) string { return filepath.Base(hostPath(path)) }

// Join joins path elements.
func (fs *OS) Join(parts ...string) string { return filepath.Join(parts...) }
