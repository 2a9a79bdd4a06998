package files

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// FileStorage lays archived files out below BasePath
type FileStorage struct {
	BasePath string
}

// NewFileStorage creates a new FileStorage instance. The base directory is
// created lazily so simulation runs leave the filesystem untouched.
func NewFileStorage(basePath string) *FileStorage {
	return &FileStorage{BasePath: basePath}
}

// DestinationPath returns the directory for a destination name
func (fs *FileStorage) DestinationPath(dirname string) string {
	return filepath.Join(fs.BasePath, dirname)
}

// ArtifactPath returns "<dir>/<name>.<filetype>"
func (fs *FileStorage) ArtifactPath(dir, name, filetype string) string {
	return filepath.Join(dir, name+"."+filetype)
}

// MetadataPath returns "<dir>/<name>.json"
func (fs *FileStorage) MetadataPath(dir, name string) string {
	return filepath.Join(dir, name+".json")
}

// EnsureDir creates dir and any missing parents
func (fs *FileStorage) EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// DirExists checks if a directory exists at the given path
func (fs *FileStorage) DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// FileExists checks if a file exists at the given path
func (fs *FileStorage) FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// WriteMetadata writes md as indented UTF-8 JSON to path
func (fs *FileStorage) WriteMetadata(path string, md Metadata) error {
	data, err := json.MarshalIndent(md, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	if err := os.Rename(tmpFile, path); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to move metadata to final location: %w", err)
	}
	return nil
}

// CheckDiskSpace verifies if there's enough space for a file in dir
func (fs *FileStorage) CheckDiskSpace(dir string, requiredBytes int64) error {
	var stat syscall.Statfs_t
	err := syscall.Statfs(dir, &stat)
	if err != nil {
		return fmt.Errorf("failed to check disk space: %w", err)
	}

	// Available bytes = blocks * size
	availableBytes := stat.Bavail * uint64(stat.Bsize)
	if requiredBytes > 0 && uint64(requiredBytes) > availableBytes {
		return fmt.Errorf("insufficient disk space. Required: %d bytes, Available: %d bytes",
			requiredBytes, availableBytes)
	}

	return nil
}
