package files

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"archive_slack/internal/logger"
)

// Fetcher streams an authenticated private download URL into w
type Fetcher interface {
	DownloadFile(ctx context.Context, url string, w io.Writer) error
}

// Downloader handles file downloads into FileStorage
type Downloader struct {
	storage *FileStorage
	fetcher Fetcher
}

// NewDownloader creates a new file downloader
func NewDownloader(storage *FileStorage, fetcher Fetcher) *Downloader {
	return &Downloader{
		storage: storage,
		fetcher: fetcher,
	}
}

// Download fetches url into destPath and returns the SHA-256 of the content.
// The content is written to a temporary file first, so destPath only ever
// exists once the download completed.
func (d *Downloader) Download(ctx context.Context, url, destPath string, sizeBytes int64) (string, error) {
	if err := d.storage.CheckDiskSpace(filepath.Dir(destPath), sizeBytes); err != nil {
		return "", fmt.Errorf("disk space check failed: %w", err)
	}

	logger.Debug.Printf("Downloading %s", destPath)

	tmpFile := destPath + ".tmp"
	out, err := os.Create(tmpFile)
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}

	hash := sha256.New()
	if err := d.fetcher.DownloadFile(ctx, url, io.MultiWriter(out, hash)); err != nil {
		out.Close()
		os.Remove(tmpFile)
		return "", fmt.Errorf("failed to download file: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmpFile)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	// Move temporary file to final location
	if err := os.Rename(tmpFile, destPath); err != nil {
		os.Remove(tmpFile)
		return "", fmt.Errorf("failed to move file to final location: %w", err)
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}

// CalculateChecksum generates a SHA-256 checksum for a file
func CalculateChecksum(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("failed to calculate checksum: %w", err)
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}
