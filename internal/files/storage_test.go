package files

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"archive_slack/internal/identity"
)

func TestFileStoragePaths(t *testing.T) {
	storage := NewFileStorage("/archive")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"destination", storage.DestinationPath("general"), filepath.Join("/archive", "general")},
		{"artifact", storage.ArtifactPath("/archive/general", "2023-11-15 10-00-00 report", "pdf"), "/archive/general/2023-11-15 10-00-00 report.pdf"},
		{"metadata", storage.MetadataPath("/archive/general", "2023-11-15 10-00-00 report"), "/archive/general/2023-11-15 10-00-00 report.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestNewFileStorage_DoesNotTouchDisk(t *testing.T) {
	base := filepath.Join(t.TempDir(), "downloads")
	storage := NewFileStorage(base)

	if storage.DirExists(base) {
		t.Fatalf("NewFileStorage must not create %s", base)
	}

	dir := storage.DestinationPath("general")
	if err := storage.EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir error: %v", err)
	}
	if !storage.DirExists(dir) {
		t.Errorf("expected directory %s to exist", dir)
	}
	if storage.FileExists(filepath.Join(dir, "missing.txt")) {
		t.Error("expected missing file to be reported absent")
	}
}

func TestWriteMetadata(t *testing.T) {
	dir := t.TempDir()
	storage := NewFileStorage(dir)

	rec := FileRecord{
		ID:       "F1",
		Name:     "report.pdf",
		Title:    "Quarterly report",
		Filetype: "pdf",
		Created:  time.Date(2023, 11, 15, 10, 30, 0, 0, time.UTC),
		Size:     42,
	}
	md := NewMetadata(rec, identity.UserIdentity{Name: "jdoe", RealName: "John Doe"})
	md.Channels = append(md.Channels, identity.ChannelIdentity{Name: "general", NameNormalized: "general"})

	path := storage.MetadataPath(dir, "report")
	if err := storage.WriteMetadata(path, md); err != nil {
		t.Fatalf("WriteMetadata error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read metadata: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("metadata is not valid JSON: %v", err)
	}
	if doc["created"] != "2023-11-15 10:30:00" {
		t.Errorf("unexpected created field: %v", doc["created"])
	}
	for _, key := range []string{"timestamp", "pretty_type", "image_exif_rotation", "original_w", "original_h", "channels", "groups", "ims", "user"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("metadata missing key %q", key)
		}
	}
	if ims, ok := doc["ims"].([]any); !ok || len(ims) != 0 {
		t.Errorf("expected empty ims list, got %v", doc["ims"])
	}
	user := doc["user"].(map[string]any)
	if user["realname"] != "John Doe" {
		t.Errorf("unexpected user: %v", user)
	}
	if !strings.Contains(string(data), "\n    \"") {
		t.Error("expected pretty-printed metadata")
	}
	if storage.FileExists(path + ".tmp") {
		t.Error("temporary metadata file left behind")
	}
}

type fakeFetcher struct {
	body string
	err  error
}

func (f *fakeFetcher) DownloadFile(_ context.Context, _ string, w io.Writer) error {
	if f.err != nil {
		return f.err
	}
	_, err := io.WriteString(w, f.body)
	return err
}

func TestDownloader_Download(t *testing.T) {
	dir := t.TempDir()
	storage := NewFileStorage(dir)
	d := NewDownloader(storage, &fakeFetcher{body: "hello"})

	dest := filepath.Join(dir, "hello.txt")
	checksum, err := d.Download(context.Background(), "https://files.example/hello", dest, 5)
	if err != nil {
		t.Fatalf("Download error: %v", err)
	}

	// sha256("hello")
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if checksum != want {
		t.Errorf("checksum = %s, want %s", checksum, want)
	}
	onDisk, err := CalculateChecksum(dest)
	if err != nil {
		t.Fatalf("CalculateChecksum error: %v", err)
	}
	if onDisk != want {
		t.Errorf("checksum on disk = %s, want %s", onDisk, want)
	}
}

func TestDownloader_FailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	storage := NewFileStorage(dir)
	d := NewDownloader(storage, &fakeFetcher{err: errors.New("boom")})

	dest := filepath.Join(dir, "broken.bin")
	if _, err := d.Download(context.Background(), "https://files.example/broken", dest, 1); err == nil {
		t.Fatal("expected download error")
	}
	for _, path := range []string{dest, dest + ".tmp"} {
		if storage.FileExists(path) {
			t.Errorf("expected %s to be absent after a failed download", path)
		}
	}
}
