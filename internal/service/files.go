package service

import (
	"context"
	"fmt"
	"time"

	"archive_slack/internal/database"
	"archive_slack/internal/destination"
	"archive_slack/internal/files"
	"archive_slack/internal/identity"
	"archive_slack/internal/logger"
	"archive_slack/internal/naming"
)

// API is the remote side of an archival run.
type API interface {
	Lister
	identity.Fetcher
	files.Fetcher
	DeleteFile(ctx context.Context, id string) error
}

// Ledger records what each run archived. It is never consulted for skipping.
type Ledger interface {
	StartRun(run database.Run) (int64, error)
	FinishRun(run database.Run) error
	RecordFile(f database.ArchivedFile) error
	MarkRemoteDeleted(id string) error
}

type Options struct {
	IncludeIMs bool
	Remove     bool
	Simulate   bool
}

// Outcome is the final state of one file in a run.
type Outcome int

const (
	Processed Outcome = iota
	Skipped
	SkippedPrivate
)

// Summary counts what a run did.
type Summary struct {
	Seen            int
	Processed       int
	Skipped         int
	SkippedPrivate  int
	Downloaded      int
	MetadataWritten int
	Deleted         int
}

// FileService archives every listed file, one at a time.
type FileService struct {
	api          API
	enumerator   *Enumerator
	identities   *identity.Resolver
	destinations *destination.Resolver
	storage      *files.FileStorage
	downloader   *files.Downloader
	ledger       Ledger
	reporter     *Reporter
	opts         Options
}

// NewFileService wires a run. ledger may be nil.
func NewFileService(api API, storage *files.FileStorage, ledger Ledger, reporter *Reporter, opts Options) *FileService {
	identities := identity.NewResolver(api)
	return &FileService{
		api:          api,
		enumerator:   NewEnumerator(api, reporter),
		identities:   identities,
		destinations: destination.NewResolver(storage.BasePath, identities, storage, opts.IncludeIMs),
		storage:      storage,
		downloader:   files.NewDownloader(storage, api),
		ledger:       ledger,
		reporter:     reporter,
		opts:         opts,
	}
}

// Run lists every file older than cutoff and processes each in listing order.
// The first error ends the run; files already written stay on disk.
func (s *FileService) Run(ctx context.Context, cutoff time.Time) (Summary, error) {
	var summary Summary

	records, total, err := s.enumerator.ListFilesOlderThan(ctx, cutoff)
	if err != nil {
		return summary, err
	}

	run := database.Run{StartedAt: time.Now(), Cutoff: cutoff, Remove: s.opts.Remove}
	if s.ledger != nil {
		if run.ID, err = s.ledger.StartRun(run); err != nil {
			return summary, err
		}
	}

	for i, rec := range records {
		summary.Seen++
		outcome, err := s.ProcessFile(ctx, rec, i+1, total, &summary)
		if err != nil {
			return summary, fmt.Errorf("failed to process file %s: %w", rec.ID, err)
		}
		switch outcome {
		case Processed:
			summary.Processed++
		case Skipped:
			summary.Skipped++
		case SkippedPrivate:
			summary.SkippedPrivate++
		}
	}

	if s.ledger != nil {
		run.FilesSeen = summary.Seen
		run.FilesArchived = summary.Processed
		run.FilesSkipped = summary.Skipped + summary.SkippedPrivate
		if err := s.ledger.FinishRun(run); err != nil {
			return summary, err
		}
	}

	logger.Info.Printf("Run finished: %+v", summary)
	return summary, nil
}

// ProcessFile handles the complete pipeline for one file. Every side effect
// is guarded by its own existence check, so repeating a file only performs
// the steps that are still missing. The remote delete has no such guard.
func (s *FileService) ProcessFile(ctx context.Context, rec files.FileRecord, counter, total int, summary *Summary) (Outcome, error) {
	filename := naming.CreateFilename(rec)
	s.reporter.fileHeader(counter, total, filename)

	if rec.DownloadURL == "" {
		s.reporter.Printf("        : Skipped non-downloadable file!\n")
		logger.Debug.Printf("File %s has no private download URL", rec.ID)
		return SkippedPrivate, nil
	}

	owner, err := s.identities.ResolveUser(ctx, rec.OwnerUserID)
	if err != nil {
		return 0, err
	}
	metadata := files.NewMetadata(rec, owner)

	dest, err := s.destinations.Resolve(ctx, rec, owner)
	if err != nil {
		return 0, err
	}
	for _, c := range dest.Candidates {
		switch c.Kind {
		case identity.KindChannel:
			metadata.Channels = append(metadata.Channels, *c.Channel)
		case identity.KindGroup:
			metadata.Groups = append(metadata.Groups, *c.Channel)
		case identity.KindConversation:
			metadata.IMs = append(metadata.IMs, files.IMPartner{With: *c.Partner})
		}
	}

	if !dest.Found() {
		s.reporter.Printf("        : Skipped private file!\n")
		logger.Debug.Printf("File %s has no resolvable scope", rec.ID)
		return Skipped, nil
	}

	if !s.opts.Simulate {
		if err := s.storage.EnsureDir(dest.Dir); err != nil {
			return 0, err
		}
	}

	entry := database.ArchivedFile{
		ID:           rec.ID,
		Title:        rec.Title,
		Destination:  dest.Dir,
		ArtifactPath: s.storage.ArtifactPath(dest.Dir, filename, rec.Filetype),
		MetadataPath: s.storage.MetadataPath(dest.Dir, filename),
		SizeBytes:    rec.Size,
		CreatedAt:    rec.Created,
	}

	if !s.opts.Simulate && !s.storage.FileExists(entry.ArtifactPath) {
		entry.Checksum, err = s.downloader.Download(ctx, rec.DownloadURL, entry.ArtifactPath, rec.Size)
		if err != nil {
			return 0, err
		}
		entry.Downloaded = true
		summary.Downloaded++
	}
	s.reporter.mark(entry.Downloaded, "DL")

	if !s.opts.Simulate && !s.storage.FileExists(entry.MetadataPath) {
		if err := s.storage.WriteMetadata(entry.MetadataPath, metadata); err != nil {
			return 0, err
		}
		entry.MetadataWritten = true
		summary.MetadataWritten++
	}
	s.reporter.mark(entry.MetadataWritten, "MD")

	deleted := false
	if !s.opts.Simulate && s.opts.Remove {
		if err := s.api.DeleteFile(ctx, rec.ID); err != nil {
			return 0, err
		}
		deleted = true
		summary.Deleted++
	}
	s.reporter.mark(deleted, "R")
	s.reporter.Printf(": Done!\n")

	if s.ledger != nil && !s.opts.Simulate {
		if err := s.record(entry, deleted); err != nil {
			return 0, err
		}
	}

	return Processed, nil
}

func (s *FileService) record(entry database.ArchivedFile, deleted bool) error {
	if entry.Checksum == "" {
		checksum, err := files.CalculateChecksum(entry.ArtifactPath)
		if err != nil {
			logger.Warn.Printf("Could not checksum existing artifact %s: %v", entry.ArtifactPath, err)
		}
		entry.Checksum = checksum
	}
	if err := s.ledger.RecordFile(entry); err != nil {
		return fmt.Errorf("failed to record file in ledger: %w", err)
	}
	if deleted {
		return s.ledger.MarkRemoteDeleted(entry.ID)
	}
	return nil
}
