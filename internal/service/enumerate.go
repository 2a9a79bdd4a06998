package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"archive_slack/internal/files"
	"archive_slack/internal/logger"
)

// ErrListing aborts a run when a page of the file listing cannot be retrieved.
var ErrListing = errors.New("could not retrieve the file list from Slack")

// Lister returns one page of the remote file index.
type Lister interface {
	ListFiles(ctx context.Context, cutoff time.Time, page int) (files.Page, error)
}

// Enumerator collects the complete listing before any file is processed.
type Enumerator struct {
	lister   Lister
	reporter *Reporter
}

func NewEnumerator(lister Lister, reporter *Reporter) *Enumerator {
	return &Enumerator{lister: lister, reporter: reporter}
}

// ListFilesOlderThan pages through every file created before cutoff, in
// listing order, and returns them with the total reported by the first page.
// Any failed page fails the whole listing.
func (e *Enumerator) ListFilesOlderThan(ctx context.Context, cutoff time.Time) ([]files.FileRecord, int, error) {
	var (
		records []files.FileRecord
		total   int
	)

	for page := 1; ; page++ {
		resp, err := e.lister.ListFiles(ctx, cutoff, page)
		if err != nil {
			return nil, 0, fmt.Errorf("%w (page %d): %w", ErrListing, page, err)
		}

		if page == 1 {
			total = resp.Total
			e.reporter.Printf("Found %d files\n", total)
		}
		records = append(records, resp.Files...)
		logger.Debug.Printf("Listed page %d/%d (%d files so far)", page, resp.Pages, len(records))

		// End on final page
		if page >= resp.Pages {
			break
		}
	}

	return records, total, nil
}
