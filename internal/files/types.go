package files

import (
	"time"

	"archive_slack/internal/identity"
)

// FileRecord is a snapshot of one remote file, fetched once per run
type FileRecord struct {
	ID                string
	Title             string
	Name              string
	Filetype          string
	Mimetype          string
	PrettyType        string
	Created           time.Time
	Timestamp         int64
	Size              int64
	OwnerUserID       string
	DownloadURL       string // empty when Slack offers no private download
	ImageExifRotation int
	OriginalW         int
	OriginalH         int
	ChannelIDs        []string
	GroupIDs          []string
	IMIDs             []string
}

// HasScope reports whether the file references any channel, group or IM.
func (r FileRecord) HasScope() bool {
	return len(r.ChannelIDs) > 0 || len(r.GroupIDs) > 0 || len(r.IMIDs) > 0
}

// Page is one page of the remote file listing
type Page struct {
	Files []FileRecord
	Page  int
	Pages int
	Total int
}

// Metadata is the JSON document written beside each downloaded artifact
type Metadata struct {
	Created           string                     `json:"created"`
	Timestamp         int64                      `json:"timestamp"`
	Name              string                     `json:"name"`
	Title             string                     `json:"title"`
	Mimetype          string                     `json:"mimetype"`
	Filetype          string                     `json:"filetype"`
	PrettyType        string                     `json:"pretty_type"`
	Size              int64                      `json:"size"`
	ImageExifRotation int                        `json:"image_exif_rotation"`
	OriginalW         int                        `json:"original_w"`
	OriginalH         int                        `json:"original_h"`
	Channels          []identity.ChannelIdentity `json:"channels"`
	Groups            []identity.ChannelIdentity `json:"groups"`
	IMs               []IMPartner                `json:"ims"`
	User              identity.UserIdentity      `json:"user"`
}

// IMPartner is the other participant of a direct message conversation
type IMPartner struct {
	With identity.UserIdentity `json:"with"`
}

const metadataTimeLayout = "2006-01-02 15:04:05"

// NewMetadata drafts the metadata document for rec; scope lists start empty.
func NewMetadata(rec FileRecord, owner identity.UserIdentity) Metadata {
	return Metadata{
		Created:           rec.Created.Format(metadataTimeLayout),
		Timestamp:         rec.Timestamp,
		Name:              rec.Name,
		Title:             rec.Title,
		Mimetype:          rec.Mimetype,
		Filetype:          rec.Filetype,
		PrettyType:        rec.PrettyType,
		Size:              rec.Size,
		ImageExifRotation: rec.ImageExifRotation,
		OriginalW:         rec.OriginalW,
		OriginalH:         rec.OriginalH,
		Channels:          []identity.ChannelIdentity{},
		Groups:            []identity.ChannelIdentity{},
		IMs:               []IMPartner{},
		User:              owner,
	}
}
