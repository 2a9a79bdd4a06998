package slack

import (
	"context"
	"fmt"
	"io"
	"time"

	"archive_slack/internal/files"
	"archive_slack/internal/identity"

	"github.com/slack-go/slack"
	"golang.org/x/time/rate"
)

const (
	// PageSize is the number of files requested per files.list page.
	PageSize = 200
	// FileTypes excludes Google Docs, which come without a private download URL.
	FileTypes = "spaces,snippets,images,zips,pdfs"
)

type Client struct {
	api         *slack.Client
	rateLimiter *rate.Limiter
}

// NewClient creates a client for token. Extra options (API URL, HTTP client)
// are passed through to slack-go.
func NewClient(token string, options ...slack.Option) *Client {
	// Create rate limiter: 100 requests per minute
	limiter := rate.NewLimiter(rate.Every(time.Minute/100), 100)

	return &Client{
		api:         slack.New(token, options...),
		rateLimiter: limiter,
	}
}

func (c *Client) wait(ctx context.Context) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}
	return nil
}

// ListFiles returns one page of files created before cutoff. A zero cutoff
// lists files of any age.
func (c *Client) ListFiles(ctx context.Context, cutoff time.Time, page int) (files.Page, error) {
	if err := c.wait(ctx); err != nil {
		return files.Page{}, err
	}

	params := slack.NewGetFilesParameters()
	params.Count = PageSize
	params.Page = page
	params.Types = FileTypes
	if !cutoff.IsZero() {
		params.TimestampTo = slack.JSONTime(cutoff.Unix())
	}

	list, paging, err := c.api.GetFilesContext(ctx, params)
	if err != nil {
		return files.Page{}, fmt.Errorf("failed to list files: %w", err)
	}

	result := files.Page{Files: make([]files.FileRecord, 0, len(list))}
	if paging != nil {
		result.Page = paging.Page
		result.Pages = paging.Pages
		result.Total = paging.Total
	}
	for _, f := range list {
		result.Files = append(result.Files, toFileRecord(f))
	}
	return result, nil
}

func (c *Client) FetchUser(ctx context.Context, id string) (*identity.UserIdentity, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	user, err := c.api.GetUserInfoContext(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}

	return &identity.UserIdentity{
		ID:                    user.ID,
		Name:                  user.Name,
		RealName:              user.RealName,
		Title:                 user.Profile.Title,
		ProfileRealName:       user.Profile.RealName,
		RealNameNormalized:    user.Profile.RealNameNormalized,
		DisplayName:           user.Profile.DisplayName,
		DisplayNameNormalized: user.Profile.DisplayNameNormalized,
	}, nil
}

func (c *Client) FetchChannel(ctx context.Context, id string) (*identity.ChannelIdentity, error) {
	return c.fetchConversation(ctx, id)
}

// FetchGroup resolves a private channel. Groups are conversations in the
// current API, so this shares conversations.info with FetchChannel.
func (c *Client) FetchGroup(ctx context.Context, id string) (*identity.ChannelIdentity, error) {
	return c.fetchConversation(ctx, id)
}

func (c *Client) fetchConversation(ctx context.Context, id string) (*identity.ChannelIdentity, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	ch, err := c.api.GetConversationInfoContext(ctx, &slack.GetConversationInfoInput{ChannelID: id})
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation info: %w", err)
	}

	return &identity.ChannelIdentity{
		ID:             ch.ID,
		Name:           ch.Name,
		NameNormalized: ch.NameNormalized,
		Purpose:        ch.Purpose.Value,
	}, nil
}

// FetchConversationMembers returns every member id of a conversation,
// following the cursor across pages.
func (c *Client) FetchConversationMembers(ctx context.Context, id string) ([]string, error) {
	var (
		members []string
		cursor  string
	)

	for {
		if err := c.wait(ctx); err != nil {
			return nil, err
		}

		page, next, err := c.api.GetUsersInConversationContext(ctx, &slack.GetUsersInConversationParameters{
			ChannelID: id,
			Cursor:    cursor,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get conversation members: %w", err)
		}
		members = append(members, page...)

		if next == "" {
			return members, nil
		}
		cursor = next
	}
}

// DownloadFile writes the content behind a private download URL to w.
func (c *Client) DownloadFile(ctx context.Context, url string, w io.Writer) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	if err := c.api.GetFileContext(ctx, url, w); err != nil {
		return fmt.Errorf("failed to download %s: %w", url, err)
	}
	return nil
}

func (c *Client) DeleteFile(ctx context.Context, id string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	if err := c.api.DeleteFileContext(ctx, id); err != nil {
		return fmt.Errorf("failed to delete file %s: %w", id, err)
	}
	return nil
}

// ValidateAuth checks if the token is valid and returns basic auth info
func (c *Client) ValidateAuth(ctx context.Context) (*slack.AuthTestResponse, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.api.AuthTestContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("auth validation failed: %w", err)
	}

	return resp, nil
}

func toFileRecord(f slack.File) files.FileRecord {
	return files.FileRecord{
		ID:                f.ID,
		Title:             f.Title,
		Name:              f.Name,
		Filetype:          f.Filetype,
		Mimetype:          f.Mimetype,
		PrettyType:        f.PrettyType,
		Created:           f.Created.Time(),
		Timestamp:         int64(f.Timestamp),
		Size:              int64(f.Size),
		OwnerUserID:       f.User,
		DownloadURL:       f.URLPrivateDownload,
		ImageExifRotation: f.ImageExifRotation,
		OriginalW:         f.OriginalW,
		OriginalH:         f.OriginalH,
		ChannelIDs:        f.Channels,
		GroupIDs:          f.Groups,
		IMIDs:             f.IMs,
	}
}
