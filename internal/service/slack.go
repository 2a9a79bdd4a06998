package service

import (
	"context"
	"fmt"

	"archive_slack/internal/logger"

	slackapi "github.com/slack-go/slack"
)

// Authenticator verifies the token before any file is listed.
type Authenticator interface {
	ValidateAuth(ctx context.Context) (*slackapi.AuthTestResponse, error)
}

// Initialize validates authentication and logs which workspace will be archived.
func Initialize(ctx context.Context, auth Authenticator) error {
	resp, err := auth.ValidateAuth(ctx)
	if err != nil {
		return fmt.Errorf("auth validation failed: %w", err)
	}
	logger.Info.Printf("Authenticated as %s (team: %s)", resp.User, resp.Team)
	return nil
}
