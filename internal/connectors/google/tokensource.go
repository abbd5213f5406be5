package google

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/logger"
)

// Scopes are requested for every token.
var Scopes = []string{
	docs.DocumentsScope,
	drive.DriveMetadataReadonlyScope,
}

// NewTokenSource returns a TokenSource for the Google APIs.
// With an empty credentialsFile, Application Default Credentials are used.
// Otherwise the file must hold a service account key or an authorized user
// credential as written by gcloud.
func NewTokenSource(ctx context.Context, credentialsFile string) (oauth2.TokenSource, error) {
	if credentialsFile == "" {
		logger.Debug("google: using application default credentials")
		ts, err := googleoauth.DefaultTokenSource(ctx, Scopes...)
		if err != nil {
			return nil, fmt.Errorf("google: default credentials: %w", domain.ErrAuthInvalid)
		}
		return ts, nil
	}

	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("google: read credentials %s: %w", credentialsFile, err)
	}
	return TokenSourceFromJSON(ctx, data)
}

// TokenSourceFromJSON parses a credentials document.
func TokenSourceFromJSON(ctx context.Context, data []byte) (oauth2.TokenSource, error) {
	creds, err := googleoauth.CredentialsFromJSON(ctx, data, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("google: parse credentials: %v: %w", err, domain.ErrAuthInvalid)
	}
	return creds.TokenSource, nil
}
