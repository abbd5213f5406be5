package google

import (
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
)

// OAuthConfigFromJSON parses an OAuth client secret file downloaded from the
// Google Cloud console ("Desktop app" client) and requests Scopes.
func OAuthConfigFromJSON(data []byte) (*oauth2.Config, error) {
	conf, err := googleoauth.ConfigFromJSON(data, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("google: parse client secret: %v: %w", err, domain.ErrInvalidInput)
	}
	return conf, nil
}

// authorizedUser is the credentials file format gcloud writes for user
// accounts, which TokenSourceFromJSON reads back.
type authorizedUserFile struct {
	Type         string `json:"type"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RefreshToken string `json:"refresh_token"`
}

// AuthorizedUserJSON encodes a refresh token as an authorized_user
// credentials file.
func AuthorizedUserJSON(conf *oauth2.Config, tok *oauth2.Token) ([]byte, error) {
	if tok == nil || tok.RefreshToken == "" {
		return nil, errors.New("google: token has no refresh token")
	}
	return json.MarshalIndent(authorizedUserFile{
		Type:         "authorized_user",
		ClientID:     conf.ClientID,
		ClientSecret: conf.ClientSecret,
		RefreshToken: tok.RefreshToken,
	}, "", "  ")
}
