package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// fakeProvider is a token endpoint that records the exchange form.
type fakeProvider struct {
	server       *httptest.Server
	form         url.Values
	refreshToken string
}

func newFakeProvider(t *testing.T, refreshToken string) *fakeProvider {
	t.Helper()
	p := &fakeProvider{refreshToken: refreshToken}
	p.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		p.form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "access",
			"refresh_token": p.refreshToken,
			"token_type":    "Bearer",
			"expires_in":    3600,
		})
	}))
	t.Cleanup(p.server.Close)
	return p
}

func (p *fakeProvider) config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		Endpoint: oauth2.Endpoint{
			AuthURL:   "https://accounts.example.com/auth",
			TokenURL:  p.server.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
		Scopes: []string{"docs"},
	}
}

// browser simulates the user approving access: it follows the redirect URI
// with the state from the authorization URL.
func browser(t *testing.T, params url.Values) func(string) error {
	return func(raw string) error {
		u, err := url.Parse(raw)
		if err != nil {
			return err
		}
		q := u.Query()
		assert.Equal(t, "S256", q.Get("code_challenge_method"))
		assert.NotEmpty(t, q.Get("code_challenge"))
		assert.Equal(t, "offline", q.Get("access_type"))

		callback, err := url.Parse(q.Get("redirect_uri"))
		if err != nil {
			return err
		}
		values := url.Values{"state": {q.Get("state")}}
		for k, v := range params {
			values[k] = v
		}
		callback.RawQuery = values.Encode()

		go func() {
			resp, err := http.Get(callback.String())
			if err == nil {
				resp.Body.Close()
			}
		}()
		return nil
	}
}

func TestAuthorize_Success(t *testing.T) {
	provider := newFakeProvider(t, "refresh")
	conf := provider.config()

	tok, err := Authorize(context.Background(), conf, Options{
		Timeout: 5 * time.Second,
		Open:    browser(t, url.Values{"code": {"the-code"}}),
	})

	require.NoError(t, err)
	assert.Equal(t, "access", tok.AccessToken)
	assert.Equal(t, "refresh", tok.RefreshToken)
	assert.Equal(t, "the-code", provider.form.Get("code"))
	assert.NotEmpty(t, provider.form.Get("code_verifier"))
	assert.Contains(t, conf.RedirectURL, "http://127.0.0.1:")
}

func TestAuthorize_ProviderError(t *testing.T) {
	provider := newFakeProvider(t, "refresh")

	_, err := Authorize(context.Background(), provider.config(), Options{
		Timeout: 5 * time.Second,
		Open:    browser(t, url.Values{"error": {"access_denied"}, "error_description": {"user said no"}}),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "access_denied")
}

func TestAuthorize_NoRefreshToken(t *testing.T) {
	provider := newFakeProvider(t, "")

	_, err := Authorize(context.Background(), provider.config(), Options{
		Timeout: 5 * time.Second,
		Open:    browser(t, url.Values{"code": {"c"}}),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no refresh token")
}

func TestAuthorize_Timeout(t *testing.T) {
	provider := newFakeProvider(t, "refresh")

	_, err := Authorize(context.Background(), provider.config(), Options{
		Timeout: 50 * time.Millisecond,
		Open:    func(string) error { return nil },
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCallbackServer_StateMismatch(t *testing.T) {
	server := NewCallbackServer(0, "expected")
	require.NoError(t, server.Start())
	defer server.Stop() //nolint:errcheck

	resp, err := http.Get(server.RedirectURI() + "?state=wrong&code=abc")
	require.NoError(t, err)
	resp.Body.Close()

	_, err = server.WaitForCode(context.Background(), time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "state mismatch")
}

func TestCallbackServer_RandomPort(t *testing.T) {
	server := NewCallbackServer(0, "s")
	require.NoError(t, server.Start())
	defer server.Stop() //nolint:errcheck

	assert.NotZero(t, server.Port())
}
