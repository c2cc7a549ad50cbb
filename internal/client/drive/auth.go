package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/logorama/internal/client/repositories/kvstore"
	"github.com/dmitrijs2005/logorama/internal/common"
	"github.com/dmitrijs2005/logorama/internal/logging"
)

// DefaultTokenURL is the OAuth token endpoint used to exchange the stored
// refresh token for a short-lived access token.
const DefaultTokenURL = "https://oauth2.googleapis.com/token"

// accessTokenSlack renews tokens slightly before their reported expiry.
const accessTokenSlack = time.Minute

// Authenticator yields bearer access tokens for Drive requests.
type Authenticator interface {
	// Token returns a valid access token, reusing a cached one when possible.
	Token(ctx context.Context) (string, error)

	// Invalidate discards the cached access token so the next Token call
	// performs a fresh exchange. Used after the server rejects a token.
	Invalidate()
}

// OAuthAuthenticator exchanges a long-lived refresh token, persisted in the
// local store, for access tokens via the OAuth refresh grant.
type OAuthAuthenticator struct {
	clientID     string
	clientSecret string
	tokenURL     string
	httpClient   *http.Client
	tokens       kvstore.Repository
	logger       logging.Logger

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time

	now func() time.Time
}

// AuthOption configures the authenticator.
type AuthOption func(*OAuthAuthenticator)

// WithTokenURL sets a custom token endpoint (useful for testing).
func WithTokenURL(u string) AuthOption {
	return func(a *OAuthAuthenticator) {
		a.tokenURL = u
	}
}

// WithAuthHTTPClient sets a custom HTTP client for token exchanges.
func WithAuthHTTPClient(c *http.Client) AuthOption {
	return func(a *OAuthAuthenticator) {
		a.httpClient = c
	}
}

// NewOAuthAuthenticator creates an authenticator backed by the given store.
// The refresh token is read from the store on every exchange, so saving a new
// one takes effect without restarting.
func NewOAuthAuthenticator(clientID, clientSecret string, tokens kvstore.Repository, log logging.Logger, opts ...AuthOption) *OAuthAuthenticator {
	a := &OAuthAuthenticator{
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     DefaultTokenURL,
		httpClient:   &http.Client{Timeout: httpTimeout},
		tokens:       tokens,
		logger:       log.With("component", "drive-auth"),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SaveRefreshToken persists the long-lived grant and drops any cached access
// token so the next request uses the new one.
func (a *OAuthAuthenticator) SaveRefreshToken(ctx context.Context, refreshToken string) error {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return fmt.Errorf("refresh token must not be empty")
	}
	if err := a.tokens.Set(ctx, kvstore.KeyDriveRefreshToken, []byte(refreshToken)); err != nil {
		return fmt.Errorf("failed to save refresh token: %w", err)
	}
	a.Invalidate()
	return nil
}

// HasRefreshToken reports whether a grant is already stored.
func (a *OAuthAuthenticator) HasRefreshToken(ctx context.Context) bool {
	v, err := a.tokens.Get(ctx, kvstore.KeyDriveRefreshToken)
	return err == nil && len(v) > 0
}

// ClearRefreshToken removes the stored grant and the cached access token.
func (a *OAuthAuthenticator) ClearRefreshToken(ctx context.Context) error {
	if err := a.tokens.Delete(ctx, kvstore.KeyDriveRefreshToken); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	a.Invalidate()
	return nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func (a *OAuthAuthenticator) Token(ctx context.Context) (string, error) {
	if a.clientID == "" || a.clientSecret == "" {
		return "", common.ErrNoConfig
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.accessToken != "" && a.now().Before(a.expiresAt) {
		return a.accessToken, nil
	}

	stored, err := a.tokens.Get(ctx, kvstore.KeyDriveRefreshToken)
	if err != nil {
		return "", fmt.Errorf("failed to load refresh token: %w", err)
	}
	if len(stored) == 0 {
		return "", common.ErrUnauthorized
	}

	form := url.Values{}
	form.Set("client_id", a.clientID)
	form.Set("client_secret", a.clientSecret)
	form.Set("refresh_token", string(stored))
	form.Set("grant_type", "refresh_token")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token exchange failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest {
		// Bad or revoked grant. The user has to re-authorize.
		a.logger.Warn(ctx, "token exchange rejected", "status", resp.StatusCode)
		return "", common.ErrUnauthorized
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("token exchange: unexpected status %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("token exchange: empty access token")
	}

	a.accessToken = tr.AccessToken
	a.expiresAt = a.now().Add(time.Duration(tr.ExpiresIn)*time.Second - accessTokenSlack)
	a.logger.Debug(ctx, "access token refreshed", "expires_in", tr.ExpiresIn)
	return a.accessToken, nil
}

func (a *OAuthAuthenticator) Invalidate() {
	a.mu.Lock()
	a.accessToken = ""
	a.expiresAt = time.Time{}
	a.mu.Unlock()
}
