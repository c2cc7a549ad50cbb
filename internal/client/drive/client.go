// Package drive is a minimal client for the cloud file API used to mirror
// the journal: it locates, creates, downloads and overwrites one backup file
// inside the account's private application-data area.
package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/dmitrijs2005/logorama/internal/common"
	"github.com/dmitrijs2005/logorama/internal/logging"
)

const (
	// DefaultBaseURL is the Drive API host.
	DefaultBaseURL = "https://www.googleapis.com"

	// BackupFileName is the single well-known file in the app-data area.
	BackupFileName = "app-data.json"

	httpTimeout = 30 * time.Second

	// ~5 requests/second keeps us far from the per-user quota.
	rateLimitInterval = 200 * time.Millisecond

	multipartBoundary = "----logorama-drive-sync"
)

// Client is the remote file surface the sync engine depends on. The string
// argument is a bearer access token obtained from the Authenticator.
type Client interface {
	// FindBackupFile returns the backup file id, or "" when none exists yet.
	FindBackupFile(ctx context.Context, token string) (string, error)

	// CreateBackupFile creates the backup file with the given initial
	// content and returns its id.
	CreateBackupFile(ctx context.Context, token string, initial []byte) (string, error)

	// Download returns the file's full content.
	Download(ctx context.Context, token string, fileID string) ([]byte, error)

	// Upload overwrites the file's full content. Always a whole-file write.
	Upload(ctx context.Context, token string, fileID string, data []byte) error
}

// HTTPClient implements Client against the Drive v3 REST API.
type HTTPClient struct {
	httpClient  *http.Client
	apiKey      string
	rateLimiter *rate.Limiter
	baseURL     string
	logger      logging.Logger
}

// Option configures the client.
type Option func(*HTTPClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(hc *HTTPClient) {
		hc.httpClient = c
	}
}

// WithBaseURL sets a custom base URL (useful for testing).
func WithBaseURL(u string) Option {
	return func(hc *HTTPClient) {
		hc.baseURL = strings.TrimRight(u, "/")
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logging.Logger) Option {
	return func(hc *HTTPClient) {
		hc.logger = l
	}
}

// NewHTTPClient creates a Drive client. The API key is appended to every
// request as required by the hosting project's credentials.
func NewHTTPClient(apiKey string, log logging.Logger, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		httpClient:  &http.Client{Timeout: httpTimeout},
		apiKey:      apiKey,
		rateLimiter: rate.NewLimiter(rate.Every(rateLimitInterval), 1),
		baseURL:     DefaultBaseURL,
		logger:      log.With("component", "drive"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type fileResource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type fileListResponse struct {
	Files []fileResource `json:"files"`
}

func (c *HTTPClient) FindBackupFile(ctx context.Context, token string) (string, error) {
	query := url.Values{}
	query.Set("q", fmt.Sprintf("name='%s' and 'appDataFolder' in parents", BackupFileName))
	query.Set("spaces", "appDataFolder")
	query.Set("fields", "files(id,name)")

	body, err := c.do(ctx, token, http.MethodGet, "/drive/v3/files?"+query.Encode(), "", nil)
	if err != nil {
		return "", err
	}

	var list fileListResponse
	if err := json.Unmarshal(body, &list); err != nil {
		return "", fmt.Errorf("failed to decode file list: %w", err)
	}
	if len(list.Files) == 0 {
		return "", nil
	}
	return list.Files[0].ID, nil
}

func (c *HTTPClient) CreateBackupFile(ctx context.Context, token string, initial []byte) (string, error) {
	metadata, err := json.Marshal(map[string]any{
		"name":     BackupFileName,
		"parents":  []string{"appDataFolder"},
		"mimeType": "application/json",
	})
	if err != nil {
		return "", err
	}
	if len(initial) == 0 {
		initial = []byte("{}")
	}

	var body bytes.Buffer
	fmt.Fprintf(&body, "--%s\r\nContent-Type: application/json; charset=UTF-8\r\n\r\n%s\r\n", multipartBoundary, metadata)
	fmt.Fprintf(&body, "--%s\r\nContent-Type: application/json; charset=UTF-8\r\n\r\n%s\r\n", multipartBoundary, initial)
	fmt.Fprintf(&body, "--%s--", multipartBoundary)

	contentType := fmt.Sprintf("multipart/related; boundary=%s", multipartBoundary)
	resp, err := c.do(ctx, token, http.MethodPost, "/upload/drive/v3/files?uploadType=multipart&fields=id", contentType, body.Bytes())
	if err != nil {
		return "", err
	}

	var created fileResource
	if err := json.Unmarshal(resp, &created); err != nil {
		return "", fmt.Errorf("failed to decode created file: %w", err)
	}
	return created.ID, nil
}

func (c *HTTPClient) Download(ctx context.Context, token string, fileID string) ([]byte, error) {
	return c.do(ctx, token, http.MethodGet, fmt.Sprintf("/drive/v3/files/%s?alt=media", url.PathEscape(fileID)), "", nil)
}

func (c *HTTPClient) Upload(ctx context.Context, token string, fileID string, data []byte) error {
	path := fmt.Sprintf("/upload/drive/v3/files/%s?uploadType=media", url.PathEscape(fileID))
	_, err := c.do(ctx, token, http.MethodPatch, path, "application/json", data)
	return err
}

// do performs one authorized request and returns the response body. A 401 is
// mapped to common.ErrUnauthorized so callers can run the auth-retry policy.
func (c *HTTPClient) do(ctx context.Context, token, method, path, contentType string, body []byte) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := c.baseURL + path
	if c.apiKey != "" {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		u += sep + "key=" + url.QueryEscape(c.apiKey)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	c.logger.Debug(ctx, "drive request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("drive request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read drive response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, common.ErrUnauthorized
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("drive %d %s: %s", resp.StatusCode, http.StatusText(resp.StatusCode), strings.TrimSpace(string(respBody)))
	}
	return respBody, nil
}
