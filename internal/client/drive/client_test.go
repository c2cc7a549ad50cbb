package drive

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/logorama/internal/common"
	"github.com/dmitrijs2005/logorama/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewTextLogger(io.Discard, slog.LevelError)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPClient("test-api-key", testLogger(), WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
}

func TestFindBackupFile(t *testing.T) {
	tests := []struct {
		name  string
		files []fileResource
		want  string
	}{
		{"found", []fileResource{{ID: "file-1", Name: BackupFileName}}, "file-1"},
		{"absent", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/drive/v3/files", r.URL.Path)
				assert.Equal(t, "appDataFolder", r.URL.Query().Get("spaces"))
				assert.Contains(t, r.URL.Query().Get("q"), BackupFileName)
				assert.Equal(t, "test-api-key", r.URL.Query().Get("key"))
				assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
				json.NewEncoder(w).Encode(fileListResponse{Files: tt.files})
			})

			id, err := c.FindBackupFile(context.Background(), "tok")
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestCreateBackupFile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/upload/drive/v3/files", r.URL.Path)
		assert.Equal(t, "multipart", r.URL.Query().Get("uploadType"))
		assert.Contains(t, r.Header.Get("Content-Type"), multipartBoundary)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), `"appDataFolder"`)
		assert.Contains(t, string(body), BackupFileName)
		assert.Contains(t, string(body), `{"entries":[]}`)

		json.NewEncoder(w).Encode(fileResource{ID: "new-id"})
	})

	id, err := c.CreateBackupFile(context.Background(), "tok", []byte(`{"entries":[]}`))
	require.NoError(t, err)
	assert.Equal(t, "new-id", id)
}

func TestDownload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/drive/v3/files/file-1", r.URL.Path)
		assert.Equal(t, "media", r.URL.Query().Get("alt"))
		w.Write([]byte(`{"entries":[]}`))
	})

	data, err := c.Download(context.Background(), "tok", "file-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"entries":[]}`, string(data))
}

func TestUpload(t *testing.T) {
	var got []byte
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/upload/drive/v3/files/file-1", r.URL.Path)
		assert.Equal(t, "media", r.URL.Query().Get("uploadType"))
		got, _ = io.ReadAll(r.Body)
	})

	err := c.Upload(context.Background(), "tok", "file-1", []byte(`{"a":1}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(got))
}

func TestUnauthorizedMapsToSentinel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.Download(context.Background(), "expired", "file-1")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestServerErrorIncludesStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	})

	_, err := c.FindBackupFile(context.Background(), "tok")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "quota exceeded")
}
