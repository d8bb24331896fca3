// Package galaxy provides tests for client construction and request plumbing.
package galaxy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	galaxyerrors "github.com/pvanheus/galaxy-bulk-upload-from-server/galaxy/errors"
)

// newTestClient wires a client against a test server with fast retries.
func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient(srv.URL, "test-key",
		WithMaxRetries(2),
		WithRetryDelays(time.Millisecond, 5*time.Millisecond),
		WithPollInterval(time.Millisecond),
		WithPollTimeout(250*time.Millisecond),
	)
	require.NoError(t, err)
	return client
}

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		apiKey  string
		wantErr bool
	}{
		{
			name:    "valid https url",
			url:     "https://usegalaxy.org",
			apiKey:  "key",
			wantErr: false,
		},
		{
			name:    "empty url",
			url:     "",
			apiKey:  "key",
			wantErr: true,
		},
		{
			name:    "empty api key",
			url:     "https://usegalaxy.org",
			apiKey:  "",
			wantErr: true,
		},
		{
			name:    "unsupported scheme",
			url:     "ftp://usegalaxy.org",
			apiKey:  "key",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.url, tt.apiKey)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, galaxyerrors.ErrInvalidInput)
				assert.Nil(t, client)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

func TestClient_SendsAuthAndUserAgent(t *testing.T) {
	var gotKey, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "secret-key", WithUserAgent("my-agent/2.0"))
	require.NoError(t, err)

	_, err = client.GetLibraries(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "secret-key", gotKey)
	assert.Equal(t, "my-agent/2.0", gotAgent)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&calls, 1) < 3 {
			http.Error(w, `{"err_msg": "temporarily overloaded"}`, http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)

	_, err := client.GetLibraries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), atomic.LoadInt64(&calls))
}

func TestClient_DoesNotRetryUnauthorized(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		http.Error(w, `{"err_msg": "Provided API key is not valid."}`, http.StatusForbidden)
	}))
	defer srv.Close()

	client := newTestClient(t, srv)

	_, err := client.GetLibraries(context.Background())
	require.Error(t, err)
	assert.True(t, galaxyerrors.IsUnauthorized(err))
	assert.Contains(t, err.Error(), "Provided API key is not valid.")
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

func TestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		sentinel error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, sentinel: galaxyerrors.ErrUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, sentinel: galaxyerrors.ErrUnauthorized},
		{name: "not found", status: http.StatusNotFound, sentinel: galaxyerrors.ErrNotFound},
		{name: "too many requests", status: http.StatusTooManyRequests, sentinel: galaxyerrors.ErrTooManyRequests},
		{name: "server error", status: http.StatusInternalServerError, sentinel: galaxyerrors.ErrServer},
		{name: "bad request", status: http.StatusBadRequest, sentinel: galaxyerrors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			client, err := NewClient(srv.URL, "key", WithMaxRetries(0))
			require.NoError(t, err)

			_, err = client.GetLibraries(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)
		})
	}
}
