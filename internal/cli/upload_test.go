package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFastqTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "run1"), 0o755))
	content := []byte("@SRR001 1\nACGT\n+\nIIII\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "run1", "sample.fastq"), content, 0o644))
	return dir
}

// newGalaxyStub serves the library create, upload, show and rename
// endpoints used by a run.
func newGalaxyStub(t *testing.T, renamed *atomic.Int64) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/libraries", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"id": "lib-1", "name": "run"})
	})
	mux.HandleFunc("POST /api/libraries/lib-1/contents", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]string{{"id": "ds-1", "name": "sample.fastq"}})
	})
	mux.HandleFunc("GET /api/libraries/datasets/ds-1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"id": "ds-1", "state": "ok"})
	})
	mux.HandleFunc("PATCH /api/libraries/datasets/ds-1", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "sample", payload["name"])
		renamed.Add(1)
		json.NewEncoder(w).Encode(map[string]string{"id": "ds-1"})
	})
	return httptest.NewServer(mux)
}

func TestRunUpload(t *testing.T) {
	dir := writeFastqTree(t)
	var renamed atomic.Int64
	srv := newGalaxyStub(t, &renamed)
	defer srv.Close()

	var stdout, stderr bytes.Buffer
	err := RunUpload(context.Background(), []string{
		"--galaxy-url", srv.URL,
		"--api-key", "secret",
		"--quiet",
		"my library", dir,
	}, &stdout, &stderr)
	require.NoError(t, err)

	assert.Equal(t, int64(1), renamed.Load())
	out := stdout.String()
	assert.Contains(t, out, `library "my library"`)
	assert.Contains(t, out, "uploaded 1 of 1 files")
	assert.Contains(t, out, "renamed 1")
}

func TestRunUpload_DryRun(t *testing.T) {
	dir := writeFastqTree(t)

	var stdout, stderr bytes.Buffer
	err := RunUpload(context.Background(), []string{
		"--dry-run",
		"my library", dir,
	}, &stdout, &stderr)
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "dry run: 1 FASTQ files")
}

func TestRunUpload_RequiresPositionalArgs(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := RunUpload(context.Background(), []string{
		"--galaxy-url", "http://localhost", "--api-key", "k",
	}, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LIBRARY_NAME and DATASETS_PATH required")
	assert.Contains(t, stderr.String(), "Usage:")
}

func TestRunUpload_RequiresServerAndKey(t *testing.T) {
	dir := writeFastqTree(t)
	t.Setenv("GALAXY_URL", "")
	t.Setenv("GALAXY_API_KEY", "")

	var stdout, stderr bytes.Buffer
	err := RunUpload(context.Background(), []string{"lib", dir}, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "galaxy URL required")

	err = RunUpload(context.Background(), []string{
		"--galaxy-url", "http://localhost", "lib", dir,
	}, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key required")
}

func TestRunUpload_EnvFallback(t *testing.T) {
	dir := writeFastqTree(t)
	var renamed atomic.Int64
	srv := newGalaxyStub(t, &renamed)
	defer srv.Close()

	t.Setenv("GALAXY_URL", srv.URL)
	t.Setenv("GALAXY_API_KEY", "secret")

	var stdout, stderr bytes.Buffer
	err := RunUpload(context.Background(), []string{"--quiet", "lib", dir}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Equal(t, int64(1), renamed.Load())
}

func TestRunUpload_ReportsUploadFailures(t *testing.T) {
	dir := writeFastqTree(t)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/libraries", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"id": "lib-1", "name": "run"})
	})
	mux.HandleFunc("POST /api/libraries/lib-1/contents", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"err_msg": "bad dbkey"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	var stdout, stderr bytes.Buffer
	err := RunUpload(context.Background(), []string{
		"--galaxy-url", srv.URL,
		"--api-key", "secret",
		"--quiet",
		"lib", dir,
	}, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 uploads failed")
	assert.True(t, strings.Contains(stdout.String(), "bad dbkey"))
}
