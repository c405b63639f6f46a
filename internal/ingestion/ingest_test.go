package ingestion

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromText(t *testing.T) {
	doc, err := FromText("  Senior   Go engineer \r\n\r\n\r\n\r\nRemote  ")
	require.NoError(t, err)
	assert.Equal(t, "Senior Go engineer\n\nRemote", doc.Text)
	assert.Equal(t, SourceText, doc.Source)

	_, err = FromText(" \n\t ")
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.txt")
	require.NoError(t, os.WriteFile(path, []byte("Platform engineer\nKubernetes, Terraform\n"), 0o644))

	doc, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Platform engineer\nKubernetes, Terraform", doc.Text)
	assert.Equal(t, SourceFile, doc.Source)
	assert.Equal(t, path, doc.Origin)

	_, err = FromFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}

func TestFromURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(jobPage))
	}))
	defer server.Close()

	doc, err := FromURL(context.Background(), server.URL, URLOptions{})
	require.NoError(t, err)
	assert.Equal(t, SourceURL, doc.Source)
	assert.Equal(t, PlatformUnknown, doc.Platform)
	assert.False(t, doc.Rendered)
	assert.Contains(t, doc.Text, "Senior Backend Engineer")
}

func TestFromURL_BrowserFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div id="root">Loading...</div></body></html>`))
	}))
	defer server.Close()

	long := strings.Repeat("Design and operate distributed systems. ", 20)
	var rendered []string
	render := func(ctx context.Context, rawURL string, timeout time.Duration) (string, error) {
		rendered = append(rendered, rawURL)
		return "<html><body><main>" + long + "</main></body></html>", nil
	}

	doc, err := FromURL(context.Background(), server.URL, URLOptions{UseBrowser: true, Render: render})
	require.NoError(t, err)
	assert.Equal(t, []string{server.URL}, rendered)
	assert.True(t, doc.Rendered)
	assert.Contains(t, doc.Text, "Design and operate distributed systems.")

	// without the flag the short page is returned as is
	doc, err = FromURL(context.Background(), server.URL, URLOptions{Render: render})
	require.NoError(t, err)
	assert.Equal(t, "Loading...", doc.Text)
	assert.Len(t, rendered, 1)
}

func TestFromURL_BrowserFailureKeepsFetchedText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><main>Short posting</main></body></html>`))
	}))
	defer server.Close()

	render := func(context.Context, string, time.Duration) (string, error) {
		return "", errors.New("chrome not installed")
	}
	doc, err := FromURL(context.Background(), server.URL, URLOptions{UseBrowser: true, Render: render})
	require.NoError(t, err)
	assert.Equal(t, "Short posting", doc.Text)
	assert.False(t, doc.Rendered)
}

func TestFromURL_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/empty" {
			_, _ = w.Write([]byte(`<html><body><script>app()</script></body></html>`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := FromURL(context.Background(), server.URL+"/broken", URLOptions{})
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusInternalServerError, fetchErr.StatusCode)

	_, err = FromURL(context.Background(), server.URL+"/empty", URLOptions{})
	assert.ErrorIs(t, err, ErrEmptyDocument)
}
