package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("payload for " + r.URL.Path))
	}))
	defer srv.Close()

	sources := []Source{
		{Name: "pubs", URL: srv.URL + "/pubs", Filename: "pubs.csv"},
		{Name: "pay", URL: srv.URL + "/pay", Filename: "pay.zip"},
	}
	destDir := t.TempDir()

	f := newTestFetcher()
	paths, err := FetchAll(context.Background(), f, destDir, sources)
	require.NoError(t, err)
	require.Len(t, paths, 2)

	data, err := os.ReadFile(paths["pubs"])
	require.NoError(t, err)
	assert.Equal(t, "payload for /pubs", string(data))
}

func TestFetchAll_FailurePropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	sources := []Source{
		{Name: "good", URL: srv.URL + "/good", Filename: "good.csv"},
		{Name: "bad", URL: srv.URL + "/bad", Filename: "bad.csv"},
	}

	f := newTestFetcher()
	_, err := FetchAll(context.Background(), f, t.TempDir(), sources)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "download bad")
}

func TestDefaultSources(t *testing.T) {
	sources := DefaultSources()
	require.Len(t, sources, 4)

	names := make(map[string]bool, len(sources))
	for _, s := range sources {
		assert.NotEmpty(t, s.URL)
		assert.NotEmpty(t, s.Filename)
		names[s.Name] = true
	}
	assert.True(t, names["pubs"])
	assert.True(t, names["boundaries"])
}
