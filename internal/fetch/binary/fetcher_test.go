package binaryfetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ozanunsal/hikmet-crawler/internal/fetch"
)

func TestFetchReturnsBody(t *testing.T) {
	t.Parallel()

	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 payload"))
	}))
	defer server.Close()

	f := New(Config{Timeout: 5 * time.Second}, nil)
	resp, err := f.Fetch(context.Background(), fetch.Request{URL: server.URL + "/nazim.pdf"})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, []byte("%PDF-1.4 payload"), resp.Body)
	require.Equal(t, "application/pdf", resp.Headers.Get("Content-Type"))
	require.Equal(t, fetch.DefaultUserAgent, gotAgent)
}

func TestFetchRequestHeadersOverrideDefaults(t *testing.T) {
	t.Parallel()

	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	f := New(Config{}, nil)
	_, err := f.Fetch(context.Background(), fetch.Request{
		URL:     server.URL,
		Headers: http.Header{"User-Agent": {"archive-mirror/1.0"}},
	})
	require.NoError(t, err)
	require.Equal(t, "archive-mirror/1.0", gotAgent)
}

func TestFetchStatusError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	f := New(Config{}, nil)
	_, err := f.Fetch(context.Background(), fetch.Request{URL: server.URL + "/missing.pdf"})
	var serr *fetch.StatusError
	require.ErrorAs(t, err, &serr)
	require.Equal(t, http.StatusNotFound, serr.StatusCode)
}

func TestFetchHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := New(Config{}, nil)
	_, err := f.Fetch(ctx, fetch.Request{URL: server.URL})
	require.Error(t, err)
}

func TestHTTPFallbackURLSchemes(t *testing.T) {
	t.Parallel()

	fallback, ok := HTTPFallbackURL("https://www.example.com/siirler.pdf")
	require.True(t, ok)
	require.Equal(t, "http://www.example.com/siirler.pdf", fallback)

	fallback, ok = HTTPFallbackURL("HTTPS://www.example.com/siirler.pdf")
	require.True(t, ok)
	require.Equal(t, "http://www.example.com/siirler.pdf", fallback)

	_, ok = HTTPFallbackURL("http://www.example.com/siirler.pdf")
	require.False(t, ok)

	_, ok = HTTPFallbackURL("ftp://www.example.com/siirler.pdf")
	require.False(t, ok)
}
