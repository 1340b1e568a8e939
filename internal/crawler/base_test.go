package crawler

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ozanunsal/hikmet-crawler/internal/config"
	"github.com/ozanunsal/hikmet-crawler/internal/fetch"
	"github.com/ozanunsal/hikmet-crawler/internal/record"
	"github.com/ozanunsal/hikmet-crawler/internal/storage/memory"
)

// scriptedFetcher fails a fixed number of times before succeeding.
type scriptedFetcher struct {
	failures int
	calls    int
	body     []byte
}

func (f *scriptedFetcher) Fetch(_ context.Context, request fetch.Request) (fetch.Response, error) {
	f.calls++
	if f.calls <= f.failures {
		return fetch.Response{}, errors.New("transient failure")
	}
	return fetch.Response{
		URL:        request.URL,
		StatusCode: 200,
		Body:       f.body,
	}, nil
}

func fastRetryBase(src config.Source, fetcher fetch.Fetcher, deps Deps, opts Options) Base {
	if src.BackoffBase == 0 {
		src.BackoffBase = time.Millisecond
	}
	return NewBase(record.KindPoemPage, src, fetcher, deps, opts)
}

func TestLinksPrefersSeedsOverFallbacks(t *testing.T) {
	t.Parallel()

	base := fastRetryBase(config.Source{
		Seeds:   []string{"https://a.example.com", "", "https://b.example.com"},
		ListURL: "https://list.example.com",
		Base:    "https://base.example.com",
	}, nil, Deps{}, Options{})
	require.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, base.Links())
}

func TestLinksFallbackOrder(t *testing.T) {
	t.Parallel()

	base := fastRetryBase(config.Source{ListURL: "https://list.example.com", URL: "https://url.example.com"}, nil, Deps{}, Options{})
	require.Equal(t, []string{"https://list.example.com"}, base.Links())

	base = fastRetryBase(config.Source{URL: "https://url.example.com", Base: "https://base.example.com"}, nil, Deps{}, Options{})
	require.Equal(t, []string{"https://url.example.com"}, base.Links())

	base = fastRetryBase(config.Source{Base: "https://base.example.com"}, nil, Deps{}, Options{})
	require.Equal(t, []string{"https://base.example.com"}, base.Links())

	base = fastRetryBase(config.Source{}, nil, Deps{}, Options{})
	require.Empty(t, base.Links())
}

func TestFetchRetriesUntilSuccess(t *testing.T) {
	t.Parallel()

	fetcher := &scriptedFetcher{failures: 2, body: []byte("payload")}
	base := fastRetryBase(config.Source{Name: "retry-source"}, fetcher, Deps{}, Options{})

	resp, err := base.Fetch(context.Background(), "https://example.com/page")
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), resp.Body)
	require.Equal(t, 3, fetcher.calls)
}

func TestFetchExhaustsRetries(t *testing.T) {
	t.Parallel()

	fetcher := &scriptedFetcher{failures: 99}
	base := fastRetryBase(config.Source{Name: "down-source"}, fetcher, Deps{}, Options{})

	_, err := base.Fetch(context.Background(), "https://example.com/page")
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	require.Equal(t, DefaultMaxAttempts, fetchErr.Attempts)
	require.Equal(t, DefaultMaxAttempts, fetcher.calls)
}

func TestFetchStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fetcher := &scriptedFetcher{failures: 99}
	base := fastRetryBase(config.Source{Name: "canceled"}, fetcher, Deps{}, Options{})
	base.Retry.BackoffBase = time.Minute

	start := time.Now()
	_, err := base.Fetch(ctx, "https://example.com/page")
	require.Error(t, err)
	require.Less(t, time.Since(start), time.Second)
}

func TestFetchArchivesSuccessfulPayloads(t *testing.T) {
	t.Parallel()

	archive := memory.NewBlobStore()
	fetcher := &scriptedFetcher{body: []byte("<html>poem</html>")}
	base := fastRetryBase(config.Source{Name: "archived"}, fetcher, Deps{Archive: archive}, Options{})

	_, err := base.Fetch(context.Background(), "https://example.com/poem")
	require.NoError(t, err)
	require.Equal(t, 1, archive.Len())
}

func TestRetryPolicyBackoffGrowsExponentially(t *testing.T) {
	t.Parallel()

	policy := RetryPolicy{MaxAttempts: 5, BackoffBase: time.Second, BackoffFactor: 2}
	require.Equal(t, time.Second, policy.Backoff(1))
	require.Equal(t, 2*time.Second, policy.Backoff(2))
	require.Equal(t, 4*time.Second, policy.Backoff(3))
}

func TestFinalizeStampsMetadataAndSafeMode(t *testing.T) {
	t.Parallel()

	base := fastRetryBase(config.Source{Name: "safe-source"}, nil, Deps{}, Options{SafeMode: true})

	long := strings.Repeat("ş", 600)
	rec := base.Finalize(record.Record{Title: "Davet", TextFull: long}, "https://example.com/davet", "safe-source")

	require.Equal(t, record.KindPoemPage, rec.Kind)
	require.Equal(t, "https://example.com/davet", rec.SourceURL)
	require.Equal(t, "safe-source", rec.SourceName)
	require.True(t, rec.SafeMode)
	require.Empty(t, rec.TextFull)
	require.Equal(t, 250, len([]rune(rec.Summary)))
	require.Equal(t, strings.Repeat("ş", 250), rec.Summary)
}

func TestFinalizeKeepsTextWithoutSafeMode(t *testing.T) {
	t.Parallel()

	base := fastRetryBase(config.Source{Name: "open-source"}, nil, Deps{}, Options{})
	rec := base.Finalize(record.Record{TextFull: "full text"}, "https://example.com", "open-source")
	require.False(t, rec.SafeMode)
	require.Equal(t, "full text", rec.TextFull)
	require.Empty(t, rec.Summary)
}

func TestFinalizeShortTextBecomesWholeSummary(t *testing.T) {
	t.Parallel()

	base := fastRetryBase(config.Source{}, nil, Deps{}, Options{SafeMode: true})
	rec := base.Finalize(record.Record{TextFull: "kısa metin"}, "", "")
	require.Equal(t, "kısa metin", rec.Summary)
	require.Empty(t, rec.TextFull)
}
