package wikilist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ozanunsal/hikmet-crawler/internal/config"
	"github.com/ozanunsal/hikmet-crawler/internal/crawler"
	"github.com/ozanunsal/hikmet-crawler/internal/fetch"
	"github.com/ozanunsal/hikmet-crawler/internal/record"
)

type pageFetcher struct {
	pages map[string]string
}

func (f *pageFetcher) Fetch(_ context.Context, request fetch.Request) (fetch.Response, error) {
	body, ok := f.pages[request.URL]
	if !ok {
		return fetch.Response{}, &fetch.StatusError{URL: request.URL, StatusCode: 404}
	}
	return fetch.Response{URL: request.URL, StatusCode: 200, Body: []byte(body)}, nil
}

const playListPage = `<html><body>
<div class="plays">
  <ul>
    <li><a href="/wiki/Kafatasi">Kafatası</a> (1932)</li>
    <li><a href="/wiki/Unutulan_Adam">Unutulan Adam</a> (1935)</li>
    <li>Ocak Başında</li>
  </ul>
</div>
</body></html>`

func playSource() config.Source {
	return config.Source{
		Name: "wiki-plays",
		Kind: record.KindPlay,
		Base: "https://tr.wikipedia.org",
		URL:  "https://tr.wikipedia.org/wiki/Nazim_Hikmet",
		Extract: config.Extract{
			SectionCSS: "div.plays li",
			YearRegex:  `\d{4}`,
		},
	}
}

func newListCrawler(t *testing.T, src config.Source, fetcher fetch.Fetcher) crawler.Crawler {
	t.Helper()
	instance, err := NewFactory(src.Kind)(src, crawler.Deps{HTML: fetcher}, crawler.Options{})
	require.NoError(t, err)
	return instance
}

func TestExtractListEntries(t *testing.T) {
	t.Parallel()

	fetcher := &pageFetcher{pages: map[string]string{
		"https://tr.wikipedia.org/wiki/Nazim_Hikmet": playListPage,
	}}
	instance := newListCrawler(t, playSource(), fetcher)

	links := instance.Links()
	require.Equal(t, []string{"https://tr.wikipedia.org/wiki/Nazim_Hikmet"}, links)

	recs, err := instance.Extract(context.Background(), links[0], "wiki-plays")
	require.NoError(t, err)
	require.Len(t, recs, 3)

	first := recs[0]
	require.Equal(t, record.KindPlay, first.Kind)
	require.Equal(t, "play", first.Type)
	require.Equal(t, "Kafatası (1932)", first.Title)
	require.Equal(t, "https://tr.wikipedia.org/wiki/Kafatasi", first.SourceURL)
	require.NotNil(t, first.Year)
	require.Equal(t, 1932, *first.Year)
	require.Empty(t, first.TextFull)
	require.Equal(t, record.LinkHash(first.SourceURL, first.Title), first.Hash)

	second := recs[1]
	require.NotNil(t, second.Year)
	require.Equal(t, 1935, *second.Year)

	// The item without a link keeps the page URL and has no year.
	third := recs[2]
	require.Equal(t, "Ocak Başında", third.Title)
	require.Equal(t, "https://tr.wikipedia.org/wiki/Nazim_Hikmet", third.SourceURL)
	require.Nil(t, third.Year)
}

func TestExtractSkipsEmptyItemsAndSections(t *testing.T) {
	t.Parallel()

	fetcher := &pageFetcher{pages: map[string]string{
		"https://tr.wikipedia.org/wiki/Nazim_Hikmet": `<div class="plays"><ul><li>  </li></ul></div>`,
	}}
	instance := newListCrawler(t, playSource(), fetcher)
	recs, err := instance.Extract(context.Background(), "https://tr.wikipedia.org/wiki/Nazim_Hikmet", "wiki-plays")
	require.NoError(t, err)
	require.Empty(t, recs)

	src := playSource()
	src.Extract.SectionCSS = ""
	instance = newListCrawler(t, src, fetcher)
	recs, err = instance.Extract(context.Background(), "https://tr.wikipedia.org/wiki/Nazim_Hikmet", "wiki-plays")
	require.NoError(t, err)
	require.Empty(t, recs)
}

func TestFactoryRejectsBadYearRegex(t *testing.T) {
	t.Parallel()

	src := playSource()
	src.Extract.YearRegex = "(["
	_, err := NewFactory(record.KindPlay)(src, crawler.Deps{}, crawler.Options{})
	require.Error(t, err)
}

func TestYearFallsBackToGenericDetection(t *testing.T) {
	t.Parallel()

	src := playSource()
	src.Extract.YearRegex = ""
	fetcher := &pageFetcher{pages: map[string]string{
		"https://tr.wikipedia.org/wiki/Nazim_Hikmet": `<div class="plays"><ul><li><a href="/wiki/X">Ferhad ile Şirin</a> (1948)</li></ul></div>`,
	}}
	instance := newListCrawler(t, src, fetcher)
	recs, err := instance.Extract(context.Background(), "https://tr.wikipedia.org/wiki/Nazim_Hikmet", "wiki-plays")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.NotNil(t, recs[0].Year)
	require.Equal(t, 1948, *recs[0].Year)
}
