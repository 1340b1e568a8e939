package pdfpoems

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ozanunsal/hikmet-crawler/internal/config"
	"github.com/ozanunsal/hikmet-crawler/internal/crawler"
	"github.com/ozanunsal/hikmet-crawler/internal/record"
)

func testCrawler(t *testing.T, src config.Source) *Crawler {
	t.Helper()
	instance, err := New(src, crawler.Deps{}, crawler.Options{})
	require.NoError(t, err)
	return instance.(*Crawler)
}

func pdfSource() config.Source {
	return config.Source{
		Name: "altinisik-pdf",
		Kind: record.KindPDFPoems,
	}
}

func TestSplitWorksSegmentsAtUppercaseTitles(t *testing.T) {
	t.Parallel()

	lines := []string{
		"DAVET",
		"",
		"Dörtnala gelip Uzak Asya'dan",
		"Akdeniz'e bir kısrak başı gibi uzanan",
		"",
		"HASRET",
		"",
		"denize dönmek istiyorum",
		"",
	}
	c := testCrawler(t, pdfSource())
	works := c.splitWorks(lines, "https://legacy.example.com/nazim.pdf")
	require.Len(t, works, 2)

	require.Equal(t, "DAVET", works[0].Title)
	require.Equal(t, "Dörtnala gelip Uzak Asya'dan\nAkdeniz'e bir kısrak başı gibi uzanan", works[0].TextFull)
	require.Equal(t, "HASRET", works[1].Title)
	require.Equal(t, "denize dönmek istiyorum", works[1].TextFull)

	require.Equal(t, "legacy.example.com", works[0].SourceName)
	require.Equal(t, "https://legacy.example.com/nazim.pdf", works[0].SourceURL)
	require.NotEqual(t, works[0].Hash, works[1].Hash)
}

func TestSplitWorksWithoutTitlesYieldsSingleWork(t *testing.T) {
	t.Parallel()

	lines := []string{
		"denize dönmek istiyorum",
		"mavi aynasında suların",
		"denize dönmek istiyorum",
	}
	c := testCrawler(t, pdfSource())
	works := c.splitWorks(lines, "https://legacy.example.com/nazim.pdf")
	require.Len(t, works, 1)
	require.Equal(t, "denize dönmek istiyorum", works[0].Title)
	require.Contains(t, works[0].TextFull, "mavi aynasında suların")
}

func TestSplitWorksSkipsEmptyBodies(t *testing.T) {
	t.Parallel()

	lines := []string{
		"DAVET",
		"",
		"",
		"HASRET",
		"",
		"denize dönmek istiyorum",
	}
	c := testCrawler(t, pdfSource())
	works := c.splitWorks(lines, "https://legacy.example.com/nazim.pdf")
	require.Len(t, works, 1)
	require.Equal(t, "HASRET", works[0].Title)
}

func TestSplitWorksMultiLineTitle(t *testing.T) {
	t.Parallel()

	lines := []string{
		"MEMLEKETİMDEN",
		"İNSAN MANZARALARI",
		"",
		"ilk dizeler burada başlar",
	}
	c := testCrawler(t, pdfSource())
	works := c.splitWorks(lines, "https://legacy.example.com/nazim.pdf")
	require.Len(t, works, 1)
	require.Equal(t, "MEMLEKETİMDEN İNSAN MANZARALARI", works[0].Title)
	require.Equal(t, "ilk dizeler burada başlar", works[0].TextFull)
}

func TestNormalizeWorkTextFlattensTypography(t *testing.T) {
	t.Parallel()

	got := normalizeWorkText("“Yaşamak”  bir ağaç gibi\r\n\n\n\ntek ve hür\t ")
	require.Equal(t, "\"Yaşamak\" bir ağaç gibi\n\ntek ve hür", got)
}

func TestBuildRecordMetadataDefaults(t *testing.T) {
	t.Parallel()

	c := testCrawler(t, pdfSource())
	rec := c.buildRecord("DAVET", "bu memleket bizim", "https://legacy.example.com/nazim.pdf")
	require.Equal(t, "poem", rec.Type)
	require.Equal(t, "poem", rec.WorkType)
	require.Equal(t, "tr", rec.Lang)
	require.Equal(t, config.DefaultAuthor, rec.Author)
	require.Equal(t, "altinisik-pdf", rec.Collection)
	require.Equal(t, config.DefaultLicense, rec.License)
	require.Equal(t, record.NewHash(rec.SourceURL, "DAVET", "bu memleket bizim"), rec.Hash)

	src := pdfSource()
	src.DocumentType = "anthology"
	src.WorkType = "verse"
	src.Collection = "Toplu Şiirler"
	c = testCrawler(t, src)
	rec = c.buildRecord("", "gövde", "https://legacy.example.com/nazim.pdf")
	require.Equal(t, "anthology", rec.Type)
	require.Equal(t, "verse", rec.WorkType)
	require.Equal(t, "Toplu Şiirler", rec.Collection)
	// A missing title falls back to the first body line.
	require.Equal(t, "gövde", rec.Title)
}
