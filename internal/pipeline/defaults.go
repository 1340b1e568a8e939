package pipeline

import (
	"github.com/ozanunsal/hikmet-crawler/internal/crawler"
	"github.com/ozanunsal/hikmet-crawler/internal/crawler/newsarchive"
	"github.com/ozanunsal/hikmet-crawler/internal/crawler/pdfpoems"
	"github.com/ozanunsal/hikmet-crawler/internal/crawler/poempage"
	"github.com/ozanunsal/hikmet-crawler/internal/crawler/wikilist"
	"github.com/ozanunsal/hikmet-crawler/internal/record"
)

// NewDefaultRegistry builds the registry with every built-in crawler kind.
// The four list kinds share one implementation parameterized by kind.
func NewDefaultRegistry() *crawler.Registry {
	registry := crawler.NewRegistry()
	registry.Register(record.KindPoemPage, poempage.New)
	registry.Register(record.KindPDFPoems, pdfpoems.New)
	registry.Register(record.KindNews, newsarchive.New)
	registry.Register(record.KindPoemList, wikilist.NewFactory(record.KindPoemList))
	registry.Register(record.KindBook, wikilist.NewFactory(record.KindBook))
	registry.Register(record.KindNovel, wikilist.NewFactory(record.KindNovel))
	registry.Register(record.KindPlay, wikilist.NewFactory(record.KindPlay))
	return registry
}
