package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ozanunsal/hikmet-crawler/internal/record"
)

func TestDefaultRegistryCoversEveryKind(t *testing.T) {
	t.Parallel()

	registry := NewDefaultRegistry()
	kinds := []record.Kind{
		record.KindPoemList,
		record.KindPoemPage,
		record.KindPDFPoems,
		record.KindNews,
		record.KindBook,
		record.KindNovel,
		record.KindPlay,
	}
	for _, kind := range kinds {
		factory, err := registry.Resolve(kind, "any-source")
		require.NoError(t, err, string(kind))
		require.NotNil(t, factory, string(kind))
	}
}
