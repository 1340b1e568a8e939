package record

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewHashIsDeterministic(t *testing.T) {
	t.Parallel()

	first := NewHash("https://example.com/poem", "Title", "Body")
	second := NewHash("https://example.com/poem", "Title", "Body")
	require.Equal(t, first, second)
	require.Len(t, first, 64)

	require.NotEqual(t, first, NewHash("https://example.com/poem", "Title", "Other body"))
}

func TestNewHashJoinsPartsWithPipe(t *testing.T) {
	t.Parallel()

	// Parts are joined with an unescaped "|", so regrouping around the
	// joiner hashes the same string. Distinct content still differs.
	require.Equal(t, NewHash("a|b", "c"), NewHash("a", "b|c"))
	require.NotEqual(t, NewHash("a", "b"), NewHash("b", "a"))
}

func TestContentHashIgnoresFormattingNoise(t *testing.T) {
	t.Parallel()

	first := ContentHash("Nazim Hikmet", "Davet", "Dörtnala gelip  Uzak Asya’dan\nAkdeniz’e bir kısrak başı gibi uzanan")
	second := ContentHash("nazim hikmet", "DAVET", "Dörtnala gelip Uzak Asya'dan\r\nAkdeniz'e bir kısrak başı gibi uzanan")
	require.Equal(t, first, second)

	require.NotEqual(t, first, ContentHash("Nazim Hikmet", "Davet", "different body"))
}

func TestLinkHashUsesURLAndTitle(t *testing.T) {
	t.Parallel()

	require.Equal(t, NewHash("https://example.com/a", "T"), LinkHash("https://example.com/a", "T"))
	require.NotEqual(t, LinkHash("https://example.com/a", "T"), LinkHash("https://example.com/b", "T"))
}

func TestKindValid(t *testing.T) {
	t.Parallel()

	for _, kind := range []Kind{KindPoemPage, KindPDFPoems, KindPoemList, KindBook, KindNovel, KindPlay, KindNews} {
		require.True(t, kind.Valid(), string(kind))
	}
	require.False(t, Kind("magazine").Valid())
	require.False(t, Kind("").Valid())
}
