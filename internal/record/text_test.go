package record

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCleanCollapsesHorizontalWhitespaceOnly(t *testing.T) {
	t.Parallel()

	got := Clean("  Memleketimi   seviyorum\t\n\n  çınarlarında kolan vurdum  ")
	require.Equal(t, "Memleketimi seviyorum\n\nçınarlarında kolan vurdum", got)
}

func TestCleanDropsSiteBoilerplate(t *testing.T) {
	t.Parallel()

	require.Empty(t, Clean("Şiir Arşivi"))
	require.Empty(t, Clean("siir arsivi"))
	require.Empty(t, Clean("   \n  "))
}

func TestCanonicalizeFlattensFormattingVariants(t *testing.T) {
	t.Parallel()

	a := Canonicalize("“Yaşamak”  bir ağaç gibi\r\ntek ve hür")
	b := Canonicalize("\"yaşamak\" bir ağaç gibi\ntek    ve hür")
	require.Equal(t, a, b)
	require.Equal(t, "\"yaşamak\" bir ağaç gibi \n tek ve hür", a)
}

func TestCanonicalizeDropsBlankLines(t *testing.T) {
	t.Parallel()

	require.Equal(t, "bir \n iki", Canonicalize("bir\n\n\niki"))
}

func TestNormalizeTokenStripsDiacritics(t *testing.T) {
	t.Parallel()

	require.Equal(t, NormalizeToken("Siir Arsivi"), NormalizeToken("Şiir Arşivi"))
}

func TestYearFromText(t *testing.T) {
	t.Parallel()

	year := YearFromText("Memleketimden İnsan Manzaraları (1939)")
	require.NotNil(t, year)
	require.Equal(t, 1939, *year)

	require.Nil(t, YearFromText("no year here"))
	require.Nil(t, YearFromText("1492 is too early"))
}
