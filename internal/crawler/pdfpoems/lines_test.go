package pdfpoems

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReplaceCIDSequences(t *testing.T) {
	t.Parallel()

	// Mapped codes are repaired, unmapped codes are dropped.
	require.Equal(t, "şyı", replaceCIDSequences("(cid:250)(cid:92)(cid:213)"))
	require.Equal(t, "kalk", replaceCIDSequences("kal(cid:9999)k"))
	require.Equal(t, "plain text", replaceCIDSequences("plain text"))
	require.Equal(t, "İstanbul", replaceCIDSequences("(cid:248)stanbul"))
}

func TestIsHeaderLine(t *testing.T) {
	t.Parallel()

	for _, line := range []string{
		"12",
		"  345  ",
		"https://example.com/nazim.pdf",
		"www.example.com",
		"Mustafa ALTINISIK",
		"mustafa altinisik",
		"NAZIM HİKMET - Bütün Şiirleri",
	} {
		require.True(t, isHeaderLine(line), line)
	}
	for _, line := range []string{
		"MEMLEKETİMİ SEVİYORUM",
		"1963 yazında",
		"dörtnala gelip",
	} {
		require.False(t, isHeaderLine(line), line)
	}
}

func TestCollectLinesSuppressesHeadersAndMarksPageBreaks(t *testing.T) {
	t.Parallel()

	pages := []string{
		"NAZIM HİKMET\nDAVET\n\nDörtnala   gelip Uzak Asya'dan\n42",
		"www.site.com\nbu memleket bizim",
	}
	lines := collectLines(pages)
	require.Equal(t, []string{
		"DAVET",
		"",
		"Dörtnala gelip Uzak Asya'dan",
		"",
		"bu memleket bizim",
		"",
	}, lines)
}

func TestCollectLinesRepairsCIDsPerLine(t *testing.T) {
	t.Parallel()

	lines := collectLines([]string{"(cid:249)iir ba(cid:250)lıyor"})
	require.Equal(t, []string{"Şiir başlıyor", ""}, lines)
}
