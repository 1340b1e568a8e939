package record

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	horizontalWS = regexp.MustCompile(`[ \t\r\f\v]+`)
	anyWS        = regexp.MustCompile(`\s+`)
	yearRE       = regexp.MustCompile(`(18|19|20)\d{2}`)
)

// siteTokens are boilerplate strings some sources leave behind as the only
// content of an element; cleaned text equal to one of them becomes empty.
var siteTokens = map[string]struct{}{
	"siir arsivi": {},
}

var typographicReplacer = strings.NewReplacer(
	"’", "'",
	"‘", "'",
	"“", `"`,
	"”", `"`,
	"–", "-",
	"—", "-",
)

var invisibleReplacer = strings.NewReplacer(
	" ", " ", // no-break space
	"​", "", // zero-width space
)

// NormalizeToken lowercases text and strips diacritics for loose comparisons,
// so "Şiir Arşivi" and "Siir Arsivi" compare equal.
func NormalizeToken(text string) string {
	if text == "" {
		return ""
	}
	decomposed := norm.NFKD.String(text)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

// Clean normalizes whitespace while preserving line breaks. It is the display
// normalization applied to stored text, distinct from Canonicalize which only
// feeds the hash.
func Clean(text string) string {
	if text == "" {
		return ""
	}
	normalized := invisibleReplacer.Replace(norm.NFC.String(text))
	lines := strings.Split(normalized, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(horizontalWS.ReplaceAllString(line, " "))
	}
	cleaned := strings.TrimSpace(strings.Join(lines, "\n"))
	if cleaned == "" {
		return ""
	}
	if _, ok := siteTokens[NormalizeToken(cleaned)]; ok {
		return ""
	}
	return cleaned
}

// Canonicalize flattens case, spacing, and punctuation variants so that the
// same content always produces the same hash input. Smart quotes, dashes,
// non-breaking spaces, and CR/LF variants all collapse to plain forms.
func Canonicalize(text string) string {
	if text == "" {
		return ""
	}
	normalized := norm.NFKC.String(text)
	normalized = invisibleReplacer.Replace(normalized)
	normalized = typographicReplacer.Replace(normalized)
	lines := strings.Split(strings.ReplaceAll(normalized, "\r\n", "\n"), "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(anyWS.ReplaceAllString(line, " "))
		if line != "" {
			kept = append(kept, line)
		}
	}
	canonical := strings.Join(kept, " \n ")
	return strings.ToLower(strings.TrimSpace(canonical))
}

// YearFromText extracts the first plausible four-digit year (1800-2099).
func YearFromText(text string) *int {
	if text == "" {
		return nil
	}
	match := yearRE.FindString(text)
	if match == "" {
		return nil
	}
	year := 0
	for _, d := range match {
		year = year*10 + int(d-'0')
	}
	return &year
}
