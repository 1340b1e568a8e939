package pdfpoems

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// cidReplacements repairs the broken glyph encoding of the known anthology
// PDFs. Their embedded fonts map Turkish characters to private CIDs, so the
// extractor emits "(cid:NNN)" placeholders. The table was reverse-engineered
// from the source documents; unmapped codes are dropped.
var cidReplacements = map[string]string{
	"213": "ı",
	"247": "ğ",
	"250": "ş",
	"248": "İ",
	"249": "Ş",
	"80":  "n",
	"81":  "n",
	"85":  "z",
	"86":  "n",
	"92":  "y",
	"93":  "l",
	"79":  "ğ",
	"46":  "Ö",
	"36":  "Ç",
	"44":  "ış",
	"56":  "Şaf",
	"60":  "Y",
	"68":  "gü",
	"71":  "dır",
	"72":  "i",
	"76":  "İş",
	"78":  "kı",
	"3":   " ş",
	"246": "Ğ",
}

var cidPattern = regexp.MustCompile(`\(cid:(\d+)\)`)

// headerPatterns match running headers and footers the source PDFs repeat on
// every page: bare page numbers, URLs, and the compiler's name.
var headerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\s*\d{1,4}\s*$`),
	regexp.MustCompile(`(?i)https?://`),
	regexp.MustCompile(`(?i)mustafa\s*altini?sik`),
	regexp.MustCompile(`(?i)www\.`),
}

var (
	horizontalWS = regexp.MustCompile(`[ \t]+`)
	blankRuns    = regexp.MustCompile(`\n{3,}`)

	ligatureReplacer = strings.NewReplacer("ﬁ", "fi", "ﬂ", "fl")
)

// replaceCIDSequences substitutes every "(cid:NNN)" placeholder using the
// repair table. Codes absent from the table are removed entirely.
func replaceCIDSequences(text string) string {
	if !strings.Contains(text, "(cid:") {
		return text
	}
	return cidPattern.ReplaceAllStringFunc(text, func(match string) string {
		code := cidPattern.FindStringSubmatch(match)[1]
		return cidReplacements[code]
	})
}

// collectLines flattens the per-page text into a single line stream. Lines are
// whitespace-collapsed and CID-repaired; header and footer lines are dropped;
// page boundaries become blank lines so stanza breaks survive.
func collectLines(pages []string) []string {
	var lines []string
	for _, pageText := range pages {
		normalized := strings.ReplaceAll(pageText, "\r\n", "\n")
		normalized = strings.ReplaceAll(normalized, "\r", "\n")
		normalized = ligatureReplacer.Replace(normalized)
		normalized = norm.NFKC.String(normalized)
		for _, rawLine := range strings.Split(normalized, "\n") {
			line := strings.TrimSpace(horizontalWS.ReplaceAllString(rawLine, " "))
			line = replaceCIDSequences(line)
			if line == "" {
				lines = append(lines, "")
				continue
			}
			if isHeaderLine(line) {
				continue
			}
			lines = append(lines, line)
		}
		if len(lines) > 0 && lines[len(lines)-1] != "" {
			lines = append(lines, "")
		}
	}
	return lines
}

func isHeaderLine(line string) bool {
	lowered := strings.ToLower(line)
	if strings.Contains(lowered, "nazim") && strings.Contains(lowered, "hikmet") {
		return true
	}
	for _, pattern := range headerPatterns {
		if pattern.MatchString(line) {
			return true
		}
	}
	return false
}
