package pdfpoems

import (
	"strings"
	"unicode"
)

const maxTitleLen = 60

// detectTitleIndices returns the indices of lines that look like work titles.
// A candidate must sit below a blank line (or open the document) and have at
// least one non-empty line after it.
func detectTitleIndices(lines []string) []int {
	var indices []int
	for idx, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if idx > 0 && strings.TrimSpace(lines[idx-1]) != "" {
			continue
		}
		if isTitleCandidate(line, lines, idx) {
			indices = append(indices, idx)
		}
	}
	return indices
}

// isTitleCandidate applies the typographic heuristics: short line, mostly
// uppercase or title-cased, little punctuation, and followed by body text.
func isTitleCandidate(line string, lines []string, idx int) bool {
	stripped := strings.TrimSpace(line)
	length := len([]rune(stripped))
	if length < 3 || length > maxTitleLen {
		return false
	}
	if nextNonEmptyLine(lines, idx) == "" {
		return false
	}
	letters, upperLetters := countLetters(stripped)
	if letters == 0 {
		return false
	}
	punctuation := 0
	for _, r := range stripped {
		if strings.ContainsRune(",.;:!?", r) {
			punctuation++
		}
	}
	if punctuation > max(2, length/3) {
		return false
	}
	upperRatio := float64(upperLetters) / float64(letters)
	return isUpperString(stripped) ||
		upperRatio >= 0.65 ||
		isTitleCase(stripped) ||
		allWordsCapitalized(stripped)
}

// isTitleContinuation decides whether the line extends a multi-line title:
// either mostly uppercase, or at most four capitalized words.
func isTitleContinuation(line string) bool {
	stripped := strings.TrimSpace(line)
	if stripped == "" || len([]rune(stripped)) > maxTitleLen {
		return false
	}
	letters, upperLetters := countLetters(stripped)
	if letters == 0 {
		return false
	}
	if float64(upperLetters)/float64(letters) >= 0.6 {
		return true
	}
	var words []string
	for _, word := range strings.Fields(stripped) {
		if strings.ContainsFunc(word, unicode.IsLetter) {
			words = append(words, word)
		}
	}
	if len(words) > 4 {
		return false
	}
	for _, word := range words {
		first := []rune(word)[0]
		if unicode.IsLetter(first) && !unicode.IsUpper(first) {
			return false
		}
	}
	return true
}

// collectTitleBlock gathers the title line plus any continuation lines and
// returns the joined title along with the index where the body starts.
func collectTitleBlock(lines []string, idx int) (string, int) {
	var parts []string
	current := idx
	for current < len(lines) {
		candidate := strings.TrimSpace(lines[current])
		if candidate == "" {
			break
		}
		if current != idx && !isTitleContinuation(candidate) {
			break
		}
		parts = append(parts, candidate)
		current++
	}
	return strings.Join(parts, " "), current
}

func nextNonEmptyLine(lines []string, idx int) string {
	for pos := idx + 1; pos < len(lines); pos++ {
		if strings.TrimSpace(lines[pos]) != "" {
			return lines[pos]
		}
	}
	return ""
}

func countLetters(s string) (letters, upper int) {
	for _, r := range s {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	return letters, upper
}

// isUpperString reports whether the string has cased letters and none of them
// is lowercase.
func isUpperString(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}

// isTitleCase reports whether every cased run starts uppercase and continues
// lowercase.
func isTitleCase(s string) bool {
	cased := false
	prevCased := false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			if prevCased {
				return false
			}
			prevCased = true
			cased = true
		case unicode.IsLower(r):
			if !prevCased {
				return false
			}
			cased = true
		default:
			prevCased = false
		}
	}
	return cased
}

// allWordsCapitalized reports whether every word starting with a letter
// starts with an uppercase one.
func allWordsCapitalized(s string) bool {
	for _, word := range strings.Fields(s) {
		first := []rune(word)[0]
		if unicode.IsLetter(first) && !unicode.IsUpper(first) {
			return false
		}
	}
	return true
}
