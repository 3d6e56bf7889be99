package analytics

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// NormalizePhrase lowercases a phrase and collapses its internal whitespace.
func NormalizePhrase(phrase string) string {
	return strings.Join(strings.Fields(strings.ToLower(phrase)), " ")
}

// PhraseOccurrences counts whole-word matches of each distinct phrase in text.
// Text is expected to be lowercased already; phrases are normalized here.
// Empty phrases are ignored.
func PhraseOccurrences(text string, phrases []string) map[string]int {
	counts := make(map[string]int, len(phrases))
	for _, phrase := range phrases {
		p := NormalizePhrase(phrase)
		if p == "" {
			continue
		}
		if _, seen := counts[p]; seen {
			continue
		}
		counts[p] = CountWholeWord(text, p)
	}
	return counts
}

// TotalPhraseOccurrences sums PhraseOccurrences over all phrases.
func TotalPhraseOccurrences(text string, phrases []string) int {
	total := 0
	for _, n := range PhraseOccurrences(text, phrases) {
		total += n
	}
	return total
}

// PhraseWords splits every phrase into its words and returns the distinct
// words sorted.
func PhraseWords(phrases []string) []string {
	set := make(map[string]struct{})
	for _, phrase := range phrases {
		for _, w := range strings.Fields(strings.ToLower(phrase)) {
			set[w] = struct{}{}
		}
	}

	words := make([]string, 0, len(set))
	for w := range set {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// WordOccurrences sums whole-word matches of every distinct phrase word in text.
func WordOccurrences(text string, phrases []string) int {
	total := 0
	for _, w := range PhraseWords(phrases) {
		total += CountWholeWord(text, w)
	}
	return total
}

// CountWholeWord counts non-overlapping occurrences of term in text that are
// neither preceded nor followed by a word character.
func CountWholeWord(text, term string) int {
	if term == "" || len(term) > len(text) {
		return 0
	}

	count := 0
	i := 0
	for i <= len(text)-len(term) {
		j := strings.Index(text[i:], term)
		if j < 0 {
			break
		}
		start := i + j
		end := start + len(term)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			count++
			i = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		i = start + size
	}
	return count
}

func boundaryBefore(text string, pos int) bool {
	if pos == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:pos])
	return !isWordRune(r)
}

func boundaryAfter(text string, pos int) bool {
	if pos >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[pos:])
	return !isWordRune(r)
}

// isWordRune matches the Unicode \w class.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == '_'
}
