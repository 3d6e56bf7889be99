package analytics

import (
	"fmt"
	"unicode"

	"github.com/clipperhouse/uax29/v2/words"
	"github.com/pemistahl/lingua-go"
)

// Working languages.
const (
	Russian = "russian"
	English = "english"
	Auto    = "auto"
)

// Analytics tokenizes page text and drops stopwords for the working language.
// It is immutable after New and safe for concurrent use.
type Analytics struct {
	language string
	detector lingua.LanguageDetector // only set for Auto
}

// New builds an Analytics for a working language. For Auto the lingua
// detector is built here, once, and shared by every page.
func New(language string) (*Analytics, error) {
	a := &Analytics{language: language}
	switch language {
	case Russian, English:
	case Auto:
		a.detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(lingua.Russian, lingua.English).
			Build()
	default:
		return nil, fmt.Errorf("unsupported language: %s", language)
	}
	return a, nil
}

// Language returns the configured working language.
func (a *Analytics) Language() string {
	return a.language
}

// DetectLanguage resolves the stopword language for text.
func (a *Analytics) DetectLanguage(text string) string {
	if a.detector == nil {
		return a.language
	}
	lang, ok := a.detector.DetectLanguageOf(text)
	if !ok {
		return Russian
	}
	if lang == lingua.English {
		return English
	}
	return Russian
}

// Terms splits text into Unicode words and drops stopwords, keeping document
// order and repeats. The detected language is returned alongside.
func (a *Analytics) Terms(text string) ([]string, string) {
	lang := a.DetectLanguage(text)
	stop := stopwordsFor(lang)

	var terms []string
	for _, tok := range Tokenize(text) {
		if _, exists := stop[tok]; exists {
			continue
		}
		terms = append(terms, tok)
	}
	return terms, lang
}

// Tokenize returns the word segments of text (UAX #29), skipping whitespace
// and punctuation segments.
func Tokenize(text string) []string {
	var tokens []string
	segments := words.FromString(text)
	for segments.Next() {
		tok := segments.Value()
		if isWordToken(tok) {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

func isWordToken(tok string) bool {
	for _, r := range tok {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
