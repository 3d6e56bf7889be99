package models

import "strings"

// InputRow is one (site, phrase) pairing with the competitor pages ranking for it.
// CompetitorURLs is ordered by descending ranking frequency; the order is informational.
type InputRow struct {
	Site           string   `json:"site" yaml:"site"`
	Phrase         string   `json:"phrase" yaml:"phrase"`
	CompetitorURLs []string `json:"competitor_urls" yaml:"competitor_urls"`
}

// PageText holds the three lowercased text zones of a fetched page.
type PageText struct {
	Title   string
	Heading string
	Body    string
}

// Combined joins title, heading and body with single spaces.
func (p PageText) Combined() string {
	return strings.Join([]string{p.Title, p.Heading, p.Body}, " ")
}

// PageObservation records what was measured on one competitor page.
type PageObservation struct {
	URL             string `json:"url" yaml:"url"`
	Available       bool   `json:"available" yaml:"available"`
	Occurrences     int    `json:"occurrences,omitempty" yaml:"occurrences,omitempty"`
	WordOccurrences int    `json:"word_occurrences,omitempty" yaml:"word_occurrences,omitempty"`
	BodyLength      int    `json:"body_length,omitempty" yaml:"body_length,omitempty"`
	Title           string `json:"title,omitempty" yaml:"title,omitempty"`
	SiteName        string `json:"site_name,omitempty" yaml:"site_name,omitempty"`
	Language        string `json:"language,omitempty" yaml:"language,omitempty"`
}

// SiteResult is the outlier-resistant summary of a site's competitor set.
type SiteResult struct {
	Site                string   `json:"site" yaml:"site"`
	MeanOccurrences     float64  `json:"mean_occurrences" yaml:"mean_occurrences"`
	MeanWordOccurrences float64  `json:"mean_word_occurrences" yaml:"mean_word_occurrences"`
	MeanLength          float64  `json:"mean_length" yaml:"mean_length"`
	TopTerms            []string `json:"top_terms" yaml:"top_terms"`

	Phrases          []string          `json:"phrases" yaml:"phrases"`
	PagesAnalyzed    int               `json:"pages_analyzed" yaml:"pages_analyzed"`
	PagesUnavailable int               `json:"pages_unavailable" yaml:"pages_unavailable"`
	Pages            []PageObservation `json:"pages,omitempty" yaml:"pages,omitempty"`
}
