// Package report renders site results for the people acting on them.
package report

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dtnitsch/serp-benchmark/models"
	"gopkg.in/yaml.v3"
)

const (
	FormatMarkdown = "markdown"
	FormatYAML     = "yaml"
	FormatJSON     = "json"
)

const title = "Content Optimization Recommendations"

// Report is everything a run produced.
type Report struct {
	GeneratedAt string              `json:"generated_at" yaml:"generated_at"`
	Source      string              `json:"source,omitempty" yaml:"source,omitempty"`
	Language    string              `json:"language,omitempty" yaml:"language,omitempty"`
	Results     []models.SiteResult `json:"results" yaml:"results"`
	Skipped     []SkippedRow        `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	InvalidURLs []string            `json:"invalid_urls,omitempty" yaml:"invalid_urls,omitempty"`
}

// SkippedRow is an input row that never reached the engine.
type SkippedRow struct {
	Line   int    `json:"line" yaml:"line"`
	Reason string `json:"reason" yaml:"reason"`
}

// New stamps a report with the current time.
func New(results []models.SiteResult) *Report {
	return &Report{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Results:     results,
	}
}

// Render encodes the report in the given format.
func Render(format string, r *Report) ([]byte, error) {
	switch format {
	case FormatMarkdown, "":
		return []byte(markdown(r)), nil
	case FormatYAML:
		data, err := yaml.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("error marshalling report: %w", err)
		}
		return data, nil
	case FormatJSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("error marshalling report: %w", err)
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}
}

// Write renders the report and saves it to path, creating parent directories.
func Write(path, format string, r *Report) error {
	data, err := Render(format, r)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error saving report: %w", err)
	}
	return nil
}

func markdown(r *Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", title)
	if r.GeneratedAt != "" {
		fmt.Fprintf(&b, "_Generated %s_\n\n", r.GeneratedAt)
	}

	for _, res := range r.Results {
		fmt.Fprintf(&b, "## %s\n\n", res.Site)
		if len(res.Phrases) > 0 {
			fmt.Fprintf(&b, "- Phrases: %s\n", strings.Join(res.Phrases, ", "))
		}
		fmt.Fprintf(&b, "- Mean phrase occurrences: %s\n", formatFloat(res.MeanOccurrences))
		fmt.Fprintf(&b, "- Mean word occurrences: %s\n", formatFloat(res.MeanWordOccurrences))
		fmt.Fprintf(&b, "- Mean text length: %s\n", formatFloat(res.MeanLength))
		fmt.Fprintf(&b, "- Pages analyzed: %d (unavailable: %d)\n", res.PagesAnalyzed, res.PagesUnavailable)
		fmt.Fprintf(&b, "- LSI terms: %s\n\n", strings.Join(res.TopTerms, ", "))
	}

	if len(r.Skipped) > 0 {
		b.WriteString("## Skipped rows\n\n")
		for _, s := range r.Skipped {
			fmt.Fprintf(&b, "- row %d: %s\n", s.Line, s.Reason)
		}
		b.WriteString("\n")
	}
	if len(r.InvalidURLs) > 0 {
		b.WriteString("## Invalid competitor URLs\n\n")
		for _, u := range r.InvalidURLs {
			fmt.Fprintf(&b, "- `%s`\n", u)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// formatFloat rounds to two decimals and drops trailing zeros.
func formatFloat(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
