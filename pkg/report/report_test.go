package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dtnitsch/serp-benchmark/models"
	"gopkg.in/yaml.v3"
)

func sampleReport() *Report {
	return &Report{
		GeneratedAt: "2026-01-02T03:04:05Z",
		Results: []models.SiteResult{
			{
				Site:                "https://mysite.ru",
				MeanOccurrences:     11.5,
				MeanWordOccurrences: 2.333333,
				MeanLength:          500,
				TopTerms:            []string{"диван", "угловой", "доставка"},
				Phrases:             []string{"купить диван"},
				PagesAnalyzed:       4,
				PagesUnavailable:    1,
			},
			{Site: "https://empty.ru", TopTerms: []string{}},
		},
		Skipped:     []SkippedRow{{Line: 3, Reason: "missing phrase"}},
		InvalidURLs: []string{"nonsense"},
	}
}

func TestRender_Markdown(t *testing.T) {
	out, err := Render(FormatMarkdown, sampleReport())
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	md := string(out)

	wants := []string{
		"# Content Optimization Recommendations\n",
		"## https://mysite.ru\n",
		"- Mean phrase occurrences: 11.5\n",
		"- Mean word occurrences: 2.33\n",
		"- Mean text length: 500\n",
		"- Pages analyzed: 4 (unavailable: 1)\n",
		"- LSI terms: диван, угловой, доставка\n",
		"## https://empty.ru\n",
		"- Mean phrase occurrences: 0\n",
		"- row 3: missing phrase\n",
		"- `nonsense`\n",
	}
	for _, want := range wants {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}

	if strings.Index(md, "https://mysite.ru") > strings.Index(md, "https://empty.ru") {
		t.Error("sites are not in result order")
	}
}

func TestRender_Structured(t *testing.T) {
	r := sampleReport()

	data, err := Render(FormatJSON, r)
	if err != nil {
		t.Fatalf("Render(json) failed: %v", err)
	}
	var fromJSON Report
	if err := json.Unmarshal(data, &fromJSON); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(fromJSON.Results) != 2 || fromJSON.Results[0].MeanOccurrences != 11.5 {
		t.Errorf("JSON results = %+v", fromJSON.Results)
	}

	data, err = Render(FormatYAML, r)
	if err != nil {
		t.Fatalf("Render(yaml) failed: %v", err)
	}
	var fromYAML Report
	if err := yaml.Unmarshal(data, &fromYAML); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if fromYAML.Results[0].TopTerms[0] != "диван" || fromYAML.Skipped[0].Line != 3 {
		t.Errorf("YAML report = %+v", fromYAML)
	}

	if _, err := Render("docx", r); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "recommendations.md")

	if err := Write(path, FormatMarkdown, sampleReport()); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if !strings.HasPrefix(string(data), "# Content Optimization Recommendations") {
		t.Errorf("unexpected report:\n%s", data)
	}
}

func TestFormatFloat(t *testing.T) {
	tests := map[float64]string{
		0:         "0",
		11.5:      "11.5",
		2.0 / 3.0: "0.67",
		1234:      "1234",
	}
	for in, want := range tests {
		if got := formatFloat(in); got != want {
			t.Errorf("formatFloat(%v) = %q, want %q", in, got, want)
		}
	}
}
