// Package rows loads InputRow values from tabular sources: YAML, JSON/JSON5
// and CSV files, or a spreadsheet published as CSV over HTTP.
//
// Raw records are mappings from column name to value. The competitor URL
// column may hold a native list or a serialized list literal; literals are
// decoded by DecodeURLList, never evaluated.
package rows

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dtnitsch/serp-benchmark/internal/common"
	"github.com/dtnitsch/serp-benchmark/models"
	"github.com/yosuke-furukawa/json5/encoding/json5"
)

var (
	ErrMissingSite   = errors.New("missing site")
	ErrMissingPhrase = errors.New("missing phrase")
	ErrBadURLList    = errors.New("malformed competitor URL list")
)

// Accepted column names, compared case-insensitively after trimming.
var (
	siteColumns   = []string{"site", "url site", "url_site"}
	phraseColumns = []string{"phrase", "фраза", "query"}
	urlColumns    = []string{"urls", "competitor_urls", "url serp (по убыванию частоты)", "url serp"}
)

// RowError is a record that could not become an InputRow.
type RowError struct {
	Line int // 1-based record number in the source
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Result is the outcome of loading a source.
type Result struct {
	Rows        []models.InputRow
	Skipped     []*RowError
	InvalidURLs []string // competitor URLs dropped by validation
}

// FromRecords converts raw records into rows. Bad records are skipped and
// reported; they never abort the batch.
func FromRecords(records []map[string]any) *Result {
	res := &Result{}
	for i, rec := range records {
		row, invalid, err := fromRecord(rec)
		res.InvalidURLs = append(res.InvalidURLs, invalid...)
		if err != nil {
			res.Skipped = append(res.Skipped, &RowError{Line: i + 1, Err: err})
			continue
		}
		res.Rows = append(res.Rows, row)
	}
	return res
}

func fromRecord(rec map[string]any) (models.InputRow, []string, error) {
	normalized := make(map[string]any, len(rec))
	for k, v := range rec {
		normalized[strings.ToLower(strings.TrimSpace(k))] = v
	}

	site := strings.TrimSpace(stringValue(lookup(normalized, siteColumns)))
	if site == "" {
		return models.InputRow{}, nil, ErrMissingSite
	}
	phrase := strings.TrimSpace(stringValue(lookup(normalized, phraseColumns)))
	if phrase == "" {
		return models.InputRow{}, nil, ErrMissingPhrase
	}

	urls, err := urlValue(lookup(normalized, urlColumns))
	if err != nil {
		return models.InputRow{}, nil, err
	}
	valid, invalid := common.SanitizeAndValidateURLs(urls)

	return models.InputRow{
		Site:           site,
		Phrase:         phrase,
		CompetitorURLs: valid,
	}, invalid, nil
}

func lookup(rec map[string]any, names []string) any {
	for _, name := range names {
		if v, ok := rec[name]; ok {
			return v
		}
	}
	return nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

func urlValue(v any) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		return DecodeURLList(val)
	case []string:
		return val, nil
	case []any:
		urls := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: element %v is not a string", ErrBadURLList, item)
			}
			urls = append(urls, s)
		}
		return urls, nil
	default:
		return nil, fmt.Errorf("%w: unexpected type %T", ErrBadURLList, v)
	}
}

// DecodeURLList decodes a serialized competitor list. A bracketed value must be
// an array of strings; single-quoted literals are rewritten to double quotes
// and the result is decoded as JSON5. Anything else is split on commas and
// whitespace.
func DecodeURLList(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	if strings.HasPrefix(raw, "[") {
		var urls []string
		if err := json5.Unmarshal([]byte(doubleQuote(raw)), &urls); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadURLList, err)
		}
		return urls, nil
	}

	return strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\n' || r == '\r' || r == '\t'
	}), nil
}
