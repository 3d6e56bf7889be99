package rows

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yosuke-furukawa/json5/encoding/json5"
	"gopkg.in/yaml.v3"
)

// Getter downloads a URL; *fetcher.Fetcher satisfies it.
type Getter interface {
	GetHtmlBytes(ctx context.Context, url string) ([]byte, error)
}

// LoadFile reads rows from a .yaml/.yml, .json/.json5, .csv or .tsv file.
func LoadFile(path string) (*Result, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read rows file: %w", err)
	}

	var records []map[string]any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		records, err = decodeYAML(data)
	case ".json", ".json5":
		records, err = decodeJSON(data)
	case ".csv":
		records, err = decodeCSV(bytes.NewReader(data), ',')
	case ".tsv":
		records, err = decodeCSV(bytes.NewReader(data), '\t')
	default:
		return nil, fmt.Errorf("unsupported rows file extension %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return FromRecords(records), nil
}

// FetchCSV downloads a spreadsheet exported as CSV (e.g. a published sheet's
// "output=csv" link) and converts it into rows.
func FetchCSV(ctx context.Context, g Getter, url string) (*Result, error) {
	data, err := g.GetHtmlBytes(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to download rows: %w", err)
	}

	records, err := decodeCSV(bytes.NewReader(data), ',')
	if err != nil {
		return nil, fmt.Errorf("failed to decode rows CSV: %w", err)
	}
	return FromRecords(records), nil
}

func decodeYAML(data []byte) ([]map[string]any, error) {
	var records []map[string]any
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func decodeJSON(data []byte) ([]map[string]any, error) {
	var records []map[string]any
	if err := json5.Unmarshal([]byte(doubleQuote(string(data))), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// decodeCSV treats the first record as the header.
func decodeCSV(r io.Reader, comma rune) ([]map[string]any, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var records []map[string]any
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		rec := make(map[string]any, len(header))
		for i, name := range header {
			if i < len(fields) {
				rec[name] = fields[i]
			}
		}
		records = append(records, rec)
	}
	return records, nil
}
