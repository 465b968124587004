// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/pdiddy/pubmed-client/pkg/types"
)

// csvColumns is the fixed header row. Readers key on these names, so a
// reordered file still parses.
var csvColumns = []string{
	"pmid", "title", "authors", "journal", "publication_date",
	"journal_date", "abstract", "doi", "url", "mesh_terms", "keywords",
}

const (
	// listSeparator joins multi-valued fields inside one CSV cell.
	listSeparator = "; "

	// utf8BOM prefixes CSV output so Excel detects UTF-8 content.
	utf8BOM = "\uFEFF"
)

// ToCSV renders articles as CSV with a BOM prefix and CRLF line endings.
func ToCSV(articles []types.Article) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(utf8BOM)

	w := csv.NewWriter(&buf)
	w.UseCRLF = true
	if err := w.Write(csvColumns); err != nil {
		return nil, fmt.Errorf("writing CSV header: %w", err)
	}
	for _, a := range articles {
		if err := w.Write(csvRecord(a)); err != nil {
			return nil, fmt.Errorf("writing article %s: %w", a.PMID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveCSV writes articles as CSV to the file at path.
func SaveCSV(articles []types.Article, path string) error {
	data, err := ToCSV(articles)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// FromCSV parses CSV produced by ToCSV back into articles. A leading BOM
// is stripped; column order follows the header row, not csvColumns.
func FromCSV(data []byte) ([]types.Article, error) {
	text := strings.TrimPrefix(string(data), utf8BOM)
	r := csv.NewReader(strings.NewReader(text))
	// Hand-edited files may have ragged rows; missing cells read as empty.
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}
	if len(rows) == 0 {
		return []types.Article{}, nil
	}

	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		index[strings.TrimSpace(name)] = i
	}
	field := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	articles := make([]types.Article, 0, len(rows)-1)
	for n, row := range rows[1:] {
		a := types.Article{
			PMID:      field(row, "pmid"),
			Title:     field(row, "title"),
			Authors:   splitList(field(row, "authors")),
			Journal:   field(row, "journal"),
			Abstract:  field(row, "abstract"),
			DOI:       field(row, "doi"),
			MeshTerms: splitList(field(row, "mesh_terms")),
			Keywords:  splitList(field(row, "keywords")),
		}
		if a.PublicationDate, err = parseDateField(field(row, "publication_date")); err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		if a.JournalDate, err = parseDateField(field(row, "journal_date")); err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		articles = append(articles, a)
	}
	return articles, nil
}

// ReadCSV loads articles from the CSV file at path.
func ReadCSV(path string) ([]types.Article, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return FromCSV(data)
}

func csvRecord(a types.Article) []string {
	return []string{
		a.PMID,
		a.Title,
		strings.Join(a.Authors, listSeparator),
		a.Journal,
		dateString(a.PublicationDate),
		dateString(a.JournalDate),
		a.Abstract,
		a.DOI,
		a.URL(),
		strings.Join(a.MeshTerms, listSeparator),
		strings.Join(a.Keywords, listSeparator),
	}
}

func dateString(d *types.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

// parseDateField reads a YYYY-MM-DD cell; an empty cell is an absent date.
func parseDateField(s string) (*types.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	return types.ParseDate(s)
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, listSeparator)
}
