// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export converts article collections to and from JSON and CSV.
// Both formats are lossless for every Article field; the article URL is
// included for readers but recomputed from the PMID on the way back in.
package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pdiddy/pubmed-client/pkg/types"
)

// articleJSON is the serialized form of one article. Every key is always
// present; absent dates and DOIs serialize as null, absent lists as [].
type articleJSON struct {
	PMID            string      `json:"pmid"`
	Title           string      `json:"title"`
	Authors         []string    `json:"authors"`
	Journal         string      `json:"journal"`
	PublicationDate *types.Date `json:"publication_date"`
	JournalDate     *types.Date `json:"journal_date"`
	Abstract        string      `json:"abstract"`
	DOI             *string     `json:"doi"`
	URL             string      `json:"url"`
	MeshTerms       []string    `json:"mesh_terms"`
	Keywords        []string    `json:"keywords"`
}

func toWire(a types.Article) articleJSON {
	w := articleJSON{
		PMID:            a.PMID,
		Title:           a.Title,
		Authors:         emptyIfNil(a.Authors),
		Journal:         a.Journal,
		PublicationDate: a.PublicationDate,
		JournalDate:     a.JournalDate,
		Abstract:        a.Abstract,
		URL:             a.URL(),
		MeshTerms:       emptyIfNil(a.MeshTerms),
		Keywords:        emptyIfNil(a.Keywords),
	}
	if a.DOI != "" {
		doi := a.DOI
		w.DOI = &doi
	}
	return w
}

func fromWire(w articleJSON) types.Article {
	a := types.Article{
		PMID:            w.PMID,
		Title:           w.Title,
		Authors:         nilIfEmpty(w.Authors),
		Journal:         w.Journal,
		PublicationDate: w.PublicationDate,
		JournalDate:     w.JournalDate,
		Abstract:        w.Abstract,
		MeshTerms:       nilIfEmpty(w.MeshTerms),
		Keywords:        nilIfEmpty(w.Keywords),
	}
	if w.DOI != nil {
		a.DOI = *w.DOI
	}
	return a
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

// ToJSON renders articles as a compact JSON array.
func ToJSON(articles []types.Article) ([]byte, error) {
	wire := make([]articleJSON, 0, len(articles))
	for _, a := range articles {
		wire = append(wire, toWire(a))
	}
	data, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("marshaling articles: %w", err)
	}
	return data, nil
}

// SaveJSON writes articles as JSON to the file at path.
func SaveJSON(articles []types.Article, path string) error {
	data, err := ToJSON(articles)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// FromJSON parses a JSON array produced by ToJSON back into articles.
func FromJSON(data []byte) ([]types.Article, error) {
	var wire []articleJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("parsing articles JSON: %w", err)
	}
	articles := make([]types.Article, 0, len(wire))
	for _, w := range wire {
		articles = append(articles, fromWire(w))
	}
	return articles, nil
}

// ReadJSON loads articles from the JSON file at path.
func ReadJSON(path string) ([]types.Article, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return FromJSON(data)
}
