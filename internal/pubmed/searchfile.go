// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pubmed-client/pkg/types"
)

// SearchFile is the on-disk form of a search and its results. A search
// can be saved once and its ids fetched later without re-querying.
type SearchFile struct {
	Query   string             `yaml:"query"`
	Options SearchFileOptions  `yaml:"options"`
	Result  types.SearchResult `yaml:"result"`
	Summary SearchFileSummary  `yaml:"summary"`
}

// SearchFileOptions stores the search options in a serializable form.
type SearchFileOptions struct {
	MaxResults int    `yaml:"max_results"`
	MinDate    string `yaml:"min_date,omitempty"`
	MaxDate    string `yaml:"max_date,omitempty"`
}

// SearchFileSummary stores result statistics and a timestamp.
type SearchFileSummary struct {
	Returned  int       `yaml:"returned"`
	Total     int       `yaml:"total"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteSearchFile saves a query, its options, and its result to a YAML
// file at path.
func WriteSearchFile(path, query string, opts SearchOptions, result *types.SearchResult) error {
	sf := SearchFile{
		Query: query,
		Options: SearchFileOptions{
			MaxResults: opts.MaxResults,
			MinDate:    opts.MinDate,
			MaxDate:    opts.MaxDate,
		},
		Result: *result,
		Summary: SearchFileSummary{
			Returned:  len(result.IDs),
			Total:     result.Count,
			Timestamp: time.Now(),
		},
	}

	data, err := yaml.Marshal(&sf)
	if err != nil {
		return fmt.Errorf("marshaling search file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadSearchFile loads a previously saved search from disk.
func ReadSearchFile(path string) (*SearchFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading search file: %w", err)
	}
	var sf SearchFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parsing search file: %w", err)
	}
	return &sf, nil
}
