// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/pubmed-client/pkg/types"
)

// QueryOptions narrows a library search. Every set filter must match.
type QueryOptions struct {
	// Query is an FTS5 full-text search over titles, abstracts, and
	// keywords.
	Query string

	// Author matches a substring of any author name.
	Author string

	// Journal matches the journal title exactly.
	Journal string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether no search terms or filters are set.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Author == "" && q.Journal == ""
}

// Search queries the library. Full-text queries are ranked by relevance;
// filter-only queries return the most recently saved articles first.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]types.Article, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(`SELECT ` + articleColumns + `
			FROM articles_fts
			JOIN articles a ON a.rowid = articles_fts.rowid
			WHERE articles_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(`SELECT ` + articleColumns + ` FROM articles a WHERE 1=1`)
	}

	if opts.Journal != "" {
		qb.WriteString(` AND a.journal = ?`)
		args = append(args, opts.Journal)
	}

	if opts.Author != "" {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM json_each(a.authors) WHERE value LIKE ?)`)
		args = append(args, "%"+opts.Author+"%")
	}

	if useFTS {
		qb.WriteString(` ORDER BY articles_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY a.saved_at DESC, a.pmid`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying library: %w", err)
	}
	defer rows.Close()

	var articles []types.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}
