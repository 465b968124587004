// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library persists fetched articles in a local SQLite database
// with a full-text index over titles, abstracts, and keywords.
package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pubmed-client/pkg/types"
)

const dbFile = "library.db"

// Store manages the article library SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the library database at
// cfg.LibraryDir/library.db, creating the schema if it does not exist.
func NewStore(cfg types.LibraryConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.LibraryDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating library directory: %w", err)
	}

	dbPath := filepath.Join(cfg.LibraryDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS articles (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			pmid TEXT NOT NULL UNIQUE,
			title TEXT,
			abstract TEXT,
			authors TEXT,
			journal TEXT,
			mesh_terms TEXT,
			keywords TEXT,
			doi TEXT,
			publication_date TEXT,
			journal_date TEXT,
			saved_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_journal ON articles(journal)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='articles_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE articles_fts USING fts5(title, abstract, keywords, content=articles, content_rowid=rowid)`,
			`CREATE TRIGGER articles_ai AFTER INSERT ON articles BEGIN
				INSERT INTO articles_fts(rowid, title, abstract, keywords)
				VALUES (new.rowid, new.title, new.abstract, new.keywords);
			END`,
			`CREATE TRIGGER articles_ad AFTER DELETE ON articles BEGIN
				INSERT INTO articles_fts(articles_fts, rowid, title, abstract, keywords)
				VALUES('delete', old.rowid, old.title, old.abstract, old.keywords);
			END`,
			`CREATE TRIGGER articles_au AFTER UPDATE ON articles BEGIN
				INSERT INTO articles_fts(articles_fts, rowid, title, abstract, keywords)
				VALUES('delete', old.rowid, old.title, old.abstract, old.keywords);
				INSERT INTO articles_fts(rowid, title, abstract, keywords)
				VALUES (new.rowid, new.title, new.abstract, new.keywords);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// Save upserts articles into the library in one transaction and returns
// the number stored. Saving an already-stored PMID replaces its record.
func (s *Store) Save(ctx context.Context, articles []types.Article) (int, error) {
	if len(articles) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO articles (pmid, title, abstract, authors, journal, mesh_terms, keywords, doi, publication_date, journal_date, saved_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(pmid) DO UPDATE SET
			title=excluded.title, abstract=excluded.abstract, authors=excluded.authors,
			journal=excluded.journal, mesh_terms=excluded.mesh_terms, keywords=excluded.keywords,
			doi=excluded.doi, publication_date=excluded.publication_date,
			journal_date=excluded.journal_date, saved_at=excluded.saved_at`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	savedAt := time.Now().UTC().Format(time.RFC3339)
	for _, a := range articles {
		authorsJSON, _ := json.Marshal(a.Authors)
		meshJSON, _ := json.Marshal(a.MeshTerms)
		keywordsJSON, _ := json.Marshal(a.Keywords)
		_, err := stmt.ExecContext(ctx,
			a.PMID, a.Title, a.Abstract, string(authorsJSON), a.Journal,
			string(meshJSON), string(keywordsJSON), a.DOI,
			dateText(a.PublicationDate), dateText(a.JournalDate), savedAt,
		)
		if err != nil {
			return 0, fmt.Errorf("saving article %s: %w", a.PMID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}
	return len(articles), nil
}

// Get returns the stored article with the given PMID.
func (s *Store) Get(ctx context.Context, pmid string) (*types.Article, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles a WHERE a.pmid = ?`, pmid)

	a, err := scanArticle(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("article %s not found", pmid)
		}
		return nil, fmt.Errorf("loading article %s: %w", pmid, err)
	}
	return &a, nil
}

// List returns every stored article, most recently saved first.
func (s *Store) List(ctx context.Context) ([]types.Article, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+articleColumns+` FROM articles a ORDER BY a.saved_at DESC, a.pmid`)
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
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

// Remove deletes the article with the given PMID, reporting whether it
// was present.
func (s *Store) Remove(ctx context.Context, pmid string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE pmid = ?`, pmid)
	if err != nil {
		return false, fmt.Errorf("removing article %s: %w", pmid, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

const articleColumns = `a.pmid, a.title, a.abstract, a.authors, a.journal, a.mesh_terms, a.keywords, a.doi, a.publication_date, a.journal_date`

type scanner interface {
	Scan(dest ...any) error
}

func scanArticle(sc scanner) (types.Article, error) {
	var (
		a        types.Article
		authors  sql.NullString
		mesh     sql.NullString
		keywords sql.NullString
		pubDate  sql.NullString
		jrnDate  sql.NullString
	)
	if err := sc.Scan(
		&a.PMID, &a.Title, &a.Abstract, &authors, &a.Journal,
		&mesh, &keywords, &a.DOI, &pubDate, &jrnDate,
	); err != nil {
		return types.Article{}, err
	}

	if authors.Valid {
		json.Unmarshal([]byte(authors.String), &a.Authors)
	}
	if mesh.Valid {
		json.Unmarshal([]byte(mesh.String), &a.MeshTerms)
	}
	if keywords.Valid {
		json.Unmarshal([]byte(keywords.String), &a.Keywords)
	}

	var err error
	if a.PublicationDate, err = parseStoredDate(pubDate.String); err != nil {
		return types.Article{}, err
	}
	if a.JournalDate, err = parseStoredDate(jrnDate.String); err != nil {
		return types.Article{}, err
	}
	return a, nil
}

func dateText(d *types.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func parseStoredDate(s string) (*types.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := types.ParseDate(s)
	if err != nil {
		return nil, fmt.Errorf("stored date: %w", err)
	}
	return d, nil
}
