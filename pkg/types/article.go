// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the pubmed-client library.
package types

// articleURLPrefix is the public article page prefix from which URLs are derived.
const articleURLPrefix = "https://pubmed.ncbi.nlm.nih.gov/"

// Article holds the metadata extracted from one PubMed record. String
// fields are empty when the record omits them; list fields keep document
// order; dates are nil when the record carries no usable year.
type Article struct {
	// PMID is the PubMed identifier assigned by NCBI.
	PMID string `json:"pmid" yaml:"pmid"`

	// Title is the article title.
	Title string `json:"title" yaml:"title"`

	// Abstract is the abstract text, segments joined with single spaces.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Authors lists author names as "<fore name> <last name>" in document order.
	Authors []string `json:"authors" yaml:"authors"`

	// Journal is the journal title.
	Journal string `json:"journal" yaml:"journal"`

	// MeshTerms lists MeSH descriptor names in document order.
	MeshTerms []string `json:"mesh_terms" yaml:"mesh_terms"`

	// Keywords lists author-supplied keywords in document order.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// DOI is the digital object identifier, empty when the record has none.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// PublicationDate is the electronic availability date.
	PublicationDate *Date `json:"publication_date,omitempty" yaml:"publication_date,omitempty"`

	// JournalDate is the journal issue date.
	JournalDate *Date `json:"journal_date,omitempty" yaml:"journal_date,omitempty"`
}

// URL returns the public article page derived from the PMID. It is always
// computed, never stored.
func (a *Article) URL() string {
	return articleURLPrefix + a.PMID + "/"
}
