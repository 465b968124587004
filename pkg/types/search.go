// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SearchResult holds the outcome of a PubMed search: the matching record
// identifiers in server order, and the total match count, which exceeds
// len(IDs) when the server truncated the list at the requested maximum.
type SearchResult struct {
	// IDs lists the returned PMIDs in server order.
	IDs []string `json:"ids" yaml:"ids"`

	// Count is the total number of matching records reported by the server.
	Count int `json:"count" yaml:"count"`
}
