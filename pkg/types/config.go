package types

import "time"

// HTTPConfig holds shared HTTP settings for components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout applied to each attempt.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "pubmed-client/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ClientConfig holds settings for the PubMed client.
type ClientConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is an NCBI API key. Keyed clients are allowed 10 requests
	// per second instead of 3.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts after a transient
	// failure (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// CacheEnabled turns on in-memory caching of fetched articles.
	CacheEnabled bool `json:"cache_enabled" yaml:"cache_enabled"`

	// CacheTTL is how long cached articles stay fresh (default 1h).
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl"`
}

// LibraryConfig holds settings for the local article collection.
type LibraryConfig struct {
	// LibraryDir is the directory holding the collection database.
	LibraryDir string `json:"library_dir" yaml:"library_dir"`

	// MaxResults is the default maximum number of collection search
	// results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
