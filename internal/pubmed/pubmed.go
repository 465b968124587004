// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed provides a client for the NCBI PubMed E-utilities API:
// free-text search over the PubMed database and batched metadata retrieval
// by PMID, with per-client rate limiting, retry with exponential backoff,
// and optional in-memory caching of fetched records.
package pubmed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/pubmed-client/pkg/types"
)

// DefaultMaxResults is the search result limit for callers that have no
// preference of their own.
const DefaultMaxResults = 20

const (
	defaultTimeout   = 30 * time.Second
	defaultCacheTTL  = time.Hour
	defaultUserAgent = "pubmed-client/0.1"
)

// dateParam matches the strict YYYY/MM/DD form E-utilities expects for
// mindate/maxdate.
var dateParam = regexp.MustCompile(`^\d{4}/\d{2}/\d{2}$`)

// Client talks to the PubMed E-utilities API. It runs one logical
// operation at a time; concurrent use is safe, with requests serialized
// by the rate limiter.
type Client struct {
	httpClient *http.Client
	apiKey     string
	userAgent  string
	maxRetries int
	limiter    *rateLimiter
	cache      *resultCache
}

// New builds a Client from cfg, applying defaults for unset fields.
// Clients with an API key are rate limited at 10 requests per second,
// anonymous clients at 3.
func New(cfg types.ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	rate := defaultRequestsPerSecond
	if cfg.APIKey != "" {
		rate = keyedRequestsPerSecond
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		apiKey:     cfg.APIKey,
		userAgent:  userAgent,
		maxRetries: maxRetries,
		limiter:    newRateLimiter(rate),
		cache:      newResultCache(cfg.CacheEnabled, ttl),
	}
}

// SearchOptions narrows a search. MaxResults must be positive; MinDate
// and MaxDate, when set, must be formatted YYYY/MM/DD and select on the
// publication date.
type SearchOptions struct {
	MaxResults int
	MinDate    string
	MaxDate    string
}

// Search runs an esearch query and returns the matching PMIDs together
// with the total match count.
func (c *Client) Search(ctx context.Context, query string, opts SearchOptions) (*types.SearchResult, error) {
	if opts.MaxResults <= 0 {
		return nil, &InvalidArgumentError{Message: fmt.Sprintf("max results must be positive, got %d", opts.MaxResults)}
	}
	for _, d := range []string{opts.MinDate, opts.MaxDate} {
		if d != "" && !dateParam.MatchString(d) {
			return nil, &InvalidArgumentError{Message: fmt.Sprintf("date %q must be formatted YYYY/MM/DD", d)}
		}
	}

	params := url.Values{}
	params.Set("term", query)
	params.Set("retmax", strconv.Itoa(opts.MaxResults))
	params.Set("retmode", "json")
	if opts.MinDate != "" || opts.MaxDate != "" {
		params.Set("datetype", "pdat")
		if opts.MinDate != "" {
			params.Set("mindate", opts.MinDate)
		}
		if opts.MaxDate != "" {
			params.Set("maxdate", opts.MaxDate)
		}
	}

	resp, err := c.getWithRetry(ctx, esearchEndpoint, params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Result struct {
			IDList []string        `json:"idlist"`
			Count  json.RawMessage `json:"count"`
		} `json:"esearchresult"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &ParseError{Message: "decoding esearch response", Err: err}
	}

	return &types.SearchResult{
		IDs:   payload.Result.IDList,
		Count: parseCount(payload.Result.Count),
	}, nil
}

// parseCount reads the esearch count field, which the server returns as a
// quoted number. Absent or non-numeric counts become 0.
func parseCount(raw json.RawMessage) int {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// Fetch retrieves article metadata for the given PMIDs. Results follow
// the caller's id order; ids the server does not return are omitted.
// Requests go out sequentially in chunks of at most 200 ids, and any
// chunk failure fails the whole call.
func (c *Client) Fetch(ctx context.Context, ids []string) ([]types.Article, error) {
	if len(ids) == 0 {
		return nil, &InvalidArgumentError{Message: "at least one PMID is required"}
	}

	fetched, missing := c.cache.lookup(ids)
	if fetched == nil {
		fetched = make(map[string]types.Article)
	}

	for _, chunk := range chunkIDs(missing, maxIDsPerRequest) {
		articles, err := c.fetchChunk(ctx, chunk)
		if err != nil {
			return nil, err
		}
		c.cache.store(articles)
		for _, a := range articles {
			fetched[a.PMID] = a
		}
	}

	result := make([]types.Article, 0, len(ids))
	for _, id := range ids {
		if a, ok := fetched[id]; ok {
			result = append(result, a)
		}
	}
	return result, nil
}

// fetchChunk retrieves and parses one efetch request.
func (c *Client) fetchChunk(ctx context.Context, ids []string) ([]types.Article, error) {
	params := url.Values{}
	params.Set("id", strings.Join(ids, ","))
	params.Set("retmode", "xml")

	resp, err := c.getWithRetry(ctx, efetchEndpoint, params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading efetch response: %w", err)
	}
	return parseArticles(data)
}

// SearchAndFetch searches and then fetches the matching articles in one
// call. A search with no matches returns an empty slice without issuing
// a fetch request.
func (c *Client) SearchAndFetch(ctx context.Context, query string, opts SearchOptions) ([]types.Article, error) {
	result, err := c.Search(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	if len(result.IDs) == 0 {
		return []types.Article{}, nil
	}
	return c.Fetch(ctx, result.IDs)
}

// ClearCache drops every cached article.
func (c *Client) ClearCache() {
	c.cache.clear()
}
