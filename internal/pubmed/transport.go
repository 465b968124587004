// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"
)

// eutilsBase is the E-utilities endpoint root. Declared as a var so tests
// can substitute an httptest server.
var eutilsBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

// retryBaseDelay controls the base duration for exponential backoff
// between retry attempts. Tests override this to avoid real sleeps.
var retryBaseDelay = 1 * time.Second

const (
	defaultMaxRetries = 3

	// toolName identifies this client to NCBI on every request.
	toolName = "pubmed-client"

	esearchEndpoint = "esearch.fcgi"
	efetchEndpoint  = "efetch.fcgi"
)

// getWithRetry performs a GET against the named E-utilities endpoint,
// waiting on the rate limiter before every physical attempt. Connection
// failures, timeouts, HTTP 5xx, and HTTP 429 are retried with exponential
// backoff (retryBaseDelay doubling per attempt); any other non-2xx status
// fails immediately. Failed response bodies are drained and closed before
// sleeping; a context cancelled during backoff aborts with ctx.Err().
// On success the caller owns the response body.
func (c *Client) getWithRetry(ctx context.Context, endpoint string, params url.Values) (*http.Response, error) {
	params.Set("db", "pubmed")
	params.Set("tool", toolName)
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, eutilsBase+"/"+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating %s request: %w", endpoint, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	var lastErr error
	for attempt := 0; ; attempt++ {
		c.limiter.wait()

		resp, err := c.httpClient.Do(req.Clone(ctx))
		switch {
		case err != nil:
			// Connection failures and timeouts are transient.
			lastErr = err
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return resp, nil
		case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
			lastErr = fmt.Errorf("HTTP %d from %s", resp.StatusCode, endpoint)
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		default:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil, &APIError{Message: fmt.Sprintf("%s returned HTTP %d", endpoint, resp.StatusCode)}
		}

		if attempt >= c.maxRetries {
			return nil, &APIError{
				Message: fmt.Sprintf("%s failed after %d attempts", endpoint, attempt+1),
				Err:     lastErr,
			}
		}

		backoff := time.Duration(math.Pow(2, float64(attempt))) * retryBaseDelay
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}
