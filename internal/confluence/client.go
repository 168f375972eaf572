// Package confluence implements the Confluence Cloud REST API client: basic
// auth, transparent retries for transient failures, offset pagination, and
// typed error mapping for every non-2xx response.
package confluence

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/grandcamel/confluence-skills/internal/cache"
	"github.com/grandcamel/confluence-skills/internal/config"
	"github.com/grandcamel/confluence-skills/internal/errors"
	"github.com/grandcamel/confluence-skills/internal/logging"
)

// Client talks to a single Confluence Cloud site.
type Client struct {
	httpClient *http.Client
	baseURL    string // https://<site>.atlassian.net, no trailing slash
	email      string
	apiToken   string
	retries    int
	backoff    float64
	logger     *logging.Logger
	cache      *cache.Cache // nil disables response caching
}

// NewClient creates a client from validated site configuration. The cache is
// optional; pass nil to disable response caching.
func NewClient(site *config.SiteConfig, logger *logging.Logger, responseCache *cache.Cache) *Client {
	transport := http.DefaultTransport
	if !site.GetVerifySSL() {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   site.GetTimeout(),
			Transport: transport,
		},
		baseURL:  strings.TrimRight(site.SiteURL, "/"),
		email:    site.Email,
		apiToken: site.APIToken,
		retries:  site.GetRetries(),
		backoff:  site.GetBackoff(),
		logger:   logger,
		cache:    responseCache,
	}
}

// Get issues a GET and returns the response body. path is relative to the
// site root (e.g. "/wiki/rest/api/content/123").
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

// GetCached issues a GET through the response cache. On a hit the request is
// skipped entirely; on a miss the response body is stored under key in the
// given category with the cache's default TTL.
func (c *Client) GetCached(ctx context.Context, key, category, path string, query url.Values) ([]byte, error) {
	if c.cache != nil {
		if body, ok, err := c.cache.Get(key); err == nil && ok {
			c.logger.Debug("cache hit", logging.String("key", key))
			return body, nil
		}
	}
	body, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		if err := c.cache.Set(key, category, body, 0); err != nil {
			c.logger.Warn("cache write failed", logging.Error(err))
		}
	}
	return body, nil
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, nil, body)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) ([]byte, error) {
	return c.do(ctx, http.MethodPut, path, nil, body)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil)
	return err
}

// paginated matches the envelope of v1 list endpoints.
type paginated struct {
	Results []json.RawMessage `json:"results"`
	Size    int               `json:"size"`
	Limit   int               `json:"limit"`
	Start   int               `json:"start"`
	Links   struct {
		Next string `json:"next"`
	} `json:"_links"`
}

// GetAll walks a paginated v1 endpoint and returns the concatenated results.
// maxResults <= 0 means no limit. Pagination follows the start/limit offsets
// the v1 API reports; the loop stops when a page comes back short.
func (c *Client) GetAll(ctx context.Context, path string, query url.Values, maxResults int) ([]json.RawMessage, error) {
	if query == nil {
		query = url.Values{}
	}
	if query.Get("limit") == "" {
		query.Set("limit", "50")
	}

	var all []json.RawMessage
	start := 0
	for {
		query.Set("start", fmt.Sprintf("%d", start))
		body, err := c.do(ctx, http.MethodGet, path, query, nil)
		if err != nil {
			return nil, err
		}

		var page paginated
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("failed to decode paginated response: %w", err)
		}
		all = append(all, page.Results...)

		if maxResults > 0 && len(all) >= maxResults {
			return all[:maxResults], nil
		}
		if len(page.Results) == 0 || (page.Limit > 0 && len(page.Results) < page.Limit) || page.Links.Next == "" {
			return all, nil
		}
		start += len(page.Results)
	}
}

// do runs one logical request with retries. Rate limits honor the server's
// Retry-After; other transient failures back off exponentially.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}) ([]byte, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var lastErr error
	attempts := c.retries + 1
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			wait := c.waitFor(lastErr, attempt)
			c.logger.Debug("retrying request",
				logging.String("method", method),
				logging.String("path", path),
				logging.Int("attempt", attempt),
				logging.Duration("wait", wait),
			)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		req.SetBasicAuth(c.email, c.apiToken)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = errors.WrapError(err, "request failed", errors.ExitGeneralError)
			continue
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = errors.WrapError(readErr, "failed to read response", errors.ExitGeneralError)
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return respBody, nil
		}

		apiErr := errors.FromResponse(resp, respBody)
		if !errors.IsRetryable(apiErr) {
			return nil, apiErr
		}
		lastErr = apiErr
	}

	return nil, lastErr
}

// waitFor picks the delay before the given retry attempt (1-based).
func (c *Client) waitFor(lastErr error, attempt int) time.Duration {
	if rl, ok := lastErr.(*errors.RateLimitError); ok && rl.RetryAfter > 0 {
		return time.Duration(rl.RetryAfter) * time.Second
	}
	return time.Duration(math.Pow(c.backoff, float64(attempt-1)) * float64(time.Second))
}
