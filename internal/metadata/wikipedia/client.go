package wikipedia

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"movieguide/internal/metadata"
	"movieguide/internal/ratelimit"
)

const userAgent = "movieguide-wikipedia/0.1"

// Extract is the review-relevant information pulled from one article.
type Extract struct {
	SourceURL         string
	CriticalSection   string
	Critical          string
	Summary           string
	RottenTomatoesURL string
	MetacriticURL     string
}

// Client fetches and parses rendered Wikipedia articles.
type Client struct {
	baseURL    string
	limiter    *ratelimit.Limiter
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a Wikipedia client rooted at baseURL, typically
// https://en.wikipedia.org.
func New(baseURL string, limiter *ratelimit.Limiter, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("wikipedia base url required")
	}
	if limiter == nil {
		return nil, errors.New("wikipedia rate limiter required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		limiter:    limiter,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// URLForTitle builds the rendered-article URL for a page title.
func URLForTitle(baseURL, title string) string {
	return strings.TrimRight(baseURL, "/") + "/w/index.php?" + url.Values{
		"title":  {title},
		"action": {"render"},
	}.Encode()
}

// URLForCurid builds the rendered-article URL for a page identifier.
func URLForCurid(baseURL, curid string) string {
	return strings.TrimRight(baseURL, "/") + "/w/index.php?" + url.Values{
		"curid":  {curid},
		"action": {"render"},
	}.Encode()
}

// ByTitle loads an article by page title.
func (c *Client) ByTitle(ctx context.Context, title string) (*Extract, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("article title must not be empty")
	}
	return c.ByURL(ctx, URLForTitle(c.baseURL, title))
}

// ByCurid loads an article by page identifier.
func (c *Client) ByCurid(ctx context.Context, curid string) (*Extract, error) {
	curid = strings.TrimSpace(curid)
	if curid == "" {
		return nil, errors.New("article curid must not be empty")
	}
	return c.ByURL(ctx, URLForCurid(c.baseURL, curid))
}

// ByURL fetches a rendered article, flattens it, and extracts the
// review-relevant pieces. Returns metadata.ErrNotFound for missing pages.
func (c *Client) ByURL(ctx context.Context, articleURL string) (*Extract, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wikipedia rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, articleURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("wikipedia article missing: %w", metadata.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("wikipedia returned %d (latency=%v)", resp.StatusCode, latency)
	}

	article := Flatten(resp.Body)
	section, critical := CriticalExcerpt(article)
	aggregators := DiscoverAggregatorLinks(article)

	return &Extract{
		SourceURL:         DisplayURL(articleURL),
		CriticalSection:   section,
		Critical:          critical,
		Summary:           SummaryExcerpt(article),
		RottenTomatoesURL: aggregators["rottentomatoes"],
		MetacriticURL:     aggregators["metacritic"],
	}, nil
}

// DisplayURL strips the render action from a fetch URL so the link posted
// in comments shows the normal article view.
func DisplayURL(articleURL string) string {
	parsed, err := url.Parse(articleURL)
	if err != nil {
		return articleURL
	}
	query := parsed.Query()
	query.Del("action")
	parsed.RawQuery = query.Encode()
	parsed.Scheme = "https"
	return parsed.String()
}
