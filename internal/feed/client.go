package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"movieguide/internal/ratelimit"
)

const defaultUserAgent = "movieguide-feed/0.1"

// listingPayload models a reddit-style listing response.
type listingPayload struct {
	Data struct {
		Children []struct {
			Data struct {
				ID         string  `json:"id"`
				Title      string  `json:"title"`
				Author     string  `json:"author"`
				Permalink  string  `json:"permalink"`
				Over18     bool    `json:"over_18"`
				CreatedUTC float64 `json:"created_utc"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// commentPayload models the comment-submission response. API-level
// failures arrive as [code, message] pairs in jquery-style errors.
type commentPayload struct {
	JSON struct {
		Errors [][]any `json:"errors"`
		Data   struct {
			Things []struct {
				Data struct {
					ID string `json:"id"`
				} `json:"data"`
			} `json:"things"`
		} `json:"data"`
	} `json:"json"`
}

// Client reads a single community's listing over HTTP.
type Client struct {
	baseURL    string
	community  string
	userAgent  string
	authToken  string
	limiter    *ratelimit.Limiter
	httpClient *http.Client
}

var _ Source = (*Client)(nil)

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

// WithUserAgent overrides the user agent presented to the feed.
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		if strings.TrimSpace(agent) != "" {
			c.userAgent = agent
		}
	}
}

// WithAuthToken attaches a bearer token to every request. Reading public
// listings works without one; posting comments does not.
func WithAuthToken(token string) Option {
	return func(c *Client) {
		c.authToken = strings.TrimSpace(token)
	}
}

// New creates a feed client for one community. The limiter is consulted
// before every request.
func New(baseURL, community string, limiter *ratelimit.Limiter, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("feed base url required")
	}
	community = strings.Trim(strings.TrimSpace(community), "/")
	if community == "" {
		return nil, errors.New("feed community required")
	}
	if limiter == nil {
		return nil, errors.New("feed rate limiter required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		community:  community,
		userAgent:  defaultUserAgent,
		limiter:    limiter,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// NewPosts fetches the community listing. Titles are HTML-unescaped
// before they reach the title parser.
func (c *Client) NewPosts(ctx context.Context, sort SortMode, limit int) ([]Post, error) {
	if sort == "" {
		sort = SortNew
	}
	if limit <= 0 {
		limit = 25
	}
	endpoint := fmt.Sprintf("%s/r/%s/%s.json?limit=%d", c.baseURL, url.PathEscape(c.community), sort, limit)

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var listing listingPayload
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}

	posts := make([]Post, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		data := child.Data
		if data.ID == "" {
			continue
		}
		posts = append(posts, Post{
			ID:        data.ID,
			Title:     html.UnescapeString(data.Title),
			Author:    data.Author,
			Permalink: data.Permalink,
			NSFW:      data.Over18,
			CreatedAt: time.Unix(int64(data.CreatedUTC), 0).UTC(),
		})
	}
	return posts, nil
}

// PostComment submits a reply under the post.
func (c *Client) PostComment(ctx context.Context, postID, body string) (string, error) {
	if strings.TrimSpace(postID) == "" {
		return "", errors.New("empty post id")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("api_type", "json")
	form.Set("thing_id", "t3_"+postID)
	form.Set("text", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/comment", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build comment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.setHeaders(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("post comment after %s: %w", time.Since(start).Round(time.Millisecond), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("post comment: unexpected status %s", resp.Status)
	}

	payload := commentPayload{}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read comment response: %w", err)
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", fmt.Errorf("decode comment response: %w", err)
	}

	if len(payload.JSON.Errors) > 0 {
		return "", commentError(payload.JSON.Errors[0])
	}
	if things := payload.JSON.Data.Things; len(things) > 0 {
		return things[0].Data.ID, nil
	}
	return "", errors.New("comment response missing thing id")
}

// SetFlair replaces the post's link flair text.
func (c *Client) SetFlair(ctx context.Context, postID, label string) error {
	if strings.TrimSpace(postID) == "" {
		return errors.New("empty post id")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	form := url.Values{}
	form.Set("api_type", "json")
	form.Set("link", "t3_"+postID)
	form.Set("text", label)

	endpoint := fmt.Sprintf("%s/r/%s/api/flair", c.baseURL, url.PathEscape(c.community))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build flair request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.setHeaders(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("set flair after %s: %w", time.Since(start).Round(time.Millisecond), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("set flair: unexpected status %s", resp.Status)
	}

	payload := commentPayload{}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read flair response: %w", err)
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("decode flair response: %w", err)
	}
	if len(payload.JSON.Errors) > 0 {
		return commentError(payload.JSON.Errors[0])
	}
	return nil
}

// commentError maps an API error pair onto a sentinel when the failure is
// a property of the post.
func commentError(pair []any) error {
	code := ""
	message := ""
	if len(pair) > 0 {
		code, _ = pair[0].(string)
	}
	if len(pair) > 1 {
		message, _ = pair[1].(string)
	}
	switch code {
	case "TOO_OLD":
		return fmt.Errorf("%w: %s", ErrTooOld, message)
	case "DELETED_LINK", "DELETED_COMMENT":
		return fmt.Errorf("%w: %s", ErrDeleted, message)
	case "THREAD_LOCKED":
		return fmt.Errorf("%w: %s", ErrLocked, message)
	case "":
		return errors.New("comment rejected")
	default:
		return fmt.Errorf("comment rejected: %s %s", code, message)
	}
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build listing request: %w", err)
	}
	c.setHeaders(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch listing after %s: %w", time.Since(start).Round(time.Millisecond), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch listing: unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read listing after %s: %w", time.Since(start).Round(time.Millisecond), err)
	}
	return body, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent)
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
}
