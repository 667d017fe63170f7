package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"movieguide/internal/metadata"
	"movieguide/internal/ratelimit"
)

const userAgent = "movieguide-omdb/0.1"

// payload models an OMDb title response. Numeric fields arrive as strings
// and may carry the "N/A" sentinel.
type payload struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Rated      string `json:"Rated"`
	Released   string `json:"Released"`
	Runtime    string `json:"Runtime"`
	Genre      string `json:"Genre"`
	Director   string `json:"Director"`
	Writer     string `json:"Writer"`
	Actors     string `json:"Actors"`
	Plot       string `json:"Plot"`
	IMDbRating string `json:"imdbRating"`
	IMDbVotes  string `json:"imdbVotes"`
	IMDbID     string `json:"imdbID"`
	Response   string `json:"Response"`
	Error      string `json:"Error"`
	Search     []struct {
		Title  string `json:"Title"`
		Year   string `json:"Year"`
		IMDbID string `json:"imdbID"`
	} `json:"Search"`
}

// Client provides access to the OMDb API.
type Client struct {
	baseURL    string
	apiKey     string
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

// New creates an OMDb client. The limiter is shared process-wide for the
// OMDb endpoint and consulted before every request.
func New(baseURL, apiKey string, limiter *ratelimit.Limiter, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("omdb base url required")
	}
	if limiter == nil {
		return nil, errors.New("omdb rate limiter required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     strings.TrimSpace(apiKey),
		limiter:    limiter,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Lookup performs an exact-match search by title and, when present, year.
// Returns metadata.ErrNotFound when the service reports no match.
func (c *Client) Lookup(ctx context.Context, query metadata.Query) (*metadata.MediaRecord, error) {
	title := strings.TrimSpace(query.Title)
	if title == "" {
		return nil, errors.New("query title must not be empty")
	}

	params := url.Values{}
	params.Set("t", sanitizeQuery(title))
	params.Set("plot", "full")
	if query.Year > 0 {
		params.Set("y", strconv.Itoa(query.Year))
	}

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(body.Response, "True") || body.Title == "" {
		return nil, fmt.Errorf("omdb: %s: %w", missReason(body), metadata.ErrNotFound)
	}
	return recordFromPayload(body), nil
}

// Search lists titles similar to the query for the disambiguation
// fallback. Returns metadata.ErrNotFound when nothing matches.
func (c *Client) Search(ctx context.Context, query metadata.Query) ([]metadata.SearchResult, error) {
	title := strings.TrimSpace(query.Title)
	if title == "" {
		return nil, errors.New("search title must not be empty")
	}

	params := url.Values{}
	params.Set("s", sanitizeQuery(title))
	if query.Year > 0 {
		params.Set("y", strconv.Itoa(query.Year))
	}

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(body.Search) == 0 {
		return nil, fmt.Errorf("omdb: %s: %w", missReason(body), metadata.ErrNotFound)
	}

	results := make([]metadata.SearchResult, 0, len(body.Search))
	for _, entry := range body.Search {
		results = append(results, metadata.SearchResult{
			Title:  entry.Title,
			Year:   parseYear(entry.Year),
			IMDbID: entry.IMDbID,
		})
	}
	return results, nil
}

func (c *Client) get(ctx context.Context, params url.Values) (*payload, error) {
	endpoint, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return nil, fmt.Errorf("parse omdb url: %w", err)
	}
	if c.apiKey != "" {
		params.Set("apikey", c.apiKey)
	}
	endpoint.RawQuery = params.Encode()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("omdb rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
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

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("omdb returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var body payload
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode omdb response: %w", err)
	}
	return &body, nil
}

// sanitizeQuery works around the upstream inability to handle double
// quotes, which it answers with invalid JSON.
func sanitizeQuery(s string) string {
	return strings.ReplaceAll(s, `"`, "'")
}

func missReason(body *payload) string {
	if msg := strings.TrimSpace(body.Error); msg != "" {
		return msg
	}
	return "no match in response"
}

func recordFromPayload(body *payload) *metadata.MediaRecord {
	record := &metadata.MediaRecord{
		Title:       body.Title,
		Year:        parseYear(body.Year),
		Genres:      splitList(body.Genre),
		Cast:        peopleFromList(body.Actors),
		Directors:   peopleFromList(body.Director),
		Writers:     peopleFromList(body.Writer),
		RunningTime: parseRuntime(body.Runtime),
		Rating:      parseRating(body.IMDbRating, body.IMDbVotes),
		IMDbID:      strings.TrimSpace(body.IMDbID),
	}
	if rated := strings.TrimSpace(body.Rated); rated != "" && rated != "N/A" {
		record.Certificate = &metadata.Certificate{Rating: rated, Country: "USA"}
	}
	if plot := strings.TrimSpace(body.Plot); plot != "" && plot != "N/A" {
		record.Plot = &metadata.Plot{Summary: plot}
	}
	return record
}

func splitList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == "N/A" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func peopleFromList(s string) []metadata.Person {
	names := splitList(s)
	if len(names) == 0 {
		return nil
	}
	people := make([]metadata.Person, 0, len(names))
	for i, name := range names {
		people = append(people, metadata.Person{Name: name, Billing: i + 1})
	}
	return people
}

func parseYear(s string) int {
	s = strings.TrimSpace(s)
	if len(s) < 4 {
		return 0
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil {
		return 0
	}
	return year
}

func parseRuntime(s string) int {
	fields := strings.Fields(strings.TrimSpace(s))
	total := 0
	for i := 0; i+1 < len(fields); i += 2 {
		value, err := strconv.Atoi(fields[i])
		if err != nil {
			return 0
		}
		switch strings.TrimSuffix(fields[i+1], ".") {
		case "h":
			total += value * 60
		case "min", "mins":
			total += value
		default:
			return 0
		}
	}
	return total
}

// parseRating normalizes the upstream "N/A" sentinel to the zero rating
// instead of propagating it as a string.
func parseRating(ratingStr, votesStr string) metadata.Rating {
	ratingStr = strings.TrimSpace(ratingStr)
	votesStr = strings.ReplaceAll(strings.TrimSpace(votesStr), ",", "")
	if ratingStr == "" || ratingStr == "N/A" || votesStr == "" || votesStr == "N/A" {
		return metadata.Rating{}
	}
	average, err := strconv.ParseFloat(ratingStr, 64)
	if err != nil {
		return metadata.Rating{}
	}
	votes, err := strconv.Atoi(votesStr)
	if err != nil || votes < 0 {
		return metadata.Rating{}
	}
	return metadata.Rating{Votes: votes, Average: average}
}
