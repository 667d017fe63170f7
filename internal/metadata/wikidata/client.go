package wikidata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"movieguide/internal/metadata"
	"movieguide/internal/metadata/wikipedia"
	"movieguide/internal/ratelimit"
)

const userAgent = "movieguide-wikidata/0.1"

// Wikidata property identifiers for the external ids we cross-reference.
const (
	propIMDb           = "P345"
	propRottenTomatoes = "P1258"
	propMetacritic     = "P1712"
	propNetflix        = "P1874"
)

var imdbIDRE = regexp.MustCompile(`^[a-z]{2}\d+$`)

const entityURLPrefix = "http://www.wikidata.org/entity/Q"

// Client provides access to the Wikidata SPARQL and entity APIs.
type Client struct {
	sparqlURL    string
	entityURL    string
	wikipediaURL string
	limiter      *ratelimit.Limiter
	httpClient   *http.Client
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

// New creates a Wikidata client. sparqlURL and entityURL address the query
// service and the entity-data endpoint; wikipediaURL is the base used to
// build article URLs from sitelinks.
func New(sparqlURL, entityURL, wikipediaURL string, limiter *ratelimit.Limiter, opts ...Option) (*Client, error) {
	sparqlURL = strings.TrimSpace(sparqlURL)
	entityURL = strings.TrimSpace(entityURL)
	if sparqlURL == "" || entityURL == "" {
		return nil, errors.New("wikidata endpoints required")
	}
	if limiter == nil {
		return nil, errors.New("wikidata rate limiter required")
	}
	client := &Client{
		sparqlURL:    sparqlURL,
		entityURL:    strings.TrimRight(entityURL, "/"),
		wikipediaURL: strings.TrimSpace(wikipediaURL),
		limiter:      limiter,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// ByIMDbID resolves an IMDb identifier into cross-reference URLs and
// awards data. Returns metadata.ErrNotFound when no Wikidata item claims
// the identifier.
func (c *Client) ByIMDbID(ctx context.Context, imdbID string) (*metadata.CrossRefs, error) {
	imdbID = strings.TrimSpace(imdbID)
	if !imdbIDRE.MatchString(imdbID) {
		return nil, fmt.Errorf("malformed imdb id %q", imdbID)
	}

	itemID, err := c.itemForIMDbID(ctx, imdbID)
	if err != nil {
		return nil, err
	}

	refs, err := c.entityRefs(ctx, itemID)
	if err != nil {
		return nil, err
	}

	awards, err := c.awards(ctx, itemID)
	if err != nil {
		// The entity resolved; missing awards data degrades to none.
		awards = metadata.Awards{}
	}
	refs.Awards = awards
	return refs, nil
}

// itemForIMDbID returns the numeric item id claiming the IMDb identifier.
// When several items claim it the lowest number wins, matching the
// original disambiguation rule for duplicated entries.
func (c *Client) itemForIMDbID(ctx context.Context, imdbID string) (int64, error) {
	query := fmt.Sprintf(`SELECT ?item WHERE { ?item wdt:%s %q . }`, propIMDb, imdbID)
	body, err := c.sparql(ctx, query)
	if err != nil {
		return 0, err
	}

	best := int64(-1)
	for _, binding := range body.Results.Bindings {
		item, ok := binding["item"]
		if !ok || item.Type != "uri" || !strings.HasPrefix(item.Value, entityURLPrefix) {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimPrefix(item.Value, entityURLPrefix), 10, 64)
		if err != nil {
			continue
		}
		if best < 0 || id < best {
			best = id
		}
	}
	if best < 0 {
		return 0, fmt.Errorf("no wikidata item for %s: %w", imdbID, metadata.ErrNotFound)
	}
	return best, nil
}

// entityRefs fetches the item's claims and sitelinks and maps them onto
// provider URLs.
func (c *Client) entityRefs(ctx context.Context, itemID int64) (*metadata.CrossRefs, error) {
	key := fmt.Sprintf("Q%d", itemID)
	endpoint := fmt.Sprintf("%s/%s.json", c.entityURL, key)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wikidata rate limit wait: %w", err)
	}
	var body entityResponse
	if err := c.getJSON(ctx, endpoint, &body); err != nil {
		return nil, err
	}
	if len(body.Entities) != 1 {
		return nil, fmt.Errorf("entity response carried %d entities: %w", len(body.Entities), metadata.ErrNotFound)
	}

	// Redirects come back under the target key, not the requested one.
	var entity entityPayload
	for redirected, payload := range body.Entities {
		key = redirected
		entity = payload
	}

	refs := &metadata.CrossRefs{
		WikidataURL: "https://www.wikidata.org/wiki/" + key,
	}
	if value := entity.stringClaim(propRottenTomatoes); value != "" {
		refs.RottenTomatoesURL = "https://www.rottentomatoes.com/" + value
	}
	if value := entity.stringClaim(propMetacritic); value != "" {
		refs.MetacriticURL = "https://www.metacritic.com/" + value
	}
	if value := entity.stringClaim(propNetflix); value != "" {
		refs.NetflixURL = "https://movies.netflix.com/WiMovie/" + value
	}
	if sitelink, ok := entity.Sitelinks["enwiki"]; ok && strings.TrimSpace(sitelink.Title) != "" && c.wikipediaURL != "" {
		refs.WikipediaURL = wikipedia.URLForTitle(c.wikipediaURL, sitelink.Title)
	}
	return refs, nil
}

// awards queries nomination and win statements with their award labels
// and point-in-time years.
func (c *Client) awards(ctx context.Context, itemID int64) (metadata.Awards, error) {
	query := fmt.Sprintf(`SELECT ?kind ?awardLabel ?year WHERE {
  { wd:Q%[1]d p:P166 ?st . ?st ps:P166 ?award . BIND("win" AS ?kind) }
  UNION
  { wd:Q%[1]d p:P1411 ?st . ?st ps:P1411 ?award . BIND("nomination" AS ?kind) }
  OPTIONAL { ?st pq:P585 ?date . BIND(YEAR(?date) AS ?year) }
  SERVICE wikibase:label { bd:serviceParam wikibase:language "en" . }
}`, itemID)

	body, err := c.sparql(ctx, query)
	if err != nil {
		return metadata.Awards{}, err
	}

	var awards metadata.Awards
	for _, binding := range body.Results.Bindings {
		label := strings.TrimSpace(binding["awardLabel"].Value)
		if label == "" {
			continue
		}
		event := metadata.AwardEvent{Award: label}
		if yearValue := binding["year"].Value; yearValue != "" {
			if year, err := strconv.Atoi(yearValue); err == nil {
				event.Year = year
			}
		}
		switch binding["kind"].Value {
		case "win":
			awards.Wins = append(awards.Wins, event)
		case "nomination":
			awards.Nominations = append(awards.Nominations, event)
		}
	}
	return awards, nil
}

type sparqlResponse struct {
	Results struct {
		Bindings []map[string]sparqlValue `json:"bindings"`
	} `json:"results"`
}

type sparqlValue struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

func (c *Client) sparql(ctx context.Context, query string) (*sparqlResponse, error) {
	endpoint := c.sparqlURL + "?" + url.Values{
		"query":  {query},
		"format": {"json"},
	}.Encode()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wikidata rate limit wait: %w", err)
	}
	var body sparqlResponse
	if err := c.getJSON(ctx, endpoint, &body); err != nil {
		return nil, err
	}
	return &body, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("wikidata returned %d (latency=%v)", resp.StatusCode, latency)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode wikidata response: %w", err)
	}
	return nil
}

type entityResponse struct {
	Entities map[string]entityPayload `json:"entities"`
}

type entityPayload struct {
	Claims map[string][]struct {
		Mainsnak struct {
			Datatype  string `json:"datatype"`
			Datavalue struct {
				Type  string          `json:"type"`
				Value json.RawMessage `json:"value"`
			} `json:"datavalue"`
		} `json:"mainsnak"`
	} `json:"claims"`
	Sitelinks map[string]struct {
		Title string `json:"title"`
	} `json:"sitelinks"`
}

// stringClaim returns the first string-typed value for a property, or
// empty when absent or non-string.
func (e entityPayload) stringClaim(prop string) string {
	for _, claim := range e.Claims[prop] {
		snak := claim.Mainsnak
		if snak.Datatype != "string" && snak.Datatype != "external-id" {
			continue
		}
		if snak.Datavalue.Type != "string" {
			continue
		}
		var value string
		if err := json.Unmarshal(snak.Datavalue.Value, &value); err != nil {
			continue
		}
		if value = strings.TrimSpace(value); value != "" {
			return value
		}
	}
	return ""
}
