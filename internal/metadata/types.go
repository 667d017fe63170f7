package metadata

import (
	"fmt"
	"net/url"
	"strings"
)

// Query is a normalized (title, optional year) pair used to search the
// primary metadata source. Immutable once constructed.
type Query struct {
	Title string
	Year  int // 0 when unknown
}

func (q Query) String() string {
	if q.Year > 0 {
		return fmt.Sprintf("%s (%d)", q.Title, q.Year)
	}
	return q.Title
}

// Person is one credited participant on a work.
type Person struct {
	Name      string
	Character string
	Billing   int
}

// Certificate is a country-specific classification rating.
type Certificate struct {
	Rating  string
	Country string
}

// Rating aggregates user votes. Votes and Average are stored separately
// so "zero votes" stays distinguishable from a real average of zero:
// display layers must consult Known before rendering the average.
type Rating struct {
	Votes   int
	Average float64 // 0-10 scale
}

// Known reports whether the average is backed by any votes.
func (r Rating) Known() bool {
	return r.Votes > 0
}

// Plot is a synopsis with optional attribution.
type Plot struct {
	Summary     string
	Attribution string
}

// MediaRecord is the canonical metadata entity for one identified work.
type MediaRecord struct {
	Title       string
	AKA         string
	Year        int
	Genres      []string
	Cast        []Person
	Directors   []Person
	Writers     []Person
	Certificate *Certificate
	RunningTime int // minutes, 0 when unknown
	Rating      Rating
	Plot        *Plot
	IMDbID      string
	ColorInfo   string
}

// IMDbURL builds the IMDb page URL for the record.
func (m *MediaRecord) IMDbURL() string {
	if m == nil || strings.TrimSpace(m.IMDbID) == "" {
		return ""
	}
	return "https://www.imdb.com/title/" + url.PathEscape(m.IMDbID) + "/"
}

// SearchResult is one candidate from a similar-titles search.
type SearchResult struct {
	Title  string
	Year   int
	IMDbID string
}

// IMDbURL builds the IMDb page URL for the search result.
func (r SearchResult) IMDbURL() string {
	if strings.TrimSpace(r.IMDbID) == "" {
		return ""
	}
	return "https://www.imdb.com/title/" + url.PathEscape(r.IMDbID) + "/"
}

// AwardEvent is one nomination or win for a work.
type AwardEvent struct {
	Award    string
	Category string
	Year     int
}

// Awards holds the raw nomination and win lists from the cross-reference
// provider, in provider order.
type Awards struct {
	Nominations []AwardEvent
	Wins        []AwardEvent
}

// Empty reports whether no award data is present.
func (a Awards) Empty() bool {
	return len(a.Nominations) == 0 && len(a.Wins) == 0
}

// CrossRefs maps providers to resolved URLs for one work, plus the awards
// data that rides along in the cross-reference payload. Empty string means
// the provider did not resolve.
type CrossRefs struct {
	WikipediaURL      string
	WikidataURL       string
	RottenTomatoesURL string
	MetacriticURL     string
	NetflixURL        string
	Awards            Awards
}
