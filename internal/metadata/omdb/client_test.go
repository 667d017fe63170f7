package omdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"movieguide/internal/metadata"
	"movieguide/internal/ratelimit"
)

func testLimiter() *ratelimit.Limiter {
	return ratelimit.New(0)
}

func TestLookupMapsPayload(t *testing.T) {
	var captured url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.URL.Query()
		_, _ = w.Write([]byte(`{
			"Title":"Foster","Year":"2011","Rated":"PG","Runtime":"1 h 30 min",
			"Genre":"Comedy, Drama, Family","Director":"Jonathan Newman",
			"Writer":"Jonathan Newman","Actors":"Maurice Cole, Toni Collette",
			"Plot":"A mysterious boy appears.","imdbRating":"6.3",
			"imdbVotes":"1,597","imdbID":"tt1629443","Response":"True"}`))
	}))
	defer server.Close()

	client, err := New(server.URL, "key", testLimiter())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	record, err := client.Lookup(context.Background(), metadata.Query{Title: `The "Foster"`, Year: 2011})
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if record.Title != "Foster" || record.Year != 2011 {
		t.Fatalf("unexpected record identity: %q (%d)", record.Title, record.Year)
	}
	if record.RunningTime != 90 {
		t.Fatalf("expected 90 minute runtime, got %d", record.RunningTime)
	}
	if len(record.Genres) != 3 || record.Genres[0] != "Comedy" {
		t.Fatalf("unexpected genres: %v", record.Genres)
	}
	if len(record.Cast) != 2 || record.Cast[1].Name != "Toni Collette" || record.Cast[1].Billing != 2 {
		t.Fatalf("unexpected cast: %v", record.Cast)
	}
	if record.Certificate == nil || record.Certificate.Rating != "PG" || record.Certificate.Country != "USA" {
		t.Fatalf("unexpected certificate: %v", record.Certificate)
	}
	if record.Rating.Votes != 1597 || record.Rating.Average != 6.3 {
		t.Fatalf("unexpected rating: %+v", record.Rating)
	}
	if record.Plot == nil || record.Plot.Summary != "A mysterious boy appears." {
		t.Fatalf("unexpected plot: %v", record.Plot)
	}
	if record.IMDbURL() != "https://www.imdb.com/title/tt1629443/" {
		t.Fatalf("unexpected imdb url: %q", record.IMDbURL())
	}

	if captured.Get("t") != "The 'Foster'" {
		t.Fatalf("double quotes not sanitized: %q", captured.Get("t"))
	}
	if captured.Get("y") != "2011" {
		t.Fatalf("expected year parameter, got %q", captured.Get("y"))
	}
	if captured.Get("plot") != "full" {
		t.Fatalf("expected full plot request, got %q", captured.Get("plot"))
	}
}

func TestLookupNegativeResponseIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
	}))
	defer server.Close()

	client, err := New(server.URL, "", testLimiter())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = client.Lookup(context.Background(), metadata.Query{Title: "Nonexistent"})
	if !errors.Is(err, metadata.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLookupNormalizesRatingSentinels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"Title":"Obscure","Year":"1921",
			"imdbRating":"N/A","imdbVotes":"N/A","imdbID":"tt0000001","Response":"True"}`))
	}))
	defer server.Close()

	client, err := New(server.URL, "", testLimiter())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	record, err := client.Lookup(context.Background(), metadata.Query{Title: "Obscure"})
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if record.Rating.Votes != 0 || record.Rating.Average != 0 {
		t.Fatalf("sentinel rating not normalized: %+v", record.Rating)
	}
	if record.Rating.Known() {
		t.Fatal("zero-vote rating must not report as known")
	}
}

func TestLookupTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := New(server.URL, "", testLimiter())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = client.Lookup(context.Background(), metadata.Query{Title: "Anything"})
	if err == nil || errors.Is(err, metadata.ErrNotFound) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestSearchListsSimilarTitles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("s"); got != "Bourne" {
			t.Errorf("s = %q, want Bourne", got)
		}
		if got := r.URL.Query().Get("y"); got != "2007" {
			t.Errorf("y = %q, want 2007", got)
		}
		_, _ = w.Write([]byte(`{"Search":[
			{"Title":"The Bourne Ultimatum","Year":"2007","imdbID":"tt0440963"},
			{"Title":"The Bourne Identity","Year":"2002","imdbID":"tt0258463"}]}`))
	}))
	defer server.Close()

	client, err := New(server.URL, "", testLimiter())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	results, err := client.Search(context.Background(), metadata.Query{Title: "Bourne", Year: 2007})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Title != "The Bourne Ultimatum" || results[0].Year != 2007 {
		t.Fatalf("unexpected first result: %+v", results[0])
	}
}

func TestSearchEmptyIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
	}))
	defer server.Close()

	client, err := New(server.URL, "", testLimiter())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = client.Search(context.Background(), metadata.Query{Title: "zzzz"})
	if !errors.Is(err, metadata.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
