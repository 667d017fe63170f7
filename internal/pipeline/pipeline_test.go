package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"movieguide/internal/feed"
	"movieguide/internal/history"
	"movieguide/internal/metadata"
	"movieguide/internal/metadata/wikipedia"
	"movieguide/internal/review"
	"movieguide/internal/titleparse"
)

type fakePrimary struct {
	record    *metadata.MediaRecord
	lookupErr error
	results   []metadata.SearchResult
	searchErr error

	lookups  []metadata.Query
	searches []metadata.Query
}

func (f *fakePrimary) Lookup(_ context.Context, query metadata.Query) (*metadata.MediaRecord, error) {
	f.lookups = append(f.lookups, query)
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return f.record, nil
}

func (f *fakePrimary) Search(_ context.Context, query metadata.Query) ([]metadata.SearchResult, error) {
	f.searches = append(f.searches, query)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.results, nil
}

type fakeCrossRef struct {
	refs *metadata.CrossRefs
	err  error
}

func (f *fakeCrossRef) ByIMDbID(context.Context, string) (*metadata.CrossRefs, error) {
	return f.refs, f.err
}

type fakeWiki struct {
	extract *wikipedia.Extract
	err     error
}

func (f *fakeWiki) ByURL(context.Context, string) (*wikipedia.Extract, error) {
	return f.extract, f.err
}

type fakeSource struct {
	posts      []feed.Post
	listingErr error
	commentErr error

	comments map[string]string
	flairs   map[string]string
	nextID   int
}

func (f *fakeSource) NewPosts(context.Context, feed.SortMode, int) ([]feed.Post, error) {
	if f.listingErr != nil {
		return nil, f.listingErr
	}
	return f.posts, nil
}

func (f *fakeSource) PostComment(_ context.Context, postID, body string) (string, error) {
	if f.commentErr != nil {
		return "", f.commentErr
	}
	if f.comments == nil {
		f.comments = make(map[string]string)
	}
	f.nextID++
	id := "c" + string(rune('0'+f.nextID))
	f.comments[postID] = body
	return id, nil
}

func (f *fakeSource) SetFlair(_ context.Context, postID, label string) error {
	if f.flairs == nil {
		f.flairs = make(map[string]string)
	}
	f.flairs[postID] = label
	return nil
}

func testStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testProcessor(t *testing.T, primary *fakePrimary, crossref CrossReferencer, wiki Encyclopedia, source feed.Source, store *history.Store) *Processor {
	t.Helper()
	processor, err := NewProcessor(ProcessorConfig{
		Extractor:    titleparse.MustDefault(),
		Primary:      primary,
		CrossRef:     crossref,
		Encyclopedia: wiki,
		Composer:     review.NewComposer("^bot", nil),
		Source:       source,
		Store:        store,
	})
	if err != nil {
		t.Fatalf("NewProcessor: %v", err)
	}
	return processor
}

func alienRecord() *metadata.MediaRecord {
	return &metadata.MediaRecord{
		Title:  "Alien",
		Year:   1979,
		IMDbID: "tt0078748",
		Rating: metadata.Rating{Votes: 900000, Average: 8.5},
		Plot:   &metadata.Plot{Summary: "Crew meets alien."},
	}
}

func TestProcessOneExact(t *testing.T) {
	primary := &fakePrimary{record: alienRecord()}
	source := &fakeSource{}
	store := testStore(t)
	crossref := &fakeCrossRef{refs: &metadata.CrossRefs{
		WikipediaURL: "https://en.wikipedia.org/w/index.php?title=Alien_(film)&action=render",
	}}
	wiki := &fakeWiki{extract: &wikipedia.Extract{
		SourceURL: "https://en.wikipedia.org/wiki/Alien_(film)",
		Critical:  "Widely praised.",
	}}
	processor := testProcessor(t, primary, crossref, wiki, source, store)

	post := feed.Post{ID: "p1", Title: "Alien (1979) [1080p] full movie"}
	result, err := processor.ProcessOne(context.Background(), post)
	if err != nil {
		t.Fatalf("ProcessOne: %v", err)
	}
	if result.Outcome != OutcomeExact {
		t.Fatalf("outcome = %s, want exact", result.Outcome)
	}
	if len(primary.lookups) != 1 || primary.lookups[0].Title != "Alien" || primary.lookups[0].Year != 1979 {
		t.Errorf("unexpected lookup queries: %+v", primary.lookups)
	}

	body := source.comments["p1"]
	if !strings.Contains(body, "**[Alien](https://www.imdb.com/title/tt0078748/)**") {
		t.Errorf("comment missing title link:\n%s", body)
	}
	if !strings.Contains(body, "Widely praised.") {
		t.Errorf("comment missing critical excerpt:\n%s", body)
	}

	entry, err := store.Get(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if entry.Status != history.StatusExact || entry.IMDbID != "tt0078748" {
		t.Errorf("unexpected history entry: %+v", entry)
	}
	if entry.CommentID == "" {
		t.Error("comment id not recorded")
	}
	if got := source.flairs["p1"]; got != "Alien (1979)" {
		t.Errorf("flair = %q, want %q", got, "Alien (1979)")
	}
}

func TestProcessOnePartial(t *testing.T) {
	primary := &fakePrimary{
		lookupErr: metadata.ErrNotFound,
		results: []metadata.SearchResult{
			{Title: "Aliens", Year: 1986, IMDbID: "tt0090605"},
		},
	}
	source := &fakeSource{}
	store := testStore(t)
	processor := testProcessor(t, primary, nil, nil, source, store)

	result, err := processor.ProcessOne(context.Background(), feed.Post{ID: "p2", Title: "Allien (1979)"})
	if err != nil {
		t.Fatalf("ProcessOne: %v", err)
	}
	if result.Outcome != OutcomePartial {
		t.Fatalf("outcome = %s, want partial", result.Outcome)
	}
	if !strings.Contains(source.comments["p2"], "Similar titles include") {
		t.Errorf("disambiguation comment missing:\n%s", source.comments["p2"])
	}
	entry, err := store.Get(context.Background(), "p2")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if entry.Status != history.StatusPartial {
		t.Errorf("status = %s, want partial", entry.Status)
	}
}

func TestProcessOneNoMatch(t *testing.T) {
	primary := &fakePrimary{lookupErr: metadata.ErrNotFound}
	source := &fakeSource{}
	store := testStore(t)
	processor := testProcessor(t, primary, nil, nil, source, store)

	result, err := processor.ProcessOne(context.Background(), feed.Post{ID: "p3", Title: "Nonexistent Movie (1950)"})
	if err != nil {
		t.Fatalf("ProcessOne: %v", err)
	}
	if result.Outcome != OutcomeNoMatch {
		t.Fatalf("outcome = %s, want nomatch", result.Outcome)
	}
	if len(source.comments) != 0 {
		t.Errorf("no-match post should not be commented: %v", source.comments)
	}
	entry, err := store.Get(context.Background(), "p3")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if entry.Status != history.StatusNoMatch {
		t.Errorf("status = %s, want nomatch", entry.Status)
	}
}

func TestProcessOneNoTitle(t *testing.T) {
	primary := &fakePrimary{}
	store := testStore(t)
	processor := testProcessor(t, primary, nil, nil, &fakeSource{}, store)

	result, err := processor.ProcessOne(context.Background(), feed.Post{ID: "p4", Title: "[1080p] Full Movie HD"})
	if err != nil {
		t.Fatalf("ProcessOne: %v", err)
	}
	if result.Outcome != OutcomeNoMatch {
		t.Fatalf("outcome = %s, want nomatch", result.Outcome)
	}
	if len(primary.lookups) != 0 {
		t.Errorf("lookup performed for unparseable title: %+v", primary.lookups)
	}
}

func TestProcessOneProviderOutage(t *testing.T) {
	primary := &fakePrimary{lookupErr: errors.New("connection refused")}
	store := testStore(t)
	processor := testProcessor(t, primary, nil, nil, &fakeSource{}, store)

	result, err := processor.ProcessOne(context.Background(), feed.Post{ID: "p5", Title: "Alien (1979)"})
	if err == nil {
		t.Fatal("expected error for provider outage")
	}
	if result == nil || result.Outcome != OutcomeWaiting {
		t.Fatalf("result = %+v, want waiting outcome", result)
	}
	entry, getErr := store.Get(context.Background(), "p5")
	if getErr != nil {
		t.Fatalf("Get: %v", getErr)
	}
	if entry.Status != history.StatusWaiting {
		t.Errorf("status = %s, want waiting", entry.Status)
	}
}

func TestProcessOneIgnorableCommentError(t *testing.T) {
	primary := &fakePrimary{record: alienRecord()}
	source := &fakeSource{commentErr: feed.ErrTooOld}
	store := testStore(t)
	processor := testProcessor(t, primary, nil, nil, source, store)

	result, err := processor.ProcessOne(context.Background(), feed.Post{ID: "p6", Title: "Alien (1979)"})
	if err != nil {
		t.Fatalf("ProcessOne: %v", err)
	}
	if result.Outcome != OutcomeExact {
		t.Fatalf("outcome = %s, want exact", result.Outcome)
	}
	entry, err := store.Get(context.Background(), "p6")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if entry.CommentID != "" {
		t.Errorf("comment id recorded despite rejection: %q", entry.CommentID)
	}
}

func TestProcessOneEnrichmentFailureDegrades(t *testing.T) {
	primary := &fakePrimary{record: alienRecord()}
	source := &fakeSource{}
	store := testStore(t)
	crossref := &fakeCrossRef{err: errors.New("sparql down")}
	processor := testProcessor(t, primary, crossref, nil, source, store)

	result, err := processor.ProcessOne(context.Background(), feed.Post{ID: "p7", Title: "Alien (1979)"})
	if err != nil {
		t.Fatalf("ProcessOne: %v", err)
	}
	if result.Outcome != OutcomeExact {
		t.Fatalf("outcome = %s, want exact despite enrichment failure", result.Outcome)
	}
	if !strings.Contains(source.comments["p7"], "Crew meets alien.") {
		t.Errorf("review not posted:\n%s", source.comments["p7"])
	}
}
