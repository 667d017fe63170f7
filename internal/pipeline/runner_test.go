package pipeline

import (
	"context"
	"testing"
	"time"

	"movieguide/internal/feed"
	"movieguide/internal/history"
	"movieguide/internal/metadata"
)

func testRunner(t *testing.T, primary *fakePrimary, source *fakeSource, store *history.Store, cfg RunnerConfig) *Runner {
	t.Helper()
	processor := testProcessor(t, primary, nil, nil, source, store)
	runner, err := NewRunner(processor, source, store, cfg, nil)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	runner.sleep = func(context.Context, time.Duration) error { return nil }
	return runner
}

func TestRunProcessesUnseenPosts(t *testing.T) {
	primary := &fakePrimary{record: alienRecord()}
	source := &fakeSource{posts: []feed.Post{
		{ID: "a", Title: "Alien (1979)"},
		{ID: "b", Title: "Alien 2 (1980)"},
	}}
	store := testStore(t)
	runner := testRunner(t, primary, source, store, RunnerConfig{})

	stats, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.RunID == "" {
		t.Error("missing run id")
	}
	if stats.Fetched != 2 || stats.Processed != 2 || stats.Exact != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	// A second scan over the same listing is a no-op.
	stats, err = runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run (second): %v", err)
	}
	if stats.Processed != 0 {
		t.Errorf("seen posts reprocessed: %+v", stats)
	}
}

func TestRunSkipsNSFW(t *testing.T) {
	primary := &fakePrimary{record: alienRecord()}
	source := &fakeSource{posts: []feed.Post{
		{ID: "a", Title: "Alien (1979)", NSFW: true},
		{ID: "b", Title: "Alien 2 (1980)"},
	}}
	store := testStore(t)
	runner := testRunner(t, primary, source, store, RunnerConfig{SkipNSFW: true})

	stats, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Processed != 1 {
		t.Errorf("NSFW post not skipped: %+v", stats)
	}
	if _, err := store.Get(context.Background(), "a"); err == nil {
		t.Error("skipped post recorded in history")
	}
}

func TestRunRetriesWaitingPosts(t *testing.T) {
	primary := &fakePrimary{record: alienRecord()}
	source := &fakeSource{}
	store := testStore(t)
	if err := store.Record(context.Background(), history.Entry{
		PostID: "parked", PostTitle: "Alien (1979)", Status: history.StatusWaiting,
	}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	runner := testRunner(t, primary, source, store, RunnerConfig{RetryWaiting: true})

	stats, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Processed != 1 || stats.Exact != 1 {
		t.Errorf("parked post not retried: %+v", stats)
	}
	entry, err := store.Get(context.Background(), "parked")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if entry.Status != history.StatusExact {
		t.Errorf("status = %s, want exact after retry", entry.Status)
	}
}

func TestRunBudget(t *testing.T) {
	primary := &fakePrimary{record: alienRecord()}
	source := &fakeSource{posts: []feed.Post{
		{ID: "a", Title: "Alien (1979)"},
		{ID: "b", Title: "Alien 2 (1980)"},
		{ID: "c", Title: "Alien 3 (1981)"},
	}}
	store := testStore(t)
	runner := testRunner(t, primary, source, store, RunnerConfig{Budget: time.Minute})

	clock := time.Date(2014, time.March, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	runner.now = func() time.Time {
		calls++
		// First call sets the deadline; every post check advances by 40s,
		// pushing the scan past its budget after the first post.
		return clock.Add(time.Duration(calls-1) * 40 * time.Second)
	}

	stats, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Processed >= 3 {
		t.Errorf("budget not enforced: %+v", stats)
	}
}

func TestRunListingFailure(t *testing.T) {
	primary := &fakePrimary{}
	source := &fakeSource{listingErr: context.DeadlineExceeded}
	store := testStore(t)
	runner := testRunner(t, primary, source, store, RunnerConfig{})

	if _, err := runner.Run(context.Background()); err == nil {
		t.Fatal("expected error when listing fetch fails")
	}
}

func TestRunCountsOutcomes(t *testing.T) {
	primary := &fakePrimary{lookupErr: metadata.ErrNotFound}
	source := &fakeSource{posts: []feed.Post{
		{ID: "a", Title: "Nonexistent (1950)"},
		{ID: "b", Title: "not a movie post"},
	}}
	store := testStore(t)
	runner := testRunner(t, primary, source, store, RunnerConfig{})

	stats, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.NoMatch != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}
