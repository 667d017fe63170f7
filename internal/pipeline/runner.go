package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"movieguide/internal/feed"
	"movieguide/internal/history"
)

// RunnerConfig tunes one batch scan.
type RunnerConfig struct {
	// Sort selects the listing ordering.
	Sort feed.SortMode
	// BatchLimit caps how many posts one scan fetches.
	BatchLimit int
	// Pause is the fixed delay between posts within a scan.
	Pause time.Duration
	// Budget caps the wall-clock time of one scan. Zero means unlimited.
	Budget time.Duration
	// RetryWaiting re-processes posts parked by earlier provider outages
	// before fetching new posts.
	RetryWaiting bool
	// SkipNSFW drops posts flagged adult by the feed.
	SkipNSFW bool
}

func (c RunnerConfig) withDefaults() RunnerConfig {
	if c.Sort == "" {
		c.Sort = feed.SortNew
	}
	if c.BatchLimit <= 0 {
		c.BatchLimit = 25
	}
	if c.Pause < 0 {
		c.Pause = 0
	}
	return c
}

// RunStats summarizes one batch scan.
type RunStats struct {
	RunID     string
	Fetched   int
	Processed int
	Exact     int
	Partial   int
	NoMatch   int
	Waiting   int
	Errors    int
}

// Runner executes batch scans over the feed.
type Runner struct {
	processor *Processor
	source    feed.Source
	store     *history.Store
	cfg       RunnerConfig
	logger    *slog.Logger

	sleep func(context.Context, time.Duration) error
	now   func() time.Time
}

// NewRunner builds a Runner around a wired Processor.
func NewRunner(processor *Processor, source feed.Source, store *history.Store, cfg RunnerConfig, logger *slog.Logger) (*Runner, error) {
	if processor == nil {
		return nil, errors.New("pipeline: processor required")
	}
	if source == nil {
		return nil, errors.New("pipeline: feed source required")
	}
	if store == nil {
		return nil, errors.New("pipeline: history store required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{
		processor: processor,
		source:    source,
		store:     store,
		cfg:       cfg.withDefaults(),
		logger:    logger,
		sleep:     sleepContext,
		now:       time.Now,
	}, nil
}

// Run executes one batch scan: parked posts first when retry is enabled,
// then unseen posts from the listing. Individual post failures are
// counted and logged; only context cancellation aborts the scan.
func (r *Runner) Run(ctx context.Context) (*RunStats, error) {
	stats := &RunStats{RunID: uuid.NewString()}
	logger := r.logger.With("run_id", stats.RunID)
	deadline := time.Time{}
	if r.cfg.Budget > 0 {
		deadline = r.now().Add(r.cfg.Budget)
	}
	logger.Info("scan started", "sort", string(r.cfg.Sort), "limit", r.cfg.BatchLimit)

	var posts []feed.Post
	if r.cfg.RetryWaiting {
		parked, err := r.store.Waiting(ctx)
		if err != nil {
			return stats, err
		}
		for _, entry := range parked {
			posts = append(posts, feed.Post{ID: entry.PostID, Title: entry.PostTitle})
		}
	}

	fetched, err := r.source.NewPosts(ctx, r.cfg.Sort, r.cfg.BatchLimit)
	if err != nil {
		logger.Error("listing fetch failed", "error", err)
		return stats, err
	}
	stats.Fetched = len(fetched)
	posts = append(posts, fetched...)

	for i, post := range posts {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}
		if !deadline.IsZero() && r.now().After(deadline) {
			logger.Info("scan budget exhausted", "processed", stats.Processed)
			break
		}
		if r.cfg.SkipNSFW && post.NSFW {
			continue
		}

		seen, err := r.store.Seen(ctx, post.ID)
		if err != nil {
			return stats, err
		}
		waitingRetry := i < len(posts)-stats.Fetched
		if seen && !waitingRetry {
			continue
		}

		result, err := r.processor.ProcessOne(ctx, post)
		stats.Processed++
		if err != nil {
			stats.Errors++
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return stats, err
			}
			logger.Warn("post processing failed", "post_id", post.ID, "error", err)
		}
		if result != nil {
			switch result.Outcome {
			case OutcomeExact:
				stats.Exact++
			case OutcomePartial:
				stats.Partial++
			case OutcomeNoMatch:
				stats.NoMatch++
			case OutcomeWaiting:
				stats.Waiting++
			}
		}

		if r.cfg.Pause > 0 && i < len(posts)-1 {
			if err := r.sleep(ctx, r.cfg.Pause); err != nil {
				return stats, err
			}
		}
	}

	logger.Info("scan finished",
		"fetched", stats.Fetched,
		"processed", stats.Processed,
		"exact", stats.Exact,
		"partial", stats.Partial,
		"nomatch", stats.NoMatch,
		"waiting", stats.Waiting,
		"errors", stats.Errors)
	return stats, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
