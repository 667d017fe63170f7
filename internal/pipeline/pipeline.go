package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"movieguide/internal/feed"
	"movieguide/internal/history"
	"movieguide/internal/metadata"
	"movieguide/internal/metadata/wikipedia"
	"movieguide/internal/review"
	"movieguide/internal/titleparse"
)

// PrimarySearch resolves a query against the primary metadata source.
type PrimarySearch interface {
	Lookup(ctx context.Context, query metadata.Query) (*metadata.MediaRecord, error)
	Search(ctx context.Context, query metadata.Query) ([]metadata.SearchResult, error)
}

// CrossReferencer resolves provider URLs and awards for an identified work.
type CrossReferencer interface {
	ByIMDbID(ctx context.Context, imdbID string) (*metadata.CrossRefs, error)
}

// Encyclopedia fetches and textifies an article for an identified work.
type Encyclopedia interface {
	ByURL(ctx context.Context, articleURL string) (*wikipedia.Extract, error)
}

// Outcome classifies how processing ended for one post.
type Outcome string

const (
	// OutcomeExact means a full review was composed.
	OutcomeExact Outcome = "exact"
	// OutcomePartial means only similar titles were found.
	OutcomePartial Outcome = "partial"
	// OutcomeNoMatch means the title parsed but nothing matched, or no
	// title could be extracted at all.
	OutcomeNoMatch Outcome = "nomatch"
	// OutcomeWaiting means a provider was unreachable and the post is
	// parked for a later scan.
	OutcomeWaiting Outcome = "waiting"
)

// Result is the outcome of processing one post.
type Result struct {
	Outcome   Outcome
	Query     metadata.Query
	Record    *metadata.MediaRecord
	CommentID string
}

// Processor resolves and reviews a single post.
type Processor struct {
	extractor *titleparse.Extractor
	primary   PrimarySearch
	crossref  CrossReferencer
	wiki      Encyclopedia
	composer  *review.Composer
	source    feed.Source
	store     *history.Store
	logger    *slog.Logger
}

// ProcessorConfig wires a Processor. Extractor, Primary, Composer, and
// Store are mandatory; CrossRef, Encyclopedia, and Source may be nil,
// disabling enrichment and commenting respectively.
type ProcessorConfig struct {
	Extractor    *titleparse.Extractor
	Primary      PrimarySearch
	CrossRef     CrossReferencer
	Encyclopedia Encyclopedia
	Composer     *review.Composer
	Source       feed.Source
	Store        *history.Store
	Logger       *slog.Logger
}

// NewProcessor validates the wiring and builds a Processor.
func NewProcessor(cfg ProcessorConfig) (*Processor, error) {
	switch {
	case cfg.Extractor == nil:
		return nil, errors.New("pipeline: extractor required")
	case cfg.Primary == nil:
		return nil, errors.New("pipeline: primary search required")
	case cfg.Composer == nil:
		return nil, errors.New("pipeline: composer required")
	case cfg.Store == nil:
		return nil, errors.New("pipeline: history store required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Processor{
		extractor: cfg.Extractor,
		primary:   cfg.Primary,
		crossref:  cfg.CrossRef,
		wiki:      cfg.Encyclopedia,
		composer:  cfg.Composer,
		source:    cfg.Source,
		store:     cfg.Store,
		logger:    logger,
	}, nil
}

// ProcessOne runs the full flow for one post and records the outcome.
// The returned error is non-nil only for provider transport failures and
// history write failures; ordinary misses are outcomes.
func (p *Processor) ProcessOne(ctx context.Context, post feed.Post) (*Result, error) {
	logger := p.logger.With("post_id", post.ID)

	candidate := p.extractor.Extract(post.Title)
	if candidate.Title == "" {
		logger.Info("no title found in post", "title", post.Title)
		return p.finishNoMatch(ctx, post, metadata.Query{})
	}

	query := metadata.Query{Title: candidate.Title, Year: candidate.Year}
	logger = logger.With("query", query.String())

	record, err := p.primary.Lookup(ctx, query)
	switch {
	case err == nil:
		return p.finishExact(ctx, post, query, record, logger)
	case errors.Is(err, metadata.ErrNotFound):
		return p.finishPartialOrNoMatch(ctx, post, query, logger)
	default:
		logger.Warn("primary lookup failed, parking post", "error", err)
		if recordErr := p.record(ctx, post, query, history.StatusWaiting, "", nil); recordErr != nil {
			return nil, recordErr
		}
		return &Result{Outcome: OutcomeWaiting, Query: query}, fmt.Errorf("lookup %q: %w", query.String(), err)
	}
}

func (p *Processor) finishExact(ctx context.Context, post feed.Post, query metadata.Query, record *metadata.MediaRecord, logger *slog.Logger) (*Result, error) {
	refs, article := p.enrich(ctx, record, logger)

	text, err := p.composer.Compose(review.Input{
		Query:     query,
		Record:    record,
		CrossRefs: refs,
		Article:   article,
	})
	if err != nil {
		return nil, fmt.Errorf("compose review: %w", err)
	}

	commentID, err := p.comment(ctx, post, text, logger)
	if err != nil {
		return nil, err
	}

	if err := p.record(ctx, post, query, history.StatusExact, commentID, record); err != nil {
		return nil, err
	}
	p.flair(ctx, post, record, logger)
	logger.Info("review posted", "comment_id", commentID, "imdb_id", record.IMDbID)
	return &Result{Outcome: OutcomeExact, Query: query, Record: record, CommentID: commentID}, nil
}

func (p *Processor) finishPartialOrNoMatch(ctx context.Context, post feed.Post, query metadata.Query, logger *slog.Logger) (*Result, error) {
	results, err := p.primary.Search(ctx, query)
	if err != nil && !errors.Is(err, metadata.ErrNotFound) {
		logger.Warn("similar-title search failed, parking post", "error", err)
		if recordErr := p.record(ctx, post, query, history.StatusWaiting, "", nil); recordErr != nil {
			return nil, recordErr
		}
		return &Result{Outcome: OutcomeWaiting, Query: query}, fmt.Errorf("search %q: %w", query.String(), err)
	}
	if len(results) == 0 {
		logger.Info("no match for query")
		return p.finishNoMatch(ctx, post, query)
	}

	text := p.composer.ComposeDisambiguation(results)
	commentID, err := p.comment(ctx, post, text, logger)
	if err != nil {
		return nil, err
	}

	if err := p.record(ctx, post, query, history.StatusPartial, commentID, nil); err != nil {
		return nil, err
	}
	logger.Info("similar titles posted", "comment_id", commentID, "candidates", len(results))
	return &Result{Outcome: OutcomePartial, Query: query, CommentID: commentID}, nil
}

func (p *Processor) finishNoMatch(ctx context.Context, post feed.Post, query metadata.Query) (*Result, error) {
	if err := p.record(ctx, post, query, history.StatusNoMatch, "", nil); err != nil {
		return nil, err
	}
	return &Result{Outcome: OutcomeNoMatch, Query: query}, nil
}

// Preview resolves a query and composes the review text without posting
// a comment or touching history. Used by the CLI for ad-hoc queries.
func (p *Processor) Preview(ctx context.Context, query metadata.Query) (string, error) {
	record, err := p.primary.Lookup(ctx, query)
	if err != nil {
		return "", fmt.Errorf("lookup %q: %w", query.String(), err)
	}
	refs, article := p.enrich(ctx, record, p.logger)
	return p.composer.Compose(review.Input{
		Query:     query,
		Record:    record,
		CrossRefs: refs,
		Article:   article,
	})
}

// enrich gathers cross-references and the encyclopedia article. Failures
// here degrade the review, never abort it.
func (p *Processor) enrich(ctx context.Context, record *metadata.MediaRecord, logger *slog.Logger) (*metadata.CrossRefs, *wikipedia.Extract) {
	if p.crossref == nil || record.IMDbID == "" {
		return nil, nil
	}
	refs, err := p.crossref.ByIMDbID(ctx, record.IMDbID)
	if err != nil {
		if !metadata.Missing(err) {
			logger.Warn("cross-reference lookup failed", "error", err)
		}
		return nil, nil
	}

	var article *wikipedia.Extract
	if p.wiki != nil && refs.WikipediaURL != "" {
		article, err = p.wiki.ByURL(ctx, refs.WikipediaURL)
		if err != nil {
			if !metadata.Missing(err) {
				logger.Warn("encyclopedia fetch failed", "error", err)
			}
			article = nil
		}
	}
	return refs, article
}

// comment posts the text under the post. Post-property failures (locked,
// deleted, archived) log and return an empty comment id; transport
// failures propagate.
func (p *Processor) comment(ctx context.Context, post feed.Post, text string, logger *slog.Logger) (string, error) {
	if p.source == nil || text == "" {
		return "", nil
	}
	commentID, err := p.source.PostComment(ctx, post.ID, text)
	if err != nil {
		if feed.IgnorableError(err) {
			logger.Info("comment rejected by post state", "error", err)
			return "", nil
		}
		return "", fmt.Errorf("post comment on %s: %w", post.ID, err)
	}
	return commentID, nil
}

// flair labels the post with the resolved title. Flair is cosmetic, so
// failures only log.
func (p *Processor) flair(ctx context.Context, post feed.Post, record *metadata.MediaRecord, logger *slog.Logger) {
	if p.source == nil || record == nil || record.Title == "" {
		return
	}
	label := record.Title
	if record.Year > 0 {
		label = fmt.Sprintf("%s (%d)", record.Title, record.Year)
	}
	if err := p.source.SetFlair(ctx, post.ID, label); err != nil && !feed.IgnorableError(err) {
		logger.Warn("set flair failed", "error", err)
	}
}

func (p *Processor) record(ctx context.Context, post feed.Post, query metadata.Query, status history.Status, commentID string, record *metadata.MediaRecord) error {
	entry := history.Entry{
		PostID:     post.ID,
		PostTitle:  post.Title,
		Status:     status,
		CommentID:  commentID,
		MatchTitle: query.Title,
		MatchYear:  query.Year,
	}
	if record != nil {
		entry.MatchTitle = record.Title
		entry.MatchYear = record.Year
		entry.IMDbID = record.IMDbID
	}
	if err := p.store.Record(ctx, entry); err != nil {
		return fmt.Errorf("record post %s: %w", post.ID, err)
	}
	return nil
}
