package pipeline

import (
	"fmt"
	"log/slog"
	"time"

	"movieguide/internal/config"
	"movieguide/internal/feed"
	"movieguide/internal/history"
	"movieguide/internal/metadata/omdb"
	"movieguide/internal/metadata/wikidata"
	"movieguide/internal/metadata/wikipedia"
	"movieguide/internal/ratelimit"
	"movieguide/internal/review"
	"movieguide/internal/titleparse"
)

var (
	_ PrimarySearch   = (*omdb.Client)(nil)
	_ CrossReferencer = (*wikidata.Client)(nil)
	_ Encyclopedia    = (*wikipedia.Client)(nil)
)

// FromConfig wires every provider client, the processor, and the runner
// from application configuration. Disabled enrichment providers are left
// nil; the processor degrades accordingly.
func FromConfig(cfg *config.Config, store *history.Store, logger *slog.Logger) (*Runner, error) {
	processor, source, err := processorFromConfig(cfg, store, logger)
	if err != nil {
		return nil, err
	}

	sort, err := feed.ParseSortMode(cfg.Feed.Sort)
	if err != nil {
		return nil, err
	}
	return NewRunner(processor, source, store, RunnerConfig{
		Sort:         sort,
		BatchLimit:   cfg.Feed.BatchLimit,
		Pause:        time.Duration(cfg.Workflow.PostPause) * time.Second,
		Budget:       time.Duration(cfg.Workflow.ScanBudget) * time.Second,
		RetryWaiting: cfg.Workflow.RetryWaiting,
		SkipNSFW:     cfg.Feed.SkipNSFW,
	}, logger)
}

// ProcessorFromConfig wires only the single-post flow, for one-shot CLI
// use against an ad-hoc post.
func ProcessorFromConfig(cfg *config.Config, store *history.Store, logger *slog.Logger) (*Processor, error) {
	processor, _, err := processorFromConfig(cfg, store, logger)
	return processor, err
}

func processorFromConfig(cfg *config.Config, store *history.Store, logger *slog.Logger) (*Processor, feed.Source, error) {
	extractor, err := extractorFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	primary, err := omdb.New(
		cfg.Providers.OMDb.BaseURL,
		cfg.Providers.OMDb.APIKey,
		ratelimit.New(time.Duration(cfg.Providers.OMDb.IntervalSeconds)*time.Second),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("omdb client: %w", err)
	}

	var wikiClient *wikipedia.Client
	var encyclopedia Encyclopedia
	if cfg.Providers.Wikipedia.Enabled {
		wikiClient, err = wikipedia.New(
			cfg.Providers.Wikipedia.BaseURL,
			ratelimit.New(time.Duration(cfg.Providers.Wikipedia.IntervalSeconds)*time.Second),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("wikipedia client: %w", err)
		}
		encyclopedia = wikiClient
	}

	var crossref CrossReferencer
	if cfg.Providers.Wikidata.Enabled {
		client, err := wikidata.New(
			cfg.Providers.Wikidata.SparqlURL,
			cfg.Providers.Wikidata.EntityURL,
			cfg.Providers.Wikipedia.BaseURL,
			ratelimit.New(time.Duration(cfg.Providers.Wikidata.IntervalSeconds)*time.Second),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("wikidata client: %w", err)
		}
		crossref = client
	}

	source, err := feed.New(
		cfg.Feed.BaseURL,
		cfg.Feed.Community,
		ratelimit.New(time.Duration(cfg.Feed.IntervalSeconds)*time.Second),
		feed.WithUserAgent(cfg.Feed.UserAgent),
		feed.WithAuthToken(cfg.Feed.AuthToken),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("feed client: %w", err)
	}

	processor, err := NewProcessor(ProcessorConfig{
		Extractor:    extractor,
		Primary:      primary,
		CrossRef:     crossref,
		Encyclopedia: encyclopedia,
		Composer:     review.NewComposer(cfg.Review.Signature, nil),
		Source:       source,
		Store:        store,
		Logger:       logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return processor, source, nil
}

func extractorFromConfig(cfg *config.Config) (*titleparse.Extractor, error) {
	if len(cfg.TitleParse.NoiseVocabulary) == 0 {
		return titleparse.MustDefault(), nil
	}
	extractor, err := titleparse.New(cfg.TitleParse.NoiseVocabulary)
	if err != nil {
		return nil, fmt.Errorf("titleparse vocabulary: %w", err)
	}
	return extractor, nil
}
