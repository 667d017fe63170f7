package config

import (
	"fmt"
	"os"
	"strings"
)

// Default returns the repository default configuration. Paths are not yet
// expanded; Load handles that through normalize.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Feed: Feed{
			BaseURL:         defaultFeedBaseURL,
			Community:       defaultFeedCommunity,
			Sort:            defaultFeedSort,
			BatchLimit:      defaultFeedBatchLimit,
			UserAgent:       defaultFeedUserAgent,
			SkipNSFW:        false,
			IntervalSeconds: defaultFeedIntervalSeconds,
		},
		Providers: Providers{
			OMDb: OMDb{
				BaseURL:         defaultOMDbBaseURL,
				IntervalSeconds: defaultOMDbIntervalSeconds,
			},
			Wikidata: Wikidata{
				Enabled:         true,
				SparqlURL:       defaultWikidataSparqlURL,
				EntityURL:       defaultWikidataEntityURL,
				IntervalSeconds: defaultWikidataIntervalSeconds,
			},
			Wikipedia: Wikipedia{
				Enabled:         true,
				BaseURL:         defaultWikipediaBaseURL,
				IntervalSeconds: defaultWikipediaIntervalSeconds,
			},
		},
		Review: Review{
			Signature: defaultReviewSignature,
		},
		Workflow: Workflow{
			PollInterval: defaultPollIntervalSeconds,
			PostPause:    defaultPostPauseSeconds,
			ScanBudget:   defaultScanBudgetSeconds,
			RetryWaiting: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeFeed()
	c.normalizeProviders()
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeFeed() {
	c.Feed.BaseURL = strings.TrimRight(strings.TrimSpace(c.Feed.BaseURL), "/")
	if c.Feed.BaseURL == "" {
		c.Feed.BaseURL = defaultFeedBaseURL
	}
	c.Feed.Community = strings.Trim(strings.TrimSpace(c.Feed.Community), "/")
	c.Feed.Sort = strings.ToLower(strings.TrimSpace(c.Feed.Sort))
	if c.Feed.Sort == "" {
		c.Feed.Sort = defaultFeedSort
	}
	if c.Feed.BatchLimit <= 0 {
		c.Feed.BatchLimit = defaultFeedBatchLimit
	}
	if strings.TrimSpace(c.Feed.UserAgent) == "" {
		c.Feed.UserAgent = defaultFeedUserAgent
	}
	if c.Feed.AuthToken == "" {
		if value, ok := os.LookupEnv("FEED_AUTH_TOKEN"); ok {
			c.Feed.AuthToken = strings.TrimSpace(value)
		}
	}
	if c.Feed.IntervalSeconds <= 0 {
		c.Feed.IntervalSeconds = defaultFeedIntervalSeconds
	}
}

func (c *Config) normalizeProviders() {
	omdb := &c.Providers.OMDb
	omdb.BaseURL = strings.TrimRight(strings.TrimSpace(omdb.BaseURL), "/")
	if omdb.BaseURL == "" {
		omdb.BaseURL = defaultOMDbBaseURL
	}
	if omdb.APIKey == "" {
		if value, ok := os.LookupEnv("OMDB_API_KEY"); ok {
			omdb.APIKey = strings.TrimSpace(value)
		}
	}
	if omdb.IntervalSeconds <= 0 {
		omdb.IntervalSeconds = defaultOMDbIntervalSeconds
	}

	wikidata := &c.Providers.Wikidata
	wikidata.SparqlURL = strings.TrimSpace(wikidata.SparqlURL)
	if wikidata.SparqlURL == "" {
		wikidata.SparqlURL = defaultWikidataSparqlURL
	}
	wikidata.EntityURL = strings.TrimSpace(wikidata.EntityURL)
	if wikidata.EntityURL == "" {
		wikidata.EntityURL = defaultWikidataEntityURL
	}
	if wikidata.IntervalSeconds <= 0 {
		wikidata.IntervalSeconds = defaultWikidataIntervalSeconds
	}

	wikipedia := &c.Providers.Wikipedia
	wikipedia.BaseURL = strings.TrimSpace(wikipedia.BaseURL)
	if wikipedia.BaseURL == "" {
		wikipedia.BaseURL = defaultWikipediaBaseURL
	}
	if wikipedia.IntervalSeconds <= 0 {
		wikipedia.IntervalSeconds = defaultWikipediaIntervalSeconds
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.PollInterval <= 0 {
		c.Workflow.PollInterval = defaultPollIntervalSeconds
	}
	if c.Workflow.PostPause < 0 {
		c.Workflow.PostPause = defaultPostPauseSeconds
	}
	if c.Workflow.ScanBudget < 0 {
		c.Workflow.ScanBudget = defaultScanBudgetSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
