package config

const (
	defaultDataDir   = "~/.local/share/movieguide"
	defaultLogDir    = "~/.local/share/movieguide/logs"
	defaultLogFormat = "console"
	defaultLogLevel  = "info"

	defaultFeedBaseURL         = "https://www.reddit.com"
	defaultFeedCommunity       = "fullmoviesonyoutube"
	defaultFeedSort            = "new"
	defaultFeedBatchLimit      = 25
	defaultFeedUserAgent       = "movieguide/0.1"
	defaultFeedIntervalSeconds = 2

	defaultOMDbBaseURL         = "https://www.omdbapi.com"
	defaultOMDbIntervalSeconds = 1

	defaultWikidataSparqlURL       = "https://query.wikidata.org/sparql"
	defaultWikidataEntityURL       = "https://www.wikidata.org/wiki/Special:EntityData"
	defaultWikidataIntervalSeconds = 2

	defaultWikipediaBaseURL         = "https://en.wikipedia.org"
	defaultWikipediaIntervalSeconds = 2

	defaultReviewSignature = "^(I am a bot. This comment was posted automatically.)"

	defaultPollIntervalSeconds = 300
	defaultPostPauseSeconds    = 5
	defaultScanBudgetSeconds   = 240
)
