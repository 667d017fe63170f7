package config

import (
	"errors"
	"fmt"
	"regexp"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateFeed(); err != nil {
		return err
	}
	if err := c.validateProviders(); err != nil {
		return err
	}
	if err := c.validateTitleParse(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateFeed() error {
	if c.Feed.Community == "" {
		return errors.New("feed.community must be set")
	}
	switch c.Feed.Sort {
	case "new", "hot", "top":
	default:
		return fmt.Errorf("feed.sort must be one of new, hot, top; got %q", c.Feed.Sort)
	}
	return nil
}

func (c *Config) validateProviders() error {
	if c.Providers.OMDb.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/movieguide/config.toml"
		}
		return fmt.Errorf("providers.omdb.api_key is required. Set OMDB_API_KEY env var or edit %s (create with 'movieguide config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateTitleParse() error {
	for _, pattern := range c.TitleParse.NoiseVocabulary {
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("titleparse.noise_vocabulary entry %q: %w", pattern, err)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format must be console or json; got %q", c.Logging.Format)
	}
}
