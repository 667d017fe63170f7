package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Feed contains configuration for the post listing the bot scans.
type Feed struct {
	BaseURL         string `toml:"base_url"`
	Community       string `toml:"community"`
	Sort            string `toml:"sort"`
	BatchLimit      int    `toml:"batch_limit"`
	UserAgent       string `toml:"user_agent"`
	AuthToken       string `toml:"auth_token"`
	SkipNSFW        bool   `toml:"skip_nsfw"`
	IntervalSeconds int    `toml:"request_interval_seconds"`
}

// OMDb contains configuration for the primary metadata source.
type OMDb struct {
	BaseURL         string `toml:"base_url"`
	APIKey          string `toml:"api_key"`
	IntervalSeconds int    `toml:"request_interval_seconds"`
}

// Wikidata contains configuration for the cross-reference provider.
type Wikidata struct {
	Enabled         bool   `toml:"enabled"`
	SparqlURL       string `toml:"sparql_url"`
	EntityURL       string `toml:"entity_url"`
	IntervalSeconds int    `toml:"request_interval_seconds"`
}

// Wikipedia contains configuration for the encyclopedia provider.
type Wikipedia struct {
	Enabled         bool   `toml:"enabled"`
	BaseURL         string `toml:"base_url"`
	IntervalSeconds int    `toml:"request_interval_seconds"`
}

// Providers groups the metadata source settings.
type Providers struct {
	OMDb      OMDb      `toml:"omdb"`
	Wikidata  Wikidata  `toml:"wikidata"`
	Wikipedia Wikipedia `toml:"wikipedia"`
}

// TitleParse contains configuration for title extraction.
type TitleParse struct {
	// NoiseVocabulary overrides the built-in noise patterns when non-empty.
	NoiseVocabulary []string `toml:"noise_vocabulary"`
}

// Review contains configuration for comment composition.
type Review struct {
	Signature string `toml:"signature"`
}

// Workflow contains daemon timing configuration, in seconds.
type Workflow struct {
	PollInterval int  `toml:"poll_interval"`
	PostPause    int  `toml:"post_pause"`
	ScanBudget   int  `toml:"scan_budget"`
	RetryWaiting bool `toml:"retry_waiting"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for movieguide.
type Config struct {
	Paths      Paths      `toml:"paths"`
	Feed       Feed       `toml:"feed"`
	Providers  Providers  `toml:"providers"`
	TitleParse TitleParse `toml:"titleparse"`
	Review     Review     `toml:"review"`
	Workflow   Workflow   `toml:"workflow"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/movieguide/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a file was actually found at the resolved path.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("movieguide.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// HistoryDBPath returns the SQLite history database location.
func (c *Config) HistoryDBPath() string {
	return filepath.Join(c.Paths.DataDir, "history.db")
}

// LockPath returns the daemon lock file location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "movieguided.lock")
}

// LogFilePath returns the daemon log file location.
func (c *Config) LogFilePath() string {
	return filepath.Join(c.Paths.LogDir, "movieguide.log")
}

// CreateSample writes a sample configuration file to the specified
// location, refusing to overwrite an existing file.
func CreateSample(path string) (string, error) {
	expanded, err := expandPath(path)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(expanded); err == nil {
		return "", fmt.Errorf("config file already exists at %s", expanded)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return "", fmt.Errorf("write sample config: %w", err)
	}
	return expanded, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
