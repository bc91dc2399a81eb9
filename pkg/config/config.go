// Package config loads the nomiki configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/coolbeans/nomiki/pkg/bookmark"
	"github.com/coolbeans/nomiki/pkg/extract"
	"github.com/coolbeans/nomiki/pkg/inbox"
	"github.com/coolbeans/nomiki/pkg/lawdb"
	"github.com/coolbeans/nomiki/pkg/welcome"
)

// Environment variables that override the file.
const (
	EnvDataDir       = "NOMIKI_DATA_DIR"
	EnvValidatorMode = "NOMIKI_VALIDATOR_MODE"
)

type Config struct {
	DataDir         string `yaml:"data_dir"`
	LawDatabase     string `yaml:"law_database"`
	Bookmarks       string `yaml:"bookmarks"`
	WelcomeMessages string `yaml:"welcome_messages"`
	RulesFile       string `yaml:"rules_file"`

	Extraction struct {
		StrictPenalty bool `yaml:"strict_penalty"`
	} `yaml:"extraction"`

	Validator struct {
		Mode string `yaml:"mode"`
	} `yaml:"validator"`

	Updater struct {
		RateLimit  float64        `yaml:"rate_limit"`
		Timeout    time.Duration  `yaml:"timeout"`
		UserAgent  string         `yaml:"user_agent"`
		SourcesDir string         `yaml:"sources_dir"`
		Sources    []lawdb.Source `yaml:"sources"`
	} `yaml:"updater"`

	Inbox struct {
		Dir      string        `yaml:"dir"`
		Patterns []string      `yaml:"patterns"`
		Debounce time.Duration `yaml:"debounce"`
	} `yaml:"inbox"`

	// Path is the file the configuration was read from, if any.
	Path string `yaml:"-"`
}

// DefaultLocations are searched in order when no path is given.
func DefaultLocations() []string {
	return []string{
		"nomiki.yaml",
		"nomiki.yml",
		filepath.Join(os.Getenv("HOME"), ".config/nomiki/config.yaml"),
	}
}

// Load reads the configuration at path. An empty path tries the default
// locations and falls back to the defaults when none exists.
func Load(path string) (*Config, error) {
	if path == "" {
		for _, loc := range DefaultLocations() {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	config := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		config.Path = path
	}

	mergeWithEnv(config)
	applyDefaults(config)
	return config, nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	config := &Config{}
	mergeWithEnv(config)
	applyDefaults(config)
	return config
}

func applyDefaults(config *Config) {
	if config.DataDir == "" {
		config.DataDir = "data"
	}
	if config.LawDatabase == "" {
		config.LawDatabase = filepath.Join(config.DataDir, lawdb.DefaultFileName)
	}
	if config.Bookmarks == "" {
		config.Bookmarks = filepath.Join(config.DataDir, bookmark.DefaultFileName)
	}
	if config.WelcomeMessages == "" {
		config.WelcomeMessages = filepath.Join(config.DataDir, welcome.DefaultFileName)
	}

	if config.Validator.Mode == "" {
		config.Validator.Mode = "directional"
	}

	if config.Updater.RateLimit == 0 {
		config.Updater.RateLimit = 1
	}
	if config.Updater.Timeout == 0 {
		config.Updater.Timeout = 30 * time.Second
	}
	if config.Updater.SourcesDir == "" {
		config.Updater.SourcesDir = "sources"
	}

	if config.Inbox.Dir == "" {
		config.Inbox.Dir = filepath.Join(config.DataDir, "inbox")
	}
	if len(config.Inbox.Patterns) == 0 {
		config.Inbox.Patterns = append([]string(nil), inbox.DefaultPatterns...)
	}
	if config.Inbox.Debounce == 0 {
		config.Inbox.Debounce = inbox.DefaultDebounce
	}
}

func mergeWithEnv(config *Config) {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		config.DataDir = dir
	}
	if mode := os.Getenv(EnvValidatorMode); mode != "" {
		config.Validator.Mode = mode
	}
}

// Sources returns the configured updater sources, or the bundled documents
// under the sources directory when none are configured.
func (c *Config) Sources() []lawdb.Source {
	if len(c.Updater.Sources) > 0 {
		return c.Updater.Sources
	}
	return lawdb.DefaultSources(c.Updater.SourcesDir)
}

// FetcherConfig returns the HTML fetcher settings.
func (c *Config) FetcherConfig() lawdb.HTMLFetcherConfig {
	return lawdb.HTMLFetcherConfig{
		RateLimit: c.Updater.RateLimit,
		Timeout:   c.Updater.Timeout,
		UserAgent: c.Updater.UserAgent,
	}
}

// Extractor builds the article extractor: the built-in rules followed by the
// rules of the rules file, if one is configured.
func (c *Config) Extractor() (*extract.Extractor, error) {
	rules := extract.DefaultRules(c.Extraction.StrictPenalty)
	if c.RulesFile != "" {
		extra, err := extract.LoadRuleFile(c.RulesFile)
		if err != nil {
			return nil, err
		}
		rules.Add(extra...)
	}
	return extract.NewExtractor(rules), nil
}
