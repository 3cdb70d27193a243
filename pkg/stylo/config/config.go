// Package config loads the project configuration from a YAML file.
// The loaded value is immutable and passed explicitly into every
// component that needs it; nothing in the module reads configuration
// through package state.
package config

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/stylo/pkg/stylo/internalerr"
)

// Gutenberg holds the remote source settings.
type Gutenberg struct {
	// URL is the metadata endpoint; a book ID is appended to it.
	URL string `yaml:"url"`

	// TextTag selects the download format: the first format whose
	// content-type label contains this substring is used.
	TextTag string `yaml:"text_tag"`

	// StartMarker and EndMarker delimit the book body inside the
	// downloaded file. Text outside the markers is discarded.
	StartMarker string `yaml:"start_marker"`
	EndMarker   string `yaml:"end_marker"`
}

// Chunking holds the token-window settings for the feature pipeline.
type Chunking struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
	Overlap int  `yaml:"overlap"`
}

// Config is the full project configuration.
type Config struct {
	Gutenberg Gutenberg `yaml:"gutenberg"`

	// Workers bounds the fetch/store worker pool. Zero means one
	// worker per CPU.
	Workers int `yaml:"workers"`

	// TimeoutSeconds caps each remote request. Zero means 30.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	Chunking Chunking `yaml:"chunking"`

	// Authors maps an author name to the book IDs attributed to them.
	Authors map[string][]int `yaml:"authors"`
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file %s: %w", path, internalerr.ErrNotFound)
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	if c.Chunking.Size == 0 && c.Chunking.Overlap == 0 {
		c.Chunking = Chunking{Enabled: true, Size: 500, Overlap: 100}
	}
}

// Validate checks invariants that the rest of the module relies on.
func (c *Config) Validate() error {
	if c.Gutenberg.URL == "" {
		return fmt.Errorf("gutenberg.url is required: %w", internalerr.ErrInvalidConfig)
	}
	if c.Chunking.Size <= 0 {
		return fmt.Errorf("chunking.size must be positive, got %d: %w",
			c.Chunking.Size, internalerr.ErrInvalidConfig)
	}
	if c.Chunking.Overlap < 0 || c.Chunking.Overlap >= c.Chunking.Size {
		return fmt.Errorf("chunking.overlap must be in [0, size), got %d: %w",
			c.Chunking.Overlap, internalerr.ErrInvalidConfig)
	}
	for author, ids := range c.Authors {
		for _, id := range ids {
			if id <= 0 {
				return fmt.Errorf("author %q has non-positive book ID %d: %w",
					author, id, internalerr.ErrInvalidConfig)
			}
		}
	}
	return nil
}

// Timeout returns the per-request deadline.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// BooksByAuthor returns the book IDs configured for an author.
func (c *Config) BooksByAuthor(author string) ([]int, error) {
	ids, ok := c.Authors[author]
	if !ok {
		return nil, fmt.Errorf("author %q: %w", author, internalerr.ErrUnknownAuthor)
	}
	return ids, nil
}
