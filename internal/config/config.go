// Package config loads the layered application configuration: defaults,
// then a yaml file, then OMNISHOP_* environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/omnishop/omnishop/internal/corpus"
	omnierr "github.com/omnishop/omnishop/internal/errors"
	"github.com/omnishop/omnishop/internal/logging"
	"github.com/omnishop/omnishop/internal/search"
	"github.com/omnishop/omnishop/internal/store"
)

// CorpusConfig controls corpus location and parsing policy.
type CorpusConfig struct {
	// Path is the corpus markdown file.
	Path string `yaml:"path"`

	// PricePolicy is "first-above-threshold" or "minimum".
	PricePolicy string `yaml:"price_policy"`

	// MinPlausiblePrice rejects digit fragments below this value.
	MinPlausiblePrice float64 `yaml:"min_plausible_price"`
}

// IndexConfig controls index construction.
type IndexConfig struct {
	// Strategy is "single" or "by-source".
	Strategy string `yaml:"strategy"`

	// DataDir holds the record database and blob cache.
	DataDir string `yaml:"data_dir"`

	// EnableSemantic builds the vector store during indexing.
	EnableSemantic bool `yaml:"enable_semantic"`

	// EmbeddingCacheSize bounds the in-memory embedding LRU.
	EmbeddingCacheSize int `yaml:"embedding_cache_size"`

	// StopWords replaces the built-in marketing stop-word list.
	StopWords []string `yaml:"stop_words"`

	// MinTokenLength drops index and query tokens shorter than this.
	MinTokenLength int `yaml:"min_token_length"`
}

// Config is the root configuration.
type Config struct {
	Corpus  CorpusConfig   `yaml:"corpus"`
	Index   IndexConfig    `yaml:"index"`
	Search  search.Config  `yaml:"search"`
	Logging logging.Config `yaml:"logging"`
}

// Default returns the documented defaults.
func Default() *Config {
	return &Config{
		Corpus: CorpusConfig{
			PricePolicy:       string(corpus.PolicyFirstAboveThreshold),
			MinPlausiblePrice: corpus.DefaultMinPlausiblePrice,
		},
		Index: IndexConfig{
			Strategy:           string(store.StrategySingle),
			DataDir:            defaultDataDir(),
			EnableSemantic:     true,
			EmbeddingCacheSize: 4096,
			MinTokenLength:     1,
		},
		Search:  search.DefaultConfig(),
		Logging: logging.DefaultConfig(),
	}
}

// Load builds the effective configuration. A missing file at the default
// location is fine; an explicitly requested file must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if path == "" {
		path = filepath.Join(defaultDataDir(), "config.yaml")
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, omnierr.ConfigError(fmt.Sprintf("failed to parse config %s", path), err)
		}
	case os.IsNotExist(err) && !explicit:
		// Defaults only
	default:
		return nil, omnierr.New(omnierr.ErrCodeConfigNotFound,
			fmt.Sprintf("failed to read config %s", path), err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides layers OMNISHOP_* variables over the file values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OMNISHOP_CORPUS"); v != "" {
		cfg.Corpus.Path = v
	}
	if v := os.Getenv("OMNISHOP_PRICE_POLICY"); v != "" {
		cfg.Corpus.PricePolicy = v
	}
	if v := os.Getenv("OMNISHOP_DATA_DIR"); v != "" {
		cfg.Index.DataDir = v
	}
	if v := os.Getenv("OMNISHOP_INDEX_STRATEGY"); v != "" {
		cfg.Index.Strategy = v
	}
	if v := os.Getenv("OMNISHOP_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("OMNISHOP_SEMANTIC"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Index.EnableSemantic = b
		}
	}
}

// Validate rejects configurations the engine cannot honor.
func (c *Config) Validate() error {
	switch corpus.PricePolicy(c.Corpus.PricePolicy) {
	case corpus.PolicyFirstAboveThreshold, corpus.PolicyMinimum:
	default:
		return omnierr.ConfigError(fmt.Sprintf("invalid price_policy %q", c.Corpus.PricePolicy), nil)
	}

	switch store.PartitionStrategy(c.Index.Strategy) {
	case store.StrategySingle, store.StrategyBySource:
	default:
		return omnierr.ConfigError(fmt.Sprintf("invalid index strategy %q", c.Index.Strategy), nil)
	}

	if c.Search.Weights.Semantic < 0 || c.Search.Weights.Lexical < 0 {
		return omnierr.ConfigError("fusion weights must be non-negative", nil)
	}
	if c.Search.SiblingCap < 0 || c.Search.SeedCount < 0 {
		return omnierr.ConfigError("graph expansion bounds must be non-negative", nil)
	}
	return nil
}

// ParserConfig derives the corpus parser configuration.
func (c *Config) ParserConfig() corpus.ParserConfig {
	return corpus.ParserConfig{
		PricePolicy:       corpus.PricePolicy(c.Corpus.PricePolicy),
		MinPlausiblePrice: c.Corpus.MinPlausiblePrice,
	}
}

// LexicalConfig derives the lexical analysis configuration.
func (c *Config) LexicalConfig() store.LexicalConfig {
	lc := store.DefaultLexicalConfig()
	if len(c.Index.StopWords) > 0 {
		lc.StopWords = c.Index.StopWords
	}
	if c.Index.MinTokenLength > 0 {
		lc.MinTokenLength = c.Index.MinTokenLength
	}
	return lc
}

// PartitionBySource reports whether the by-source strategy is active.
func (c *Config) PartitionBySource() bool {
	return store.PartitionStrategy(c.Index.Strategy) == store.StrategyBySource
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".omnishop"
	}
	return filepath.Join(home, ".omnishop")
}
