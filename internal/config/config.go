// Package config loads service and CLI configuration from an optional file
// and the environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/atul48kumar90/resume-tailor-agent/internal/ats"
	"github.com/atul48kumar90/resume-tailor-agent/internal/diff"
)

// EnvPrefix prefixes every environment override, e.g. RESUME_AGENT_SERVER_PORT.
const EnvPrefix = "RESUME_AGENT"

// Store backends.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Config is the full application configuration. Every field is optional;
// Load fills unset values from Default.
type Config struct {
	Server ServerConfig `mapstructure:"server" json:"server"`
	Log    LogConfig    `mapstructure:"log" json:"log"`

	// Store selects the version store. Empty picks postgres when
	// DatabaseURL is set, sqlite when SQLitePath is set, memory otherwise.
	Store       string `mapstructure:"store" json:"store,omitempty"`
	DatabaseURL string `mapstructure:"database_url" json:"database_url,omitempty"`
	SQLitePath  string `mapstructure:"sqlite_path" json:"sqlite_path,omitempty"`

	Cache CacheConfig `mapstructure:"cache" json:"cache"`

	Diff diff.Options `mapstructure:"diff" json:"diff"`
	ATS  ats.Weights  `mapstructure:"ats" json:"ats"`

	// Template is a LaTeX template path; empty uses the built-in one.
	Template string `mapstructure:"template" json:"template,omitempty"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Port         int           `mapstructure:"port" json:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" json:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" json:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout" json:"idle_timeout"`
}

// LogConfig selects the log encoding and level
type LogConfig struct {
	JSON  bool `mapstructure:"json" json:"json"`
	Debug bool `mapstructure:"debug" json:"debug"`
}

// CacheConfig configures the score cache
type CacheConfig struct {
	RedisURL   string        `mapstructure:"redis_url" json:"redis_url,omitempty"`
	TTL        time.Duration `mapstructure:"ttl" json:"ttl"`
	MaxEntries int           `mapstructure:"max_entries" json:"max_entries"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Cache: CacheConfig{
			TTL:        2 * time.Hour,
			MaxEntries: 1000,
		},
		Diff: diff.DefaultOptions(),
		ATS:  ats.DefaultWeights(),
	}
}

// Load reads configuration from path (YAML, JSON or TOML by extension) when
// it is non-empty, then applies environment overrides. DATABASE_URL and
// REDIS_URL are honoured without the prefix.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range map[string]string{
		"database_url":    "DATABASE_URL",
		"cache.redis_url": "REDIS_URL",
	} {
		if err := v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.idle_timeout", d.Server.IdleTimeout)
	v.SetDefault("log.json", d.Log.JSON)
	v.SetDefault("log.debug", d.Log.Debug)
	v.SetDefault("store", d.Store)
	v.SetDefault("database_url", d.DatabaseURL)
	v.SetDefault("sqlite_path", d.SQLitePath)
	v.SetDefault("cache.redis_url", d.Cache.RedisURL)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.max_entries", d.Cache.MaxEntries)
	v.SetDefault("diff.title_overlap", d.Diff.TitleOverlap)
	v.SetDefault("diff.bullet_similarity", d.Diff.BulletSimilarity)
	v.SetDefault("ats.required", d.ATS.Required)
	v.SetDefault("ats.tools", d.ATS.Tools)
	v.SetDefault("ats.optional", d.ATS.Optional)
	v.SetDefault("ats.exact_credit", d.ATS.ExactCredit)
	v.SetDefault("ats.alias_credit", d.ATS.AliasCredit)
	v.SetDefault("ats.stem_credit", d.ATS.StemCredit)
	v.SetDefault("ats.fuzzy_credit", d.ATS.FuzzyCredit)
	v.SetDefault("ats.required_floor", d.ATS.RequiredFloor)
	v.SetDefault("ats.floor_cap", d.ATS.FloorCap)
	v.SetDefault("template", d.Template)
}

// StoreKind resolves the effective store backend.
func (c *Config) StoreKind() string {
	switch {
	case c.Store != "":
		return strings.ToLower(c.Store)
	case c.DatabaseURL != "":
		return StorePostgres
	case c.SQLitePath != "":
		return StoreSQLite
	default:
		return StoreMemory
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' must be between 0 and 65535")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.IdleTimeout < 0 {
		return fmt.Errorf("config error: server timeouts must be non-negative")
	}

	switch c.StoreKind() {
	case StoreMemory:
	case StoreSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("config error: 'sqlite_path' is required for the sqlite store")
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: 'database_url' is required for the postgres store")
		}
	default:
		return fmt.Errorf("config error: unknown store %q", c.Store)
	}

	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("config error: 'cache.max_entries' must be non-negative")
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("config error: 'cache.ttl' must be non-negative")
	}
	if err := c.Diff.Validate(); err != nil {
		return fmt.Errorf("config error: diff: %w", err)
	}
	if err := c.ATS.Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.Template != "" {
		if _, err := os.Stat(c.Template); os.IsNotExist(err) {
			return fmt.Errorf("config error: template file not found: %s", c.Template)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero fields filled from
// defaults. CLI flags are applied on top of a file config this way.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Store == "" {
		result.Store = defaults.Store
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.SQLitePath == "" {
		result.SQLitePath = defaults.SQLitePath
	}
	if result.Template == "" {
		result.Template = defaults.Template
	}
	if result.Cache.RedisURL == "" {
		result.Cache.RedisURL = defaults.Cache.RedisURL
	}

	// Numeric fields: use default if zero
	if result.Server.Port == 0 {
		result.Server.Port = defaults.Server.Port
	}
	if result.Server.ReadTimeout == 0 {
		result.Server.ReadTimeout = defaults.Server.ReadTimeout
	}
	if result.Server.WriteTimeout == 0 {
		result.Server.WriteTimeout = defaults.Server.WriteTimeout
	}
	if result.Server.IdleTimeout == 0 {
		result.Server.IdleTimeout = defaults.Server.IdleTimeout
	}
	if result.Cache.TTL == 0 {
		result.Cache.TTL = defaults.Cache.TTL
	}
	if result.Cache.MaxEntries == 0 {
		result.Cache.MaxEntries = defaults.Cache.MaxEntries
	}
	if result.Diff == (diff.Options{}) {
		result.Diff = defaults.Diff
	}
	if result.ATS == (ats.Weights{}) {
		result.ATS = defaults.ATS
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	return result
}
