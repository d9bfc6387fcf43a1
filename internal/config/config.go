// Package config loads the codebench configuration file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/codebench/pkg/roster"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "codebench.yaml"

// Store kinds.
const (
	StoreFile   = "file"
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config is the root of codebench.yaml.
type Config struct {
	// Words is a vocabulary file. Empty means the embedded list.
	Words    string `yaml:"words" json:"words"`
	PoolSize int    `yaml:"pool_size" json:"pool_size"`
	MaxTurns int    `yaml:"max_turns" json:"max_turns"`
	Workers  int    `yaml:"workers" json:"workers"`
	Games    int    `yaml:"games" json:"games"`
	Seed     int64  `yaml:"seed" json:"seed"`

	Store StoreConfig `yaml:"store" json:"store"`

	// ProfilesDir holds one markdown document per player.
	ProfilesDir string           `yaml:"profiles_dir" json:"profiles_dir"`
	Players     []roster.Profile `yaml:"players" json:"players"`
	Agent       AgentConfig      `yaml:"agent" json:"agent"`

	MetricsAddr string   `yaml:"metrics_addr" json:"metrics_addr"`
	LogLevel    string   `yaml:"log_level" json:"log_level"`
	EnvFiles    []string `yaml:"env_files" json:"env_files"`
}

// StoreConfig selects where game results go.
type StoreConfig struct {
	Kind  string      `yaml:"kind" json:"kind"`
	Dir   string      `yaml:"dir" json:"dir"`
	Redis RedisConfig `yaml:"redis" json:"redis"`
}

// RedisConfig configures the redis store.
type RedisConfig struct {
	Addr     string        `yaml:"addr" json:"addr"`
	Password string        `yaml:"password" json:"password"`
	DB       int           `yaml:"db" json:"db"`
	Prefix   string        `yaml:"prefix" json:"prefix"`
	TTL      time.Duration `yaml:"ttl" json:"ttl"`
}

// AgentConfig holds defaults for every LLM player.
type AgentConfig struct {
	Attempts int           `yaml:"attempts" json:"attempts"`
	Timeout  time.Duration `yaml:"timeout" json:"timeout"`
}

// Default returns the configuration used when no file exists: two random
// players, file store under ./logs.
func Default() *Config {
	return &Config{
		PoolSize: 25,
		MaxTurns: 200,
		Workers:  1,
		Games:    1,
		Store: StoreConfig{
			Kind: StoreFile,
			Dir:  "logs",
			Redis: RedisConfig{
				Addr: "localhost:6379",
			},
		},
		Agent: AgentConfig{
			Attempts: 5,
			Timeout:  60 * time.Second,
		},
		LogLevel: "info",
		EnvFiles: []string{".env"},
	}
}

// DefaultPlayers is the roster used when neither players nor a profiles
// directory are configured.
func DefaultPlayers() []roster.Profile {
	return []roster.Profile{
		{Name: "random-a", Kind: roster.KindRandom, Seed: 1},
		{Name: "random-b", Kind: roster.KindRandom, Seed: 2},
	}
}

// Load reads a configuration file (YAML or JSON, by extension) over the
// defaults. A missing file yields the defaults unless required is set.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error
	if c.PoolSize < 0 {
		errs = append(errs, errors.New("pool_size must not be negative"))
	}
	if c.MaxTurns < 0 {
		errs = append(errs, errors.New("max_turns must not be negative"))
	}
	if c.Workers < 1 {
		errs = append(errs, errors.New("workers must be at least 1"))
	}
	if c.Games < 1 {
		errs = append(errs, errors.New("games must be at least 1"))
	}
	switch c.Store.Kind {
	case StoreFile, StoreMemory, StoreRedis:
	default:
		errs = append(errs, fmt.Errorf("unknown store kind %q", c.Store.Kind))
	}
	for _, p := range c.Players {
		if err := p.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LoadEnv loads the configured .env files. Files that do not exist are
// skipped; variables already set in the environment win.
func (c *Config) LoadEnv() error {
	var existing []string
	for _, f := range c.EnvFiles {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env files: %w", err)
	}
	return nil
}
