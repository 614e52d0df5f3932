// Package config holds the settings of the splitdiff command.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
	"znkr.io/splitdiff/sidebyside"
)

type Config struct {
	Diff   DiffConfig   `yaml:"diff"`
	Render RenderConfig `yaml:"render"`
	Server ServerConfig `yaml:"server"`
}

type DiffConfig struct {
	Refine     string `yaml:"refine"`      // tokens, ranges or none
	MaxLines   int    `yaml:"max_lines"`   // per side, 0 disables the limit
	ChunkLines int    `yaml:"chunk_lines"` // 0 diffs the whole input at once
	Workers    int    `yaml:"workers"`
}

type RenderConfig struct {
	Lang   string `yaml:"lang"` // empty picks the lexer from the file name
	Minify bool   `yaml:"minify"`
}

type ServerConfig struct {
	Listen          string        `yaml:"listen"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	MaxBodySize     int64         `yaml:"max_body_size"`
	RateLimitPerSec float64       `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int           `yaml:"rate_limit_burst"`
}

func Defaults() *Config {
	return &Config{
		Diff: DiffConfig{
			Refine:   sidebyside.TokenAlignment.String(),
			MaxLines: 100_000,
			Workers:  4,
		},
		Server: ServerConfig{
			Listen:          "localhost:8080",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			MaxBodySize:     4 << 20, // 4MB
			RateLimitPerSec: 10,
			RateLimitBurst:  20,
		},
	}
}

// Load reads the config file at path. Environment variables in the file are expanded, values that
// aren't set keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %v", err)
	}
	return Parse(data)
}

// Parse is like [Load] but takes the contents of the config file.
func Parse(data []byte) (*Config, error) {
	cfg := Defaults()
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %v", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, ok := sidebyside.ParseStrategy(c.Diff.Refine); !ok {
		return fmt.Errorf("diff.refine must be one of tokens, ranges, none, got %q", c.Diff.Refine)
	}
	if c.Diff.MaxLines < 0 {
		return fmt.Errorf("diff.max_lines must not be negative")
	}
	if c.Diff.ChunkLines < 0 {
		return fmt.Errorf("diff.chunk_lines must not be negative")
	}
	if c.Diff.Workers < 1 {
		return fmt.Errorf("diff.workers must be at least 1")
	}
	if c.Server.Listen == "" {
		return fmt.Errorf("server.listen is required")
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive")
	}
	if c.Server.MaxBodySize <= 0 {
		return fmt.Errorf("server.max_body_size must be positive")
	}
	if c.Server.RateLimitPerSec <= 0 {
		return fmt.Errorf("server.rate_limit_per_sec must be positive")
	}
	if c.Server.RateLimitBurst < 1 {
		return fmt.Errorf("server.rate_limit_burst must be at least 1")
	}
	return nil
}

// Strategy returns the refinement strategy named by Diff.Refine. It must only be called on a valid
// config.
func (c *Config) Strategy() sidebyside.Strategy {
	s, _ := sidebyside.ParseStrategy(c.Diff.Refine)
	return s
}
