package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"znkr.io/splitdiff/sidebyside"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults are invalid: %v", err)
	}
	if got := cfg.Strategy(); got != sidebyside.TokenAlignment {
		t.Errorf("default strategy = %v, want tokens", got)
	}
	if cfg.Diff.ChunkLines != 0 {
		t.Errorf("chunked diffing is enabled by default")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errSub string
	}{
		{
			name:   "unknown refine",
			modify: func(c *Config) { c.Diff.Refine = "words" },
			errSub: "diff.refine",
		},
		{
			name:   "negative max lines",
			modify: func(c *Config) { c.Diff.MaxLines = -1 },
			errSub: "diff.max_lines",
		},
		{
			name:   "negative chunk lines",
			modify: func(c *Config) { c.Diff.ChunkLines = -1 },
			errSub: "diff.chunk_lines",
		},
		{
			name:   "zero workers",
			modify: func(c *Config) { c.Diff.Workers = 0 },
			errSub: "diff.workers",
		},
		{
			name:   "empty listen",
			modify: func(c *Config) { c.Server.Listen = "" },
			errSub: "server.listen",
		},
		{
			name:   "zero read timeout",
			modify: func(c *Config) { c.Server.ReadTimeout = 0 },
			errSub: "server.read_timeout",
		},
		{
			name:   "zero write timeout",
			modify: func(c *Config) { c.Server.WriteTimeout = 0 },
			errSub: "server.write_timeout",
		},
		{
			name:   "zero max body size",
			modify: func(c *Config) { c.Server.MaxBodySize = 0 },
			errSub: "server.max_body_size",
		},
		{
			name:   "negative rate limit",
			modify: func(c *Config) { c.Server.RateLimitPerSec = -1 },
			errSub: "server.rate_limit_per_sec",
		},
		{
			name:   "zero rate limit burst",
			modify: func(c *Config) { c.Server.RateLimitBurst = 0 },
			errSub: "server.rate_limit_burst",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errSub) {
				t.Errorf("error %q doesn't mention %q", err, tt.errSub)
			}
		})
	}
}

func TestParse(t *testing.T) {
	t.Setenv("SPLITDIFF_TEST_LANG", "go")
	data := `
diff:
  refine: ranges
  chunk_lines: 500
render:
  lang: ${SPLITDIFF_TEST_LANG}
  minify: true
server:
  listen: ":9000"
  read_timeout: 5s
`
	got, err := Parse([]byte(data))
	if err != nil {
		t.Fatal(err)
	}

	want := Defaults()
	want.Diff.Refine = "ranges"
	want.Diff.ChunkLines = 500
	want.Render = RenderConfig{Lang: "go", Minify: true}
	want.Server.Listen = ":9000"
	want.Server.ReadTimeout = 5 * time.Second
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config is different (-want, +got):\n%s", diff)
	}
	if got.Strategy() != sidebyside.RangeDetection {
		t.Errorf("Strategy() = %v, want ranges", got.Strategy())
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		errSub string
	}{
		{"syntax", "diff: [", "parse config"},
		{"validation", "diff:\n  workers: 0\n", "diff.workers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errSub) {
				t.Errorf("error %q doesn't mention %q", err, tt.errSub)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "splitdiff.yaml")
	if err := os.WriteFile(path, []byte("diff:\n  max_lines: 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Diff.MaxLines != 10 {
		t.Errorf("max_lines = %d, want 10", cfg.Diff.MaxLines)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("loading a missing file succeeded")
	}
}
