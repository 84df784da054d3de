// Package config loads commitgen configuration from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration errors.
var (
	ErrInvalidConfig = errors.New("invalid config")
)

// Backend names accepted in configuration.
const (
	BackendClaude = "claude"
	BackendOllama = "ollama"
	BackendGemini = "gemini"
)

// Defaults.
const (
	DefaultBackend        = BackendClaude
	DefaultTimeoutSeconds = 45
	DefaultMaxDiffChars   = 3000
)

// Models names the two model roles: a fast model for per-file analysis and a
// quality model for final synthesis. Empty values fall back to the selected
// backend's defaults.
type Models struct {
	Analysis  string `yaml:"analysis"`
	Synthesis string `yaml:"synthesis"`
}

// Ollama holds settings for the local inference server backend.
type Ollama struct {
	Host string `yaml:"host"` // empty means http://localhost:11434
}

// Claude holds settings for the subscription CLI backend.
type Claude struct {
	Command string `yaml:"command"` // empty means "claude"
}

// Gemini holds settings for the Gemini API backend. The API key is normally
// taken from the GEMINI_API_KEY environment variable instead.
type Gemini struct {
	APIKey string `yaml:"api_key"`
}

// Config is the full application configuration, passed explicitly into
// constructors rather than read from globals.
type Config struct {
	Backend        string `yaml:"backend"`
	Models         Models `yaml:"models"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxDiffChars   int    `yaml:"max_diff_chars"`
	Push           bool   `yaml:"push"`
	Ollama         Ollama `yaml:"ollama"`
	Claude         Claude `yaml:"claude"`
	Gemini         Gemini `yaml:"gemini"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Backend:        DefaultBackend,
		TimeoutSeconds: DefaultTimeoutSeconds,
		MaxDiffChars:   DefaultMaxDiffChars,
	}
}

// DefaultPath returns the standard config file location,
// ~/.config/commitgen/config.yaml (respecting XDG on Linux).
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "commitgen", "config.yaml")
}

// Load reads configuration from path, layering file values over defaults and
// environment overrides over both. A missing file is not an error; an
// unreadable or invalid one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// fine, defaults apply
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv layers environment variables over the loaded values.
func (c *Config) applyEnv() {
	if v := os.Getenv("COMMITGEN_BACKEND"); v != "" {
		c.Backend = v
	}
	if v := os.Getenv("COMMITGEN_ANALYSIS_MODEL"); v != "" {
		c.Models.Analysis = v
	}
	if v := os.Getenv("COMMITGEN_SYNTHESIS_MODEL"); v != "" {
		c.Models.Synthesis = v
	}
	if v := os.Getenv("OLLAMA_HOST"); v != "" {
		c.Ollama.Host = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Gemini.APIKey = v
	}
}

// Validate checks the configuration for values the rest of the program
// cannot work with.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendClaude, BackendOllama, BackendGemini:
	default:
		return fmt.Errorf("%w: unknown backend %q (want %s, %s or %s)",
			ErrInvalidConfig, c.Backend, BackendClaude, BackendOllama, BackendGemini)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: timeout_seconds must be positive", ErrInvalidConfig)
	}
	if c.MaxDiffChars <= 0 {
		return fmt.Errorf("%w: max_diff_chars must be positive", ErrInvalidConfig)
	}
	return nil
}

// Timeout returns the per-call backend timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
