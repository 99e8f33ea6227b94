// Package config provides configuration loading and validation for the server and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/resume-assistant/internal/llm"
	"github.com/jonathan/resume-assistant/internal/tailoring"
)

// Duration is a time.Duration that reads from JSON as "30s" or as seconds.
type Duration time.Duration

// UnmarshalJSON accepts either a Go duration string or a number of seconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := parseDuration(s)
		if err != nil {
			return err
		}
		*d = Duration(parsed)
		return nil
	}
	var secs float64
	if err := json.Unmarshal(data, &secs); err != nil {
		return fmt.Errorf("duration must be a string like \"30s\" or a number of seconds")
	}
	*d = Duration(time.Duration(secs * float64(time.Second)))
	return nil
}

// MarshalJSON writes the duration as a string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}

// Config represents the application configuration that can be loaded from a
// JSON file and overridden from the environment.
type Config struct {
	// Server
	Port           int      `json:"port,omitempty"`
	AllowedOrigins []string `json:"allowed_origins,omitempty"`
	RateLimit      float64  `json:"rate_limit,omitempty"` // Requests per second per client
	RateBurst      int      `json:"rate_burst,omitempty"`
	LogFormat      string   `json:"log_format,omitempty"` // "text" or "json"
	LogLevel       string   `json:"log_level,omitempty"`

	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL; empty uses the in-memory store

	// LLM
	LLMProvider     string   `json:"llm_provider,omitempty"`
	GeminiAPIKey    string   `json:"gemini_api_key,omitempty"`
	AnthropicAPIKey string   `json:"anthropic_api_key,omitempty"`
	LLMTimeout      Duration `json:"llm_timeout,omitempty"`

	// Typesetting
	ScratchDir    string   `json:"scratch_dir,omitempty"`
	PDFLatexPath  string   `json:"pdflatex_path,omitempty"`
	Template      string   `json:"template,omitempty"` // Path to LaTeX template; empty uses the built-in one
	RenderTimeout Duration `json:"render_timeout,omitempty"`
	ScratchMaxAge Duration `json:"scratch_max_age,omitempty"`

	// Tailoring
	TailorPolicy      string `json:"tailor_policy,omitempty"`
	TailorConcurrency int    `json:"tailor_concurrency,omitempty"`

	// Job fetch
	UseBrowser bool `json:"use_browser,omitempty"` // Use headless browser for client-rendered job boards
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		Port:              8080,
		RateLimit:         5,
		RateBurst:         10,
		LogFormat:         "text",
		LogLevel:          "info",
		LLMProvider:       string(llm.ProviderGemini),
		LLMTimeout:        Duration(llm.DefaultTimeout),
		ScratchDir:        filepath.Join(os.TempDir(), "resume-assistant"),
		PDFLatexPath:      "pdflatex",
		RenderTimeout:     Duration(30 * time.Second),
		ScratchMaxAge:     Duration(time.Hour),
		TailorPolicy:      string(tailoring.PolicyStrict),
		TailorConcurrency: tailoring.DefaultConcurrency,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Load builds the effective configuration: defaults, then the optional file
// at path, then environment variables. The result is validated.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// ApplyEnv overrides fields from environment variables looked up with lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("DATABASE_URL", &c.DatabaseURL)
	str("LLM_PROVIDER", &c.LLMProvider)
	str("GEMINI_API_KEY", &c.GeminiAPIKey)
	str("ANTHROPIC_API_KEY", &c.AnthropicAPIKey)
	str("SCRATCH_DIR", &c.ScratchDir)
	str("PDFLATEX_PATH", &c.PDFLatexPath)
	str("RESUME_TEMPLATE", &c.Template)
	str("TAILOR_POLICY", &c.TailorPolicy)
	str("LOG_FORMAT", &c.LogFormat)
	str("LOG_LEVEL", &c.LogLevel)

	if v, ok := lookup("ALLOWED_ORIGINS"); ok && v != "" {
		c.AllowedOrigins = nil
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				c.AllowedOrigins = append(c.AllowedOrigins, origin)
			}
		}
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"PORT", &c.Port},
		{"TAILOR_CONCURRENCY", &c.TailorConcurrency},
		{"RATE_BURST", &c.RateBurst},
	}
	for _, f := range ints {
		if v, ok := lookup(f.key); ok && v != "" {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("config error: %s must be an integer: %w", f.key, err)
			}
			*f.dst = n
		}
	}

	durations := []struct {
		key string
		dst *Duration
	}{
		{"RENDER_TIMEOUT", &c.RenderTimeout},
		{"LLM_TIMEOUT", &c.LLMTimeout},
		{"SCRATCH_MAX_AGE", &c.ScratchMaxAge},
	}
	for _, f := range durations {
		if v, ok := lookup(f.key); ok && v != "" {
			d, err := parseDuration(v)
			if err != nil {
				return fmt.Errorf("config error: %s: %w", f.key, err)
			}
			*f.dst = Duration(d)
		}
	}

	if v, ok := lookup("RATE_LIMIT"); ok && v != "" {
		rate, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("config error: RATE_LIMIT must be a number: %w", err)
		}
		c.RateLimit = rate
	}
	if v, ok := lookup("USE_BROWSER"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config error: USE_BROWSER must be a boolean: %w", err)
		}
		c.UseBrowser = b
	}
	return nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.TailorConcurrency < 0 {
		return fmt.Errorf("config error: 'tailor_concurrency' must be non-negative")
	}
	if c.RateLimit < 0 || c.RateBurst < 0 {
		return fmt.Errorf("config error: 'rate_limit' and 'rate_burst' must be non-negative")
	}
	if c.RenderTimeout < 0 || c.LLMTimeout < 0 || c.ScratchMaxAge < 0 {
		return fmt.Errorf("config error: timeouts must be non-negative")
	}

	switch llm.Provider(c.LLMProvider) {
	case "", llm.ProviderGemini, llm.ProviderAnthropic:
	default:
		return fmt.Errorf("config error: unsupported llm_provider %q", c.LLMProvider)
	}
	if _, err := tailoring.ParsePolicy(c.TailorPolicy); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("config error: 'log_format' must be \"text\" or \"json\"")
	}

	if c.Template != "" {
		if _, err := os.Stat(c.Template); os.IsNotExist(err) {
			return fmt.Errorf("config error: template file not found: %s", c.Template)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	fillString(&result.LogFormat, defaults.LogFormat)
	fillString(&result.LogLevel, defaults.LogLevel)
	fillString(&result.DatabaseURL, defaults.DatabaseURL)
	fillString(&result.LLMProvider, defaults.LLMProvider)
	fillString(&result.GeminiAPIKey, defaults.GeminiAPIKey)
	fillString(&result.AnthropicAPIKey, defaults.AnthropicAPIKey)
	fillString(&result.ScratchDir, defaults.ScratchDir)
	fillString(&result.PDFLatexPath, defaults.PDFLatexPath)
	fillString(&result.Template, defaults.Template)
	fillString(&result.TailorPolicy, defaults.TailorPolicy)

	// Numeric fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.RateLimit == 0 {
		result.RateLimit = defaults.RateLimit
	}
	if result.RateBurst == 0 {
		result.RateBurst = defaults.RateBurst
	}
	if result.TailorConcurrency == 0 {
		result.TailorConcurrency = defaults.TailorConcurrency
	}
	if result.LLMTimeout == 0 {
		result.LLMTimeout = defaults.LLMTimeout
	}
	if result.RenderTimeout == 0 {
		result.RenderTimeout = defaults.RenderTimeout
	}
	if result.ScratchMaxAge == 0 {
		result.ScratchMaxAge = defaults.ScratchMaxAge
	}
	if len(result.AllowedOrigins) == 0 {
		result.AllowedOrigins = defaults.AllowedOrigins
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	return result
}

func fillString(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

// APIKey returns the key for the configured LLM provider.
func (c *Config) APIKey() string {
	if llm.Provider(c.LLMProvider) == llm.ProviderAnthropic {
		return c.AnthropicAPIKey
	}
	return c.GeminiAPIKey
}

// LLMConfig returns the provider configuration with the configured timeout.
func (c *Config) LLMConfig() *llm.Config {
	cfg := llm.ConfigFor(llm.Provider(c.LLMProvider))
	if c.LLMTimeout > 0 {
		cfg.Timeout = time.Duration(c.LLMTimeout)
	}
	return cfg
}

// ResumeScratchDir is the scratch directory for typeset resumes.
func (c *Config) ResumeScratchDir() string {
	return filepath.Join(c.ScratchDir, "resumes")
}

// LetterScratchDir is the scratch directory for cover letters.
func (c *Config) LetterScratchDir() string {
	return filepath.Join(c.ScratchDir, "cover_letters")
}
