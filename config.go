package parsekit

import (
	"strings"
	"time"
)

// Config holds every tunable of the extraction core and its boundaries.
type Config struct {
	HTTP       HTTPConfig              `yaml:"http"`
	RateLimit  RateLimitConfig         `yaml:"rateLimit"`
	Extraction ExtractionConfig        `yaml:"extraction"`
	Parsers    map[string]ParserConfig `yaml:"parsers"`
	Batch      BatchConfig             `yaml:"batch"`
	Log        LogConfig               `yaml:"log"`
	Server     ServerConfig            `yaml:"server"`
}

// HTTPConfig configures the resilient fetcher.
type HTTPConfig struct {
	Timeout           time.Duration     `yaml:"timeout"`
	MaxAttempts       int               `yaml:"maxAttempts"`
	BackoffBaseDelay  time.Duration     `yaml:"backoffBaseDelay"`
	BackoffMultiplier float64           `yaml:"backoffMultiplier"`
	RetryableStatuses []int             `yaml:"retryableStatuses"`
	UserAgents        []string          `yaml:"userAgents"`
	DefaultHeaders    map[string]string `yaml:"defaultHeaders"`

	// HostRate is the per-host request rate in requests per second.
	// Zero disables pacing.
	HostRate float64 `yaml:"hostRate"`
}

// WindowConfig is the file representation of a RateLimit.
type WindowConfig struct {
	ShortLimit         int `yaml:"shortLimit"`
	ShortWindowSeconds int `yaml:"shortWindowSeconds"`
	LongLimit          int `yaml:"longLimit"`
	LongWindowSeconds  int `yaml:"longWindowSeconds"`
}

// RateLimit converts the window configuration.
func (w WindowConfig) RateLimit() RateLimit {
	return RateLimit{
		ShortLimit:  w.ShortLimit,
		ShortWindow: time.Duration(w.ShortWindowSeconds) * time.Second,
		LongLimit:   w.LongLimit,
		LongWindow:  time.Duration(w.LongWindowSeconds) * time.Second,
	}
}

// RateLimitConfig holds the global default and per-strategy overrides.
type RateLimitConfig struct {
	Enabled bool                    `yaml:"enabled"`
	Default WindowConfig            `yaml:"default"`
	Parsers map[string]WindowConfig `yaml:"parsers"`
}

// Policy builds the admission policy.
func (c RateLimitConfig) Policy() RateLimitPolicy {
	p := RateLimitPolicy{
		Default: c.Default.RateLimit(),
		Parsers: make(map[string]RateLimit, len(c.Parsers)),
	}
	for name, w := range c.Parsers {
		p.Parsers[strings.ToLower(strings.TrimSpace(name))] = w.RateLimit()
	}
	return p
}

// ExtractionConfig configures the content toolkit.
type ExtractionConfig struct {
	RemoveTags       []string `yaml:"removeTags"`
	RemoveAttributes []string `yaml:"removeAttributes"`

	// ImageSelectors are CSS selectors harvested in order. Meta elements
	// contribute their content attribute, everything else its src.
	ImageSelectors []string `yaml:"imageSelectors"`

	// ArticleExtractor is "trafilatura", "readability" or "none".
	ArticleExtractor string `yaml:"articleExtractor"`
}

// ParserConfig toggles a strategy.
type ParserConfig struct {
	Enabled bool `yaml:"enabled"`
}

// BatchConfig configures batch execution.
type BatchConfig struct {
	Concurrency int           `yaml:"concurrency"`
	ItemTimeout time.Duration `yaml:"itemTimeout"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig configures the HTTP boundary.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DefaultUserAgents is the rotation pool used when none is configured.
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 13_6) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36",
}

// DefaultRetryableStatuses are the statuses retried by the fetcher.
var DefaultRetryableStatuses = []int{429, 500, 502, 503, 504}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:           20 * time.Second,
			MaxAttempts:       3,
			BackoffBaseDelay:  time.Second,
			BackoffMultiplier: 2,
			RetryableStatuses: append([]int(nil), DefaultRetryableStatuses...),
			UserAgents:        append([]string(nil), DefaultUserAgents...),
			DefaultHeaders:    map[string]string{"Accept-Language": "en-US,en;q=0.9"},
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			Default: perMinuteHour(30, 300),
			Parsers: map[string]WindowConfig{
				"feeds":       perMinuteHour(60, 600),
				"reddit":      perMinuteHour(30, 120),
				"single_page": perMinuteHour(45, 300),
				"telegram":    perMinuteHour(15, 100),
				"medium":      perMinuteHour(25, 200),
				"bing":        perMinuteHour(20, 150),
				"multi":       perMinuteHour(10, 80),
				"craigslist":  perMinuteHour(5, 60),
			},
		},
		Extraction: ExtractionConfig{
			RemoveTags:       []string{"script", "style", "iframe", "noscript"},
			RemoveAttributes: []string{"onclick", "onload", "onerror"},
			ImageSelectors: []string{
				`meta[property="og:image"]`,
				`meta[name="twitter:image"]`,
				"img[src]",
			},
			ArticleExtractor: "trafilatura",
		},
		Parsers: map[string]ParserConfig{
			"feeds":       {Enabled: true},
			"reddit":      {Enabled: true},
			"single_page": {Enabled: true},
			"telegram":    {Enabled: true},
			"medium":      {Enabled: true},
			"bing":        {Enabled: true},
			"multi":       {Enabled: true},
			"craigslist":  {Enabled: false},
		},
		Batch: BatchConfig{
			Concurrency: 10,
			ItemTimeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

func perMinuteHour(perMinute, perHour int) WindowConfig {
	return WindowConfig{
		ShortLimit:         perMinute,
		ShortWindowSeconds: 60,
		LongLimit:          perHour,
		LongWindowSeconds:  3600,
	}
}

// ParserEnabled reports whether the named strategy should be registered.
// Strategies missing from the configuration are enabled.
func (c *Config) ParserEnabled(name string) bool {
	pc, ok := c.Parsers[name]
	return !ok || pc.Enabled
}

// Validate returns an EINVALID error describing the first invalid setting.
func (c *Config) Validate() error {
	h := c.HTTP
	switch {
	case h.Timeout <= 0:
		return Errorf(EINVALID, "http.timeout must be positive")
	case h.MaxAttempts < 1:
		return Errorf(EINVALID, "http.maxAttempts must be at least 1")
	case h.BackoffBaseDelay < 0:
		return Errorf(EINVALID, "http.backoffBaseDelay must not be negative")
	case h.BackoffMultiplier < 1:
		return Errorf(EINVALID, "http.backoffMultiplier must be at least 1")
	case len(h.UserAgents) == 0:
		return Errorf(EINVALID, "http.userAgents must not be empty")
	case h.HostRate < 0:
		return Errorf(EINVALID, "http.hostRate must not be negative")
	}
	for _, s := range h.RetryableStatuses {
		if s < 100 || s > 599 {
			return Errorf(EINVALID, "http.retryableStatuses: invalid status %d", s)
		}
	}

	if err := c.RateLimit.Default.validate("default"); err != nil {
		return err
	}
	for name, w := range c.RateLimit.Parsers {
		if err := w.validate(name); err != nil {
			return err
		}
	}

	switch c.Extraction.ArticleExtractor {
	case "", "none", "trafilatura", "readability":
	default:
		return Errorf(EINVALID, "extraction.articleExtractor: unknown extractor %q", c.Extraction.ArticleExtractor)
	}

	if c.Batch.Concurrency < 1 {
		return Errorf(EINVALID, "batch.concurrency must be at least 1")
	}
	if c.Batch.ItemTimeout <= 0 {
		return Errorf(EINVALID, "batch.itemTimeout must be positive")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return Errorf(EINVALID, "log.level: unknown level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return Errorf(EINVALID, "log.format: unknown format %q", c.Log.Format)
	}
	return nil
}

func (w WindowConfig) validate(name string) error {
	if w.ShortLimit < 0 || w.LongLimit < 0 {
		return Errorf(EINVALID, "rateLimit %s: limits must not be negative", name)
	}
	if w.ShortLimit > 0 && w.ShortWindowSeconds <= 0 {
		return Errorf(EINVALID, "rateLimit %s: shortWindowSeconds must be positive", name)
	}
	if w.LongLimit > 0 && w.LongWindowSeconds <= 0 {
		return Errorf(EINVALID, "rateLimit %s: longWindowSeconds must be positive", name)
	}
	return nil
}
