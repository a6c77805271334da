// Package config loads service configuration from the environment plus an
// optional YAML file for category and keyword overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Supported upstream backends. Only one is active per deployment.
const (
	BackendGNews = "gnews"
	BackendRSS   = "rss"
)

// Request limit policy enforced at the HTTP boundary. MaxLimit also bounds
// the cache key space, since entries are keyed by (category, limit).
const (
	DefaultLimit = 20
	MaxLimit     = 50
)

// CategoryConfig describes how one news category maps onto the upstream:
// a GNews endpoint plus query params, or a set of RSS feed URLs. TTL is the
// cache freshness window for the category.
type CategoryConfig struct {
	Endpoint string
	Params   string
	Feeds    []string
	TTL      time.Duration
}

// Keywords holds the relevance lexicon tiers. These are tuning data, not
// logic: see internal/news for the weights.
type Keywords struct {
	High   []string `yaml:"high"`
	Medium []string `yaml:"medium"`
	Low    []string `yaml:"low"`
}

type Config struct {
	AppPort string
	Debug   bool

	// Upstream settings
	Backend        string // "gnews" or "rss"
	GNewsAPIKey    string
	GNewsBaseURL   string
	UserAgent      string
	RequestTimeout time.Duration

	// Soft warning threshold for upstream calls per calendar day.
	DailyRequestWarn int

	Categories map[string]CategoryConfig
	Keywords   Keywords
}

// defaultCategories mirrors the GNews query table and per-category cache
// TTLs the service shipped with. Volatile categories get shorter TTLs.
func defaultCategories() map[string]CategoryConfig {
	return map[string]CategoryConfig{
		"home": {
			Endpoint: "top-headlines",
			Params:   "category=general&lang=pt&country=br&nullable=image",
			Feeds:    []string{"https://g1.globo.com/rss/g1/"},
			TTL:      2 * time.Hour,
		},
		"world": {
			Endpoint: "top-headlines",
			Params:   "category=world&lang=pt&country=br&nullable=image",
			Feeds:    []string{"https://g1.globo.com/rss/g1/mundo/"},
			TTL:      4 * time.Hour,
		},
		"politics": {
			Endpoint: "search",
			Params:   "q=política OR governo OR eleição OR congresso OR ministério&lang=pt&country=br&nullable=image&sortby=publishedAt",
			Feeds:    []string{"https://g1.globo.com/rss/g1/politica/"},
			TTL:      2 * time.Hour,
		},
		"business": {
			Endpoint: "top-headlines",
			Params:   "category=business&lang=pt&country=br&nullable=image",
			Feeds:    []string{"https://g1.globo.com/rss/g1/economia/"},
			TTL:      4 * time.Hour,
		},
		"tech": {
			Endpoint: "top-headlines",
			Params:   "category=technology&lang=pt&country=br&nullable=image",
			Feeds:    []string{"https://g1.globo.com/rss/g1/tecnologia/"},
			TTL:      6 * time.Hour,
		},
		"science": {
			Endpoint: "top-headlines",
			Params:   "category=science&lang=pt&country=br&nullable=image",
			Feeds:    []string{"https://g1.globo.com/rss/g1/ciencia-e-saude/"},
			TTL:      8 * time.Hour,
		},
		"sports": {
			Endpoint: "top-headlines",
			Params:   "category=sports&lang=pt&country=br&nullable=image",
			Feeds:    []string{"https://ge.globo.com/rss/ge/"},
			TTL:      3 * time.Hour,
		},
	}
}

func defaultKeywords() Keywords {
	return Keywords{
		High:   []string{"brasil", "governo", "economia", "eleição", "presidente", "ministro", "congresso", "supremo", "stf"},
		Medium: []string{"política", "negócios", "mercado", "empresa", "tecnologia", "saúde", "educação"},
		Low:    []string{"local", "regional", "municipal", "estado"},
	}
}

func Load() (*Config, error) {
	cfg := &Config{
		AppPort:          getEnv("APP_PORT", "8080"),
		Backend:          getEnv("NEWS_BACKEND", BackendGNews),
		GNewsAPIKey:      os.Getenv("GNEWS_API_KEY"),
		GNewsBaseURL:     getEnv("GNEWS_BASE_URL", "https://gnews.io/api/v4"),
		UserAgent:        "Mozilla/5.0 (compatible; OnlyDans/1.0; +https://onlydans.vercel.app)",
		RequestTimeout:   time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,
		DailyRequestWarn: getEnvInt("DAILY_REQUEST_WARN", 90),
		Categories:       defaultCategories(),
		Keywords:         defaultKeywords(),
	}

	if os.Getenv("DEBUG") == "true" {
		cfg.Debug = true
	}

	if path := os.Getenv("CATEGORIES_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, fmt.Errorf("load categories config %s: %w", path, err)
		}
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.Backend != BackendGNews && c.Backend != BackendRSS {
		return fmt.Errorf("NEWS_BACKEND must be %q or %q, got %q", BackendGNews, BackendRSS, c.Backend)
	}
	if c.Backend == BackendGNews && c.GNewsAPIKey == "" {
		return fmt.Errorf("GNEWS_API_KEY is required for the %s backend", BackendGNews)
	}
	if len(c.Categories) == 0 {
		return fmt.Errorf("no categories configured")
	}
	for name, cat := range c.Categories {
		if c.Backend == BackendRSS && len(cat.Feeds) == 0 {
			return fmt.Errorf("category %q has no RSS feeds configured", name)
		}
		if cat.TTL <= 0 {
			return fmt.Errorf("category %q has no cache TTL", name)
		}
	}
	return nil
}

// fileCategory is the YAML shape of a category override. Zero fields keep
// the built-in default for that category.
type fileCategory struct {
	Endpoint string   `yaml:"endpoint"`
	Params   string   `yaml:"params"`
	Feeds    []string `yaml:"feeds"`
	TTLHours int      `yaml:"ttl_hours"`
}

type fileConfig struct {
	Categories map[string]fileCategory `yaml:"categories"`
	Keywords   *Keywords               `yaml:"keywords"`
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return err
	}

	for name, over := range fc.Categories {
		cat := c.Categories[name]
		if over.Endpoint != "" {
			cat.Endpoint = over.Endpoint
		}
		if over.Params != "" {
			cat.Params = over.Params
		}
		if len(over.Feeds) > 0 {
			cat.Feeds = over.Feeds
		}
		if over.TTLHours > 0 {
			cat.TTL = time.Duration(over.TTLHours) * time.Hour
		}
		c.Categories[name] = cat
	}

	if fc.Keywords != nil {
		c.Keywords = *fc.Keywords
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
