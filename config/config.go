package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Dictionary DictionaryConfig `yaml:"dictionary"`
	Engine     EngineConfig     `yaml:"engine"`
	Auth       AuthConfig       `yaml:"auth"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Cache      CacheConfig      `yaml:"cache"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"BINGDICT_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"BINGDICT_PORT"             env-default:"8080"`
	Mode            string        `yaml:"mode"             env:"BINGDICT_MODE"             env-default:"release"` // "debug", "release", "test"
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"BINGDICT_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// DictionaryConfig controls how the upstream dictionary is queried.
type DictionaryConfig struct {
	// Host is the Bing host serving /dict/search.
	Host string `yaml:"host" env:"BINGDICT_UPSTREAM_HOST" env-default:"www.bing.com"`

	// Market is the mkt query parameter; the parser only understands zh-cn pages.
	Market string `yaml:"market" env:"BINGDICT_MARKET" env-default:"zh-cn"`

	// Timeout bounds a single lookup, fetch and parse included.
	Timeout time.Duration `yaml:"timeout" env:"BINGDICT_TIMEOUT" env-default:"10s"`

	// RequestsPerSecond and Burst throttle outbound requests to the host.
	RequestsPerSecond float64 `yaml:"requests_per_second" env:"BINGDICT_UPSTREAM_RPS"   env-default:"5"`
	Burst             int     `yaml:"burst"               env:"BINGDICT_UPSTREAM_BURST" env-default:"5"`

	// MarkerLead and MarkerTail override the boilerplate around a genuine
	// result. Empty values keep dict.DefaultMarker.
	MarkerLead string `yaml:"marker_lead" env:"BINGDICT_MARKER_LEAD"`
	MarkerTail string `yaml:"marker_tail" env:"BINGDICT_MARKER_TAIL"`
}

// EngineConfig controls the fetch engines.
type EngineConfig struct {
	// BrowserFallback adds a headless Chromium engine behind the HTTP engine.
	BrowserFallback bool `yaml:"browser_fallback" env:"BINGDICT_BROWSER_FALLBACK" env-default:"false"`

	// EscalationDelay is how long the browser engine waits before starting.
	EscalationDelay time.Duration `yaml:"escalation_delay" env:"BINGDICT_ESCALATION_DELAY" env-default:"2s"`

	// HTTPTimeout is the deadline for the pure HTTP engine.
	HTTPTimeout time.Duration `yaml:"http_timeout" env:"BINGDICT_HTTP_TIMEOUT" env-default:"5s"`

	Headless   bool   `yaml:"headless"    env:"BINGDICT_HEADLESS"    env-default:"true"`
	NoSandbox  bool   `yaml:"no_sandbox"  env:"BINGDICT_NO_SANDBOX"  env-default:"false"`
	BrowserBin string `yaml:"browser_bin" env:"BINGDICT_BROWSER_BIN"`
	Proxy      string `yaml:"proxy"       env:"BINGDICT_PROXY"`
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	Enabled bool     `yaml:"enabled"  env:"BINGDICT_AUTH_ENABLED" env-default:"false"`
	APIKeys []string `yaml:"api_keys" env:"BINGDICT_API_KEYS"     env-separator:","`
}

// RateLimitConfig controls per-key rate limiting of the API.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" env:"BINGDICT_RATE_RPS"   env-default:"5"`
	Burst             int     `yaml:"burst"               env:"BINGDICT_RATE_BURST" env-default:"10"`
}

// CacheConfig controls the paraphrase cache.
type CacheConfig struct {
	MaxEntries int           `yaml:"max_entries" env:"BINGDICT_CACHE_MAX_ENTRIES" env-default:"1000"`
	TTL        time.Duration `yaml:"ttl"         env:"BINGDICT_CACHE_TTL"         env-default:"1h"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `yaml:"level"  env:"BINGDICT_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"BINGDICT_LOG_FORMAT" env-default:"json"` // "json" or "text"
}

// Load reads configuration from the YAML file named by BINGDICT_CONFIG, if
// set, and from environment variables. ENV > YAML > env-default tags.
func Load() (*Config, error) {
	var cfg Config

	if path := os.Getenv("BINGDICT_CONFIG"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}
