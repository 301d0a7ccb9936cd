package model

import "time"

// Config holds the complete credence configuration.
// Fields carry both yaml tags (config show/init) and mapstructure tags (viper).
type Config struct {
	HTTP         HTTPConfig        `yaml:"http" mapstructure:"http"`
	Probes       ProbesConfig      `yaml:"probes" mapstructure:"probes"`
	Sources      SourcesConfig     `yaml:"sources" mapstructure:"sources"`
	Cache        CacheConfig       `yaml:"cache" mapstructure:"cache"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	LLM          LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Server       ServerConfig      `yaml:"server" mapstructure:"server"`
	Output       OutputConfig      `yaml:"output" mapstructure:"output"`
}

// HTTPConfig configures outbound page and post fetching
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// Probe modes
const (
	ProbeModeLive = "live" // query external search and news APIs
	ProbeModeMock = "mock" // canned keyword verdicts, no network
)

// ProbesConfig configures the verdict probes.
// A probe whose credentials are empty is disabled and never touches the network.
type ProbesConfig struct {
	Mode            string        `yaml:"mode" mapstructure:"mode"`       // live or mock
	Timeout         time.Duration `yaml:"timeout" mapstructure:"timeout"` // Per probe call
	GoogleAPIKey    string        `yaml:"google_api_key,omitempty" mapstructure:"google_api_key"`
	GoogleCSEID     string        `yaml:"google_cse_id,omitempty" mapstructure:"google_cse_id"`
	NewsAPIKey      string        `yaml:"news_api_key,omitempty" mapstructure:"news_api_key"`
	FactCheckSites  []string      `yaml:"fact_check_sites" mapstructure:"fact_check_sites"`
	ResultsPerQuery int           `yaml:"results_per_query" mapstructure:"results_per_query"`
}

// SourcesConfig configures supplementary source discovery
type SourcesConfig struct {
	Enabled     bool `yaml:"enabled" mapstructure:"enabled"`
	Academic    bool `yaml:"academic" mapstructure:"academic"`         // Semantic Scholar search (no key needed)
	VerifyLinks bool `yaml:"verify_links" mapstructure:"verify_links"` // Drop sources whose URL answers 404/410
	Max         int  `yaml:"max" mapstructure:"max"`
}

// CacheConfig configures probe verdict caching
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
	Dir     string        `yaml:"dir,omitempty" mapstructure:"dir"` // Empty keeps the cache in memory only
}

// RateLimitConfig configures per-host throttling of probe traffic
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// ConcurrencyConfig configures batch processing
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// LLMConfig configures the optional narrative generator
type LLMConfig struct {
	Provider  string `yaml:"provider,omitempty" mapstructure:"provider"` // openai, anthropic, ollama or empty
	Model     string `yaml:"model,omitempty" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// ServerConfig configures the HTTP entry point
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// OutputConfig configures CLI output
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultFactCheckSites are the domains queried by site-scoped probes
var DefaultFactCheckSites = []string{"snopes.com", "politifact.com", "factcheck.org"}

// DefaultConfig returns the documented defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "Credence/0.1 (+https://github.com/ppiankov/credence)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		Probes: ProbesConfig{
			Mode:            ProbeModeLive,
			Timeout:         10 * time.Second,
			FactCheckSites:  append([]string(nil), DefaultFactCheckSites...),
			ResultsPerQuery: 10,
		},
		Sources: SourcesConfig{
			Enabled: true,
			Max:     5,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     time.Hour,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 5,
			BurstSize:         5,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		LLM: LLMConfig{
			Timeout:   30,
			MaxTokens: 500,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}
