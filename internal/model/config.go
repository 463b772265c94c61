package model

import "time"

// Config holds the full casematch configuration
type Config struct {
	Engine      EngineConfig      `yaml:"engine" mapstructure:"engine"`
	Data        DataConfig        `yaml:"data" mapstructure:"data"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Fetch       FetchConfig       `yaml:"fetch" mapstructure:"fetch"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// EngineConfig tunes the similarity engine
type EngineConfig struct {
	MaxFeatures int `yaml:"max_features" mapstructure:"max_features"` // Vocabulary cap
	NGramMax    int `yaml:"ngram_max" mapstructure:"ngram_max"`       // 1 = unigrams, 2 = unigrams + bigrams
	TopK        int `yaml:"top_k" mapstructure:"top_k"`               // Default precedents per query
}

// DataConfig locates the reference dataset
type DataConfig struct {
	ReferencePath string `yaml:"reference_path" mapstructure:"reference_path"` // Empty = built-in dataset
}

// CacheConfig controls the result cache
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	MemoryTTL       time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" mapstructure:"cleanup_interval"`
	Dir             string        `yaml:"dir" mapstructure:"dir"` // Empty = memory only
	DiskTTL         time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig controls batch processing
type ConcurrencyConfig struct {
	Workers          int     `yaml:"workers" mapstructure:"workers"`
	QueriesPerSecond float64 `yaml:"queries_per_second" mapstructure:"queries_per_second"` // 0 = unlimited
	QueriesBurst     int     `yaml:"queries_burst" mapstructure:"queries_burst"`
}

// ServerConfig controls the HTTP API
type ServerConfig struct {
	Addr              string  `yaml:"addr" mapstructure:"addr"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"` // Per client
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// FetchConfig controls retrieval of case documents given by URL
type FetchConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	InsecureTLS   bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	HTTPProxy     string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy" mapstructure:"no_proxy"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose       bool   `yaml:"verbose" mapstructure:"verbose"`
	Format        string `yaml:"format" mapstructure:"format"` // text, json, markdown
	IncludeFooter bool   `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			MaxFeatures: 10000,
			NGramMax:    2,
			TopK:        DefaultTopK,
		},
		Cache: CacheConfig{
			Enabled:         true,
			MemoryTTL:       30 * time.Minute,
			CleanupInterval: 10 * time.Minute,
			DiskTTL:         24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers:      4,
			QueriesBurst: 5,
		},
		Server: ServerConfig{
			Addr:              ":8080",
			RequestsPerSecond: 10,
			Burst:             20,
		},
		Fetch: FetchConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "casematch/0.1 (+https://github.com/ppiankov/casematch)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		Output: OutputConfig{
			Format:        "text",
			IncludeFooter: true,
		},
	}
}
