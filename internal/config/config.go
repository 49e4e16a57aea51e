package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the solvex API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Cache     CacheConfig     `yaml:"cache"`
	OCR       OCRConfig       `yaml:"ocr"`
	Search    SearchConfig    `yaml:"search"`
	Translate TranslateConfig `yaml:"translate"`
	YouTube   YouTubeConfig   `yaml:"youtube"`
	Fetch     FetchConfig     `yaml:"fetch"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Gate      GateConfig      `yaml:"gate"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// GateConfig holds feature-gate settings for the solve endpoint.
// An empty key list disables the gate entirely.
type GateConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CacheConfig holds shared cache settings for search results and OCR output.
type CacheConfig struct {
	Driver    string   `yaml:"driver"` // memory, redis, none (default: memory)
	Addrs     []string `yaml:"addrs"`
	Password  string   `yaml:"password"`
	TTLSec    int      `yaml:"ttl_sec"`
	KeyPrefix string   `yaml:"key_prefix"`
}

// OCRConfig holds OCR backend settings.
type OCRConfig struct {
	Tesseract TesseractConfig `yaml:"tesseract"`
	Vision    VisionConfig    `yaml:"vision"`
}

// TesseractConfig holds the local Tesseract engine settings.
type TesseractConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Languages []string `yaml:"languages"`
}

// VisionConfig holds the cloud vision OCR settings.
type VisionConfig struct {
	APIKey string `yaml:"api_key"`
}

// SearchConfig holds web search provider settings.
type SearchConfig struct {
	SearchAPIKey string `yaml:"searchapi_key"`
	SerpAPIKey   string `yaml:"serpapi_key"`
	Prefer       string `yaml:"prefer"` // searchapi, serpapi (default: searchapi)
	TimeoutMS    int    `yaml:"timeout_ms"`
}

// TranslateConfig holds translation backend settings.
type TranslateConfig struct {
	BaseURL    string `yaml:"base_url"`
	APIKey     string `yaml:"api_key"`
	TargetLang string `yaml:"target_lang"`
	TimeoutMS  int    `yaml:"timeout_ms"`
}

// YouTubeConfig holds video lookup settings.
type YouTubeConfig struct {
	APIKey     string `yaml:"api_key"`
	MaxResults int    `yaml:"max_results"`
}

// FetchConfig holds content fetcher settings.
type FetchConfig struct {
	MaxConcurrent  int `yaml:"max_concurrent"`
	PerURLTimeout  int `yaml:"per_url_timeout_ms"`
	BatchTimeoutMS int `yaml:"batch_timeout_ms"`
	MaxContentLen  int `yaml:"max_content_len"`
}

// PipelineConfig holds orchestrator settings.
type PipelineConfig struct {
	MaxResults      int `yaml:"max_results"`
	FanoutTimeoutMS int `yaml:"fanout_timeout_ms"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 15
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "memory"
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 3600
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "solvex:"
	}
	if len(c.OCR.Tesseract.Languages) == 0 {
		c.OCR.Tesseract.Languages = []string{"eng", "hin"}
	}
	if c.Search.Prefer == "" {
		c.Search.Prefer = "searchapi"
	}
	if c.Search.TimeoutMS <= 0 {
		c.Search.TimeoutMS = 3000
	}
	if c.Translate.TargetLang == "" {
		c.Translate.TargetLang = "en"
	}
	if c.Translate.TimeoutMS <= 0 {
		c.Translate.TimeoutMS = 2000
	}
	if c.YouTube.MaxResults <= 0 {
		c.YouTube.MaxResults = 3
	}
	if c.Fetch.MaxConcurrent <= 0 {
		c.Fetch.MaxConcurrent = 5
	}
	if c.Fetch.PerURLTimeout <= 0 {
		c.Fetch.PerURLTimeout = 1200
	}
	if c.Fetch.BatchTimeoutMS <= 0 {
		c.Fetch.BatchTimeoutMS = 2500
	}
	if c.Fetch.MaxContentLen <= 0 {
		c.Fetch.MaxContentLen = 800
	}
	if c.Pipeline.MaxResults <= 0 {
		c.Pipeline.MaxResults = 5
	}
	if c.Pipeline.FanoutTimeoutMS <= 0 {
		c.Pipeline.FanoutTimeoutMS = 3000
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Cache.Driver {
	case "memory", "redis", "none":
		// ok
	default:
		return fmt.Errorf("cache.driver must be \"memory\", \"redis\" or \"none\", got %q", c.Cache.Driver)
	}
	if c.Cache.Driver == "redis" && len(c.Cache.Addrs) == 0 {
		return fmt.Errorf("cache.addrs is required for the redis driver")
	}
	switch c.Search.Prefer {
	case "searchapi", "serpapi":
		// ok
	default:
		return fmt.Errorf("search.prefer must be \"searchapi\" or \"serpapi\", got %q", c.Search.Prefer)
	}
	if c.Fetch.MaxConcurrent > 5 {
		return fmt.Errorf("fetch.max_concurrent must not exceed 5, got %d", c.Fetch.MaxConcurrent)
	}
	if c.Pipeline.MaxResults > 5 {
		return fmt.Errorf("pipeline.max_results must not exceed 5, got %d", c.Pipeline.MaxResults)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
