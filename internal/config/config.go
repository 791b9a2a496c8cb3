package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/docqa/internal/domain"
)

// Config holds the docqa configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Storage    StorageConfig    `yaml:"storage"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Generation GenerationConfig `yaml:"generation"`
	Chunking   ChunkingConfig   `yaml:"chunking"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Watch      WatchConfig      `yaml:"watch"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int   `yaml:"port"`
	ReadTimeoutSec  int   `yaml:"read_timeout_sec"`
	WriteTimeoutSec int   `yaml:"write_timeout_sec"`
	ShutdownSec     int   `yaml:"shutdown_timeout_sec"`
	MaxUploadMB     int64 `yaml:"max_upload_mb"`
}

// StorageConfig points at the raw document directory and the persisted index.
type StorageConfig struct {
	RawDir   string `yaml:"raw_dir"`
	IndexDir string `yaml:"index_dir"`
}

// ProviderConfig holds connection settings for an OpenAI-compatible endpoint.
type ProviderConfig struct {
	Name    string `yaml:"name"`
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// EmbeddingConfig holds embedding model settings.
type EmbeddingConfig struct {
	Provider            ProviderConfig `yaml:"provider"`
	Model               string         `yaml:"model"`
	Dimensions          int            `yaml:"dimensions"`
	DocumentInstruction string         `yaml:"document_instruction"`
	QueryInstruction    string         `yaml:"query_instruction"`
	MaxBatchSize        int            `yaml:"max_batch_size"`
	Cache               CacheConfig    `yaml:"cache"`
}

// CacheConfig selects the embedding cache backend.
type CacheConfig struct {
	Driver string      `yaml:"driver"` // none, memory, redis (default: none)
	Size   int         `yaml:"size"`   // memory: max entries
	TTLSec int         `yaml:"ttl_sec"`
	Redis  RedisConfig `yaml:"redis"`
}

// RedisConfig holds Redis connection settings for the embedding cache.
type RedisConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// GenerationConfig holds chat model settings.
type GenerationConfig struct {
	Provider    ProviderConfig `yaml:"provider"`
	Model       string         `yaml:"model"`
	Temperature float32        `yaml:"temperature"`
	MaxTokens   int            `yaml:"max_tokens"`
}

// ChunkingConfig holds splitter settings, in characters.
type ChunkingConfig struct {
	Size    int `yaml:"size"`
	Overlap int `yaml:"overlap"`
}

// RetrievalConfig holds scoring policy thresholds.
type RetrievalConfig struct {
	TopK           int     `yaml:"top_k"`
	MinConfidence  float64 `yaml:"min_confidence"`
	MinChunkLength int     `yaml:"min_chunk_length"`
	HistoryTurns   int     `yaml:"history_turns"`
}

// WatchConfig controls automatic re-ingestion on raw directory changes.
type WatchConfig struct {
	Enabled    bool `yaml:"enabled"`
	DebounceMS int  `yaml:"debounce_ms"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// A .env file in the working directory, if present, is loaded into the process
// environment first so ${VAR} references can resolve against it.
func Load(env string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration, expands ${VAR} references, applies defaults and validates.
func Parse(data []byte) (Config, error) {
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

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 30
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.HTTP.MaxUploadMB <= 0 {
		c.HTTP.MaxUploadMB = 32
	}
	if c.Storage.RawDir == "" {
		c.Storage.RawDir = "data/raw_docs"
	}
	if c.Storage.IndexDir == "" {
		c.Storage.IndexDir = "data/index"
	}
	if c.Embedding.Provider.Name == "" {
		c.Embedding.Provider.Name = "openai"
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-3-small"
	}
	if c.Embedding.MaxBatchSize <= 0 {
		c.Embedding.MaxBatchSize = 256
	}
	if c.Embedding.Cache.Driver == "" {
		c.Embedding.Cache.Driver = "none"
	}
	if c.Embedding.Cache.Size <= 0 {
		c.Embedding.Cache.Size = 4096
	}
	if c.Embedding.Cache.TTLSec <= 0 {
		c.Embedding.Cache.TTLSec = 7 * 24 * 3600
	}
	if c.Embedding.Cache.Redis.ReadinessTimeout <= 0 {
		c.Embedding.Cache.Redis.ReadinessTimeout = 10
	}
	if c.Generation.Provider.Name == "" {
		c.Generation.Provider.Name = "groq"
	}
	if c.Generation.Model == "" {
		c.Generation.Model = "llama-3.1-8b-instant"
	}
	if c.Chunking.Size <= 0 {
		c.Chunking.Size = domain.DefaultChunkSize
	}
	if c.Chunking.Overlap == 0 {
		c.Chunking.Overlap = domain.DefaultChunkOverlap
	}
	if c.Retrieval.TopK <= 0 {
		c.Retrieval.TopK = domain.DefaultTopK
	}
	if c.Retrieval.MinConfidence == 0 {
		c.Retrieval.MinConfidence = domain.DefaultMinConfidence
	}
	if c.Retrieval.MinChunkLength == 0 {
		c.Retrieval.MinChunkLength = domain.DefaultMinChunkLength
	}
	if c.Retrieval.HistoryTurns == 0 {
		c.Retrieval.HistoryTurns = domain.DefaultHistoryTurns
	}
	if c.Watch.DebounceMS <= 0 {
		c.Watch.DebounceMS = 2000
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Chunking.Overlap < 0 || c.Chunking.Overlap >= c.Chunking.Size {
		return fmt.Errorf("chunking.overlap must be in [0, %d), got %d", c.Chunking.Size, c.Chunking.Overlap)
	}
	if c.Retrieval.MinConfidence < 0 || c.Retrieval.MinConfidence > 1 {
		return fmt.Errorf("retrieval.min_confidence must be in [0, 1], got %g", c.Retrieval.MinConfidence)
	}
	if c.Retrieval.MinChunkLength < 0 {
		return fmt.Errorf("retrieval.min_chunk_length must not be negative, got %d", c.Retrieval.MinChunkLength)
	}
	if c.Retrieval.HistoryTurns < 0 {
		return fmt.Errorf("retrieval.history_turns must not be negative, got %d", c.Retrieval.HistoryTurns)
	}
	if c.Generation.Temperature != 0 {
		return fmt.Errorf("generation.temperature must be 0 for deterministic answers, got %g", c.Generation.Temperature)
	}
	if filepath.Clean(c.Storage.RawDir) == filepath.Clean(c.Storage.IndexDir) {
		return errors.New("storage.raw_dir and storage.index_dir must differ")
	}
	switch c.Embedding.Cache.Driver {
	case "none", "memory":
	case "redis":
		if len(c.Embedding.Cache.Redis.Addrs) == 0 {
			return errors.New("embedding.cache.redis.addrs is required for the redis cache driver")
		}
	default:
		return fmt.Errorf(
			"embedding.cache.driver must be \"none\", \"memory\" or \"redis\", got %q",
			c.Embedding.Cache.Driver,
		)
	}
	return nil
}

// Policy converts the retrieval and chunking sections into the pipeline policy.
func (c *Config) Policy() domain.Policy {
	p := domain.DefaultPolicy()
	p.ChunkSize = c.Chunking.Size
	p.ChunkOverlap = c.Chunking.Overlap
	p.TopK = c.Retrieval.TopK
	p.MinConfidence = c.Retrieval.MinConfidence
	p.MinChunkLength = c.Retrieval.MinChunkLength
	p.HistoryTurns = c.Retrieval.HistoryTurns
	return p
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
