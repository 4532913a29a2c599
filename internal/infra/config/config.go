// Package config provides application-wide configuration. Values come from an
// optional YAML file overridden by environment variables; every field has a
// safe default so the binary runs locally without any setup.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration for Aetheris.
type Config struct {
	// Server
	Host string `yaml:"host"` // AETHERIS_HOST, default "127.0.0.1"
	Port int    `yaml:"port"` // AETHERIS_PORT, default 8000

	// Storage
	DBPath string `yaml:"db_path"` // AETHERIS_DB_PATH, default "aetheris.db"

	// Cache
	CacheTTL time.Duration `yaml:"-"` // CACHE_TTL (seconds), default 1h

	// Tool execution
	MaxConcurrent int `yaml:"max_concurrent"` // MAX_CONCURRENT, default 10
	WorkerPool    int `yaml:"worker_pool"`    // WORKER_POOL, default 10

	// AI
	OpenAIAPIKey  string  `yaml:"openai_api_key"`  // OPENAI_API_KEY, default "" (chat disabled)
	OpenAIAPIBase string  `yaml:"openai_api_base"` // OPENAI_API_BASE, default "https://api.openai.com/v1"
	OpenAIModel   string  `yaml:"openai_model"`    // OPENAI_MODEL, default "gpt-3.5-turbo"
	AITemperature float32 `yaml:"ai_temperature"`  // AI_TEMPERATURE, default 0.7
	AIMaxTokens   int     `yaml:"ai_max_tokens"`   // AI_MAX_TOKENS, default 2000
}

const (
	envKeyHost          = "AETHERIS_HOST"
	envKeyPort          = "AETHERIS_PORT"
	envKeyDBPath        = "AETHERIS_DB_PATH"
	envKeyCacheTTL      = "CACHE_TTL"
	envKeyMaxConcurrent = "MAX_CONCURRENT"
	envKeyWorkerPool    = "WORKER_POOL"
	envKeyOpenAIAPIKey  = "OPENAI_API_KEY"
	envKeyOpenAIAPIBase = "OPENAI_API_BASE"
	envKeyOpenAIModel   = "OPENAI_MODEL"
	envKeyAITemperature = "AI_TEMPERATURE"
	envKeyAIMaxTokens   = "AI_MAX_TOKENS"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Host:          "127.0.0.1",
		Port:          8000,
		DBPath:        "aetheris.db",
		CacheTTL:      time.Hour,
		MaxConcurrent: 10,
		WorkerPool:    10,
		OpenAIAPIBase: "https://api.openai.com/v1",
		OpenAIModel:   "gpt-3.5-turbo",
		AITemperature: 0.7,
		AIMaxTokens:   2000,
	}
}

// Load reads configuration in three layers: defaults, then the optional YAML
// file at path (skipped when path is empty or the file does not exist), then
// environment variables on top.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Optional file; defaults apply.
		case err != nil:
			return cfg, fmt.Errorf("config: read %q: %w", path, err)
		default:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return cfg, fmt.Errorf("config: parse %q: %w", path, err)
			}
			// Durations are written as seconds in the file, matching
			// the CACHE_TTL environment variable.
			var aux struct {
				CacheTTLSeconds int `yaml:"cache_ttl_seconds"`
			}
			if err := yaml.Unmarshal(raw, &aux); err == nil && aux.CacheTTLSeconds > 0 {
				cfg.CacheTTL = time.Duration(aux.CacheTTLSeconds) * time.Second
			}
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Host = envOr(envKeyHost, cfg.Host)
	cfg.Port = envIntOr(envKeyPort, cfg.Port)
	cfg.DBPath = envOr(envKeyDBPath, cfg.DBPath)
	if secs := envIntOr(envKeyCacheTTL, 0); secs > 0 {
		cfg.CacheTTL = time.Duration(secs) * time.Second
	}
	cfg.MaxConcurrent = envIntOr(envKeyMaxConcurrent, cfg.MaxConcurrent)
	cfg.WorkerPool = envIntOr(envKeyWorkerPool, cfg.WorkerPool)
	cfg.OpenAIAPIKey = envOr(envKeyOpenAIAPIKey, cfg.OpenAIAPIKey)
	cfg.OpenAIAPIBase = envOr(envKeyOpenAIAPIBase, cfg.OpenAIAPIBase)
	cfg.OpenAIModel = envOr(envKeyOpenAIModel, cfg.OpenAIModel)
	cfg.AITemperature = envFloatOr(envKeyAITemperature, cfg.AITemperature)
	cfg.AIMaxTokens = envIntOr(envKeyAIMaxTokens, cfg.AIMaxTokens)
}

// envOr returns the value of the environment variable key, or fallback if not set.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float32) float32 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			return float32(f)
		}
	}
	return fallback
}
