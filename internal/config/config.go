package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Catalog   SourceConfig    `mapstructure:"catalog"`
	Enrich    SourceConfig    `mapstructure:"enrich"`
	Provider  ProviderConfig  `mapstructure:"provider"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Store     StoreConfig     `mapstructure:"store"`
	Sync      SyncConfig      `mapstructure:"sync"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

// SourceConfig points at one of the two remote model sources.
type SourceConfig struct {
	URL     string        `mapstructure:"url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ProviderConfig describes the upstream this service fronts: where
// dispatched requests go and which env var carries the credential.
type ProviderConfig struct {
	Slug      string `mapstructure:"slug" validate:"required"`
	Name      string `mapstructure:"name"`
	BaseURL   string `mapstructure:"base_url" validate:"required,url"`
	APIKeyEnv string `mapstructure:"api_key_env" validate:"required"`
}

type CacheConfig struct {
	// Backend selects the persistent cache store: "disk" or "redis"
	Backend string `mapstructure:"backend" validate:"oneof=disk redis"`
	// Dir overrides the cache root; empty means the per-user default
	Dir string `mapstructure:"dir"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type StoreConfig struct {
	DSN string `mapstructure:"dsn"`
}

type SyncConfig struct {
	// ColdStartTimeout bounds both source fetches when no cache exists.
	// The warm-path background refresh runs without a deadline.
	ColdStartTimeout time.Duration `mapstructure:"cold_start_timeout"`
}

type NotifyConfig struct {
	// FreeModels gates the one-per-process free-model change notification
	FreeModels bool `mapstructure:"free_models"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// APIKey resolves the configured credential from the environment.
// Empty means no credential: only free models may be dispatched.
func (p ProviderConfig) APIKey() string {
	return os.Getenv(p.APIKeyEnv)
}

// CacheDir resolves the cache root: explicit config, then the
// MODEL_SYNC_CACHE_DIR override, then the per-user cache home.
func (c CacheConfig) CacheDir() (string, error) {
	if c.Dir != "" {
		return c.Dir, nil
	}
	if dir := os.Getenv("MODEL_SYNC_CACHE_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("cannot resolve user cache dir: %w", err)
	}
	return filepath.Join(home, "model-sync"), nil
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig() (*Config, error) {
	// Load .env file if present
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./internal/config")

	// Default Values
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("catalog.url", "https://opencode.ai/api/zen/v1/models")
	v.SetDefault("enrich.url", "https://models.dev/api.json")
	v.SetDefault("provider.slug", "zen")
	v.SetDefault("provider.name", "Zen")
	v.SetDefault("provider.base_url", "https://opencode.ai/api/zen/v1")
	v.SetDefault("provider.api_key_env", "ZEN_API_KEY")
	v.SetDefault("cache.backend", "disk")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("store.dsn", "file:modelsync.db?cache=shared&mode=rwc&_journal_mode=WAL&_busy_timeout=5000")
	v.SetDefault("sync.cold_start_timeout", 5*time.Second)
	v.SetDefault("notify.free_models", true)
	v.SetDefault("rate_limit.requests_per_second", 10.0)
	v.SetDefault("rate_limit.burst", 20)

	// Environment Variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
