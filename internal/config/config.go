// Package config loads runtime configuration for the importer and the
// catalogue server. Values come from config/config.yaml when present and are
// overridden by environment variables (optionally seeded from a .env file).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"tyrehub/catalog/internal/constants"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	AppEnv   string         `mapstructure:"app_env"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Import   ImportConfig   `mapstructure:"import"`
	Admin    AdminConfig    `mapstructure:"admin"`
}

type PostgresConfig struct {
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
}

// DSN returns the connection string, preferring an explicit URL.
func (p PostgresConfig) DSN() string {
	if p.URL != "" {
		return p.URL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", p.User, p.Password, p.Host, p.Port, p.DB)
}

// RedisConfig is optional; an empty Host disables redis-backed caching and locking.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

type HTTPConfig struct {
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	// LookupRefresh is how often the server re-warms the lookup cache. Zero disables it.
	LookupRefresh time.Duration `mapstructure:"lookup_refresh"`
}

// ImportConfig drives the feed importer.
type ImportConfig struct {
	File       string     `mapstructure:"file"`
	BatchSize  int        `mapstructure:"batch_size"`
	SellerName string     `mapstructure:"seller_name"`
	Source     string     `mapstructure:"source"`
	Currency   string     `mapstructure:"currency"`
	TypeRules  []TypeRule `mapstructure:"type_rules"`

	// Schedule makes the server re-import File on this interval. Zero disables it.
	Schedule time.Duration `mapstructure:"schedule"`
}

// TypeRule maps a substring of the feed's free-text type field to a tyre type tag.
// With Word set the substring must appear as whole words.
type TypeRule struct {
	Contains string `mapstructure:"contains"`
	Tag      string `mapstructure:"tag"`
	Word     bool   `mapstructure:"word"`
}

type AdminConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// TyreTypes is the closed set of tags a type rule may produce.
var TyreTypes = map[string]bool{
	constants.TyreTypeNew:     true,
	constants.TyreTypeSH:      true,
	constants.TyreTypeEco:     true,
	constants.TyreTypeRemould: true,
	constants.TyreTypeRetread: true,
}

// DefaultTypeRules is used when no rules are configured. Order matters:
// "second hand" must be tested before "eco", which it contains.
func DefaultTypeRules() []TypeRule {
	return []TypeRule{
		{Contains: "second hand", Tag: constants.TyreTypeSH},
		{Contains: "sh", Tag: constants.TyreTypeSH, Word: true},
		{Contains: "resapat", Tag: constants.TyreTypeRetread},
		{Contains: "retread", Tag: constants.TyreTypeRetread},
		{Contains: "remould", Tag: constants.TyreTypeRemould},
		{Contains: "eco", Tag: constants.TyreTypeEco},
	}
}

var envBindings = map[string]string{
	"app_env":             "APP_ENV",
	"postgres.url":        "DATABASE_URL",
	"postgres.host":       "PG_HOST",
	"postgres.port":       "PG_PORT",
	"postgres.user":       "PG_USER",
	"postgres.password":   "PG_PASSWORD",
	"postgres.db":         "PG_DB",
	"redis.host":          "REDIS_HOST",
	"redis.port":          "REDIS_PORT",
	"redis.password":      "REDIS_PASSWORD",
	"http.port":           "HTTP_PORT",
	"http.lookup_refresh": "LOOKUP_REFRESH_INTERVAL",
	"import.file":         "IMPORT_FILE",
	"import.batch_size":   "IMPORT_BATCH_SIZE",
	"import.seller_name":  "IMPORT_SELLER_NAME",
	"import.source":       "IMPORT_SOURCE",
	"import.currency":     "IMPORT_CURRENCY",
	"import.schedule":     "IMPORT_SCHEDULE",
	"admin.jwt_secret":    "ADMIN_JWT_SECRET",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "development")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.user", "tyres")
	v.SetDefault("postgres.password", "tyres")
	v.SetDefault("postgres.db", "tyres")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("http.port", "8080")
	v.SetDefault("http.allowed_origins", []string{"https://*", "http://localhost:3000"})
	v.SetDefault("http.lookup_refresh", "5m")
	v.SetDefault("import.file", "./data.json")
	v.SetDefault("import.batch_size", 2000)
	v.SetDefault("import.seller_name", "RADBURG")
	v.SetDefault("import.source", "MP")
	v.SetDefault("import.currency", "RON")
	v.SetDefault("import.schedule", "0s")
}

// Load reads .env (if any), config/config.yaml (if any) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(viper.New(), "./config")
}

func load(v *viper.Viper, paths ...string) (*Config, error) {
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if len(cfg.Import.TypeRules) == 0 {
		cfg.Import.TypeRules = DefaultTypeRules()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail deep inside an import run.
func (c *Config) Validate() error {
	if c.Import.Schedule < 0 {
		return fmt.Errorf("import.schedule must not be negative, got %s", c.Import.Schedule)
	}
	if c.Import.BatchSize < 1 {
		return fmt.Errorf("import.batch_size must be >= 1, got %d", c.Import.BatchSize)
	}
	if strings.TrimSpace(c.Import.SellerName) == "" {
		return errors.New("import.seller_name is required")
	}
	for i, rule := range c.Import.TypeRules {
		if strings.TrimSpace(rule.Contains) == "" {
			return fmt.Errorf("import.type_rules[%d]: empty substring", i)
		}
		if !TyreTypes[strings.ToUpper(rule.Tag)] {
			return fmt.Errorf("import.type_rules[%d]: unknown tag %q", i, rule.Tag)
		}
	}
	return nil
}

// Getenv returns the environment value or a fallback.
func Getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
