package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Togather-Foundation/clubhub/internal/validation"
	"gopkg.in/yaml.v3"
)

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// minSessionSecret is the shortest secret accepted in production.
	minSessionSecret = 32

	// devSessionSecret keeps sessions working across restarts in development.
	devSessionSecret = "clubhub-development-only-session-secret"
)

type Config struct {
	Server         ServerConfig         `yaml:"server"`
	Storage        StorageConfig        `yaml:"storage"`
	Session        SessionConfig        `yaml:"session"`
	RateLimit      RateLimitConfig      `yaml:"rate_limit"`
	CORS           CORSConfig           `yaml:"cors"`
	Email          EmailConfig          `yaml:"email"`
	Tracing        TracingConfig        `yaml:"tracing"`
	Logging        LoggingConfig        `yaml:"logging"`
	AdminBootstrap AdminBootstrapConfig `yaml:"admin_bootstrap"`
	Environment    string               `yaml:"environment"`
}

type ServerConfig struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	BaseURL string `yaml:"base_url"`
}

type StorageConfig struct {
	// Driver is "memory" or "postgres".
	Driver         string `yaml:"driver"`
	DatabaseURL    string `yaml:"database_url"`
	MaxConnections int    `yaml:"max_connections"`
	Seed           bool   `yaml:"seed"`
	AutoMigrate    bool   `yaml:"auto_migrate"`
}

type SessionConfig struct {
	Secret        string        `yaml:"secret"`
	CookieName    string        `yaml:"cookie_name"`
	TTL           time.Duration `yaml:"ttl"`
	PruneInterval time.Duration `yaml:"prune_interval"`
	Secure        bool          `yaml:"secure"`
}

type RateLimitConfig struct {
	PublicPerMinute   int      `yaml:"public_per_minute"`
	AdminPerMinute    int      `yaml:"admin_per_minute"`
	LoginPer15Minutes int      `yaml:"login_per_15_minutes"`
	TrustedProxyCIDRs []string `yaml:"trusted_proxy_cidrs"`
}

type CORSConfig struct {
	AllowedOrigins  []string `yaml:"allowed_origins"`
	AllowAllOrigins bool     `yaml:"allow_all_origins"`
}

type EmailConfig struct {
	Enabled      bool   `yaml:"enabled"`
	ResendAPIKey string `yaml:"resend_api_key"`
	From         string `yaml:"from"`
}

type TracingConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"`
	ServiceName  string  `yaml:"service_name"`
	OTLPEndpoint string  `yaml:"otlp_endpoint"`
	SampleRate   float64 `yaml:"sample_rate"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type AdminBootstrapConfig struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// Enabled reports whether a bootstrap admin should be ensured at startup.
func (c AdminBootstrapConfig) Enabled() bool {
	return c.Email != "" && c.Password != ""
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8080,
			BaseURL: "http://localhost:8080",
		},
		Storage: StorageConfig{
			Driver:         "memory",
			MaxConnections: 25,
			Seed:           true,
		},
		Session: SessionConfig{
			CookieName:    "clubhub_session",
			TTL:           24 * time.Hour,
			PruneInterval: time.Hour,
		},
		RateLimit: RateLimitConfig{
			PublicPerMinute:   120,
			AdminPerMinute:    0,
			LoginPer15Minutes: 5,
		},
		Email: EmailConfig{
			From: "ClubHub <noreply@clubhub.local>",
		},
		Tracing: TracingConfig{
			Exporter:    "none",
			ServiceName: "clubhub",
			SampleRate:  1.0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		AdminBootstrap: AdminBootstrapConfig{
			Name: "Super Admin",
		},
		Environment: EnvDevelopment,
	}
}

// Load builds the configuration from defaults, then the optional YAML file at
// path, then environment variables. Later sources win.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	finalize(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Environment, "ENVIRONMENT")

	setString(&cfg.Server.Host, "SERVER_HOST")
	setInt(&cfg.Server.Port, "SERVER_PORT")
	setString(&cfg.Server.BaseURL, "SERVER_BASE_URL")

	setString(&cfg.Storage.Driver, "STORAGE_DRIVER")
	setString(&cfg.Storage.DatabaseURL, "DATABASE_URL")
	setInt(&cfg.Storage.MaxConnections, "DATABASE_MAX_CONNECTIONS")
	setBool(&cfg.Storage.Seed, "STORAGE_SEED")
	setBool(&cfg.Storage.AutoMigrate, "STORAGE_AUTO_MIGRATE")

	setString(&cfg.Session.Secret, "SESSION_SECRET")
	setString(&cfg.Session.CookieName, "SESSION_COOKIE_NAME")
	setDuration(&cfg.Session.TTL, "SESSION_TTL")
	setDuration(&cfg.Session.PruneInterval, "SESSION_PRUNE_INTERVAL")
	setBool(&cfg.Session.Secure, "SESSION_COOKIE_SECURE")

	setInt(&cfg.RateLimit.PublicPerMinute, "RATE_LIMIT_PUBLIC")
	setInt(&cfg.RateLimit.AdminPerMinute, "RATE_LIMIT_ADMIN")
	setInt(&cfg.RateLimit.LoginPer15Minutes, "RATE_LIMIT_LOGIN")
	setList(&cfg.RateLimit.TrustedProxyCIDRs, "TRUSTED_PROXY_CIDRS")

	setList(&cfg.CORS.AllowedOrigins, "CORS_ALLOWED_ORIGINS")

	setBool(&cfg.Email.Enabled, "EMAIL_ENABLED")
	setString(&cfg.Email.ResendAPIKey, "RESEND_API_KEY")
	setString(&cfg.Email.From, "EMAIL_FROM")

	setBool(&cfg.Tracing.Enabled, "TRACING_ENABLED")
	setString(&cfg.Tracing.Exporter, "TRACING_EXPORTER")
	setString(&cfg.Tracing.ServiceName, "OTEL_SERVICE_NAME")
	setString(&cfg.Tracing.OTLPEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	setFloat(&cfg.Tracing.SampleRate, "TRACING_SAMPLE_RATE")

	setString(&cfg.Logging.Level, "LOG_LEVEL")
	setString(&cfg.Logging.Format, "LOG_FORMAT")

	setString(&cfg.AdminBootstrap.Email, "ADMIN_EMAIL")
	setString(&cfg.AdminBootstrap.Password, "ADMIN_PASSWORD")
	setString(&cfg.AdminBootstrap.Name, "ADMIN_NAME")
}

// finalize fills values derived from the environment.
func finalize(cfg *Config) {
	cfg.Environment = strings.ToLower(strings.TrimSpace(cfg.Environment))
	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))

	if cfg.Environment != EnvProduction {
		if cfg.Session.Secret == "" {
			cfg.Session.Secret = devSessionSecret
		}
		if len(cfg.CORS.AllowedOrigins) == 0 {
			cfg.CORS.AllowAllOrigins = true
		}
	} else {
		cfg.Session.Secure = true
		cfg.CORS.AllowAllOrigins = false
	}
}

func (c Config) Validate() error {
	switch c.Environment {
	case EnvDevelopment, EnvTest, EnvProduction:
	default:
		return fmt.Errorf("ENVIRONMENT must be one of development, test, production (got %q)", c.Environment)
	}

	switch c.Storage.Driver {
	case "memory":
	case "postgres":
		if c.Storage.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres storage driver")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be memory or postgres (got %q)", c.Storage.Driver)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}

	if c.Environment == EnvProduction {
		if len(c.Session.Secret) < minSessionSecret {
			return fmt.Errorf("SESSION_SECRET must be at least %d characters in production", minSessionSecret)
		}
		if len(c.CORS.AllowedOrigins) == 0 {
			return fmt.Errorf("CORS_ALLOWED_ORIGINS is required in production")
		}
	}

	if c.Email.Enabled && c.Email.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY is required when EMAIL_ENABLED is true")
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("TRACING_SAMPLE_RATE must be between 0 and 1")
	}

	if err := validation.BaseURL(c.Server.BaseURL, "SERVER_BASE_URL", c.Environment == EnvProduction); err != nil {
		return err
	}
	for _, origin := range c.CORS.AllowedOrigins {
		if err := validation.Origin(origin, "CORS_ALLOWED_ORIGINS"); err != nil {
			return err
		}
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

func setString(dst *string, key string) {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		*dst = value
	}
}

func setInt(dst *int, key string) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return
	}
	if parsed, err := strconv.Atoi(value); err == nil {
		*dst = parsed
	}
}

func setBool(dst *bool, key string) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return
	}
	if parsed, err := strconv.ParseBool(value); err == nil {
		*dst = parsed
	}
}

func setFloat(dst *float64, key string) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return
	}
	if parsed, err := strconv.ParseFloat(value, 64); err == nil {
		*dst = parsed
	}
}

func setDuration(dst *time.Duration, key string) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return
	}
	if parsed, err := time.ParseDuration(value); err == nil {
		*dst = parsed
	}
}

func setList(dst *[]string, key string) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*dst = out
}
