package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Scraper  ScraperConfig
	Resume   ResumeConfig
	Log      LogConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string
}

// Enabled reports whether enough is configured to open a pool.
func (d DatabaseConfig) Enabled() bool {
	return d.DBHost != "" && d.DBName != ""
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	TTL      time.Duration
}

func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

type ScraperConfig struct {
	Retries   int
	BaseDelay time.Duration
	Timeout   time.Duration
	Headless  bool
	Workers   int
	HostRPS   float64
}

type ResumeConfig struct {
	MaxBytes int64
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

// SetDefaults registers the fallback values for optional keys.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_TTL", "6h")
	v.SetDefault("SCRAPER_RETRIES", 3)
	v.SetDefault("SCRAPER_BASE_DELAY", "1s")
	v.SetDefault("SCRAPER_TIMEOUT", "10s")
	v.SetDefault("SCRAPER_HEADLESS", false)
	v.SetDefault("SCRAPER_WORKERS", 4)
	v.SetDefault("SCRAPER_HOST_RPS", 1.0)
	v.SetDefault("RESUME_MAX_BYTES", 5<<20)
	v.SetDefault("LOG_JSON", false)
	v.SetDefault("LOG_DEBUG", false)
}

// Load reads the configuration from the environment (and any config file
// already read into v). A nil v uses a fresh instance bound to the process
// environment.
func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		v = viper.New()
	}
	v.AutomaticEnv()
	SetDefaults(v)

	cfg := Config{}

	var missing []string
	req := func(key string) string {
		s := strings.TrimSpace(v.GetString(key))
		if s == "" {
			missing = append(missing, key)
		}
		return s
	}
	opt := func(key string) string {
		return strings.TrimSpace(v.GetString(key))
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST"),
		DBPort:     opt("DB_PORT"),
		DBName:     opt("DB_NAME"),
		DBUser:     opt("DB_USER"),
		DBPassword: opt("DB_PASSWORD"),
		DBSSLMode:  opt("DB_SSL_MODE"),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST"),
		Port:     opt("REDIS_PORT"),
		Password: opt("REDIS_PASSWORD"),
		TTL:      v.GetDuration("REDIS_TTL"),
	}

	cfg.Scraper = ScraperConfig{
		Retries:   v.GetInt("SCRAPER_RETRIES"),
		BaseDelay: v.GetDuration("SCRAPER_BASE_DELAY"),
		Timeout:   v.GetDuration("SCRAPER_TIMEOUT"),
		Headless:  v.GetBool("SCRAPER_HEADLESS"),
		Workers:   v.GetInt("SCRAPER_WORKERS"),
		HostRPS:   v.GetFloat64("SCRAPER_HOST_RPS"),
	}

	cfg.Resume = ResumeConfig{MaxBytes: v.GetInt64("RESUME_MAX_BYTES")}

	cfg.Log = LogConfig{
		JSON:  v.GetBool("LOG_JSON"),
		Debug: v.GetBool("LOG_DEBUG"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	if cfg.Scraper.Retries <= 0 {
		return Config{}, fmt.Errorf("SCRAPER_RETRIES must be positive, got %d", cfg.Scraper.Retries)
	}
	if cfg.Scraper.BaseDelay < 0 {
		return Config{}, fmt.Errorf("SCRAPER_BASE_DELAY must not be negative")
	}

	return cfg, nil
}
