package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const envPrefix = "COFFEERUN"

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Log      *LogConfig      `mapstructure:"log"`
	Database *DatabaseConfig `mapstructure:"database"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	SQLite   *SQLiteConfig   `mapstructure:"sqlite"`
	Pricing  *PricingConfig  `mapstructure:"pricing"`
	Sentry   *SentryConfig   `mapstructure:"sentry"`
}

type APIConfig struct {
	Environment        string   `mapstructure:"environment"`
	Port               string   `mapstructure:"port"`
	BaseURL            string   `mapstructure:"base_url"`
	AllowedCORSDomains []string `mapstructure:"allowed_cors_domains"`
	JWTSigningKey      string   `mapstructure:"jwt_signing_key"`
	Timezone           string   `mapstructure:"timezone"`
}

// Location resolves Timezone, falling back to UTC when it is empty.
func (c *APIConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q -> %w", c.Timezone, err)
	}

	return loc, nil
}

// PublicURL is BaseURL with a scheme, http unless one is given.
func (c *APIConfig) PublicURL() string {
	base := strings.TrimRight(c.BaseURL, "/")
	if strings.Contains(base, "://") {
		return base
	}

	return "http://" + base
}

// Host is BaseURL without any scheme, as swagger wants it.
func (c *APIConfig) Host() string {
	base := strings.TrimRight(c.BaseURL, "/")
	if i := strings.Index(base, "://"); i >= 0 {
		return base[i+3:]
	}

	return base
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // "postgres" or "sqlite"
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

func (c *PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DB, c.SSLMode,
	)
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type PricingConfig struct {
	Strategy  string `mapstructure:"strategy"` // "flat" or "cafe"
	FlatPrice string `mapstructure:"flat_price"`
}

func (c *PricingConfig) FlatAmount() (decimal.Decimal, error) {
	if c.FlatPrice == "" {
		return decimal.NewFromInt(4), nil
	}

	amount, err := decimal.NewFromString(c.FlatPrice)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid flat_price %q -> %w", c.FlatPrice, err)
	}

	return amount, nil
}

type SentryConfig struct {
	DSN     string `mapstructure:"dsn"`
	Release string `mapstructure:"release"`
}

// Load reads the yaml file at path. Any key can be overridden from the
// environment, e.g. COFFEERUN_API_PORT.
func Load(path string) (*AppConfig, error) {
	v, err := newViper(path)
	if err != nil {
		return nil, err
	}

	return decode(v)
}

// Watch loads the config and calls onChange with the re-read config every
// time the file changes on disk.
func Watch(path string, onChange func(*AppConfig)) (*AppConfig, error) {
	v, err := newViper(path)
	if err != nil {
		return nil, err
	}

	conf, err := decode(v)
	if err != nil {
		return nil, err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}

		reloaded, err := decode(v)
		if err != nil {
			return
		}
		onChange(reloaded)
	})
	v.WatchConfig()

	return conf, nil
}

func newViper(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.environment", "development")
	v.SetDefault("api.port", "8080")
	v.SetDefault("api.timezone", "Australia/Sydney")
	v.SetDefault("gin.mode", "debug")
	v.SetDefault("log.level", "info")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("sqlite.path", "coffeerun.db")
	v.SetDefault("pricing.strategy", "flat")
	v.SetDefault("pricing.flat_price", "4.00")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("sentry.dsn", "")
}

func decode(v *viper.Viper) (*AppConfig, error) {
	var conf AppConfig
	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}

	if conf.API.JWTSigningKey == "" {
		return nil, fmt.Errorf("api.jwt_signing_key must be set")
	}

	return &conf, nil
}
