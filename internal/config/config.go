package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

const defaultAPIToken = "dev-token"

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Rates    RatesConfig    `yaml:"rates"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	GRPCAddr string `yaml:"grpc_addr"`
	APIToken string `yaml:"api_token"`
}

type DatabaseConfig struct {
	Driver     string `yaml:"driver"`
	SQLitePath string `yaml:"sqlite_path"`
	// ConnStr wins over the individual Postgres fields when set
	ConnStr  string `yaml:"conn_str"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// RatesConfig controls the exchange rate refresher. An empty FeedURL disables it.
type RatesConfig struct {
	FeedURL       string        `yaml:"feed_url"`
	RefreshCron   string        `yaml:"refresh_cron"`
	RefreshOnBoot bool          `yaml:"refresh_on_boot"`
	Timeout       time.Duration `yaml:"timeout"`
	MaxAttempts   int           `yaml:"max_attempts"`
}

type LogConfig struct {
	Level             string `yaml:"level"`
	Encoding          string `yaml:"encoding"`
	Development       bool   `yaml:"development"`
	DisableCaller     bool   `yaml:"disable_caller"`
	DisableStacktrace bool   `yaml:"disable_stacktrace"`
	Sampling          bool   `yaml:"sampling"`
}

// Load reads .env, then the YAML file at path (missing file is fine),
// then applies environment overrides and defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.GRPCAddr = envStr("FOLIO_GRPC_ADDR", c.Server.GRPCAddr)
	c.Server.APIToken = envStr("API_TOKEN", c.Server.APIToken)

	c.Database.Driver = envStr("FOLIO_DB_DRIVER", c.Database.Driver)
	c.Database.SQLitePath = envStr("FOLIO_SQLITE_PATH", c.Database.SQLitePath)
	c.Database.ConnStr = envStr("DB_CONN_STR", c.Database.ConnStr)
	c.Database.Host = envStr("DB_HOST", c.Database.Host)
	c.Database.Port = envInt("DB_PORT", c.Database.Port)
	c.Database.User = envStr("DB_USER", c.Database.User)
	c.Database.Password = envStr("DB_PASSWORD", c.Database.Password)
	c.Database.Name = envStr("DB_NAME", c.Database.Name)

	c.Rates.FeedURL = envStr("FOLIO_RATES_FEED_URL", c.Rates.FeedURL)
	c.Rates.RefreshCron = envStr("FOLIO_RATES_REFRESH_CRON", c.Rates.RefreshCron)
	c.Rates.RefreshOnBoot = envBool("FOLIO_RATES_REFRESH_ON_BOOT", c.Rates.RefreshOnBoot)
	c.Rates.MaxAttempts = envInt("FOLIO_RATES_MAX_ATTEMPTS", c.Rates.MaxAttempts)
	if v := os.Getenv("FOLIO_RATES_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Rates.Timeout = d
		}
	}

	c.Log.Level = envStr("FOLIO_LOG_LEVEL", c.Log.Level)
	c.Log.Encoding = envStr("FOLIO_LOG_ENCODING", c.Log.Encoding)
}

func (c *Config) applyDefaults() {
	if c.Server.GRPCAddr == "" {
		c.Server.GRPCAddr = ":8080"
	}
	if c.Server.APIToken == "" {
		c.Server.APIToken = defaultAPIToken
	}

	if c.Database.Driver == "" {
		c.Database.Driver = DriverSQLite
	}
	c.Database.Driver = strings.ToLower(c.Database.Driver)
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/folio.db"
	}
	if c.Database.Host == "" {
		c.Database.Host = "localhost"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.User == "" {
		c.Database.User = "postgres"
	}
	if c.Database.Password == "" {
		c.Database.Password = "postgres"
	}
	if c.Database.Name == "" {
		c.Database.Name = "folio"
	}

	if c.Rates.RefreshCron == "" {
		c.Rates.RefreshCron = "0 0 */6 * * *"
	}
	if c.Rates.Timeout == 0 {
		c.Rates.Timeout = 10 * time.Second
	}
	if c.Rates.MaxAttempts == 0 {
		c.Rates.MaxAttempts = 3
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Encoding == "" {
		c.Log.Encoding = "json"
	}
}

// PostgresDSN returns the connection string for the Postgres driver
func (d DatabaseConfig) PostgresDSN() string {
	if d.ConnStr != "" {
		return d.ConnStr
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Name)
}

// Validate checks that the loaded values are usable.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("database.driver %q is invalid (want sqlite, postgres or memory)", c.Database.Driver)
	}
	if c.Server.GRPCAddr == "" {
		return errors.New("server.grpc_addr is required")
	}
	if c.Server.APIToken == "" {
		return errors.New("server.api_token is required")
	}
	if c.Rates.MaxAttempts < 1 {
		return errors.New("rates.max_attempts must be positive")
	}
	if c.Rates.Timeout < 0 {
		return errors.New("rates.timeout must be non-negative")
	}
	switch c.Log.Encoding {
	case "json", "console":
	default:
		return fmt.Errorf("log.encoding %q is invalid (want json or console)", c.Log.Encoding)
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		v = strings.ToLower(v)
		return v == "true" || v == "1" || v == "yes"
	}
	return fallback
}
