package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	ReaderEditApply = "apply"
	ReaderEditNoop  = "noop"
)

type Config struct {
	GinMode  string `yaml:"ginMode"`
	TZ       string `yaml:"tz"`
	Port     string `yaml:"port"`
	LogLevel string `yaml:"logLevel"`

	DBDriver   string `yaml:"dbDriver"`
	DBHost     string `yaml:"dbHost"`
	DBPort     string `yaml:"dbPort"`
	DBUser     string `yaml:"dbUser"`
	DBPass     string `yaml:"dbPass"`
	DBName     string `yaml:"dbName"`
	DBSSLMode  string `yaml:"dbSSLMode"`
	SQLitePath string `yaml:"sqlitePath"`

	// ReaderEditMode decides whether PUT /readers/:id copies the payload
	// (apply) or only checks the target exists (noop).
	ReaderEditMode string `yaml:"readerEditMode"`

	CORSOrigins []string `yaml:"corsOrigins"`

	RedisAddr       string        `yaml:"redisAddr"`
	RedisPassword   string        `yaml:"redisPassword"`
	RateLimit       int           `yaml:"rateLimit"`
	RateLimitWindow time.Duration `yaml:"rateLimitWindow"`
}

func defaults() *Config {
	return &Config{
		GinMode:         "debug",
		TZ:              "UTC",
		Port:            "8080",
		LogLevel:        "info",
		DBDriver:        DriverPostgres,
		DBHost:          "localhost",
		DBPort:          "5432",
		DBUser:          "postgres",
		DBName:          "library",
		SQLitePath:      "library.db",
		ReaderEditMode:  ReaderEditApply,
		RateLimit:       60,
		RateLimitWindow: time.Minute,
	}
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE and finally environment variables. In debug mode a .env.dev file
// found in the working directory or any parent is loaded first.
func Load() (*Config, error) {
	if getenv("GIN_MODE", "debug") == "debug" {
		loadDotEnv(".env.dev")
	}

	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.GinMode = getenv("GIN_MODE", cfg.GinMode)
	cfg.TZ = getenv("TZ", cfg.TZ)
	cfg.Port = getenv("PORT", cfg.Port)
	cfg.LogLevel = getenv("LOG_LEVEL", cfg.LogLevel)
	cfg.DBDriver = getenv("DB_DRIVER", cfg.DBDriver)
	cfg.DBHost = getenv("DB_HOST", cfg.DBHost)
	cfg.DBPort = getenv("DB_PORT", cfg.DBPort)
	cfg.DBUser = getenv("DB_USER", cfg.DBUser)
	cfg.DBPass = getenv("DB_PASS", cfg.DBPass)
	cfg.DBName = getenv("DB_NAME", cfg.DBName)
	cfg.DBSSLMode = getenv("DB_SSLMODE", cfg.DBSSLMode)
	cfg.SQLitePath = getenv("SQLITE_PATH", cfg.SQLitePath)
	cfg.ReaderEditMode = getenv("READER_EDIT_MODE", cfg.ReaderEditMode)
	cfg.RedisAddr = getenv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getenv("REDIS_PASSWORD", cfg.RedisPassword)

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitCSV(v)
	}
	if v := os.Getenv("RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config: RATE_LIMIT: %w", err)
		}
		cfg.RateLimit = n
	}
	if v := os.Getenv("RATE_LIMIT_WINDOW"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("config: RATE_LIMIT_WINDOW: %w", err)
		}
		cfg.RateLimitWindow = d
	}

	if cfg.DBSSLMode == "" {
		if cfg.GinMode == "release" {
			cfg.DBSSLMode = "require"
		} else {
			cfg.DBSSLMode = "disable"
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("config: unsupported db driver %q", c.DBDriver)
	}

	switch c.ReaderEditMode {
	case ReaderEditApply, ReaderEditNoop:
	default:
		return fmt.Errorf("config: reader edit mode must be %q or %q, got %q",
			ReaderEditApply, ReaderEditNoop, c.ReaderEditMode)
	}

	if c.Port == "" {
		return errors.New("config: port is required")
	}

	if c.RedisAddr != "" && (c.RateLimit <= 0 || c.RateLimitWindow <= 0) {
		return errors.New("config: rate limit requires positive limit and window")
	}

	return nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func (c *Config) DSN() string {
	if c.DBDriver == DriverSQLite {
		return c.SQLitePath
	}

	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.DBHost,
		c.DBUser,
		c.DBPass,
		c.DBName,
		c.DBPort,
		c.DBSSLMode,
		c.TZ,
	)
}

func loadDotEnv(filename string) {
	dir, err := os.Getwd()
	if err != nil {
		return
	}

	for {
		candidate := filepath.Join(dir, filename)
		if _, err := os.Stat(candidate); err == nil {
			if err := godotenv.Load(candidate); err != nil {
				slog.Warn("could not load env file", "path", candidate, "error", err)
			} else {
				slog.Info("loaded env file", "path", candidate)
			}
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
