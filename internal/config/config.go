// Package config reads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Slot backends.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// MaxSlotCount bounds FREECELL_SLOT_COUNT.
const MaxSlotCount = 99

// RedisConfig holds the connection settings for the redis slot backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Config is the full runtime configuration.
type Config struct {
	DataDir     string
	Backend     string
	SlotCount   int
	SQLitePath  string
	Redis       RedisConfig
	PostgresDSN string
	SlotOwner   string
	Autoplay    bool
	LogLevel    string
	LogFormat   string
	IOTimeout   time.Duration
}

// Default returns the configuration used when no variables are set.
func Default() Config {
	return Config{
		DataDir:   "data",
		Backend:   BackendFile,
		SlotCount: 10,
		Redis:     RedisConfig{Prefix: "freecell"},
		SlotOwner: "local",
		Autoplay:  true,
		LogLevel:  "info",
		LogFormat: "text",
		IOTimeout: 3 * time.Second,
	}
}

// Load reads envFile into the process environment (a missing file is not an
// error), then builds and validates the configuration.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", envFile, err)
		}
	}
	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv overlays FREECELL_* and LOG_* variables on Default. Unparseable
// values fall back to the default.
func FromEnv() Config {
	cfg := Default()

	if v := getEnv("FREECELL_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := getEnv("FREECELL_SLOT_BACKEND"); v != "" {
		cfg.Backend = strings.ToLower(v)
	}
	if v, ok := getEnvInt("FREECELL_SLOT_COUNT"); ok {
		cfg.SlotCount = v
	}
	cfg.SQLitePath = getEnv("FREECELL_SQLITE_PATH")
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = filepath.Join(cfg.DataDir, "freecell.db")
	}

	cfg.Redis.Addr = getEnv("FREECELL_REDIS_ADDR")
	cfg.Redis.Password = os.Getenv("FREECELL_REDIS_PASSWORD")
	if v, ok := getEnvInt("FREECELL_REDIS_DB"); ok {
		cfg.Redis.DB = v
	}
	if v := getEnv("FREECELL_REDIS_PREFIX"); v != "" {
		cfg.Redis.Prefix = v
	}
	cfg.PostgresDSN = getEnv("FREECELL_POSTGRES_DSN")
	if v := getEnv("FREECELL_SLOT_OWNER"); v != "" {
		cfg.SlotOwner = v
	}

	if v := getEnv("FREECELL_AUTOPLAY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Autoplay = b
		}
	}
	if v := getEnv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := getEnv("LOG_FORMAT"); v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}
	if v := getEnv("FREECELL_IO_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.IOTimeout = d
		}
	}
	return cfg
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendFile, BackendMemory, BackendSQLite:
	case BackendRedis:
		if c.Redis.Addr == "" {
			return errors.New("config: FREECELL_REDIS_ADDR is required for the redis backend")
		}
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return errors.New("config: FREECELL_POSTGRES_DSN is required for the postgres backend")
		}
	default:
		return fmt.Errorf("config: unknown FREECELL_SLOT_BACKEND %q", c.Backend)
	}
	if c.SlotCount < 1 || c.SlotCount > MaxSlotCount {
		return fmt.Errorf("config: FREECELL_SLOT_COUNT=%d must be in 1..%d", c.SlotCount, MaxSlotCount)
	}
	if c.IOTimeout <= 0 {
		return fmt.Errorf("config: FREECELL_IO_TIMEOUT=%s must be positive", c.IOTimeout)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: LOG_LEVEL: %w", err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("config: LOG_FORMAT %q must be text or json", c.LogFormat)
	}
	return nil
}

// ConfigureLogger applies LogLevel and LogFormat to l.
func (c Config) ConfigureLogger(l *logrus.Logger) error {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("config: LOG_LEVEL: %w", err)
	}
	l.SetLevel(level)
	if c.LogFormat == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}

func getEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func getEnvInt(key string) (int, bool) {
	val := getEnv(key)
	if val == "" {
		return 0, false
	}
	num, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return num, true
}
