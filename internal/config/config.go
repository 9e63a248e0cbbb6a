// Package config loads runtime settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the resolved application configuration. Command-line flags
// override individual fields after loading.
type Config struct {
	// DBPath is the event store location. Empty means store.DefaultDBPath.
	DBPath string

	// NoHistory disables the event store entirely.
	NoHistory bool

	LogLevel string
	LogFile  string

	Quiz   QuizConfig
	Server ServerConfig
	Redis  RedisConfig
}

// QuizConfig controls problem generation and TUI feedback.
type QuizConfig struct {
	Seed             int64 // 0 means time-seeded
	Categories       []string
	FeedbackDuration time.Duration
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr       string
	SessionTTL time.Duration
}

// RedisConfig selects the redis session registry. An empty Addr keeps
// sessions in memory.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Load reads .env from the working directory when present, then builds a
// Config from the environment. Variables already set take precedence over
// the file.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path.
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a Config from environment variables only.
func FromEnv() *Config {
	return &Config{
		DBPath:    os.Getenv("SYNTAXIZ_DB"),
		NoHistory: getEnvBool("SYNTAXIZ_NO_HISTORY", false),
		LogLevel:  getEnv("SYNTAXIZ_LOG_LEVEL", "info"),
		LogFile:   os.Getenv("SYNTAXIZ_LOG_FILE"),
		Quiz: QuizConfig{
			Seed:             int64(getEnvInt("SYNTAXIZ_SEED", 0)),
			Categories:       splitList(os.Getenv("SYNTAXIZ_CATEGORIES")),
			FeedbackDuration: time.Duration(getEnvInt("SYNTAXIZ_FEEDBACK_MS", 1500)) * time.Millisecond,
		},
		Server: ServerConfig{
			Addr:       getEnv("SYNTAXIZ_ADDR", ":8080"),
			SessionTTL: time.Duration(getEnvInt("SYNTAXIZ_SESSION_TTL_MIN", 60)) * time.Minute,
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("SYNTAXIZ_REDIS_ADDR"),
			Password: os.Getenv("SYNTAXIZ_REDIS_PASSWORD"),
			DB:       getEnvInt("SYNTAXIZ_REDIS_DB", 0),
		},
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Quiz.FeedbackDuration < 0 {
		return fmt.Errorf("SYNTAXIZ_FEEDBACK_MS must not be negative")
	}
	if c.Server.SessionTTL <= 0 {
		return fmt.Errorf("SYNTAXIZ_SESSION_TTL_MIN must be positive")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("SYNTAXIZ_REDIS_DB must not be negative")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
