package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values.
type Config struct {
	// Logging. An empty LogFile logs to stderr only.
	LogFile  string
	LogLevel slog.Level

	// Detection
	Workers   int
	Algorithm string

	// Mutation
	OpTimeout time.Duration

	// Tracing to stdout
	Trace bool

	// Home is where the named roots live.
	Home string

	// Archive is the SQLite file used by --save and the reports command.
	Archive string
}

// Load reads configuration from environment variables.
func Load() Config {
	home := getEnv("FOLDERLY_HOME", userHome())
	return Config{
		LogFile:  getEnv("FOLDERLY_LOG_FILE", ""),
		LogLevel: parseLogLevel(getEnv("FOLDERLY_LOG_LEVEL", "WARN")),

		Workers:   parseInt(getEnv("FOLDERLY_WORKERS", ""), runtime.NumCPU()),
		Algorithm: getEnv("FOLDERLY_ALGORITHM", "sha256"),

		OpTimeout: parseDuration(getEnv("FOLDERLY_OP_TIMEOUT", ""), 0),

		Trace: getEnv("FOLDERLY_TRACE", "false") == "true",

		Home:    home,
		Archive: getEnv("FOLDERLY_ARCHIVE", filepath.Join(home, ".folderly", "runs.db")),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func userHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// parseInt falls back to def for empty, malformed or non-positive values.
func parseInt(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return def
	}
	return d
}
