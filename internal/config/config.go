// Package config reads process settings from the environment, optionally
// seeded from a .env file in the working directory.
package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds the settings shared by the server and the command line tool.
type Config struct {
	Port     string
	LogLevel zerolog.Level
	// DBPath selects the SQLite store. Empty keeps games in memory.
	DBPath string
	// Home overrides the directory holding the command line game file.
	Home string
}

// Load reads .env (if present) and the environment. Variables already set in
// the environment win over .env entries.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() Config {
	lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: lvl,
		DBPath:   os.Getenv("DB_PATH"),
		Home:     os.Getenv("TTT_HOME"),
	}
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string { return ":" + c.Port }

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
