// Package config loads process-level settings from the environment, with an
// optional .env file for local development.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds every setting the server reads at startup.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string
	// StaticDir is served at the web root for the client assets.
	StaticDir string
	// RedisAddr enables the action historian when non-empty.
	RedisAddr string
	// LogLevel is a logrus level name.
	LogLevel string
}

// Load reads configuration, consulting a .env file if one is present.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		Addr:      getenv("LISTEN_ADDR", ":3000"),
		StaticDir: getenv("STATIC_DIR", "public"),
		RedisAddr: os.Getenv("REDIS_ADDR"),
		LogLevel:  getenv("LOG_LEVEL", "info"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
