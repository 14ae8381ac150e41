// Package config loads runtime configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults used when the environment does not override a setting.
const (
	DefaultAPIBaseURL    = "http://localhost:8090"
	DefaultRenderURL     = "http://localhost:8188"
	DefaultAutosaveDelay = 2 * time.Second
	DefaultRenderWorkers = 3
	DefaultHTTPTimeout   = 30 * time.Second
)

// Config holds everything the binary needs to talk to its collaborators.
type Config struct {
	APIBaseURL    string        // history/content backend
	RenderURL     string        // image render service
	StateDir      string        // local snapshot directory
	AutosaveDelay time.Duration // debounce window for remote autosave
	RenderWorkers int           // concurrent page renders per bulk run
	HTTPTimeout   time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first if present; a missing file is not an error.
func Load() Config {
	godotenv.Load()

	cfg := Config{
		APIBaseURL:    envOr("POSTCRAFT_API_URL", DefaultAPIBaseURL),
		RenderURL:     envOr("POSTCRAFT_RENDER_URL", DefaultRenderURL),
		StateDir:      envOr("POSTCRAFT_STATE_DIR", defaultStateDir()),
		AutosaveDelay: envDurationOr("POSTCRAFT_AUTOSAVE_DELAY", DefaultAutosaveDelay),
		RenderWorkers: envIntOr("POSTCRAFT_RENDER_WORKERS", DefaultRenderWorkers),
		HTTPTimeout:   envDurationOr("POSTCRAFT_HTTP_TIMEOUT", DefaultHTTPTimeout),
	}
	if cfg.RenderWorkers < 1 {
		cfg.RenderWorkers = 1
	}
	return cfg
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".postcraft"
	}
	return filepath.Join(home, ".postcraft")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
