package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Addr          string
	UpstreamURL   string
	SessionSecret string
	PostgresDSN   string
	Environment   string
	SessionTTL    time.Duration
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		Addr:          fallback(os.Getenv("PANEL_ADDR"), ":8080"),
		UpstreamURL:   strings.TrimSpace(os.Getenv("PANEL_UPSTREAM_URL")),
		SessionSecret: strings.TrimSpace(os.Getenv("PANEL_SESSION_SECRET")),
		PostgresDSN:   strings.TrimSpace(os.Getenv("PANEL_PG_DSN")),
		Environment:   fallback(os.Getenv("PANEL_ENV"), "prod"),
	}

	hours := fallback(os.Getenv("PANEL_SESSION_TTL_HOURS"), "720")
	if ttlHours, err := strconv.Atoi(hours); err == nil && ttlHours > 0 {
		cfg.SessionTTL = time.Duration(ttlHours) * time.Hour
	} else {
		cfg.SessionTTL = 720 * time.Hour
	}

	if cfg.UpstreamURL == "" {
		return Config{}, errors.New("PANEL_UPSTREAM_URL is required")
	}
	if u, err := url.Parse(cfg.UpstreamURL); err != nil || u.Scheme == "" || u.Host == "" {
		return Config{}, fmt.Errorf("PANEL_UPSTREAM_URL is not a valid base URL: %q", cfg.UpstreamURL)
	}
	if cfg.SessionSecret == "" {
		return Config{}, errors.New("PANEL_SESSION_SECRET is required")
	}

	return cfg, nil
}

// Development reports whether the panel runs with dev-oriented logging.
func (c Config) Development() bool {
	return strings.EqualFold(c.Environment, "dev")
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}
