package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the resolved service configuration. Values come from the
// environment, with a .env file honored for local development.
type Config struct {
	Port         string
	DatabasePath string
	LogFile      string

	RefreshInterval time.Duration

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	GoogleTokenPath    string
	GoogleCalendarID   string

	// ICSFeeds is a comma-separated list of name=url pairs.
	ICSFeeds map[string]string

	TravelLegMinutes int
	IncludeTravel    bool
	WarningRatio     float64
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment
// variables win over it.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:         getEnv("PORT", "8080"),
		DatabasePath: getEnv("DATABASE_PATH", "data/petgenie.db"),
		LogFile:      os.Getenv("LOG_FILE"),

		RefreshInterval: getDuration("REFRESH_INTERVAL", 30*time.Minute),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		GoogleTokenPath:    getEnv("GOOGLE_TOKEN_PATH", "data/google_token.json"),
		GoogleCalendarID:   getEnv("GOOGLE_CALENDAR_ID", "primary"),

		ICSFeeds: parseFeeds(os.Getenv("ICS_FEEDS")),

		TravelLegMinutes: getInt("TRAVEL_LEG_MINUTES", 15),
		IncludeTravel:    getBool("INCLUDE_TRAVEL", true),
		WarningRatio:     getFloat("WARNING_RATIO", 0.8),
	}
}

// GoogleConfigured reports whether the Google Calendar source can be built.
func (c Config) GoogleConfigured() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// parseFeeds parses "home=https://...,work=https://..." into a map.
func parseFeeds(raw string) map[string]string {
	feeds := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, url, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" || strings.TrimSpace(url) == "" {
			continue
		}
		feeds[name] = strings.TrimSpace(url)
	}
	return feeds
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
