package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// ErrMissingCredentials is returned when a required secret is not set.
var ErrMissingCredentials = errors.New("TELEGRAM_TOKEN and WEATHER_API_KEY must be set")

var validate = validator.New()

type AppConfig struct {
	TelegramToken string `validate:"required"`
	TelegramDebug bool

	WeatherAPIKey string `validate:"required"`
	WeatherAPIURL string `validate:"required,url"`
	WeatherLang   string `validate:"required"`

	// HTTPTimeout bounds a single provider lookup.
	HTTPTimeout time.Duration `validate:"gt=0"`

	// LocationsFile optionally replaces the built-in shortcut table.
	LocationsFile string

	// Provider probing; ProbeInterval 0 disables it.
	ProbeInterval   time.Duration `validate:"gte=0"`
	ProbeQuery      string
	ProbeMaxHistory int           // max number of probes kept (0 = unlimited)
	ProbeMaxAge     time.Duration // max age of probes (0 = unlimited)

	Port     string
	LogLevel string
}

// Load reads configuration from environment with sensible defaults.
// A .env file in the working directory is loaded first when present.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() (*AppConfig, error) {
	cfg := &AppConfig{}

	cfg.TelegramToken = strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN"))
	debug, err := getenvBool("TELEGRAM_DEBUG", false)
	if err != nil {
		return nil, err
	}
	cfg.TelegramDebug = debug

	cfg.WeatherAPIKey = strings.TrimSpace(os.Getenv("WEATHER_API_KEY"))
	cfg.WeatherAPIURL = getenvDefault("WEATHER_API_URL", "http://api.weatherapi.com")
	cfg.WeatherLang = getenvDefault("WEATHER_LANG", "ru")

	timeout, err := getenvDuration("HTTP_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = timeout

	cfg.LocationsFile = os.Getenv("LOCATIONS_FILE")

	// Probe interval: default 30 minutes.
	interval, err := getenvDuration("PROBE_INTERVAL", "30m")
	if err != nil {
		return nil, err
	}
	cfg.ProbeInterval = interval
	cfg.ProbeQuery = getenvDefault("PROBE_QUERY", "Москва")
	maxHistory, err := getenvInt("PROBE_MAX_HISTORY", 48) // a day at 30-minute intervals
	if err != nil {
		return nil, err
	}
	cfg.ProbeMaxHistory = maxHistory

	maxAge, err := getenvDuration("PROBE_MAX_AGE", "24h")
	if err != nil {
		return nil, err
	}
	cfg.ProbeMaxAge = maxAge

	cfg.Port = getenvDefault("HTTP_PORT", "8080")
	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "required" && (fe.Field() == "TelegramToken" || fe.Field() == "WeatherAPIKey") {
				return ErrMissingCredentials
			}
		}
	}
	return fmt.Errorf("config validation failed: %w", err)
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getenvDuration(key, def string) (time.Duration, error) {
	raw := getenvDefault(key, def)
	if raw == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
