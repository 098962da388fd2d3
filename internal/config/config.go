package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/cast"

	"voteinfo/internal/dataset"
	"voteinfo/internal/fetch"
)

type Config struct {
	HTTPAddr string

	NationalCatalogURL string
	CantonalCatalogURL string

	FetchTimeout time.Duration
	UserAgent    string

	// AllowedHosts are the hosts API clients may ask the server to fetch
	// dataset documents from.
	AllowedHosts []string

	LogLevel  string
	LogFormat string
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		HTTPAddr:           ":8080",
		NationalCatalogURL: dataset.NationalCatalogURL,
		CantonalCatalogURL: dataset.CantonalCatalogURL,
		FetchTimeout:       30 * time.Second,
		UserAgent:          fetch.DefaultUserAgent,
		AllowedHosts:       append([]string(nil), dataset.DefaultAllowedHosts...),
		LogLevel:           "info",
		LogFormat:          "text",
	}
}

// FromEnv reads the configuration from the environment. Unset variables keep
// their defaults.
func FromEnv() (Config, error) {
	c := Default()

	if v := env("HTTP_ADDR"); v != "" {
		c.HTTPAddr = v
	} else if port := env("PORT"); port != "" {
		c.HTTPAddr = ":" + port
	}

	if v := env("NATIONAL_CATALOG_URL"); v != "" {
		c.NationalCatalogURL = v
	}
	if v := env("CANTONAL_CATALOG_URL"); v != "" {
		c.CantonalCatalogURL = v
	}
	if v := env("FETCH_TIMEOUT"); v != "" {
		d, err := cast.ToDurationE(v)
		if err != nil {
			return c, fmt.Errorf("FETCH_TIMEOUT: %w", err)
		}
		c.FetchTimeout = d
	}
	if v := env("USER_AGENT"); v != "" {
		c.UserAgent = v
	}
	if v := env("ALLOWED_HOSTS"); v != "" {
		c.AllowedHosts = splitList(v)
	}
	if v := env("LOG_LEVEL"); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := env("LOG_FORMAT"); v != "" {
		c.LogFormat = strings.ToLower(v)
	}

	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

// splitList splits a comma or space separated list.
func splitList(v string) []string {
	return strings.FieldsFunc(v, func(r rune) bool {
		return r == ',' || r == ' '
	})
}

// Validate ensures all required fields are present and valid
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.HTTPAddr, validation.Required),
		validation.Field(&c.NationalCatalogURL, validation.Required, is.URL),
		validation.Field(&c.CantonalCatalogURL, validation.Required, is.URL),
		validation.Field(&c.FetchTimeout, validation.Min(time.Duration(0))),
		validation.Field(&c.AllowedHosts, validation.Required, validation.Each(is.Host)),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.LogFormat, validation.In("text", "json")),
	)
}

// SlogLevel maps LogLevel onto a slog level.
func (c Config) SlogLevel() slog.Level {
	return ParseLevel(c.LogLevel)
}

// ParseLevel maps a level name onto a slog level; unknown names yield info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
