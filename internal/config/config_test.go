package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voteinfo/internal/dataset"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"HTTP_ADDR", "PORT", "NATIONAL_CATALOG_URL", "CANTONAL_CATALOG_URL",
		"FETCH_TIMEOUT", "USER_AGENT", "ALLOWED_HOSTS", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	c, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, dataset.NationalCatalogURL, c.NationalCatalogURL)
	assert.Equal(t, dataset.CantonalCatalogURL, c.CantonalCatalogURL)
	assert.Equal(t, 30*time.Second, c.FetchTimeout)
	assert.Equal(t, dataset.DefaultAllowedHosts, c.AllowedHosts)
	assert.Equal(t, slog.LevelInfo, c.SlogLevel())
}

func TestFromEnv_AllowedHosts(t *testing.T) {
	clearEnv(t)
	t.Setenv("ALLOWED_HOSTS", "ogd-static.voteinfo-app.ch, mirror.example.org")

	c, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, []string{"ogd-static.voteinfo-app.ch", "mirror.example.org"}, c.AllowedHosts)
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("CANTONAL_CATALOG_URL", "https://catalog.example.org/cantonal")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("USER_AGENT", "ci")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FORMAT", "json")

	c, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9090", c.HTTPAddr)
	assert.Equal(t, "https://catalog.example.org/cantonal", c.CantonalCatalogURL)
	assert.Equal(t, 5*time.Second, c.FetchTimeout)
	assert.Equal(t, "ci", c.UserAgent)
	assert.Equal(t, slog.LevelDebug, c.SlogLevel())
	assert.Equal(t, "json", c.LogFormat)
}

func TestFromEnv_HTTPAddrWinsOverPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("HTTP_ADDR", "127.0.0.1:7000")

	c, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", c.HTTPAddr)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"NATIONAL_CATALOG_URL", "not a url"},
		{"FETCH_TIMEOUT", "soon"},
		{"ALLOWED_HOSTS", "bad_host!"},
		{"LOG_LEVEL", "verbose"},
		{"LOG_FORMAT", "xml"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("whatever"))
}
