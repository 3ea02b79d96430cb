package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	for _, key := range []string{
		"ENV", "PORT", "DATABASE_URL", "CORS_ORIGINS", "STORAGE_DIR", "STORAGE_URL", "MARKDOWN_ENGINE",
		"JWT_SECRET", "ADMIN_EMAIL", "ADMIN_PASSWORD_HASH", "EMAIL_API_KEY", "EMAIL_FROM",
	} {
		t.Setenv(key, "")
	}

	cfg, err := fromViper(newViper())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "regex", cfg.Markdown.Engine)
	assert.Equal(t, int64(10<<20), cfg.Storage.MaxUploadSize)
	assert.Equal(t, 24*time.Hour, cfg.Admin.TokenTTL)
	assert.Equal(t, defaultEmailBaseURL, cfg.Email.BaseURL)
	assert.False(t, cfg.Storage.Remote())
	assert.Empty(t, cfg.CORSOrigins)
	assert.False(t, cfg.Admin.Enabled())
	assert.False(t, cfg.Email.Enabled())
}

func TestFromViper_Environment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, https://example.com ,")
	t.Setenv("PUBLIC_BASE_URL", "https://cdn.example.com/")
	t.Setenv("MARKDOWN_ENGINE", "Goldmark")
	t.Setenv("ADMIN_EMAIL", " Me@Example.com ")
	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$hash")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("EMAIL_API_KEY", "key")
	t.Setenv("EMAIL_FROM", "site@example.com")
	t.Setenv("STORAGE_URL", "s3://portfolio-uploads?region=eu-west-1")
	t.Setenv("STORAGE_PUBLIC_URL", "https://uploads.example.com/")

	cfg, err := fromViper(newViper())
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, []string{"http://localhost:3000", "https://example.com"}, cfg.CORSOrigins)
	assert.Equal(t, "https://cdn.example.com", cfg.Storage.PublicBaseURL)
	assert.Equal(t, "goldmark", cfg.Markdown.Engine)
	assert.Equal(t, "me@example.com", cfg.Admin.Email)
	assert.True(t, cfg.Admin.Enabled())
	assert.True(t, cfg.Email.Enabled())
	assert.True(t, cfg.Storage.Remote())
	assert.Equal(t, "s3://portfolio-uploads?region=eu-west-1", cfg.Storage.URL)
	assert.Equal(t, "https://uploads.example.com", cfg.Storage.PublicURL)
}

func TestFromViper_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown markdown engine", key: "MARKDOWN_ENGINE", value: "blackfriday"},
		{name: "bad token ttl", key: "ADMIN_TOKEN_TTL", value: "tomorrow"},
		{name: "zero upload size", key: "MAX_UPLOAD_MB", value: "0"},
		{name: "remote bucket without public url", key: "STORAGE_URL", value: "s3://uploads"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := fromViper(newViper())
			assert.Error(t, err)
		})
	}
}

func TestConfig_Production(t *testing.T) {
	assert.True(t, (&Config{Env: "production"}).Production())
	assert.True(t, (&Config{Env: "prod"}).Production())
	assert.False(t, (&Config{Env: "local"}).Production())
}
