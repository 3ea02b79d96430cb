package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultEmailBaseURL = "https://api.resend.com/"

type Config struct {
	Env         string
	Port        string
	DatabaseURL string
	CORSOrigins []string
	Storage     StorageConfig
	Markdown    MarkdownConfig
	Admin       AdminConfig
	Email       EmailConfig
}

// Production reports whether the service runs with production settings
// such as secure cookies and JSON logs.
func (c *Config) Production() bool {
	return c.Env == "prod" || c.Env == "production"
}

// StorageConfig selects the upload bucket. With URL empty objects are kept
// under Dir/Bucket and served by the API itself; otherwise URL is a gocloud
// bucket URL and PublicURL is where its objects can be read.
type StorageConfig struct {
	Dir           string
	Bucket        string
	URL           string
	PublicURL     string
	PublicBaseURL string
	MaxUploadSize int64
}

func (s StorageConfig) Remote() bool {
	return s.URL != ""
}

type MarkdownConfig struct {
	Engine string
}

// AdminConfig holds the single admin account. Admin routes are only mounted
// when Enabled reports true.
type AdminConfig struct {
	Email        string
	PasswordHash string
	JWTSecret    string
	TokenTTL     time.Duration
}

func (a AdminConfig) Enabled() bool {
	return a.Email != "" && a.PasswordHash != "" && a.JWTSecret != ""
}

type EmailConfig struct {
	APIKey      string
	BaseURL     string
	From        string
	NotifyEmail string
}

func (e EmailConfig) Enabled() bool {
	return e.APIKey != "" && e.From != ""
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return fromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("env", "local")
	v.SetDefault("port", "8080")
	v.SetDefault("storage_dir", "./uploads")
	v.SetDefault("storage_bucket", "portfolio")
	v.SetDefault("public_base_url", "http://localhost:8080")
	v.SetDefault("max_upload_mb", 10)
	v.SetDefault("markdown_engine", "regex")
	v.SetDefault("admin_token_ttl", "24h")
	v.SetDefault("email_api_url", defaultEmailBaseURL)

	return v
}

func fromViper(v *viper.Viper) (*Config, error) {
	ttl, err := time.ParseDuration(v.GetString("admin_token_ttl"))
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_TOKEN_TTL: %w", err)
	}

	maxMB := v.GetInt64("max_upload_mb")
	if maxMB <= 0 {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_MB: %d", maxMB)
	}

	engine := strings.ToLower(strings.TrimSpace(v.GetString("markdown_engine")))
	if engine != "regex" && engine != "goldmark" {
		return nil, fmt.Errorf("unknown MARKDOWN_ENGINE %q (expected regex or goldmark)", engine)
	}

	if v.GetString("storage_url") != "" && v.GetString("storage_public_url") == "" {
		return nil, fmt.Errorf("STORAGE_PUBLIC_URL is required when STORAGE_URL is set")
	}

	cfg := &Config{
		Env:         v.GetString("env"),
		Port:        v.GetString("port"),
		DatabaseURL: v.GetString("database_url"),
		CORSOrigins: splitList(v.GetString("cors_origins")),
		Storage: StorageConfig{
			Dir:           v.GetString("storage_dir"),
			Bucket:        v.GetString("storage_bucket"),
			URL:           strings.TrimSpace(v.GetString("storage_url")),
			PublicURL:     strings.TrimRight(v.GetString("storage_public_url"), "/"),
			PublicBaseURL: strings.TrimRight(v.GetString("public_base_url"), "/"),
			MaxUploadSize: maxMB << 20,
		},
		Markdown: MarkdownConfig{Engine: engine},
		Admin: AdminConfig{
			Email:        strings.ToLower(strings.TrimSpace(v.GetString("admin_email"))),
			PasswordHash: v.GetString("admin_password_hash"),
			JWTSecret:    v.GetString("jwt_secret"),
			TokenTTL:     ttl,
		},
		Email: EmailConfig{
			APIKey:      v.GetString("email_api_key"),
			BaseURL:     v.GetString("email_api_url"),
			From:        v.GetString("email_from"),
			NotifyEmail: v.GetString("admin_notify_email"),
		},
	}

	return cfg, nil
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
