// Package config loads server configuration from lostfound.yaml and
// LOSTFOUND_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all server settings.
type Config struct {
	Addr      string `mapstructure:"addr"`
	DBPath    string `mapstructure:"db_path"`
	UploadDir string `mapstructure:"upload_dir"`

	// JWTSecret overrides the secret persisted in the database when set.
	JWTSecret string `mapstructure:"jwt_secret"`

	// FinderLeadTime is the advisory pause between notifying the finder and
	// the claimant after an approval.
	FinderLeadTime time.Duration `mapstructure:"finder_lead_time"`

	Email EmailConfig `mapstructure:"email"`
}

// EmailConfig selects and configures the mail delivery path.
type EmailConfig struct {
	// Provider is "smtp", "resend", or "none" (log-only, for development).
	Provider string `mapstructure:"provider"`

	FromEmail string `mapstructure:"from_email"`

	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort string `mapstructure:"smtp_port"`
	SMTPUser string `mapstructure:"smtp_user"`
	SMTPPass string `mapstructure:"smtp_pass"`

	ResendAPIKey string `mapstructure:"resend_api_key"`
}

// Load reads lostfound.yaml from the working directory (if present) plus
// environment overrides, and applies defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("lostfound")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("LOSTFOUND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("addr", ":8080")
	v.SetDefault("db_path", "lostfound.sqlite3")
	v.SetDefault("upload_dir", "uploads/items")
	v.SetDefault("finder_lead_time", 5*time.Second)
	v.SetDefault("email.provider", "none")
	v.SetDefault("email.smtp_port", "587")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	switch cfg.Email.Provider {
	case "smtp", "resend", "none":
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Email.Provider)
	}

	return &cfg, nil
}
