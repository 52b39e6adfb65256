// Package config loads the process configuration from environment variables.
// The Config is constructed once at startup and treated as immutable.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds every process-wide setting: provider app credentials, the
// token signing secret, the document store location, and the attachment root.
type Config struct {
	ServerAddr string `env:"SERVER_ADDR" envDefault:":3000"`

	MongoURI      string `env:"MONGO_URI"      envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"minishop"`

	AppID     string `env:"WX_APP_ID"`
	AppSecret string `env:"WX_APP_SECRET"`

	JWTSecret string `env:"JWT_SECRET"`

	AttachmentDir string `env:"ATTACHMENT_DIR" envDefault:"public/attachment"`

	// AdminSubjects is the allow-list of provider subjects granted the admin
	// role at login.
	AdminSubjects []string `env:"ADMIN_SUBJECTS" envSeparator:","`
}

// Load parses the configuration from environment variables.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate checks that every required variable is set.
func (c *Config) validate() error {
	if c.AppID == "" {
		return fmt.Errorf("missing WX_APP_ID environment variable")
	}
	if c.AppSecret == "" {
		return fmt.Errorf("missing WX_APP_SECRET environment variable")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("missing JWT_SECRET environment variable")
	}

	return nil
}

// IsAdmin reports whether subject is on the admin allow-list.
func (c *Config) IsAdmin(subject string) bool {
	for _, s := range c.AdminSubjects {
		if s == subject {
			return true
		}
	}

	return false
}
