package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Store    StoreConfig       `yaml:"store"`
	Metadata MetadataConfig    `yaml:"metadata"`
	Mail     MailConfig        `yaml:"mail"`
	Frontend FrontendConfig    `yaml:"frontend"`
	Digest   DigestConfig      `yaml:"digest"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if err := c.Metadata.Validate(); err != nil {
		return err
	}
	if err := c.Mail.Validate(); err != nil {
		return err
	}
	if err := c.Frontend.Validate(); err != nil {
		return err
	}
	return c.Digest.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds the admin HTTP server configuration (serve mode only).
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns the admin server listen address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// StoreConfig holds the quest/labor snapshot database configuration.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// MetadataConfig holds the host metadata service configuration. Owner
// and tag resolution both go through this one endpoint.
type MetadataConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the request timeout for metadata calls.
func (c *MetadataConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate validates the metadata configuration.
func (c *MetadataConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.TimeoutSeconds, validation.Required, validation.Min(1), validation.Max(300)),
	)
}

// MailConfig holds outbound mail configuration. Domain is appended to
// the resolved owner to form the recipient address (owner@domain).
type MailConfig struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	From    string `yaml:"from"`
	Domain  string `yaml:"domain"`
	Subject string `yaml:"subject"`
}

// Address returns the SMTP server address.
func (c *MailConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate validates the mail configuration.
func (c *MailConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Host, validation.Required),
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.From, validation.Required, is.Email),
		validation.Field(&c.Domain, validation.Required),
		validation.Field(&c.Subject, validation.Required),
	)
}

// FrontendConfig holds the base URL of the web frontend that digest
// messages link back to.
type FrontendConfig struct {
	BaseURL string `yaml:"base_url"`
}

// Validate validates the frontend configuration.
func (c *FrontendConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
	)
}

// DigestConfig holds scheduling configuration for serve mode.
type DigestConfig struct {
	IntervalMinutes int `yaml:"interval_minutes"`
}

// Interval returns the time between scheduled digest runs.
func (c *DigestConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

// Validate validates the digest configuration.
func (c *DigestConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.IntervalMinutes, validation.Required, validation.Min(1)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Store: StoreConfig{
			Path: "./herald.db",
		},
		Metadata: MetadataConfig{
			BaseURL:        "http://localhost:8940",
			TimeoutSeconds: 30,
		},
		Mail: MailConfig{
			Host:    "localhost",
			Port:    25,
			From:    "herald@example.com",
			Domain:  "example.com",
			Subject: "Hosts with outstanding required labors",
		},
		Frontend: FrontendConfig{
			BaseURL: "http://localhost:3000",
		},
		Digest: DigestConfig{
			IntervalMinutes: 60,
		},
	}
}
