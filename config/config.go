// Package config provides YAML configuration parsing for SellerDash.
//
// This package enables running SellerDash as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK approach.
//
// Example configuration:
//
//	title: Widget Co
//	port: 8080
//	channel_url: ${PUSH_URL:-ws://localhost:9998/notifications}
//	reconnect: true
//	alert_ttl: 3s
//
//	products:
//	  - name: Widget
//	    description: A widget
//	    price: 9.99
//	    stock: 5
//	    image: https://example.com/widget.png
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/jpalmerr/sellerdash/internal/channel"
	"github.com/jpalmerr/sellerdash/internal/model"
	"gopkg.in/yaml.v3"
)

const (
	defaultPort     = 8080
	defaultAlertTTL = 3 * time.Second
)

// Config is the root configuration structure for SellerDash.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Title is the dashboard title. Defaults to "Seller Dashboard" if not set.
	Title string `yaml:"title"`

	// Port is the HTTP server port. Defaults to 8080.
	Port int `yaml:"port"`

	// ChannelURL is the WebSocket URL notifications are pushed on.
	// Empty disables the feed.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	ChannelURL string `yaml:"channel_url"`

	// Reconnect re-dials the channel after it drops.
	Reconnect bool `yaml:"reconnect"`

	// AlertTTL is how long alerts stay visible. Defaults to 3s.
	AlertTTL Duration `yaml:"alert_ttl"`

	// Products is the catalog the dashboard starts with.
	Products []ProductConfig `yaml:"products"`
}

// ProductConfig defines one seed product.
type ProductConfig struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Price       float64 `yaml:"price"`
	Stock       int     `yaml:"stock"`

	// Image is the product image URL. Supports environment variable substitution.
	Image string `yaml:"image"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Returns an error if the file cannot be read, parsed or validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in ChannelURL and product images.
// Defaults are applied for Port (8080) and AlertTTL (3s).
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.AlertTTL == 0 {
		cfg.AlertTTL = Duration(defaultAlertTTL)
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	if c.AlertTTL.Duration() < 0 {
		return fmt.Errorf("alert_ttl cannot be negative, got %s", c.AlertTTL.Duration())
	}

	if c.ChannelURL != "" {
		expanded, err := expandEnvVars(c.ChannelURL)
		if err != nil {
			return fmt.Errorf("channel_url: %w", err)
		}
		c.ChannelURL = expanded

		// an env var that expands to nothing disables the feed
		if c.ChannelURL != "" {
			if err := channel.ValidateURL(c.ChannelURL); err != nil {
				return fmt.Errorf("channel_url: %w", err)
			}
		}
	}

	for i := range c.Products {
		p := &c.Products[i]

		expanded, err := expandEnvVars(p.Image)
		if err != nil {
			return fmt.Errorf("products[%d] (%s): image: %w", i, p.Name, err)
		}
		p.Image = expanded

		if err := model.ValidateProduct(p.toModel()); err != nil {
			return fmt.Errorf("products[%d] (%s): %w", i, p.Name, err)
		}
	}

	return nil
}

func (p ProductConfig) toModel() model.Product {
	return model.Product{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Image:       p.Image,
	}
}
