package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jpalmerr/sellerdash/internal/model"
)

func TestParse_EmptyConfig(t *testing.T) {
	cfg, err := Parse([]byte(``))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	// check defaults applied
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.AlertTTL.Duration() != 3*time.Second {
		t.Errorf("AlertTTL = %v, want 3s", cfg.AlertTTL.Duration())
	}
	if cfg.ChannelURL != "" {
		t.Errorf("ChannelURL = %q, want empty", cfg.ChannelURL)
	}
	if cfg.Reconnect {
		t.Error("Reconnect = true, want false")
	}
}

func TestParse_FullConfig(t *testing.T) {
	yaml := `
title: Widget Co
port: 9090
channel_url: wss://push.example.com/notifications
reconnect: true
alert_ttl: 1500ms

products:
  - name: Widget
    description: A widget
    price: 9.99
    stock: 5
    image: https://example.com/widget.png
  - name: Freebie
    description: Sold out
    price: 0
    stock: 0
    image: https://example.com/free.png
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Title != "Widget Co" {
		t.Errorf("Title = %q, want %q", cfg.Title, "Widget Co")
	}
	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if cfg.ChannelURL != "wss://push.example.com/notifications" {
		t.Errorf("ChannelURL = %q", cfg.ChannelURL)
	}
	if !cfg.Reconnect {
		t.Error("Reconnect = false, want true")
	}
	if cfg.AlertTTL.Duration() != 1500*time.Millisecond {
		t.Errorf("AlertTTL = %v, want 1.5s", cfg.AlertTTL.Duration())
	}
	if len(cfg.Products) != 2 {
		t.Fatalf("len(Products) = %d, want 2", len(cfg.Products))
	}

	p := cfg.Products[0]
	if p.Name != "Widget" || p.Price != 9.99 || p.Stock != 5 {
		t.Errorf("Products[0] = %+v", p)
	}
}

func TestParse_EnvVarSubstitution(t *testing.T) {
	t.Setenv("PUSH_HOST", "push.internal:9998")
	t.Setenv("CDN", "https://cdn.example.com")

	yaml := `
channel_url: ws://${PUSH_HOST}/notifications
products:
  - name: Widget
    description: A widget
    price: 1
    stock: 1
    image: ${CDN}/widget.png
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.ChannelURL != "ws://push.internal:9998/notifications" {
		t.Errorf("ChannelURL = %q", cfg.ChannelURL)
	}
	if cfg.Products[0].Image != "https://cdn.example.com/widget.png" {
		t.Errorf("Image = %q", cfg.Products[0].Image)
	}
}

func TestParse_EnvVarDefault(t *testing.T) {
	yaml := `channel_url: ${SELLERDASH_UNSET_PUSH_URL:-ws://localhost:9998/notifications}`

	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.ChannelURL != "ws://localhost:9998/notifications" {
		t.Errorf("ChannelURL = %q", cfg.ChannelURL)
	}
}

func TestParse_EnvVarEmptyDefaultDisablesChannel(t *testing.T) {
	cfg, err := Parse([]byte(`channel_url: ${SELLERDASH_UNSET_PUSH_URL:-}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.ChannelURL != "" {
		t.Errorf("ChannelURL = %q, want empty", cfg.ChannelURL)
	}
}

func TestParse_EnvVarMissing(t *testing.T) {
	_, err := Parse([]byte(`channel_url: ${SELLERDASH_DEFINITELY_MISSING}`))
	if err == nil {
		t.Fatal("Parse() expected error for missing env var, got nil")
	}
	if !strings.Contains(err.Error(), "SELLERDASH_DEFINITELY_MISSING") {
		t.Errorf("error = %v, want variable name in message", err)
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "port too high",
			yaml:    `port: 70000`,
			wantErr: "port must be between",
		},
		{
			name:    "negative port",
			yaml:    `port: -1`,
			wantErr: "port must be between",
		},
		{
			name:    "negative alert ttl",
			yaml:    `alert_ttl: -1s`,
			wantErr: "alert_ttl cannot be negative",
		},
		{
			name:    "http channel url",
			yaml:    `channel_url: http://localhost:9998`,
			wantErr: "channel_url",
		},
		{
			name:    "channel url without host",
			yaml:    `channel_url: "ws://"`,
			wantErr: "channel_url",
		},
		{
			name: "product without name",
			yaml: `
products:
  - description: d
    price: 1
    stock: 1
    image: i
`,
			wantErr: "products[0]",
		},
		{
			name: "negative price",
			yaml: `
products:
  - name: Widget
    description: d
    price: -2
    stock: 1
    image: i
`,
			wantErr: "price",
		},
		{
			name: "negative stock",
			yaml: `
products:
  - name: Widget
    description: d
    price: 2
    stock: -1
    image: i
`,
			wantErr: "stock",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatalf("Parse() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse() error = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestParse_ProductErrorIsValidationError(t *testing.T) {
	_, err := Parse([]byte(`
products:
  - name: Widget
    price: 1
    stock: 1
`))
	var ve *model.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Parse() error = %v, want *model.ValidationError", err)
	}
	if !ve.Has("description") || !ve.Has("image") {
		t.Errorf("Fields = %v, want description and image", ve.Fields)
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("port: [unclosed"))
	if err == nil {
		t.Fatal("Parse() expected error for invalid YAML, got nil")
	}
	if !strings.Contains(err.Error(), "failed to parse YAML") {
		t.Errorf("error = %v", err)
	}
}

func TestParse_InvalidDuration(t *testing.T) {
	_, err := Parse([]byte(`alert_ttl: soon`))
	if err == nil {
		t.Fatal("Parse() expected error for invalid duration, got nil")
	}
	if !strings.Contains(err.Error(), "invalid duration") {
		t.Errorf("error = %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sellerdash.yaml")
	if err := os.WriteFile(path, []byte("title: From File\nport: 9191\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Title != "From File" || cfg.Port != 9191 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Load() expected error for missing file, got nil")
	}
	if !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("error = %v", err)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR", "value")
	t.Setenv("EMPTY_VAR", "") // set but empty

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"no vars", "plain text", "plain text", false},
		{"simple var", "${TEST_VAR}", "value", false},
		{"var in text", "prefix ${TEST_VAR} suffix", "prefix value suffix", false},
		{"multiple vars", "${TEST_VAR}-${TEST_VAR}", "value-value", false},
		{"with default (var set)", "${TEST_VAR:-default}", "value", false},
		{"with default (var unset)", "${UNSET:-default}", "default", false},
		{"missing required", "${MISSING}", "", true},
		{"empty default (var unset)", "${UNSET:-}", "", false},
		{"set but empty var", "${EMPTY_VAR}", "", false},
		{"set but empty with default", "${EMPTY_VAR:-fallback}", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandEnvVars(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expandEnvVars() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("expandEnvVars() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("expandEnvVars() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDuration_UnmarshalYAML(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"alert_ttl: 3s", 3 * time.Second},
		{"alert_ttl: 250ms", 250 * time.Millisecond},
		{"alert_ttl: 1m", time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.input))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if cfg.AlertTTL.Duration() != tt.want {
				t.Errorf("AlertTTL = %v, want %v", cfg.AlertTTL.Duration(), tt.want)
			}
		})
	}
}
