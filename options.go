package sellerdash

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jpalmerr/sellerdash/internal/channel"
)

// sdConfig holds mutable state during SellerDash construction.
type sdConfig struct {
	title                 string
	port                  int
	channelURL            string
	reconnect             bool
	alertTTL              time.Duration
	seed                  []Product
	logger                *slog.Logger
	notificationCallbacks []func(Notification)
}

// Option is a function that configures a [SellerDash] instance during construction.
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [New] in a type-safe, extensible way.
// Options return an error if validation fails.
type Option func(*sdConfig) error

// WithTitle sets the dashboard title displayed in the browser tab and header.
//
// If not specified, defaults to "Seller Dashboard".
func WithTitle(title string) Option {
	return func(cfg *sdConfig) error {
		cfg.title = title
		return nil
	}
}

// WithPort sets the HTTP port for the dashboard server.
//
// The dashboard will be available at http://localhost:<port>.
// Defaults to 8080 if not specified.
//
// Returns an error if the port is outside the valid range (1-65535).
func WithPort(port int) Option {
	return func(cfg *sdConfig) error {
		if port < 1 || port > 65535 {
			return errors.New("port must be between 1 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the SellerDash instance.
//
// If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *sdConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithChannelURL sets the WebSocket URL notifications are pushed on.
//
// Without this option the dashboard runs with an empty, static feed.
//
// Example:
//
//	sd, err := sellerdash.New(
//	    sellerdash.WithChannelURL("ws://localhost:9998/notifications"),
//	)
//
// Returns an error if the URL is not a ws:// or wss:// URL with a host.
func WithChannelURL(url string) Option {
	return func(cfg *sdConfig) error {
		if err := channel.ValidateURL(url); err != nil {
			return fmt.Errorf("invalid channel url: %w", err)
		}
		cfg.channelURL = url
		return nil
	}
}

// WithReconnect enables reconnecting to the notification channel after the
// connection drops or fails to open. Delays start at one second and double
// up to thirty.
func WithReconnect(enabled bool) Option {
	return func(cfg *sdConfig) error {
		cfg.reconnect = enabled
		return nil
	}
}

// WithAlertTTL sets how long an alert stays visible before it is dismissed.
// Defaults to 3 seconds.
//
// Returns an error if the duration is zero or negative.
func WithAlertTTL(d time.Duration) Option {
	return func(cfg *sdConfig) error {
		if d <= 0 {
			return errors.New("alert ttl must be positive")
		}
		cfg.alertTTL = d
		return nil
	}
}

// WithSeedProducts adds products the dashboard starts with.
//
// Can be called multiple times. Products are validated by [New].
func WithSeedProducts(products ...Product) Option {
	return func(cfg *sdConfig) error {
		cfg.seed = append(cfg.seed, products...)
		return nil
	}
}

// WithNotificationCallback registers a function to be called for every
// notification received on the channel, after it has been recorded.
//
// Callbacks run synchronously on the listener goroutine, in registration
// order, and must not block. Panics are recovered and logged.
//
// Nil callbacks are silently ignored.
func WithNotificationCallback(cb func(Notification)) Option {
	return func(cfg *sdConfig) error {
		if cb == nil {
			return nil
		}
		cfg.notificationCallbacks = append(cfg.notificationCallbacks, cb)
		return nil
	}
}
