package channel

import (
	"errors"
	"fmt"
	"net/url"
)

// ErrNoURL is returned by [ValidateURL] for an empty address.
var ErrNoURL = errors.New("notification channel url is empty")

// ValidateURL checks that raw is an absolute ws:// or wss:// URL.
func ValidateURL(raw string) error {
	if raw == "" {
		return ErrNoURL
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid notification channel url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("notification channel url scheme must be ws or wss, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("notification channel url %q has no host", raw)
	}
	return nil
}
