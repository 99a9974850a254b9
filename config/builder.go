package config

import (
	"log/slog"

	"github.com/jpalmerr/sellerdash"
)

// BuildProducts converts the configured seed catalog into SDK products.
func BuildProducts(cfg *Config) []sellerdash.Product {
	products := make([]sellerdash.Product, 0, len(cfg.Products))
	for _, pc := range cfg.Products {
		products = append(products, sellerdash.Product{
			Name:        pc.Name,
			Description: pc.Description,
			Price:       pc.Price,
			Stock:       pc.Stock,
			Image:       pc.Image,
		})
	}
	return products
}

// BuildOptions converts parsed configuration into SDK options.
//
// Options are only emitted for values that are set, so the SDK defaults
// stay in charge otherwise. logger is passed through when non-nil.
func BuildOptions(cfg *Config, logger *slog.Logger) []sellerdash.Option {
	opts := []sellerdash.Option{
		sellerdash.WithPort(cfg.Port),
	}

	if cfg.Title != "" {
		opts = append(opts, sellerdash.WithTitle(cfg.Title))
	}
	if cfg.ChannelURL != "" {
		opts = append(opts, sellerdash.WithChannelURL(cfg.ChannelURL))
	}
	if cfg.Reconnect {
		opts = append(opts, sellerdash.WithReconnect(true))
	}
	if cfg.AlertTTL > 0 {
		opts = append(opts, sellerdash.WithAlertTTL(cfg.AlertTTL.Duration()))
	}
	if len(cfg.Products) > 0 {
		opts = append(opts, sellerdash.WithSeedProducts(BuildProducts(cfg)...))
	}
	if logger != nil {
		opts = append(opts, sellerdash.WithLogger(logger))
	}

	return opts
}
