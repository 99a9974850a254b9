package sellerdash

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jpalmerr/sellerdash/dashboard"
	"github.com/jpalmerr/sellerdash/internal/channel"
	"github.com/jpalmerr/sellerdash/internal/model"
	"github.com/jpalmerr/sellerdash/internal/server"
	"github.com/jpalmerr/sellerdash/internal/store"
	"github.com/jpalmerr/sellerdash/internal/view"
)

const (
	defaultPort     = 8080
	defaultAlertTTL = store.DefaultAlertTTL

	defaultReconnectMin = time.Second
	defaultReconnectMax = 30 * time.Second
)

// ErrDuplicateProductID is returned by [New] when two seed products carry the
// same non-zero id.
var ErrDuplicateProductID = errors.New("duplicate product id")

// SellerDash is the main orchestrator for the seller dashboard.
//
// SellerDash owns the dashboard state, listens to the notification channel
// and serves the page via HTTP. It is created using [New] with functional
// options and started with [SellerDash.Start].
//
// The typical lifecycle is:
//
//	sd, err := sellerdash.New(sellerdash.WithChannelURL("ws://localhost:9998/notifications"))
//	if err != nil {
//	    slog.Error("failed to create sellerdash", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	sd.Start(ctx) // blocks until context cancelled
type SellerDash struct {
	title                 string
	port                  int
	channelURL            string
	reconnect             bool
	alertTTL              time.Duration
	seed                  []Product
	logger                *slog.Logger
	notificationCallbacks []func(Notification)
}

// New creates a new [SellerDash] instance with the given options.
//
// Every option has a default:
//   - Port: 8080
//   - Alert TTL: 3 seconds
//   - Channel: disabled until [WithChannelURL] is given
//
// Returns an error if any option is invalid.
func New(opts ...Option) (*SellerDash, error) {
	cfg := &sdConfig{
		port:     defaultPort,
		alertTTL: defaultAlertTTL,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	seen := make(map[int]int, len(cfg.seed))
	for i, p := range cfg.seed {
		if err := model.ValidateProduct(p.toModel()); err != nil {
			return nil, fmt.Errorf("seed product %d: %w", i, err)
		}
		if p.ID < 0 {
			return nil, fmt.Errorf("seed product %d: id must not be negative, got %d", i, p.ID)
		}
		if p.ID == 0 {
			continue
		}
		if j, ok := seen[p.ID]; ok {
			return nil, fmt.Errorf("seed product %d: %w %d (also used by seed product %d)", i, ErrDuplicateProductID, p.ID, j)
		}
		seen[p.ID] = i
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &SellerDash{
		title:                 cfg.title,
		port:                  cfg.port,
		channelURL:            cfg.channelURL,
		reconnect:             cfg.reconnect,
		alertTTL:              cfg.alertTTL,
		seed:                  cfg.seed,
		logger:                logger,
		notificationCallbacks: cfg.notificationCallbacks,
	}, nil
}

// Start initializes the dashboard and serves it.
//
// Start is a blocking call that runs until the provided context is cancelled.
// During execution:
//
//   - The store is seeded with the configured products
//   - The notification listener connects, if a channel URL is configured
//   - The HTTP server starts on the configured port
//
// Returns nil on graceful shutdown. Returns an error if the page templates
// cannot be loaded or the HTTP server fails to start.
func (sd *SellerDash) Start(ctx context.Context) error {
	sd.logger.Info("sellerdash starting", "seed_products", len(sd.seed))
	sd.logger.Info("dashboard available", "url", fmt.Sprintf("http://localhost:%d", sd.port))

	// check if context already cancelled
	if ctx.Err() != nil {
		return nil
	}

	dashStore := store.NewDashboardStore(sd.alertTTL, sd.logger)
	seed := make([]model.Product, len(sd.seed))
	for i, p := range sd.seed {
		seed[i] = p.toModel()
	}
	dashStore.Initialize(seed)

	renderer, err := view.NewRenderer(dashboard.Assets)
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	var listener *channel.Listener
	if sd.channelURL != "" {
		var opts []channel.Option
		if sd.reconnect {
			opts = append(opts, channel.WithReconnect(defaultReconnectMin, defaultReconnectMax))
		}
		listener = channel.NewListener(sd.channelURL, sd.handleNotification(dashStore), sd.logger, opts...)
		listener.Start(ctx)
		sd.logger.Info("notification channel configured", "url", sd.channelURL, "reconnect", sd.reconnect)
	} else {
		sd.logger.Info("notification channel disabled")
	}

	cleanup := func() {
		if listener != nil {
			listener.Stop()
		}
	}

	httpServer := server.NewServer(dashStore, renderer, sd.port, sd.title, sd.logger)
	if err := httpServer.Start(ctx); err != nil {
		cleanup()
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	<-ctx.Done()
	cleanup()
	sd.logger.Info("sellerdash stopped")
	return nil
}

// handleNotification records a pushed notification, then fans it out to the
// registered callbacks.
func (sd *SellerDash) handleNotification(st *store.DashboardStore) channel.Handler {
	return func(n model.Notification) {
		// store update first (callbacks fire after data is recorded)
		st.OnNotification(n)

		if len(sd.notificationCallbacks) == 0 {
			return
		}
		public := notificationFromModel(n)
		for _, cb := range sd.notificationCallbacks {
			invokeCallbackSafe(cb, public, sd.logger)
		}
	}
}

// Port returns the configured HTTP port for the dashboard server.
func (sd *SellerDash) Port() int {
	return sd.port
}

// ChannelURL returns the notification channel URL, or "" when disabled.
func (sd *SellerDash) ChannelURL() string {
	return sd.channelURL
}

// AlertTTL returns how long alerts stay visible.
func (sd *SellerDash) AlertTTL() time.Duration {
	return sd.alertTTL
}

// SeedProducts returns a copy of the configured seed products.
func (sd *SellerDash) SeedProducts() []Product {
	cp := make([]Product, len(sd.seed))
	copy(cp, sd.seed)
	return cp
}

// invokeCallbackSafe calls a notification callback with panic recovery.
// Panics are logged but do not propagate.
func invokeCallbackSafe(cb func(Notification), n Notification, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("notification callback panicked",
				"panic", r,
				"type", n.Type,
			)
		}
	}()
	cb(n)
}
