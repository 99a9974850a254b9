// Package sellerdash provides an embeddable dashboard for a small online
// seller: a product catalog with add and delete forms, a live feed of
// notifications pushed over a WebSocket, and an orders view.
//
// SellerDash is SDK-first, like a library you embed in your own binary.
// Configuration uses the functional options pattern and the caller owns
// the lifecycle through a context.
//
// # Quick Start
//
//	sd, _ := sellerdash.New(
//	    sellerdash.WithChannelURL("ws://localhost:9998/notifications"),
//	)
//
//	// Set up graceful shutdown on SIGINT/SIGTERM
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	sd.Start(ctx) // blocks until context is cancelled
//
// # Configuration
//
//	sd, err := sellerdash.New(
//	    sellerdash.WithTitle("Widget Co"),
//	    sellerdash.WithPort(9090),
//	    sellerdash.WithChannelURL("wss://push.example.com/notifications"),
//	    sellerdash.WithReconnect(true),
//	    sellerdash.WithAlertTTL(5 * time.Second),
//	    sellerdash.WithSeedProducts(sellerdash.Product{
//	        Name: "Widget", Description: "A widget", Price: 9.99, Stock: 5,
//	        Image: "https://example.com/widget.png",
//	    }),
//	)
//
// # Notifications
//
// Each text frame on the channel is a JSON object with "type", "message"
// and "timestamp" (RFC 3339 or epoch milliseconds). Frames that do not
// decode are logged and dropped. The newest notification is shown first.
// Register [WithNotificationCallback] to observe them from your code.
//
// # Architecture
//
//   - internal/model: Product, notification and alert types plus validation
//   - internal/store: Dashboard state with pub/sub for re-render notices
//   - internal/view: View models and template rendering
//   - internal/channel: WebSocket listener for pushed notifications
//   - internal/server: HTTP routes, forms, fragments and Server-Sent Events
//   - dashboard: Embedded page templates
//
// The internal packages are not part of the public API and may change
// without notice.
package sellerdash
