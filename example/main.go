package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/sellerdash"
)

func main() {
	// start mock channel (see mock_server.go)
	go StartMockPushServer(":9998")
	time.Sleep(100 * time.Millisecond)

	sd, err := sellerdash.New(
		sellerdash.WithTitle("Widget Co"),
		sellerdash.WithPort(8080),
		sellerdash.WithChannelURL("ws://localhost:9998/notifications"),
		sellerdash.WithReconnect(true),
		sellerdash.WithSeedProducts(
			sellerdash.Product{
				Name: "Widget", Description: "The classic widget", Price: 9.99, Stock: 5,
				Image: "https://picsum.photos/seed/widget/300/200",
			},
			sellerdash.Product{
				Name: "Gadget", Description: "Sold out until next week", Price: 24.5, Stock: 0,
				Image: "https://picsum.photos/seed/gadget/300/200",
			},
		),
		sellerdash.WithNotificationCallback(func(n sellerdash.Notification) {
			if n.Type == "stock" {
				slog.Warn("stock notification", "message", n.Message)
			}
		}),
	)
	if err != nil {
		slog.Error("failed to create sellerdash", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("  SellerDash Demo")
	fmt.Println()
	fmt.Println("  Open http://localhost:8080 in your browser")
	fmt.Println("  Notifications arrive from a mock channel every few seconds")
	fmt.Println("  Press Ctrl+C to stop")
	fmt.Println()

	// set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := sd.Start(ctx); err != nil {
		slog.Error("sellerdash error", "error", err)
		os.Exit(1)
	}
}
