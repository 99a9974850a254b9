package main

import (
	"encoding/json"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// mockEvents are the notifications the mock channel picks from.
var mockEvents = []struct {
	kind    string
	message string
}{
	{"order", "New order received for Widget"},
	{"order", "Order #1042 has shipped"},
	{"stock", "Gadget is running low on stock"},
	{"review", "A customer left a <b>5 star</b> review"},
	{"payout", "Your weekly payout has been sent"},
}

// StartMockPushServer runs a WebSocket endpoint at /notifications that pushes
// a random notification to each client every 3-8 seconds.
// Call this in a goroutine before starting SellerDash.
func StartMockPushServer(addr string) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/notifications", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("upgrade failed", "error", err)
			return
		}
		defer conn.Close()
		slog.Info("dashboard connected", "remote", r.RemoteAddr)

		for {
			time.Sleep(time.Duration(3+rand.Intn(6)) * time.Second)

			ev := mockEvents[rand.Intn(len(mockEvents))]
			frame, _ := json.Marshal(map[string]any{
				"type":      ev.kind,
				"message":   ev.message,
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				slog.Info("dashboard disconnected", "remote", r.RemoteAddr)
				return
			}
		}
	})

	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("mock push server error", "error", err)
	}
}
