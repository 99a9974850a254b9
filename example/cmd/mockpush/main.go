// Standalone mock notification channel for testing the CLI.
//
// Usage:
//
//	go run ./example/cmd/mockpush
//
// Then in another terminal:
//
//	go run ./cmd/sellerdash serve -c example/config.yaml
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

var messages = map[string][]string{
	"order":  {"New order received", "Order shipped", "Order refunded"},
	"stock":  {"Stock running low", "Item back in stock"},
	"review": {"New 5 star review", "New 2 star review"},
}

func main() {
	addr := flag.String("addr", ":9998", "listen address")
	interval := flag.Duration("interval", 4*time.Second, "time between notifications")
	malformed := flag.Bool("malformed", false, "occasionally send frames that do not decode")
	flag.Parse()

	fmt.Printf("Mock notification channel on ws://localhost%s/notifications\n", *addr)
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	http.HandleFunc("/notifications", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("upgrade failed", "error", err)
			return
		}
		defer conn.Close()
		slog.Info("client connected", "remote", r.RemoteAddr)

		ticker := time.NewTicker(*interval)
		defer ticker.Stop()

		for range ticker.C {
			frame := nextFrame(*malformed)
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				slog.Info("client disconnected", "remote", r.RemoteAddr)
				return
			}
			slog.Info("sent", "frame", string(frame))
		}
	})

	if err := http.ListenAndServe(*addr, nil); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// nextFrame builds one notification frame. Timestamps alternate between
// RFC 3339 strings and epoch milliseconds.
func nextFrame(malformed bool) []byte {
	if malformed && rand.Intn(5) == 0 {
		return []byte(`{"type":"order","message":`)
	}

	kinds := []string{"order", "stock", "review"}
	kind := kinds[rand.Intn(len(kinds))]
	msgs := messages[kind]

	var ts any = time.Now().UTC().Format(time.RFC3339)
	if rand.Intn(2) == 0 {
		ts = time.Now().UnixMilli()
	}

	frame, _ := json.Marshal(map[string]any{
		"type":      kind,
		"message":   msgs[rand.Intn(len(msgs))],
		"timestamp": ts,
	})
	return frame
}
