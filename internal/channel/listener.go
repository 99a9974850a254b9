package channel

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jpalmerr/sellerdash/internal/model"
)

const (
	defaultHandshakeTimeout = 10 * time.Second
	defaultMinBackoff       = 1 * time.Second
	defaultMaxBackoff       = 30 * time.Second

	// maxFrameSize bounds a single inbound frame.
	maxFrameSize = 1 << 20 // 1MB
)

// State is the connection state of a [Listener].
type State int32

const (
	StateIdle State = iota
	StateConnecting
	StateOpen
	StateClosed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Handler receives each well-formed notification.
type Handler func(model.Notification)

// Option configures a [Listener].
type Option func(*Listener)

// WithReconnect makes the listener redial after a dropped or failed
// connection, waiting minDelay, 2*minDelay, ... up to maxDelay between
// attempts. Non-positive values select the defaults (1s and 30s).
func WithReconnect(minDelay, maxDelay time.Duration) Option {
	return func(l *Listener) {
		if minDelay <= 0 {
			minDelay = defaultMinBackoff
		}
		if maxDelay <= 0 {
			maxDelay = defaultMaxBackoff
		}
		if maxDelay < minDelay {
			maxDelay = minDelay
		}
		l.reconnect = true
		l.minBackoff = minDelay
		l.maxBackoff = maxDelay
	}
}

// WithDialer overrides the websocket dialer.
func WithDialer(d *websocket.Dialer) Option {
	return func(l *Listener) {
		if d != nil {
			l.dialer = d
		}
	}
}

// Listener reads notifications from a websocket endpoint and hands them to
// a [Handler].
//
// Without [WithReconnect] the listener is fire-and-forget: a transport error
// is logged, the state becomes [StateFailed] and nothing further is
// delivered. Frames that do not decode are dropped and logged; the
// connection stays open.
//
// All lifecycle methods (Start, Stop) are safe for concurrent use.
type Listener struct {
	url     string
	handler Handler
	logger  *slog.Logger
	dialer  *websocket.Dialer

	reconnect  bool
	minBackoff time.Duration
	maxBackoff time.Duration

	state atomic.Int32

	mu      sync.Mutex
	started bool
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewListener creates a [Listener] for url. The listener does nothing until
// [Listener.Start] is called.
func NewListener(url string, handler Handler, logger *slog.Logger, opts ...Option) *Listener {
	if logger == nil {
		logger = slog.Default()
	}

	l := &Listener{
		url:     url,
		handler: handler,
		logger:  logger,
		dialer: &websocket.Dialer{
			HandshakeTimeout: defaultHandshakeTimeout,
		},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// State returns the current connection state.
func (l *Listener) State() State {
	return State(l.state.Load())
}

// Start connects in a background goroutine and returns immediately.
//
// Start is idempotent; subsequent calls after the first are no-ops.
// If Stop was called before Start, Start is a no-op.
func (l *Listener) Start(ctx context.Context) {
	l.mu.Lock()
	if l.started || l.stopped {
		l.mu.Unlock()
		return
	}
	l.started = true

	if ctx == nil {
		ctx = context.Background()
	}
	runCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.wg.Add(1)
	l.mu.Unlock()

	go func() {
		defer l.wg.Done()
		l.run(runCtx)
	}()
}

// Stop closes the connection and waits for the read loop to exit.
// Stop is idempotent and safe to call before Start.
func (l *Listener) Stop() {
	l.mu.Lock()
	if !l.stopped {
		l.stopped = true
		if l.cancel != nil {
			l.cancel()
		}
	}
	l.mu.Unlock()

	l.wg.Wait()
}

// run drives the connection state machine until ctx is done or, without
// reconnect, the first session ends.
func (l *Listener) run(ctx context.Context) {
	backoff := l.minBackoff

	for {
		opened, err := l.session(ctx)

		if ctx.Err() != nil {
			l.state.Store(int32(StateClosed))
			return
		}

		if err != nil {
			l.state.Store(int32(StateFailed))
			l.logger.Error("notification channel error", "url", l.url, "error", err)
		} else {
			l.state.Store(int32(StateClosed))
			l.logger.Info("notification channel closed", "url", l.url)
		}

		if !l.reconnect {
			return
		}

		// a session that got as far as open resets the backoff
		if opened {
			backoff = l.minBackoff
		}

		l.logger.Info("notification channel reconnecting", "url", l.url, "delay", backoff.String())
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			l.state.Store(int32(StateClosed))
			return
		case <-timer.C:
		}

		backoff *= 2
		if backoff > l.maxBackoff {
			backoff = l.maxBackoff
		}
	}
}

// session dials once and reads until the connection ends. It reports
// whether the connection was opened; a nil error means a clean close.
func (l *Listener) session(ctx context.Context) (bool, error) {
	l.state.Store(int32(StateConnecting))

	conn, resp, err := l.dialer.DialContext(ctx, l.url, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return false, fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	conn.SetReadLimit(maxFrameSize)
	l.state.Store(int32(StateOpen))
	l.logger.Info("notification channel open", "url", l.url)

	// unblock ReadMessage when the context is cancelled
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return true, nil
			}
			return true, fmt.Errorf("read: %w", err)
		}

		if msgType != websocket.TextMessage {
			l.logger.Warn("dropping non-text frame", "url", l.url, "type", msgType)
			continue
		}

		n, err := model.DecodeNotification(data)
		if err != nil {
			l.logger.Warn("dropping malformed notification", "url", l.url, "error", err)
			continue
		}

		l.deliver(n)
	}
}

// deliver calls the handler with panic recovery. A panicking handler is
// logged and the connection keeps reading.
func (l *Listener) deliver(n model.Notification) {
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			l.logger.Error("notification handler panic",
				"correlation_id", correlationID,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
		}
	}()
	if l.handler != nil {
		l.handler(n)
	}
}
