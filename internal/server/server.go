package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jpalmerr/sellerdash/internal/store"
	"github.com/jpalmerr/sellerdash/internal/view"
)

const (
	// sseWriteTimeout is the maximum time allowed for a single SSE write operation.
	// This prevents goroutine leaks when clients are slow or disconnected.
	// Must be <= shutdown timeout to ensure clean shutdown.
	sseWriteTimeout = 5 * time.Second

	// shutdownTimeout bounds graceful shutdown of in-flight requests.
	shutdownTimeout = 5 * time.Second

	// defaultTitle is used when no custom title is configured.
	defaultTitle = "Seller Dashboard"
)

// Server handles HTTP requests for the SellerDash page and API.
//
// Routes:
//   - GET  /                       full page
//   - GET  /sections/{name}        switch the visible section
//   - POST /products               add a product
//   - GET  /products/{id}/delete   delete confirmation step
//   - POST /products/{id}/delete   confirm (confirm=yes) or decline
//   - POST /products/{id}/edit     edit placeholder
//   - GET  /fragments/{region}     one page region as HTML
//   - GET  /api/products           products as JSON
//   - GET  /api/notifications      notifications as JSON
//   - GET  /api/sse                Server-Sent Events stream of changes
//
// The server is designed for graceful shutdown via context cancellation.
type Server struct {
	store      store.Store
	renderer   *view.Renderer
	port       int
	httpServer *http.Server
	title      string
	logger     *slog.Logger
}

// NewServer creates a new HTTP [Server].
//
// Parameters:
//   - st: Store holding the dashboard state
//   - renderer: Template renderer for pages and fragments
//   - port: TCP port to listen on
//   - title: Dashboard title (defaults to "Seller Dashboard" if empty)
//   - logger: Logger for server events
//
// The server is not started until [Server.Start] is called.
func NewServer(st store.Store, renderer *view.Renderer, port int, title string, logger *slog.Logger) *Server {
	if title == "" {
		title = defaultTitle
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		store:    st,
		renderer: renderer,
		port:     port,
		title:    title,
		logger:   logger,
	}
}

// Handler returns the router with every route mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.handlePage)
	r.Get("/sections/{name}", s.handleShowSection)

	r.Route("/products", func(r chi.Router) {
		r.Post("/", s.handleAddProduct)
		r.Get("/{id}/delete", s.handleConfirmDelete)
		r.Post("/{id}/delete", s.handleDeleteProduct)
		r.Post("/{id}/edit", s.handleEditProduct)
	})

	r.Get("/fragments/{region}", s.handleFragment)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", s.handleAPIProducts)
		r.Get("/notifications", s.handleAPINotifications)
		r.Get("/sse", s.handleSSE)
	})

	return r
}

// Start begins serving HTTP requests in a background goroutine.
//
// Start is non-blocking and returns immediately after confirming the server
// is listening. The server will continue running until the context is
// cancelled, at which point it initiates a graceful shutdown with a 5-second
// timeout.
//
// Returns an error if the server fails to bind to the configured port.
func (s *Server) Start(ctx context.Context) error {
	// create listener first to verify port availability synchronously
	addr := fmt.Sprintf(":%d", s.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind to port %d: %w", s.port, err)
	}

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// BaseContext derives all request contexts from the server context.
		// When ctx is cancelled, all request contexts are also cancelled,
		// enabling graceful shutdown of long-running handlers like SSE.
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server error", "error", err)
		}
	}()

	// shutdown on context cancellation
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown error", "error", err)
		}
	}()

	return nil
}

// page assembles the full view model from the store.
func (s *Server) page() view.Page {
	section := s.store.Section()
	return view.Page{
		Title:         s.title,
		Section:       section,
		Tabs:          view.Tabs(section),
		Products:      s.store.RenderProducts(),
		Notifications: s.store.RenderNotifications(),
		Orders:        view.Orders(s.store.Orders()),
		Alerts:        s.store.Alerts(),
	}
}
