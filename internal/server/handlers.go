package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jpalmerr/sellerdash/internal/model"
	"github.com/jpalmerr/sellerdash/internal/store"
	"github.com/jpalmerr/sellerdash/internal/view"
)

// handlePage serves the full dashboard.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	s.writeHTML(w, func(buf *bytes.Buffer) error {
		return s.renderer.Page(buf, s.page())
	})
}

// handleShowSection switches the visible section and returns to the page.
func (s *Server) handleShowSection(w http.ResponseWriter, r *http.Request) {
	if err := s.store.ShowSection(chi.URLParam(r, "name")); err != nil {
		if errors.Is(err, store.ErrUnknownSection) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleAddProduct adds a product from the form. Both outcomes redirect to
// the page; the raised alert carries the result and the form comes back
// empty.
func (s *Server) handleAddProduct(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	in := model.ProductInput{
		Name:        r.PostForm.Get("name"),
		Description: r.PostForm.Get("description"),
		Price:       r.PostForm.Get("price"),
		Stock:       r.PostForm.Get("stock"),
		Image:       r.PostForm.Get("image"),
	}

	if _, err := s.store.AddProduct(in); err != nil {
		var ve *model.ValidationError
		if !errors.As(err, &ve) {
			s.logger.Error("add product failed", "error", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleConfirmDelete renders the confirmation step for a delete.
func (s *Server) handleConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	p, found := s.store.Product(id)
	if !found {
		http.NotFound(w, r)
		return
	}

	s.writeHTML(w, func(buf *bytes.Buffer) error {
		return s.renderer.ConfirmDelete(buf, s.title, p)
	})
}

// handleDeleteProduct deletes only when the form answers confirm=yes.
func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	answer := r.PostForm.Get("confirm")
	s.store.DeleteProduct(id, func(int) bool { return answer == "yes" })
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleEditProduct triggers the edit placeholder.
func (s *Server) handleEditProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	s.store.EditProduct(id)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleFragment serves one page region for in-place refresh.
func (s *Server) handleFragment(w http.ResponseWriter, r *http.Request) {
	region := chi.URLParam(r, "region")
	var buf bytes.Buffer
	if err := s.renderer.Fragment(&buf, region, s.page()); err != nil {
		if errors.Is(err, view.ErrUnknownFragment) {
			http.NotFound(w, r)
			return
		}
		s.logger.Error("failed to render fragment", "region", region, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Error("failed to write fragment response", "error", err)
	}
}

// handleAPIProducts returns all products as JSON.
func (s *Server) handleAPIProducts(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.store.Products())
}

// handleAPINotifications returns the feed as JSON, newest first.
func (s *Server) handleAPINotifications(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.store.Notifications())
}

// handleSSE streams re-render notices via Server-Sent Events.
//
// The handler uses write deadlines to prevent goroutine leaks when clients are
// slow or disconnected. Without deadlines, a blocked Fprintf call would prevent
// the handler from detecting context cancellation or channel closure.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	// check if flushing is supported
	if _, ok := w.(http.Flusher); !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	// ResponseController provides deadline-aware write and flush operations.
	rc := http.NewResponseController(w)

	// track if write deadlines are supported (may not be for some ResponseWriter impls)
	deadlinesSupported := true

	writeAndFlush := func(data []byte) error {
		if deadlinesSupported {
			if err := rc.SetWriteDeadline(time.Now().Add(sseWriteTimeout)); err != nil {
				// deadline not supported by underlying connection, continue without
				s.logger.Debug("sse write deadlines not supported", "error", err)
				deadlinesSupported = false
			}
		}

		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return err
		}
		return rc.Flush()
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := s.store.Subscribe()
	defer s.store.Unsubscribe(ch)

	for {
		select {
		case change, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(change)
			if err != nil {
				continue
			}
			if err := writeAndFlush(data); err != nil {
				return
			}
		case <-r.Context().Done():
			// request context is derived from server context via BaseContext,
			// so this fires on both client disconnect AND server shutdown
			return
		}
	}
}

// productID parses the {id} route parameter, answering 400 when it is not
// an integer.
func productID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid product id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// writeHTML renders into a buffer first so a template error never leaves a
// half-written page.
func (s *Server) writeHTML(w http.ResponseWriter, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		s.logger.Error("failed to render page", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Error("failed to write page response", "error", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode json response", "error", err)
	}
}
