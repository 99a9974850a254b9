package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jpalmerr/sellerdash/dashboard"
	"github.com/jpalmerr/sellerdash/internal/model"
	"github.com/jpalmerr/sellerdash/internal/store"
	"github.com/jpalmerr/sellerdash/internal/view"
)

// testLogger returns a logger that discards all output for clean test output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, seed ...model.Product) (*Server, *store.DashboardStore) {
	t.Helper()

	st := store.NewDashboardStore(time.Hour, testLogger())
	st.Initialize(seed)

	renderer, err := view.NewRenderer(dashboard.Assets)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	return NewServer(st, renderer, 0, "", testLogger()), st
}

// noRedirectClient returns a client that reports redirects instead of following them.
func noRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, string) {
	t.Helper()
	resp, err := noRedirectClient().Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s error = %v", path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func postForm(t *testing.T, ts *httptest.Server, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := noRedirectClient().PostForm(ts.URL+path, form)
	if err != nil {
		t.Fatalf("POST %s error = %v", path, err)
	}
	resp.Body.Close()
	return resp
}

func widgetForm() url.Values {
	return url.Values{
		"name":        {"Widget"},
		"description": {"A widget"},
		"price":       {"9.99"},
		"stock":       {"5"},
		"image":       {"http://x/img.png"},
	}
}

func TestHandlePage_EmptyState(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, body := get(t, ts, "/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
	if !strings.Contains(body, "No products added yet.") {
		t.Error("page should show the empty products marker")
	}
	if !strings.Contains(body, "<title>Seller Dashboard</title>") {
		t.Error("page should use the default title")
	}
}

func TestHandleAddProduct_Valid(t *testing.T) {
	srv, st := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp := postForm(t, ts, "/products", widgetForm())
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want /", loc)
	}

	products := st.Products()
	if len(products) != 1 || products[0].ID != 1 || products[0].Price != 9.99 || products[0].Stock != 5 {
		t.Errorf("Products() = %+v", products)
	}

	_, body := get(t, ts, "/")
	if !strings.Contains(body, "Widget") || !strings.Contains(body, "In Stock (5)") {
		t.Error("page should list the new product")
	}
	if !strings.Contains(body, "Product added successfully!") {
		t.Error("page should show the success alert")
	}
}

func TestHandleAddProduct_Invalid(t *testing.T) {
	srv, st := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	form := widgetForm()
	form.Set("name", "")
	resp := postForm(t, ts, "/products", form)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", resp.StatusCode)
	}
	if len(st.Products()) != 0 {
		t.Errorf("len(Products()) = %d, want 0", len(st.Products()))
	}

	_, body := get(t, ts, "/fragments/alerts")
	if !strings.Contains(body, "alert-warning") || !strings.Contains(body, "Please fill in all fields") {
		t.Errorf("alerts fragment = %q, want warning", body)
	}
}

func TestDelete_RequiresConfirmation(t *testing.T) {
	srv, st := newTestServer(t, model.Product{Name: "Widget", Description: "d", Price: 1, Stock: 1, Image: "i"})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, body := get(t, ts, "/products/1/delete")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("confirm page status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(body, "Are you sure you want to delete") {
		t.Error("confirm page missing question")
	}
	if len(st.Products()) != 1 {
		t.Fatal("showing the confirm page must not delete")
	}

	postForm(t, ts, "/products/1/delete", url.Values{"confirm": {"no"}})
	if len(st.Products()) != 1 {
		t.Fatal("declined delete must not remove the product")
	}

	postForm(t, ts, "/products/1/delete", url.Values{})
	if len(st.Products()) != 1 {
		t.Fatal("delete without an answer must not remove the product")
	}

	resp = postForm(t, ts, "/products/1/delete", url.Values{"confirm": {"yes"}})
	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", resp.StatusCode)
	}
	if len(st.Products()) != 0 {
		t.Errorf("len(Products()) = %d, want 0", len(st.Products()))
	}
}

func TestDelete_BadAndMissingIDs(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	if resp, _ := get(t, ts, "/products/abc/delete"); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", resp.StatusCode)
	}
	if resp, _ := get(t, ts, "/products/99/delete"); resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing id status = %d, want 404", resp.StatusCode)
	}

	// confirming a missing id is a silent no-op
	if resp := postForm(t, ts, "/products/99/delete", url.Values{"confirm": {"yes"}}); resp.StatusCode != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", resp.StatusCode)
	}
}

func TestHandleEditProduct(t *testing.T) {
	srv, st := newTestServer(t, model.Product{Name: "Widget", Description: "d", Price: 1, Stock: 1, Image: "i"})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	before := st.Products()
	resp := postForm(t, ts, "/products/1/edit", nil)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", resp.StatusCode)
	}

	after := st.Products()
	if len(after) != 1 || after[0] != before[0] {
		t.Error("edit must not change product data")
	}

	alerts := st.Alerts()
	if len(alerts) != 1 || alerts[0].Message != "Edit functionality coming soon!" {
		t.Errorf("Alerts() = %+v", alerts)
	}
}

func TestHandleShowSection(t *testing.T) {
	srv, st := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	if resp, _ := get(t, ts, "/sections/notifications"); resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", resp.StatusCode)
	}
	if resp, _ := get(t, ts, "/sections/orders"); resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", resp.StatusCode)
	}
	if st.Section() != model.SectionOrders {
		t.Errorf("Section() = %q, want orders", st.Section())
	}

	_, body := get(t, ts, "/")
	if !strings.Contains(body, `<section id="orders-section">`) {
		t.Error("orders section should be visible")
	}
	if !strings.Contains(body, `<section id="notifications-section" style="display:none">`) {
		t.Error("notifications section should be hidden")
	}
	if !strings.Contains(body, `id="orders-tab" href="/sections/orders" class="list-group-item active"`) {
		t.Error("orders tab should be active")
	}

	if resp, _ := get(t, ts, "/sections/settings"); resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown section status = %d, want 404", resp.StatusCode)
	}
}

func TestHandleFragment(t *testing.T) {
	srv, st := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	st.OnNotification(model.Notification{Type: "order", Message: "N1", Timestamp: time.Now()})
	st.OnNotification(model.Notification{Type: "order", Message: "N2", Timestamp: time.Now()})

	resp, body := get(t, ts, "/fragments/notifications")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if strings.Index(body, "N2") > strings.Index(body, "N1") {
		t.Errorf("want N2 before N1, got %s", body)
	}

	if resp, _ := get(t, ts, "/fragments/page"); resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown fragment status = %d, want 404", resp.StatusCode)
	}
}

func TestHandleAPI(t *testing.T) {
	srv, st := newTestServer(t, model.Product{Name: "Widget", Description: "d", Price: 2.5, Stock: 3, Image: "i"})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	st.OnNotification(model.Notification{Type: "order", Message: "hello", Timestamp: time.Now()})

	resp, body := get(t, ts, "/api/products")
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	var products []model.Product
	if err := json.Unmarshal([]byte(body), &products); err != nil {
		t.Fatalf("decode products: %v", err)
	}
	if len(products) != 1 || products[0].Price != 2.5 {
		t.Errorf("products = %+v", products)
	}

	_, body = get(t, ts, "/api/notifications")
	var ns []map[string]any
	if err := json.Unmarshal([]byte(body), &ns); err != nil {
		t.Fatalf("decode notifications: %v", err)
	}
	if len(ns) != 1 || ns[0]["message"] != "hello" {
		t.Errorf("notifications = %+v", ns)
	}
}

func TestHandleAPI_EmptyStore(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	for _, path := range []string{"/api/products", "/api/notifications"} {
		t.Run(path, func(t *testing.T) {
			resp, body := get(t, ts, path)
			if resp.StatusCode != http.StatusOK {
				t.Errorf("status = %d, want 200", resp.StatusCode)
			}
			if got := strings.TrimSpace(body); got != "[]" {
				t.Errorf("body = %q, want []", got)
			}
		})
	}
}

func TestHandleSSE_StreamsChanges(t *testing.T) {
	srv, st := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/sse", nil)
	rec := httptest.NewRecorder()

	ctx, cancel := context.WithCancel(context.Background())
	req = req.WithContext(ctx)

	done := make(chan struct{})
	go func() {
		srv.handleSSE(rec, req)
		close(done)
	}()

	// give handler time to subscribe
	time.Sleep(50 * time.Millisecond)

	st.OnNotification(model.Notification{Type: "order", Message: "m", Timestamp: time.Now()})

	// give time for the change to be written
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler did not exit after context cancellation")
	}

	body := rec.Body.String()
	if !strings.Contains(body, `data: {"region":"notifications"}`) {
		t.Errorf("response should contain notifications change, got: %s", body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q, want text/event-stream", ct)
	}
}

func TestHandleSSE_ConcurrentClientsShutdown(t *testing.T) {
	srv, _ := newTestServer(t)
	serverCtx, serverCancel := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodGet, "/api/sse", nil).WithContext(serverCtx)
			srv.handleSSE(httptest.NewRecorder(), req)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	serverCancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("not all SSE handlers exited after shutdown")
	}
}

func TestServer_StartAndShutdown(t *testing.T) {
	// grab a free port
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	st := store.NewDashboardStore(time.Hour, testLogger())
	st.Initialize(nil)
	renderer, _ := view.NewRenderer(dashboard.Assets)
	srv := NewServer(st, renderer, port, "My Shop", testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	if err := srv.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	resp, err := http.Get(base + "/")
	if err != nil {
		t.Fatalf("GET / error = %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "<title>My Shop</title>") {
		t.Error("page should use the configured title")
	}

	cancel()

	// server should stop accepting connections
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := http.Get(base + "/"); err != nil {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Error("server still serving after context cancellation")
}

func TestServer_StartPortInUse(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	srv, _ := newTestServer(t)
	srv.port = port

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := srv.Start(ctx); err == nil {
		t.Error("Start() expected error for port in use, got nil")
	}
}
