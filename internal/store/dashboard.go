package store

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jpalmerr/sellerdash/internal/model"
	"github.com/jpalmerr/sellerdash/internal/view"
)

// DefaultAlertTTL is how long an alert stays on screen when no TTL is given.
const DefaultAlertTTL = 3 * time.Second

// ErrUnknownSection is returned by [DashboardStore.ShowSection] for a name
// that is not one of the dashboard's sections.
var ErrUnknownSection = errors.New("unknown section")

const (
	msgValidationFailed = "Please fill in all fields"
	msgProductAdded     = "Product added successfully!"
	msgProductDeleted   = "Product deleted successfully!"
	msgEditComingSoon   = "Edit functionality coming soon!"
)

// DashboardStore is the in-memory implementation of [Store].
//
// Product ids come from a counter that only moves forward, so ids stay
// unique after deletions. Notifications are kept newest first. Alerts are
// removed by their own timers after the alert TTL.
type DashboardStore struct {
	mu            sync.Mutex
	products      []model.Product
	notifications []model.Notification
	orders        []model.Order
	nextID        int
	section       model.Section
	alerts        []model.Alert
	timers        map[string]*time.Timer

	alertTTL time.Duration
	logger   *slog.Logger
	broker   *broker
}

// NewDashboardStore creates an empty store. Call [DashboardStore.Initialize]
// before serving. A non-positive alertTTL selects [DefaultAlertTTL]; a nil
// logger selects [slog.Default].
func NewDashboardStore(alertTTL time.Duration, logger *slog.Logger) *DashboardStore {
	if alertTTL <= 0 {
		alertTTL = DefaultAlertTTL
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &DashboardStore{
		nextID:   1,
		section:  model.SectionProducts,
		timers:   make(map[string]*time.Timer),
		alertTTL: alertTTL,
		logger:   logger,
		broker:   newBroker(),
	}
}

// Initialize resets every collection, the id counter, the active section
// and pending alerts, then loads seed. Seed products without a positive id,
// or whose id is already held by an earlier seed, are numbered from the
// counter; the counter always ends past the largest id.
func (s *DashboardStore) Initialize(seed []model.Product) {
	s.mu.Lock()

	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = make(map[string]*time.Timer)
	s.alerts = nil
	s.notifications = nil
	s.orders = nil
	s.section = model.SectionProducts
	s.nextID = 1

	for _, p := range seed {
		if p.ID >= s.nextID {
			s.nextID = p.ID + 1
		}
	}
	s.products = make([]model.Product, 0, len(seed))
	held := make(map[int]bool, len(seed))
	for _, p := range seed {
		if p.ID <= 0 || held[p.ID] {
			p.ID = s.nextID
			s.nextID++
		}
		held[p.ID] = true
		s.products = append(s.products, p)
	}
	count := len(s.products)

	s.mu.Unlock()

	s.logger.Info("dashboard initialized", "products", count)
	s.broker.publish(
		Change{Region: RegionNavigation},
		Change{Region: RegionProducts},
		Change{Region: RegionNotifications},
		Change{Region: RegionOrders},
		Change{Region: RegionAlerts},
	)
}

// AddProduct validates in and appends the resulting product.
//
// On validation failure a warning alert is raised, nothing else changes and
// a *model.ValidationError is returned. On success the product gets the
// next id and a success alert is raised.
func (s *DashboardStore) AddProduct(in model.ProductInput) (model.Product, error) {
	p, err := model.ParseProduct(in)

	s.mu.Lock()
	if err != nil {
		s.raiseAlertLocked(msgValidationFailed, model.SeverityWarning)
		s.mu.Unlock()

		s.logger.Debug("product rejected", "error", err)
		s.broker.publish(Change{Region: RegionAlerts})
		return model.Product{}, err
	}

	p.ID = s.nextID
	s.nextID++
	s.products = append(s.products, p)
	s.raiseAlertLocked(msgProductAdded, model.SeveritySuccess)
	s.mu.Unlock()

	s.logger.Info("product added", "id", p.ID, "name", p.Name)
	s.broker.publish(Change{Region: RegionProducts}, Change{Region: RegionAlerts})
	return p, nil
}

// DeleteProduct asks confirm and, only if it agrees, removes every product
// with id. A nil confirm declines. An absent id is a no-op.
func (s *DashboardStore) DeleteProduct(id int, confirm Confirmer) int {
	if confirm == nil || !confirm(id) {
		return 0
	}

	s.mu.Lock()
	kept := s.products[:0:0]
	for _, p := range s.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	removed := len(s.products) - len(kept)
	s.products = kept
	if removed > 0 {
		s.raiseAlertLocked(msgProductDeleted, model.SeveritySuccess)
	}
	s.mu.Unlock()

	if removed > 0 {
		s.logger.Info("product deleted", "id", id)
		s.broker.publish(Change{Region: RegionProducts}, Change{Region: RegionAlerts})
	}
	return removed
}

// EditProduct looks the product up and, when found, raises an info alert.
// Editing itself is not implemented; product data never changes here.
func (s *DashboardStore) EditProduct(id int) (model.Product, bool) {
	s.mu.Lock()
	p, ok := s.findLocked(id)
	if ok {
		s.raiseAlertLocked(msgEditComingSoon, model.SeverityInfo)
	}
	s.mu.Unlock()

	if !ok {
		return model.Product{}, false
	}
	s.logger.Debug("editing product", "id", p.ID, "name", p.Name)
	s.broker.publish(Change{Region: RegionAlerts})
	return p, true
}

// OnNotification prepends n to the notification feed.
func (s *DashboardStore) OnNotification(n model.Notification) {
	s.mu.Lock()
	s.notifications = append([]model.Notification{n}, s.notifications...)
	s.mu.Unlock()

	s.broker.publish(Change{Region: RegionNotifications})
}

// ShowSection makes name the single visible section.
func (s *DashboardStore) ShowSection(name string) error {
	sec, ok := model.ParseSection(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSection, name)
	}

	s.mu.Lock()
	s.section = sec
	s.mu.Unlock()

	s.broker.publish(Change{Region: RegionNavigation})
	return nil
}

// ShowAlert raises a notice that dismisses itself after the alert TTL.
// Alerts are independent; each has its own timer.
func (s *DashboardStore) ShowAlert(message string, severity model.Severity) model.Alert {
	s.mu.Lock()
	a := s.raiseAlertLocked(message, severity)
	s.mu.Unlock()

	s.broker.publish(Change{Region: RegionAlerts})
	return a
}

// raiseAlertLocked appends an alert and arms its dismissal timer.
// Caller must hold s.mu.
func (s *DashboardStore) raiseAlertLocked(message string, severity model.Severity) model.Alert {
	a := model.Alert{
		ID:       uuid.NewString(),
		Message:  message,
		Severity: severity,
		RaisedAt: time.Now(),
	}
	s.alerts = append(s.alerts, a)
	s.timers[a.ID] = time.AfterFunc(s.alertTTL, func() { s.dismissAlert(a.ID) })
	return a
}

// dismissAlert removes the alert with id if it is still present.
func (s *DashboardStore) dismissAlert(id string) {
	s.mu.Lock()
	if _, ok := s.timers[id]; !ok {
		// cleared by Initialize
		s.mu.Unlock()
		return
	}
	delete(s.timers, id)
	for i, a := range s.alerts {
		if a.ID == id {
			s.alerts = append(s.alerts[:i:i], s.alerts[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.broker.publish(Change{Region: RegionAlerts})
}

func (s *DashboardStore) findLocked(id int) (model.Product, bool) {
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return model.Product{}, false
}

// Products returns a copy of the products in insertion order.
func (s *DashboardStore) Products() []model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]model.Product, len(s.products))
	copy(cp, s.products)
	return cp
}

// Product returns the product with id.
func (s *DashboardStore) Product(id int) (model.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findLocked(id)
}

// Notifications returns a copy of the feed, newest first.
func (s *DashboardStore) Notifications() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]model.Notification, len(s.notifications))
	copy(cp, s.notifications)
	return cp
}

// Orders returns a copy of the orders.
func (s *DashboardStore) Orders() []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]model.Order, len(s.orders))
	copy(cp, s.orders)
	return cp
}

// Section returns the visible section.
func (s *DashboardStore) Section() model.Section {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.section
}

// Alerts returns the alerts currently on screen, oldest first.
func (s *DashboardStore) Alerts() []model.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]model.Alert, len(s.alerts))
	copy(cp, s.alerts)
	return cp
}

// RenderProducts projects the current products.
func (s *DashboardStore) RenderProducts() view.ProductList {
	return view.Products(s.Products())
}

// RenderNotifications projects the current feed, newest first.
func (s *DashboardStore) RenderNotifications() view.NotificationFeed {
	return view.Notifications(s.Notifications())
}

// Subscribe creates a new subscription and returns a channel for receiving
// changes.
//
// The returned channel has a buffer of 100 changes. If the buffer fills
// (slow consumer), new changes are dropped for this subscriber.
func (s *DashboardStore) Subscribe() <-chan Change {
	return s.broker.subscribe()
}

// Unsubscribe removes a subscription and closes its channel.
func (s *DashboardStore) Unsubscribe(ch <-chan Change) {
	s.broker.unsubscribe(ch)
}

var _ Store = (*DashboardStore)(nil)
