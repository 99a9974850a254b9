package store

import (
	"github.com/jpalmerr/sellerdash/internal/model"
	"github.com/jpalmerr/sellerdash/internal/view"
)

// Region identifies a part of the page that must be re-rendered after a
// mutation.
type Region string

const (
	RegionProducts      Region = "products"
	RegionNotifications Region = "notifications"
	RegionOrders        Region = "orders"
	RegionAlerts        Region = "alerts"
	RegionNavigation    Region = "navigation"
)

// Change is published to subscribers after every mutation.
type Change struct {
	Region Region `json:"region"`
}

// Confirmer is asked before a product is deleted. Returning false leaves
// the store untouched.
type Confirmer func(id int) bool

// Store defines the dashboard operations and the change subscription.
//
// Store implementations must be safe for concurrent access. The pub/sub
// mechanism allows re-render notices to be pushed to connected clients
// (e.g., via Server-Sent Events).
type Store interface {
	// AddProduct validates the form and appends a new product.
	AddProduct(in model.ProductInput) (model.Product, error)

	// DeleteProduct removes products with id once confirm agrees.
	// It returns how many were removed.
	DeleteProduct(id int, confirm Confirmer) int

	// EditProduct looks up the product to edit.
	EditProduct(id int) (model.Product, bool)

	// ShowSection makes the named section the visible one.
	ShowSection(name string) error

	// ShowAlert raises a transient notice.
	ShowAlert(message string, severity model.Severity) model.Alert

	// OnNotification records a pushed notification, newest first.
	OnNotification(n model.Notification)

	Products() []model.Product
	Product(id int) (model.Product, bool)
	Notifications() []model.Notification
	Orders() []model.Order
	Section() model.Section
	Alerts() []model.Alert

	RenderProducts() view.ProductList
	RenderNotifications() view.NotificationFeed

	// Subscribe returns a channel that receives changes.
	// The returned channel has a buffer; slow consumers may miss changes.
	// Caller must call Unsubscribe when done to prevent resource leaks.
	Subscribe() <-chan Change

	// Unsubscribe removes a subscription and closes the channel.
	// Safe to call with a channel that was already unsubscribed.
	Unsubscribe(ch <-chan Change)
}
