// Package model defines the records held by the dashboard store: products,
// notifications, orders, alerts and the navigable sections.
//
// Parsing and validation of untrusted input (the product form and inbound
// notification frames) also live here so the store, the config loader and
// the notification channel all apply the same rules.
package model

import "time"

// Product is a single catalogue entry.
type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"min=0"`
	Stock       int     `json:"stock" validate:"min=0"`
	Image       string  `json:"image" validate:"required"`
}

// InStock reports whether the product has any units available.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// Notification is a pushed event shown in the notification feed.
type Notification struct {
	Type      string    `json:"type" validate:"required"`
	Message   string    `json:"message" validate:"required"`
	Timestamp time.Time `json:"timestamp" validate:"required"`
}

// Order is declared for the orders section. Nothing populates it yet.
type Order struct {
	ID        int       `json:"id"`
	ProductID int       `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Total     float64   `json:"total"`
	PlacedAt  time.Time `json:"placed_at"`
}

// Section names one of the dashboard's top-level views.
type Section string

const (
	SectionProducts      Section = "products"
	SectionNotifications Section = "notifications"
	SectionOrders        Section = "orders"
)

// Sections lists every section in tab order.
var Sections = []Section{SectionProducts, SectionNotifications, SectionOrders}

// ParseSection returns the Section named s, or false if s is not a section.
func ParseSection(s string) (Section, bool) {
	for _, sec := range Sections {
		if string(sec) == s {
			return sec, true
		}
	}
	return "", false
}

// Label returns the tab caption for the section.
func (s Section) Label() string {
	switch s {
	case SectionProducts:
		return "Products"
	case SectionNotifications:
		return "Notifications"
	case SectionOrders:
		return "Orders"
	default:
		return string(s)
	}
}

// Severity classifies a transient alert. Values double as CSS modifiers.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// Alert is a short-lived, auto-dismissing notice.
type Alert struct {
	ID       string    `json:"id"`
	Message  string    `json:"message"`
	Severity Severity  `json:"severity"`
	RaisedAt time.Time `json:"raised_at"`
}
