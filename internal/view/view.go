// Package view projects dashboard state into view models and renders them
// to HTML.
//
// The projection functions ([Products], [Notifications], [Orders], [Tabs])
// are pure: the same records always produce the same view model. Markup is
// produced separately by [Renderer] from the embedded templates, so the
// projections can be tested without any presentation surface.
package view

import (
	"fmt"
	"html/template"
	"time"

	"github.com/jpalmerr/sellerdash/internal/model"
	"github.com/microcosm-cc/bluemonday"
)

// timestampLayout is how notification times are shown in the feed.
const timestampLayout = "Jan 2, 2006 15:04:05 MST"

// messagePolicy allows the light formatting push senders use (bold, links)
// and strips everything else.
var messagePolicy = bluemonday.UGCPolicy()

// ProductCard is one product as displayed in the listing.
type ProductCard struct {
	ID          int
	Name        string
	Description string
	Image       string
	Price       string
	InStock     bool
	StockLabel  string
}

// ProductList is the products section view model.
type ProductList struct {
	Empty bool
	Cards []ProductCard
}

// NotificationItem is one entry in the notification feed.
type NotificationItem struct {
	Type      string
	Message   template.HTML
	Time      string
	Timestamp time.Time
}

// NotificationFeed is the notifications section view model.
type NotificationFeed struct {
	Empty bool
	Items []NotificationItem
}

// OrderList is the orders section view model.
type OrderList struct {
	Empty  bool
	Orders []model.Order
}

// Tab is a navigation control for one section.
type Tab struct {
	Section model.Section
	Label   string
	Active  bool
}

// Products projects products into cards, preserving collection order.
func Products(products []model.Product) ProductList {
	if len(products) == 0 {
		return ProductList{Empty: true}
	}

	cards := make([]ProductCard, len(products))
	for i, p := range products {
		label := "Out of Stock"
		if p.InStock() {
			label = fmt.Sprintf("In Stock (%d)", p.Stock)
		}
		cards[i] = ProductCard{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Image:       p.Image,
			Price:       FormatPrice(p.Price),
			InStock:     p.InStock(),
			StockLabel:  label,
		}
	}
	return ProductList{Cards: cards}
}

// Notifications projects notifications into feed items, preserving the
// given order. The store already holds them newest first.
func Notifications(notifications []model.Notification) NotificationFeed {
	if len(notifications) == 0 {
		return NotificationFeed{Empty: true}
	}

	items := make([]NotificationItem, len(notifications))
	for i, n := range notifications {
		items[i] = NotificationItem{
			Type:      n.Type,
			Message:   SanitizeMessage(n.Message),
			Time:      n.Timestamp.UTC().Format(timestampLayout),
			Timestamp: n.Timestamp,
		}
	}
	return NotificationFeed{Items: items}
}

// Orders projects the order collection.
func Orders(orders []model.Order) OrderList {
	return OrderList{Empty: len(orders) == 0, Orders: orders}
}

// Tabs returns one tab per section with only active marked.
func Tabs(active model.Section) []Tab {
	tabs := make([]Tab, len(model.Sections))
	for i, sec := range model.Sections {
		tabs[i] = Tab{Section: sec, Label: sec.Label(), Active: sec == active}
	}
	return tabs
}

// FormatPrice renders a price with a dollar sign and two decimals.
func FormatPrice(price float64) string {
	return fmt.Sprintf("$%.2f", price)
}

// SanitizeMessage strips unsafe markup from a pushed message.
func SanitizeMessage(msg string) template.HTML {
	return template.HTML(messagePolicy.Sanitize(msg))
}

// Page is the full dashboard view model.
type Page struct {
	Title         string
	Section       model.Section
	Tabs          []Tab
	Products      ProductList
	Notifications NotificationFeed
	Orders        OrderList
	Alerts        []model.Alert
}

// Visible reports whether the named section is the one on screen.
func (p Page) Visible(section string) bool {
	return string(p.Section) == section
}
