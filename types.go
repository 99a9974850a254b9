package sellerdash

import (
	"time"

	"github.com/jpalmerr/sellerdash/internal/model"
)

// Product is a catalog entry shown on the dashboard.
//
// Products passed to [WithSeedProducts] are validated the same way as the
// add form: every text field is required and price and stock must not be
// negative. The ID is assigned by the dashboard when left zero.
type Product struct {
	ID          int
	Name        string
	Description string
	Price       float64
	Stock       int
	Image       string
}

// Notification is a message received on the notification channel.
type Notification struct {
	Type      string
	Message   string
	Timestamp time.Time
}

func (p Product) toModel() model.Product {
	return model.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Image:       p.Image,
	}
}

func notificationFromModel(n model.Notification) Notification {
	return Notification{
		Type:      n.Type,
		Message:   n.Message,
		Timestamp: n.Timestamp,
	}
}
