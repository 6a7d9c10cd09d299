package httpapi

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	catalogdomain "github.com/Apurer/counter-panel/internal/domains/catalog/domain"
	orderdomain "github.com/Apurer/counter-panel/internal/domains/orders/domain"
	"github.com/Apurer/counter-panel/internal/shared/ident"
)

// Product is the wire shape of a catalog entry.
type Product struct {
	ID        ident.ID    `json:"id"`
	Name      string      `json:"name"`
	Price     json.Number `json:"price"`
	Category  string      `json:"category"`
	Available bool        `json:"available"`
	Image     string      `json:"image,omitempty"`
}

// ProductDraft is the body of POST /products.
type ProductDraft struct {
	Name     string      `json:"name"`
	Price    json.Number `json:"price"`
	Category string      `json:"category"`
	Image    string      `json:"image"`
}

// Availability is the body of PUT /products/:id.
type Availability struct {
	Available *bool `json:"available"`
}

// Order is the wire shape of an order.
type Order struct {
	ID           ident.ID    `json:"id"`
	CreatedAt    time.Time   `json:"createdAt"`
	CustomerName string      `json:"customerName,omitempty"`
	Status       string      `json:"status"`
	Total        json.Number `json:"total,omitempty"`
	Items        []OrderItem `json:"items"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	Name      string      `json:"name"`
	Quantity  int         `json:"quantity"`
	UnitPrice json.Number `json:"unitPrice,omitempty"`
	Note      string      `json:"note,omitempty"`
}

// NewOrder is the body of POST /orders.
type NewOrder struct {
	CustomerName string         `json:"customerName"`
	Items        []NewOrderItem `json:"items"`
}

// NewOrderItem references a product by id.
type NewOrderItem struct {
	ProductID ident.ID `json:"productId"`
	Quantity  int      `json:"quantity"`
	Note      string   `json:"note"`
}

// StatusUpdate is the body of PUT /orders/:id.
type StatusUpdate struct {
	Status string `json:"status"`
}

// toDraft validates the request shape and returns field errors keyed by JSON name.
func (d ProductDraft) toDraft() (catalogdomain.Draft, map[string]string) {
	fields := map[string]string{}
	draft := catalogdomain.Draft{Name: strings.TrimSpace(d.Name), Image: catalogdomain.ImagePayload(d.Image)}
	if draft.Name == "" {
		fields["name"] = "name is required"
	}
	if d.Price == "" {
		fields["price"] = "price is required"
	} else if price, err := decimal.NewFromString(d.Price.String()); err != nil {
		fields["price"] = "price must be a number"
	} else if !price.IsPositive() {
		fields["price"] = "price must be greater than zero"
	} else {
		draft.Price = price
	}
	if raw := strings.TrimSpace(d.Category); raw != "" {
		category, err := catalogdomain.ParseCategory(raw)
		if err != nil || category.IsAll() {
			fields["category"] = "category must be one of Panini, Fritti, Bevande, Menu"
		} else {
			draft.Category = category
		}
	}
	return draft, fields
}

func fromProduct(p catalogdomain.Product) Product {
	return Product{
		ID:        p.ID,
		Name:      p.Name,
		Price:     json.Number(p.Price.String()),
		Category:  string(p.Category),
		Available: p.Available,
		Image:     string(p.Image),
	}
}

func fromProducts(list []catalogdomain.Product) []Product {
	out := make([]Product, 0, len(list))
	for _, p := range list {
		out = append(out, fromProduct(p))
	}
	return out
}

func fromOrder(o orderdomain.Order) Order {
	out := Order{
		ID:           o.ID,
		CreatedAt:    o.CreatedAt,
		CustomerName: o.CustomerName,
		Status:       string(o.Status),
		Items:        make([]OrderItem, 0, len(o.Items)),
	}
	if o.Total.Valid {
		out.Total = json.Number(o.Total.Decimal.String())
	}
	for _, item := range o.Items {
		line := OrderItem{Name: item.Name, Quantity: item.Quantity, Note: item.Note}
		if item.UnitPrice.Valid {
			line.UnitPrice = json.Number(item.UnitPrice.Decimal.String())
		}
		out.Items = append(out.Items, line)
	}
	return out
}

func fromOrders(list []orderdomain.Order) []Order {
	out := make([]Order, 0, len(list))
	for _, o := range list {
		out = append(out, fromOrder(o))
	}
	return out
}
