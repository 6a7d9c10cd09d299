package counter

import (
	"encoding/json"
	"time"

	"github.com/Apurer/counter-panel/internal/shared/ident"
)

// ProductPayload is the wire shape of a catalog product.
type ProductPayload struct {
	ID        ident.ID    `json:"id"`
	Name      string      `json:"name"`
	Price     json.Number `json:"price"`
	Category  string      `json:"category"`
	Available *bool       `json:"available,omitempty"`
	Image     string      `json:"image,omitempty"`
}

// DraftPayload is the body of POST /products. It never carries an id.
type DraftPayload struct {
	Name     string      `json:"name"`
	Price    json.Number `json:"price"`
	Category string      `json:"category,omitempty"`
	Image    string      `json:"image,omitempty"`
}

// AvailabilityPayload is the body of PUT /products/{id}.
type AvailabilityPayload struct {
	Available bool `json:"available"`
}

// OrderPayload is the wire shape of an order.
type OrderPayload struct {
	ID           ident.ID           `json:"id"`
	CreatedAt    *time.Time         `json:"createdAt,omitempty"`
	CustomerName string             `json:"customerName,omitempty"`
	Status       string             `json:"status"`
	Total        json.Number        `json:"total,omitempty"`
	Items        []OrderItemPayload `json:"items,omitempty"`
}

// OrderItemPayload is one line of an order.
type OrderItemPayload struct {
	Name      string      `json:"name"`
	Quantity  int         `json:"quantity"`
	UnitPrice json.Number `json:"unitPrice,omitempty"`
	Note      string      `json:"note,omitempty"`
}

// StatusPayload is the body of PUT /orders/{id}.
type StatusPayload struct {
	Status string `json:"status"`
}

// NewOrderPayload is the body of POST /orders.
type NewOrderPayload struct {
	CustomerName string                `json:"customerName,omitempty"`
	Items        []NewOrderItemPayload `json:"items"`
}

// NewOrderItemPayload references a catalog product by id.
type NewOrderItemPayload struct {
	ProductID ident.ID `json:"productId"`
	Quantity  int      `json:"quantity"`
	Note      string   `json:"note,omitempty"`
}
