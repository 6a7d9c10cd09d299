package remote

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	counterclient "github.com/Apurer/counter-panel/internal/clients/http/counter"
	"github.com/Apurer/counter-panel/internal/domains/orders/domain"
)

// ToDomainOrder converts the wire order into the domain model. Only the shape
// is checked: a status outside the lifecycle or an unparsable amount is an
// error, odd line items are kept as sent.
func ToDomainOrder(payload counterclient.OrderPayload) (domain.Order, error) {
	status, err := domain.ParseStatus(payload.Status)
	if err != nil {
		return domain.Order{}, fmt.Errorf("order %s: %w", payload.ID, err)
	}
	total, err := nullDecimal(payload.Total)
	if err != nil {
		return domain.Order{}, fmt.Errorf("order %s total: %w", payload.ID, err)
	}
	order := domain.Order{
		ID:           payload.ID,
		CustomerName: strings.TrimSpace(payload.CustomerName),
		Status:       status,
		Total:        total,
	}
	if payload.CreatedAt != nil {
		order.CreatedAt = *payload.CreatedAt
	}
	if len(payload.Items) > 0 {
		order.Items = make([]domain.LineItem, 0, len(payload.Items))
	}
	for _, item := range payload.Items {
		price, err := nullDecimal(item.UnitPrice)
		if err != nil {
			return domain.Order{}, fmt.Errorf("order %s item %q price: %w", payload.ID, item.Name, err)
		}
		order.Items = append(order.Items, domain.LineItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: price,
			Note:      item.Note,
		})
	}
	return order, nil
}

// FromDomainOrder converts a domain order to the wire representation.
func FromDomainOrder(order domain.Order) counterclient.OrderPayload {
	payload := counterclient.OrderPayload{
		ID:           order.ID,
		CustomerName: order.CustomerName,
		Status:       string(order.Status),
	}
	if !order.CreatedAt.IsZero() {
		created := order.CreatedAt
		payload.CreatedAt = &created
	}
	if order.Total.Valid {
		payload.Total = json.Number(order.Total.Decimal.String())
	}
	for _, item := range order.Items {
		line := counterclient.OrderItemPayload{Name: item.Name, Quantity: item.Quantity, Note: item.Note}
		if item.UnitPrice.Valid {
			line.UnitPrice = json.Number(item.UnitPrice.Decimal.String())
		}
		payload.Items = append(payload.Items, line)
	}
	return payload
}

func nullDecimal(n json.Number) (decimal.NullDecimal, error) {
	if n == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}
