// Package remote adapts the counter HTTP client to the order store's outbound port.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	counterclient "github.com/Apurer/counter-panel/internal/clients/http/counter"
	"github.com/Apurer/counter-panel/internal/domains/orders/domain"
	"github.com/Apurer/counter-panel/internal/domains/orders/ports"
	"github.com/Apurer/counter-panel/internal/shared/ident"
)

// Gateway implements ports.Remote over the counter HTTP API.
type Gateway struct {
	client *counterclient.Client
}

// NewGateway wires the counter client into the order port.
func NewGateway(client *counterclient.Client) *Gateway {
	return &Gateway{client: client}
}

// ListOrders fetches and decodes every order. One order with an unknown status
// or an unparsable amount fails the whole list as a malformed body.
func (g *Gateway) ListOrders(ctx context.Context) ([]domain.Order, error) {
	if g == nil || g.client == nil {
		return nil, errors.New("order gateway not configured")
	}
	payloads, err := g.client.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	orders := make([]domain.Order, 0, len(payloads))
	for _, payload := range payloads {
		order, err := ToDomainOrder(payload)
		if err != nil {
			return nil, &counterclient.TransportError{
				Op:         "list orders",
				Method:     http.MethodGet,
				Path:       "/orders",
				StatusCode: http.StatusOK,
				Err:        fmt.Errorf("%w: %w", counterclient.ErrMalformedBody, err),
			}
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// UpdateStatus sends the canonical status label.
func (g *Gateway) UpdateStatus(ctx context.Context, id ident.ID, status domain.Status) error {
	if g == nil || g.client == nil {
		return errors.New("order gateway not configured")
	}
	return g.client.UpdateOrderStatus(ctx, id, string(status))
}

var _ ports.Remote = (*Gateway)(nil)
