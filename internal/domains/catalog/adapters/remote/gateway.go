// Package remote adapts the counter HTTP client to the catalog store's outbound port.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	counterclient "github.com/Apurer/counter-panel/internal/clients/http/counter"
	"github.com/Apurer/counter-panel/internal/domains/catalog/domain"
	"github.com/Apurer/counter-panel/internal/domains/catalog/ports"
	"github.com/Apurer/counter-panel/internal/shared/ident"
)

var errNotConfigured = errors.New("catalog gateway not configured")

// Gateway implements ports.Remote over the counter HTTP API.
type Gateway struct {
	client *counterclient.Client
}

func NewGateway(client *counterclient.Client) *Gateway {
	return &Gateway{client: client}
}

func (g *Gateway) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if g == nil || g.client == nil {
		return nil, errNotConfigured
	}
	payloads, err := g.client.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(payloads))
	for _, payload := range payloads {
		product, err := ToDomainProduct(payload)
		if err != nil {
			return nil, malformed("list products", http.MethodGet, "/products", err)
		}
		products = append(products, product)
	}
	return products, nil
}

func (g *Gateway) CreateProduct(ctx context.Context, draft domain.Draft) (domain.Product, error) {
	if g == nil || g.client == nil {
		return domain.Product{}, errNotConfigured
	}
	payload, err := g.client.CreateProduct(ctx, FromDomainDraft(draft))
	if err != nil {
		return domain.Product{}, err
	}
	product, err := ToDomainProduct(*payload)
	if err != nil {
		return domain.Product{}, malformed("create product", http.MethodPost, "/products", err)
	}
	return product, nil
}

func (g *Gateway) DeleteProduct(ctx context.Context, id ident.ID) error {
	if g == nil || g.client == nil {
		return errNotConfigured
	}
	return g.client.DeleteProduct(ctx, id)
}

func (g *Gateway) SetAvailability(ctx context.Context, id ident.ID, available bool) error {
	if g == nil || g.client == nil {
		return errNotConfigured
	}
	return g.client.SetProductAvailability(ctx, id, available)
}

func malformed(op, method, path string, err error) error {
	return &counterclient.TransportError{
		Op:         op,
		Method:     method,
		Path:       path,
		StatusCode: http.StatusOK,
		Err:        fmt.Errorf("%w: %w", counterclient.ErrMalformedBody, err),
	}
}

var _ ports.Remote = (*Gateway)(nil)
