// Package ports declares the persistence boundary of the counter backend.
package ports

import (
	"context"
	"errors"

	catalogdomain "github.com/Apurer/counter-panel/internal/domains/catalog/domain"
	orderdomain "github.com/Apurer/counter-panel/internal/domains/orders/domain"
	"github.com/Apurer/counter-panel/internal/shared/ident"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// ProductRepository persists the catalog. List returns insertion order.
type ProductRepository interface {
	ListProducts(ctx context.Context) ([]catalogdomain.Product, error)
	GetProduct(ctx context.Context, id ident.ID) (catalogdomain.Product, error)
	// CreateProduct assigns the identifier and returns the stored product.
	CreateProduct(ctx context.Context, product catalogdomain.Product) (catalogdomain.Product, error)
	DeleteProduct(ctx context.Context, id ident.ID) error
	SetAvailability(ctx context.Context, id ident.ID, available bool) error
}

// OrderRepository persists orders. List returns creation order.
type OrderRepository interface {
	ListOrders(ctx context.Context) ([]orderdomain.Order, error)
	GetOrder(ctx context.Context, id ident.ID) (orderdomain.Order, error)
	// CreateOrder assigns the identifier and returns the stored order.
	CreateOrder(ctx context.Context, order orderdomain.Order) (orderdomain.Order, error)
	UpdateStatus(ctx context.Context, id ident.ID, status orderdomain.Status) error
}
