// Package memory keeps the counter's catalog and orders in process memory.
package memory

import (
	"context"
	"sync"

	"github.com/Apurer/counter-panel/internal/counterapi/ports"
	catalogdomain "github.com/Apurer/counter-panel/internal/domains/catalog/domain"
	orderdomain "github.com/Apurer/counter-panel/internal/domains/orders/domain"
	"github.com/Apurer/counter-panel/internal/shared/ident"
)

var (
	_ ports.ProductRepository = (*Repository)(nil)
	_ ports.OrderRepository   = (*Repository)(nil)
)

// Repository is an in-memory persistence adapter. Slices keep insertion order.
type Repository struct {
	mu            sync.RWMutex
	products      []catalogdomain.Product
	orders        []orderdomain.Order
	nextProductID int64
	nextOrderID   int64
}

func NewRepository() *Repository {
	return &Repository{}
}

func (r *Repository) ListProducts(context.Context) ([]catalogdomain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]catalogdomain.Product{}, r.products...), nil
}

func (r *Repository) GetProduct(_ context.Context, id ident.ID) (catalogdomain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.productIndex(id); i >= 0 {
		return r.products[i], nil
	}
	return catalogdomain.Product{}, ports.ErrNotFound
}

func (r *Repository) CreateProduct(_ context.Context, product catalogdomain.Product) (catalogdomain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextProductID++
	product.ID = ident.FromInt64(r.nextProductID)
	r.products = append(r.products, product)
	return product, nil
}

func (r *Repository) DeleteProduct(_ context.Context, id ident.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.productIndex(id)
	if i < 0 {
		return ports.ErrNotFound
	}
	r.products = append(r.products[:i:i], r.products[i+1:]...)
	return nil
}

func (r *Repository) SetAvailability(_ context.Context, id ident.ID, available bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.productIndex(id)
	if i < 0 {
		return ports.ErrNotFound
	}
	r.products[i].Available = available
	return nil
}

func (r *Repository) ListOrders(context.Context) ([]orderdomain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]orderdomain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		list = append(list, order.Clone())
	}
	return list, nil
}

func (r *Repository) GetOrder(_ context.Context, id ident.ID) (orderdomain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.orderIndex(id); i >= 0 {
		return r.orders[i].Clone(), nil
	}
	return orderdomain.Order{}, ports.ErrNotFound
}

func (r *Repository) CreateOrder(_ context.Context, order orderdomain.Order) (orderdomain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextOrderID++
	order = order.Clone()
	order.ID = ident.FromInt64(r.nextOrderID)
	r.orders = append(r.orders, order)
	return order.Clone(), nil
}

func (r *Repository) UpdateStatus(_ context.Context, id ident.ID, status orderdomain.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.orderIndex(id)
	if i < 0 {
		return ports.ErrNotFound
	}
	r.orders[i].Status = status
	return nil
}

func (r *Repository) productIndex(id ident.ID) int {
	for i, p := range r.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (r *Repository) orderIndex(id ident.ID) int {
	for i, o := range r.orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}
