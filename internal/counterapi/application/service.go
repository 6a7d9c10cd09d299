// Package application holds the counter backend's use cases.
package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/counter-panel/internal/counterapi/ports"
	catalogdomain "github.com/Apurer/counter-panel/internal/domains/catalog/domain"
	orderdomain "github.com/Apurer/counter-panel/internal/domains/orders/domain"
	"github.com/Apurer/counter-panel/internal/shared/ident"
)

// OrderLine references a catalog product in a new order.
type OrderLine struct {
	ProductID ident.ID
	Quantity  int
	Note      string
}

// NewOrderInput is a customer order as placed at the counter.
type NewOrderInput struct {
	CustomerName string
	Lines        []OrderLine
}

// Service implements the counter's catalog and order operations.
type Service struct {
	products ports.ProductRepository
	orders   ports.OrderRepository
	now      func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source used to stamp new orders.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(products ports.ProductRepository, orders ports.OrderRepository, opts ...Option) *Service {
	s := &Service{products: products, orders: orders, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) ListProducts(ctx context.Context) ([]catalogdomain.Product, error) {
	return s.products.ListProducts(ctx)
}

// CreateProduct validates and stores a draft. A missing category means Menu.
// New products are available.
func (s *Service) CreateProduct(ctx context.Context, draft catalogdomain.Draft) (catalogdomain.Product, error) {
	draft.Name = strings.TrimSpace(draft.Name)
	if draft.Category == "" {
		draft.Category = catalogdomain.CategoryMenu
	}
	if err := draft.Validate(); err != nil {
		return catalogdomain.Product{}, mapError(err)
	}
	return s.products.CreateProduct(ctx, catalogdomain.Product{
		Name:      draft.Name,
		Price:     draft.Price,
		Category:  draft.Category,
		Available: true,
		Image:     draft.Image,
	})
}

func (s *Service) DeleteProduct(ctx context.Context, id ident.ID) error {
	return s.products.DeleteProduct(ctx, id)
}

func (s *Service) SetAvailability(ctx context.Context, id ident.ID, available bool) error {
	return s.products.SetAvailability(ctx, id, available)
}

func (s *Service) ListOrders(ctx context.Context) ([]orderdomain.Order, error) {
	return s.orders.ListOrders(ctx)
}

// CreateOrder prices each line from the catalog and stores the order as Pending.
func (s *Service) CreateOrder(ctx context.Context, input NewOrderInput) (orderdomain.Order, error) {
	if len(input.Lines) == 0 {
		return orderdomain.Order{}, fmt.Errorf("%w: order has no lines", ErrInvalidInput)
	}
	items := make([]orderdomain.LineItem, 0, len(input.Lines))
	total := decimal.Zero
	for _, line := range input.Lines {
		product, err := s.products.GetProduct(ctx, line.ProductID)
		if errors.Is(err, ports.ErrNotFound) {
			return orderdomain.Order{}, fmt.Errorf("%w: product %s does not exist", ErrInvalidInput, line.ProductID)
		}
		if err != nil {
			return orderdomain.Order{}, err
		}
		if !product.Available {
			return orderdomain.Order{}, fmt.Errorf("%w: %s", ErrUnavailableProduct, product.Name)
		}
		items = append(items, orderdomain.LineItem{
			Name:      product.Name,
			Quantity:  line.Quantity,
			UnitPrice: decimal.NewNullDecimal(product.Price),
			Note:      strings.TrimSpace(line.Note),
		})
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	order, err := orderdomain.NewOrder("", s.now().UTC(), orderdomain.StatusPending, items)
	if err != nil {
		return orderdomain.Order{}, mapError(err)
	}
	order.CustomerName = strings.TrimSpace(input.CustomerName)
	order.Total = decimal.NewNullDecimal(total)
	return s.orders.CreateOrder(ctx, *order)
}

// UpdateOrderStatus moves an order forward. Repeating the current status is
// accepted; a regression is a conflict.
func (s *Service) UpdateOrderStatus(ctx context.Context, id ident.ID, status orderdomain.Status) error {
	if !status.Valid() {
		return mapError(fmt.Errorf("%w: %q", orderdomain.ErrInvalidStatus, status))
	}
	current, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	if current.Status == status {
		return nil
	}
	if err := current.CanTransitionTo(status); err != nil {
		return mapError(err)
	}
	return s.orders.UpdateStatus(ctx, id, status)
}
