package ports

import (
	"context"

	"github.com/Apurer/counter-panel/internal/domains/orders/domain"
	"github.com/Apurer/counter-panel/internal/shared/ident"
)

// Remote is the outbound port to the remote order store.
type Remote interface {
	// ListOrders returns every order in server order, terminal ones included.
	ListOrders(ctx context.Context) ([]domain.Order, error)
	// UpdateStatus asks the remote store to move an order to status.
	UpdateStatus(ctx context.Context, id ident.ID, status domain.Status) error
}
