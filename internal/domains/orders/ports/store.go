package ports

import (
	"context"

	"github.com/Apurer/counter-panel/internal/domains/orders/domain"
	"github.com/Apurer/counter-panel/internal/shared/ident"
	"github.com/Apurer/counter-panel/internal/shared/projection"
)

// Snapshot is the order working set plus refresh metadata.
type Snapshot = projection.Projection[domain.Order]

// Listener receives every new snapshot. It must not call Load or
// ChangeStatus synchronously.
type Listener func(Snapshot)

// Store exposes the order working set to the panel and the poller.
type Store interface {
	Load(ctx context.Context) error
	ChangeStatus(ctx context.Context, id ident.ID, status domain.Status) error
	Advance(ctx context.Context, id ident.ID) (domain.Status, error)
	Orders() []domain.Order
	Snapshot() Snapshot
	Lanes() []domain.Lane
	Subscribe(listener Listener) (cancel func())
}
