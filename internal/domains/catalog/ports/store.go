package ports

import (
	"context"

	"github.com/Apurer/counter-panel/internal/domains/catalog/domain"
	"github.com/Apurer/counter-panel/internal/shared/ident"
	"github.com/Apurer/counter-panel/internal/shared/projection"
)

// Snapshot is the catalog working set plus refresh metadata.
type Snapshot = projection.Projection[domain.Product]

// Listener receives every new snapshot. It must not call a store mutation
// synchronously.
type Listener func(Snapshot)

// Confirmer asks the operator to approve a destructive action.
type Confirmer interface {
	ConfirmDelete(ctx context.Context, product domain.Product) (bool, error)
}

// ConfirmFunc adapts a plain function to Confirmer.
type ConfirmFunc func(ctx context.Context, product domain.Product) (bool, error)

// ConfirmDelete calls f.
func (f ConfirmFunc) ConfirmDelete(ctx context.Context, product domain.Product) (bool, error) {
	return f(ctx, product)
}

// Store exposes the product working set to the panel.
type Store interface {
	Load(ctx context.Context) error
	Create(ctx context.Context, draft domain.Draft) (domain.Product, error)
	// PendingDraft returns the last draft the remote store refused, if any.
	PendingDraft() (domain.Draft, bool)
	DiscardDraft()
	Delete(ctx context.Context, id ident.ID) error
	// ToggleAvailability flips the availability flag and returns the new value.
	ToggleAvailability(ctx context.Context, id ident.ID) (bool, error)
	Filter(category domain.Category) []domain.Product
	Products() []domain.Product
	Snapshot() Snapshot
	Subscribe(listener Listener) (cancel func())
}
