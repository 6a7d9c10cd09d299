package ports

import (
	"context"

	"github.com/Apurer/counter-panel/internal/domains/catalog/domain"
	"github.com/Apurer/counter-panel/internal/shared/ident"
)

// Remote is the outbound port to the remote product store.
type Remote interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	// CreateProduct forwards a draft and returns the stored product.
	CreateProduct(ctx context.Context, draft domain.Draft) (domain.Product, error)
	DeleteProduct(ctx context.Context, id ident.ID) error
	SetAvailability(ctx context.Context, id ident.ID, available bool) error
}
