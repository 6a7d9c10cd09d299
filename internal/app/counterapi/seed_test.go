package counterapi

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/counter-panel/internal/counterapi/adapters/memory"
	"github.com/Apurer/counter-panel/internal/counterapi/application"
	orderdomain "github.com/Apurer/counter-panel/internal/domains/orders/domain"
)

func TestSeedDemo_FillsEmptyStoreOnce(t *testing.T) {
	repo := memory.NewRepository()
	svc := application.NewService(repo, repo)
	ctx := context.Background()

	require.NoError(t, seedDemo(ctx, svc))
	require.NoError(t, seedDemo(ctx, svc))

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, len(demoMenu))

	orders, err := svc.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, orderdomain.StatusPending, orders[0].Status)
	assert.Equal(t, orderdomain.StatusInPreparation, orders[1].Status)
	assert.Equal(t, "26.5", orders[0].Total.Decimal.String())
}
