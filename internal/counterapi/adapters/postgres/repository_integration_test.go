//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Apurer/counter-panel/internal/counterapi/ports"
	catalogdomain "github.com/Apurer/counter-panel/internal/domains/catalog/domain"
	orderdomain "github.com/Apurer/counter-panel/internal/domains/orders/domain"
	"github.com/Apurer/counter-panel/internal/platform/migrations"
)

func setupCounterPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("counter_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		_ = pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func TestRepository_ProductsKeepInsertionOrder(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCounterPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	burger, err := repo.CreateProduct(ctx, catalogdomain.Product{Name: "SmashBoss Double", Price: decimal.RequireFromString("10.50"), Category: catalogdomain.CategoryPanini, Available: true})
	require.NoError(t, err)
	cola, err := repo.CreateProduct(ctx, catalogdomain.Product{Name: "Coca Cola", Price: decimal.RequireFromString("3.00"), Category: catalogdomain.CategoryBevande, Available: false})
	require.NoError(t, err)

	products, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, burger.ID, products[0].ID)
	assert.True(t, products[0].Price.Equal(decimal.RequireFromString("10.50")))
	assert.False(t, products[1].Available, "explicit false must not fall back to the column default")

	require.NoError(t, repo.SetAvailability(ctx, cola.ID, true))
	fetched, err := repo.GetProduct(ctx, cola.ID)
	require.NoError(t, err)
	assert.True(t, fetched.Available)
}

func TestRepository_DeleteProduct(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCounterPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	product, err := repo.CreateProduct(ctx, catalogdomain.Product{Name: "Fanta", Price: decimal.NewFromInt(3), Category: catalogdomain.CategoryBevande, Available: true})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteProduct(ctx, product.ID))
	require.ErrorIs(t, repo.DeleteProduct(ctx, product.ID), ports.ErrNotFound)
	require.ErrorIs(t, repo.DeleteProduct(ctx, "not-a-number"), ports.ErrNotFound)
}

func TestRepository_OrdersWithItems(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCounterPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.CreateOrder(ctx, orderdomain.Order{
		CustomerName: "Marco R.",
		CreatedAt:    time.Date(2024, 6, 12, 19, 30, 0, 0, time.UTC),
		Status:       orderdomain.StatusPending,
		Total:        decimal.NewNullDecimal(decimal.RequireFromString("24.50")),
		Items: []orderdomain.LineItem{
			{Name: "SmashBoss Double", Quantity: 2, UnitPrice: decimal.NewNullDecimal(decimal.RequireFromString("10.50")), Note: "Senza cipolla"},
			{Name: "Patatine", Quantity: 1, UnitPrice: decimal.NewNullDecimal(decimal.RequireFromString("3.50"))},
		},
	})
	require.NoError(t, err)
	require.Len(t, created.Items, 2)
	assert.Equal(t, "SmashBoss Double", created.Items[0].Name)

	require.NoError(t, repo.UpdateStatus(ctx, created.ID, orderdomain.StatusReady))
	orders, err := repo.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, orderdomain.StatusReady, orders[0].Status)
	assert.True(t, orders[0].Total.Decimal.Equal(decimal.RequireFromString("24.50")))

	require.ErrorIs(t, repo.UpdateStatus(ctx, "999", orderdomain.StatusReady), ports.ErrNotFound)
}
