package counterapi

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Apurer/counter-panel/internal/counterapi/application"
	catalogdomain "github.com/Apurer/counter-panel/internal/domains/catalog/domain"
	orderdomain "github.com/Apurer/counter-panel/internal/domains/orders/domain"
)

var demoMenu = []catalogdomain.Draft{
	{Name: "SmashBoss Double", Price: decimal.RequireFromString("10.50"), Category: catalogdomain.CategoryPanini},
	{Name: "Chicken Crunch", Price: decimal.RequireFromString("9.00"), Category: catalogdomain.CategoryPanini},
	{Name: "Patatine Cheddar & Bacon", Price: decimal.RequireFromString("5.50"), Category: catalogdomain.CategoryFritti},
	{Name: "Coca Cola", Price: decimal.RequireFromString("3.00"), Category: catalogdomain.CategoryBevande},
	{Name: "Coca Cola Zero", Price: decimal.RequireFromString("3.00"), Category: catalogdomain.CategoryBevande},
}

// seedDemo fills an empty store with a small menu and two open orders.
func seedDemo(ctx context.Context, svc *application.Service) error {
	existing, err := svc.ListProducts(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	products := make([]catalogdomain.Product, 0, len(demoMenu))
	for _, draft := range demoMenu {
		product, err := svc.CreateProduct(ctx, draft)
		if err != nil {
			return fmt.Errorf("seed %q: %w", draft.Name, err)
		}
		products = append(products, product)
	}
	if _, err := svc.CreateOrder(ctx, application.NewOrderInput{
		CustomerName: "Marco R.",
		Lines: []application.OrderLine{
			{ProductID: products[0].ID, Quantity: 2, Note: "Senza cipolla"},
			{ProductID: products[2].ID, Quantity: 1},
		},
	}); err != nil {
		return fmt.Errorf("seed order: %w", err)
	}
	second, err := svc.CreateOrder(ctx, application.NewOrderInput{
		CustomerName: "Giulia B.",
		Lines: []application.OrderLine{
			{ProductID: products[1].ID, Quantity: 1},
			{ProductID: products[4].ID, Quantity: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("seed order: %w", err)
	}
	return svc.UpdateOrderStatus(ctx, second.ID, orderdomain.StatusInPreparation)
}
