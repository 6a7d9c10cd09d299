//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	pacttest "github.com/Apurer/counter-panel/test/pact"

	"github.com/Apurer/counter-panel/internal/counterapi/adapters/memory"
	"github.com/Apurer/counter-panel/internal/counterapi/application"
	"github.com/Apurer/counter-panel/internal/counterapi/httpapi"
	catalogdomain "github.com/Apurer/counter-panel/internal/domains/catalog/domain"
	orderdomain "github.com/Apurer/counter-panel/internal/domains/orders/domain"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCounterProviderPact(t *testing.T) {
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateProductsBaseline: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset()
			if setup {
				app.seedProducts(t)
			}
			return nil, nil
		},
		pacttest.StateProductExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset()
			if setup {
				app.seedProducts(t)
			}
			return nil, nil
		},
		pacttest.StateOrdersBaseline: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset()
			if setup {
				app.seedOrders(t)
			}
			return nil, nil
		},
		pacttest.StateOrderMissing: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset()
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.reset()
			return nil
		},
	})
	require.NoError(t, err)
}

// contractProviderApp serves the real router over a memory repository that
// each provider state replaces.
type contractProviderApp struct {
	server *httptest.Server

	mu      sync.RWMutex
	service *application.Service
	handler http.Handler
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()
	app := &contractProviderApp{}
	app.reset()
	app.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.mu.RLock()
		handler := app.handler
		app.mu.RUnlock()
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(app.server.Close)
	return app
}

func (a *contractProviderApp) reset() {
	repo := memory.NewRepository()
	service := application.NewService(repo, repo)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := httpapi.NewRouter(httpapi.NewCounterAPI(service), logger)

	a.mu.Lock()
	a.service = service
	a.handler = handler
	a.mu.Unlock()
}

func (a *contractProviderApp) current() *application.Service {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.service
}

func (a *contractProviderApp) seedProducts(t testing.TB) []catalogdomain.Product {
	t.Helper()
	drafts := []catalogdomain.Draft{
		{Name: "SmashBoss Double", Price: decimal.RequireFromString("10.50"), Category: catalogdomain.CategoryPanini},
		{Name: "Coca Cola", Price: decimal.RequireFromString("3.00"), Category: catalogdomain.CategoryBevande},
	}
	products := make([]catalogdomain.Product, 0, len(drafts))
	for _, draft := range drafts {
		product, err := a.current().CreateProduct(context.Background(), draft)
		require.NoError(t, err)
		products = append(products, product)
	}
	require.Equal(t, "2", products[pacttest.ExistingProductID-1].ID.String())
	return products
}

func (a *contractProviderApp) seedOrders(t testing.TB) {
	t.Helper()
	products := a.seedProducts(t)
	ctx := context.Background()
	pending, err := a.current().CreateOrder(ctx, application.NewOrderInput{
		CustomerName: "Marco R.",
		Lines:        []application.OrderLine{{ProductID: products[0].ID, Quantity: 2, Note: "Senza cipolla"}},
	})
	require.NoError(t, err)
	require.Equal(t, "1", pending.ID.String())
	delivered, err := a.current().CreateOrder(ctx, application.NewOrderInput{
		CustomerName: "Giulia B.",
		Lines:        []application.OrderLine{{ProductID: products[1].ID, Quantity: 1}},
	})
	require.NoError(t, err)
	require.NoError(t, a.current().UpdateOrderStatus(ctx, delivered.ID, orderdomain.StatusDelivered))
}
