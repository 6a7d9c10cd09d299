package panel

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/counter-panel/internal/counterapi/adapters/memory"
	"github.com/Apurer/counter-panel/internal/counterapi/application"
	"github.com/Apurer/counter-panel/internal/counterapi/httpapi"
	catalogdomain "github.com/Apurer/counter-panel/internal/domains/catalog/domain"
	orderdomain "github.com/Apurer/counter-panel/internal/domains/orders/domain"
	panelcore "github.com/Apurer/counter-panel/internal/panel"
	platformobservability "github.com/Apurer/counter-panel/internal/platform/observability"
)

func newBackend(t *testing.T) (*application.Service, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := memory.NewRepository()
	svc := application.NewService(repo, repo)
	ctx := context.Background()

	burger, err := svc.CreateProduct(ctx, catalogdomain.Draft{Name: "SmashBoss Double", Price: decimal.RequireFromString("10.50"), Category: catalogdomain.CategoryPanini})
	require.NoError(t, err)
	cola, err := svc.CreateProduct(ctx, catalogdomain.Draft{Name: "Coca Cola", Price: decimal.RequireFromString("3.00"), Category: catalogdomain.CategoryBevande})
	require.NoError(t, err)
	_, err = svc.CreateOrder(ctx, application.NewOrderInput{
		CustomerName: "Marco R.",
		Lines:        []application.OrderLine{{ProductID: burger.ID, Quantity: 2, Note: "Senza cipolla"}},
	})
	require.NoError(t, err)
	ready, err := svc.CreateOrder(ctx, application.NewOrderInput{
		CustomerName: "Giulia B.",
		Lines:        []application.OrderLine{{ProductID: cola.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	require.NoError(t, svc.UpdateOrderStatus(ctx, ready.ID, orderdomain.StatusReady))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(httpapi.NewRouter(httpapi.NewCounterAPI(svc), logger))
	t.Cleanup(srv.Close)
	return svc, srv.URL
}

func runSession(t *testing.T, cfg Config, script string) (string, panelcore.View) {
	t.Helper()
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader(script), &out)
	instruments := &platformobservability.Instruments{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	coord, err := build(cfg, instruments, term)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, term.Run(ctx, coord))
	return out.String(), coord.View()
}

func testConfig(url string) Config {
	return Config{APIURL: url, PollInterval: time.Hour, HTTPTimeout: 2 * time.Second}
}

func TestTerminal_OrderLifecycle(t *testing.T) {
	svc, url := newBackend(t)

	out, view := runSession(t, testConfig(url), "advance 1\nstatus #2 Delivered\nquit\n")

	assert.Contains(t, out, "#1 Marco R.")
	assert.Contains(t, out, "2x SmashBoss Double (Senza cipolla)")
	assert.Equal(t, 1, view.OrderCount())
	for _, lane := range view.Lanes {
		for _, order := range lane.Orders {
			assert.Equal(t, "1", order.ID.String())
			assert.Equal(t, orderdomain.StatusInPreparation, order.Status)
		}
	}

	orders, err := svc.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, orderdomain.StatusInPreparation, orders[0].Status)
	assert.Equal(t, orderdomain.StatusDelivered, orders[1].Status)
}

func TestTerminal_RegressionIsReportedAndLeavesOrders(t *testing.T) {
	_, url := newBackend(t)

	out, view := runSession(t, testConfig(url), "status 2 Pending\nquit\n")

	assert.Contains(t, out, "! ")
	assert.Equal(t, 2, view.OrderCount())
}

func TestTerminal_CatalogSession(t *testing.T) {
	svc, url := newBackend(t)
	script := strings.Join([]string{
		"tab catalog",
		"add Onion Rings | 4,00 | Fritti",
		"add  | 0 | Fritti",
		"discard",
		"delete 2",
		"n",
		"delete 2",
		"y",
		"toggle 1",
		"quit",
	}, "\n") + "\n"

	out, view := runSession(t, testConfig(url), script)

	assert.Contains(t, out, `* Prodotto "Onion Rings" salvato`)
	assert.Contains(t, out, `! Prodotto "" non salvato`)
	assert.Contains(t, out, "Eliminazione del prodotto 2 annullata")
	assert.Contains(t, out, "Prodotto 2 eliminato")
	assert.Contains(t, out, "esaurito")
	assert.Nil(t, view.PendingDraft)

	names := make([]string, 0, len(view.Products))
	for _, product := range view.Products {
		names = append(names, product.Name)
	}
	assert.Equal(t, []string{"SmashBoss Double", "Onion Rings"}, names)
	assert.False(t, view.Products[0].Available)

	products, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	// availability stays client-side unless write-through is configured
	assert.True(t, products[0].Available)
}

func TestTerminal_WriteThroughToggle(t *testing.T) {
	svc, url := newBackend(t)
	cfg := testConfig(url)
	cfg.AvailabilityWriteThrough = true

	_, view := runSession(t, cfg, "toggle 1\nquit\n")

	require.NotEmpty(t, view.Products)
	assert.False(t, view.Products[0].Available)
	products, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	assert.False(t, products[0].Available)
}

func TestTerminal_UnreachableRemoteKeepsPanelUsable(t *testing.T) {
	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()

	out, view := runSession(t, testConfig(url), "tab catalog\nbogus\nretry\nquit\n")

	assert.Contains(t, out, "! Impossibile aggiornare gli ordini")
	assert.Contains(t, out, "! Impossibile aggiornare il catalogo")
	assert.Contains(t, out, `unknown command "bogus"`)
	assert.Contains(t, out, "no product draft to retry")
	assert.Equal(t, 0, view.OrderCount())
}

func TestParseDraft(t *testing.T) {
	tinyPNG, err := base64.StdEncoding.DecodeString("iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg==")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "rings.png")
	require.NoError(t, os.WriteFile(path, tinyPNG, 0o600))
	term := &Terminal{}

	draft, err := term.parseDraft("Onion Rings | 4.5 | fritti | " + path)
	require.NoError(t, err)
	assert.Equal(t, "Onion Rings", draft.Name)
	assert.True(t, decimal.RequireFromString("4.5").Equal(draft.Price))
	assert.Equal(t, catalogdomain.CategoryFritti, draft.Category)
	assert.True(t, strings.HasPrefix(string(draft.Image), "data:image/png;base64,"))

	_, err = term.parseDraft("Onion Rings | 4.5")
	require.Error(t, err)
	_, err = term.parseDraft("Onion Rings | cheap | Fritti")
	require.Error(t, err)
	_, err = term.parseDraft("Onion Rings | 4.5 | Dolci")
	require.ErrorIs(t, err, catalogdomain.ErrInvalidCategory)
}
