//go:build pact
// +build pact

package consumer_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/Apurer/counter-panel/test/pact"

	counterclient "github.com/Apurer/counter-panel/internal/clients/http/counter"
	"github.com/Apurer/counter-panel/internal/shared/ident"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

func TestCounterPanelContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	product := pacttest.ExampleProductPayload()
	productMatcher := matchers.Map{
		"id":        matchers.Like(product["id"]),
		"name":      matchers.Like(product["name"]),
		"price":     matchers.Like(product["price"]),
		"category":  matchers.Term(product["category"].(string), "Panini|Fritti|Bevande|Menu"),
		"available": matchers.Like(true),
	}
	draft := pacttest.ExampleDraftPayload()
	order := pacttest.ExampleOrderPayload()
	item := order["items"].([]map[string]any)[0]
	orderMatcher := matchers.Map{
		"id":           matchers.Like(order["id"]),
		"createdAt":    matchers.Like(order["createdAt"]),
		"customerName": matchers.Like(order["customerName"]),
		"status":       matchers.Term(order["status"].(string), "Pending|InPreparation|Ready|Delivered"),
		"total":        matchers.Like(order["total"]),
		"items": matchers.EachLike(matchers.Map{
			"name":      matchers.Like(item["name"]),
			"quantity":  matchers.Like(item["quantity"]),
			"unitPrice": matchers.Like(item["unitPrice"]),
		}, 1),
	}
	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")

	pact.AddInteraction().
		Given(pacttest.StateProductsBaseline).
		UponReceiving("a request to list products").
		WithRequest("GET", "/products").
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.EachLike(productMatcher, 1))
		})

	pact.AddInteraction().
		Given(pacttest.StateProductsBaseline).
		UponReceiving("a request to create a product").
		WithRequest("POST", "/products", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{
				"name":     matchers.Like(draft["name"]),
				"price":    matchers.Like(draft["price"]),
				"category": matchers.Like(draft["category"]),
			})
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(productMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateProductExists).
		UponReceiving("a request to delete a product").
		WithRequest("DELETE", fmt.Sprintf("/products/%d", pacttest.ExistingProductID)).
		WillRespondWith(http.StatusNoContent)

	pact.AddInteraction().
		Given(pacttest.StateOrdersBaseline).
		UponReceiving("a request to list orders").
		WithRequest("GET", "/orders").
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.EachLike(orderMatcher, 1))
		})

	pact.AddInteraction().
		Given(pacttest.StateOrdersBaseline).
		UponReceiving("a request to move an order into preparation").
		WithRequest("PUT", fmt.Sprintf("/orders/%d", pacttest.PendingOrderID), func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{"status": matchers.S("InPreparation")})
		}).
		WillRespondWith(http.StatusNoContent)

	pact.AddInteraction().
		Given(pacttest.StateOrderMissing).
		UponReceiving("a status update for a missing order").
		WithRequest("PUT", fmt.Sprintf("/orders/%d", pacttest.MissingOrderID), func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{"status": matchers.S("Ready")})
		}).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"title":  matchers.S("Resource Not Found"),
				"status": matchers.Like(http.StatusNotFound),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client, err := newCounterClient(config)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		products, err := client.ListProducts(ctx)
		if err != nil {
			return fmt.Errorf("list products: %w", err)
		}
		if len(products) == 0 || products[0].ID.IsZero() {
			return fmt.Errorf("expected products with ids, got %+v", products)
		}

		created, err := client.CreateProduct(ctx, counterclient.DraftPayload{
			Name:     draft["name"].(string),
			Price:    json.Number("4.5"),
			Category: draft["category"].(string),
		})
		if err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		if created == nil || created.ID.IsZero() {
			return fmt.Errorf("expected created product id to be set")
		}

		if err := client.DeleteProduct(ctx, ident.FromInt64(pacttest.ExistingProductID)); err != nil {
			return fmt.Errorf("delete product: %w", err)
		}

		orders, err := client.ListOrders(ctx)
		if err != nil {
			return fmt.Errorf("list orders: %w", err)
		}
		if len(orders) == 0 || len(orders[0].Items) == 0 {
			return fmt.Errorf("expected orders with items, got %+v", orders)
		}

		if err := client.UpdateOrderStatus(ctx, ident.FromInt64(pacttest.PendingOrderID), "InPreparation"); err != nil {
			return fmt.Errorf("update order status: %w", err)
		}

		err = client.UpdateOrderStatus(ctx, ident.FromInt64(pacttest.MissingOrderID), "Ready")
		if counterclient.StatusCode(err) != http.StatusNotFound {
			return fmt.Errorf("expected 404 for order %d, got %v", pacttest.MissingOrderID, err)
		}
		return nil
	})
	require.NoError(t, err)
}

func newCounterClient(config pactconsumer.MockServerConfig) (*counterclient.Client, error) {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	httpClient := &http.Client{Transport: transport, Timeout: 10 * time.Second}
	return counterclient.NewClient(fmt.Sprintf("http://%s:%d", host, config.Port), httpClient, 0)
}
