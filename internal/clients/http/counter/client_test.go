package counter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(srv.URL+"/", srv.Client(), time.Second, WithRequestIDs(func() string { return "req-1" }))
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresAbsoluteURL(t *testing.T) {
	_, err := NewClient("  ", nil, 0)
	require.Error(t, err)
	_, err = NewClient("localhost:5000", nil, 0)
	require.Error(t, err)

	client, err := NewClient("http://localhost:5000/", nil, 0)
	require.NoError(t, err)
	require.Equal(t, "http://localhost:5000", client.BaseURL())
}

func TestListOrders_DecodesNumericIDs(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/orders", r.URL.Path)
		require.Equal(t, "req-1", r.Header.Get(RequestIDHeader))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"status":"Pending"},{"id":"2","status":"Delivered","items":[{"name":"Coca Cola","quantity":1,"unitPrice":3}]}]`))
	})

	orders, err := client.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)
	require.Equal(t, "1", orders[0].ID.String())
	require.Equal(t, "2", orders[1].ID.String())
	require.Equal(t, json.Number("3"), orders[1].Items[0].UnitPrice)
}

func TestUpdateOrderStatus_SendsStatusBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/orders/42", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body StatusPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "Ready", body.Status)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.UpdateOrderStatus(context.Background(), "42", "Ready"))
}

func TestDeleteProduct_EscapesOpaqueID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/products/%231042", r.URL.EscapedPath())
		_, _ = w.Write([]byte(`{"message":"deleted"}`))
	})

	require.NoError(t, client.DeleteProduct(context.Background(), "#1042"))
}

func TestDeleteProduct_RejectsEmptyIDWithoutCall(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	err := client.DeleteProduct(context.Background(), "")
	require.True(t, IsTransport(err))
	require.False(t, called)
}

func TestCreateProduct_ReturnsStoredProduct(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var draft DraftPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&draft))
		require.Equal(t, "Chicken Crunch", draft.Name)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":7,"name":"Chicken Crunch","price":9,"category":"Panini","available":true}`))
	})

	created, err := client.CreateProduct(context.Background(), DraftPayload{Name: "Chicken Crunch", Price: "9", Category: "Panini"})
	require.NoError(t, err)
	require.Equal(t, "7", created.ID.String())
	require.NotNil(t, created.Available)
	require.True(t, *created.Available)
}

func TestDo_NonSuccessCarriesProblem(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type":"/problems/validation-error","title":"Validation Error","status":400,"detail":"name is required"}`))
	})

	_, err := client.CreateProduct(context.Background(), DraftPayload{Price: "1"})
	var te *TransportError
	require.ErrorAs(t, err, &te)
	require.Equal(t, http.StatusBadRequest, te.StatusCode)
	require.NotNil(t, te.Problem)
	require.Equal(t, "name is required", te.Problem.Detail)
	require.ErrorIs(t, err, ErrUnexpectedStatus)
	require.Equal(t, http.StatusBadRequest, StatusCode(err))
}

func TestDo_LegacyErrorBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"Database non connesso"}`))
	})

	_, err := client.ListProducts(context.Background())
	var te *TransportError
	require.ErrorAs(t, err, &te)
	require.Equal(t, "Database non connesso", te.Problem.Detail)
}

func TestDo_MalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"`))
	})

	_, err := client.ListOrders(context.Background())
	require.ErrorIs(t, err, ErrMalformedBody)
	require.True(t, IsTransport(err))
}

func TestDo_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	client, err := NewClient(srv.URL, srv.Client(), time.Second)
	require.NoError(t, err)
	srv.Close()

	_, err = client.ListOrders(context.Background())
	var te *TransportError
	require.ErrorAs(t, err, &te)
	require.Zero(t, te.StatusCode)
	require.False(t, errors.Is(err, ErrUnexpectedStatus))
}
