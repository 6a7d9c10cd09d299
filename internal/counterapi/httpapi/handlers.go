// Package httpapi exposes the counter backend over gin.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/counter-panel/internal/counterapi/application"
	"github.com/Apurer/counter-panel/internal/counterapi/ports"
	catalogdomain "github.com/Apurer/counter-panel/internal/domains/catalog/domain"
	orderdomain "github.com/Apurer/counter-panel/internal/domains/orders/domain"
	apierrors "github.com/Apurer/counter-panel/internal/shared/errors"
	"github.com/Apurer/counter-panel/internal/shared/ident"
)

// Service is the use-case surface the handlers drive.
type Service interface {
	ListProducts(ctx context.Context) ([]catalogdomain.Product, error)
	CreateProduct(ctx context.Context, draft catalogdomain.Draft) (catalogdomain.Product, error)
	DeleteProduct(ctx context.Context, id ident.ID) error
	SetAvailability(ctx context.Context, id ident.ID, available bool) error
	ListOrders(ctx context.Context) ([]orderdomain.Order, error)
	CreateOrder(ctx context.Context, input application.NewOrderInput) (orderdomain.Order, error)
	UpdateOrderStatus(ctx context.Context, id ident.ID, status orderdomain.Status) error
}

// CounterAPI wires HTTP transport with the counter service.
type CounterAPI struct {
	service   Service
	responder *apierrors.Responder
}

// NewCounterAPI creates the handlers backed by the provided service.
func NewCounterAPI(service Service) *CounterAPI {
	return &CounterAPI{service: service, responder: apierrors.NewResponder(mapServiceError)}
}

// Get /products
func (api *CounterAPI) ListProducts(c *gin.Context) {
	products, err := api.service.ListProducts(c.Request.Context())
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromProducts(products))
}

// Post /products
func (api *CounterAPI) CreateProduct(c *gin.Context) {
	var payload ProductDraft
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	draft, fields := payload.toDraft()
	if len(fields) > 0 {
		api.responder.Respond(c, apierrors.NewValidationProblem(fields).WithDetail(fieldSummary(fields)))
		return
	}
	product, err := api.service.CreateProduct(c.Request.Context(), draft)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromProduct(product))
}

// Delete /products/:id
func (api *CounterAPI) DeleteProduct(c *gin.Context) {
	id, ok := api.idParam(c)
	if !ok {
		return
	}
	if err := api.service.DeleteProduct(c.Request.Context(), id); err != nil {
		api.responder.RespondError(c, notFoundAs(err, "product", id))
		return
	}
	c.Status(http.StatusNoContent)
}

// Put /products/:id
func (api *CounterAPI) SetAvailability(c *gin.Context) {
	id, ok := api.idParam(c)
	if !ok {
		return
	}
	var payload Availability
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	if payload.Available == nil {
		api.responder.Respond(c, apierrors.NewValidationProblem(map[string]string{"available": "available is required"}).WithDetail("available is required"))
		return
	}
	if err := api.service.SetAvailability(c.Request.Context(), id, *payload.Available); err != nil {
		api.responder.RespondError(c, notFoundAs(err, "product", id))
		return
	}
	c.Status(http.StatusNoContent)
}

// Get /orders
func (api *CounterAPI) ListOrders(c *gin.Context) {
	orders, err := api.service.ListOrders(c.Request.Context())
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromOrders(orders))
}

// Post /orders
func (api *CounterAPI) CreateOrder(c *gin.Context) {
	var payload NewOrder
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	input := application.NewOrderInput{CustomerName: payload.CustomerName}
	for _, item := range payload.Items {
		input.Lines = append(input.Lines, application.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity, Note: item.Note})
	}
	order, err := api.service.CreateOrder(c.Request.Context(), input)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromOrder(order))
}

// Put /orders/:id
func (api *CounterAPI) UpdateOrderStatus(c *gin.Context) {
	id, ok := api.idParam(c)
	if !ok {
		return
	}
	var payload StatusUpdate
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	if strings.TrimSpace(payload.Status) == "" {
		api.responder.Respond(c, apierrors.NewValidationProblem(map[string]string{"status": "status is required"}).WithDetail("status is required"))
		return
	}
	status, err := orderdomain.ParseStatus(payload.Status)
	if err != nil {
		api.responder.Respond(c, apierrors.NewValidationProblem(map[string]string{"status": "unknown status"}).WithDetail("unknown status " + payload.Status))
		return
	}
	if err := api.service.UpdateOrderStatus(c.Request.Context(), id, status); err != nil {
		api.responder.RespondError(c, notFoundAs(err, "order", id))
		return
	}
	c.Status(http.StatusNoContent)
}

func (api *CounterAPI) idParam(c *gin.Context) (ident.ID, bool) {
	id, err := ident.Parse(c.Param("id"))
	if err != nil {
		api.responder.Respond(c, apierrors.ErrBadRequest.WithDetail("id is required"))
		return "", false
	}
	return id, true
}

// notFoundAs names the missing resource in the problem body.
func notFoundAs(err error, resource string, id ident.ID) error {
	if errors.Is(err, ports.ErrNotFound) {
		return apierrors.NewNotFoundProblem(resource, id)
	}
	return err
}

func mapServiceError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, ports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrConflict), errors.Is(err, application.ErrUnavailableProduct):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, context.DeadlineExceeded):
		return apierrors.ErrUnavailable.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func fieldSummary(fields map[string]string) string {
	if _, ok := fields["name"]; ok {
		if _, ok := fields["price"]; ok {
			return "name and price are required"
		}
	}
	for _, key := range []string{"name", "price", "category"} {
		if msg, ok := fields[key]; ok {
			return msg
		}
	}
	return "invalid product"
}
