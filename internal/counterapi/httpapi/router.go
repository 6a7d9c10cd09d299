package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apierrors "github.com/Apurer/counter-panel/internal/shared/errors"
)

// RequestIDHeader is echoed back on every response.
const RequestIDHeader = "X-Request-ID"

// Route describes one endpoint.
type Route struct {
	Name        string
	Method      string
	Pattern     string
	HandlerFunc gin.HandlerFunc
}

// NewRouter returns a gin engine serving the counter contract.
func NewRouter(api *CounterAPI, logger *slog.Logger, middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestID(), accessLog(logger))
	router.Use(middleware...)
	router.NoRoute(func(c *gin.Context) {
		apierrors.NewResponder().Respond(c, apierrors.ErrNotFound.WithDetail("no route for "+c.Request.Method+" "+c.Request.URL.Path))
	})
	for _, route := range getRoutes(api) {
		router.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
	return router
}

func getRoutes(api *CounterAPI) []Route {
	return []Route{
		{"ListProducts", http.MethodGet, "/products", api.ListProducts},
		{"CreateProduct", http.MethodPost, "/products", api.CreateProduct},
		{"DeleteProduct", http.MethodDelete, "/products/:id", api.DeleteProduct},
		{"SetAvailability", http.MethodPut, "/products/:id", api.SetAvailability},
		{"ListOrders", http.MethodGet, "/orders", api.ListOrders},
		{"CreateOrder", http.MethodPost, "/orders", api.CreateOrder},
		{"UpdateOrderStatus", http.MethodPut, "/orders/:id", api.UpdateOrderStatus},
	}
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDHeader, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func accessLog(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if logger == nil {
			return
		}
		level := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.LogAttrs(c.Request.Context(), level, "request served",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
			slog.String("request_id", c.GetString(RequestIDHeader)),
		)
	}
}
