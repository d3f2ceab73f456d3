package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/MikeMC777/tienda-checkout/internal/auth"
	"github.com/MikeMC777/tienda-checkout/internal/cart"
	_ "github.com/MikeMC777/tienda-checkout/internal/docs"
	"github.com/MikeMC777/tienda-checkout/internal/httpx"
	"github.com/MikeMC777/tienda-checkout/internal/idempotency"
	"github.com/MikeMC777/tienda-checkout/internal/metrics"
	"github.com/MikeMC777/tienda-checkout/internal/order"
	"github.com/MikeMC777/tienda-checkout/internal/user"
)

type deps struct {
	log         *zap.Logger
	reg         *prometheus.Registry
	issuer      *auth.Issuer
	users       *user.Service
	carts       *cart.Aggregator
	coordinator *order.Coordinator
	idem        idempotency.Store
}

func newRouter(d deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(d.log), httpx.Metrics(metrics.NewHTTP(d.reg)))

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.reg, promhttp.HandlerOpts{})))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.POST("/auth/register", registerHandler(d.users, d.issuer))
	r.POST("/auth/login", loginHandler(d.users, d.issuer))

	api := r.Group("/", auth.Middleware(d.issuer))
	api.GET("/cart", getCartHandler(d.carts))
	api.GET("/cart/total", cartTotalHandler(d.carts))
	api.GET("/cart/items", cartContainsHandler(d.carts))
	api.POST("/cart/items", addCartItemHandler(d.carts))
	api.PUT("/cart/items/:id", updateCartItemHandler(d.carts))
	api.DELETE("/cart/items/:id", removeCartItemHandler(d.carts))
	api.DELETE("/cart", clearCartHandler(d.carts))

	api.POST("/orders", createOrderHandler(d.coordinator, d.idem))
	api.GET("/orders", listMyOrdersHandler(d.coordinator))
	api.GET("/orders/:id", getOrderHandler(d.coordinator))
	api.GET("/orders/:id/items", getOrderItemsHandler(d.coordinator))
	api.POST("/orders/:id/cancel", cancelOrderHandler(d.coordinator))

	admin := api.Group("/admin", auth.RequireAdmin())
	admin.GET("/orders", listAllOrdersHandler(d.coordinator))
	admin.GET("/orders/:id/total", orderTotalHandler(d.coordinator))
	admin.PUT("/orders/:id/status", updateOrderStatusHandler(d.coordinator))
	admin.POST("/orders/:id/cancel", adminCancelOrderHandler(d.coordinator))
	admin.DELETE("/orders/:id", deleteOrderHandler(d.coordinator))

	return r
}
