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
	_ "github.com/MikeMC777/tienda-checkout/internal/docs"
	"github.com/MikeMC777/tienda-checkout/internal/httpx"
	"github.com/MikeMC777/tienda-checkout/internal/metrics"
	"github.com/MikeMC777/tienda-checkout/internal/product"
	"github.com/MikeMC777/tienda-checkout/internal/stock"
)

type deps struct {
	log    *zap.Logger
	reg    *prometheus.Registry
	issuer *auth.Issuer
	repo   product.Repository
	ledger stock.Ledger
}

// newRouter exposes catalog reads publicly; writes require an admin token.
func newRouter(d deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(d.log), httpx.Metrics(metrics.NewHTTP(d.reg)))

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.reg, promhttp.HandlerOpts{})))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/products", listOnlyHandler(d.repo))
	r.GET("/products/search", searchHandler(d.repo))
	r.GET("/products/:id", getProductHandler(d.repo))
	r.GET("/products/:id/availability", availabilityHandler(d.ledger))

	admin := r.Group("/", auth.Middleware(d.issuer), auth.RequireAdmin())
	admin.POST("/products", createProductHandler(d.repo))
	admin.PUT("/products/:id", updateProductHandler(d.repo))
	admin.PUT("/products/:id/stock", setStockHandler(d.repo, d.ledger))
	admin.DELETE("/products/:id", deleteProductHandler(d.repo))

	return r
}
