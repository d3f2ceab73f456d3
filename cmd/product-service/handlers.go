package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/MikeMC777/tienda-checkout/internal/httpx"
	"github.com/MikeMC777/tienda-checkout/internal/product"
	"github.com/MikeMC777/tienda-checkout/internal/stock"
)

func pageQuery(c *gin.Context) product.Query {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	return product.Query{Limit: limit, Offset: offset}.Normalize()
}

// listOnlyHandler godoc
// @Summary  List products (pagination only)
// @Tags     products
// @Produce  json
// @Param    limit  query int false "Page size (1..100)"
// @Param    offset query int false "Offset"
// @Success  200 {object} product.ListResponse
// @Router   /products [get]
func listOnlyHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := pageQuery(c)
		items, err := repo.List(c.Request.Context(), q)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, product.ListResponse{Limit: q.Limit, Offset: q.Offset, Items: items})
	}
}

// searchHandler godoc
// @Summary  Search products by name or description
// @Tags     products
// @Produce  json
// @Param    q      query string true  "At least 2 characters"
// @Param    limit  query int    false "Page size (1..100)"
// @Param    offset query int    false "Offset"
// @Success  200 {object} product.ListResponse
// @Failure  400 {object} product.HTTPError
// @Router   /products/search [get]
func searchHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		term := strings.TrimSpace(c.Query("q"))
		if len([]rune(term)) < 2 {
			httpx.BadRequest(c, "q must have at least 2 characters")
			return
		}
		q := pageQuery(c)
		q.Q = term
		items, err := repo.List(c.Request.Context(), q)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, product.ListResponse{Q: term, Limit: q.Limit, Offset: q.Offset, Items: items})
	}
}

// getProductHandler godoc
// @Summary  Get a product
// @Tags     products
// @Produce  json
// @Param    id path string true "Product ID"
// @Success  200 {object} product.Product
// @Failure  404 {object} product.HTTPError
// @Router   /products/{id} [get]
func getProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := repo.GetProduct(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// createProductHandler godoc
// @Summary  Create a product
// @Tags     products
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body product.CreateProductRequest true "Product"
// @Success  201 {object} product.Product
// @Failure  400 {object} product.HTTPError
// @Router   /products [post]
func createProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in product.CreateProductRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		in.Name = strings.TrimSpace(in.Name)
		if in.Name == "" || strings.TrimSpace(in.Price) == "" {
			httpx.BadRequest(c, "name and price are required")
			return
		}
		price, err := product.ParsePrice(in.Price)
		if err != nil {
			httpx.BadRequest(c, err.Error())
			return
		}
		if in.Stock < 0 {
			httpx.BadRequest(c, "stock must be non-negative")
			return
		}
		p := &product.Product{
			ID:          uuid.NewString(),
			Name:        in.Name,
			Description: strings.TrimSpace(in.Description),
			Price:       price,
			Stock:       in.Stock,
		}
		if err := repo.Create(c.Request.Context(), p); err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

// updateProductHandler godoc
// @Summary  Update name, description or price. Omitted fields are kept.
// @Tags     products
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id   path string                       true "Product ID"
// @Param    body body product.UpdateProductRequest true "Fields"
// @Success  200 {object} product.Product
// @Failure  400 {object} product.HTTPError
// @Failure  404 {object} product.HTTPError
// @Router   /products/{id} [put]
func updateProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in product.UpdateProductRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		p := &product.Product{
			ID:          c.Param("id"),
			Name:        strings.TrimSpace(in.Name),
			Description: strings.TrimSpace(in.Description),
		}
		updatePrice := strings.TrimSpace(in.Price) != ""
		if updatePrice {
			price, err := product.ParsePrice(in.Price)
			if err != nil {
				httpx.BadRequest(c, err.Error())
				return
			}
			p.Price = price
		}
		ctx := c.Request.Context()
		if err := repo.Update(ctx, p, updatePrice); err != nil {
			httpx.WriteError(c, err)
			return
		}
		out, err := repo.GetProduct(ctx, p.ID)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// deleteProductHandler godoc
// @Summary  Delete a product
// @Tags     products
// @Security BearerAuth
// @Param    id path string true "Product ID"
// @Success  204
// @Failure  404 {object} product.HTTPError
// @Failure  409 {object} product.HTTPError
// @Router   /products/{id} [delete]
func deleteProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		if !ok {
			httpx.WriteError(c, product.ErrNotFound)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// availabilityHandler godoc
// @Summary  Whether qty units are currently in stock. The answer is advisory.
// @Tags     stock
// @Produce  json
// @Param    id  path  string true  "Product ID"
// @Param    qty query int    false "Requested units (default 1)"
// @Success  200 {object} product.Availability
// @Failure  400 {object} product.HTTPError
// @Failure  404 {object} product.HTTPError
// @Router   /products/{id}/availability [get]
func availabilityHandler(ledger stock.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		qty, err := strconv.Atoi(c.DefaultQuery("qty", "1"))
		if err != nil {
			httpx.BadRequest(c, "qty must be an integer")
			return
		}
		ok, err := ledger.CheckAvailable(c.Request.Context(), c.Param("id"), qty)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, product.Availability{ProductID: c.Param("id"), Requested: qty, Available: ok})
	}
}

// setStockHandler godoc
// @Summary  Overwrite the stock counter
// @Tags     stock
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id   path string                  true "Product ID"
// @Param    body body product.SetStockRequest true "New level"
// @Success  200 {object} product.Product
// @Failure  400 {object} product.HTTPError
// @Failure  404 {object} product.HTTPError
// @Router   /products/{id}/stock [put]
func setStockHandler(repo product.Repository, ledger stock.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in product.SetStockRequest
		if err := c.ShouldBindJSON(&in); err != nil || in.Stock == nil {
			httpx.BadRequest(c, "stock is required")
			return
		}
		ctx := c.Request.Context()
		if err := ledger.SetAbsolute(ctx, c.Param("id"), *in.Stock); err != nil {
			httpx.WriteError(c, err)
			return
		}
		p, err := repo.GetProduct(ctx, c.Param("id"))
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}
