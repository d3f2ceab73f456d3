package main

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MikeMC777/tienda-checkout/internal/auth"
	"github.com/MikeMC777/tienda-checkout/internal/cart"
	"github.com/MikeMC777/tienda-checkout/internal/httpx"
	"github.com/MikeMC777/tienda-checkout/internal/idempotency"
	"github.com/MikeMC777/tienda-checkout/internal/logging"
	"github.com/MikeMC777/tienda-checkout/internal/order"
	"github.com/MikeMC777/tienda-checkout/internal/user"
)

const idempotencyScope = "create_order"

func identity(c *gin.Context) auth.Identity {
	id, _ := auth.FromGin(c)
	return id
}

// ---------- auth ----------

// registerHandler godoc
// @Summary  Register a customer
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body user.RegisterRequest true "Credentials"
// @Success  201 {object} user.TokenResponse
// @Failure  400 {object} product.HTTPError
// @Failure  409 {object} product.HTTPError
// @Router   /auth/register [post]
func registerHandler(users *user.Service, issuer *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in user.RegisterRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		u, err := users.Register(c.Request.Context(), in)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		respondToken(c, http.StatusCreated, issuer, u)
	}
}

// loginHandler godoc
// @Summary  Exchange credentials for a bearer token
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body user.LoginRequest true "Credentials"
// @Success  200 {object} user.TokenResponse
// @Failure  401 {object} product.HTTPError
// @Router   /auth/login [post]
func loginHandler(users *user.Service, issuer *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in user.LoginRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		u, err := users.Authenticate(c.Request.Context(), in.Email, in.Password)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		respondToken(c, http.StatusOK, issuer, u)
	}
}

func respondToken(c *gin.Context, status int, issuer *auth.Issuer, u *user.User) {
	token, err := issuer.Issue(u.ID, string(u.Role))
	if err != nil {
		httpx.WriteError(c, err)
		return
	}
	c.JSON(status, user.TokenResponse{Token: token, User: *u})
}

// ---------- cart ----------

// getCartHandler godoc
// @Summary  Show the caller's cart with live prices
// @Tags     cart
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} cart.View
// @Router   /cart [get]
func getCartHandler(agg *cart.Aggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := agg.View(c.Request.Context(), identity(c).UserID)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

// cartContainsHandler godoc
// @Summary  Whether the cart holds a line for product_id
// @Tags     cart
// @Produce  json
// @Security BearerAuth
// @Param    product_id query string true "Product ID"
// @Success  200 {object} map[string]any
// @Failure  400 {object} product.HTTPError
// @Router   /cart/items [get]
func cartContainsHandler(agg *cart.Aggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		pid := strings.TrimSpace(c.Query("product_id"))
		if pid == "" {
			httpx.BadRequest(c, "product_id is required")
			return
		}
		in, err := agg.Contains(c.Request.Context(), identity(c).UserID, pid)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"product_id": pid, "in_cart": in})
	}
}

func cartTotalHandler(agg *cart.Aggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := identity(c).UserID
		total, err := agg.Total(c.Request.Context(), uid)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		count, err := agg.Count(c.Request.Context(), uid)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"total": total, "count": count})
	}
}

// addCartItemHandler godoc
// @Summary  Add a product to the cart, merging with an existing line
// @Tags     cart
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body cart.AddItemRequest true "Item"
// @Success  201 {object} cart.Line
// @Failure  400 {object} product.HTTPError
// @Failure  409 {object} product.HTTPError
// @Router   /cart/items [post]
func addCartItemHandler(agg *cart.Aggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in cart.AddItemRequest
		if err := c.ShouldBindJSON(&in); err != nil || strings.TrimSpace(in.ProductID) == "" {
			httpx.BadRequest(c, "product_id and quantity are required")
			return
		}
		line, err := agg.Add(c.Request.Context(), identity(c).UserID, in.ProductID, in.Quantity)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusCreated, line)
	}
}

func updateCartItemHandler(agg *cart.Aggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in cart.UpdateItemRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		line, err := agg.UpdateQuantity(c.Request.Context(), identity(c).UserID, c.Param("id"), in.Quantity)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, line)
	}
}

func removeCartItemHandler(agg *cart.Aggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := agg.Remove(c.Request.Context(), identity(c).UserID, c.Param("id")); err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func clearCartHandler(agg *cart.Aggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := agg.Clear(c.Request.Context(), identity(c).UserID); err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// ---------- orders ----------

// createOrderHandler godoc
// @Summary  Turn the caller's cart into a PENDING order
// @Tags     orders
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    Idempotency-Key header string false "Replays return the first order"
// @Param    body body order.CreateOrderRequest true "Shipping"
// @Success  201 {object} order.Order
// @Failure  400 {object} product.HTTPError
// @Failure  409 {object} product.HTTPError
// @Router   /orders [post]
func createOrderHandler(co *order.Coordinator, idem idempotency.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in order.CreateOrderRequest
		if err := c.ShouldBindJSON(&in); err != nil || strings.TrimSpace(in.ShippingAddress) == "" {
			httpx.BadRequest(c, "shipping_address is required")
			return
		}
		ctx := c.Request.Context()
		uid := identity(c).UserID
		key := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		if key == "" {
			o, err := co.CreateOrder(ctx, uid, in.ShippingAddress)
			if err != nil {
				httpx.WriteError(c, err)
				return
			}
			c.JSON(http.StatusCreated, o)
			return
		}

		scope := idempotencyScope + ":" + uid
		if orderID, ok, err := idem.Recall(ctx, scope, key); err != nil {
			httpx.WriteError(c, err)
			return
		} else if ok {
			o, err := co.GetOrderForUser(ctx, orderID, uid)
			if err != nil {
				httpx.WriteError(c, err)
				return
			}
			c.JSON(http.StatusOK, o)
			return
		}

		locked, err := idem.TryLock(ctx, scope, key)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		if !locked {
			c.JSON(http.StatusConflict, gin.H{"error": "request with this Idempotency-Key is in progress"})
			return
		}

		o, err := co.CreateOrder(ctx, uid, in.ShippingAddress)
		if err != nil {
			releaseKey(ctx, idem, scope, key)
			httpx.WriteError(c, err)
			return
		}
		rememberOrder(ctx, idem, scope, key, o.ID)
		c.JSON(http.StatusCreated, o)
	}
}

// rememberOrder maps key to orderID, trying twice. If both tries fail the lock
// is released so the key does not read as in progress until it expires.
func rememberOrder(ctx context.Context, idem idempotency.Store, scope, key, orderID string) {
	ctx = context.WithoutCancel(ctx)
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		if err = idem.Remember(ctx, scope, key, orderID); err == nil {
			return
		}
	}
	logging.FromContext(ctx).Warn("idempotency_remember_failed", zap.String("order_id", orderID), zap.Error(err))
	releaseKey(ctx, idem, scope, key)
}

func releaseKey(ctx context.Context, idem idempotency.Store, scope, key string) {
	if err := idem.Release(context.WithoutCancel(ctx), scope, key); err != nil {
		logging.FromContext(ctx).Warn("idempotency_release_failed", zap.Error(err))
	}
}

func listMyOrdersHandler(co *order.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := co.ListOrdersForUser(c.Request.Context(), identity(c).UserID)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, order.ListResponse{Items: orders})
	}
}

// getOrderHandler godoc
// @Summary  Get one order with its items
// @Tags     orders
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "Order ID"
// @Success  200 {object} order.Order
// @Failure  403 {object} product.HTTPError
// @Failure  404 {object} product.HTTPError
// @Router   /orders/{id} [get]
func getOrderHandler(co *order.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := readOrder(c, co)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

func getOrderItemsHandler(co *order.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := readOrder(c, co)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": o.Items})
	}
}

// readOrder lets the owner or an admin read the order.
func readOrder(c *gin.Context, co *order.Coordinator) (*order.Order, error) {
	id := identity(c)
	if id.Admin {
		return co.GetOrder(c.Request.Context(), c.Param("id"))
	}
	return co.GetOrderForUser(c.Request.Context(), c.Param("id"), id.UserID)
}

// cancelOrderHandler godoc
// @Summary  Cancel one of the caller's orders and restore its stock
// @Tags     orders
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "Order ID"
// @Success  200 {object} order.Order
// @Failure  403 {object} product.HTTPError
// @Failure  409 {object} product.HTTPError
// @Router   /orders/{id}/cancel [post]
func cancelOrderHandler(co *order.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if err := co.CancelOrder(ctx, c.Param("id"), identity(c).UserID); err != nil {
			httpx.WriteError(c, err)
			return
		}
		o, err := co.GetOrder(ctx, c.Param("id"))
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// ---------- admin ----------

func listAllOrdersHandler(co *order.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := co.ListAllOrders(c.Request.Context())
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, order.ListResponse{Items: orders})
	}
}

// updateOrderStatusHandler godoc
// @Summary  Move an order along its lifecycle
// @Tags     admin
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id   path string                    true "Order ID"
// @Param    body body order.UpdateStatusRequest true "Target status"
// @Success  200 {object} order.Order
// @Failure  400 {object} product.HTTPError
// @Failure  409 {object} product.HTTPError
// @Router   /admin/orders/{id}/status [put]
func updateOrderStatusHandler(co *order.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in order.UpdateStatusRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		status, err := order.ParseStatus(in.Status)
		if err != nil {
			httpx.BadRequest(c, err.Error())
			return
		}
		o, err := co.UpdateOrderStatus(c.Request.Context(), c.Param("id"), status)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

func adminCancelOrderHandler(co *order.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if err := co.AdminCancelOrder(ctx, c.Param("id")); err != nil {
			httpx.WriteError(c, err)
			return
		}
		o, err := co.GetOrder(ctx, c.Param("id"))
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

func orderTotalHandler(co *order.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		total, err := co.CalculateTotal(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, order.TotalResponse{OrderID: c.Param("id"), TotalAmount: total})
	}
}

func deleteOrderHandler(co *order.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := co.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
