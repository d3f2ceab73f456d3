package httpx

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MikeMC777/tienda-checkout/internal/cart"
	"github.com/MikeMC777/tienda-checkout/internal/logging"
	"github.com/MikeMC777/tienda-checkout/internal/order"
	"github.com/MikeMC777/tienda-checkout/internal/product"
	"github.com/MikeMC777/tienda-checkout/internal/stock"
	"github.com/MikeMC777/tienda-checkout/internal/user"
)

// StatusFor maps a domain error to its HTTP status.
func StatusFor(err error) int {
	switch order.KindOf(err) {
	case order.KindEmptyCart, order.KindInvalidQuantity:
		return http.StatusBadRequest
	case order.KindInsufficientStock, order.KindInvalidTransition:
		return http.StatusConflict
	case order.KindNotFound:
		return http.StatusNotFound
	case order.KindForbidden:
		return http.StatusForbidden
	}
	switch {
	case errors.Is(err, stock.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, stock.ErrInvalidQuantity),
		errors.Is(err, product.ErrInvalidPrice),
		errors.Is(err, user.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, stock.ErrProductNotFound),
		errors.Is(err, product.ErrNotFound),
		errors.Is(err, cart.ErrLineNotFound),
		errors.Is(err, user.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, user.ErrAlreadyExist),
		errors.Is(err, product.ErrInUse):
		return http.StatusConflict
	case errors.Is(err, user.ErrInvalidCredentials):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// WriteError answers with {"error": ...}. Internal failures are logged and
// reported without detail.
func WriteError(c *gin.Context, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).Error("request_failed", zap.Error(err))
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
