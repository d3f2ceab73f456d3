package order

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart         = errors.New("order: cart is empty")
	ErrInsufficientStock = errors.New("order: insufficient stock")
	ErrNotFound          = errors.New("order: not found")
	ErrForbidden         = errors.New("order: forbidden")
	ErrInvalidTransition = errors.New("order: invalid status transition")
	ErrInvalidQuantity   = errors.New("order: invalid quantity")
)

type Kind int

const (
	KindEmptyCart Kind = iota + 1
	KindInsufficientStock
	KindNotFound
	KindForbidden
	KindInvalidTransition
	KindInvalidQuantity
)

func (k Kind) String() string {
	switch k {
	case KindEmptyCart:
		return "empty_cart"
	case KindInsufficientStock:
		return "insufficient_stock"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindInvalidTransition:
		return "invalid_transition"
	case KindInvalidQuantity:
		return "invalid_quantity"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindEmptyCart:
		return ErrEmptyCart
	case KindInsufficientStock:
		return ErrInsufficientStock
	case KindNotFound:
		return ErrNotFound
	case KindForbidden:
		return ErrForbidden
	case KindInvalidTransition:
		return ErrInvalidTransition
	case KindInvalidQuantity:
		return ErrInvalidQuantity
	default:
		return nil
	}
}

// Error is the typed outcome of every business failure in the workflow.
// errors.Is matches it against the package sentinel for its Kind, and
// errors.Unwrap exposes the lower level cause when there is one.
type Error struct {
	Kind      Kind
	OrderID   string
	ProductID string
	From, To  Status
	Err       error
}

func (e *Error) Error() string {
	msg := e.Kind.sentinel().Error()
	switch e.Kind {
	case KindInsufficientStock:
		msg = fmt.Sprintf("%s for product %s", msg, e.ProductID)
	case KindInvalidTransition:
		msg = fmt.Sprintf("%s from %s", msg, e.From)
		if e.To != "" {
			msg = fmt.Sprintf("%s to %s", msg, e.To)
		}
	case KindNotFound, KindForbidden:
		if e.OrderID != "" {
			msg = fmt.Sprintf("%s: %s", msg, e.OrderID)
		}
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of err, or 0 when err is not a workflow error.
func KindOf(err error) Kind {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return 0
}

func emptyCart() error { return &Error{Kind: KindEmptyCart} }

func notFound(orderID string) error { return &Error{Kind: KindNotFound, OrderID: orderID} }

func forbidden(orderID string) error { return &Error{Kind: KindForbidden, OrderID: orderID} }

func insufficientStock(productID string, cause error) error {
	return &Error{Kind: KindInsufficientStock, ProductID: productID, Err: cause}
}

func invalidTransition(from, to Status) error {
	return &Error{Kind: KindInvalidTransition, From: from, To: to}
}

func invalidQuantity(productID string, cause error) error {
	return &Error{Kind: KindInvalidQuantity, ProductID: productID, Err: cause}
}
