// Package order converts carts into orders and drives the order status state
// machine, keeping stock, carts and orders consistent with each other.
package order

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/MikeMC777/tienda-checkout/internal/cart"
	"github.com/MikeMC777/tienda-checkout/internal/events"
	"github.com/MikeMC777/tienda-checkout/internal/logging"
	"github.com/MikeMC777/tienda-checkout/internal/metrics"
	"github.com/MikeMC777/tienda-checkout/internal/stock"
)

const (
	opCreate       = "create"
	opCancel       = "cancel"
	opUpdateStatus = "update_status"
	opDelete       = "delete"

	// A status write that loses a compare-and-set is retried against the
	// fresh status this many times.
	maxStatusAttempts = 3
)

var errStatusRace = errors.New("order status changed concurrently")

// Coordinator is safe for concurrent use. Isolation between concurrent calls
// comes from the UnitOfWork and the ledger, not from the Coordinator.
type Coordinator struct {
	uow       UnitOfWork
	orders    Store
	log       *zap.Logger
	metrics   *metrics.Workflow
	publisher events.Publisher
	tracer    trace.Tracer
	now       func() time.Time
	newID     func() string
}

type Option func(*Coordinator)

func WithLogger(l *zap.Logger) Option { return func(c *Coordinator) { c.log = l } }

func WithMetrics(m *metrics.Workflow) Option { return func(c *Coordinator) { c.metrics = m } }

func WithPublisher(p events.Publisher) Option { return func(c *Coordinator) { c.publisher = p } }

func WithClock(now func() time.Time) Option { return func(c *Coordinator) { c.now = now } }

func WithIDGenerator(newID func() string) Option { return func(c *Coordinator) { c.newID = newID } }

// NewCoordinator wires the workflow. orders serves reads that need no unit of work.
func NewCoordinator(uow UnitOfWork, orders Store, opts ...Option) *Coordinator {
	c := &Coordinator{
		uow:       uow,
		orders:    orders,
		log:       zap.NewNop(),
		publisher: events.NopPublisher{},
		tracer:    otel.Tracer("tienda-checkout/order"),
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateOrder turns the user's cart into a PENDING order. Stock is decreased
// per line in ascending product id order, the prices are snapshotted, the
// order is stored and the lines it was built from leave the cart, all inside
// one unit of work.
func (c *Coordinator) CreateOrder(ctx context.Context, userID, shippingAddress string) (_ *Order, err error) {
	ctx, span := c.tracer.Start(ctx, "order.create", trace.WithAttributes(attribute.String("user.id", userID)))
	start := c.now()
	var created *Order
	defer func() {
		fields := []zap.Field{zap.String("user_id", userID)}
		if created != nil {
			fields = append(fields, zap.String("order_id", created.ID), zap.String("total_amount", created.TotalAmount.StringFixed(2)))
		}
		c.finish(ctx, span, opCreate, start, err, "order_created", fields...)
	}()

	err = c.uow.Do(ctx, func(ctx context.Context, tx Tx) error {
		agg := cart.NewAggregator(tx.Carts(), tx.Catalog(), tx.Stock())
		lines, err := agg.LockLines(ctx, userID)
		if err != nil {
			return fmt.Errorf("load cart: %w", err)
		}
		if len(lines) == 0 {
			return emptyCart()
		}

		now := c.now()
		o := &Order{
			ID:              c.newID(),
			UserID:          userID,
			Status:          StatusPending,
			ShippingAddress: shippingAddress,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		items := make([]Item, 0, len(lines))
		for _, l := range lines {
			if err := tx.Stock().Decrease(ctx, l.ProductID, l.Quantity); err != nil {
				switch {
				case errors.Is(err, stock.ErrInsufficientStock):
					c.metrics.InsufficientStock()
					c.logger(ctx).Info("stock_insufficient",
						zap.String("user_id", userID),
						zap.String("product_id", l.ProductID),
						zap.Int("requested", l.Quantity),
					)
					return insufficientStock(l.ProductID, err)
				case errors.Is(err, stock.ErrInvalidQuantity):
					return invalidQuantity(l.ProductID, err)
				default:
					return fmt.Errorf("decrease stock for %s: %w", l.ProductID, err)
				}
			}
			items = append(items, Item{
				ID:              c.newID(),
				OrderID:         o.ID,
				ProductID:       l.ProductID,
				Quantity:        l.Quantity,
				PriceAtPurchase: l.UnitPrice,
			})
		}
		o.TotalAmount = SumItems(items)

		if err := tx.Orders().Insert(ctx, o, items); err != nil {
			return err
		}
		if err := agg.RemoveLines(ctx, userID, lines); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		o.Items = items
		created = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.publish(ctx, events.Event{
		Type:        events.TypeOrderCreated,
		OrderID:     created.ID,
		UserID:      created.UserID,
		Status:      string(created.Status),
		TotalAmount: created.TotalAmount,
		OccurredAt:  created.CreatedAt,
	})
	return created, nil
}

// CancelOrder cancels an order on behalf of its owner and gives its stock back.
func (c *Coordinator) CancelOrder(ctx context.Context, orderID, userID string) error {
	_, err := c.transition(ctx, opCancel, orderID, StatusCancelled, func(o *Order) error {
		if o.UserID != userID {
			return forbidden(orderID)
		}
		return nil
	})
	return err
}

// AdminCancelOrder cancels any order regardless of who owns it.
func (c *Coordinator) AdminCancelOrder(ctx context.Context, orderID string) error {
	_, err := c.transition(ctx, opCancel, orderID, StatusCancelled, nil)
	return err
}

// UpdateOrderStatus moves an order to status. Entering CANCELLED restores
// stock; cancelling an already cancelled order changes nothing.
func (c *Coordinator) UpdateOrderStatus(ctx context.Context, orderID string, status Status) (*Order, error) {
	return c.transition(ctx, opUpdateStatus, orderID, status, nil)
}

func (c *Coordinator) transition(ctx context.Context, op, orderID string, to Status, authorize func(*Order) error) (_ *Order, err error) {
	ctx, span := c.tracer.Start(ctx, "order."+op, trace.WithAttributes(
		attribute.String("order.id", orderID),
		attribute.String("order.status.to", string(to)),
	))
	start := c.now()
	var (
		result  *Order
		from    Status
		changed bool
	)
	msg := "order_status_changed"
	if op == opCancel {
		msg = "order_cancelled"
	}
	defer func() {
		c.finish(ctx, span, op, start, err, msg,
			zap.String("order_id", orderID),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
			zap.Bool("changed", changed),
		)
	}()

	for attempt := 1; ; attempt++ {
		err = c.uow.Do(ctx, func(ctx context.Context, tx Tx) error {
			o, err := tx.Orders().FindByID(ctx, orderID)
			if errors.Is(err, ErrNotFound) {
				return notFound(orderID)
			}
			if err != nil {
				return err
			}
			if authorize != nil {
				if err := authorize(o); err != nil {
					return err
				}
			}
			from = o.Status

			effect, err := Plan(o.Status, to)
			if err != nil {
				return err
			}
			items, err := tx.Orders().Items(ctx, orderID)
			if err != nil {
				return err
			}
			o.Items = items
			if effect == EffectNoop {
				result, changed = o, false
				return nil
			}

			ok, err := tx.Orders().UpdateStatus(ctx, orderID, o.Status, to)
			if err != nil {
				return err
			}
			if !ok {
				return errStatusRace
			}
			if effect == EffectRestoreStock {
				if err := restoreStock(ctx, tx.Stock(), items); err != nil {
					return err
				}
			}
			o.Status = to
			o.UpdatedAt = c.now()
			result, changed = o, true
			return nil
		})
		if !errors.Is(err, errStatusRace) || attempt == maxStatusAttempts {
			break
		}
	}
	if err != nil {
		if errors.Is(err, errStatusRace) {
			err = fmt.Errorf("order %s: %w", orderID, err)
		}
		return nil, err
	}

	if changed {
		c.publish(ctx, events.Event{
			Type:           events.TypeOrderStatusChanged,
			OrderID:        result.ID,
			UserID:         result.UserID,
			Status:         string(result.Status),
			PreviousStatus: string(from),
			TotalAmount:    result.TotalAmount,
			OccurredAt:     result.UpdatedAt,
		})
	}
	return result, nil
}

// restoreStock gives back every item's quantity, in ascending product order.
func restoreStock(ctx context.Context, ledger stock.Ledger, items []Item) error {
	sorted := append([]Item(nil), items...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ProductID < sorted[j].ProductID })
	for _, it := range sorted {
		if err := ledger.Increase(ctx, it.ProductID, it.Quantity); err != nil {
			return fmt.Errorf("restore stock for %s: %w", it.ProductID, err)
		}
	}
	return nil
}

// GetOrder returns the order with its items.
func (c *Coordinator) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	o, err := c.orders.FindByID(ctx, orderID)
	if errors.Is(err, ErrNotFound) {
		return nil, notFound(orderID)
	}
	if err != nil {
		return nil, err
	}
	if o.Items, err = c.orders.Items(ctx, orderID); err != nil {
		return nil, err
	}
	return o, nil
}

// GetOrderForUser is GetOrder restricted to the order's owner.
func (c *Coordinator) GetOrderForUser(ctx context.Context, orderID, userID string) (*Order, error) {
	o, err := c.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, forbidden(orderID)
	}
	return o, nil
}

func (c *Coordinator) GetOrderItems(ctx context.Context, orderID string) ([]Item, error) {
	o, err := c.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return o.Items, nil
}

// ListOrdersForUser returns the user's orders, newest first, without items.
func (c *Coordinator) ListOrdersForUser(ctx context.Context, userID string) ([]Order, error) {
	return c.orders.FindByUserID(ctx, userID)
}

func (c *Coordinator) ListAllOrders(ctx context.Context) ([]Order, error) {
	return c.orders.FindAll(ctx)
}

// CalculateTotal recomputes Σ priceAtPurchase × quantity from the stored items.
// It never writes; a stored order's TotalAmount must always equal it.
func (c *Coordinator) CalculateTotal(ctx context.Context, orderID string) (decimal.Decimal, error) {
	items, err := c.GetOrderItems(ctx, orderID)
	if err != nil {
		return decimal.Zero, err
	}
	return SumItems(items), nil
}

// DeleteOrder removes a cancelled order and its items. Orders in any other
// status are history that still counts against stock and cannot be deleted.
func (c *Coordinator) DeleteOrder(ctx context.Context, orderID string) (err error) {
	ctx, span := c.tracer.Start(ctx, "order.delete", trace.WithAttributes(attribute.String("order.id", orderID)))
	start := c.now()
	defer func() {
		c.finish(ctx, span, opDelete, start, err, "order_deleted", zap.String("order_id", orderID))
	}()

	return c.uow.Do(ctx, func(ctx context.Context, tx Tx) error {
		o, err := tx.Orders().FindByID(ctx, orderID)
		if errors.Is(err, ErrNotFound) {
			return notFound(orderID)
		}
		if err != nil {
			return err
		}
		if o.Status != StatusCancelled {
			return &Error{Kind: KindInvalidTransition, OrderID: orderID, From: o.Status}
		}
		ok, err := tx.Orders().Delete(ctx, orderID)
		if err != nil {
			return err
		}
		if !ok {
			return notFound(orderID)
		}
		return nil
	})
}

func (c *Coordinator) publish(ctx context.Context, e events.Event) {
	if err := c.publisher.Publish(ctx, e); err != nil {
		c.metrics.PublishFailed(e.Type)
		c.logger(ctx).Warn("order_event_publish_failed",
			zap.String("event", e.Type),
			zap.String("order_id", e.OrderID),
			zap.Error(err),
		)
	}
}

func (c *Coordinator) finish(ctx context.Context, span trace.Span, op string, start time.Time, err error, msg string, fields ...zap.Field) {
	outcome := "success"
	if err != nil {
		outcome = "error"
		if k := KindOf(err); k != 0 {
			outcome = k.String()
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
	} else {
		span.SetStatus(codes.Ok, outcome)
	}
	span.End()

	latency := c.now().Sub(start).Seconds()
	c.metrics.Observe(op, outcome, latency)

	fields = append(fields, zap.String("op", op), zap.String("outcome", outcome), zap.Float64("latency_seconds", latency))
	logger := c.logger(ctx)
	switch {
	case err == nil:
		logger.Info(msg, fields...)
	case KindOf(err) != 0:
		logger.Info("order_"+op+"_rejected", append(fields, zap.Error(err))...)
	default:
		logger.Error("order_"+op+"_failed", append(fields, zap.Error(err))...)
	}
}

// logger prefers the request-scoped logger when the caller attached one.
func (c *Coordinator) logger(ctx context.Context) *zap.Logger {
	if l := logging.FromContext(ctx); l != zap.L() {
		return l
	}
	return c.log
}
