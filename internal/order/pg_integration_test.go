package order_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/tienda-checkout/internal/cart"
	"github.com/MikeMC777/tienda-checkout/internal/db/dbtest"
	"github.com/MikeMC777/tienda-checkout/internal/order"
	"github.com/MikeMC777/tienda-checkout/internal/product"
	"github.com/MikeMC777/tienda-checkout/internal/stock"
)

func TestPostgresWorkflow(t *testing.T) {
	pool := dbtest.Postgres(t)
	ctx := context.Background()

	carts := cart.NewPGRepo(pool)
	ledger := stock.NewPGLedger(pool)
	coord := order.NewCoordinator(order.NewPGUnitOfWork(pool), order.NewPGRepo(pool))

	dbtest.SeedProduct(t, pool, "p1", "Keyboard", "10.00", 10)
	dbtest.SeedProduct(t, pool, "p2", "Mouse", "5.00", 3)
	dbtest.SeedProduct(t, pool, "p3", "Monitor", "100.00", 5)

	available := func(id string) int {
		n, err := ledger.Available(ctx, id)
		require.NoError(t, err)
		return n
	}

	t.Run("create then cancel", func(t *testing.T) {
		_, err := carts.UpsertLine(ctx, "u1", "p1", 1)
		require.NoError(t, err)
		_, err = carts.UpsertLine(ctx, "u1", "p1", 1)
		require.NoError(t, err)
		_, err = carts.UpsertLine(ctx, "u1", "p2", 1)
		require.NoError(t, err)

		o, err := coord.CreateOrder(ctx, "u1", "Calle 1")
		require.NoError(t, err)
		assert.True(t, o.TotalAmount.Equal(decimal.RequireFromString("25.00")))
		assert.Equal(t, 8, available("p1"))
		assert.Equal(t, 2, available("p2"))

		lines, err := carts.GetLines(ctx, "u1")
		require.NoError(t, err)
		assert.Empty(t, lines)

		stored, err := coord.GetOrder(ctx, o.ID)
		require.NoError(t, err)
		require.Len(t, stored.Items, 2)
		assert.True(t, stored.TotalAmount.Equal(order.SumItems(stored.Items)))

		require.NoError(t, coord.CancelOrder(ctx, o.ID, "u1"))
		require.NoError(t, coord.CancelOrder(ctx, o.ID, "u1"))
		assert.Equal(t, 10, available("p1"))
		assert.Equal(t, 3, available("p2"))
	})

	t.Run("failed line rolls back the whole unit", func(t *testing.T) {
		_, err := carts.UpsertLine(ctx, "u2", "p1", 2)
		require.NoError(t, err)
		_, err = carts.UpsertLine(ctx, "u2", "p2", 4)
		require.NoError(t, err)

		_, err = coord.CreateOrder(ctx, "u2", "Calle 2")
		assert.ErrorIs(t, err, order.ErrInsufficientStock)
		assert.Equal(t, 10, available("p1"))
		assert.Equal(t, 3, available("p2"))

		lines, err := carts.GetLines(ctx, "u2")
		require.NoError(t, err)
		assert.Len(t, lines, 2)
		require.NoError(t, carts.DeleteAllForUser(ctx, "u2"))
	})

	t.Run("concurrent orders race on one row", func(t *testing.T) {
		for _, u := range []string{"u3", "u4"} {
			_, err := carts.UpsertLine(ctx, u, "p3", 3)
			require.NoError(t, err)
		}

		var (
			wg           sync.WaitGroup
			ok, rejected atomic.Int32
		)
		for _, u := range []string{"u3", "u4"} {
			wg.Add(1)
			go func(userID string) {
				defer wg.Done()
				_, err := coord.CreateOrder(ctx, userID, "addr")
				switch {
				case err == nil:
					ok.Add(1)
				case errors.Is(err, order.ErrInsufficientStock):
					rejected.Add(1)
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}(u)
		}
		wg.Wait()

		assert.Equal(t, int32(1), ok.Load())
		assert.Equal(t, int32(1), rejected.Load())
		assert.Equal(t, 2, available("p3"))
	})

	t.Run("double submitted checkout places one order", func(t *testing.T) {
		_, err := carts.UpsertLine(ctx, "u5", "p1", 1)
		require.NoError(t, err)

		var (
			wg        sync.WaitGroup
			ok, empty atomic.Int32
		)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := coord.CreateOrder(ctx, "u5", "addr")
				switch {
				case err == nil:
					ok.Add(1)
				case errors.Is(err, order.ErrEmptyCart):
					empty.Add(1)
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), ok.Load())
		assert.Equal(t, int32(1), empty.Load())
		assert.Equal(t, 9, available("p1"))
		mine, err := coord.ListOrdersForUser(ctx, "u5")
		require.NoError(t, err)
		assert.Len(t, mine, 1)
	})

	t.Run("product on an open order cannot be deleted", func(t *testing.T) {
		products := product.NewPGRepo(pool)
		dbtest.SeedProduct(t, pool, "p4", "Cable", "1.00", 4)
		_, err := carts.UpsertLine(ctx, "u6", "p4", 2)
		require.NoError(t, err)
		o, err := coord.CreateOrder(ctx, "u6", "addr")
		require.NoError(t, err)

		ok, err := products.Delete(ctx, "p4")
		assert.ErrorIs(t, err, product.ErrInUse)
		assert.False(t, ok)

		require.NoError(t, coord.CancelOrder(ctx, o.ID, "u6"))
		assert.Equal(t, 4, available("p4"))
		ok, err = products.Delete(ctx, "p4")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
