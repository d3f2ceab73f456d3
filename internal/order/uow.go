package order

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeMC777/tienda-checkout/internal/cart"
	"github.com/MikeMC777/tienda-checkout/internal/product"
	"github.com/MikeMC777/tienda-checkout/internal/stock"
)

// Tx is the set of stores bound to one unit of work. Everything done through
// them inside UnitOfWork.Do commits together or not at all.
type Tx interface {
	Stock() stock.Ledger
	Carts() cart.Store
	Catalog() product.Catalog
	Orders() Store
}

// UnitOfWork runs fn atomically. A non-nil error from fn, or a panic, reverts
// every mutation fn made; other callers never observe an intermediate state.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// PGUnitOfWork maps a unit of work onto one pgx transaction.
type PGUnitOfWork struct{ pool *pgxpool.Pool }

func NewPGUnitOfWork(pool *pgxpool.Pool) *PGUnitOfWork { return &PGUnitOfWork{pool: pool} }

func (u *PGUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	tx, err := u.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, pgTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type pgTx struct{ tx pgx.Tx }

func (t pgTx) Stock() stock.Ledger { return stock.NewPGLedger(t.tx) }
func (t pgTx) Carts() cart.Store { return cart.NewPGRepo(t.tx) }
func (t pgTx) Catalog() product.Catalog { return product.NewPGRepo(t.tx) }
func (t pgTx) Orders() Store { return NewPGRepo(t.tx) }
