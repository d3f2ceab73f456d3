// Package memstore implements every store contract in memory. One RWMutex
// guards all tables; a unit of work holds it for its whole duration and keeps
// an undo journal so a failed unit leaves no trace.
//
// Units never interleave here, so a concurrency test that passes against this
// store says nothing about row locking or isolation in Postgres. Those
// properties are covered by the testcontainers suites.
package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MikeMC777/tienda-checkout/internal/cart"
	"github.com/MikeMC777/tienda-checkout/internal/order"
	"github.com/MikeMC777/tienda-checkout/internal/product"
	"github.com/MikeMC777/tienda-checkout/internal/stock"
	"github.com/MikeMC777/tienda-checkout/internal/user"
)

type Store struct {
	mu       sync.RWMutex
	products map[string]*product.Product
	lines    map[string]*cart.Line
	orders   map[string]*order.Order
	items    map[string][]order.Item
	users    map[string]*user.User
	now      func() time.Time
}

type Option func(*Store)

func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

func New(opts ...Option) *Store {
	s := &Store{
		products: make(map[string]*product.Product),
		lines:    make(map[string]*cart.Line),
		orders:   make(map[string]*order.Order),
		items:    make(map[string][]order.Item),
		users:    make(map[string]*user.User),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Ledger() stock.Ledger { return ledger{s.view()} }
func (s *Store) Carts() cart.Store { return carts{s.view()} }
func (s *Store) Products() product.Repository { return products{s.view()} }
func (s *Store) Orders() order.Store { return orders{s.view()} }
func (s *Store) Users() user.Repository { return users{s.view()} }

// Do runs fn as one unit of work. It satisfies order.UnitOfWork.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, tx order.Tx) error) (err error) {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	j := &journal{}
	defer func() {
		if r := recover(); r != nil {
			j.rollback()
			panic(r)
		}
		if err != nil {
			j.rollback()
		}
	}()
	return fn(ctx, unit{view{s: s, j: j}})
}

var _ order.UnitOfWork = (*Store)(nil)

type unit struct{ v view }

func (u unit) Stock() stock.Ledger { return ledger{u.v} }
func (u unit) Carts() cart.Store { return carts{u.v} }
func (u unit) Catalog() product.Catalog { return products{u.v} }
func (u unit) Orders() order.Store { return orders{u.v} }

// journal records how to undo each mutation of a unit of work.
type journal struct{ undo []func() }

func (j *journal) record(fn func()) {
	if j != nil {
		j.undo = append(j.undo, fn)
	}
}

func (j *journal) rollback() {
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
	j.undo = nil
}

// view is a handle on the tables. Outside a unit of work (j == nil) every call
// takes the lock itself; inside one the unit already holds it.
type view struct {
	s *Store
	j *journal
}

func (s *Store) view() view { return view{s: s} }

func (v view) read(fn func() error) error {
	if v.j == nil {
		v.s.mu.RLock()
		defer v.s.mu.RUnlock()
	}
	return fn()
}

func (v view) write(fn func(j *journal) error) error {
	if v.j == nil {
		v.s.mu.Lock()
		defer v.s.mu.Unlock()
	}
	return fn(v.j)
}

func ctxErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("memstore: %w", err)
	}
	return nil
}
