package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/MikeMC777/tienda-checkout/internal/order"
	"github.com/MikeMC777/tienda-checkout/internal/product"
	"github.com/MikeMC777/tienda-checkout/internal/stock"
)

type ledger struct{ v view }

func (l ledger) CheckAvailable(ctx context.Context, productID string, qty int) (bool, error) {
	if err := stock.ValidateLevel(qty); err != nil {
		return false, err
	}
	n, err := l.Available(ctx, productID)
	if err != nil {
		return false, err
	}
	return n >= qty, nil
}

func (l ledger) Available(_ context.Context, productID string) (n int, err error) {
	err = l.v.read(func() error {
		p, ok := l.v.s.products[productID]
		if !ok {
			return stock.ErrProductNotFound
		}
		n = p.Stock
		return nil
	})
	return n, err
}

// Decrease checks and subtracts under the write lock, so no other caller can
// interleave between the two.
func (l ledger) Decrease(_ context.Context, productID string, qty int) error {
	if err := stock.ValidateDelta(qty); err != nil {
		return err
	}
	return l.v.write(func(j *journal) error {
		p, ok := l.v.s.products[productID]
		if !ok {
			return stock.ErrProductNotFound
		}
		if p.Stock < qty {
			return fmt.Errorf("%w: product %s", stock.ErrInsufficientStock, productID)
		}
		l.adjust(j, p, p.Stock-qty)
		return nil
	})
}

func (l ledger) Increase(_ context.Context, productID string, qty int) error {
	if err := stock.ValidateDelta(qty); err != nil {
		return err
	}
	return l.v.write(func(j *journal) error {
		p, ok := l.v.s.products[productID]
		if !ok {
			return fmt.Errorf("increase stock for %s: %w", productID, stock.ErrProductNotFound)
		}
		l.adjust(j, p, p.Stock+qty)
		return nil
	})
}

func (l ledger) SetAbsolute(_ context.Context, productID string, qty int) error {
	if err := stock.ValidateLevel(qty); err != nil {
		return err
	}
	return l.v.write(func(j *journal) error {
		p, ok := l.v.s.products[productID]
		if !ok {
			return stock.ErrProductNotFound
		}
		l.adjust(j, p, qty)
		return nil
	})
}

func (l ledger) adjust(j *journal, p *product.Product, to int) {
	prevStock, prevUpdated := p.Stock, p.UpdatedAt
	p.Stock = to
	p.UpdatedAt = l.v.s.now()
	j.record(func() { p.Stock, p.UpdatedAt = prevStock, prevUpdated })
}

type products struct{ v view }

func (r products) Create(_ context.Context, p *product.Product) error {
	if err := stock.ValidateLevel(p.Stock); err != nil {
		return err
	}
	return r.v.write(func(j *journal) error {
		if _, ok := r.v.s.products[p.ID]; ok {
			return fmt.Errorf("product %s already exists", p.ID)
		}
		now := r.v.s.now()
		p.CreatedAt, p.UpdatedAt = now, now
		cp := *p
		r.v.s.products[p.ID] = &cp
		j.record(func() { delete(r.v.s.products, cp.ID) })
		return nil
	})
}

func (r products) GetProduct(_ context.Context, id string) (out *product.Product, err error) {
	err = r.v.read(func() error {
		p, ok := r.v.s.products[id]
		if !ok {
			return product.ErrNotFound
		}
		cp := *p
		out = &cp
		return nil
	})
	return out, err
}

func (r products) List(_ context.Context, q product.Query) (out []product.Product, err error) {
	q = q.Normalize()
	needle := strings.ToLower(q.Q)
	err = r.v.read(func() error {
		all := make([]product.Product, 0, len(r.v.s.products))
		for _, p := range r.v.s.products {
			if needle != "" &&
				!strings.Contains(strings.ToLower(p.Name), needle) &&
				!strings.Contains(strings.ToLower(p.Description), needle) {
				continue
			}
			all = append(all, *p)
		}
		sort.Slice(all, func(i, j int) bool {
			if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
				return all[i].CreatedAt.After(all[j].CreatedAt)
			}
			return all[i].ID < all[j].ID
		})
		out = []product.Product{}
		if q.Offset >= len(all) {
			return nil
		}
		end := q.Offset + q.Limit
		if end > len(all) {
			end = len(all)
		}
		out = append(out, all[q.Offset:end]...)
		return nil
	})
	return out, err
}

func (r products) Update(_ context.Context, p *product.Product, updatePrice bool) error {
	return r.v.write(func(j *journal) error {
		cur, ok := r.v.s.products[p.ID]
		if !ok {
			return product.ErrNotFound
		}
		prev := *cur
		if p.Name != "" {
			cur.Name = p.Name
		}
		if p.Description != "" {
			cur.Description = p.Description
		}
		if updatePrice {
			cur.Price = p.Price
		}
		cur.UpdatedAt = r.v.s.now()
		j.record(func() { *cur = prev })
		return nil
	})
}

// Delete removes the product and, like the foreign key does in Postgres, every
// cart line that references it. A product still on a pending or confirmed
// order is refused with product.ErrInUse.
func (r products) Delete(_ context.Context, id string) (bool, error) {
	var deleted bool
	err := r.v.write(func(j *journal) error {
		p, ok := r.v.s.products[id]
		if !ok {
			return nil
		}
		for oid, o := range r.v.s.orders {
			if o.Status != order.StatusPending && o.Status != order.StatusConfirmed {
				continue
			}
			for _, it := range r.v.s.items[oid] {
				if it.ProductID == id {
					return product.ErrInUse
				}
			}
		}
		delete(r.v.s.products, id)
		j.record(func() { r.v.s.products[id] = p })
		for lid, l := range r.v.s.lines {
			if l.ProductID == id {
				delete(r.v.s.lines, lid)
				l := l
				j.record(func() { r.v.s.lines[l.ID] = l })
			}
		}
		deleted = true
		return nil
	})
	return deleted, err
}
