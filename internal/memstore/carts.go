package memstore

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/MikeMC777/tienda-checkout/internal/cart"
	"github.com/MikeMC777/tienda-checkout/internal/product"
)

type carts struct{ v view }

func (c carts) GetLines(_ context.Context, userID string) (out []cart.Line, err error) {
	err = c.v.read(func() error {
		for _, l := range c.v.s.lines {
			if l.UserID == userID {
				out = append(out, *l)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

// LockLines is GetLines ordered by product id. Inside a unit of work the
// store lock already excludes other checkouts.
func (c carts) LockLines(ctx context.Context, userID string) ([]cart.Line, error) {
	out, err := c.GetLines(ctx, userID)
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, err
}

func (c carts) GetLine(_ context.Context, userID, lineID string) (out *cart.Line, err error) {
	err = c.v.read(func() error {
		l, ok := c.v.s.lines[lineID]
		if !ok || l.UserID != userID {
			return cart.ErrLineNotFound
		}
		cp := *l
		out = &cp
		return nil
	})
	return out, err
}

// UpsertLine adds qty to the user's line for productID in one locked step.
func (c carts) UpsertLine(_ context.Context, userID, productID string, qty int) (out *cart.Line, err error) {
	err = c.v.write(func(j *journal) error {
		if _, ok := c.v.s.products[productID]; !ok {
			return product.ErrNotFound
		}
		now := c.v.s.now()
		for _, l := range c.v.s.lines {
			if l.UserID == userID && l.ProductID == productID {
				prev := *l
				l.Quantity += qty
				l.UpdatedAt = now
				j.record(func() { *l = prev })
				cp := *l
				out = &cp
				return nil
			}
		}
		l := &cart.Line{
			ID:        uuid.NewString(),
			UserID:    userID,
			ProductID: productID,
			Quantity:  qty,
			CreatedAt: now,
			UpdatedAt: now,
		}
		c.v.s.lines[l.ID] = l
		j.record(func() { delete(c.v.s.lines, l.ID) })
		cp := *l
		out = &cp
		return nil
	})
	return out, err
}

func (c carts) SetQuantity(_ context.Context, userID, lineID string, qty int) (out *cart.Line, err error) {
	err = c.v.write(func(j *journal) error {
		l, ok := c.v.s.lines[lineID]
		if !ok || l.UserID != userID {
			return cart.ErrLineNotFound
		}
		prev := *l
		l.Quantity = qty
		l.UpdatedAt = c.v.s.now()
		j.record(func() { *l = prev })
		cp := *l
		out = &cp
		return nil
	})
	return out, err
}

func (c carts) DeleteLine(_ context.Context, userID, lineID string) error {
	return c.v.write(func(j *journal) error {
		l, ok := c.v.s.lines[lineID]
		if !ok || l.UserID != userID {
			return cart.ErrLineNotFound
		}
		delete(c.v.s.lines, lineID)
		j.record(func() { c.v.s.lines[lineID] = l })
		return nil
	})
}

func (c carts) DeleteAllForUser(_ context.Context, userID string) error {
	return c.v.write(func(j *journal) error {
		for id, l := range c.v.s.lines {
			if l.UserID != userID {
				continue
			}
			delete(c.v.s.lines, id)
			l := l
			j.record(func() { c.v.s.lines[l.ID] = l })
		}
		return nil
	})
}

func (c carts) DeleteLines(_ context.Context, userID string, lineIDs []string) error {
	return c.v.write(func(j *journal) error {
		for _, id := range lineIDs {
			l, ok := c.v.s.lines[id]
			if !ok || l.UserID != userID {
				continue
			}
			delete(c.v.s.lines, id)
			j.record(func() { c.v.s.lines[l.ID] = l })
		}
		return nil
	})
}
