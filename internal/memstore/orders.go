package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/MikeMC777/tienda-checkout/internal/order"
)

type orders struct{ v view }

func (r orders) Insert(_ context.Context, o *order.Order, items []order.Item) error {
	return r.v.write(func(j *journal) error {
		if _, ok := r.v.s.orders[o.ID]; ok {
			return fmt.Errorf("order %s already exists", o.ID)
		}
		cp := *o
		cp.Items = nil
		r.v.s.orders[o.ID] = &cp
		stored := make([]order.Item, len(items))
		for i, it := range items {
			it.OrderID = o.ID
			stored[i] = it
		}
		r.v.s.items[o.ID] = stored
		j.record(func() {
			delete(r.v.s.orders, o.ID)
			delete(r.v.s.items, o.ID)
		})
		return nil
	})
}

func (r orders) FindByID(_ context.Context, id string) (out *order.Order, err error) {
	err = r.v.read(func() error {
		o, ok := r.v.s.orders[id]
		if !ok {
			return order.ErrNotFound
		}
		cp := *o
		out = &cp
		return nil
	})
	return out, err
}

func (r orders) FindByUserID(_ context.Context, userID string) ([]order.Order, error) {
	return r.list(func(o *order.Order) bool { return o.UserID == userID })
}

func (r orders) FindAll(_ context.Context) ([]order.Order, error) {
	return r.list(func(*order.Order) bool { return true })
}

func (r orders) list(keep func(*order.Order) bool) (out []order.Order, err error) {
	out = []order.Order{}
	err = r.v.read(func() error {
		for _, o := range r.v.s.orders {
			if keep(o) {
				out = append(out, *o)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

func (r orders) Items(_ context.Context, orderID string) (out []order.Item, err error) {
	err = r.v.read(func() error {
		out = append([]order.Item{}, r.v.s.items[orderID]...)
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

func (r orders) UpdateStatus(_ context.Context, id string, from, to order.Status) (bool, error) {
	var swapped bool
	err := r.v.write(func(j *journal) error {
		o, ok := r.v.s.orders[id]
		if !ok || o.Status != from {
			return nil
		}
		prevStatus, prevUpdated := o.Status, o.UpdatedAt
		o.Status = to
		o.UpdatedAt = r.v.s.now()
		j.record(func() { o.Status, o.UpdatedAt = prevStatus, prevUpdated })
		swapped = true
		return nil
	})
	return swapped, err
}

func (r orders) Delete(_ context.Context, id string) (bool, error) {
	var deleted bool
	err := r.v.write(func(j *journal) error {
		o, ok := r.v.s.orders[id]
		if !ok {
			return nil
		}
		items := r.v.s.items[id]
		delete(r.v.s.orders, id)
		delete(r.v.s.items, id)
		j.record(func() {
			r.v.s.orders[id] = o
			r.v.s.items[id] = items
		})
		deleted = true
		return nil
	})
	return deleted, err
}
