// Package cart keeps per-user cart lines and prices them against the catalog.
package cart

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/tienda-checkout/internal/product"
	"github.com/MikeMC777/tienda-checkout/internal/stock"
)

// Aggregator computes priced views of a cart and applies cart mutations.
// Stock checks made here are advisory; the order workflow decides for real.
type Aggregator struct {
	store   Store
	catalog product.Catalog
	ledger  stock.Ledger
}

func NewAggregator(store Store, catalog product.Catalog, ledger stock.Ledger) *Aggregator {
	return &Aggregator{store: store, catalog: catalog, ledger: ledger}
}

// GetLines returns the user's lines joined with live name and price.
func (a *Aggregator) GetLines(ctx context.Context, userID string) ([]PricedLine, error) {
	lines, err := a.store.GetLines(ctx, userID)
	if err != nil {
		return nil, err
	}
	return a.price(ctx, lines)
}

// LockLines is GetLines for checkout: the lines come back ordered by product
// id and stay locked until the surrounding unit of work ends, so a second
// checkout of the same cart waits and then sees what the first one left.
func (a *Aggregator) LockLines(ctx context.Context, userID string) ([]PricedLine, error) {
	lines, err := a.store.LockLines(ctx, userID)
	if err != nil {
		return nil, err
	}
	return a.price(ctx, lines)
}

func (a *Aggregator) price(ctx context.Context, lines []Line) ([]PricedLine, error) {
	out := make([]PricedLine, 0, len(lines))
	for _, l := range lines {
		p, err := a.catalog.GetProduct(ctx, l.ProductID)
		if err != nil {
			return nil, fmt.Errorf("price cart line %s: %w", l.ID, err)
		}
		out = append(out, PricedLine{
			Line:        l,
			ProductName: p.Name,
			UnitPrice:   p.Price,
			Subtotal:    p.Price.Mul(decimal.NewFromInt(int64(l.Quantity))),
		})
	}
	return out, nil
}

func (a *Aggregator) Total(ctx context.Context, userID string) (decimal.Decimal, error) {
	v, err := a.View(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return v.Total, nil
}

func (a *Aggregator) View(ctx context.Context, userID string) (*View, error) {
	lines, err := a.GetLines(ctx, userID)
	if err != nil {
		return nil, err
	}
	v := &View{Lines: lines, Total: decimal.Zero}
	for _, l := range lines {
		v.Total = v.Total.Add(l.Subtotal)
		v.Count += l.Quantity
	}
	return v, nil
}

// Count is the number of units across all lines.
func (a *Aggregator) Count(ctx context.Context, userID string) (int, error) {
	lines, err := a.store.GetLines(ctx, userID)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n, nil
}

func (a *Aggregator) Contains(ctx context.Context, userID, productID string) (bool, error) {
	line, err := a.lineFor(ctx, userID, productID)
	if err != nil {
		return false, err
	}
	return line != nil, nil
}

// Clear removes every line of the user. Clearing an empty cart is not an error.
func (a *Aggregator) Clear(ctx context.Context, userID string) error {
	return a.store.DeleteAllForUser(ctx, userID)
}

// RemoveLines deletes exactly the given lines. Lines added after they were
// read survive.
func (a *Aggregator) RemoveLines(ctx context.Context, userID string, lines []PricedLine) error {
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ID)
	}
	return a.store.DeleteLines(ctx, userID, ids)
}

// Add merges qty into the user's line for productID, creating it if needed.
// The merged quantity must currently be in stock.
func (a *Aggregator) Add(ctx context.Context, userID, productID string, qty int) (*Line, error) {
	if err := stock.ValidateDelta(qty); err != nil {
		return nil, err
	}
	if _, err := a.catalog.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	existing, err := a.lineFor(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	want := qty
	if existing != nil {
		want += existing.Quantity
	}
	if err := a.checkStock(ctx, productID, want); err != nil {
		return nil, err
	}
	return a.store.UpsertLine(ctx, userID, productID, qty)
}

// UpdateQuantity sets the quantity of the line identified by lineID, which must
// belong to userID.
func (a *Aggregator) UpdateQuantity(ctx context.Context, userID, lineID string, qty int) (*Line, error) {
	if err := stock.ValidateDelta(qty); err != nil {
		return nil, err
	}
	line, err := a.store.GetLine(ctx, userID, lineID)
	if err != nil {
		return nil, err
	}
	if err := a.checkStock(ctx, line.ProductID, qty); err != nil {
		return nil, err
	}
	return a.store.SetQuantity(ctx, userID, lineID, qty)
}

func (a *Aggregator) Remove(ctx context.Context, userID, lineID string) error {
	return a.store.DeleteLine(ctx, userID, lineID)
}

func (a *Aggregator) checkStock(ctx context.Context, productID string, qty int) error {
	ok, err := a.ledger.CheckAvailable(ctx, productID, qty)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: product %s", stock.ErrInsufficientStock, productID)
	}
	return nil
}

func (a *Aggregator) lineFor(ctx context.Context, userID, productID string) (*Line, error) {
	lines, err := a.store.GetLines(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range lines {
		if lines[i].ProductID == productID {
			return &lines[i], nil
		}
	}
	return nil, nil
}
