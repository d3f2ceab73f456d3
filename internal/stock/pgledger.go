package stock

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/MikeMC777/tienda-checkout/internal/db"
)

// PGLedger keeps the counter in products.stock. Decrease is a single
// conditional UPDATE, so two transactions racing on the same row serialize on
// the row lock and the loser re-evaluates the predicate against the winner's value.
type PGLedger struct{ db db.DBTX }

func NewPGLedger(conn db.DBTX) *PGLedger { return &PGLedger{db: conn} }

func (l *PGLedger) CheckAvailable(ctx context.Context, productID string, qty int) (bool, error) {
	if err := ValidateLevel(qty); err != nil {
		return false, err
	}
	n, err := l.Available(ctx, productID)
	if err != nil {
		return false, err
	}
	return n >= qty, nil
}

func (l *PGLedger) Available(ctx context.Context, productID string) (int, error) {
	var n int
	err := l.db.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1`, productID).Scan(&n)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrProductNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("read stock: %w", err)
	}
	return n, nil
}

func (l *PGLedger) Decrease(ctx context.Context, productID string, qty int) error {
	if err := ValidateDelta(qty); err != nil {
		return err
	}
	tag, err := l.db.Exec(ctx, `
		UPDATE products
		SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1 AND stock >= $2
	`, productID, qty)
	if err != nil {
		return fmt.Errorf("decrease stock: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	// Nothing matched: tell a missing product apart from a short counter.
	if _, err := l.Available(ctx, productID); err != nil {
		return err
	}
	return fmt.Errorf("%w: product %s", ErrInsufficientStock, productID)
}

func (l *PGLedger) Increase(ctx context.Context, productID string, qty int) error {
	if err := ValidateDelta(qty); err != nil {
		return err
	}
	tag, err := l.db.Exec(ctx, `
		UPDATE products
		SET stock = stock + $2, updated_at = NOW()
		WHERE id = $1
	`, productID, qty)
	if err != nil {
		return fmt.Errorf("increase stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("increase stock for %s: %w", productID, ErrProductNotFound)
	}
	return nil
}

func (l *PGLedger) SetAbsolute(ctx context.Context, productID string, qty int) error {
	if err := ValidateLevel(qty); err != nil {
		return err
	}
	tag, err := l.db.Exec(ctx, `
		UPDATE products
		SET stock = $2, updated_at = NOW()
		WHERE id = $1
	`, productID, qty)
	if err != nil {
		return fmt.Errorf("set stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}
