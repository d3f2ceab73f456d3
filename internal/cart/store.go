package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/MikeMC777/tienda-checkout/internal/db"
)

var ErrLineNotFound = errors.New("cart: line not found")

// Store persists cart lines. UpsertLine must add to an existing line's
// quantity in one step so rapid double submissions are not lost.
type Store interface {
	GetLines(ctx context.Context, userID string) ([]Line, error)
	// LockLines reads the user's lines ordered by product id and holds them
	// against concurrent checkouts until the unit of work ends.
	LockLines(ctx context.Context, userID string) ([]Line, error)
	GetLine(ctx context.Context, userID, lineID string) (*Line, error)
	UpsertLine(ctx context.Context, userID, productID string, qty int) (*Line, error)
	SetQuantity(ctx context.Context, userID, lineID string, qty int) (*Line, error)
	DeleteLine(ctx context.Context, userID, lineID string) error
	DeleteAllForUser(ctx context.Context, userID string) error
	// DeleteLines removes only the given lines of the user.
	DeleteLines(ctx context.Context, userID string, lineIDs []string) error
}

type PGRepo struct{ db db.DBTX }

func NewPGRepo(conn db.DBTX) *PGRepo { return &PGRepo{db: conn} }

const lineColumns = `id, user_id, product_id, quantity, created_at, updated_at`

func (r *PGRepo) GetLines(ctx context.Context, userID string) ([]Line, error) {
	return r.lines(ctx, `
		SELECT `+lineColumns+`
		FROM cart_items WHERE user_id = $1
		ORDER BY created_at, id
	`, userID)
}

// LockLines takes row locks on the user's lines. Run outside a transaction
// the locks are released as soon as the statement ends.
func (r *PGRepo) LockLines(ctx context.Context, userID string) ([]Line, error) {
	return r.lines(ctx, `
		SELECT `+lineColumns+`
		FROM cart_items WHERE user_id = $1
		ORDER BY product_id
		FOR UPDATE
	`, userID)
}

func (r *PGRepo) lines(ctx context.Context, sql string, userID string) ([]Line, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, sql, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart lines: %w", err)
	}
	defer rows.Close()

	var out []Line
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

func (r *PGRepo) GetLine(ctx context.Context, userID, lineID string) (*Line, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	l, err := scanLine(r.db.QueryRow(ctx, `
		SELECT `+lineColumns+`
		FROM cart_items WHERE id = $1 AND user_id = $2
	`, lineID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrLineNotFound
	}
	return l, err
}

func (r *PGRepo) UpsertLine(ctx context.Context, userID, productID string, qty int) (*Line, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	l, err := scanLine(r.db.QueryRow(ctx, `
		INSERT INTO cart_items (id, user_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
		RETURNING `+lineColumns,
		uuid.NewString(), userID, productID, qty))
	if err != nil {
		return nil, fmt.Errorf("upsert cart line: %w", err)
	}
	return l, nil
}

func (r *PGRepo) SetQuantity(ctx context.Context, userID, lineID string, qty int) (*Line, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	l, err := scanLine(r.db.QueryRow(ctx, `
		UPDATE cart_items SET quantity = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING `+lineColumns,
		lineID, userID, qty))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrLineNotFound
	}
	return l, err
}

func (r *PGRepo) DeleteLine(ctx context.Context, userID, lineID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE id = $1 AND user_id = $2`, lineID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrLineNotFound
	}
	return nil
}

func (r *PGRepo) DeleteAllForUser(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	return err
}

func (r *PGRepo) DeleteLines(ctx context.Context, userID string, lineIDs []string) error {
	if len(lineIDs) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1 AND id = ANY($2)`, userID, lineIDs)
	return err
}

func scanLine(row pgx.Row) (*Line, error) {
	var l Line
	if err := row.Scan(&l.ID, &l.UserID, &l.ProductID, &l.Quantity, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}
