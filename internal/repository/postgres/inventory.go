package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rentalstore-backend/internal/domain"
	"rentalstore-backend/internal/logger"
	"rentalstore-backend/internal/repository"

	"github.com/google/uuid"
)

type inventoryLedger struct {
	db DBTX
}

func NewInventoryLedger(db DBTX) repository.InventoryLedger {
	return &inventoryLedger{db: db}
}

// Decrement relies on the WHERE clause for atomicity: two concurrent callers
// cannot both take the last unit because the second UPDATE re-evaluates the
// predicate against the committed row.
func (l *inventoryLedger) Decrement(ctx context.Context, movieID uuid.UUID) error {
	query := `UPDATE movies SET number_in_stock = number_in_stock - 1 WHERE id = $1 AND number_in_stock > 0`
	logger.DatabaseCall("InventoryDecrement", query, "movie_id", movieID)
	res, err := l.db.ExecContext(ctx, query, movieID)
	if err != nil {
		logger.DatabaseResult("InventoryDecrement", 0, err)
		return fmt.Errorf("failed to decrement stock: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}
	logger.DatabaseResult("InventoryDecrement", n, nil)
	if n == 1 {
		return nil
	}
	if _, err := l.Stock(ctx, movieID); err != nil {
		return err
	}
	return domain.ErrInsufficientStock
}

func (l *inventoryLedger) Increment(ctx context.Context, movieID uuid.UUID) error {
	query := `UPDATE movies SET number_in_stock = number_in_stock + 1 WHERE id = $1`
	logger.DatabaseCall("InventoryIncrement", query, "movie_id", movieID)
	res, err := l.db.ExecContext(ctx, query, movieID)
	if err != nil {
		logger.DatabaseResult("InventoryIncrement", 0, err)
		return fmt.Errorf("failed to increment stock: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to increment stock: %w", err)
	}
	logger.DatabaseResult("InventoryIncrement", n, nil)
	if n == 0 {
		return domain.NewInvalidReference("movie")
	}
	return nil
}

// Stock returns an invalid movie reference when the movie does not exist.
func (l *inventoryLedger) Stock(ctx context.Context, movieID uuid.UUID) (int, error) {
	var stock int
	err := l.db.QueryRowContext(ctx, `SELECT number_in_stock FROM movies WHERE id = $1`, movieID).Scan(&stock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.NewInvalidReference("movie")
		}
		return 0, err
	}
	return stock, nil
}

func (l *inventoryLedger) ListOutOfStock(ctx context.Context) ([]domain.Movie, error) {
	return queryMovies(ctx, l.db, `SELECT `+movieColumns+` FROM movies WHERE number_in_stock <= 0 ORDER BY title`)
}
