package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"rentalstore-backend/internal/domain"
	"rentalstore-backend/internal/logger"
	"rentalstore-backend/internal/repository"

	"github.com/google/uuid"
)

const rentalColumns = `id, customer_id, customer_name, customer_phone, customer_is_gold,
	movie_id, movie_title, movie_daily_rental_rate, date_out, date_returned, rental_fee`

type rentalRepository struct {
	db DBTX
}

func NewRentalRepository(db DBTX) repository.RentalRepository {
	return &rentalRepository{db: db}
}

func scanRental(row rowScanner) (*domain.Rental, error) {
	rt := &domain.Rental{}
	var returned sql.NullTime
	var fee sql.NullFloat64
	err := row.Scan(
		&rt.ID,
		&rt.Customer.ID, &rt.Customer.Name, &rt.Customer.Phone, &rt.Customer.IsGold,
		&rt.Movie.ID, &rt.Movie.Title, &rt.Movie.DailyRentalRate,
		&rt.DateOut, &returned, &fee,
	)
	if err != nil {
		return nil, err
	}
	if returned.Valid {
		t := returned.Time
		rt.DateReturned = &t
	}
	if fee.Valid {
		f := fee.Float64
		rt.RentalFee = &f
	}
	return rt, nil
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	query := `INSERT INTO rentals (customer_id, customer_name, customer_phone, customer_is_gold,
	          movie_id, movie_title, movie_daily_rental_rate, date_out)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	logger.DatabaseCall("RentalCreate", query, "customer_id", rt.Customer.ID, "movie_id", rt.Movie.ID)
	err := r.db.QueryRowContext(ctx, query,
		rt.Customer.ID, rt.Customer.Name, rt.Customer.Phone, rt.Customer.IsGold,
		rt.Movie.ID, rt.Movie.Title, rt.Movie.DailyRentalRate, rt.DateOut,
	).Scan(&rt.ID)
	if err != nil {
		logger.DatabaseResult("RentalCreate", 0, err)
		if isUniqueViolation(err) {
			return domain.ErrRentalAlreadyOpen
		}
		return fmt.Errorf("failed to insert rental: %w", err)
	}
	logger.DatabaseResult("RentalCreate", 1, nil)
	return nil
}

func (r *rentalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Rental, error) {
	rt, err := scanRental(r.db.QueryRowContext(ctx, `SELECT `+rentalColumns+` FROM rentals WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return rt, nil
}

func (r *rentalRepository) List(ctx context.Context) ([]domain.Rental, error) {
	return r.query(ctx, `SELECT `+rentalColumns+` FROM rentals ORDER BY date_out DESC`)
}

func (r *rentalRepository) FindOpenByCustomerAndMovie(ctx context.Context, customerID, movieID uuid.UUID) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals
	          WHERE customer_id = $1 AND movie_id = $2 AND date_returned IS NULL
	          FOR UPDATE`
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, customerID, movieID))
	if err != nil {
		return nil, notFound(err)
	}
	return rt, nil
}

func (r *rentalRepository) FindLatestByCustomerAndMovie(ctx context.Context, customerID, movieID uuid.UUID) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals
	          WHERE customer_id = $1 AND movie_id = $2
	          ORDER BY date_out DESC LIMIT 1`
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, customerID, movieID))
	if err != nil {
		return nil, notFound(err)
	}
	return rt, nil
}

func (r *rentalRepository) Update(ctx context.Context, rt *domain.Rental) error {
	query := `UPDATE rentals SET date_returned=$1, rental_fee=$2 WHERE id=$3 AND date_returned IS NULL`
	logger.DatabaseCall("RentalUpdate", query, "rental_id", rt.ID)
	res, err := r.db.ExecContext(ctx, query, rt.DateReturned, rt.RentalFee, rt.ID)
	if err != nil {
		logger.DatabaseResult("RentalUpdate", 0, err)
		return fmt.Errorf("failed to update rental: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update rental: %w", err)
	}
	logger.DatabaseResult("RentalUpdate", n, nil)
	if n == 0 {
		return domain.ErrAlreadyProcessed
	}
	return nil
}

func (r *rentalRepository) Delete(ctx context.Context, id uuid.UUID) (*domain.Rental, error) {
	rt, err := scanRental(r.db.QueryRowContext(ctx, `DELETE FROM rentals WHERE id = $1 RETURNING `+rentalColumns, id))
	if err != nil {
		return nil, notFound(err)
	}
	return rt, nil
}

func (r *rentalRepository) ListOutstanding(ctx context.Context, before time.Time) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals
	          WHERE date_returned IS NULL AND date_out < $1
	          ORDER BY date_out`
	return r.query(ctx, query, before)
}

func (r *rentalRepository) CountOutstandingByMovie(ctx context.Context) (map[uuid.UUID]int, error) {
	query := `SELECT movie_id, COUNT(*) FROM rentals WHERE date_returned IS NULL GROUP BY movie_id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int)
	for rows.Next() {
		var movieID uuid.UUID
		var n int
		if err := rows.Scan(&movieID, &n); err != nil {
			return nil, err
		}
		counts[movieID] = n
	}
	return counts, rows.Err()
}

func (r *rentalRepository) query(ctx context.Context, query string, args ...any) ([]domain.Rental, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rentals := []domain.Rental{}
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, rows.Err()
}
