package postgres

import (
	"context"

	"rentalstore-backend/internal/domain"
	"rentalstore-backend/internal/repository"

	"github.com/google/uuid"
)

const movieColumns = `id, title, genre_id, genre_name, number_in_stock, daily_rental_rate`

type movieRepository struct {
	db DBTX
}

func NewMovieRepository(db DBTX) repository.MovieRepository {
	return &movieRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovie(row rowScanner) (*domain.Movie, error) {
	m := &domain.Movie{}
	err := row.Scan(&m.ID, &m.Title, &m.Genre.ID, &m.Genre.Name, &m.NumberInStock, &m.DailyRentalRate)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *movieRepository) Create(ctx context.Context, m *domain.Movie) error {
	query := `INSERT INTO movies (title, genre_id, genre_name, number_in_stock, daily_rental_rate)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	return r.db.QueryRowContext(ctx, query, m.Title, m.Genre.ID, m.Genre.Name, m.NumberInStock, m.DailyRentalRate).Scan(&m.ID)
}

func (r *movieRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Movie, error) {
	m, err := scanMovie(r.db.QueryRowContext(ctx, `SELECT `+movieColumns+` FROM movies WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return m, nil
}

func (r *movieRepository) List(ctx context.Context) ([]domain.Movie, error) {
	return queryMovies(ctx, r.db, `SELECT `+movieColumns+` FROM movies ORDER BY title`)
}

func (r *movieRepository) Update(ctx context.Context, m *domain.Movie) error {
	query := `UPDATE movies SET title=$1, genre_id=$2, genre_name=$3, number_in_stock=$4, daily_rental_rate=$5 WHERE id=$6`
	res, err := r.db.ExecContext(ctx, query, m.Title, m.Genre.ID, m.Genre.Name, m.NumberInStock, m.DailyRentalRate, m.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *movieRepository) Delete(ctx context.Context, id uuid.UUID) (*domain.Movie, error) {
	m, err := scanMovie(r.db.QueryRowContext(ctx, `DELETE FROM movies WHERE id = $1 RETURNING `+movieColumns, id))
	if err != nil {
		return nil, notFound(err)
	}
	return m, nil
}

func queryMovies(ctx context.Context, db DBTX, query string, args ...any) ([]domain.Movie, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := []domain.Movie{}
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, *m)
	}
	return movies, rows.Err()
}
