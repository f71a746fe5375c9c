package postgres

import (
	"context"

	"rentalstore-backend/internal/domain"
	"rentalstore-backend/internal/repository"

	"github.com/google/uuid"
)

type genreRepository struct {
	db DBTX
}

func NewGenreRepository(db DBTX) repository.GenreRepository {
	return &genreRepository{db: db}
}

func (r *genreRepository) Create(ctx context.Context, g *domain.Genre) error {
	query := `INSERT INTO genres (name) VALUES ($1) RETURNING id`
	return r.db.QueryRowContext(ctx, query, g.Name).Scan(&g.ID)
}

func (r *genreRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Genre, error) {
	g := &domain.Genre{}
	query := `SELECT id, name FROM genres WHERE id = $1`
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&g.ID, &g.Name); err != nil {
		return nil, notFound(err)
	}
	return g, nil
}

func (r *genreRepository) List(ctx context.Context) ([]domain.Genre, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM genres ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	genres := []domain.Genre{}
	for rows.Next() {
		var g domain.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}

func (r *genreRepository) Update(ctx context.Context, g *domain.Genre) error {
	res, err := r.db.ExecContext(ctx, `UPDATE genres SET name=$1 WHERE id=$2`, g.Name, g.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *genreRepository) Delete(ctx context.Context, id uuid.UUID) (*domain.Genre, error) {
	g := &domain.Genre{}
	query := `DELETE FROM genres WHERE id = $1 RETURNING id, name`
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&g.ID, &g.Name); err != nil {
		return nil, notFound(err)
	}
	return g, nil
}
