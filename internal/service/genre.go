package service

import (
	"context"

	"rentalstore-backend/internal/domain"
	"rentalstore-backend/internal/repository"

	"github.com/google/uuid"
)

type genreService struct {
	genreRepo repository.GenreRepository
}

func NewGenreService(genreRepo repository.GenreRepository) GenreService {
	return &genreService{genreRepo: genreRepo}
}

func (s *genreService) ListGenres(ctx context.Context) ([]domain.Genre, error) {
	return s.genreRepo.List(ctx)
}

func (s *genreService) GetGenre(ctx context.Context, id uuid.UUID) (*domain.Genre, error) {
	return s.genreRepo.GetByID(ctx, id)
}

func (s *genreService) CreateGenre(ctx context.Context, g *domain.Genre) error {
	if err := g.Validate(); err != nil {
		return err
	}
	return s.genreRepo.Create(ctx, g)
}

func (s *genreService) UpdateGenre(ctx context.Context, g *domain.Genre) error {
	if err := g.Validate(); err != nil {
		return err
	}
	return s.genreRepo.Update(ctx, g)
}

func (s *genreService) DeleteGenre(ctx context.Context, id uuid.UUID) (*domain.Genre, error) {
	return s.genreRepo.Delete(ctx, id)
}
