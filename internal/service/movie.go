package service

import (
	"context"
	"errors"

	"rentalstore-backend/internal/domain"
	"rentalstore-backend/internal/repository"

	"github.com/google/uuid"
)

type movieService struct {
	movieRepo repository.MovieRepository
	genreRepo repository.GenreRepository
}

func NewMovieService(movieRepo repository.MovieRepository, genreRepo repository.GenreRepository) MovieService {
	return &movieService{
		movieRepo: movieRepo,
		genreRepo: genreRepo,
	}
}

func (s *movieService) ListMovies(ctx context.Context) ([]domain.Movie, error) {
	return s.movieRepo.List(ctx)
}

func (s *movieService) GetMovie(ctx context.Context, id uuid.UUID) (*domain.Movie, error) {
	return s.movieRepo.GetByID(ctx, id)
}

func (s *movieService) CreateMovie(ctx context.Context, input MovieInput) (*domain.Movie, error) {
	movie, err := s.build(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := s.movieRepo.Create(ctx, movie); err != nil {
		return nil, err
	}
	return movie, nil
}

// UpdateMovie replaces the catalog fields, including the stock count.
func (s *movieService) UpdateMovie(ctx context.Context, id uuid.UUID, input MovieInput) (*domain.Movie, error) {
	movie, err := s.build(ctx, input)
	if err != nil {
		return nil, err
	}
	movie.ID = id
	if err := s.movieRepo.Update(ctx, movie); err != nil {
		return nil, err
	}
	return movie, nil
}

func (s *movieService) DeleteMovie(ctx context.Context, id uuid.UUID) (*domain.Movie, error) {
	return s.movieRepo.Delete(ctx, id)
}

func (s *movieService) build(ctx context.Context, input MovieInput) (*domain.Movie, error) {
	movie := &domain.Movie{
		Title:           input.Title,
		NumberInStock:   input.NumberInStock,
		DailyRentalRate: input.DailyRentalRate,
	}
	if err := movie.Validate(); err != nil {
		return nil, err
	}

	genre, err := s.genreRepo.GetByID(ctx, input.GenreID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewInvalidReference("genre")
		}
		return nil, err
	}
	movie.Genre = *genre
	return movie, nil
}
