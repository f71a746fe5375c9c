package service

import (
	"context"

	"rentalstore-backend/internal/domain"

	"github.com/google/uuid"
)

// RentalService is the rental lifecycle engine. OpenRental and CloseRental
// each run as a single unit of work.
type RentalService interface {
	OpenRental(ctx context.Context, customerID, movieID uuid.UUID) (*domain.Rental, error)
	CloseRental(ctx context.Context, customerID, movieID uuid.UUID) (*domain.Rental, error)
	ListRentals(ctx context.Context) ([]domain.Rental, error)
	GetRental(ctx context.Context, id uuid.UUID) (*domain.Rental, error)
	DeleteRental(ctx context.Context, id uuid.UUID) (*domain.Rental, error)
}

type CustomerService interface {
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	CreateCustomer(ctx context.Context, customer *domain.Customer) error
	UpdateCustomer(ctx context.Context, customer *domain.Customer) error
	DeleteCustomer(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
}

type GenreService interface {
	ListGenres(ctx context.Context) ([]domain.Genre, error)
	GetGenre(ctx context.Context, id uuid.UUID) (*domain.Genre, error)
	CreateGenre(ctx context.Context, genre *domain.Genre) error
	UpdateGenre(ctx context.Context, genre *domain.Genre) error
	DeleteGenre(ctx context.Context, id uuid.UUID) (*domain.Genre, error)
}

// MovieInput is the caller-supplied part of a movie. The genre is resolved
// from GenreID and embedded in the stored movie.
type MovieInput struct {
	Title           string
	GenreID         uuid.UUID
	NumberInStock   int
	DailyRentalRate float64
}

type MovieService interface {
	ListMovies(ctx context.Context) ([]domain.Movie, error)
	GetMovie(ctx context.Context, id uuid.UUID) (*domain.Movie, error)
	CreateMovie(ctx context.Context, input MovieInput) (*domain.Movie, error)
	UpdateMovie(ctx context.Context, id uuid.UUID, input MovieInput) (*domain.Movie, error)
	DeleteMovie(ctx context.Context, id uuid.UUID) (*domain.Movie, error)
}

type UserService interface {
	// Register returns the new user and an auth token for it.
	Register(ctx context.Context, name, email, password string) (*domain.User, string, error)
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
}
