package repository

import (
	"context"
	"time"

	"rentalstore-backend/internal/domain"

	"github.com/google/uuid"
)

// Lookups return domain.ErrNotFound when the row does not exist. Delete
// returns the removed entity.

type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	List(ctx context.Context) ([]domain.Customer, error)
	Update(ctx context.Context, customer *domain.Customer) error
	Delete(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
}

type GenreRepository interface {
	Create(ctx context.Context, genre *domain.Genre) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Genre, error)
	List(ctx context.Context) ([]domain.Genre, error)
	Update(ctx context.Context, genre *domain.Genre) error
	Delete(ctx context.Context, id uuid.UUID) (*domain.Genre, error)
}

type MovieRepository interface {
	Create(ctx context.Context, movie *domain.Movie) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Movie, error)
	List(ctx context.Context) ([]domain.Movie, error)
	Update(ctx context.Context, movie *domain.Movie) error
	Delete(ctx context.Context, id uuid.UUID) (*domain.Movie, error)
}

// InventoryLedger owns the per-movie stock counter. Every change is an atomic
// read-modify-write and the counter never goes below zero.
type InventoryLedger interface {
	// Decrement removes one unit. It fails with domain.ErrInsufficientStock
	// when the stock is already zero at the moment the change is applied.
	Decrement(ctx context.Context, movieID uuid.UUID) error
	// Increment returns one unit.
	Increment(ctx context.Context, movieID uuid.UUID) error
	Stock(ctx context.Context, movieID uuid.UUID) (int, error)
	// ListOutOfStock returns the movies whose stock is zero or below.
	ListOutOfStock(ctx context.Context) ([]domain.Movie, error)
}

type RentalRepository interface {
	// Create assigns the rental ID. A second open rental for the same
	// customer and movie fails with domain.ErrRentalAlreadyOpen.
	Create(ctx context.Context, rental *domain.Rental) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Rental, error)
	// List returns every rental, most recent dateOut first.
	List(ctx context.Context) ([]domain.Rental, error)
	// FindOpenByCustomerAndMovie locks the returned row until the enclosing
	// unit of work ends.
	FindOpenByCustomerAndMovie(ctx context.Context, customerID, movieID uuid.UUID) (*domain.Rental, error)
	FindLatestByCustomerAndMovie(ctx context.Context, customerID, movieID uuid.UUID) (*domain.Rental, error)
	// Update persists DateReturned and RentalFee. It only applies to a rental
	// that is still open and fails with domain.ErrAlreadyProcessed otherwise.
	Update(ctx context.Context, rental *domain.Rental) error
	Delete(ctx context.Context, id uuid.UUID) (*domain.Rental, error)
	// ListOutstanding returns open rentals checked out before the given time,
	// oldest first.
	ListOutstanding(ctx context.Context, before time.Time) ([]domain.Rental, error)
	CountOutstandingByMovie(ctx context.Context) (map[uuid.UUID]int, error)
}

type UserRepository interface {
	// Create fails with domain.ErrEmailTaken when the email is registered.
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Repositories groups the repositories bound to one connection or one
// transaction.
type Repositories struct {
	Customers CustomerRepository
	Genres    GenreRepository
	Movies    MovieRepository
	Inventory InventoryLedger
	Rentals   RentalRepository
	Users     UserRepository
}

// UnitOfWork runs fn against repositories bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise. A
// cancelled context before commit also rolls back.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(repos *Repositories) error) error
}
