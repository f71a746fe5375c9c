// Package memory is a process-local store used for development and tests.
// All units of work are serialized under a single mutex and operate on a
// copy of the state that replaces the live state only on commit.
package memory

import (
	"context"
	"maps"
	"sync"

	"rentalstore-backend/internal/domain"
	"rentalstore-backend/internal/repository"

	"github.com/google/uuid"
)

type state struct {
	customers map[uuid.UUID]domain.Customer
	genres    map[uuid.UUID]domain.Genre
	movies    map[uuid.UUID]domain.Movie
	rentals   map[uuid.UUID]domain.Rental
	users     map[uuid.UUID]domain.User
}

func newState() *state {
	return &state{
		customers: make(map[uuid.UUID]domain.Customer),
		genres:    make(map[uuid.UUID]domain.Genre),
		movies:    make(map[uuid.UUID]domain.Movie),
		rentals:   make(map[uuid.UUID]domain.Rental),
		users:     make(map[uuid.UUID]domain.User),
	}
}

// clone copies the maps. Stored values are replaced wholesale on every write
// and never mutated in place, so copying the map entries is enough.
func (s *state) clone() *state {
	return &state{
		customers: maps.Clone(s.customers),
		genres:    maps.Clone(s.genres),
		movies:    maps.Clone(s.movies),
		rentals:   maps.Clone(s.rentals),
		users:     maps.Clone(s.users),
	}
}

type Store struct {
	mu sync.Mutex
	st *state
	*repository.Repositories
}

func NewStore() *Store {
	s := &Store{st: newState()}
	s.Repositories = newRepositories(&db{store: s})
	return s
}

// db routes a repository call either to the live state under the store lock
// or to the private copy of an in-flight unit of work.
type db struct {
	store *Store
	tx    *state
}

func (d *db) do(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.tx != nil {
		return fn(d.tx)
	}
	d.store.mu.Lock()
	defer d.store.mu.Unlock()
	return fn(d.store.st)
}

func newRepositories(d *db) *repository.Repositories {
	return &repository.Repositories{
		Customers: &customerRepository{d},
		Genres:    &genreRepository{d},
		Movies:    &movieRepository{d},
		Inventory: &inventoryLedger{d},
		Rentals:   &rentalRepository{d},
		Users:     &userRepository{d},
	}
}

// WithinTx implements repository.UnitOfWork. Repositories handed to fn must
// not be used after fn returns.
func (s *Store) WithinTx(ctx context.Context, fn func(repos *repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(newRepositories(&db{store: s, tx: work})); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = work
	return nil
}
