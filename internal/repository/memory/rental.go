package memory

import (
	"context"
	"strings"
	"time"

	"rentalstore-backend/internal/domain"

	"github.com/google/uuid"
)

type inventoryLedger struct{ db *db }

func (l *inventoryLedger) Decrement(ctx context.Context, movieID uuid.UUID) error {
	return l.db.do(ctx, func(st *state) error {
		m, ok := st.movies[movieID]
		if !ok {
			return domain.NewInvalidReference("movie")
		}
		if m.NumberInStock <= 0 {
			return domain.ErrInsufficientStock
		}
		m.NumberInStock--
		st.movies[movieID] = m
		return nil
	})
}

func (l *inventoryLedger) Increment(ctx context.Context, movieID uuid.UUID) error {
	return l.db.do(ctx, func(st *state) error {
		m, ok := st.movies[movieID]
		if !ok {
			return domain.NewInvalidReference("movie")
		}
		m.NumberInStock++
		st.movies[movieID] = m
		return nil
	})
}

func (l *inventoryLedger) Stock(ctx context.Context, movieID uuid.UUID) (int, error) {
	var stock int
	err := l.db.do(ctx, func(st *state) error {
		m, ok := st.movies[movieID]
		if !ok {
			return domain.NewInvalidReference("movie")
		}
		stock = m.NumberInStock
		return nil
	})
	return stock, err
}

func (l *inventoryLedger) ListOutOfStock(ctx context.Context) ([]domain.Movie, error) {
	var out []domain.Movie
	err := l.db.do(ctx, func(st *state) error {
		for _, m := range sortedValues(st.movies, compareTitle) {
			if m.NumberInStock <= 0 {
				out = append(out, m)
			}
		}
		return nil
	})
	return out, err
}

type rentalRepository struct{ db *db }

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	return r.db.do(ctx, func(st *state) error {
		if _, ok := findOpen(st, rt.Customer.ID, rt.Movie.ID); ok {
			return domain.ErrRentalAlreadyOpen
		}
		rt.ID = uuid.New()
		st.rentals[rt.ID] = *rt
		return nil
	})
}

func (r *rentalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Rental, error) {
	var out domain.Rental
	err := r.db.do(ctx, func(st *state) error {
		rt, ok := st.rentals[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = rt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *rentalRepository) List(ctx context.Context) ([]domain.Rental, error) {
	var out []domain.Rental
	err := r.db.do(ctx, func(st *state) error {
		out = sortedValues(st.rentals, newestFirst)
		return nil
	})
	return out, err
}

// FindOpenByCustomerAndMovie needs no explicit lock: a unit of work already
// holds the store mutex.
func (r *rentalRepository) FindOpenByCustomerAndMovie(ctx context.Context, customerID, movieID uuid.UUID) (*domain.Rental, error) {
	var out domain.Rental
	err := r.db.do(ctx, func(st *state) error {
		rt, ok := findOpen(st, customerID, movieID)
		if !ok {
			return domain.ErrNotFound
		}
		out = rt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *rentalRepository) FindLatestByCustomerAndMovie(ctx context.Context, customerID, movieID uuid.UUID) (*domain.Rental, error) {
	var out *domain.Rental
	err := r.db.do(ctx, func(st *state) error {
		for _, rt := range sortedValues(st.rentals, newestFirst) {
			if rt.Customer.ID == customerID && rt.Movie.ID == movieID {
				out = &rt
				return nil
			}
		}
		return domain.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *rentalRepository) Update(ctx context.Context, rt *domain.Rental) error {
	return r.db.do(ctx, func(st *state) error {
		cur, ok := st.rentals[rt.ID]
		if !ok || !cur.IsOpen() {
			return domain.ErrAlreadyProcessed
		}
		cur.DateReturned = rt.DateReturned
		cur.RentalFee = rt.RentalFee
		st.rentals[rt.ID] = cur
		return nil
	})
}

func (r *rentalRepository) Delete(ctx context.Context, id uuid.UUID) (*domain.Rental, error) {
	var out domain.Rental
	err := r.db.do(ctx, func(st *state) error {
		rt, ok := st.rentals[id]
		if !ok {
			return domain.ErrNotFound
		}
		delete(st.rentals, id)
		out = rt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *rentalRepository) ListOutstanding(ctx context.Context, before time.Time) ([]domain.Rental, error) {
	var out []domain.Rental
	err := r.db.do(ctx, func(st *state) error {
		all := sortedValues(st.rentals, newestFirst)
		for i := len(all) - 1; i >= 0; i-- {
			if all[i].IsOpen() && all[i].DateOut.Before(before) {
				out = append(out, all[i])
			}
		}
		return nil
	})
	return out, err
}

func (r *rentalRepository) CountOutstandingByMovie(ctx context.Context) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int)
	err := r.db.do(ctx, func(st *state) error {
		for _, rt := range st.rentals {
			if rt.IsOpen() {
				counts[rt.Movie.ID]++
			}
		}
		return nil
	})
	return counts, err
}

func findOpen(st *state, customerID, movieID uuid.UUID) (domain.Rental, bool) {
	for _, rt := range st.rentals {
		if rt.IsOpen() && rt.Customer.ID == customerID && rt.Movie.ID == movieID {
			return rt, true
		}
	}
	return domain.Rental{}, false
}

func newestFirst(a, b domain.Rental) int {
	return b.DateOut.Compare(a.DateOut)
}

type userRepository struct{ db *db }

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	return r.db.do(ctx, func(st *state) error {
		email := strings.ToLower(u.Email)
		for _, existing := range st.users {
			if existing.Email == email {
				return domain.ErrEmailTaken
			}
		}
		u.ID = uuid.New()
		u.Email = email
		st.users[u.ID] = *u
		return nil
	})
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var out domain.User
	err := r.db.do(ctx, func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var out domain.User
	err := r.db.do(ctx, func(st *state) error {
		email = strings.ToLower(email)
		for _, u := range st.users {
			if u.Email == email {
				out = u
				return nil
			}
		}
		return domain.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
